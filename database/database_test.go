package database

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taaslabs/taas-backend/runhistory"
)

func TestConnectSqliteAndMigrate(t *testing.T) {
	db, err := Connect(Config{
		Driver: "sqlite",
		Path:   filepath.Join(t.TempDir(), "test.db"),
	})
	require.NoError(t, err)
	require.NoError(t, Migrate(db))

	assert.True(t, db.Migrator().HasTable(&runhistory.Run{}))
}

func TestConnectDefaultsToSqlite(t *testing.T) {
	db, err := Connect(Config{Path: filepath.Join(t.TempDir(), "default.db")})
	require.NoError(t, err)
	assert.NotNil(t, db)
}

func TestConnectRejectsUnknownDriver(t *testing.T) {
	_, err := Connect(Config{Driver: "postgres"})
	assert.Error(t, err)
}
