// Package database opens the relational store used for run history.
package database

import (
	"fmt"
	"strings"

	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/taaslabs/taas-backend/runhistory"
)

// Config holds database connection settings.
type Config struct {
	Driver   string
	Host     string
	Port     int
	User     string
	Password string
	Name     string
	// Path is the database file for the sqlite driver.
	Path string
	// LogQueries enables SQL statement logging.
	LogQueries bool
}

// Connect opens a database connection for the configured driver.
func Connect(cfg Config) (*gorm.DB, error) {
	gormCfg := &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	}
	if cfg.LogQueries {
		gormCfg.Logger = gormlogger.Default.LogMode(gormlogger.Info)
	}

	switch strings.ToLower(cfg.Driver) {
	case "mysql":
		dsn := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&parseTime=True&loc=Local",
			cfg.User, cfg.Password, cfg.Host, cfg.Port, cfg.Name)
		db, err := gorm.Open(mysql.Open(dsn), gormCfg)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to mysql: %w", err)
		}
		return db, nil

	case "", "sqlite":
		path := cfg.Path
		if path == "" {
			path = "taas.db"
		}
		db, err := gorm.Open(sqlite.Open(path), gormCfg)
		if err != nil {
			return nil, fmt.Errorf("failed to open sqlite database: %w", err)
		}
		return db, nil

	default:
		return nil, fmt.Errorf("unsupported database driver: %s", cfg.Driver)
	}
}

// Migrate runs schema migrations for all persisted models.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&runhistory.Run{}); err != nil {
		return fmt.Errorf("failed to migrate schema: %w", err)
	}
	return nil
}
