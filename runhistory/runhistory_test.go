package runhistory

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taaslabs/taas-backend/logger"
	"github.com/taaslabs/taas-backend/testutil"
)

func newTestStore(t *testing.T) *GormStore {
	t.Helper()
	db := testutil.SetupTestDB(t, &Run{})
	return NewGormStore(db, logger.NewTestLogger())
}

func TestCreateAndGet(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	run := &Run{
		Objective:    "search for laptops on the catalogue",
		TargetURL:    "https://shop.example.com",
		ScenarioName: "Search flow",
	}
	require.NoError(t, store.Create(ctx, run))
	assert.NotEqual(t, uuid.Nil, run.ID)
	assert.Equal(t, StatusPending, run.Status)

	got, err := store.GetByID(ctx, run.ID)
	require.NoError(t, err)
	assert.Equal(t, run.Objective, got.Objective)
	assert.Equal(t, StatusPending, got.Status)
}

func TestCreateRequiresObjective(t *testing.T) {
	store := newTestStore(t)
	err := store.Create(context.Background(), &Run{})
	assert.ErrorIs(t, err, ErrInvalidObjective)
}

func TestGetMissingRun(t *testing.T) {
	store := newTestStore(t)
	_, err := store.GetByID(context.Background(), uuid.New())
	assert.ErrorIs(t, err, ErrRunNotFound)
}

func TestRunLifecycle(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	run := &Run{Objective: "checkout flow"}
	require.NoError(t, store.Create(ctx, run))

	require.NoError(t, store.Start(ctx, run.ID))
	started, err := store.GetByID(ctx, run.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusRunning, started.Status)
	require.NotNil(t, started.StartedAt)

	// Starting twice is rejected.
	assert.ErrorIs(t, store.Start(ctx, run.ID), ErrRunAlreadyStarted)

	outcome := Outcome{
		ReportDir:    "report-2026-01-15T10-30-00-000",
		TotalSteps:   4,
		PassedSteps:  3,
		FailedSteps:  1,
		WarningSteps: 0,
	}
	require.NoError(t, store.Complete(ctx, run.ID, StatusFailed, outcome))

	done, err := store.GetByID(ctx, run.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusFailed, done.Status)
	assert.Equal(t, 4, done.TotalSteps)
	assert.Equal(t, 1, done.FailedSteps)
	assert.Equal(t, "report-2026-01-15T10-30-00-000", done.ReportDir)
	require.NotNil(t, done.CompletedAt)
}

func TestCompleteRequiresRunning(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	run := &Run{Objective: "login flow"}
	require.NoError(t, store.Create(ctx, run))

	err := store.Complete(ctx, run.ID, StatusCompleted, Outcome{})
	assert.ErrorIs(t, err, ErrRunNotRunning)
}

func TestCompleteRejectsNonFinalStatus(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	run := &Run{Objective: "login flow"}
	require.NoError(t, store.Create(ctx, run))
	require.NoError(t, store.Start(ctx, run.ID))

	err := store.Complete(ctx, run.ID, StatusRunning, Outcome{})
	assert.ErrorIs(t, err, ErrInvalidStatus)
}

func TestListNewestFirst(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	first := &Run{Objective: "first run", CreatedAt: time.Now().Add(-time.Hour)}
	second := &Run{Objective: "second run"}
	require.NoError(t, store.Create(ctx, first))
	require.NoError(t, store.Create(ctx, second))

	runs, err := store.List(ctx, 10, 0)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, "second run", runs[0].Objective)

	page, err := store.List(ctx, 1, 1)
	require.NoError(t, err)
	require.Len(t, page, 1)
	assert.Equal(t, "first run", page[0].Objective)
}

func TestStatusHelpers(t *testing.T) {
	assert.True(t, StatusCompleted.IsValid())
	assert.True(t, StatusCompleted.IsFinal())
	assert.False(t, StatusRunning.IsFinal())
	assert.False(t, Status("cancelled").IsValid())
}
