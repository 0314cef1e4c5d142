package runhistory

import (
	"context"

	"github.com/google/uuid"
)

// Store defines the interface for run persistence operations.
type Store interface {
	// Create creates a new run record.
	Create(ctx context.Context, run *Run) error

	// GetByID retrieves a run by its ID.
	GetByID(ctx context.Context, id uuid.UUID) (*Run, error)

	// List retrieves a paginated list of runs, newest first.
	List(ctx context.Context, limit, offset int) ([]*Run, error)

	// Start marks a run as started.
	Start(ctx context.Context, id uuid.UUID) error

	// Complete marks a run as completed with step counts and the report
	// directory it produced.
	Complete(ctx context.Context, id uuid.UUID, status Status, outcome Outcome) error
}

// Outcome carries the step counters recorded when a run finishes.
type Outcome struct {
	ReportDir    string
	TotalSteps   int
	PassedSteps  int
	FailedSteps  int
	WarningSteps int
}
