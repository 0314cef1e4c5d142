// Package runhistory records every execution pass so past runs can be
// queried without crawling report directories.
package runhistory

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	// ErrRunNotFound is returned when a run is not found.
	ErrRunNotFound = errors.New("run not found")

	// ErrInvalidObjective is returned when objective is not set.
	ErrInvalidObjective = errors.New("objective is required")

	// ErrInvalidStatus is returned when status is invalid.
	ErrInvalidStatus = errors.New("invalid status")

	// ErrRunNotRunning is returned when completing a run that is not running.
	ErrRunNotRunning = errors.New("run is not running")

	// ErrRunAlreadyStarted is returned when starting an already started run.
	ErrRunAlreadyStarted = errors.New("run already started")
)

// Status represents the lifecycle state of a run.
type Status string

const (
	StatusPending   Status = "pending"
	StatusRunning   Status = "running"
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
)

// IsValid checks if the status is valid.
func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusRunning, StatusCompleted, StatusFailed:
		return true
	default:
		return false
	}
}

// IsFinal checks if the status is a final status.
func (s Status) IsFinal() bool {
	return s == StatusCompleted || s == StatusFailed
}

// Run is one recorded execution pass.
type Run struct {
	ID           uuid.UUID  `json:"id" gorm:"type:char(36);primaryKey"`
	Objective    string     `json:"objective" gorm:"type:text;not null"`
	TargetURL    string     `json:"target_url" gorm:"type:varchar(2048)"`
	ScenarioName string     `json:"scenario_name" gorm:"type:varchar(255);index:idx_scenario_name"`
	Status       Status     `json:"status" gorm:"type:varchar(20);not null;default:'pending';index:idx_status"`
	ReportDir    string     `json:"report_dir" gorm:"type:varchar(512)"`
	TotalSteps   int        `json:"total_steps"`
	PassedSteps  int        `json:"passed_steps"`
	FailedSteps  int        `json:"failed_steps"`
	WarningSteps int        `json:"warning_steps"`
	StartedAt    *time.Time `json:"started_at,omitempty" gorm:"index:idx_started_at"`
	CompletedAt  *time.Time `json:"completed_at,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// BeforeCreate hook to generate UUID before creating a new run
func (r *Run) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}

// Validate checks if the run has valid required fields.
func (r *Run) Validate() error {
	if r.Objective == "" {
		return ErrInvalidObjective
	}
	if !r.Status.IsValid() {
		return ErrInvalidStatus
	}
	return nil
}

// Start sets the started_at timestamp and changes status to running.
func (r *Run) Start() error {
	if r.StartedAt != nil {
		return ErrRunAlreadyStarted
	}
	now := time.Now()
	r.StartedAt = &now
	r.Status = StatusRunning
	return nil
}

// Complete sets the completed_at timestamp and a final status.
func (r *Run) Complete(status Status) error {
	if r.Status != StatusRunning {
		return ErrRunNotRunning
	}
	if !status.IsFinal() {
		return ErrInvalidStatus
	}
	now := time.Now()
	r.CompletedAt = &now
	r.Status = status
	return nil
}
