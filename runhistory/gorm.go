package runhistory

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/taaslabs/taas-backend/logger"
)

// GormStore implements the Store interface using GORM.
type GormStore struct {
	db     *gorm.DB
	logger logger.Logger
}

// NewGormStore creates a GORM-backed run store.
func NewGormStore(db *gorm.DB, log logger.Logger) *GormStore {
	return &GormStore{
		db:     db,
		logger: log,
	}
}

// Create creates a new run record.
func (s *GormStore) Create(ctx context.Context, run *Run) error {
	if run.Status == "" {
		run.Status = StatusPending
	}
	if err := run.Validate(); err != nil {
		return err
	}

	if err := s.db.WithContext(ctx).Create(run).Error; err != nil {
		s.logger.Error(ctx, "failed to create run", map[string]interface{}{
			"error":     err.Error(),
			"objective": run.Objective,
		})
		return err
	}

	s.logger.Info(ctx, "run created", map[string]interface{}{
		"run_id":    run.ID,
		"objective": run.Objective,
	})
	return nil
}

// GetByID retrieves a run by its ID.
func (s *GormStore) GetByID(ctx context.Context, id uuid.UUID) (*Run, error) {
	var run Run
	err := s.db.WithContext(ctx).
		Where("id = ?", id).
		First(&run).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRunNotFound
		}
		s.logger.Error(ctx, "failed to get run by ID", map[string]interface{}{
			"error":  err.Error(),
			"run_id": id,
		})
		return nil, err
	}
	return &run, nil
}

// List retrieves a paginated list of runs, newest first.
func (s *GormStore) List(ctx context.Context, limit, offset int) ([]*Run, error) {
	var runs []*Run
	err := s.db.WithContext(ctx).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&runs).Error
	if err != nil {
		s.logger.Error(ctx, "failed to list runs", map[string]interface{}{
			"error":  err.Error(),
			"limit":  limit,
			"offset": offset,
		})
		return nil, err
	}
	return runs, nil
}

// Start marks a run as started.
func (s *GormStore) Start(ctx context.Context, id uuid.UUID) error {
	run, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := run.Start(); err != nil {
		return err
	}
	if err := s.db.WithContext(ctx).Save(run).Error; err != nil {
		s.logger.Error(ctx, "failed to start run", map[string]interface{}{
			"error":  err.Error(),
			"run_id": id,
		})
		return err
	}
	return nil
}

// Complete marks a run as completed and records its outcome.
func (s *GormStore) Complete(ctx context.Context, id uuid.UUID, status Status, outcome Outcome) error {
	run, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := run.Complete(status); err != nil {
		return err
	}
	run.ReportDir = outcome.ReportDir
	run.TotalSteps = outcome.TotalSteps
	run.PassedSteps = outcome.PassedSteps
	run.FailedSteps = outcome.FailedSteps
	run.WarningSteps = outcome.WarningSteps

	if err := s.db.WithContext(ctx).Save(run).Error; err != nil {
		s.logger.Error(ctx, "failed to complete run", map[string]interface{}{
			"error":  err.Error(),
			"run_id": id,
		})
		return err
	}

	s.logger.Info(ctx, "run completed", map[string]interface{}{
		"run_id": id,
		"status": status,
	})
	return nil
}
