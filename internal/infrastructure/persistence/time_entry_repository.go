package persistence

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/taskflow/backend/internal/domain/shared"
	"github.com/taskflow/backend/internal/domain/timesheet"
	"github.com/taskflow/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormTimeEntryRepository implements TimeEntryRepository using GORM.
// The schema carries a partial unique index on (user_id) where end_time
// is null, so even a write that slips past the service's per-user lock
// cannot leave two running entries for one user.
type GormTimeEntryRepository struct {
	db *gorm.DB
}

// NewGormTimeEntryRepository creates a new GormTimeEntryRepository
func NewGormTimeEntryRepository(db *gorm.DB) *GormTimeEntryRepository {
	return &GormTimeEntryRepository{db: db}
}

// Save persists a new time entry
func (r *GormTimeEntryRepository) Save(ctx context.Context, e *timesheet.TimeEntry) error {
	if err := checkEntry(e); err != nil {
		return err
	}
	var model models.TimeEntryModel
	model.FromDomain(e)
	err := r.db.WithContext(ctx).Create(&model).Error
	if err != nil && errors.Is(err, gorm.ErrDuplicatedKey) {
		return shared.ErrConcurrencyConflict
	}
	return err
}

// Update persists changes to an existing time entry
func (r *GormTimeEntryRepository) Update(ctx context.Context, e *timesheet.TimeEntry) error {
	if err := checkEntry(e); err != nil {
		return err
	}
	var model models.TimeEntryModel
	model.FromDomain(e)
	result := r.db.WithContext(ctx).Model(&models.TimeEntryModel{}).
		Where("id = ?", model.ID).
		Select("*").Omit("id", "created_at").
		Updates(&model)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// checkEntry rejects writes of entries that fail domain validation
func checkEntry(e *timesheet.TimeEntry) error {
	if violations := e.Violations(); len(violations) > 0 {
		return shared.NewInvalidArgument("invalid time entry: " + strings.Join(violations, "; "))
	}
	return nil
}

// FindByID finds a time entry by its ID
func (r *GormTimeEntryRepository) FindByID(ctx context.Context, id uuid.UUID) (*timesheet.TimeEntry, error) {
	var model models.TimeEntryModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindActiveByUser finds the user's currently running entry
func (r *GormTimeEntryRepository) FindActiveByUser(ctx context.Context, userID uuid.UUID) (*timesheet.TimeEntry, error) {
	var model models.TimeEntryModel
	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND end_time IS NULL", userID).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindActiveByUserAndTask finds the user's running entry on a specific task
func (r *GormTimeEntryRepository) FindActiveByUserAndTask(ctx context.Context, userID, taskID uuid.UUID) (*timesheet.TimeEntry, error) {
	var model models.TimeEntryModel
	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND task_id = ? AND end_time IS NULL", userID, taskID).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAll finds time entries matching the filter
func (r *GormTimeEntryRepository) FindAll(ctx context.Context, filter timesheet.EntryFilter) ([]*timesheet.TimeEntry, error) {
	query := r.db.WithContext(ctx).Model(&models.TimeEntryModel{})

	if filter.TaskID != nil {
		query = query.Where("task_id = ?", *filter.TaskID)
	}
	if filter.UserID != nil {
		query = query.Where("user_id = ?", *filter.UserID)
	}
	if filter.StartFrom != nil {
		query = query.Where("start_time >= ?", *filter.StartFrom)
	}
	if filter.StartTo != nil {
		query = query.Where("start_time <= ?", *filter.StartTo)
	}
	if filter.Completed != nil {
		if *filter.Completed {
			query = query.Where("end_time IS NOT NULL")
		} else {
			query = query.Where("end_time IS NULL")
		}
	}

	var entryModels []models.TimeEntryModel
	if err := query.Order("start_time DESC").Find(&entryModels).Error; err != nil {
		return nil, err
	}

	entries := make([]*timesheet.TimeEntry, len(entryModels))
	for i := range entryModels {
		entries[i] = entryModels[i].ToDomain()
	}
	return entries, nil
}
