package timesheet

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// EntryFilter defines filtering options for time entry queries
type EntryFilter struct {
	TaskID    *uuid.UUID
	UserID    *uuid.UUID
	StartFrom *time.Time // entries whose start time is at or after this instant
	StartTo   *time.Time // entries whose start time is at or before this instant
	Completed *bool      // true: only completed, false: only active, nil: both
}

// TimeEntryRepository defines the interface for persisting and querying
// time entries. FindActiveByUser is the read side of the
// one-active-entry-per-user invariant; the tracking service serializes
// writes per user, and the storage schema backs this up with a partial
// unique index on (user_id) where end_time is null.
type TimeEntryRepository interface {
	Save(ctx context.Context, entry *TimeEntry) error
	Update(ctx context.Context, entry *TimeEntry) error
	FindByID(ctx context.Context, id uuid.UUID) (*TimeEntry, error)
	FindActiveByUser(ctx context.Context, userID uuid.UUID) (*TimeEntry, error)
	FindActiveByUserAndTask(ctx context.Context, userID, taskID uuid.UUID) (*TimeEntry, error)
	FindAll(ctx context.Context, filter EntryFilter) ([]*TimeEntry, error)
}
