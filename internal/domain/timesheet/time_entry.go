package timesheet

import (
	"time"

	"github.com/google/uuid"
	"github.com/taskflow/backend/internal/domain/shared"
	"github.com/taskflow/backend/internal/domain/shared/valueobject"
)

// Maximum span a single entry may cover before validation flags it
const maxEntryMinutes = 24 * 60

// TimeEntry records time spent on a task. An entry is Active from
// creation until it is completed: completion sets the end time and
// derives the duration and cost, and is a one-way move. The rate is
// captured at start so later rate changes never rewrite history.
type TimeEntry struct {
	shared.BaseEntity
	TaskID      uuid.UUID
	UserID      uuid.UUID
	Description string
	StartTime   time.Time
	EndTime     *time.Time
	Rate        valueobject.Money // hourly rate captured at start
	Cost        valueobject.Money // derived at completion
	Duration    valueobject.TimeDuration
}

// NewTimeEntry starts a new active entry at the given time
func NewTimeEntry(taskID, userID uuid.UUID, rate valueobject.Money, startTime time.Time, description string) (*TimeEntry, error) {
	if taskID == uuid.Nil {
		return nil, shared.NewInvalidArgument("task ID cannot be empty")
	}
	if userID == uuid.Nil {
		return nil, shared.NewInvalidArgument("user ID cannot be empty")
	}
	if rate.Currency() == "" {
		return nil, shared.NewInvalidArgument("rate currency cannot be empty")
	}

	return &TimeEntry{
		BaseEntity:  shared.NewBaseEntity(),
		TaskID:      taskID,
		UserID:      userID,
		Description: description,
		StartTime:   startTime,
		Rate:        rate,
		Cost:        valueobject.Zero(rate.Currency()),
	}, nil
}

// IsActive returns true while the entry has no end time
func (e *TimeEntry) IsActive() bool {
	return e.EndTime == nil
}

// IsCompleted returns true once the entry has been finalized
func (e *TimeEntry) IsCompleted() bool {
	return e.EndTime != nil
}

// Complete finalizes the entry at the given time, deriving the duration
// and the cost from the captured rate. Completing an already completed
// entry is a no-op, so repeated calls never rewrite the result.
func (e *TimeEntry) Complete(at time.Time) error {
	if e.IsCompleted() {
		return nil
	}
	if at.Before(e.StartTime) {
		return shared.NewInvalidArgument("end time cannot be before start time")
	}

	minutes := int64(at.Sub(e.StartTime).Minutes())
	duration, err := valueobject.NewTimeDuration(minutes)
	if err != nil {
		return err
	}

	cost, err := e.Rate.Multiply(duration.DecimalHoursExact())
	if err != nil {
		return err
	}

	e.EndTime = &at
	e.Duration = duration
	e.Cost = cost
	e.Touch()
	return nil
}

// Violations lists the integrity problems of an entry without mutating
// it. It is intended as a pre-save check; an empty result means the
// entry is consistent.
func (e *TimeEntry) Violations() []string {
	var violations []string

	if e.EndTime != nil {
		if e.StartTime.After(*e.EndTime) {
			violations = append(violations, "start time cannot be after end time")
		} else if e.EndTime.Sub(e.StartTime).Minutes() > maxEntryMinutes {
			violations = append(violations, "time entry cannot exceed 24 hours")
		}
	}

	return violations
}
