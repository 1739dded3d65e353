package timesheet

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/taskflow/backend/internal/domain/shared"
	"github.com/taskflow/backend/internal/domain/shared/valueobject"
	"github.com/taskflow/backend/internal/domain/timesheet"
	"go.uber.org/zap"
)

// StartInput contains input for starting time tracking on a task
type StartInput struct {
	TaskID      uuid.UUID
	UserID      uuid.UUID
	HourlyRate  *valueobject.Money // nil: track at a zero rate
	Description string
}

// EntryStatistics summarizes a set of completed time entries
type EntryStatistics struct {
	EntryCount      int
	TotalDuration   valueobject.TimeDuration
	TotalCost       valueobject.Money
	AverageDuration valueobject.TimeDuration
	AverageCost     valueobject.Money
}

// TrackingService coordinates the time tracking lifecycle. A user has at
// most one active entry at any moment; Start and Stop for the same user
// are serialized through a per-user lock so two concurrent Starts can
// never leave two entries running.
type TrackingService struct {
	entries  timesheet.TimeEntryRepository
	logger   *zap.Logger
	currency valueobject.Currency

	userLocks sync.Map // uuid.UUID -> *sync.Mutex
	now       func() time.Time
}

// NewTrackingService creates a new TrackingService. The currency is used
// for zero-rate entries and empty aggregates.
func NewTrackingService(
	entries timesheet.TimeEntryRepository,
	currency valueobject.Currency,
	logger *zap.Logger,
) *TrackingService {
	return &TrackingService{
		entries:  entries,
		logger:   logger,
		currency: currency,
		now:      time.Now,
	}
}

// lockUser acquires the lock serializing start/stop for one user
func (s *TrackingService) lockUser(userID uuid.UUID) *sync.Mutex {
	mu, _ := s.userLocks.LoadOrStore(userID, &sync.Mutex{})
	lock := mu.(*sync.Mutex)
	lock.Lock()
	return lock
}

// Start begins tracking time on a task. If the user already has an
// active entry, anywhere, it is completed first against its own captured
// rate, then the new entry starts. The returned entry is the new active
// one.
func (s *TrackingService) Start(ctx context.Context, input StartInput) (*timesheet.TimeEntry, error) {
	lock := s.lockUser(input.UserID)
	defer lock.Unlock()

	startedAt := s.now()

	active, err := s.entries.FindActiveByUser(ctx, input.UserID)
	if err != nil && !errors.Is(err, shared.ErrNotFound) {
		s.logger.Error("Failed to look up active time entry", zap.Error(err))
		return nil, err
	}
	if active != nil {
		if err := active.Complete(startedAt); err != nil {
			return nil, err
		}
		if err := s.entries.Update(ctx, active); err != nil {
			s.logger.Error("Failed to complete previous time entry",
				zap.String("entry_id", active.ID.String()),
				zap.Error(err))
			return nil, err
		}
		s.logger.Info("Completed previous time entry before starting a new one",
			zap.String("user_id", input.UserID.String()),
			zap.String("entry_id", active.ID.String()),
			zap.Int64("duration_minutes", active.Duration.Minutes()))
	}

	rate := valueobject.Zero(s.currency)
	if input.HourlyRate != nil {
		rate = *input.HourlyRate
	}

	entry, err := timesheet.NewTimeEntry(input.TaskID, input.UserID, rate, startedAt, input.Description)
	if err != nil {
		return nil, err
	}
	if err := s.entries.Save(ctx, entry); err != nil {
		s.logger.Error("Failed to save time entry", zap.Error(err))
		return nil, err
	}

	s.logger.Info("Started time tracking",
		zap.String("user_id", input.UserID.String()),
		zap.String("task_id", input.TaskID.String()),
		zap.String("entry_id", entry.ID.String()))
	return entry, nil
}

// Stop completes the user's active entry on the given task. Returns
// (nil, nil) when the user has no active entry on that task: stopping
// something that is not running is not an error.
func (s *TrackingService) Stop(ctx context.Context, userID, taskID uuid.UUID) (*timesheet.TimeEntry, error) {
	lock := s.lockUser(userID)
	defer lock.Unlock()

	active, err := s.entries.FindActiveByUserAndTask(ctx, userID, taskID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, nil
		}
		s.logger.Error("Failed to look up active time entry", zap.Error(err))
		return nil, err
	}
	if active == nil {
		return nil, nil
	}

	if err := active.Complete(s.now()); err != nil {
		return nil, err
	}
	if err := s.entries.Update(ctx, active); err != nil {
		s.logger.Error("Failed to update time entry", zap.Error(err))
		return nil, err
	}

	s.logger.Info("Stopped time tracking",
		zap.String("user_id", userID.String()),
		zap.String("task_id", taskID.String()),
		zap.String("entry_id", active.ID.String()),
		zap.Int64("duration_minutes", active.Duration.Minutes()))
	return active, nil
}

// CompleteEntry finalizes a specific entry by ID at the current time.
// Completing an already completed entry is a no-op.
func (s *TrackingService) CompleteEntry(ctx context.Context, entryID uuid.UUID) (*timesheet.TimeEntry, error) {
	entry, err := s.entries.FindByID(ctx, entryID)
	if err != nil {
		return nil, err
	}
	if entry.IsCompleted() {
		return entry, nil
	}

	lock := s.lockUser(entry.UserID)
	defer lock.Unlock()

	// Re-read under the lock; a concurrent Stop may have won.
	entry, err = s.entries.FindByID(ctx, entryID)
	if err != nil {
		return nil, err
	}
	if entry.IsCompleted() {
		return entry, nil
	}

	if err := entry.Complete(s.now()); err != nil {
		return nil, err
	}
	if err := s.entries.Update(ctx, entry); err != nil {
		return nil, err
	}
	return entry, nil
}

// ActiveEntry returns the user's currently running entry, or nil when
// nothing is being tracked
func (s *TrackingService) ActiveEntry(ctx context.Context, userID uuid.UUID) (*timesheet.TimeEntry, error) {
	entry, err := s.entries.FindActiveByUser(ctx, userID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return entry, nil
}

// Entries returns entries matching the filter
func (s *TrackingService) Entries(ctx context.Context, filter timesheet.EntryFilter) ([]*timesheet.TimeEntry, error) {
	return s.entries.FindAll(ctx, filter)
}

// TaskDuration returns the total completed time logged against a task
func (s *TrackingService) TaskDuration(ctx context.Context, taskID uuid.UUID) (valueobject.TimeDuration, error) {
	entries, err := s.completedEntries(ctx, timesheet.EntryFilter{TaskID: &taskID})
	if err != nil {
		return valueobject.ZeroDuration(), err
	}
	return sumDurations(entries), nil
}

// TaskCost returns the total cost of completed time logged against a task
func (s *TrackingService) TaskCost(ctx context.Context, taskID uuid.UUID) (valueobject.Money, error) {
	entries, err := s.completedEntries(ctx, timesheet.EntryFilter{TaskID: &taskID})
	if err != nil {
		return valueobject.Money{}, err
	}
	return s.sumCosts(entries)
}

// UserDuration returns the total completed time a user logged inside the
// given window. Nil bounds leave that side of the window open.
func (s *TrackingService) UserDuration(ctx context.Context, userID uuid.UUID, from, to *time.Time) (valueobject.TimeDuration, error) {
	entries, err := s.completedEntries(ctx, timesheet.EntryFilter{
		UserID:    &userID,
		StartFrom: from,
		StartTo:   to,
	})
	if err != nil {
		return valueobject.ZeroDuration(), err
	}
	return sumDurations(entries), nil
}

// UserCost returns the total cost of completed time a user logged inside
// the given window
func (s *TrackingService) UserCost(ctx context.Context, userID uuid.UUID, from, to *time.Time) (valueobject.Money, error) {
	entries, err := s.completedEntries(ctx, timesheet.EntryFilter{
		UserID:    &userID,
		StartFrom: from,
		StartTo:   to,
	})
	if err != nil {
		return valueobject.Money{}, err
	}
	return s.sumCosts(entries)
}

// Statistics summarizes completed entries matching the filter. Active
// entries are excluded; they have no duration or cost yet.
func (s *TrackingService) Statistics(ctx context.Context, filter timesheet.EntryFilter) (*EntryStatistics, error) {
	entries, err := s.completedEntries(ctx, filter)
	if err != nil {
		return nil, err
	}

	stats := &EntryStatistics{
		EntryCount:      len(entries),
		TotalDuration:   sumDurations(entries),
		TotalCost:       valueobject.Zero(s.currency),
		AverageDuration: valueobject.ZeroDuration(),
		AverageCost:     valueobject.Zero(s.currency),
	}
	if len(entries) == 0 {
		return stats, nil
	}

	totalCost, err := s.sumCosts(entries)
	if err != nil {
		return nil, err
	}
	stats.TotalCost = totalCost

	avgDuration, err := stats.TotalDuration.Divide(float64(len(entries)))
	if err != nil {
		return nil, err
	}
	stats.AverageDuration = avgDuration

	avgCost, err := totalCost.DivideByInt(int64(len(entries)))
	if err != nil {
		return nil, err
	}
	stats.AverageCost = avgCost

	return stats, nil
}

func (s *TrackingService) completedEntries(ctx context.Context, filter timesheet.EntryFilter) ([]*timesheet.TimeEntry, error) {
	completed := true
	filter.Completed = &completed
	return s.entries.FindAll(ctx, filter)
}

// sumCosts adds up entry costs, starting from zero in the service's
// configured currency when the set is empty
func (s *TrackingService) sumCosts(entries []*timesheet.TimeEntry) (valueobject.Money, error) {
	if len(entries) == 0 {
		return valueobject.Zero(s.currency), nil
	}
	total := valueobject.Zero(entries[0].Cost.Currency())
	for _, entry := range entries {
		sum, err := total.Add(entry.Cost)
		if err != nil {
			return valueobject.Money{}, err
		}
		total = sum
	}
	return total, nil
}

func sumDurations(entries []*timesheet.TimeEntry) valueobject.TimeDuration {
	total := valueobject.ZeroDuration()
	for _, entry := range entries {
		total = total.Add(entry.Duration)
	}
	return total
}
