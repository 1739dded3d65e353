package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/taskflow/backend/internal/domain/shared/valueobject"
	"github.com/taskflow/backend/internal/domain/timesheet"
)

// TimeEntryModel is the persistence model for time entries. A partial
// unique index on (user_id) where end_time is null backs the rule that a
// user has at most one running entry; see Database.Migrate.
type TimeEntryModel struct {
	BaseModel
	TaskID          uuid.UUID `gorm:"type:uuid;not null;index"`
	UserID          uuid.UUID `gorm:"type:uuid;not null;index"`
	Description     string
	StartTime       time.Time `gorm:"not null;index"`
	EndTime         *time.Time
	Rate            valueobject.Money `gorm:"type:numeric(12,2);not null"`
	Cost            valueobject.Money `gorm:"type:numeric(12,2);not null"`
	Currency        string            `gorm:"size:3;not null"`
	DurationMinutes int64             `gorm:"not null;default:0"`
}

// TableName returns the table name for TimeEntryModel
func (TimeEntryModel) TableName() string {
	return "time_entries"
}

// ToDomain converts the model to a domain time entry
func (m *TimeEntryModel) ToDomain() *timesheet.TimeEntry {
	currency := valueobject.Currency(m.Currency)
	duration, _ := valueobject.NewTimeDuration(m.DurationMinutes)
	return &timesheet.TimeEntry{
		BaseEntity:  m.BaseModel.ToDomain(),
		TaskID:      m.TaskID,
		UserID:      m.UserID,
		Description: m.Description,
		StartTime:   m.StartTime,
		EndTime:     m.EndTime,
		Rate:        m.Rate.WithCurrency(currency),
		Cost:        m.Cost.WithCurrency(currency),
		Duration:    duration,
	}
}

// FromDomain populates the model from a domain time entry
func (m *TimeEntryModel) FromDomain(e *timesheet.TimeEntry) {
	m.BaseModel.FromDomain(e.BaseEntity)
	m.TaskID = e.TaskID
	m.UserID = e.UserID
	m.Description = e.Description
	m.StartTime = e.StartTime
	m.EndTime = e.EndTime
	m.Rate = e.Rate
	m.Cost = e.Cost
	m.Currency = string(e.Rate.Currency())
	m.DurationMinutes = e.Duration.Minutes()
}
