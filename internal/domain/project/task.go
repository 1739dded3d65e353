package project

import (
	"fmt"
	"slices"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/taskflow/backend/internal/domain/shared"
)

// Task represents a unit of work within a project.
// Status changes go through ChangeStatus, which enforces the
// transition table; the status field never moves to an illegal state.
type Task struct {
	shared.BaseEntity
	ProjectID      uuid.UUID
	Title          string
	Description    string
	Status         TaskStatus
	Priority       TaskPriority
	AssignedTo     *uuid.UUID
	CreatedBy      uuid.UUID
	DueDate        *time.Time
	EstimatedHours *decimal.Decimal
	Tags           []string
}

// NewTask creates a new pending task
func NewTask(projectID, createdBy uuid.UUID, title string) (*Task, error) {
	if projectID == uuid.Nil {
		return nil, shared.NewInvalidArgument("project ID cannot be empty")
	}
	if createdBy == uuid.Nil {
		return nil, shared.NewInvalidArgument("creator ID cannot be empty")
	}
	if title == "" {
		return nil, shared.NewInvalidArgument("task title cannot be empty")
	}

	return &Task{
		BaseEntity: shared.NewBaseEntity(),
		ProjectID:  projectID,
		Title:      title,
		Status:     TaskStatusPending,
		Priority:   PriorityMedium,
		CreatedBy:  createdBy,
	}, nil
}

// ChangeStatus attempts a status transition, rejecting any move the
// transition table does not permit
func (t *Task) ChangeStatus(target TaskStatus) error {
	if !target.IsValid() {
		return shared.NewInvalidArgument(fmt.Sprintf("invalid task status: %s", target))
	}
	if !t.Status.CanTransitionTo(target) {
		return shared.NewInvalidTransition(fmt.Sprintf("cannot transition task from %s to %s", t.Status, target))
	}
	t.Status = target
	t.Touch()
	return nil
}

// Start moves the task into progress
func (t *Task) Start() error {
	return t.ChangeStatus(TaskStatusInProgress)
}

// Complete marks the task as completed
func (t *Task) Complete() error {
	return t.ChangeStatus(TaskStatusCompleted)
}

// Cancel marks the task as cancelled
func (t *Task) Cancel() error {
	return t.ChangeStatus(TaskStatusCancelled)
}

// ChangePriority updates the task priority
func (t *Task) ChangePriority(priority TaskPriority) error {
	if !priority.IsValid() {
		return shared.NewInvalidArgument(fmt.Sprintf("invalid task priority: %s", priority))
	}
	t.Priority = priority
	t.Touch()
	return nil
}

// AssignTo assigns the task to a user
func (t *Task) AssignTo(userID uuid.UUID) error {
	if userID == uuid.Nil {
		return shared.NewInvalidArgument("assignee ID cannot be empty")
	}
	t.AssignedTo = &userID
	t.Touch()
	return nil
}

// Unassign removes the current assignee
func (t *Task) Unassign() {
	t.AssignedTo = nil
	t.Touch()
}

// SetDueDate sets the task due date
func (t *Task) SetDueDate(due time.Time) {
	t.DueDate = &due
	t.Touch()
}

// SetEstimatedHours sets the estimated effort in hours
func (t *Task) SetEstimatedHours(hours decimal.Decimal) error {
	if hours.IsNegative() {
		return shared.NewInvalidArgument("estimated hours cannot be negative")
	}
	t.EstimatedHours = &hours
	t.Touch()
	return nil
}

// AddTag adds a tag if not already present
func (t *Task) AddTag(tag string) {
	if tag == "" || slices.Contains(t.Tags, tag) {
		return
	}
	t.Tags = append(t.Tags, tag)
	t.Touch()
}

// RemoveTag removes a tag if present
func (t *Task) RemoveTag(tag string) {
	idx := slices.Index(t.Tags, tag)
	if idx < 0 {
		return
	}
	t.Tags = slices.Delete(t.Tags, idx, idx+1)
	t.Touch()
}

// IsOverdue returns true if the task has a due date in the past and is not finished
func (t *Task) IsOverdue(now time.Time) bool {
	return t.DueDate != nil && t.DueDate.Before(now) && !t.Status.IsTerminal()
}
