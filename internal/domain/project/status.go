package project

import (
	"fmt"

	"github.com/taskflow/backend/internal/domain/shared"
)

// TaskStatus represents the lifecycle status of a task
type TaskStatus string

const (
	TaskStatusPending    TaskStatus = "pending"
	TaskStatusInProgress TaskStatus = "in_progress"
	TaskStatusCompleted  TaskStatus = "completed"
	TaskStatusCancelled  TaskStatus = "cancelled"
)

// NewTaskStatus validates a task status string
func NewTaskStatus(value string) (TaskStatus, error) {
	s := TaskStatus(value)
	if !s.IsValid() {
		return "", shared.NewInvalidArgument(fmt.Sprintf("invalid task status: %s", value))
	}
	return s, nil
}

// IsValid checks if the status is a valid TaskStatus
func (s TaskStatus) IsValid() bool {
	switch s {
	case TaskStatusPending, TaskStatusInProgress, TaskStatusCompleted, TaskStatusCancelled:
		return true
	}
	return false
}

// String returns the string representation of TaskStatus
func (s TaskStatus) String() string {
	return string(s)
}

// IsTerminal returns true for statuses with no outgoing transitions
func (s TaskStatus) IsTerminal() bool {
	return s == TaskStatusCompleted || s == TaskStatusCancelled
}

// CanTransitionTo checks if the status can transition to the target status
func (s TaskStatus) CanTransitionTo(target TaskStatus) bool {
	switch s {
	case TaskStatusPending:
		return target == TaskStatusInProgress || target == TaskStatusCancelled
	case TaskStatusInProgress:
		return target == TaskStatusCompleted || target == TaskStatusCancelled
	case TaskStatusCompleted, TaskStatusCancelled:
		return false // Terminal states
	}
	return false
}

// DisplayName returns the human-readable name of the status
func (s TaskStatus) DisplayName() string {
	switch s {
	case TaskStatusPending:
		return "Pending"
	case TaskStatusInProgress:
		return "In Progress"
	case TaskStatusCompleted:
		return "Completed"
	case TaskStatusCancelled:
		return "Cancelled"
	}
	return string(s)
}

// ProjectStatus represents the lifecycle status of a project
type ProjectStatus string

const (
	ProjectStatusActive    ProjectStatus = "active"
	ProjectStatusOnHold    ProjectStatus = "on_hold"
	ProjectStatusCompleted ProjectStatus = "completed"
	ProjectStatusCancelled ProjectStatus = "cancelled"
)

// NewProjectStatus validates a project status string
func NewProjectStatus(value string) (ProjectStatus, error) {
	s := ProjectStatus(value)
	if !s.IsValid() {
		return "", shared.NewInvalidArgument(fmt.Sprintf("invalid project status: %s", value))
	}
	return s, nil
}

// IsValid checks if the status is a valid ProjectStatus
func (s ProjectStatus) IsValid() bool {
	switch s {
	case ProjectStatusActive, ProjectStatusOnHold, ProjectStatusCompleted, ProjectStatusCancelled:
		return true
	}
	return false
}

// String returns the string representation of ProjectStatus
func (s ProjectStatus) String() string {
	return string(s)
}

// IsTerminal returns true for statuses with no outgoing transitions
func (s ProjectStatus) IsTerminal() bool {
	return s == ProjectStatusCompleted || s == ProjectStatusCancelled
}

// CanTransitionTo checks if the status can transition to the target status
func (s ProjectStatus) CanTransitionTo(target ProjectStatus) bool {
	switch s {
	case ProjectStatusActive:
		return target == ProjectStatusCompleted || target == ProjectStatusOnHold || target == ProjectStatusCancelled
	case ProjectStatusOnHold:
		return target == ProjectStatusActive || target == ProjectStatusCancelled
	case ProjectStatusCompleted, ProjectStatusCancelled:
		return false // Terminal states
	}
	return false
}

// DisplayName returns the human-readable name of the status
func (s ProjectStatus) DisplayName() string {
	switch s {
	case ProjectStatusActive:
		return "Active"
	case ProjectStatusOnHold:
		return "On Hold"
	case ProjectStatusCompleted:
		return "Completed"
	case ProjectStatusCancelled:
		return "Cancelled"
	}
	return string(s)
}

// TaskPriority represents how urgent a task is
type TaskPriority string

const (
	PriorityLow    TaskPriority = "low"
	PriorityMedium TaskPriority = "medium"
	PriorityHigh   TaskPriority = "high"
	PriorityUrgent TaskPriority = "urgent"
)

// NewTaskPriority validates a task priority string
func NewTaskPriority(value string) (TaskPriority, error) {
	p := TaskPriority(value)
	if !p.IsValid() {
		return "", shared.NewInvalidArgument(fmt.Sprintf("invalid task priority: %s", value))
	}
	return p, nil
}

// IsValid checks if the priority is a valid TaskPriority
func (p TaskPriority) IsValid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent:
		return true
	}
	return false
}

// String returns the string representation of TaskPriority
func (p TaskPriority) String() string {
	return string(p)
}

// Weight returns the ordering weight of the priority
func (p TaskPriority) Weight() int {
	switch p {
	case PriorityLow:
		return 1
	case PriorityMedium:
		return 2
	case PriorityHigh:
		return 3
	case PriorityUrgent:
		return 4
	}
	return 0
}

// HigherThan returns true if this priority outranks the other
func (p TaskPriority) HigherThan(other TaskPriority) bool {
	return p.Weight() > other.Weight()
}

// DisplayName returns the human-readable name of the priority
func (p TaskPriority) DisplayName() string {
	switch p {
	case PriorityLow:
		return "Low"
	case PriorityMedium:
		return "Medium"
	case PriorityHigh:
		return "High"
	case PriorityUrgent:
		return "Urgent"
	}
	return string(p)
}
