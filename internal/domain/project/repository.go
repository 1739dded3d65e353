package project

import (
	"context"

	"github.com/google/uuid"
)

// TaskFilter defines filtering options for task queries
type TaskFilter struct {
	ProjectID  *uuid.UUID
	AssignedTo *uuid.UUID
	Status     *TaskStatus
	Priority   *TaskPriority
	Page       int
	PageSize   int
}

// TaskRepository defines the interface for persisting and querying tasks
type TaskRepository interface {
	Save(ctx context.Context, task *Task) error
	Update(ctx context.Context, task *Task) error
	FindByID(ctx context.Context, id uuid.UUID) (*Task, error)
	FindAll(ctx context.Context, filter TaskFilter) ([]*Task, int64, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// ProjectRepository defines the interface for persisting and querying projects
type ProjectRepository interface {
	Save(ctx context.Context, project *Project) error
	Update(ctx context.Context, project *Project) error
	FindByID(ctx context.Context, id uuid.UUID) (*Project, error)
	FindByOwner(ctx context.Context, ownerID uuid.UUID) ([]*Project, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
