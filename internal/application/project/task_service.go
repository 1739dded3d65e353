package project

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/taskflow/backend/internal/domain/project"
	"go.uber.org/zap"
)

// CreateTaskInput contains input for creating a task
type CreateTaskInput struct {
	ProjectID      uuid.UUID
	CreatedBy      uuid.UUID
	Title          string
	Description    string
	Priority       *project.TaskPriority
	AssignedTo     *uuid.UUID
	DueDate        *time.Time
	EstimatedHours *decimal.Decimal
	Tags           []string
}

// UpdateTaskInput contains the mutable task fields; nil fields are left unchanged
type UpdateTaskInput struct {
	Title          *string
	Description    *string
	Priority       *project.TaskPriority
	DueDate        *time.Time
	EstimatedHours *decimal.Decimal
}

// TaskList is a page of tasks with the total match count
type TaskList struct {
	Tasks []*project.Task
	Total int64
}

// TaskService exposes the task use cases: creation, updates, assignment
// and the status lifecycle. Illegal status moves surface as domain errors
// from the aggregate, never as silent writes.
type TaskService struct {
	tasks    project.TaskRepository
	projects project.ProjectRepository
	logger   *zap.Logger
}

// NewTaskService creates a new TaskService
func NewTaskService(tasks project.TaskRepository, projects project.ProjectRepository, logger *zap.Logger) *TaskService {
	return &TaskService{
		tasks:    tasks,
		projects: projects,
		logger:   logger,
	}
}

// CreateTask creates a task inside an existing project
func (s *TaskService) CreateTask(ctx context.Context, input CreateTaskInput) (*project.Task, error) {
	if _, err := s.projects.FindByID(ctx, input.ProjectID); err != nil {
		return nil, err
	}

	task, err := project.NewTask(input.ProjectID, input.CreatedBy, input.Title)
	if err != nil {
		return nil, err
	}
	task.Description = input.Description

	if input.Priority != nil {
		if err := task.ChangePriority(*input.Priority); err != nil {
			return nil, err
		}
	}
	if input.AssignedTo != nil {
		if err := task.AssignTo(*input.AssignedTo); err != nil {
			return nil, err
		}
	}
	if input.DueDate != nil {
		task.SetDueDate(*input.DueDate)
	}
	if input.EstimatedHours != nil {
		if err := task.SetEstimatedHours(*input.EstimatedHours); err != nil {
			return nil, err
		}
	}
	for _, tag := range input.Tags {
		task.AddTag(tag)
	}

	if err := s.tasks.Save(ctx, task); err != nil {
		s.logger.Error("Failed to save task", zap.Error(err))
		return nil, err
	}

	s.logger.Info("Created task",
		zap.String("task_id", task.ID.String()),
		zap.String("project_id", input.ProjectID.String()),
		zap.String("title", task.Title))
	return task, nil
}

// UpdateTask applies the non-nil fields of the input to a task
func (s *TaskService) UpdateTask(ctx context.Context, taskID uuid.UUID, input UpdateTaskInput) (*project.Task, error) {
	task, err := s.tasks.FindByID(ctx, taskID)
	if err != nil {
		return nil, err
	}

	if input.Title != nil && *input.Title != "" {
		task.Title = *input.Title
		task.Touch()
	}
	if input.Description != nil {
		task.Description = *input.Description
		task.Touch()
	}
	if input.Priority != nil {
		if err := task.ChangePriority(*input.Priority); err != nil {
			return nil, err
		}
	}
	if input.DueDate != nil {
		task.SetDueDate(*input.DueDate)
	}
	if input.EstimatedHours != nil {
		if err := task.SetEstimatedHours(*input.EstimatedHours); err != nil {
			return nil, err
		}
	}

	if err := s.tasks.Update(ctx, task); err != nil {
		return nil, err
	}
	return task, nil
}

// ChangeTaskStatus moves a task to the target status through the
// transition table
func (s *TaskService) ChangeTaskStatus(ctx context.Context, taskID uuid.UUID, target project.TaskStatus) (*project.Task, error) {
	task, err := s.tasks.FindByID(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if err := task.ChangeStatus(target); err != nil {
		return nil, err
	}
	if err := s.tasks.Update(ctx, task); err != nil {
		return nil, err
	}

	s.logger.Info("Changed task status",
		zap.String("task_id", task.ID.String()),
		zap.String("status", target.String()))
	return task, nil
}

// AssignTask assigns a task to a user; a nil assignee unassigns it
func (s *TaskService) AssignTask(ctx context.Context, taskID uuid.UUID, assignee *uuid.UUID) (*project.Task, error) {
	task, err := s.tasks.FindByID(ctx, taskID)
	if err != nil {
		return nil, err
	}

	if assignee == nil {
		task.Unassign()
	} else if err := task.AssignTo(*assignee); err != nil {
		return nil, err
	}

	if err := s.tasks.Update(ctx, task); err != nil {
		return nil, err
	}
	return task, nil
}

// GetTask returns a task by ID
func (s *TaskService) GetTask(ctx context.Context, taskID uuid.UUID) (*project.Task, error) {
	return s.tasks.FindByID(ctx, taskID)
}

// ListTasks returns a page of tasks matching the filter
func (s *TaskService) ListTasks(ctx context.Context, filter project.TaskFilter) (*TaskList, error) {
	tasks, total, err := s.tasks.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}
	return &TaskList{Tasks: tasks, Total: total}, nil
}

// DeleteTask removes a task
func (s *TaskService) DeleteTask(ctx context.Context, taskID uuid.UUID) error {
	if _, err := s.tasks.FindByID(ctx, taskID); err != nil {
		return err
	}
	if err := s.tasks.Delete(ctx, taskID); err != nil {
		return err
	}
	s.logger.Info("Deleted task", zap.String("task_id", taskID.String()))
	return nil
}
