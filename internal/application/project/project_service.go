package project

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/taskflow/backend/internal/domain/project"
	"github.com/taskflow/backend/internal/domain/shared/valueobject"
	"go.uber.org/zap"
)

// CreateProjectInput contains input for creating a project
type CreateProjectInput struct {
	OwnerID     uuid.UUID
	Name        string
	Description string
	StartDate   *time.Time
	EndDate     *time.Time
	Budget      *valueobject.Money
}

// ProjectService exposes the project use cases
type ProjectService struct {
	projects project.ProjectRepository
	tasks    project.TaskRepository
	logger   *zap.Logger
}

// NewProjectService creates a new ProjectService
func NewProjectService(projects project.ProjectRepository, tasks project.TaskRepository, logger *zap.Logger) *ProjectService {
	return &ProjectService{
		projects: projects,
		tasks:    tasks,
		logger:   logger,
	}
}

// CreateProject creates a new active project
func (s *ProjectService) CreateProject(ctx context.Context, input CreateProjectInput) (*project.Project, error) {
	proj, err := project.NewProject(input.OwnerID, input.Name)
	if err != nil {
		return nil, err
	}
	proj.Description = input.Description

	if input.StartDate != nil && input.EndDate != nil {
		if err := proj.SetSchedule(*input.StartDate, *input.EndDate); err != nil {
			return nil, err
		}
	}
	if input.Budget != nil {
		proj.SetBudget(*input.Budget)
	}

	if err := s.projects.Save(ctx, proj); err != nil {
		s.logger.Error("Failed to save project", zap.Error(err))
		return nil, err
	}

	s.logger.Info("Created project",
		zap.String("project_id", proj.ID.String()),
		zap.String("owner_id", input.OwnerID.String()),
		zap.String("name", proj.Name))
	return proj, nil
}

// ChangeProjectStatus moves a project to the target status through the
// transition table
func (s *ProjectService) ChangeProjectStatus(ctx context.Context, projectID uuid.UUID, target project.ProjectStatus) (*project.Project, error) {
	proj, err := s.projects.FindByID(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if err := proj.ChangeStatus(target); err != nil {
		return nil, err
	}
	if err := s.projects.Update(ctx, proj); err != nil {
		return nil, err
	}

	s.logger.Info("Changed project status",
		zap.String("project_id", proj.ID.String()),
		zap.String("status", target.String()))
	return proj, nil
}

// SetProjectBudget sets or replaces the project budget
func (s *ProjectService) SetProjectBudget(ctx context.Context, projectID uuid.UUID, budget valueobject.Money) (*project.Project, error) {
	proj, err := s.projects.FindByID(ctx, projectID)
	if err != nil {
		return nil, err
	}
	proj.SetBudget(budget)
	if err := s.projects.Update(ctx, proj); err != nil {
		return nil, err
	}
	return proj, nil
}

// GetProject returns a project by ID
func (s *ProjectService) GetProject(ctx context.Context, projectID uuid.UUID) (*project.Project, error) {
	return s.projects.FindByID(ctx, projectID)
}

// ListProjectsByOwner returns the projects owned by a user
func (s *ProjectService) ListProjectsByOwner(ctx context.Context, ownerID uuid.UUID) ([]*project.Project, error) {
	return s.projects.FindByOwner(ctx, ownerID)
}

// ProjectTasks returns a page of the project's tasks
func (s *ProjectService) ProjectTasks(ctx context.Context, projectID uuid.UUID, filter project.TaskFilter) ([]*project.Task, int64, error) {
	filter.ProjectID = &projectID
	return s.tasks.FindAll(ctx, filter)
}

// DeleteProject removes a project
func (s *ProjectService) DeleteProject(ctx context.Context, projectID uuid.UUID) error {
	if _, err := s.projects.FindByID(ctx, projectID); err != nil {
		return err
	}
	if err := s.projects.Delete(ctx, projectID); err != nil {
		return err
	}
	s.logger.Info("Deleted project", zap.String("project_id", projectID.String()))
	return nil
}
