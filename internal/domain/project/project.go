package project

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/taskflow/backend/internal/domain/shared"
	"github.com/taskflow/backend/internal/domain/shared/valueobject"
)

// Project represents a container for related tasks.
// As with tasks, status changes are funneled through ChangeStatus.
type Project struct {
	shared.BaseEntity
	Name        string
	Description string
	Status      ProjectStatus
	OwnerID     uuid.UUID
	StartDate   *time.Time
	EndDate     *time.Time
	Budget      *valueobject.Money
}

// NewProject creates a new active project
func NewProject(ownerID uuid.UUID, name string) (*Project, error) {
	if ownerID == uuid.Nil {
		return nil, shared.NewInvalidArgument("owner ID cannot be empty")
	}
	if name == "" {
		return nil, shared.NewInvalidArgument("project name cannot be empty")
	}

	return &Project{
		BaseEntity: shared.NewBaseEntity(),
		Name:       name,
		Status:     ProjectStatusActive,
		OwnerID:    ownerID,
	}, nil
}

// ChangeStatus attempts a status transition, rejecting any move the
// transition table does not permit
func (p *Project) ChangeStatus(target ProjectStatus) error {
	if !target.IsValid() {
		return shared.NewInvalidArgument(fmt.Sprintf("invalid project status: %s", target))
	}
	if !p.Status.CanTransitionTo(target) {
		return shared.NewInvalidTransition(fmt.Sprintf("cannot transition project from %s to %s", p.Status, target))
	}
	p.Status = target
	p.Touch()
	return nil
}

// Hold pauses an active project
func (p *Project) Hold() error {
	return p.ChangeStatus(ProjectStatusOnHold)
}

// Reactivate resumes a project that was on hold
func (p *Project) Reactivate() error {
	return p.ChangeStatus(ProjectStatusActive)
}

// Complete marks the project as completed
func (p *Project) Complete() error {
	return p.ChangeStatus(ProjectStatusCompleted)
}

// Cancel marks the project as cancelled
func (p *Project) Cancel() error {
	return p.ChangeStatus(ProjectStatusCancelled)
}

// SetBudget sets the project budget
func (p *Project) SetBudget(budget valueobject.Money) {
	p.Budget = &budget
	p.Touch()
}

// SetSchedule sets the planned start and end dates
func (p *Project) SetSchedule(start, end time.Time) error {
	if end.Before(start) {
		return shared.NewInvalidArgument("project end date cannot be before start date")
	}
	p.StartDate = &start
	p.EndDate = &end
	p.Touch()
	return nil
}
