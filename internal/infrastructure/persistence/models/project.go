package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/taskflow/backend/internal/domain/project"
	"github.com/taskflow/backend/internal/domain/shared/valueobject"
)

// ProjectModel is the persistence model for projects
type ProjectModel struct {
	BaseModel
	Name           string `gorm:"not null"`
	Description    string
	Status         string    `gorm:"not null;index"`
	OwnerID        uuid.UUID `gorm:"type:uuid;not null;index"`
	StartDate      *time.Time
	EndDate        *time.Time
	Budget         *valueobject.Money `gorm:"type:numeric(12,2)"`
	BudgetCurrency *string            `gorm:"size:3"`
}

// TableName returns the table name for ProjectModel
func (ProjectModel) TableName() string {
	return "projects"
}

// ToDomain converts the model to a domain project
func (m *ProjectModel) ToDomain() *project.Project {
	p := &project.Project{
		BaseEntity:  m.BaseModel.ToDomain(),
		Name:        m.Name,
		Description: m.Description,
		Status:      project.ProjectStatus(m.Status),
		OwnerID:     m.OwnerID,
		StartDate:   m.StartDate,
		EndDate:     m.EndDate,
	}
	if m.Budget != nil && m.BudgetCurrency != nil {
		budget := m.Budget.WithCurrency(valueobject.Currency(*m.BudgetCurrency))
		p.Budget = &budget
	}
	return p
}

// FromDomain populates the model from a domain project
func (m *ProjectModel) FromDomain(p *project.Project) {
	m.BaseModel.FromDomain(p.BaseEntity)
	m.Name = p.Name
	m.Description = p.Description
	m.Status = p.Status.String()
	m.OwnerID = p.OwnerID
	m.StartDate = p.StartDate
	m.EndDate = p.EndDate
	if p.Budget != nil {
		budget := *p.Budget
		currency := string(budget.Currency())
		m.Budget = &budget
		m.BudgetCurrency = &currency
	} else {
		m.Budget = nil
		m.BudgetCurrency = nil
	}
}

// TaskModel is the persistence model for tasks
type TaskModel struct {
	BaseModel
	ProjectID      uuid.UUID `gorm:"type:uuid;not null;index"`
	Title          string    `gorm:"not null"`
	Description    string
	Status         string     `gorm:"not null;index"`
	Priority       string     `gorm:"not null;index"`
	AssignedTo     *uuid.UUID `gorm:"type:uuid;index"`
	CreatedBy      uuid.UUID  `gorm:"type:uuid;not null"`
	DueDate        *time.Time
	EstimatedHours *decimal.Decimal `gorm:"type:numeric(8,2)"`
	Tags           []string         `gorm:"serializer:json"`
}

// TableName returns the table name for TaskModel
func (TaskModel) TableName() string {
	return "tasks"
}

// ToDomain converts the model to a domain task
func (m *TaskModel) ToDomain() *project.Task {
	return &project.Task{
		BaseEntity:     m.BaseModel.ToDomain(),
		ProjectID:      m.ProjectID,
		Title:          m.Title,
		Description:    m.Description,
		Status:         project.TaskStatus(m.Status),
		Priority:       project.TaskPriority(m.Priority),
		AssignedTo:     m.AssignedTo,
		CreatedBy:      m.CreatedBy,
		DueDate:        m.DueDate,
		EstimatedHours: m.EstimatedHours,
		Tags:           m.Tags,
	}
}

// FromDomain populates the model from a domain task
func (m *TaskModel) FromDomain(t *project.Task) {
	m.BaseModel.FromDomain(t.BaseEntity)
	m.ProjectID = t.ProjectID
	m.Title = t.Title
	m.Description = t.Description
	m.Status = t.Status.String()
	m.Priority = t.Priority.String()
	m.AssignedTo = t.AssignedTo
	m.CreatedBy = t.CreatedBy
	m.DueDate = t.DueDate
	m.EstimatedHours = t.EstimatedHours
	m.Tags = t.Tags
}
