package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	appproject "github.com/taskflow/backend/internal/application/project"
	"github.com/taskflow/backend/internal/domain/project"
	"github.com/taskflow/backend/internal/domain/shared/valueobject"
)

// ProjectHandler handles project endpoints
type ProjectHandler struct {
	BaseHandler
	projects *appproject.ProjectService
}

// NewProjectHandler creates a new ProjectHandler
func NewProjectHandler(projects *appproject.ProjectService) *ProjectHandler {
	return &ProjectHandler{projects: projects}
}

// CreateProjectRequest is the payload for creating a project
type CreateProjectRequest struct {
	OwnerID     uuid.UUID  `json:"owner_id" binding:"required"`
	Name        string     `json:"name" binding:"required"`
	Description string     `json:"description"`
	StartDate   *time.Time `json:"start_date"`
	EndDate     *time.Time `json:"end_date"`
	Budget      *MoneyRequest `json:"budget"`
}

// MoneyRequest is a money amount with its currency in a request payload
type MoneyRequest struct {
	Amount   string `json:"amount" binding:"required"`
	Currency string `json:"currency" binding:"required"`
}

// ToMoney converts the request payload to a Money value
func (m *MoneyRequest) ToMoney() (valueobject.Money, error) {
	currency, err := valueobject.NewCurrency(m.Currency)
	if err != nil {
		return valueobject.Money{}, err
	}
	return valueobject.NewMoneyFromString(m.Amount, currency)
}

// ChangeStatusRequest is the payload for a status change
type ChangeStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// ProjectResponse is the API shape of a project
type ProjectResponse struct {
	ID          uuid.UUID          `json:"id"`
	Name        string             `json:"name"`
	Description string             `json:"description"`
	Status      string             `json:"status"`
	OwnerID     uuid.UUID          `json:"owner_id"`
	StartDate   *time.Time         `json:"start_date,omitempty"`
	EndDate     *time.Time         `json:"end_date,omitempty"`
	Budget      *valueobject.Money `json:"budget,omitempty"`
	CreatedAt   time.Time          `json:"created_at"`
	UpdatedAt   time.Time          `json:"updated_at"`
}

func toProjectResponse(p *project.Project) ProjectResponse {
	return ProjectResponse{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Status:      p.Status.String(),
		OwnerID:     p.OwnerID,
		StartDate:   p.StartDate,
		EndDate:     p.EndDate,
		Budget:      p.Budget,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

// Create handles POST /projects
func (h *ProjectHandler) Create(c *gin.Context) {
	var req CreateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	input := appproject.CreateProjectInput{
		OwnerID:     req.OwnerID,
		Name:        req.Name,
		Description: req.Description,
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
	}
	if req.Budget != nil {
		budget, err := req.Budget.ToMoney()
		if err != nil {
			h.HandleError(c, err)
			return
		}
		input.Budget = &budget
	}

	proj, err := h.projects.CreateProject(c.Request.Context(), input)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, toProjectResponse(proj))
}

// Get handles GET /projects/:id
func (h *ProjectHandler) Get(c *gin.Context) {
	id, ok := h.parseUUIDParam(c, "id")
	if !ok {
		return
	}

	proj, err := h.projects.GetProject(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, toProjectResponse(proj))
}

// ListByOwner handles GET /projects?owner_id=...
func (h *ProjectHandler) ListByOwner(c *gin.Context) {
	ownerID, err := uuid.Parse(c.Query("owner_id"))
	if err != nil {
		h.BadRequest(c, "owner_id is required")
		return
	}

	projects, err := h.projects.ListProjectsByOwner(c.Request.Context(), ownerID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	responses := make([]ProjectResponse, len(projects))
	for i, p := range projects {
		responses[i] = toProjectResponse(p)
	}
	h.Success(c, responses)
}

// ChangeStatus handles PATCH /projects/:id/status
func (h *ProjectHandler) ChangeStatus(c *gin.Context) {
	id, ok := h.parseUUIDParam(c, "id")
	if !ok {
		return
	}

	var req ChangeStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	proj, err := h.projects.ChangeProjectStatus(c.Request.Context(), id, project.ProjectStatus(req.Status))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, toProjectResponse(proj))
}

// SetBudget handles PUT /projects/:id/budget
func (h *ProjectHandler) SetBudget(c *gin.Context) {
	id, ok := h.parseUUIDParam(c, "id")
	if !ok {
		return
	}

	var req MoneyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	budget, err := req.ToMoney()
	if err != nil {
		h.HandleError(c, err)
		return
	}

	proj, err := h.projects.SetProjectBudget(c.Request.Context(), id, budget)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, toProjectResponse(proj))
}

// Tasks handles GET /projects/:id/tasks
func (h *ProjectHandler) Tasks(c *gin.Context) {
	id, ok := h.parseUUIDParam(c, "id")
	if !ok {
		return
	}

	filter, err := taskFilterFromQuery(c)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	tasks, total, err := h.projects.ProjectTasks(c.Request.Context(), id, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	if filter.PageSize > 0 {
		h.SuccessWithMeta(c, toTaskResponses(tasks), total, filter.Page, filter.PageSize)
		return
	}
	h.Success(c, toTaskResponses(tasks))
}

// Delete handles DELETE /projects/:id
func (h *ProjectHandler) Delete(c *gin.Context) {
	id, ok := h.parseUUIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.projects.DeleteProject(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// RegisterRoutes registers all project routes
func (h *ProjectHandler) RegisterRoutes(rg *gin.RouterGroup) {
	projects := rg.Group("/projects")
	{
		projects.POST("", h.Create)
		projects.GET("", h.ListByOwner)
		projects.GET("/:id", h.Get)
		projects.GET("/:id/tasks", h.Tasks)
		projects.PATCH("/:id/status", h.ChangeStatus)
		projects.PUT("/:id/budget", h.SetBudget)
		projects.DELETE("/:id", h.Delete)
	}
}
