package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	appproject "github.com/taskflow/backend/internal/application/project"
	"github.com/taskflow/backend/internal/domain/project"
)

// TaskHandler handles task endpoints
type TaskHandler struct {
	BaseHandler
	tasks *appproject.TaskService
}

// NewTaskHandler creates a new TaskHandler
func NewTaskHandler(tasks *appproject.TaskService) *TaskHandler {
	return &TaskHandler{tasks: tasks}
}

// CreateTaskRequest is the payload for creating a task
type CreateTaskRequest struct {
	ProjectID      uuid.UUID        `json:"project_id" binding:"required"`
	CreatedBy      uuid.UUID        `json:"created_by" binding:"required"`
	Title          string           `json:"title" binding:"required"`
	Description    string           `json:"description"`
	Priority       *string          `json:"priority"`
	AssignedTo     *uuid.UUID       `json:"assigned_to"`
	DueDate        *time.Time       `json:"due_date"`
	EstimatedHours *decimal.Decimal `json:"estimated_hours"`
	Tags           []string         `json:"tags"`
}

// UpdateTaskRequest is the payload for updating a task; omitted fields
// are left unchanged
type UpdateTaskRequest struct {
	Title          *string          `json:"title"`
	Description    *string          `json:"description"`
	Priority       *string          `json:"priority"`
	DueDate        *time.Time       `json:"due_date"`
	EstimatedHours *decimal.Decimal `json:"estimated_hours"`
}

// AssignTaskRequest is the payload for assigning a task; a null assignee
// unassigns it
type AssignTaskRequest struct {
	AssignedTo *uuid.UUID `json:"assigned_to"`
}

// TaskResponse is the API shape of a task
type TaskResponse struct {
	ID             uuid.UUID        `json:"id"`
	ProjectID      uuid.UUID        `json:"project_id"`
	Title          string           `json:"title"`
	Description    string           `json:"description"`
	Status         string           `json:"status"`
	Priority       string           `json:"priority"`
	AssignedTo     *uuid.UUID       `json:"assigned_to,omitempty"`
	CreatedBy      uuid.UUID        `json:"created_by"`
	DueDate        *time.Time       `json:"due_date,omitempty"`
	EstimatedHours *decimal.Decimal `json:"estimated_hours,omitempty"`
	Tags           []string         `json:"tags,omitempty"`
	CreatedAt      time.Time        `json:"created_at"`
	UpdatedAt      time.Time        `json:"updated_at"`
}

func toTaskResponse(t *project.Task) TaskResponse {
	return TaskResponse{
		ID:             t.ID,
		ProjectID:      t.ProjectID,
		Title:          t.Title,
		Description:    t.Description,
		Status:         t.Status.String(),
		Priority:       t.Priority.String(),
		AssignedTo:     t.AssignedTo,
		CreatedBy:      t.CreatedBy,
		DueDate:        t.DueDate,
		EstimatedHours: t.EstimatedHours,
		Tags:           t.Tags,
		CreatedAt:      t.CreatedAt,
		UpdatedAt:      t.UpdatedAt,
	}
}

func toTaskResponses(tasks []*project.Task) []TaskResponse {
	responses := make([]TaskResponse, len(tasks))
	for i, t := range tasks {
		responses[i] = toTaskResponse(t)
	}
	return responses
}

// Create handles POST /tasks
func (h *TaskHandler) Create(c *gin.Context) {
	var req CreateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	input := appproject.CreateTaskInput{
		ProjectID:      req.ProjectID,
		CreatedBy:      req.CreatedBy,
		Title:          req.Title,
		Description:    req.Description,
		AssignedTo:     req.AssignedTo,
		DueDate:        req.DueDate,
		EstimatedHours: req.EstimatedHours,
		Tags:           req.Tags,
	}
	if req.Priority != nil {
		priority := project.TaskPriority(*req.Priority)
		input.Priority = &priority
	}

	task, err := h.tasks.CreateTask(c.Request.Context(), input)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, toTaskResponse(task))
}

// Get handles GET /tasks/:id
func (h *TaskHandler) Get(c *gin.Context) {
	id, ok := h.parseUUIDParam(c, "id")
	if !ok {
		return
	}

	task, err := h.tasks.GetTask(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, toTaskResponse(task))
}

// List handles GET /tasks with optional filters
func (h *TaskHandler) List(c *gin.Context) {
	filter, err := taskFilterFromQuery(c)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	list, err := h.tasks.ListTasks(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	if filter.PageSize > 0 {
		h.SuccessWithMeta(c, toTaskResponses(list.Tasks), list.Total, filter.Page, filter.PageSize)
		return
	}
	h.Success(c, toTaskResponses(list.Tasks))
}

// Update handles PATCH /tasks/:id
func (h *TaskHandler) Update(c *gin.Context) {
	id, ok := h.parseUUIDParam(c, "id")
	if !ok {
		return
	}

	var req UpdateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	input := appproject.UpdateTaskInput{
		Title:          req.Title,
		Description:    req.Description,
		DueDate:        req.DueDate,
		EstimatedHours: req.EstimatedHours,
	}
	if req.Priority != nil {
		priority := project.TaskPriority(*req.Priority)
		input.Priority = &priority
	}

	task, err := h.tasks.UpdateTask(c.Request.Context(), id, input)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, toTaskResponse(task))
}

// ChangeStatus handles PATCH /tasks/:id/status
func (h *TaskHandler) ChangeStatus(c *gin.Context) {
	id, ok := h.parseUUIDParam(c, "id")
	if !ok {
		return
	}

	var req ChangeStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	task, err := h.tasks.ChangeTaskStatus(c.Request.Context(), id, project.TaskStatus(req.Status))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, toTaskResponse(task))
}

// Assign handles PUT /tasks/:id/assignee
func (h *TaskHandler) Assign(c *gin.Context) {
	id, ok := h.parseUUIDParam(c, "id")
	if !ok {
		return
	}

	var req AssignTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	task, err := h.tasks.AssignTask(c.Request.Context(), id, req.AssignedTo)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, toTaskResponse(task))
}

// Delete handles DELETE /tasks/:id
func (h *TaskHandler) Delete(c *gin.Context) {
	id, ok := h.parseUUIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.tasks.DeleteTask(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// RegisterRoutes registers all task routes
func (h *TaskHandler) RegisterRoutes(rg *gin.RouterGroup) {
	tasks := rg.Group("/tasks")
	{
		tasks.POST("", h.Create)
		tasks.GET("", h.List)
		tasks.GET("/:id", h.Get)
		tasks.PATCH("/:id", h.Update)
		tasks.PATCH("/:id/status", h.ChangeStatus)
		tasks.PUT("/:id/assignee", h.Assign)
		tasks.DELETE("/:id", h.Delete)
	}
}

func taskFilterFromQuery(c *gin.Context) (project.TaskFilter, error) {
	var filter project.TaskFilter

	if raw := c.Query("project_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return filter, err
		}
		filter.ProjectID = &id
	}
	if raw := c.Query("assigned_to"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return filter, err
		}
		filter.AssignedTo = &id
	}
	if raw := c.Query("status"); raw != "" {
		status := project.TaskStatus(raw)
		filter.Status = &status
	}
	if raw := c.Query("priority"); raw != "" {
		priority := project.TaskPriority(raw)
		filter.Priority = &priority
	}

	var page struct {
		Page     int `form:"page"`
		PageSize int `form:"page_size"`
	}
	if err := c.ShouldBindQuery(&page); err != nil {
		return filter, err
	}
	filter.Page = page.Page
	filter.PageSize = page.PageSize

	return filter, nil
}
