package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	apptimesheet "github.com/taskflow/backend/internal/application/timesheet"
	"github.com/taskflow/backend/internal/domain/shared/valueobject"
	"github.com/taskflow/backend/internal/domain/timesheet"
)

// TimesheetHandler handles time tracking endpoints
type TimesheetHandler struct {
	BaseHandler
	tracking *apptimesheet.TrackingService
}

// NewTimesheetHandler creates a new TimesheetHandler
func NewTimesheetHandler(tracking *apptimesheet.TrackingService) *TimesheetHandler {
	return &TimesheetHandler{tracking: tracking}
}

// StartTrackingRequest is the payload for starting time tracking
type StartTrackingRequest struct {
	TaskID      uuid.UUID     `json:"task_id" binding:"required"`
	UserID      uuid.UUID     `json:"user_id" binding:"required"`
	HourlyRate  *MoneyRequest `json:"hourly_rate"`
	Description string        `json:"description"`
}

// StopTrackingRequest is the payload for stopping time tracking
type StopTrackingRequest struct {
	TaskID uuid.UUID `json:"task_id" binding:"required"`
	UserID uuid.UUID `json:"user_id" binding:"required"`
}

// TimeEntryResponse is the API shape of a time entry
type TimeEntryResponse struct {
	ID              uuid.UUID         `json:"id"`
	TaskID          uuid.UUID         `json:"task_id"`
	UserID          uuid.UUID         `json:"user_id"`
	Description     string            `json:"description"`
	StartTime       time.Time         `json:"start_time"`
	EndTime         *time.Time        `json:"end_time,omitempty"`
	Rate            valueobject.Money `json:"rate"`
	Cost            valueobject.Money `json:"cost"`
	DurationMinutes int64             `json:"duration_minutes"`
	Duration        string            `json:"duration"`
	Active          bool              `json:"active"`
}

func toTimeEntryResponse(e *timesheet.TimeEntry) TimeEntryResponse {
	return TimeEntryResponse{
		ID:              e.ID,
		TaskID:          e.TaskID,
		UserID:          e.UserID,
		Description:     e.Description,
		StartTime:       e.StartTime,
		EndTime:         e.EndTime,
		Rate:            e.Rate,
		Cost:            e.Cost,
		DurationMinutes: e.Duration.Minutes(),
		Duration:        e.Duration.DisplayFormat(),
		Active:          e.IsActive(),
	}
}

// Start handles POST /time-entries/start
func (h *TimesheetHandler) Start(c *gin.Context) {
	var req StartTrackingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	input := apptimesheet.StartInput{
		TaskID:      req.TaskID,
		UserID:      req.UserID,
		Description: req.Description,
	}
	if req.HourlyRate != nil {
		rate, err := req.HourlyRate.ToMoney()
		if err != nil {
			h.HandleError(c, err)
			return
		}
		input.HourlyRate = &rate
	}

	entry, err := h.tracking.Start(c.Request.Context(), input)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, toTimeEntryResponse(entry))
}

// Stop handles POST /time-entries/stop. Stopping with nothing running
// returns an empty success, not an error.
func (h *TimesheetHandler) Stop(c *gin.Context) {
	var req StopTrackingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	entry, err := h.tracking.Stop(c.Request.Context(), req.UserID, req.TaskID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	if entry == nil {
		h.Success(c, nil)
		return
	}
	h.Success(c, toTimeEntryResponse(entry))
}

// Complete handles POST /time-entries/:id/complete
func (h *TimesheetHandler) Complete(c *gin.Context) {
	id, ok := h.parseUUIDParam(c, "id")
	if !ok {
		return
	}

	entry, err := h.tracking.CompleteEntry(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, toTimeEntryResponse(entry))
}

// Active handles GET /users/:id/time-entries/active
func (h *TimesheetHandler) Active(c *gin.Context) {
	userID, ok := h.parseUUIDParam(c, "id")
	if !ok {
		return
	}

	entry, err := h.tracking.ActiveEntry(c.Request.Context(), userID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	if entry == nil {
		h.Success(c, nil)
		return
	}
	h.Success(c, toTimeEntryResponse(entry))
}

// List handles GET /time-entries with optional filters
func (h *TimesheetHandler) List(c *gin.Context) {
	filter, err := entryFilterFromQuery(c)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	entries, err := h.tracking.Entries(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	responses := make([]TimeEntryResponse, len(entries))
	for i, e := range entries {
		responses[i] = toTimeEntryResponse(e)
	}
	h.Success(c, responses)
}

// TaskSummaryResponse aggregates the completed time logged on a task
type TaskSummaryResponse struct {
	TaskID          uuid.UUID         `json:"task_id"`
	DurationMinutes int64             `json:"duration_minutes"`
	Duration        string            `json:"duration"`
	Cost            valueobject.Money `json:"cost"`
}

// TaskSummary handles GET /tasks/:id/time
func (h *TimesheetHandler) TaskSummary(c *gin.Context) {
	taskID, ok := h.parseUUIDParam(c, "id")
	if !ok {
		return
	}
	ctx := c.Request.Context()

	duration, err := h.tracking.TaskDuration(ctx, taskID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	cost, err := h.tracking.TaskCost(ctx, taskID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, TaskSummaryResponse{
		TaskID:          taskID,
		DurationMinutes: duration.Minutes(),
		Duration:        duration.DisplayFormat(),
		Cost:            cost,
	})
}

// UserSummaryResponse aggregates a user's completed time in a window
type UserSummaryResponse struct {
	UserID          uuid.UUID         `json:"user_id"`
	From            *time.Time        `json:"from,omitempty"`
	To              *time.Time        `json:"to,omitempty"`
	DurationMinutes int64             `json:"duration_minutes"`
	Duration        string            `json:"duration"`
	Cost            valueobject.Money `json:"cost"`
}

// UserSummary handles GET /users/:id/time
func (h *TimesheetHandler) UserSummary(c *gin.Context) {
	userID, ok := h.parseUUIDParam(c, "id")
	if !ok {
		return
	}

	from, to, err := timeWindowFromQuery(c)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	ctx := c.Request.Context()

	duration, err := h.tracking.UserDuration(ctx, userID, from, to)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	cost, err := h.tracking.UserCost(ctx, userID, from, to)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, UserSummaryResponse{
		UserID:          userID,
		From:            from,
		To:              to,
		DurationMinutes: duration.Minutes(),
		Duration:        duration.DisplayFormat(),
		Cost:            cost,
	})
}

// StatisticsResponse summarizes completed entries matching a filter
type StatisticsResponse struct {
	EntryCount             int               `json:"entry_count"`
	TotalDurationMinutes   int64             `json:"total_duration_minutes"`
	TotalCost              valueobject.Money `json:"total_cost"`
	AverageDurationMinutes int64             `json:"average_duration_minutes"`
	AverageCost            valueobject.Money `json:"average_cost"`
}

// Statistics handles GET /time-entries/statistics
func (h *TimesheetHandler) Statistics(c *gin.Context) {
	filter, err := entryFilterFromQuery(c)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	stats, err := h.tracking.Statistics(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, StatisticsResponse{
		EntryCount:             stats.EntryCount,
		TotalDurationMinutes:   stats.TotalDuration.Minutes(),
		TotalCost:              stats.TotalCost,
		AverageDurationMinutes: stats.AverageDuration.Minutes(),
		AverageCost:            stats.AverageCost,
	})
}

// RegisterRoutes registers all time tracking routes
func (h *TimesheetHandler) RegisterRoutes(rg *gin.RouterGroup) {
	entries := rg.Group("/time-entries")
	{
		entries.POST("/start", h.Start)
		entries.POST("/stop", h.Stop)
		entries.GET("", h.List)
		entries.GET("/statistics", h.Statistics)
		entries.POST("/:id/complete", h.Complete)
	}

	rg.GET("/tasks/:id/time", h.TaskSummary)
	rg.GET("/users/:id/time", h.UserSummary)
	rg.GET("/users/:id/time-entries/active", h.Active)
}

func entryFilterFromQuery(c *gin.Context) (timesheet.EntryFilter, error) {
	var filter timesheet.EntryFilter

	if raw := c.Query("task_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return filter, err
		}
		filter.TaskID = &id
	}
	if raw := c.Query("user_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return filter, err
		}
		filter.UserID = &id
	}

	from, to, err := timeWindowFromQuery(c)
	if err != nil {
		return filter, err
	}
	filter.StartFrom = from
	filter.StartTo = to

	if raw := c.Query("completed"); raw != "" {
		completed := raw == "true"
		filter.Completed = &completed
	}

	return filter, nil
}

func timeWindowFromQuery(c *gin.Context) (from, to *time.Time, err error) {
	if raw := c.Query("from"); raw != "" {
		parsed, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return nil, nil, err
		}
		from = &parsed
	}
	if raw := c.Query("to"); raw != "" {
		parsed, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return nil, nil, err
		}
		to = &parsed
	}
	return from, to, nil
}
