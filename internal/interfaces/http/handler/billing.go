package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	appbilling "github.com/taskflow/backend/internal/application/billing"
	"github.com/taskflow/backend/internal/domain/billing"
	"github.com/taskflow/backend/internal/domain/shared/valueobject"
)

// BillingHandler handles plan and subscription endpoints
type BillingHandler struct {
	BaseHandler
	subscriptions *appbilling.SubscriptionService
}

// NewBillingHandler creates a new BillingHandler
func NewBillingHandler(subscriptions *appbilling.SubscriptionService) *BillingHandler {
	return &BillingHandler{subscriptions: subscriptions}
}

// CreatePlanRequest is the payload for creating a plan
type CreatePlanRequest struct {
	Name        string       `json:"name" binding:"required"`
	Slug        string       `json:"slug" binding:"required"`
	Description string       `json:"description"`
	Price       MoneyRequest `json:"price" binding:"required"`
	Cycle       string       `json:"cycle" binding:"required"`
	TrialDays   int          `json:"trial_days"`
}

// SubscribeRequest is the payload for creating a subscription
type SubscribeRequest struct {
	CustomerID uuid.UUID `json:"customer_id" binding:"required"`
	PlanID     uuid.UUID `json:"plan_id" binding:"required"`
	// Cycle optionally bills on a different cycle than the plan's default
	Cycle string `json:"cycle"`
}

// ChangePlanRequest is the payload for a mid-period plan change
type ChangePlanRequest struct {
	PlanID uuid.UUID `json:"plan_id" binding:"required"`
}

// CancelRequest is the payload for cancelling a subscription
type CancelRequest struct {
	Immediate bool `json:"immediate"`
}

// RefundRequest is the payload for refunding a subscription
type RefundRequest struct {
	PaymentIntentID string `json:"payment_intent_id" binding:"required"`
}

// PlanResponse is the API shape of a plan
type PlanResponse struct {
	ID          uuid.UUID         `json:"id"`
	Name        string            `json:"name"`
	Slug        string            `json:"slug"`
	Description string            `json:"description"`
	Price       valueobject.Money `json:"price"`
	Cycle       string            `json:"cycle"`
	TrialDays   int               `json:"trial_days"`
	Active      bool              `json:"active"`
}

func toPlanResponse(p *billing.Plan) PlanResponse {
	return PlanResponse{
		ID:          p.ID,
		Name:        p.Name,
		Slug:        p.Slug,
		Description: p.Description,
		Price:       p.Price,
		Cycle:       p.BillingCycle.String(),
		TrialDays:   p.TrialDays,
		Active:      p.Active,
	}
}

// SubscriptionResponse is the API shape of a subscription
type SubscriptionResponse struct {
	ID                uuid.UUID         `json:"id"`
	CustomerID        uuid.UUID         `json:"customer_id"`
	PlanID            uuid.UUID         `json:"plan_id"`
	Plan              *PlanResponse     `json:"plan,omitempty"`
	Amount            valueobject.Money `json:"amount"`
	Status            string            `json:"status"`
	StartsAt          time.Time         `json:"starts_at"`
	EndsAt            *time.Time        `json:"ends_at,omitempty"`
	TrialEndsAt       *time.Time        `json:"trial_ends_at,omitempty"`
	CancelAtPeriodEnd *time.Time        `json:"cancel_at_period_end,omitempty"`
	CancelledAt       *time.Time        `json:"cancelled_at,omitempty"`
}

func toSubscriptionResponse(s *billing.Subscription) SubscriptionResponse {
	resp := SubscriptionResponse{
		ID:                s.ID,
		CustomerID:        s.CustomerID,
		PlanID:            s.PlanID,
		Amount:            s.Amount,
		Status:            s.Status.String(),
		StartsAt:          s.StartsAt,
		EndsAt:            s.EndsAt,
		TrialEndsAt:       s.TrialEndsAt,
		CancelAtPeriodEnd: s.CancelAtPeriodEnd,
		CancelledAt:       s.CancelledAt,
	}
	if s.Plan != nil {
		plan := toPlanResponse(s.Plan)
		resp.Plan = &plan
	}
	return resp
}

// InvoiceResponse is the API shape of an invoice
type InvoiceResponse struct {
	ID             uuid.UUID         `json:"id"`
	SubscriptionID uuid.UUID         `json:"subscription_id"`
	CustomerID     uuid.UUID         `json:"customer_id"`
	Subtotal       valueobject.Money `json:"subtotal"`
	TaxAmount      valueobject.Money `json:"tax_amount"`
	DiscountAmount valueobject.Money `json:"discount_amount"`
	TotalAmount    valueobject.Money `json:"total_amount"`
	Status         string            `json:"status"`
	IssuedAt       time.Time         `json:"issued_at"`
	PaidAt         *time.Time        `json:"paid_at,omitempty"`
}

func toInvoiceResponse(i *billing.Invoice) InvoiceResponse {
	return InvoiceResponse{
		ID:             i.ID,
		SubscriptionID: i.SubscriptionID,
		CustomerID:     i.CustomerID,
		Subtotal:       i.Subtotal,
		TaxAmount:      i.TaxAmount,
		DiscountAmount: i.DiscountAmount,
		TotalAmount:    i.TotalAmount,
		Status:         string(i.Status),
		IssuedAt:       i.IssuedAt,
		PaidAt:         i.PaidAt,
	}
}

// ChangePlanResponse reports the outcome of a plan change
type ChangePlanResponse struct {
	Subscription   SubscriptionResponse `json:"subscription"`
	ProratedCharge valueobject.Money    `json:"prorated_charge"`
	Invoice        *InvoiceResponse     `json:"invoice,omitempty"`
}

// RefundResponse reports a refunded amount
type RefundResponse struct {
	Amount valueobject.Money `json:"amount"`
}

// MetricsResponse reports recurring revenue over active subscriptions
type MetricsResponse struct {
	ActiveSubscriptions int               `json:"active_subscriptions"`
	TotalARR            valueobject.Money `json:"total_arr"`
	TotalMRR            valueobject.Money `json:"total_mrr"`
}

// CreatePlan handles POST /plans
func (h *BillingHandler) CreatePlan(c *gin.Context) {
	var req CreatePlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	price, err := req.Price.ToMoney()
	if err != nil {
		h.HandleError(c, err)
		return
	}

	plan, err := h.subscriptions.CreatePlan(c.Request.Context(), appbilling.CreatePlanInput{
		Name:        req.Name,
		Slug:        req.Slug,
		Description: req.Description,
		Price:       price,
		Cycle:       valueobject.BillingCycle(req.Cycle),
		TrialDays:   req.TrialDays,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, toPlanResponse(plan))
}

// ListPlans handles GET /plans
func (h *BillingHandler) ListPlans(c *gin.Context) {
	plans, err := h.subscriptions.Plans(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}

	responses := make([]PlanResponse, len(plans))
	for i, p := range plans {
		responses[i] = toPlanResponse(p)
	}
	h.Success(c, responses)
}

// GetPlan handles GET /plans/:id
func (h *BillingHandler) GetPlan(c *gin.Context) {
	id, ok := h.parseUUIDParam(c, "id")
	if !ok {
		return
	}

	plan, err := h.subscriptions.GetPlan(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, toPlanResponse(plan))
}

// DeactivatePlan handles POST /plans/:id/deactivate
func (h *BillingHandler) DeactivatePlan(c *gin.Context) {
	id, ok := h.parseUUIDParam(c, "id")
	if !ok {
		return
	}

	plan, err := h.subscriptions.DeactivatePlan(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, toPlanResponse(plan))
}

// Subscribe handles POST /subscriptions
func (h *BillingHandler) Subscribe(c *gin.Context) {
	var req SubscribeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	sub, err := h.subscriptions.Subscribe(c.Request.Context(), appbilling.SubscribeInput{
		CustomerID: req.CustomerID,
		PlanID:     req.PlanID,
		Cycle:      valueobject.BillingCycle(req.Cycle),
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, toSubscriptionResponse(sub))
}

// GetSubscription handles GET /subscriptions/:id
func (h *BillingHandler) GetSubscription(c *gin.Context) {
	id, ok := h.parseUUIDParam(c, "id")
	if !ok {
		return
	}

	sub, err := h.subscriptions.GetSubscription(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, toSubscriptionResponse(sub))
}

// ChangePlan handles POST /subscriptions/:id/change-plan
func (h *BillingHandler) ChangePlan(c *gin.Context) {
	id, ok := h.parseUUIDParam(c, "id")
	if !ok {
		return
	}

	var req ChangePlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	result, err := h.subscriptions.ChangePlan(c.Request.Context(), id, req.PlanID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	resp := ChangePlanResponse{
		Subscription:   toSubscriptionResponse(result.Subscription),
		ProratedCharge: result.ProratedCharge,
	}
	if result.Invoice != nil {
		invoice := toInvoiceResponse(result.Invoice)
		resp.Invoice = &invoice
	}
	h.Success(c, resp)
}

// Cancel handles POST /subscriptions/:id/cancel
func (h *BillingHandler) Cancel(c *gin.Context) {
	id, ok := h.parseUUIDParam(c, "id")
	if !ok {
		return
	}

	// The body is optional; its absence means cancel at period end.
	var req CancelRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			h.BadRequest(c, err.Error())
			return
		}
	}

	sub, err := h.subscriptions.Cancel(c.Request.Context(), id, req.Immediate)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, toSubscriptionResponse(sub))
}

// Resume handles POST /subscriptions/:id/resume
func (h *BillingHandler) Resume(c *gin.Context) {
	id, ok := h.parseUUIDParam(c, "id")
	if !ok {
		return
	}

	sub, err := h.subscriptions.Resume(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, toSubscriptionResponse(sub))
}

// RefundPreview handles GET /subscriptions/:id/refund-preview
func (h *BillingHandler) RefundPreview(c *gin.Context) {
	id, ok := h.parseUUIDParam(c, "id")
	if !ok {
		return
	}

	amount, err := h.subscriptions.RefundPreview(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, RefundResponse{Amount: amount})
}

// Refund handles POST /subscriptions/:id/refund
func (h *BillingHandler) Refund(c *gin.Context) {
	id, ok := h.parseUUIDParam(c, "id")
	if !ok {
		return
	}

	var req RefundRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	amount, err := h.subscriptions.Refund(c.Request.Context(), id, req.PaymentIntentID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, RefundResponse{Amount: amount})
}

// Invoices handles GET /subscriptions/:id/invoices
func (h *BillingHandler) Invoices(c *gin.Context) {
	id, ok := h.parseUUIDParam(c, "id")
	if !ok {
		return
	}

	invoices, err := h.subscriptions.Invoices(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	responses := make([]InvoiceResponse, len(invoices))
	for i, inv := range invoices {
		responses[i] = toInvoiceResponse(inv)
	}
	h.Success(c, responses)
}

// RegisterRoutes registers all plan and subscription routes
func (h *BillingHandler) RegisterRoutes(rg *gin.RouterGroup) {
	plans := rg.Group("/plans")
	{
		plans.POST("", h.CreatePlan)
		plans.GET("", h.ListPlans)
		plans.GET("/:id", h.GetPlan)
		plans.POST("/:id/deactivate", h.DeactivatePlan)
	}

	subscriptions := rg.Group("/subscriptions")
	{
		subscriptions.POST("", h.Subscribe)
		subscriptions.GET("/:id", h.GetSubscription)
		subscriptions.POST("/:id/change-plan", h.ChangePlan)
		subscriptions.POST("/:id/cancel", h.Cancel)
		subscriptions.POST("/:id/resume", h.Resume)
		subscriptions.GET("/:id/refund-preview", h.RefundPreview)
		subscriptions.POST("/:id/refund", h.Refund)
		subscriptions.GET("/:id/invoices", h.Invoices)
	}

	rg.GET("/billing/metrics", h.Metrics)
}

// Metrics handles GET /billing/metrics
func (h *BillingHandler) Metrics(c *gin.Context) {
	metrics, err := h.subscriptions.Metrics(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, MetricsResponse{
		ActiveSubscriptions: metrics.ActiveSubscriptions,
		TotalARR:            metrics.TotalARR,
		TotalMRR:            metrics.TotalMRR,
	})
}
