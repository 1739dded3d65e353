package billing

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/taskflow/backend/internal/domain/billing"
	"github.com/taskflow/backend/internal/domain/shared"
	"github.com/taskflow/backend/internal/domain/shared/valueobject"
	"go.uber.org/zap"
)

// SubscribeInput contains input for creating a subscription
type SubscribeInput struct {
	CustomerID uuid.UUID
	PlanID     uuid.UUID
	// Cycle optionally bills the plan on a different cycle than its
	// default, e.g. a monthly plan paid yearly. Zero value keeps the
	// plan's own cycle.
	Cycle valueobject.BillingCycle
}

// ChangePlanResult reports the outcome of a mid-period plan change
type ChangePlanResult struct {
	Subscription   *billing.Subscription
	ProratedCharge valueobject.Money
	Invoice        *billing.Invoice
}

// RevenueMetrics aggregates recurring revenue over all active subscriptions
type RevenueMetrics struct {
	ActiveSubscriptions int
	TotalARR            valueobject.Money
	TotalMRR            valueobject.Money
}

// SubscriptionService drives the subscription lifecycle: enrollment,
// mid-period plan changes with proration, cancellation and refunds. All
// money math is delegated to the domain calculation service; the payment
// gateway is only touched for non-zero charges.
type SubscriptionService struct {
	plans         billing.PlanRepository
	subscriptions billing.SubscriptionRepository
	invoices      billing.InvoiceRepository
	calc          *billing.CalculationService
	gateway       billing.PaymentGateway
	taxRate       decimal.Decimal
	logger        *zap.Logger

	now func() time.Time
}

// NewSubscriptionService creates a new SubscriptionService. The tax rate
// comes from configuration and applies to every invoice the service issues.
func NewSubscriptionService(
	plans billing.PlanRepository,
	subscriptions billing.SubscriptionRepository,
	invoices billing.InvoiceRepository,
	calc *billing.CalculationService,
	gateway billing.PaymentGateway,
	taxRate decimal.Decimal,
	logger *zap.Logger,
) *SubscriptionService {
	return &SubscriptionService{
		plans:         plans,
		subscriptions: subscriptions,
		invoices:      invoices,
		calc:          calc,
		gateway:       gateway,
		taxRate:       taxRate,
		logger:        logger,
		now:           time.Now,
	}
}

// CreatePlanInput contains input for creating a plan
type CreatePlanInput struct {
	Name        string
	Slug        string
	Description string
	Price       valueobject.Money
	Cycle       valueobject.BillingCycle
	TrialDays   int
}

// CreatePlan registers a new plan for sale. Slugs are unique.
func (s *SubscriptionService) CreatePlan(ctx context.Context, input CreatePlanInput) (*billing.Plan, error) {
	existing, err := s.plans.FindBySlug(ctx, input.Slug)
	if err != nil && !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}
	if existing != nil {
		return nil, shared.NewDomainError(shared.CodeAlreadyExists, "a plan with this slug already exists")
	}

	plan, err := billing.NewPlan(input.Name, input.Slug, input.Price, input.Cycle)
	if err != nil {
		return nil, err
	}
	plan.Description = input.Description
	if input.TrialDays > 0 {
		if _, err := plan.WithTrial(input.TrialDays); err != nil {
			return nil, err
		}
	}

	if err := s.plans.Save(ctx, plan); err != nil {
		return nil, err
	}

	s.logger.Info("Created plan",
		zap.String("plan_id", plan.ID.String()),
		zap.String("slug", plan.Slug),
		zap.String("price", plan.Price.StringFixed()))
	return plan, nil
}

// Plans lists the plans currently available for sale
func (s *SubscriptionService) Plans(ctx context.Context) ([]*billing.Plan, error) {
	return s.plans.FindActive(ctx)
}

// GetPlan returns a plan by ID
func (s *SubscriptionService) GetPlan(ctx context.Context, planID uuid.UUID) (*billing.Plan, error) {
	return s.plans.FindByID(ctx, planID)
}

// DeactivatePlan takes a plan off sale. Existing subscriptions keep running.
func (s *SubscriptionService) DeactivatePlan(ctx context.Context, planID uuid.UUID) (*billing.Plan, error) {
	plan, err := s.plans.FindByID(ctx, planID)
	if err != nil {
		return nil, err
	}
	plan.Deactivate()
	if err := s.plans.Update(ctx, plan); err != nil {
		return nil, err
	}

	s.logger.Info("Deactivated plan", zap.String("plan_id", plan.ID.String()))
	return plan, nil
}

// GetSubscription returns a subscription by ID
func (s *SubscriptionService) GetSubscription(ctx context.Context, subscriptionID uuid.UUID) (*billing.Subscription, error) {
	return s.subscriptions.FindByID(ctx, subscriptionID)
}

// Subscribe enrolls a customer in a plan. A customer can hold only one
// active subscription; plans with a trial start with the trial end set
// and are not charged up front.
func (s *SubscriptionService) Subscribe(ctx context.Context, input SubscribeInput) (*billing.Subscription, error) {
	existing, err := s.subscriptions.FindActiveByCustomer(ctx, input.CustomerID)
	if err != nil && !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}
	if existing != nil {
		return nil, shared.NewDomainError(shared.CodeAlreadyExists, "customer already has an active subscription")
	}

	plan, err := s.plans.FindByID(ctx, input.PlanID)
	if err != nil {
		return nil, err
	}
	if !plan.Active {
		return nil, shared.NewInvalidArgument("plan is no longer available")
	}

	cycle := input.Cycle
	if cycle == "" {
		cycle = plan.BillingCycle
	}
	amount, err := s.calc.CalculateSubscriptionAmount(plan, cycle)
	if err != nil {
		return nil, err
	}

	startsAt := s.now()
	sub, err := billing.NewSubscription(input.CustomerID, plan, amount, startsAt)
	if err != nil {
		return nil, err
	}

	onTrial := plan.TrialDays > 0
	if onTrial {
		trialEnd, err := s.calc.CalculateTrialEndDate(startsAt, plan.TrialDays)
		if err != nil {
			return nil, err
		}
		sub.WithTrialEnd(trialEnd)
	}

	if err := s.subscriptions.Save(ctx, sub); err != nil {
		return nil, err
	}

	// Trials and free plans are not charged at enrollment.
	if !onTrial && !amount.IsZero() {
		if _, err := s.chargeAndInvoice(ctx, sub, amount); err != nil {
			s.logger.Error("Failed to charge new subscription",
				zap.String("subscription_id", sub.ID.String()),
				zap.Error(err))
			return nil, err
		}
	}

	s.logger.Info("Created subscription",
		zap.String("subscription_id", sub.ID.String()),
		zap.String("customer_id", input.CustomerID.String()),
		zap.String("plan", plan.Slug),
		zap.String("amount", amount.StringFixed()))
	return sub, nil
}

// ChangePlan moves a subscription onto a new plan mid-period. The
// prorated difference is charged and invoiced when positive; downgrades
// charge nothing and the unused credit is forfeited.
func (s *SubscriptionService) ChangePlan(ctx context.Context, subscriptionID, newPlanID uuid.UUID) (*ChangePlanResult, error) {
	sub, err := s.subscriptions.FindByID(ctx, subscriptionID)
	if err != nil {
		return nil, err
	}
	newPlan, err := s.plans.FindByID(ctx, newPlanID)
	if err != nil {
		return nil, err
	}
	if !newPlan.Active {
		return nil, shared.NewInvalidArgument("plan is no longer available")
	}

	changeDate := s.now()
	proration, err := s.calc.CalculateProration(sub, newPlan, changeDate)
	if err != nil {
		return nil, err
	}

	newAmount, err := s.calc.CalculateSubscriptionAmount(newPlan, newPlan.BillingCycle)
	if err != nil {
		return nil, err
	}
	if err := sub.SwitchPlan(newPlan, newAmount); err != nil {
		return nil, err
	}
	if err := s.subscriptions.Update(ctx, sub); err != nil {
		return nil, err
	}

	result := &ChangePlanResult{Subscription: sub, ProratedCharge: proration}
	if !proration.IsZero() {
		invoice, err := s.chargeAndInvoice(ctx, sub, proration)
		if err != nil {
			s.logger.Error("Failed to charge prorated plan change",
				zap.String("subscription_id", sub.ID.String()),
				zap.Error(err))
			return nil, err
		}
		result.Invoice = invoice
	}

	s.logger.Info("Changed subscription plan",
		zap.String("subscription_id", sub.ID.String()),
		zap.String("plan", newPlan.Slug),
		zap.String("prorated_charge", proration.StringFixed()))
	return result, nil
}

// Cancel ends a subscription. Immediate cancellation stops it now;
// otherwise it stays active until the next billing date and does not renew.
func (s *SubscriptionService) Cancel(ctx context.Context, subscriptionID uuid.UUID, immediate bool) (*billing.Subscription, error) {
	sub, err := s.subscriptions.FindByID(ctx, subscriptionID)
	if err != nil {
		return nil, err
	}

	if immediate {
		if err := sub.Cancel(s.now()); err != nil {
			return nil, err
		}
	} else {
		periodEnd, err := s.calc.CalculateNextBillingDate(sub)
		if err != nil {
			return nil, err
		}
		if err := sub.ScheduleCancellation(periodEnd); err != nil {
			return nil, err
		}
	}

	if err := s.subscriptions.Update(ctx, sub); err != nil {
		return nil, err
	}

	s.logger.Info("Cancelled subscription",
		zap.String("subscription_id", sub.ID.String()),
		zap.Bool("immediate", immediate))
	return sub, nil
}

// Resume clears a scheduled cancellation
func (s *SubscriptionService) Resume(ctx context.Context, subscriptionID uuid.UUID) (*billing.Subscription, error) {
	sub, err := s.subscriptions.FindByID(ctx, subscriptionID)
	if err != nil {
		return nil, err
	}
	if err := sub.Resume(); err != nil {
		return nil, err
	}
	if err := s.subscriptions.Update(ctx, sub); err != nil {
		return nil, err
	}
	return sub, nil
}

// RefundPreview returns the unused amount a refund issued now would cover
func (s *SubscriptionService) RefundPreview(ctx context.Context, subscriptionID uuid.UUID) (valueobject.Money, error) {
	sub, err := s.subscriptions.FindByID(ctx, subscriptionID)
	if err != nil {
		return valueobject.Money{}, err
	}
	return s.calc.CalculateRefundAmount(sub, s.now())
}

// Refund refunds the unused portion of a subscription against the payment
// intent that originally charged it, and returns the refunded amount
func (s *SubscriptionService) Refund(ctx context.Context, subscriptionID uuid.UUID, paymentIntentID string) (valueobject.Money, error) {
	sub, err := s.subscriptions.FindByID(ctx, subscriptionID)
	if err != nil {
		return valueobject.Money{}, err
	}

	amount, err := s.calc.CalculateRefundAmount(sub, s.now())
	if err != nil {
		return valueobject.Money{}, err
	}
	if amount.IsZero() {
		return amount, nil
	}

	if err := s.gateway.RefundPayment(ctx, paymentIntentID, amount); err != nil {
		s.logger.Error("Failed to refund payment",
			zap.String("subscription_id", sub.ID.String()),
			zap.String("payment_intent_id", paymentIntentID),
			zap.Error(err))
		return valueobject.Money{}, err
	}

	s.logger.Info("Refunded subscription",
		zap.String("subscription_id", sub.ID.String()),
		zap.String("amount", amount.StringFixed()))
	return amount, nil
}

// Metrics aggregates ARR and MRR over all active subscriptions
func (s *SubscriptionService) Metrics(ctx context.Context) (*RevenueMetrics, error) {
	subs, err := s.subscriptions.FindAllActive(ctx)
	if err != nil {
		return nil, err
	}

	metrics := &RevenueMetrics{
		ActiveSubscriptions: len(subs),
		TotalARR:            valueobject.Zero(s.calc.Currency()),
		TotalMRR:            valueobject.Zero(s.calc.Currency()),
	}
	for _, sub := range subs {
		arr, err := s.calc.CalculateARR(sub)
		if err != nil {
			return nil, err
		}
		mrr, err := s.calc.CalculateMRR(sub)
		if err != nil {
			return nil, err
		}
		if metrics.TotalARR, err = metrics.TotalARR.Add(arr); err != nil {
			return nil, err
		}
		if metrics.TotalMRR, err = metrics.TotalMRR.Add(mrr); err != nil {
			return nil, err
		}
	}
	return metrics, nil
}

// Invoices lists the invoices issued against a subscription
func (s *SubscriptionService) Invoices(ctx context.Context, subscriptionID uuid.UUID) ([]*billing.Invoice, error) {
	return s.invoices.FindBySubscription(ctx, subscriptionID)
}

// chargeAndInvoice charges the gateway for the given amount and records a
// paid invoice with tax applied at the configured rate. The invoice total
// is discount-then-tax over the charged base.
func (s *SubscriptionService) chargeAndInvoice(ctx context.Context, sub *billing.Subscription, base valueobject.Money) (*billing.Invoice, error) {
	tax, err := s.calc.CalculateTax(base, s.taxRate)
	if err != nil {
		return nil, err
	}
	total, err := s.calc.CalculateTotal(base, s.taxRate, decimal.Zero)
	if err != nil {
		return nil, err
	}

	intent, err := s.gateway.CreatePaymentIntent(ctx, total, map[string]string{
		"subscription_id": sub.ID.String(),
		"customer_id":     sub.CustomerID.String(),
	})
	if err != nil {
		return nil, err
	}
	if err := s.gateway.ConfirmPayment(ctx, intent.ID); err != nil {
		return nil, err
	}

	now := s.now()
	invoice, err := billing.NewInvoice(sub.ID, sub.CustomerID,
		base, tax, valueobject.Zero(base.Currency()), total, now)
	if err != nil {
		return nil, err
	}
	if err := invoice.Open(); err != nil {
		return nil, err
	}
	if err := invoice.MarkPaid(now); err != nil {
		return nil, err
	}
	if err := s.invoices.Save(ctx, invoice); err != nil {
		return nil, err
	}
	return invoice, nil
}
