package billing

import (
	"time"

	"github.com/google/uuid"
	"github.com/taskflow/backend/internal/domain/shared"
	"github.com/taskflow/backend/internal/domain/shared/valueobject"
)

// SubscriptionStatus represents the lifecycle status of a subscription
type SubscriptionStatus string

const (
	SubscriptionStatusActive    SubscriptionStatus = "active"
	SubscriptionStatusCancelled SubscriptionStatus = "cancelled"
	SubscriptionStatusExpired   SubscriptionStatus = "expired"
)

// IsValid checks if the status is a valid SubscriptionStatus
func (s SubscriptionStatus) IsValid() bool {
	switch s {
	case SubscriptionStatusActive, SubscriptionStatusCancelled, SubscriptionStatusExpired:
		return true
	}
	return false
}

// String returns the string representation of SubscriptionStatus
func (s SubscriptionStatus) String() string {
	return string(s)
}

// Subscription represents a customer's enrollment in a plan
type Subscription struct {
	shared.BaseEntity
	CustomerID        uuid.UUID
	PlanID            uuid.UUID
	Plan              *Plan
	Amount            valueobject.Money
	Status            SubscriptionStatus
	StartsAt          time.Time
	EndsAt            *time.Time
	TrialEndsAt       *time.Time
	CancelAtPeriodEnd *time.Time
	CancelledAt       *time.Time
}

// NewSubscription creates an active subscription to the given plan
func NewSubscription(customerID uuid.UUID, plan *Plan, amount valueobject.Money, startsAt time.Time) (*Subscription, error) {
	if customerID == uuid.Nil {
		return nil, shared.NewInvalidArgument("customer ID cannot be empty")
	}
	if plan == nil {
		return nil, shared.NewInvalidArgument("plan cannot be nil")
	}

	return &Subscription{
		BaseEntity: shared.NewBaseEntity(),
		CustomerID: customerID,
		PlanID:     plan.ID,
		Plan:       plan,
		Amount:     amount,
		Status:     SubscriptionStatusActive,
		StartsAt:   startsAt,
	}, nil
}

// EndDate returns the effective end of the subscription: the explicit end
// date if set, otherwise the scheduled period-end cancellation date,
// otherwise nil (ongoing).
func (s *Subscription) EndDate() *time.Time {
	if s.EndsAt != nil {
		return s.EndsAt
	}
	if s.CancelAtPeriodEnd != nil {
		return s.CancelAtPeriodEnd
	}
	return nil
}

// IsActive returns true while the subscription is in the active status
func (s *Subscription) IsActive() bool {
	return s.Status == SubscriptionStatusActive
}

// IsOnTrial returns true while the trial period has not elapsed
func (s *Subscription) IsOnTrial(now time.Time) bool {
	return s.TrialEndsAt != nil && s.TrialEndsAt.After(now)
}

// WithTrialEnd sets the trial end date
func (s *Subscription) WithTrialEnd(trialEnd time.Time) *Subscription {
	s.TrialEndsAt = &trialEnd
	return s
}

// Cancel ends the subscription immediately
func (s *Subscription) Cancel(now time.Time) error {
	if s.Status != SubscriptionStatusActive {
		return shared.NewInvalidTransition("only active subscriptions can be cancelled")
	}
	s.Status = SubscriptionStatusCancelled
	s.CancelledAt = &now
	s.EndsAt = &now
	s.Touch()
	return nil
}

// ScheduleCancellation keeps the subscription active until the given
// period end, after which it will not renew
func (s *Subscription) ScheduleCancellation(periodEnd time.Time) error {
	if s.Status != SubscriptionStatusActive {
		return shared.NewInvalidTransition("only active subscriptions can be scheduled for cancellation")
	}
	s.CancelAtPeriodEnd = &periodEnd
	s.Touch()
	return nil
}

// Resume clears a scheduled cancellation
func (s *Subscription) Resume() error {
	if s.Status != SubscriptionStatusActive {
		return shared.NewInvalidTransition("only active subscriptions can be resumed")
	}
	s.CancelAtPeriodEnd = nil
	s.Touch()
	return nil
}

// SwitchPlan moves the subscription onto a new plan at the given amount.
// Proration is the caller's concern; the subscription only records the change.
func (s *Subscription) SwitchPlan(newPlan *Plan, amount valueobject.Money) error {
	if s.Status != SubscriptionStatusActive {
		return shared.NewInvalidTransition("only active subscriptions can change plans")
	}
	if newPlan == nil {
		return shared.NewInvalidArgument("plan cannot be nil")
	}
	s.PlanID = newPlan.ID
	s.Plan = newPlan
	s.Amount = amount
	s.Touch()
	return nil
}
