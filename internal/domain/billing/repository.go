package billing

import (
	"context"

	"github.com/google/uuid"
)

// PlanRepository defines the interface for persisting and querying plans
type PlanRepository interface {
	Save(ctx context.Context, plan *Plan) error
	Update(ctx context.Context, plan *Plan) error
	FindByID(ctx context.Context, id uuid.UUID) (*Plan, error)
	FindBySlug(ctx context.Context, slug string) (*Plan, error)
	FindActive(ctx context.Context) ([]*Plan, error)
}

// SubscriptionRepository defines the interface for persisting and querying subscriptions
type SubscriptionRepository interface {
	Save(ctx context.Context, sub *Subscription) error
	Update(ctx context.Context, sub *Subscription) error
	FindByID(ctx context.Context, id uuid.UUID) (*Subscription, error)
	FindActiveByCustomer(ctx context.Context, customerID uuid.UUID) (*Subscription, error)
	FindAllActive(ctx context.Context) ([]*Subscription, error)
}

// InvoiceRepository defines the interface for persisting and querying invoices
type InvoiceRepository interface {
	Save(ctx context.Context, invoice *Invoice) error
	Update(ctx context.Context, invoice *Invoice) error
	FindByID(ctx context.Context, id uuid.UUID) (*Invoice, error)
	FindBySubscription(ctx context.Context, subscriptionID uuid.UUID) ([]*Invoice, error)
}
