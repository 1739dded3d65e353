package billing

import (
	"github.com/taskflow/backend/internal/domain/shared"
	"github.com/taskflow/backend/internal/domain/shared/valueobject"
)

// Plan represents a priced subscription offering
type Plan struct {
	shared.BaseEntity
	Name         string
	Slug         string
	Description  string
	Price        valueobject.Money
	BillingCycle valueobject.BillingCycle
	TrialDays    int
	Active       bool
}

// NewPlan creates a new plan
func NewPlan(name, slug string, price valueobject.Money, cycle valueobject.BillingCycle) (*Plan, error) {
	if name == "" {
		return nil, shared.NewInvalidArgument("plan name cannot be empty")
	}
	if slug == "" {
		return nil, shared.NewInvalidArgument("plan slug cannot be empty")
	}
	if !cycle.IsValid() {
		return nil, shared.NewUnsupportedCycle("invalid billing cycle: " + cycle.String())
	}

	return &Plan{
		BaseEntity:   shared.NewBaseEntity(),
		Name:         name,
		Slug:         slug,
		Price:        price,
		BillingCycle: cycle,
		Active:       true,
	}, nil
}

// IsFree returns true for zero-priced plans
func (p *Plan) IsFree() bool {
	return p.Price.IsZero()
}

// YearlyPrice returns the plan price expressed per year.
// Monthly plans convert at exactly twelve months.
func (p *Plan) YearlyPrice() (valueobject.Money, error) {
	if p.BillingCycle.IsYearly() {
		return p.Price, nil
	}
	return p.Price.MultiplyByInt(12)
}

// MonthlyPrice returns the plan price expressed per month.
// Yearly plans convert at exactly twelve months.
func (p *Plan) MonthlyPrice() (valueobject.Money, error) {
	if p.BillingCycle.IsMonthly() {
		return p.Price, nil
	}
	return p.Price.DivideByInt(12)
}

// WithTrial sets the trial period in days
func (p *Plan) WithTrial(days int) (*Plan, error) {
	if days < 0 {
		return nil, shared.NewInvalidArgument("trial days cannot be negative")
	}
	p.TrialDays = days
	return p, nil
}

// Deactivate removes the plan from sale without affecting existing subscriptions
func (p *Plan) Deactivate() {
	p.Active = false
	p.Touch()
}
