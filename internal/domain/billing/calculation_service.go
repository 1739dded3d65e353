package billing

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/taskflow/backend/internal/domain/shared"
	"github.com/taskflow/backend/internal/domain/shared/valueobject"
)

// CalculationService performs pure billing math over plans, subscriptions
// and invoices. It holds no mutable state; every method validates its own
// inputs and fails with a domain error rather than returning a partial
// result.
type CalculationService struct {
	currency valueobject.Currency
}

// NewCalculationService creates a calculation service with the configured
// default currency. The currency is passed explicitly from configuration;
// it is not baked into the Money type.
func NewCalculationService(currency valueobject.Currency) (*CalculationService, error) {
	if currency == "" {
		return nil, shared.NewInvalidArgument("default currency cannot be empty")
	}
	return &CalculationService{currency: currency}, nil
}

// Currency returns the configured default currency
func (s *CalculationService) Currency() valueobject.Currency {
	return s.currency
}

// CalculateSubscriptionAmount returns the plan price expressed in the
// requested billing cycle. Only monthly and yearly conversions are
// supported: monthly plans billed yearly cost twelve months, yearly plans
// billed monthly cost a twelfth. Any other combination returns the plan
// price unchanged.
func (s *CalculationService) CalculateSubscriptionAmount(plan *Plan, targetCycle valueobject.BillingCycle) (valueobject.Money, error) {
	if plan == nil {
		return valueobject.Money{}, shared.NewInvalidArgument("plan cannot be nil")
	}
	if !targetCycle.IsValid() {
		return valueobject.Money{}, shared.NewUnsupportedCycle(fmt.Sprintf("invalid billing cycle: %s", targetCycle))
	}

	if targetCycle.IsYearly() && plan.BillingCycle.IsMonthly() {
		return plan.YearlyPrice()
	}
	if targetCycle.IsMonthly() && plan.BillingCycle.IsYearly() {
		return plan.MonthlyPrice()
	}
	return plan.Price, nil
}

// CalculateProration computes the amount owed when a subscription changes
// plan mid-period. The unused portion of the current plan is credited
// against the new plan's price for the remaining period; a positive
// difference is owed by the customer.
//
// When the difference is negative (a downgrade) the result is zero, not a
// credit. This mirrors a no-mid-cycle-refund billing policy; see the
// design notes before changing it.
func (s *CalculationService) CalculateProration(sub *Subscription, newPlan *Plan, changeDate time.Time) (valueobject.Money, error) {
	if sub == nil || sub.Plan == nil {
		return valueobject.Money{}, shared.NewInvalidArgument("subscription with plan is required")
	}
	if newPlan == nil {
		return valueobject.Money{}, shared.NewInvalidArgument("new plan cannot be nil")
	}

	currentPlan := sub.Plan
	zero := valueobject.Zero(currentPlan.Price.Currency())

	endDate := sub.EndDate()
	if endDate == nil {
		implied := changeDate.AddDate(0, 1, 0)
		endDate = &implied
	}

	remainingDays := daysBetween(changeDate, *endDate)
	totalDays := daysBetween(sub.StartsAt, *endDate)
	if remainingDays <= 0 || totalDays <= 0 {
		return zero, nil
	}

	ratio := decimal.NewFromInt(remainingDays).Div(decimal.NewFromInt(totalDays))

	unusedCurrent, err := currentPlan.Price.Multiply(ratio)
	if err != nil {
		return valueobject.Money{}, err
	}

	newAmount, err := s.CalculateSubscriptionAmount(newPlan, valueobject.CycleMonthly)
	if err != nil {
		return valueobject.Money{}, err
	}
	newPortion, err := newAmount.Multiply(ratio)
	if err != nil {
		return valueobject.Money{}, err
	}

	// Downgrade credit is forfeited rather than refunded.
	cheaper, err := newPortion.LessThan(unusedCurrent)
	if err != nil {
		return valueobject.Money{}, err
	}
	if cheaper {
		return zero, nil
	}
	return newPortion.Subtract(unusedCurrent)
}

// CalculateTax returns the tax on a subtotal at the given rate.
// The rate must lie in [0, 1].
func (s *CalculationService) CalculateTax(subtotal valueobject.Money, rate decimal.Decimal) (valueobject.Money, error) {
	if rate.IsNegative() || rate.GreaterThan(decimal.NewFromInt(1)) {
		return valueobject.Money{}, shared.NewInvalidArgument("tax rate must be between 0 and 1")
	}
	return subtotal.Multiply(rate)
}

// CalculateDiscount returns the discount on a subtotal at the given
// percentage, expressed as a fraction in [0, 1].
func (s *CalculationService) CalculateDiscount(subtotal valueobject.Money, pct decimal.Decimal) (valueobject.Money, error) {
	if pct.IsNegative() || pct.GreaterThan(decimal.NewFromInt(1)) {
		return valueobject.Money{}, shared.NewInvalidArgument("discount percentage must be between 0 and 1")
	}
	return subtotal.Multiply(pct)
}

// CalculateTotal applies the discount first and then taxes the discounted
// base: total = (subtotal - discount) + tax(subtotal - discount).
func (s *CalculationService) CalculateTotal(subtotal valueobject.Money, taxRate, discountPct decimal.Decimal) (valueobject.Money, error) {
	discount, err := s.CalculateDiscount(subtotal, discountPct)
	if err != nil {
		return valueobject.Money{}, err
	}
	taxable, err := subtotal.Subtract(discount)
	if err != nil {
		return valueobject.Money{}, err
	}
	tax, err := s.CalculateTax(taxable, taxRate)
	if err != nil {
		return valueobject.Money{}, err
	}
	return taxable.Add(tax)
}

// InvoiceTotals carries an invoice's stored amounts alongside an
// independently recomputed total for cross-checking.
type InvoiceTotals struct {
	Subtotal        valueobject.Money
	TaxAmount       valueobject.Money
	DiscountAmount  valueobject.Money
	TotalAmount     valueobject.Money
	CalculatedTotal valueobject.Money
}

// CalculateInvoiceTotals recomputes an invoice's total from its stored
// components, back-deriving the tax rate and discount percentage from the
// stored amounts. A mismatch between TotalAmount and CalculatedTotal
// indicates the stored invoice is internally inconsistent.
func (s *CalculationService) CalculateInvoiceTotals(invoice *Invoice) (InvoiceTotals, error) {
	if invoice == nil {
		return InvoiceTotals{}, shared.NewInvalidArgument("invoice cannot be nil")
	}

	totals := InvoiceTotals{
		Subtotal:       invoice.Subtotal,
		TaxAmount:      invoice.TaxAmount,
		DiscountAmount: invoice.DiscountAmount,
		TotalAmount:    invoice.TotalAmount,
	}

	taxRate := decimal.Zero
	discountPct := decimal.Zero
	if !invoice.Subtotal.IsZero() {
		taxRate = invoice.TaxAmount.Amount().Div(invoice.Subtotal.Amount())
		discountPct = invoice.DiscountAmount.Amount().Div(invoice.Subtotal.Amount())
	}

	calculated, err := s.CalculateTotal(invoice.Subtotal, taxRate, discountPct)
	if err != nil {
		return InvoiceTotals{}, err
	}
	totals.CalculatedTotal = calculated
	return totals, nil
}

// CalculateARR returns the annual recurring revenue of a subscription:
// yearly amounts are already annual, monthly amounts are scaled by twelve.
func (s *CalculationService) CalculateARR(sub *Subscription) (valueobject.Money, error) {
	if sub == nil || sub.Plan == nil {
		return valueobject.Money{}, shared.NewInvalidArgument("subscription with plan is required")
	}
	if sub.Plan.BillingCycle.IsYearly() {
		return sub.Amount, nil
	}
	return sub.Amount.MultiplyByInt(12)
}

// CalculateMRR returns the monthly recurring revenue of a subscription:
// monthly amounts pass through, yearly amounts are divided by twelve.
func (s *CalculationService) CalculateMRR(sub *Subscription) (valueobject.Money, error) {
	if sub == nil || sub.Plan == nil {
		return valueobject.Money{}, shared.NewInvalidArgument("subscription with plan is required")
	}
	if sub.Plan.BillingCycle.IsMonthly() {
		return sub.Amount, nil
	}
	return sub.Amount.DivideByInt(12)
}

// CalculateTrialEndDate returns the trial expiry, a fixed number of
// calendar days after the start date.
func (s *CalculationService) CalculateTrialEndDate(start time.Time, trialDays int) (time.Time, error) {
	if trialDays < 0 {
		return time.Time{}, shared.NewInvalidArgument("trial days cannot be negative")
	}
	return start.AddDate(0, 0, trialDays), nil
}

// CalculateNextBillingDate returns the next billing date for a
// subscription using calendar arithmetic from its start date. Only
// monthly and yearly plans rebill.
func (s *CalculationService) CalculateNextBillingDate(sub *Subscription) (time.Time, error) {
	if sub == nil || sub.Plan == nil {
		return time.Time{}, shared.NewInvalidArgument("subscription with plan is required")
	}
	switch {
	case sub.Plan.BillingCycle.IsMonthly():
		return sub.StartsAt.AddDate(0, 1, 0), nil
	case sub.Plan.BillingCycle.IsYearly():
		return sub.StartsAt.AddDate(1, 0, 0), nil
	}
	return time.Time{}, shared.NewUnsupportedCycle(fmt.Sprintf("unsupported billing cycle: %s", sub.Plan.BillingCycle))
}

// CalculateRefundAmount returns the unused portion of a subscription's
// amount at the given refund date. Subscriptions without an end date, or
// refunds requested at or after the end, yield zero.
func (s *CalculationService) CalculateRefundAmount(sub *Subscription, refundDate time.Time) (valueobject.Money, error) {
	if sub == nil {
		return valueobject.Money{}, shared.NewInvalidArgument("subscription is required")
	}
	zero := valueobject.Zero(sub.Amount.Currency())

	endDate := sub.EndDate()
	if endDate == nil || !refundDate.Before(*endDate) {
		return zero, nil
	}

	remainingDays := daysBetween(refundDate, *endDate)
	totalDays := daysBetween(sub.StartsAt, *endDate)
	if remainingDays <= 0 || totalDays <= 0 {
		return zero, nil
	}

	ratio := decimal.NewFromInt(remainingDays).Div(decimal.NewFromInt(totalDays))
	return sub.Amount.Multiply(ratio)
}

// ValidateCalculation checks that subtotal + tax - discount equals the
// stored total exactly.
func (s *CalculationService) ValidateCalculation(subtotal, tax, discount, total valueobject.Money) (bool, error) {
	withTax, err := subtotal.Add(tax)
	if err != nil {
		return false, err
	}
	calculated, err := withTax.Subtract(discount)
	if err != nil {
		return false, err
	}
	return calculated.Equals(total), nil
}

// daysBetween returns the number of whole days from one instant to another
func daysBetween(from, to time.Time) int64 {
	return int64(to.Sub(from).Hours() / 24)
}
