package billing

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/taskflow/backend/internal/domain/shared"
	"github.com/taskflow/backend/internal/domain/shared/valueobject"
)

func newCalcService(t *testing.T) *CalculationService {
	t.Helper()
	svc, err := NewCalculationService(valueobject.USD)
	require.NoError(t, err)
	return svc
}

func newTestPlan(t *testing.T, price float64, cycle valueobject.BillingCycle) *Plan {
	t.Helper()
	money, err := valueobject.NewMoneyFromFloat(price, valueobject.USD)
	require.NoError(t, err)
	plan, err := NewPlan("Test", "test-"+cycle.String(), money, cycle)
	require.NoError(t, err)
	return plan
}

func newTestSubscription(t *testing.T, plan *Plan, amount float64, startsAt time.Time) *Subscription {
	t.Helper()
	money, err := valueobject.NewMoneyFromFloat(amount, valueobject.USD)
	require.NoError(t, err)
	sub, err := NewSubscription(uuid.New(), plan, money, startsAt)
	require.NoError(t, err)
	return sub
}

func TestCalculateSubscriptionAmount(t *testing.T) {
	svc := newCalcService(t)

	t.Run("monthly plan billed yearly costs twelve months", func(t *testing.T) {
		plan := newTestPlan(t, 10, valueobject.CycleMonthly)

		amount, err := svc.CalculateSubscriptionAmount(plan, valueobject.CycleYearly)
		require.NoError(t, err)
		assert.Equal(t, "120.00", amount.StringFixed())
	})

	t.Run("yearly plan billed monthly costs a twelfth", func(t *testing.T) {
		plan := newTestPlan(t, 120, valueobject.CycleYearly)

		amount, err := svc.CalculateSubscriptionAmount(plan, valueobject.CycleMonthly)
		require.NoError(t, err)
		assert.Equal(t, "10.00", amount.StringFixed())
	})

	t.Run("matching cycles return the plan price unchanged", func(t *testing.T) {
		plan := newTestPlan(t, 29.99, valueobject.CycleMonthly)

		amount, err := svc.CalculateSubscriptionAmount(plan, valueobject.CycleMonthly)
		require.NoError(t, err)
		assert.True(t, amount.Equals(plan.Price))
	})

	t.Run("rejects invalid target cycle", func(t *testing.T) {
		plan := newTestPlan(t, 10, valueobject.CycleMonthly)

		_, err := svc.CalculateSubscriptionAmount(plan, valueobject.BillingCycle("quarterly"))
		require.Error(t, err)
		assert.True(t, shared.IsDomainErrorWithCode(err, shared.CodeUnsupportedCycle))
	})
}

func TestCalculateProration(t *testing.T) {
	svc := newCalcService(t)
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 0, 30)

	t.Run("upgrade mid-period charges half the price difference", func(t *testing.T) {
		current := newTestPlan(t, 10, valueobject.CycleMonthly)
		upgrade := newTestPlan(t, 20, valueobject.CycleMonthly)
		sub := newTestSubscription(t, current, 10, start)
		sub.EndsAt = &end

		// Day 15 of a 30-day period: (20-10) * 15/30 = 5.00
		amount, err := svc.CalculateProration(sub, upgrade, start.AddDate(0, 0, 15))
		require.NoError(t, err)
		assert.Equal(t, "5.00", amount.StringFixed())
	})

	t.Run("downgrade returns zero, not a credit", func(t *testing.T) {
		current := newTestPlan(t, 20, valueobject.CycleMonthly)
		downgrade := newTestPlan(t, 10, valueobject.CycleMonthly)
		sub := newTestSubscription(t, current, 20, start)
		sub.EndsAt = &end

		amount, err := svc.CalculateProration(sub, downgrade, start.AddDate(0, 0, 15))
		require.NoError(t, err)
		assert.True(t, amount.IsZero())
	})

	t.Run("change at period end yields zero", func(t *testing.T) {
		current := newTestPlan(t, 10, valueobject.CycleMonthly)
		upgrade := newTestPlan(t, 20, valueobject.CycleMonthly)
		sub := newTestSubscription(t, current, 10, start)
		sub.EndsAt = &end

		amount, err := svc.CalculateProration(sub, upgrade, end)
		require.NoError(t, err)
		assert.True(t, amount.IsZero())
	})

	t.Run("missing end date implies one month from the change date", func(t *testing.T) {
		current := newTestPlan(t, 10, valueobject.CycleMonthly)
		upgrade := newTestPlan(t, 20, valueobject.CycleMonthly)
		sub := newTestSubscription(t, current, 10, start)

		amount, err := svc.CalculateProration(sub, upgrade, start)
		require.NoError(t, err)
		// Remaining and total periods coincide, so the full difference is owed.
		assert.Equal(t, "10.00", amount.StringFixed())
	})
}

func TestCalculateTax(t *testing.T) {
	svc := newCalcService(t)
	subtotal, _ := valueobject.NewMoneyFromFloat(100, valueobject.USD)

	t.Run("applies the rate", func(t *testing.T) {
		tax, err := svc.CalculateTax(subtotal, decimal.NewFromFloat(0.08))
		require.NoError(t, err)
		assert.Equal(t, "8.00", tax.StringFixed())
	})

	t.Run("zero and one are inclusive bounds", func(t *testing.T) {
		tax, err := svc.CalculateTax(subtotal, decimal.Zero)
		require.NoError(t, err)
		assert.True(t, tax.IsZero())

		tax, err = svc.CalculateTax(subtotal, decimal.NewFromInt(1))
		require.NoError(t, err)
		assert.Equal(t, "100.00", tax.StringFixed())
	})

	t.Run("rejects out-of-range rates", func(t *testing.T) {
		_, err := svc.CalculateTax(subtotal, decimal.NewFromFloat(-0.1))
		assert.Error(t, err)

		_, err = svc.CalculateTax(subtotal, decimal.NewFromFloat(1.1))
		assert.Error(t, err)
	})
}

func TestCalculateDiscount(t *testing.T) {
	svc := newCalcService(t)
	subtotal, _ := valueobject.NewMoneyFromFloat(80, valueobject.USD)

	discount, err := svc.CalculateDiscount(subtotal, decimal.NewFromFloat(0.25))
	require.NoError(t, err)
	assert.Equal(t, "20.00", discount.StringFixed())

	_, err = svc.CalculateDiscount(subtotal, decimal.NewFromFloat(1.5))
	assert.Error(t, err)
}

func TestCalculateTotal(t *testing.T) {
	svc := newCalcService(t)

	t.Run("discount is applied before tax", func(t *testing.T) {
		subtotal, _ := valueobject.NewMoneyFromFloat(100, valueobject.USD)

		// 100 - 10% = 90 taxable, 8% tax on 90 = 7.20, total 97.20
		total, err := svc.CalculateTotal(subtotal, decimal.NewFromFloat(0.08), decimal.NewFromFloat(0.10))
		require.NoError(t, err)
		assert.Equal(t, "97.20", total.StringFixed())
	})

	t.Run("no tax or discount returns the subtotal", func(t *testing.T) {
		subtotal, _ := valueobject.NewMoneyFromFloat(49.99, valueobject.USD)

		total, err := svc.CalculateTotal(subtotal, decimal.Zero, decimal.Zero)
		require.NoError(t, err)
		assert.True(t, total.Equals(subtotal))
	})
}

func TestCalculateInvoiceTotals(t *testing.T) {
	svc := newCalcService(t)
	mustMoney := func(v float64) valueobject.Money {
		m, err := valueobject.NewMoneyFromFloat(v, valueobject.USD)
		require.NoError(t, err)
		return m
	}

	invoice, err := NewInvoice(uuid.New(), uuid.New(),
		mustMoney(100), mustMoney(8), mustMoney(10), mustMoney(98), time.Now())
	require.NoError(t, err)

	totals, err := svc.CalculateInvoiceTotals(invoice)
	require.NoError(t, err)

	assert.Equal(t, "100.00", totals.Subtotal.StringFixed())
	assert.Equal(t, "98.00", totals.TotalAmount.StringFixed())
	// Recomputation applies the discount before tax, so a stored total
	// computed as subtotal + tax - discount will not match.
	assert.Equal(t, "97.20", totals.CalculatedTotal.StringFixed())
}

func TestRecurringRevenue(t *testing.T) {
	svc := newCalcService(t)
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	t.Run("yearly subscription", func(t *testing.T) {
		plan := newTestPlan(t, 120, valueobject.CycleYearly)
		sub := newTestSubscription(t, plan, 120, start)

		arr, err := svc.CalculateARR(sub)
		require.NoError(t, err)
		assert.Equal(t, "120.00", arr.StringFixed())

		mrr, err := svc.CalculateMRR(sub)
		require.NoError(t, err)
		assert.Equal(t, "10.00", mrr.StringFixed())
	})

	t.Run("monthly subscription", func(t *testing.T) {
		plan := newTestPlan(t, 10, valueobject.CycleMonthly)
		sub := newTestSubscription(t, plan, 10, start)

		arr, err := svc.CalculateARR(sub)
		require.NoError(t, err)
		assert.Equal(t, "120.00", arr.StringFixed())

		mrr, err := svc.CalculateMRR(sub)
		require.NoError(t, err)
		assert.Equal(t, "10.00", mrr.StringFixed())
	})
}

func TestCalculateTrialEndDate(t *testing.T) {
	svc := newCalcService(t)
	start := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

	end, err := svc.CalculateTrialEndDate(start, 14)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC), end)

	_, err = svc.CalculateTrialEndDate(start, -1)
	assert.Error(t, err)
}

func TestCalculateNextBillingDate(t *testing.T) {
	svc := newCalcService(t)
	start := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)

	t.Run("monthly adds a calendar month", func(t *testing.T) {
		plan := newTestPlan(t, 10, valueobject.CycleMonthly)
		sub := newTestSubscription(t, plan, 10, start)

		next, err := svc.CalculateNextBillingDate(sub)
		require.NoError(t, err)
		assert.Equal(t, time.Date(2024, 2, 15, 0, 0, 0, 0, time.UTC), next)
	})

	t.Run("yearly adds a calendar year", func(t *testing.T) {
		plan := newTestPlan(t, 120, valueobject.CycleYearly)
		sub := newTestSubscription(t, plan, 120, start)

		next, err := svc.CalculateNextBillingDate(sub)
		require.NoError(t, err)
		assert.Equal(t, time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC), next)
	})

	t.Run("weekly plans do not rebill", func(t *testing.T) {
		plan := newTestPlan(t, 5, valueobject.CycleWeekly)
		sub := newTestSubscription(t, plan, 5, start)

		_, err := svc.CalculateNextBillingDate(sub)
		require.Error(t, err)
		assert.True(t, shared.IsDomainErrorWithCode(err, shared.CodeUnsupportedCycle))
	})
}

func TestCalculateRefundAmount(t *testing.T) {
	svc := newCalcService(t)
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	plan := newTestPlan(t, 30, valueobject.CycleMonthly)

	t.Run("no end date yields zero", func(t *testing.T) {
		sub := newTestSubscription(t, plan, 30, start)

		refund, err := svc.CalculateRefundAmount(sub, start.AddDate(0, 0, 10))
		require.NoError(t, err)
		assert.True(t, refund.IsZero())
	})

	t.Run("refund after the end yields zero", func(t *testing.T) {
		sub := newTestSubscription(t, plan, 30, start)
		end := start.AddDate(0, 0, 30)
		sub.EndsAt = &end

		refund, err := svc.CalculateRefundAmount(sub, end.AddDate(0, 0, 1))
		require.NoError(t, err)
		assert.True(t, refund.IsZero())
	})

	t.Run("mid-period refund returns the unused ratio", func(t *testing.T) {
		sub := newTestSubscription(t, plan, 30, start)
		end := start.AddDate(0, 0, 30)
		sub.EndsAt = &end

		// 20 of 30 days remain: 30 * 20/30 = 20.00
		refund, err := svc.CalculateRefundAmount(sub, start.AddDate(0, 0, 10))
		require.NoError(t, err)
		assert.Equal(t, "20.00", refund.StringFixed())
	})
}

func TestValidateCalculation(t *testing.T) {
	svc := newCalcService(t)
	mustMoney := func(v float64) valueobject.Money {
		m, err := valueobject.NewMoneyFromFloat(v, valueobject.USD)
		require.NoError(t, err)
		return m
	}

	t.Run("consistent amounts validate", func(t *testing.T) {
		ok, err := svc.ValidateCalculation(mustMoney(100), mustMoney(8), mustMoney(10), mustMoney(98))
		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("inconsistent amounts do not", func(t *testing.T) {
		ok, err := svc.ValidateCalculation(mustMoney(100), mustMoney(8), mustMoney(10), mustMoney(97.20))
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("currency mismatch is an error", func(t *testing.T) {
		eur, err := valueobject.NewMoneyFromFloat(8, valueobject.EUR)
		require.NoError(t, err)

		_, err = svc.ValidateCalculation(mustMoney(100), eur, mustMoney(10), mustMoney(98))
		assert.Error(t, err)
	})
}
