package billing

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/taskflow/backend/internal/domain/shared/valueobject"
)

func TestNewSubscription(t *testing.T) {
	plan := newTestPlan(t, 10, valueobject.CycleMonthly)
	amount, _ := valueobject.NewMoneyFromFloat(10, valueobject.USD)

	t.Run("starts active without an end date", func(t *testing.T) {
		sub, err := NewSubscription(uuid.New(), plan, amount, time.Now())
		require.NoError(t, err)
		assert.True(t, sub.IsActive())
		assert.Nil(t, sub.EndDate())
	})

	t.Run("requires customer and plan", func(t *testing.T) {
		_, err := NewSubscription(uuid.Nil, plan, amount, time.Now())
		assert.Error(t, err)

		_, err = NewSubscription(uuid.New(), nil, amount, time.Now())
		assert.Error(t, err)
	})
}

func TestSubscriptionEndDate(t *testing.T) {
	plan := newTestPlan(t, 10, valueobject.CycleMonthly)
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	sub := newTestSubscription(t, plan, 10, start)

	t.Run("explicit end date wins", func(t *testing.T) {
		end := start.AddDate(0, 1, 0)
		scheduled := start.AddDate(0, 2, 0)
		sub.EndsAt = &end
		sub.CancelAtPeriodEnd = &scheduled

		require.NotNil(t, sub.EndDate())
		assert.Equal(t, end, *sub.EndDate())
	})

	t.Run("scheduled cancellation is the fallback", func(t *testing.T) {
		scheduled := start.AddDate(0, 2, 0)
		sub.EndsAt = nil
		sub.CancelAtPeriodEnd = &scheduled

		require.NotNil(t, sub.EndDate())
		assert.Equal(t, scheduled, *sub.EndDate())
	})
}

func TestSubscriptionCancel(t *testing.T) {
	plan := newTestPlan(t, 10, valueobject.CycleMonthly)
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	t.Run("immediate cancellation sets the end date", func(t *testing.T) {
		sub := newTestSubscription(t, plan, 10, start)
		now := start.AddDate(0, 0, 10)

		require.NoError(t, sub.Cancel(now))
		assert.Equal(t, SubscriptionStatusCancelled, sub.Status)
		require.NotNil(t, sub.EndsAt)
		assert.Equal(t, now, *sub.EndsAt)

		// Cancelling twice is an illegal transition.
		assert.Error(t, sub.Cancel(now))
	})

	t.Run("scheduled cancellation keeps the subscription active", func(t *testing.T) {
		sub := newTestSubscription(t, plan, 10, start)
		periodEnd := start.AddDate(0, 1, 0)

		require.NoError(t, sub.ScheduleCancellation(periodEnd))
		assert.True(t, sub.IsActive())
		require.NotNil(t, sub.EndDate())
		assert.Equal(t, periodEnd, *sub.EndDate())

		require.NoError(t, sub.Resume())
		assert.Nil(t, sub.EndDate())
	})
}

func TestSubscriptionSwitchPlan(t *testing.T) {
	monthly := newTestPlan(t, 10, valueobject.CycleMonthly)
	yearly := newTestPlan(t, 240, valueobject.CycleYearly)
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	sub := newTestSubscription(t, monthly, 10, start)
	newAmount, _ := valueobject.NewMoneyFromFloat(240, valueobject.USD)

	require.NoError(t, sub.SwitchPlan(yearly, newAmount))
	assert.Equal(t, yearly.ID, sub.PlanID)
	assert.True(t, sub.Amount.Equals(newAmount))

	require.NoError(t, sub.Cancel(start))
	assert.Error(t, sub.SwitchPlan(monthly, newAmount), "cancelled subscriptions cannot change plans")
}

func TestSubscriptionTrial(t *testing.T) {
	plan := newTestPlan(t, 10, valueobject.CycleMonthly)
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	sub := newTestSubscription(t, plan, 10, start)

	trialEnd := start.AddDate(0, 0, 14)
	sub.WithTrialEnd(trialEnd)

	assert.True(t, sub.IsOnTrial(start.AddDate(0, 0, 7)))
	assert.False(t, sub.IsOnTrial(trialEnd))
}

func TestPlanPrices(t *testing.T) {
	t.Run("monthly plan yearly price", func(t *testing.T) {
		plan := newTestPlan(t, 9.99, valueobject.CycleMonthly)

		yearly, err := plan.YearlyPrice()
		require.NoError(t, err)
		assert.Equal(t, "119.88", yearly.StringFixed())

		monthly, err := plan.MonthlyPrice()
		require.NoError(t, err)
		assert.True(t, monthly.Equals(plan.Price))
	})

	t.Run("yearly plan monthly price", func(t *testing.T) {
		plan := newTestPlan(t, 100, valueobject.CycleYearly)

		monthly, err := plan.MonthlyPrice()
		require.NoError(t, err)
		assert.Equal(t, "8.33", monthly.StringFixed())
	})

	t.Run("free plan detection", func(t *testing.T) {
		plan := newTestPlan(t, 0, valueobject.CycleMonthly)
		assert.True(t, plan.IsFree())
	})
}

func TestInvoiceLifecycle(t *testing.T) {
	mustMoney := func(v float64) valueobject.Money {
		m, err := valueobject.NewMoneyFromFloat(v, valueobject.USD)
		require.NoError(t, err)
		return m
	}

	newDraft := func(t *testing.T) *Invoice {
		inv, err := NewInvoice(uuid.New(), uuid.New(),
			mustMoney(100), mustMoney(8), mustMoney(0), mustMoney(108), time.Now())
		require.NoError(t, err)
		return inv
	}

	t.Run("draft to open to paid", func(t *testing.T) {
		inv := newDraft(t)

		require.NoError(t, inv.Open())
		require.NoError(t, inv.MarkPaid(time.Now()))
		assert.Equal(t, InvoiceStatusPaid, inv.Status)
		assert.NotNil(t, inv.PaidAt)
	})

	t.Run("paid invoices cannot be voided", func(t *testing.T) {
		inv := newDraft(t)
		require.NoError(t, inv.Open())
		require.NoError(t, inv.MarkPaid(time.Now()))

		assert.Error(t, inv.Void())
	})

	t.Run("draft cannot be marked paid directly", func(t *testing.T) {
		inv := newDraft(t)
		assert.Error(t, inv.MarkPaid(time.Now()))
	})

	t.Run("amounts must share a currency", func(t *testing.T) {
		eur, err := valueobject.NewMoneyFromFloat(8, valueobject.EUR)
		require.NoError(t, err)

		_, err = NewInvoice(uuid.New(), uuid.New(),
			mustMoney(100), eur, mustMoney(0), mustMoney(108), time.Now())
		assert.Error(t, err)
	})
}
