package valueobject

import (
	"fmt"
	"time"

	"github.com/taskflow/backend/internal/domain/shared"
)

// BillingCycle represents the recurrence unit governing when a subscription rebills
type BillingCycle string

const (
	CycleDaily   BillingCycle = "daily"
	CycleWeekly  BillingCycle = "weekly"
	CycleMonthly BillingCycle = "monthly"
	CycleYearly  BillingCycle = "yearly"
)

// NewBillingCycle validates a billing cycle string
func NewBillingCycle(cycle string) (BillingCycle, error) {
	c := BillingCycle(cycle)
	if !c.IsValid() {
		return "", shared.NewUnsupportedCycle(fmt.Sprintf("invalid billing cycle: %s", cycle))
	}
	return c, nil
}

// IsValid checks if the cycle is one of the supported values
func (c BillingCycle) IsValid() bool {
	switch c {
	case CycleDaily, CycleWeekly, CycleMonthly, CycleYearly:
		return true
	}
	return false
}

// String returns the string representation of the cycle
func (c BillingCycle) String() string {
	return string(c)
}

// IsMonthly returns true for the monthly cycle
func (c BillingCycle) IsMonthly() bool {
	return c == CycleMonthly
}

// IsYearly returns true for the yearly cycle
func (c BillingCycle) IsYearly() bool {
	return c == CycleYearly
}

// DaysInCycle returns the fixed day count used for ratio calculations.
// Monthly is always treated as 30 days and yearly as 365; this is a
// deliberate approximation, separate from the calendar arithmetic used
// for scheduling billing dates.
func (c BillingCycle) DaysInCycle() (int, error) {
	switch c {
	case CycleDaily:
		return 1, nil
	case CycleWeekly:
		return 7, nil
	case CycleMonthly:
		return 30, nil
	case CycleYearly:
		return 365, nil
	}
	return 0, shared.NewUnsupportedCycle(fmt.Sprintf("unknown billing cycle: %s", c))
}

// AnnualMultiplier returns the factor converting a per-cycle amount to annual terms
func (c BillingCycle) AnnualMultiplier() (int64, error) {
	switch c {
	case CycleDaily:
		return 365, nil
	case CycleWeekly:
		return 52, nil
	case CycleMonthly:
		return 12, nil
	case CycleYearly:
		return 1, nil
	}
	return 0, shared.NewUnsupportedCycle(fmt.Sprintf("unknown billing cycle: %s", c))
}

// NextBillingDate adds one calendar unit to the given date.
// Unlike DaysInCycle this uses real calendar arithmetic: one month from
// Jan 31 lands on the calendar-normalized date, not 30 days later.
func (c BillingCycle) NextBillingDate(from time.Time) (time.Time, error) {
	switch c {
	case CycleDaily:
		return from.AddDate(0, 0, 1), nil
	case CycleWeekly:
		return from.AddDate(0, 0, 7), nil
	case CycleMonthly:
		return from.AddDate(0, 1, 0), nil
	case CycleYearly:
		return from.AddDate(1, 0, 0), nil
	}
	return time.Time{}, shared.NewUnsupportedCycle(fmt.Sprintf("unknown billing cycle: %s", c))
}

// PreviousBillingDate subtracts one calendar unit from the given date
func (c BillingCycle) PreviousBillingDate(from time.Time) (time.Time, error) {
	switch c {
	case CycleDaily:
		return from.AddDate(0, 0, -1), nil
	case CycleWeekly:
		return from.AddDate(0, 0, -7), nil
	case CycleMonthly:
		return from.AddDate(0, -1, 0), nil
	case CycleYearly:
		return from.AddDate(-1, 0, 0), nil
	}
	return time.Time{}, shared.NewUnsupportedCycle(fmt.Sprintf("unknown billing cycle: %s", c))
}

// DisplayName returns the human-readable name of the cycle
func (c BillingCycle) DisplayName() string {
	switch c {
	case CycleDaily:
		return "Daily"
	case CycleWeekly:
		return "Weekly"
	case CycleMonthly:
		return "Monthly"
	case CycleYearly:
		return "Yearly"
	}
	return string(c)
}

// ShortName returns the singular unit name of the cycle
func (c BillingCycle) ShortName() string {
	switch c {
	case CycleDaily:
		return "day"
	case CycleWeekly:
		return "week"
	case CycleMonthly:
		return "month"
	case CycleYearly:
		return "year"
	}
	return string(c)
}
