package valueobject

import (
	"fmt"
	"math"

	"github.com/shopspring/decimal"
	"github.com/taskflow/backend/internal/domain/shared"
)

// TimeDuration is a value object representing a non-negative duration in
// whole minutes. It is immutable - all operations return new instances.
type TimeDuration struct {
	minutes int64
}

// NewTimeDuration creates a TimeDuration from a number of minutes
func NewTimeDuration(minutes int64) (TimeDuration, error) {
	if minutes < 0 {
		return TimeDuration{}, shared.NewInvalidArgument("duration cannot be negative")
	}
	return TimeDuration{minutes: minutes}, nil
}

// DurationFromMinutes creates a TimeDuration from a number of minutes
func DurationFromMinutes(minutes int64) (TimeDuration, error) {
	return NewTimeDuration(minutes)
}

// DurationFromHours creates a TimeDuration from fractional hours,
// truncating to whole minutes
func DurationFromHours(hours float64) (TimeDuration, error) {
	if hours < 0 {
		return TimeDuration{}, shared.NewInvalidArgument("duration cannot be negative")
	}
	return TimeDuration{minutes: int64(hours * 60)}, nil
}

// DurationFromHoursAndMinutes creates a TimeDuration from an hour and minute pair
func DurationFromHoursAndMinutes(hours, minutes int64) (TimeDuration, error) {
	return NewTimeDuration(hours*60 + minutes)
}

// ZeroDuration returns a zero TimeDuration
func ZeroDuration() TimeDuration {
	return TimeDuration{}
}

// Minutes returns the duration in whole minutes
func (d TimeDuration) Minutes() int64 {
	return d.minutes
}

// Hours returns the duration as fractional hours
func (d TimeDuration) Hours() float64 {
	return float64(d.minutes) / 60
}

// HoursAndMinutes returns the duration split into floor hours and remainder minutes
func (d TimeDuration) HoursAndMinutes() (hours, minutes int64) {
	return d.minutes / 60, d.minutes % 60
}

// DisplayFormat renders the duration as "Xh Ym", or "Ym" when under one hour
func (d TimeDuration) DisplayFormat() string {
	hours, minutes := d.HoursAndMinutes()
	if hours > 0 {
		return fmt.Sprintf("%dh %dm", hours, minutes)
	}
	return fmt.Sprintf("%dm", minutes)
}

// DecimalHours returns the duration in hours rounded to two decimal places
func (d TimeDuration) DecimalHours() float64 {
	return math.Round(float64(d.minutes)/60*100) / 100
}

// DecimalHoursExact returns the duration in hours as an exact decimal,
// for cost arithmetic that must not round through float64
func (d TimeDuration) DecimalHoursExact() decimal.Decimal {
	return decimal.NewFromInt(d.minutes).Div(decimal.NewFromInt(60))
}

// Add returns the sum of two durations
func (d TimeDuration) Add(other TimeDuration) TimeDuration {
	return TimeDuration{minutes: d.minutes + other.minutes}
}

// Subtract returns the difference of two durations.
// Returns error if the result would be negative.
func (d TimeDuration) Subtract(other TimeDuration) (TimeDuration, error) {
	result := d.minutes - other.minutes
	if result < 0 {
		return TimeDuration{}, shared.NewInvalidArgument("cannot subtract larger duration from smaller duration")
	}
	return TimeDuration{minutes: result}, nil
}

// Multiply returns the duration scaled by a non-negative factor,
// truncated to whole minutes
func (d TimeDuration) Multiply(factor float64) (TimeDuration, error) {
	if factor < 0 {
		return TimeDuration{}, shared.NewInvalidArgument("multiplication factor cannot be negative")
	}
	return TimeDuration{minutes: int64(float64(d.minutes) * factor)}, nil
}

// Divide returns the duration divided by a positive divisor,
// truncated to whole minutes
func (d TimeDuration) Divide(divisor float64) (TimeDuration, error) {
	if divisor <= 0 {
		return TimeDuration{}, shared.NewInvalidArgument("divisor must be positive")
	}
	return TimeDuration{minutes: int64(float64(d.minutes) / divisor)}, nil
}

// IsZero returns true if the duration is zero
func (d TimeDuration) IsZero() bool {
	return d.minutes == 0
}

// GreaterThan returns true if this duration is longer than the other
func (d TimeDuration) GreaterThan(other TimeDuration) bool {
	return d.minutes > other.minutes
}

// LessThan returns true if this duration is shorter than the other
func (d TimeDuration) LessThan(other TimeDuration) bool {
	return d.minutes < other.minutes
}

// Equals returns true if both durations have the same minute count
func (d TimeDuration) Equals(other TimeDuration) bool {
	return d.minutes == other.minutes
}

// String returns the display format of the duration
func (d TimeDuration) String() string {
	return d.DisplayFormat()
}
