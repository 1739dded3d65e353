package valueobject

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/taskflow/backend/internal/domain/shared"
)

// Currency represents a currency code (ISO 4217)
type Currency string

const (
	USD Currency = "USD" // US Dollar
	EUR Currency = "EUR" // Euro
	GBP Currency = "GBP" // British Pound
)

// NewCurrency normalizes and validates a currency code
func NewCurrency(code string) (Currency, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		return "", shared.NewInvalidArgument("currency cannot be empty")
	}
	if len(code) != 3 {
		return "", shared.NewInvalidArgument(fmt.Sprintf("currency must be a 3-letter code, got %q", code))
	}
	return Currency(code), nil
}

// Money is a value object representing a non-negative monetary amount.
// It is immutable - all operations return new Money instances.
// The amount is always rounded to exactly two decimal places, both at
// construction and after every arithmetic operation.
type Money struct {
	amount   decimal.Decimal
	currency Currency
}

// NewMoney creates a new Money with the specified amount and currency
func NewMoney(amount decimal.Decimal, currency Currency) (Money, error) {
	if currency == "" {
		return Money{}, shared.NewInvalidArgument("currency cannot be empty")
	}
	if amount.IsNegative() {
		return Money{}, shared.NewInvalidArgument("amount cannot be negative")
	}
	return Money{
		amount:   amount.Round(2),
		currency: Currency(strings.ToUpper(string(currency))),
	}, nil
}

// NewMoneyFromFloat creates Money from a float64 value
func NewMoneyFromFloat(amount float64, currency Currency) (Money, error) {
	return NewMoney(decimal.NewFromFloat(amount), currency)
}

// NewMoneyFromString creates Money from a string representation
func NewMoneyFromString(amount string, currency Currency) (Money, error) {
	d, err := decimal.NewFromString(amount)
	if err != nil {
		return Money{}, shared.NewInvalidArgument(fmt.Sprintf("invalid amount string: %v", err))
	}
	return NewMoney(d, currency)
}

// NewMoneyFromCents creates Money from an integer number of cents
func NewMoneyFromCents(cents int64, currency Currency) (Money, error) {
	return NewMoney(decimal.NewFromInt(cents).Div(decimal.NewFromInt(100)), currency)
}

// Zero returns a zero-value Money in the specified currency
func Zero(currency Currency) Money {
	return Money{amount: decimal.Zero, currency: currency}
}

// Amount returns the decimal amount
func (m Money) Amount() decimal.Decimal {
	return m.amount
}

// Currency returns the currency code
func (m Money) Currency() Currency {
	return m.currency
}

// Cents returns the amount as an integer number of cents
func (m Money) Cents() int64 {
	return m.amount.Mul(decimal.NewFromInt(100)).IntPart()
}

// IsZero returns true if the amount is zero
func (m Money) IsZero() bool {
	return m.amount.IsZero()
}

// IsPositive returns true if the amount is positive
func (m Money) IsPositive() bool {
	return m.amount.IsPositive()
}

// Add returns a new Money with the sum of both amounts.
// Returns error if currencies don't match.
func (m Money) Add(other Money) (Money, error) {
	if m.currency != other.currency {
		return Money{}, shared.NewInvalidArgument(fmt.Sprintf("cannot add money with different currencies: %s and %s", m.currency, other.currency))
	}
	return Money{
		amount:   m.amount.Add(other.amount).Round(2),
		currency: m.currency,
	}, nil
}

// Subtract returns a new Money with the difference.
// Returns error if currencies don't match or the result would be negative.
func (m Money) Subtract(other Money) (Money, error) {
	if m.currency != other.currency {
		return Money{}, shared.NewInvalidArgument(fmt.Sprintf("cannot subtract money with different currencies: %s and %s", m.currency, other.currency))
	}
	result := m.amount.Sub(other.amount)
	if result.IsNegative() {
		return Money{}, shared.NewInvalidArgument("subtraction result cannot be negative")
	}
	return Money{
		amount:   result.Round(2),
		currency: m.currency,
	}, nil
}

// Multiply returns a new Money multiplied by the given non-negative factor
func (m Money) Multiply(factor decimal.Decimal) (Money, error) {
	if factor.IsNegative() {
		return Money{}, shared.NewInvalidArgument("multiplication factor cannot be negative")
	}
	return Money{
		amount:   m.amount.Mul(factor).Round(2),
		currency: m.currency,
	}, nil
}

// MultiplyByFloat returns a new Money multiplied by a non-negative float factor
func (m Money) MultiplyByFloat(factor float64) (Money, error) {
	return m.Multiply(decimal.NewFromFloat(factor))
}

// MultiplyByInt returns a new Money multiplied by a non-negative integer factor
func (m Money) MultiplyByInt(factor int64) (Money, error) {
	return m.Multiply(decimal.NewFromInt(factor))
}

// Divide returns a new Money divided by the given positive divisor
func (m Money) Divide(divisor decimal.Decimal) (Money, error) {
	if !divisor.IsPositive() {
		return Money{}, shared.NewInvalidArgument("divisor must be positive")
	}
	return Money{
		amount:   m.amount.Div(divisor).Round(2),
		currency: m.currency,
	}, nil
}

// DivideByInt returns a new Money divided by a positive integer divisor
func (m Money) DivideByInt(divisor int64) (Money, error) {
	return m.Divide(decimal.NewFromInt(divisor))
}

// Equals returns true if both Money values have the same amount and currency
func (m Money) Equals(other Money) bool {
	return m.currency == other.currency && m.amount.Equal(other.amount)
}

// GreaterThan returns true if this Money is greater than the other.
// Returns error if currencies don't match.
func (m Money) GreaterThan(other Money) (bool, error) {
	if m.currency != other.currency {
		return false, shared.NewInvalidArgument(fmt.Sprintf("cannot compare money with different currencies: %s and %s", m.currency, other.currency))
	}
	return m.amount.GreaterThan(other.amount), nil
}

// LessThan returns true if this Money is less than the other.
// Returns error if currencies don't match.
func (m Money) LessThan(other Money) (bool, error) {
	if m.currency != other.currency {
		return false, shared.NewInvalidArgument(fmt.Sprintf("cannot compare money with different currencies: %s and %s", m.currency, other.currency))
	}
	return m.amount.LessThan(other.amount), nil
}

// String returns a string representation of the Money
func (m Money) String() string {
	return fmt.Sprintf("%s %s", m.amount.StringFixed(2), m.currency)
}

// StringFixed returns the amount as a string with two decimal places
func (m Money) StringFixed() string {
	return m.amount.StringFixed(2)
}

// Float64 returns the amount as a float64 (may lose precision)
func (m Money) Float64() float64 {
	f, _ := m.amount.Float64()
	return f
}

// MarshalJSON implements json.Marshaler
func (m Money) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Amount   string   `json:"amount"`
		Currency Currency `json:"currency"`
	}{
		Amount:   m.amount.StringFixed(2),
		Currency: m.currency,
	})
}

// UnmarshalJSON implements json.Unmarshaler. Validation matches NewMoney:
// negative amounts and empty currencies are rejected.
func (m *Money) UnmarshalJSON(data []byte) error {
	var v struct {
		Amount   string   `json:"amount"`
		Currency Currency `json:"currency"`
	}
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	parsed, err := NewMoneyFromString(v.Amount, v.Currency)
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

// Value implements driver.Valuer for database storage.
// Stores the amount only; currency lives in a sibling column.
func (m Money) Value() (driver.Value, error) {
	return m.amount.StringFixed(2), nil
}

// Scan implements sql.Scanner for database retrieval.
// Scans only the amount; the repository layer sets the currency column separately.
func (m *Money) Scan(value any) error {
	if value == nil {
		m.amount = decimal.Zero
		return nil
	}

	var strVal string
	switch v := value.(type) {
	case string:
		strVal = v
	case []byte:
		strVal = string(v)
	case float64:
		strVal = decimal.NewFromFloat(v).String()
	default:
		return fmt.Errorf("cannot scan %T into Money", value)
	}

	amount, err := decimal.NewFromString(strVal)
	if err != nil {
		return fmt.Errorf("invalid decimal value: %w", err)
	}
	m.amount = amount.Round(2)
	return nil
}

// WithCurrency returns a copy of the Money tagged with the given currency.
// Used by the persistence layer when reassembling Money from amount and
// currency columns.
func (m Money) WithCurrency(currency Currency) Money {
	m.currency = currency
	return m
}
