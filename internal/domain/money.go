package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// DefaultCurrency is used when no currency is given.
const DefaultCurrency = "USD"

// Money is an immutable monetary value. Arithmetic between two Money values
// requires equal currencies; every operation returns a new value.
type Money struct {
	Amount   decimal.Decimal
	Currency string
}

// NewMoney creates a Money value. An empty currency defaults to USD.
func NewMoney(amount decimal.Decimal, currency string) Money {
	if currency == "" {
		currency = DefaultCurrency
	}
	return Money{Amount: amount, Currency: currency}
}

// ZeroMoney returns a zero value in the given currency.
func ZeroMoney(currency string) Money {
	return NewMoney(decimal.Zero, currency)
}

// Add returns the sum of two Money values of the same currency.
func (m Money) Add(other Money) (Money, error) {
	if m.Currency != other.Currency {
		return Money{}, newValidationError("cannot add money with different currencies: %s vs %s", m.Currency, other.Currency)
	}
	return Money{Amount: m.Amount.Add(other.Amount), Currency: m.Currency}, nil
}

// Sub returns the difference of two Money values of the same currency.
func (m Money) Sub(other Money) (Money, error) {
	if m.Currency != other.Currency {
		return Money{}, newValidationError("cannot subtract money with different currencies: %s vs %s", m.Currency, other.Currency)
	}
	return Money{Amount: m.Amount.Sub(other.Amount), Currency: m.Currency}, nil
}

// Mul multiplies by an integer quantity.
func (m Money) Mul(quantity int) Money {
	return Money{Amount: m.Amount.Mul(decimal.NewFromInt(int64(quantity))), Currency: m.Currency}
}

// Div divides by an integer. Division by zero fails.
func (m Money) Div(divisor int) (Money, error) {
	if divisor == 0 {
		return Money{}, newValidationError("cannot divide money by zero")
	}
	return Money{Amount: m.Amount.Div(decimal.NewFromInt(int64(divisor))), Currency: m.Currency}, nil
}

// Equal reports structural equality on (amount, currency).
func (m Money) Equal(other Money) bool {
	return m.Currency == other.Currency && m.Amount.Equal(other.Amount)
}

func (m Money) IsZero() bool {
	return m.Amount.IsZero()
}

func (m Money) IsPositive() bool {
	return m.Amount.IsPositive()
}

func (m Money) IsNegative() bool {
	return m.Amount.IsNegative()
}

// String renders as "<CURRENCY> <amount>" with two decimal places.
func (m Money) String() string {
	return fmt.Sprintf("%s %s", m.Currency, m.Amount.StringFixed(2))
}

// derive keeps the currency while replacing the amount; used for values
// computed from this one (tax, discounts, margins).
func (m Money) derive(amount decimal.Decimal) Money {
	return Money{Amount: amount, Currency: m.Currency}
}
