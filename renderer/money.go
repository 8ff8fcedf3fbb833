package renderer

import (
	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// DefaultCurrency is used when no currency is configured: the backend sends
// bare numbers.
const DefaultCurrency = "USD"

// Money represents a monetary value as sent by the backend.
type Money struct {
	value decimal.Decimal // as major unit value
	cur   string
}

// M returns value in currency.
func M(value decimal.Decimal, currency string) Money {
	if currency == "" {
		currency = DefaultCurrency
	}
	return Money{value: value, cur: currency}
}

// currency returns the money's currency
func (m Money) currency() money.Currency {
	// to get a never nil currency I need to call the Money constructor
	return *money.New(0, m.cur).Currency()
}

// String returns the string representation of the money value, rounded to the currency's fraction.
func (m Money) String() string {
	cur := m.currency()
	dec := m.value.Shift(int32(cur.Fraction)).Round(0)
	return cur.Formatter().Format(dec.IntPart())
}

// quantityFormatter prints quantities with two decimals and thousands separators, no symbol.
var quantityFormatter = money.NewFormatter(2, ".", ",", "", "1")

// quantity formats a share quantity.
func quantity(q decimal.Decimal) string {
	return quantityFormatter.Format(q.Shift(2).Round(0).IntPart())
}
