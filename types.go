package folio

import (
	"encoding/json"

	"github.com/etnz/folio/date"
	"github.com/shopspring/decimal"
)

// Credentials are posted to the login endpoint.
type Credentials struct {
	UserName string `json:"userName"`
	Password string `json:"password"`
}

// DeleteResult reports how many summaries were deleted for a date.
type DeleteResult struct {
	Deleted int       `json:"deleted"`
	Date    date.Date `json:"date"`
}

// OwnerFilterTotal is the market value of an owner's accounts matching a filter.
type OwnerFilterTotal struct {
	Owner         string          `json:"owner"`
	AccountFilter string          `json:"accountFilter"`
	Total         decimal.Decimal `json:"total"`
}

// OwnerTypeTotal is the market value of an owner's accounts of a given type.
type OwnerTypeTotal struct {
	Owner        string          `json:"owner"`
	Type         string          `json:"type"`
	Total        decimal.Decimal `json:"total"`
	AccountNames []string        `json:"accountNames"`
}

// Summary gathers every portfolio aggregate for one date.
type Summary struct {
	AsOf          date.Date
	Total         decimal.Decimal
	ByOwner       map[string]decimal.Decimal
	ByOwnerFilter []OwnerFilterTotal
	ByOwnerType   []OwnerTypeTotal
}

// Holding is a position in an account.
type Holding struct {
	Symbol   string          `json:"symbol"`
	Quantity decimal.Decimal `json:"quantity"`
}

// Account is the content of an account on a date.
type Account struct {
	Name        string          `json:"name"`
	Cash        decimal.Decimal `json:"cash"`
	MarketValue decimal.Decimal `json:"marketValue"`
	Holdings    []Holding       `json:"holdings"`
}

// HistoryPoint is the total market value on a date.
type HistoryPoint struct {
	AsOf        date.Date       `json:"asOf"`
	MarketValue decimal.Decimal `json:"marketValue"`
}

// Price is the value of a symbol.
type Price struct {
	Symbol string          `json:"symbol"`
	Value  decimal.Decimal `json:"value"`
}

// PriceUpdate sets the value of a symbol on a date.
type PriceUpdate struct {
	Symbol string          `json:"symbol"`
	Date   date.Date       `json:"date"`
	Value  decimal.Decimal `json:"value"`
}

// MarshalJSON sends the value as a JSON number, decimal quotes it by default.
func (p PriceUpdate) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Symbol string      `json:"symbol"`
		Date   date.Date   `json:"date"`
		Value  json.Number `json:"value"`
	}{p.Symbol, p.Date, json.Number(p.Value.String())})
}
