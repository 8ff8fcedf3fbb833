package folio

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/etnz/folio/date"
)

// Prices returns the price of every symbol on a date.
func (c *Client) Prices(ctx context.Context, on date.Date) ([]Price, error) {
	var prices []Price
	if err := c.get(ctx, "/prices", asOf(on), &prices); err != nil {
		return nil, err
	}
	return prices, nil
}

// UpsertPrice creates or replaces the price of a symbol on a date.
func (c *Client) UpsertPrice(ctx context.Context, p PriceUpdate) error {
	if p.Symbol == "" {
		return fmt.Errorf("a symbol is required")
	}
	if p.Date.IsZero() {
		return fmt.Errorf("a date is required")
	}
	return c.do(ctx, c.http, http.MethodPost, "/prices", nil, p, nil)
}

// History returns the total market value over the last days.
func (c *Client) History(ctx context.Context, days int) ([]HistoryPoint, error) {
	if days <= 0 {
		return nil, fmt.Errorf("invalid history length %d, must be positive", days)
	}
	var points []HistoryPoint
	if err := c.get(ctx, "/history", url.Values{"days": {strconv.Itoa(days)}}, &points); err != nil {
		return nil, err
	}
	return points, nil
}

type loginResponse struct {
	Token string `json:"token"`
}

// Login exchanges credentials for a session token.
//
// It is the only request sent without the session token, and a 401 here means
// wrong credentials, not a dead session.
func (c *Client) Login(ctx context.Context, creds Credentials) (string, error) {
	var resp loginResponse
	if err := c.do(ctx, c.plain, http.MethodPost, "/auth/login", nil, creds, &resp); err != nil {
		return "", err
	}
	if resp.Token == "" {
		return "", fmt.Errorf("login response carries no token")
	}
	return resp.Token, nil
}
