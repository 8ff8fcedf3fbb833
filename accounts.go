package folio

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/etnz/folio/date"
)

func asOf(on date.Date) url.Values {
	if on.IsZero() {
		return nil
	}
	return url.Values{"asOf": {on.String()}}
}

// LatestDates returns the dates summaries are available for, most recent first.
func (c *Client) LatestDates(ctx context.Context) ([]date.Date, error) {
	var dates []date.Date
	if err := c.get(ctx, "/accounts/latest-dates", nil, &dates); err != nil {
		return nil, err
	}
	return dates, nil
}

// RequestSummaries asks the backend to compute account summaries on a date,
// or today if on is the zero date.
func (c *Client) RequestSummaries(ctx context.Context, on date.Date) error {
	return c.do(ctx, c.http, http.MethodPost, "/accounts/summaries", asOf(on), nil, nil)
}

// DeleteSummaries deletes the account summaries computed on a date.
func (c *Client) DeleteSummaries(ctx context.Context, on date.Date) (DeleteResult, error) {
	var res DeleteResult
	if on.IsZero() {
		return res, fmt.Errorf("a date is required to delete summaries")
	}
	err := c.do(ctx, c.http, http.MethodDelete, "/accounts/summaries", asOf(on), nil, &res)
	return res, err
}

// AccountNames returns the names of every account.
func (c *Client) AccountNames(ctx context.Context) ([]string, error) {
	var names []string
	if err := c.get(ctx, "/accounts/names", nil, &names); err != nil {
		return nil, err
	}
	return names, nil
}

// Account returns the content of the account name on a date, or the latest
// content if on is the zero date.
func (c *Client) Account(ctx context.Context, name string, on date.Date) (*Account, error) {
	if name == "" {
		return nil, fmt.Errorf("an account name is required")
	}
	var query url.Values
	if !on.IsZero() {
		query = url.Values{"date": {on.String()}}
	}
	var a Account
	if err := c.get(ctx, "/accounts/names/"+url.PathEscape(name), query, &a); err != nil {
		return nil, err
	}
	return &a, nil
}
