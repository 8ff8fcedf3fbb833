package folio

import (
	"context"
	"fmt"

	"github.com/etnz/folio/date"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

// Total returns the total market value of the portfolio on a date.
func (c *Client) Total(ctx context.Context, on date.Date) (decimal.Decimal, error) {
	var total decimal.Decimal
	err := c.get(ctx, "/portfolio/total", asOf(on), &total)
	return total, err
}

// ByOwner returns the market value per owner on a date.
func (c *Client) ByOwner(ctx context.Context, on date.Date) (map[string]decimal.Decimal, error) {
	var byOwner map[string]decimal.Decimal
	if err := c.get(ctx, "/portfolio/by-owner", asOf(on), &byOwner); err != nil {
		return nil, err
	}
	return byOwner, nil
}

// ByOwnerFilter returns the market value per owner and account filter on a date.
func (c *Client) ByOwnerFilter(ctx context.Context, on date.Date) ([]OwnerFilterTotal, error) {
	var totals []OwnerFilterTotal
	if err := c.get(ctx, "/portfolio/by-owner-filter", asOf(on), &totals); err != nil {
		return nil, err
	}
	return totals, nil
}

// ByOwnerTypeAccountName returns the market value per owner and account type,
// with the accounts that make it, on a date.
func (c *Client) ByOwnerTypeAccountName(ctx context.Context, on date.Date) ([]OwnerTypeTotal, error) {
	var totals []OwnerTypeTotal
	if err := c.get(ctx, "/portfolio/by-owner-type-accountname", asOf(on), &totals); err != nil {
		return nil, err
	}
	return totals, nil
}

// Summary fetches every portfolio aggregate for a date at once.
// It fails if any of them fails.
func (c *Client) Summary(ctx context.Context, on date.Date) (*Summary, error) {
	s := &Summary{AsOf: on}
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		s.Total, err = c.Total(ctx, on)
		return
	})
	g.Go(func() (err error) {
		s.ByOwner, err = c.ByOwner(ctx, on)
		return
	})
	g.Go(func() (err error) {
		s.ByOwnerFilter, err = c.ByOwnerFilter(ctx, on)
		return
	})
	g.Go(func() (err error) {
		s.ByOwnerType, err = c.ByOwnerTypeAccountName(ctx, on)
		return
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("cannot fetch market summary for %s: %w", on, err)
	}
	return s, nil
}
