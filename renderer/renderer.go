// Package renderer turns the backend answers into markdown documents, one per view.
package renderer

import (
	"bytes"
	"fmt"
	"slices"
	"strings"

	"github.com/etnz/folio"
	"github.com/etnz/folio/date"
	md "github.com/nao1215/markdown"
)

// DatesMarkdown renders the dates summaries are available for.
func DatesMarkdown(dates []date.Date) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)
	doc.H1("Market Data Dates")
	if len(dates) == 0 {
		doc.PlainText("No summaries available yet. Request today's data with `fv request`.")
		return doc.String()
	}
	items := make([]string, len(dates))
	for i, d := range dates {
		items[i] = d.String()
	}
	doc.BulletList(items...)
	return doc.String()
}

// SummaryMarkdown renders every portfolio aggregate of a date.
func SummaryMarkdown(s *folio.Summary, currency string) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)

	doc.H1(fmt.Sprintf("Market Summary on %s", s.AsOf))
	doc.PlainText(fmt.Sprintf("Total Market Value: %s", md.Bold(M(s.Total, currency).String())))

	doc.H2("By Owner")
	if len(s.ByOwner) == 0 {
		doc.PlainText("No data.")
	} else {
		owners := make([]string, 0, len(s.ByOwner))
		for owner := range s.ByOwner {
			owners = append(owners, owner)
		}
		slices.Sort(owners)
		table := md.TableSet{
			Alignment: []md.TableAlignment{md.AlignLeft, md.AlignRight},
			Header:    []string{"Owner", "Market Value"},
			Rows:      [][]string{},
		}
		for _, owner := range owners {
			table.Rows = append(table.Rows, []string{owner, M(s.ByOwner[owner], currency).String()})
		}
		doc.Table(table)
	}

	doc.H2("By Owner & Filter")
	if len(s.ByOwnerFilter) == 0 {
		doc.PlainText("No data.")
	} else {
		table := md.TableSet{
			Alignment: []md.TableAlignment{md.AlignLeft, md.AlignLeft, md.AlignRight},
			Header:    []string{"Owner", "Account Filter", "Total"},
			Rows:      [][]string{},
		}
		for _, t := range s.ByOwnerFilter {
			table.Rows = append(table.Rows, []string{t.Owner, t.AccountFilter, M(t.Total, currency).String()})
		}
		doc.Table(table)
	}

	doc.H2("By Owner & Type")
	if len(s.ByOwnerType) == 0 {
		doc.PlainText("No data.")
	} else {
		table := md.TableSet{
			Alignment: []md.TableAlignment{md.AlignLeft, md.AlignLeft, md.AlignRight, md.AlignLeft},
			Header:    []string{"Owner", "Type", "Total", "Accounts"},
			Rows:      [][]string{},
		}
		for _, t := range s.ByOwnerType {
			table.Rows = append(table.Rows, []string{t.Owner, t.Type, M(t.Total, currency).String(), strings.Join(t.AccountNames, ", ")})
		}
		doc.Table(table)
	}

	return doc.String()
}

// HistoryMarkdown renders the market value over time, with the change from one point to the next.
func HistoryMarkdown(points []folio.HistoryPoint, days int, currency string) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)
	doc.H1(fmt.Sprintf("Market History (last %d days)", days))
	if len(points) == 0 {
		doc.PlainText("No history available.")
		return doc.String()
	}

	// the backend does not promise any order.
	sorted := slices.Clone(points)
	slices.SortStableFunc(sorted, func(a, b folio.HistoryPoint) int {
		switch {
		case a.AsOf.Before(b.AsOf):
			return -1
		case a.AsOf.After(b.AsOf):
			return 1
		}
		return 0
	})

	table := md.TableSet{
		Alignment: []md.TableAlignment{md.AlignLeft, md.AlignRight, md.AlignRight},
		Header:    []string{"Date", "Market Value", "Change"},
		Rows:      [][]string{},
	}
	for i, p := range sorted {
		change := "-"
		if i > 0 {
			delta := p.MarketValue.Sub(sorted[i-1].MarketValue)
			change = M(delta, currency).String()
			if delta.IsPositive() {
				change = "+" + change
			}
		}
		table.Rows = append(table.Rows, []string{p.AsOf.String(), M(p.MarketValue, currency).String(), change})
	}
	doc.Table(table)
	return doc.String()
}

// PricesMarkdown renders the prices of a date.
func PricesMarkdown(on date.Date, prices []folio.Price, currency string) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)
	doc.H1(fmt.Sprintf("Prices on %s", on))
	if len(prices) == 0 {
		doc.PlainText(fmt.Sprintf("No prices available for %s.", on))
		return doc.String()
	}
	table := md.TableSet{
		Alignment: []md.TableAlignment{md.AlignLeft, md.AlignRight},
		Header:    []string{"Symbol", "Price"},
		Rows:      [][]string{},
	}
	for _, p := range prices {
		table.Rows = append(table.Rows, []string{p.Symbol, M(p.Value, currency).String()})
	}
	doc.Table(table)
	return doc.String()
}

// AccountsMarkdown renders the account names, and the dates their details are available for.
func AccountsMarkdown(names []string, dates []date.Date) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)
	doc.H1("Accounts Explorer")
	if len(names) == 0 {
		doc.PlainText("No accounts.")
	} else {
		doc.BulletList(names...)
	}
	if len(dates) > 0 {
		doc.H2("Available Dates")
		items := make([]string, len(dates))
		for i, d := range dates {
			items[i] = d.String()
		}
		doc.BulletList(items...)
	}
	return doc.String()
}

// AccountMarkdown renders the content of an account. on is zero for the latest content.
func AccountMarkdown(a *folio.Account, on date.Date, currency string) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)
	doc.H1(a.Name)
	if !on.IsZero() {
		doc.PlainText(fmt.Sprintf("As of %s", on))
	}

	doc.Table(md.TableSet{
		Alignment: []md.TableAlignment{md.AlignLeft, md.AlignRight},
		Header:    []string{"Cash", "Market Value"},
		Rows:      [][]string{{M(a.Cash, currency).String(), M(a.MarketValue, currency).String()}},
	})

	doc.H2("Holdings")
	if len(a.Holdings) == 0 {
		doc.PlainText("No holdings for this account.")
		return doc.String()
	}
	table := md.TableSet{
		Alignment: []md.TableAlignment{md.AlignLeft, md.AlignRight},
		Header:    []string{"Symbol", "Quantity"},
		Rows:      [][]string{},
	}
	for _, h := range a.Holdings {
		table.Rows = append(table.Rows, []string{h.Symbol, quantity(h.Quantity)})
	}
	doc.Table(table)
	return doc.String()
}
