// Package ledger filters tracker entries into a period and totals them.
package ledger

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/biweekly-dev/biweekly/internal/model"
	"github.com/biweekly-dev/biweekly/internal/period"
)

// UncategorizedLabel groups entries that have no label in a Breakdown.
const UncategorizedLabel = "Uncategorized"

// Totals holds the per-category sums of a ledger.
type Totals struct {
	Income    decimal.Decimal `json:"income"`
	Expenses  decimal.Decimal `json:"expenses"`
	Savings   decimal.Decimal `json:"savings"`
	Emergency decimal.Decimal `json:"emergency"`
}

// SpendingMoney is income minus everything set aside or spent. It is not
// clamped and goes negative when outgoings exceed income.
func (t Totals) SpendingMoney() decimal.Decimal {
	return t.Income.Sub(t.Expenses).Sub(t.Savings).Sub(t.Emergency)
}

// Of returns the total for c.
func (t Totals) Of(c model.Category) decimal.Decimal {
	switch c {
	case model.CategoryIncome:
		return t.Income
	case model.CategoryExpenses:
		return t.Expenses
	case model.CategorySavings:
		return t.Savings
	case model.CategoryEmergency:
		return t.Emergency
	}
	return decimal.Zero
}

// LabelAmount is one row of a Breakdown.
type LabelAmount struct {
	Label  string          `json:"label"`
	Amount decimal.Decimal `json:"amount"`
}

// Summary is everything shown for one period.
type Summary struct {
	Period        period.Period   `json:"period"`
	Entries       model.Ledger    `json:"-"`
	Totals        Totals          `json:"totals"`
	SpendingMoney decimal.Decimal `json:"spendingMoney"`
	Breakdown     []LabelAmount   `json:"expenseBreakdown"`
}

// CoerceAmount converts user input to an amount. See model.CoerceAmount.
func CoerceAmount(v any) decimal.Decimal {
	return model.CoerceAmount(v)
}

// InPeriod returns the entries of l dated inside p, keeping their order.
func InPeriod(l model.Ledger, p period.Period) model.Ledger {
	var out model.Ledger
	for _, c := range model.Categories() {
		out.SetEntries(c, filter(l.Entries(c), p))
	}
	return out
}

func filter(entries []model.Entry, p period.Period) []model.Entry {
	var out []model.Entry
	for _, e := range entries {
		if p.Contains(e.Date) {
			out = append(out, e)
		}
	}
	return out
}

// Sum totals every category of l.
func Sum(l model.Ledger) Totals {
	return Totals{
		Income:    sum(l.Income),
		Expenses:  sum(l.Expenses),
		Savings:   sum(l.Savings),
		Emergency: sum(l.Emergency),
	}
}

func sum(entries []model.Entry) decimal.Decimal {
	total := decimal.Zero
	for _, e := range entries {
		total = total.Add(e.Amount)
	}
	return total
}

// Breakdown sums amounts per label, largest first. Ties sort by label.
func Breakdown(entries []model.Entry) []LabelAmount {
	byLabel := make(map[string]decimal.Decimal)
	for _, e := range entries {
		label := e.Label
		if label == "" {
			label = UncategorizedLabel
		}
		byLabel[label] = byLabel[label].Add(e.Amount)
	}

	out := make([]LabelAmount, 0, len(byLabel))
	for label, amount := range byLabel {
		out = append(out, LabelAmount{Label: label, Amount: amount})
	}
	sort.Slice(out, func(i, j int) bool {
		if c := out[i].Amount.Cmp(out[j].Amount); c != 0 {
			return c > 0
		}
		return out[i].Label < out[j].Label
	})
	return out
}

// Summarize filters l to p and computes its totals and expense breakdown.
func Summarize(l model.Ledger, p period.Period) Summary {
	in := InPeriod(l, p)
	totals := Sum(in)
	return Summary{
		Period:        p,
		Entries:       in,
		Totals:        totals,
		SpendingMoney: totals.SpendingMoney(),
		Breakdown:     Breakdown(in.Expenses),
	}
}
