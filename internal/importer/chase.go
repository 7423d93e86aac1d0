package importer

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/biweekly-dev/biweekly/internal/model"
	"github.com/biweekly-dev/biweekly/internal/types"
)

// ChaseParser parses Chase bank checking CSV exports. Credits become income
// and debits become expenses, labelled with the bank's description.
type ChaseParser struct{}

const (
	chaseDateFormat = "01/02/2006"
	chaseNumFields  = 7
	chaseColDate    = 1
	chaseColDesc    = 2
	chaseColAmount  = 3
)

// Format returns the parser name.
func (p *ChaseParser) Format() string { return "chase" }

// Parse reads a Chase CSV and returns one draft per non-zero transaction.
func (p *ChaseParser) Parse(r io.Reader) ([]model.Draft, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = chaseNumFields

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading chase CSV: %w", err)
	}

	if len(records) <= 1 {
		return nil, nil
	}

	var drafts []model.Draft
	for i, rec := range records[1:] {
		d, ok, err := parseChaseRow(rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		if ok {
			drafts = append(drafts, d)
		}
	}
	return drafts, nil
}

func parseChaseRow(rec []string) (model.Draft, bool, error) {
	t, err := time.Parse(chaseDateFormat, strings.TrimSpace(rec[chaseColDate]))
	if err != nil {
		return model.Draft{}, false, fmt.Errorf("parsing date %q: %w", rec[chaseColDate], err)
	}

	amount, err := decimal.NewFromString(strings.TrimSpace(rec[chaseColAmount]))
	if err != nil {
		return model.Draft{}, false, fmt.Errorf("parsing amount %q: %w", rec[chaseColAmount], err)
	}
	if amount.IsZero() {
		return model.Draft{}, false, nil
	}

	d := model.Draft{
		Category: model.CategoryIncome,
		Date:     types.DateOf(t),
		Amount:   amount,
		Label:    strings.TrimSpace(rec[chaseColDesc]),
	}
	if amount.IsNegative() {
		d.Category = model.CategoryExpenses
		d.Amount = amount.Neg()
	}
	return d, true, nil
}
