package commands

import (
	"io"
	"text/tabwriter"

	"github.com/shopspring/decimal"
)

func newTable(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
}

func formatAmount(d decimal.Decimal) string {
	return d.StringFixed(2)
}
