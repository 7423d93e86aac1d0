package model

import (
	"github.com/shopspring/decimal"

	"github.com/biweekly-dev/biweekly/internal/types"
)

// Draft is an entry that has not been added to a tracker yet, as produced by
// importers. It has no ID or acting account.
type Draft struct {
	Category Category
	Date     types.Date
	Amount   decimal.Decimal
	Label    string
}
