package ledger

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/biweekly-dev/biweekly/internal/model"
	"github.com/biweekly-dev/biweekly/internal/period"
	"github.com/biweekly-dev/biweekly/internal/types"
)

func day(n int) types.Date {
	return types.NewDate(2024, time.January, n)
}

func entry(id string, date types.Date, amount string, label string) model.Entry {
	return model.Entry{ID: id, Date: date, Amount: decimal.RequireFromString(amount), Label: label}
}

func firstPeriod() period.Period {
	return period.Containing(day(5), day(1))
}

func TestSumScenario(t *testing.T) {
	l := model.Ledger{
		Income:    []model.Entry{entry("i1", day(2), "500", "Paycheck")},
		Expenses:  []model.Entry{entry("x1", day(3), "120", "Groceries"), entry("x2", day(4), "30", "Gas")},
		Savings:   []model.Entry{entry("s1", day(5), "50", "Car")},
		Emergency: []model.Entry{entry("e1", day(6), "0", "")},
	}

	totals := Sum(InPeriod(l, firstPeriod()))
	assert.Equal(t, "500", totals.Income.String())
	assert.Equal(t, "150", totals.Expenses.String())
	assert.Equal(t, "50", totals.Savings.String())
	assert.Equal(t, "0", totals.Emergency.String())
	assert.Equal(t, "300", totals.SpendingMoney().String())
}

func TestSumCoercesBadAmounts(t *testing.T) {
	data := `{"id":"X","income":[
		{"id":"a","date":"2024-01-02","amount":10},
		{"id":"b","date":"2024-01-02","amount":-3},
		{"id":"c","date":"2024-01-02","amount":"bad"},
		{"id":"d","date":"2024-01-02","amount":0}
	]}`
	var tr model.Tracker
	require.NoError(t, json.Unmarshal([]byte(data), &tr))

	totals := Sum(tr.Ledger)
	assert.Equal(t, "7", totals.Income.String())
}

func TestCoerceAmount(t *testing.T) {
	assert.Equal(t, "12.5", CoerceAmount("12.50").String())
	assert.True(t, CoerceAmount("abc").IsZero())
}

func TestSpendingMoneyCanBeNegative(t *testing.T) {
	totals := Totals{
		Income:    decimal.NewFromInt(100),
		Expenses:  decimal.NewFromInt(80),
		Savings:   decimal.NewFromInt(40),
		Emergency: decimal.NewFromInt(5),
	}
	assert.Equal(t, "-25", totals.SpendingMoney().String())
	assert.Equal(t, "40", totals.Of(model.CategorySavings).String())
}

func TestInPeriodBoundariesAndOrder(t *testing.T) {
	p := firstPeriod()
	l := model.Ledger{
		Expenses: []model.Entry{
			entry("late", day(14), "1", ""),
			entry("outside-before", types.NewDate(2023, time.December, 31), "1", ""),
			entry("early", day(1), "1", ""),
			entry("outside-after", day(15), "1", ""),
		},
	}

	in := InPeriod(l, p)
	require.Len(t, in.Expenses, 2)
	assert.Equal(t, "late", in.Expenses[0].ID)
	assert.Equal(t, "early", in.Expenses[1].ID)
	assert.Empty(t, in.Income)
}

func TestBreakdown(t *testing.T) {
	rows := Breakdown([]model.Entry{
		entry("1", day(2), "20", "Gas"),
		entry("2", day(3), "50", "Groceries"),
		entry("3", day(4), "15", ""),
		entry("4", day(5), "30", "Gas"),
		entry("5", day(6), "5", ""),
	})

	require.Len(t, rows, 3)
	assert.Equal(t, "Gas", rows[0].Label)
	assert.Equal(t, "50", rows[0].Amount.String())
	assert.Equal(t, "Groceries", rows[1].Label)
	assert.Equal(t, UncategorizedLabel, rows[2].Label)
	assert.Equal(t, "20", rows[2].Amount.String())
}

func TestSummarize(t *testing.T) {
	l := model.Ledger{
		Income:   []model.Entry{entry("i1", day(2), "1000", "Paycheck"), entry("i2", day(20), "1000", "Paycheck")},
		Expenses: []model.Entry{entry("x1", day(3), "200", "Rent")},
	}

	s := Summarize(l, firstPeriod())
	assert.Equal(t, firstPeriod(), s.Period)
	assert.Len(t, s.Entries.Income, 1)
	assert.Equal(t, "800", s.SpendingMoney.String())
	require.Len(t, s.Breakdown, 1)
	assert.Equal(t, "Rent", s.Breakdown[0].Label)
}
