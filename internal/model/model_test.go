package model

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/biweekly-dev/biweekly/internal/types"
)

func TestParseCategory(t *testing.T) {
	tests := []struct {
		input string
		want  Category
	}{
		{"income", CategoryIncome},
		{"Expense", CategoryExpenses},
		{"expenses", CategoryExpenses},
		{" savings ", CategorySavings},
		{"saving", CategorySavings},
		{"EMERGENCY", CategoryEmergency},
	}
	for _, tt := range tests {
		got, err := ParseCategory(tt.input)
		require.NoError(t, err, "input: %s", tt.input)
		assert.Equal(t, tt.want, got)
	}

	_, err := ParseCategory("bills")
	assert.ErrorIs(t, err, ErrUnknownCategory)
}

func TestLabelKey(t *testing.T) {
	assert.Equal(t, "source", CategoryIncome.LabelKey())
	assert.Equal(t, "category", CategoryExpenses.LabelKey())
	assert.Equal(t, "goal", CategorySavings.LabelKey())
	assert.Equal(t, "note", CategoryEmergency.LabelKey())
}

func TestCoerceAmount(t *testing.T) {
	tests := []struct {
		input any
		want  string
	}{
		{"12.50", "12.5"},
		{" -3 ", "-3"},
		{"bad", "0"},
		{"", "0"},
		{"NaN", "0"},
		{"Infinity", "0"},
		{json.Number("42"), "42"},
		{10.25, "10.25"},
		{math.NaN(), "0"},
		{math.Inf(1), "0"},
		{7, "7"},
		{nil, "0"},
		{true, "0"},
		{map[string]any{"x": 1}, "0"},
	}
	for _, tt := range tests {
		got := CoerceAmount(tt.input)
		assert.Equal(t, tt.want, got.String(), "CoerceAmount(%#v)", tt.input)
	}
}

func TestTrackerMembers(t *testing.T) {
	var tr Tracker
	tr.AddMember("a@example.com")
	tr.AddMember("b@example.com")
	tr.AddMember("a@example.com")

	assert.Equal(t, []string{"a@example.com", "b@example.com"}, tr.Members)
	assert.True(t, tr.HasMember("b@example.com"))
	assert.False(t, tr.HasMember("c@example.com"))
}

func TestTrackerCloneIsDeep(t *testing.T) {
	orig := Tracker{ID: "ABC123", Members: []string{"a"}}
	orig.Income = []Entry{{ID: "1", Amount: decimal.NewFromInt(5)}}

	c := orig.Clone()
	c.Members[0] = "z"
	c.Income[0].ID = "changed"

	assert.Equal(t, "a", orig.Members[0])
	assert.Equal(t, "1", orig.Income[0].ID)
}

func TestLedgerEntries(t *testing.T) {
	var l Ledger
	l.SetEntries(CategorySavings, []Entry{{ID: "s1"}})
	l.SetEntries(CategoryEmergency, []Entry{{ID: "e1"}, {ID: "e2"}})

	assert.Len(t, l.Entries(CategorySavings), 1)
	assert.Len(t, l.Entries(CategoryEmergency), 2)
	assert.Empty(t, l.Entries(CategoryIncome))
	assert.Equal(t, 3, l.Len())
}

func TestTrackerJSONShape(t *testing.T) {
	tr := Tracker{
		ID:         "K7Q2ZP",
		Name:       "Smith Family",
		AnchorDate: types.NewDate(2024, 1, 1),
		Members:    []string{"ann@example.com"},
	}
	tr.Income = []Entry{{ID: "i1", Date: types.NewDate(2024, 1, 5), Amount: decimal.RequireFromString("500"), AccountID: "ann@example.com", AccountName: "Ann", Label: "Paycheck"}}
	tr.Expenses = []Entry{{ID: "x1", Date: types.NewDate(2024, 1, 6), Amount: decimal.RequireFromString("120.40"), Label: "Groceries"}}
	tr.Savings = []Entry{{ID: "s1", Date: types.NewDate(2024, 1, 7), Amount: decimal.RequireFromString("50"), Label: "Car"}}
	tr.Emergency = []Entry{{ID: "e1", Date: types.NewDate(2024, 1, 8), Amount: decimal.Zero, Label: "Tyre"}}

	data, err := json.Marshal(tr)
	require.NoError(t, err)

	assert.JSONEq(t, `{
		"id": "K7Q2ZP",
		"name": "Smith Family",
		"anchorDate": "2024-01-01",
		"members": ["ann@example.com"],
		"income": [{"id":"i1","date":"2024-01-05","amount":500,"accountId":"ann@example.com","accountName":"Ann","source":"Paycheck"}],
		"expenses": [{"id":"x1","date":"2024-01-06","amount":120.4,"category":"Groceries"}],
		"savings": [{"id":"s1","date":"2024-01-07","amount":50,"goal":"Car"}],
		"emergency": [{"id":"e1","date":"2024-01-08","amount":0,"note":"Tyre"}]
	}`, string(data))

	var back Tracker
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, tr.ID, back.ID)
	assert.Equal(t, tr.AnchorDate, back.AnchorDate)
	assert.Equal(t, "Groceries", back.Expenses[0].Label)
	assert.True(t, back.Expenses[0].Amount.Equal(decimal.RequireFromString("120.4")))
}

func TestTrackerUnmarshalCoercesAmounts(t *testing.T) {
	data := `{"id":"X","income":[
		{"id":"a","date":"2024-01-02","amount":10},
		{"id":"b","date":"2024-01-02","amount":"-3"},
		{"id":"c","date":"2024-01-02","amount":"bad"},
		{"id":"d","date":"2024-01-02","amount":null},
		{"id":"e","date":"2024-01-02"}
	]}`

	var tr Tracker
	require.NoError(t, json.Unmarshal([]byte(data), &tr))
	require.Len(t, tr.Income, 5)
	assert.Equal(t, "10", tr.Income[0].Amount.String())
	assert.Equal(t, "-3", tr.Income[1].Amount.String())
	assert.True(t, tr.Income[2].Amount.IsZero())
	assert.True(t, tr.Income[3].Amount.IsZero())
	assert.True(t, tr.Income[4].Amount.IsZero())
}

func TestTrackerUnmarshalDedupesMembersAndFallsBackOnLabel(t *testing.T) {
	data := `{"id":"X","members":["a","a","b"],"savings":[{"id":"s","date":"2024-01-02","amount":1,"note":"misfiled"}]}`

	var tr Tracker
	require.NoError(t, json.Unmarshal([]byte(data), &tr))
	assert.Equal(t, []string{"a", "b"}, tr.Members)
	assert.Equal(t, "misfiled", tr.Savings[0].Label)
}
