package model

import (
	"encoding/json"
	"slices"

	"github.com/shopspring/decimal"

	"github.com/biweekly-dev/biweekly/internal/types"
)

// Entry is one dated amount in a tracker. Label holds the category-specific
// field: source for income, category for expenses, goal for savings and note
// for emergency.
type Entry struct {
	ID          string
	Date        types.Date
	Amount      decimal.Decimal
	AccountID   string
	AccountName string
	Label       string
}

// Ledger holds the four insertion-ordered entry sequences of a tracker.
type Ledger struct {
	Income    []Entry
	Expenses  []Entry
	Savings   []Entry
	Emergency []Entry
}

// Entries returns the sequence for c.
func (l Ledger) Entries(c Category) []Entry {
	switch c {
	case CategoryIncome:
		return l.Income
	case CategoryExpenses:
		return l.Expenses
	case CategorySavings:
		return l.Savings
	case CategoryEmergency:
		return l.Emergency
	}
	return nil
}

// SetEntries replaces the sequence for c.
func (l *Ledger) SetEntries(c Category, entries []Entry) {
	switch c {
	case CategoryIncome:
		l.Income = entries
	case CategoryExpenses:
		l.Expenses = entries
	case CategorySavings:
		l.Savings = entries
	case CategoryEmergency:
		l.Emergency = entries
	}
}

// Len returns the number of entries across all categories.
func (l Ledger) Len() int {
	return len(l.Income) + len(l.Expenses) + len(l.Savings) + len(l.Emergency)
}

// Tracker is a family budget. ID doubles as the Family Code.
type Tracker struct {
	ID         string
	Name       string
	AnchorDate types.Date
	Members    []string
	Ledger
}

// HasMember reports whether accountID is in the member set.
func (t Tracker) HasMember(accountID string) bool {
	return slices.Contains(t.Members, accountID)
}

// AddMember adds accountID to the member set if it is not already present.
func (t *Tracker) AddMember(accountID string) {
	if !t.HasMember(accountID) {
		t.Members = append(t.Members, accountID)
	}
}

// Clone returns a deep copy so callers can mutate it without touching the original.
func (t Tracker) Clone() Tracker {
	c := t
	c.Members = slices.Clone(t.Members)
	c.Income = slices.Clone(t.Income)
	c.Expenses = slices.Clone(t.Expenses)
	c.Savings = slices.Clone(t.Savings)
	c.Emergency = slices.Clone(t.Emergency)
	return c
}

type trackerJSON struct {
	ID         string      `json:"id"`
	Name       string      `json:"name"`
	AnchorDate types.Date  `json:"anchorDate"`
	Members    []string    `json:"members"`
	Income     []entryJSON `json:"income"`
	Expenses   []entryJSON `json:"expenses"`
	Savings    []entryJSON `json:"savings"`
	Emergency  []entryJSON `json:"emergency"`
}

type entryJSON struct {
	ID          string          `json:"id"`
	Date        types.Date      `json:"date"`
	Amount      json.RawMessage `json:"amount"`
	AccountID   string          `json:"accountId,omitempty"`
	AccountName string          `json:"accountName,omitempty"`
	Source      string          `json:"source,omitempty"`
	Category    string          `json:"category,omitempty"`
	Goal        string          `json:"goal,omitempty"`
	Note        string          `json:"note,omitempty"`
}

// MarshalJSON writes the tracker in the backup file shape.
func (t Tracker) MarshalJSON() ([]byte, error) {
	members := t.Members
	if members == nil {
		members = []string{}
	}
	return json.Marshal(trackerJSON{
		ID:         t.ID,
		Name:       t.Name,
		AnchorDate: t.AnchorDate,
		Members:    members,
		Income:     encodeEntries(CategoryIncome, t.Income),
		Expenses:   encodeEntries(CategoryExpenses, t.Expenses),
		Savings:    encodeEntries(CategorySavings, t.Savings),
		Emergency:  encodeEntries(CategoryEmergency, t.Emergency),
	})
}

// UnmarshalJSON reads the backup file shape. Amounts are coerced, never rejected.
func (t *Tracker) UnmarshalJSON(data []byte) error {
	var w trackerJSON
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	*t = Tracker{
		ID:         w.ID,
		Name:       w.Name,
		AnchorDate: w.AnchorDate,
	}
	for _, m := range w.Members {
		t.AddMember(m)
	}
	t.Income = decodeEntries(CategoryIncome, w.Income)
	t.Expenses = decodeEntries(CategoryExpenses, w.Expenses)
	t.Savings = decodeEntries(CategorySavings, w.Savings)
	t.Emergency = decodeEntries(CategoryEmergency, w.Emergency)
	return nil
}

func encodeEntries(c Category, entries []Entry) []entryJSON {
	out := make([]entryJSON, len(entries))
	for i, e := range entries {
		w := entryJSON{
			ID:          e.ID,
			Date:        e.Date,
			Amount:      json.RawMessage(e.Amount.String()),
			AccountID:   e.AccountID,
			AccountName: e.AccountName,
		}
		switch c {
		case CategoryIncome:
			w.Source = e.Label
		case CategoryExpenses:
			w.Category = e.Label
		case CategorySavings:
			w.Goal = e.Label
		case CategoryEmergency:
			w.Note = e.Label
		}
		out[i] = w
	}
	return out
}

func decodeEntries(c Category, in []entryJSON) []Entry {
	if len(in) == 0 {
		return nil
	}
	out := make([]Entry, len(in))
	for i, w := range in {
		out[i] = Entry{
			ID:          w.ID,
			Date:        w.Date,
			Amount:      coerceRawAmount(w.Amount),
			AccountID:   w.AccountID,
			AccountName: w.AccountName,
			Label:       w.label(c),
		}
	}
	return out
}

// label picks the field that belongs to c, falling back to whichever is set.
func (w entryJSON) label(c Category) string {
	var own string
	switch c {
	case CategoryIncome:
		own = w.Source
	case CategoryExpenses:
		own = w.Category
	case CategorySavings:
		own = w.Goal
	case CategoryEmergency:
		own = w.Note
	}
	if own != "" {
		return own
	}
	for _, s := range []string{w.Source, w.Category, w.Goal, w.Note} {
		if s != "" {
			return s
		}
	}
	return ""
}
