package model

import (
	"errors"
	"fmt"
	"strings"
)

// Category names one of the four entry sequences of a tracker.
type Category string

const (
	CategoryIncome    Category = "income"
	CategoryExpenses  Category = "expenses"
	CategorySavings   Category = "savings"
	CategoryEmergency Category = "emergency"
)

// ErrUnknownCategory is returned when a category name does not match any sequence.
var ErrUnknownCategory = errors.New("unknown category")

// Categories returns all categories in display order.
func Categories() []Category {
	return []Category{CategoryIncome, CategoryExpenses, CategorySavings, CategoryEmergency}
}

// ParseCategory accepts the canonical names plus common singular forms.
func ParseCategory(s string) (Category, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "income":
		return CategoryIncome, nil
	case "expenses", "expense":
		return CategoryExpenses, nil
	case "savings", "saving":
		return CategorySavings, nil
	case "emergency", "emergencies":
		return CategoryEmergency, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownCategory, s)
}

// LabelKey is the JSON key holding an entry's label for this category.
func (c Category) LabelKey() string {
	switch c {
	case CategoryIncome:
		return "source"
	case CategoryExpenses:
		return "category"
	case CategorySavings:
		return "goal"
	case CategoryEmergency:
		return "note"
	}
	return "label"
}

// Valid reports whether c is one of the four categories.
func (c Category) Valid() bool {
	switch c {
	case CategoryIncome, CategoryExpenses, CategorySavings, CategoryEmergency:
		return true
	}
	return false
}
