package backup

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/biweekly-dev/biweekly/internal/model"
	"github.com/biweekly-dev/biweekly/internal/types"
)

func sample() model.Tracker {
	t := model.Tracker{ID: "K7Q2ZP", Name: "Smith Family", AnchorDate: types.NewDate(2024, 1, 1), Members: []string{"ann@example.com"}}
	t.Expenses = []model.Entry{{ID: "x1", Date: types.NewDate(2024, 1, 6), Amount: decimal.RequireFromString("42.10"), Label: "Groceries"}}
	return t
}

func TestExportImport(t *testing.T) {
	data, err := Export(sample())
	require.NoError(t, err)
	assert.Contains(t, string(data), "\n  \"name\": \"Smith Family\"")

	got, err := Import(data)
	require.NoError(t, err)
	assert.Equal(t, "K7Q2ZP", got.ID)
	assert.Equal(t, types.NewDate(2024, 1, 1), got.AnchorDate)
	require.Len(t, got.Expenses, 1)
	assert.Equal(t, "Groceries", got.Expenses[0].Label)
	assert.True(t, got.Expenses[0].Amount.Equal(decimal.RequireFromString("42.1")))
}

func TestImportRejects(t *testing.T) {
	tests := []struct {
		name  string
		input string
		field string
	}{
		{"empty", "", "payload"},
		{"array", `[{"id":"A"}]`, "payload"},
		{"string", `"K7Q2ZP"`, "payload"},
		{"missing id", `{"name":"Smith"}`, "id"},
		{"blank id", `{"id":"   "}`, "id"},
		{"truncated", `{"id":"A",`, ""},
		{"wrong type", `{"id":"A","members":"everyone"}`, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Import([]byte(tt.input))
			require.ErrorIs(t, err, ErrMalformed)

			var verr *ValidationError
			if tt.field != "" {
				require.True(t, errors.As(err, &verr))
				assert.Equal(t, tt.field, verr.Field)
			}
		})
	}
}

func TestImportNormalizesID(t *testing.T) {
	got, err := Import([]byte(` {"id":" K7Q2ZP "} `))
	require.NoError(t, err)
	assert.Equal(t, "K7Q2ZP", got.ID)

	got, err = Import([]byte(`{"id":"k7q2zp"}`))
	require.NoError(t, err)
	assert.Equal(t, "K7Q2ZP", got.ID)
}

func TestImportCoercesAmounts(t *testing.T) {
	got, err := Import([]byte(`{"id":"A","income":[{"id":"1","date":"2024-01-02","amount":"oops"}]}`))
	require.NoError(t, err)
	assert.True(t, got.Income[0].Amount.IsZero())
}

func TestFilename(t *testing.T) {
	at := time.Date(2024, 1, 5, 18, 0, 0, 0, time.UTC)
	assert.Equal(t, "biweekly-K7Q2ZP-20240105.json", Filename(sample(), at))
}
