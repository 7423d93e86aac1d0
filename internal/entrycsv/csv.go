// Package entrycsv reads and writes tracker entries as CSV, one row per entry.
package entrycsv

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/biweekly-dev/biweekly/internal/model"
	"github.com/biweekly-dev/biweekly/internal/types"
)

// Header is the CSV header for entry files.
const Header = "category,id,date,amount,label,account_id,account_name"

const (
	numFields   = 7
	colCategory = 0
	colID       = 1
	colDate     = 2
	colAmount   = 3
	colLabel    = 4
	colAcctID   = 5
	colAcctName = 6
)

// Row is one entry together with the sequence it belongs to.
type Row struct {
	Category model.Category
	Entry    model.Entry
}

// Draft converts r to a draft, dropping its ID and account.
func (r Row) Draft() model.Draft {
	return model.Draft{
		Category: r.Category,
		Date:     r.Entry.Date,
		Amount:   r.Entry.Amount,
		Label:    r.Entry.Label,
	}
}

// Rows flattens l in category order, keeping each sequence's order.
func Rows(l model.Ledger) []Row {
	var rows []Row
	for _, c := range model.Categories() {
		for _, e := range l.Entries(c) {
			rows = append(rows, Row{Category: c, Entry: e})
		}
	}
	return rows
}

// ReadEntries reads all rows from r. A leading header row is skipped.
func ReadEntries(r io.Reader) ([]Row, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = numFields
	cr.TrimLeadingSpace = true

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading entries CSV: %w", err)
	}
	if len(records) == 0 {
		return nil, nil
	}

	first := 0
	if strings.EqualFold(strings.TrimSpace(records[0][colCategory]), "category") {
		first = 1
	}

	var rows []Row
	for i, rec := range records[first:] {
		row, err := UnmarshalRow(rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+first+1, err)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// WriteEntries writes every entry in l, with a header.
func WriteEntries(w io.Writer, l model.Ledger) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	if err := cw.Write(strings.Split(Header, ",")); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	for i, row := range Rows(l) {
		if err := cw.Write(MarshalRow(row)); err != nil {
			return fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// MarshalRow converts a Row to a CSV record.
func MarshalRow(r Row) []string {
	rec := make([]string, numFields)
	rec[colCategory] = string(r.Category)
	rec[colID] = r.Entry.ID
	if !r.Entry.Date.IsZero() {
		rec[colDate] = r.Entry.Date.String()
	}
	rec[colAmount] = r.Entry.Amount.String()
	rec[colLabel] = r.Entry.Label
	rec[colAcctID] = r.Entry.AccountID
	rec[colAcctName] = r.Entry.AccountName
	return rec
}

// UnmarshalRow converts a CSV record to a Row. Amounts that do not parse
// become zero. An empty date is left zero.
func UnmarshalRow(record []string) (Row, error) {
	if len(record) != numFields {
		return Row{}, fmt.Errorf("expected %d fields, got %d", numFields, len(record))
	}

	c, err := model.ParseCategory(record[colCategory])
	if err != nil {
		return Row{}, err
	}

	var date types.Date
	if s := strings.TrimSpace(record[colDate]); s != "" {
		date, err = types.ParseDate(s)
		if err != nil {
			return Row{}, err
		}
	}

	return Row{
		Category: c,
		Entry: model.Entry{
			ID:          strings.TrimSpace(record[colID]),
			Date:        date,
			Amount:      model.CoerceAmount(record[colAmount]),
			AccountID:   record[colAcctID],
			AccountName: record[colAcctName],
			Label:       record[colLabel],
		},
	}, nil
}
