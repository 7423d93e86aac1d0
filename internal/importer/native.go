package importer

import (
	"io"

	"github.com/biweekly-dev/biweekly/internal/entrycsv"
	"github.com/biweekly-dev/biweekly/internal/model"
)

// NativeParser reads the entry CSV that `biweekly entry list --csv` writes.
// IDs and accounts in the file are ignored; imported entries get new ones.
type NativeParser struct{}

// Format returns the parser name.
func (p *NativeParser) Format() string { return "biweekly" }

func (p *NativeParser) Parse(r io.Reader) ([]model.Draft, error) {
	rows, err := entrycsv.ReadEntries(r)
	if err != nil {
		return nil, err
	}
	drafts := make([]model.Draft, 0, len(rows))
	for _, row := range rows {
		drafts = append(drafts, row.Draft())
	}
	return drafts, nil
}
