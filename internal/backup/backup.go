// Package backup reads and writes the single-tracker JSON file that families
// pass between devices.
package backup

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/biweekly-dev/biweekly/internal/id"
	"github.com/biweekly-dev/biweekly/internal/model"
)

// ErrMalformed is returned for any payload that is not a tracker.
var ErrMalformed = errors.New("malformed backup")

// ValidationError names the field that made a payload unusable.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

// Export returns t as indented JSON.
func Export(t model.Tracker) ([]byte, error) {
	data, err := json.MarshalIndent(t, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encoding tracker %s: %w", t.ID, err)
	}
	return append(data, '\n'), nil
}

// Import parses a backup. Anything but a JSON object with a non-blank id is
// rejected with ErrMalformed. The id is normalized like a typed Family Code.
func Import(data []byte) (model.Tracker, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return model.Tracker{}, malformed("payload", "not a JSON object")
	}

	var t model.Tracker
	if err := json.Unmarshal(trimmed, &t); err != nil {
		return model.Tracker{}, fmt.Errorf("%w: %w", ErrMalformed, err)
	}
	t.ID = id.NormalizeFamilyCode(t.ID)
	if t.ID == "" {
		return model.Tracker{}, malformed("id", "missing")
	}
	return t, nil
}

func malformed(field, reason string) error {
	return fmt.Errorf("%w: %w", ErrMalformed, &ValidationError{Field: field, Reason: reason})
}

// Filename is the suggested file name for a backup of t taken at, like
// "biweekly-K7Q2ZP-20240105.json".
func Filename(t model.Tracker, at time.Time) string {
	return fmt.Sprintf("biweekly-%s-%s.json", t.ID, at.Format("20060102"))
}
