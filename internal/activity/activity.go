// Package activity keeps an append-only CSV log of every change made to a
// tracker, at <dir>/logs/activity.csv.
package activity

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Actions written by the budget service.
const (
	ActionCreateFamily = "create_family"
	ActionJoinFamily   = "join_family"
	ActionRelink       = "relink"
	ActionLogin        = "login"
	ActionLogout       = "logout"
	ActionAddEntry     = "add_entry"
	ActionDeleteEntry  = "delete_entry"
	ActionSetAnchor    = "set_anchor"
	ActionRename       = "rename"
	ActionImport       = "import"
)

// Entry is one row in the activity log.
type Entry struct {
	Timestamp time.Time
	Account   string
	Action    string
	Tracker   string
	EntryID   string
	Details   string
}

// Header is the CSV header for activity.csv.
const Header = "timestamp,account,action,tracker,entry_id,details"

const (
	numFields    = 6
	logDir       = "logs"
	logFile      = "activity.csv"
	colTimestamp = 0
	colAccount   = 1
	colAction    = 2
	colTracker   = 3
	colEntryID   = 4
	colDetails   = 5
)

// MarshalEntry converts an Entry to a CSV row.
func MarshalEntry(e Entry) []string {
	row := make([]string, numFields)
	row[colTimestamp] = e.Timestamp.Format(time.RFC3339)
	row[colAccount] = e.Account
	row[colAction] = e.Action
	row[colTracker] = e.Tracker
	row[colEntryID] = e.EntryID
	row[colDetails] = e.Details
	return row
}

// UnmarshalEntry converts a CSV row to an Entry.
func UnmarshalEntry(record []string) (Entry, error) {
	if len(record) != numFields {
		return Entry{}, fmt.Errorf("expected %d fields, got %d", numFields, len(record))
	}

	ts, err := time.Parse(time.RFC3339, record[colTimestamp])
	if err != nil {
		return Entry{}, fmt.Errorf("parsing timestamp %q: %w", record[colTimestamp], err)
	}

	return Entry{
		Timestamp: ts,
		Account:   record[colAccount],
		Action:    record[colAction],
		Tracker:   record[colTracker],
		EntryID:   record[colEntryID],
		Details:   record[colDetails],
	}, nil
}

// Path returns the log file location under dir.
func Path(dir string) string {
	return filepath.Join(dir, logDir, logFile)
}

// Append writes entries to the log under dir, creating the file and header if needed.
func Append(dir string, entries []Entry) error {
	if err := os.MkdirAll(filepath.Join(dir, logDir), 0o755); err != nil {
		return fmt.Errorf("creating logs dir: %w", err)
	}

	path := Path(dir)
	needsHeader := false
	if _, err := os.Stat(path); os.IsNotExist(err) {
		needsHeader = true
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("opening activity log: %w", err)
	}
	defer f.Close()

	cw := csv.NewWriter(f)
	if needsHeader {
		if err := cw.Write(strings.Split(Header, ",")); err != nil {
			return fmt.Errorf("writing header: %w", err)
		}
	}
	for i, e := range entries {
		if err := cw.Write(MarshalEntry(e)); err != nil {
			return fmt.Errorf("writing entry %d: %w", i, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// Read returns all entries logged under dir, oldest first.
// Returns an empty slice if the file does not exist.
func Read(dir string) ([]Entry, error) {
	f, err := os.Open(Path(dir))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("opening activity log: %w", err)
	}
	defer f.Close()

	return readEntries(f)
}

// Tail returns the last n entries, or all of them when n <= 0.
func Tail(entries []Entry, n int) []Entry {
	if n <= 0 || n >= len(entries) {
		return entries
	}
	return entries[len(entries)-n:]
}

func readEntries(r io.Reader) ([]Entry, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = numFields

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading activity log CSV: %w", err)
	}
	if len(records) <= 1 {
		return nil, nil
	}

	var entries []Entry
	for i, rec := range records[1:] {
		e, err := UnmarshalEntry(rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		entries = append(entries, e)
	}
	return entries, nil
}

// FileRecorder appends each recorded entry to the log under Dir.
type FileRecorder struct {
	Dir string
}

func (r FileRecorder) Record(_ context.Context, e Entry) error {
	return Append(r.Dir, []Entry{e})
}
