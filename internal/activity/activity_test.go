package activity

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testTime = time.Date(2024, 1, 5, 10, 30, 0, 0, time.UTC)

func testEntry() Entry {
	return Entry{
		Timestamp: testTime,
		Account:   "ann@example.com",
		Action:    ActionAddEntry,
		Tracker:   "K7Q2ZP",
		EntryID:   "3f2c9a1e",
		Details:   "expenses 42.10 Groceries, weekly",
	}
}

func TestAppend_NewFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, Append(dir, []Entry{testEntry()}))

	entries, err := Read(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "ann@example.com", entries[0].Account)
	assert.Equal(t, "expenses 42.10 Groceries, weekly", entries[0].Details)
	assert.True(t, testTime.Equal(entries[0].Timestamp))
}

func TestAppend_ExistingFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, Append(dir, []Entry{testEntry()}))

	e2 := testEntry()
	e2.Action = ActionDeleteEntry
	require.NoError(t, Append(dir, []Entry{e2}))

	entries, err := Read(dir)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, ActionAddEntry, entries[0].Action)
	assert.Equal(t, ActionDeleteEntry, entries[1].Action)

	data, err := os.ReadFile(Path(dir))
	require.NoError(t, err)
	assert.Equal(t, 1, strings.Count(string(data), Header))
}

func TestRead_NoFile(t *testing.T) {
	entries, err := Read(t.TempDir())
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestRead_BadTimestamp(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "logs"), 0o755))
	content := Header + "\nyesterday,a,login,T,,\n"
	require.NoError(t, os.WriteFile(Path(dir), []byte(content), 0o644))

	_, err := Read(dir)
	assert.ErrorContains(t, err, "row 2")
}

func TestTail(t *testing.T) {
	all := []Entry{{Action: "a"}, {Action: "b"}, {Action: "c"}}
	assert.Len(t, Tail(all, 0), 3)
	assert.Len(t, Tail(all, 10), 3)
	got := Tail(all, 2)
	assert.Equal(t, "b", got[0].Action)
	assert.Equal(t, "c", got[1].Action)
}

func TestFileRecorder(t *testing.T) {
	dir := t.TempDir()
	r := FileRecorder{Dir: dir}
	require.NoError(t, r.Record(context.Background(), testEntry()))

	entries, err := Read(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}
