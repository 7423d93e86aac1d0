package commands_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/biweekly-dev/biweekly/internal/entrycsv"
)

// newFamily initializes dir and creates a family anchored on 2024-01-01.
func newFamily(t *testing.T, dir string, extra ...string) {
	t.Helper()
	_, err := runBiweekly(t, dir, "init")
	require.NoError(t, err)
	args := append([]string{"family", "create",
		"--email", "ann@example.com", "--name", "Ann", "--password", "pw",
		"--family", "Smith Family", "--anchor", "2024-01-01"}, extra...)
	_, err = runBiweekly(t, dir, args...)
	require.NoError(t, err)
}

func mustRun(t *testing.T, dir string, args ...string) string {
	t.Helper()
	out, err := runBiweekly(t, dir, args...)
	require.NoError(t, err, "biweekly %s: %s", strings.Join(args, " "), out)
	return out
}

func TestFamilyLifecycle(t *testing.T) {
	dir := t.TempDir()
	newFamily(t, dir)

	out := mustRun(t, dir, "whoami")
	assert.Contains(t, out, "Ann <ann@example.com> in Smith Family")

	show := mustRun(t, dir, "family", "show")
	assert.Contains(t, show, "Family:      Smith Family")
	assert.Contains(t, show, "Anchor date: 2024-01-01")
	code := familyCode(t, show)
	assert.Len(t, code, 6)

	mustRun(t, dir, "logout")
	assert.Contains(t, mustRun(t, dir, "whoami"), "Not signed in")

	mustRun(t, dir, "family", "join", "--email", "bob@example.com", "--name", "Bob", "--password", "pw2", "--code", strings.ToLower(code))
	show = mustRun(t, dir, "family", "show")
	assert.Contains(t, show, "Ann <ann@example.com>")
	assert.Contains(t, show, "Bob <bob@example.com>")

	mustRun(t, dir, "family", "rename", "The Smiths")
	mustRun(t, dir, "family", "anchor", "2024-01-03")
	show = mustRun(t, dir, "family", "show")
	assert.Contains(t, show, "The Smiths")
	assert.Contains(t, show, "Anchor date: 2024-01-03")
}

func familyCode(t *testing.T, show string) string {
	t.Helper()
	for _, line := range strings.Split(show, "\n") {
		if v, ok := strings.CutPrefix(line, "Family Code: "); ok {
			return strings.TrimSpace(v)
		}
	}
	t.Fatalf("no Family Code in output:\n%s", show)
	return ""
}

func TestLogin(t *testing.T) {
	dir := t.TempDir()
	newFamily(t, dir)
	mustRun(t, dir, "logout")

	_, err := runBiweekly(t, dir, "login", "--email", "ann@example.com", "--password", "wrong")
	require.Error(t, err)

	out := mustRun(t, dir, "login", "--email", "ann@example.com", "--password", "pw")
	assert.Contains(t, out, "Signed in as ann@example.com")
}

func TestJoinUnknownCode(t *testing.T) {
	dir := t.TempDir()
	newFamily(t, dir)

	_, err := runBiweekly(t, dir, "family", "join", "--email", "bob@example.com", "--password", "pw", "--code", "ZZZZZZ")
	require.Error(t, err)
}

func TestEntriesAndPeriod(t *testing.T) {
	dir := t.TempDir()
	newFamily(t, dir)

	mustRun(t, dir, "entry", "add", "income", "--amount", "1000", "--date", "2024-01-05", "--label", "Paycheck")
	mustRun(t, dir, "entry", "add", "expense", "--amount", "250.50", "--date", "2024-01-06", "--label", "Groceries")
	mustRun(t, dir, "entry", "add", "expenses", "--amount", "49.50", "--date", "2024-01-07", "--label", "Fuel")
	mustRun(t, dir, "entry", "add", "savings", "--amount", "100", "--date", "2024-01-20", "--label", "Car")
	mustRun(t, dir, "entry", "add", "emergency", "--amount", "lots", "--date", "2024-01-08")

	out := mustRun(t, dir, "period", "--date", "2024-01-05")
	assert.Contains(t, out, "Period 2024-01-01 to 2024-01-14")
	assert.Contains(t, out, "1000.00")
	assert.Contains(t, out, "300.00")
	assert.Contains(t, out, "700.00")
	assert.Less(t, strings.Index(out, "Groceries"), strings.Index(out, "Fuel"), "breakdown is sorted by amount")

	next := mustRun(t, dir, "period", "--date", "2024-01-05", "--offset", "1")
	assert.Contains(t, next, "Period 2024-01-15 to 2024-01-28")
	assert.Contains(t, next, "-100.00")

	_, err := runBiweekly(t, dir, "entry", "add", "bills", "--amount", "1")
	require.Error(t, err)
}

func TestEntryListAndRemove(t *testing.T) {
	dir := t.TempDir()
	newFamily(t, dir)
	mustRun(t, dir, "entry", "add", "expenses", "--amount", "12", "--date", "2024-01-02", "--label", "Coffee")
	mustRun(t, dir, "entry", "add", "expenses", "--amount", "30", "--date", "2024-01-03", "--label", "Books")

	table := mustRun(t, dir, "entry", "list", "--date", "2024-01-02")
	assert.Contains(t, table, "Coffee")
	assert.Contains(t, table, "Ann")

	csvOut := mustRun(t, dir, "entry", "list", "--date", "2024-01-02", "--csv")
	rows, err := entrycsv.ReadEntries(strings.NewReader(csvOut))
	require.NoError(t, err)
	require.Len(t, rows, 2)

	var coffee string
	for _, r := range rows {
		if r.Entry.Label == "Coffee" {
			coffee = r.Entry.ID
		}
	}
	require.NotEmpty(t, coffee)

	out := mustRun(t, dir, "entry", "rm", "expenses", coffee[:8])
	assert.Contains(t, out, "Deleted expenses entry")

	table = mustRun(t, dir, "entry", "list", "--date", "2024-01-02")
	assert.NotContains(t, table, "Coffee")
	assert.Contains(t, table, "Books")

	_, err = runBiweekly(t, dir, "entry", "rm", "expenses", "nope")
	require.Error(t, err)
}

func TestRequiresSession(t *testing.T) {
	dir := t.TempDir()
	_, err := runBiweekly(t, dir, "init")
	require.NoError(t, err)

	_, err = runBiweekly(t, dir, "period")
	require.Error(t, err)
	_, err = runBiweekly(t, dir, "entry", "add", "income", "--amount", "5")
	require.Error(t, err)
}

func TestExportImport(t *testing.T) {
	src := t.TempDir()
	newFamily(t, src)
	mustRun(t, src, "entry", "add", "income", "--amount", "500", "--date", "2024-01-05", "--label", "Paycheck")

	file := filepath.Join(t.TempDir(), "backup.json")
	out := mustRun(t, src, "export", "--out", file)
	assert.Contains(t, out, "Exported to")
	data, err := os.ReadFile(file)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"source": "Paycheck"`)

	dst := t.TempDir()
	_, err = runBiweekly(t, dst, "init")
	require.NoError(t, err)
	mustRun(t, dst, "family", "create", "--email", "carl@example.com", "--password", "pw", "--family", "Other")

	out = mustRun(t, dst, "import", file)
	assert.Contains(t, out, `Imported "Smith Family"`)
	assert.Contains(t, out, "1 entries")
	assert.Contains(t, mustRun(t, dst, "whoami"), "in Smith Family")
	assert.Contains(t, mustRun(t, dst, "period", "--date", "2024-01-05"), "500.00")

	bad := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte("[1,2]"), 0o644))
	_, err = runBiweekly(t, dst, "import", bad)
	require.Error(t, err)
}

func TestExportToStdout(t *testing.T) {
	dir := t.TempDir()
	newFamily(t, dir)

	out := mustRun(t, dir, "export", "--out", "-")
	assert.Contains(t, out, `"name": "Smith Family"`)
}

func TestImportCSVFile(t *testing.T) {
	dir := t.TempDir()
	newFamily(t, dir)

	out := mustRun(t, dir, "import-csv", filepath.Join("..", "importer", "testdata", "chase_checking.csv"))
	assert.Contains(t, out, "Imported 5 entries")

	period := mustRun(t, dir, "period", "--date", "2024-01-05")
	assert.Contains(t, period, "1850.00")
	assert.Contains(t, period, "204.31")
	assert.Contains(t, period, "1645.69")

	_, err := runBiweekly(t, dir, "import-csv", "--format", "ofx", "x.csv")
	require.Error(t, err)
}

func TestImportCSVInbox(t *testing.T) {
	dir := t.TempDir()
	newFamily(t, dir)

	data, err := os.ReadFile(filepath.Join("..", "importer", "testdata", "chase_checking.csv"))
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "import", "jan.csv"), data, 0o644))

	out := mustRun(t, dir, "import-csv")
	assert.Contains(t, out, "Imported 5 entries from jan.csv")

	_, err = os.Stat(filepath.Join(dir, "import", "processed", "jan.csv"))
	assert.NoError(t, err)
	_, err = os.Stat(filepath.Join(dir, "import", "jan.csv"))
	assert.ErrorIs(t, err, os.ErrNotExist)

	assert.Contains(t, mustRun(t, dir, "import-csv"), "Nothing to import")
}

func TestActivity(t *testing.T) {
	dir := t.TempDir()
	newFamily(t, dir)
	mustRun(t, dir, "entry", "add", "income", "--amount", "10", "--date", "2024-01-05")

	out := mustRun(t, dir, "activity")
	assert.Contains(t, out, "create_family")
	assert.Contains(t, out, "add_entry")

	out = mustRun(t, dir, "activity", "--limit", "1")
	assert.NotContains(t, out, "create_family")
	assert.Contains(t, out, "add_entry")
}

func TestConfigGetSet(t *testing.T) {
	dir := t.TempDir()
	_, err := runBiweekly(t, dir, "init")
	require.NoError(t, err)

	assert.Equal(t, "file\n", mustRun(t, dir, "config", "get", "storage.backend"))

	mustRun(t, dir, "config", "set", "auth.mode", "bcrypt")
	assert.Equal(t, "bcrypt\n", mustRun(t, dir, "config", "get", "auth.mode"))

	_, err = runBiweekly(t, dir, "config", "set", "storage.backend", "redis")
	require.Error(t, err)
	_, err = runBiweekly(t, dir, "config", "get", "nope")
	require.Error(t, err)
}

func TestBackends(t *testing.T) {
	for _, backend := range []string{"file", "sqlite"} {
		t.Run(backend, func(t *testing.T) {
			dir := t.TempDir()
			_, err := runBiweekly(t, dir, "init", "--backend", backend, "--auth", "bcrypt")
			require.NoError(t, err)
			mustRun(t, dir, "family", "create", "--email", "ann@example.com", "--password", "pw", "--anchor", "2024-01-01")
			mustRun(t, dir, "entry", "add", "income", "--amount", "42", "--date", "2024-01-02")
			mustRun(t, dir, "logout")
			mustRun(t, dir, "login", "--email", "ann@example.com", "--password", "pw")

			assert.Contains(t, mustRun(t, dir, "period", "--date", "2024-01-02"), "42.00")
		})
	}
}

func TestEntryCSVRoundTripKeepsAmounts(t *testing.T) {
	src := t.TempDir()
	newFamily(t, src)
	mustRun(t, src, "entry", "add", "expenses", "--amount", "10.005", "--date", "2024-01-03", "--label", "Parking")

	file := filepath.Join(t.TempDir(), "entries.csv")
	require.NoError(t, os.WriteFile(file, []byte(mustRun(t, src, "entry", "list", "--date", "2024-01-03", "--csv")), 0o644))

	dst := t.TempDir()
	newFamily(t, dst)
	out := mustRun(t, dst, "import-csv", "--format", "biweekly", file)
	assert.Contains(t, out, "Imported 1 entries")

	csvOut := mustRun(t, dst, "entry", "list", "--date", "2024-01-03", "--csv")
	rows, err := entrycsv.ReadEntries(strings.NewReader(csvOut))
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "10.005", rows[0].Entry.Amount.String())
}
