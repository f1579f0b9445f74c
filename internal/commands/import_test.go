package commands_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cleared-dev/zenledger/internal/importlog"
)

const (
	fixture     = "../../testdata/zenmoney.csv"
	archiveName = "2025-12-15.zenmoney-2025-11-29-to-2025-12-15.csv"
)

// copyFixture places the ZenMoney fixture at dir/name.
func copyFixture(t *testing.T, dir, name string) string {
	t.Helper()
	data, err := os.ReadFile(fixture)
	require.NoError(t, err)
	require.NoError(t, os.MkdirAll(dir, 0o755))
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}

// configFlag points --config at a file that does not exist, so defaults apply.
func configFlag(t *testing.T) string {
	return "--config=" + filepath.Join(t.TempDir(), "zenledger.yaml")
}

func TestIdentify(t *testing.T) {
	other := filepath.Join(t.TempDir(), "notes.txt")
	require.NoError(t, os.WriteFile(other, []byte("hello\n"), 0o644))

	out, err := runZenledger(t, "identify", configFlag(t), fixture, other)
	require.NoError(t, err, out)
	assert.Contains(t, out, fixture+"\tzenmoney\tAssets:ZenMoney")
	assert.Contains(t, out, other+"\t-")
}

func TestExtract_Stdout(t *testing.T) {
	out, err := runZenledger(t, "extract", configFlag(t), "--log-level", "error", fixture)
	require.NoError(t, err, out)

	assert.Contains(t, out, `2025-12-14 * "SuperMarket XYZ" ""`)
	assert.Contains(t, out, `2025-12-12 * "Currency exchange"`)
	assert.Contains(t, out, "@ 4.25 PLN")
	assert.Contains(t, out, `zenmoney_category: "Food / Groceries"`)
	assert.NotContains(t, out, "Bad Date Shop")

	// Sorted by date.
	assert.Less(t, strings.Index(out, "2025-11-29"), strings.Index(out, "2025-12-15"))
}

func TestExtract_OutputFile(t *testing.T) {
	dst := filepath.Join(t.TempDir(), "out.beancount")
	out, err := runZenledger(t, "extract", configFlag(t), "--log-level", "error", "--output", dst, fixture)
	require.NoError(t, err, out)
	assert.NotContains(t, out, "SuperMarket XYZ")

	data, err := os.ReadFile(dst)
	require.NoError(t, err)
	assert.Contains(t, string(data), "SuperMarket XYZ")
}

func TestExtract_Unrecognized(t *testing.T) {
	other := filepath.Join(t.TempDir(), "notes.csv")
	require.NoError(t, os.WriteFile(other, []byte("a;b\n1;2\n"), 0o644))

	out, err := runZenledger(t, "extract", configFlag(t), other)
	require.Error(t, err)
	assert.Contains(t, out, "no importer recognizes this file")
}

func TestArchive_DryRun(t *testing.T) {
	dir := t.TempDir()
	_, err := runZenledger(t, "init", dir, "--no-git")
	require.NoError(t, err)
	src := copyFixture(t, filepath.Join(dir, "import"), "export.csv")

	cfg := "--config=" + filepath.Join(dir, "zenledger.yaml")
	out, err := runZenledger(t, "archive", cfg, "--dry-run", src)
	require.NoError(t, err, out)

	want := filepath.Join(dir, "documents", "Assets", "ZenMoney", archiveName)
	assert.Contains(t, out, want)
	_, err = os.Stat(src)
	assert.NoError(t, err, "dry run leaves the file in place")
	_, err = os.Stat(want)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestArchive_Moves(t *testing.T) {
	dir := t.TempDir()
	_, err := runZenledger(t, "init", dir, "--no-git")
	require.NoError(t, err)
	src := copyFixture(t, filepath.Join(dir, "import"), "export.csv")

	out, err := runZenledger(t, "archive", "--config="+filepath.Join(dir, "zenledger.yaml"), src)
	require.NoError(t, err, out)

	_, err = os.Stat(filepath.Join(dir, "documents", "Assets", "ZenMoney", archiveName))
	assert.NoError(t, err)
	_, err = os.Stat(src)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestImport(t *testing.T) {
	dir := t.TempDir()
	_, err := runZenledger(t, "init", dir)
	require.NoError(t, err)
	copyFixture(t, filepath.Join(dir, "import"), "export.csv")

	out, err := runZenledger(t, "import", "--config="+filepath.Join(dir, "zenledger.yaml"))
	require.NoError(t, err, out)
	assert.Contains(t, out, "export.csv: 11 transactions, 3 skipped")

	// Ledger split by month.
	nov, err := os.ReadFile(filepath.Join(dir, "ledger", "2025", "11.beancount"))
	require.NoError(t, err)
	assert.Contains(t, string(nov), "GameStore")
	dec, err := os.ReadFile(filepath.Join(dir, "ledger", "2025", "12.beancount"))
	require.NoError(t, err)
	assert.Contains(t, string(dec), "SuperMarket XYZ")
	assert.NotContains(t, string(dec), "GameStore")

	// Open directives.
	opens, err := os.ReadFile(filepath.Join(dir, "ledger", "accounts.beancount"))
	require.NoError(t, err)
	assert.Contains(t, string(opens), "open Assets:MainBank:PLN PLN")
	assert.Contains(t, string(opens), "2025-11-29 open Assets:DigitalWallet:EUR EUR")

	// Archived.
	_, err = os.Stat(filepath.Join(dir, "documents", "Assets", "ZenMoney", archiveName))
	require.NoError(t, err)
	_, err = os.Stat(filepath.Join(dir, "import", "export.csv"))
	assert.ErrorIs(t, err, os.ErrNotExist)

	// Logged.
	entries, err := importlog.Read(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "zenmoney", entries[0].Importer)
	assert.Equal(t, "export.csv", entries[0].File)
	assert.Equal(t, 11, entries[0].Transactions)
	assert.Equal(t, 3, entries[0].Skipped)
	assert.Equal(t, "documents/Assets/ZenMoney/"+archiveName, entries[0].Archived)
	assert.NotEmpty(t, entries[0].RunID)

	// Committed.
	assert.Contains(t, gitLog(t, dir, "%s"), "import: 1 files, 11 transactions")
}

func TestImport_SameExportTwice(t *testing.T) {
	dir := t.TempDir()
	_, err := runZenledger(t, "init", dir, "--no-git")
	require.NoError(t, err)
	cfg := "--config=" + filepath.Join(dir, "zenledger.yaml")

	copyFixture(t, filepath.Join(dir, "import"), "a.csv")
	out, err := runZenledger(t, "import", cfg)
	require.NoError(t, err, out)

	second := copyFixture(t, filepath.Join(dir, "import"), "b.csv")
	out, err = runZenledger(t, "import", cfg)
	require.NoError(t, err, out)
	assert.Contains(t, out, "b.csv: already archived, skipped")

	dec, err := os.ReadFile(filepath.Join(dir, "ledger", "2025", "12.beancount"))
	require.NoError(t, err)
	assert.Equal(t, 1, strings.Count(string(dec), "SuperMarket XYZ"), "ledger must not hold the export twice")

	_, err = os.Stat(second)
	assert.NoError(t, err, "skipped file stays in the import dir")

	entries, err := importlog.Read(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "a.csv", entries[0].File)
}

func TestImport_NoArchive(t *testing.T) {
	dir := t.TempDir()
	_, err := runZenledger(t, "init", dir, "--no-git")
	require.NoError(t, err)
	src := copyFixture(t, filepath.Join(dir, "import"), "export.csv")

	out, err := runZenledger(t, "import", "--no-archive", "--config="+filepath.Join(dir, "zenledger.yaml"))
	require.NoError(t, err, out)

	_, err = os.Stat(src)
	assert.NoError(t, err)
	entries, err := importlog.Read(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Empty(t, entries[0].Archived)
}

func TestImport_NothingToImport(t *testing.T) {
	dir := t.TempDir()
	_, err := runZenledger(t, "init", dir, "--no-git")
	require.NoError(t, err)

	out, err := runZenledger(t, "import", "--config="+filepath.Join(dir, "zenledger.yaml"))
	require.NoError(t, err, out)
	assert.Contains(t, out, "Nothing to import")
}

func TestImport_ConfigFromEnv(t *testing.T) {
	dir := t.TempDir()
	_, err := runZenledger(t, "init", dir, "--no-git")
	require.NoError(t, err)
	copyFixture(t, filepath.Join(dir, "import"), "export.csv")

	env := []string{"ZENLEDGER_CONFIG=" + filepath.Join(dir, "zenledger.yaml"), "ZENLEDGER_LOG_FORMAT=json"}
	out, err := runZenledgerEnv(t, env, "import")
	require.NoError(t, err, out)
	assert.Contains(t, out, `"level":"warn"`, "skipped rows are logged as JSON")

	_, err = os.Stat(filepath.Join(dir, "ledger", "2025", "12.beancount"))
	assert.NoError(t, err)
}

func TestInvalidLogLevel(t *testing.T) {
	out, err := runZenledger(t, "identify", configFlag(t), "--log-level", "loud", fixture)
	require.Error(t, err)
	assert.Contains(t, out, "loud")
}
