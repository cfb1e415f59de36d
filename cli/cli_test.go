package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"smartchat/provider/testutil"
	"smartchat/session"
)

// isolate points HOME at a temp dir and clears the variables config reads.
func isolate(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("USERPROFILE", home)
	for _, k := range []string{
		"SMARTCHAT_DATA_DIR", "SMARTCHAT_PROVIDER", "SMARTCHAT_TEXT_MODEL",
		"SMARTCHAT_VISION_MODEL", "SMARTCHAT_LISTEN", "SMARTCHAT_LOG_LEVEL",
		"SMARTCHAT_DEBUG", "GOOGLE_API_KEY",
	} {
		t.Setenv(k, "")
	}
	return home
}

func run(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	app := New().WithIO(strings.NewReader(stdin), &stdout, &stderr)
	err := app.ExecuteWithArgs(context.Background(), append([]string{"--env-file", ""}, args...))
	return stdout.String(), stderr.String(), err
}

func TestVersion(t *testing.T) {
	out, _, err := run(t, "", "version")
	require.NoError(t, err)
	assert.Equal(t, "smartchat dev (Apache-2.0)\n", out)
}

func TestAskOffline(t *testing.T) {
	isolate(t)
	out, _, err := run(t, "", "--provider", "offline", "--log-level", "error", "ask", "hello there")
	require.NoError(t, err)
	assert.Contains(t, out, "offline mode")
}

func TestAskReadsStdin(t *testing.T) {
	isolate(t)
	out, _, err := run(t, "help me\n", "--provider", "offline", "--log-level", "error", "ask")
	require.NoError(t, err)
	assert.Contains(t, out, "Upload a CSV file")
}

func TestAskWithChart(t *testing.T) {
	isolate(t)
	dir := t.TempDir()
	csvPath := filepath.Join(dir, "people.csv")
	require.NoError(t, os.WriteFile(csvPath, []byte(testutil.PeopleCSV), 0o600))
	outDir := filepath.Join(dir, "charts")

	out, _, err := run(t, "", "--provider", "offline", "--log-level", "error",
		"ask", "--csv", csvPath, "--out", outDir, "plot a histogram of age")
	require.NoError(t, err)
	assert.Contains(t, out, session.ChartCaption)
	assert.Contains(t, out, "Chart saved to "+outDir)

	files, err := filepath.Glob(filepath.Join(outDir, "*.png"))
	require.NoError(t, err)
	assert.Len(t, files, 1)
}

func TestAskChartErrorFails(t *testing.T) {
	isolate(t)
	dir := t.TempDir()
	csvPath := filepath.Join(dir, "people.csv")
	require.NoError(t, os.WriteFile(csvPath, []byte(testutil.PeopleCSV), 0o600))

	// name is not numeric, so the histogram cannot be drawn.
	_, _, err := run(t, "", "--provider", "offline", "--log-level", "error",
		"ask", "--csv", csvPath, "--out", dir, "plot name")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "name")
}

func TestAskNeedsAPIKey(t *testing.T) {
	isolate(t)
	_, _, err := run(t, "", "--provider", "gemini", "ask", "hello")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "GOOGLE_API_KEY")
}

func TestAskEmptyQuestion(t *testing.T) {
	isolate(t)
	_, _, err := run(t, "", "--provider", "offline", "--log-level", "error", "ask")
	assert.ErrorIs(t, err, session.ErrEmptyTurn)
}

func TestConfigSetDataDir(t *testing.T) {
	home := isolate(t)
	dataDir := filepath.Join(home, "elsewhere")

	out, _, err := run(t, "", "config", "set-data-dir", dataDir)
	require.NoError(t, err)
	assert.Contains(t, out, dataDir)
	assert.FileExists(t, filepath.Join(dataDir, "config.toml"))

	out, _, err = run(t, "", "config", "path")
	require.NoError(t, err)
	assert.Contains(t, out, "data:     "+dataDir)
	assert.Contains(t, out, filepath.Join(dataDir, "charts"))
}

func TestDataDirFlagWins(t *testing.T) {
	home := isolate(t)
	dataDir := filepath.Join(home, "flagged")

	out, _, err := run(t, "", "--data-dir", dataDir, "config", "path")
	require.NoError(t, err)
	assert.Contains(t, out, "data:     "+dataDir)
	assert.Empty(t, os.Getenv("SMARTCHAT_DATA_DIR"))

	// A later run without the flag falls back to the default location.
	out, _, err = run(t, "", "config", "path")
	require.NoError(t, err)
	assert.NotContains(t, out, "data:     "+dataDir)
}
