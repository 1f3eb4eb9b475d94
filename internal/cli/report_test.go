package cli

import (
	"context"
	"encoding/json"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/seriate/estcheck/internal/store"
)

func seedResultsDB(t *testing.T) string {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "results.db")

	st, err := store.Open(dbPath)
	require.NoError(t, err)
	defer st.Close()

	run := store.Run{
		ID:        "run-0001",
		StartedAt: time.Date(2026, 8, 20, 9, 0, 0, 0, time.UTC),
		GOOS:      "linux",
		Total:     3,
		Passed:    1,
		Failed:    1,
		Skipped:   1,
	}
	results := []store.CheckResult{
		{Check: "inheritance", Case: "NaiveForecaster", Status: store.StatusPass},
		{Check: "clone", Case: "NaiveForecaster-0", Status: store.StatusFail, Detail: "clone returned the receiver"},
		{Check: "fit_state", Case: "EuclideanPairwise", Status: store.StatusSkip, Detail: "estimator has no fit phase"},
	}
	require.NoError(t, st.WriteRun(context.Background(), run, results))
	return dbPath
}

func TestReportCommandListsRuns(t *testing.T) {
	dbPath := seedResultsDB(t)

	out, _, err := execute(t, "report", "--db", dbPath)
	require.NoError(t, err)
	assert.Contains(t, out, "run-0001")
	assert.Contains(t, out, "failed=1")
}

func TestReportCommandShowsRun(t *testing.T) {
	dbPath := seedResultsDB(t)

	out, _, err := execute(t, "report", "--db", dbPath, "run-0001")
	require.NoError(t, err)
	assert.Contains(t, out, "✓ inheritance / NaiveForecaster")
	assert.Contains(t, out, "✗ clone / NaiveForecaster-0")
	assert.Contains(t, out, "clone returned the receiver")
	assert.Contains(t, out, "- fit_state / EuclideanPairwise")
	// skip detail only shown with --verbose
	assert.NotContains(t, out, "no fit phase")
}

func TestReportCommandVerboseShowsSkipDetail(t *testing.T) {
	dbPath := seedResultsDB(t)

	out, _, err := execute(t, "report", "--db", dbPath, "run-0001", "--verbose")
	require.NoError(t, err)
	assert.Contains(t, out, "estimator has no fit phase")
}

func TestReportCommandFailedOnly(t *testing.T) {
	dbPath := seedResultsDB(t)

	out, _, err := execute(t, "report", "--db", dbPath, "run-0001", "--failed")
	require.NoError(t, err)
	assert.Contains(t, out, "✗ clone")
	assert.NotContains(t, out, "inheritance")
	assert.NotContains(t, out, "fit_state")
}

func TestReportCommandJSON(t *testing.T) {
	dbPath := seedResultsDB(t)

	out, _, err := execute(t, "report", "--db", dbPath, "run-0001", "--format", "json")
	require.NoError(t, err)

	var resp Envelope
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "ok", resp.Status)

	raw, err := json.Marshal(resp.Data)
	require.NoError(t, err)
	var cases []map[string]string
	require.NoError(t, json.Unmarshal(raw, &cases))
	assert.Len(t, cases, 3)
}

func TestReportCommandUnknownRun(t *testing.T) {
	dbPath := seedResultsDB(t)

	_, _, err := execute(t, "report", "--db", dbPath, "missing-run")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, err.Error(), "missing-run")
}
