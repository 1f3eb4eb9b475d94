package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/seriate/estcheck/internal/store"
)

func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	cmd := NewRootCommand()
	out := &bytes.Buffer{}
	errOut := &bytes.Buffer{}
	cmd.SetOut(out)
	cmd.SetErr(errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), errOut.String(), err
}

func TestRunCommandPasses(t *testing.T) {
	out, _, err := execute(t, "run")
	require.NoError(t, err)
	assert.Contains(t, out, "0 failed")
	assert.NotContains(t, out, "FAIL")
}

func TestRunCommandJSON(t *testing.T) {
	out, _, err := execute(t, "run", "--format", "json", "--scitype", "regressor")
	require.NoError(t, err)

	var resp Envelope
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "ok", resp.Status)
	require.NotNil(t, resp.Data)

	payload, ok := resp.Data.(map[string]interface{})
	require.True(t, ok)
	results, ok := payload["results"].([]interface{})
	require.True(t, ok)
	assert.NotEmpty(t, results)
	for _, raw := range results {
		res := raw.(map[string]interface{})
		assert.NotEqual(t, "fail", res["status"])
	}
}

func TestRunCommandScitypeFilter(t *testing.T) {
	out, _, err := execute(t, "run", "--scitype", "classifier")
	require.NoError(t, err)
	assert.Contains(t, out, "0 failed")

	_, _, err = execute(t, "run", "--scitype", "widget")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, err.Error(), "unknown scitype")
}

func TestRunCommandMatrixRequiresConfig(t *testing.T) {
	_, _, err := execute(t, "run", "--matrix")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, err.Error(), "matrix section")
}

func TestRunCommandBadConfigPath(t *testing.T) {
	_, _, err := execute(t, "run", "--config", "/nonexistent/estcheck.yaml")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestRunCommandWritesDatabase(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "results.db")

	_, _, err := execute(t, "run", "--db", dbPath, "--scitype", "transformer-pairwise")
	require.NoError(t, err)

	_, statErr := os.Stat(dbPath)
	require.NoError(t, statErr)

	st, err := store.Open(dbPath)
	require.NoError(t, err)
	defer st.Close()

	runs, err := st.ListRuns(context.Background())
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Positive(t, runs[0].Total)
	assert.Zero(t, runs[0].Failed)

	results, err := st.RunResults(context.Background(), runs[0].ID)
	require.NoError(t, err)
	assert.Len(t, results, runs[0].Total)
}

func TestRunCommandConfigExclusion(t *testing.T) {
	cfgPath := filepath.Join(t.TempDir(), "estcheck.yaml")
	cfg := "exclude_estimators:\n  - MeanRegressor\n"
	require.NoError(t, os.WriteFile(cfgPath, []byte(cfg), 0o644))

	out, _, err := execute(t, "run", "--config", cfgPath, "--scitype", "regressor", "--format", "json")
	require.NoError(t, err)

	var resp Envelope
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	payload := resp.Data.(map[string]interface{})
	results, ok := payload["results"].([]interface{})
	assert.True(t, !ok || len(results) == 0, "excluded class should generate no cases")
}
