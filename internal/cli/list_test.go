package cli

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListCommandText(t *testing.T) {
	out, _, err := execute(t, "list")
	require.NoError(t, err)
	assert.Contains(t, out, "NaiveForecaster")
	assert.Contains(t, out, "StandardScaler")
	assert.Contains(t, out, "class(es)")
}

func TestListCommandScitypeFilter(t *testing.T) {
	out, _, err := execute(t, "list", "--scitype", "forecaster")
	require.NoError(t, err)
	assert.Contains(t, out, "NaiveForecaster")
	assert.Contains(t, out, "TrendForecaster")
	assert.NotContains(t, out, "StandardScaler")
}

func TestListCommandJSON(t *testing.T) {
	out, _, err := execute(t, "list", "--format", "json", "--scitype", "forecaster")
	require.NoError(t, err)

	var resp Envelope
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "ok", resp.Status)

	raw, err := json.Marshal(resp.Data)
	require.NoError(t, err)
	var entries []ListEntry
	require.NoError(t, json.Unmarshal(raw, &entries))
	require.NotEmpty(t, entries)

	byName := map[string]ListEntry{}
	for _, e := range entries {
		assert.Equal(t, "forecaster", e.Scitype)
		byName[e.Name] = e
	}
	naive, ok := byName["NaiveForecaster"]
	require.True(t, ok)
	assert.Equal(t, 2, naive.ParamSets)

	windowed, ok := byName["WindowNetForecaster"]
	require.True(t, ok)
	assert.Contains(t, windowed.Deps, "netlib")
}

func TestListCommandCases(t *testing.T) {
	out, _, err := execute(t, "list", "--cases", "--scitype", "forecaster")
	require.NoError(t, err)
	assert.Contains(t, out, "inheritance (")
	assert.Contains(t, out, "NaiveForecaster")
	assert.Contains(t, out, "fit_idempotent")
	assert.NotContains(t, out, "StandardScaler")
}

func TestListCommandBadScitype(t *testing.T) {
	_, _, err := execute(t, "list", "--scitype", "widget")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}
