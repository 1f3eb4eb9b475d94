package registry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/seriate/estcheck/internal/estimator"
)

func TestDiscoverFiltersAndSorts(t *testing.T) {
	r := Builtin()

	all := r.Discover(nil, nil)
	require.Len(t, all, 8)
	for i := 1; i < len(all); i++ {
		assert.Less(t, all[i-1].Name, all[i].Name)
	}

	forecasters := r.Discover([]estimator.Scitype{estimator.ScitypeForecaster}, nil)
	require.Len(t, forecasters, 3)
	for _, e := range forecasters {
		assert.Equal(t, estimator.ScitypeForecaster, e.Scitype)
	}
}

func TestDiscoverExcludes(t *testing.T) {
	r := Builtin()

	got := r.Discover(nil, []string{"NaiveForecaster", "MeanRegressor"})
	for _, e := range got {
		assert.NotEqual(t, "NaiveForecaster", e.Name)
		assert.NotEqual(t, "MeanRegressor", e.Name)
	}
	assert.Len(t, got, 6)
}

func TestRegisterRejectsDuplicates(t *testing.T) {
	r := New()
	entry := &Entry{
		Name:    "Dup",
		Scitype: estimator.ScitypeForecaster,
		New:     func(p estimator.Params) estimator.Object { return estimator.NewNaiveForecaster(p) },
	}
	r.Register(entry)
	assert.Panics(t, func() { r.Register(entry) })
	assert.Panics(t, func() { r.Register(&Entry{Name: "NoFactory"}) })
}

func TestTestInstances(t *testing.T) {
	r := Builtin()

	e, ok := r.Lookup("NaiveForecaster")
	require.True(t, ok)
	instances, names := e.TestInstances()
	require.Len(t, instances, 2)
	assert.Equal(t, []string{"NaiveForecaster-0", "NaiveForecaster-1"}, names)

	first := instances[0].(*estimator.NaiveForecaster)
	second := instances[1].(*estimator.NaiveForecaster)
	assert.Equal(t, estimator.StrategyLast, first.Strategy)
	assert.Equal(t, estimator.StrategyMean, second.Strategy)

	single, ok := r.Lookup("MeanRegressor")
	require.True(t, ok)
	_, names = single.TestInstances()
	assert.Equal(t, []string{"MeanRegressor"}, names)
}

func TestCompatible(t *testing.T) {
	r := Builtin()
	deps := DepSet{"netlib": true}

	nf, _ := r.Lookup("NaiveForecaster")
	ok, err := deps.Compatible(nf, SeverityNone)
	require.NoError(t, err)
	assert.True(t, ok)

	wn, _ := r.Lookup("WindowNetForecaster")
	ok, err = deps.Compatible(wn, SeverityNone)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = DepSet{}.Compatible(wn, SeverityNone)
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = DepSet{}.Compatible(wn, SeverityError)
	assert.False(t, ok)
	var miss *MissingDepsError
	require.ErrorAs(t, err, &miss)
	assert.Equal(t, []string{"netlib"}, miss.Missing)
}

func TestSubsampleDisjointAndComplete(t *testing.T) {
	r := Builtin()
	entries := r.Discover(nil, nil)

	cfg := MatrixConfig{
		Partitions: 3,
		OSOffsets:  map[string]int{"linux": 0, "darwin": 1, "windows": 2},
	}

	seen := map[string]int{}
	for v := 0; v < cfg.Partitions; v++ {
		c := cfg
		c.VersionIndex = v
		part, err := c.Subsample(entries, "linux")
		require.NoError(t, err)
		for _, e := range part {
			seen[e.Name]++
		}
	}
	require.Len(t, seen, len(entries))
	for name, n := range seen {
		assert.Equal(t, 1, n, "entry %s", name)
	}
}

func TestSubsampleOSRotation(t *testing.T) {
	r := Builtin()
	entries := r.Discover(nil, nil)

	cfg := MatrixConfig{
		Partitions:   3,
		OSOffsets:    map[string]int{"linux": 0, "darwin": 1},
		VersionIndex: 0,
	}

	linux, err := cfg.Subsample(entries, "linux")
	require.NoError(t, err)

	darwin, err := cfg.Subsample(entries, "darwin")
	require.NoError(t, err)

	next := cfg
	next.VersionIndex = 1
	linuxNext, err := next.Subsample(entries, "linux")
	require.NoError(t, err)

	require.Equal(t, names(linuxNext), names(darwin))
	assert.NotEqual(t, names(linux), names(darwin))
}

func TestSubsampleUnknownOS(t *testing.T) {
	cfg := MatrixConfig{Partitions: 2, OSOffsets: map[string]int{"linux": 0}}
	_, err := cfg.Subsample(nil, "plan9")
	assert.ErrorContains(t, err, "no offset configured")
}

func TestMatrixConfigValidate(t *testing.T) {
	assert.Error(t, (&MatrixConfig{Partitions: 0}).Validate())
	assert.Error(t, (&MatrixConfig{Partitions: 2, VersionIndex: 2}).Validate())
	assert.Error(t, (&MatrixConfig{Partitions: 2, OSOffsets: map[string]int{"linux": 5}}).Validate())
	assert.NoError(t, (&MatrixConfig{Partitions: 2, OSOffsets: map[string]int{"linux": 1}}).Validate())
}

func TestRandomPartitionDeterministic(t *testing.T) {
	a := RandomPartition(10, 3)
	b := RandomPartition(10, 3)
	assert.Equal(t, a, b)

	counts := map[int]int{}
	for _, p := range a {
		require.GreaterOrEqual(t, p, 0)
		require.Less(t, p, 3)
		counts[p]++
	}
	for bucket := 0; bucket < 3; bucket++ {
		assert.InDelta(t, 10.0/3.0, float64(counts[bucket]), 1.0)
	}

	assert.Nil(t, RandomPartition(0, 3))
}

func names(entries []*Entry) []string {
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.Name
	}
	return out
}
