package estimator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNaiveForecaster_LastStrategy(t *testing.T) {
	f := NewNaiveForecaster(nil)
	require.NoError(t, f.Fit([]float64{1, 2, 3, 4, 5}, []int{1, 2, 3}))

	got, err := f.Predict(nil)
	require.NoError(t, err)
	assert.Equal(t, []float64{5, 5, 5}, got)
}

func TestNaiveForecaster_MeanStrategy(t *testing.T) {
	f := NewNaiveForecaster(Params{"Strategy": StrategyMean})
	require.NoError(t, f.Fit([]float64{2, 4, 6}, []int{1, 2}))

	got, err := f.Predict(nil)
	require.NoError(t, err)
	assert.Equal(t, []float64{4, 4}, got)
}

func TestNaiveForecaster_MeanWindow(t *testing.T) {
	f := NewNaiveForecaster(Params{"Strategy": StrategyMean, "WindowLength": 2})
	require.NoError(t, f.Fit([]float64{0, 0, 2, 4}, []int{1}))

	got, err := f.Predict(nil)
	require.NoError(t, err)
	assert.Equal(t, []float64{3}, got)
}

func TestNaiveForecaster_HorizonAtPredict(t *testing.T) {
	f := NewNaiveForecaster(nil)
	require.NoError(t, f.Fit([]float64{1, 2, 3}, nil))

	// no horizon stored yet
	_, err := f.Predict(nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no forecasting horizon")

	got, err := f.Predict([]int{1, 2})
	require.NoError(t, err)
	assert.Equal(t, []float64{3, 3}, got)

	// horizon is remembered for later calls
	got, err = f.Predict(nil)
	require.NoError(t, err)
	assert.Len(t, got, 2)
}

func TestNaiveForecaster_NotFittedError(t *testing.T) {
	f := NewNaiveForecaster(nil)

	_, err := f.Predict([]int{1})
	require.Error(t, err)
	assert.True(t, IsNotFitted(err))
	assert.Contains(t, err.Error(), "has not been fitted")

	_, err = f.FittedParams()
	assert.True(t, IsNotFitted(err))
}

func TestNaiveForecaster_EmptySeries(t *testing.T) {
	f := NewNaiveForecaster(nil)
	err := f.Fit(nil, []int{1})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "empty series")
	assert.False(t, f.IsFitted())
}

func TestNaiveForecaster_UnknownStrategy(t *testing.T) {
	f := NewNaiveForecaster(Params{"Strategy": "drift"})
	err := f.Fit([]float64{1, 2}, []int{1})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown strategy")
}

func TestNaiveForecaster_QuantilesBracketPoint(t *testing.T) {
	f := NewNaiveForecaster(nil)
	require.NoError(t, f.Fit([]float64{1, 3, 2, 5, 4}, []int{1, 2}))

	q, err := f.PredictQuantiles(nil, []float64{0.1, 0.5, 0.9})
	require.NoError(t, err)
	r, c := q.Dims()
	assert.Equal(t, 2, r)
	assert.Equal(t, 3, c)
	for i := 0; i < r; i++ {
		assert.LessOrEqual(t, q.At(i, 0), q.At(i, 1))
		assert.LessOrEqual(t, q.At(i, 1), q.At(i, 2))
		assert.InDelta(t, 4.0, q.At(i, 1), 1e-9) // median is the point forecast
	}
}

func TestNaiveForecaster_QuantilesRejectBadAlpha(t *testing.T) {
	f := NewNaiveForecaster(nil)
	require.NoError(t, f.Fit([]float64{1, 2, 3}, []int{1}))

	_, err := f.PredictQuantiles(nil, []float64{0, 0.5})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "outside (0, 1)")
}

func TestNaiveForecaster_IntervalShape(t *testing.T) {
	f := NewNaiveForecaster(nil)
	require.NoError(t, f.Fit([]float64{1, 2, 3, 4}, []int{1, 2, 3}))

	iv, err := f.PredictInterval(nil, []float64{0.8, 0.95})
	require.NoError(t, err)
	r, c := iv.Dims()
	assert.Equal(t, 3, r)
	assert.Equal(t, 4, c)
	for i := 0; i < r; i++ {
		assert.LessOrEqual(t, iv.At(i, 0), iv.At(i, 1))
		// wider coverage, wider interval
		assert.LessOrEqual(t, iv.At(i, 2), iv.At(i, 0))
		assert.GreaterOrEqual(t, iv.At(i, 3), iv.At(i, 1))
	}
}

func TestNaiveForecaster_VarGrowsForLastStrategy(t *testing.T) {
	f := NewNaiveForecaster(nil)
	require.NoError(t, f.Fit([]float64{1, 4, 2, 6, 3}, []int{1, 2, 3}))

	v, err := f.PredictVar(nil)
	require.NoError(t, err)
	require.Len(t, v, 3)
	assert.Less(t, v[0], v[1])
	assert.Less(t, v[1], v[2])
}

func TestNaiveForecaster_Clone(t *testing.T) {
	f := NewNaiveForecaster(Params{"Strategy": StrategyMean, "WindowLength": 3})
	require.NoError(t, f.Fit([]float64{1, 2, 3, 4}, []int{1}))

	c := f.Clone()
	clone, ok := c.(*NaiveForecaster)
	require.True(t, ok)
	assert.NotSame(t, f, clone)
	assert.False(t, clone.IsFitted())
	assert.Equal(t, f.Params(), clone.Params())
}
