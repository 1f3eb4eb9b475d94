package estimator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTrendForecaster_ExactLine(t *testing.T) {
	// y = 2t + 1
	f := NewTrendForecaster(nil)
	require.NoError(t, f.Fit([]float64{1, 3, 5, 7, 9}, []int{1, 2, 3}))

	got, err := f.Predict(nil)
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.InDelta(t, 11, got[0], 1e-9)
	assert.InDelta(t, 13, got[1], 1e-9)
	assert.InDelta(t, 15, got[2], 1e-9)

	fp, err := f.FittedParams()
	require.NoError(t, err)
	assert.InDelta(t, 1.0, fp["Alpha"].(float64), 1e-9)
	assert.InDelta(t, 2.0, fp["Beta"].(float64), 1e-9)
	assert.InDelta(t, 0.0, fp["ResidStd"].(float64), 1e-9)
}

func TestTrendForecaster_ThroughOrigin(t *testing.T) {
	f := NewTrendForecaster(Params{"Origin": true})
	require.NoError(t, f.Fit([]float64{0, 2, 4, 6}, []int{1}))

	got, err := f.Predict(nil)
	require.NoError(t, err)
	assert.InDelta(t, 8, got[0], 1e-9)
}

func TestTrendForecaster_TooShort(t *testing.T) {
	f := NewTrendForecaster(nil)
	err := f.Fit([]float64{1}, []int{1})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "at least 2 observations")
}

func TestTrendForecaster_NotFitted(t *testing.T) {
	f := NewTrendForecaster(nil)
	_, err := f.Predict([]int{1})
	assert.True(t, IsNotFitted(err))
	_, err = f.PredictVar([]int{1})
	assert.True(t, IsNotFitted(err))
}

func TestWindowNetForecaster_DeterministicPerSeed(t *testing.T) {
	y := []float64{1, 2, 3, 4, 5, 6, 7, 8}

	a := NewWindowNetForecaster(Params{"Seed": int64(7)})
	require.NoError(t, a.Fit(y, []int{1, 2}))
	ra, err := a.Predict(nil)
	require.NoError(t, err)

	b := NewWindowNetForecaster(Params{"Seed": int64(7)})
	require.NoError(t, b.Fit(y, []int{1, 2}))
	rb, err := b.Predict(nil)
	require.NoError(t, err)

	assert.Equal(t, ra, rb)
}

func TestWindowNetForecaster_NetworkMirrorsParams(t *testing.T) {
	f := NewWindowNetForecaster(Params{"WindowLength": 4, "LearningRate": 0.05, "Epochs": 3})

	net, ok := f.Network().(*ForecastNet)
	require.True(t, ok)
	assert.Equal(t, 4, net.WindowLength)
	assert.Equal(t, 0.05, net.LearningRate)
	assert.Equal(t, 3, net.Epochs)
}

func TestWindowNetForecaster_SeriesTooShort(t *testing.T) {
	f := NewWindowNetForecaster(Params{"WindowLength": 5})
	err := f.Fit([]float64{1, 2, 3}, []int{1})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "too short")
}

func TestWindowNetForecaster_RejectsNonPositiveStep(t *testing.T) {
	f := NewWindowNetForecaster(nil)
	require.NoError(t, f.Fit([]float64{1, 2, 3, 4, 5}, nil))

	_, err := f.Predict([]int{0})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not positive")
}
