package estimator

import (
	"fmt"
	"math/rand"
)

// ForecastNet is the internal network component of WindowNetForecaster:
// a single linear layer over a trailing window of observations.
// Constructor parameters shared with the wrapping estimator are
// mirrored here field for field; the parameter-propagation check
// relies on that.
type ForecastNet struct {
	WindowLength int     `json:"window_length"`
	LearningRate float64 `json:"learning_rate"`
	Epochs       int     `json:"epochs"`

	Weights []float64 `json:"weights,omitempty"`
	Bias    float64   `json:"bias"`
}

func (n *ForecastNet) init(rng *rand.Rand) {
	n.Weights = make([]float64, n.WindowLength)
	for i := range n.Weights {
		n.Weights[i] = rng.NormFloat64() * 0.01
	}
	n.Bias = 0
}

func (n *ForecastNet) forward(window []float64) float64 {
	out := n.Bias
	for i, w := range n.Weights {
		out += w * window[i]
	}
	return out
}

func (n *ForecastNet) step(window []float64, target float64) {
	pred := n.forward(window)
	grad := pred - target
	for i := range n.Weights {
		n.Weights[i] -= n.LearningRate * grad * window[i]
	}
	n.Bias -= n.LearningRate * grad
}

// WindowNetForecaster wraps a ForecastNet trained by stochastic
// gradient descent over sliding windows of the training series.
// Randomness is confined to the weight initialization and pinned by
// Seed, so repeated fits with the same seed are reproducible.
type WindowNetForecaster struct {
	Base

	// Hyperparameters, mirrored onto the network where it declares a
	// field of the same name.
	WindowLength int     `json:"window_length"`
	LearningRate float64 `json:"learning_rate"`
	Epochs       int     `json:"epochs"`
	Seed         int64   `json:"seed"`

	Net *ForecastNet `json:"net,omitempty"`

	// Fitted state.
	LastWindow []float64 `json:"last_window,omitempty"`
	FH         []int     `json:"fh,omitempty"`
}

// NewWindowNetForecaster builds a WindowNetForecaster from p and
// constructs its internal network.
func NewWindowNetForecaster(p Params) *WindowNetForecaster {
	f := &WindowNetForecaster{
		WindowLength: paramInt(p, "WindowLength", 3),
		LearningRate: paramFloat(p, "LearningRate", 0.01),
		Epochs:       paramInt(p, "Epochs", 10),
		Seed:         paramInt64(p, "Seed", 1),
	}
	f.Net = &ForecastNet{
		WindowLength: f.WindowLength,
		LearningRate: f.LearningRate,
		Epochs:       f.Epochs,
	}
	return f
}

// Params implements Object.
func (f *WindowNetForecaster) Params() Params {
	return Params{
		"WindowLength": f.WindowLength,
		"LearningRate": f.LearningRate,
		"Epochs":       f.Epochs,
		"Seed":         f.Seed,
	}
}

// Clone implements Object.
func (f *WindowNetForecaster) Clone() Object {
	return NewWindowNetForecaster(f.Params())
}

// Network implements NetworkWrapper.
func (f *WindowNetForecaster) Network() any { return f.Net }

// SetSeed implements Seeder.
func (f *WindowNetForecaster) SetSeed(seed int64) { f.Seed = seed }

// Fit trains the network over sliding windows of y.
func (f *WindowNetForecaster) Fit(y []float64, fh []int) error {
	if f.WindowLength < 1 {
		return fmt.Errorf("WindowNetForecaster.Fit: window length must be positive, got %d", f.WindowLength)
	}
	if len(y) <= f.WindowLength {
		return fmt.Errorf("WindowNetForecaster.Fit: series length %d too short for window %d", len(y), f.WindowLength)
	}

	rng := rand.New(rand.NewSource(f.Seed))
	f.Net.init(rng)

	for epoch := 0; epoch < f.Epochs; epoch++ {
		for i := f.WindowLength; i < len(y); i++ {
			f.Net.step(y[i-f.WindowLength:i], y[i])
		}
	}

	f.LastWindow = append([]float64(nil), y[len(y)-f.WindowLength:]...)
	if len(fh) > 0 {
		f.FH = append([]int(nil), fh...)
	}

	f.markFitted()
	return nil
}

// Predict rolls the network forward over the horizon, feeding each
// prediction back into the window. A non-nil fh is remembered for
// later predict calls.
func (f *WindowNetForecaster) Predict(fh []int) ([]float64, error) {
	if err := f.requireFitted("WindowNetForecaster.Predict"); err != nil {
		return nil, err
	}
	if len(fh) > 0 {
		f.FH = append([]int(nil), fh...)
	}
	if len(f.FH) == 0 {
		return nil, fmt.Errorf("WindowNetForecaster: no forecasting horizon given in Fit or Predict")
	}

	maxStep := 0
	for _, h := range f.FH {
		if h < 1 {
			return nil, fmt.Errorf("WindowNetForecaster.Predict: horizon step %d is not positive", h)
		}
		if h > maxStep {
			maxStep = h
		}
	}

	window := append([]float64(nil), f.LastWindow...)
	path := make([]float64, maxStep)
	for s := 0; s < maxStep; s++ {
		next := f.Net.forward(window)
		path[s] = next
		window = append(window[1:], next)
	}

	out := make([]float64, len(f.FH))
	for i, h := range f.FH {
		out[i] = path[h-1]
	}
	return out, nil
}

// FittedParams implements FittedParamsProvider.
func (f *WindowNetForecaster) FittedParams() (map[string]any, error) {
	if err := f.requireFitted("WindowNetForecaster.FittedParams"); err != nil {
		return nil, err
	}
	return map[string]any{
		"Weights": append([]float64(nil), f.Net.Weights...),
		"Bias":    f.Net.Bias,
	}, nil
}
