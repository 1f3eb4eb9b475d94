package estimator

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"
)

// Naive forecasting strategies.
const (
	StrategyLast = "last"
	StrategyMean = "mean"
)

// NaiveForecaster forecasts with a constant point value: the last
// observation (random-walk forecast) or the mean over a trailing
// window. Variance, interval, quantile and distributional forecasts
// derive from the training residuals under a normal assumption.
type NaiveForecaster struct {
	Base

	// Hyperparameters.
	Strategy     string `json:"strategy"`
	WindowLength int    `json:"window_length"` // 0 means the full series

	// Fitted state.
	LastValue float64 `json:"last_value"`
	MeanValue float64 `json:"mean_value"`
	ResidStd  float64 `json:"resid_std"`
	NObs      int     `json:"n_obs"`
	FH        []int   `json:"fh,omitempty"`
}

// NewNaiveForecaster builds a NaiveForecaster from p. A nil p yields
// the default configuration (strategy "last", full window).
func NewNaiveForecaster(p Params) *NaiveForecaster {
	return &NaiveForecaster{
		Strategy:     paramString(p, "Strategy", StrategyLast),
		WindowLength: paramInt(p, "WindowLength", 0),
	}
}

// Params implements Object.
func (f *NaiveForecaster) Params() Params {
	return Params{
		"Strategy":     f.Strategy,
		"WindowLength": f.WindowLength,
	}
}

// Clone implements Object.
func (f *NaiveForecaster) Clone() Object {
	return NewNaiveForecaster(f.Params())
}

// Fit computes the point forecast value and the residual spread from y.
// A horizon given here is stored and reused by the predict methods.
func (f *NaiveForecaster) Fit(y []float64, fh []int) error {
	if len(y) == 0 {
		return fmt.Errorf("NaiveForecaster.Fit: empty series")
	}
	if f.Strategy != StrategyLast && f.Strategy != StrategyMean {
		return fmt.Errorf("NaiveForecaster.Fit: unknown strategy %q", f.Strategy)
	}

	window := y
	if f.WindowLength > 0 && f.WindowLength < len(y) {
		window = y[len(y)-f.WindowLength:]
	}

	f.LastValue = y[len(y)-1]
	f.MeanValue = stat.Mean(window, nil)
	f.NObs = len(y)

	point := f.point()
	if len(y) > 1 {
		resid := make([]float64, len(y))
		for i, v := range y {
			resid[i] = v - point
		}
		f.ResidStd = stat.StdDev(resid, nil)
	} else {
		f.ResidStd = 0
	}

	if len(fh) > 0 {
		f.FH = append([]int(nil), fh...)
	}

	f.markFitted()
	return nil
}

// Predict returns the point forecast for each horizon step. A non-nil
// fh is remembered for later predict calls.
func (f *NaiveForecaster) Predict(fh []int) ([]float64, error) {
	if err := f.requireFitted("NaiveForecaster.Predict"); err != nil {
		return nil, err
	}
	steps, err := f.resolveFH(fh)
	if err != nil {
		return nil, err
	}
	out := make([]float64, len(steps))
	point := f.point()
	for i := range out {
		out[i] = point
	}
	return out, nil
}

// PredictVar returns the forecast variance per horizon step. Under the
// "last" strategy the variance grows linearly with the step, as for a
// random walk; under "mean" it is constant.
func (f *NaiveForecaster) PredictVar(fh []int) ([]float64, error) {
	if err := f.requireFitted("NaiveForecaster.PredictVar"); err != nil {
		return nil, err
	}
	steps, err := f.resolveFH(fh)
	if err != nil {
		return nil, err
	}
	out := make([]float64, len(steps))
	base := f.ResidStd * f.ResidStd
	for i, h := range steps {
		if f.Strategy == StrategyLast {
			out[i] = base * float64(h)
		} else {
			out[i] = base
		}
	}
	return out, nil
}

// PredictQuantiles returns normal forecast quantiles, one row per
// horizon step and one column per alpha level.
func (f *NaiveForecaster) PredictQuantiles(fh []int, alpha []float64) (*mat.Dense, error) {
	if err := f.requireFitted("NaiveForecaster.PredictQuantiles"); err != nil {
		return nil, err
	}
	steps, err := f.resolveFH(fh)
	if err != nil {
		return nil, err
	}
	if len(alpha) == 0 {
		return nil, fmt.Errorf("NaiveForecaster.PredictQuantiles: no alpha levels")
	}
	for _, a := range alpha {
		if a <= 0 || a >= 1 {
			return nil, fmt.Errorf("NaiveForecaster.PredictQuantiles: alpha %v outside (0, 1)", a)
		}
	}

	variance, err := f.PredictVar(nil)
	if err != nil {
		return nil, err
	}
	norm := distuv.Normal{Mu: 0, Sigma: 1}
	point := f.point()

	out := mat.NewDense(len(steps), len(alpha), nil)
	for i := range steps {
		sd := math.Sqrt(variance[i])
		for j, a := range alpha {
			out.Set(i, j, point+norm.Quantile(a)*sd)
		}
	}
	return out, nil
}

// PredictInterval returns symmetric prediction intervals: for each
// coverage level a (lower, upper) column pair per horizon step.
func (f *NaiveForecaster) PredictInterval(fh []int, coverage []float64) (*mat.Dense, error) {
	if err := f.requireFitted("NaiveForecaster.PredictInterval"); err != nil {
		return nil, err
	}
	steps, err := f.resolveFH(fh)
	if err != nil {
		return nil, err
	}
	if len(coverage) == 0 {
		return nil, fmt.Errorf("NaiveForecaster.PredictInterval: no coverage levels")
	}

	variance, err := f.PredictVar(nil)
	if err != nil {
		return nil, err
	}
	norm := distuv.Normal{Mu: 0, Sigma: 1}
	point := f.point()

	out := mat.NewDense(len(steps), 2*len(coverage), nil)
	for i := range steps {
		sd := math.Sqrt(variance[i])
		for j, c := range coverage {
			if c <= 0 || c >= 1 {
				return nil, fmt.Errorf("NaiveForecaster.PredictInterval: coverage %v outside (0, 1)", c)
			}
			z := norm.Quantile(0.5 + c/2)
			out.Set(i, 2*j, point-z*sd)
			out.Set(i, 2*j+1, point+z*sd)
		}
	}
	return out, nil
}

// PredictProba returns the forecast distribution as (mean, standard
// deviation) rows, one per horizon step.
func (f *NaiveForecaster) PredictProba(fh []int) (*mat.Dense, error) {
	if err := f.requireFitted("NaiveForecaster.PredictProba"); err != nil {
		return nil, err
	}
	steps, err := f.resolveFH(fh)
	if err != nil {
		return nil, err
	}
	variance, err := f.PredictVar(nil)
	if err != nil {
		return nil, err
	}
	point := f.point()
	out := mat.NewDense(len(steps), 2, nil)
	for i := range steps {
		out.Set(i, 0, point)
		out.Set(i, 1, math.Sqrt(variance[i]))
	}
	return out, nil
}

// FittedParams implements FittedParamsProvider.
func (f *NaiveForecaster) FittedParams() (map[string]any, error) {
	if err := f.requireFitted("NaiveForecaster.FittedParams"); err != nil {
		return nil, err
	}
	return map[string]any{
		"LastValue": f.LastValue,
		"MeanValue": f.MeanValue,
		"ResidStd":  f.ResidStd,
		"NObs":      f.NObs,
	}, nil
}

func (f *NaiveForecaster) point() float64 {
	if f.Strategy == StrategyMean {
		return f.MeanValue
	}
	return f.LastValue
}

// resolveFH returns the horizon to forecast. A non-empty fh is stored
// for later calls; otherwise the stored horizon is used.
func (f *NaiveForecaster) resolveFH(fh []int) ([]int, error) {
	if len(fh) > 0 {
		f.FH = append([]int(nil), fh...)
	}
	if len(f.FH) == 0 {
		return nil, fmt.Errorf("NaiveForecaster: no forecasting horizon given in Fit or Predict")
	}
	for _, h := range f.FH {
		if h < 1 {
			return nil, fmt.Errorf("NaiveForecaster: horizon step %d is not positive", h)
		}
	}
	return f.FH, nil
}
