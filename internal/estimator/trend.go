package estimator

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat"
)

// TrendForecaster fits a straight line through the training series by
// ordinary least squares and extrapolates it over the horizon.
type TrendForecaster struct {
	Base

	// Origin forces the regression line through zero.
	Origin bool `json:"origin"`

	// Fitted state.
	Alpha    float64 `json:"alpha"` // intercept
	Beta     float64 `json:"beta"`  // slope
	ResidStd float64 `json:"resid_std"`
	NObs     int     `json:"n_obs"`
	FH       []int   `json:"fh,omitempty"`
}

// NewTrendForecaster builds a TrendForecaster from p.
func NewTrendForecaster(p Params) *TrendForecaster {
	return &TrendForecaster{
		Origin: paramBool(p, "Origin", false),
	}
}

// Params implements Object.
func (f *TrendForecaster) Params() Params {
	return Params{"Origin": f.Origin}
}

// Clone implements Object.
func (f *TrendForecaster) Clone() Object {
	return NewTrendForecaster(f.Params())
}

// Fit regresses y on the time index 0..n-1.
func (f *TrendForecaster) Fit(y []float64, fh []int) error {
	if len(y) < 2 {
		return fmt.Errorf("TrendForecaster.Fit: need at least 2 observations, got %d", len(y))
	}

	xs := make([]float64, len(y))
	for i := range xs {
		xs[i] = float64(i)
	}
	f.Alpha, f.Beta = stat.LinearRegression(xs, y, nil, f.Origin)
	f.NObs = len(y)

	var ss float64
	for i, v := range y {
		r := v - (f.Alpha + f.Beta*xs[i])
		ss += r * r
	}
	dof := float64(len(y) - 2)
	if f.Origin {
		dof = float64(len(y) - 1)
	}
	if dof > 0 {
		f.ResidStd = math.Sqrt(ss / dof)
	} else {
		f.ResidStd = 0
	}

	if len(fh) > 0 {
		f.FH = append([]int(nil), fh...)
	}

	f.markFitted()
	return nil
}

// Predict extrapolates the fitted line. A non-nil fh is remembered for
// later predict calls.
func (f *TrendForecaster) Predict(fh []int) ([]float64, error) {
	if err := f.requireFitted("TrendForecaster.Predict"); err != nil {
		return nil, err
	}
	steps, err := f.resolveFH(fh)
	if err != nil {
		return nil, err
	}
	out := make([]float64, len(steps))
	for i, h := range steps {
		t := float64(f.NObs - 1 + h)
		out[i] = f.Alpha + f.Beta*t
	}
	return out, nil
}

// PredictVar returns the constant residual variance per horizon step.
func (f *TrendForecaster) PredictVar(fh []int) ([]float64, error) {
	if err := f.requireFitted("TrendForecaster.PredictVar"); err != nil {
		return nil, err
	}
	steps, err := f.resolveFH(fh)
	if err != nil {
		return nil, err
	}
	out := make([]float64, len(steps))
	base := f.ResidStd * f.ResidStd
	for i := range out {
		out[i] = base
	}
	return out, nil
}

// FittedParams implements FittedParamsProvider.
func (f *TrendForecaster) FittedParams() (map[string]any, error) {
	if err := f.requireFitted("TrendForecaster.FittedParams"); err != nil {
		return nil, err
	}
	return map[string]any{
		"Alpha":    f.Alpha,
		"Beta":     f.Beta,
		"ResidStd": f.ResidStd,
		"NObs":     f.NObs,
	}, nil
}

func (f *TrendForecaster) resolveFH(fh []int) ([]int, error) {
	if len(fh) > 0 {
		f.FH = append([]int(nil), fh...)
	}
	if len(f.FH) == 0 {
		return nil, fmt.Errorf("TrendForecaster: no forecasting horizon given in Fit or Predict")
	}
	for _, h := range f.FH {
		if h < 1 {
			return nil, fmt.Errorf("TrendForecaster: horizon step %d is not positive", h)
		}
	}
	return f.FH, nil
}
