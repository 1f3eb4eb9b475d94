package estimator

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// MeanRegressor predicts the training target mean for every sample,
// optionally shrunk toward zero.
type MeanRegressor struct {
	Base

	// Shrinkage in [0, 1) scales the fitted mean toward zero.
	Shrinkage float64 `json:"shrinkage"`

	// Fitted state.
	Mean float64 `json:"mean"`
	NObs int     `json:"n_obs"`
}

// NewMeanRegressor builds a MeanRegressor from p.
func NewMeanRegressor(p Params) *MeanRegressor {
	return &MeanRegressor{
		Shrinkage: paramFloat(p, "Shrinkage", 0),
	}
}

// Params implements Object.
func (m *MeanRegressor) Params() Params {
	return Params{"Shrinkage": m.Shrinkage}
}

// Clone implements Object.
func (m *MeanRegressor) Clone() Object {
	return NewMeanRegressor(m.Params())
}

// Fit stores the (shrunk) target mean.
func (m *MeanRegressor) Fit(X mat.Matrix, y []float64) error {
	r, _ := X.Dims()
	if len(y) == 0 {
		return fmt.Errorf("MeanRegressor.Fit: empty target vector")
	}
	if r != len(y) {
		return fmt.Errorf("MeanRegressor.Fit: %d rows but %d targets", r, len(y))
	}
	if m.Shrinkage < 0 || m.Shrinkage >= 1 {
		return fmt.Errorf("MeanRegressor.Fit: shrinkage %v outside [0, 1)", m.Shrinkage)
	}

	m.Mean = stat.Mean(y, nil) * (1 - m.Shrinkage)
	m.NObs = len(y)

	m.markFitted()
	return nil
}

// Predict returns the fitted mean for every row of X.
func (m *MeanRegressor) Predict(X mat.Matrix) ([]float64, error) {
	if err := m.requireFitted("MeanRegressor.Predict"); err != nil {
		return nil, err
	}
	r, _ := X.Dims()
	out := make([]float64, r)
	for i := range out {
		out[i] = m.Mean
	}
	return out, nil
}

// FittedParams implements FittedParamsProvider.
func (m *MeanRegressor) FittedParams() (map[string]any, error) {
	if err := m.requireFitted("MeanRegressor.FittedParams"); err != nil {
		return nil, err
	}
	return map[string]any{
		"Mean": m.Mean,
		"NObs": m.NObs,
	}, nil
}
