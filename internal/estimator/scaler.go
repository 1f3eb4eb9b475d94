package estimator

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// StandardScaler centers columns to zero mean and scales them to unit
// variance. Constant columns are centered but left unscaled.
type StandardScaler struct {
	Base

	WithMean bool `json:"with_mean"`
	WithStd  bool `json:"with_std"`

	// Fitted state.
	Means []float64 `json:"means,omitempty"`
	Stds  []float64 `json:"stds,omitempty"`
}

// NewStandardScaler builds a StandardScaler from p. Defaults enable
// both centering and scaling.
func NewStandardScaler(p Params) *StandardScaler {
	return &StandardScaler{
		WithMean: paramBool(p, "WithMean", true),
		WithStd:  paramBool(p, "WithStd", true),
	}
}

// Params implements Object.
func (s *StandardScaler) Params() Params {
	return Params{
		"WithMean": s.WithMean,
		"WithStd":  s.WithStd,
	}
}

// Clone implements Object.
func (s *StandardScaler) Clone() Object {
	return NewStandardScaler(s.Params())
}

// Fit learns per-column means and standard deviations.
func (s *StandardScaler) Fit(X mat.Matrix) error {
	r, c := X.Dims()
	if r == 0 || c == 0 {
		return fmt.Errorf("StandardScaler.Fit: empty matrix %dx%d", r, c)
	}

	s.Means = make([]float64, c)
	s.Stds = make([]float64, c)
	col := make([]float64, r)
	for j := 0; j < c; j++ {
		mat.Col(col, j, X)
		s.Means[j] = stat.Mean(col, nil)
		sd := stat.StdDev(col, nil)
		if r < 2 || sd == 0 {
			sd = 1
		}
		s.Stds[j] = sd
	}

	s.markFitted()
	return nil
}

// Transform applies the learned centering and scaling.
func (s *StandardScaler) Transform(X mat.Matrix) (*mat.Dense, error) {
	if err := s.requireFitted("StandardScaler.Transform"); err != nil {
		return nil, err
	}
	r, c := X.Dims()
	if c != len(s.Means) {
		return nil, fmt.Errorf("StandardScaler.Transform: expected %d columns, got %d", len(s.Means), c)
	}

	out := mat.NewDense(r, c, nil)
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			v := X.At(i, j)
			if s.WithMean {
				v -= s.Means[j]
			}
			if s.WithStd {
				v /= s.Stds[j]
			}
			out.Set(i, j, v)
		}
	}
	return out, nil
}

// InverseTransform undoes Transform.
func (s *StandardScaler) InverseTransform(X mat.Matrix) (*mat.Dense, error) {
	if err := s.requireFitted("StandardScaler.InverseTransform"); err != nil {
		return nil, err
	}
	r, c := X.Dims()
	if c != len(s.Means) {
		return nil, fmt.Errorf("StandardScaler.InverseTransform: expected %d columns, got %d", len(s.Means), c)
	}

	out := mat.NewDense(r, c, nil)
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			v := X.At(i, j)
			if s.WithStd {
				v *= s.Stds[j]
			}
			if s.WithMean {
				v += s.Means[j]
			}
			out.Set(i, j, v)
		}
	}
	return out, nil
}

// FittedParams implements FittedParamsProvider.
func (s *StandardScaler) FittedParams() (map[string]any, error) {
	if err := s.requireFitted("StandardScaler.FittedParams"); err != nil {
		return nil, err
	}
	return map[string]any{
		"Means": append([]float64(nil), s.Means...),
		"Stds":  append([]float64(nil), s.Stds...),
	}, nil
}
