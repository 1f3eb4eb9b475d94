package estimator

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// ExponentTransformer raises every entry to a fixed power. Fitting
// learns nothing but still gates the transform methods behind the
// fitted flag, exercising the fit contract for stateless transformers.
type ExponentTransformer struct {
	Base

	Power float64 `json:"power"`
}

// NewExponentTransformer builds an ExponentTransformer from p.
// The default power is 2.
func NewExponentTransformer(p Params) *ExponentTransformer {
	return &ExponentTransformer{
		Power: paramFloat(p, "Power", 2),
	}
}

// Params implements Object.
func (t *ExponentTransformer) Params() Params {
	return Params{"Power": t.Power}
}

// Clone implements Object.
func (t *ExponentTransformer) Clone() Object {
	return NewExponentTransformer(t.Params())
}

// Fit validates the power and marks the transformer fitted.
func (t *ExponentTransformer) Fit(X mat.Matrix) error {
	if t.Power == 0 {
		return fmt.Errorf("ExponentTransformer.Fit: power must be non-zero")
	}
	t.markFitted()
	return nil
}

// Transform raises entries to Power.
func (t *ExponentTransformer) Transform(X mat.Matrix) (*mat.Dense, error) {
	if err := t.requireFitted("ExponentTransformer.Transform"); err != nil {
		return nil, err
	}
	return t.apply(X, t.Power), nil
}

// InverseTransform raises entries to 1/Power.
func (t *ExponentTransformer) InverseTransform(X mat.Matrix) (*mat.Dense, error) {
	if err := t.requireFitted("ExponentTransformer.InverseTransform"); err != nil {
		return nil, err
	}
	return t.apply(X, 1/t.Power), nil
}

func (t *ExponentTransformer) apply(X mat.Matrix, power float64) *mat.Dense {
	r, c := X.Dims()
	out := mat.NewDense(r, c, nil)
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			out.Set(i, j, math.Pow(X.At(i, j), power))
		}
	}
	return out
}
