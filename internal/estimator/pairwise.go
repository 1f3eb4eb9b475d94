package estimator

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// EuclideanPairwise computes the Euclidean distance matrix between two
// sample sets. It has no fit phase and is exempt from the not-fitted
// contract.
type EuclideanPairwise struct {
	// Squared skips the final square root.
	Squared bool `json:"squared"`
}

// NewEuclideanPairwise builds a EuclideanPairwise from p.
func NewEuclideanPairwise(p Params) *EuclideanPairwise {
	return &EuclideanPairwise{
		Squared: paramBool(p, "Squared", false),
	}
}

// Params implements Object.
func (e *EuclideanPairwise) Params() Params {
	return Params{"Squared": e.Squared}
}

// Clone implements Object.
func (e *EuclideanPairwise) Clone() Object {
	return NewEuclideanPairwise(e.Params())
}

// Pairwise returns the distance matrix between the rows of X and X2.
// A nil X2 means X against itself.
func (e *EuclideanPairwise) Pairwise(X, X2 mat.Matrix) (*mat.Dense, error) {
	if X2 == nil {
		X2 = X
	}
	r1, c1 := X.Dims()
	r2, c2 := X2.Dims()
	if c1 != c2 {
		return nil, fmt.Errorf("EuclideanPairwise.Pairwise: column mismatch %d vs %d", c1, c2)
	}

	out := mat.NewDense(r1, r2, nil)
	for i := 0; i < r1; i++ {
		for j := 0; j < r2; j++ {
			var ss float64
			for k := 0; k < c1; k++ {
				d := X.At(i, k) - X2.At(j, k)
				ss += d * d
			}
			if e.Squared {
				out.Set(i, j, ss)
			} else {
				out.Set(i, j, math.Sqrt(ss))
			}
		}
	}
	return out, nil
}
