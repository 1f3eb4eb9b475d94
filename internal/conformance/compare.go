package conformance

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// tolerance for numeric result comparison: equal to six decimal
// places.
const tolerance = 1e-6

// resultsAlmostEqual compares two method results numerically. Exact
// types must match; numeric content may differ by at most tolerance
// per element.
func resultsAlmostEqual(a, b any) error {
	switch av := a.(type) {
	case []float64:
		bv, ok := b.([]float64)
		if !ok {
			return fmt.Errorf("result types differ: %T vs %T", a, b)
		}
		return floatsAlmostEqual(av, bv)
	case []int:
		bv, ok := b.([]int)
		if !ok {
			return fmt.Errorf("result types differ: %T vs %T", a, b)
		}
		if len(av) != len(bv) {
			return fmt.Errorf("result lengths differ: %d vs %d", len(av), len(bv))
		}
		for i := range av {
			if av[i] != bv[i] {
				return fmt.Errorf("results differ at [%d]: %d vs %d", i, av[i], bv[i])
			}
		}
		return nil
	case *mat.Dense:
		bv, ok := b.(*mat.Dense)
		if !ok {
			return fmt.Errorf("result types differ: %T vs %T", a, b)
		}
		ar, ac := av.Dims()
		br, bc := bv.Dims()
		if ar != br || ac != bc {
			return fmt.Errorf("result shapes differ: %dx%d vs %dx%d", ar, ac, br, bc)
		}
		if !mat.EqualApprox(av, bv, tolerance) {
			return fmt.Errorf("matrix results differ beyond tolerance")
		}
		return nil
	case map[string]any:
		bv, ok := b.(map[string]any)
		if !ok {
			return fmt.Errorf("result types differ: %T vs %T", a, b)
		}
		if len(av) != len(bv) {
			return fmt.Errorf("result key counts differ: %d vs %d", len(av), len(bv))
		}
		for k, v := range av {
			w, ok := bv[k]
			if !ok {
				return fmt.Errorf("result key %q missing", k)
			}
			if err := resultsAlmostEqual(v, w); err != nil {
				return fmt.Errorf("key %q: %w", k, err)
			}
		}
		return nil
	case float64:
		bv, ok := b.(float64)
		if !ok {
			return fmt.Errorf("result types differ: %T vs %T", a, b)
		}
		if math.Abs(av-bv) > tolerance {
			return fmt.Errorf("results differ: %v vs %v", av, bv)
		}
		return nil
	case int:
		if a != b {
			return fmt.Errorf("results differ: %v vs %v", a, b)
		}
		return nil
	case nil:
		if b != nil {
			return fmt.Errorf("result types differ: nil vs %T", b)
		}
		return nil
	default:
		return fmt.Errorf("uncomparable result type %T", a)
	}
}

func floatsAlmostEqual(a, b []float64) error {
	if len(a) != len(b) {
		return fmt.Errorf("result lengths differ: %d vs %d", len(a), len(b))
	}
	if floats.EqualApprox(a, b, tolerance) {
		return nil
	}
	for i := range a {
		if math.Abs(a[i]-b[i]) > tolerance {
			return fmt.Errorf("results differ at [%d]: %v vs %v", i, a[i], b[i])
		}
	}
	return fmt.Errorf("float results differ beyond tolerance")
}
