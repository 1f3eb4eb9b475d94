package estimator

import (
	"fmt"

	"github.com/mitchellh/hashstructure/v2"
)

// Params holds constructor hyperparameters by exported field name,
// e.g. {"Strategy": "last", "WindowLength": 0}. Values are plain Go
// values (bools, numbers, strings, slices, maps of the same).
type Params map[string]any

// Clone returns a deep copy of p. Slices and nested maps are copied;
// scalar values are shared (they are immutable).
func (p Params) Clone() Params {
	if p == nil {
		return nil
	}
	out := make(Params, len(p))
	for k, v := range p {
		out[k] = cloneValue(v)
	}
	return out
}

func cloneValue(v any) any {
	switch val := v.(type) {
	case []float64:
		out := make([]float64, len(val))
		copy(out, val)
		return out
	case []int:
		out := make([]int, len(val))
		copy(out, val)
		return out
	case []string:
		out := make([]string, len(val))
		copy(out, val)
		return out
	case []any:
		out := make([]any, len(val))
		for i, elem := range val {
			out[i] = cloneValue(elem)
		}
		return out
	case map[string]any:
		out := make(map[string]any, len(val))
		for k, elem := range val {
			out[k] = cloneValue(elem)
		}
		return out
	case Params:
		return Params(cloneValue(map[string]any(val)).(map[string]any))
	default:
		return val
	}
}

// HashValue computes a deep structural hash of a single parameter
// value. The hyperparameter-immutability check compares these hashes
// before and after Fit; any mutation of a nested value changes the
// hash.
func HashValue(v any) (uint64, error) {
	h, err := hashstructure.Hash(v, hashstructure.FormatV2, nil)
	if err != nil {
		return 0, fmt.Errorf("hash parameter value: %w", err)
	}
	return h, nil
}

// HashParams hashes every entry of p individually.
func HashParams(p Params) (map[string]uint64, error) {
	out := make(map[string]uint64, len(p))
	for k, v := range p {
		h, err := HashValue(v)
		if err != nil {
			return nil, fmt.Errorf("parameter %q: %w", k, err)
		}
		out[k] = h
	}
	return out, nil
}
