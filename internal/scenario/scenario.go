// Package scenario provides the catalog of invocation scenarios the
// conformance suite runs estimators through. A scenario knows how to
// call a sequence of estimator methods with valid arguments for a
// given estimator shape; it is read-only from the harness side, and
// every invocation receives a fresh deep copy of the argument set so
// scenarios can be shared across parametrized cases.
package scenario

import (
	"fmt"
	"slices"

	"gonum.org/v1/gonum/mat"

	"github.com/seriate/estcheck/internal/estimator"
)

// Method names of the fixed non-state-changing vocabulary, plus "Fit"
// and "Pairwise" which scenarios may also invoke.
const (
	MethodFit              = "Fit"
	MethodPredict          = "Predict"
	MethodPredictVar       = "PredictVar"
	MethodPredictInterval  = "PredictInterval"
	MethodPredictQuantiles = "PredictQuantiles"
	MethodPredictProba     = "PredictProba"
	MethodTransform        = "Transform"
	MethodInverseTransform = "InverseTransform"
	MethodFittedParams     = "FittedParams"
	MethodPairwise         = "Pairwise"
)

// Tags carries the typed scenario flags the fixture engine filters on.
type Tags struct {
	// Enabled gates the scenario into fixture generation.
	Enabled bool

	// HorizonInFit reports whether the forecasting horizon is supplied
	// at fit time. Scenarios that pass it late are excluded from the
	// state-mutation check, since predict-time horizons are stored.
	HorizonInFit bool
}

// Args is one method's argument set.
type Args struct {
	Y        []float64
	Labels   []int
	X        *mat.Dense
	X2       *mat.Dense
	Horizon  []int
	Coverage []float64
	Alpha    []float64
}

// Clone returns a deep copy of a.
func (a Args) Clone() Args {
	out := Args{
		Y:        slices.Clone(a.Y),
		Labels:   slices.Clone(a.Labels),
		Horizon:  slices.Clone(a.Horizon),
		Coverage: slices.Clone(a.Coverage),
		Alpha:    slices.Clone(a.Alpha),
	}
	if a.X != nil {
		out.X = mat.DenseCopyOf(a.X)
	}
	if a.X2 != nil {
		out.X2 = mat.DenseCopyOf(a.X2)
	}
	return out
}

// ArgsEqual reports deep equality of two argument sets. The
// no-side-effects check compares pristine and post-call copies.
func ArgsEqual(a, b Args) bool {
	if !slices.Equal(a.Y, b.Y) || !slices.Equal(a.Labels, b.Labels) ||
		!slices.Equal(a.Horizon, b.Horizon) || !slices.Equal(a.Coverage, b.Coverage) ||
		!slices.Equal(a.Alpha, b.Alpha) {
		return false
	}
	if !matEqual(a.X, b.X) || !matEqual(a.X2, b.X2) {
		return false
	}
	return true
}

func matEqual(a, b *mat.Dense) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return mat.Equal(a, b)
}

// Scenario is a reusable recipe of method calls with valid arguments
// for one estimator shape.
type Scenario struct {
	Name       string
	Roles      []estimator.Scitype
	Tags       Tags
	MethodArgs map[string]Args
}

// ArgsFor returns a deep copy of the argument set for method. Methods
// without a declared entry get the zero argument set.
func (s *Scenario) ArgsFor(method string) Args {
	return s.MethodArgs[method].Clone()
}

// Applicable reports whether the scenario fits any of the given roles.
func (s *Scenario) Applicable(roles []estimator.Scitype) bool {
	for _, r := range roles {
		if slices.Contains(s.Roles, r) {
			return true
		}
	}
	return false
}

// Run invokes the named methods in order with fresh argument copies
// and returns one result per method. The result of "Fit" is the
// estimator itself, so callers can verify identity preservation.
func (s *Scenario) Run(obj estimator.Object, methods []string) ([]any, error) {
	results := make([]any, 0, len(methods))
	for _, m := range methods {
		res, err := Invoke(obj, m, s.ArgsFor(m))
		if err != nil {
			return nil, err
		}
		results = append(results, res)
	}
	return results, nil
}

// Invoke calls a single method on obj with the given arguments. The
// caller owns a: Invoke never copies it, so argument-mutation checks
// can compare it against a pristine clone afterwards.
func Invoke(obj estimator.Object, method string, a Args) (any, error) {
	switch method {
	case MethodFit:
		switch est := obj.(type) {
		case estimator.Forecaster:
			return obj, est.Fit(a.Y, a.Horizon)
		case estimator.Classifier:
			return obj, est.Fit(a.X, a.Labels)
		case estimator.Regressor:
			return obj, est.Fit(a.X, a.Y)
		case estimator.Transformer:
			return obj, est.Fit(a.X)
		}
		return nil, fmt.Errorf("scenario: %T has no fit phase", obj)

	case MethodPredict:
		switch est := obj.(type) {
		case estimator.Forecaster:
			return est.Predict(a.Horizon)
		case estimator.Classifier:
			return est.Predict(a.X)
		case estimator.Regressor:
			return est.Predict(a.X)
		}

	case MethodPredictVar:
		if est, ok := obj.(estimator.VarPredictor); ok {
			return est.PredictVar(a.Horizon)
		}

	case MethodPredictInterval:
		if est, ok := obj.(estimator.IntervalPredictor); ok {
			return est.PredictInterval(a.Horizon, a.Coverage)
		}

	case MethodPredictQuantiles:
		if est, ok := obj.(estimator.QuantilePredictor); ok {
			return est.PredictQuantiles(a.Horizon, a.Alpha)
		}

	case MethodPredictProba:
		switch est := obj.(type) {
		case estimator.ProbaForecaster:
			return est.PredictProba(a.Horizon)
		case estimator.ProbaClassifier:
			return est.PredictProba(a.X)
		}

	case MethodTransform:
		if est, ok := obj.(estimator.Transformer); ok {
			return est.Transform(a.X)
		}

	case MethodInverseTransform:
		if est, ok := obj.(estimator.InvertibleTransformer); ok {
			return est.InverseTransform(a.X)
		}

	case MethodFittedParams:
		if est, ok := obj.(estimator.FittedParamsProvider); ok {
			return est.FittedParams()
		}

	case MethodPairwise:
		if est, ok := obj.(estimator.PairwiseTransformer); ok {
			return est.Pairwise(a.X, a.X2)
		}

	default:
		return nil, fmt.Errorf("scenario: unknown method %q", method)
	}

	return nil, fmt.Errorf("scenario: %T does not implement %s", obj, method)
}
