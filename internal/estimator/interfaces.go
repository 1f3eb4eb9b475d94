package estimator

import "gonum.org/v1/gonum/mat"

// Scitype classifies the role of an estimator.
type Scitype string

const (
	ScitypeForecaster  Scitype = "forecaster"
	ScitypeClassifier  Scitype = "classifier"
	ScitypeRegressor   Scitype = "regressor"
	ScitypeTransformer Scitype = "transformer"
	ScitypePairwise    Scitype = "transformer-pairwise"
)

// AllScitypes lists every valid role, in the order Roles reports them.
var AllScitypes = []Scitype{
	ScitypeForecaster,
	ScitypeClassifier,
	ScitypeRegressor,
	ScitypeTransformer,
	ScitypePairwise,
}

// Object is the common base of everything the harness tests.
//
// Params returns the constructor hyperparameters by exported field
// name. Clone returns a structurally equal, distinct, unfitted copy
// built from those parameters.
type Object interface {
	Params() Params
	Clone() Object
}

// Estimator is an Object with a fit lifecycle.
type Estimator interface {
	Object
	IsFitted() bool
}

// Forecaster predicts future values of a univariate series.
//
// The forecasting horizon may be supplied at fit time or at predict
// time. A horizon passed to Predict is remembered for later calls,
// mirroring the horizon handling of the estimator contract; scenarios
// that pass the horizon late are therefore excluded from the
// state-mutation check.
type Forecaster interface {
	Estimator
	Fit(y []float64, fh []int) error
	Predict(fh []int) ([]float64, error)
}

// Classifier predicts discrete class labels for feature matrices.
type Classifier interface {
	Estimator
	Fit(X mat.Matrix, y []int) error
	Predict(X mat.Matrix) ([]int, error)

	// Classes returns the sorted unique labels seen during fitting.
	Classes() ([]int, error)
}

// Regressor predicts continuous values for feature matrices.
type Regressor interface {
	Estimator
	Fit(X mat.Matrix, y []float64) error
	Predict(X mat.Matrix) ([]float64, error)
}

// Transformer maps feature matrices to feature matrices.
type Transformer interface {
	Estimator
	Fit(X mat.Matrix) error
	Transform(X mat.Matrix) (*mat.Dense, error)
}

// PairwiseTransformer computes a matrix of pairwise values between two
// sample sets. Pairwise transformers have no fit phase and are exempt
// from the not-fitted-error contract.
type PairwiseTransformer interface {
	Object
	Pairwise(X, X2 mat.Matrix) (*mat.Dense, error)
}

// Optional capability interfaces. The fixture engine probes these to
// compute the non-state-changing method set of an estimator.

// VarPredictor adds variance forecasts to a forecaster.
type VarPredictor interface {
	PredictVar(fh []int) ([]float64, error)
}

// IntervalPredictor adds prediction intervals to a forecaster.
// The returned matrix has one row per horizon step and two columns
// (lower, upper) per coverage level.
type IntervalPredictor interface {
	PredictInterval(fh []int, coverage []float64) (*mat.Dense, error)
}

// QuantilePredictor adds quantile forecasts to a forecaster.
// The returned matrix has one row per horizon step and one column per
// quantile level.
type QuantilePredictor interface {
	PredictQuantiles(fh []int, alpha []float64) (*mat.Dense, error)
}

// ProbaForecaster adds distributional forecasts to a forecaster.
// The returned matrix has one row per horizon step and two columns
// (mean, standard deviation).
type ProbaForecaster interface {
	PredictProba(fh []int) (*mat.Dense, error)
}

// ProbaClassifier adds class probability estimates to a classifier.
// The returned matrix has one row per sample and one column per class,
// in Classes order.
type ProbaClassifier interface {
	PredictProba(X mat.Matrix) (*mat.Dense, error)
}

// InvertibleTransformer adds the inverse mapping to a transformer.
type InvertibleTransformer interface {
	InverseTransform(X mat.Matrix) (*mat.Dense, error)
}

// FittedParamsProvider exposes the parameters learned during fit as a
// string-keyed map. Must fail with NotFittedError before fit.
type FittedParamsProvider interface {
	FittedParams() (map[string]any, error)
}

// Seeder is implemented by stochastic estimators so the harness can
// pin their randomness before comparing repeated runs.
type Seeder interface {
	SetSeed(seed int64)
}

// NetworkWrapper is implemented by estimators that delegate to an
// internal network component. The parameter-propagation check verifies
// that constructor parameters are mirrored on same-named fields of the
// returned network value.
type NetworkWrapper interface {
	Network() any
}

// Roles reports every role interface obj satisfies, in AllScitypes
// order.
func Roles(obj Object) []Scitype {
	var roles []Scitype
	if _, ok := obj.(Forecaster); ok {
		roles = append(roles, ScitypeForecaster)
	}
	if _, ok := obj.(Classifier); ok {
		roles = append(roles, ScitypeClassifier)
	}
	if _, ok := obj.(Regressor); ok {
		roles = append(roles, ScitypeRegressor)
	}
	if _, ok := obj.(Transformer); ok {
		roles = append(roles, ScitypeTransformer)
	}
	if _, ok := obj.(PairwiseTransformer); ok {
		roles = append(roles, ScitypePairwise)
	}
	return roles
}

// IsTransformerRole reports whether s is one of the transformer roles.
func IsTransformerRole(s Scitype) bool {
	return s == ScitypeTransformer || s == ScitypePairwise
}

// CanFit reports whether obj has a fit phase, i.e. implements a role
// with a Fit method. Pairwise transformers do not.
func CanFit(obj Object) bool {
	switch obj.(type) {
	case Forecaster, Classifier, Regressor, Transformer:
		return true
	}
	return false
}
