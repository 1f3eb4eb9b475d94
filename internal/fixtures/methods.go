package fixtures

import (
	"github.com/seriate/estcheck/internal/estimator"
	"github.com/seriate/estcheck/internal/scenario"
)

// NonStateChangingMethods is the fixed vocabulary of methods that
// must not alter fitted state when called after fit.
var NonStateChangingMethods = []string{
	scenario.MethodPredict,
	scenario.MethodPredictVar,
	scenario.MethodPredictInterval,
	scenario.MethodPredictQuantiles,
	scenario.MethodPredictProba,
	scenario.MethodTransform,
	scenario.MethodInverseTransform,
	scenario.MethodFittedParams,
}

// ArraylikeMethods is the subset returning numeric array output,
// used by the checks that compare results numerically.
var ArraylikeMethods = []string{
	scenario.MethodPredict,
	scenario.MethodPredictVar,
	scenario.MethodPredictInterval,
	scenario.MethodPredictQuantiles,
	scenario.MethodPredictProba,
	scenario.MethodTransform,
	scenario.MethodInverseTransform,
}

// HasCapability reports whether obj can answer the named method at
// all, by interface satisfaction.
func HasCapability(obj estimator.Object, method string) bool {
	switch method {
	case scenario.MethodPredict:
		switch obj.(type) {
		case estimator.Forecaster, estimator.Classifier, estimator.Regressor:
			return true
		}
		return false
	case scenario.MethodPredictVar:
		_, ok := obj.(estimator.VarPredictor)
		return ok
	case scenario.MethodPredictInterval:
		_, ok := obj.(estimator.IntervalPredictor)
		return ok
	case scenario.MethodPredictQuantiles:
		_, ok := obj.(estimator.QuantilePredictor)
		return ok
	case scenario.MethodPredictProba:
		if _, ok := obj.(estimator.ProbaForecaster); ok {
			return true
		}
		_, ok := obj.(estimator.ProbaClassifier)
		return ok
	case scenario.MethodTransform:
		_, ok := obj.(estimator.Transformer)
		return ok
	case scenario.MethodInverseTransform:
		_, ok := obj.(estimator.InvertibleTransformer)
		return ok
	case scenario.MethodFittedParams:
		_, ok := obj.(estimator.FittedParamsProvider)
		return ok
	case scenario.MethodPairwise:
		_, ok := obj.(estimator.PairwiseTransformer)
		return ok
	}
	return false
}
