// Package estimator defines the estimator taxonomy the conformance
// harness checks against: role interfaces (forecaster, classifier,
// regressor, transformer, pairwise transformer), optional capability
// interfaces for "predict"-like methods, the shared fitted-state base,
// and the error kinds the harness recognizes.
//
// # Roles
//
// An estimator implements exactly one or two of the role interfaces.
// Roles are detected by interface satisfaction, not by declared
// metadata, so a type cannot accidentally claim a role it does not
// implement:
//
//   - Forecaster: Fit(series, horizon), Predict(horizon)
//   - Classifier: Fit(X, labels), Predict(X) -> labels, Classes()
//   - Regressor:  Fit(X, y), Predict(X) -> values
//   - Transformer: Fit(X), Transform(X)
//   - PairwiseTransformer: Pairwise(X, X2), no fit phase
//
// When a type implements two roles, one of them must be a transformer
// role. The conformance suite enforces this shape.
//
// # Capabilities
//
// Optional methods (PredictVar, PredictQuantiles, PredictProba,
// InverseTransform, FittedParams, ...) are separate single-method
// interfaces. The fixture engine probes them with type assertions to
// build the per-estimator method candidate set.
//
// # Fitted state
//
// Embedding Base gives an estimator the internal fitted flag, the
// public IsFitted accessor and the NotFittedError boilerplate:
//
//	func (f *NaiveForecaster) Predict(fh []int) ([]float64, error) {
//	    if err := f.requireFitted("NaiveForecaster.Predict"); err != nil {
//	        return nil, err
//	    }
//	    ...
//	}
//
// The package also ships the concrete estimators the harness is
// exercised against in this repository's own tests.
package estimator
