package registry

import (
	"sync"

	"github.com/seriate/estcheck/internal/estimator"
	"github.com/seriate/estcheck/internal/persist"
)

var builtinOnce sync.Once

// Builtin returns the registry of shipped estimator classes. The
// first call also registers every class with the persistence layer.
func Builtin() *Registry {
	r := New()

	r.Register(&Entry{
		Name:    "NaiveForecaster",
		Scitype: estimator.ScitypeForecaster,
		New:     func(p estimator.Params) estimator.Object { return estimator.NewNaiveForecaster(p) },
		TestParams: []estimator.Params{
			nil,
			{"Strategy": estimator.StrategyMean, "WindowLength": 4},
		},
	})
	r.Register(&Entry{
		Name:    "TrendForecaster",
		Scitype: estimator.ScitypeForecaster,
		New:     func(p estimator.Params) estimator.Object { return estimator.NewTrendForecaster(p) },
	})
	r.Register(&Entry{
		Name:    "WindowNetForecaster",
		Scitype: estimator.ScitypeForecaster,
		New:     func(p estimator.Params) estimator.Object { return estimator.NewWindowNetForecaster(p) },
		TestParams: []estimator.Params{
			nil,
			{"WindowLength": 2, "Epochs": 5},
		},
		Deps: []string{"netlib"},
	})
	r.Register(&Entry{
		Name:    "MajorityClassifier",
		Scitype: estimator.ScitypeClassifier,
		New:     func(p estimator.Params) estimator.Object { return estimator.NewMajorityClassifier(p) },
		TestParams: []estimator.Params{
			nil,
			{"Smoothing": 0.5},
		},
	})
	r.Register(&Entry{
		Name:    "MeanRegressor",
		Scitype: estimator.ScitypeRegressor,
		New:     func(p estimator.Params) estimator.Object { return estimator.NewMeanRegressor(p) },
	})
	r.Register(&Entry{
		Name:    "StandardScaler",
		Scitype: estimator.ScitypeTransformer,
		New:     func(p estimator.Params) estimator.Object { return estimator.NewStandardScaler(p) },
		TestParams: []estimator.Params{
			nil,
			{"WithMean": false},
		},
	})
	r.Register(&Entry{
		Name:    "ExponentTransformer",
		Scitype: estimator.ScitypeTransformer,
		New:     func(p estimator.Params) estimator.Object { return estimator.NewExponentTransformer(p) },
		TestParams: []estimator.Params{
			{"Power": 2.0},
			{"Power": 0.5},
		},
	})
	r.Register(&Entry{
		Name:    "EuclideanPairwise",
		Scitype: estimator.ScitypePairwise,
		New:     func(p estimator.Params) estimator.Object { return estimator.NewEuclideanPairwise(p) },
	})

	builtinOnce.Do(func() {
		for _, name := range r.Names() {
			e, _ := r.Lookup(name)
			entry := e
			persist.Register(entry.Name, func() estimator.Object { return entry.New(nil) })
		}
	})
	return r
}
