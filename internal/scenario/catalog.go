package scenario

import (
	"gonum.org/v1/gonum/mat"

	"github.com/seriate/estcheck/internal/estimator"
)

// series10 is the shared univariate fit series. Kept short so the
// full cross product of cases stays cheap.
func series10() []float64 {
	return []float64{1.0, 2.2, 3.1, 3.9, 5.2, 6.1, 6.8, 8.2, 9.1, 9.8}
}

func tabularX() *mat.Dense {
	return mat.NewDense(6, 2, []float64{
		1.0, 2.0,
		2.0, 1.5,
		3.0, 3.5,
		4.0, 2.5,
		5.0, 4.0,
		6.0, 3.0,
	})
}

func tabularX2() *mat.Dense {
	return mat.NewDense(3, 2, []float64{
		0.5, 1.0,
		2.5, 2.0,
		4.5, 3.5,
	})
}

// builtin holds the scenario catalog. Scenarios are shared read-only;
// argument copies are taken per invocation.
var builtin = []*Scenario{
	{
		Name:  "univariate-fh-in-fit",
		Roles: []estimator.Scitype{estimator.ScitypeForecaster},
		Tags:  Tags{Enabled: true, HorizonInFit: true},
		MethodArgs: map[string]Args{
			MethodFit:              {Y: series10(), Horizon: []int{1, 2, 3}},
			MethodPredictQuantiles: {Alpha: []float64{0.1, 0.5, 0.9}},
			MethodPredictInterval:  {Coverage: []float64{0.9}},
		},
	},
	{
		Name:  "univariate-fh-in-predict",
		Roles: []estimator.Scitype{estimator.ScitypeForecaster},
		Tags:  Tags{Enabled: true, HorizonInFit: false},
		MethodArgs: map[string]Args{
			MethodFit:              {Y: series10()},
			MethodPredict:          {Horizon: []int{1, 2, 3}},
			MethodPredictVar:       {Horizon: []int{1, 2, 3}},
			MethodPredictProba:     {Horizon: []int{1, 2, 3}},
			MethodPredictQuantiles: {Horizon: []int{1, 2, 3}, Alpha: []float64{0.1, 0.5, 0.9}},
			MethodPredictInterval:  {Horizon: []int{1, 2, 3}, Coverage: []float64{0.9}},
		},
	},
	{
		// Placeholder for hierarchical series support; stays out of
		// fixture generation until panel data lands.
		Name:  "panel-global",
		Roles: []estimator.Scitype{estimator.ScitypeForecaster},
		Tags:  Tags{Enabled: false, HorizonInFit: true},
		MethodArgs: map[string]Args{
			MethodFit: {Y: series10(), Horizon: []int{1, 2}},
		},
	},
	{
		Name:  "tabular-multiclass",
		Roles: []estimator.Scitype{estimator.ScitypeClassifier},
		Tags:  Tags{Enabled: true, HorizonInFit: true},
		MethodArgs: map[string]Args{
			MethodFit:          {X: tabularX(), Labels: []int{0, 1, 1, 2, 1, 0}},
			MethodPredict:      {X: tabularX2()},
			MethodPredictProba: {X: tabularX2()},
		},
	},
	{
		Name:  "tabular-regression",
		Roles: []estimator.Scitype{estimator.ScitypeRegressor},
		Tags:  Tags{Enabled: true, HorizonInFit: true},
		MethodArgs: map[string]Args{
			MethodFit:     {X: tabularX(), Y: []float64{1.5, 2.0, 3.5, 3.0, 4.5, 4.0}},
			MethodPredict: {X: tabularX2()},
		},
	},
	{
		Name:  "tabular-transform",
		Roles: []estimator.Scitype{estimator.ScitypeTransformer},
		Tags:  Tags{Enabled: true, HorizonInFit: true},
		MethodArgs: map[string]Args{
			MethodFit:              {X: tabularX()},
			MethodTransform:        {X: tabularX2()},
			MethodInverseTransform: {X: tabularX2()},
		},
	},
	{
		Name:  "tabular-pairwise",
		Roles: []estimator.Scitype{estimator.ScitypePairwise},
		Tags:  Tags{Enabled: true, HorizonInFit: true},
		MethodArgs: map[string]Args{
			MethodPairwise: {X: tabularX(), X2: tabularX2()},
		},
	},
}

// Retrieve returns the enabled scenarios applicable to obj, in catalog
// order. Objects whose roles match no scenario get an empty slice.
func Retrieve(obj estimator.Object) []*Scenario {
	roles := estimator.Roles(obj)
	var out []*Scenario
	for _, s := range builtin {
		if s.Tags.Enabled && s.Applicable(roles) {
			out = append(out, s)
		}
	}
	return out
}

// All returns the full catalog including disabled scenarios.
func All() []*Scenario {
	return slicesCloneScenarios(builtin)
}

func slicesCloneScenarios(in []*Scenario) []*Scenario {
	out := make([]*Scenario, len(in))
	copy(out, in)
	return out
}
