package fixtures

import (
	"runtime"
	"slices"

	"github.com/seriate/estcheck/internal/config"
	"github.com/seriate/estcheck/internal/estimator"
	"github.com/seriate/estcheck/internal/registry"
	"github.com/seriate/estcheck/internal/scenario"
)

// Fixture variable names, in generation order.
const (
	VarClass           = "estimator_class"
	VarInstance        = "estimator_instance"
	VarScenario        = "scenario"
	VarMethod          = "method_nsc"
	VarMethodArraylike = "method_nsc_arraylike"
)

// Check names, as used in exclusion tables and reports.
const (
	CheckInheritance        = "inheritance"
	CheckInterface          = "interface_completeness"
	CheckValidParams        = "valid_params"
	CheckClone              = "clone"
	CheckFitState           = "fit_state"
	CheckNotFittedError     = "not_fitted_error"
	CheckFitIdempotent      = "fit_idempotent"
	CheckParamsImmutable    = "params_immutable"
	CheckNoStateMutation    = "no_state_mutation"
	CheckNoArgMutation      = "no_arg_mutation"
	CheckPersistMemory      = "persist_memory"
	CheckPersistFile        = "persist_file"
	CheckNetworkParams      = "network_params"
	CheckParallelIdempotent = "parallel_idempotent"
)

// Instance couples an unfitted estimator with its display name. The
// suite clones the instance before every use, so the fixture value
// itself stays pristine.
type Instance struct {
	Name   string
	Object estimator.Object
}

// Source wires the fixture generators to the registry, the scenario
// catalog and the loaded configuration.
type Source struct {
	Registry *registry.Registry
	Scitypes []estimator.Scitype
	Config   *config.Config

	// UseMatrix turns on platform subsampling when the configuration
	// carries a matrix.
	UseMatrix bool

	// GOOS overrides the detected operating system, for tests.
	GOOS string
}

// Engine builds the generation engine over the standard variable
// sequence.
func (s *Source) Engine() *Engine {
	return &Engine{
		Sequence: []string{VarClass, VarInstance, VarScenario, VarMethod, VarMethodArraylike},
		Generators: map[string]Generator{
			VarClass:           s.classes,
			VarInstance:        s.instances,
			VarScenario:        s.scenarios,
			VarMethod:          s.methods,
			VarMethodArraylike: s.methodsArraylike,
		},
	}
}

func (s *Source) goos() string {
	if s.GOOS != "" {
		return s.GOOS
	}
	return runtime.GOOS
}

// classes yields the registry entries in scope for checkName:
// discovery with the global exclusion list, dependency gating at
// severity "none" (incompatible classes silently drop out), the
// per-check exclusion table, and optionally the subsampling matrix.
func (s *Source) classes(checkName string, _ Bindings) ([]any, []string, error) {
	entries := s.Registry.Discover(s.Scitypes, s.Config.ExcludeEstimators)

	deps := s.Config.DepSet()
	kept := entries[:0:0]
	for _, e := range entries {
		ok, err := deps.Compatible(e, registry.SeverityNone)
		if err != nil {
			return nil, nil, err
		}
		if ok {
			kept = append(kept, e)
		}
	}
	entries = kept

	if excluded := s.Config.CheckExcludes(checkName); len(excluded) > 0 {
		kept := entries[:0:0]
		for _, e := range entries {
			if !slices.Contains(excluded, e.Name) {
				kept = append(kept, e)
			}
		}
		entries = kept
	}

	if s.UseMatrix && s.Config.Matrix != nil {
		var err error
		entries, err = s.Config.Matrix.Subsample(entries, s.goos())
		if err != nil {
			return nil, nil, err
		}
	}

	values := make([]any, len(entries))
	names := make([]string, len(entries))
	for i, e := range entries {
		values[i] = e
		names[i] = e.Name
	}
	return values, names, nil
}

func (s *Source) instances(_ string, bound Bindings) ([]any, []string, error) {
	entry := bound[VarClass].(*registry.Entry)
	objects, names := entry.TestInstances()
	values := make([]any, len(objects))
	for i, obj := range objects {
		values[i] = Instance{Name: names[i], Object: obj}
	}
	return values, names, nil
}

func (s *Source) scenarios(checkName string, bound Bindings) ([]any, []string, error) {
	inst := bound[VarInstance].(Instance)
	var values []any
	var names []string
	for _, sc := range scenario.Retrieve(inst.Object) {
		if excludedScenario(checkName, sc) {
			continue
		}
		values = append(values, sc)
		names = append(names, sc.Name)
	}
	return values, names, nil
}

// excludedScenario drops scenario/check pairs that are valid runs but
// would trip the check for a documented reason. Forecasters remember
// a horizon first seen at predict time, so late-horizon scenarios
// legitimately change state in non-state-changing methods.
func excludedScenario(checkName string, sc *scenario.Scenario) bool {
	return checkName == CheckNoStateMutation && !sc.Tags.HorizonInFit
}

func (s *Source) methods(checkName string, bound Bindings) ([]any, []string, error) {
	return s.methodsFrom(NonStateChangingMethods, bound)
}

func (s *Source) methodsArraylike(checkName string, bound Bindings) ([]any, []string, error) {
	return s.methodsFrom(ArraylikeMethods, bound)
}

func (s *Source) methodsFrom(candidates []string, bound Bindings) ([]any, []string, error) {
	inst := bound[VarInstance].(Instance)
	deps := s.Config.DepSet()

	var values []any
	var names []string
	for _, m := range candidates {
		if !HasCapability(inst.Object, m) {
			continue
		}
		// Probabilistic forecasting rides on an optional dependency;
		// without it the method leaves the candidate set entirely.
		if m == scenario.MethodPredictProba {
			if _, isForecast := inst.Object.(estimator.ProbaForecaster); isForecast && !deps.Has("proba") {
				continue
			}
		}
		values = append(values, m)
		names = append(names, m)
	}
	return values, names, nil
}
