// Package conformance runs the contract check battery against every
// discovered estimator class. Each check declares the fixture
// variables it needs; the fixture engine expands those into cases and
// the suite executes each case against a fresh clone.
package conformance

import (
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"slices"
	"strings"

	"github.com/seriate/estcheck/internal/canonjson"
	"github.com/seriate/estcheck/internal/estimator"
	"github.com/seriate/estcheck/internal/fixtures"
	"github.com/seriate/estcheck/internal/persist"
	"github.com/seriate/estcheck/internal/registry"
	"github.com/seriate/estcheck/internal/scenario"
)

// CaseContext carries one fully-bound fixture case. Instance is a
// fresh unfitted clone owned exclusively by the check run.
type CaseContext struct {
	Entry        *registry.Entry
	Instance     estimator.Object
	InstanceName string
	Scenario     *scenario.Scenario
	Method       string
}

// Check is one conformance check: a name, the fixture variables it
// parametrizes over, and the check body. A nil error is a pass; a
// SkipError records a skip with its reason.
type Check struct {
	Name string
	Vars []string
	Run  func(c *CaseContext) error
}

// SkipError marks a check as intentionally not run for this case.
type SkipError struct {
	Reason string
}

func (e *SkipError) Error() string {
	return "skipped: " + e.Reason
}

// Checks returns the full battery in execution order.
func Checks() []Check {
	return []Check{
		{Name: fixtures.CheckInheritance, Vars: []string{fixtures.VarClass}, Run: checkInheritance},
		{Name: fixtures.CheckInterface, Vars: []string{fixtures.VarClass}, Run: checkInterface},
		{Name: fixtures.CheckValidParams, Vars: []string{fixtures.VarInstance}, Run: checkValidParams},
		{Name: fixtures.CheckClone, Vars: []string{fixtures.VarInstance, fixtures.VarScenario}, Run: checkClone},
		{Name: fixtures.CheckFitState, Vars: []string{fixtures.VarInstance, fixtures.VarScenario}, Run: checkFitState},
		{Name: fixtures.CheckNotFittedError, Vars: []string{fixtures.VarInstance, fixtures.VarScenario, fixtures.VarMethod}, Run: checkNotFittedError},
		{Name: fixtures.CheckFitIdempotent, Vars: []string{fixtures.VarInstance, fixtures.VarScenario, fixtures.VarMethodArraylike}, Run: checkFitIdempotent},
		{Name: fixtures.CheckParamsImmutable, Vars: []string{fixtures.VarInstance, fixtures.VarScenario}, Run: checkParamsImmutable},
		{Name: fixtures.CheckNoStateMutation, Vars: []string{fixtures.VarInstance, fixtures.VarScenario, fixtures.VarMethod}, Run: checkNoStateMutation},
		{Name: fixtures.CheckNoArgMutation, Vars: []string{fixtures.VarInstance, fixtures.VarScenario, fixtures.VarMethod}, Run: checkNoArgMutation},
		{Name: fixtures.CheckPersistMemory, Vars: []string{fixtures.VarInstance, fixtures.VarScenario, fixtures.VarMethodArraylike}, Run: checkPersistMemory},
		{Name: fixtures.CheckPersistFile, Vars: []string{fixtures.VarInstance, fixtures.VarScenario, fixtures.VarMethodArraylike}, Run: checkPersistFile},
		{Name: fixtures.CheckNetworkParams, Vars: []string{fixtures.VarInstance}, Run: checkNetworkParams},
		{Name: fixtures.CheckParallelIdempotent, Vars: []string{fixtures.VarInstance, fixtures.VarScenario}, Run: checkParallelIdempotent},
	}
}

// seed fixes the random source of stochastic estimators so repeated
// fits are comparable.
func seed(obj estimator.Object) {
	if s, ok := obj.(estimator.Seeder); ok {
		s.SetSeed(42)
	}
}

// invoke runs one scenario method and reports whether the estimator
// implements the behavior at all. A NotImplementedError is an early
// successful exit for the calling check, not a failure.
func invoke(obj estimator.Object, sc *scenario.Scenario, method string) (any, bool, error) {
	res, err := scenario.Invoke(obj, method, sc.ArgsFor(method))
	if estimator.IsNotImplemented(err) {
		return nil, false, nil
	}
	return res, true, err
}

func fitObject(obj estimator.Object, sc *scenario.Scenario) error {
	_, err := scenario.Invoke(obj, scenario.MethodFit, sc.ArgsFor(scenario.MethodFit))
	return err
}

func paramHashes(p estimator.Params) (map[string]uint64, error) {
	h, err := estimator.HashParams(p)
	if err != nil {
		return nil, fmt.Errorf("hash hyperparameters: %w", err)
	}
	return h, nil
}

func checkInheritance(c *CaseContext) error {
	if !slices.Contains(estimator.AllScitypes, c.Entry.Scitype) {
		return fmt.Errorf("unknown scitype %q", c.Entry.Scitype)
	}

	obj := c.Entry.New(nil)
	roles := estimator.Roles(obj)
	if !slices.Contains(roles, c.Entry.Scitype) {
		return fmt.Errorf("instance roles %v do not include registered scitype %q", roles, c.Entry.Scitype)
	}
	if len(roles) == 0 || len(roles) > 2 {
		return fmt.Errorf("estimator has %d roles, want 1 or 2", len(roles))
	}
	if len(roles) == 2 {
		if !estimator.IsTransformerRole(roles[0]) && !estimator.IsTransformerRole(roles[1]) {
			return fmt.Errorf("dual-role estimator %v must include a transformer role", roles)
		}
	}

	if estimator.CanFit(obj) {
		if _, ok := obj.(estimator.Estimator); !ok {
			return fmt.Errorf("fittable estimator does not expose fitted state")
		}
	}
	return nil
}

func checkInterface(c *CaseContext) error {
	obj := c.Entry.New(nil)

	params := obj.Params()
	if params == nil {
		return fmt.Errorf("Params returned nil")
	}

	cl := obj.Clone()
	if cl == nil {
		return fmt.Errorf("Clone returned nil")
	}
	if cl == obj {
		return fmt.Errorf("Clone returned the receiver")
	}
	origHash, err := paramHashes(params)
	if err != nil {
		return err
	}
	cloneHash, err := paramHashes(cl.Params())
	if err != nil {
		return err
	}
	if !reflect.DeepEqual(origHash, cloneHash) {
		return fmt.Errorf("clone hyperparameters differ from original")
	}

	if est, ok := obj.(estimator.Estimator); ok && est.IsFitted() {
		return fmt.Errorf("freshly constructed estimator reports fitted")
	}
	if _, ok := obj.(estimator.FittedParamsProvider); ok && !estimator.CanFit(obj) {
		return fmt.Errorf("estimator exposes fitted parameters but has no fit phase")
	}
	if _, ok := obj.(estimator.InvertibleTransformer); ok {
		if _, isT := obj.(estimator.Transformer); !isT {
			return fmt.Errorf("inverse transform without forward transform")
		}
	}
	if _, ok := obj.(estimator.ProbaForecaster); ok {
		if _, isF := obj.(estimator.Forecaster); !isF {
			return fmt.Errorf("probabilistic forecast without point forecast")
		}
	}
	if _, ok := obj.(estimator.ProbaClassifier); ok {
		if _, isC := obj.(estimator.Classifier); !isC {
			return fmt.Errorf("class probabilities without label prediction")
		}
	}
	return nil
}

func checkValidParams(c *CaseContext) error {
	params := c.Instance.Params()
	rebuilt := c.Entry.New(params)

	before, err := paramHashes(params)
	if err != nil {
		return err
	}
	after, err := paramHashes(rebuilt.Params())
	if err != nil {
		return err
	}
	for k, h := range before {
		got, ok := after[k]
		if !ok {
			return fmt.Errorf("hyperparameter %q lost in construction round trip", k)
		}
		if got != h {
			return fmt.Errorf("hyperparameter %q changed in construction round trip", k)
		}
	}
	if len(after) != len(before) {
		return fmt.Errorf("construction round trip changed hyperparameter count from %d to %d", len(before), len(after))
	}
	return nil
}

func checkClone(c *CaseContext) error {
	inst := c.Instance

	cl := inst.Clone()
	if cl == inst {
		return fmt.Errorf("Clone returned the receiver")
	}
	instHash, err := paramHashes(inst.Params())
	if err != nil {
		return err
	}
	cloneHash, err := paramHashes(cl.Params())
	if err != nil {
		return err
	}
	if !reflect.DeepEqual(instHash, cloneHash) {
		return fmt.Errorf("clone hyperparameters differ from original")
	}
	if est, ok := cl.(estimator.Estimator); ok && est.IsFitted() {
		return fmt.Errorf("clone of unfitted estimator reports fitted")
	}

	if !estimator.CanFit(inst) {
		return nil
	}
	if err := fitObject(inst, c.Scenario); err != nil {
		return fmt.Errorf("fit: %w", err)
	}
	refit := inst.Clone()
	if est, ok := refit.(estimator.Estimator); ok && est.IsFitted() {
		return fmt.Errorf("clone of fitted estimator reports fitted")
	}
	if est := inst.(estimator.Estimator); !est.IsFitted() {
		return fmt.Errorf("cloning reset the original's fitted state")
	}
	return nil
}

func checkFitState(c *CaseContext) error {
	if !estimator.CanFit(c.Instance) {
		return &SkipError{Reason: "estimator has no fit phase"}
	}
	est := c.Instance.(estimator.Estimator)
	flag, hasFlag := estimator.BaseOf(c.Instance)
	if est.IsFitted() {
		return fmt.Errorf("estimator reports fitted before fit")
	}
	if hasFlag && flag.Fitted {
		return fmt.Errorf("internal fitted flag set before fit")
	}

	res, err := scenario.Invoke(c.Instance, scenario.MethodFit, c.Scenario.ArgsFor(scenario.MethodFit))
	if err != nil {
		return fmt.Errorf("fit: %w", err)
	}
	if res != any(c.Instance) {
		return fmt.Errorf("fit did not return the estimator itself")
	}
	if !est.IsFitted() {
		return fmt.Errorf("estimator reports unfitted after fit")
	}
	if hasFlag && !flag.Fitted {
		return fmt.Errorf("accessor reports fitted but the internal flag is unset")
	}
	return nil
}

func checkNotFittedError(c *CaseContext) error {
	_, err := scenario.Invoke(c.Instance, c.Method, c.Scenario.ArgsFor(c.Method))
	if err == nil {
		return fmt.Errorf("%s before fit succeeded", c.Method)
	}
	if !estimator.IsNotFitted(err) {
		return fmt.Errorf("%s before fit returned wrong error kind: %v", c.Method, err)
	}
	if !strings.Contains(err.Error(), "has not been fitted") {
		return fmt.Errorf("%s error message %q lacks fitted-state wording", c.Method, err)
	}
	return nil
}

func checkFitIdempotent(c *CaseContext) error {
	first := c.Instance
	second := c.Instance.Clone()
	seed(first)
	seed(second)

	resFirst, implemented, err := fitInvoke(first, c.Scenario, c.Method)
	if err != nil {
		return err
	}
	if !implemented {
		return nil
	}
	resSecond, _, err := fitInvoke(second, c.Scenario, c.Method)
	if err != nil {
		return err
	}

	if err := resultsAlmostEqual(resFirst, resSecond); err != nil {
		return fmt.Errorf("%s after repeated fit: %w", c.Method, err)
	}

	// A second fit of the same estimator must land in the same state.
	resRefit, _, err := fitInvoke(first, c.Scenario, c.Method)
	if err != nil {
		return err
	}
	if err := resultsAlmostEqual(resFirst, resRefit); err != nil {
		return fmt.Errorf("%s after refitting in place: %w", c.Method, err)
	}
	return nil
}

func fitInvoke(obj estimator.Object, sc *scenario.Scenario, method string) (any, bool, error) {
	if err := fitObject(obj, sc); err != nil {
		return nil, false, fmt.Errorf("fit: %w", err)
	}
	res, implemented, err := invoke(obj, sc, method)
	if err != nil {
		return nil, false, fmt.Errorf("%s: %w", method, err)
	}
	return res, implemented, nil
}

func checkParamsImmutable(c *CaseContext) error {
	if !estimator.CanFit(c.Instance) {
		return &SkipError{Reason: "estimator has no fit phase"}
	}

	before, err := paramHashes(c.Instance.Params())
	if err != nil {
		return err
	}
	if err := fitObject(c.Instance, c.Scenario); err != nil {
		return fmt.Errorf("fit: %w", err)
	}
	after, err := paramHashes(c.Instance.Params())
	if err != nil {
		return err
	}

	for k, h := range before {
		got, ok := after[k]
		if !ok {
			return fmt.Errorf("hyperparameter %q disappeared during fit", k)
		}
		if got != h {
			return fmt.Errorf("hyperparameter %q mutated during fit", k)
		}
	}
	return nil
}

func checkNoStateMutation(c *CaseContext) error {
	if err := fitObject(c.Instance, c.Scenario); err != nil {
		return fmt.Errorf("fit: %w", err)
	}

	before, err := canonjson.Snapshot(c.Instance)
	if err != nil {
		return fmt.Errorf("snapshot: %w", err)
	}

	res, implemented, err := invoke(c.Instance, c.Scenario, c.Method)
	if err != nil {
		return fmt.Errorf("%s: %w", c.Method, err)
	}
	if !implemented {
		return nil
	}
	if c.Method == scenario.MethodFittedParams {
		params, ok := res.(map[string]any)
		if !ok || params == nil {
			return fmt.Errorf("FittedParams returned %T, want a non-nil string-keyed map", res)
		}
	}

	after, err := canonjson.Snapshot(c.Instance)
	if err != nil {
		return fmt.Errorf("snapshot: %w", err)
	}
	if string(before) != string(after) {
		return fmt.Errorf("%s changed estimator state", c.Method)
	}
	return nil
}

func checkNoArgMutation(c *CaseContext) error {
	if estimator.CanFit(c.Instance) {
		fitArgs := c.Scenario.ArgsFor(scenario.MethodFit)
		pristine := fitArgs.Clone()
		if _, err := scenario.Invoke(c.Instance, scenario.MethodFit, fitArgs); err != nil {
			return fmt.Errorf("fit: %w", err)
		}
		if !scenario.ArgsEqual(fitArgs, pristine) {
			return fmt.Errorf("fit mutated its arguments")
		}
	}

	args := c.Scenario.ArgsFor(c.Method)
	pristine := args.Clone()
	_, err := scenario.Invoke(c.Instance, c.Method, args)
	if estimator.IsNotImplemented(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("%s: %w", c.Method, err)
	}
	if !scenario.ArgsEqual(args, pristine) {
		return fmt.Errorf("%s mutated its arguments", c.Method)
	}
	return nil
}

func checkPersistMemory(c *CaseContext) error {
	direct, restored, implemented, err := persistRoundTrip(c, func(obj estimator.Object) (estimator.Object, error) {
		data, err := persist.Marshal(c.Entry.Name, obj)
		if err != nil {
			return nil, err
		}
		return persist.Unmarshal(data)
	})
	if err != nil || !implemented {
		return err
	}
	return comparePersisted(c, direct, restored)
}

func checkPersistFile(c *CaseContext) error {
	dir, err := os.MkdirTemp("", "estcheck-persist-*")
	if err != nil {
		return fmt.Errorf("temp dir: %w", err)
	}
	defer os.RemoveAll(dir)

	path := filepath.Join(dir, "estimator.json")
	direct, restored, implemented, err := persistRoundTrip(c, func(obj estimator.Object) (estimator.Object, error) {
		if err := persist.Save(path, c.Entry.Name, obj); err != nil {
			return nil, err
		}
		return persist.Load(path)
	})
	if err != nil || !implemented {
		return err
	}
	return comparePersisted(c, direct, restored)
}

func persistRoundTrip(c *CaseContext, roundTrip func(estimator.Object) (estimator.Object, error)) (any, any, bool, error) {
	seed(c.Instance)
	if estimator.CanFit(c.Instance) {
		if err := fitObject(c.Instance, c.Scenario); err != nil {
			return nil, nil, false, fmt.Errorf("fit: %w", err)
		}
	}

	direct, implemented, err := invoke(c.Instance, c.Scenario, c.Method)
	if err != nil {
		return nil, nil, false, fmt.Errorf("%s: %w", c.Method, err)
	}
	if !implemented {
		return nil, nil, false, nil
	}

	restoredObj, err := roundTrip(c.Instance)
	if err != nil {
		return nil, nil, false, fmt.Errorf("round trip: %w", err)
	}
	restored, _, err := invoke(restoredObj, c.Scenario, c.Method)
	if err != nil {
		return nil, nil, false, fmt.Errorf("%s after round trip: %w", c.Method, err)
	}
	return direct, restored, true, nil
}

func comparePersisted(c *CaseContext, direct, restored any) error {
	if err := resultsAlmostEqual(direct, restored); err != nil {
		return fmt.Errorf("%s differs after persistence round trip: %w", c.Method, err)
	}
	return nil
}

// checkNetworkParams verifies that hyperparameters of a network
// wrapper propagate into the wrapped network: every wrapper parameter
// with a same-named field on the network struct must match it.
func checkNetworkParams(c *CaseContext) error {
	nw, ok := c.Instance.(estimator.NetworkWrapper)
	if !ok {
		return nil
	}
	net := nw.Network()
	if net == nil {
		return fmt.Errorf("network wrapper returned nil network")
	}

	v := reflect.ValueOf(net)
	for v.Kind() == reflect.Pointer {
		if v.IsNil() {
			return fmt.Errorf("network wrapper returned nil network")
		}
		v = v.Elem()
	}
	if v.Kind() != reflect.Struct {
		return fmt.Errorf("network is %T, not a struct", net)
	}

	for key, want := range c.Instance.Params() {
		field := v.FieldByName(key)
		if !field.IsValid() {
			continue
		}
		if err := valuesMatch(want, field.Interface()); err != nil {
			return fmt.Errorf("network field %s: %w", key, err)
		}
	}
	return nil
}

func valuesMatch(want, got any) error {
	wf, wok := toFloat(want)
	gf, gok := toFloat(got)
	if wok && gok {
		if wf != gf {
			return fmt.Errorf("want %v, got %v", want, got)
		}
		return nil
	}
	if !reflect.DeepEqual(want, got) {
		return fmt.Errorf("want %v, got %v", want, got)
	}
	return nil
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case float64:
		return n, true
	}
	return 0, false
}

func checkParallelIdempotent(c *CaseContext) error {
	return &SkipError{Reason: "multi-process idempotence check disabled: unresolved platform hang"}
}
