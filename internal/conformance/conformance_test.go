package conformance

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/seriate/estcheck/internal/config"
	"github.com/seriate/estcheck/internal/estimator"
	"github.com/seriate/estcheck/internal/fixtures"
	"github.com/seriate/estcheck/internal/registry"
	"github.com/seriate/estcheck/internal/scenario"
	"github.com/seriate/estcheck/internal/testutil"
)

func builtinSuite() *Suite {
	return &Suite{Registry: registry.Builtin(), Config: config.Default()}
}

func TestSuiteBuiltinRegistryPasses(t *testing.T) {
	report, err := builtinSuite().Run(context.Background())
	require.NoError(t, err)

	for _, f := range report.Failures() {
		t.Errorf("unexpected failure %s/%s: %s", f.Check, f.Case, f.Detail)
	}

	total, passed, failed, skipped := report.Counts()
	assert.Zero(t, failed)
	assert.Positive(t, passed)
	assert.Positive(t, skipped)
	assert.Equal(t, total, passed+failed+skipped)
	assert.Len(t, report.Results, total)
}

func TestSuiteDisablesParallelIdempotence(t *testing.T) {
	report, err := builtinSuite().Run(context.Background())
	require.NoError(t, err)

	var seen int
	for _, res := range report.Results {
		if res.Check == fixtures.CheckParallelIdempotent {
			seen++
			assert.Equal(t, "skip", res.Status)
			assert.Contains(t, res.Detail, "disabled")
		}
	}
	assert.Positive(t, seen)
}

func TestSuiteRespectsContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := builtinSuite().Run(ctx)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestSuiteReportsFailures(t *testing.T) {
	reg := registry.New()
	reg.Register(&registry.Entry{
		Name:    "SelfCloner",
		Scitype: estimator.ScitypeForecaster,
		New:     func(p estimator.Params) estimator.Object { return &selfCloner{} },
	})

	suite := &Suite{Registry: reg, Config: config.Default()}
	report, err := suite.Run(context.Background())
	require.NoError(t, err)

	var cloneFailed bool
	for _, f := range report.Failures() {
		if f.Check == fixtures.CheckClone {
			cloneFailed = true
			assert.Contains(t, f.Detail, "receiver")
		}
	}
	assert.True(t, cloneFailed, "clone check should fail for an estimator cloning to itself")
}

// The reference flow: a naive forecaster with default parameters, a
// univariate series of length 10 and a three-step horizon given at
// fit time.
func TestNaiveForecasterReferenceFlow(t *testing.T) {
	f := estimator.NewNaiveForecaster(nil)
	scenarios := scenario.Retrieve(f)
	require.NotEmpty(t, scenarios)
	sc := scenarios[0]
	require.True(t, sc.Tags.HorizonInFit)

	entry, ok := registry.Builtin().Lookup("NaiveForecaster")
	require.True(t, ok)

	// Predict before fit surfaces the unfitted state.
	err := checkNotFittedError(&CaseContext{
		Instance: f.Clone(), Scenario: sc, Method: scenario.MethodPredict,
	})
	require.NoError(t, err)

	// Fit returns the estimator and flips the fitted flag.
	require.NoError(t, checkFitState(&CaseContext{Instance: f.Clone(), Scenario: sc}))

	// Predictions survive both persistence round trips to tolerance.
	require.NoError(t, checkPersistMemory(&CaseContext{
		Entry: entry, Instance: f.Clone(), Scenario: sc, Method: scenario.MethodPredict,
	}))
	require.NoError(t, checkPersistFile(&CaseContext{
		Entry: entry, Instance: f.Clone(), Scenario: sc, Method: scenario.MethodPredict,
	}))

	// And the prediction itself is a three-step sequence.
	fitted := f.Clone().(*estimator.NaiveForecaster)
	require.NoError(t, fitObject(fitted, sc))
	preds, err := fitted.Predict(nil)
	require.NoError(t, err)
	assert.Len(t, preds, 3)
}

func TestNotImplementedIsEarlySuccess(t *testing.T) {
	stub := &stubForecaster{Level: 2}
	scenarios := scenario.Retrieve(stub)
	require.NotEmpty(t, scenarios)
	sc := scenarios[0]

	assert.NoError(t, checkNoStateMutation(&CaseContext{
		Instance: stub.Clone(), Scenario: sc, Method: scenario.MethodPredictVar,
	}))
	assert.NoError(t, checkFitIdempotent(&CaseContext{
		Instance: stub.Clone(), Scenario: sc, Method: scenario.MethodPredictVar,
	}))
	assert.NoError(t, checkNoArgMutation(&CaseContext{
		Instance: stub.Clone(), Scenario: sc, Method: scenario.MethodPredictVar,
	}))
}

func TestRunEstimatorSingleInstance(t *testing.T) {
	report, err := RunEstimator(context.Background(), "QuickNaive", estimator.NewNaiveForecaster(nil))
	require.NoError(t, err)

	for _, f := range report.Failures() {
		t.Errorf("unexpected failure %s/%s: %s", f.Check, f.Case, f.Detail)
	}
	total, _, failed, _ := report.Counts()
	assert.Positive(t, total)
	assert.Zero(t, failed)
}

func TestRunEstimatorRejectsUnknownShape(t *testing.T) {
	_, err := RunEstimator(context.Background(), "Nothing", roleless{})
	assert.Error(t, err)
}

func TestRunEstimatorRejectsNameReuseAcrossTypes(t *testing.T) {
	_, err := RunEstimator(context.Background(), "ReusedName", estimator.NewNaiveForecaster(nil))
	require.NoError(t, err)

	// Same name, same type: the existing factory still fits.
	_, err = RunEstimator(context.Background(), "ReusedName", estimator.NewNaiveForecaster(nil))
	require.NoError(t, err)

	_, err = RunEstimator(context.Background(), "ReusedName", estimator.NewMeanRegressor(nil))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "is registered for")
}

func TestInterfaceCheckComparesCloneHyperparameters(t *testing.T) {
	entry := &registry.Entry{
		Name:    "DriftingCloner",
		Scitype: estimator.ScitypeForecaster,
		New:     func(p estimator.Params) estimator.Object { return &driftingCloner{} },
	}
	err := checkInterface(&CaseContext{Entry: entry})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "clone hyperparameters differ")
}

func TestFitStateChecksInternalFlag(t *testing.T) {
	liar := &flagLiar{}
	scenarios := scenario.Retrieve(liar)
	require.NotEmpty(t, scenarios)

	err := checkFitState(&CaseContext{Instance: liar, Scenario: scenarios[0]})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "internal flag is unset")
}

func TestReportGoldenPairwise(t *testing.T) {
	suite := &Suite{
		Registry: registry.Builtin(),
		Config:   config.Default(),
		Scitypes: []estimator.Scitype{estimator.ScitypePairwise},
		GOOS:     "linux",
		NewRunID: testutil.NewFixedRunIDGenerator("golden-run").Generate,
		Now:      testutil.NewFixedClock(time.Date(2026, 8, 14, 10, 30, 0, 0, time.UTC), 0).Now,
	}

	report, err := suite.Run(context.Background())
	require.NoError(t, err)
	require.NoError(t, AssertGolden(t, "pairwise_report", report))
}

func TestResultsAlmostEqual(t *testing.T) {
	assert.NoError(t, resultsAlmostEqual([]float64{1, 2}, []float64{1, 2 + 1e-9}))
	assert.Error(t, resultsAlmostEqual([]float64{1, 2}, []float64{1, 2.1}))
	assert.Error(t, resultsAlmostEqual([]float64{1}, []float64{1, 2}))
	assert.Error(t, resultsAlmostEqual([]float64{1}, []int{1}))
	assert.NoError(t, resultsAlmostEqual(
		map[string]any{"w": []float64{0.5}},
		map[string]any{"w": []float64{0.5}},
	))
	assert.Error(t, resultsAlmostEqual(
		map[string]any{"w": []float64{0.5}},
		map[string]any{"v": []float64{0.5}},
	))
}

// stubForecaster remembers a horizon and forecasts a constant level;
// its variance method reports unimplemented vectorized behavior.
type stubForecaster struct {
	estimator.Base
	Level float64 `json:"level"`
	FH    []int   `json:"fh,omitempty"`
}

func (s *stubForecaster) Params() estimator.Params {
	return estimator.Params{"Level": s.Level}
}

func (s *stubForecaster) Clone() estimator.Object {
	return &stubForecaster{Level: s.Level}
}

func (s *stubForecaster) Fit(y []float64, fh []int) error {
	if len(y) == 0 {
		return fmt.Errorf("stubForecaster.Fit: empty series")
	}
	if len(fh) > 0 {
		s.FH = append([]int(nil), fh...)
	}
	s.Fitted = true
	return nil
}

func (s *stubForecaster) Predict(fh []int) ([]float64, error) {
	if !s.IsFitted() {
		return nil, &estimator.NotFittedError{Op: "stubForecaster.Predict"}
	}
	steps := fh
	if len(steps) == 0 {
		steps = s.FH
	}
	out := make([]float64, len(steps))
	for i := range out {
		out[i] = s.Level
	}
	return out, nil
}

func (s *stubForecaster) PredictVar(fh []int) ([]float64, error) {
	return nil, &estimator.NotImplementedError{
		Op:     "stubForecaster.PredictVar",
		Reason: "vectorized variance is not supported",
	}
}

// selfCloner violates clone identity on purpose.
type selfCloner struct {
	stubForecaster
}

func (s *selfCloner) Clone() estimator.Object { return s }

// driftingCloner perturbs a hyperparameter while cloning.
type driftingCloner struct {
	stubForecaster
}

func (d *driftingCloner) Clone() estimator.Object {
	return &driftingCloner{stubForecaster{Level: d.Level + 1}}
}

// flagLiar tracks fittedness in a shadow field, leaving the embedded
// flag behind.
type flagLiar struct {
	stubForecaster
	fitted bool
}

func (f *flagLiar) Fit(y []float64, fh []int) error {
	if len(y) == 0 {
		return fmt.Errorf("flagLiar.Fit: empty series")
	}
	f.fitted = true
	return nil
}

func (f *flagLiar) IsFitted() bool { return f.fitted }

// roleless satisfies Object but no estimator role.
type roleless struct{}

func (roleless) Params() estimator.Params  { return estimator.Params{} }
func (roleless) Clone() estimator.Object   { return roleless{} }
