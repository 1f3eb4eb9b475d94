package conformance

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"runtime"
	"time"

	"github.com/google/uuid"

	"github.com/seriate/estcheck/internal/config"
	"github.com/seriate/estcheck/internal/estimator"
	"github.com/seriate/estcheck/internal/fixtures"
	"github.com/seriate/estcheck/internal/registry"
	"github.com/seriate/estcheck/internal/scenario"
	"github.com/seriate/estcheck/internal/store"
)

// Suite runs the check battery over a registry.
type Suite struct {
	Registry *registry.Registry
	Config   *config.Config

	// Scitypes restricts discovery to the given roles. Empty means
	// all roles.
	Scitypes []estimator.Scitype

	// UseMatrix enables platform subsampling when the configuration
	// carries a matrix.
	UseMatrix bool

	// GOOS overrides the detected operating system, for tests.
	GOOS string

	// Logger receives per-case progress. Nil discards.
	Logger *slog.Logger

	// Store, when set, receives the finished run.
	Store *store.Store

	// NewRunID overrides run ID generation, for tests. Defaults to
	// time-ordered UUIDs.
	NewRunID func() (string, error)

	// Now overrides the clock, for tests.
	Now func() time.Time
}

func (s *Suite) logger() *slog.Logger {
	if s.Logger != nil {
		return s.Logger
	}
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func (s *Suite) runID() (string, error) {
	if s.NewRunID != nil {
		return s.NewRunID()
	}
	id, err := uuid.NewV7()
	if err != nil {
		return "", fmt.Errorf("conformance: generate run id: %w", err)
	}
	return id.String(), nil
}

func (s *Suite) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

func (s *Suite) goos() string {
	if s.GOOS != "" {
		return s.GOOS
	}
	return runtime.GOOS
}

// Run executes every check over its generated fixture cases and
// returns the collected report. Check failures land in the report,
// not in the returned error; the error covers harness problems such
// as fixture generation failures or a canceled context.
func (s *Suite) Run(ctx context.Context) (*Report, error) {
	cfg := s.Config
	if cfg == nil {
		cfg = config.Default()
	}

	id, err := s.runID()
	if err != nil {
		return nil, err
	}
	report := &Report{
		RunID:     id,
		StartedAt: s.now().UTC(),
		GOOS:      s.goos(),
		Matrix:    s.UseMatrix && cfg.Matrix != nil,
	}

	log := s.logger().With("run_id", id)

	src := &fixtures.Source{
		Registry:  s.Registry,
		Scitypes:  s.Scitypes,
		Config:    cfg,
		UseMatrix: s.UseMatrix,
		GOOS:      s.GOOS,
	}
	engine := src.Engine()

	for _, check := range Checks() {
		cases, err := engine.Generate(check.Name, check.Vars)
		if err != nil {
			return nil, fmt.Errorf("conformance: generate fixtures for %s: %w", check.Name, err)
		}
		log.Debug("generated fixtures", "check", check.Name, "cases", len(cases))

		for _, cs := range cases {
			if err := ctx.Err(); err != nil {
				return nil, fmt.Errorf("conformance: run canceled: %w", err)
			}
			report.Results = append(report.Results, s.runCase(log, check, cs))
		}
	}

	if s.Store != nil {
		run, results := report.StoreRun()
		if err := s.Store.WriteRun(ctx, run, results); err != nil {
			return nil, err
		}
	}
	return report, nil
}

// runCase builds the case context and executes one check body. The
// instance handed to the check is a fresh clone, so fixture values
// stay pristine across cases.
func (s *Suite) runCase(log *slog.Logger, check Check, cs fixtures.Case) Result {
	c := &CaseContext{}
	if v, ok := cs.Values[fixtures.VarClass]; ok {
		c.Entry = v.(*registry.Entry)
	}
	if v, ok := cs.Values[fixtures.VarInstance]; ok {
		inst := v.(fixtures.Instance)
		c.Instance = inst.Object.Clone()
		c.InstanceName = inst.Name
	}
	if v, ok := cs.Values[fixtures.VarScenario]; ok {
		c.Scenario = v.(*scenario.Scenario)
	}
	if v, ok := cs.Values[fixtures.VarMethod]; ok {
		c.Method = v.(string)
	}
	if v, ok := cs.Values[fixtures.VarMethodArraylike]; ok {
		c.Method = v.(string)
	}

	result := Result{Check: check.Name, Case: cs.Name, Status: store.StatusPass}
	err := check.Run(c)

	var skip *SkipError
	switch {
	case err == nil:
		log.Debug("check passed", "check", check.Name, "case", cs.Name)
	case errors.As(err, &skip):
		result.Status = store.StatusSkip
		result.Detail = skip.Reason
		log.Debug("check skipped", "check", check.Name, "case", cs.Name, "reason", skip.Reason)
	default:
		result.Status = store.StatusFail
		result.Detail = err.Error()
		log.Warn("check failed", "check", check.Name, "case", cs.Name, "error", err)
	}
	return result
}
