package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"slices"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/seriate/estcheck/internal/config"
	"github.com/seriate/estcheck/internal/conformance"
	"github.com/seriate/estcheck/internal/estimator"
	"github.com/seriate/estcheck/internal/registry"
	"github.com/seriate/estcheck/internal/store"
)

// RunOptions holds flags for the run command.
type RunOptions struct {
	*RootOptions
	ConfigPath string
	Database   string
	Matrix     bool
	Scitypes   []string

	// Registry allows overriding the estimator registry (for testing).
	// If nil, defaults to the built-in registry.
	Registry *registry.Registry
}

// NewRunCommand creates the run command.
func NewRunCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RunOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the conformance suite",
		Long: `Run every conformance check against the registered estimators.

Fixture cases are generated per check from the registered classes, their
test parameter sets, and the applicable scenarios. Results can be written
to a SQLite database for later inspection with "estcheck report".

Exit codes:
  0 - All cases passed (skips allowed)
  1 - One or more cases failed
  2 - Command error (bad config, unwritable database, etc.)

Examples:
  estcheck run
  estcheck run --scitype forecaster --verbose
  estcheck run --config estcheck.yaml --matrix
  estcheck run --db ./results.db --format json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSuite(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.ConfigPath, "config", "", "path to YAML config (optional)")
	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite results database (optional)")
	cmd.Flags().BoolVar(&opts.Matrix, "matrix", false, "subsample classes per the config matrix")
	cmd.Flags().StringSliceVar(&opts.Scitypes, "scitype", nil, "restrict to estimator roles (repeatable)")

	return cmd
}

func runSuite(opts *RunOptions, cmd *cobra.Command) error {
	// Configure logging based on verbose flag
	logLevel := slog.LevelInfo
	if opts.Verbose {
		logLevel = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{
		Level: logLevel,
	}))

	cfg := config.Default()
	if opts.ConfigPath != "" {
		loaded, err := config.Load(opts.ConfigPath)
		if err != nil {
			return WrapExitError(ExitCommandError, "failed to load config", err)
		}
		cfg = loaded
	}
	if opts.Matrix && cfg.Matrix == nil {
		return NewExitError(ExitCommandError, "--matrix requires a matrix section in the config")
	}

	scitypes, err := parseScitypes(opts.Scitypes)
	if err != nil {
		return WrapExitError(ExitCommandError, "invalid --scitype", err)
	}

	reg := opts.Registry
	if reg == nil {
		reg = registry.Builtin()
	}

	var st *store.Store
	if opts.Database != "" {
		logger.Info("opening results database", "path", opts.Database)
		st, err = store.Open(opts.Database)
		if err != nil {
			return WrapExitError(ExitCommandError, "failed to open database", err)
		}
		defer func() {
			if closeErr := st.Close(); closeErr != nil {
				logger.Error("error closing database", "error", closeErr)
			}
		}()
	}

	// Setup signal handling so an interrupted run still reports cleanly
	parentCtx := cmd.Context()
	if parentCtx == nil {
		parentCtx = context.Background()
	}
	ctx, cancel := context.WithCancel(parentCtx)
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	go func() {
		select {
		case sig := <-sigChan:
			logger.Info("received signal, stopping run", "signal", sig)
			cancel()
		case <-ctx.Done():
		}
	}()

	suite := &conformance.Suite{
		Registry:  reg,
		Config:    cfg,
		Scitypes:  scitypes,
		UseMatrix: opts.Matrix,
		Logger:    logger,
		Store:     st,
	}

	logger.Info("suite starting", "classes", len(reg.Names()), "matrix", opts.Matrix)
	report, err := suite.Run(ctx)
	if err != nil {
		return WrapExitError(ExitFailure, "suite error", err)
	}

	p := opts.printer(cmd)
	if err := p.OK(report, func(w io.Writer) {
		fmt.Fprint(w, report.Summary())
	}); err != nil {
		return err
	}

	_, _, failed, _ := report.Counts()
	if failed > 0 {
		return NewExitError(ExitFailure, fmt.Sprintf("%d case(s) failed", failed))
	}
	return nil
}

// parseScitypes validates the --scitype values against the known roles.
func parseScitypes(raw []string) ([]estimator.Scitype, error) {
	var out []estimator.Scitype
	for _, s := range raw {
		st := estimator.Scitype(s)
		if !slices.Contains(estimator.AllScitypes, st) {
			return nil, fmt.Errorf("unknown scitype %q: must be one of %v", s, estimator.AllScitypes)
		}
		out = append(out, st)
	}
	return out, nil
}
