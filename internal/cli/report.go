package cli

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/seriate/estcheck/internal/store"
)

// ReportOptions holds flags for the report command.
type ReportOptions struct {
	*RootOptions
	Database   string
	FailedOnly bool
}

// NewReportCommand creates the report command.
func NewReportCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ReportOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "report [run-id]",
		Short: "Inspect recorded suite runs",
		Long: `Inspect conformance runs recorded by "estcheck run --db".

Without a run id, lists the recorded runs, most recent first. With a
run id, prints the per-case results of that run.

Examples:
  estcheck report --db ./results.db
  estcheck report --db ./results.db 0198c2a0-...
  estcheck report --db ./results.db 0198c2a0-... --failed
  estcheck report --db ./results.db --format json`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			runID := ""
			if len(args) == 1 {
				runID = args[0]
			}
			return runReport(opts, runID, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite results database (required)")
	cmd.Flags().BoolVar(&opts.FailedOnly, "failed", false, "show only failing cases")
	_ = cmd.MarkFlagRequired("db")

	return cmd
}

func runReport(opts *ReportOptions, runID string, cmd *cobra.Command) error {
	st, err := store.Open(opts.Database)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to open database", err)
	}
	defer st.Close()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	p := opts.printer(cmd)
	if runID == "" {
		return listRuns(ctx, st, p)
	}
	return showRun(ctx, st, runID, opts.FailedOnly, p)
}

// runSummary is the JSON shape for one recorded run.
type runSummary struct {
	ID        string `json:"id"`
	StartedAt string `json:"started_at"`
	GOOS      string `json:"goos"`
	Matrix    bool   `json:"matrix"`
	Total     int    `json:"total"`
	Passed    int    `json:"passed"`
	Failed    int    `json:"failed"`
	Skipped   int    `json:"skipped"`
}

func listRuns(ctx context.Context, st *store.Store, p *Printer) error {
	runs, err := st.ListRuns(ctx)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to list runs", err)
	}

	summaries := make([]runSummary, 0, len(runs))
	for _, r := range runs {
		summaries = append(summaries, runSummary{
			ID:        r.ID,
			StartedAt: r.StartedAt.Format(time.RFC3339),
			GOOS:      r.GOOS,
			Matrix:    r.Matrix,
			Total:     r.Total,
			Passed:    r.Passed,
			Failed:    r.Failed,
			Skipped:   r.Skipped,
		})
	}

	return p.OK(summaries, func(w io.Writer) {
		if len(summaries) == 0 {
			fmt.Fprintln(w, "No runs recorded.")
			return
		}
		for _, s := range summaries {
			fmt.Fprintf(w, "%s  %s  %s  total=%d passed=%d failed=%d skipped=%d\n",
				s.ID, s.StartedAt, s.GOOS, s.Total, s.Passed, s.Failed, s.Skipped)
		}
	})
}

func showRun(ctx context.Context, st *store.Store, runID string, failedOnly bool, p *Printer) error {
	results, err := st.RunResults(ctx, runID)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to read results", err)
	}
	if len(results) == 0 {
		return NewExitError(ExitCommandError, fmt.Sprintf("no results for run %q", runID))
	}

	if failedOnly {
		kept := results[:0]
		for _, r := range results {
			if r.Status == store.StatusFail {
				kept = append(kept, r)
			}
		}
		results = kept
	}

	type caseResult struct {
		Check  string `json:"check"`
		Case   string `json:"case"`
		Status string `json:"status"`
		Detail string `json:"detail,omitempty"`
	}
	out := make([]caseResult, 0, len(results))
	for _, r := range results {
		out = append(out, caseResult{Check: r.Check, Case: r.Case, Status: r.Status, Detail: r.Detail})
	}

	marks := map[string]string{
		store.StatusPass: "✓",
		store.StatusFail: "✗",
		store.StatusSkip: "-",
	}
	return p.OK(out, func(w io.Writer) {
		for _, r := range results {
			fmt.Fprintf(w, "%s %s / %s\n", marks[r.Status], r.Check, r.Case)
			if r.Detail != "" && (p.Verbose || r.Status == store.StatusFail) {
				fmt.Fprintf(w, "  %s\n", r.Detail)
			}
		}
	})
}
