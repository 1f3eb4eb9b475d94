package conformance

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/seriate/estcheck/internal/canonjson"
	"github.com/seriate/estcheck/internal/store"
)

// Result is the outcome of one check for one fixture case.
type Result struct {
	Check  string `json:"check"`
	Case   string `json:"case"`
	Status string `json:"status"`
	Detail string `json:"detail,omitempty"`
}

// Report is the full outcome of one suite run.
type Report struct {
	RunID     string    `json:"run_id"`
	StartedAt time.Time `json:"started_at"`
	GOOS      string    `json:"goos"`
	Matrix    bool      `json:"matrix"`
	Results   []Result  `json:"results"`
}

// Counts tallies results by status.
func (r *Report) Counts() (total, passed, failed, skipped int) {
	for _, res := range r.Results {
		total++
		switch res.Status {
		case store.StatusPass:
			passed++
		case store.StatusFail:
			failed++
		case store.StatusSkip:
			skipped++
		}
	}
	return
}

// Failures returns the failing results, sorted by check then case.
func (r *Report) Failures() []Result {
	var out []Result
	for _, res := range r.Results {
		if res.Status == store.StatusFail {
			out = append(out, res)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Check != out[j].Check {
			return out[i].Check < out[j].Check
		}
		return out[i].Case < out[j].Case
	})
	return out
}

// CanonicalJSON serializes the report deterministically, suitable for
// golden comparison.
func (r *Report) CanonicalJSON() ([]byte, error) {
	return canonjson.Snapshot(r)
}

// Summary renders a short human-readable report.
func (r *Report) Summary() string {
	total, passed, failed, skipped := r.Counts()

	var b strings.Builder
	fmt.Fprintf(&b, "run %s on %s: %d checks, %d passed, %d failed, %d skipped\n",
		r.RunID, r.GOOS, total, passed, failed, skipped)
	for _, f := range r.Failures() {
		fmt.Fprintf(&b, "  FAIL %s/%s: %s\n", f.Check, f.Case, f.Detail)
	}
	return b.String()
}

// StoreRun converts the report to the store's run header and result
// rows.
func (r *Report) StoreRun() (store.Run, []store.CheckResult) {
	total, passed, failed, skipped := r.Counts()
	run := store.Run{
		ID:        r.RunID,
		StartedAt: r.StartedAt,
		GOOS:      r.GOOS,
		Matrix:    r.Matrix,
		Total:     total,
		Passed:    passed,
		Failed:    failed,
		Skipped:   skipped,
	}
	results := make([]store.CheckResult, len(r.Results))
	for i, res := range r.Results {
		results[i] = store.CheckResult{
			Check:  res.Check,
			Case:   res.Case,
			Status: res.Status,
			Detail: res.Detail,
		}
	}
	return run, results
}
