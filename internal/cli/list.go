package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/seriate/estcheck/internal/config"
	"github.com/seriate/estcheck/internal/conformance"
	"github.com/seriate/estcheck/internal/estimator"
	"github.com/seriate/estcheck/internal/fixtures"
	"github.com/seriate/estcheck/internal/registry"
)

// ListOptions holds flags for the list command.
type ListOptions struct {
	*RootOptions
	Scitypes []string
	Cases    bool

	// Registry allows overriding the estimator registry (for testing).
	Registry *registry.Registry
}

// ListEntry is the JSON shape for one registered estimator class.
type ListEntry struct {
	Name      string   `json:"name"`
	Scitype   string   `json:"scitype"`
	ParamSets int      `json:"param_sets"`
	Deps      []string `json:"deps,omitempty"`
}

// NewListCommand creates the list command.
func NewListCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ListOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List registered estimator classes",
		Long: `List the estimator classes known to the registry, with their role,
test parameter sets, and soft dependencies.

With --cases, enumerates the fixture combinations each conformance
check would run instead.

Examples:
  estcheck list
  estcheck list --scitype forecaster --scitype classifier
  estcheck list --cases --scitype forecaster
  estcheck list --format json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runList(opts, cmd)
		},
	}

	cmd.Flags().StringSliceVar(&opts.Scitypes, "scitype", nil, "restrict to estimator roles (repeatable)")
	cmd.Flags().BoolVar(&opts.Cases, "cases", false, "enumerate fixture combinations per check")

	return cmd
}

func runList(opts *ListOptions, cmd *cobra.Command) error {
	scitypes, err := parseScitypes(opts.Scitypes)
	if err != nil {
		return WrapExitError(ExitCommandError, "invalid --scitype", err)
	}

	reg := opts.Registry
	if reg == nil {
		reg = registry.Builtin()
	}

	if opts.Cases {
		return listCases(opts, reg, scitypes, cmd)
	}

	entries := reg.Discover(scitypes, nil)
	listed := make([]ListEntry, 0, len(entries))
	for _, e := range entries {
		n := len(e.TestParams)
		if n == 0 {
			n = 1 // default parameters still make one instance
		}
		listed = append(listed, ListEntry{
			Name:      e.Name,
			Scitype:   string(e.Scitype),
			ParamSets: n,
			Deps:      e.Deps,
		})
	}

	return opts.printer(cmd).OK(listed, func(w io.Writer) {
		if len(listed) == 0 {
			fmt.Fprintln(w, "No estimator classes registered.")
			return
		}
		for _, e := range listed {
			line := fmt.Sprintf("%-24s %-22s params=%d", e.Name, e.Scitype, e.ParamSets)
			if len(e.Deps) > 0 {
				line += " deps=" + strings.Join(e.Deps, ",")
			}
			fmt.Fprintln(w, line)
		}
		fmt.Fprintf(w, "%d class(es)\n", len(listed))
	})
}

// CheckCases is the JSON shape for one check's fixture combinations.
type CheckCases struct {
	Check string   `json:"check"`
	Cases []string `json:"cases"`
}

// listCases enumerates the fixture combinations each check would run,
// without executing any of them.
func listCases(opts *ListOptions, reg *registry.Registry, scitypes []estimator.Scitype, cmd *cobra.Command) error {
	src := &fixtures.Source{
		Registry: reg,
		Scitypes: scitypes,
		Config:   config.Default(),
	}
	engine := src.Engine()

	var out []CheckCases
	total := 0
	for _, check := range conformance.Checks() {
		cases, err := engine.Generate(check.Name, check.Vars)
		if err != nil {
			return WrapExitError(ExitCommandError, "fixture generation failed", err)
		}
		names := make([]string, len(cases))
		for i, cs := range cases {
			names[i] = cs.Name
		}
		total += len(cases)
		out = append(out, CheckCases{Check: check.Name, Cases: names})
	}

	return opts.printer(cmd).OK(out, func(w io.Writer) {
		for _, cc := range out {
			fmt.Fprintf(w, "%s (%d)\n", cc.Check, len(cc.Cases))
			for _, name := range cc.Cases {
				fmt.Fprintf(w, "  %s\n", name)
			}
		}
		fmt.Fprintf(w, "%d case(s)\n", total)
	})
}
