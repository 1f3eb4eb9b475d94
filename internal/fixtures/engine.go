// Package fixtures implements conditional fixture generation: an
// ordered sequence of fixture variables where each generator sees the
// values already bound for earlier variables, and an empty generation
// collapses the branch so no case is emitted for that prefix.
package fixtures

import (
	"fmt"
	"strings"
)

// Bindings maps fixture variable names to the values bound so far on
// one branch of the generation tree.
type Bindings map[string]any

func (b Bindings) clone() Bindings {
	out := make(Bindings, len(b)+1)
	for k, v := range b {
		out[k] = v
	}
	return out
}

// Generator produces the candidate values for one fixture variable
// given the check being generated for and the values bound upstream.
// The returned names label each value in the case identifier; when
// names is nil the values are labeled by position.
type Generator func(checkName string, bound Bindings) (values []any, names []string, err error)

// Case is one fully-bound combination of fixture values.
type Case struct {
	// Name joins the labels of the requested variables with "-".
	Name string

	// Values holds every variable bound while generating this case,
	// including upstream variables the caller did not request.
	Values Bindings
}

// Engine generates cases by walking the variable sequence in order
// and taking the cross product of each variable's candidates.
type Engine struct {
	// Sequence fixes generation order. A variable may only depend on
	// variables earlier in the sequence.
	Sequence []string

	// Generators maps each variable in Sequence to its generator.
	Generators map[string]Generator
}

// Generate builds all cases for checkName over the requested fixture
// variables. vars must appear in Sequence; variables earlier in the
// sequence than any requested one are still generated and bound so
// downstream generators can condition on them, but only requested
// variables contribute to the case name.
func (e *Engine) Generate(checkName string, vars []string) ([]Case, error) {
	if len(vars) == 0 {
		return []Case{{Name: "", Values: Bindings{}}}, nil
	}

	requested := map[string]bool{}
	for _, v := range vars {
		if _, ok := e.Generators[v]; !ok {
			return nil, fmt.Errorf("fixtures: no generator for variable %q", v)
		}
		requested[v] = true
	}

	// Generation stops at the last requested variable; later ones
	// cannot influence it.
	last := -1
	for i, v := range e.Sequence {
		if requested[v] {
			last = i
		}
	}
	if last < 0 {
		return nil, fmt.Errorf("fixtures: variables %v not in sequence", vars)
	}
	active := e.Sequence[:last+1]

	var cases []Case
	err := e.expand(checkName, active, requested, Bindings{}, nil, &cases)
	if err != nil {
		return nil, err
	}
	return cases, nil
}

func (e *Engine) expand(checkName string, remaining []string, requested map[string]bool, bound Bindings, labels []string, out *[]Case) error {
	if len(remaining) == 0 {
		*out = append(*out, Case{Name: strings.Join(labels, "-"), Values: bound.clone()})
		return nil
	}

	variable := remaining[0]
	gen, ok := e.Generators[variable]
	if !ok {
		return fmt.Errorf("fixtures: no generator for variable %q", variable)
	}

	values, names, err := gen(checkName, bound)
	if err != nil {
		return fmt.Errorf("fixtures: generate %q: %w", variable, err)
	}
	// An empty generation collapses this branch: no cases for this
	// prefix, which reads as a skip rather than a failure.
	if len(values) == 0 {
		return nil
	}
	if names != nil && len(names) != len(values) {
		return fmt.Errorf("fixtures: %q returned %d values but %d names", variable, len(values), len(names))
	}

	for i, v := range values {
		next := bound.clone()
		next[variable] = v

		nextLabels := labels
		if requested[variable] {
			label := fmt.Sprintf("%d", i)
			if names != nil {
				label = names[i]
			}
			nextLabels = append(labels[:len(labels):len(labels)], label)
		}
		if err := e.expand(checkName, remaining[1:], requested, next, nextLabels, out); err != nil {
			return err
		}
	}
	return nil
}
