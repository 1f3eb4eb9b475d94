// Package registry holds the estimator catalog the conformance suite
// discovers classes from. Entries are immutable after registration;
// discovery applies role filters, exclusion lists, dependency gating
// and the optional platform subsampling matrix.
package registry

import (
	"fmt"
	"slices"
	"sort"
	"sync"

	"github.com/seriate/estcheck/internal/estimator"
)

// Entry describes one registered estimator class.
type Entry struct {
	// Name is the unique class name used in reports and exclusion
	// tables.
	Name string

	// Scitype is the primary role of instances built by New.
	Scitype estimator.Scitype

	// New builds an unfitted instance from hyperparameters. A nil
	// Params yields the class defaults.
	New func(p estimator.Params) estimator.Object

	// TestParams lists the hyperparameter sets exercised by the
	// suite. An empty list means defaults only.
	TestParams []estimator.Params

	// Deps names the soft dependencies the class needs at runtime.
	Deps []string
}

// TestInstances builds one fresh instance per test parameter set and
// the display name for each. A single set keeps the bare class name;
// multiple sets get a positional suffix.
func (e *Entry) TestInstances() ([]estimator.Object, []string) {
	params := e.TestParams
	if len(params) == 0 {
		params = []estimator.Params{nil}
	}
	instances := make([]estimator.Object, len(params))
	names := make([]string, len(params))
	for i, p := range params {
		instances[i] = e.New(p)
		if len(params) == 1 {
			names[i] = e.Name
		} else {
			names[i] = fmt.Sprintf("%s-%d", e.Name, i)
		}
	}
	return instances, names
}

// Registry is a fixed catalog of entries keyed by name.
type Registry struct {
	mu      sync.RWMutex
	entries map[string]*Entry
}

func New() *Registry {
	return &Registry{entries: map[string]*Entry{}}
}

// Register adds an entry. Duplicate names and nil factories are
// registration bugs and panic.
func (r *Registry) Register(e *Entry) {
	if e.Name == "" || e.New == nil {
		panic(fmt.Sprintf("registry: invalid entry %+v", e))
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, dup := r.entries[e.Name]; dup {
		panic(fmt.Sprintf("registry: duplicate entry %q", e.Name))
	}
	r.entries[e.Name] = e
}

// Lookup returns the entry for name, if registered.
func (r *Registry) Lookup(name string) (*Entry, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.entries[name]
	return e, ok
}

// Discover returns entries matching the role filter and not named in
// exclude, sorted by name. An empty filter means all roles.
func (r *Registry) Discover(filter []estimator.Scitype, exclude []string) []*Entry {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []*Entry
	for _, e := range r.entries {
		if len(filter) > 0 && !slices.Contains(filter, e.Scitype) {
			continue
		}
		if slices.Contains(exclude, e.Name) {
			continue
		}
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Names returns all registered entry names, sorted.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.entries))
	for n := range r.entries {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
