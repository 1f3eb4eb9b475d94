package conformance

import (
	"context"
	"fmt"
	"reflect"

	"github.com/seriate/estcheck/internal/config"
	"github.com/seriate/estcheck/internal/estimator"
	"github.com/seriate/estcheck/internal/persist"
	"github.com/seriate/estcheck/internal/registry"
)

// RunEstimator runs the full battery against a single estimator
// instance without registry discovery. The instance itself is never
// mutated; every check works on clones. name labels the estimator in
// the report and the persistence envelope.
func RunEstimator(ctx context.Context, name string, obj estimator.Object) (*Report, error) {
	if name == "" {
		return nil, fmt.Errorf("conformance: estimator name is empty")
	}
	roles := estimator.Roles(obj)
	if len(roles) == 0 {
		return nil, fmt.Errorf("conformance: %T matches no estimator role", obj)
	}

	pristine := obj.Clone()
	if existing, ok := persist.New(name); ok {
		// Reusing a name for a different estimator type would restore
		// through the wrong factory in the persistence checks.
		if reflect.TypeOf(existing) != reflect.TypeOf(obj) {
			return nil, fmt.Errorf("conformance: name %q is registered for %T, not %T", name, existing, obj)
		}
	} else {
		persist.Register(name, func() estimator.Object { return pristine.Clone() })
	}

	reg := registry.New()
	reg.Register(&registry.Entry{
		Name:    name,
		Scitype: roles[0],
		New: func(p estimator.Params) estimator.Object {
			// Single-instance runs rebuild from the pristine clone;
			// the caller's hyperparameters are already baked in.
			return pristine.Clone()
		},
	})

	suite := &Suite{Registry: reg, Config: config.Default()}
	return suite.Run(ctx)
}
