// Package persist serializes estimators to a self-describing JSON
// envelope and reconstructs them, preserving hyperparameters and
// fitted state. Types must be registered by name before Unmarshal can
// resolve them.
package persist

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"sync"

	"github.com/seriate/estcheck/internal/estimator"
)

// envelope is the on-disk format. Version guards future migrations.
type envelope struct {
	Version int             `json:"version"`
	Type    string          `json:"type"`
	State   json.RawMessage `json:"state"`
}

const envelopeVersion = 1

// Factory builds an empty estimator the decoder fills in.
type Factory func() estimator.Object

var (
	mu        sync.RWMutex
	factories = map[string]Factory{}
)

// Register associates a type name with its factory. Re-registering a
// name panics, matching the behavior of misconfigured init blocks.
func Register(name string, f Factory) {
	mu.Lock()
	defer mu.Unlock()
	if _, dup := factories[name]; dup {
		panic(fmt.Sprintf("persist: duplicate registration of %q", name))
	}
	factories[name] = f
}

// New builds a fresh empty instance from the factory registered for
// name. The second result is false when the name is unknown.
func New(name string) (estimator.Object, bool) {
	mu.RLock()
	factory, ok := factories[name]
	mu.RUnlock()
	if !ok {
		return nil, false
	}
	return factory(), true
}

// Registered reports whether a type name has a factory.
func Registered(name string) bool {
	mu.RLock()
	defer mu.RUnlock()
	_, ok := factories[name]
	return ok
}

// RegisteredTypes returns the registered type names, sorted.
func RegisteredTypes() []string {
	mu.RLock()
	defer mu.RUnlock()
	names := make([]string, 0, len(factories))
	for n := range factories {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Marshal serializes obj under the given registered type name.
func Marshal(name string, obj estimator.Object) ([]byte, error) {
	mu.RLock()
	_, ok := factories[name]
	mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("persist: type %q is not registered", name)
	}

	state, err := json.Marshal(obj)
	if err != nil {
		return nil, fmt.Errorf("persist: encode %q: %w", name, err)
	}
	return json.MarshalIndent(envelope{
		Version: envelopeVersion,
		Type:    name,
		State:   state,
	}, "", "  ")
}

// Unmarshal reconstructs an estimator from envelope bytes.
func Unmarshal(data []byte) (estimator.Object, error) {
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("persist: decode envelope: %w", err)
	}
	if env.Version != envelopeVersion {
		return nil, fmt.Errorf("persist: unsupported envelope version %d", env.Version)
	}

	mu.RLock()
	factory, ok := factories[env.Type]
	mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("persist: type %q is not registered", env.Type)
	}

	obj := factory()
	if err := json.Unmarshal(env.State, obj); err != nil {
		return nil, fmt.Errorf("persist: decode %q state: %w", env.Type, err)
	}
	return obj, nil
}

// Save writes the envelope for obj to path.
func Save(path, name string, obj estimator.Object) error {
	data, err := Marshal(name, obj)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("persist: write %s: %w", path, err)
	}
	return nil
}

// Load reads an envelope from path and reconstructs the estimator.
func Load(path string) (estimator.Object, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("persist: read %s: %w", path, err)
	}
	return Unmarshal(data)
}
