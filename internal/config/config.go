// Package config loads the harness configuration: estimator exclusion
// tables, per-check excluded estimators, soft-dependency availability
// and the platform subsampling matrix. YAML parsing is strict, and an
// embedded CUE schema validates the decoded document before any typed
// validation runs.
package config

import (
	"bytes"
	_ "embed"
	"fmt"
	"os"
	"runtime"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"gopkg.in/yaml.v3"

	"github.com/seriate/estcheck/internal/registry"
)

//go:embed schema.cue
var schemaCUE string

// Config is the full harness configuration document.
type Config struct {
	// ExcludeEstimators names classes skipped by every check.
	ExcludeEstimators []string `yaml:"exclude_estimators,omitempty" json:"exclude_estimators,omitempty"`

	// ExcludedChecks maps a check name to the estimator classes it
	// must not run against.
	ExcludedChecks map[string][]string `yaml:"excluded_checks,omitempty" json:"excluded_checks,omitempty"`

	// SoftDeps records which optional dependencies are available.
	SoftDeps map[string]bool `yaml:"soft_deps,omitempty" json:"soft_deps,omitempty"`

	// Matrix is the platform subsampling configuration. A nil Matrix
	// disables subsampling and every class runs everywhere.
	Matrix *registry.MatrixConfig `yaml:"matrix,omitempty" json:"matrix,omitempty"`
}

// Default returns the configuration used when no file is given: all
// soft dependencies present, nothing excluded, no subsampling.
func Default() *Config {
	return &Config{
		SoftDeps: map[string]bool{
			"netlib": true,
			"proba":  true,
		},
	}
}

// Load reads, schema-checks and validates a YAML configuration file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}
	return Parse(data)
}

// Parse decodes and validates configuration bytes.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true) // Reject unknown fields
	if err := dec.Decode(&cfg); err != nil {
		return nil, fmt.Errorf("config: parse YAML: %w", err)
	}

	if err := validateSchema(&cfg); err != nil {
		return nil, err
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// validateSchema unifies the decoded document with the embedded CUE
// schema, catching shape errors typed decoding cannot express.
func validateSchema(cfg *Config) error {
	ctx := cuecontext.New()

	schema := ctx.CompileString(schemaCUE)
	if err := schema.Err(); err != nil {
		return fmt.Errorf("config: compile schema: %w", err)
	}

	doc := ctx.Encode(cfg)
	if err := doc.Err(); err != nil {
		return fmt.Errorf("config: encode document: %w", err)
	}

	unified := schema.LookupPath(cue.ParsePath("#Config")).Unify(doc)
	if err := unified.Validate(); err != nil {
		return fmt.Errorf("config: schema validation: %w", err)
	}
	return nil
}

func (c *Config) validate() error {
	if c.Matrix != nil {
		if err := c.Matrix.Validate(); err != nil {
			return fmt.Errorf("config: %w", err)
		}
		if _, err := c.Matrix.OffsetFor(runtime.GOOS); err != nil {
			return fmt.Errorf("config: %w", err)
		}
	}
	for check, classes := range c.ExcludedChecks {
		if check == "" {
			return fmt.Errorf("config: excluded_checks has an empty check name")
		}
		for _, cls := range classes {
			if cls == "" {
				return fmt.Errorf("config: excluded_checks[%s] has an empty class name", check)
			}
		}
	}
	return nil
}

// DepSet converts the soft-dependency table to the registry's form.
func (c *Config) DepSet() registry.DepSet {
	deps := make(registry.DepSet, len(c.SoftDeps))
	for name, avail := range c.SoftDeps {
		deps[name] = avail
	}
	return deps
}

// CheckExcludes returns the classes excluded from the named check.
func (c *Config) CheckExcludes(check string) []string {
	return c.ExcludedChecks[check]
}
