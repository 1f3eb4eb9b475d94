package testutil

// FixedRunIDGenerator generates the same run identifier every time.
//
// The suite normally assigns each run a fresh UUIDv7. Tests that compare
// reports against golden snapshots need a stable id instead, so the same
// run produces byte-identical canonical JSON.
//
// Thread-safety: FixedRunIDGenerator is stateless and safe for concurrent use.
type FixedRunIDGenerator struct {
	id string
}

// NewFixedRunIDGenerator creates a generator that always yields id.
//
// If id is empty, Generate() returns "test-run-default".
func NewFixedRunIDGenerator(id string) *FixedRunIDGenerator {
	if id == "" {
		id = "test-run-default"
	}
	return &FixedRunIDGenerator{id: id}
}

// Generate returns the fixed run id.
//
// Matches the conformance.Suite NewRunID hook signature.
func (g *FixedRunIDGenerator) Generate() (string, error) {
	return g.id, nil
}
