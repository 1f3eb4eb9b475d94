package conformance

import (
	"testing"

	"github.com/sebdah/goldie/v2"
)

// AssertGolden compares a report's canonical JSON against a golden
// file in testdata/golden. Run the tests with -update to regenerate.
// Reports fed to this helper need a fixed run ID and clock, otherwise
// the comparison can never match.
func AssertGolden(t *testing.T, name string, report *Report) error {
	t.Helper()

	data, err := report.CanonicalJSON()
	if err != nil {
		return err
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, name, data)
	return nil
}
