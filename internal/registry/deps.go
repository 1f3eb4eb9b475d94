package registry

import (
	"fmt"
	"strings"
)

// Severity levels for soft-dependency checking.
const (
	SeverityNone  = "none"
	SeverityWarn  = "warning"
	SeverityError = "error"
)

// DepSet records which soft dependencies are available in the current
// environment.
type DepSet map[string]bool

// MissingDepsError reports soft dependencies an entry needs but the
// environment lacks.
type MissingDepsError struct {
	Entry   string
	Missing []string
}

func (e *MissingDepsError) Error() string {
	return fmt.Sprintf("registry: %s requires unavailable dependencies: %s",
		e.Entry, strings.Join(e.Missing, ", "))
}

// Compatible reports whether every dependency of e is available. At
// SeverityNone and SeverityWarn a missing dependency is never an
// error; the entry is simply not compatible. SeverityError promotes
// the miss to a MissingDepsError.
func (d DepSet) Compatible(e *Entry, severity string) (bool, error) {
	var missing []string
	for _, dep := range e.Deps {
		if !d[dep] {
			missing = append(missing, dep)
		}
	}
	if len(missing) == 0 {
		return true, nil
	}
	if severity == SeverityError {
		return false, &MissingDepsError{Entry: e.Name, Missing: missing}
	}
	return false, nil
}

// Has reports availability of a single dependency.
func (d DepSet) Has(name string) bool {
	return d[name]
}
