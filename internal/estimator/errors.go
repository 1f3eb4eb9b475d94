package estimator

import (
	"errors"
	"fmt"
)

// NotFittedError is returned when a non-state-changing method is
// invoked before Fit. The message always contains "has not been
// fitted"; the conformance suite matches on that phrase.
type NotFittedError struct {
	// Op names the rejected call, e.g. "NaiveForecaster.Predict".
	Op string
}

// Error implements the error interface.
func (e *NotFittedError) Error() string {
	return fmt.Sprintf("%s: estimator has not been fitted yet, call Fit first", e.Op)
}

// IsNotFitted reports whether err is a NotFittedError.
// Uses errors.As to handle wrapped errors.
func IsNotFitted(err error) bool {
	var nfe *NotFittedError
	return errors.As(err, &nfe)
}

// NotImplementedError signals optional behavior an estimator does not
// support for the given input. The conformance suite treats it as an
// early successful exit, not a failure.
type NotImplementedError struct {
	Op     string
	Reason string
}

// Error implements the error interface.
func (e *NotImplementedError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("%s: not implemented: %s", e.Op, e.Reason)
	}
	return fmt.Sprintf("%s: not implemented", e.Op)
}

// IsNotImplemented reports whether err is a NotImplementedError.
// Uses errors.As to handle wrapped errors.
func IsNotImplemented(err error) bool {
	var nie *NotImplementedError
	return errors.As(err, &nie)
}
