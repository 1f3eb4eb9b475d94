package estimator

// Base carries the fitted-state flag shared by all estimators with a
// fit phase. Embed it by value; the flag serializes with the estimator
// state so persistence round trips restore fittedness.
//
// The exported Fitted field is the internal flag, IsFitted the public
// accessor. The conformance suite checks both, via BaseOf and the
// Estimator interface respectively.
type Base struct {
	Fitted bool `json:"fitted"`
}

// IsFitted reports whether Fit has completed successfully.
func (b *Base) IsFitted() bool { return b.Fitted }

// markFitted flips the fitted flag. Called at the end of every
// successful Fit.
func (b *Base) markFitted() { b.Fitted = true }

// requireFitted returns a NotFittedError naming op if Fit has not been
// called. Every non-state-changing method starts with this guard.
func (b *Base) requireFitted(op string) error {
	if !b.Fitted {
		return &NotFittedError{Op: op}
	}
	return nil
}

func (b *Base) base() *Base { return b }

type baseHolder interface {
	base() *Base
}

// BaseOf returns the embedded Base of obj, if it has one. Objects
// without a fit phase (pairwise transformers) return false.
func BaseOf(obj any) (*Base, bool) {
	h, ok := obj.(baseHolder)
	if !ok {
		return nil, false
	}
	return h.base(), true
}
