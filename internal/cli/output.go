package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
)

// Exit codes returned by estcheck commands.
const (
	ExitSuccess      = 0 // Successful execution
	ExitFailure      = 1 // Check failure (one or more conformance cases failed)
	ExitCommandError = 2 // Command error (invalid paths, bad config, unknown run, etc.)
)

// ExitError carries an exit code alongside the error message so main
// can translate command failures into the documented codes.
type ExitError struct {
	Code    int
	Message string
	Err     error
}

func (e *ExitError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

// NewExitError creates an ExitError with the given code and message.
func NewExitError(code int, message string) *ExitError {
	return &ExitError{Code: code, Message: message}
}

// WrapExitError wraps an underlying error with an exit code.
func WrapExitError(code int, message string, err error) *ExitError {
	return &ExitError{Code: code, Message: message, Err: err}
}

// GetExitCode extracts the exit code from an error chain. Errors that
// carry no ExitError map to ExitFailure.
func GetExitCode(err error) int {
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return ExitFailure
}

// Envelope is the JSON response shape shared by all commands.
type Envelope struct {
	Status string         `json:"status"`          // "ok" or "error"
	Data   any            `json:"data,omitempty"`  // success payload
	Error  *ResponseError `json:"error,omitempty"` // error details
}

// ResponseError is the error portion of a JSON envelope.
type ResponseError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

// Printer writes command results either as human-readable text or as
// a JSON envelope, depending on the selected format.
type Printer struct {
	Format  string
	Out     io.Writer
	Err     io.Writer // diagnostic output; falls back to Out when nil
	Verbose bool
}

// JSON reports whether the printer emits JSON envelopes.
func (p *Printer) JSON() bool { return p.Format == "json" }

// OK emits a success. In JSON mode data becomes the envelope payload;
// in text mode the text callback renders to the output writer.
func (p *Printer) OK(data any, text func(w io.Writer)) error {
	if p.JSON() {
		return json.NewEncoder(p.Out).Encode(Envelope{Status: "ok", Data: data})
	}
	if text != nil {
		text(p.Out)
	}
	return nil
}

// Fail emits a structured error. The caller still returns an
// ExitError so the process exits with the right code.
func (p *Printer) Fail(code, message string, details any) error {
	if p.JSON() {
		return json.NewEncoder(p.Out).Encode(Envelope{
			Status: "error",
			Error:  &ResponseError{Code: code, Message: message, Details: details},
		})
	}
	fmt.Fprintf(p.Out, "Error [%s]: %s\n", code, message)
	if p.Verbose && details != nil {
		fmt.Fprintf(p.Out, "Details: %v\n", details)
	}
	return nil
}

// Debugf writes a diagnostic line when verbose mode is on. Diagnostics
// go to the error writer so JSON output stays parseable.
func (p *Printer) Debugf(format string, args ...any) {
	if !p.Verbose {
		return
	}
	fmt.Fprintf(p.errWriter(), format+"\n", args...)
}

func (p *Printer) errWriter() io.Writer {
	if p.Err != nil {
		return p.Err
	}
	return p.Out
}
