// Package errors provides the indexer's unified fault taxonomy.
//
// Every failure a tick phase can hit is categorized into one of a small set
// of FaultKinds, which in turn determines how the phase must handle it:
// permanent decode errors and dangling references are logged and the queue
// row is acknowledged and skipped; transient I/O errors abort the current
// transaction, leave the queue row in place, and bubble up so the run loop
// can sleep and retry; invariant violations are logged and the item is
// skipped without ever corrupting derived history.
package errors

import (
	"errors"
	"fmt"
)

// FaultKind classifies a Fault by the handling policy it requires, not by
// where it originated.
type FaultKind string

const (
	// MalformedInput marks undecodable calldata, an unrecognized log
	// signature, or any other payload that can never be processed.
	// Redelivery would never succeed, so the row is acknowledged and the
	// item is skipped.
	MalformedInput FaultKind = "malformed_input"

	// DanglingReference marks a queue row referencing a tx, log, or entity
	// that no longer exists. Acknowledged and skipped, same as
	// MalformedInput.
	DanglingReference FaultKind = "dangling_reference"

	// Transient marks a retryable I/O failure such as a lost database
	// connection. The enclosing transaction is aborted, the queue row is
	// left in place, and the error propagates to the run loop.
	Transient FaultKind = "transient"

	// Invariant marks a logic invariant violation. Logged and the item is
	// skipped; history must never be left corrupt.
	Invariant FaultKind = "invariant"
)

// Fault is a structured error carrying the FaultKind that determines how a
// tick phase must respond to it.
type Fault struct {
	Kind    FaultKind
	Message string
	Err     error
}

// Error implements the error interface.
func (f *Fault) Error() string {
	if f.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", f.Kind, f.Message, f.Err)
	}
	return fmt.Sprintf("[%s] %s", f.Kind, f.Message)
}

// Unwrap returns the wrapped error, if any.
func (f *Fault) Unwrap() error {
	return f.Err
}

// New creates a Fault with no wrapped error.
func New(kind FaultKind, message string) *Fault {
	return &Fault{Kind: kind, Message: message}
}

// Wrap creates a Fault wrapping an existing error.
func Wrap(kind FaultKind, message string, err error) *Fault {
	return &Fault{Kind: kind, Message: message, Err: err}
}

// Malformed wraps err as a MalformedInput fault.
func Malformed(message string, err error) *Fault {
	return Wrap(MalformedInput, message, err)
}

// Dangling wraps err as a DanglingReference fault.
func Dangling(message string, err error) *Fault {
	return Wrap(DanglingReference, message, err)
}

// TransientErr wraps err as a Transient fault.
func TransientErr(message string, err error) *Fault {
	return Wrap(Transient, message, err)
}

// InvariantViolation wraps err as an Invariant fault.
func InvariantViolation(message string, err error) *Fault {
	return Wrap(Invariant, message, err)
}

// As extracts a *Fault from an error chain.
func As(err error) (*Fault, bool) {
	var f *Fault
	if errors.As(err, &f) {
		return f, true
	}
	return nil, false
}

// KindOf returns the FaultKind of err, defaulting to Transient for errors
// that were never categorized — the safe default, since it leaves the row
// queued rather than silently dropping it.
func KindOf(err error) FaultKind {
	if f, ok := As(err); ok {
		return f.Kind
	}
	return Transient
}

// IsSkippable reports whether err's queue row should be acknowledged and the
// item skipped rather than retried on the next tick.
func IsSkippable(err error) bool {
	switch KindOf(err) {
	case MalformedInput, DanglingReference, Invariant:
		return true
	default:
		return false
	}
}
