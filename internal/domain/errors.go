package domain

import (
	"errors"
	"fmt"
)

// ErrorKind classifies the recoverable failure modes of a pipeline run.
// Every kind is recovered locally: a stage converts it into an unavailable
// sentinel or a SyncReport error entry and the run proceeds.
type ErrorKind string

const (
	ErrProviderUnavailable ErrorKind = "provider_unavailable"
	ErrMalformedResponse   ErrorKind = "malformed_response"
	ErrInsufficientHistory ErrorKind = "insufficient_history"
	ErrPersistenceFailure  ErrorKind = "persistence_failure"
	ErrConfigMissing       ErrorKind = "config_missing"
)

// SyncError wraps an underlying failure with its kind and the operation that
// produced it, so callers can distinguish "no data" from "formula not
// applicable" from "provider broken".
type SyncError struct {
	Kind ErrorKind
	Op   string
	Err  error
}

func (e *SyncError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %s", e.Op, e.Kind)
	}
	return fmt.Sprintf("%s: %s: %v", e.Op, e.Kind, e.Err)
}

func (e *SyncError) Unwrap() error {
	return e.Err
}

// Errorf builds a SyncError with a formatted cause.
func Errorf(kind ErrorKind, op, format string, args ...any) *SyncError {
	return &SyncError{Kind: kind, Op: op, Err: fmt.Errorf(format, args...)}
}

// WrapError attaches a kind and operation to an existing error. A nil err
// returns nil.
func WrapError(kind ErrorKind, op string, err error) error {
	if err == nil {
		return nil
	}
	var se *SyncError
	if errors.As(err, &se) {
		return &SyncError{Kind: se.Kind, Op: op, Err: err}
	}
	return &SyncError{Kind: kind, Op: op, Err: err}
}

// KindOf extracts the ErrorKind from err, defaulting to provider_unavailable
// for untyped failures at the acquisition boundary.
func KindOf(err error) ErrorKind {
	var se *SyncError
	if errors.As(err, &se) {
		return se.Kind
	}
	return ErrProviderUnavailable
}
