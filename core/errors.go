package core

import (
	"errors"
	"fmt"
)

// Configuration errors. Always fatal, never retried.
var (
	ErrProfileNotFound   = errors.New("profile not found")
	ErrMissingAuth       = errors.New("profile has no authentication method: set either password or private_key")
	ErrAmbiguousAuth     = errors.New("profile has ambiguous authentication: set either password or private_key, not both")
	ErrInvalidIterations = errors.New("iteration count must be at least 1")
	ErrShapeMismatch     = errors.New("query result shape is not supported by the selected backend")
)

type ConnectErrorKind int

const (
	ConnectUnknown ConnectErrorKind = iota
	ConnectNetwork
	ConnectAuthRejected
	ConnectMalformedCredential
)

func (k ConnectErrorKind) String() string {
	switch k {
	case ConnectNetwork:
		return "network"
	case ConnectAuthRejected:
		return "auth_rejected"
	case ConnectMalformedCredential:
		return "malformed_credential"
	default:
		return "unknown"
	}
}

// ConnectError is a failure to establish a backend session. It carries the
// backend identity so failures can be attributed without re-running.
// The wrapped error must never contain secret material.
type ConnectError struct {
	Backend string
	Kind    ConnectErrorKind
	err     error
}

func NewConnectError(backend string, kind ConnectErrorKind, err error) *ConnectError {
	return &ConnectError{Backend: backend, Kind: kind, err: err}
}

func (e *ConnectError) Error() string {
	return fmt.Sprintf("%s: connect (%s): %v", e.Backend, e.Kind, e.err)
}

func (e *ConnectError) Unwrap() error { return e.err }

type ExecErrorKind int

const (
	ExecUnknown ExecErrorKind = iota
	ExecQueryFailed
	ExecTransport
	ExecCanceled
)

func (k ExecErrorKind) String() string {
	switch k {
	case ExecQueryFailed:
		return "query_failed"
	case ExecTransport:
		return "transport"
	case ExecCanceled:
		return "canceled"
	default:
		return "unknown"
	}
}

// ExecError is a failure while executing a query or retrieving its result.
// Iteration is -1 outside of benchmark runs.
type ExecError struct {
	Backend   string
	Iteration int
	Kind      ExecErrorKind
	err       error
}

func NewExecError(backend string, kind ExecErrorKind, err error) *ExecError {
	return &ExecError{Backend: backend, Iteration: -1, Kind: kind, err: err}
}

func (e *ExecError) Error() string {
	if e.Iteration >= 0 {
		return fmt.Sprintf("%s: execute (%s, iteration %d): %v", e.Backend, e.Kind, e.Iteration, e.err)
	}
	return fmt.Sprintf("%s: execute (%s): %v", e.Backend, e.Kind, e.err)
}

func (e *ExecError) Unwrap() error { return e.err }

// Retryable reports whether the failure is a transient transport condition
// rather than a fatal one (auth, malformed SQL).
func (e *ExecError) Retryable() bool {
	return e.Kind == ExecTransport
}
