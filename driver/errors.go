package driver

import (
	"context"
	"errors"
	"fmt"

	"finbench/operation"
)

var (
	// ErrConfig is returned when the properties given to Init are missing or malformed.
	ErrConfig = errors.New("config error")
	// ErrConnection is returned when the backend cannot be reached or a session cannot be acquired.
	ErrConnection = errors.New("connection error")
	// ErrUnsupportedOperation is returned when no handler is registered for an operation kind.
	ErrUnsupportedOperation = errors.New("unsupported operation")
	// ErrUseAfterClose is returned when a closed Db is used.
	ErrUseAfterClose = errors.New("db used after close")
	// ErrNotInitialized is returned when a Db is used before Init.
	ErrNotInitialized = errors.New("db not initialized")
	// ErrAlreadyInitialized is returned by a second Init.
	ErrAlreadyInitialized = errors.New("db already initialized")
	// ErrBackendQuery is matched by every *QueryError.
	ErrBackendQuery = errors.New("backend query failed")
	// ErrTimeout is matched by a *QueryError caused by a deadline.
	ErrTimeout = errors.New("backend query timed out")
	// ErrConstraintViolation is matched by a *QueryError caused by a constraint or an
	// unexpected mutation count.
	ErrConstraintViolation = errors.New("constraint violation")
	// ErrResourceRelease is returned when a session or the backend cannot be released.
	ErrResourceRelease = errors.New("resource release failed")
)

type Failure int

const (
	FailureQuery Failure = iota
	FailureTimeout
	FailureConstraint
)

func (f Failure) String() string {
	switch f {
	case FailureTimeout:
		return "timeout"
	case FailureConstraint:
		return "constraint"
	}
	return "query"
}

// QueryError wraps a backend failure raised while executing an operation.
type QueryError struct {
	Kind    operation.Kind
	Failure Failure
	Err     error
}

func (e *QueryError) Error() string {
	return fmt.Sprintf("%s: %s (%s): %v", ErrBackendQuery, e.Kind, e.Failure, e.Err)
}

func (e *QueryError) Unwrap() error {
	return e.Err
}

func (e *QueryError) Is(target error) bool {
	switch target {
	case ErrBackendQuery:
		return true
	case ErrTimeout:
		return e.Failure == FailureTimeout
	case ErrConstraintViolation:
		return e.Failure == FailureConstraint
	}
	return false
}

// NewQueryError wraps err, classifying context deadlines as timeouts. It returns nil
// for a nil err and keeps an existing *QueryError as is.
func NewQueryError(kind operation.Kind, err error) error {
	if err == nil {
		return nil
	}
	var qe *QueryError
	if errors.As(err, &qe) {
		return err
	}
	failure := FailureQuery
	if errors.Is(err, context.DeadlineExceeded) {
		failure = FailureTimeout
	}
	return &QueryError{Kind: kind, Failure: failure, Err: err}
}

// Constraint reports a violated expectation, such as an unexpected number of affected rows.
func Constraint(kind operation.Kind, format string, args ...any) error {
	return &QueryError{Kind: kind, Failure: FailureConstraint, Err: fmt.Errorf(format, args...)}
}
