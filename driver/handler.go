package driver

import (
	"context"
	"fmt"

	"finbench/operation"
)

// OperationHandler executes one kind of operation against a backend session. On
// success it reports every record and then signals completion.
type OperationHandler interface {
	ExecuteOperation(ctx context.Context, op operation.Operation, state ConnectionState, reporter ResultReporter) error
}

type HandlerFunc func(ctx context.Context, op operation.Operation, state ConnectionState, reporter ResultReporter) error

func (f HandlerFunc) ExecuteOperation(ctx context.Context, op operation.Operation, state ConnectionState, reporter ResultReporter) error {
	return f(ctx, op, state, reporter)
}

// HandlerFactory returns the handler bound to a single dispatch.
type HandlerFactory func() OperationHandler

// Registry maps every supported kind to its handler factory.
type Registry map[operation.Kind]HandlerFactory

// Returns the registered kinds, in catalogue order
func (r Registry) Kinds() []operation.Kind {
	kinds := []operation.Kind{}
	for _, k := range operation.Kinds() {
		if _, ok := r[k]; ok {
			kinds = append(kinds, k)
		}
	}
	return kinds
}

// Handle adapts a typed handler function. The operation and the session are
// asserted to O and C, and the reporter is completed once fn succeeds.
func Handle[O operation.Operation, C ConnectionState](fn func(ctx context.Context, op O, conn C, reporter ResultReporter) error) HandlerFactory {
	handler := HandlerFunc(func(ctx context.Context, op operation.Operation, state ConnectionState, reporter ResultReporter) error {
		typed, ok := op.(O)
		if !ok {
			var want O
			return fmt.Errorf("%w: handler for %T received %T", ErrUnsupportedOperation, want, op)
		}
		conn, ok := state.(C)
		if !ok {
			var want C
			return fmt.Errorf("%w: handler expects %T session, got %T", ErrConnection, want, state)
		}

		if err := fn(ctx, typed, conn, reporter); err != nil {
			return err
		}
		reporter.Complete()
		return nil
	})

	return func() OperationHandler {
		return handler
	}
}
