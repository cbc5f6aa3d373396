package driver

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"sync"
	"sync/atomic"
	"time"

	"finbench/operation"

	"github.com/google/uuid"
	zlog "github.com/rs/zerolog/log"
)

const DefaultCloseTimeout = 30 * time.Second

// Engine is implemented once per storage backend.
type Engine interface {
	// Name of the engine, used in logs and results
	Name() string
	// Establishes the backend resources. Close must undo a partial Connect, after
	// which Connect may be called again.
	Connect(ctx context.Context, props Properties) error
	// Acquires an independent session for one dispatch
	Session(ctx context.Context) (ConnectionState, error)
	// Releases all backend resources
	Close() error
}

type dbState int

const (
	stateNew dbState = iota
	stateReady
	stateClosed
)

// Db owns an engine's connection resources and the kind to handler registry for
// one benchmark run. It is safe for concurrent dispatch between Init and Close.
type Db struct {
	engine Engine

	mu           sync.RWMutex
	state        dbState
	registry     Registry
	closeTimeout time.Duration

	outstanding sync.WaitGroup
	open        atomic.Int64
	forced      atomic.Bool
}

func NewDb(engine Engine) *Db {
	return &Db{engine: engine}
}

func (db *Db) Name() string {
	return db.engine.Name()
}

// Init connects the engine and freezes a copy of the registry. A failed Init
// leaves no backend state behind and may be retried.
func (db *Db) Init(ctx context.Context, props Properties, registry Registry) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	switch db.state {
	case stateReady:
		return ErrAlreadyInitialized
	case stateClosed:
		return ErrUseAfterClose
	}

	if len(registry) == 0 {
		return fmt.Errorf("%w: empty handler registry", ErrConfig)
	}
	for kind, factory := range registry {
		if !kind.Valid() {
			return fmt.Errorf("%w: registry contains unknown kind %d", ErrConfig, int(kind))
		}
		if factory == nil {
			return fmt.Errorf("%w: no handler factory for %s", ErrConfig, kind)
		}
	}
	closeTimeout, err := props.Duration("close.timeout", DefaultCloseTimeout)
	if err != nil {
		return err
	}

	if err := db.engine.Connect(ctx, props); err != nil {
		if closeErr := db.engine.Close(); closeErr != nil {
			zlog.Warn().Err(closeErr).Str("engine", db.engine.Name()).Msg("Failed to release a partial connection")
		}
		if errors.Is(err, ErrConfig) || errors.Is(err, ErrConnection) {
			return err
		}
		return fmt.Errorf("%w: %s: %v", ErrConnection, db.engine.Name(), err)
	}

	db.registry = maps.Clone(registry)
	db.closeTimeout = closeTimeout
	db.state = stateReady
	kinds := []fmt.Stringer{}
	for _, k := range db.registry.Kinds() {
		kinds = append(kinds, k)
	}
	zlog.Info().Str("engine", db.engine.Name()).Stringers("kinds", kinds).Msg("Db initialized")
	return nil
}

// OperationHandlerRunnableContext binds the handler registered for op's kind to a
// freshly acquired session. Nothing is acquired when the kind is not registered or
// op is invalid.
func (db *Db) OperationHandlerRunnableContext(ctx context.Context, op operation.Operation) (*RunnableContext, error) {
	factory, err := db.reserve(op)
	if err != nil {
		return nil, err
	}

	state, err := db.engine.Session(ctx)
	if err != nil {
		db.done()
		if errors.Is(err, ErrConnection) || errors.Is(err, ErrUseAfterClose) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %s: %v", ErrConnection, db.engine.Name(), err)
	}

	return &RunnableContext{
		handler: factory(),
		state:   state,
		session: uuid.NewString(),
		release: db.done,
	}, nil
}

func (db *Db) reserve(op operation.Operation) (HandlerFactory, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()

	switch db.state {
	case stateNew:
		return nil, ErrNotInitialized
	case stateClosed:
		return nil, ErrUseAfterClose
	}

	factory, ok := db.registry[op.Kind()]
	if !ok {
		return nil, fmt.Errorf("%w: %s on %s", ErrUnsupportedOperation, op.Kind(), db.engine.Name())
	}
	if err := op.Validate(); err != nil {
		return nil, err
	}

	// Close takes the write lock before waiting, so no Add races the Wait.
	db.outstanding.Add(1)
	db.open.Add(1)
	return factory, nil
}

func (db *Db) done() {
	db.open.Add(-1)
	db.outstanding.Done()
}

// Execute dispatches op and always releases its context. Failures are signalled to
// the reporter and returned; a release failure is logged and never replaces the
// outcome of the operation.
func (db *Db) Execute(ctx context.Context, op operation.Operation, reporter ResultReporter) error {
	rc, err := db.OperationHandlerRunnableContext(ctx, op)
	if err != nil {
		reporter.Fail(err)
		return err
	}
	defer func() {
		if err := rc.Cleanup(); err != nil {
			zlog.Warn().Err(err).Str("engine", db.engine.Name()).Str("session", rc.Session()).
				Stringer("kind", op.Kind()).Msg("Failed to release session")
		}
	}()

	if db.forced.Load() {
		err := fmt.Errorf("%w: %s closed before %s ran", ErrUseAfterClose, db.engine.Name(), op.Kind())
		reporter.Fail(err)
		return err
	}
	if err := rc.OperationHandler().ExecuteOperation(ctx, op, rc.DbConnectionState(), reporter); err != nil {
		if db.forced.Load() {
			err = fmt.Errorf("%w: %v", ErrUseAfterClose, err)
		}
		reporter.Fail(err)
		return err
	}
	return nil
}

// Returns the number of contexts that were acquired and not yet cleaned up
func (db *Db) Outstanding() int64 {
	return db.open.Load()
}

// Close stops new dispatch, waits up to close.timeout for outstanding contexts and
// closes the engine. Contexts still running after the timeout fail with
// ErrUseAfterClose.
func (db *Db) Close() error {
	db.mu.Lock()
	switch db.state {
	case stateNew:
		db.mu.Unlock()
		return ErrNotInitialized
	case stateClosed:
		db.mu.Unlock()
		return ErrUseAfterClose
	}
	db.state = stateClosed
	db.mu.Unlock()

	drained := make(chan struct{})
	go func() {
		db.outstanding.Wait()
		close(drained)
	}()

	timer := time.NewTimer(db.closeTimeout)
	defer timer.Stop()

	select {
	case <-drained:
	case <-timer.C:
		db.forced.Store(true)
		zlog.Warn().Str("engine", db.engine.Name()).Int64("outstanding", db.Outstanding()).
			Dur("timeout", db.closeTimeout).Msg("Forcing close")
	}

	if err := db.engine.Close(); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrResourceRelease, db.engine.Name(), err)
	}
	zlog.Info().Str("engine", db.engine.Name()).Msg("Db closed")
	return nil
}
