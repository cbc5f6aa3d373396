package driver

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"finbench/operation"
	"finbench/truncation"
)

type fakeEngine struct {
	connectErr error
	closeErr   error
	sessionErr error
	// runs inside Session, before it returns
	sessionHook func()

	connects atomic.Int32
	closes   atomic.Int32
	acquired atomic.Int32
	released atomic.Int32
	nextID   atomic.Int64
}

type fakeSession struct {
	id       int64
	engine   *fakeEngine
	closeErr error
	closed   atomic.Int32
}

func (s *fakeSession) Close() error {
	s.closed.Add(1)
	s.engine.released.Add(1)
	return s.closeErr
}

func (e *fakeEngine) Name() string {
	return "fake"
}

func (e *fakeEngine) Connect(ctx context.Context, props Properties) error {
	e.connects.Add(1)
	return e.connectErr
}

func (e *fakeEngine) Session(ctx context.Context) (ConnectionState, error) {
	if e.sessionErr != nil {
		return nil, e.sessionErr
	}
	if e.sessionHook != nil {
		e.sessionHook()
	}
	e.acquired.Add(1)
	return &fakeSession{id: e.nextID.Add(1), engine: e}, nil
}

func (e *fakeEngine) Close() error {
	e.closes.Add(1)
	return e.closeErr
}

var (
	jan1 = time.Date(2023, time.January, 1, 0, 0, 0, 0, time.UTC)
	jan2 = time.Date(2023, time.January, 2, 0, 0, 0, 0, time.UTC)
)

func complexRead1() operation.ComplexRead1 {
	return operation.ComplexRead1{
		AccountID:  30786325579101,
		Window:     operation.NewWindow(jan1, jan2),
		Truncation: operation.Truncation{TruncationLimit: 10, TruncationOrder: truncation.TimestampDescending},
	}
}

func testRegistry() Registry {
	return Registry{
		operation.KindComplexRead1: Handle(func(ctx context.Context, op operation.ComplexRead1, conn *fakeSession, r ResultReporter) error {
			r.Report(operation.ComplexRead1Result{OtherID: op.AccountID + conn.id, AccountDistance: 1})
			return nil
		}),
		operation.KindWrite1: Handle(func(ctx context.Context, op operation.Write1, conn *fakeSession, r ResultReporter) error {
			return Constraint(op.Kind(), "person %d already exists", op.PersonID)
		}),
	}
}

func initDb(t *testing.T, engine *fakeEngine) *Db {
	t.Helper()
	db := NewDb(engine)
	if err := db.Init(context.Background(), Properties{"close.timeout": "1s"}, testRegistry()); err != nil {
		t.Fatalf("Init: %v", err)
	}
	return db
}

func TestInitLifecycle(t *testing.T) {
	engine := &fakeEngine{}
	db := NewDb(engine)

	if err := db.Execute(context.Background(), complexRead1(), NewSimpleResultReporter()); !errors.Is(err, ErrNotInitialized) {
		t.Errorf("dispatch before Init: err = %v, want ErrNotInitialized", err)
	}
	if err := db.Init(context.Background(), Properties{}, Registry{}); !errors.Is(err, ErrConfig) {
		t.Errorf("empty registry: err = %v, want ErrConfig", err)
	}
	if err := db.Init(context.Background(), Properties{"close.timeout": "soon"}, testRegistry()); !errors.Is(err, ErrConfig) {
		t.Errorf("bad close.timeout: err = %v, want ErrConfig", err)
	}
	if engine.connects.Load() != 0 {
		t.Errorf("engine connected %d times on invalid configuration", engine.connects.Load())
	}

	if err := db.Init(context.Background(), Properties{}, testRegistry()); err != nil {
		t.Fatalf("Init: %v", err)
	}
	if err := db.Init(context.Background(), Properties{}, testRegistry()); !errors.Is(err, ErrAlreadyInitialized) {
		t.Errorf("second Init: err = %v, want ErrAlreadyInitialized", err)
	}
	if err := db.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if err := db.Close(); !errors.Is(err, ErrUseAfterClose) {
		t.Errorf("second Close: err = %v, want ErrUseAfterClose", err)
	}
	if err := db.Init(context.Background(), Properties{}, testRegistry()); !errors.Is(err, ErrUseAfterClose) {
		t.Errorf("Init after Close: err = %v, want ErrUseAfterClose", err)
	}
}

func TestInitConnectFailureIsRetryable(t *testing.T) {
	engine := &fakeEngine{connectErr: errors.New("connection refused")}
	db := NewDb(engine)

	err := db.Init(context.Background(), Properties{}, testRegistry())
	if !errors.Is(err, ErrConnection) {
		t.Fatalf("err = %v, want ErrConnection", err)
	}
	if engine.closes.Load() != 1 {
		t.Errorf("engine closed %d times after a failed connect, want 1", engine.closes.Load())
	}

	engine.connectErr = nil
	if err := db.Init(context.Background(), Properties{}, testRegistry()); err != nil {
		t.Fatalf("retried Init: %v", err)
	}
	if err := db.Execute(context.Background(), complexRead1(), NewSimpleResultReporter()); err != nil {
		t.Errorf("Execute after retried Init: %v", err)
	}
}

func TestRegistryIsCopiedAtInit(t *testing.T) {
	registry := testRegistry()
	db := NewDb(&fakeEngine{})
	if err := db.Init(context.Background(), Properties{}, registry); err != nil {
		t.Fatalf("Init: %v", err)
	}
	delete(registry, operation.KindComplexRead1)

	if err := db.Execute(context.Background(), complexRead1(), NewSimpleResultReporter()); err != nil {
		t.Errorf("mutating the caller's registry changed the Db: %v", err)
	}
}

func TestRegistryKinds(t *testing.T) {
	kinds := testRegistry().Kinds()
	if len(kinds) != 2 || kinds[0] != operation.KindComplexRead1 || kinds[1] != operation.KindWrite1 {
		t.Errorf("kinds = %v", kinds)
	}
	if len(Registry{}.Kinds()) != 0 {
		t.Error("empty registry has kinds")
	}
}

func TestExecuteReportsRecords(t *testing.T) {
	engine := &fakeEngine{}
	db := initDb(t, engine)
	defer db.Close()

	r := NewSimpleResultReporter()
	if err := db.Execute(context.Background(), complexRead1(), r); err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if r.State() != Completed {
		t.Errorf("state = %s, want completed", r.State())
	}
	records := r.Records()
	if len(records) != 1 {
		t.Fatalf("got %d records, want 1", len(records))
	}
	if got := records[0].(operation.ComplexRead1Result).OtherID; got != 30786325579102 {
		t.Errorf("otherId = %d, want 30786325579102", got)
	}
	if engine.acquired.Load() != 1 || engine.released.Load() != 1 || db.Outstanding() != 0 {
		t.Errorf("acquired %d, released %d, outstanding %d", engine.acquired.Load(), engine.released.Load(), db.Outstanding())
	}
}

func TestExecuteFailureIsReported(t *testing.T) {
	engine := &fakeEngine{}
	db := initDb(t, engine)
	defer db.Close()

	r := NewSimpleResultReporter()
	err := db.Execute(context.Background(), operation.Write1{PersonID: 46661186336351, PersonName: "Alice"}, r)
	if !errors.Is(err, ErrConstraintViolation) || !errors.Is(err, ErrBackendQuery) {
		t.Fatalf("err = %v, want a constraint violation", err)
	}
	if r.State() != Failed || !errors.Is(r.Err(), ErrConstraintViolation) {
		t.Errorf("reporter state = %s, err = %v", r.State(), r.Err())
	}
	if engine.released.Load() != 1 {
		t.Errorf("session not released after a failure")
	}
}

func TestUnsupportedKindAcquiresNothing(t *testing.T) {
	engine := &fakeEngine{}
	db := initDb(t, engine)
	defer db.Close()

	op := operation.SimpleRead6{AccountID: 1, Window: operation.NewWindow(jan1, jan2)}
	rc, err := db.OperationHandlerRunnableContext(context.Background(), op)
	if !errors.Is(err, ErrUnsupportedOperation) || rc != nil {
		t.Fatalf("got (%v, %v), want ErrUnsupportedOperation", rc, err)
	}
	if engine.acquired.Load() != 0 || db.Outstanding() != 0 {
		t.Errorf("acquired %d sessions, outstanding %d", engine.acquired.Load(), db.Outstanding())
	}
}

func TestInvalidOperationAcquiresNothing(t *testing.T) {
	engine := &fakeEngine{}
	db := initDb(t, engine)
	defer db.Close()

	op := complexRead1()
	op.TruncationLimit = -5
	r := NewSimpleResultReporter()
	if err := db.Execute(context.Background(), op, r); !errors.Is(err, operation.ErrInvalidParameter) {
		t.Fatalf("err = %v, want ErrInvalidParameter", err)
	}
	if engine.acquired.Load() != 0 || r.State() != Failed {
		t.Errorf("acquired %d sessions, reporter %s", engine.acquired.Load(), r.State())
	}
}

func TestSessionFailureIsConnectionError(t *testing.T) {
	engine := &fakeEngine{}
	db := initDb(t, engine)
	defer db.Close()

	engine.sessionErr = errors.New("pool exhausted")
	if err := db.Execute(context.Background(), complexRead1(), NewSimpleResultReporter()); !errors.Is(err, ErrConnection) {
		t.Errorf("err = %v, want ErrConnection", err)
	}
	if db.Outstanding() != 0 {
		t.Errorf("outstanding = %d after a failed acquisition", db.Outstanding())
	}
}

func TestUseAfterClose(t *testing.T) {
	db := initDb(t, &fakeEngine{})
	if err := db.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	for _, op := range []operation.Operation{complexRead1(), operation.Write17{AccountID: 1}} {
		r := NewSimpleResultReporter()
		if err := db.Execute(context.Background(), op, r); !errors.Is(err, ErrUseAfterClose) {
			t.Errorf("%s after Close: err = %v, want ErrUseAfterClose", op.Kind(), err)
		}
		if r.State() != Failed {
			t.Errorf("%s after Close: reporter %s, want failed", op.Kind(), r.State())
		}
	}
}

func TestCleanupReleasesOnce(t *testing.T) {
	engine := &fakeEngine{}
	db := initDb(t, engine)
	defer db.Close()

	rc, err := db.OperationHandlerRunnableContext(context.Background(), complexRead1())
	if err != nil {
		t.Fatalf("OperationHandlerRunnableContext: %v", err)
	}
	if db.Outstanding() != 1 {
		t.Errorf("outstanding = %d, want 1", db.Outstanding())
	}
	for i := 0; i < 3; i++ {
		if err := rc.Cleanup(); err != nil {
			t.Errorf("Cleanup: %v", err)
		}
	}
	if s := rc.DbConnectionState().(*fakeSession); s.closed.Load() != 1 {
		t.Errorf("session closed %d times, want 1", s.closed.Load())
	}
	if db.Outstanding() != 0 {
		t.Errorf("outstanding = %d, want 0", db.Outstanding())
	}
}

func TestCleanupFailureDoesNotMaskResult(t *testing.T) {
	engine := &fakeEngine{}
	db := initDb(t, engine)
	defer db.Close()

	rc, err := db.OperationHandlerRunnableContext(context.Background(), complexRead1())
	if err != nil {
		t.Fatalf("OperationHandlerRunnableContext: %v", err)
	}
	rc.DbConnectionState().(*fakeSession).closeErr = errors.New("broken pipe")
	if err := rc.Cleanup(); !errors.Is(err, ErrResourceRelease) {
		t.Errorf("Cleanup: err = %v, want ErrResourceRelease", err)
	}
	if db.Outstanding() != 0 {
		t.Errorf("a failed release must still drop the context")
	}
}

func TestConcurrentContextsAreIndependent(t *testing.T) {
	engine := &fakeEngine{}
	db := initDb(t, engine)

	const n = 64
	var wg sync.WaitGroup
	sessions := make(chan int64, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			rc, err := db.OperationHandlerRunnableContext(context.Background(), complexRead1())
			if err != nil {
				t.Errorf("OperationHandlerRunnableContext: %v", err)
				return
			}
			defer rc.Cleanup()
			sessions <- rc.DbConnectionState().(*fakeSession).id
		}()
	}
	wg.Wait()
	close(sessions)

	seen := map[int64]bool{}
	for id := range sessions {
		if seen[id] {
			t.Errorf("session %d handed out twice", id)
		}
		seen[id] = true
	}
	if len(seen) != n {
		t.Errorf("got %d sessions, want %d", len(seen), n)
	}
	if err := db.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if engine.acquired.Load() != engine.released.Load() {
		t.Errorf("acquired %d, released %d", engine.acquired.Load(), engine.released.Load())
	}
}

func TestCloseWaitsForOutstandingContexts(t *testing.T) {
	engine := &fakeEngine{}
	db := initDb(t, engine)

	rc, err := db.OperationHandlerRunnableContext(context.Background(), complexRead1())
	if err != nil {
		t.Fatalf("OperationHandlerRunnableContext: %v", err)
	}

	closed := make(chan error)
	go func() {
		closed <- db.Close()
	}()

	select {
	case <-closed:
		t.Fatal("Close returned while a context was outstanding")
	case <-time.After(50 * time.Millisecond):
	}
	if engine.closes.Load() != 0 {
		t.Error("engine closed before the context was released")
	}

	rc.Cleanup()
	if err := <-closed; err != nil {
		t.Fatalf("Close: %v", err)
	}
	if engine.closes.Load() != 1 {
		t.Errorf("engine closed %d times, want 1", engine.closes.Load())
	}
}

func TestCloseForcesAfterTimeout(t *testing.T) {
	engine := &fakeEngine{}
	db := NewDb(engine)
	blocked := make(chan struct{})
	release := make(chan struct{})
	registry := Registry{
		operation.KindWrite17: Handle(func(ctx context.Context, op operation.Write17, conn *fakeSession, r ResultReporter) error {
			close(blocked)
			<-release
			return errors.New("sql: database is closed")
		}),
	}
	if err := db.Init(context.Background(), Properties{"close.timeout": "20ms"}, registry); err != nil {
		t.Fatalf("Init: %v", err)
	}

	result := make(chan error)
	go func() {
		result <- db.Execute(context.Background(), operation.Write17{AccountID: 1}, NewSimpleResultReporter())
	}()
	<-blocked

	if err := db.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	close(release)
	if err := <-result; !errors.Is(err, ErrUseAfterClose) {
		t.Errorf("leftover handler: err = %v, want ErrUseAfterClose", err)
	}
}

func TestForcedCloseSkipsPendingHandler(t *testing.T) {
	acquiring := make(chan struct{})
	release := make(chan struct{})
	engine := &fakeEngine{sessionHook: func() {
		close(acquiring)
		<-release
	}}
	var ran atomic.Bool
	registry := Registry{
		operation.KindWrite17: Handle(func(ctx context.Context, op operation.Write17, conn *fakeSession, r ResultReporter) error {
			ran.Store(true)
			return nil
		}),
	}
	db := NewDb(engine)
	if err := db.Init(context.Background(), Properties{"close.timeout": "10ms"}, registry); err != nil {
		t.Fatalf("Init: %v", err)
	}

	r := NewSimpleResultReporter()
	result := make(chan error)
	go func() {
		result <- db.Execute(context.Background(), operation.Write17{AccountID: 1}, r)
	}()
	<-acquiring

	if err := db.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	close(release)
	if err := <-result; !errors.Is(err, ErrUseAfterClose) {
		t.Errorf("err = %v, want ErrUseAfterClose", err)
	}
	if ran.Load() {
		t.Error("handler ran after a forced close")
	}
	if r.State() != Failed {
		t.Errorf("reporter is %s, want failed", r.State())
	}
	if db.Outstanding() != 0 {
		t.Errorf("%d contexts outstanding", db.Outstanding())
	}
}

func TestCloseEngineFailure(t *testing.T) {
	db := initDb(t, &fakeEngine{closeErr: errors.New("socket closed")})
	if err := db.Close(); !errors.Is(err, ErrResourceRelease) {
		t.Errorf("err = %v, want ErrResourceRelease", err)
	}
}

func TestHandleRejectsMismatchedOperation(t *testing.T) {
	handler := Handle(func(ctx context.Context, op operation.ComplexRead1, conn *fakeSession, r ResultReporter) error {
		return nil
	})()

	r := NewSimpleResultReporter()
	err := handler.ExecuteOperation(context.Background(), operation.Write17{AccountID: 1}, &fakeSession{}, r)
	if !errors.Is(err, ErrUnsupportedOperation) {
		t.Errorf("err = %v, want ErrUnsupportedOperation", err)
	}
	if r.State() != Pending {
		t.Errorf("reporter completed after a rejected dispatch")
	}
}
