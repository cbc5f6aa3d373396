package relational

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"sync"
	"sync/atomic"

	dbutils "finbench/dbUtils"
	"finbench/driver"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
	zlog "github.com/rs/zerolog/log"
)

const defaultPoolSize = 16

// Engine runs the transaction workload on sqlite3, postgres or mysql.
//
// Properties:
//
//	driver         sqlite3 | postgres | mysql (default sqlite3)
//	dsn            data source name, required
//	user, password credentials merged into the dsn
//	pool.size      maximum open connections (default 16)
//	schema.create  create missing tables on connect (default true)
//	schema.reset   drop all tables before creating them (default false)
type Engine struct {
	mu      sync.RWMutex
	db      *sql.DB
	dialect dbutils.Dialect
	// shared with the sessions of the current connection
	closed *atomic.Bool
}

func New() *Engine {
	return &Engine{}
}

func (e *Engine) Name() string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return "relational-" + e.dialect.String()
}

func (e *Engine) Connect(ctx context.Context, props driver.Properties) error {
	dialect, err := dbutils.ParseDialect(props.String("driver", "sqlite3"))
	if err != nil {
		return fmt.Errorf("%w: %v", driver.ErrConfig, err)
	}
	dsn, err := props.Required("dsn")
	if err != nil {
		return err
	}
	dsn, err = dbutils.WithCredentials(dialect, dsn, props.String("user", ""), props.String("password", ""))
	if err != nil {
		return fmt.Errorf("%w: %v", driver.ErrConfig, err)
	}
	poolSize, err := props.Int("pool.size", defaultPoolSize)
	if err != nil {
		return err
	}
	if poolSize < 1 {
		return fmt.Errorf("%w: pool.size must be positive, got %d", driver.ErrConfig, poolSize)
	}
	createSchema, err := props.Bool("schema.create", true)
	if err != nil {
		return err
	}
	resetSchema, err := props.Bool("schema.reset", false)
	if err != nil {
		return err
	}

	db, err := sql.Open(dialect.DriverName(), dsn)
	if err != nil {
		return fmt.Errorf("%w: %v", driver.ErrConfig, err)
	}
	db.SetMaxOpenConns(poolSize)
	db.SetMaxIdleConns(poolSize)

	e.mu.Lock()
	e.db = db
	e.dialect = dialect
	e.closed = new(atomic.Bool)
	e.mu.Unlock()

	if err := db.PingContext(ctx); err != nil {
		return fmt.Errorf("%w: %s: %v", driver.ErrConnection, dialect, err)
	}
	if resetSchema {
		if err := dbutils.DropSchema(ctx, db, dialect); err != nil {
			return fmt.Errorf("%w: dropping schema: %v", driver.ErrConnection, err)
		}
	}
	if createSchema || resetSchema {
		if err := dbutils.CreateSchema(ctx, db, dialect); err != nil {
			return fmt.Errorf("%w: creating schema: %v", driver.ErrConnection, err)
		}
	}

	zlog.Info().Str("engine", "relational").Str("driver", dialect.String()).Int("poolSize", poolSize).Msg("Connected")
	return nil
}

// Session pins one pooled connection for a single dispatch. The pinned connection
// outlives sql.DB.Close: handlers check the engine is open before running and
// before committing.
type Session struct {
	conn    *sql.Conn
	dialect dbutils.Dialect
	closed  *atomic.Bool
}

func (s *Session) Close() error {
	return s.conn.Close()
}

// Returns ErrUseAfterClose once the engine has been closed
func (s *Session) open() error {
	if s.closed.Load() {
		return fmt.Errorf("%w: relational engine is closed", driver.ErrUseAfterClose)
	}
	return nil
}

func (e *Engine) Session(ctx context.Context) (driver.ConnectionState, error) {
	e.mu.RLock()
	db, dialect, closed := e.db, e.dialect, e.closed
	e.mu.RUnlock()

	if db == nil {
		return nil, fmt.Errorf("%w: engine is not connected", driver.ErrConnection)
	}
	conn, err := db.Conn(ctx)
	if err != nil {
		return nil, err
	}
	return &Session{conn: conn, dialect: dialect, closed: closed}, nil
}

func (e *Engine) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed != nil {
		e.closed.Store(true)
	}
	if e.db == nil {
		return nil
	}
	err := e.db.Close()
	e.db = nil
	return err
}

// Returns the engine-specific metrics
func (e *Engine) Metrics(ctx context.Context) (map[string]string, error) {
	e.mu.RLock()
	db, dialect := e.db, e.dialect
	e.mu.RUnlock()

	if db == nil {
		return nil, fmt.Errorf("%w: engine is not connected", driver.ErrConnection)
	}
	size, err := dbutils.DbSize(ctx, db, dialect)
	if err != nil {
		return nil, err
	}
	stats := db.Stats()
	return map[string]string{
		"driver":          dialect.String(),
		"size":            strconv.FormatInt(size, 10),
		"openConnections": strconv.Itoa(stats.OpenConnections),
		"waitCount":       strconv.FormatInt(stats.WaitCount, 10),
	}, nil
}
