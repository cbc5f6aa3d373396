package relational

import (
	"context"
	"database/sql"
	"errors"
	"math"
	"time"

	dbutils "finbench/dbUtils"
	"finbench/driver"
	"finbench/operation"

	"github.com/go-sql-driver/mysql"
	"github.com/lib/pq"
	"github.com/mattn/go-sqlite3"
)

type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// store runs '?' queries on a connection or a transaction in the session's dialect
type store struct {
	q       querier
	dialect dbutils.Dialect
}

func (s *Session) store() store {
	return store{q: s.conn, dialect: s.dialect}
}

// Runs fn in a transaction, rolling back when it fails
func (s *Session) inTx(ctx context.Context, fn func(st store) error) error {
	tx, err := s.conn.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	if err := fn(store{q: tx, dialect: s.dialect}); err != nil {
		return errors.Join(err, ignoreDone(tx.Rollback()))
	}
	if err := s.open(); err != nil {
		return errors.Join(err, ignoreDone(tx.Rollback()))
	}
	return tx.Commit()
}

func ignoreDone(err error) error {
	if errors.Is(err, sql.ErrTxDone) {
		return nil
	}
	return err
}

func (st store) exec(ctx context.Context, query string, args ...any) (sql.Result, error) {
	return st.q.ExecContext(ctx, st.dialect.Rebind(query), args...)
}

func (st store) query(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	return st.q.QueryContext(ctx, st.dialect.Rebind(query), args...)
}

func (st store) queryRow(ctx context.Context, query string, args ...any) *sql.Row {
	return st.q.QueryRowContext(ctx, st.dialect.Rebind(query), args...)
}

// Inserts a single row, failing unless exactly one row was written
func (st store) insert(ctx context.Context, kind operation.Kind, query string, args ...any) error {
	res, err := st.exec(ctx, query, args...)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n != 1 {
		return driver.Constraint(kind, "insert wrote %d rows, want 1", n)
	}
	return nil
}

// Collects the int64 values of a single column query
func (st store) ids(ctx context.Context, query string, args ...any) ([]int64, error) {
	rows, err := st.query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	ids := []int64{}
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// Returns whether the vertex is blocked and whether it exists
func (st store) blocked(ctx context.Context, table string, id int64) (bool, bool, error) {
	var blocked bool
	err := st.queryRow(ctx, "select is_blocked from "+table+" where id = ?", id).Scan(&blocked)
	if errors.Is(err, sql.ErrNoRows) {
		return false, false, nil
	}
	return blocked, err == nil, err
}

func (st store) block(ctx context.Context, table string, ids ...int64) error {
	for _, id := range ids {
		if _, err := st.exec(ctx, "update "+table+" set is_blocked = ? where id = ?", true, id); err != nil {
			return err
		}
	}
	return nil
}

// classify wraps a backend failure into a typed query error
func classify(kind operation.Kind, err error) error {
	if err == nil {
		return nil
	}
	var qe *driver.QueryError
	if errors.As(err, &qe) || errors.Is(err, driver.ErrUseAfterClose) {
		return err
	}

	failure := driver.FailureQuery
	var (
		sqliteErr sqlite3.Error
		pqErr     *pq.Error
		mysqlErr  *mysql.MySQLError
	)
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		failure = driver.FailureTimeout
	case errors.As(err, &sqliteErr):
		switch sqliteErr.Code {
		case sqlite3.ErrConstraint:
			failure = driver.FailureConstraint
		case sqlite3.ErrBusy, sqlite3.ErrLocked:
			failure = driver.FailureTimeout
		}
	case errors.As(err, &pqErr):
		switch {
		case pqErr.Code.Class() == "23":
			failure = driver.FailureConstraint
		case pqErr.Code == "57014":
			failure = driver.FailureTimeout
		}
	case errors.As(err, &mysqlErr):
		switch mysqlErr.Number {
		case 1048, 1062, 1451, 1452:
			failure = driver.FailureConstraint
		case 1205, 3024:
			failure = driver.FailureTimeout
		}
	}
	return &driver.QueryError{Kind: kind, Failure: failure, Err: err}
}

func millis(t time.Time) int64 {
	return t.UnixMilli()
}

func fromMillis(ms int64) time.Time {
	return time.UnixMilli(ms).UTC()
}

func round3(x float64) float64 {
	return math.Round(x*1000) / 1000
}

// Returns num/den rounded, or -1 when den is zero
func ratio(num, den float64) float64 {
	if den == 0 {
		return -1
	}
	return round3(num / den)
}
