package dbutils

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-sql-driver/mysql"
)

var ErrUnknownDialect = errors.New("unknown sql dialect")

type Dialect int

const (
	SQLite Dialect = iota
	Postgres
	MySQL
)

func ParseDialect(name string) (Dialect, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "sqlite3", "sqlite":
		return SQLite, nil
	case "postgres", "postgresql":
		return Postgres, nil
	case "mysql":
		return MySQL, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownDialect, name)
}

// Name of the database/sql driver
func (d Dialect) DriverName() string {
	switch d {
	case Postgres:
		return "postgres"
	case MySQL:
		return "mysql"
	}
	return "sqlite3"
}

func (d Dialect) String() string {
	return d.DriverName()
}

// Rebind rewrites '?' placeholders into the dialect's syntax. Queries must not
// contain literal question marks.
func (d Dialect) Rebind(query string) string {
	if d != Postgres {
		return query
	}

	var b strings.Builder
	b.Grow(len(query) + 8)
	n := 0
	for i := 0; i < len(query); i++ {
		if query[i] == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteByte(query[i])
	}
	return b.String()
}

func (d Dialect) autoID() string {
	switch d {
	case Postgres:
		return "seq bigserial primary key"
	case MySQL:
		return "seq bigint auto_increment primary key"
	}
	return "seq integer primary key autoincrement"
}

// WithCredentials puts user and password into dsn. Empty credentials leave dsn as is.
func WithCredentials(d Dialect, dsn, user, password string) (string, error) {
	if user == "" && password == "" {
		return dsn, nil
	}

	switch d {
	case MySQL:
		cfg, err := mysql.ParseDSN(dsn)
		if err != nil {
			return "", err
		}
		if user != "" {
			cfg.User = user
		}
		if password != "" {
			cfg.Passwd = password
		}
		return cfg.FormatDSN(), nil
	case Postgres:
		if strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://") {
			u, err := url.Parse(dsn)
			if err != nil {
				return "", err
			}
			if user == "" {
				user = u.User.Username()
			}
			if password == "" {
				u.User = url.User(user)
			} else {
				u.User = url.UserPassword(user, password)
			}
			return u.String(), nil
		}
		quote := func(v string) string {
			return "'" + strings.ReplaceAll(strings.ReplaceAll(v, `\`, `\\`), "'", `\'`) + "'"
		}
		if user != "" {
			dsn += " user=" + quote(user)
		}
		if password != "" {
			dsn += " password=" + quote(password)
		}
		return dsn, nil
	}
	return "", fmt.Errorf("%s does not take credentials", d)
}

type index struct {
	name    string
	columns string
}

type table struct {
	name    string
	columns []string
	edge    bool
	indexes []index
}

var tables = []table{
	{name: "person", columns: []string{
		"id bigint primary key", "name varchar(255)", "is_blocked boolean", "gender varchar(64)",
		"birthday varchar(64)", "country varchar(255)", "city varchar(255)",
	}},
	{name: "company", columns: []string{
		"id bigint primary key", "name varchar(255)", "is_blocked boolean", "country varchar(255)",
		"city varchar(255)", "business varchar(255)", "description varchar(1024)", "url varchar(1024)",
	}},
	{name: "medium", columns: []string{
		"id bigint primary key", "medium_type varchar(255)", "is_blocked boolean", "last_login_time bigint",
		"risk_level varchar(64)",
	}},
	{name: "account", columns: []string{
		"id bigint primary key", "create_time bigint", "is_blocked boolean", "account_type varchar(64)",
		"nickname varchar(255)", "phonenum varchar(64)", "email varchar(255)", "freq_login_type varchar(64)",
		"last_login_time bigint", "account_level varchar(64)",
	}},
	{name: "loan", columns: []string{
		"id bigint primary key", "loan_amount double precision", "balance double precision", "create_time bigint",
		"interest_rate double precision", "org_name varchar(255)", "loan_usage varchar(255)",
	}},
	{name: "own", edge: true, columns: []string{
		"owner_kind varchar(16)", "owner_id bigint", "account_id bigint", "create_time bigint", "comment varchar(1024)",
	}, indexes: []index{{"own_owner", "owner_kind, owner_id"}, {"own_account", "account_id"}}},
	{name: "apply", edge: true, columns: []string{
		"owner_kind varchar(16)", "owner_id bigint", "loan_id bigint", "create_time bigint", "org_name varchar(255)",
		"comment varchar(1024)",
	}, indexes: []index{{"apply_owner", "owner_kind, owner_id"}, {"apply_loan", "loan_id"}}},
	{name: "invest", edge: true, columns: []string{
		"investor_kind varchar(16)", "investor_id bigint", "company_id bigint", "create_time bigint",
		"ratio double precision", "comment varchar(1024)",
	}, indexes: []index{{"invest_investor", "investor_kind, investor_id, create_time"}}},
	{name: "guarantee", edge: true, columns: []string{
		"guarantor_kind varchar(16)", "src_id bigint", "dst_id bigint", "create_time bigint", "relation varchar(255)",
		"comment varchar(1024)",
	}, indexes: []index{{"guarantee_src", "guarantor_kind, src_id, create_time"}}},
	{name: "transfer", edge: true, columns: []string{
		"src_id bigint", "dst_id bigint", "create_time bigint", "amount double precision", "order_number varchar(255)",
		"comment varchar(1024)", "pay_type varchar(64)", "goods_type varchar(64)",
	}, indexes: []index{{"transfer_src", "src_id, create_time"}, {"transfer_dst", "dst_id, create_time"}}},
	{name: "withdraw", edge: true, columns: []string{
		"src_id bigint", "dst_id bigint", "create_time bigint", "amount double precision", "order_number varchar(255)",
		"comment varchar(1024)", "channel varchar(64)",
	}, indexes: []index{{"withdraw_src", "src_id, create_time"}, {"withdraw_dst", "dst_id, create_time"}}},
	{name: "repay", edge: true, columns: []string{
		"account_id bigint", "loan_id bigint", "create_time bigint", "amount double precision", "comment varchar(1024)",
	}, indexes: []index{{"repay_account", "account_id, create_time"}, {"repay_loan", "loan_id, create_time"}}},
	{name: "deposit", edge: true, columns: []string{
		"loan_id bigint", "account_id bigint", "create_time bigint", "amount double precision", "comment varchar(1024)",
	}, indexes: []index{{"deposit_loan", "loan_id, create_time"}, {"deposit_account", "account_id, create_time"}}},
	{name: "sign_in", edge: true, columns: []string{
		"medium_id bigint", "account_id bigint", "create_time bigint", "location varchar(255)", "comment varchar(1024)",
	}, indexes: []index{{"sign_in_medium", "medium_id, create_time"}, {"sign_in_account", "account_id, create_time"}}},
}

// Returns the names of all tables, vertices first
func Tables() []string {
	names := make([]string, 0, len(tables))
	for _, t := range tables {
		names = append(names, t.name)
	}
	return names
}

// Returns the statements creating the schema in the given dialect
func SchemaStatements(d Dialect) []string {
	statements := []string{}
	for _, t := range tables {
		columns := []string{}
		if t.edge {
			columns = append(columns, d.autoID())
		}
		columns = append(columns, t.columns...)
		if d == MySQL {
			for _, idx := range t.indexes {
				columns = append(columns, fmt.Sprintf("index %s (%s)", idx.name, idx.columns))
			}
		}
		statements = append(statements, fmt.Sprintf("create table if not exists %s (%s)", t.name, strings.Join(columns, ", ")))

		if d != MySQL {
			for _, idx := range t.indexes {
				statements = append(statements, fmt.Sprintf("create index if not exists %s on %s (%s)", idx.name, t.name, idx.columns))
			}
		}
	}
	return statements
}

func CreateSchema(ctx context.Context, db *sql.DB, d Dialect) error {
	for _, stmt := range SchemaStatements(d) {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("%s: %w", stmt, err)
		}
	}
	return nil
}

func DropSchema(ctx context.Context, db *sql.DB, d Dialect) error {
	for i := len(tables) - 1; i >= 0; i-- {
		if _, err := db.ExecContext(ctx, "drop table if exists "+tables[i].name); err != nil {
			return err
		}
	}
	return nil
}

// Refreshes the planner statistics of all tables
func Analyze(ctx context.Context, db *sql.DB, d Dialect) error {
	var stmt string
	switch d {
	case Postgres:
		stmt = "vacuum analyze"
	case MySQL:
		stmt = "analyze table " + strings.Join(Tables(), ", ")
	default:
		stmt = "analyze"
	}
	_, err := db.ExecContext(ctx, stmt)
	return err
}

// Returns the database size, in bytes
func DbSize(ctx context.Context, db *sql.DB, d Dialect) (int64, error) {
	if err := Analyze(ctx, db, d); err != nil {
		return 0, err
	}

	var query string
	switch d {
	case Postgres:
		sizes := []string{}
		for _, name := range Tables() {
			sizes = append(sizes, fmt.Sprintf("pg_total_relation_size('%s')", name))
		}
		query = "select " + strings.Join(sizes, " + ")
	case MySQL:
		query = `
			select coalesce(sum(data_length + index_length), 0)
			from information_schema.tables
			where table_schema = database()
		`
	default:
		query = "select page_count * page_size from pragma_page_count(), pragma_page_size()"
	}

	var size int64
	err := db.QueryRowContext(ctx, query).Scan(&size)
	return size, err
}
