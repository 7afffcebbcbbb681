// Package services implements the access-control and invitation engine:
// friendships, wishlist sharing, capability links, and event membership.
//
// Services consume the relationship store through the narrow DB interfaces
// below so that tests can substitute fakes and production can hand in a
// pgxpool. Every query filters soft-deleted rows with a deleted_at IS NULL
// predicate; a row that is soft-deleted is indistinguishable from one that
// never existed.
package services

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Row is a single-row result.
type Row interface {
	Scan(dest ...any) error
}

// Rows is a multi-row result cursor.
type Rows interface {
	Next() bool
	Scan(dest ...any) error
	Close()
	Err() error
}

// CommandTag reports the outcome of an Exec.
type CommandTag interface {
	RowsAffected() int64
}

// DBConn is the query surface shared by pools and transactions.
type DBConn interface {
	Query(ctx context.Context, sql string, args ...any) (Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) Row
	Exec(ctx context.Context, sql string, args ...any) (CommandTag, error)
}

// Tx is a transaction handle.
type Tx interface {
	DBConn
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// DB is the full store handle services are constructed with.
type DB interface {
	DBConn
	Begin(ctx context.Context) (Tx, error)
}

// NewPgxDB adapts a pgx connection pool to the DB interface.
func NewPgxDB(pool *pgxpool.Pool) DB {
	return &pgxDB{pool: pool}
}

type pgxDB struct {
	pool *pgxpool.Pool
}

func (d *pgxDB) Query(ctx context.Context, sql string, args ...any) (Rows, error) {
	rows, err := d.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (d *pgxDB) QueryRow(ctx context.Context, sql string, args ...any) Row {
	return d.pool.QueryRow(ctx, sql, args...)
}

func (d *pgxDB) Exec(ctx context.Context, sql string, args ...any) (CommandTag, error) {
	tag, err := d.pool.Exec(ctx, sql, args...)
	return tag, err
}

func (d *pgxDB) Begin(ctx context.Context) (Tx, error) {
	tx, err := d.pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	return &pgxTx{tx: tx}, nil
}

type pgxTx struct {
	tx pgx.Tx
}

func (t *pgxTx) Query(ctx context.Context, sql string, args ...any) (Rows, error) {
	rows, err := t.tx.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (t *pgxTx) QueryRow(ctx context.Context, sql string, args ...any) Row {
	return t.tx.QueryRow(ctx, sql, args...)
}

func (t *pgxTx) Exec(ctx context.Context, sql string, args ...any) (CommandTag, error) {
	tag, err := t.tx.Exec(ctx, sql, args...)
	return tag, err
}

func (t *pgxTx) Commit(ctx context.Context) error {
	return t.tx.Commit(ctx)
}

func (t *pgxTx) Rollback(ctx context.Context) error {
	return t.tx.Rollback(ctx)
}

// isNoRows reports whether err is the store's empty-result sentinel.
func isNoRows(err error) bool {
	return errors.Is(err, pgx.ErrNoRows)
}

// isUniqueViolation reports whether err is a unique-index violation, the
// signal that a concurrent writer won an insert race.
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
