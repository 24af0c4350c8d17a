// Package store is the SQL persistence layer for components, BOMs, future orders,
// procurement triggers and production records.
//
// Reads are available on both Store (connection pool) and Tx. Every write lives on Tx only,
// so code that mutates stock cannot run outside a transaction.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	// ErrNotFound is returned when a referenced row does not exist.
	ErrNotFound = errors.New("not found")
	// ErrTransaction marks a failure of the underlying store to begin, run or commit a
	// transaction. The transaction is always rolled back and the caller may retry.
	ErrTransaction = errors.New("transaction failed")
	// ErrConstraint is a write rejected by a uniqueness, foreign key or check constraint.
	ErrConstraint = errors.New("constraint violated")
)

// DateLayout is the storage and wire format of calendar dates.
const DateLayout = "2006-01-02"

const timestampLayout = "2006-01-02 15:04:05"

// Querier is satisfied by *sql.DB and *sql.Tx.
type Querier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Reader runs read-only queries against a pool or a transaction.
type Reader struct {
	q Querier
}

// Store is the pool-backed entry point.
type Store struct {
	Reader
	DB *sql.DB
}

// New wraps an open database.
func New(db *sql.DB) *Store {
	return &Store{Reader: Reader{q: db}, DB: db}
}

// Tx is a transactional handle. It embeds Reader so reads made through it observe the
// transaction's own writes.
type Tx struct {
	Reader
	tx  *sql.Tx
	now time.Time
}

// Now is the timestamp used for every row written by this transaction.
func (t *Tx) Now() time.Time { return t.now }

// WithTx runs fn inside a transaction. It commits when fn returns nil and rolls back
// otherwise; begin and commit failures are reported as ErrTransaction.
func (s *Store) WithTx(ctx context.Context, fn func(tx *Tx) error) error {
	sqlTx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w: %w", ErrTransaction, err)
	}
	defer sqlTx.Rollback()

	if err := fn(&Tx{Reader: Reader{q: sqlTx}, tx: sqlTx, now: time.Now()}); err != nil {
		return err
	}
	if err := sqlTx.Commit(); err != nil {
		return fmt.Errorf("commit: %w: %w", ErrTransaction, err)
	}
	return nil
}

func (t *Tx) exec(ctx context.Context, op, query string, args ...any) (sql.Result, error) {
	res, err := t.tx.ExecContext(ctx, query, args...)
	if err != nil {
		if isConstraint(err) {
			return nil, fmt.Errorf("%s: %w: %w", op, ErrConstraint, err)
		}
		return nil, fmt.Errorf("%s: %w: %w", op, ErrTransaction, err)
	}
	return res, nil
}

// isConstraint matches SQLite's constraint failure messages.
func isConstraint(err error) bool {
	return strings.Contains(err.Error(), "constraint failed")
}

func (t *Tx) stamp() string {
	return t.now.Format(timestampLayout)
}

func nullString(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	s := ns.String
	return &s
}

func nullInt(ni sql.NullInt64) *int {
	if !ni.Valid {
		return nil
	}
	v := int(ni.Int64)
	return &v
}

func notFound(what string, id int64, err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%s %d: %w", what, id, ErrNotFound)
	}
	return err
}
