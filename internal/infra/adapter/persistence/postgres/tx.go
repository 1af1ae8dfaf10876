package postgres

import (
	"context"
	"database/sql"
	"fmt"
)

// txKey is the context key a transaction is carried under; repository
// methods check for it before falling back to the pool-wide *sql.DB so the
// same repo works both inside and outside a Transactor.WithinTx call.
type txKey struct{}

// querier is the subset of *sql.DB and *sql.Tx every repository method
// needs, letting a single implementation serve both the pooled and the
// transactional path. circuitbreaker.DBCircuitBreaker also implements it,
// so repositories work identically whether they're opened directly over a
// *sql.DB or over a circuit-broken connection.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// dbConn is the connection-pool handle Transactor needs: everything
// querier requires plus BeginTx, satisfied by both *sql.DB and
// circuitbreaker.DBCircuitBreaker.
type dbConn interface {
	querier
	BeginTx(ctx context.Context, opts *sql.TxOptions) (*sql.Tx, error)
}

// Transactor implements service.Transactor against a pooled connection,
// carrying the open *sql.Tx through ctx so repositories opened from the
// same pool transparently join it.
type Transactor struct{ db dbConn }

// NewTransactor constructs a Transactor over db.
func NewTransactor(db dbConn) *Transactor {
	return &Transactor{db: db}
}

// WithinTx runs fn inside a single database transaction, committing on a
// nil return and rolling back otherwise (§5's outbox pattern: the caller is
// expected to collect job IDs during fn and push them only after WithinTx
// itself returns without error).
func (t *Transactor) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	tx, err := t.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}

	if err := fn(context.WithValue(ctx, txKey{}, tx)); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("%w (rollback failed: %v)", err, rbErr)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

// q returns the active transaction if ctx carries one, otherwise db itself.
func q(ctx context.Context, db querier) querier {
	if tx, ok := ctx.Value(txKey{}).(*sql.Tx); ok {
		return tx
	}
	return db
}
