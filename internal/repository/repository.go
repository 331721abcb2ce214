package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

var (
	// ErrInsufficientFunds rejects a debit that would push a balance
	// below zero.
	ErrInsufficientFunds = errors.New("insufficient balance")

	// ErrDuplicateAccount signals a unique-constraint hit on first name
	// or email during registration.
	ErrDuplicateAccount = errors.New("account already exists")
)

// PgxPool is the subset of pgxpool.Pool the repositories need, kept narrow
// so tests can stub it.
type PgxPool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Begin(ctx context.Context) (pgx.Tx, error)
}

const uniqueViolation = "23505"

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}
