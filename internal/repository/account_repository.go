package repository

import (
	"context"
	"errors"
	"fmt"

	"kantor/internal/domain"

	"github.com/jackc/pgx/v5"
	"go.opentelemetry.io/otel/trace"
)

const createAccountTables = `
CREATE TABLE IF NOT EXISTS accounts (
    id            UUID        PRIMARY KEY,
    first_name    TEXT        NOT NULL UNIQUE,
    email         TEXT        NOT NULL UNIQUE,
    password_hash TEXT        NOT NULL,
    created_at    TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS balances (
    account_id UUID    NOT NULL REFERENCES accounts (id) ON DELETE CASCADE,
    currency   TEXT    NOT NULL,
    amount     NUMERIC NOT NULL DEFAULT 0,
    PRIMARY KEY (account_id, currency)
);

CREATE TABLE IF NOT EXISTS transactions (
    id            BIGSERIAL   PRIMARY KEY,
    account_id    UUID        NOT NULL REFERENCES accounts (id) ON DELETE CASCADE,
    from_currency TEXT        NOT NULL,
    to_currency   TEXT        NOT NULL,
    from_amount   NUMERIC     NOT NULL,
    to_amount     NUMERIC     NOT NULL,
    created_at    TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_transactions_account_time
    ON transactions (account_id, created_at DESC);

CREATE TABLE IF NOT EXISTS conversation_messages (
    id         BIGSERIAL   PRIMARY KEY,
    chat_id    BIGINT      NOT NULL,
    role       TEXT        NOT NULL,
    content    TEXT        NOT NULL,
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_conversation_chat_time
    ON conversation_messages (chat_id, created_at DESC);
`

type AccountRepository struct {
	pool   PgxPool
	tracer trace.Tracer
}

func NewAccountRepository(pool PgxPool, tracer trace.Tracer) *AccountRepository {
	return &AccountRepository{pool: pool, tracer: tracer}
}

func (r *AccountRepository) RunMigrations(ctx context.Context) error {
	_, span := r.tracer.Start(ctx, "account-repo.run-migrations")
	defer span.End()

	_, err := r.pool.Exec(ctx, createAccountTables)
	return err
}

// Create inserts the account together with its initial zero PLN balance.
func (r *AccountRepository) Create(ctx context.Context, account *domain.Account) error {
	_, span := r.tracer.Start(ctx, "account-repo.create")
	defer span.End()

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx,
		`INSERT INTO accounts (id, first_name, email, password_hash) VALUES ($1, $2, $3, $4)`,
		account.ID, account.FirstName, account.Email, account.PasswordHash,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicateAccount
		}
		return err
	}

	_, err = tx.Exec(ctx,
		`INSERT INTO balances (account_id, currency, amount) VALUES ($1, $2, 0)`,
		account.ID, domain.BaseCurrency,
	)
	if err != nil {
		return err
	}

	return tx.Commit(ctx)
}

// FindByID loads an account and all its balances. Returns (nil, nil) when
// the account does not exist.
func (r *AccountRepository) FindByID(ctx context.Context, id string) (*domain.Account, error) {
	_, span := r.tracer.Start(ctx, "account-repo.find-by-id")
	defer span.End()

	account := &domain.Account{Balances: map[string]float64{}}
	err := r.pool.QueryRow(ctx,
		`SELECT id, first_name, email, password_hash, created_at FROM accounts WHERE id = $1`,
		id,
	).Scan(&account.ID, &account.FirstName, &account.Email, &account.PasswordHash, &account.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	if err := r.loadBalances(ctx, account); err != nil {
		return nil, err
	}
	return account, nil
}

// FindByFirstName is the login lookup. Returns (nil, nil) when absent.
func (r *AccountRepository) FindByFirstName(ctx context.Context, firstName string) (*domain.Account, error) {
	_, span := r.tracer.Start(ctx, "account-repo.find-by-first-name")
	defer span.End()

	account := &domain.Account{Balances: map[string]float64{}}
	err := r.pool.QueryRow(ctx,
		`SELECT id, first_name, email, password_hash, created_at FROM accounts WHERE first_name = $1`,
		firstName,
	).Scan(&account.ID, &account.FirstName, &account.Email, &account.PasswordHash, &account.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	if err := r.loadBalances(ctx, account); err != nil {
		return nil, err
	}
	return account, nil
}

func (r *AccountRepository) loadBalances(ctx context.Context, account *domain.Account) error {
	rows, err := r.pool.Query(ctx,
		`SELECT currency, amount FROM balances WHERE account_id = $1`,
		account.ID,
	)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var currency string
		var amount float64
		if err := rows.Scan(&currency, &amount); err != nil {
			return err
		}
		account.Balances[currency] = amount
	}
	return rows.Err()
}

// AdjustBalance applies a signed delta to one currency balance and returns
// the new amount. The row is locked for the duration of the transaction; a
// debit below zero rolls back with ErrInsufficientFunds.
func (r *AccountRepository) AdjustBalance(ctx context.Context, accountID, currency string, delta float64) (float64, error) {
	_, span := r.tracer.Start(ctx, "account-repo.adjust-balance")
	defer span.End()

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback(ctx)

	newBalance, err := adjustInTx(ctx, tx, accountID, currency, delta)
	if err != nil {
		return 0, err
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, err
	}
	return newBalance, nil
}

// Exchange atomically debits the from leg, credits the to leg, and records
// the transaction. Either everything lands or nothing does.
func (r *AccountRepository) Exchange(ctx context.Context, t domain.Transaction) error {
	_, span := r.tracer.Start(ctx, "account-repo.exchange")
	defer span.End()

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if _, err := adjustInTx(ctx, tx, t.AccountID, t.FromCurrency, -t.FromAmount); err != nil {
		return fmt.Errorf("debit %s: %w", t.FromCurrency, err)
	}
	if _, err := adjustInTx(ctx, tx, t.AccountID, t.ToCurrency, t.ToAmount); err != nil {
		return fmt.Errorf("credit %s: %w", t.ToCurrency, err)
	}

	_, err = tx.Exec(ctx,
		`INSERT INTO transactions (account_id, from_currency, to_currency, from_amount, to_amount)
		 VALUES ($1, $2, $3, $4, $5)`,
		t.AccountID, t.FromCurrency, t.ToCurrency, t.FromAmount, t.ToAmount,
	)
	if err != nil {
		return err
	}

	return tx.Commit(ctx)
}

func adjustInTx(ctx context.Context, tx pgx.Tx, accountID, currency string, delta float64) (float64, error) {
	var current float64
	err := tx.QueryRow(ctx,
		`SELECT amount FROM balances WHERE account_id = $1 AND currency = $2 FOR UPDATE`,
		accountID, currency,
	).Scan(&current)
	if errors.Is(err, pgx.ErrNoRows) {
		current = 0
	} else if err != nil {
		return 0, err
	}

	newBalance := current + delta
	if newBalance < 0 {
		return 0, ErrInsufficientFunds
	}

	_, err = tx.Exec(ctx,
		`INSERT INTO balances (account_id, currency, amount) VALUES ($1, $2, $3)
		 ON CONFLICT (account_id, currency) DO UPDATE SET amount = EXCLUDED.amount`,
		accountID, currency, newBalance,
	)
	if err != nil {
		return 0, err
	}
	return newBalance, nil
}
