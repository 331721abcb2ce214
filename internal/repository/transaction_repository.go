package repository

import (
	"context"

	"kantor/internal/domain"

	"go.opentelemetry.io/otel/trace"
)

type TransactionRepository struct {
	pool   PgxPool
	tracer trace.Tracer
}

func NewTransactionRepository(pool PgxPool, tracer trace.Tracer) *TransactionRepository {
	return &TransactionRepository{pool: pool, tracer: tracer}
}

// ListByAccount returns an account's exchange history, newest first.
func (r *TransactionRepository) ListByAccount(ctx context.Context, accountID string, limit int) ([]domain.Transaction, error) {
	_, span := r.tracer.Start(ctx, "transaction-repo.list-by-account")
	defer span.End()

	if limit <= 0 {
		limit = 50
	}

	rows, err := r.pool.Query(ctx,
		`SELECT id, account_id, from_currency, to_currency, from_amount, to_amount, created_at
		 FROM transactions
		 WHERE account_id = $1
		 ORDER BY created_at DESC
		 LIMIT $2`,
		accountID, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Transaction
	for rows.Next() {
		var t domain.Transaction
		if err := rows.Scan(&t.ID, &t.AccountID, &t.FromCurrency, &t.ToCurrency, &t.FromAmount, &t.ToAmount, &t.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}
