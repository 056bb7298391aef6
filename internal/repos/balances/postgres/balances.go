package balances

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/gamecraft/economy/internal/repos/balances"
)

var _ balances.Balances = (*balancesRepo)(nil)

type balancesRepo struct{ db *sql.DB }

func New(db *sql.DB) *balancesRepo {
	return &balancesRepo{db: db}
}

func (r *balancesRepo) Get(ctx context.Context, accountID uuid.UUID, currencyID int32) (balances.Balance, error) {
	var b balances.Balance

	err := r.db.QueryRowContext(ctx, `
		SELECT id, account_id, currency_id, amount
		FROM balance
		WHERE account_id = $1 AND currency_id = $2
	`, accountID, currencyID).Scan(&b.ID, &b.AccountID, &b.CurrencyID, &b.Amount)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return balances.Balance{}, balances.ErrBalanceNotFound
		}

		return balances.Balance{}, fmt.Errorf("get balance: %w", err)
	}

	return b, nil
}

func (r *balancesRepo) List(ctx context.Context, accountID uuid.UUID) ([]balances.Balance, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, account_id, currency_id, amount
		FROM balance
		WHERE account_id = $1
		ORDER BY currency_id
	`, accountID)
	if err != nil {
		return nil, fmt.Errorf("list balances: %w", err)
	}
	defer rows.Close()

	var out []balances.Balance

	for rows.Next() {
		var b balances.Balance

		err = rows.Scan(&b.ID, &b.AccountID, &b.CurrencyID, &b.Amount)
		if err != nil {
			return nil, fmt.Errorf("scan balance: %w", err)
		}

		out = append(out, b)
	}

	err = rows.Err()
	if err != nil {
		return nil, fmt.Errorf("iterate balances: %w", err)
	}

	return out, nil
}

func (r *balancesRepo) LockAndGet(tx *sql.Tx, accountID uuid.UUID, currencyID int32) (balances.Balance, error) {
	var b balances.Balance

	err := tx.QueryRow(`
		SELECT id, account_id, currency_id, amount
		FROM balance
		WHERE account_id = $1 AND currency_id = $2
		FOR UPDATE
	`, accountID, currencyID).Scan(&b.ID, &b.AccountID, &b.CurrencyID, &b.Amount)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return balances.Balance{}, balances.ErrBalanceNotFound
		}

		return balances.Balance{}, fmt.Errorf("lock/get balance: %w", err)
	}

	return b, nil
}
