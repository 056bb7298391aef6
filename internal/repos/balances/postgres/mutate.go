package balances

import (
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/gamecraft/economy/internal/repos/balances"
)

func (r *balancesRepo) Insert(tx *sql.Tx, b balances.Balance) error {
	_, err := tx.Exec(`
		INSERT INTO balance (id, account_id, currency_id, amount)
		VALUES ($1, $2, $3, $4)
	`, b.ID, b.AccountID, b.CurrencyID, b.Amount)
	if err != nil {
		return fmt.Errorf("insert balance: %w", err)
	}

	return nil
}

func (r *balancesRepo) Increase(tx *sql.Tx, balanceID uuid.UUID, amount decimal.Decimal) error {
	_, err := tx.Exec(`
		UPDATE balance
		SET amount = amount + $2
		WHERE id = $1
	`, balanceID, amount)
	if err != nil {
		return fmt.Errorf("increase balance: %w", err)
	}

	return nil
}

func (r *balancesRepo) Decrease(tx *sql.Tx, balanceID uuid.UUID, amount decimal.Decimal) error {
	res, err := tx.Exec(`
		UPDATE balance
		SET amount = amount - $2
		WHERE id = $1
		  AND amount >= $2
	`, balanceID, amount)
	if err != nil {
		return fmt.Errorf("decrease balance: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}

	if affected == 0 {
		return balances.ErrInsufficientFunds
	}

	return nil
}

func (r *balancesRepo) SetAmount(tx *sql.Tx, balanceID uuid.UUID, amount decimal.Decimal) error {
	res, err := tx.Exec(`
		UPDATE balance
		SET amount = $2
		WHERE id = $1
	`, balanceID, amount)
	if err != nil {
		return fmt.Errorf("set balance: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}

	if affected == 0 {
		return balances.ErrBalanceNotFound
	}

	return nil
}
