package balances

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var ErrBalanceNotFound = errors.New("balance not found")
var ErrInsufficientFunds = errors.New("insufficient funds")

// Balance is the exact decimal amount an account holds in one currency.
// At most one row exists per (account, currency) pair; the amount never
// goes negative.
type Balance struct {
	ID         uuid.UUID
	AccountID  uuid.UUID
	CurrencyID int32
	Amount     decimal.Decimal
}

type Balances interface {
	Insert(tx *sql.Tx, b Balance) error
	Get(ctx context.Context, accountID uuid.UUID, currencyID int32) (Balance, error)
	List(ctx context.Context, accountID uuid.UUID) ([]Balance, error)
	LockAndGet(tx *sql.Tx, accountID uuid.UUID, currencyID int32) (Balance, error)
	Increase(tx *sql.Tx, balanceID uuid.UUID, amount decimal.Decimal) error
	Decrease(tx *sql.Tx, balanceID uuid.UUID, amount decimal.Decimal) error
	SetAmount(tx *sql.Tx, balanceID uuid.UUID, amount decimal.Decimal) error
}
