// Package ledger owns balance rows. Every mutation truncates to the owning
// currency's fraction digits, runs inside a single database transaction with
// the affected rows locked, and never persists a negative amount.
package ledger

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/gamecraft/economy/internal/infra/pgutils"
	balancerepo "github.com/gamecraft/economy/internal/repos/balances"
	pgbalances "github.com/gamecraft/economy/internal/repos/balances/postgres"
	"github.com/gamecraft/economy/internal/services/registry"
)

var ErrInvalidAmount = errors.New("invalid amount")
var ErrCurrencyMismatch = errors.New("currency mismatch")

type Service struct {
	db         *sql.DB
	currencies *registry.Currencies
	balances   balancerepo.Balances
}

func New(db *sql.DB, cur *registry.Currencies) *Service {
	return &Service{
		db:         db,
		currencies: cur,
		balances:   pgbalances.New(db),
	}
}

// GetBalance returns the amount an account holds in one currency
// (no locks; suitable for read endpoints).
func (s *Service) GetBalance(ctx context.Context, accountID uuid.UUID, currencyID int32) (decimal.Decimal, error) {
	b, err := s.balances.Get(ctx, accountID, currencyID)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("get balance: %w", err)
	}

	return b.Amount, nil
}

// GetBalances returns the account's balance rows ordered by currency id.
func (s *Service) GetBalances(ctx context.Context, accountID uuid.UUID) ([]balancerepo.Balance, error) {
	list, err := s.balances.List(ctx, accountID)
	if err != nil {
		return nil, fmt.Errorf("get balances: %w", err)
	}

	return list, nil
}

// SetBalance overwrites the stored amount after scaling it to the currency's
// fraction digits. Negative amounts are rejected before any write.
func (s *Service) SetBalance(ctx context.Context, accountID uuid.UUID, currencyID int32, amount decimal.Decimal) (balancerepo.Balance, error) {
	if amount.Sign() < 0 {
		return balancerepo.Balance{}, fmt.Errorf("set balance: %w", ErrInvalidAmount)
	}

	cur, err := s.currencies.Get(currencyID)
	if err != nil {
		return balancerepo.Balance{}, fmt.Errorf("set balance: %w", err)
	}

	amount = amount.Truncate(cur.FractionDigits)

	var out balancerepo.Balance

	err = pgutils.WithTx(ctx, s.db, func(tx *sql.Tx) error {
		b, err := s.balances.LockAndGet(tx, accountID, currencyID)
		if err != nil {
			return fmt.Errorf("lock balance: %w", err)
		}

		err = s.balances.SetAmount(tx, b.ID, amount)
		if err != nil {
			return fmt.Errorf("set amount: %w", err)
		}

		b.Amount = amount
		out = b

		return nil
	})
	if err != nil {
		return balancerepo.Balance{}, fmt.Errorf("set balance: %w", err)
	}

	return out, nil
}

// Deposit credits the account. The amount must be positive; it is truncated
// to the currency's fraction digits before the write.
func (s *Service) Deposit(ctx context.Context, accountID uuid.UUID, currencyID int32, amount decimal.Decimal) (balancerepo.Balance, error) {
	if amount.Sign() <= 0 {
		return balancerepo.Balance{}, fmt.Errorf("deposit: %w", ErrInvalidAmount)
	}

	cur, err := s.currencies.Get(currencyID)
	if err != nil {
		return balancerepo.Balance{}, fmt.Errorf("deposit: %w", err)
	}

	amount = amount.Truncate(cur.FractionDigits)
	if amount.Sign() == 0 {
		return balancerepo.Balance{}, fmt.Errorf("deposit: %w", ErrInvalidAmount)
	}

	var out balancerepo.Balance

	err = pgutils.WithTx(ctx, s.db, func(tx *sql.Tx) error {
		b, err := s.balances.LockAndGet(tx, accountID, currencyID)
		if err != nil {
			return fmt.Errorf("lock balance: %w", err)
		}

		err = s.balances.Increase(tx, b.ID, amount)
		if err != nil {
			return fmt.Errorf("increase: %w", err)
		}

		b.Amount = b.Amount.Add(amount)
		out = b

		return nil
	})
	if err != nil {
		return balancerepo.Balance{}, fmt.Errorf("deposit: %w", err)
	}

	return out, nil
}

// Withdraw debits the account, failing with balances.ErrInsufficientFunds
// when the locked balance does not cover the amount.
func (s *Service) Withdraw(ctx context.Context, accountID uuid.UUID, currencyID int32, amount decimal.Decimal) (balancerepo.Balance, error) {
	if amount.Sign() <= 0 {
		return balancerepo.Balance{}, fmt.Errorf("withdraw: %w", ErrInvalidAmount)
	}

	cur, err := s.currencies.Get(currencyID)
	if err != nil {
		return balancerepo.Balance{}, fmt.Errorf("withdraw: %w", err)
	}

	amount = amount.Truncate(cur.FractionDigits)
	if amount.Sign() == 0 {
		return balancerepo.Balance{}, fmt.Errorf("withdraw: %w", ErrInvalidAmount)
	}

	var out balancerepo.Balance

	err = pgutils.WithTx(ctx, s.db, func(tx *sql.Tx) error {
		b, err := s.balances.LockAndGet(tx, accountID, currencyID)
		if err != nil {
			return fmt.Errorf("lock balance: %w", err)
		}

		// pre-check against the locked balance
		if b.Amount.LessThan(amount) {
			return fmt.Errorf("pre-check withdraw: %w", balancerepo.ErrInsufficientFunds)
		}

		err = s.balances.Decrease(tx, b.ID, amount)
		if err != nil {
			return fmt.Errorf("decrease: %w", err)
		}

		b.Amount = b.Amount.Sub(amount)
		out = b

		return nil
	})
	if err != nil {
		return balancerepo.Balance{}, fmt.Errorf("withdraw: %w", err)
	}

	return out, nil
}
