package ledger

import (
	"bytes"
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/gamecraft/economy/internal/infra/pgutils"
	balancerepo "github.com/gamecraft/economy/internal/repos/balances"
)

// Transfer moves amount between two accounts in one currency as a single
// all-or-nothing unit:
//
// 1) Lock both balance rows (FOR UPDATE), lower account id first so two
//    opposing transfers cannot deadlock.
// 2) Check the sender's locked balance covers the amount.
// 3) Apply the guarded decrement and the increment, commit both together.
//
// Failure reasons: ErrInvalidAmount (amount <= 0 after scaling),
// ErrCurrencyMismatch (the two rows disagree on currency),
// balances.ErrInsufficientFunds, balances.ErrBalanceNotFound.
func (s *Service) Transfer(ctx context.Context, fromAccountID, toAccountID uuid.UUID, currencyID int32, amount decimal.Decimal) error {
	if amount.Sign() <= 0 {
		return fmt.Errorf("transfer: %w", ErrInvalidAmount)
	}

	cur, err := s.currencies.Get(currencyID)
	if err != nil {
		return fmt.Errorf("transfer: %w", err)
	}

	amount = amount.Truncate(cur.FractionDigits)
	if amount.Sign() == 0 {
		return fmt.Errorf("transfer: %w", ErrInvalidAmount)
	}

	err = pgutils.WithTx(ctx, s.db, func(tx *sql.Tx) error {
		from, to, err := s.lockPair(tx, fromAccountID, toAccountID, currencyID)
		if err != nil {
			return err
		}

		return s.transferLocked(tx, from, to, amount)
	})
	if err != nil {
		return fmt.Errorf("transfer: %w", err)
	}

	return nil
}

// lockPair locks the two balance rows in deterministic account-id order and
// returns them as (from, to).
func (s *Service) lockPair(tx *sql.Tx, fromAccountID, toAccountID uuid.UUID, currencyID int32) (balancerepo.Balance, balancerepo.Balance, error) {
	firstID, secondID := fromAccountID, toAccountID
	if bytes.Compare(toAccountID[:], fromAccountID[:]) < 0 {
		firstID, secondID = toAccountID, fromAccountID
	}

	first, err := s.balances.LockAndGet(tx, firstID, currencyID)
	if err != nil {
		return balancerepo.Balance{}, balancerepo.Balance{}, fmt.Errorf("lock %s: %w", firstID, err)
	}

	second, err := s.balances.LockAndGet(tx, secondID, currencyID)
	if err != nil {
		return balancerepo.Balance{}, balancerepo.Balance{}, fmt.Errorf("lock %s: %w", secondID, err)
	}

	if firstID == fromAccountID {
		return first, second, nil
	}

	return second, first, nil
}

// transferLocked applies the two writes against rows the caller has already
// locked. The rows must belong to the same currency.
func (s *Service) transferLocked(tx *sql.Tx, from, to balancerepo.Balance, amount decimal.Decimal) error {
	if from.CurrencyID != to.CurrencyID {
		return fmt.Errorf("from currency %d, to currency %d: %w", from.CurrencyID, to.CurrencyID, ErrCurrencyMismatch)
	}

	if from.Amount.LessThan(amount) {
		return fmt.Errorf("pre-check transfer: %w", balancerepo.ErrInsufficientFunds)
	}

	err := s.balances.Decrease(tx, from.ID, amount)
	if err != nil {
		return fmt.Errorf("decrease sender: %w", err)
	}

	err = s.balances.Increase(tx, to.ID, amount)
	if err != nil {
		return fmt.Errorf("increase receiver: %w", err)
	}

	return nil
}
