// Package accounts implements the account store: one ledger identity per
// player, provisioned with a balance row per currency and an experience row
// per job in a single transaction.
package accounts

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/gamecraft/economy/internal/infra/pgutils"
	accountrepo "github.com/gamecraft/economy/internal/repos/accounts"
	pgaccounts "github.com/gamecraft/economy/internal/repos/accounts/postgres"
	balancerepo "github.com/gamecraft/economy/internal/repos/balances"
	pgbalances "github.com/gamecraft/economy/internal/repos/balances/postgres"
	exprepo "github.com/gamecraft/economy/internal/repos/experience"
	pgexperience "github.com/gamecraft/economy/internal/repos/experience/postgres"
	"github.com/gamecraft/economy/internal/services/registry"
)

type Service struct {
	db         *sql.DB
	currencies *registry.Currencies
	jobs       *registry.Jobs
	accounts   accountrepo.Accounts
	balances   balancerepo.Balances
	experience exprepo.Experience
}

func New(db *sql.DB, cur *registry.Currencies, jobs *registry.Jobs) *Service {
	return &Service{
		db:         db,
		currencies: cur,
		jobs:       jobs,
		accounts:   pgaccounts.New(db),
		balances:   pgbalances.New(db),
		experience: pgexperience.New(db),
	}
}

// Create inserts the account and, in the same transaction, one balance row
// per known currency seeded at that currency's starting amount and one
// zero-experience row per known job. A second create for the same id fails
// with accounts.ErrAccountExists; callers wanting idempotence check Has
// first.
func (s *Service) Create(ctx context.Context, accountID uuid.UUID) (accountrepo.Account, error) {
	var created accountrepo.Account

	err := pgutils.WithTx(ctx, s.db, func(tx *sql.Tx) error {
		a, err := s.accounts.Insert(tx, accountID)
		if err != nil {
			return fmt.Errorf("insert account: %w", err)
		}

		for _, cur := range s.currencies.List() {
			b := balancerepo.Balance{
				ID:         uuid.New(),
				AccountID:  accountID,
				CurrencyID: cur.ID,
				Amount:     cur.StartingBalance.Truncate(cur.FractionDigits),
			}

			err = s.balances.Insert(tx, b)
			if err != nil {
				return fmt.Errorf("seed balance for currency %d: %w", cur.ID, err)
			}
		}

		jobIDs := make([]uuid.UUID, 0)
		for _, job := range s.jobs.List() {
			jobIDs = append(jobIDs, job.ID)
		}

		err = s.experience.SeedRows(tx, accountID, jobIDs)
		if err != nil {
			return fmt.Errorf("seed experience rows: %w", err)
		}

		created = a

		return nil
	})
	if err != nil {
		return accountrepo.Account{}, fmt.Errorf("create account: %w", err)
	}

	return created, nil
}

func (s *Service) Get(ctx context.Context, accountID uuid.UUID) (accountrepo.Account, error) {
	a, err := s.accounts.Get(ctx, accountID)
	if err != nil {
		return accountrepo.Account{}, fmt.Errorf("get account: %w", err)
	}

	return a, nil
}

func (s *Service) Has(ctx context.Context, accountID uuid.UUID) (bool, error) {
	ok, err := s.accounts.Exists(ctx, accountID)
	if err != nil {
		return false, fmt.Errorf("account exists: %w", err)
	}

	return ok, nil
}
