package accounts

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/gamecraft/economy/internal/repos/accounts"
)

var _ accounts.Accounts = (*accountsRepo)(nil)

type accountsRepo struct{ db *sql.DB }

func New(db *sql.DB) *accountsRepo {
	return &accountsRepo{db: db}
}

func (r *accountsRepo) Insert(tx *sql.Tx, accountID uuid.UUID) (accounts.Account, error) {
	var a accounts.Account

	err := tx.QueryRow(`
		INSERT INTO account (id)
		VALUES ($1)
		RETURNING id, created_at
	`, accountID).Scan(&a.ID, &a.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" { // unique_violation
			return accounts.Account{}, accounts.ErrAccountExists
		}

		return accounts.Account{}, fmt.Errorf("insert account: %w", err)
	}

	return a, nil
}

func (r *accountsRepo) Get(ctx context.Context, accountID uuid.UUID) (accounts.Account, error) {
	var a accounts.Account

	err := r.db.QueryRowContext(ctx, `
		SELECT id, created_at
		FROM account
		WHERE id = $1
	`, accountID).Scan(&a.ID, &a.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return accounts.Account{}, accounts.ErrAccountNotFound
		}

		return accounts.Account{}, fmt.Errorf("get account: %w", err)
	}

	return a, nil
}

func (r *accountsRepo) Exists(ctx context.Context, accountID uuid.UUID) (bool, error) {
	var exists bool

	err := r.db.QueryRowContext(ctx, `
		SELECT EXISTS(SELECT 1 FROM account WHERE id = $1)
	`, accountID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check account exists: %w", err)
	}

	return exists, nil
}
