package accounts

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/gamecraft/economy/internal/infra/pgtestutil"
	accountrepo "github.com/gamecraft/economy/internal/repos/accounts"
	"github.com/gamecraft/economy/internal/repos/currencies"
	"github.com/gamecraft/economy/internal/repos/jobs"
	"github.com/gamecraft/economy/internal/services/registry"
)

func newService(t *testing.T, db *sql.DB) (*Service, []jobs.Job) {
	t.Helper()

	_, err := db.Exec(`
		INSERT INTO currency (id, name_singular, name_plural, symbol, fraction_digits, is_default, starting_balance)
		VALUES
			(1, 'coin', 'coins', '$', 2, TRUE, 10.00),
			(2, 'token', 'tokens', 'T', 0, FALSE, 0)
	`)
	if err != nil {
		t.Fatalf("seed currencies: %v", err)
	}

	js := []jobs.Job{
		{ID: uuid.New(), Name: "miner"},
		{ID: uuid.New(), Name: "lumberjack"},
	}

	for _, j := range js {
		_, err = db.Exec(`INSERT INTO job (id, name) VALUES ($1, $2)`, j.ID, j.Name)
		if err != nil {
			t.Fatalf("seed job: %v", err)
		}
	}

	curReg := registry.NewCurrencies([]currencies.Currency{
		{ID: 1, NameSingular: "coin", NamePlural: "coins", Symbol: "$", FractionDigits: 2, IsDefault: true, StartingBalance: decimal.RequireFromString("10.00")},
		{ID: 2, NameSingular: "token", NamePlural: "tokens", Symbol: "T", FractionDigits: 0},
	})
	jobReg := registry.NewJobs(js, nil, nil)

	return New(db, curReg, jobReg), js
}

func TestCreate_ProvisionsBalancesAndExperience(t *testing.T) {
	t.Parallel()

	db, cleanup := pgtestutil.NewTestDB(t)
	defer cleanup()

	svc, js := newService(t, db)

	accountID := uuid.New()

	a, err := svc.Create(context.Background(), accountID)
	if err != nil {
		t.Fatalf("create account: %v", err)
	}
	if a.ID != accountID {
		t.Fatalf("account id mismatch: want %s, got %s", accountID, a.ID)
	}
	if a.CreatedAt.IsZero() {
		t.Fatalf("createdAt not set")
	}

	// one balance row per currency, seeded at the configured starting amount
	var coinAmount decimal.Decimal
	err = db.QueryRow(`
		SELECT amount FROM balance WHERE account_id = $1 AND currency_id = 1
	`, accountID).Scan(&coinAmount)
	if err != nil {
		t.Fatalf("read coin balance: %v", err)
	}
	if !coinAmount.Equal(decimal.RequireFromString("10.00")) {
		t.Fatalf("coin starting balance: want 10.00, got %s", coinAmount)
	}

	var balanceRows int
	err = db.QueryRow(`SELECT COUNT(*) FROM balance WHERE account_id = $1`, accountID).Scan(&balanceRows)
	if err != nil {
		t.Fatalf("count balances: %v", err)
	}
	if balanceRows != 2 {
		t.Fatalf("want 2 balance rows, got %d", balanceRows)
	}

	// one zero-experience row per job
	var expRows int
	err = db.QueryRow(`
		SELECT COUNT(*) FROM job_experience WHERE account_id = $1 AND experience = 0
	`, accountID).Scan(&expRows)
	if err != nil {
		t.Fatalf("count experience rows: %v", err)
	}
	if expRows != len(js) {
		t.Fatalf("want %d experience rows, got %d", len(js), expRows)
	}
}

func TestCreate_DuplicateConflicts(t *testing.T) {
	t.Parallel()

	db, cleanup := pgtestutil.NewTestDB(t)
	defer cleanup()

	svc, _ := newService(t, db)

	accountID := uuid.New()

	_, err := svc.Create(context.Background(), accountID)
	if err != nil {
		t.Fatalf("first create: %v", err)
	}

	_, err = svc.Create(context.Background(), accountID)
	if !errors.Is(err, accountrepo.ErrAccountExists) {
		t.Fatalf("want ErrAccountExists, got %v", err)
	}

	// the failed create must not have added rows
	var balanceRows int
	err = db.QueryRow(`SELECT COUNT(*) FROM balance WHERE account_id = $1`, accountID).Scan(&balanceRows)
	if err != nil {
		t.Fatalf("count balances: %v", err)
	}
	if balanceRows != 2 {
		t.Fatalf("want 2 balance rows after duplicate create, got %d", balanceRows)
	}
}

func TestGet_And_Has(t *testing.T) {
	t.Parallel()

	db, cleanup := pgtestutil.NewTestDB(t)
	defer cleanup()

	svc, _ := newService(t, db)

	accountID := uuid.New()

	ok, err := svc.Has(context.Background(), accountID)
	if err != nil {
		t.Fatalf("has: %v", err)
	}
	if ok {
		t.Fatalf("account should not exist yet")
	}

	_, err = svc.Get(context.Background(), accountID)
	if !errors.Is(err, accountrepo.ErrAccountNotFound) {
		t.Fatalf("want ErrAccountNotFound, got %v", err)
	}

	_, err = svc.Create(context.Background(), accountID)
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	ok, err = svc.Has(context.Background(), accountID)
	if err != nil {
		t.Fatalf("has after create: %v", err)
	}
	if !ok {
		t.Fatalf("account should exist")
	}

	a, err := svc.Get(context.Background(), accountID)
	if err != nil {
		t.Fatalf("get after create: %v", err)
	}
	if a.ID != accountID {
		t.Fatalf("account id mismatch")
	}
}
