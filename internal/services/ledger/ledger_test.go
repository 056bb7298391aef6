package ledger

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/gamecraft/economy/internal/infra/pgtestutil"
	balancerepo "github.com/gamecraft/economy/internal/repos/balances"
	"github.com/gamecraft/economy/internal/repos/currencies"
	"github.com/gamecraft/economy/internal/services/registry"
)

// newLedger seeds two currencies and returns a ledger over a throwaway db.
func newLedger(t *testing.T, db *sql.DB) *Service {
	t.Helper()

	_, err := db.Exec(`
		INSERT INTO currency (id, name_singular, name_plural, symbol, fraction_digits, is_default)
		VALUES
			(1, 'coin', 'coins', '$', 2, TRUE),
			(2, 'token', 'tokens', 'T', 0, FALSE)
	`)
	if err != nil {
		t.Fatalf("seed currencies: %v", err)
	}

	reg := registry.NewCurrencies([]currencies.Currency{
		{ID: 1, NameSingular: "coin", NamePlural: "coins", Symbol: "$", FractionDigits: 2, IsDefault: true},
		{ID: 2, NameSingular: "token", NamePlural: "tokens", Symbol: "T", FractionDigits: 0},
	})

	return New(db, reg)
}

func seedAccountBalance(t *testing.T, db *sql.DB, currencyID int32, amount string) uuid.UUID {
	t.Helper()

	accountID := uuid.New()

	_, err := db.Exec(`INSERT INTO account (id) VALUES ($1)`, accountID)
	if err != nil {
		t.Fatalf("seed account: %v", err)
	}

	_, err = db.Exec(`
		INSERT INTO balance (id, account_id, currency_id, amount)
		VALUES ($1, $2, $3, $4)
	`, uuid.New(), accountID, currencyID, decimal.RequireFromString(amount))
	if err != nil {
		t.Fatalf("seed balance: %v", err)
	}

	return accountID
}

func requireBalance(t *testing.T, svc *Service, accountID uuid.UUID, currencyID int32, want string) {
	t.Helper()

	got, err := svc.GetBalance(context.Background(), accountID, currencyID)
	if err != nil {
		t.Fatalf("get balance: %v", err)
	}
	if !got.Equal(decimal.RequireFromString(want)) {
		t.Fatalf("balance mismatch: want %s, got %s", want, got)
	}
}

func TestTransfer_MovesAndConserves(t *testing.T) {
	t.Parallel()

	db, cleanup := pgtestutil.NewTestDB(t)
	defer cleanup()

	svc := newLedger(t, db)
	a := seedAccountBalance(t, db, 1, "100.00")
	b := seedAccountBalance(t, db, 1, "0.00")

	err := svc.Transfer(context.Background(), a, b, 1, decimal.RequireFromString("40.00"))
	if err != nil {
		t.Fatalf("transfer: %v", err)
	}

	requireBalance(t, svc, a, 1, "60.00")
	requireBalance(t, svc, b, 1, "40.00")
}

func TestTransfer_InsufficientFunds_NoMutation(t *testing.T) {
	t.Parallel()

	db, cleanup := pgtestutil.NewTestDB(t)
	defer cleanup()

	svc := newLedger(t, db)
	a := seedAccountBalance(t, db, 1, "24.00")
	b := seedAccountBalance(t, db, 1, "5.00")

	err := svc.Transfer(context.Background(), a, b, 1, decimal.RequireFromString("25.00"))
	if !errors.Is(err, balancerepo.ErrInsufficientFunds) {
		t.Fatalf("want ErrInsufficientFunds, got %v", err)
	}

	requireBalance(t, svc, a, 1, "24.00")
	requireBalance(t, svc, b, 1, "5.00")
}

func TestTransfer_InvalidAmount(t *testing.T) {
	t.Parallel()

	db, cleanup := pgtestutil.NewTestDB(t)
	defer cleanup()

	svc := newLedger(t, db)
	a := seedAccountBalance(t, db, 1, "10.00")
	b := seedAccountBalance(t, db, 1, "0.00")

	for _, amount := range []string{"0", "-1.00", "0.001"} {
		err := svc.Transfer(context.Background(), a, b, 1, decimal.RequireFromString(amount))
		if !errors.Is(err, ErrInvalidAmount) {
			t.Fatalf("amount %s: want ErrInvalidAmount, got %v", amount, err)
		}
	}

	requireBalance(t, svc, a, 1, "10.00")
}

func TestTransfer_MissingBalanceRow(t *testing.T) {
	t.Parallel()

	db, cleanup := pgtestutil.NewTestDB(t)
	defer cleanup()

	svc := newLedger(t, db)
	a := seedAccountBalance(t, db, 1, "10.00")

	err := svc.Transfer(context.Background(), a, uuid.New(), 1, decimal.RequireFromString("1.00"))
	if !errors.Is(err, balancerepo.ErrBalanceNotFound) {
		t.Fatalf("want ErrBalanceNotFound, got %v", err)
	}

	requireBalance(t, svc, a, 1, "10.00")
}

// transferLocked guards against rows from different currencies; the guard
// must fire before any write.
func TestTransferLocked_CurrencyMismatch(t *testing.T) {
	t.Parallel()

	db, cleanup := pgtestutil.NewTestDB(t)
	defer cleanup()

	svc := newLedger(t, db)
	a := seedAccountBalance(t, db, 1, "10.00")
	b := seedAccountBalance(t, db, 2, "3")

	tx, err := db.BeginTx(context.Background(), nil)
	if err != nil {
		t.Fatalf("begin tx: %v", err)
	}
	defer func() { _ = tx.Rollback() }()

	fromRow, err := svc.balances.LockAndGet(tx, a, 1)
	if err != nil {
		t.Fatalf("lock from: %v", err)
	}

	toRow, err := svc.balances.LockAndGet(tx, b, 2)
	if err != nil {
		t.Fatalf("lock to: %v", err)
	}

	err = svc.transferLocked(tx, fromRow, toRow, decimal.RequireFromString("1.00"))
	if !errors.Is(err, ErrCurrencyMismatch) {
		t.Fatalf("want ErrCurrencyMismatch, got %v", err)
	}

	_ = tx.Rollback()

	requireBalance(t, svc, a, 1, "10.00")
	requireBalance(t, svc, b, 2, "3")
}

func TestSetBalance_RejectsNegative(t *testing.T) {
	t.Parallel()

	db, cleanup := pgtestutil.NewTestDB(t)
	defer cleanup()

	svc := newLedger(t, db)
	a := seedAccountBalance(t, db, 1, "10.00")

	_, err := svc.SetBalance(context.Background(), a, 1, decimal.RequireFromString("-0.01"))
	if !errors.Is(err, ErrInvalidAmount) {
		t.Fatalf("want ErrInvalidAmount, got %v", err)
	}

	requireBalance(t, svc, a, 1, "10.00")
}

func TestSetBalance_TruncatesToFractionDigits(t *testing.T) {
	t.Parallel()

	db, cleanup := pgtestutil.NewTestDB(t)
	defer cleanup()

	svc := newLedger(t, db)
	a := seedAccountBalance(t, db, 1, "0.00")

	b, err := svc.SetBalance(context.Background(), a, 1, decimal.RequireFromString("12.3456"))
	if err != nil {
		t.Fatalf("set balance: %v", err)
	}

	// round-down scaling, never round half up
	if !b.Amount.Equal(decimal.RequireFromString("12.34")) {
		t.Fatalf("want 12.34, got %s", b.Amount)
	}

	requireBalance(t, svc, a, 1, "12.34")
}

func TestDeposit_CreditsTruncated(t *testing.T) {
	t.Parallel()

	db, cleanup := pgtestutil.NewTestDB(t)
	defer cleanup()

	svc := newLedger(t, db)
	a := seedAccountBalance(t, db, 1, "1.00")

	b, err := svc.Deposit(context.Background(), a, 1, decimal.RequireFromString("0.259"))
	if err != nil {
		t.Fatalf("deposit: %v", err)
	}

	if !b.Amount.Equal(decimal.RequireFromString("1.25")) {
		t.Fatalf("want 1.25, got %s", b.Amount)
	}
}

func TestWithdraw_InsufficientFunds(t *testing.T) {
	t.Parallel()

	db, cleanup := pgtestutil.NewTestDB(t)
	defer cleanup()

	svc := newLedger(t, db)
	a := seedAccountBalance(t, db, 1, "5.00")

	_, err := svc.Withdraw(context.Background(), a, 1, decimal.RequireFromString("5.01"))
	if !errors.Is(err, balancerepo.ErrInsufficientFunds) {
		t.Fatalf("want ErrInsufficientFunds, got %v", err)
	}

	requireBalance(t, svc, a, 1, "5.00")

	got, err := svc.Withdraw(context.Background(), a, 1, decimal.RequireFromString("5.00"))
	if err != nil {
		t.Fatalf("withdraw: %v", err)
	}
	if !got.Amount.Equal(decimal.Zero) {
		t.Fatalf("want 0, got %s", got.Amount)
	}
}

func TestGetBalances_OrderedByCurrency(t *testing.T) {
	t.Parallel()

	db, cleanup := pgtestutil.NewTestDB(t)
	defer cleanup()

	svc := newLedger(t, db)

	accountID := uuid.New()
	_, err := db.Exec(`INSERT INTO account (id) VALUES ($1)`, accountID)
	if err != nil {
		t.Fatalf("seed account: %v", err)
	}

	for _, row := range []struct {
		currencyID int32
		amount     string
	}{{2, "7"}, {1, "1.50"}} {
		_, err = db.Exec(`
			INSERT INTO balance (id, account_id, currency_id, amount)
			VALUES ($1, $2, $3, $4)
		`, uuid.New(), accountID, row.currencyID, decimal.RequireFromString(row.amount))
		if err != nil {
			t.Fatalf("seed balance: %v", err)
		}
	}

	list, err := svc.GetBalances(context.Background(), accountID)
	if err != nil {
		t.Fatalf("get balances: %v", err)
	}

	if len(list) != 2 {
		t.Fatalf("want 2 balances, got %d", len(list))
	}
	if list[0].CurrencyID != 1 || list[1].CurrencyID != 2 {
		t.Fatalf("balances not ordered by currency: %v, %v", list[0].CurrencyID, list[1].CurrencyID)
	}
}

// TestTransfer_InvalidAmount relies on 0.001 truncating to zero at 2
// fraction digits; keep a direct check on that edge close by.
func TestTransfer_TruncatesBeforeValidation(t *testing.T) {
	t.Parallel()

	db, cleanup := pgtestutil.NewTestDB(t)
	defer cleanup()

	svc := newLedger(t, db)
	a := seedAccountBalance(t, db, 1, "10.00")
	b := seedAccountBalance(t, db, 1, "0.00")

	err := svc.Transfer(context.Background(), a, b, 1, decimal.RequireFromString("1.239"))
	if err != nil {
		t.Fatalf("transfer: %v", err)
	}

	requireBalance(t, svc, a, 1, "8.77")
	requireBalance(t, svc, b, 1, "1.23")
}
