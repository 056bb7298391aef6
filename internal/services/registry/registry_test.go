package registry

import (
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/gamecraft/economy/internal/repos/currencies"
	"github.com/gamecraft/economy/internal/repos/jobs"
)

func testCurrencies() *Currencies {
	return NewCurrencies([]currencies.Currency{
		{ID: 1, NameSingular: "coin", NamePlural: "coins", Symbol: "$", FractionDigits: 2, IsDefault: true},
		{ID: 2, NameSingular: "token", NamePlural: "tokens", Symbol: "T", FractionDigits: 0},
	})
}

func TestCurrencies_Default(t *testing.T) {
	t.Parallel()

	reg := testCurrencies()

	def, err := reg.Default()
	if err != nil {
		t.Fatalf("default currency: %v", err)
	}
	if def.ID != 1 {
		t.Fatalf("default currency id: want 1, got %d", def.ID)
	}

	empty := NewCurrencies([]currencies.Currency{{ID: 3, NameSingular: "gem", NamePlural: "gems"}})
	_, err = empty.Default()
	if !errors.Is(err, currencies.ErrCurrencyNotFound) {
		t.Fatalf("no-default registry: want ErrCurrencyNotFound, got %v", err)
	}
}

func TestCurrencies_Get(t *testing.T) {
	t.Parallel()

	reg := testCurrencies()

	cur, err := reg.Get(2)
	if err != nil {
		t.Fatalf("get currency: %v", err)
	}
	if cur.NamePlural != "tokens" {
		t.Fatalf("currency name: want tokens, got %s", cur.NamePlural)
	}

	_, err = reg.Get(99)
	if !errors.Is(err, currencies.ErrCurrencyNotFound) {
		t.Fatalf("unknown currency: want ErrCurrencyNotFound, got %v", err)
	}
}

func TestCurrencies_Format(t *testing.T) {
	t.Parallel()

	reg := testCurrencies()
	cur, _ := reg.Get(1)

	tests := []struct {
		amount string
		want   string
	}{
		{amount: "1", want: "$1.00 coin"},
		{amount: "1.5", want: "$1.50 coins"},
		{amount: "0.25", want: "$0.25 coins"},
	}

	for _, tt := range tests {
		got := reg.Format(cur, decimal.RequireFromString(tt.amount))
		if got != tt.want {
			t.Errorf("Format(%s) = %q, want %q", tt.amount, got, tt.want)
		}
	}
}

func TestJobs_Lookups(t *testing.T) {
	t.Parallel()

	miner := jobs.Job{ID: uuid.New(), Name: "miner"}
	breakAct := jobs.JobAction{ID: uuid.New(), Name: "break"}
	reward := jobs.JobReward{
		ID:          uuid.New(),
		JobID:       miner.ID,
		JobActionID: breakAct.ID,
		CurrencyID:  1,
		Material:    "coal_ore",
		Money:       decimal.RequireFromString("0.25"),
		Experience:  5,
	}

	cat := NewJobs([]jobs.Job{miner}, []jobs.JobAction{breakAct}, []jobs.JobReward{reward})

	got, err := cat.JobByName("miner")
	if err != nil {
		t.Fatalf("job by name: %v", err)
	}
	if got.ID != miner.ID {
		t.Fatalf("job by name: wrong job")
	}

	_, err = cat.JobByName("farmer")
	if !errors.Is(err, jobs.ErrJobNotFound) {
		t.Fatalf("unknown job: want ErrJobNotFound, got %v", err)
	}

	act, err := cat.Action("break")
	if err != nil {
		t.Fatalf("action: %v", err)
	}

	_, err = cat.Action("smelt")
	if !errors.Is(err, jobs.ErrActionNotFound) {
		t.Fatalf("unknown action: want ErrActionNotFound, got %v", err)
	}

	w, ok := cat.Reward(act.ID, "coal_ore")
	if !ok {
		t.Fatalf("configured reward not found")
	}
	if !w.Money.Equal(decimal.RequireFromString("0.25")) || w.Experience != 5 {
		t.Fatalf("reward mismatch: %+v", w)
	}

	// most materials grant nothing; that is not an error
	_, ok = cat.Reward(act.ID, "dirt")
	if ok {
		t.Fatalf("unconfigured material should have no reward")
	}
}
