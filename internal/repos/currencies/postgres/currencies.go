package currencies

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/gamecraft/economy/internal/repos/currencies"
)

type currenciesRepo struct{ db *sql.DB }

func New(db *sql.DB) *currenciesRepo {
	return &currenciesRepo{db: db}
}

func (r *currenciesRepo) ListAll(ctx context.Context) ([]currencies.Currency, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, name_singular, name_plural, symbol, fraction_digits, is_default, starting_balance
		FROM currency
		ORDER BY id
	`)
	if err != nil {
		return nil, fmt.Errorf("list currencies: %w", err)
	}
	defer rows.Close()

	var out []currencies.Currency

	for rows.Next() {
		var c currencies.Currency

		err = rows.Scan(
			&c.ID, &c.NameSingular, &c.NamePlural, &c.Symbol,
			&c.FractionDigits, &c.IsDefault, &c.StartingBalance,
		)
		if err != nil {
			return nil, fmt.Errorf("scan currency: %w", err)
		}

		out = append(out, c)
	}

	err = rows.Err()
	if err != nil {
		return nil, fmt.Errorf("iterate currencies: %w", err)
	}

	return out, nil
}
