package currencies

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
)

var ErrCurrencyNotFound = errors.New("currency not found")

// Currency is a named unit of value with a display format and fractional
// precision. Rows are static for a server session; the registry loads them
// once at startup.
type Currency struct {
	ID              int32
	NameSingular    string
	NamePlural      string
	Symbol          string
	FractionDigits  int32
	IsDefault       bool
	StartingBalance decimal.Decimal
}

type Currencies interface {
	ListAll(ctx context.Context) ([]Currency, error)
}
