package accounts

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
)

var ErrAccountNotFound = errors.New("account not found")
var ErrAccountExists = errors.New("account already exists")

// Account is a player's ledger identity. Created once per player and never
// deleted in normal operation.
type Account struct {
	ID        uuid.UUID
	CreatedAt time.Time
}

type Accounts interface {
	Insert(tx *sql.Tx, accountID uuid.UUID) (Account, error)
	Get(ctx context.Context, accountID uuid.UUID) (Account, error)
	Exists(ctx context.Context, accountID uuid.UUID) (bool, error)
}
