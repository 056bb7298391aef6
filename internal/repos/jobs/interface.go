package jobs

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var ErrJobNotFound = errors.New("job not found")
var ErrActionNotFound = errors.New("job action not found")

// Job is a trackable in-game role (miner, lumberjack, ...) with its own
// experience track. Catalog rows are read-only at runtime.
type Job struct {
	ID   uuid.UUID
	Name string
}

// JobAction is a kind of rewardable in-game action ("break", "place",
// "kill", "fish").
type JobAction struct {
	ID   uuid.UUID
	Name string
}

// JobReward is the money+experience payout configured for one job action on
// one target material. At most one reward exists per
// (job, action, material) triple.
type JobReward struct {
	ID          uuid.UUID
	JobID       uuid.UUID
	JobActionID uuid.UUID
	CurrencyID  int32
	Material    string
	Money       decimal.Decimal
	Experience  int64
}

type Catalog interface {
	ListJobs(ctx context.Context) ([]Job, error)
	ListActions(ctx context.Context) ([]JobAction, error)
	ListRewards(ctx context.Context) ([]JobReward, error)
}
