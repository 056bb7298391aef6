package experience

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
)

var ErrExperienceNotFound = errors.New("job experience not found")

// JobExperience is an account's cumulative experience in one job. One row
// per (account, job); the counter only ever grows. Level is never stored,
// it is derived from this counter on read.
type JobExperience struct {
	ID         uuid.UUID
	AccountID  uuid.UUID
	JobID      uuid.UUID
	Experience int64
}

type Experience interface {
	SeedRows(tx *sql.Tx, accountID uuid.UUID, jobIDs []uuid.UUID) error
	Get(ctx context.Context, accountID, jobID uuid.UUID) (JobExperience, error)
	List(ctx context.Context, accountID uuid.UUID) ([]JobExperience, error)
	AddAndGet(ctx context.Context, accountID, jobID uuid.UUID, delta int64) (int64, error)
}
