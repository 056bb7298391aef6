// Package progression owns job experience rows and the leveling curve on
// top of them.
package progression

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/gamecraft/economy/internal/infra/pgutils"
	exprepo "github.com/gamecraft/economy/internal/repos/experience"
	pgexperience "github.com/gamecraft/economy/internal/repos/experience/postgres"
	"github.com/gamecraft/economy/internal/services/registry"
)

var ErrInvalidDelta = errors.New("negative experience delta")

type Service struct {
	db         *sql.DB
	jobs       *registry.Jobs
	experience exprepo.Experience
}

func New(db *sql.DB, jobs *registry.Jobs) *Service {
	return &Service{
		db:         db,
		jobs:       jobs,
		experience: pgexperience.New(db),
	}
}

func (s *Service) GetExperience(ctx context.Context, accountID, jobID uuid.UUID) (exprepo.JobExperience, error) {
	e, err := s.experience.Get(ctx, accountID, jobID)
	if err != nil {
		return exprepo.JobExperience{}, fmt.Errorf("get experience: %w", err)
	}

	return e, nil
}

// Progress is an account's standing in one job, with the derived level and
// the threshold for the next one.
type Progress struct {
	JobID         uuid.UUID
	JobName       string
	Experience    int64
	Level         int
	NextThreshold int64
}

func (s *Service) GetAllExperience(ctx context.Context, accountID uuid.UUID) ([]Progress, error) {
	rows, err := s.experience.List(ctx, accountID)
	if err != nil {
		return nil, fmt.Errorf("list experience: %w", err)
	}

	out := make([]Progress, 0, len(rows))

	for _, e := range rows {
		job, err := s.jobs.Job(e.JobID)
		if err != nil {
			return nil, fmt.Errorf("resolve job: %w", err)
		}

		lvl := Level(e.Experience)

		out = append(out, Progress{
			JobID:         e.JobID,
			JobName:       job.Name,
			Experience:    e.Experience,
			Level:         lvl,
			NextThreshold: NextLevelThreshold(lvl),
		})
	}

	return out, nil
}

// AddResult reports the outcome of an experience grant.
type AddResult struct {
	Experience int64
	Level      int
	LeveledUp  bool
}

// AddExperience grants delta experience and reports whether the account
// crossed a level boundary. The before/after levels are both derived from
// the single atomic post-write value, so concurrent grants cannot lose a
// level-up.
func (s *Service) AddExperience(ctx context.Context, accountID, jobID uuid.UUID, delta int64) (AddResult, error) {
	if delta < 0 {
		return AddResult{}, fmt.Errorf("add experience: %w", ErrInvalidDelta)
	}

	total, err := s.experience.AddAndGet(ctx, accountID, jobID, delta)
	if err != nil {
		return AddResult{}, fmt.Errorf("add experience: %w", err)
	}

	levelBefore := Level(total - delta)
	levelAfter := Level(total)

	return AddResult{
		Experience: total,
		Level:      levelAfter,
		LeveledUp:  levelAfter > levelBefore,
	}, nil
}

// CreateExperienceRows seeds a zero-experience row per known job for the
// account. Idempotent: rows that already exist stay as they are.
func (s *Service) CreateExperienceRows(ctx context.Context, accountID uuid.UUID) error {
	jobIDs := make([]uuid.UUID, 0)
	for _, job := range s.jobs.List() {
		jobIDs = append(jobIDs, job.ID)
	}

	err := pgutils.WithTx(ctx, s.db, func(tx *sql.Tx) error {
		return s.experience.SeedRows(tx, accountID, jobIDs)
	})
	if err != nil {
		return fmt.Errorf("create experience rows: %w", err)
	}

	return nil
}
