package experience

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/gamecraft/economy/internal/repos/experience"
)

var _ experience.Experience = (*experienceRepo)(nil)

type experienceRepo struct{ db *sql.DB }

func New(db *sql.DB) *experienceRepo {
	return &experienceRepo{db: db}
}

// SeedRows inserts a zero-experience row per job for the account. Rows that
// already exist are left untouched, so re-seeding is a no-op.
func (r *experienceRepo) SeedRows(tx *sql.Tx, accountID uuid.UUID, jobIDs []uuid.UUID) error {
	for _, jobID := range jobIDs {
		_, err := tx.Exec(`
			INSERT INTO job_experience (id, account_id, job_id, experience)
			VALUES ($1, $2, $3, 0)
			ON CONFLICT (account_id, job_id) DO NOTHING
		`, uuid.New(), accountID, jobID)
		if err != nil {
			return fmt.Errorf("seed job experience: %w", err)
		}
	}

	return nil
}

func (r *experienceRepo) Get(ctx context.Context, accountID, jobID uuid.UUID) (experience.JobExperience, error) {
	var e experience.JobExperience

	err := r.db.QueryRowContext(ctx, `
		SELECT id, account_id, job_id, experience
		FROM job_experience
		WHERE account_id = $1 AND job_id = $2
	`, accountID, jobID).Scan(&e.ID, &e.AccountID, &e.JobID, &e.Experience)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return experience.JobExperience{}, experience.ErrExperienceNotFound
		}

		return experience.JobExperience{}, fmt.Errorf("get job experience: %w", err)
	}

	return e, nil
}

func (r *experienceRepo) List(ctx context.Context, accountID uuid.UUID) ([]experience.JobExperience, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, account_id, job_id, experience
		FROM job_experience
		WHERE account_id = $1
	`, accountID)
	if err != nil {
		return nil, fmt.Errorf("list job experience: %w", err)
	}
	defer rows.Close()

	var out []experience.JobExperience

	for rows.Next() {
		var e experience.JobExperience

		err = rows.Scan(&e.ID, &e.AccountID, &e.JobID, &e.Experience)
		if err != nil {
			return nil, fmt.Errorf("scan job experience: %w", err)
		}

		out = append(out, e)
	}

	err = rows.Err()
	if err != nil {
		return nil, fmt.Errorf("iterate job experience: %w", err)
	}

	return out, nil
}

// AddAndGet applies the delta and returns the post-write counter in one
// atomic statement. Two concurrent adds both see consistent before/after
// values, so a level-up can never be lost to a lost update.
func (r *experienceRepo) AddAndGet(ctx context.Context, accountID, jobID uuid.UUID, delta int64) (int64, error) {
	var total int64

	err := r.db.QueryRowContext(ctx, `
		UPDATE job_experience
		SET experience = experience + $3
		WHERE account_id = $1 AND job_id = $2
		RETURNING experience
	`, accountID, jobID, delta).Scan(&total)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, experience.ErrExperienceNotFound
		}

		return 0, fmt.Errorf("add job experience: %w", err)
	}

	return total, nil
}
