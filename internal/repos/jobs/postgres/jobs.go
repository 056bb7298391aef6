package jobs

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/gamecraft/economy/internal/repos/jobs"
)

var _ jobs.Catalog = (*catalogRepo)(nil)

type catalogRepo struct{ db *sql.DB }

func New(db *sql.DB) *catalogRepo {
	return &catalogRepo{db: db}
}

func (r *catalogRepo) ListJobs(ctx context.Context) ([]jobs.Job, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, name
		FROM job
		ORDER BY name
	`)
	if err != nil {
		return nil, fmt.Errorf("list jobs: %w", err)
	}
	defer rows.Close()

	var out []jobs.Job

	for rows.Next() {
		var j jobs.Job

		err = rows.Scan(&j.ID, &j.Name)
		if err != nil {
			return nil, fmt.Errorf("scan job: %w", err)
		}

		out = append(out, j)
	}

	err = rows.Err()
	if err != nil {
		return nil, fmt.Errorf("iterate jobs: %w", err)
	}

	return out, nil
}

func (r *catalogRepo) ListActions(ctx context.Context) ([]jobs.JobAction, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, name
		FROM job_action
		ORDER BY name
	`)
	if err != nil {
		return nil, fmt.Errorf("list job actions: %w", err)
	}
	defer rows.Close()

	var out []jobs.JobAction

	for rows.Next() {
		var a jobs.JobAction

		err = rows.Scan(&a.ID, &a.Name)
		if err != nil {
			return nil, fmt.Errorf("scan job action: %w", err)
		}

		out = append(out, a)
	}

	err = rows.Err()
	if err != nil {
		return nil, fmt.Errorf("iterate job actions: %w", err)
	}

	return out, nil
}

func (r *catalogRepo) ListRewards(ctx context.Context) ([]jobs.JobReward, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, job_id, job_action_id, currency_id, material, money, experience
		FROM job_reward
		ORDER BY material
	`)
	if err != nil {
		return nil, fmt.Errorf("list job rewards: %w", err)
	}
	defer rows.Close()

	var out []jobs.JobReward

	for rows.Next() {
		var w jobs.JobReward

		err = rows.Scan(&w.ID, &w.JobID, &w.JobActionID, &w.CurrencyID, &w.Material, &w.Money, &w.Experience)
		if err != nil {
			return nil, fmt.Errorf("scan job reward: %w", err)
		}

		out = append(out, w)
	}

	err = rows.Err()
	if err != nil {
		return nil, fmt.Errorf("iterate job rewards: %w", err)
	}

	return out, nil
}
