// Package registry holds the static catalogs (currencies, jobs, actions,
// rewards) loaded once at startup. Registries are immutable after
// construction and injected into the services that need them, so tests can
// supply small fake catalogs without a database.
package registry

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/gamecraft/economy/internal/repos/currencies"
	"github.com/gamecraft/economy/internal/repos/jobs"
)

// Currencies is the read-only currency registry.
type Currencies struct {
	byID    map[int32]currencies.Currency
	ordered []currencies.Currency
	def     *currencies.Currency
}

func NewCurrencies(list []currencies.Currency) *Currencies {
	c := &Currencies{
		byID:    make(map[int32]currencies.Currency, len(list)),
		ordered: make([]currencies.Currency, 0, len(list)),
	}

	for _, cur := range list {
		c.byID[cur.ID] = cur
		c.ordered = append(c.ordered, cur)

		if cur.IsDefault && c.def == nil {
			d := cur
			c.def = &d
		}
	}

	return c
}

// LoadCurrencies reads the currency table once and builds the registry.
func LoadCurrencies(ctx context.Context, repo currencies.Currencies) (*Currencies, error) {
	list, err := repo.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("load currencies: %w", err)
	}

	return NewCurrencies(list), nil
}

// Default returns the currency flagged as default. A registry without one is
// a configuration error and should be fatal at startup.
func (c *Currencies) Default() (currencies.Currency, error) {
	if c.def == nil {
		return currencies.Currency{}, fmt.Errorf("default currency: %w", currencies.ErrCurrencyNotFound)
	}

	return *c.def, nil
}

func (c *Currencies) Get(id int32) (currencies.Currency, error) {
	cur, ok := c.byID[id]
	if !ok {
		return currencies.Currency{}, fmt.Errorf("currency %d: %w", id, currencies.ErrCurrencyNotFound)
	}

	return cur, nil
}

func (c *Currencies) List() []currencies.Currency {
	out := make([]currencies.Currency, len(c.ordered))
	copy(out, c.ordered)

	return out
}

// Format renders an amount for user-facing messages, e.g. "$1.50 dollars".
func (c *Currencies) Format(cur currencies.Currency, amount decimal.Decimal) string {
	name := cur.NamePlural
	if amount.Equal(decimal.New(1, 0)) {
		name = cur.NameSingular
	}

	return fmt.Sprintf("%s%s %s", cur.Symbol, amount.StringFixed(cur.FractionDigits), name)
}

type rewardKey struct {
	actionID uuid.UUID
	material string
}

// Jobs is the read-only job catalog: jobs, action kinds, and the reward
// table keyed by (action, material).
type Jobs struct {
	byID    map[uuid.UUID]jobs.Job
	byName  map[string]jobs.Job
	actions map[string]jobs.JobAction
	rewards map[rewardKey]jobs.JobReward
	ordered []jobs.Job
}

func NewJobs(js []jobs.Job, actions []jobs.JobAction, rewards []jobs.JobReward) *Jobs {
	j := &Jobs{
		byID:    make(map[uuid.UUID]jobs.Job, len(js)),
		byName:  make(map[string]jobs.Job, len(js)),
		actions: make(map[string]jobs.JobAction, len(actions)),
		rewards: make(map[rewardKey]jobs.JobReward, len(rewards)),
		ordered: make([]jobs.Job, 0, len(js)),
	}

	for _, job := range js {
		j.byID[job.ID] = job
		j.byName[job.Name] = job
		j.ordered = append(j.ordered, job)
	}

	for _, a := range actions {
		j.actions[a.Name] = a
	}

	for _, w := range rewards {
		j.rewards[rewardKey{actionID: w.JobActionID, material: w.Material}] = w
	}

	return j
}

// LoadJobs reads the job catalog tables once and builds the registry.
func LoadJobs(ctx context.Context, repo jobs.Catalog) (*Jobs, error) {
	js, err := repo.ListJobs(ctx)
	if err != nil {
		return nil, fmt.Errorf("load jobs: %w", err)
	}

	actions, err := repo.ListActions(ctx)
	if err != nil {
		return nil, fmt.Errorf("load job actions: %w", err)
	}

	rewards, err := repo.ListRewards(ctx)
	if err != nil {
		return nil, fmt.Errorf("load job rewards: %w", err)
	}

	return NewJobs(js, actions, rewards), nil
}

func (j *Jobs) Job(id uuid.UUID) (jobs.Job, error) {
	job, ok := j.byID[id]
	if !ok {
		return jobs.Job{}, fmt.Errorf("job %s: %w", id, jobs.ErrJobNotFound)
	}

	return job, nil
}

func (j *Jobs) JobByName(name string) (jobs.Job, error) {
	job, ok := j.byName[name]
	if !ok {
		return jobs.Job{}, fmt.Errorf("job %q: %w", name, jobs.ErrJobNotFound)
	}

	return job, nil
}

// Action resolves an action kind by name. Callers treat a miss as "this kind
// of action is not tracked", not as a fatal error.
func (j *Jobs) Action(name string) (jobs.JobAction, error) {
	a, ok := j.actions[name]
	if !ok {
		return jobs.JobAction{}, fmt.Errorf("job action %q: %w", name, jobs.ErrActionNotFound)
	}

	return a, nil
}

// Reward looks up the payout configured for an action on a material.
// Most materials grant nothing; that is the ok=false path, not an error.
func (j *Jobs) Reward(actionID uuid.UUID, material string) (jobs.JobReward, bool) {
	w, ok := j.rewards[rewardKey{actionID: actionID, material: material}]

	return w, ok
}

func (j *Jobs) List() []jobs.Job {
	out := make([]jobs.Job, len(j.ordered))
	copy(out, j.ordered)

	return out
}
