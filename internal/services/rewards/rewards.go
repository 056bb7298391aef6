// Package rewards turns in-game action events into money and experience
// grants. It is the composition root of the core: catalog lookup, deposit
// via the ledger, experience via the progression engine.
package rewards

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/gamecraft/economy/internal/services/ledger"
	"github.com/gamecraft/economy/internal/services/progression"
	"github.com/gamecraft/economy/internal/services/registry"
)

// Player is the minimal capability the host must expose. The core never
// sees a concrete host player type, only this set.
type Player interface {
	ID() uuid.UUID
	DisplayName() string
	SendMessage(msg string)
}

type Service struct {
	ledger      *ledger.Service
	progression *progression.Service
	currencies  *registry.Currencies
	jobs        *registry.Jobs
}

func New(l *ledger.Service, p *progression.Service, cur *registry.Currencies, jobs *registry.Jobs) *Service {
	return &Service{
		ledger:      l,
		progression: p,
		currencies:  cur,
		jobs:        jobs,
	}
}

// Result describes what an action granted. The deposit and the experience
// grant are separate ledgers and are attempted independently: a partial
// credit is surfaced through DepositErr/ExperienceErr, never swallowed.
type Result struct {
	Rewarded   bool
	JobName    string
	CurrencyID int32
	Money      decimal.Decimal
	Experience int64
	Total      int64
	Level      int
	LeveledUp  bool

	DepositErr    error
	ExperienceErr error
}

// HandleAction resolves the reward configured for (action, material) and
// applies it to the player's account. Unknown actions and unconfigured
// materials are the common case and produce no side effects. When notify is
// set the player is messaged on a level-up.
func (s *Service) HandleAction(ctx context.Context, player Player, action, material string, notify bool) Result {
	act, err := s.jobs.Action(action)
	if err != nil {
		// this kind of action is not tracked
		return Result{}
	}

	reward, ok := s.jobs.Reward(act.ID, material)
	if !ok {
		return Result{}
	}

	res := Result{
		Rewarded:   true,
		CurrencyID: reward.CurrencyID,
	}

	job, err := s.jobs.Job(reward.JobID)
	if err == nil {
		res.JobName = job.Name
	}

	if reward.Money.Sign() > 0 {
		_, err := s.ledger.Deposit(ctx, player.ID(), reward.CurrencyID, reward.Money)
		if err != nil {
			res.DepositErr = fmt.Errorf("deposit reward: %w", err)
		} else {
			res.Money = reward.Money

			if notify {
				cur, cerr := s.currencies.Get(reward.CurrencyID)
				if cerr == nil {
					player.SendMessage(fmt.Sprintf("You earned %s", s.currencies.Format(cur, reward.Money)))
				}
			}
		}
	}

	add, err := s.progression.AddExperience(ctx, player.ID(), reward.JobID, reward.Experience)
	if err != nil {
		res.ExperienceErr = fmt.Errorf("add reward experience: %w", err)

		return res
	}

	res.Experience = reward.Experience
	res.Total = add.Experience
	res.Level = add.Level
	res.LeveledUp = add.LeveledUp

	if notify && add.LeveledUp {
		player.SendMessage(fmt.Sprintf("%s is now a level %d %s", player.DisplayName(), add.Level, res.JobName))
	}

	return res
}
