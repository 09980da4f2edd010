package application

import (
	"context"
	"errors"
	"fmt"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/quantdeck/quantdeck/internal/domain/entity"
	repo "github.com/quantdeck/quantdeck/internal/domain/repository"
)

// Advisor fabricates a backtest narrative for submitted strategy code.
type Advisor interface {
	Analyze(ctx context.Context, strategyCode, historicalData string) (*entity.StrategyAnalysis, error)
}

// StrategyService owns the strategy lifecycle from the trader's side:
// submission with analysis, listing, and the run-state toggle.
type StrategyService struct {
	Strategies repo.StrategyRepository
	Users      repo.UserRepository
	Advisor    Advisor
	Redis      *redis.Client
	Logger     *logrus.Logger
	ES         *elasticsearch.Client
	ESIndex    string
}

func NewStrategyService(strategies repo.StrategyRepository, users repo.UserRepository, adv Advisor, rdb *redis.Client, logger *logrus.Logger, es *elasticsearch.Client, esIndex string) *StrategyService {
	return &StrategyService{Strategies: strategies, Users: users, Advisor: adv, Redis: rdb, Logger: logger, ES: es, ESIndex: esIndex}
}

// Submit runs the advisor over the strategy code and persists the
// result pending approval. The owner's name and email are denormalized
// onto the row for the review console.
func (s *StrategyService) Submit(ctx context.Context, actor Actor, name, strategyCode string) (*entity.Strategy, error) {
	owner, err := s.Users.GetByID(ctx, actor.ID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, ErrUpstream
	}

	analysis, err := s.Advisor.Analyze(ctx, strategyCode, "")
	if err != nil {
		s.Logger.WithError(err).WithField("user_id", actor.ID).Error("advisor analysis failed")
		return nil, fmt.Errorf("%w: advisor: %v", ErrUpstream, err)
	}

	strat := &entity.Strategy{
		UserID:        owner.ID,
		Name:          name,
		StrategyCode:  strategyCode,
		Analysis:      analysis,
		RunState:      entity.RunStopped,
		ApprovalState: entity.ApprovalPending,
		OwnerName:     owner.DisplayName,
		OwnerEmail:    owner.Email,
	}
	if err := s.Strategies.Create(ctx, strat); err != nil {
		return nil, ErrUpstream
	}

	invalidateStats(ctx, s.Redis)
	indexStrategy(ctx, s.ES, s.ESIndex, strat, s.Logger)

	s.Logger.WithFields(logrus.Fields{"user_id": owner.ID, "strategy_id": strat.ID}).Info("strategy submitted")
	return strat, nil
}

// ListMine returns the actor's strategies, newest first.
func (s *StrategyService) ListMine(ctx context.Context, actor Actor) ([]*entity.Strategy, error) {
	return s.Strategies.ListByUser(ctx, actor.ID)
}

// Get returns a strategy visible to the actor: its owner, or any
// admin/owner reviewer.
func (s *StrategyService) Get(ctx context.Context, actor Actor, strategyID string) (*entity.Strategy, error) {
	strat, err := s.Strategies.GetByID(ctx, strategyID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, ErrUpstream
	}
	if !strat.OwnedBy(actor.ID) && !actor.Role.AtLeast(entity.RoleAdmin) {
		return nil, ErrForbidden
	}
	return strat, nil
}

// UpdateRunState toggles a strategy between running and stopped. Only
// the owning user may toggle, and starting requires approval — checked
// against the row as persisted, never against what the client claims.
func (s *StrategyService) UpdateRunState(ctx context.Context, actor Actor, strategyID string, desired entity.RunState) error {
	if !desired.Valid() {
		return ErrPrecondition
	}

	strat, err := s.Strategies.GetByID(ctx, strategyID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return ErrNotFound
		}
		return ErrUpstream
	}
	if !strat.OwnedBy(actor.ID) {
		return ErrForbidden
	}
	if err := strat.CanTransitionRun(desired); err != nil {
		return fmt.Errorf("%w: %v", ErrPrecondition, err)
	}

	if err := s.Strategies.SetRunState(ctx, strategyID, desired); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return ErrNotFound
		}
		return ErrUpstream
	}

	invalidateStats(ctx, s.Redis)
	strat.RunState = desired
	indexStrategy(ctx, s.ES, s.ESIndex, strat, s.Logger)

	s.Logger.WithFields(logrus.Fields{
		"user_id":     actor.ID,
		"strategy_id": strategyID,
		"run_state":   desired,
	}).Info("strategy run state updated")
	return nil
}
