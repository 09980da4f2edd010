package application

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/quantdeck/quantdeck/internal/domain/entity"
	repo "github.com/quantdeck/quantdeck/internal/domain/repository"
	"github.com/quantdeck/quantdeck/pkg/helpers"
	"github.com/quantdeck/quantdeck/pkg/mailer"
)

// AdminService is the authorization guard for privileged mutations:
// role changes and approval decisions. Every operation re-validates the
// actor's privilege here regardless of what the route middleware
// already checked; a disabled button in the UI is a hint, not a fence.
type AdminService struct {
	Users       repo.UserRepository
	Strategies  repo.StrategyRepository
	Redis       *redis.Client
	Logger      *logrus.Logger
	Pub         *helpers.RabbitPublisher
	ES          *elasticsearch.Client
	ESIndex     string
	MailEnabled bool
	StatsTTL    time.Duration
}

func NewAdminService(users repo.UserRepository, strategies repo.StrategyRepository, rdb *redis.Client, logger *logrus.Logger, pub *helpers.RabbitPublisher, es *elasticsearch.Client, esIndex string, mailEnabled bool, statsTTL time.Duration) *AdminService {
	return &AdminService{
		Users:       users,
		Strategies:  strategies,
		Redis:       rdb,
		Logger:      logger,
		Pub:         pub,
		ES:          es,
		ESIndex:     esIndex,
		MailEnabled: mailEnabled,
		StatsTTL:    statsTTL,
	}
}

func (s *AdminService) ListUsers(ctx context.Context, actor Actor) ([]*entity.User, error) {
	if !actor.Role.AtLeast(entity.RoleAdmin) {
		return nil, ErrForbidden
	}
	return s.Users.List(ctx)
}

// UpdateUserRole assigns newRole to the target user. Owner can never be
// granted here; only the bootstrap rule mints owners. Actors cannot
// retarget themselves, which keeps an admin from locking themselves out
// of this very surface mid-session.
//
// The user row is written first (it is the source of truth), then the
// session claim set is refreshed. A claim refresh failure is retried
// once and otherwise logged: the next token refresh re-derives the role
// from the row, so drift is bounded by the access-token TTL.
func (s *AdminService) UpdateUserRole(ctx context.Context, actor Actor, targetID string, newRole entity.Role) error {
	if newRole == entity.RoleOwner || !newRole.Valid() {
		return ErrForbidden
	}
	if !actor.Role.AtLeast(entity.RoleAdmin) {
		return ErrForbidden
	}
	if actor.ID == targetID {
		return ErrForbidden
	}
	if !actor.Role.CanAssign(newRole) {
		return ErrForbidden
	}

	target, err := s.Users.GetByID(ctx, targetID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return ErrNotFound
		}
		return ErrUpstream
	}

	if err := s.Users.SetRole(ctx, targetID, newRole); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return ErrNotFound
		}
		return ErrUpstream
	}

	s.refreshRoleClaim(ctx, targetID, newRole)
	invalidateStats(ctx, s.Redis)

	s.notify(ctx, mailer.NotificationJob{
		To:   target.Email,
		Kind: mailer.KindRoleChanged,
		Data: map[string]string{"DisplayName": target.DisplayName, "Role": string(newRole)},
	})

	s.Logger.WithFields(logrus.Fields{
		"actor_id":  actor.ID,
		"target_id": targetID,
		"new_role":  newRole,
	}).Info("user role updated")
	return nil
}

func (s *AdminService) refreshRoleClaim(ctx context.Context, userID string, role entity.Role) {
	if s.Redis == nil {
		return
	}
	fields := map[string]any{"role": string(role)}
	err := patchSession(ctx, s.Redis, userID, fields)
	if err != nil {
		err = patchSession(ctx, s.Redis, userID, fields)
	}
	if err != nil {
		s.Logger.WithError(err).WithField("user_id", userID).Error("role claim refresh failed; claim heals on next token refresh")
	}
}

// ListStrategiesForApproval returns the review queue, newest first.
func (s *AdminService) ListStrategiesForApproval(ctx context.Context, actor Actor) ([]*entity.Strategy, error) {
	if !actor.Role.AtLeast(entity.RoleAdmin) {
		return nil, ErrForbidden
	}
	return s.Strategies.ListByApproval(ctx, entity.ApprovalPending)
}

// UpdateStrategyApproval records a review decision. Re-applying the
// same decision is a no-op in effect. Run-state is deliberately left
// alone: rejecting a strategy that is currently running does not stop
// it, matching the behavior the dashboard has always had.
func (s *AdminService) UpdateStrategyApproval(ctx context.Context, actor Actor, strategyID string, decision entity.ApprovalState) error {
	if !actor.Role.AtLeast(entity.RoleAdmin) {
		return ErrForbidden
	}
	if !decision.IsDecision() {
		return ErrPrecondition
	}

	strat, err := s.Strategies.GetByID(ctx, strategyID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return ErrNotFound
		}
		return ErrUpstream
	}

	if err := s.Strategies.SetApproval(ctx, strategyID, decision); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return ErrNotFound
		}
		return ErrUpstream
	}

	invalidateStats(ctx, s.Redis)
	strat.ApprovalState = decision
	indexStrategy(ctx, s.ES, s.ESIndex, strat, s.Logger)

	kind := mailer.KindStrategyApproved
	if decision == entity.ApprovalRejected {
		kind = mailer.KindStrategyRejected
	}
	s.notify(ctx, mailer.NotificationJob{
		To:   strat.OwnerEmail,
		Kind: kind,
		Data: map[string]string{"DisplayName": strat.OwnerName, "StrategyName": strat.Name},
	})

	s.Logger.WithFields(logrus.Fields{
		"actor_id":    actor.ID,
		"strategy_id": strategyID,
		"decision":    decision,
	}).Info("strategy approval updated")
	return nil
}

// SystemStats are the headline numbers on the admin console.
type SystemStats struct {
	TotalUsers        int `json:"total_users"`
	TotalAdmins       int `json:"total_admins"`
	TotalStrategies   int `json:"total_strategies"`
	RunningStrategies int `json:"running_strategies"`
	PendingStrategies int `json:"pending_strategies"`
}

// Stats returns cached console counts, recomputing on miss.
func (s *AdminService) Stats(ctx context.Context, actor Actor) (SystemStats, error) {
	if !actor.Role.AtLeast(entity.RoleAdmin) {
		return SystemStats{}, ErrForbidden
	}

	var cached SystemStats
	if s.Redis != nil {
		if ok, err := helpers.RedisGetJSON(ctx, s.Redis, statsCacheKey, &cached); err == nil && ok {
			return cached, nil
		}
	}

	var out SystemStats
	var err error
	if out.TotalUsers, err = s.Users.Count(ctx); err != nil {
		return SystemStats{}, ErrUpstream
	}
	if out.TotalAdmins, err = s.Users.CountByRole(ctx, entity.RoleAdmin); err != nil {
		return SystemStats{}, ErrUpstream
	}
	if out.TotalStrategies, err = s.Strategies.Count(ctx); err != nil {
		return SystemStats{}, ErrUpstream
	}
	if out.RunningStrategies, err = s.Strategies.CountRunning(ctx); err != nil {
		return SystemStats{}, ErrUpstream
	}
	if out.PendingStrategies, err = s.Strategies.CountByApproval(ctx, entity.ApprovalPending); err != nil {
		return SystemStats{}, ErrUpstream
	}

	if s.Redis != nil {
		if err := helpers.RedisSetJSON(ctx, s.Redis, statsCacheKey, out, s.StatsTTL); err != nil {
			s.Logger.WithError(err).Warn("stats cache write failed")
		}
	}
	return out, nil
}

// SearchStrategies runs a multi_match query over the strategy index.
func (s *AdminService) SearchStrategies(ctx context.Context, actor Actor, q string, size int) ([]map[string]any, error) {
	if !actor.Role.AtLeast(entity.RoleAdmin) {
		return nil, ErrForbidden
	}
	if s.ES == nil || s.ESIndex == "" {
		return []map[string]any{}, nil
	}
	if size <= 0 || size > 50 {
		size = 10
	}
	query := map[string]any{
		"query": map[string]any{
			"multi_match": map[string]any{
				"query":  q,
				"fields": []string{"name^2", "owner_email", "owner_name", "strategy_code"},
			},
		},
		"size": size,
	}
	b, _ := json.Marshal(query)

	c, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	res, err := s.ES.Search(s.ES.Search.WithContext(c), s.ES.Search.WithIndex(s.ESIndex), s.ES.Search.WithBody(strings.NewReader(string(b))))
	if err != nil {
		return nil, ErrUpstream
	}
	defer func() { _ = res.Body.Close() }()

	var parsed struct {
		Hits struct {
			Hits []struct {
				ID     string         `json:"_id"`
				Source map[string]any `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, ErrUpstream
	}

	out := make([]map[string]any, 0, len(parsed.Hits.Hits))
	for _, h := range parsed.Hits.Hits {
		out = append(out, h.Source)
	}
	return out, nil
}

func (s *AdminService) notify(ctx context.Context, job mailer.NotificationJob) {
	if s.Pub == nil || !s.MailEnabled || job.To == "" {
		return
	}
	if err := s.Pub.PublishJSON(ctx, job); err != nil {
		s.Logger.WithError(err).WithField("kind", job.Kind).Warn("notification publish failed")
	}
}
