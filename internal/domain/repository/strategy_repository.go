package repository

import (
	"context"

	"github.com/quantdeck/quantdeck/internal/domain/entity"
)

// StrategyRepository defines the interface for strategy persistence.
// All writes are last-write-wins column assignments; callers may retry
// them safely.
type StrategyRepository interface {
	Create(ctx context.Context, s *entity.Strategy) error
	GetByID(ctx context.Context, id string) (*entity.Strategy, error)
	// ListByUser returns the user's strategies, newest first.
	ListByUser(ctx context.Context, userID string) ([]*entity.Strategy, error)
	// ListByApproval returns strategies in the given approval state,
	// newest first.
	ListByApproval(ctx context.Context, state entity.ApprovalState) ([]*entity.Strategy, error)
	SetApproval(ctx context.Context, id string, state entity.ApprovalState) error
	SetRunState(ctx context.Context, id string, state entity.RunState) error
	Count(ctx context.Context) (int, error)
	CountByApproval(ctx context.Context, state entity.ApprovalState) (int, error)
	CountRunning(ctx context.Context) (int, error)
}
