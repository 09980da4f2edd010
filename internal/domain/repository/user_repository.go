package repository

import (
	"context"

	"github.com/quantdeck/quantdeck/internal/domain/entity"
)

// UserRepository defines the interface for user-related database operations.
type UserRepository interface {
	Create(ctx context.Context, u *entity.User) error
	GetByID(ctx context.Context, id string) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	// List returns all users ordered by creation time, newest first.
	List(ctx context.Context) ([]*entity.User, error)
	SetRole(ctx context.Context, id string, role entity.Role) error
	Update(ctx context.Context, u *entity.User) error
	// ClaimBootstrap atomically claims the one-time first-registrant
	// marker. It returns true exactly once across all callers; the
	// winner's account becomes the owner.
	ClaimBootstrap(ctx context.Context) (bool, error)
	Count(ctx context.Context) (int, error)
	CountByRole(ctx context.Context, role entity.Role) (int, error)
}
