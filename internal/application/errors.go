package application

import (
	"errors"

	"github.com/quantdeck/quantdeck/internal/domain/entity"
)

// Error taxonomy for the authorization guard and workflow core. Every
// failure leaving this layer resolves to one of these (possibly
// wrapped); handlers map them onto HTTP statuses.
var (
	// ErrUnauthenticated means no valid actor identity was presented.
	ErrUnauthenticated = errors.New("unauthenticated")
	// ErrForbidden means the actor is authenticated but lacks
	// privilege for the requested mutation. No partial effect.
	ErrForbidden = errors.New("operation not permitted")
	// ErrNotFound means the target user or strategy does not exist.
	ErrNotFound = errors.New("not found")
	// ErrPrecondition means a state-machine guard was violated, e.g.
	// starting a strategy that is not approved.
	ErrPrecondition = errors.New("precondition failed")
	// ErrUpstream means a collaborator (store, identity, advisor) was
	// unreachable. Not retried here; callers may retry.
	ErrUpstream = errors.New("upstream unavailable")

	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// Actor is the authenticated identity performing an operation, as
// established by the auth middleware from the session claim set.
type Actor struct {
	ID    string
	Email string
	Role  entity.Role
}
