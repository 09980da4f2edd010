package entity

import "fmt"

// Role is the privilege tier of a user. Roles form a total order
// trader < admin < owner; comparisons go through rank, never string
// equality at call sites.
type Role string

const (
	RoleTrader Role = "trader"
	RoleAdmin  Role = "admin"
	RoleOwner  Role = "owner"
)

var roleRank = map[Role]int{
	RoleTrader: 0,
	RoleAdmin:  1,
	RoleOwner:  2,
}

// ParseRole validates a role string coming from a request or the database.
func ParseRole(s string) (Role, error) {
	r := Role(s)
	if _, ok := roleRank[r]; !ok {
		return "", fmt.Errorf("unknown role %q", s)
	}
	return r, nil
}

func (r Role) Valid() bool {
	_, ok := roleRank[r]
	return ok
}

// Compare returns -1, 0 or 1 as r is lower, equal or higher than other.
func (r Role) Compare(other Role) int {
	a, b := roleRank[r], roleRank[other]
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

// AtLeast reports whether r carries at least the privilege of min.
func (r Role) AtLeast(min Role) bool {
	return roleRank[r] >= roleRank[min]
}

// CanAssign reports whether an actor with role r may grant requested to
// another user. Owner is never assignable through role updates; it is
// granted only by the registration bootstrap. Otherwise an actor may
// assign any role at or below their own.
func (r Role) CanAssign(requested Role) bool {
	if !requested.Valid() || requested == RoleOwner {
		return false
	}
	return roleRank[r] >= roleRank[requested]
}
