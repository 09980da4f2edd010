package entity

import (
	"time"
)

// User is the aggregate root for the account domain
// Passwords are stored as bcrypt hashes in Password field.
// Role is the single source of truth; session claims are derived from it.
type User struct {
	ID          string
	Email       string
	Password    string
	DisplayName string
	AvatarURL   string
	Role        Role
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
