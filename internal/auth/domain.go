package auth

import (
	"time"

	"github.com/pharmapulse/pharmapulse/internal/shared"
)

// User represents an account able to authenticate against the API.
type User struct {
	ID           int64
	Email        string
	FullName     string
	PasswordHash string
	Role         shared.Role
	IsActive     bool
	CreatedAt    time.Time
}

// Identity converts the stored user into the request-scoped identity value.
func (u User) Identity() shared.Identity {
	return shared.Identity{UserID: u.ID, FullName: u.FullName, Role: u.Role}
}
