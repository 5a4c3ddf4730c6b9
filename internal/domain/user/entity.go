package user

import (
	"time"

	"github.com/google/uuid"
)

// User represents the users table
type User struct {
	ID           uuid.UUID
	Email        string
	Username     string
	PasswordHash string
	DisplayName  string
	Role         string // ADMIN, USER
	Bio          string
	AvatarURL    string
	IsActive     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

const (
	RoleAdmin = "ADMIN"
	RoleUser  = "USER"
)

// UserSession represents the user_sessions table. Refresh tokens are stored
// hashed; the plaintext token only ever leaves through the auth responses.
type UserSession struct {
	ID               uuid.UUID
	UserID           uuid.UUID
	RefreshTokenHash string
	ExpiresAt        time.Time
	CreatedAt        time.Time
	IsRevoked        bool
}
