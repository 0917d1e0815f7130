package domain

import (
	"fmt"
	"net/mail"
	"time"

	"github.com/google/uuid"
)

const (
	MinUsernameLength = 3
	MaxUsernameLength = 150
)

// User is a voter. Admins additionally manage questions and choices.
type User struct {
	ID           uuid.UUID  `json:"id"`
	Username     string     `json:"username"`
	Email        string     `json:"email,omitempty"`
	PasswordHash string     `json:"-"`
	IsAdmin      bool       `json:"is_admin"`
	CreatedAt    time.Time  `json:"created_at"`
	DeletedAt    *time.Time `json:"deleted_at,omitempty"`
}

// Validate checks the fields a voter picks at registration.
func (u *User) Validate() error {
	if n := len(u.Username); n < MinUsernameLength || n > MaxUsernameLength {
		return fmt.Errorf("%w: username must be %d-%d characters", ErrInvalidUser, MinUsernameLength, MaxUsernameLength)
	}
	if u.Email != "" {
		if _, err := mail.ParseAddress(u.Email); err != nil {
			return fmt.Errorf("%w: invalid email", ErrInvalidUser)
		}
	}
	return nil
}

// CanLoginWithPassword is false for accounts created through Google sign-in.
func (u *User) CanLoginWithPassword() bool {
	return u.PasswordHash != ""
}

type RefreshToken struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"user_id"`
	TokenHash string    `json:"-"`
	ExpiresAt time.Time `json:"expires_at"`
	Revoked   bool      `json:"revoked"`
	CreatedAt time.Time `json:"created_at"`
}

// Expired reports whether the token is past its expiry at now. A token
// expiring exactly at now is still accepted.
func (t *RefreshToken) Expired(now time.Time) bool {
	return t.ExpiresAt.Before(now)
}
