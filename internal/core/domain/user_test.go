package domain

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUser_Validate(t *testing.T) {
	tests := []struct {
		name    string
		user    User
		wantErr bool
	}{
		{"minimal", User{Username: "ana"}, false},
		{"with email", User{Username: "ana", Email: "ana@example.com"}, false},
		{"too short", User{Username: "an"}, true},
		{"too long", User{Username: strings.Repeat("a", MaxUsernameLength+1)}, true},
		{"longest allowed", User{Username: strings.Repeat("a", MaxUsernameLength)}, false},
		{"bad email", User{Username: "ana", Email: "not-an-email"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.user.Validate()
			if tt.wantErr {
				require.ErrorIs(t, err, ErrInvalidUser)
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestUser_CanLoginWithPassword(t *testing.T) {
	assert.True(t, (&User{PasswordHash: "$2a$10$hash"}).CanLoginWithPassword())
	assert.False(t, (&User{Email: "g@example.com"}).CanLoginWithPassword())
}

func TestRefreshToken_Expired(t *testing.T) {
	token := &RefreshToken{ExpiresAt: now}

	assert.False(t, token.Expired(now.Add(-time.Second)))
	assert.False(t, token.Expired(now))
	assert.True(t, token.Expired(now.Add(time.Nanosecond)))
}
