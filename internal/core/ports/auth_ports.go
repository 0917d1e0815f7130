package ports

import (
	"context"

	"github.com/google/uuid"
	"github.com/vncsmyrnk/kupolls/internal/core/domain"
)

type AuthRepository interface {
	StoreRefreshToken(ctx context.Context, token *domain.RefreshToken) error
	GetRefreshTokenByHash(ctx context.Context, tokenHash string) (*domain.RefreshToken, error)
	RevokeRefreshToken(ctx context.Context, id uuid.UUID) error
}

type TokenPayload struct {
	Email string
	Name  string
}

type TokenVerifier interface {
	Verify(ctx context.Context, token string, clientID string) (*TokenPayload, error)
}

type RegisterInput struct {
	Username string
	Email    string
	Password string
}

// Tokens is the pair handed to clients after a successful login.
type Tokens struct {
	AccessToken  string
	RefreshToken string
}

// Identity is what an access token proves about its bearer.
type Identity struct {
	UserID   uuid.UUID
	Username string
	IsAdmin  bool
}

type AuthService interface {
	Register(ctx context.Context, input RegisterInput) (*domain.User, error)
	Login(ctx context.Context, username, password string) (*domain.User, Tokens, error)
	LoginWithGoogle(ctx context.Context, googleToken string) (*domain.User, Tokens, error)
	Authenticate(ctx context.Context, accessToken string) (*Identity, error)
	RefreshAccessToken(ctx context.Context, refreshToken string) (Tokens, error)
	Logout(ctx context.Context, refreshToken string) error
}
