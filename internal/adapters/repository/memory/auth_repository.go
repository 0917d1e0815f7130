package memory

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/vncsmyrnk/kupolls/internal/core/domain"
	"github.com/vncsmyrnk/kupolls/internal/core/ports"
)

type authRepository struct {
	store *Store
}

func NewAuthRepository(store *Store) ports.AuthRepository {
	return &authRepository{store: store}
}

func (r *authRepository) StoreRefreshToken(ctx context.Context, token *domain.RefreshToken) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	token.ID = uuid.New()
	token.CreatedAt = time.Now().UTC()
	stored := *token
	r.store.tokens[token.ID] = &stored
	return nil
}

func (r *authRepository) GetRefreshTokenByHash(ctx context.Context, tokenHash string) (*domain.RefreshToken, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	for _, t := range r.store.tokens {
		if t.TokenHash == tokenHash {
			c := *t
			return &c, nil
		}
	}
	return nil, nil
}

func (r *authRepository) RevokeRefreshToken(ctx context.Context, id uuid.UUID) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if t, ok := r.store.tokens[id]; ok {
		t.Revoked = true
	}
	return nil
}
