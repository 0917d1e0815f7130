package memory

import (
	"context"

	"github.com/google/uuid"
	"github.com/vncsmyrnk/kupolls/internal/core/ports"
)

type tallyRepository struct {
	store *Store
}

func NewTallyRepository(store *Store) ports.TallyRepository {
	return &tallyRepository{store: store}
}

func (r *tallyRepository) CountVotes(ctx context.Context, questionID uuid.UUID) (map[uuid.UUID]int64, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	return r.store.countLocked(questionID), nil
}

func (r *tallyRepository) RecomputeChoiceVotes(ctx context.Context, questionID uuid.UUID) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	r.store.recomputeLocked(questionID)
	return nil
}
