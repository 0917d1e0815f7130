package ports

import (
	"context"

	"github.com/google/uuid"
)

type TallyRepository interface {
	// CountVotes aggregates ledger rows per choice of the question.
	CountVotes(ctx context.Context, questionID uuid.UUID) (map[uuid.UUID]int64, error)
	// RecomputeChoiceVotes rewrites the cached per-choice counters from the ledger.
	RecomputeChoiceVotes(ctx context.Context, questionID uuid.UUID) error
}

type TallyService interface {
	RecomputeAll(ctx context.Context) error
}
