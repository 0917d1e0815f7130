package ports

import (
	"context"

	"github.com/google/uuid"
	"github.com/vncsmyrnk/kupolls/internal/core/domain"
)

type VoteRepository interface {
	// Upsert inserts vote or reassigns the choice of the existing row for
	// (QuestionID, UserID), then refreshes the question's cached tallies.
	// On update vote.ID and vote.CreatedAt are overwritten with the stored row's.
	Upsert(ctx context.Context, vote *domain.Vote) (domain.VoteOutcome, error)
	Get(ctx context.Context, questionID, userID uuid.UUID) (*domain.Vote, error)
	Delete(ctx context.Context, questionID, userID uuid.UUID) error
}

type CastVoteInput struct {
	QuestionID uuid.UUID
	UserID     uuid.UUID
	ChoiceID   uuid.UUID
}

type VoteService interface {
	CastVote(ctx context.Context, input CastVoteInput) (domain.VoteOutcome, error)
	GetMyVote(ctx context.Context, questionID, userID uuid.UUID) (*domain.Vote, error)
	Retract(ctx context.Context, questionID, userID uuid.UUID) error
}
