package services

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/vncsmyrnk/kupolls/internal/core/domain"
	"github.com/vncsmyrnk/kupolls/internal/core/ports"
)

type voteService struct {
	questionRepo ports.QuestionRepository
	voteRepo     ports.VoteRepository
	now          Clock
}

func NewVoteService(questionRepo ports.QuestionRepository, voteRepo ports.VoteRepository, now Clock) ports.VoteService {
	return &voteService{
		questionRepo: questionRepo,
		voteRepo:     voteRepo,
		now:          now,
	}
}

// CastVote records input.ChoiceID as the user's single vote on the question.
// The voting window is checked against one clock reading that is also used
// for the stored timestamps.
func (s *voteService) CastVote(ctx context.Context, input ports.CastVoteInput) (domain.VoteOutcome, error) {
	now := s.now().UTC()

	question, err := s.questionRepo.GetByID(ctx, input.QuestionID)
	if err != nil {
		return 0, err
	}

	if !question.CanVote(now) {
		return 0, domain.ErrVotingClosed
	}

	if input.ChoiceID == uuid.Nil {
		return 0, domain.ErrNoChoiceSelected
	}
	if _, ok := question.Choice(input.ChoiceID); !ok {
		return 0, domain.ErrNoChoiceSelected
	}

	vote := &domain.Vote{
		ID:         uuid.New(),
		QuestionID: question.ID,
		UserID:     input.UserID,
		ChoiceID:   input.ChoiceID,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	outcome, err := s.voteRepo.Upsert(ctx, vote)
	if errors.Is(err, domain.ErrVoteConflict) {
		// A concurrent submit for the same user won the insert; the retry
		// lands on the update path.
		outcome, err = s.voteRepo.Upsert(ctx, vote)
	}
	if err != nil {
		return 0, err
	}

	return outcome, nil
}

func (s *voteService) GetMyVote(ctx context.Context, questionID, userID uuid.UUID) (*domain.Vote, error) {
	return s.voteRepo.Get(ctx, questionID, userID)
}

func (s *voteService) Retract(ctx context.Context, questionID, userID uuid.UUID) error {
	now := s.now().UTC()

	question, err := s.questionRepo.GetByID(ctx, questionID)
	if err != nil {
		return err
	}
	if !question.CanVote(now) {
		return domain.ErrVotingClosed
	}

	return s.voteRepo.Delete(ctx, questionID, userID)
}
