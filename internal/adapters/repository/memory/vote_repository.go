package memory

import (
	"context"

	"github.com/google/uuid"
	"github.com/vncsmyrnk/kupolls/internal/core/domain"
	"github.com/vncsmyrnk/kupolls/internal/core/ports"
)

type voteRepository struct {
	store *Store
}

func NewVoteRepository(store *Store) ports.VoteRepository {
	return &voteRepository{store: store}
}

func (r *voteRepository) Upsert(ctx context.Context, vote *domain.Vote) (domain.VoteOutcome, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	q, ok := r.store.questions[vote.QuestionID]
	if !ok {
		return 0, domain.ErrQuestionNotFound
	}
	if _, ok := q.Choice(vote.ChoiceID); !ok {
		return 0, domain.ErrNoChoiceSelected
	}

	key := voteKey{questionID: vote.QuestionID, userID: vote.UserID}
	outcome := domain.VoteCreated
	if existing, ok := r.store.votes[key]; ok {
		existing.ChoiceID = vote.ChoiceID
		existing.UpdatedAt = vote.UpdatedAt
		vote.ID = existing.ID
		vote.CreatedAt = existing.CreatedAt
		outcome = domain.VoteUpdated
	} else {
		stored := *vote
		r.store.votes[key] = &stored
	}

	r.store.recomputeLocked(vote.QuestionID)
	return outcome, nil
}

func (r *voteRepository) Get(ctx context.Context, questionID, userID uuid.UUID) (*domain.Vote, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	v, ok := r.store.votes[voteKey{questionID: questionID, userID: userID}]
	if !ok {
		return nil, domain.ErrVoteNotFound
	}
	c := *v
	return &c, nil
}

func (r *voteRepository) Delete(ctx context.Context, questionID, userID uuid.UUID) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	key := voteKey{questionID: questionID, userID: userID}
	if _, ok := r.store.votes[key]; !ok {
		return domain.ErrVoteNotFound
	}
	delete(r.store.votes, key)
	r.store.recomputeLocked(questionID)
	return nil
}
