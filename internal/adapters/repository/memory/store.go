// Package memory implements the repository ports on process memory.
// It backs the unit tests and STORAGE=memory local runs.
package memory

import (
	"sync"

	"github.com/google/uuid"
	"github.com/vncsmyrnk/kupolls/internal/core/domain"
)

type voteKey struct {
	questionID uuid.UUID
	userID     uuid.UUID
}

// Store holds every table behind one mutex, so multi-table operations such as
// a vote upsert plus tally refresh are atomic.
type Store struct {
	mu sync.Mutex

	seq       int64
	questions map[uuid.UUID]*domain.Question
	votes     map[voteKey]*domain.Vote
	users     map[uuid.UUID]*domain.User
	tokens    map[uuid.UUID]*domain.RefreshToken
}

func NewStore() *Store {
	return &Store{
		questions: make(map[uuid.UUID]*domain.Question),
		votes:     make(map[voteKey]*domain.Vote),
		users:     make(map[uuid.UUID]*domain.User),
		tokens:    make(map[uuid.UUID]*domain.RefreshToken),
	}
}

// Ping satisfies health checks.
func (s *Store) Ping() error {
	return nil
}

// VoteCount returns the number of ledger rows for the question.
func (s *Store) VoteCount(questionID uuid.UUID) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := 0
	for k := range s.votes {
		if k.questionID == questionID {
			n++
		}
	}
	return n
}

func cloneQuestion(q *domain.Question) *domain.Question {
	c := *q
	c.Choices = append([]domain.Choice(nil), q.Choices...)
	return &c
}

// recomputeLocked refreshes the cached choice counters of a question. s.mu must be held.
func (s *Store) recomputeLocked(questionID uuid.UUID) {
	q, ok := s.questions[questionID]
	if !ok {
		return
	}
	counts := s.countLocked(questionID)
	for i := range q.Choices {
		q.Choices[i].Votes = counts[q.Choices[i].ID]
	}
}

func (s *Store) countLocked(questionID uuid.UUID) map[uuid.UUID]int64 {
	counts := make(map[uuid.UUID]int64)
	for k, v := range s.votes {
		if k.questionID == questionID {
			counts[v.ChoiceID]++
		}
	}
	return counts
}
