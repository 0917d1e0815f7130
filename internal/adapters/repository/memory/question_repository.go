package memory

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/vncsmyrnk/kupolls/internal/core/domain"
	"github.com/vncsmyrnk/kupolls/internal/core/ports"
)

type questionRepository struct {
	store *Store
}

func NewQuestionRepository(store *Store) ports.QuestionRepository {
	return &questionRepository{store: store}
}

func (r *questionRepository) Save(ctx context.Context, question *domain.Question) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	r.store.seq++
	question.Seq = r.store.seq
	r.store.questions[question.ID] = cloneQuestion(question)
	return nil
}

func (r *questionRepository) AddChoice(ctx context.Context, choice *domain.Choice) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	q, ok := r.store.questions[choice.QuestionID]
	if !ok {
		return domain.ErrQuestionNotFound
	}
	q.Choices = append(q.Choices, *choice)
	return nil
}

func (r *questionRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Question, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	q, ok := r.store.questions[id]
	if !ok {
		return nil, domain.ErrQuestionNotFound
	}
	return cloneQuestion(q), nil
}

func (r *questionRepository) GetAll(ctx context.Context) ([]*domain.Question, error) {
	return r.filter(func(*domain.Question) bool { return true }, 0, 0), nil
}

func (r *questionRepository) ListPublished(ctx context.Context, now time.Time, query string, limit, offset int) ([]*domain.Question, error) {
	return r.filter(func(q *domain.Question) bool {
		return q.IsPublished(now) && matches(q, query)
	}, limit, offset), nil
}

func (r *questionRepository) List(ctx context.Context, query string, limit, offset int) ([]*domain.Question, error) {
	return r.filter(func(q *domain.Question) bool { return matches(q, query) }, limit, offset), nil
}

func (r *questionRepository) Delete(ctx context.Context, id uuid.UUID) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, ok := r.store.questions[id]; !ok {
		return domain.ErrQuestionNotFound
	}
	delete(r.store.questions, id)
	for k := range r.store.votes {
		if k.questionID == id {
			delete(r.store.votes, k)
		}
	}
	return nil
}

// filter returns matching questions ordered by pub_date descending, then
// insertion order. A zero limit means no limit.
func (r *questionRepository) filter(keep func(*domain.Question) bool, limit, offset int) []*domain.Question {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	var out []*domain.Question
	for _, q := range r.store.questions {
		if keep(q) {
			out = append(out, cloneQuestion(q))
		}
	}

	sort.Slice(out, func(i, j int) bool {
		if !out[i].PubDate.Equal(out[j].PubDate) {
			return out[i].PubDate.After(out[j].PubDate)
		}
		return out[i].Seq < out[j].Seq
	})

	if offset < 0 || offset >= len(out) {
		return nil
	}
	out = out[offset:]
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

func matches(q *domain.Question, query string) bool {
	if query == "" {
		return true
	}
	return strings.Contains(strings.ToLower(q.Text), strings.ToLower(query))
}
