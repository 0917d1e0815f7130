package services_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/vncsmyrnk/kupolls/internal/adapters/repository/memory"
	"github.com/vncsmyrnk/kupolls/internal/core/domain"
	"github.com/vncsmyrnk/kupolls/internal/core/ports"
	"github.com/vncsmyrnk/kupolls/internal/core/services"
)

var epoch = time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)

// fakeClock is a settable services.Clock.
type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{t: epoch}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = t
}

type fixture struct {
	store        *memory.Store
	clock        *fakeClock
	questionRepo ports.QuestionRepository
	tallyRepo    ports.TallyRepository
	questions    ports.QuestionService
	votes        ports.VoteService
	tallies      ports.TallyService
}

func newFixture() *fixture {
	store := memory.NewStore()
	clock := newFakeClock()
	questionRepo := memory.NewQuestionRepository(store)
	tallyRepo := memory.NewTallyRepository(store)

	return &fixture{
		store:        store,
		clock:        clock,
		questionRepo: questionRepo,
		tallyRepo:    tallyRepo,
		questions:    services.NewQuestionService(questionRepo, tallyRepo, clock.Now),
		votes:        services.NewVoteService(questionRepo, memory.NewVoteRepository(store), clock.Now),
		tallies:      services.NewTallyService(questionRepo, tallyRepo),
	}
}

func (f *fixture) createQuestion(t *testing.T, text string, pub, end time.Duration, choices ...string) *domain.Question {
	t.Helper()
	q, err := f.questions.Create(context.Background(), ports.CreateQuestionInput{
		Text:    text,
		PubDate: epoch.Add(pub),
		EndDate: epoch.Add(end),
		Choices: choices,
	})
	require.NoError(t, err)
	return q
}
