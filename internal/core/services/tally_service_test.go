package services_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vncsmyrnk/kupolls/internal/core/ports"
	"github.com/vncsmyrnk/kupolls/internal/core/services"
)

type recordingTally struct {
	ports.TallyRepository
	mu   sync.Mutex
	seen map[uuid.UUID]int
	fail uuid.UUID
}

func (r *recordingTally) RecomputeChoiceVotes(ctx context.Context, questionID uuid.UUID) error {
	r.mu.Lock()
	r.seen[questionID]++
	r.mu.Unlock()
	if questionID == r.fail {
		return errors.New("boom")
	}
	return r.TallyRepository.RecomputeChoiceVotes(ctx, questionID)
}

func TestTallyService_RecomputeAll(t *testing.T) {
	f := newFixture()
	var ids []uuid.UUID
	for i := 0; i < 20; i++ {
		ids = append(ids, f.createQuestion(t, "Pick", -time.Hour, time.Hour, "A").ID)
	}

	tally := &recordingTally{TallyRepository: f.tallyRepo, seen: map[uuid.UUID]int{}}
	require.NoError(t, services.NewTallyService(f.questionRepo, tally).RecomputeAll(context.Background()))

	assert.Len(t, tally.seen, len(ids))
	for _, id := range ids {
		assert.Equal(t, 1, tally.seen[id])
	}
}

func TestTallyService_RecomputeAllReportsFailure(t *testing.T) {
	f := newFixture()
	q := f.createQuestion(t, "Pick", -time.Hour, time.Hour, "A")

	tally := &recordingTally{TallyRepository: f.tallyRepo, seen: map[uuid.UUID]int{}, fail: q.ID}
	err := services.NewTallyService(f.questionRepo, tally).RecomputeAll(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), q.ID.String())
}
