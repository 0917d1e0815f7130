package services

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/vncsmyrnk/kupolls/internal/core/ports"
)

const recomputeConcurrency = 8

type tallyService struct {
	questionRepo ports.QuestionRepository
	tallyRepo    ports.TallyRepository
}

func NewTallyService(questionRepo ports.QuestionRepository, tallyRepo ports.TallyRepository) ports.TallyService {
	return &tallyService{
		questionRepo: questionRepo,
		tallyRepo:    tallyRepo,
	}
}

// RecomputeAll rebuilds every question's cached choice counters from the ledger.
func (s *tallyService) RecomputeAll(ctx context.Context) error {
	questions, err := s.questionRepo.GetAll(ctx)
	if err != nil {
		return fmt.Errorf("failed to fetch all questions: %w", err)
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(recomputeConcurrency)

	for _, question := range questions {
		id := question.ID
		g.Go(func() error {
			if err := s.tallyRepo.RecomputeChoiceVotes(ctx, id); err != nil {
				return fmt.Errorf("failed to recompute question %s: %w", id, err)
			}
			return nil
		})
	}

	return g.Wait()
}
