package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/vncsmyrnk/kupolls/internal/core/domain"
	"github.com/vncsmyrnk/kupolls/internal/core/ports"
)

type questionService struct {
	repo      ports.QuestionRepository
	tallyRepo ports.TallyRepository
	now       Clock
}

func NewQuestionService(repo ports.QuestionRepository, tallyRepo ports.TallyRepository, now Clock) ports.QuestionService {
	return &questionService{
		repo:      repo,
		tallyRepo: tallyRepo,
		now:       now,
	}
}

func (s *questionService) Create(ctx context.Context, input ports.CreateQuestionInput) (*domain.Question, error) {
	questionID := uuid.New()
	question := &domain.Question{
		ID:        questionID,
		Text:      strings.TrimSpace(input.Text),
		PubDate:   input.PubDate.UTC(),
		EndDate:   input.EndDate.UTC(),
		CreatedAt: s.now().UTC(),
	}

	for _, text := range input.Choices {
		text = strings.TrimSpace(text)
		if text == "" {
			continue
		}
		question.Choices = append(question.Choices, domain.Choice{
			ID:         uuid.New(),
			QuestionID: questionID,
			Text:       text,
		})
	}

	if err := question.Validate(); err != nil {
		return nil, err
	}

	if err := s.repo.Save(ctx, question); err != nil {
		return nil, err
	}

	return question, nil
}

func (s *questionService) AddChoice(ctx context.Context, questionID uuid.UUID, text string) (*domain.Choice, error) {
	text = strings.TrimSpace(text)
	if err := domain.ValidateChoiceText(text); err != nil {
		return nil, err
	}

	if _, err := s.repo.GetByID(ctx, questionID); err != nil {
		return nil, err
	}

	choice := &domain.Choice{
		ID:         uuid.New(),
		QuestionID: questionID,
		Text:       text,
	}
	if err := s.repo.AddChoice(ctx, choice); err != nil {
		return nil, err
	}
	return choice, nil
}

func (s *questionService) Delete(ctx context.Context, questionID uuid.UUID) error {
	return s.repo.Delete(ctx, questionID)
}

func (s *questionService) GetPublished(ctx context.Context, id uuid.UUID) (*domain.Question, error) {
	question, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !question.IsPublished(s.now()) {
		return nil, domain.ErrQuestionNotFound
	}
	return question, nil
}

func (s *questionService) GetDetail(ctx context.Context, id uuid.UUID) (*ports.QuestionWithStatus, error) {
	question, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	now := s.now()
	if !question.IsPublished(now) {
		return nil, domain.ErrQuestionNotFound
	}
	return &ports.QuestionWithStatus{Question: question, Status: question.Status(now)}, nil
}

func (s *questionService) ListPublished(ctx context.Context, input ports.ListQuestionsInput) ([]*domain.Question, error) {
	limit, offset := pageBounds(input.Page)
	return s.repo.ListPublished(ctx, s.now(), strings.TrimSpace(input.Query), limit, offset)
}

func (s *questionService) ListAll(ctx context.Context, input ports.ListQuestionsInput) ([]ports.QuestionWithStatus, error) {
	limit, offset := pageBounds(input.Page)
	questions, err := s.repo.List(ctx, strings.TrimSpace(input.Query), limit, offset)
	if err != nil {
		return nil, err
	}

	now := s.now()
	listed := make([]ports.QuestionWithStatus, 0, len(questions))
	for _, q := range questions {
		listed = append(listed, ports.QuestionWithStatus{Question: q, Status: q.Status(now)})
	}
	return listed, nil
}

func (s *questionService) GetResults(ctx context.Context, id uuid.UUID) (*domain.QuestionResults, error) {
	question, err := s.GetPublished(ctx, id)
	if err != nil {
		return nil, err
	}

	counts, err := s.tallyRepo.CountVotes(ctx, question.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to count votes: %w", err)
	}

	return domain.NewQuestionResults(question, counts), nil
}

func pageBounds(page int) (limit, offset int) {
	if page < 1 {
		page = 1
	}
	if page > ports.MaxPage {
		page = ports.MaxPage
	}
	return ports.PageSize, (page - 1) * ports.PageSize
}
