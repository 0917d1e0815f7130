package ports

import (
	"context"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/vncsmyrnk/kupolls/internal/core/domain"
)

// PageSize is the number of questions returned per listing page.
const PageSize = 10

// MaxPage is the highest page whose offset still fits in an int.
const MaxPage = math.MaxInt/PageSize + 1

type QuestionRepository interface {
	Save(ctx context.Context, question *domain.Question) error
	AddChoice(ctx context.Context, choice *domain.Choice) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Question, error)
	GetAll(ctx context.Context) ([]*domain.Question, error)
	// ListPublished returns questions with pub_date <= now, newest first,
	// ties in insertion order.
	ListPublished(ctx context.Context, now time.Time, query string, limit, offset int) ([]*domain.Question, error)
	List(ctx context.Context, query string, limit, offset int) ([]*domain.Question, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type CreateQuestionInput struct {
	Text    string
	PubDate time.Time
	EndDate time.Time
	Choices []string
}

type ListQuestionsInput struct {
	Page  int
	Query string
}

// QuestionWithStatus pairs a question with its lifecycle status for admin listings.
type QuestionWithStatus struct {
	*domain.Question
	Status domain.QuestionStatus `json:"status"`
}

type QuestionService interface {
	Create(ctx context.Context, input CreateQuestionInput) (*domain.Question, error)
	AddChoice(ctx context.Context, questionID uuid.UUID, text string) (*domain.Choice, error)
	Delete(ctx context.Context, questionID uuid.UUID) error
	GetPublished(ctx context.Context, id uuid.UUID) (*domain.Question, error)
	// GetDetail is GetPublished plus the lifecycle status under the same clock reading.
	GetDetail(ctx context.Context, id uuid.UUID) (*QuestionWithStatus, error)
	ListPublished(ctx context.Context, input ListQuestionsInput) ([]*domain.Question, error)
	ListAll(ctx context.Context, input ListQuestionsInput) ([]QuestionWithStatus, error)
	GetResults(ctx context.Context, id uuid.UUID) (*domain.QuestionResults, error)
}
