package domain

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
)

// MaxTextLength bounds question and choice text.
const MaxTextLength = 200

// RecentWindow is how long after publication a question counts as recent.
const RecentWindow = 24 * time.Hour

type Question struct {
	ID        uuid.UUID `json:"id"`
	Text      string    `json:"text"`
	PubDate   time.Time `json:"pub_date"`
	EndDate   time.Time `json:"end_date"`
	Choices   []Choice  `json:"choices"`
	CreatedAt time.Time `json:"created_at"`
	// Seq is the insertion order, used to break pub_date ties.
	Seq int64 `json:"-"`
}

type Choice struct {
	ID         uuid.UUID `json:"id"`
	QuestionID uuid.UUID `json:"question_id"`
	Text       string    `json:"text"`
	// Votes is a cache of the ledger aggregate, never the source of truth.
	Votes int64 `json:"votes"`
}

// QuestionStatus is the lifecycle predicates evaluated under one clock reading.
type QuestionStatus struct {
	IsPublished          bool `json:"is_published"`
	WasPublishedRecently bool `json:"was_published_recently"`
	CanVote              bool `json:"can_vote"`
}

// IsPublished reports whether the question is visible at now.
func (q *Question) IsPublished(now time.Time) bool {
	return !q.PubDate.After(now)
}

// WasPublishedRecently reports whether the question was published within
// the last RecentWindow. Future questions are never recent.
func (q *Question) WasPublishedRecently(now time.Time) bool {
	return !now.Add(-RecentWindow).After(q.PubDate) && !q.PubDate.After(now)
}

// CanVote reports whether now falls inside [PubDate, EndDate].
func (q *Question) CanVote(now time.Time) bool {
	return !q.PubDate.After(now) && !now.After(q.EndDate)
}

func (q *Question) Status(now time.Time) QuestionStatus {
	return QuestionStatus{
		IsPublished:          q.IsPublished(now),
		WasPublishedRecently: q.WasPublishedRecently(now),
		CanVote:              q.CanVote(now),
	}
}

// Choice resolves id against the question's own choices.
func (q *Question) Choice(id uuid.UUID) (Choice, bool) {
	for _, c := range q.Choices {
		if c.ID == id {
			return c, true
		}
	}
	return Choice{}, false
}

// Validate checks the rules a question must satisfy before it is stored.
func (q *Question) Validate() error {
	if err := validateText("question text", q.Text); err != nil {
		return err
	}
	if q.PubDate.IsZero() || q.EndDate.IsZero() {
		return fmt.Errorf("%w: pub_date and end_date are required", ErrInvalidQuestion)
	}
	if q.EndDate.Before(q.PubDate) {
		return fmt.Errorf("%w: end_date must not be before pub_date", ErrInvalidQuestion)
	}
	if len(q.Choices) == 0 {
		return fmt.Errorf("%w: at least one choice is required", ErrInvalidQuestion)
	}
	for _, c := range q.Choices {
		if err := validateText("choice text", c.Text); err != nil {
			return err
		}
	}
	return nil
}

// ValidateChoiceText applies the text rules to a single choice.
func ValidateChoiceText(text string) error {
	return validateText("choice text", text)
}

func validateText(field, text string) error {
	if strings.TrimSpace(text) == "" {
		return fmt.Errorf("%w: %s is required", ErrInvalidQuestion, field)
	}
	if utf8.RuneCountInString(text) > MaxTextLength {
		return fmt.Errorf("%w: %s exceeds %d characters", ErrInvalidQuestion, field, MaxTextLength)
	}
	return nil
}
