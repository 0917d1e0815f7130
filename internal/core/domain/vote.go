package domain

import (
	"time"

	"github.com/google/uuid"
)

type Vote struct {
	ID         uuid.UUID `json:"id"`
	QuestionID uuid.UUID `json:"question_id"`
	UserID     uuid.UUID `json:"user_id"`
	ChoiceID   uuid.UUID `json:"choice_id"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// VoteOutcome tells whether a cast inserted a ledger row or reassigned one.
type VoteOutcome int

const (
	VoteCreated VoteOutcome = iota + 1
	VoteUpdated
)

func (o VoteOutcome) String() string {
	switch o {
	case VoteCreated:
		return "created"
	case VoteUpdated:
		return "updated"
	default:
		return "unknown"
	}
}

func (o VoteOutcome) MarshalText() ([]byte, error) {
	return []byte(o.String()), nil
}
