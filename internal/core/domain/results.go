package domain

import "github.com/google/uuid"

type ChoiceResult struct {
	ChoiceID   uuid.UUID `json:"choice_id"`
	Text       string    `json:"text"`
	VoteCount  int64     `json:"vote_count"`
	Percentage float64   `json:"percentage"`
}

type QuestionResults struct {
	QuestionID uuid.UUID      `json:"question_id"`
	Text       string         `json:"text"`
	TotalVotes int64          `json:"total_votes"`
	Choices    []ChoiceResult `json:"choices"`
}

// NewQuestionResults builds results for q from ledger counts keyed by choice.
// Choices without votes report zero.
func NewQuestionResults(q *Question, counts map[uuid.UUID]int64) *QuestionResults {
	res := &QuestionResults{
		QuestionID: q.ID,
		Text:       q.Text,
		Choices:    make([]ChoiceResult, 0, len(q.Choices)),
	}
	for _, c := range q.Choices {
		res.TotalVotes += counts[c.ID]
	}
	for _, c := range q.Choices {
		count := counts[c.ID]
		percentage := 0.0
		if res.TotalVotes > 0 {
			percentage = (float64(count) / float64(res.TotalVotes)) * 100
		}
		res.Choices = append(res.Choices, ChoiceResult{
			ChoiceID:   c.ID,
			Text:       c.Text,
			VoteCount:  count,
			Percentage: percentage,
		})
	}
	return res
}
