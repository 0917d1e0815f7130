package domain

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)

func window(pub, end time.Duration) *Question {
	return &Question{
		Text:    "What's up?",
		PubDate: now.Add(pub),
		EndDate: now.Add(end),
	}
}

func TestIsPublished(t *testing.T) {
	tests := []struct {
		name string
		pub  time.Duration
		want bool
	}{
		{"past", -time.Hour, true},
		{"exactly now", 0, true},
		{"one nanosecond ahead", time.Nanosecond, false},
		{"future", 30 * 24 * time.Hour, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := window(tt.pub, tt.pub+time.Hour)
			assert.Equal(t, tt.want, q.IsPublished(now))
		})
	}
}

func TestWasPublishedRecently(t *testing.T) {
	tests := []struct {
		name string
		pub  time.Duration
		want bool
	}{
		{"just now", 0, true},
		{"one hour ago", -time.Hour, true},
		{"exactly one day ago", -24 * time.Hour, true},
		{"one day and a second ago", -24*time.Hour - time.Second, false},
		{"thirty days ago", -30 * 24 * time.Hour, false},
		{"one second ahead", time.Second, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := window(tt.pub, tt.pub+48*time.Hour)
			assert.Equal(t, tt.want, q.WasPublishedRecently(now))
		})
	}
}

func TestCanVote(t *testing.T) {
	tests := []struct {
		name     string
		pub, end time.Duration
		want     bool
	}{
		{"inside window", -time.Hour, time.Hour, true},
		{"opens now", 0, time.Hour, true},
		{"closes now", -time.Hour, 0, true},
		{"zero length window at now", 0, 0, true},
		{"not yet open", time.Second, time.Hour, false},
		{"closed a second ago", -time.Hour, -time.Second, false},
		{"inverted window", time.Hour, -time.Hour, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := window(tt.pub, tt.end)
			assert.Equal(t, tt.want, q.CanVote(now))
		})
	}
}

func TestStatus_Scenarios(t *testing.T) {
	t.Run("future question", func(t *testing.T) {
		q := window(time.Hour, 2*time.Hour)
		assert.Equal(t, QuestionStatus{}, q.Status(now))
	})

	t.Run("closed a month ago", func(t *testing.T) {
		q := window(-30*24*time.Hour, -29*24*time.Hour)
		assert.Equal(t, QuestionStatus{IsPublished: true}, q.Status(now))
	})

	t.Run("open and fresh", func(t *testing.T) {
		q := window(-time.Hour, time.Hour)
		assert.Equal(t, QuestionStatus{IsPublished: true, WasPublishedRecently: true, CanVote: true}, q.Status(now))
	})
}

func TestQuestion_Choice(t *testing.T) {
	a := Choice{ID: uuid.New(), Text: "A"}
	q := &Question{Choices: []Choice{a, {ID: uuid.New(), Text: "B"}}}

	got, ok := q.Choice(a.ID)
	require.True(t, ok)
	assert.Equal(t, a, got)

	_, ok = q.Choice(uuid.New())
	assert.False(t, ok)

	_, ok = q.Choice(uuid.Nil)
	assert.False(t, ok)
}

func TestQuestion_Validate(t *testing.T) {
	valid := func() *Question {
		q := window(0, time.Hour)
		q.Choices = []Choice{{Text: "A"}}
		return q
	}

	require.NoError(t, valid().Validate())

	tests := []struct {
		name   string
		mutate func(q *Question)
	}{
		{"blank text", func(q *Question) { q.Text = "   " }},
		{"text too long", func(q *Question) { q.Text = strings.Repeat("x", MaxTextLength+1) }},
		{"missing pub date", func(q *Question) { q.PubDate = time.Time{} }},
		{"end before pub", func(q *Question) { q.EndDate = q.PubDate.Add(-time.Second) }},
		{"no choices", func(q *Question) { q.Choices = nil }},
		{"blank choice", func(q *Question) { q.Choices = append(q.Choices, Choice{Text: ""}) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := valid()
			tt.mutate(q)
			err := q.Validate()
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidQuestion))
		})
	}

	t.Run("multibyte text at the limit", func(t *testing.T) {
		q := valid()
		q.Text = strings.Repeat("é", MaxTextLength)
		assert.NoError(t, q.Validate())
	})
}

func TestNewQuestionResults(t *testing.T) {
	a, b, c := uuid.New(), uuid.New(), uuid.New()
	q := &Question{
		ID:      uuid.New(),
		Text:    "Pick one",
		Choices: []Choice{{ID: a, Text: "A", Votes: 99}, {ID: b, Text: "B"}, {ID: c, Text: "C"}},
	}

	res := NewQuestionResults(q, map[uuid.UUID]int64{a: 3, b: 1, uuid.New(): 5})

	assert.Equal(t, int64(4), res.TotalVotes)
	require.Len(t, res.Choices, 3)
	assert.Equal(t, int64(3), res.Choices[0].VoteCount)
	assert.InDelta(t, 75.0, res.Choices[0].Percentage, 0.001)
	assert.InDelta(t, 25.0, res.Choices[1].Percentage, 0.001)
	assert.Equal(t, int64(0), res.Choices[2].VoteCount)
	assert.Zero(t, res.Choices[2].Percentage)

	empty := NewQuestionResults(q, nil)
	assert.Zero(t, empty.TotalVotes)
	for _, c := range empty.Choices {
		assert.Zero(t, c.Percentage)
	}
}

func TestVoteOutcome_MarshalText(t *testing.T) {
	text, err := VoteUpdated.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "updated", string(text))
	assert.Equal(t, "created", VoteCreated.String())
	assert.Equal(t, "unknown", VoteOutcome(0).String())
}
