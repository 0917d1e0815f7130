package domain

import (
	"time"

	"github.com/google/uuid"
)

type EventKind string

const (
	EventLogin       EventKind = "login"
	EventLoginFailed EventKind = "login_failed"
	EventRegister    EventKind = "register"
	EventLogout      EventKind = "logout"
	EventVoteCast    EventKind = "vote_cast"
)

// Event is an audit record of something a user did, handed to an
// EventRecorder after the fact.
type Event struct {
	Kind       EventKind
	Actor      string
	RemoteAddr string
	Time       time.Time
	Outcome    string
	QuestionID uuid.UUID
}
