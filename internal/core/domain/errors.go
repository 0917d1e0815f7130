package domain

import "errors"

var (
	ErrQuestionNotFound   = errors.New("question not found")
	ErrInvalidQuestionID  = errors.New("invalid question id")
	ErrInvalidQuestion    = errors.New("invalid question")
	ErrVotingClosed       = errors.New("voting is not open for this question")
	ErrNoChoiceSelected   = errors.New("no choice selected")
	ErrVoteNotFound       = errors.New("user did not vote on this question")
	ErrVoteConflict       = errors.New("concurrent vote conflict")
	ErrUserNotFound       = errors.New("user not found")
	ErrUsernameTaken      = errors.New("username already taken")
	ErrInvalidUser        = errors.New("invalid registration")
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrUnauthorized       = errors.New("authentication required")
	ErrForbidden          = errors.New("admin privileges required")
	ErrInternal           = errors.New("internal server error")
)
