package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"mime"
	"net/http"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/vncsmyrnk/kupolls/internal/core/domain"
	"github.com/vncsmyrnk/kupolls/internal/core/ports"
	"github.com/vncsmyrnk/kupolls/internal/core/services"
)

const (
	noChoiceMessage     = "You didn't select a choice."
	votingClosedMessage = "Polls not published yet or does not exist"
)

type VoteHandler struct {
	service         ports.VoteService
	questionService ports.QuestionService
	events          ports.EventRecorder
	now             services.Clock
	logger          *zap.SugaredLogger
}

func NewVoteHandler(service ports.VoteService, questionService ports.QuestionService, events ports.EventRecorder, now services.Clock, logger *zap.SugaredLogger) *VoteHandler {
	return &VoteHandler{
		service:         service,
		questionService: questionService,
		events:          events,
		now:             now,
		logger:          logger,
	}
}

type voteRequest struct {
	ChoiceID string `json:"choice_id"`
}

type voteResponse struct {
	Outcome    domain.VoteOutcome `json:"outcome"`
	QuestionID uuid.UUID          `json:"question_id"`
	ChoiceID   uuid.UUID          `json:"choice_id"`
	ResultsURL string             `json:"results_url"`
}

type noticeResponse struct {
	Error  string `json:"error"`
	Notice string `json:"notice"`
}

type choiceErrorResponse struct {
	Error    string           `json:"error"`
	Question *domain.Question `json:"question,omitempty"`
}

// CastVote godoc
// @Summary      Casts or changes the caller's vote
// @Description  Accepts JSON {"choice_id"} or a form field "choice". Returns 201 for a first vote and 200 when an earlier vote was changed.
// @Tags         votes
// @Accept       json
// @Produce      json
// @Success      200
// @Success      201
// @Failure      303
// @Failure      404
// @Failure      422
// @Router       /api/questions/{id}/votes [post]
func (h *VoteHandler) CastVote(w http.ResponseWriter, r *http.Request) {
	questionID, err := questionIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	identity, ok := IdentityFrom(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, domain.ErrUnauthorized.Error())
		return
	}

	choiceID, err := submittedChoice(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	input := ports.CastVoteInput{
		QuestionID: questionID,
		UserID:     identity.UserID,
		ChoiceID:   choiceID,
	}

	outcome, err := h.service.CastVote(r.Context(), input)
	h.recordVote(r, identity, questionID, outcome, err)
	if err != nil {
		h.writeVoteError(w, r, questionID, err)
		return
	}

	resultsURL := resultsPath(questionID)
	status := http.StatusCreated
	if outcome == domain.VoteUpdated {
		status = http.StatusOK
	}

	w.Header().Set("Location", resultsURL)
	writeJSON(w, status, voteResponse{
		Outcome:    outcome,
		QuestionID: questionID,
		ChoiceID:   choiceID,
		ResultsURL: resultsURL,
	})
}

func (h *VoteHandler) GetMyVote(w http.ResponseWriter, r *http.Request) {
	questionID, err := questionIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	identity, ok := IdentityFrom(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, domain.ErrUnauthorized.Error())
		return
	}

	vote, err := h.service.GetMyVote(r.Context(), questionID, identity.UserID)
	if err != nil {
		if errors.Is(err, domain.ErrVoteNotFound) {
			writeError(w, http.StatusNotFound, err.Error())
			return
		}
		internalError(w, r, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, vote)
}

func (h *VoteHandler) Retract(w http.ResponseWriter, r *http.Request) {
	questionID, err := questionIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	identity, ok := IdentityFrom(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, domain.ErrUnauthorized.Error())
		return
	}

	if err := h.service.Retract(r.Context(), questionID, identity.UserID); err != nil {
		switch {
		case errors.Is(err, domain.ErrVoteNotFound), errors.Is(err, domain.ErrQuestionNotFound):
			writeError(w, http.StatusNotFound, err.Error())
		case errors.Is(err, domain.ErrVotingClosed):
			writeError(w, http.StatusConflict, err.Error())
		default:
			internalError(w, r, h.logger, err)
		}
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *VoteHandler) writeVoteError(w http.ResponseWriter, r *http.Request, questionID uuid.UUID, err error) {
	switch {
	case errors.Is(err, domain.ErrQuestionNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, domain.ErrVotingClosed):
		w.Header().Set("Location", "/api/questions")
		writeJSON(w, http.StatusSeeOther, noticeResponse{Error: err.Error(), Notice: votingClosedMessage})
	case errors.Is(err, domain.ErrNoChoiceSelected):
		resp := choiceErrorResponse{Error: noChoiceMessage}
		if question, qerr := h.questionService.GetPublished(r.Context(), questionID); qerr == nil {
			resp.Question = question
		}
		writeJSON(w, http.StatusUnprocessableEntity, resp)
	default:
		internalError(w, r, h.logger, err)
	}
}

func (h *VoteHandler) recordVote(r *http.Request, identity *ports.Identity, questionID uuid.UUID, outcome domain.VoteOutcome, err error) {
	result := outcome.String()
	switch {
	case err == nil:
	case errors.Is(err, domain.ErrQuestionNotFound):
		result = "not_found"
	case errors.Is(err, domain.ErrVotingClosed):
		result = "voting_closed"
	case errors.Is(err, domain.ErrNoChoiceSelected):
		result = "no_choice_selected"
	default:
		result = "error"
	}

	h.events.Record(r.Context(), domain.Event{
		Kind:       domain.EventVoteCast,
		Actor:      identity.Username,
		RemoteAddr: remoteIP(r),
		Time:       h.now().UTC(),
		Outcome:    result,
		QuestionID: questionID,
	})
}

// submittedChoice reads the choice from a JSON body or a form field. A
// missing or malformed id yields uuid.Nil, which the ledger rejects as no
// choice selected.
func submittedChoice(r *http.Request) (uuid.UUID, error) {
	var raw string

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "application/json" {
		var req voteRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			return uuid.Nil, err
		}
		raw = req.ChoiceID
	} else {
		if err := r.ParseForm(); err != nil {
			return uuid.Nil, err
		}
		raw = r.PostFormValue("choice")
	}

	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, nil
	}
	return id, nil
}

func resultsPath(questionID uuid.UUID) string {
	return fmt.Sprintf("/api/questions/%s/results", questionID)
}
