package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/vncsmyrnk/kupolls/internal/core/domain"
	"github.com/vncsmyrnk/kupolls/internal/core/ports"
)

type AdminHandler struct {
	questions ports.QuestionService
	tallies   ports.TallyService
	logger    *zap.SugaredLogger
}

func NewAdminHandler(questions ports.QuestionService, tallies ports.TallyService, logger *zap.SugaredLogger) *AdminHandler {
	return &AdminHandler{
		questions: questions,
		tallies:   tallies,
		logger:    logger,
	}
}

type createQuestionRequest struct {
	Text    string    `json:"text"`
	PubDate time.Time `json:"pub_date"`
	EndDate time.Time `json:"end_date"`
	Choices []string  `json:"choices"`
}

type addChoiceRequest struct {
	Text string `json:"text"`
}

func (h *AdminHandler) ListQuestions(w http.ResponseWriter, r *http.Request) {
	input, ok := listInput(w, r)
	if !ok {
		return
	}

	questions, err := h.questions.ListAll(r.Context(), input)
	if err != nil {
		internalError(w, r, h.logger, err)
		return
	}
	if questions == nil {
		questions = []ports.QuestionWithStatus{}
	}

	writeJSON(w, http.StatusOK, questions)
}

func (h *AdminHandler) CreateQuestion(w http.ResponseWriter, r *http.Request) {
	var req createQuestionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	input := ports.CreateQuestionInput{
		Text:    req.Text,
		PubDate: req.PubDate,
		EndDate: req.EndDate,
		Choices: req.Choices,
	}

	question, err := h.questions.Create(r.Context(), input)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidQuestion) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		internalError(w, r, h.logger, err)
		return
	}

	writeJSON(w, http.StatusCreated, question)
}

func (h *AdminHandler) AddChoice(w http.ResponseWriter, r *http.Request) {
	id, err := questionIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	var req addChoiceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	choice, err := h.questions.AddChoice(r.Context(), id, req.Text)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidQuestion):
			writeError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, domain.ErrQuestionNotFound):
			writeError(w, http.StatusNotFound, err.Error())
		default:
			internalError(w, r, h.logger, err)
		}
		return
	}

	writeJSON(w, http.StatusCreated, choice)
}

func (h *AdminHandler) DeleteQuestion(w http.ResponseWriter, r *http.Request) {
	id, err := questionIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.questions.Delete(r.Context(), id); err != nil {
		if errors.Is(err, domain.ErrQuestionNotFound) {
			writeError(w, http.StatusNotFound, err.Error())
			return
		}
		internalError(w, r, h.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *AdminHandler) RecomputeTallies(w http.ResponseWriter, r *http.Request) {
	if err := h.tallies.RecomputeAll(r.Context()); err != nil {
		internalError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
