package http

import (
	"errors"
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"github.com/vncsmyrnk/kupolls/internal/core/domain"
	"github.com/vncsmyrnk/kupolls/internal/core/ports"
)

type QuestionHandler struct {
	service ports.QuestionService
	logger  *zap.SugaredLogger
}

func NewQuestionHandler(service ports.QuestionService, logger *zap.SugaredLogger) *QuestionHandler {
	return &QuestionHandler{
		service: service,
		logger:  logger,
	}
}

// ListQuestions godoc
// @Summary      Lists published questions
// @Description  Questions whose pub_date has passed, newest first, 10 per page.
// @Tags         questions
// @Produce      json
// @Param        page  query  int     false  "1-based page"
// @Param        q     query  string  false  "text filter"
// @Success      200
// @Router       /api/questions [get]
func (h *QuestionHandler) ListQuestions(w http.ResponseWriter, r *http.Request) {
	input, ok := listInput(w, r)
	if !ok {
		return
	}

	questions, err := h.service.ListPublished(r.Context(), input)
	if err != nil {
		internalError(w, r, h.logger, err)
		return
	}
	if questions == nil {
		questions = []*domain.Question{}
	}

	writeJSON(w, http.StatusOK, questions)
}

func (h *QuestionHandler) GetQuestion(w http.ResponseWriter, r *http.Request) {
	id, err := questionIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	detail, err := h.service.GetDetail(r.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrQuestionNotFound) {
			writeError(w, http.StatusNotFound, err.Error())
			return
		}
		internalError(w, r, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, detail)
}

func (h *QuestionHandler) GetResults(w http.ResponseWriter, r *http.Request) {
	id, err := questionIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	results, err := h.service.GetResults(r.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrQuestionNotFound) {
			writeError(w, http.StatusNotFound, err.Error())
			return
		}
		internalError(w, r, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, results)
}

func listInput(w http.ResponseWriter, r *http.Request) (ports.ListQuestionsInput, bool) {
	input := ports.ListQuestionsInput{Page: 1, Query: r.URL.Query().Get("q")}
	if raw := r.URL.Query().Get("page"); raw != "" {
		page, err := strconv.Atoi(raw)
		if err != nil || page < 1 || page > ports.MaxPage {
			writeError(w, http.StatusBadRequest, "invalid page")
			return input, false
		}
		input.Page = page
	}
	return input, true
}
