package http

import (
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/vncsmyrnk/kupolls/internal/core/domain"
	"github.com/vncsmyrnk/kupolls/internal/core/ports"
)

type UserHandler struct {
	service ports.UserService
	logger  *zap.SugaredLogger
}

func NewUserHandler(service ports.UserService, logger *zap.SugaredLogger) *UserHandler {
	return &UserHandler{
		service: service,
		logger:  logger,
	}
}

func (h *UserHandler) GetMe(w http.ResponseWriter, r *http.Request) {
	identity, ok := IdentityFrom(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Unauthorized: missing user context")
		return
	}

	user, err := h.service.GetByID(r.Context(), identity.UserID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			writeError(w, http.StatusNotFound, "User not found")
			return
		}
		internalError(w, r, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, user)
}
