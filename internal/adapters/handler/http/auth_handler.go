package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/vncsmyrnk/kupolls/internal/core/domain"
	"github.com/vncsmyrnk/kupolls/internal/core/ports"
	"github.com/vncsmyrnk/kupolls/internal/core/services"
)

const (
	accessTokenCookie  = "access_token"
	refreshTokenCookie = "refresh_token"
)

type CookieConfig struct {
	Domain     string
	SameSite   http.SameSite
	Secure     bool
	AccessTTL  time.Duration
	RefreshTTL time.Duration
}

type AuthHandler struct {
	authService ports.AuthService
	events      ports.EventRecorder
	now         services.Clock
	logger      *zap.SugaredLogger
	redirectURL string
	cookies     CookieConfig
}

func NewAuthHandler(authService ports.AuthService, events ports.EventRecorder, now services.Clock, logger *zap.SugaredLogger, redirectURL string, cookies CookieConfig) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		events:      events,
		now:         now,
		logger:      logger,
		redirectURL: redirectURL,
		cookies:     cookies,
	}
}

type registerRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	user, err := h.authService.Register(r.Context(), ports.RegisterInput{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidUser):
			writeError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, domain.ErrUsernameTaken):
			writeError(w, http.StatusConflict, err.Error())
		default:
			internalError(w, r, h.logger, err)
		}
		return
	}

	h.record(r, domain.EventRegister, user.Username, "success")
	writeJSON(w, http.StatusCreated, user)
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	user, tokens, err := h.authService.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidCredentials) {
			h.record(r, domain.EventLoginFailed, req.Username, "invalid_credentials")
			writeError(w, http.StatusUnauthorized, "Username or Password is incorrect")
			return
		}
		internalError(w, r, h.logger, err)
		return
	}

	h.record(r, domain.EventLogin, user.Username, "success")
	h.setAccessTokenCookie(w, tokens.AccessToken)
	h.setRefreshTokenCookie(w, tokens.RefreshToken)
	writeJSON(w, http.StatusOK, user)
}

// GoogleCallback godoc
// @Summary      Signs a user in with a Google ID token
// @Description  Verifies the "credential" form field, sets the token cookies and redirects.
// @Tags         auth
// @Accept       x-www-form-urlencoded
// @Success      303
// @Failure      401
// @Router       /oauth/callback [post]
func (h *AuthHandler) GoogleCallback(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		writeError(w, http.StatusBadRequest, "Failed to parse form")
		return
	}

	credential := r.FormValue("credential")
	if credential == "" {
		writeError(w, http.StatusBadRequest, "Missing credential")
		return
	}

	user, tokens, err := h.authService.LoginWithGoogle(r.Context(), credential)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidCredentials) {
			h.record(r, domain.EventLoginFailed, "", "invalid_google_token")
			writeError(w, http.StatusUnauthorized, "Authentication failed")
			return
		}
		internalError(w, r, h.logger, err)
		return
	}

	h.record(r, domain.EventLogin, user.Username, "success")
	h.setAccessTokenCookie(w, tokens.AccessToken)
	h.setRefreshTokenCookie(w, tokens.RefreshToken)

	http.Redirect(w, r, h.redirectURL, http.StatusSeeOther)
}

// Refresh godoc
// @Summary      Refreshes the authenticated user's access token
// @Description  Creates a new access token cookie based on the refresh token. This cookie is used as authentication for `/api` calls.
// @Tags         auth
// @Success      200
// @Failure      401
// @Router       /auth/refresh [post]
func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	cookie, err := r.Cookie(refreshTokenCookie)
	if err != nil {
		writeError(w, http.StatusUnauthorized, "Missing refresh token")
		return
	}

	tokens, err := h.authService.RefreshAccessToken(r.Context(), cookie.Value)
	if err != nil {
		h.expireCookies(w)
		if errors.Is(err, domain.ErrUnauthorized) || errors.Is(err, domain.ErrUserNotFound) {
			writeError(w, http.StatusUnauthorized, "Refresh failed")
			return
		}
		internalError(w, r, h.logger, err)
		return
	}

	h.setAccessTokenCookie(w, tokens.AccessToken)

	// If refresh token was rotated, update it too
	if tokens.RefreshToken != "" && tokens.RefreshToken != cookie.Value {
		h.setRefreshTokenCookie(w, tokens.RefreshToken)
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Logout godoc
// @Summary      Logs the authenticated user out
// @Description  Revokes the refresh token and clears both cookies
// @Tags         auth
// @Success      200
// @Router       /auth/logout [post]
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	cookie, err := r.Cookie(refreshTokenCookie)
	if err == nil && cookie.Value != "" {
		if err := h.authService.Logout(r.Context(), cookie.Value); err != nil {
			h.logger.Warnw("failed to revoke refresh token", "error", err)
		}
	}

	actor := ""
	if token := accessToken(r); token != "" {
		if identity, err := h.authService.Authenticate(r.Context(), token); err == nil {
			actor = identity.Username
		}
	}
	h.record(r, domain.EventLogout, actor, "success")

	h.expireCookies(w)
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *AuthHandler) record(r *http.Request, kind domain.EventKind, actor, outcome string) {
	h.events.Record(r.Context(), domain.Event{
		Kind:       kind,
		Actor:      actor,
		RemoteAddr: remoteIP(r),
		Time:       h.now().UTC(),
		Outcome:    outcome,
	})
}

func (h *AuthHandler) setAccessTokenCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     accessTokenCookie,
		Value:    token,
		Path:     "/",
		Domain:   h.cookies.Domain,
		HttpOnly: true,
		Secure:   h.cookies.Secure,
		SameSite: h.cookies.SameSite,
		MaxAge:   int(h.cookies.AccessTTL.Seconds()),
	})
}

func (h *AuthHandler) setRefreshTokenCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     refreshTokenCookie,
		Value:    token,
		Path:     "/",
		Domain:   h.cookies.Domain,
		HttpOnly: true,
		Secure:   h.cookies.Secure,
		SameSite: h.cookies.SameSite,
		MaxAge:   int(h.cookies.RefreshTTL.Seconds()),
	})
}

func (h *AuthHandler) expireCookies(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{Name: accessTokenCookie, MaxAge: -1, Path: "/", Domain: h.cookies.Domain})
	http.SetCookie(w, &http.Cookie{Name: refreshTokenCookie, MaxAge: -1, Path: "/", Domain: h.cookies.Domain})
}
