package http

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"
	"go.uber.org/zap"

	"github.com/vncsmyrnk/kupolls/internal/adapters/observability"
)

// HealthChecker reports whether the backing store is reachable.
type HealthChecker func(ctx context.Context) error

type Handlers struct {
	Question *QuestionHandler
	Vote     *VoteHandler
	Auth     *AuthHandler
	User     *UserHandler
	Admin    *AdminHandler
}

type RouterConfig struct {
	Authenticator  *Authenticator
	Logger         *zap.SugaredLogger
	Metrics        *observability.HTTPMetrics
	Gatherer       prometheus.Gatherer
	Health         HealthChecker
	AllowedOrigins []string
}

func NewHandler(h Handlers, cfg RouterConfig) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(RequestLogger(cfg.Logger))
	r.Use(middleware.Recoverer)
	if cfg.Metrics != nil {
		r.Use(cfg.Metrics.Middleware)
	}

	c := cors.New(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	})
	r.Use(c.Handler)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		if cfg.Health != nil {
			if err := cfg.Health(r.Context()); err != nil {
				writeError(w, http.StatusServiceUnavailable, "unavailable")
				return
			}
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	if cfg.Gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(cfg.Gatherer, promhttp.HandlerOpts{}))
	}

	auth := cfg.Authenticator

	r.Post("/oauth/callback", h.Auth.GoogleCallback)
	r.Route("/auth", func(r chi.Router) {
		r.Post("/register", h.Auth.Register)
		r.Post("/login", h.Auth.Login)
		r.Post("/refresh", h.Auth.Refresh)
		r.Post("/logout", h.Auth.Logout)
	})

	r.Route("/api", func(r chi.Router) {
		r.Route("/questions", func(r chi.Router) {
			r.Get("/", h.Question.ListQuestions)
			r.Get("/{id}/results", h.Question.GetResults)

			r.Group(func(r chi.Router) {
				r.Use(auth.RequireUser)
				r.Get("/{id}", h.Question.GetQuestion)
				r.Post("/{id}/votes", h.Vote.CastVote)
				r.Delete("/{id}/votes", h.Vote.Retract)
				r.Get("/{id}/my-vote", h.Vote.GetMyVote)
			})
		})

		r.With(auth.RequireUser).Get("/me", h.User.GetMe)

		r.Route("/admin", func(r chi.Router) {
			r.Use(auth.RequireUser)
			r.Use(auth.RequireAdmin)
			r.Get("/questions", h.Admin.ListQuestions)
			r.Post("/questions", h.Admin.CreateQuestion)
			r.Delete("/questions/{id}", h.Admin.DeleteQuestion)
			r.Post("/questions/{id}/choices", h.Admin.AddChoice)
			r.Post("/tallies/recompute", h.Admin.RecomputeTallies)
		})
	})

	return r
}
