package main

import (
	"context"
	"database/sql"
	"errors"
	"log"
	stdhttp "net/http"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"

	"github.com/vncsmyrnk/kupolls/internal/adapters/handler/http"
	"github.com/vncsmyrnk/kupolls/internal/adapters/oauth/google"
	"github.com/vncsmyrnk/kupolls/internal/adapters/observability"
	"github.com/vncsmyrnk/kupolls/internal/adapters/repository/memory"
	"github.com/vncsmyrnk/kupolls/internal/adapters/repository/postgres"
	"github.com/vncsmyrnk/kupolls/internal/config"
	"github.com/vncsmyrnk/kupolls/internal/core/ports"
	"github.com/vncsmyrnk/kupolls/internal/core/services"
	"github.com/vncsmyrnk/kupolls/internal/logger"
)

type repositories struct {
	questions ports.QuestionRepository
	votes     ports.VoteRepository
	tallies   ports.TallyRepository
	users     ports.UserRepository
	auth      ports.AuthRepository
	health    http.HealthChecker
	close     func() error
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	sugar, err := logger.New(cfg.Logger, cfg.App.IsDevEnvironment())
	if err != nil {
		log.Fatal(err)
	}
	defer func() { _ = sugar.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	repos, err := openRepositories(ctx, cfg, sugar)
	if err != nil {
		sugar.Fatalw("failed to open storage", "storage", cfg.App.Storage, "error", err)
	}
	defer func() {
		if err := repos.close(); err != nil {
			sugar.Warnw("failed to close storage", "error", err)
		}
	}()

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	questionService := services.NewQuestionService(repos.questions, repos.tallies, time.Now)
	voteService := services.NewVoteService(repos.questions, repos.votes, time.Now)
	tallyService := services.NewTallyService(repos.questions, repos.tallies)
	userService := services.NewUserService(repos.users)
	authService := services.NewAuthService(repos.users, repos.auth, google.NewVerifier(), services.AuthConfig{
		JWTSecret:       []byte(cfg.Auth.JWTSecret),
		GoogleClientID:  cfg.Auth.GoogleClientID,
		AccessTokenTTL:  cfg.Auth.AccessTokenTTL,
		RefreshTokenTTL: cfg.Auth.RefreshTokenTTL,
		AdminUsernames:  cfg.Auth.AdminUsernames,
	}, time.Now)

	recorder := observability.NewRecorder(sugar, registry)

	handlers := http.Handlers{
		Question: http.NewQuestionHandler(questionService, sugar),
		Vote:     http.NewVoteHandler(voteService, questionService, recorder, time.Now, sugar),
		Auth: http.NewAuthHandler(authService, recorder, time.Now, sugar, cfg.Auth.RedirectURL, http.CookieConfig{
			Domain:     cfg.Auth.CookieDomain,
			SameSite:   cfg.Auth.SameSite(),
			Secure:     cfg.Auth.CookieSecure,
			AccessTTL:  cfg.Auth.AccessTokenTTL,
			RefreshTTL: cfg.Auth.RefreshTokenTTL,
		}),
		User:  http.NewUserHandler(userService, sugar),
		Admin: http.NewAdminHandler(questionService, tallyService, sugar),
	}

	handler := http.NewHandler(handlers, http.RouterConfig{
		Authenticator:  http.NewAuthenticator(authService),
		Logger:         sugar,
		Metrics:        observability.NewHTTPMetrics(registry),
		Gatherer:       registry,
		Health:         repos.health,
		AllowedOrigins: cfg.App.CORSAllowedOrigins,
	})

	server := &stdhttp.Server{
		Addr:              cfg.App.HTTPAddr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		sugar.Infow("http server listening", "addr", cfg.App.HTTPAddr, "storage", cfg.App.Storage)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, stdhttp.ErrServerClosed) {
			sugar.Fatalw("http server failed", "error", err)
		}
	}()

	<-ctx.Done()
	sugar.Info("Gracefully shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		sugar.Errorw("graceful shutdown failed", "error", err)
	}
}

func openRepositories(ctx context.Context, cfg config.Config, sugar *zap.SugaredLogger) (*repositories, error) {
	if cfg.App.Storage == config.StorageMemory {
		store := memory.NewStore()
		sugar.Warn("using in-memory storage; data is lost on restart")
		return &repositories{
			questions: memory.NewQuestionRepository(store),
			votes:     memory.NewVoteRepository(store),
			tallies:   memory.NewTallyRepository(store),
			users:     memory.NewUserRepository(store),
			auth:      memory.NewAuthRepository(store),
			health:    func(context.Context) error { return store.Ping() },
			close:     func() error { return nil },
		}, nil
	}

	db, err := sql.Open("postgres", cfg.DB.ConnString())
	if err != nil {
		return nil, err
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}

	applied, err := postgres.Migrate(ctx, db, postgres.DirectionUp)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	sugar.Infow("migrations applied", "files", applied)

	return &repositories{
		questions: postgres.NewQuestionRepository(db),
		votes:     postgres.NewVoteRepository(db),
		tallies:   postgres.NewTallyRepository(db),
		users:     postgres.NewUserRepository(db),
		auth:      postgres.NewAuthRepository(db),
		health:    db.PingContext,
		close:     db.Close,
	}, nil
}
