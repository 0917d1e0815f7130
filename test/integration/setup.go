package integration

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.uber.org/zap"

	handler "github.com/vncsmyrnk/kupolls/internal/adapters/handler/http"
	"github.com/vncsmyrnk/kupolls/internal/adapters/observability"
	repo "github.com/vncsmyrnk/kupolls/internal/adapters/repository/postgres"
	"github.com/vncsmyrnk/kupolls/internal/core/domain"
	"github.com/vncsmyrnk/kupolls/internal/core/ports"
	"github.com/vncsmyrnk/kupolls/internal/core/services"
)

const (
	testJWTSecret = "test-secret"
	adminUsername = "admin"
	testPassword  = "correct-horse"
)

type TestApp struct {
	DB          *sql.DB
	Server      *httptest.Server
	Client      *http.Client
	TallySvc    ports.TallyService
	AuthSvc     *services.AuthService
	DBContainer testcontainers.Container
}

func (app *TestApp) Teardown(t *testing.T) {
	t.Helper()
	app.Server.Close()
	_ = app.DB.Close()
	if err := app.DBContainer.Terminate(context.Background()); err != nil {
		t.Logf("failed to terminate container: %v", err)
	}
}

// MockVerifier accepts the literal token "valid_token".
type MockVerifier struct {
	email string
}

func (v *MockVerifier) Verify(ctx context.Context, token string, clientID string) (*ports.TokenPayload, error) {
	if token == "valid_token" {
		return &ports.TokenPayload{Email: v.email}, nil
	}
	return nil, fmt.Errorf("invalid token")
}

func setupPostgresContainer(ctx context.Context) (testcontainers.Container, string, error) {
	pgContainer, err := tcpostgres.Run(ctx, "postgres:15-alpine",
		tcpostgres.WithDatabase("testdb"),
		tcpostgres.WithUsername("user"),
		tcpostgres.WithPassword("password"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	if err != nil {
		return nil, "", fmt.Errorf("failed to start postgres container: %w", err)
	}

	connStr, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		return nil, "", err
	}

	return pgContainer, connStr, nil
}

func setupTestApp(t *testing.T) *TestApp {
	t.Helper()
	ctx := context.Background()

	dbContainer, dbURL, err := setupPostgresContainer(ctx)
	require.NoError(t, err)

	db, err := sql.Open("postgres", dbURL)
	require.NoError(t, err)

	_, err = repo.Migrate(ctx, db, repo.DirectionUp)
	require.NoError(t, err)

	questionRepo := repo.NewQuestionRepository(db)
	voteRepo := repo.NewVoteRepository(db)
	tallyRepo := repo.NewTallyRepository(db)
	userRepo := repo.NewUserRepository(db)
	authRepo := repo.NewAuthRepository(db)

	questionSvc := services.NewQuestionService(questionRepo, tallyRepo, time.Now)
	voteSvc := services.NewVoteService(questionRepo, voteRepo, time.Now)
	tallySvc := services.NewTallyService(questionRepo, tallyRepo)
	userSvc := services.NewUserService(userRepo)
	authSvc := services.NewAuthService(userRepo, authRepo, &MockVerifier{email: "test@example.com"}, services.AuthConfig{
		JWTSecret:      []byte(testJWTSecret),
		AdminUsernames: []string{adminUsername},
	}, time.Now)

	logger := zap.NewNop().Sugar()
	registry := prometheus.NewRegistry()
	recorder := observability.NewRecorder(logger, registry)

	router := handler.NewHandler(handler.Handlers{
		Question: handler.NewQuestionHandler(questionSvc, logger),
		Vote:     handler.NewVoteHandler(voteSvc, questionSvc, recorder, time.Now, logger),
		Auth: handler.NewAuthHandler(authSvc, recorder, time.Now, logger, "https://example.com/redirect", handler.CookieConfig{
			SameSite:   http.SameSiteLaxMode,
			AccessTTL:  15 * time.Minute,
			RefreshTTL: time.Hour,
		}),
		User:  handler.NewUserHandler(userSvc, logger),
		Admin: handler.NewAdminHandler(questionSvc, tallySvc, logger),
	}, handler.RouterConfig{
		Authenticator:  handler.NewAuthenticator(authSvc),
		Logger:         logger,
		Metrics:        observability.NewHTTPMetrics(registry),
		Gatherer:       registry,
		Health:         db.PingContext,
		AllowedOrigins: []string{"*"},
	})

	server := httptest.NewServer(router)
	client := server.Client()
	client.CheckRedirect = func(req *http.Request, via []*http.Request) error {
		return http.ErrUseLastResponse
	}

	return &TestApp{
		DB:          db,
		Server:      server,
		Client:      client,
		TallySvc:    tallySvc,
		AuthSvc:     authSvc,
		DBContainer: dbContainer,
	}
}

// loginAs registers username when needed and returns its access token.
func (app *TestApp) loginAs(t *testing.T, username string) string {
	t.Helper()
	ctx := context.Background()

	_, err := app.AuthSvc.Register(ctx, ports.RegisterInput{Username: username, Password: testPassword})
	if err != nil {
		require.ErrorIs(t, err, domain.ErrUsernameTaken)
	}

	_, tokens, err := app.AuthSvc.Login(ctx, username, testPassword)
	require.NoError(t, err)
	return tokens.AccessToken
}

func (app *TestApp) do(t *testing.T, method, path, token string, payload any) *http.Response {
	t.Helper()

	var body bytes.Buffer
	if payload != nil {
		require.NoError(t, json.NewEncoder(&body).Encode(payload))
	}

	req, err := http.NewRequest(method, app.Server.URL+path, &body)
	require.NoError(t, err)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.AddCookie(&http.Cookie{Name: "access_token", Value: token})
	}

	resp, err := app.Client.Do(req)
	require.NoError(t, err)
	return resp
}

// createQuestion goes through the admin API.
func (app *TestApp) createQuestion(t *testing.T, text string, pubDate, endDate time.Time, choices ...string) domain.Question {
	t.Helper()

	adminToken := app.loginAs(t, adminUsername)
	resp := app.do(t, http.MethodPost, "/api/admin/questions", adminToken, map[string]any{
		"text":     text,
		"pub_date": pubDate,
		"end_date": endDate,
		"choices":  choices,
	})
	defer resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var question domain.Question
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&question))
	return question
}

func voteRowCount(t *testing.T, db *sql.DB, questionID uuid.UUID) int {
	t.Helper()
	var n int
	require.NoError(t, db.QueryRow("SELECT COUNT(*) FROM votes WHERE question_id = $1", questionID).Scan(&n))
	return n
}
