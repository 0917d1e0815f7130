package observability

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/vncsmyrnk/kupolls/internal/core/domain"
)

func TestRecorder_Record(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	reg := prometheus.NewRegistry()
	rec := NewRecorder(zap.New(core).Sugar(), reg)

	questionID := uuid.New()
	at := time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)

	rec.Record(context.Background(), domain.Event{
		Kind:       domain.EventVoteCast,
		Actor:      "alice",
		RemoteAddr: "10.0.0.1",
		Time:       at,
		Outcome:    "created",
		QuestionID: questionID,
	})
	rec.Record(context.Background(), domain.Event{
		Kind:       domain.EventLoginFailed,
		Actor:      "mallory",
		RemoteAddr: "10.0.0.2",
		Time:       at,
		Outcome:    "invalid_credentials",
	})

	entries := logs.All()
	require.Len(t, entries, 2)

	vote := entries[0]
	assert.Equal(t, "audit", vote.LoggerName)
	assert.Equal(t, zapcore.InfoLevel, vote.Level)
	fields := vote.ContextMap()
	assert.Equal(t, "vote_cast", fields["kind"])
	assert.Equal(t, "alice", fields["actor"])
	assert.Equal(t, "10.0.0.1", fields["remote_addr"])
	assert.Equal(t, "created", fields["outcome"])
	assert.Equal(t, questionID.String(), fields["question_id"])

	failed := entries[1]
	assert.Equal(t, zapcore.WarnLevel, failed.Level)
	assert.NotContains(t, failed.ContextMap(), "question_id")

	assert.Equal(t, 1.0, testutil.ToFloat64(rec.events.WithLabelValues("vote_cast", "created")))
	assert.Equal(t, 1.0, testutil.ToFloat64(rec.events.WithLabelValues("login_failed", "invalid_credentials")))
}

func TestHTTPMetrics_Middleware(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewHTTPMetrics(reg)

	r := chi.NewRouter()
	r.Use(m.Middleware)
	r.Get("/api/questions/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})
	r.Get("/ok", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("ok"))
	})

	for _, target := range []string{"/api/questions/1", "/api/questions/2", "/ok"} {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, target, nil))
	}

	assert.Equal(t, 2, testutil.CollectAndCount(m.duration))

	families, err := reg.Gather()
	require.NoError(t, err)
	require.Len(t, families, 1)

	byRoute := map[string]uint64{}
	for _, metric := range families[0].GetMetric() {
		labels := map[string]string{}
		for _, l := range metric.GetLabel() {
			labels[l.GetName()] = l.GetValue()
		}
		byRoute[labels["route"]+" "+labels["status"]] = metric.GetHistogram().GetSampleCount()
	}
	assert.Equal(t, map[string]uint64{
		"/api/questions/{id} 404": 2,
		"/ok 200":                 1,
	}, byRoute)
}
