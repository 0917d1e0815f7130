// Package observability records audit events as structured log lines and
// Prometheus counters.
package observability

import (
	"context"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/vncsmyrnk/kupolls/internal/core/domain"
	"github.com/vncsmyrnk/kupolls/internal/core/ports"
)

const namespace = "kupolls"

type Recorder struct {
	logger *zap.SugaredLogger
	events *prometheus.CounterVec
}

// NewRecorder builds a recorder and registers its metrics with reg.
func NewRecorder(logger *zap.SugaredLogger, reg prometheus.Registerer) *Recorder {
	events := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "events_total",
		Help:      "Audit events by kind and outcome.",
	}, []string{"kind", "outcome"})
	reg.MustRegister(events)

	return &Recorder{
		logger: logger.Named("audit"),
		events: events,
	}
}

var _ ports.EventRecorder = (*Recorder)(nil)

func (r *Recorder) Record(ctx context.Context, event domain.Event) {
	r.events.WithLabelValues(string(event.Kind), event.Outcome).Inc()

	fields := []interface{}{
		"kind", string(event.Kind),
		"actor", event.Actor,
		"remote_addr", event.RemoteAddr,
		"time", event.Time,
		"outcome", event.Outcome,
	}
	if event.QuestionID != uuid.Nil {
		fields = append(fields, "question_id", event.QuestionID.String())
	}

	switch event.Kind {
	case domain.EventLoginFailed:
		r.logger.Warnw("audit event", fields...)
	default:
		r.logger.Infow("audit event", fields...)
	}
}
