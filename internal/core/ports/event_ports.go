package ports

import (
	"context"

	"github.com/vncsmyrnk/kupolls/internal/core/domain"
)

// EventRecorder receives audit events. Implementations must not block callers
// on slow sinks and must never fail the request that produced the event.
type EventRecorder interface {
	Record(ctx context.Context, event domain.Event)
}
