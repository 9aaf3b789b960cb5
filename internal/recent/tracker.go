package recent

import (
	"context"
	"time"

	"github.com/teemow/meeting-mcp/internal/instrumentation"
	"github.com/teemow/meeting-mcp/internal/logging"
	"github.com/teemow/meeting-mcp/internal/session"
)

// Tracker records bot usage without ever failing the caller.
type Tracker struct {
	store   Store
	backend string
	metrics *instrumentation.Metrics
	logger  logging.Logger
	now     func() time.Time
}

// NewTracker wraps store. backend labels failure metrics. A nil logger
// discards output.
func NewTracker(store Store, backend string, metrics *instrumentation.Metrics, logger logging.Logger) *Tracker {
	if store == nil {
		store = NopStore{}
		backend = BackendNone
	}
	if logger == nil {
		logger = logging.Discard{}
	}
	return &Tracker{
		store:   store,
		backend: backend,
		metrics: metrics,
		logger:  logger,
		now:     time.Now,
	}
}

// Track stores rec and returns st with the bot moved to the front of its
// recent list. Store failures are logged and counted, never returned.
func (t *Tracker) Track(ctx context.Context, st session.State, rec Record) session.State {
	next := st.WithRecentBot(rec.BotID)
	if t == nil || rec.BotID == "" {
		return next
	}
	if rec.LastAccessed.IsZero() {
		rec.LastAccessed = t.now()
	}
	if err := t.store.Upsert(ctx, rec); err != nil {
		t.fail(ctx, "upsert", rec.BotID, err)
	}
	return next
}

// Forget drops a bot from the store, best effort.
func (t *Tracker) Forget(ctx context.Context, botID string) {
	if t == nil {
		return
	}
	if err := t.store.Delete(ctx, botID); err != nil {
		t.fail(ctx, "delete", botID, err)
	}
}

// Recent lists tracked bots. Unlike Track it returns store errors, because
// the listing is the whole answer of the calling tool.
func (t *Tracker) Recent(ctx context.Context, order Order, limit int) ([]Record, error) {
	if t == nil {
		return nil, nil
	}
	return t.store.List(ctx, order, limit)
}

// Backend names the store in use.
func (t *Tracker) Backend() string {
	if t == nil {
		return BackendNone
	}
	return t.backend
}

// Close closes the underlying store.
func (t *Tracker) Close() error {
	if t == nil {
		return nil
	}
	return t.store.Close()
}

func (t *Tracker) fail(ctx context.Context, op, botID string, err error) {
	t.metrics.RecordTrackingFailure(ctx, t.backend, op)
	t.logger.Warn("recent bot tracking failed",
		logging.Operation(op), logging.Backend(t.backend), logging.BotID(botID), logging.Err(err))
}
