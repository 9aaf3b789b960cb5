// Package recent remembers which recording bots were used lately.
//
// The store is a convenience for clients that want to come back to a meeting
// without keeping its bot id around. Nothing depends on it being available:
// the Tracker logs and counts failures and otherwise ignores them.
package recent

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// ErrNotFound is returned by Get for unknown bots.
var ErrNotFound = errors.New("bot not tracked")

// Order selects how List sorts records.
type Order string

const (
	// OrderRecent sorts by last access, newest first.
	OrderRecent Order = "recent"
	// OrderAccessed sorts by access count, then by last access.
	OrderAccessed Order = "accessed"
)

// ParseOrder validates an order name. Empty selects OrderRecent.
func ParseOrder(s string) (Order, error) {
	switch Order(s) {
	case "", OrderRecent:
		return OrderRecent, nil
	case OrderAccessed:
		return OrderAccessed, nil
	default:
		return "", fmt.Errorf("invalid order %q, must be one of: recent, accessed", s)
	}
}

// Backend names.
const (
	BackendSQLite = "sqlite"
	BackendRedis  = "redis"
	BackendNone   = "none"
)

// Record is what the store keeps per bot.
type Record struct {
	BotID      string    `json:"bot_id"`
	BotName    string    `json:"bot_name,omitempty"`
	MeetingURL string    `json:"meeting_url,omitempty"`
	CreatedAt  time.Time `json:"created_at,omitzero"`
	FirstSeen  time.Time `json:"first_seen"`
	// LastAccessed is set to the current time by Upsert when zero.
	LastAccessed time.Time `json:"last_accessed"`
	AccessCount  int       `json:"access_count"`
}

// Store persists records. Implementations must be safe for concurrent use.
type Store interface {
	// Upsert inserts the record or refreshes it, incrementing the access
	// count. Empty fields do not overwrite stored values.
	Upsert(ctx context.Context, rec Record) error
	Get(ctx context.Context, botID string) (Record, error)
	List(ctx context.Context, order Order, limit int) ([]Record, error)
	Delete(ctx context.Context, botID string) error
	Close() error
}

func stamp(rec Record) Record {
	if rec.LastAccessed.IsZero() {
		rec.LastAccessed = time.Now()
	}
	if rec.FirstSeen.IsZero() {
		rec.FirstSeen = rec.LastAccessed
	}
	return rec
}

// Options selects and configures a backend.
type Options struct {
	Type      string
	Path      string
	RedisURL  string
	KeyPrefix string
}

// Open returns the store selected by opts.
func Open(ctx context.Context, opts Options) (Store, error) {
	switch opts.Type {
	case "", BackendSQLite:
		return OpenSQLite(ctx, opts.Path)
	case BackendRedis:
		return OpenRedis(ctx, opts.RedisURL, opts.KeyPrefix)
	case BackendNone:
		return NopStore{}, nil
	default:
		return nil, fmt.Errorf("unknown recent store type %q", opts.Type)
	}
}

// NopStore keeps nothing.
type NopStore struct{}

func (NopStore) Upsert(context.Context, Record) error { return nil }

func (NopStore) Get(context.Context, string) (Record, error) { return Record{}, ErrNotFound }

func (NopStore) List(context.Context, Order, int) ([]Record, error) { return nil, nil }

func (NopStore) Delete(context.Context, string) error { return nil }

func (NopStore) Close() error { return nil }
