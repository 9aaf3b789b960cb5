package credentials

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"strings"

	"github.com/teemow/meeting-mcp/internal/logging"
	"github.com/teemow/meeting-mcp/internal/session"
)

// EnvAPIKey is the environment variable holding the API key.
const EnvAPIKey = "MEETING_BAAS_API_KEY"

// ErrNoCredentials is returned when no source has an API key.
var ErrNoCredentials = errors.New("no Meeting BaaS API key found: set " + EnvAPIKey +
	", run 'meeting-mcp auth set-key', or send the x-meeting-baas-api-key header")

// Source names where a key came from.
type Source string

const (
	SourceSession Source = "session"
	SourceEnv     Source = "environment"
	SourceKeyring Source = "keyring"
	SourceConfig  Source = "config"
)

// KeyStore is the keyring surface the resolver needs.
type KeyStore interface {
	Load() (string, error)
}

// Resolver walks the credential chain.
type Resolver struct {
	store     KeyStore
	configKey string
	logger    *slog.Logger
}

// NewResolver returns a resolver that falls back to configKey last. A nil
// store disables the keyring step.
func NewResolver(store KeyStore, configKey string, logger *slog.Logger) *Resolver {
	if logger == nil {
		logger = slog.Default()
	}
	return &Resolver{store: store, configKey: strings.TrimSpace(configKey), logger: logger}
}

// Resolve returns the first key found and its source.
func (r *Resolver) Resolve(ctx context.Context) (string, Source, error) {
	if key := strings.TrimSpace(session.FromContext(ctx).APIKey); key != "" {
		return key, SourceSession, nil
	}
	if key := strings.TrimSpace(os.Getenv(EnvAPIKey)); key != "" {
		return key, SourceEnv, nil
	}
	if r.store != nil {
		key, err := r.store.Load()
		switch {
		case err != nil:
			r.logger.Debug("keyring lookup failed, trying config file", logging.Err(err))
		case strings.TrimSpace(key) != "":
			return strings.TrimSpace(key), SourceKeyring, nil
		}
	}
	if r.configKey != "" {
		return r.configKey, SourceConfig, nil
	}
	return "", "", ErrNoCredentials
}

// APIKey makes Resolver usable as the API client's key provider.
func (r *Resolver) APIKey(ctx context.Context) (string, error) {
	key, _, err := r.Resolve(ctx)
	return key, err
}
