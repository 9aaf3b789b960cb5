package credentials

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zalando/go-keyring"

	"github.com/teemow/meeting-mcp/internal/session"
)

func TestKeyring_SaveLoadDelete(t *testing.T) {
	keyring.MockInit()
	var k Keyring

	key, err := k.Load()
	require.NoError(t, err)
	assert.Empty(t, key)

	require.NoError(t, k.Save("  secret  "))
	key, err = k.Load()
	require.NoError(t, err)
	assert.Equal(t, "secret", key)

	require.NoError(t, k.Delete())
	require.NoError(t, k.Delete())
	key, err = k.Load()
	require.NoError(t, err)
	assert.Empty(t, key)

	assert.Error(t, k.Save(""))
	assert.NotEmpty(t, k.Description())
}

func TestKeyring_Unavailable(t *testing.T) {
	keyring.MockInitWithError(errors.New("no dbus"))
	t.Cleanup(keyring.MockInit)
	var k Keyring

	_, err := k.Load()
	assert.ErrorIs(t, err, ErrKeyringUnavailable)
	assert.ErrorIs(t, k.Save("x"), ErrKeyringUnavailable)
}

type fakeStore struct {
	key string
	err error
}

func (f fakeStore) Load() (string, error) { return f.key, f.err }

func TestResolver_Chain(t *testing.T) {
	withSession := session.NewContext(context.Background(), session.State{APIKey: "session-key"})

	tests := []struct {
		name      string
		ctx       context.Context
		env       string
		store     KeyStore
		configKey string
		wantKey   string
		wantSrc   Source
	}{
		{"session wins", withSession, "env-key", fakeStore{key: "kr"}, "cfg", "session-key", SourceSession},
		{"env before keyring", context.Background(), "env-key", fakeStore{key: "kr"}, "cfg", "env-key", SourceEnv},
		{"keyring before config", context.Background(), "", fakeStore{key: "kr"}, "cfg", "kr", SourceKeyring},
		{"keyring error falls through", context.Background(), "", fakeStore{err: ErrKeyringUnavailable}, "cfg", "cfg", SourceConfig},
		{"no keyring", context.Background(), "", nil, "cfg", "cfg", SourceConfig},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(EnvAPIKey, tt.env)
			r := NewResolver(tt.store, tt.configKey, nil)

			key, src, err := r.Resolve(tt.ctx)
			require.NoError(t, err)
			assert.Equal(t, tt.wantKey, key)
			assert.Equal(t, tt.wantSrc, src)
		})
	}
}

func TestResolver_NoCredentials(t *testing.T) {
	t.Setenv(EnvAPIKey, "")
	r := NewResolver(fakeStore{key: "   "}, "", nil)

	_, err := r.APIKey(context.Background())
	assert.ErrorIs(t, err, ErrNoCredentials)
}
