// Package credentials resolves the Meeting BaaS API key.
//
// A key is looked up, in order, on the MCP session, in the
// MEETING_BAAS_API_KEY environment variable, in the system keyring and in
// the config file. The first non-empty value wins.
package credentials

import (
	"errors"
	"fmt"
	"runtime"
	"strings"

	"github.com/zalando/go-keyring"
)

const (
	// KeyringService is the service name used in the system keyring.
	KeyringService = "meeting-mcp"
	// KeyringUser is the account name used in the system keyring.
	KeyringUser = "api-key"
)

// ErrKeyringUnavailable indicates the system keyring could not be used.
var ErrKeyringUnavailable = errors.New("system keyring unavailable")

// Keyring stores the API key in the OS keyring (macOS Keychain, Windows
// Credential Manager, Secret Service on Linux).
type Keyring struct{}

// Save stores key, replacing any previous value.
func (Keyring) Save(key string) error {
	key = strings.TrimSpace(key)
	if key == "" {
		return errors.New("api key is empty")
	}
	if err := keyring.Set(KeyringService, KeyringUser, key); err != nil {
		return fmt.Errorf("%w: storing key: %v", ErrKeyringUnavailable, err)
	}
	return nil
}

// Load returns the stored key. A missing entry yields "" and no error.
func (Keyring) Load() (string, error) {
	key, err := keyring.Get(KeyringService, KeyringUser)
	if errors.Is(err, keyring.ErrNotFound) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrKeyringUnavailable, err)
	}
	return key, nil
}

// Delete removes the stored key. Deleting a missing entry is not an error.
func (Keyring) Delete() error {
	err := keyring.Delete(KeyringService, KeyringUser)
	if err != nil && !errors.Is(err, keyring.ErrNotFound) {
		return fmt.Errorf("%w: %v", ErrKeyringUnavailable, err)
	}
	return nil
}

// Description names the keyring backend of this platform.
func (Keyring) Description() string {
	switch runtime.GOOS {
	case "darwin":
		return "macOS Keychain"
	case "windows":
		return "Windows Credential Manager"
	default:
		return "System Keyring (Secret Service)"
	}
}
