package credential

import (
	"errors"
	"fmt"
	"os"

	"github.com/99designs/keyring"
)

const (
	serviceName = "campuscalm"

	// SessionCookieKey is the keyring entry holding the backend session cookie.
	SessionCookieKey = "session_cookie"

	// SessionCookieEnv overrides the keyring when set.
	SessionCookieEnv = "CAMPUSCALM_SESSION_COOKIE"
)

// ErrNotFound is returned when no credential is stored under a key.
var ErrNotFound = errors.New("credential not found")

// openKeyring returns a configured keyring instance.
func openKeyring() (keyring.Keyring, error) {
	ring, err := keyring.Open(keyring.Config{
		ServiceName: serviceName,
		AllowedBackends: []keyring.BackendType{
			keyring.KeychainBackend,
			keyring.SecretServiceBackend,
			keyring.WinCredBackend,
			keyring.PassBackend,
			keyring.FileBackend,
		},
		FileDir:                  "~/.config/campuscalm/credentials",
		FilePasswordFunc:         keyring.FixedStringPrompt("campuscalm-file-key"),
		KeychainTrustApplication: true,
	})
	if err != nil {
		return nil, fmt.Errorf("opening keyring: %w", err)
	}
	return ring, nil
}

// Get retrieves a credential value by key from the system keyring.
func Get(key string) (string, error) {
	ring, err := openKeyring()
	if err != nil {
		return "", err
	}

	item, err := ring.Get(key)
	if errors.Is(err, keyring.ErrKeyNotFound) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("getting credential %q: %w", key, err)
	}

	return string(item.Data), nil
}

// Set stores a credential value by key in the system keyring.
func Set(key string, value string) error {
	ring, err := openKeyring()
	if err != nil {
		return err
	}

	if err := ring.Set(keyring.Item{
		Key:   key,
		Data:  []byte(value),
		Label: "CampusCalm " + key,
	}); err != nil {
		return fmt.Errorf("setting credential %q: %w", key, err)
	}

	return nil
}

// Delete removes a credential by key. Deleting a missing key is not an error.
func Delete(key string) error {
	ring, err := openKeyring()
	if err != nil {
		return err
	}

	if err := ring.Remove(key); err != nil && !errors.Is(err, keyring.ErrKeyNotFound) {
		return fmt.Errorf("deleting credential %q: %w", key, err)
	}

	return nil
}

// SessionCookie returns the stored backend session cookie. The environment
// variable wins over the keyring; "" with a nil error means none is stored.
func SessionCookie() (string, error) {
	if v := os.Getenv(SessionCookieEnv); v != "" {
		return v, nil
	}
	v, err := Get(SessionCookieKey)
	if errors.Is(err, ErrNotFound) {
		return "", nil
	}
	return v, err
}

// SetSessionCookie stores the backend session cookie.
func SetSessionCookie(value string) error {
	return Set(SessionCookieKey, value)
}

// DeleteSessionCookie forgets the backend session cookie.
func DeleteSessionCookie() error {
	return Delete(SessionCookieKey)
}
