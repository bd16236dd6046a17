// Package store is the key-value persistence port. Values are opaque JSON
// payloads; every backend stores them byte for byte.
package store

import (
	"context"
	"errors"
)

var (
	// ErrKeyNotFound is returned by Get when nothing is stored under a key.
	ErrKeyNotFound = errors.New("key not found")
)

// Keys shared with the browser client's stored data.
const (
	KeyUsers             = "badminton_users"
	KeyPosts             = "badminton_posts"
	KeyCurrentUserPrefix = "badminton_currentUser"
	sessionKeySeparator  = ":"
)

// SessionKey is the key holding the signed-in session of one user.
func SessionKey(userID string) string {
	return KeyCurrentUserPrefix + sessionKeySeparator + userID
}

// KVStore is implemented by every persistence backend.
type KVStore interface {
	// Get returns the stored value or ErrKeyNotFound.
	Get(ctx context.Context, key string) ([]byte, error)
	// Set stores value under key, replacing any previous value.
	Set(ctx context.Context, key string, value []byte) error
	// Remove deletes key. Removing a missing key is not an error.
	Remove(ctx context.Context, key string) error
	// Close releases the backend's resources.
	Close() error
}
