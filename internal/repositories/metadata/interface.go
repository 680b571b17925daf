package metadata

import (
	"context"
	"time"
)

// Keys used by the sync subsystem.
const (
	// KeyLastSyncTime throttles the sync engine: runs closer together
	// than the cooldown are skipped.
	KeyLastSyncTime = "lastSyncTime"

	// KeyLastFullRefresh records when the cache was last rebuilt from
	// the remote store; the loader refreshes only when this is stale.
	KeyLastFullRefresh = "lastFullRefresh"
)

// Repository is a small key/value table for sync bookkeeping.
type Repository interface {
	// Get returns the value for key, or nil when the key is absent.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set inserts or overwrites the value for key.
	Set(ctx context.Context, key string, value []byte) error

	// Delete removes a key; removing an absent key is not an error.
	Delete(ctx context.Context, key string) error

	// Clear removes every key.
	Clear(ctx context.Context) error

	// GetTime and SetTime read/write a key holding an RFC3339 timestamp.
	// GetTime returns the zero time when the key is absent.
	GetTime(ctx context.Context, key string) (time.Time, error)
	SetTime(ctx context.Context, key string, t time.Time) error
}
