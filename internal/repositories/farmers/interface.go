package farmers

import (
	"context"

	"farmcrm/internal/models"
)

// Repository describes the local farmer cache. Implementations are backed
// by an embedded SQLite database; the local copy is authoritative for
// anything not yet pushed to the remote store.
type Repository interface {
	// GetByID returns a farmer by id, or common.ErrNotFound.
	GetByID(ctx context.Context, id string) (*models.Farmer, error)

	// Upsert inserts a new farmer or overwrites an existing one by id.
	Upsert(ctx context.Context, f *models.Farmer) error

	// BulkUpsert inserts/overwrites many farmers in one transaction.
	// Used for cache fills and bulk imports.
	BulkUpsert(ctx context.Context, fs []*models.Farmer) error

	// DeleteByID removes a farmer row. Deleting an absent id returns
	// common.ErrNotFound.
	DeleteByID(ctx context.Context, id string) error

	// GetAll returns every cached farmer; order is unspecified.
	GetAll(ctx context.Context) ([]*models.Farmer, error)

	// GetPage returns farmers ordered by created_at descending (id
	// descending as tiebreak), for offset/limit paging.
	GetPage(ctx context.Context, offset, limit int) ([]*models.Farmer, error)

	// CountUnsynced returns how many rows carry local changes not yet
	// acknowledged by the remote store.
	CountUnsynced(ctx context.Context) (int, error)

	// GetUnsynced returns up to limit dirty rows in a deterministic
	// order (created_at, id ascending) so sync runs are reproducible.
	GetUnsynced(ctx context.Context, limit int) ([]*models.Farmer, error)

	// MarkSynced flips the synced flag to true for the given ids,
	// atomically for the whole set.
	MarkSynced(ctx context.Context, ids []string) error

	// Count returns the total number of cached rows.
	Count(ctx context.Context) (int, error)

	// ReplaceAll clears the table and bulk-inserts fs in a single
	// transaction, so concurrent readers never observe a half-filled
	// cache.
	ReplaceAll(ctx context.Context, fs []*models.Farmer) error

	// Clear removes every row.
	Clear(ctx context.Context) error
}
