// Package remote defines the cloud-side farmer collection contract and its
// MongoDB implementation. The remote store is a collaborator: it assigns
// write timestamps and is keyed by the farmer id, never minting its own.
package remote

import (
	"context"

	"farmcrm/internal/models"
)

// Page is one slice of a cursor-paged read. NextCursor is an opaque
// continuation token; empty means no more pages.
type Page struct {
	Farmers    []*models.Farmer
	NextCursor string
}

// Store is the remote farmer collection.
//
// All write operations key documents by Farmer.Id, so repeating a write is
// an overwrite, never a duplicate. CreatedAt/UpdatedAt are assigned by the
// store at write time; values present on the passed record are ignored.
type Store interface {
	// GetAll returns the whole collection ordered by updatedAt descending.
	GetAll(ctx context.Context) ([]*models.Farmer, error)

	// GetPage returns up to pageSize farmers ordered by createdAt
	// descending, starting after cursor ("" for the first page).
	GetPage(ctx context.Context, cursor string, pageSize int) (*Page, error)

	// CreateWithID upserts a single document under f.Id.
	CreateWithID(ctx context.Context, f *models.Farmer) error

	// Update overwrites the fields of an existing document and bumps
	// updatedAt only. Returns common.ErrNotFound when no document
	// exists under f.Id.
	Update(ctx context.Context, f *models.Farmer) error

	// Delete removes a document. Deleting an absent id is not an error.
	Delete(ctx context.Context, id string) error

	// BatchWrite upserts many documents in one batched call, atomic
	// per item with the same timestamp semantics as CreateWithID.
	BatchWrite(ctx context.Context, fs []*models.Farmer) error
}
