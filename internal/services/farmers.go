// Package services implements the user-facing write path: mutations apply
// to the local cache immediately and mirror to the remote store
// opportunistically, leaving the sync engine to pick up whatever the
// mirror attempt could not deliver.
package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"farmcrm/internal/common"
	"farmcrm/internal/logging"
	"farmcrm/internal/models"
	"farmcrm/internal/remote"
	"farmcrm/internal/repositories/farmers"
	"farmcrm/internal/repositories/metadata"
)

// WriteResult reports a create/update. The local write succeeded whenever
// err is nil; Mirrored tells whether the record also reached the remote
// store immediately, or was saved locally to sync later.
type WriteResult struct {
	Farmer   *models.Farmer
	Mirrored bool
}

// DeleteStatus classifies the outcome of a delete.
type DeleteStatus int

const (
	// DeletedEverywhere: removed locally and remotely.
	DeletedEverywhere DeleteStatus = iota

	// DeletedLocalOnly: removed locally; no remote counterpart existed,
	// so no remote call was made.
	DeletedLocalOnly

	// DeletedRemotePending: removed locally, but the remote delete
	// failed. The remote copy is orphaned until deleted out of band.
	DeletedRemotePending
)

func (s DeleteStatus) String() string {
	switch s {
	case DeletedEverywhere:
		return "deleted everywhere"
	case DeletedLocalOnly:
		return "deleted locally (no remote copy)"
	case DeletedRemotePending:
		return "deleted locally, remote delete failed"
	default:
		return "unknown"
	}
}

// FarmerService is the write path plus read-through access to the cache.
type FarmerService struct {
	farmers   farmers.Repository
	meta      metadata.Repository
	remote    remote.Store
	chunkSize int
	log       logging.Logger
}

func NewFarmerService(fr farmers.Repository, mr metadata.Repository, rs remote.Store, chunkSize int, log logging.Logger) *FarmerService {
	if chunkSize <= 0 {
		chunkSize = 100
	}
	return &FarmerService{farmers: fr, meta: mr, remote: rs, chunkSize: chunkSize, log: log}
}

// Create validates f, mints an id, writes it to the local cache dirty, and
// attempts an immediate remote mirror. The local write is authoritative:
// a failed mirror is not an error, the record just stays dirty.
func (s *FarmerService) Create(ctx context.Context, f *models.Farmer) (*WriteResult, error) {
	if err := f.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrValidation, err)
	}

	now := time.Now().UTC()
	f.Id = uuid.NewString()
	f.CreatedAt = models.Provisional(now)
	f.UpdatedAt = models.Provisional(now)
	f.Synced = false

	if err := s.farmers.Upsert(ctx, f); err != nil {
		return nil, fmt.Errorf("failed to save farmer locally: %w", err)
	}

	return s.mirror(ctx, f, func() error { return s.remote.CreateWithID(ctx, f) }), nil
}

// Update applies changes locally (marking the record dirty) and attempts
// an immediate remote update. The id must exist locally.
func (s *FarmerService) Update(ctx context.Context, id string, f *models.Farmer) (*WriteResult, error) {
	if err := f.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrValidation, err)
	}

	existing, err := s.farmers.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	f.Id = id
	f.CreatedAt = existing.CreatedAt
	f.UpdatedAt = models.Provisional(time.Now().UTC())
	f.Synced = false

	if err := s.farmers.Upsert(ctx, f); err != nil {
		return nil, fmt.Errorf("failed to save farmer locally: %w", err)
	}

	return s.mirror(ctx, f, func() error { return s.remote.Update(ctx, f) }), nil
}

// mirror attempts the immediate remote push and flips the synced flag on
// success. Mirror failures are deferred to the sync engine, not surfaced.
func (s *FarmerService) mirror(ctx context.Context, f *models.Farmer, push func() error) *WriteResult {
	if err := push(); err != nil {
		s.log.Warn(ctx, "remote mirror failed, record saved locally",
			"id", f.Id, "error", err)
		return &WriteResult{Farmer: f}
	}

	if err := s.farmers.MarkSynced(ctx, []string{f.Id}); err != nil {
		// the push was acknowledged; worst case the engine re-pushes,
		// which overwrites the same document
		s.log.Warn(ctx, "failed to flip synced flag after mirror",
			"id", f.Id, "error", err)
		return &WriteResult{Farmer: f}
	}

	f.Synced = true
	return &WriteResult{Farmer: f, Mirrored: true}
}

// Delete removes the record locally no matter what, then attempts a remote
// delete only when the record was known to have a remote counterpart.
// The returned status distinguishes full, local-only and partial deletes.
func (s *FarmerService) Delete(ctx context.Context, id string) (DeleteStatus, error) {
	f, err := s.farmers.GetByID(ctx, id)
	if err != nil {
		return 0, err
	}

	if err := s.farmers.DeleteByID(ctx, id); err != nil {
		return 0, fmt.Errorf("failed to delete farmer locally: %w", err)
	}

	if !f.Synced {
		// never pushed: nothing to remove remotely
		return DeletedLocalOnly, nil
	}

	if err := s.remote.Delete(ctx, id); err != nil {
		s.log.Warn(ctx, "remote delete failed after local delete",
			"id", id, "error", err)
		return DeletedRemotePending, nil
	}
	return DeletedEverywhere, nil
}

// Get reads a farmer from the local cache.
func (s *FarmerService) Get(ctx context.Context, id string) (*models.Farmer, error) {
	return s.farmers.GetByID(ctx, id)
}

// List reads one page from the local cache, newest first.
func (s *FarmerService) List(ctx context.Context, offset, limit int) ([]*models.Farmer, error) {
	return s.farmers.GetPage(ctx, offset, limit)
}

// Reset clears the local cache and the sync bookkeeping entirely.
// Remote data is untouched; the next refresh rebuilds the cache.
func (s *FarmerService) Reset(ctx context.Context) error {
	if err := s.farmers.Clear(ctx); err != nil {
		return err
	}
	return s.meta.Clear(ctx)
}
