// Package syncer reconciles the local farmer cache with the remote store:
// the Engine pushes locally dirty records up, the Loader rebuilds the cache
// from remote pages.
package syncer

import (
	"context"
	"fmt"
	"sync"
	"time"

	"farmcrm/internal/common"
	"farmcrm/internal/logging"
	"farmcrm/internal/models"
	"farmcrm/internal/remote"
	"farmcrm/internal/repositories/farmers"
	"farmcrm/internal/repositories/metadata"
)

// EngineConfig bounds one sync run.
type EngineConfig struct {
	// Cooldown is the minimum wall-clock gap between runs; a run
	// triggered earlier is skipped. Protects the remote write quota.
	Cooldown time.Duration

	// MaxWrites caps how many dirty records one run collects.
	MaxWrites int

	// ChunkSize is the number of records per batched remote write.
	ChunkSize int
}

// RunResult reports what a sync run did.
type RunResult struct {
	// Skipped is true when the run ended before pushing anything
	// (cooldown active, or nothing dirty).
	Skipped    bool
	SkipReason string

	// Pushed is the number of records acknowledged by the remote store
	// and flipped to synced, counting partial progress of failed runs.
	Pushed int

	// Chunks is the number of batched writes issued.
	Chunks int
}

// Engine pushes dirty local records to the remote store in bounded,
// sequential chunks. Only one run is active at a time; overlapping
// triggers get common.ErrSyncInProgress.
type Engine struct {
	farmers farmers.Repository
	meta    metadata.Repository
	remote  remote.Store
	cfg     EngineConfig
	log     logging.Logger

	mu      sync.Mutex
	running bool
}

func NewEngine(fr farmers.Repository, mr metadata.Repository, rs remote.Store, cfg EngineConfig, log logging.Logger) *Engine {
	if cfg.ChunkSize <= 0 {
		cfg.ChunkSize = 100
	}
	if cfg.MaxWrites <= 0 {
		cfg.MaxWrites = 10000
	}
	return &Engine{farmers: fr, meta: mr, remote: rs, cfg: cfg, log: log}
}

// Run executes one sync pass: throttle check, collect dirty records,
// push them in chunks, flip flags per acknowledged chunk, and stamp
// lastSyncTime only after a fully successful run. A chunk failure aborts
// the remainder but keeps the flags already flipped, so the next run
// resumes with what is still dirty.
func (e *Engine) Run(ctx context.Context) (*RunResult, error) {
	e.mu.Lock()
	if e.running {
		e.mu.Unlock()
		return nil, common.ErrSyncInProgress
	}
	e.running = true
	e.mu.Unlock()

	defer func() {
		e.mu.Lock()
		e.running = false
		e.mu.Unlock()
	}()

	result := &RunResult{}
	start := time.Now()

	lastSync, err := e.meta.GetTime(ctx, metadata.KeyLastSyncTime)
	if err != nil {
		return nil, fmt.Errorf("failed to read last sync time: %w", err)
	}
	if !lastSync.IsZero() && time.Since(lastSync) < e.cfg.Cooldown {
		e.log.Debug(ctx, "skipping sync: cooldown active",
			"last_sync", lastSync, "cooldown", e.cfg.Cooldown)
		result.Skipped = true
		result.SkipReason = "cooldown"
		return result, nil
	}

	dirty, err := e.farmers.GetUnsynced(ctx, e.cfg.MaxWrites)
	if err != nil {
		return nil, fmt.Errorf("failed to collect unsynced farmers: %w", err)
	}
	if len(dirty) == 0 {
		e.log.Debug(ctx, "skipping sync: nothing to push")
		result.Skipped = true
		result.SkipReason = "clean"
		return result, nil
	}

	e.log.Info(ctx, "sync run started", "dirty", len(dirty), "chunk_size", e.cfg.ChunkSize)

	for begin := 0; begin < len(dirty); begin += e.cfg.ChunkSize {
		end := begin + e.cfg.ChunkSize
		if end > len(dirty) {
			end = len(dirty)
		}
		chunk := dirty[begin:end]

		if err := e.remote.BatchWrite(ctx, chunk); err != nil {
			e.log.Warn(ctx, "sync run aborted: chunk push failed",
				"chunk", result.Chunks, "pushed", result.Pushed, "error", err)
			return result, fmt.Errorf("chunk push failed: %w", err)
		}

		// flip only after the remote acknowledged this chunk
		if err := e.farmers.MarkSynced(ctx, ids(chunk)); err != nil {
			return result, fmt.Errorf("failed to mark chunk synced: %w", err)
		}

		result.Chunks++
		result.Pushed += len(chunk)
	}

	if err := e.meta.SetTime(ctx, metadata.KeyLastSyncTime, start); err != nil {
		return result, fmt.Errorf("failed to record sync time: %w", err)
	}

	e.log.Info(ctx, "sync run finished",
		"pushed", result.Pushed, "chunks", result.Chunks,
		"duration", time.Since(start))
	return result, nil
}

func ids(fs []*models.Farmer) []string {
	out := make([]string, len(fs))
	for i, f := range fs {
		out[i] = f.Id
	}
	return out
}
