package syncer

import (
	"context"
	"fmt"
	"sync"
	"time"

	"farmcrm/internal/logging"
	"farmcrm/internal/models"
	"farmcrm/internal/remote"
	"farmcrm/internal/repositories/farmers"
	"farmcrm/internal/repositories/metadata"
)

// LoaderConfig bounds cache refreshes.
type LoaderConfig struct {
	// PageSize is the remote page size used during a full refresh.
	PageSize int

	// MaxAge is how old the last full refresh may get before the local
	// cache counts as stale.
	MaxAge time.Duration
}

// NoMorePages is the continuation value returned by LoadPage when the
// local cache is exhausted.
const NoMorePages = -1

// Loader populates the local cache from the remote store and serves
// offset/limit pages out of it, newest first. Refreshes are single-flight:
// concurrent callers wait for the one in progress instead of clearing the
// table twice.
type Loader struct {
	farmers farmers.Repository
	meta    metadata.Repository
	remote  remote.Store
	cfg     LoaderConfig
	log     logging.Logger

	// refreshMu serializes the decide-to-refresh critical section; a
	// waiter that acquires it after a refresh finds a fresh stamp and
	// returns without touching the table.
	refreshMu sync.Mutex
}

func NewLoader(fr farmers.Repository, mr metadata.Repository, rs remote.Store, cfg LoaderConfig, log logging.Logger) *Loader {
	if cfg.PageSize <= 0 {
		cfg.PageSize = 100
	}
	return &Loader{farmers: fr, meta: mr, remote: rs, cfg: cfg, log: log}
}

// LoadPage serves one page from the local cache, ordered by createdAt
// descending, refreshing the cache first when it is empty or stale. A
// failed refresh over a non-empty cache degrades to serving the stale
// page; the error surfaces only when there is nothing local to serve.
// Returns the page and the next offset, or NoMorePages when the caller
// has everything.
func (l *Loader) LoadPage(ctx context.Context, offset, limit int) ([]*models.Farmer, int, error) {
	if err := l.RefreshIfStale(ctx); err != nil {
		count, countErr := l.farmers.Count(ctx)
		if countErr != nil || count == 0 {
			return nil, 0, err
		}
		l.log.Warn(ctx, "refresh failed, serving stale cache", "error", err)
	}

	page, err := l.farmers.GetPage(ctx, offset, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to read farmer page: %w", err)
	}

	next := NoMorePages
	if len(page) == limit {
		total, err := l.farmers.Count(ctx)
		if err != nil {
			return nil, 0, err
		}
		if offset+limit < total {
			next = offset + limit
		}
	}
	return page, next, nil
}

// RefreshIfStale rebuilds the cache when it is empty or the last full
// refresh is older than MaxAge. Dirty local records always win: a cache
// holding unpushed changes is never cleared, regardless of age.
func (l *Loader) RefreshIfStale(ctx context.Context) error {
	l.refreshMu.Lock()
	defer l.refreshMu.Unlock()

	stale, err := l.isStale(ctx)
	if err != nil {
		return err
	}
	if !stale {
		return nil
	}
	return l.refresh(ctx)
}

// Refresh unconditionally rebuilds the cache from the remote store,
// unless dirty records exist (then it is skipped, not an error).
func (l *Loader) Refresh(ctx context.Context) error {
	l.refreshMu.Lock()
	defer l.refreshMu.Unlock()
	return l.refresh(ctx)
}

func (l *Loader) isStale(ctx context.Context) (bool, error) {
	count, err := l.farmers.Count(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to count cached farmers: %w", err)
	}
	if count == 0 {
		return true, nil
	}

	lastRefresh, err := l.meta.GetTime(ctx, metadata.KeyLastFullRefresh)
	if err != nil {
		return false, fmt.Errorf("failed to read last refresh time: %w", err)
	}
	return lastRefresh.IsZero() || time.Since(lastRefresh) >= l.cfg.MaxAge, nil
}

func (l *Loader) refresh(ctx context.Context) error {
	dirty, err := l.farmers.CountUnsynced(ctx)
	if err != nil {
		return fmt.Errorf("failed to count unsynced farmers: %w", err)
	}
	if dirty > 0 {
		l.log.Debug(ctx, "skipping cache refresh: dirty records present", "dirty", dirty)
		return nil
	}

	start := time.Now()
	var fetched []*models.Farmer
	cursor := ""
	for {
		page, err := l.remote.GetPage(ctx, cursor, l.cfg.PageSize)
		if err != nil {
			return fmt.Errorf("failed to fetch remote page: %w", err)
		}
		fetched = append(fetched, page.Farmers...)
		if page.NextCursor == "" {
			break
		}
		cursor = page.NextCursor
	}

	// everything pulled from remote is in sync by definition
	for _, f := range fetched {
		f.Synced = true
	}

	if err := l.farmers.ReplaceAll(ctx, fetched); err != nil {
		return fmt.Errorf("failed to refill cache: %w", err)
	}
	if err := l.meta.SetTime(ctx, metadata.KeyLastFullRefresh, start); err != nil {
		return fmt.Errorf("failed to record refresh time: %w", err)
	}

	l.log.Info(ctx, "cache refreshed from remote",
		"records", len(fetched), "duration", time.Since(start))
	return nil
}
