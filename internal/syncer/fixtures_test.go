package syncer

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"farmcrm/internal/logging"
	"farmcrm/internal/models"
	"farmcrm/internal/remote"
	"farmcrm/internal/repositories/farmers"
	"farmcrm/internal/repositories/metadata"

	_ "modernc.org/sqlite"
)

const testSchema = `
CREATE TABLE farmers (
  id              TEXT PRIMARY KEY,
  name            TEXT NOT NULL,
  region          TEXT NOT NULL DEFAULT '',
  district        TEXT NOT NULL DEFAULT '',
  community       TEXT NOT NULL DEFAULT '',
  contact         TEXT NOT NULL DEFAULT '',
  gender          TEXT NOT NULL DEFAULT '',
  age             INTEGER,
  education_level TEXT NOT NULL DEFAULT '',
  farm_size       REAL,
  crops_grown     TEXT,
  status          TEXT NOT NULL DEFAULT '',
  join_date       TEXT,
  created_at      TEXT NOT NULL,
  updated_at      TEXT NOT NULL,
  ts_confirmed    INTEGER NOT NULL DEFAULT 0,
  synced          INTEGER NOT NULL DEFAULT 0
);
CREATE TABLE metadata (key TEXT PRIMARY KEY, value BLOB);
`

func setupRepos(t *testing.T) (*farmers.SQLiteRepository, *metadata.SQLiteRepository) {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })

	_, err = db.Exec(testSchema)
	require.NoError(t, err)

	return farmers.NewSQLiteRepository(db), metadata.NewSQLiteRepository(db)
}

func seedDirty(t *testing.T, fr *farmers.SQLiteRepository, n int) {
	t.Helper()
	base := time.Now().UTC().Add(-time.Duration(n) * time.Second)
	batch := make([]*models.Farmer, 0, n)
	for i := 0; i < n; i++ {
		ts := base.Add(time.Duration(i) * time.Second)
		batch = append(batch, &models.Farmer{
			Id:        fmt.Sprintf("local-%04d", i),
			Name:      fmt.Sprintf("Farmer %d", i),
			Region:    "Ashanti",
			CreatedAt: models.Provisional(ts),
			UpdatedAt: models.Provisional(ts),
		})
	}
	require.NoError(t, fr.BulkUpsert(context.Background(), batch))
}

// fakeStore is an in-memory remote.Store with configurable failures and
// call recording.
type fakeStore struct {
	mu   sync.Mutex
	docs map[string]*models.Farmer

	batchCalls  int
	failBatchAt int // 1-based call index that fails, 0 for never
	pageCalls   int
	pageErr     error
	deleted     []string

	// closed by the test to release a BatchWrite parked on enterBatch
	blockBatch chan struct{}
	enterBatch chan struct{}

	// same parking mechanism for GetPage
	blockPage chan struct{}
	enterPage chan struct{}
}

func newFakeStore(fs ...*models.Farmer) *fakeStore {
	s := &fakeStore{docs: make(map[string]*models.Farmer)}
	for _, f := range fs {
		s.docs[f.Id] = f
	}
	return s
}

func (s *fakeStore) sorted() []*models.Farmer {
	out := make([]*models.Farmer, 0, len(s.docs))
	for _, f := range s.docs {
		out = append(out, f)
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if !a.CreatedAt.Time.Equal(b.CreatedAt.Time) {
			return a.CreatedAt.Time.After(b.CreatedAt.Time)
		}
		return a.Id > b.Id
	})
	return out
}

func (s *fakeStore) GetAll(ctx context.Context) ([]*models.Farmer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sorted(), nil
}

func (s *fakeStore) GetPage(ctx context.Context, cursor string, pageSize int) (*remote.Page, error) {
	s.mu.Lock()
	s.pageCalls++
	enter, block := s.enterPage, s.blockPage
	pageErr := s.pageErr
	s.mu.Unlock()

	if enter != nil {
		enter <- struct{}{}
		<-block
	}
	if pageErr != nil {
		return nil, pageErr
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	offset := 0
	if cursor != "" {
		var err error
		if offset, err = strconv.Atoi(cursor); err != nil {
			return nil, err
		}
	}

	all := s.sorted()
	if offset > len(all) {
		offset = len(all)
	}
	end := offset + pageSize
	if end > len(all) {
		end = len(all)
	}

	page := &remote.Page{Farmers: all[offset:end]}
	if end-offset == pageSize {
		page.NextCursor = strconv.Itoa(end)
	}
	return page, nil
}

func (s *fakeStore) store(f *models.Farmer) {
	cp := *f
	cp.CreatedAt = models.Confirmed(cp.CreatedAt.Time)
	cp.UpdatedAt = models.Confirmed(time.Now().UTC())
	s.docs[cp.Id] = &cp
}

func (s *fakeStore) CreateWithID(ctx context.Context, f *models.Farmer) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.store(f)
	return nil
}

func (s *fakeStore) Update(ctx context.Context, f *models.Farmer) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.store(f)
	return nil
}

func (s *fakeStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.deleted = append(s.deleted, id)
	delete(s.docs, id)
	return nil
}

func (s *fakeStore) BatchWrite(ctx context.Context, fs []*models.Farmer) error {
	s.mu.Lock()
	s.batchCalls++
	call := s.batchCalls
	enter, block := s.enterBatch, s.blockBatch
	s.mu.Unlock()

	if enter != nil {
		enter <- struct{}{}
		<-block
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failBatchAt != 0 && call >= s.failBatchAt {
		return fmt.Errorf("remote write rejected")
	}
	for _, f := range fs {
		s.store(f)
	}
	return nil
}

var _ remote.Store = (*fakeStore)(nil)

func nopLog() logging.Logger { return logging.NewNopLogger() }
