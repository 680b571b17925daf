package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg := &Config{}
	cfg.LoadDefaults()

	assert.Equal(t, "farmers.db", cfg.LocalDBPath)
	assert.Equal(t, 100, cfg.PageSize)
	assert.Equal(t, 100, cfg.ChunkSize)
	assert.Equal(t, 10000, cfg.MaxWritesPerRun)
	assert.Equal(t, 24*time.Hour, cfg.SyncCooldown)
	assert.Equal(t, 24*time.Hour, cfg.RefreshMaxAge)
}

func TestLoadConfig_JSONOverlay(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "conf.json")
	require.NoError(t, os.WriteFile(path, []byte(`{
		"local_db_path": "/tmp/x.db",
		"chunk_size": 25,
		"sync_cooldown": "12h"
	}`), 0o600))

	oldArgs := os.Args
	t.Cleanup(func() { os.Args = oldArgs })
	os.Args = []string{"farmcrm", "-c", path}

	cfg := LoadConfig()

	assert.Equal(t, "/tmp/x.db", cfg.LocalDBPath)
	assert.Equal(t, 25, cfg.ChunkSize)
	assert.Equal(t, 12*time.Hour, cfg.SyncCooldown)
	// untouched fields keep defaults
	assert.Equal(t, 100, cfg.PageSize)
}

func TestLoadConfig_FlagsWinOverJSON(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "conf.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"local_db_path": "/tmp/from-json.db"}`), 0o600))

	oldArgs := os.Args
	t.Cleanup(func() { os.Args = oldArgs })
	os.Args = []string{"farmcrm", "-c", path, "-d", "/tmp/from-flag.db"}

	cfg := LoadConfig()
	assert.Equal(t, "/tmp/from-flag.db", cfg.LocalDBPath)
}
