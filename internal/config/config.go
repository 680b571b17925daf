// Package config loads runtime settings for the farmcrm client from
// defaults, an optional JSON file, and command-line flags, in that order.
package config

import "time"

// Config holds runtime settings for the farmcrm sync core.
//
// Fields:
//   - LocalDBPath: path of the local SQLite cache file.
//   - MongoURI: connection string of the remote document store.
//   - MongoDatabase: database holding the farmers collection.
//   - PageSize: remote page size used by the pagination loader.
//   - ChunkSize: records per batched remote write during a sync run.
//   - MaxWritesPerRun: cap on dirty records collected per sync run.
//   - SyncCooldown: minimum wall-clock gap between sync runs.
//   - RefreshMaxAge: age of the last full refresh after which the local
//     cache is considered stale.
type Config struct {
	LocalDBPath     string
	MongoURI        string
	MongoDatabase   string
	PageSize        int
	ChunkSize       int
	MaxWritesPerRun int
	SyncCooldown    time.Duration
	RefreshMaxAge   time.Duration
}

// LoadDefaults populates c with the reference behavior's constants.
func (c *Config) LoadDefaults() {
	c.LocalDBPath = "farmers.db"
	c.MongoURI = "mongodb://127.0.0.1:27017"
	c.MongoDatabase = "farmcrm"
	c.PageSize = 100
	c.ChunkSize = 100
	c.MaxWritesPerRun = 10000
	c.SyncCooldown = 24 * time.Hour
	c.RefreshMaxAge = 24 * time.Hour
}

// LoadConfig constructs a Config, applies defaults, then overlays values
// from JSON (if present) and command-line flags (if present). Later
// sources take precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
