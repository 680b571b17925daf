package config

import (
	"encoding/json"
	"os"

	"farmcrm/internal/flagx"
	"farmcrm/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling. It relies on
// timex.Duration so JSON can specify intervals either as strings like "24h"
// or as integer nanoseconds. After parsing, values are copied into the
// runtime Config (which uses time.Duration).
type JsonConfig struct {
	LocalDBPath     string         `json:"local_db_path"`
	MongoURI        string         `json:"mongo_uri"`
	MongoDatabase   string         `json:"mongo_database"`
	PageSize        int            `json:"page_size"`
	ChunkSize       int            `json:"chunk_size"`
	MaxWritesPerRun int            `json:"max_writes_per_run"`
	SyncCooldown    timex.Duration `json:"sync_cooldown"`
	RefreshMaxAge   timex.Duration `json:"refresh_max_age"`
}

// parseJson overlays Config with values loaded from a JSON file resolved
// via the -c/-config flags. Zero values in the file leave the existing
// Config values untouched. Panics on read or unmarshal errors.
func parseJson(cfg *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	var jc JsonConfig

	data, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	if jc.LocalDBPath != "" {
		cfg.LocalDBPath = jc.LocalDBPath
	}
	if jc.MongoURI != "" {
		cfg.MongoURI = jc.MongoURI
	}
	if jc.MongoDatabase != "" {
		cfg.MongoDatabase = jc.MongoDatabase
	}
	if jc.PageSize > 0 {
		cfg.PageSize = jc.PageSize
	}
	if jc.ChunkSize > 0 {
		cfg.ChunkSize = jc.ChunkSize
	}
	if jc.MaxWritesPerRun > 0 {
		cfg.MaxWritesPerRun = jc.MaxWritesPerRun
	}
	if jc.SyncCooldown.Duration > 0 {
		cfg.SyncCooldown = jc.SyncCooldown.Duration
	}
	if jc.RefreshMaxAge.Duration > 0 {
		cfg.RefreshMaxAge = jc.RefreshMaxAge.Duration
	}
}
