package config

import (
	"flag"
	"os"

	"farmcrm/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-d string    path of the local SQLite cache file
//	-m string    MongoDB connection URI
//	-db string   MongoDB database name
//	-p int       remote page size
//
// The function filters os.Args to only include the flags it knows about,
// using flagx.FilterArgs, to avoid interference with other components.
func parseFlags(cfg *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-d", "-m", "-db", "-p"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.LocalDBPath, "d", cfg.LocalDBPath, "path of the local database file")
	fs.StringVar(&cfg.MongoURI, "m", cfg.MongoURI, "MongoDB connection URI")
	fs.StringVar(&cfg.MongoDatabase, "db", cfg.MongoDatabase, "MongoDB database name")
	fs.IntVar(&cfg.PageSize, "p", cfg.PageSize, "remote page size")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}
}
