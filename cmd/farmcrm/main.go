package main

import (
	"context"
	"log"
	"os"
	"strings"

	"farmcrm/internal/buildinfo"
	"farmcrm/internal/cli"
	"farmcrm/internal/config"
)

func main() {
	args := commandArgs(os.Args[1:])
	if len(args) > 0 && args[0] == "version" {
		buildinfo.PrintBuildData(os.Stdout)
		return
	}

	ctx := context.Background()
	cfg := config.LoadConfig()

	app, err := cli.NewApp(ctx, cfg)
	if err != nil {
		log.Fatalf("%v", err)
	}
	defer app.Close(ctx)

	if err := app.Run(ctx, args); err != nil {
		log.Fatalf("%v", err)
	}
}

// commandArgs skips the global flags (all of which take a value) up to the
// first positional word; that word and everything after it belong to the
// command.
func commandArgs(args []string) []string {
	for i := 0; i < len(args); i++ {
		a := args[i]
		if strings.HasPrefix(a, "-") {
			if !strings.Contains(a, "=") && i+1 < len(args) {
				i++
			}
			continue
		}
		return args[i:]
	}
	return nil
}
