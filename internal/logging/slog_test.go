package logging

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSlogLogger_WritesLevelsAndAttrs(t *testing.T) {
	var buf bytes.Buffer
	h := slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})
	log := NewSlogLogger(slog.New(h))
	ctx := context.Background()

	log.Debug(ctx, "dbg", "k", "v")
	log.Info(ctx, "inf")
	log.Warn(ctx, "wrn")
	log.Error(ctx, "err")

	out := buf.String()
	for _, want := range []string{"dbg", "inf", "wrn", "err", "k=v"} {
		assert.Contains(t, out, want)
	}
}

func TestSlogLogger_WithAddsFields(t *testing.T) {
	var buf bytes.Buffer
	h := slog.NewTextHandler(&buf, nil)
	log := NewSlogLogger(slog.New(h)).With("component", "syncer")

	log.Info(context.Background(), "hello")
	require.Contains(t, buf.String(), "component=syncer")
}

func TestNopLogger(t *testing.T) {
	// must not panic, With must return a usable logger
	log := NewNopLogger().With("a", 1)
	log.Info(context.Background(), "ignored")
}
