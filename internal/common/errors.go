// Package common defines shared sentinel errors used across the farmcrm
// layers. Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrNotFound = errors.New("not found")

	// Single-flight guard: a second sync trigger while a run is active.
	// Cache refreshers do not get a sentinel; waiters join the refresh
	// in progress instead.
	ErrSyncInProgress = errors.New("sync already in progress")

	// Remote store reachability; transient, deferred to the next sync run.
	ErrRemoteUnavailable = errors.New("remote store unavailable")

	// Validation failures (write path and bulk import rows).
	ErrValidation = errors.New("validation failed")
)
