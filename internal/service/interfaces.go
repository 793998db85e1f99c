// Package service defines the interfaces for all application services.
package service

import (
	"context"

	"github.com/neatstep/neatstep/internal/model"
)

// Storage defines the contract for the activity/stats persistence layer.
// Callers treat every operation as fail-soft: a storage error is logged and
// the requesting flow continues.
type Storage interface {
	// Activity log operations. Entries are append-only and retrieved
	// newest-first.
	SaveLog(ctx context.Context, entry model.ActivityLogEntry) error
	GetAllLogs(ctx context.Context) ([]model.ActivityLogEntry, error)
	ClearLogs(ctx context.Context) error

	// Stats operations. A single record, upserted on every mutation.
	GetStats(ctx context.Context) (*model.AppStats, error)
	SaveStats(ctx context.Context, stats *model.AppStats) error

	// Lifecycle.
	Migrate(ctx context.Context) error
	Close() error
}
