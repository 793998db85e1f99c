package main

import (
	"context"
	"fmt"

	"github.com/spf13/viper"

	"github.com/neatstep/neatstep/internal/config"
	"github.com/neatstep/neatstep/internal/engine"
	"github.com/neatstep/neatstep/internal/fsys"
	"github.com/neatstep/neatstep/internal/storage"
)

// initStorage initializes the activity database with proper path expansion.
func initStorage(ctx context.Context) (*storage.SQLiteStorage, error) {
	dbPath := viper.GetString("database.path")
	if dbPath == "" {
		dbPath = "$HOME/.local/share/neatstep/neatstep.db"
	}

	dbPath = config.ExpandPath(dbPath)

	store, err := storage.NewSQLiteStorage(dbPath)
	if err != nil {
		return nil, err
	}

	if err := store.Migrate(ctx); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return store, nil
}

// initOrganizer wires the filesystem, classifier and storage into an
// organizer rooted at dir. The caller owns the returned storage handle.
// classifier may be nil for commands that never consult the collaborator.
func initOrganizer(ctx context.Context, dir string, classifier engine.Classifier) (*engine.Organizer, *storage.SQLiteStorage, error) {
	fs, err := fsys.NewOSFileSystem(dir)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open %s: %w", dir, err)
	}

	store, err := initStorage(ctx)
	if err != nil {
		return nil, nil, err
	}

	var opts []engine.Option
	if size := viper.GetInt("engine.chunk_size"); size > 0 {
		opts = append(opts, engine.WithChunkSize(size))
	}

	return engine.New(fs, classifier, store, opts...), store, nil
}

func formatBytes(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for m := n / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(n)/float64(div), "KMGTPE"[exp])
}
