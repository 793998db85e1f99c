package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/neatstep/neatstep/internal/model"
)

// statsRowID keys the single stats record.
const statsRowID = "main_stats"

// GetStats loads the cumulative counters. A missing record yields nil.
func (s *SQLiteStorage) GetStats(ctx context.Context) (*model.AppStats, error) {
	var stats model.AppStats
	var insightsJSON string

	err := s.db.QueryRowContext(ctx, `
		SELECT files_analyzed, junk_found, space_analyzed, folders_created, insights
		FROM app_stats WHERE id = ?
	`, statsRowID).Scan(
		&stats.FilesAnalyzed,
		&stats.JunkFound,
		&stats.SpaceAnalyzed,
		&stats.FoldersCreated,
		&insightsJSON,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load stats: %w", err)
	}

	if err := json.Unmarshal([]byte(insightsJSON), &stats.AIInsights); err != nil {
		// A corrupt insight cache loses only the advisory list.
		stats.AIInsights = nil
	}

	return &stats, nil
}

// SaveStats upserts the single stats record.
func (s *SQLiteStorage) SaveStats(ctx context.Context, stats *model.AppStats) error {
	if stats == nil {
		return fmt.Errorf("stats must not be nil")
	}

	insightsJSON, err := json.Marshal(stats.AIInsights)
	if err != nil {
		return fmt.Errorf("failed to marshal insights: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO app_stats (id, files_analyzed, junk_found, space_analyzed, folders_created, insights, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(id) DO UPDATE SET
			files_analyzed = excluded.files_analyzed,
			junk_found = excluded.junk_found,
			space_analyzed = excluded.space_analyzed,
			folders_created = excluded.folders_created,
			insights = excluded.insights,
			updated_at = CURRENT_TIMESTAMP
	`,
		statsRowID,
		stats.FilesAnalyzed,
		stats.JunkFound,
		stats.SpaceAnalyzed,
		stats.FoldersCreated,
		string(insightsJSON),
	)
	if err != nil {
		return fmt.Errorf("failed to save stats: %w", err)
	}

	return nil
}
