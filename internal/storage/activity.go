package storage

import (
	"context"
	"fmt"

	"github.com/neatstep/neatstep/internal/model"
)

// SaveLog appends one activity log entry.
func (s *SQLiteStorage) SaveLog(ctx context.Context, entry model.ActivityLogEntry) error {
	if entry.ID == "" {
		return fmt.Errorf("log entry ID must not be empty")
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO activity_logs (id, timestamp, action, details, status)
		VALUES (?, ?, ?, ?, ?)
	`,
		entry.ID,
		entry.Timestamp,
		string(entry.Action),
		entry.Details,
		string(entry.Status),
	)
	if err != nil {
		return fmt.Errorf("failed to save log entry: %w", err)
	}

	return nil
}

// GetAllLogs returns every activity log entry, newest first.
func (s *SQLiteStorage) GetAllLogs(ctx context.Context) ([]model.ActivityLogEntry, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, timestamp, action, details, status
		FROM activity_logs
		ORDER BY timestamp DESC, id DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query logs: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var logs []model.ActivityLogEntry
	for rows.Next() {
		var entry model.ActivityLogEntry
		var action, status string
		if err := rows.Scan(&entry.ID, &entry.Timestamp, &action, &entry.Details, &status); err != nil {
			return nil, fmt.Errorf("failed to scan log entry: %w", err)
		}
		entry.Action = model.ActivityAction(action)
		entry.Status = model.ActivityStatus(status)
		logs = append(logs, entry)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate logs: %w", err)
	}

	return logs, nil
}

// ClearLogs deletes the entire activity history.
func (s *SQLiteStorage) ClearLogs(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM activity_logs`); err != nil {
		return fmt.Errorf("failed to clear logs: %w", err)
	}
	return nil
}
