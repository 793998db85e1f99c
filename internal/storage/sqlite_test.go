package storage

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/neatstep/neatstep/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStorage(t *testing.T) *SQLiteStorage {
	t.Helper()
	db, err := NewSQLiteStorage(":memory:")
	require.NoError(t, err)
	require.NoError(t, db.Migrate(context.Background()))
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestMigrate_Idempotent(t *testing.T) {
	db := newTestStorage(t)
	require.NoError(t, db.Migrate(context.Background()))
}

func TestActivityLog_AppendAndRetrieveNewestFirst(t *testing.T) {
	db := newTestStorage(t)
	ctx := context.Background()

	base := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	actions := []model.ActivityAction{model.ActionScan, model.ActionConsult, model.ActionMove}

	for i, action := range actions {
		entry := model.ActivityLogEntry{
			ID:        uuid.NewString(),
			Timestamp: base.Add(time.Duration(i) * time.Minute),
			Action:    action,
			Details:   "entry",
			Status:    model.StatusSuccess,
		}
		require.NoError(t, db.SaveLog(ctx, entry))
	}

	logs, err := db.GetAllLogs(ctx)
	require.NoError(t, err)
	require.Len(t, logs, 3)

	assert.Equal(t, model.ActionMove, logs[0].Action, "newest entry first")
	assert.Equal(t, model.ActionConsult, logs[1].Action)
	assert.Equal(t, model.ActionScan, logs[2].Action)
}

func TestActivityLog_RequiresID(t *testing.T) {
	db := newTestStorage(t)
	err := db.SaveLog(context.Background(), model.ActivityLogEntry{Timestamp: time.Now()})
	require.Error(t, err)
}

func TestActivityLog_Clear(t *testing.T) {
	db := newTestStorage(t)
	ctx := context.Background()

	require.NoError(t, db.SaveLog(ctx, model.ActivityLogEntry{
		ID:        uuid.NewString(),
		Timestamp: time.Now(),
		Action:    model.ActionScan,
		Status:    model.StatusSuccess,
	}))

	require.NoError(t, db.ClearLogs(ctx))

	logs, err := db.GetAllLogs(ctx)
	require.NoError(t, err)
	assert.Empty(t, logs)
}

func TestStats_MissingRecordIsNil(t *testing.T) {
	db := newTestStorage(t)

	stats, err := db.GetStats(context.Background())
	require.NoError(t, err)
	assert.Nil(t, stats)
}

func TestStats_UpsertRoundTrip(t *testing.T) {
	db := newTestStorage(t)
	ctx := context.Background()

	first := &model.AppStats{
		FilesAnalyzed: 10,
		JunkFound:     2,
		SpaceAnalyzed: 4096,
		AIInsights: []model.DashboardInsight{
			{Title: "Hoarding", Description: "Old downloads pile up", Type: "clutter", Priority: "high"},
		},
	}
	require.NoError(t, db.SaveStats(ctx, first))

	got, err := db.GetStats(ctx)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, int64(10), got.FilesAnalyzed)
	require.Len(t, got.AIInsights, 1)
	assert.Equal(t, "Hoarding", got.AIInsights[0].Title)

	// Second save updates the same single record.
	first.FilesAnalyzed = 25
	first.FoldersCreated = 3
	require.NoError(t, db.SaveStats(ctx, first))

	got, err = db.GetStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(25), got.FilesAnalyzed)
	assert.Equal(t, int64(3), got.FoldersCreated)
}
