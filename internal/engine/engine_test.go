package engine

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/neatstep/neatstep/internal/common"
	"github.com/neatstep/neatstep/internal/fsys"
	"github.com/neatstep/neatstep/internal/model"
	"github.com/neatstep/neatstep/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStorage(t *testing.T) *storage.SQLiteStorage {
	t.Helper()
	db, err := storage.NewSQLiteStorage(":memory:")
	require.NoError(t, err)
	require.NoError(t, db.Migrate(context.Background()))
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestAnalyze_ChunkingExactness(t *testing.T) {
	fs := fsys.NewMockFileSystem()
	for i := 0; i < 5; i++ {
		fs.AddFile(fmt.Sprintf("f%02d.txt", i), fsys.MemFile{Contents: []byte("x")})
	}

	mock := NewMockClassifier()
	o := New(fs, mock, newTestStorage(t), WithChunkSize(2))

	ctx := context.Background()
	files, err := o.Scan(ctx)
	require.NoError(t, err)
	require.Len(t, files, 5)

	agg, err := o.Analyze(ctx, "", nil)
	require.NoError(t, err)

	batches := mock.Batches()
	require.Len(t, batches, 3, "5 files at chunk size 2")
	assert.Len(t, batches[0], 2)
	assert.Len(t, batches[1], 2)
	assert.Len(t, batches[2], 1)

	// Chunk i carries exactly files[i*C : min((i+1)*C, N)].
	idx := 0
	for _, batch := range batches {
		for _, bf := range batch {
			assert.Equal(t, files[idx].Name, bf.Name)
			idx++
		}
	}

	// Analyses concatenate in chunk order; length equals sum of responses.
	require.Len(t, agg.Analyses, 5)
	for i, a := range agg.Analyses {
		assert.Equal(t, files[i].Name, a.OriginalName)
	}

	// Summary and strategy come from the first chunk only.
	assert.Equal(t, "Batch 1 summary", agg.Summary)
	assert.Equal(t, "Batch 1 strategy", agg.Strategy)
}

func TestAnalyze_ImpactScoreFold(t *testing.T) {
	fs := fsys.NewMockFileSystem()
	for i := 0; i < 3; i++ {
		fs.AddFile(fmt.Sprintf("f%d.txt", i), fsys.MemFile{Contents: []byte("x")})
	}

	mock := NewMockClassifier()
	mock.ImpactScores = []int{80, 40, 20}
	o := New(fs, mock, newTestStorage(t), WithChunkSize(1))

	ctx := context.Background()
	_, err := o.Scan(ctx)
	require.NoError(t, err)

	agg, err := o.Analyze(ctx, "", nil)
	require.NoError(t, err)
	assert.Equal(t, 40, agg.ImpactScore, "80 -> 60 -> 40")
}

func TestAnalyze_ChunkFailureDiscardsPartials(t *testing.T) {
	fs := fsys.NewMockFileSystem()
	for i := 0; i < 4; i++ {
		fs.AddFile(fmt.Sprintf("f%d.txt", i), fsys.MemFile{Contents: []byte("x")})
	}

	mock := NewMockClassifier()
	mock.FailOnBatch = 2
	db := newTestStorage(t)
	o := New(fs, mock, db, WithChunkSize(2))

	ctx := context.Background()
	_, err := o.Scan(ctx)
	require.NoError(t, err)

	agg, err := o.Analyze(ctx, "", nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrClassificationFailed)
	assert.Empty(t, agg.Analyses, "partial results from completed chunks are discarded")

	logs, err := db.GetAllLogs(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, logs)
	assert.Equal(t, model.StatusFailed, logs[0].Status)
	assert.Equal(t, model.ActionConsult, logs[0].Action)
}

func TestAnalyze_FeedbackSwitchesActionToRefine(t *testing.T) {
	fs := fsys.NewMockFileSystem()
	fs.AddFile("a.txt", fsys.MemFile{Contents: []byte("x")})

	mock := NewMockClassifier()
	db := newTestStorage(t)
	o := New(fs, mock, db)

	ctx := context.Background()
	_, err := o.Scan(ctx)
	require.NoError(t, err)

	_, err = o.Analyze(ctx, "group by year", nil)
	require.NoError(t, err)

	assert.Equal(t, []string{"group by year"}, mock.Feedbacks())

	logs, err := db.GetAllLogs(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, logs)
	assert.Equal(t, model.ActionRefine, logs[0].Action)
}

func TestAnalyze_EmptyScan(t *testing.T) {
	fs := fsys.NewMockFileSystem()
	o := New(fs, NewMockClassifier(), newTestStorage(t))

	_, err := o.Analyze(context.Background(), "", nil)
	assert.ErrorIs(t, err, common.ErrNoFiles)
}

func TestAnalyze_ProgressReporting(t *testing.T) {
	fs := fsys.NewMockFileSystem()
	for i := 0; i < 5; i++ {
		fs.AddFile(fmt.Sprintf("f%d.txt", i), fsys.MemFile{Contents: []byte("x")})
	}

	o := New(fs, NewMockClassifier(), newTestStorage(t), WithChunkSize(2))

	ctx := context.Background()
	_, err := o.Scan(ctx)
	require.NoError(t, err)

	var updates [][2]int
	_, err = o.Analyze(ctx, "", func(processed, total int) {
		updates = append(updates, [2]int{processed, total})
	})
	require.NoError(t, err)

	require.Equal(t, [][2]int{{0, 5}, {2, 5}, {4, 5}, {5, 5}}, updates)
}

func TestApply_FullCycle(t *testing.T) {
	fs := fsys.NewMockFileSystem()
	fs.AddFile("invoice_march.pdf", fsys.MemFile{Contents: []byte("pdf")})
	fs.AddFile("notes.txt", fsys.MemFile{Contents: []byte("notes")})
	fs.AddFile("scratch.tmp", fsys.MemFile{Contents: []byte("")})

	db := newTestStorage(t)
	o := New(fs, NewMockClassifier(), db)

	ctx := context.Background()
	_, err := o.Scan(ctx)
	require.NoError(t, err)

	selected := []model.AnalysisResult{
		{OriginalName: "invoice_march.pdf", SuggestedName: "Invoice-March.pdf", SuggestedFolder: "Finance/Invoices"},
		{OriginalName: "notes.txt", SuggestedName: "Notes.txt", SuggestedFolder: "Personal"},
		{OriginalName: "scratch.tmp", SuggestedName: "scratch.tmp", SuggestedFolder: "Junk", IsJunk: true},
	}

	summary, err := o.Apply(ctx, selected)
	require.NoError(t, err)

	assert.Equal(t, 3, summary.FilesMoved)
	assert.Equal(t, 1, summary.JunkMoved)
	assert.Equal(t, 3, summary.FoldersCreated)
	assert.Equal(t, 0, summary.Failed)

	assert.True(t, fs.HasFile("Finance/Invoices/Invoice-March.pdf"))
	assert.True(t, fs.HasFile("Personal/Notes.txt"))
	assert.True(t, fs.HasFile("Junk/scratch.tmp"))
	assert.False(t, fs.HasFile("notes.txt"))

	// Stats accumulated and persisted.
	stats, err := db.GetStats(ctx)
	require.NoError(t, err)
	require.NotNil(t, stats)
	assert.Equal(t, int64(3), stats.FilesAnalyzed)
	assert.Equal(t, int64(1), stats.JunkFound)
	assert.Equal(t, int64(3), stats.FoldersCreated)
	assert.Equal(t, int64(8), stats.SpaceAnalyzed)

	// Post-execution rescan refreshed the file list.
	files := o.Files()
	require.Len(t, files, 3)
	for _, f := range files {
		assert.NotEqual(t, ".", f.Dir(), "all files moved out of the root")
	}
}

func TestApply_ResolutionMissDoesNotTouchFilesystem(t *testing.T) {
	fs := fsys.NewMockFileSystem()
	fs.AddFile("present.txt", fsys.MemFile{Contents: []byte("x")})

	db := newTestStorage(t)
	o := New(fs, NewMockClassifier(), db)

	ctx := context.Background()
	_, err := o.Scan(ctx)
	require.NoError(t, err)

	summary, err := o.Apply(ctx, []model.AnalysisResult{
		{OriginalName: "vanished.txt", SuggestedName: "Gone.txt", SuggestedFolder: "Docs"},
	})
	require.NoError(t, err)

	assert.Equal(t, 0, summary.FilesMoved)
	assert.Equal(t, 1, summary.Failed)
	assert.Empty(t, fs.MoveCalls(), "no move attempted for unresolved names")
	assert.False(t, fs.HasDir("Docs"), "no folder created for unresolved names")

	logs, err := db.GetAllLogs(ctx)
	require.NoError(t, err)
	var failed int
	for _, l := range logs {
		if l.Status == model.StatusFailed {
			failed++
			assert.Contains(t, l.Details, "vanished.txt")
		}
	}
	assert.Equal(t, 1, failed)
}

func TestApply_PerItemFailureContinues(t *testing.T) {
	fs := fsys.NewMockFileSystem()
	fs.AddFile("a.txt", fsys.MemFile{Contents: []byte("a")})
	fs.AddFile("b.txt", fsys.MemFile{Contents: []byte("b")})
	fs.AddFile("c.txt", fsys.MemFile{Contents: []byte("c")})

	db := newTestStorage(t)
	o := New(fs, NewMockClassifier(), db)

	ctx := context.Background()
	_, err := o.Scan(ctx)
	require.NoError(t, err)

	// b.txt disappears between scan and execution: stale handle.
	fs.RemoveFile("b.txt")

	summary, err := o.Apply(ctx, []model.AnalysisResult{
		{OriginalName: "a.txt", SuggestedName: "A.txt", SuggestedFolder: "Docs"},
		{OriginalName: "b.txt", SuggestedName: "B.txt", SuggestedFolder: "Docs"},
		{OriginalName: "c.txt", SuggestedName: "C.txt", SuggestedFolder: "Docs"},
	})
	require.NoError(t, err)

	assert.Equal(t, 2, summary.FilesMoved)
	assert.Equal(t, 1, summary.Failed)
	assert.True(t, fs.HasFile("Docs/A.txt"))
	assert.True(t, fs.HasFile("Docs/C.txt"), "failure of one item never aborts the rest")
	assert.Len(t, fs.MoveCalls(), 3)
}

func TestApply_RootSuggestionsCreateNoFolders(t *testing.T) {
	fs := fsys.NewMockFileSystem()
	fs.AddFile("a.txt", fsys.MemFile{Contents: []byte("a")})

	o := New(fs, NewMockClassifier(), newTestStorage(t))

	ctx := context.Background()
	_, err := o.Scan(ctx)
	require.NoError(t, err)

	summary, err := o.Apply(ctx, []model.AnalysisResult{
		{OriginalName: "a.txt", SuggestedName: "Renamed.txt", SuggestedFolder: "."},
	})
	require.NoError(t, err)

	assert.Equal(t, 1, summary.FilesMoved)
	assert.Equal(t, 0, summary.FoldersCreated)
	assert.True(t, fs.HasFile("Renamed.txt"))
}

func TestRefreshInsights_BestEffort(t *testing.T) {
	fs := fsys.NewMockFileSystem()
	fs.AddFile("a.txt", fsys.MemFile{Contents: []byte("x")})

	t.Run("stores insights on success", func(t *testing.T) {
		mock := NewMockClassifier()
		mock.Insights = []model.DashboardInsight{{Title: "Sprawl", Type: "clutter", Priority: "low"}}
		db := newTestStorage(t)
		o := New(fs, mock, db)

		ctx := context.Background()
		_, err := o.Scan(ctx)
		require.NoError(t, err)

		select {
		case <-o.RefreshInsights(ctx):
		case <-time.After(5 * time.Second):
			t.Fatal("insight refresh never finished")
		}

		stats, err := db.GetStats(ctx)
		require.NoError(t, err)
		require.NotNil(t, stats)
		require.Len(t, stats.AIInsights, 1)
		assert.Equal(t, "Sprawl", stats.AIInsights[0].Title)
	})

	t.Run("swallows failures", func(t *testing.T) {
		mock := NewMockClassifier()
		mock.InsightErr = assert.AnError
		db := newTestStorage(t)
		o := New(fs, mock, db)

		ctx := context.Background()
		_, err := o.Scan(ctx)
		require.NoError(t, err)

		select {
		case <-o.RefreshInsights(ctx):
		case <-time.After(5 * time.Second):
			t.Fatal("insight refresh never finished")
		}

		stats, err := db.GetStats(ctx)
		require.NoError(t, err)
		assert.Nil(t, stats, "failed insight generation leaves stats untouched")
	})
}

func TestCleanEmptyFolders(t *testing.T) {
	fs := fsys.NewMockFileSystem()
	fs.AddFile("keep/file.txt", fsys.MemFile{Contents: []byte("x")})
	fs.AddDir("empty")
	fs.AddDir("nested/inner/deepest")

	o := New(fs, NewMockClassifier(), newTestStorage(t))

	removed, err := o.CleanEmptyFolders(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 4, removed, "empty, deepest, inner and nested all go, bottom-up")
	assert.True(t, fs.HasDir("keep"))
	assert.False(t, fs.HasDir("empty"))
	assert.False(t, fs.HasDir("nested"))
}
