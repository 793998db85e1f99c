// Package engine orchestrates the scan → analyze → review → apply cycle:
// it chunks scanned files into collaborator batches, merges the partial
// responses into one aggregate analysis, and executes the reviewed subset of
// suggestions against the filesystem.
package engine

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/neatstep/neatstep/internal/common"
	"github.com/neatstep/neatstep/internal/fsys"
	"github.com/neatstep/neatstep/internal/llm"
	"github.com/neatstep/neatstep/internal/model"
	"github.com/neatstep/neatstep/internal/scanner"
	"github.com/neatstep/neatstep/internal/service"
)

// Organizer drives one directory's reorganization lifecycle. All operations
// are strictly sequential: chunks are classified one at a time and files are
// moved one at a time, because the executor mutates the shared tree and the
// simple correctness argument depends on no two operations interleaving.
type Organizer struct {
	fs         fsys.FileSystem
	scanner    *scanner.Scanner
	classifier Classifier
	storage    service.Storage
	files      []model.FileDescriptor
	chunkSize  int
	mu         sync.Mutex
}

// Option configures an Organizer.
type Option func(*Organizer)

// WithChunkSize overrides the number of files per collaborator batch.
func WithChunkSize(size int) Option {
	return func(o *Organizer) {
		if size > 0 {
			o.chunkSize = size
		}
	}
}

// New creates an organizer over the given collaborators.
func New(fs fsys.FileSystem, classifier Classifier, storage service.Storage, opts ...Option) *Organizer {
	o := &Organizer{
		fs:         fs,
		scanner:    scanner.New(fs),
		classifier: classifier,
		storage:    storage,
		chunkSize:  DefaultChunkSize,
	}

	for _, opt := range opts {
		opt(o)
	}

	return o
}

// Files returns the current scan generation.
func (o *Organizer) Files() []model.FileDescriptor {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.files
}

// Scan walks the tree and replaces the current scan generation. Descriptors
// from earlier scans become stale; only Path+Name identity survives.
func (o *Organizer) Scan(ctx context.Context) ([]model.FileDescriptor, error) {
	files, err := o.scanner.Scan(ctx)
	if err != nil {
		return nil, err
	}

	o.mu.Lock()
	o.files = files
	o.mu.Unlock()

	o.logActivity(ctx, model.ActionScan,
		fmt.Sprintf("Deep scan completed. Indexed %d files.", len(files)),
		model.StatusSuccess)

	return files, nil
}

// Analyze partitions the scanned files into fixed-size chunks and invokes
// the collaborator once per chunk, sequentially. Summary and strategy come
// verbatim from the first chunk; analyses concatenate in chunk order; the
// impact score is the documented pairwise-average fold. Any chunk failure
// discards all partial results: there is no retry and no partial-success
// mode.
func (o *Organizer) Analyze(ctx context.Context, feedback string, progress ProgressFunc) (model.AggregateAnalysis, error) {
	files := o.Files()
	if len(files) == 0 {
		return model.AggregateAnalysis{}, common.ErrNoFiles
	}

	total := len(files)
	chunks := chunkCount(total, o.chunkSize)

	var merged model.AggregateAnalysis
	scores := make([]int, 0, chunks)

	for i := 0; i < chunks; i++ {
		start, end := chunkBounds(i, o.chunkSize, total)

		batch := make([]llm.BatchFile, 0, end-start)
		for _, f := range files[start:end] {
			batch = append(batch, llm.NewBatchFile(f))
		}

		if progress != nil {
			progress(start, total)
		}

		result, err := o.classifier.AnalyzeBatch(ctx, batch, feedback)
		if err != nil {
			o.logActivity(ctx, analysisAction(feedback),
				fmt.Sprintf("Analysis aborted on batch %d of %d: %v", i+1, chunks, err),
				model.StatusFailed)
			return model.AggregateAnalysis{}, fmt.Errorf("%w: batch %d of %d: %v",
				common.ErrClassificationFailed, i+1, chunks, err)
		}

		if i == 0 {
			merged.Summary = result.Summary
			merged.Strategy = result.Strategy
			merged.IsAlreadyOrganized = result.IsAlreadyOrganized
		}
		merged.Analyses = append(merged.Analyses, result.Analyses...)
		scores = append(scores, result.ImpactScore)
	}

	if progress != nil {
		progress(total, total)
	}

	merged.ImpactScore = foldImpact(scores)

	o.logActivity(ctx, analysisAction(feedback),
		fmt.Sprintf("Analysis complete. Strategy covers %d files.", len(merged.Analyses)),
		model.StatusSuccess)

	return merged, nil
}

func analysisAction(feedback string) model.ActivityAction {
	if feedback != "" {
		return model.ActionRefine
	}
	return model.ActionConsult
}

// RefreshInsights regenerates dashboard insights from the current scan and
// persisted stats. Detached and best-effort: it runs in its own goroutine,
// swallows every failure, and never gates another operation. The returned
// channel closes when the attempt finishes, for callers that want to wait.
func (o *Organizer) RefreshInsights(ctx context.Context) <-chan struct{} {
	files := o.Files()
	done := make(chan struct{})

	go func() {
		defer close(done)

		types := make([]string, 0, 10)
		seen := make(map[string]bool)
		var totalSize int64
		for _, f := range files {
			totalSize += f.Size
			if !seen[f.MIMEType] && len(types) < 10 {
				seen[f.MIMEType] = true
				types = append(types, f.MIMEType)
			}
		}

		insights, err := o.classifier.GenerateInsights(ctx, llm.StatsContext{
			TotalFiles: len(files),
			TotalSize:  totalSize,
			FileTypes:  types,
		})
		if err != nil || len(insights) == 0 {
			slog.Debug("Insight generation yielded nothing", "error", err)
			return
		}

		stats := o.loadStats(ctx)
		stats.AIInsights = insights
		o.persistStats(ctx, stats)
	}()

	return done
}

// CleanEmptyFolders removes directories left empty after reorganization,
// bottom-up. A directory that cannot be read is conservatively treated as
// non-empty. Returns the number of directories removed.
func (o *Organizer) CleanEmptyFolders(ctx context.Context) (int, error) {
	if err := o.fs.RequestPermission(ctx, fsys.ModeReadWrite); err != nil {
		return 0, err
	}

	removed := 0
	o.cleanDir(ctx, ".", &removed)

	if removed > 0 {
		o.logActivity(ctx, model.ActionDelete,
			fmt.Sprintf("Removed %d empty folders.", removed),
			model.StatusSuccess)
	}

	return removed, nil
}

// cleanDir reports whether dir ended up empty. The root is never removed by
// its caller; only descendants are.
func (o *Organizer) cleanDir(ctx context.Context, dir string, removed *int) bool {
	entries, err := o.fs.EnumerateChildren(ctx, dir)
	if err != nil {
		slog.Warn("Skipping unreadable directory during cleanup", "dir", dir, "error", err)
		return false
	}

	hasContent := false
	for _, entry := range entries {
		if entry.Kind != fsys.KindDirectory {
			hasContent = true
			continue
		}

		child := entry.Name
		if dir != "." {
			child = dir + "/" + entry.Name
		}

		if o.cleanDir(ctx, child, removed) {
			if err := o.fs.RemoveEntry(ctx, dir, entry.Name); err != nil {
				slog.Warn("Failed to remove empty folder", "dir", child, "error", err)
				hasContent = true
				continue
			}
			*removed++
		} else {
			hasContent = true
		}
	}

	return !hasContent
}

// logActivity appends an activity log entry, fail-soft.
func (o *Organizer) logActivity(ctx context.Context, action model.ActivityAction, details string, status model.ActivityStatus) {
	entry := model.ActivityLogEntry{
		ID:        uuid.NewString(),
		Timestamp: time.Now(),
		Action:    action,
		Details:   details,
		Status:    status,
	}

	if err := o.storage.SaveLog(ctx, entry); err != nil {
		slog.Warn("Failed to persist activity log entry", "action", action, "error", err)
	}
}

// loadStats reads the persisted counters, fail-soft to zeroes.
func (o *Organizer) loadStats(ctx context.Context) *model.AppStats {
	stats, err := o.storage.GetStats(ctx)
	if err != nil {
		slog.Warn("Failed to load stats", "error", err)
		return &model.AppStats{}
	}
	if stats == nil {
		return &model.AppStats{}
	}
	return stats
}

// persistStats writes the counters back, fail-soft.
func (o *Organizer) persistStats(ctx context.Context, stats *model.AppStats) {
	if err := o.storage.SaveStats(ctx, stats); err != nil {
		slog.Warn("Failed to persist stats", "error", err)
	}
}
