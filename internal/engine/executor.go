package engine

import (
	"context"
	"fmt"
	"log/slog"
	"path"
	"strings"

	"github.com/neatstep/neatstep/internal/common"
	"github.com/neatstep/neatstep/internal/model"
)

// Apply executes the reviewed subset of suggestions, strictly sequentially.
// Per item: resolve the source descriptor by original name, create the
// target folder chain, then move-and-rename atomically. Individual failures
// are logged and skipped; the batch always runs to the end. Afterwards a
// fresh scan replaces the (now stale) file list regardless of outcome, and
// the cumulative stats are updated and persisted.
func (o *Organizer) Apply(ctx context.Context, selected []model.AnalysisResult) (model.ExecutionSummary, error) {
	files := o.Files()

	byName := make(map[string]model.FileDescriptor, len(files))
	for _, f := range files {
		byName[f.Name] = f
	}

	var summary model.ExecutionSummary
	foldersTouched := make(map[string]bool)

	for _, result := range selected {
		desc, ok := byName[result.OriginalName]
		if !ok || desc.Handle == nil {
			summary.Failed++
			o.logActivity(ctx, model.ActionMove,
				fmt.Sprintf("Relocation failed for %s: %v", result.OriginalName, common.ErrResolutionMiss),
				model.StatusFailed)
			continue
		}

		targetDir, err := o.ensureFolder(ctx, result.SuggestedFolder)
		if err != nil {
			summary.Failed++
			o.logActivity(ctx, model.ActionMove,
				fmt.Sprintf("Relocation failed for %s: %v", result.OriginalName, err),
				model.StatusFailed)
			continue
		}

		if err := o.fs.MoveAndRename(ctx, desc.Handle, targetDir, result.SuggestedName); err != nil {
			summary.Failed++
			o.logActivity(ctx, model.ActionMove,
				fmt.Sprintf("Relocation failed for %s: %v", result.OriginalName, err),
				model.StatusFailed)
			continue
		}

		summary.FilesMoved++
		if result.IsJunk {
			summary.JunkMoved++
		}
		if !result.KeepsInRoot() {
			foldersTouched[targetDir] = true
		}

		o.logActivity(ctx, model.ActionMove,
			fmt.Sprintf("Moved %s to %s", result.OriginalName, path.Join(targetDir, result.SuggestedName)),
			model.StatusSuccess)
	}

	summary.FoldersCreated = len(foldersTouched)

	o.accumulateStats(ctx, files, summary)

	// Refresh the file list: every surviving handle is stale after moves.
	if _, err := o.Scan(ctx); err != nil {
		slog.Warn("Post-execution rescan failed", "error", err)
	}

	return summary, nil
}

// ensureFolder creates each segment of the suggested folder under the scan
// root, idempotently, and returns the target directory path. Root-equivalent
// suggestions resolve to ".".
func (o *Organizer) ensureFolder(ctx context.Context, suggested string) (string, error) {
	switch suggested {
	case "", ".", "/":
		return ".", nil
	}

	current := "."
	for _, segment := range strings.Split(suggested, "/") {
		segment = strings.TrimSpace(segment)
		if segment == "" {
			continue
		}

		created, err := o.fs.CreateSubdirectory(ctx, current, segment)
		if err != nil {
			return "", fmt.Errorf("failed to create folder %s: %w", segment, err)
		}
		current = created
	}

	return current, nil
}

// accumulateStats folds one execution summary into the persisted counters.
func (o *Organizer) accumulateStats(ctx context.Context, scanned []model.FileDescriptor, summary model.ExecutionSummary) {
	stats := o.loadStats(ctx)

	var scannedBytes int64
	for _, f := range scanned {
		scannedBytes += f.Size
	}

	stats.FilesAnalyzed += int64(summary.FilesMoved)
	stats.JunkFound += int64(summary.JunkMoved)
	stats.FoldersCreated += int64(summary.FoldersCreated)
	stats.SpaceAnalyzed += scannedBytes

	o.persistStats(ctx, stats)
}
