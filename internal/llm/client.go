package llm

import (
	"context"
	"fmt"

	"github.com/neatstep/neatstep/internal/model"
)

// Client defines the interface for the classification collaborator.
type Client interface {
	// AnalyzeBatch classifies one chunk of scanned files. The optional
	// feedback string instructs the collaborator to override its prior
	// heuristics with the user's stated preference. Any failure aborts the
	// caller's whole multi-chunk analysis.
	AnalyzeBatch(ctx context.Context, files []BatchFile, feedback string) (model.AggregateAnalysis, error)

	// GenerateInsights produces dashboard advisories from cumulative
	// stats. Best-effort: callers treat any error as an empty result.
	GenerateInsights(ctx context.Context, stats StatsContext) ([]model.DashboardInsight, error)
}

// BatchFile is the compact projection of a file descriptor sent to the
// collaborator.
type BatchFile struct {
	Name    string `json:"name"`
	Type    string `json:"type"`
	Size    string `json:"size"`
	Snippet string `json:"snippet"`
	Path    string `json:"path"`
}

// NewBatchFile projects a scanned descriptor into its wire form.
func NewBatchFile(d model.FileDescriptor) BatchFile {
	snippet := d.ContentSnippet
	if snippet == "" {
		snippet = "No snippet available"
	}

	return BatchFile{
		Name:    d.Name,
		Type:    d.MIMEType,
		Size:    fmt.Sprintf("%.2f KB", float64(d.Size)/1024),
		Snippet: snippet,
		Path:    d.Path,
	}
}

// StatsContext summarizes the scanned tree for insight generation.
type StatsContext struct {
	FileTypes  []string `json:"fileTypes"`
	TotalFiles int      `json:"totalFiles"`
	TotalSize  int64    `json:"totalSize"`
}

// Config holds configuration for the classification collaborator.
type Config struct {
	Provider    string
	APIKey      string
	Model       string
	Temperature float64
	MaxTokens   int
}
