package engine

import (
	"context"

	"github.com/neatstep/neatstep/internal/llm"
	"github.com/neatstep/neatstep/internal/model"
)

// Classifier defines the contract for the external classification
// collaborator consumed by the organizer.
type Classifier interface {
	AnalyzeBatch(ctx context.Context, files []llm.BatchFile, feedback string) (model.AggregateAnalysis, error)
	GenerateInsights(ctx context.Context, stats llm.StatsContext) ([]model.DashboardInsight, error)
}

// ProgressFunc reports analysis progress: files handed to the collaborator
// so far out of the total scheduled.
type ProgressFunc func(processed, total int)
