package engine

import (
	"context"
	"fmt"
	"path"
	"strings"
	"sync"

	"github.com/neatstep/neatstep/internal/llm"
	"github.com/neatstep/neatstep/internal/model"
)

// MockClassifier is a test implementation of the Classifier interface. It
// returns deterministic suggestions based on file names and records every
// batch it receives.
type MockClassifier struct {
	// FailOnBatch makes the nth call (1-based) fail; 0 disables.
	FailOnBatch int
	// ImpactScores overrides the per-batch impact score, by call index.
	ImpactScores []int
	// MarkSensitive flags these original names as containing secrets.
	MarkSensitive map[string]bool
	// AlreadyOrganized is reported on the first batch.
	AlreadyOrganized bool
	// Insights and InsightErr script GenerateInsights.
	Insights   []model.DashboardInsight
	InsightErr error

	batches      [][]llm.BatchFile
	feedbacks    []string
	insightCalls int
	mu           sync.Mutex
}

// NewMockClassifier creates a new mock classifier.
func NewMockClassifier() *MockClassifier {
	return &MockClassifier{MarkSensitive: make(map[string]bool)}
}

// Batches returns a copy of every batch received, in call order.
func (m *MockClassifier) Batches() [][]llm.BatchFile {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([][]llm.BatchFile, len(m.batches))
	copy(out, m.batches)
	return out
}

// Feedbacks returns the feedback string passed with each batch.
func (m *MockClassifier) Feedbacks() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.feedbacks))
	copy(out, m.feedbacks)
	return out
}

// InsightCalls returns how many times GenerateInsights ran.
func (m *MockClassifier) InsightCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.insightCalls
}

// AnalyzeBatch synthesizes one analysis per file: category by extension,
// junk for temp files, a suggested folder named after the category.
func (m *MockClassifier) AnalyzeBatch(_ context.Context, files []llm.BatchFile, feedback string) (model.AggregateAnalysis, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.batches = append(m.batches, files)
	m.feedbacks = append(m.feedbacks, feedback)
	call := len(m.batches)

	if m.FailOnBatch > 0 && call == m.FailOnBatch {
		return model.AggregateAnalysis{}, fmt.Errorf("simulated collaborator failure on batch %d", call)
	}

	agg := model.AggregateAnalysis{
		Summary:            fmt.Sprintf("Batch %d summary", call),
		Strategy:           fmt.Sprintf("Batch %d strategy", call),
		ImpactScore:        50,
		IsAlreadyOrganized: m.AlreadyOrganized && call == 1,
	}
	if len(m.ImpactScores) >= call {
		agg.ImpactScore = m.ImpactScores[call-1]
	}

	for _, f := range files {
		category := categoryForName(f.Name)
		agg.Analyses = append(agg.Analyses, model.AnalysisResult{
			OriginalName:          f.Name,
			SuggestedName:         f.Name,
			Category:              category,
			IsJunk:                category == model.CategoryJunk,
			Reason:                "pattern match on name",
			SuggestedFolder:       category,
			Confidence:            0.9,
			ContainsSensitiveData: m.MarkSensitive[f.Name],
		})
	}

	return agg, nil
}

func categoryForName(name string) string {
	lower := strings.ToLower(name)
	switch {
	case strings.HasSuffix(lower, ".tmp") || strings.Contains(lower, "untitled"):
		return model.CategoryJunk
	case strings.Contains(lower, "invoice") || strings.Contains(lower, "receipt"):
		return model.CategoryFinance
	default:
		switch path.Ext(lower) {
		case ".go", ".py", ".js", ".ts":
			return model.CategoryCode
		case ".png", ".jpg", ".mp4", ".cr2":
			return model.CategoryMedia
		default:
			return model.CategoryPersonal
		}
	}
}

// GenerateInsights returns the scripted insights or error.
func (m *MockClassifier) GenerateInsights(_ context.Context, _ llm.StatsContext) ([]model.DashboardInsight, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.insightCalls++
	return m.Insights, m.InsightErr
}
