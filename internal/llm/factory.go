package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/neatstep/neatstep/internal/common"
	"github.com/neatstep/neatstep/internal/model"
)

// generator is the provider-specific half of a client: one system+user
// exchange returning the raw response text.
type generator interface {
	generate(ctx context.Context, system, user string) (string, error)
}

// NewClient creates a classification client for the configured provider.
func NewClient(cfg Config) (Client, error) {
	var gen generator
	var err error

	switch strings.ToLower(cfg.Provider) {
	case "gemini":
		gen, err = newGeminiGenerator(cfg)
	case "openai":
		gen, err = newOpenAIGenerator(cfg)
	case "anthropic":
		gen, err = newAnthropicGenerator(cfg)
	default:
		return nil, fmt.Errorf("%w: unsupported LLM provider: %s", common.ErrInvalidConfig, cfg.Provider)
	}

	if err != nil {
		return nil, fmt.Errorf("failed to create LLM client: %w", err)
	}

	return &client{gen: gen}, nil
}

// client implements Client on top of a provider generator.
type client struct {
	gen generator
}

// AnalyzeBatch sends one chunk to the provider and decodes the aggregate
// response. Single-shot: any transport or schema failure is final.
func (c *client) AnalyzeBatch(ctx context.Context, files []BatchFile, feedback string) (model.AggregateAnalysis, error) {
	if len(files) == 0 {
		return model.AggregateAnalysis{}, common.ErrNoFiles
	}

	prompt, err := buildBatchPrompt(files, feedback)
	if err != nil {
		return model.AggregateAnalysis{}, err
	}

	content, err := c.gen.generate(ctx, buildSystemInstruction(), prompt)
	if err != nil {
		return model.AggregateAnalysis{}, fmt.Errorf("%w: %v", common.ErrClassificationFailed, err)
	}

	return decodeAggregate(content)
}

// GenerateInsights asks the provider for dashboard advisories.
func (c *client) GenerateInsights(ctx context.Context, stats StatsContext) ([]model.DashboardInsight, error) {
	prompt, err := buildInsightPrompt(stats)
	if err != nil {
		return nil, err
	}

	content, err := c.gen.generate(ctx, "", prompt)
	if err != nil {
		return nil, err
	}

	return decodeInsights(content)
}
