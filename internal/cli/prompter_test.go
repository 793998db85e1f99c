package cli

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/neatstep/neatstep/internal/model"
	"github.com/neatstep/neatstep/internal/review"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testAnalysis() model.AggregateAnalysis {
	return model.AggregateAnalysis{
		Summary:     "Mixed documents and leftovers",
		Strategy:    "Group by purpose",
		ImpactScore: 70,
		Analyses: []model.AnalysisResult{
			{OriginalName: "notes.txt", SuggestedName: "meeting-notes.txt", Category: model.CategoryWork, SuggestedFolder: "Work", Reason: "meeting notes"},
			{OriginalName: "tax.pdf", SuggestedName: "tax-return-2025.pdf", Category: model.CategoryFinance, SuggestedFolder: "Finance", Reason: "tax return", ContainsSensitiveData: true},
			{OriginalName: "junk.tmp", SuggestedName: "junk.tmp", Category: model.CategoryJunk, SuggestedFolder: "Junk", Reason: "temporary file", IsJunk: true},
		},
	}
}

func names(results []model.AnalysisResult) []string {
	out := make([]string, len(results))
	for i, r := range results {
		out[i] = r.OriginalName
	}
	return out
}

func TestPrompterApplyDefaultSelection(t *testing.T) {
	var out bytes.Buffer
	p := NewPrompter(strings.NewReader("go\n"), &out)

	outcome, err := p.Review(context.Background(), testAnalysis())
	require.NoError(t, err)

	assert.Equal(t, review.ActionApply, outcome.Action)
	assert.Equal(t, []string{"notes.txt", "junk.tmp"}, names(outcome.Selected),
		"sensitive item stays locked without consent")
	assert.Contains(t, out.String(), "Group by purpose")
	assert.Contains(t, out.String(), "70/100")
}

func TestPrompterToggle(t *testing.T) {
	var out bytes.Buffer
	p := NewPrompter(strings.NewReader("toggle 3\ngo\n"), &out)

	outcome, err := p.Review(context.Background(), testAnalysis())
	require.NoError(t, err)

	assert.Equal(t, review.ActionApply, outcome.Action)
	assert.Equal(t, []string{"notes.txt"}, names(outcome.Selected))
}

func TestPrompterToggleLockedItemRefused(t *testing.T) {
	var out bytes.Buffer
	p := NewPrompter(strings.NewReader("toggle 2\ngo\n"), &out)

	outcome, err := p.Review(context.Background(), testAnalysis())
	require.NoError(t, err)

	assert.NotContains(t, names(outcome.Selected), "tax.pdf")
	assert.Contains(t, out.String(), "sensitive data")
}

func TestPrompterGrantConsent(t *testing.T) {
	var out bytes.Buffer
	p := NewPrompter(strings.NewReader("grant 2\ngo\n"), &out)

	outcome, err := p.Review(context.Background(), testAnalysis())
	require.NoError(t, err)

	assert.Equal(t, []string{"notes.txt", "tax.pdf", "junk.tmp"}, names(outcome.Selected),
		"consent selects the item and input order is preserved")
}

func TestPrompterRefine(t *testing.T) {
	var out bytes.Buffer
	p := NewPrompter(strings.NewReader("refine group by project year\n"), &out)

	outcome, err := p.Review(context.Background(), testAnalysis())
	require.NoError(t, err)

	assert.Equal(t, review.ActionRefine, outcome.Action)
	assert.Equal(t, "group by project year", outcome.Feedback)
}

func TestPrompterQuitAndEOF(t *testing.T) {
	for name, input := range map[string]string{
		"quit": "quit\n",
		"eof":  "",
	} {
		t.Run(name, func(t *testing.T) {
			var out bytes.Buffer
			p := NewPrompter(strings.NewReader(input), &out)

			outcome, err := p.Review(context.Background(), testAnalysis())
			require.NoError(t, err)
			assert.Equal(t, review.ActionAbort, outcome.Action)
		})
	}
}

func TestPrompterRejectsEmptySelection(t *testing.T) {
	var out bytes.Buffer
	p := NewPrompter(strings.NewReader("toggle 1\ntoggle 3\ngo\nquit\n"), &out)

	outcome, err := p.Review(context.Background(), testAnalysis())
	require.NoError(t, err)

	assert.Equal(t, review.ActionAbort, outcome.Action)
	assert.Contains(t, out.String(), "Nothing selected")
}

func TestPrompterAlreadyOrganizedAdvisory(t *testing.T) {
	analysis := testAnalysis()
	analysis.IsAlreadyOrganized = true

	t.Run("keep aborts", func(t *testing.T) {
		var out bytes.Buffer
		p := NewPrompter(strings.NewReader("k\n"), &out)

		outcome, err := p.Review(context.Background(), analysis)
		require.NoError(t, err)
		assert.Equal(t, review.ActionAbort, outcome.Action)
	})

	t.Run("fresh strategy refines with canned feedback", func(t *testing.T) {
		var out bytes.Buffer
		p := NewPrompter(strings.NewReader("f\n"), &out)

		outcome, err := p.Review(context.Background(), analysis)
		require.NoError(t, err)
		assert.Equal(t, review.ActionRefine, outcome.Action)
		assert.Equal(t, review.FreshStrategyFeedback, outcome.Feedback)
	})

	t.Run("manual review continues into the loop", func(t *testing.T) {
		var out bytes.Buffer
		p := NewPrompter(strings.NewReader("r\ngo\n"), &out)

		outcome, err := p.Review(context.Background(), analysis)
		require.NoError(t, err)
		assert.Equal(t, review.ActionApply, outcome.Action)
		assert.Len(t, outcome.Selected, 2)
	})
}

func TestPrompterCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	p := NewPrompter(strings.NewReader("go\n"), &bytes.Buffer{})
	_, err := p.Review(ctx, testAnalysis())
	assert.ErrorIs(t, err, context.Canceled)
}
