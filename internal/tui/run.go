package tui

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/neatstep/neatstep/internal/model"
	"github.com/neatstep/neatstep/internal/review"
)

// Run shows the full-screen review for one analysis and blocks until the
// user decides. Cancelling the context aborts the review.
func Run(ctx context.Context, analysis model.AggregateAnalysis) (review.Outcome, error) {
	program := tea.NewProgram(NewModel(analysis),
		tea.WithAltScreen(),
		tea.WithContext(ctx),
	)

	final, err := program.Run()
	if err != nil {
		return review.Outcome{}, fmt.Errorf("review screen failed: %w", err)
	}

	m, ok := final.(Model)
	if !ok {
		return review.Outcome{}, fmt.Errorf("unexpected model type %T", final)
	}

	return m.Outcome(), nil
}
