package review

import (
	"testing"

	"github.com/neatstep/neatstep/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func analysisFixture() model.AggregateAnalysis {
	return model.AggregateAnalysis{
		Summary: "Three files, one sensitive.",
		Analyses: []model.AnalysisResult{
			{OriginalName: "a.txt", SuggestedName: "Notes-A.txt", SuggestedFolder: "Notes"},
			{OriginalName: "b.txt", SuggestedName: "Secrets.txt", SuggestedFolder: "Vault", ContainsSensitiveData: true},
			{OriginalName: "c.tmp", SuggestedName: "c.tmp", SuggestedFolder: "Junk", IsJunk: true},
		},
	}
}

func TestNewGate_InitialSelection(t *testing.T) {
	g := NewGate(analysisFixture())

	assert.True(t, g.IsSelected("a.txt"))
	assert.True(t, g.IsSelected("c.tmp"))
	assert.False(t, g.IsSelected("b.txt"), "sensitive items start unselected")
	assert.True(t, g.IsLocked("b.txt"))
	assert.False(t, g.IsLocked("a.txt"))
	assert.Equal(t, 2, g.SelectedCount())
	assert.Equal(t, 2, g.SelectableCount())
}

func TestGate_ToggleRespectsLock(t *testing.T) {
	g := NewGate(analysisFixture())

	g.Toggle("b.txt")
	assert.False(t, g.IsSelected("b.txt"), "toggle is a no-op while locked")

	g.Toggle("a.txt")
	assert.False(t, g.IsSelected("a.txt"))
	g.Toggle("a.txt")
	assert.True(t, g.IsSelected("a.txt"))

	g.Toggle("nope.txt") // unknown names are ignored
	assert.Equal(t, 2, g.SelectedCount())
}

func TestGate_GrantConsent(t *testing.T) {
	g := NewGate(analysisFixture())

	g.GrantConsent("b.txt")
	assert.True(t, g.HasConsent("b.txt"))
	assert.True(t, g.IsSelected("b.txt"), "consent auto-selects")
	assert.False(t, g.IsLocked("b.txt"))

	// Idempotent, and still selected after repeated calls from any state.
	g.Toggle("b.txt")
	assert.False(t, g.IsSelected("b.txt"), "consented items become toggleable")
	g.GrantConsent("b.txt")
	assert.True(t, g.IsSelected("b.txt"))
	assert.True(t, g.HasConsent("b.txt"))

	assert.Equal(t, 3, g.SelectableCount())
}

func TestGate_SelectAllToggleLaw(t *testing.T) {
	t.Run("from full selectable set clears", func(t *testing.T) {
		g := NewGate(analysisFixture())
		// Fresh gate already has all selectable (safe) items selected.
		g.SelectAll()
		assert.Equal(t, 0, g.SelectedCount())
	})

	t.Run("from partial state selects exactly the selectable set", func(t *testing.T) {
		g := NewGate(analysisFixture())
		g.Toggle("a.txt")
		require.Equal(t, 1, g.SelectedCount())

		g.SelectAll()
		assert.True(t, g.IsSelected("a.txt"))
		assert.True(t, g.IsSelected("c.tmp"))
		assert.False(t, g.IsSelected("b.txt"), "select-all never grants consent")
	})

	t.Run("consented items join the selectable set", func(t *testing.T) {
		g := NewGate(analysisFixture())
		g.GrantConsent("b.txt")
		g.SelectAll() // all three selected -> clears
		assert.Equal(t, 0, g.SelectedCount())

		g.SelectAll()
		assert.Equal(t, 3, g.SelectedCount())
	})

	t.Run("empty selection selects all selectable", func(t *testing.T) {
		g := NewGate(analysisFixture())
		g.Toggle("a.txt")
		g.Toggle("c.tmp")
		require.Equal(t, 0, g.SelectedCount())

		g.SelectAll()
		assert.Equal(t, 2, g.SelectedCount())
	})
}

func TestGate_SelectedPreservesInputOrder(t *testing.T) {
	g := NewGate(analysisFixture())
	g.GrantConsent("b.txt")

	selected := g.Selected()
	require.Len(t, selected, 3)
	assert.Equal(t, "a.txt", selected[0].OriginalName)
	assert.Equal(t, "b.txt", selected[1].OriginalName)
	assert.Equal(t, "c.tmp", selected[2].OriginalName)
}

func TestGate_EndToEndScenario(t *testing.T) {
	// End to end: safe a.txt, sensitive b.txt, junk c.tmp.
	g := NewGate(analysisFixture())

	selected := g.Selected()
	require.Len(t, selected, 2)
	assert.Equal(t, "a.txt", selected[0].OriginalName)
	assert.Equal(t, "c.tmp", selected[1].OriginalName)

	g.GrantConsent("b.txt")
	selected = g.Selected()
	require.Len(t, selected, 3)
}
