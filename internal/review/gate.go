// Package review holds the selection and consent state for one analysis
// while the user decides which suggestions to apply. The gate is a pure
// state machine with no rendering; both the line prompter and the TUI drive
// it. Its state is scoped to a single aggregate analysis and is discarded
// once execution starts.
package review

import "github.com/neatstep/neatstep/internal/model"

// Gate tracks which analysis items are selected and which sensitive items
// the user has consented to touch.
type Gate struct {
	selected  map[string]bool
	consented map[string]bool
	analyses  []model.AnalysisResult
}

// NewGate builds a fresh gate for one aggregate analysis. Safe items start
// selected; sensitive items start locked and unselected with an empty
// consent set.
func NewGate(analysis model.AggregateAnalysis) *Gate {
	g := &Gate{
		selected:  make(map[string]bool),
		consented: make(map[string]bool),
		analyses:  analysis.Analyses,
	}

	for _, a := range analysis.Analyses {
		if !a.ContainsSensitiveData {
			g.selected[a.OriginalName] = true
		}
	}

	return g
}

// Items returns the analyses the gate was built over, in input order.
func (g *Gate) Items() []model.AnalysisResult {
	return g.analyses
}

// IsLocked reports whether an item is sensitive and still awaiting consent.
func (g *Gate) IsLocked(name string) bool {
	for _, a := range g.analyses {
		if a.OriginalName == name {
			return a.ContainsSensitiveData && !g.consented[name]
		}
	}
	return false
}

// IsSelected reports whether an item is currently selected.
func (g *Gate) IsSelected(name string) bool {
	return g.selected[name]
}

// HasConsent reports whether consent has been granted for an item.
func (g *Gate) HasConsent(name string) bool {
	return g.consented[name]
}

// GrantConsent unlocks a sensitive item and selects it. Irreversible within
// the session, idempotent on repeated calls.
func (g *Gate) GrantConsent(name string) {
	if !g.contains(name) {
		return
	}
	g.consented[name] = true
	g.selected[name] = true
}

// Toggle flips an item's selection. Locked items do not respond; the caller
// is expected to surface the consent prompt instead.
func (g *Gate) Toggle(name string) {
	if !g.contains(name) || g.IsLocked(name) {
		return
	}
	if g.selected[name] {
		delete(g.selected, name)
	} else {
		g.selected[name] = true
	}
}

// SelectAll toggles between "everything selectable" and nothing. If the
// current selection already equals the full selectable set it clears the
// selection; otherwise it selects exactly the selectable set. Consent is
// never granted implicitly.
func (g *Gate) SelectAll() {
	selectable := g.selectableSet()

	if len(g.selected) == len(selectable) {
		allSelected := true
		for name := range selectable {
			if !g.selected[name] {
				allSelected = false
				break
			}
		}
		if allSelected {
			g.selected = make(map[string]bool)
			return
		}
	}

	g.selected = selectable
}

// SelectedCount returns how many items are currently selected.
func (g *Gate) SelectedCount() int {
	return len(g.selected)
}

// SelectableCount returns how many items could be selected right now.
func (g *Gate) SelectableCount() int {
	return len(g.selectableSet())
}

// Selected returns the selected analyses in input order, ready for the
// executor.
func (g *Gate) Selected() []model.AnalysisResult {
	out := make([]model.AnalysisResult, 0, len(g.selected))
	for _, a := range g.analyses {
		if g.selected[a.OriginalName] {
			out = append(out, a)
		}
	}
	return out
}

func (g *Gate) contains(name string) bool {
	for _, a := range g.analyses {
		if a.OriginalName == name {
			return true
		}
	}
	return false
}

func (g *Gate) selectableSet() map[string]bool {
	set := make(map[string]bool, len(g.analyses))
	for _, a := range g.analyses {
		if !a.ContainsSensitiveData || g.consented[a.OriginalName] {
			set[a.OriginalName] = true
		}
	}
	return set
}
