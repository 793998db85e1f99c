package review

import "github.com/neatstep/neatstep/internal/model"

// Action is what the user decided to do with a reviewed analysis.
type Action int

const (
	// ActionAbort discards the analysis without touching the filesystem.
	ActionAbort Action = iota
	// ActionApply executes the selected suggestions.
	ActionApply
	// ActionRefine re-runs the analysis with user feedback.
	ActionRefine
)

// FreshStrategyFeedback is the refinement sent when the user asks for a new
// take on a folder the classifier considers already organized.
const FreshStrategyFeedback = "The folder is already clean, but I want a DIFFERENT, fresh approach to organization. Group them by a new logic like Project Phase or Priority."

// Outcome is the result of one review session over a gate.
type Outcome struct {
	Feedback string
	Selected []model.AnalysisResult
	Action   Action
}
