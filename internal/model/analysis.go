package model

// Well-known categories suggested to the classifier. The set is open: the
// collaborator may return labels outside this list and they are kept as-is.
const (
	CategoryWork      = "Work"
	CategoryPersonal  = "Personal"
	CategoryCode      = "Code"
	CategoryFinance   = "Finance"
	CategoryEducation = "Education"
	CategoryMedia     = "Media"
	CategoryJunk      = "Junk"
)

// KnownCategories lists the labels offered to the classification collaborator.
func KnownCategories() []string {
	return []string{
		CategoryWork,
		CategoryPersonal,
		CategoryCode,
		CategoryFinance,
		CategoryEducation,
		CategoryMedia,
		CategoryJunk,
	}
}

// AnalysisResult is one classification outcome for one scanned file. It is
// joined back to the scan by OriginalName and never mutated after creation.
type AnalysisResult struct {
	OriginalName          string   `json:"originalName"`
	SuggestedName         string   `json:"suggestedName"`
	Category              string   `json:"category"`
	Reason                string   `json:"reason"`
	SuggestedFolder       string   `json:"suggestedFolder"` // slash-separated, "." means root
	ContextTags           []string `json:"contextTags,omitempty"`
	Confidence            float64  `json:"confidence"`
	IsJunk                bool     `json:"isJunk"`
	ContainsSensitiveData bool     `json:"containsSensitiveData,omitempty"`
}

// KeepsInRoot reports whether the suggestion leaves the file in the scan root.
func (a AnalysisResult) KeepsInRoot() bool {
	switch a.SuggestedFolder {
	case "", ".", "/":
		return true
	}
	return false
}

// AggregateAnalysis is one scan's full classification: the merged result of
// every per-chunk collaborator response.
type AggregateAnalysis struct {
	Summary            string           `json:"summary"`
	Strategy           string           `json:"strategy"`
	Analyses           []AnalysisResult `json:"analyses"` // input file order
	ImpactScore        int              `json:"impactScore"` // 0-100, 100 = maximal disorder
	IsAlreadyOrganized bool             `json:"isAlreadyOrganized,omitempty"`
}

// DashboardInsight is a best-effort advisory produced from cumulative stats.
type DashboardInsight struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Type        string `json:"type"`     // optimization, security, clutter
	Priority    string `json:"priority"` // high, medium, low
}
