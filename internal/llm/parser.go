package llm

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"

	"github.com/neatstep/neatstep/internal/common"
	"github.com/neatstep/neatstep/internal/model"
)

// extractJSON strips markdown code fences and surrounding chatter, returning
// the JSON document embedded in an LLM response.
func extractJSON(content string) string {
	s := strings.TrimSpace(content)

	if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```json")
		s = strings.TrimPrefix(s, "```")
		if idx := strings.LastIndex(s, "```"); idx >= 0 {
			s = s[:idx]
		}
		s = strings.TrimSpace(s)
	}

	// Some providers prepend prose despite instructions; keep everything
	// between the first opening bracket and the last closing one.
	start := strings.IndexAny(s, "{[")
	if start < 0 {
		return s
	}
	end := strings.LastIndexAny(s, "}]")
	if end < start {
		return s
	}
	return s[start : end+1]
}

// aggregateWire mirrors the response schema with lenient numeric types.
type aggregateWire struct {
	Summary            string `json:"summary"`
	Strategy           string `json:"strategy"`
	Analyses           []analysisWire `json:"analyses"`
	ImpactScore        float64 `json:"impactScore"`
	IsAlreadyOrganized bool    `json:"isAlreadyOrganized"`
}

type analysisWire struct {
	OriginalName          string   `json:"originalName"`
	SuggestedName         string   `json:"suggestedName"`
	Category              string   `json:"category"`
	Reason                string   `json:"reason"`
	SuggestedFolder       string   `json:"suggestedFolder"`
	ContextTags           []string `json:"contextTags"`
	Confidence            float64  `json:"confidence"`
	IsJunk                bool     `json:"isJunk"`
	ContainsSensitiveData bool     `json:"containsSensitiveData"`
}

// decodeAggregate parses one batch response. Any deviation from the schema
// is a malformed-response error; the caller treats it as a failed batch.
func decodeAggregate(content string) (model.AggregateAnalysis, error) {
	var wire aggregateWire
	if err := json.Unmarshal([]byte(extractJSON(content)), &wire); err != nil {
		return model.AggregateAnalysis{}, fmt.Errorf("%w: %v", common.ErrMalformedResponse, err)
	}

	agg := model.AggregateAnalysis{
		Summary:            wire.Summary,
		Strategy:           wire.Strategy,
		ImpactScore:        clampScore(wire.ImpactScore),
		IsAlreadyOrganized: wire.IsAlreadyOrganized,
		Analyses:           make([]model.AnalysisResult, 0, len(wire.Analyses)),
	}

	for _, a := range wire.Analyses {
		if a.OriginalName == "" {
			return model.AggregateAnalysis{}, fmt.Errorf("%w: analysis entry without originalName", common.ErrMalformedResponse)
		}

		suggested := a.SuggestedName
		if suggested == "" {
			suggested = a.OriginalName
		}

		agg.Analyses = append(agg.Analyses, model.AnalysisResult{
			OriginalName:          a.OriginalName,
			SuggestedName:         suggested,
			Category:              a.Category,
			Reason:                a.Reason,
			SuggestedFolder:       a.SuggestedFolder,
			ContextTags:           a.ContextTags,
			Confidence:            clampConfidence(a.Confidence),
			IsJunk:                a.IsJunk,
			ContainsSensitiveData: a.ContainsSensitiveData,
		})
	}

	return agg, nil
}

// decodeInsights parses the insight response: a bare JSON array, or an
// object wrapping one under "insights".
func decodeInsights(content string) ([]model.DashboardInsight, error) {
	raw := extractJSON(content)

	var insights []model.DashboardInsight
	if err := json.Unmarshal([]byte(raw), &insights); err == nil {
		return insights, nil
	}

	var wrapped struct {
		Insights []model.DashboardInsight `json:"insights"`
	}
	if err := json.Unmarshal([]byte(raw), &wrapped); err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrMalformedResponse, err)
	}

	return wrapped.Insights, nil
}

func clampConfidence(v float64) float64 {
	return math.Min(1, math.Max(0, v))
}

func clampScore(v float64) int {
	return int(math.Round(math.Min(100, math.Max(0, v))))
}
