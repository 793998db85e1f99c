package llm

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/neatstep/neatstep/internal/model"
)

// systemInstruction fixes the collaborator's role and the response schema
// every batch request must conform to.
const systemInstruction = `You are a file organization consultant. Your mission is to transform chaotic local folders into clean, professional structures.

TASKS:
1. SUMMARY: Provide a 1-sentence observation about the provided file collection.
2. STRATEGY: Define a master organization plan (e.g., "Group by fiscal year and isolate media assets").
3. IMPACT SCORE: A number 0-100 indicating how messy the current state is (100 = total chaos).
4. ANALYSIS: For each file:
   - SUGGESTED NAME: Clean, professional name. KEEP the original if it is a standard technical file (e.g., "package.json", "index.ts").
   - CATEGORY: one of %s, or a better fitting label.
   - JUNK STATUS: Boolean. Flag empty, temp, or randomly named nonsense.
   - REASONING: Concise explanation of the logic.
   - SUGGESTED FOLDER: A subfolder path relative to the scan root (e.g., "Project/Assets/Icons"), or "." to keep the file where it is.
   - CONFIDENCE: A decimal between 0.0 and 1.0.
   - CONTEXT TAGS: 2-3 short tags (e.g., "Invoice", "2023").
   - SENSITIVE DATA: Boolean. Flag files whose snippet contains credentials, API keys or passwords.

Also report "isAlreadyOrganized": true when the collection needs no reorganization.

Respond with JSON only, following this schema exactly:
{
  "summary": "string",
  "strategy": "string",
  "impactScore": number,
  "isAlreadyOrganized": boolean,
  "analyses": [
    {
      "originalName": "string",
      "suggestedName": "string",
      "category": "string",
      "isJunk": boolean,
      "reason": "string",
      "suggestedFolder": "string",
      "confidence": number,
      "containsSensitiveData": boolean,
      "contextTags": ["string"]
    }
  ]
}`

// insightInstruction asks for dashboard advisories from cumulative stats.
const insightInstruction = `Analyze these file system stats and provide 3 curator insights.
Focus on behavioral patterns like digital hoarding, inconsistent naming conventions, or project sprawl.
Respond with a JSON array of objects with: title, description, type (optimization/security/clutter), priority (high/medium/low).`

// buildSystemInstruction fills the category list into the system prompt.
func buildSystemInstruction() string {
	return fmt.Sprintf(systemInstruction, `"`+strings.Join(model.KnownCategories(), `", "`)+`"`)
}

// buildBatchPrompt serializes one chunk of files, appending the user's
// refinement feedback when present.
func buildBatchPrompt(files []BatchFile, feedback string) (string, error) {
	payload, err := json.Marshal(files)
	if err != nil {
		return "", fmt.Errorf("failed to marshal batch: %w", err)
	}

	var b strings.Builder
	b.WriteString("Analyze this batch of files and determine if they are organized. Also check snippets for secrets: ")
	b.Write(payload)

	if feedback != "" {
		fmt.Fprintf(&b, "\n\nUSER STRATEGY/REFINEMENT: %q. Override previous logic with this.", feedback)
	}

	return b.String(), nil
}

// buildInsightPrompt serializes the stats context for insight generation.
func buildInsightPrompt(stats StatsContext) (string, error) {
	payload, err := json.Marshal(stats)
	if err != nil {
		return "", fmt.Errorf("failed to marshal stats context: %w", err)
	}

	return fmt.Sprintf("%s\nStats Context: %s", insightInstruction, payload), nil
}
