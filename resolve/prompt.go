package resolve

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/opsgrid/faultline/core"
)

const promptHeader = `You are a network incident assistant helping engineers resolve issues
faster by leveraging historical knowledge.

Below are past incidents similar to the engineer's current issue, as JSON.
Analyze them and summarize, basing every suggestion on this evidence only.
Prioritize incidents with matching service impact and severity. If the
incidents are not relevant to the issue, say so instead of guessing.

Format the answer with exactly these sections:
- Root Cause: probable root cause based on historical patterns.
- Suggested Fix: recommended resolution steps.
- Similar Incidents: incident IDs with a brief description of each.`

// buildPrompt renders the retrieved incidents and the query into a single
// generation prompt. Incidents are serialized as a JSON array in rank order.
func buildPrompt(query string, incidents []core.SearchResult) (string, error) {
	context := make([]map[string]any, len(incidents))
	for i, incident := range incidents {
		context[i] = incident.Fields
	}

	payload, err := json.MarshalIndent(context, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encoding incident context: %w", err)
	}

	var b strings.Builder
	b.WriteString(promptHeader)
	b.WriteString("\n\nPast incidents:\n")
	b.Write(payload)
	b.WriteString("\n\nCurrent issue: ")
	b.WriteString(query)
	return b.String(), nil
}
