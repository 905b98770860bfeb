package toolcall

import (
	"fmt"
	"strings"

	"github.com/jimxer74/find-my-crew-sub005/internal/shared/jsonx"
)

// FormatToolResultsForAI renders dispatcher results as text for the next
// model turn: an error line per failed tool, a pretty-printed result block
// per successful one, joined with blank lines.
func FormatToolResultsForAI(results []ToolResult) string {
	parts := make([]string, 0, len(results))
	for _, r := range results {
		if r.Error != "" {
			parts = append(parts, fmt.Sprintf("Tool %s error: %s", r.Name, r.Error))
			continue
		}
		pretty, err := jsonx.MarshalIndent(r.Result, "", "  ")
		if err != nil {
			parts = append(parts, fmt.Sprintf("Tool %s result:\n%v", r.Name, r.Result))
			continue
		}
		parts = append(parts, fmt.Sprintf("Tool %s result:\n%s", r.Name, pretty))
	}
	return strings.Join(parts, "\n\n")
}
