package toolcall

// ToolCall is a structured tool invocation recovered from model output.
// ID is unique within a single parse invocation, Name is non-empty, and
// Arguments holds JSON-representable values only.
type ToolCall struct {
	ID        string         `json:"id"`
	Name      string         `json:"name"`
	Arguments map[string]any `json:"arguments"`
}

// ToolResult carries the outcome of dispatching one tool call. The dispatcher
// lives outside this package; only FormatToolResultsForAI consumes this shape.
type ToolResult struct {
	Name   string `json:"name"`
	Result any    `json:"result,omitempty"`
	Error  string `json:"error,omitempty"`
}

// ParseOutcome pairs the cleaned message text with the calls found in it,
// ordered by first appearance in the original text.
type ParseOutcome struct {
	Content   string     `json:"content"`
	ToolCalls []ToolCall `json:"toolCalls"`
}

// span is a half-open byte range in the original text claimed by one match.
// Spans are internal only; the cleaned content is built by excluding them.
type span struct {
	start int
	end   int
}

func (s span) overlaps(o span) bool {
	return s.start < o.end && o.start < s.end
}

func overlapsAny(claimed []span, candidate span) bool {
	for _, sp := range claimed {
		if sp.overlaps(candidate) {
			return true
		}
	}
	return false
}

// callRecord is a confirmed name/arguments pair before ID assignment.
type callRecord struct {
	name string
	args map[string]any
}

// match binds one or more confirmed calls to the text span that produced
// them. Token-wrapped arrays yield several calls from a single span.
type match struct {
	span  span
	calls []callRecord
}
