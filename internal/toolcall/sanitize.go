package toolcall

import (
	"regexp"
	"strings"

	"github.com/tidwall/gjson"
)

var (
	toolCallMarkerPattern = regexp.MustCompile(`(?i)\*{0,2}TOOL CALL:\*{0,2}`)
	residualFencePattern  = regexp.MustCompile("(?s)```(?:tool_calls?|tool_code)\\b[ \t]*\r?\n?(.*?)```")
	callLinePattern       = regexp.MustCompile(`^\s*\{\s*"name"\s*:\s*"[^"]*"\s*,\s*"arguments"\s*:\s*\{.*\}\s*\}\s*$`)
	residualTagPattern    = regexp.MustCompile(`(?s)<tool_call>.*?</tool_call>|<\|tool_call_start\|>.*?<\|tool_call_end\|>`)
	fenceCallSignature    = regexp.MustCompile(`"name"\s*:`)
	tagCallSignature      = regexp.MustCompile(`"name"\s*:|\bname=`)
)

// SanitizeContent removes residual tool-call-looking fragments that were
// never successfully parsed: leaked markers, malformed wrapper blocks, and
// call syntax the model explained in prose.
//
// A fenced or tagged block is removed only when it carries a call signature
// ("name": for fences, additionally name= for tag wrappers). That guard is
// the load-bearing rule here: a legitimate code sample inside a fence without
// a name field is never deleted. Standalone {"name": ..., "arguments": ...}
// lines are dropped only when at least one call was successfully extracted,
// so an assistant message that consists of nothing but an unparsed call is
// not blanked.
func SanitizeContent(content string, hadSuccessfulToolCalls bool) string {
	out := toolCallMarkerPattern.ReplaceAllString(content, "")

	out = residualFencePattern.ReplaceAllStringFunc(out, func(block string) string {
		body := residualFencePattern.FindStringSubmatch(block)[1]
		if fenceLooksLikeCall(body) {
			return ""
		}
		return block
	})

	if hadSuccessfulToolCalls {
		lines := strings.Split(out, "\n")
		kept := make([]string, 0, len(lines))
		for _, line := range lines {
			if callLinePattern.MatchString(line) {
				continue
			}
			kept = append(kept, line)
		}
		out = strings.Join(kept, "\n")
	}

	out = residualTagPattern.ReplaceAllStringFunc(out, func(block string) string {
		if tagCallSignature.MatchString(block) {
			return ""
		}
		return block
	})

	lines := strings.Split(out, "\n")
	for i, line := range lines {
		if strings.TrimSpace(line) == "" {
			lines[i] = ""
		}
	}
	out = tripleNewlinePattern.ReplaceAllString(strings.Join(lines, "\n"), "\n\n")
	return strings.TrimSpace(out)
}

func fenceLooksLikeCall(body string) bool {
	if gjson.Get(body, "name").Type == gjson.String {
		return true
	}
	return fenceCallSignature.MatchString(body)
}
