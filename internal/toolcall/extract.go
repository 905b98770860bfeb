package toolcall

import (
	"regexp"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/jimxer74/find-my-crew-sub005/internal/shared/jsonx"
)

// ImplicitProfileTool is the tool name assigned to a bare JSON object that
// carries profile fields but no explicit "name". Models asked to update a
// crew profile frequently emit the raw profile object instead of a wrapped
// call; the implicit route recovers those.
const ImplicitProfileTool = "update_user_profile"

// defaultProfileFields are the trigger keys for implicit profile calls,
// matching the crew profile shape. Injectable via WithProfileFields.
var defaultProfileFields = []string{
	"full_name",
	"bio",
	"skills",
	"risk_level",
	"certifications",
	"experience_level",
	"availability",
	"languages",
	"location",
	"sailing_experience",
}

var (
	fencedBlockPattern    = regexp.MustCompile("(?s)```(tool_calls?|tool_code|json)\\b[ \t]*\r?\n?(.*?)```")
	toolCallTagPattern    = regexp.MustCompile(`(?s)<tool_call>(.*?)</tool_call>`)
	toolCallsTokenPattern = regexp.MustCompile(`(?s)<\|tool_calls_start\|>(.*?)<\|tool_calls_end\|>`)
	toolCallTokenPattern  = regexp.MustCompile(`(?s)<\|tool_call_start\|>(.*?)<\|tool_call_end\|>`)
	functionTagPattern    = regexp.MustCompile(`(?s)<function=([^>\s]+)>(.*?)</function>`)
	parameterTagPattern   = regexp.MustCompile(`(?s)<parameter=([^>\s]+)>(.*?)</parameter>`)
	inlineToolCallPattern = regexp.MustCompile(`\btool_call\b[ \t]*:?[ \t]*\{`)
	messageCallPattern    = regexp.MustCompile(`(?s)<\|message\|>(.*?)<\|call\|>`)
)

// DeepSeek-style delimiter tokens (fullwidth bars and low lines).
const (
	deepseekCallsBegin = "<｜tool▁calls▁begin｜>"
	deepseekCallsEnd   = "<｜tool▁calls▁end｜>"
	deepseekCallBegin  = "<｜tool▁call▁begin｜>"
	deepseekCallEnd    = "<｜tool▁call▁end｜>"
	deepseekSep        = "<｜tool▁sep｜>"
)

// callFromValue accepts a parsed JSON value as an explicit call when it is an
// object with a string "name".
func callFromValue(v any) (callRecord, bool) {
	obj, ok := v.(map[string]any)
	if !ok {
		return callRecord{}, false
	}
	name, _ := obj["name"].(string)
	if name == "" {
		return callRecord{}, false
	}
	return callRecord{name: name, args: argsOf(obj)}, true
}

func argsOf(obj map[string]any) map[string]any {
	if m, ok := obj["arguments"].(map[string]any); ok {
		return m
	}
	if m, ok := obj["args"].(map[string]any); ok {
		return m
	}
	return map[string]any{}
}

// implicitProfileCall treats an object without a "name" as a profile update
// when it carries any of the configured trigger fields.
func (p *Parser) implicitProfileCall(obj map[string]any) (callRecord, bool) {
	if _, has := obj["name"]; has {
		return callRecord{}, false
	}
	for _, field := range p.profileFields {
		if _, ok := obj[field]; ok {
			return callRecord{name: ImplicitProfileTool, args: obj}, true
		}
	}
	return callRecord{}, false
}

// extractFenced handles fenced code blocks tagged tool_call(s), tool_code, or
// json. The body is tried as a Python-style call first, then as JSON with
// repair; objects without a name are still accepted when they look like a
// bare profile object.
func (p *Parser) extractFenced(text string) []match {
	var out []match
	for _, idx := range fencedBlockPattern.FindAllStringSubmatchIndex(text, -1) {
		sp := span{idx[0], idx[1]}
		body := strings.TrimSpace(text[idx[4]:idx[5]])
		if name, args, ok := p.parsePythonCall(body); ok {
			out = append(out, match{sp, []callRecord{{name, args}}})
			continue
		}
		v, err := p.repairAndParse(body)
		if err != nil {
			continue
		}
		if rec, ok := callFromValue(v); ok {
			out = append(out, match{sp, []callRecord{rec}})
			continue
		}
		if obj, ok := v.(map[string]any); ok {
			if rec, ok := p.implicitProfileCall(obj); ok {
				out = append(out, match{sp, []callRecord{rec}})
			}
		}
	}
	return out
}

// extractToolCallTags handles <tool_call>...</tool_call> wrappers: JSON
// object inside, or the XML function-tag grammar as a fallback.
func (p *Parser) extractToolCallTags(text string) []match {
	var out []match
	for _, idx := range toolCallTagPattern.FindAllStringSubmatchIndex(text, -1) {
		sp := span{idx[0], idx[1]}
		inner := strings.TrimSpace(text[idx[2]:idx[3]])
		if start, end, ok := outerObjectSpan(inner); ok {
			if obj, err := p.repairAndParseObject(inner[start:end]); err == nil {
				if rec, ok := callFromValue(obj); ok {
					out = append(out, match{sp, []callRecord{rec}})
					continue
				}
			}
		}
		if rec, ok := parseFunctionTags(inner); ok {
			out = append(out, match{sp, []callRecord{rec}})
		}
	}
	return out
}

// extractToolCallsToken handles <|tool_calls_start|>...<|tool_calls_end|>.
func (p *Parser) extractToolCallsToken(text string) []match {
	var out []match
	for _, idx := range toolCallsTokenPattern.FindAllStringSubmatchIndex(text, -1) {
		sp := span{idx[0], idx[1]}
		inner := text[idx[2]:idx[3]]
		start, end, ok := outerObjectSpan(inner)
		if !ok {
			continue
		}
		v, err := p.repairAndParse(inner[start:end])
		if err != nil {
			continue
		}
		if rec, ok := callFromValue(v); ok {
			out = append(out, match{sp, []callRecord{rec}})
		}
	}
	return out
}

// extractToolCallToken handles <|tool_call_start|>...<|tool_call_end|>: a
// Python-style call, a JSON object, or a JSON array of calls, optionally
// wrapped in one layer of [...].
func (p *Parser) extractToolCallToken(text string) []match {
	var out []match
	for _, idx := range toolCallTokenPattern.FindAllStringSubmatchIndex(text, -1) {
		sp := span{idx[0], idx[1]}
		inner := strings.TrimSpace(text[idx[2]:idx[3]])
		unwrapped := inner
		if strings.HasPrefix(unwrapped, "[") && strings.HasSuffix(unwrapped, "]") {
			unwrapped = strings.TrimSpace(unwrapped[1 : len(unwrapped)-1])
		}
		if name, args, ok := p.parsePythonCall(unwrapped); ok {
			out = append(out, match{sp, []callRecord{{name, args}}})
			continue
		}
		for _, candidate := range []string{inner, unwrapped} {
			recs := p.callsFromJSON(candidate)
			if len(recs) > 0 {
				out = append(out, match{sp, recs})
				break
			}
		}
	}
	return out
}

// callsFromJSON parses a candidate as a JSON object or array and collects
// every element with a string name.
func (p *Parser) callsFromJSON(candidate string) []callRecord {
	v, err := p.repairAndParse(candidate)
	if err != nil {
		return nil
	}
	switch val := v.(type) {
	case map[string]any:
		if rec, ok := callFromValue(val); ok {
			return []callRecord{rec}
		}
	case []any:
		var recs []callRecord
		for _, elem := range val {
			if rec, ok := callFromValue(elem); ok {
				recs = append(recs, rec)
			}
		}
		return recs
	}
	return nil
}

// extractFunctionTags handles bare <function=NAME>...</function> blocks with
// nested <parameter=KEY>VALUE</parameter> tags. Parameter values are always
// strings.
func (p *Parser) extractFunctionTags(text string) []match {
	var out []match
	for _, idx := range functionTagPattern.FindAllStringSubmatchIndex(text, -1) {
		name := text[idx[2]:idx[3]]
		if name == "" {
			continue
		}
		args := map[string]any{}
		for _, pm := range parameterTagPattern.FindAllStringSubmatch(text[idx[4]:idx[5]], -1) {
			args[pm[1]] = strings.TrimSpace(pm[2])
		}
		out = append(out, match{span{idx[0], idx[1]}, []callRecord{{name, args}}})
	}
	return out
}

// parseFunctionTags parses the first function-tag group inside s, used as the
// fallback grammar for wrapped <tool_call> content.
func parseFunctionTags(s string) (callRecord, bool) {
	m := functionTagPattern.FindStringSubmatch(s)
	if m == nil || m[1] == "" {
		return callRecord{}, false
	}
	args := map[string]any{}
	for _, pm := range parameterTagPattern.FindAllStringSubmatch(m[2], -1) {
		args[pm[1]] = strings.TrimSpace(pm[2])
	}
	return callRecord{name: m[1], args: args}, true
}

// extractInline handles a bare `tool_call {json}` without a code fence. The
// brace block must carry a "name" key; a block that never closes is taken to
// the end of the text and left to repair.
func (p *Parser) extractInline(text string) []match {
	var out []match
	for _, loc := range inlineToolCallPattern.FindAllStringIndex(text, -1) {
		braceIdx := loc[1] - 1
		end, ok := balancedBlock(text, braceIdx)
		if !ok {
			end = len(text)
		}
		block := text[braceIdx:end]
		if gjson.Get(block, "name").Type != gjson.String && !strings.Contains(block, `"name"`) {
			continue
		}
		obj, err := p.repairAndParseObject(block)
		if err != nil {
			continue
		}
		if rec, ok := callFromValue(obj); ok {
			out = append(out, match{span{loc[0], end}, []callRecord{rec}})
		}
	}
	return out
}

// extractMessageCall handles the <|message|>...<|call|> token pair.
func (p *Parser) extractMessageCall(text string) []match {
	var out []match
	for _, idx := range messageCallPattern.FindAllStringSubmatchIndex(text, -1) {
		sp := span{idx[0], idx[1]}
		inner := strings.TrimSpace(text[idx[2]:idx[3]])
		v, err := p.repairAndParse(inner)
		if err != nil {
			start, end, ok := outerObjectSpan(inner)
			if !ok {
				continue
			}
			if v, err = p.repairAndParse(inner[start:end]); err != nil {
				continue
			}
		}
		if rec, ok := callFromValue(v); ok {
			out = append(out, match{sp, []callRecord{rec}})
		}
	}
	return out
}

// extractDeepSeek handles the DeepSeek delimiter-token format: an outer
// calls block holding `function<｜tool▁sep｜>name` entries with fenced JSON
// arguments.
func (p *Parser) extractDeepSeek(text string) []match {
	var out []match
	offset := 0
	for {
		start := strings.Index(text[offset:], deepseekCallsBegin)
		if start < 0 {
			break
		}
		blockStart := offset + start
		end := strings.Index(text[blockStart:], deepseekCallsEnd)
		if end < 0 {
			break
		}
		blockEnd := blockStart + end + len(deepseekCallsEnd)
		section := text[blockStart:blockEnd]

		var calls []callRecord
		chunks := strings.Split(section, deepseekCallBegin)
		for _, chunk := range chunks[1:] {
			callEnd := strings.Index(chunk, deepseekCallEnd)
			if callEnd < 0 {
				continue
			}
			if rec, ok := p.parseDeepSeekCall(chunk[:callEnd]); ok {
				calls = append(calls, rec)
			}
		}
		if len(calls) > 0 {
			out = append(out, match{span{blockStart, blockEnd}, calls})
		}
		offset = blockEnd
	}
	return out
}

// parseDeepSeekCall parses one `function<｜tool▁sep｜>name\n```json...````
// entry.
func (p *Parser) parseDeepSeekCall(s string) (callRecord, bool) {
	parts := strings.SplitN(s, deepseekSep, 2)
	if len(parts) < 2 || strings.TrimSpace(parts[0]) != "function" {
		return callRecord{}, false
	}
	lines := strings.SplitN(parts[1], "\n", 2)
	name := strings.TrimSpace(lines[0])
	if name == "" {
		return callRecord{}, false
	}
	args := map[string]any{}
	if len(lines) > 1 {
		if body, ok := fencedJSONBody(lines[1]); ok {
			if obj, err := p.repairAndParseObject(body); err == nil {
				args = obj
			} else {
				p.logger.Debug("unparseable arguments for tool %s, using empty args", name)
			}
		}
	}
	return callRecord{name: name, args: args}, true
}

// fencedJSONBody extracts the body of a ```json ... ``` block by line scan.
func fencedJSONBody(s string) (string, bool) {
	lines := strings.Split(s, "\n")
	start, end := -1, -1
	for i, line := range lines {
		trimmed := strings.TrimSpace(line)
		if trimmed == "```json" && start < 0 {
			start = i + 1
		} else if trimmed == "```" && start >= 0 {
			end = i
			break
		}
	}
	if start < 0 || end < 0 || end <= start {
		return "", false
	}
	return strings.Join(lines[start:end], "\n"), true
}

// extractBareJSON is the last-resort strategy for a whole-message JSON
// object. It runs only when no other extractor matched, because bare JSON is
// the most prone to false positives. Exactly the object span is removed so
// surrounding prose survives.
func (p *Parser) extractBareJSON(text string) []match {
	trimmed := strings.TrimSpace(text)
	if !strings.HasPrefix(trimmed, "{") {
		return nil
	}

	lead := strings.Index(text, "{")
	var v any
	if err := jsonx.Unmarshal([]byte(trimmed), &v); err == nil {
		if rec, ok := callFromValue(v); ok {
			return []match{{span{lead, lead + len(trimmed)}, []callRecord{rec}}}
		}
		return nil
	}

	start, end, ok := outerObjectSpan(text)
	if !ok {
		return nil
	}
	obj, err := p.repairAndParseObject(text[start:end])
	if err != nil {
		return nil
	}
	if rec, ok := callFromValue(obj); ok {
		return []match{{span{start, end}, []callRecord{rec}}}
	}
	return nil
}
