package toolcall

import (
	"regexp"
	"strings"

	"github.com/jimxer74/find-my-crew-sub005/internal/shared/jsonx"
)

var (
	// callPattern anchors to the full trimmed input so incidental prose with
	// parentheses never matches.
	callPattern = regexp.MustCompile(`(?s)^([A-Za-z_][A-Za-z0-9_]*(?:\.[A-Za-z_][A-Za-z0-9_]*)*)\((.*)\)$`)

	// properNounPattern matches a single capitalized word, the shape of
	// "Norway" rather than "search_legs" or "searchLegs".
	properNounPattern = regexp.MustCompile(`^[A-Z][a-z]+$`)

	bareKeyPattern = regexp.MustCompile(`^[a-z_][a-z0-9_]*$`)
)

// defaultProperNounDenylist rejects place names the model tends to write with
// a parenthetical aside, e.g. "Norway (Lofoten)", which would otherwise look
// call-shaped.
var defaultProperNounDenylist = []string{
	"ireland", "iceland", "greenland", "norway", "brittany", "svalbard", "lofoten",
}

// parsePythonCall recognizes `[print(]?[prefix.]function_name(arg=value, ...)`
// over the full trimmed input. Call-shaped place names and solitary
// capitalized words are rejected as likely proper nouns.
func (p *Parser) parsePythonCall(text string) (string, map[string]any, bool) {
	t := strings.TrimSpace(text)
	if strings.HasPrefix(t, "print(") && strings.HasSuffix(t, ")") {
		t = strings.TrimSpace(t[len("print(") : len(t)-1])
	}

	m := callPattern.FindStringSubmatch(t)
	if m == nil {
		return "", nil, false
	}
	name := m[1]
	if i := strings.LastIndexByte(name, '.'); i >= 0 {
		name = name[i+1:]
	}

	if _, denied := p.properNouns[strings.ToLower(name)]; denied {
		p.logger.Debug("rejecting call-shaped text: %q is a known place name", name)
		return "", nil, false
	}
	if properNounPattern.MatchString(name) {
		p.logger.Debug("rejecting call-shaped text: %q looks like a proper noun", name)
		return "", nil, false
	}

	argStr := strings.TrimSpace(m[2])
	if argStr == "" {
		return name, map[string]any{}, true
	}
	return name, p.parsePythonDict(argStr), true
}

// parsePythonDict converts Python dict or kwargs syntax into a map. The
// string is rewritten into JSON where that is cheap (literal tokens, unquoted
// keys) and handed to the manual pair parser when the rewrite still does not
// parse, so the result degrades to best-available typed values instead of
// failing the whole call.
func (p *Parser) parsePythonDict(pythonStr string) map[string]any {
	s := strings.TrimSpace(pythonStr)
	if strings.HasPrefix(s, "{") && strings.HasSuffix(s, "}") {
		s = strings.TrimSpace(s[1 : len(s)-1])
	}
	if s == "" {
		return map[string]any{}
	}

	converted := pythonDictToJSON(s)
	if !strings.HasPrefix(converted, "{") {
		converted = "{" + converted + "}"
	}
	var out map[string]any
	if err := jsonx.Unmarshal([]byte(converted), &out); err == nil && out != nil {
		return out
	}

	return p.parseManualPairs(s)
}

// pythonDictToJSON rewrites Python literal tokens and unquoted keys into JSON
// form. The scan tracks quote and escape state character by character so
// nothing inside a quoted string value is ever touched.
func pythonDictToJSON(s string) string {
	var b strings.Builder
	var st scanState
	b.Grow(len(s) + 16)
	i := 0
	for i < len(s) {
		c := s[i]
		if st.step(c) {
			b.WriteByte(c)
			i++
			continue
		}
		if isWordStart(c) {
			j := i
			for j < len(s) && isWordChar(s[j]) {
				j++
			}
			word := s[i:j]
			switch word {
			case "None":
				b.WriteString("null")
				i = j
				continue
			case "True":
				b.WriteString("true")
				i = j
				continue
			case "False":
				b.WriteString("false")
				i = j
				continue
			}
			k := j
			for k < len(s) && (s[k] == ' ' || s[k] == '\t') {
				k++
			}
			if k < len(s) && (s[k] == ':' || s[k] == '=') && bareKeyPattern.MatchString(word) {
				b.WriteByte('"')
				b.WriteString(word)
				b.WriteString(`":`)
				i = k + 1
				continue
			}
			b.WriteString(word)
			i = j
			continue
		}
		b.WriteByte(c)
		i++
	}
	return b.String()
}

func isWordStart(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isWordChar(c byte) bool {
	return isWordStart(c) || (c >= '0' && c <= '9')
}
