package toolcall

import (
	"strconv"
	"strings"
)

// parseManualPairs is the fallback for dict content that still does not parse
// as JSON after conversion, common with nested unquoted dicts and loosely
// formed arrays. Pairs are split on top-level commas with the shared scanner,
// then each value is coerced to the best available type.
func (p *Parser) parseManualPairs(s string) map[string]any {
	out := map[string]any{}
	for _, pair := range splitTopLevel(s, ',') {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}
		di := indexTopLevelDelim(pair)
		if di < 0 {
			p.logger.Debug("skipping argument fragment without delimiter: %q", clipForLog(pair))
			continue
		}
		key := stripQuotes(strings.TrimSpace(pair[:di]))
		if key == "" {
			continue
		}
		out[key] = p.coerceValue(strings.TrimSpace(pair[di+1:]))
	}
	return out
}

// coerceValue types a raw Python-literal value. Priority: quoted string,
// integer, decimal, boolean, null, nested dict, array, raw string.
func (p *Parser) coerceValue(raw string) any {
	if inner, ok := quotedInner(raw); ok {
		return inner
	}
	if n, err := strconv.ParseInt(raw, 10, 64); err == nil {
		return n
	}
	if f, err := strconv.ParseFloat(raw, 64); err == nil {
		return f
	}
	switch raw {
	case "True", "true":
		return true
	case "False", "false":
		return false
	case "None", "null":
		return nil
	}
	if strings.HasPrefix(raw, "{") {
		return p.parsePythonDict(raw)
	}
	if strings.HasPrefix(raw, "[") && strings.HasSuffix(raw, "]") {
		inner := strings.TrimSpace(raw[1 : len(raw)-1])
		if inner == "" {
			return []any{}
		}
		items := splitTopLevel(inner, ',')
		arr := make([]any, 0, len(items))
		for _, item := range items {
			arr = append(arr, stripQuotes(strings.TrimSpace(item)))
		}
		return arr
	}
	return raw
}

// quotedInner unwraps a value enclosed in matching single or double quotes.
func quotedInner(s string) (string, bool) {
	if len(s) < 2 {
		return "", false
	}
	q := s[0]
	if (q == '"' || q == '\'') && s[len(s)-1] == q {
		return s[1 : len(s)-1], true
	}
	return "", false
}

func stripQuotes(s string) string {
	if inner, ok := quotedInner(s); ok {
		return inner
	}
	return s
}

func clipForLog(s string) string {
	const max = 60
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}
