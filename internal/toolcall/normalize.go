package toolcall

import (
	"regexp"
	"strings"
)

// NormalizeArgs rewrites every snake_case argument key to camelCase. Values
// pass through unchanged.
func NormalizeArgs(args map[string]any) map[string]any {
	out := make(map[string]any, len(args))
	for k, v := range args {
		out[snakeToCamel(k)] = v
	}
	return out
}

func snakeToCamel(s string) string {
	if !strings.Contains(s, "_") {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	first := true
	for _, part := range strings.Split(s, "_") {
		if part == "" {
			continue
		}
		if first {
			b.WriteString(part)
			first = false
			continue
		}
		b.WriteString(strings.ToUpper(part[:1]))
		b.WriteString(part[1:])
	}
	if b.Len() == 0 {
		return s
	}
	return b.String()
}

// DateRange holds normalized start and end dates in YYYY-MM-DD form.
type DateRange struct {
	StartDate string `json:"startDate,omitempty"`
	EndDate   string `json:"endDate,omitempty"`
}

var (
	dateRangePattern  = regexp.MustCompile(`(\d{4}-\d{2}-\d{2})\s*(?:to|-)\s*(\d{4}-\d{2}-\d{2})`)
	singleDatePattern = regexp.MustCompile(`\d{4}-\d{2}-\d{2}`)
)

// NormalizeDateArgs resolves date arguments. Explicit startDate/endDate
// string fields win; otherwise a "date" field is inspected for a
// "YYYY-MM-DD to YYYY-MM-DD" or "YYYY-MM-DD - YYYY-MM-DD" range, or a single
// date when no range matches.
func NormalizeDateArgs(args map[string]any) DateRange {
	var out DateRange
	if s, ok := args["startDate"].(string); ok {
		out.StartDate = strings.TrimSpace(s)
	}
	if s, ok := args["endDate"].(string); ok {
		out.EndDate = strings.TrimSpace(s)
	}
	if out.StartDate != "" || out.EndDate != "" {
		return out
	}

	date, ok := args["date"].(string)
	if !ok {
		return out
	}
	if m := dateRangePattern.FindStringSubmatch(date); m != nil {
		out.StartDate, out.EndDate = m[1], m[2]
		return out
	}
	out.StartDate = singleDatePattern.FindString(date)
	return out
}

// NormalizeLocationArgs picks the location query from the first non-empty
// value among location, query, and departureDescription, trimmed. Returns ""
// when none is set.
func NormalizeLocationArgs(args map[string]any) string {
	for _, key := range []string{"location", "query", "departureDescription"} {
		s, ok := args[key].(string)
		if !ok {
			continue
		}
		if trimmed := strings.TrimSpace(s); trimmed != "" {
			return trimmed
		}
	}
	return ""
}
