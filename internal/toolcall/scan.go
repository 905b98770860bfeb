package toolcall

import "strings"

// scanState tracks quote and escape context during a character walk. Every
// extractor shares these primitives so brace matching and comma splitting
// behave identically everywhere. Both single and double quotes open a string,
// matching Python literal syntax as well as JSON.
type scanState struct {
	quote  byte // active quote char, 0 when outside strings
	escape bool
}

// step consumes one character and reports whether it belongs to a string
// literal (including the opening and closing quotes).
func (s *scanState) step(c byte) bool {
	if s.escape {
		s.escape = false
		return true
	}
	if s.quote != 0 {
		switch c {
		case '\\':
			s.escape = true
		case s.quote:
			s.quote = 0
		}
		return true
	}
	if c == '"' || c == '\'' {
		s.quote = c
		return true
	}
	return false
}

// balancedBlock returns the half-open end index of the bracket block opening
// at s[open]. Reports false when the block never closes or closes with a
// mismatched bracket.
func balancedBlock(s string, open int) (int, bool) {
	var st scanState
	var stack []byte
	for i := open; i < len(s); i++ {
		c := s[i]
		if st.step(c) {
			continue
		}
		switch c {
		case '{', '[':
			stack = append(stack, c)
		case '}', ']':
			if len(stack) == 0 {
				return 0, false
			}
			top := stack[len(stack)-1]
			if (c == '}') != (top == '{') {
				return 0, false
			}
			stack = stack[:len(stack)-1]
			if len(stack) == 0 {
				return i + 1, true
			}
		}
	}
	return 0, false
}

// splitTopLevel splits s at every sep that sits outside strings and outside
// any nested {} or [] pair.
func splitTopLevel(s string, sep byte) []string {
	var st scanState
	depth := 0
	var parts []string
	start := 0
	for i := 0; i < len(s); i++ {
		c := s[i]
		if st.step(c) {
			continue
		}
		switch c {
		case '{', '[':
			depth++
		case '}', ']':
			if depth > 0 {
				depth--
			}
		case sep:
			if depth == 0 {
				parts = append(parts, s[start:i])
				start = i + 1
			}
		}
	}
	return append(parts, s[start:])
}

// indexTopLevelDelim returns the position of the first ':' or '=' outside
// strings and nesting, or -1.
func indexTopLevelDelim(s string) int {
	var st scanState
	depth := 0
	for i := 0; i < len(s); i++ {
		c := s[i]
		if st.step(c) {
			continue
		}
		switch c {
		case '{', '[':
			depth++
		case '}', ']':
			if depth > 0 {
				depth--
			}
		case ':', '=':
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}

// outerObjectSpan locates the widest JSON-object-looking region: the first
// '{' through the last '}'. With no closing brace the span runs to the end of
// s so that repair can balance a truncated object.
func outerObjectSpan(s string) (int, int, bool) {
	start := -1
	for i := 0; i < len(s); i++ {
		if s[i] == '{' {
			start = i
			break
		}
	}
	if start < 0 {
		return 0, 0, false
	}
	for i := len(s) - 1; i > start; i-- {
		if s[i] == '}' {
			return start, i + 1, true
		}
	}
	return start, len(s), true
}

// balanceBrackets performs the structural half of tolerant repair: drop a
// comma that directly precedes a closer or ends a truncated candidate, then
// append the closers still open at the end of input. No semantic guessing.
func balanceBrackets(s string) string {
	var b strings.Builder
	var st scanState
	var closers []byte
	b.Grow(len(s) + 4)
	for i := 0; i < len(s); i++ {
		c := s[i]
		if st.step(c) {
			b.WriteByte(c)
			continue
		}
		switch c {
		case '{':
			closers = append(closers, '}')
		case '[':
			closers = append(closers, ']')
		case '}', ']':
			if len(closers) > 0 && closers[len(closers)-1] == c {
				closers = closers[:len(closers)-1]
			}
		case ',':
			j := i + 1
			for j < len(s) && isSpaceByte(s[j]) {
				j++
			}
			if j >= len(s) || s[j] == '}' || s[j] == ']' {
				continue
			}
		}
		b.WriteByte(c)
	}
	for i := len(closers) - 1; i >= 0; i-- {
		b.WriteByte(closers[i])
	}
	return b.String()
}

func isSpaceByte(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}
