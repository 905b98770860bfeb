// Package toolcall recognizes, parses, and strips tool invocations embedded
// in raw model output, across the syntaxes different backends emit: fenced
// code blocks, Python-style calls, XML-like tags, delimiter tokens, inline
// and bare whole-message JSON.
//
// Parsing is best-effort and never fails: malformed candidates are logged and
// skipped, and the worst case on fully garbled input is the trimmed input
// back with an empty call list. A Parser is safe for concurrent use; its
// configuration is immutable after New.
package toolcall

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/jimxer74/find-my-crew-sub005/internal/logging"
)

// Parser extracts tool calls from raw model output text.
type Parser struct {
	logger        logging.Logger
	profileFields []string
	properNouns   map[string]struct{}
}

// Option configures a Parser.
type Option func(*Parser)

// WithLogger sets the diagnostic sink. Parse failures are logged at Debug and
// never surface to the caller.
func WithLogger(logger logging.Logger) Option {
	return func(p *Parser) { p.logger = logger }
}

// WithProfileFields replaces the trigger keys for implicit profile-call
// detection.
func WithProfileFields(fields ...string) Option {
	return func(p *Parser) { p.profileFields = append([]string(nil), fields...) }
}

// WithProperNounDenylist replaces the set of names rejected outright as
// call-shaped place names. Matching is case-insensitive.
func WithProperNounDenylist(names ...string) Option {
	return func(p *Parser) { p.setDenylist(names) }
}

// New builds a Parser. Defaults: no-op logger, the crew profile trigger
// fields, and the known geographic denylist.
func New(opts ...Option) *Parser {
	p := &Parser{
		logger:        logging.Nop(),
		profileFields: defaultProfileFields,
	}
	p.setDenylist(defaultProperNounDenylist)
	for _, opt := range opts {
		opt(p)
	}
	p.logger = logging.OrNop(p.logger)
	return p
}

func (p *Parser) setDenylist(names []string) {
	p.properNouns = make(map[string]struct{}, len(names))
	for _, name := range names {
		p.properNouns[strings.ToLower(name)] = struct{}{}
	}
}

var defaultParser = New()

// ParseToolCalls extracts every recognized tool invocation from text using a
// default Parser. See Parser.Parse.
func ParseToolCalls(text string) ParseOutcome {
	return defaultParser.Parse(text)
}

// Parse runs every format extractor over the original, unmodified text in a
// fixed priority order and returns the cleaned content plus the calls found,
// ordered by first appearance.
//
// Explicit wrapped and fenced formats are trusted over bare JSON, so the
// bare whole-message strategy runs only when nothing else matched. When two
// strategies claim overlapping text the first successful claim wins and the
// later match is dropped, so no byte is removed or reported twice.
func (p *Parser) Parse(text string) ParseOutcome {
	extractors := []func(string) []match{
		p.extractFenced,
		p.extractToolCallTags,
		p.extractToolCallsToken,
		p.extractToolCallToken,
		p.extractFunctionTags,
		p.extractInline,
		p.extractMessageCall,
		p.extractDeepSeek,
	}

	var accepted []match
	var claimed []span
	admit := func(candidates []match) {
		for _, m := range candidates {
			if len(m.calls) == 0 {
				continue
			}
			if overlapsAny(claimed, m.span) {
				p.logger.Debug("skipping match overlapping an earlier claim at [%d,%d)", m.span.start, m.span.end)
				continue
			}
			claimed = append(claimed, m.span)
			accepted = append(accepted, m)
		}
	}

	for _, extract := range extractors {
		admit(extract(text))
	}
	if len(accepted) == 0 {
		admit(p.extractBareJSON(text))
	}

	sort.Slice(accepted, func(i, j int) bool {
		return accepted[i].span.start < accepted[j].span.start
	})

	now := time.Now().UnixMilli()
	seq := 0
	calls := make([]ToolCall, 0, len(accepted))
	for _, m := range accepted {
		for _, rec := range m.calls {
			args := rec.args
			if args == nil {
				args = map[string]any{}
			}
			calls = append(calls, ToolCall{
				ID:        fmt.Sprintf("tc_%d_%d", now, seq),
				Name:      rec.name,
				Arguments: args,
			})
			seq++
		}
	}

	return ParseOutcome{
		Content:   removeSpans(text, claimed),
		ToolCalls: calls,
	}
}

var tripleNewlinePattern = regexp.MustCompile(`\n{3,}`)

// removeSpans builds the cleaned content by excluding every claimed span from
// the original text in one pass, then collapsing leftover blank runs.
func removeSpans(text string, spans []span) string {
	if len(spans) == 0 {
		return strings.TrimSpace(text)
	}
	sorted := append([]span(nil), spans...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].start < sorted[j].start })

	var b strings.Builder
	pos := 0
	for _, sp := range sorted {
		if sp.start > pos {
			b.WriteString(text[pos:sp.start])
		}
		if sp.end > pos {
			pos = sp.end
		}
	}
	if pos < len(text) {
		b.WriteString(text[pos:])
	}
	out := tripleNewlinePattern.ReplaceAllString(b.String(), "\n\n")
	return strings.TrimSpace(out)
}
