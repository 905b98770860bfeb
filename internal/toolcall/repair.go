package toolcall

import (
	"errors"
	"strings"

	"github.com/kaptinlin/jsonrepair"

	"github.com/jimxer74/find-my-crew-sub005/internal/shared/jsonx"
)

// ErrNotJSON reports that a candidate substring could not be parsed as JSON
// even after repair. It never escapes Parse; extractors treat it as a
// non-match.
var ErrNotJSON = errors.New("candidate is not JSON")

// repairAndParse parses a substring suspected of being JSON, tolerating the
// truncation and dangling commas common in streamed model output. Attempts,
// in order: a direct parse, the jsonrepair library, and a conservative
// structural balance of brackets. Fails closed with ErrNotJSON.
func (p *Parser) repairAndParse(candidate string) (any, error) {
	trimmed := strings.TrimSpace(candidate)
	if trimmed == "" {
		return nil, ErrNotJSON
	}

	var v any
	if err := jsonx.Unmarshal([]byte(trimmed), &v); err == nil {
		return v, nil
	}

	// Repair is structural only. Candidates that do not even open an object
	// or array are prose, not broken JSON.
	if trimmed[0] != '{' && trimmed[0] != '[' {
		return nil, ErrNotJSON
	}

	if fixed, err := jsonrepair.JSONRepair(trimmed); err == nil {
		if uerr := jsonx.Unmarshal([]byte(fixed), &v); uerr == nil {
			return v, nil
		}
	}

	if balanced := balanceBrackets(trimmed); balanced != trimmed {
		if err := jsonx.Unmarshal([]byte(balanced), &v); err == nil {
			return v, nil
		}
	}

	p.logger.Debug("discarding JSON candidate after repair (%d bytes)", len(trimmed))
	return nil, ErrNotJSON
}

// repairAndParseObject is repairAndParse narrowed to JSON objects.
func (p *Parser) repairAndParseObject(candidate string) (map[string]any, error) {
	v, err := p.repairAndParse(candidate)
	if err != nil {
		return nil, err
	}
	obj, ok := v.(map[string]any)
	if !ok {
		return nil, ErrNotJSON
	}
	return obj, nil
}
