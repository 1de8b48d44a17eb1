package analysis

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"
)

// previewLimit bounds how much raw model text an error message carries.
const previewLimit = 200

// MalformedResponseError reports that no JSON object could be recovered from
// a model response. Preview carries a bounded slice of the raw text for
// diagnostics; callers keep the full text on the record separately.
type MalformedResponseError struct {
	Preview string
}

func (e *MalformedResponseError) Error() string {
	return fmt.Sprintf("no JSON object found in model response: %s", e.Preview)
}

var fencedBlockRe = regexp.MustCompile("(?s)```(?:json)?\\s*\\n?(.*?)\\n?\\s*```")

// ExtractJSON recovers a JSON object from free-form model text. Models do
// not reliably honor "respond with JSON only", so three strategies are tried
// in order: the whole text as JSON, the interior of a fenced code block, and
// a balanced-brace scan from the first '{'. The first success wins; if all
// fail the caller gets a MalformedResponseError, never a default object.
func ExtractJSON(text string) (map[string]any, error) {
	trimmed := strings.TrimSpace(text)

	var obj map[string]any
	if err := json.Unmarshal([]byte(trimmed), &obj); err == nil {
		extractRecoveriesTotal.WithLabelValues("direct").Inc()
		return obj, nil
	}

	if m := fencedBlockRe.FindStringSubmatch(trimmed); m != nil {
		if err := json.Unmarshal([]byte(strings.TrimSpace(m[1])), &obj); err == nil {
			extractRecoveriesTotal.WithLabelValues("fenced").Inc()
			return obj, nil
		}
	}

	if candidate, ok := firstBalancedObject(trimmed); ok {
		if err := json.Unmarshal([]byte(candidate), &obj); err == nil {
			extractRecoveriesTotal.WithLabelValues("braces").Inc()
			return obj, nil
		}
	}

	extractRecoveriesTotal.WithLabelValues("failed").Inc()
	return nil, &MalformedResponseError{Preview: Preview(trimmed)}
}

// firstBalancedObject returns the shortest substring starting at the first
// '{' whose braces balance. Brace characters inside JSON strings are rare
// enough in model output that plain depth counting matches what the models
// actually emit.
func firstBalancedObject(text string) (string, bool) {
	start := strings.IndexByte(text, '{')
	if start < 0 {
		return "", false
	}
	depth := 0
	for i := start; i < len(text); i++ {
		switch text[i] {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return text[start : i+1], true
			}
		}
	}
	return "", false
}

// Preview truncates raw model text for inclusion in error messages. The cut
// backs up to a rune boundary so accented output never yields invalid UTF-8.
func Preview(text string) string {
	if text == "" {
		return "(vacio)"
	}
	if len(text) <= previewLimit {
		return text
	}
	cut := previewLimit
	for cut > 0 && !utf8.RuneStart(text[cut]) {
		cut--
	}
	return text[:cut]
}
