// Package chat implements the explanation-assistant transcript and the
// structured-text sub-protocol its responses carry: a free-text body
// optionally followed by a SUGGESTED_QUESTIONS block of follow-up prompts.
package chat

import "strings"

// SuggestionMarker is the sentinel separating the response body from the
// follow-up suggestion block.
const SuggestionMarker = "SUGGESTED_QUESTIONS"

// MaxSuggestions caps how many follow-up prompts a single response may
// contribute.
const MaxSuggestions = 4

// Parsed is the structural split of a raw explanation response. The parser
// only splits; it never interprets or sanitizes markup.
type Parsed struct {
	Body        string   `json:"body"`
	Suggestions []string `json:"suggestions"`
}

// ParseResponse splits raw at the first SuggestionMarker occurrence. The
// body loses any trailing horizontal rule and surrounding whitespace; the
// suggestion block keeps only bullet lines (- or •), marker stripped, capped
// at MaxSuggestions in original order. Without the sentinel the whole
// payload is body and Suggestions is empty; the caller keeps its previous
// prompt set in that case.
func ParseResponse(raw string) Parsed {
	idx := strings.Index(raw, SuggestionMarker)
	if idx < 0 {
		return Parsed{Body: raw, Suggestions: []string{}}
	}

	body := raw[:idx]
	body = strings.TrimSpace(body)
	body = strings.TrimSuffix(body, "---")
	body = strings.TrimSpace(body)

	block := raw[idx+len(SuggestionMarker):]
	suggestions := make([]string, 0, MaxSuggestions)
	for _, line := range strings.Split(block, "\n") {
		line = strings.TrimSpace(line)
		var rest string
		switch {
		case strings.HasPrefix(line, "-"):
			rest = line[1:]
		case strings.HasPrefix(line, "•"):
			rest = strings.TrimPrefix(line, "•")
		default:
			continue
		}
		suggestions = append(suggestions, strings.TrimSpace(rest))
		if len(suggestions) == MaxSuggestions {
			break
		}
	}

	return Parsed{Body: body, Suggestions: suggestions}
}
