package llm

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"
)

var (
	// ,} -> } and ,] -> ]
	trailingCommaRegex = regexp.MustCompile(`,\s*([}\]])`)

	// "value"\n"key": -> "value",\n"key":
	missingCommaBeforeKeyRegex = regexp.MustCompile(`(")\s*\n\s*("[\w][^"]*"\s*:)`)
)

// ExtractJSON returns the first JSON object found in a free-text model reply.
// Markdown fences, leading prose and trailing text are dropped. Trailing and
// missing commas are repaired when the object does not decode as is.
func ExtractJSON(response string) ([]byte, error) {
	cleaned := stripFences(response)
	idx := strings.IndexByte(cleaned, '{')
	if idx == -1 {
		return nil, errors.New("no JSON object found in response")
	}
	candidate := cleaned[idx:]

	raw, err := decodeFirst(candidate)
	if err == nil {
		return raw, nil
	}

	if repaired := repairJSON(candidate); repaired != candidate {
		if raw, err2 := decodeFirst(repaired); err2 == nil {
			return raw, nil
		}
	}
	return nil, fmt.Errorf("parse JSON: %w", err)
}

func decodeFirst(s string) ([]byte, error) {
	var raw json.RawMessage
	if err := json.NewDecoder(strings.NewReader(s)).Decode(&raw); err != nil {
		return nil, err
	}
	return bytes.TrimSpace(raw), nil
}

func stripFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}

func repairJSON(s string) string {
	s = missingCommaBeforeKeyRegex.ReplaceAllString(s, `$1, $2`)
	return trailingCommaRegex.ReplaceAllString(s, `$1`)
}
