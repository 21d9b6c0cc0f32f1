package ai

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// ErrNoJSON is returned when a model response carries no parseable JSON
var ErrNoJSON = errors.New("no valid JSON object or array found in response")

// ExtractJSON pulls the JSON payload out of a model response that may be
// wrapped in markdown fences or surrounded by prose. Models asked for
// json_object output usually comply, but fenced and chatty replies still
// happen often enough that callers go through this instead of unmarshaling
// the raw content.
func ExtractJSON(response string) (string, error) {
	if strings.TrimSpace(response) == "" {
		return "", ErrNoJSON
	}

	cleaned := stripFences(response)

	if candidate := matchBrackets(cleaned); candidate != "" && json.Valid([]byte(candidate)) {
		return candidate, nil
	}
	if json.Valid([]byte(cleaned)) {
		return cleaned, nil
	}
	if candidate := widestSpan(response); candidate != "" {
		return candidate, nil
	}

	return "", fmt.Errorf("%w: response length=%d", ErrNoJSON, len(response))
}

// ExtractJSONTo extracts JSON from response and unmarshals it into target
func ExtractJSONTo(response string, target interface{}) error {
	jsonStr, err := ExtractJSON(response)
	if err != nil {
		return err
	}
	return json.Unmarshal([]byte(jsonStr), target)
}

// stripFences removes markdown code fences around the payload
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```json")
		s = strings.TrimPrefix(s, "```")
		s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	}
	return strings.TrimSpace(s)
}

// matchBrackets finds the first complete object or array by depth counting,
// ignoring brackets inside string literals.
func matchBrackets(s string) string {
	start := strings.IndexAny(s, "{[")
	if start == -1 {
		return ""
	}

	open := s[start]
	var close byte = '}'
	if open == '[' {
		close = ']'
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(s); i++ {
		c := s[i]
		if escaped {
			escaped = false
			continue
		}
		switch {
		case c == '\\' && inString:
			escaped = true
		case c == '"':
			inString = !inString
		case inString:
		case c == open:
			depth++
		case c == close:
			depth--
			if depth == 0 {
				return s[start : i+1]
			}
		}
	}
	return ""
}

// widestSpan is the fallback: first opener to last closer, validated
func widestSpan(s string) string {
	for _, pair := range [][2]string{{"{", "}"}, {"[", "]"}} {
		first := strings.Index(s, pair[0])
		last := strings.LastIndex(s, pair[1])
		if first != -1 && last > first {
			candidate := s[first : last+1]
			if json.Valid([]byte(candidate)) {
				return candidate
			}
		}
	}
	return ""
}
