package testcase

import (
	"encoding/json"
	"fmt"
	"strings"
)

// storyMarkers are substrings that mark free-form text as a user story.
// Checked in order, case-insensitively.
var storyMarkers = []string{"as a ", "as an ", "i want", "so that", "user story"}

// storyFields are top-level keys that mark a structured value as a user story.
var storyFields = []string{"user", "story", "as", "iWant", "soThat"}

// Normalize classifies raw input into one of the three recognized variants.
// It never fails: malformed or unexpected input degrades to RawTextInput with
// a best-effort text rendering of the original value.
func Normalize(input any) (result NormalizedInput) {
	defer func() {
		if r := recover(); r != nil {
			result = RawTextInput{Content: stringify(input)}
		}
	}()

	switch v := input.(type) {
	case NormalizedInput:
		return v
	case string:
		var parsed any
		if err := json.Unmarshal([]byte(v), &parsed); err != nil {
			return classifyText(v)
		}
		return classifyValue(parsed)
	case map[string]any:
		return classifyValue(v)
	default:
		return RawTextInput{Content: stringify(input)}
	}
}

// classifyValue classifies a parsed structured value. Only the value's own
// top-level fields are inspected, never nested structures.
func classifyValue(v any) NormalizedInput {
	m, ok := v.(map[string]any)
	if !ok {
		if s, isStr := v.(string); isStr {
			return classifyText(s)
		}
		return RawTextInput{Content: stringify(v)}
	}

	_, hasEndpoint := m["endpoint"]
	_, hasMethod := m["method"]
	if hasEndpoint && hasMethod {
		return APIInput{
			Endpoint: stringify(m["endpoint"]),
			Method:   stringify(m["method"]),
			Request:  mapField(m, "request", "parameters"),
			Response: mapField(m, "response"),
		}
	}

	for _, field := range storyFields {
		if _, found := m[field]; found {
			return UserStoryInput{Content: storyContent(m)}
		}
	}

	return RawTextInput{Content: stringify(m)}
}

// classifyText classifies free-form text that did not parse as JSON.
func classifyText(s string) NormalizedInput {
	lower := strings.ToLower(s)
	for _, marker := range storyMarkers {
		if strings.Contains(lower, marker) {
			return UserStoryInput{Content: s}
		}
	}
	return RawTextInput{Content: s}
}

// storyContent extracts user-story text from a structured value, preferring
// dedicated content fields over a full serialization.
func storyContent(m map[string]any) string {
	for _, field := range []string{"userStory", "story", "content"} {
		if s, ok := m[field].(string); ok && s != "" {
			return s
		}
	}
	return stringify(m)
}

// mapField returns the first of the named fields that holds a mapping,
// falling back to an empty mapping.
func mapField(m map[string]any, fields ...string) map[string]any {
	for _, field := range fields {
		if sub, ok := m[field].(map[string]any); ok {
			return sub
		}
	}
	return map[string]any{}
}

// stringify renders a value as text: strings pass through, everything else
// is JSON-serialized with a fmt fallback.
func stringify(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	if b, err := json.Marshal(v); err == nil {
		return string(b)
	}
	return fmt.Sprintf("%v", v)
}
