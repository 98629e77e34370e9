package gemini

import (
	"encoding/json"
	"fmt"
	"strings"
)

// decodeJSON strips optional markdown fences around a model answer and
// decodes the JSON payload into a generic value.
func decodeJSON(raw string) (any, error) {
	cleaned := extractJSON(raw)
	if cleaned == "" {
		return nil, fmt.Errorf("parse gemini response: empty payload")
	}

	var data any
	if err := json.Unmarshal([]byte(cleaned), &data); err != nil {
		return nil, fmt.Errorf("parse gemini response: %w", err)
	}

	return data, nil
}

// unwrapList returns the list stored directly in data or under key.
func unwrapList(data any, key string) (any, error) {
	switch val := data.(type) {
	case []any:
		return val, nil
	case map[string]any:
		list, ok := val[key]
		if !ok {
			return nil, fmt.Errorf("gemini response has no %q field", key)
		}
		return list, nil
	default:
		return nil, fmt.Errorf("unexpected gemini response type %T", data)
	}
}

func extractJSON(raw string) string {
	raw = strings.TrimSpace(raw)
	if strings.HasPrefix(raw, "```") {
		raw = strings.TrimPrefix(raw, "```json")
		raw = strings.TrimPrefix(raw, "```")
		raw = strings.TrimSpace(raw)
		if idx := strings.LastIndex(raw, "```"); idx != -1 {
			raw = raw[:idx]
		}
	}
	raw = strings.Trim(raw, "`")
	return strings.TrimSpace(raw)
}
