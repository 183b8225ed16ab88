package llm

import (
	"encoding/json"
	"fmt"
	"strings"
)

// ExtractObject recovers a JSON object from a free-text model response.
// Stage one strips Markdown code fences and tries the result directly;
// stage two falls back to the widest {...} span. Anything else is an error,
// so callers can treat an unparsable response as a hard failure.
func ExtractObject(raw string) (string, error) {
	cleaned := stripFences(raw)

	if strings.HasPrefix(cleaned, "{") && json.Valid([]byte(cleaned)) {
		return cleaned, nil
	}

	start := strings.Index(cleaned, "{")
	end := strings.LastIndex(cleaned, "}")
	if start >= 0 && end > start {
		candidate := cleaned[start : end+1]
		if json.Valid([]byte(candidate)) {
			return candidate, nil
		}
	}

	return "", fmt.Errorf("no JSON object found in model response")
}

func stripFences(content string) string {
	content = strings.TrimSpace(content)
	content = strings.TrimPrefix(content, "```json")
	content = strings.TrimPrefix(content, "```")
	content = strings.TrimSuffix(content, "```")
	return strings.TrimSpace(content)
}
