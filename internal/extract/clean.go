package extract

import "strings"

// CleanJSONResponse strips markdown code fences and any surrounding prose
// from a model response, leaving only the JSON payload between the first
// opening brace or bracket and its matching final close.
func CleanJSONResponse(response string) string {
	cleaned := strings.TrimSpace(response)

	if strings.HasPrefix(cleaned, "```") {
		if idx := strings.Index(cleaned, "\n"); idx >= 0 {
			cleaned = cleaned[idx+1:]
		} else {
			cleaned = strings.TrimPrefix(cleaned, "```json")
			cleaned = strings.TrimPrefix(cleaned, "```")
		}
	}
	if idx := strings.LastIndex(cleaned, "```"); idx >= 0 {
		cleaned = cleaned[:idx]
	}
	cleaned = strings.TrimSpace(cleaned)

	objStart := strings.Index(cleaned, "{")
	arrStart := strings.Index(cleaned, "[")
	start := objStart
	if start < 0 || (arrStart >= 0 && arrStart < start) {
		start = arrStart
	}
	if start < 0 {
		return cleaned
	}

	objEnd := strings.LastIndex(cleaned, "}")
	arrEnd := strings.LastIndex(cleaned, "]")
	end := objEnd
	if arrEnd > end {
		end = arrEnd
	}
	if end < start {
		return cleaned
	}

	return cleaned[start : end+1]
}
