package llm

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strings"
)

// ParseImageAnalysis validates a vision response against the ImageAnalysis
// schema. Empty text is a legitimate answer and yields an empty analysis.
func ParseImageAnalysis(text string) (*ImageAnalysis, error) {
	if strings.TrimSpace(text) == "" {
		return &ImageAnalysis{}, nil
	}

	jsonStr, err := extractJSONObject(text)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrAnalysisFailed, err)
	}

	var analysis ImageAnalysis
	if err := json.Unmarshal([]byte(jsonStr), &analysis); err != nil {
		return nil, fmt.Errorf("%w: %w (response: %s)", ErrAnalysisFailed, err, jsonStr)
	}
	return &analysis, nil
}

// extractJSONObject extracts a JSON object from text that may contain markdown
// code blocks or other formatting.
func extractJSONObject(text string) (string, error) {
	text = strings.TrimSpace(text)
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start == -1 || end == -1 || end <= start {
		return "", fmt.Errorf("no JSON object found in response: %s", text)
	}
	return text[start : end+1], nil
}

// DecodeBase64Image decodes a base64 image payload. A data URL prefix such as
// "data:image/jpeg;base64," is stripped first.
func DecodeBase64Image(s string) ([]byte, error) {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "data:") {
		_, payload, ok := strings.Cut(s, ",")
		if !ok {
			return nil, fmt.Errorf("%w: malformed data URL", ErrInvalidImage)
		}
		s = payload
	}
	data, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidImage, err)
	}
	return data, nil
}
