package llm

import (
	"encoding/json"
	"errors"
	"regexp"
	"strings"
)

const maxQuestions = 7

var numberedLine = regexp.MustCompile(`^\d+[\).\s-]+(.*)$`)

// parseQuestionList extracts question strings from a numbered-list response,
// tolerating plain unnumbered lines.
func parseQuestionList(text string) []string {
	var qs []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if m := numberedLine.FindStringSubmatch(line); m != nil {
			line = strings.TrimSpace(m[1])
		}
		if line != "" {
			qs = append(qs, line)
		}
	}
	if len(qs) > maxQuestions {
		qs = qs[:maxQuestions]
	}
	return qs
}

// extractJSON pulls the outermost JSON object out of a model response that
// may be wrapped in prose or code fences.
func extractJSON(text string, dst any) error {
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start < 0 || end <= start {
		return errors.New("no JSON object in response")
	}
	return json.Unmarshal([]byte(text[start:end+1]), dst)
}
