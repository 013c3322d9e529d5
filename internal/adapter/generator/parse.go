package generator

import (
	"encoding/json"
	"fmt"
	"strings"

	"askvantage/internal/domain"
)

const questionPrompt = `You are an expert at reading comprehension. Generate 3 questions that test
understanding of the text below. For each question provide a concise answer
and a short reference quoting the passage the answer was found in.

Always answer with ONLY a JSON array of objects with this exact schema, even
if you cannot generate 3 questions:
[
  {"question": "...", "answer": "...", "reference": "..."}
]

Text:
%s`

// cleanInput removes characters that tend to derail smaller models when they
// appear in OCR output.
func cleanInput(input string) string {
	replacer := strings.NewReplacer(
		"\r", " ",
		",", "",
		"&", "",
		"-", "",
		"\n", "",
	)
	return replacer.Replace(input)
}

// extractQuestions pulls the JSON array out of a raw model response and
// decodes it. Models sometimes wrap the array in prose, reasoning tags, or
// return a bare object instead of a single-element array; all of those are
// tolerated.
func extractQuestions(raw string) ([]domain.Question, error) {
	cleaned := strings.TrimSpace(raw)

	if thinkStart := strings.Index(cleaned, "<think>"); thinkStart != -1 {
		if thinkEnd := strings.Index(cleaned, "</think>"); thinkEnd != -1 && thinkEnd > thinkStart {
			cleaned = strings.TrimSpace(cleaned[:thinkStart] + cleaned[thinkEnd+len("</think>"):])
		}
	}

	start := strings.Index(cleaned, "[")
	end := strings.LastIndex(cleaned, "]")
	if start != -1 && end > start {
		cleaned = cleaned[start : end+1]
	} else if strings.HasPrefix(cleaned, "{") && strings.HasSuffix(cleaned, "}") {
		// The model refused to return an array; wrap the single object.
		cleaned = fmt.Sprintf("[%s]", cleaned)
	}

	var questions []domain.Question
	if err := json.Unmarshal([]byte(cleaned), &questions); err != nil {
		return nil, fmt.Errorf("failed to parse generator response as JSON: %w", err)
	}

	// Drop entries the model left incomplete.
	complete := questions[:0]
	for _, q := range questions {
		if q.Question == "" || q.Answer == "" {
			continue
		}
		complete = append(complete, q)
	}
	return complete, nil
}
