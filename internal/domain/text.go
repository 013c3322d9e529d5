package domain

import "strings"

// Question represents a generated comprehension question with its answer and
// a reference to the passage the answer was found in. Questions are immutable
// once created; two questions are considered equal when their question texts
// match case-insensitively.
type Question struct {
	Question  string `json:"question"`
	Answer    string `json:"answer"`
	Reference string `json:"reference"`
}

// TextRecord represents a stored text with its generated questions.
// Title is the human-facing identifier; the store key is the normalized
// (lowercased) title. Invariant: no two questions in a record share the same
// normalized question text.
type TextRecord struct {
	Title     string     `json:"title"`
	Text      string     `json:"text"`
	Questions []Question `json:"questions"`
}

// NormalizeTitle returns the store key for a title.
func NormalizeTitle(title string) string {
	return strings.ToLower(title)
}

// HasQuestion reports whether the record already contains a question with the
// given text, compared case-insensitively.
func (r *TextRecord) HasQuestion(question string) bool {
	for _, q := range r.Questions {
		if strings.EqualFold(q.Question, question) {
			return true
		}
	}
	return false
}

// MergeQuestions appends the incoming questions to the record, skipping any
// whose question text is already present. It returns the number of questions
// actually added.
func (r *TextRecord) MergeQuestions(incoming []Question) int {
	added := 0
	for _, q := range incoming {
		if r.HasQuestion(q.Question) {
			continue
		}
		r.Questions = append(r.Questions, q)
		added++
	}
	return added
}
