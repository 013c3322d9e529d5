package dto

// QuestionAnswer represents one generated question in the API response
// @Description A question with its answer and source reference
type QuestionAnswer struct {
	Question  string `json:"question"`
	Answer    string `json:"answer"`
	Reference string `json:"reference"`
}

// GenerateQuestionsRequest represents the request body for question generation
// @Description Request body for generating questions from a text
type GenerateQuestionsRequest struct {
	RequestID string `json:"request_id"`
	Title     string `json:"title"`
	Text      string `json:"text"`
}

// QuestionGenerationResult represents the canonical merged state of a text in
// the API response. For pipeline runs it also carries the originating
// request id.
type QuestionGenerationResult struct {
	RequestID    string           `json:"request_id,omitempty"`
	Title        string           `json:"title"`
	OriginalText string           `json:"original_text"`
	Questions    []QuestionAnswer `json:"questions"`
}

// ImageRequest represents an image submitted for text recognition.
// Content is base64-encoded in transit.
type ImageRequest struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Content []byte `json:"content"`
}

// ImageOcrResult represents the recognized text of an image
type ImageOcrResult struct {
	ImageID string `json:"image_id"`
	Text    string `json:"text"`
}

// AcceptedResponse acknowledges a request whose outcome will be delivered by
// broadcast
type AcceptedResponse struct {
	RequestID string `json:"request_id"`
	Status    string `json:"status"`
}

// ErrorResponse represents an error in the API response
type ErrorResponse struct {
	Error string `json:"error"`
}
