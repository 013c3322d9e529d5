package recognizer

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"askvantage/internal/domain"
	"askvantage/internal/logger"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/ollama"
	"go.uber.org/zap"
)

const recognizePrompt = "Transcribe all readable text in this image. " +
	"Return only the transcribed text, with no commentary."

// OllamaRecognizer implements domain.Recognizer using a vision-capable model
// served by a locally running Ollama instance.
type OllamaRecognizer struct {
	llmClient *ollama.LLM
}

// NewOllamaRecognizer creates a new instance of OllamaRecognizer. The given
// LLM must be configured with a vision model.
func NewOllamaRecognizer(llm *ollama.LLM) domain.Recognizer {
	return &OllamaRecognizer{llmClient: llm}
}

// Recognize implements domain.Recognizer.
func (r *OllamaRecognizer) Recognize(ctx context.Context, image []byte) (string, error) {
	l := logger.Get()

	content := []llms.MessageContent{
		{
			Role: llms.ChatMessageTypeHuman,
			Parts: []llms.ContentPart{
				llms.BinaryPart(http.DetectContentType(image), image),
				llms.TextPart(recognizePrompt),
			},
		},
	}

	resp, err := r.llmClient.GenerateContent(ctx, content)
	if err != nil {
		l.Error("Failed to perform OCR", zap.Error(err))
		return "", domain.NewRecognitionError(err)
	}
	if len(resp.Choices) == 0 {
		return "", domain.NewRecognitionError(fmt.Errorf("vision model returned no choices"))
	}

	return strings.TrimSpace(resp.Choices[0].Content), nil
}

var _ domain.Recognizer = (*OllamaRecognizer)(nil)
