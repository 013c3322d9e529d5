package generator

import (
	"context"
	"fmt"

	"askvantage/internal/domain"
	"askvantage/internal/logger"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/ollama"
	"go.uber.org/zap"
)

// OllamaGenerator implements domain.QuestionGenerator against a locally
// running Ollama server.
type OllamaGenerator struct {
	llmClient *ollama.LLM
}

// NewOllamaGenerator creates a new instance of OllamaGenerator.
func NewOllamaGenerator(llm *ollama.LLM) domain.QuestionGenerator {
	return &OllamaGenerator{llmClient: llm}
}

// Generate implements domain.QuestionGenerator.
func (g *OllamaGenerator) Generate(ctx context.Context, text string) ([]domain.Question, error) {
	l := logger.Get()

	prompt := fmt.Sprintf(questionPrompt, cleanInput(text))

	rawResponse, err := llms.GenerateFromSinglePrompt(ctx, g.llmClient, prompt,
		llms.WithTemperature(0.5),
		llms.WithJSONMode(),
	)
	if err != nil {
		l.Error("Failed to call Ollama API", zap.Error(err))
		return nil, domain.NewGenerationError(err)
	}

	l.Debug("Raw generator response received", zap.String("raw_response", rawResponse))

	questions, err := extractQuestions(rawResponse)
	if err != nil {
		l.Error("Failed to parse Ollama response", zap.Error(err), zap.String("raw_response", rawResponse))
		return nil, domain.NewGenerationError(err)
	}

	if len(questions) == 0 {
		l.Warn("No (proper) questions in Ollama response")
	}
	return questions, nil
}

var _ domain.QuestionGenerator = (*OllamaGenerator)(nil)
