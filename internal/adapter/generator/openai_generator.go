package generator

import (
	"context"
	"fmt"

	"askvantage/internal/domain"
	"askvantage/internal/logger"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"
)

// OpenAIGenerator implements domain.QuestionGenerator using OpenAI's Chat
// Completions API.
type OpenAIGenerator struct {
	client *openai.Client
	model  string
}

// NewOpenAIGenerator creates a new OpenAI-backed generator. baseURL is
// optional and allows pointing at an OpenAI-compatible endpoint.
func NewOpenAIGenerator(apiKey, model, baseURL string) (domain.QuestionGenerator, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("OpenAI API key is required")
	}

	clientConfig := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		clientConfig.BaseURL = baseURL
	}

	if model == "" {
		model = openai.GPT4oMini
	}

	return &OpenAIGenerator{
		client: openai.NewClientWithConfig(clientConfig),
		model:  model,
	}, nil
}

// Generate implements domain.QuestionGenerator.
func (g *OpenAIGenerator) Generate(ctx context.Context, text string) ([]domain.Question, error) {
	l := logger.Get()

	resp, err := g.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       g.model,
		Temperature: 0.5,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleUser,
				Content: fmt.Sprintf(questionPrompt, cleanInput(text)),
			},
		},
	})
	if err != nil {
		l.Error("Failed to call OpenAI API", zap.Error(err))
		return nil, domain.NewGenerationError(err)
	}
	if len(resp.Choices) == 0 {
		return nil, domain.NewGenerationError(fmt.Errorf("OpenAI returned no choices"))
	}

	rawResponse := resp.Choices[0].Message.Content
	l.Debug("Raw generator response received", zap.String("raw_response", rawResponse))

	questions, err := extractQuestions(rawResponse)
	if err != nil {
		l.Error("Failed to parse OpenAI response", zap.Error(err), zap.String("raw_response", rawResponse))
		return nil, domain.NewGenerationError(err)
	}
	return questions, nil
}

var _ domain.QuestionGenerator = (*OpenAIGenerator)(nil)
