package service

import (
	"context"
	"errors"

	"askvantage/internal/domain"
	"askvantage/internal/dto"
	"askvantage/internal/logger"

	"go.uber.org/zap"
)

// RequestState tracks a pipeline request through its lifecycle.
type RequestState string

const (
	StateReceived   RequestState = "received"
	StateInvoking   RequestState = "invoking"
	StatePersisting RequestState = "persisting"
	StateCompleted  RequestState = "completed"
	StateFailed     RequestState = "failed"
)

// Notifier is the fan-out surface the pipeline publishes detached outcomes
// to.
type Notifier interface {
	GenerationCompleted(result *dto.QuestionGenerationResult)
	GenerationFailed(message string)
	OcrCompleted(result *dto.ImageOcrResult)
	OcrFailed(message string)
}

// ScopeFactory builds fresh collaborator instances for detached work.
// Instances bound to the originating request must not be reused once that
// request has been acknowledged, so every detached run re-acquires its own.
type ScopeFactory interface {
	NewTextRepository() domain.TextRepository
	NewQuestionGenerator() (domain.QuestionGenerator, error)
	NewRecognizer() (domain.Recognizer, error)
}

// Service defines the operations exposed to the HTTP layer.
type Service interface {
	// GenerateQuestions runs the generation pipeline on the caller's context
	// and returns the canonical merged state for the title.
	GenerateQuestions(ctx context.Context, req *dto.GenerateQuestionsRequest) (*dto.QuestionGenerationResult, error)

	// GenerateQuestionsDetached starts the generation pipeline on an
	// independent task and returns immediately. The outcome is delivered by
	// broadcast only.
	GenerateQuestionsDetached(req *dto.GenerateQuestionsRequest)

	// AnalyzeImage runs text recognition on the caller's context.
	AnalyzeImage(ctx context.Context, req *dto.ImageRequest) (*dto.ImageOcrResult, error)

	// AnalyzeImageDetached starts recognition on an independent task.
	AnalyzeImageDetached(req *dto.ImageRequest)

	// ListTexts returns all stored texts with their questions.
	ListTexts(ctx context.Context) ([]dto.QuestionGenerationResult, error)

	// DeleteText removes a stored text. Unknown titles are a no-op.
	DeleteText(ctx context.Context, title string) error

	// DeleteAllTexts removes every stored text.
	DeleteAllTexts(ctx context.Context) error
}

type pipelineService struct {
	repository domain.TextRepository
	generator  domain.QuestionGenerator
	recognizer domain.Recognizer
	scopes     ScopeFactory
	notifier   Notifier
}

// NewPipelineService creates the processing pipeline. The repository,
// generator and recognizer serve synchronous calls; detached runs re-acquire
// their own instances through scopes.
func NewPipelineService(
	repository domain.TextRepository,
	generator domain.QuestionGenerator,
	recognizer domain.Recognizer,
	scopes ScopeFactory,
	notifier Notifier,
) Service {
	return &pipelineService{
		repository: repository,
		generator:  generator,
		recognizer: recognizer,
		scopes:     scopes,
		notifier:   notifier,
	}
}

func (s *pipelineService) GenerateQuestions(ctx context.Context, req *dto.GenerateQuestionsRequest) (*dto.QuestionGenerationResult, error) {
	return s.runGeneration(ctx, req, s.repository, s.generator)
}

func (s *pipelineService) GenerateQuestionsDetached(req *dto.GenerateQuestionsRequest) {
	go func() {
		// Independent lifetime: a disconnecting client must not abort
		// in-flight generation work.
		ctx := context.Background()
		l := logger.Get()

		generator, err := s.scopes.NewQuestionGenerator()
		if err != nil {
			l.Error("Failed to acquire generator for detached run",
				zap.String("request_id", req.RequestID), zap.Error(err))
			s.notifier.GenerationFailed(domain.NewGenerationError(err).Error())
			return
		}

		result, err := s.runGeneration(ctx, req, s.scopes.NewTextRepository(), generator)
		if err != nil {
			s.notifier.GenerationFailed(err.Error())
			return
		}
		s.notifier.GenerationCompleted(result)
	}()
}

// runGeneration drives one request through the pipeline state machine:
// received -> invoking -> persisting -> completed | failed. No step is
// retried; any failure moves the request straight to failed.
func (s *pipelineService) runGeneration(
	ctx context.Context,
	req *dto.GenerateQuestionsRequest,
	repository domain.TextRepository,
	generator domain.QuestionGenerator,
) (*dto.QuestionGenerationResult, error) {
	l := logger.Get().With(
		zap.String("request_id", req.RequestID),
		zap.String("title", req.Title),
	)
	l.Info("Generation request received", zap.String("state", string(StateReceived)))

	l.Info("Invoking question generator", zap.String("state", string(StateInvoking)))
	questions, err := generator.Generate(ctx, req.Text)
	if err != nil {
		l.Error("Question generation failed", zap.String("state", string(StateFailed)), zap.Error(err))
		return nil, asGenerationError(err)
	}

	l.Info("Persisting generated questions",
		zap.String("state", string(StatePersisting)),
		zap.Int("question_count", len(questions)),
	)
	// An empty result means nothing to merge, not an error.
	if len(questions) > 0 {
		record := domain.TextRecord{
			Title:     req.Title,
			Text:      req.Text,
			Questions: questions,
		}
		if err := repository.Save(ctx, record); err != nil {
			l.Error("Failed to persist questions", zap.String("state", string(StateFailed)), zap.Error(err))
			return nil, err
		}
	}

	// Read back the canonical merged state, not just the fresh delta.
	stored, err := repository.GetSingle(ctx, req.Title)
	if err != nil {
		l.Error("Failed to read back merged record", zap.String("state", string(StateFailed)), zap.Error(err))
		return nil, err
	}

	result := buildResult(req, stored)
	l.Info("Generation request completed",
		zap.String("state", string(StateCompleted)),
		zap.Int("total_questions", len(result.Questions)),
	)
	return result, nil
}

func (s *pipelineService) AnalyzeImage(ctx context.Context, req *dto.ImageRequest) (*dto.ImageOcrResult, error) {
	return s.runRecognition(ctx, req, s.recognizer)
}

func (s *pipelineService) AnalyzeImageDetached(req *dto.ImageRequest) {
	go func() {
		ctx := context.Background()
		l := logger.Get()

		recognizer, err := s.scopes.NewRecognizer()
		if err != nil {
			l.Error("Failed to acquire recognizer for detached run",
				zap.String("image_id", req.ID), zap.Error(err))
			s.notifier.OcrFailed(domain.NewRecognitionError(err).Error())
			return
		}

		result, err := s.runRecognition(ctx, req, recognizer)
		if err != nil {
			s.notifier.OcrFailed(err.Error())
			return
		}
		s.notifier.OcrCompleted(result)
	}()
}

func (s *pipelineService) runRecognition(ctx context.Context, req *dto.ImageRequest, recognizer domain.Recognizer) (*dto.ImageOcrResult, error) {
	l := logger.Get().With(zap.String("image_id", req.ID))
	l.Info("Recognition request received", zap.String("state", string(StateReceived)))

	l.Info("Invoking recognizer", zap.String("state", string(StateInvoking)))
	text, err := recognizer.Recognize(ctx, req.Content)
	if err != nil {
		l.Error("Recognition failed", zap.String("state", string(StateFailed)), zap.Error(err))
		return nil, asRecognitionError(err)
	}

	l.Info("Recognition request completed", zap.String("state", string(StateCompleted)))
	return &dto.ImageOcrResult{ImageID: req.ID, Text: text}, nil
}

func (s *pipelineService) ListTexts(ctx context.Context) ([]dto.QuestionGenerationResult, error) {
	records, err := s.repository.GetAll(ctx)
	if err != nil {
		return nil, err
	}

	results := make([]dto.QuestionGenerationResult, 0, len(records))
	for i := range records {
		results = append(results, *recordToResult(&records[i], ""))
	}
	return results, nil
}

func (s *pipelineService) DeleteText(ctx context.Context, title string) error {
	logger.Get().Info("Deleting text", zap.String("title", title))
	return s.repository.DeleteSingle(ctx, title)
}

func (s *pipelineService) DeleteAllTexts(ctx context.Context) error {
	logger.Get().Info("Deleting all texts")
	return s.repository.DeleteAll(ctx)
}

// buildResult projects the stored record into the response shape. When no
// record exists for the title (an empty generation on a new title), the
// result is built from the request with no questions.
func buildResult(req *dto.GenerateQuestionsRequest, stored *domain.TextRecord) *dto.QuestionGenerationResult {
	if stored == nil {
		return &dto.QuestionGenerationResult{
			RequestID:    req.RequestID,
			Title:        req.Title,
			OriginalText: req.Text,
			Questions:    []dto.QuestionAnswer{},
		}
	}
	return recordToResult(stored, req.RequestID)
}

func recordToResult(record *domain.TextRecord, requestID string) *dto.QuestionGenerationResult {
	questions := make([]dto.QuestionAnswer, 0, len(record.Questions))
	for _, q := range record.Questions {
		questions = append(questions, dto.QuestionAnswer{
			Question:  q.Question,
			Answer:    q.Answer,
			Reference: q.Reference,
		})
	}
	return &dto.QuestionGenerationResult{
		RequestID:    requestID,
		Title:        record.Title,
		OriginalText: record.Text,
		Questions:    questions,
	}
}

func asGenerationError(err error) error {
	var domainErr *domain.DomainError
	if errors.As(err, &domainErr) {
		return err
	}
	return domain.NewGenerationError(err)
}

func asRecognitionError(err error) error {
	var domainErr *domain.DomainError
	if errors.As(err, &domainErr) {
		return err
	}
	return domain.NewRecognitionError(err)
}
