package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"askvantage/internal/domain"
	"askvantage/internal/dto"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// inMemoryTextRepository gives detached-pipeline tests a real store end state
// to assert against.
type inMemoryTextRepository struct {
	mu      sync.Mutex
	records map[string]domain.TextRecord
}

func newInMemoryTextRepository() *inMemoryTextRepository {
	return &inMemoryTextRepository{records: make(map[string]domain.TextRecord)}
}

func (r *inMemoryTextRepository) GetAll(context.Context) ([]domain.TextRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	all := make([]domain.TextRecord, 0, len(r.records))
	for _, record := range r.records {
		all = append(all, record)
	}
	return all, nil
}

func (r *inMemoryTextRepository) GetSingle(_ context.Context, title string) (*domain.TextRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	record, ok := r.records[domain.NormalizeTitle(title)]
	if !ok {
		return nil, nil
	}
	return &record, nil
}

func (r *inMemoryTextRepository) Save(_ context.Context, record domain.TextRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := domain.NormalizeTitle(record.Title)
	existing, ok := r.records[key]
	if !ok {
		r.records[key] = record
		return nil
	}
	existing.MergeQuestions(record.Questions)
	r.records[key] = existing
	return nil
}

func (r *inMemoryTextRepository) DeleteSingle(_ context.Context, title string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.records, domain.NormalizeTitle(title))
	return nil
}

func (r *inMemoryTextRepository) DeleteAll(context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.records = make(map[string]domain.TextRecord)
	return nil
}

func waitForSignal(t *testing.T, done <-chan struct{}) {
	t.Helper()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for detached pipeline to finish")
	}
}

func TestGenerateQuestions_Sync(t *testing.T) {
	ctx := context.Background()
	req := &dto.GenerateQuestionsRequest{
		RequestID: "req-1",
		Title:     "Paris",
		Text:      "Paris is the capital of France.",
	}
	generated := []domain.Question{
		{Question: "What is the capital of France?", Answer: "Paris", Reference: "sentence 1"},
	}

	t.Run("Success", func(t *testing.T) {
		repo := new(MockTextRepository)
		gen := new(MockQuestionGenerator)
		svc := NewPipelineService(repo, gen, nil, nil, nil)

		gen.On("Generate", ctx, req.Text).Return(generated, nil).Once()
		repo.On("Save", ctx, domain.TextRecord{Title: req.Title, Text: req.Text, Questions: generated}).Return(nil).Once()
		repo.On("GetSingle", ctx, req.Title).Return(&domain.TextRecord{
			Title:     req.Title,
			Text:      req.Text,
			Questions: generated,
		}, nil).Once()

		result, err := svc.GenerateQuestions(ctx, req)
		require.NoError(t, err)
		assert.Equal(t, "req-1", result.RequestID)
		assert.Equal(t, "Paris", result.Title)
		require.Len(t, result.Questions, 1)
		assert.Equal(t, "Paris", result.Questions[0].Answer)

		repo.AssertExpectations(t)
		gen.AssertExpectations(t)
	})

	t.Run("GeneratorFailure", func(t *testing.T) {
		repo := new(MockTextRepository)
		gen := new(MockQuestionGenerator)
		svc := NewPipelineService(repo, gen, nil, nil, nil)

		gen.On("Generate", ctx, req.Text).Return(nil, errors.New("model unavailable")).Once()

		_, err := svc.GenerateQuestions(ctx, req)
		require.Error(t, err)

		var domainErr *domain.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, domain.CodeGenerationFailed, domainErr.Code)

		repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("EmptyGenerationMeansNothingToMerge", func(t *testing.T) {
		repo := new(MockTextRepository)
		gen := new(MockQuestionGenerator)
		svc := NewPipelineService(repo, gen, nil, nil, nil)

		gen.On("Generate", ctx, req.Text).Return([]domain.Question{}, nil).Once()
		repo.On("GetSingle", ctx, req.Title).Return(nil, nil).Once()

		result, err := svc.GenerateQuestions(ctx, req)
		require.NoError(t, err)
		assert.Empty(t, result.Questions)
		assert.Equal(t, req.Text, result.OriginalText)

		repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})
}

func TestGenerateQuestionsDetached_BroadcastOnSuccess(t *testing.T) {
	repo := newInMemoryTextRepository()
	gen := new(MockQuestionGenerator)
	notifier := new(MockNotifier)

	req := &dto.GenerateQuestionsRequest{
		RequestID: "req-42",
		Title:     "Chapter1",
		Text:      "abcdefghijklmnopqrstuvwxy", // 25 characters
	}
	generated := []domain.Question{
		{Question: "What letters are covered?", Answer: "a through y", Reference: "the full text"},
		{Question: "How long is the text?", Answer: "25 characters", Reference: "the full text"},
	}
	gen.On("Generate", mock.Anything, req.Text).Return(generated, nil).Once()

	done := make(chan struct{})
	notifier.On("GenerationCompleted", mock.AnythingOfType("*dto.QuestionGenerationResult")).
		Run(func(args mock.Arguments) { close(done) }).Once()

	scopes := &stubScopeFactory{repository: repo, generator: gen}
	svc := NewPipelineService(nil, nil, nil, scopes, notifier)

	svc.GenerateQuestionsDetached(req)
	waitForSignal(t, done)

	// The store holds exactly the two generated questions under the
	// normalized title.
	stored, err := repo.GetSingle(context.Background(), "chapter1")
	require.NoError(t, err)
	require.NotNil(t, stored)
	require.Len(t, stored.Questions, 2)
	assert.Equal(t, generated, stored.Questions)

	// Exactly one success broadcast carrying the request id and merged view.
	notifier.AssertExpectations(t)
	notifier.AssertNumberOfCalls(t, "GenerationCompleted", 1)
	result := notifier.Calls[0].Arguments.Get(0).(*dto.QuestionGenerationResult)
	assert.Equal(t, "req-42", result.RequestID)
	assert.Equal(t, "Chapter1", result.Title)
	assert.Len(t, result.Questions, 2)
}

func TestGenerateQuestionsDetached_BroadcastOnFailure(t *testing.T) {
	repo := newInMemoryTextRepository()
	gen := new(MockQuestionGenerator)
	notifier := new(MockNotifier)

	req := &dto.GenerateQuestionsRequest{
		RequestID: "req-43",
		Title:     "Chapter2",
		Text:      "some text that will not generate",
	}
	gen.On("Generate", mock.Anything, req.Text).
		Return(nil, domain.NewGenerationError(errors.New("llm exploded"))).Once()

	done := make(chan struct{})
	notifier.On("GenerationFailed", mock.AnythingOfType("string")).
		Run(func(args mock.Arguments) { close(done) }).Once()

	scopes := &stubScopeFactory{repository: repo, generator: gen}
	svc := NewPipelineService(nil, nil, nil, scopes, notifier)

	svc.GenerateQuestionsDetached(req)
	waitForSignal(t, done)

	// No record was created for the failed title.
	stored, err := repo.GetSingle(context.Background(), "Chapter2")
	require.NoError(t, err)
	assert.Nil(t, stored)

	// Exactly one failure broadcast with a non-empty message.
	notifier.AssertExpectations(t)
	notifier.AssertNumberOfCalls(t, "GenerationFailed", 1)
	message := notifier.Calls[0].Arguments.String(0)
	assert.NotEmpty(t, message)
}

func TestAnalyzeImage(t *testing.T) {
	ctx := context.Background()
	req := &dto.ImageRequest{ID: "img-1", Name: "page.png", Content: []byte("fake image bytes")}

	t.Run("SyncSuccess", func(t *testing.T) {
		rec := new(MockRecognizer)
		svc := NewPipelineService(nil, nil, rec, nil, nil)

		rec.On("Recognize", ctx, req.Content).Return("recognized text", nil).Once()

		result, err := svc.AnalyzeImage(ctx, req)
		require.NoError(t, err)
		assert.Equal(t, "img-1", result.ImageID)
		assert.Equal(t, "recognized text", result.Text)
	})

	t.Run("SyncFailure", func(t *testing.T) {
		rec := new(MockRecognizer)
		svc := NewPipelineService(nil, nil, rec, nil, nil)

		rec.On("Recognize", ctx, req.Content).Return("", errors.New("vision service down")).Once()

		_, err := svc.AnalyzeImage(ctx, req)
		var domainErr *domain.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, domain.CodeRecognitionFailed, domainErr.Code)
	})

	t.Run("DetachedBroadcastsOutcome", func(t *testing.T) {
		rec := new(MockRecognizer)
		notifier := new(MockNotifier)

		rec.On("Recognize", mock.Anything, req.Content).Return("recognized text", nil).Once()

		done := make(chan struct{})
		notifier.On("OcrCompleted", &dto.ImageOcrResult{ImageID: "img-1", Text: "recognized text"}).
			Run(func(args mock.Arguments) { close(done) }).Once()

		scopes := &stubScopeFactory{recognizer: rec}
		svc := NewPipelineService(nil, nil, nil, scopes, notifier)

		svc.AnalyzeImageDetached(req)
		waitForSignal(t, done)

		notifier.AssertExpectations(t)
	})
}

func TestListAndDelete(t *testing.T) {
	ctx := context.Background()

	t.Run("ListTexts", func(t *testing.T) {
		repo := new(MockTextRepository)
		svc := NewPipelineService(repo, nil, nil, nil, nil)

		repo.On("GetAll", ctx).Return([]domain.TextRecord{
			{Title: "A", Text: "ta", Questions: []domain.Question{{Question: "q", Answer: "a"}}},
			{Title: "B", Text: "tb"},
		}, nil).Once()

		results, err := svc.ListTexts(ctx)
		require.NoError(t, err)
		require.Len(t, results, 2)
		assert.Equal(t, "A", results[0].Title)
		assert.Len(t, results[0].Questions, 1)
		assert.Empty(t, results[0].RequestID)
	})

	t.Run("DeleteText", func(t *testing.T) {
		repo := new(MockTextRepository)
		svc := NewPipelineService(repo, nil, nil, nil, nil)

		repo.On("DeleteSingle", ctx, "Chapter1").Return(nil).Once()
		require.NoError(t, svc.DeleteText(ctx, "Chapter1"))
		repo.AssertExpectations(t)
	})

	t.Run("DeleteAllTexts", func(t *testing.T) {
		repo := new(MockTextRepository)
		svc := NewPipelineService(repo, nil, nil, nil, nil)

		repo.On("DeleteAll", ctx).Return(nil).Once()
		require.NoError(t, svc.DeleteAllTexts(ctx))
		repo.AssertExpectations(t)
	})
}
