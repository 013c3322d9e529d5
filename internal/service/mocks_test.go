package service

import (
	"context"

	"askvantage/internal/domain"
	"askvantage/internal/dto"

	"github.com/stretchr/testify/mock"
)

// --- MockTextRepository ---
type MockTextRepository struct {
	mock.Mock
}

func (m *MockTextRepository) GetAll(ctx context.Context) ([]domain.TextRecord, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.TextRecord), args.Error(1)
}

func (m *MockTextRepository) GetSingle(ctx context.Context, title string) (*domain.TextRecord, error) {
	args := m.Called(ctx, title)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.TextRecord), args.Error(1)
}

func (m *MockTextRepository) Save(ctx context.Context, record domain.TextRecord) error {
	args := m.Called(ctx, record)
	return args.Error(0)
}

func (m *MockTextRepository) DeleteSingle(ctx context.Context, title string) error {
	args := m.Called(ctx, title)
	return args.Error(0)
}

func (m *MockTextRepository) DeleteAll(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

// --- MockQuestionGenerator ---
type MockQuestionGenerator struct {
	mock.Mock
}

func (m *MockQuestionGenerator) Generate(ctx context.Context, text string) ([]domain.Question, error) {
	args := m.Called(ctx, text)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Question), args.Error(1)
}

// --- MockRecognizer ---
type MockRecognizer struct {
	mock.Mock
}

func (m *MockRecognizer) Recognize(ctx context.Context, image []byte) (string, error) {
	args := m.Called(ctx, image)
	return args.String(0), args.Error(1)
}

// --- MockNotifier ---
type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) GenerationCompleted(result *dto.QuestionGenerationResult) {
	m.Called(result)
}

func (m *MockNotifier) GenerationFailed(message string) {
	m.Called(message)
}

func (m *MockNotifier) OcrCompleted(result *dto.ImageOcrResult) {
	m.Called(result)
}

func (m *MockNotifier) OcrFailed(message string) {
	m.Called(message)
}

// --- stubScopeFactory ---
// stubScopeFactory hands out the configured instances as the "fresh"
// collaborators a detached run re-acquires.
type stubScopeFactory struct {
	repository    domain.TextRepository
	generator     domain.QuestionGenerator
	generatorErr  error
	recognizer    domain.Recognizer
	recognizerErr error
}

func (f *stubScopeFactory) NewTextRepository() domain.TextRepository {
	return f.repository
}

func (f *stubScopeFactory) NewQuestionGenerator() (domain.QuestionGenerator, error) {
	return f.generator, f.generatorErr
}

func (f *stubScopeFactory) NewRecognizer() (domain.Recognizer, error) {
	return f.recognizer, f.recognizerErr
}
