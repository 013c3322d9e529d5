// @title AskVantage API
// @version 1.0
// @description Stores texts with generated comprehension questions and recognizes text in images.
// @host localhost:8080
// @BasePath /api
// @schemes http https
package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"askvantage/internal/adapter/generator"
	"askvantage/internal/adapter/recognizer"
	"askvantage/internal/cache"
	"askvantage/internal/config"
	"askvantage/internal/domain"
	"askvantage/internal/handler"
	"askvantage/internal/hub"
	"askvantage/internal/logger"
	"askvantage/internal/middleware"
	"askvantage/internal/repository"
	"askvantage/internal/service"

	_ "askvantage/cmd/api/docs"

	"github.com/gofiber/swagger"
	"github.com/redis/go-redis/v9"
	"github.com/tmc/langchaingo/llms/ollama"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"go.uber.org/zap"
)

// requestLogger is a middleware that logs HTTP requests
func requestLogger() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		path := c.Path()
		method := c.Method()

		// Process request
		err := c.Next()

		// Log request details
		duration := time.Since(start)
		status := c.Response().StatusCode()

		logger.Get().Info("HTTP Request",
			zap.String("method", method),
			zap.String("path", path),
			zap.Int("status", status),
			zap.Duration("duration", duration),
			zap.String("ip", c.IP()),
			zap.String("user_agent", c.Get("User-Agent")),
		)

		return err
	}
}

// collaboratorScope builds fresh pipeline collaborators for detached runs.
// The Redis client is connection-pooled and safe to share; generator and
// recognizer clients are rebuilt per run.
type collaboratorScope struct {
	cfg         *config.Config
	redisClient *redis.Client
}

func (s *collaboratorScope) NewTextRepository() domain.TextRepository {
	return repository.NewTextRepository(repository.NewRedisRecordStore(s.redisClient))
}

func (s *collaboratorScope) NewQuestionGenerator() (domain.QuestionGenerator, error) {
	return newQuestionGenerator(s.cfg)
}

func (s *collaboratorScope) NewRecognizer() (domain.Recognizer, error) {
	return newRecognizer(s.cfg)
}

func newQuestionGenerator(cfg *config.Config) (domain.QuestionGenerator, error) {
	switch cfg.LLM.Source {
	case "ollama":
		llm, err := ollama.New(
			ollama.WithServerURL(cfg.LLM.ServerURL),
			ollama.WithModel(cfg.LLM.Model),
			ollama.WithHTTPClient(&http.Client{Timeout: cfg.LLM.Timeout}),
		)
		if err != nil {
			return nil, fmt.Errorf("failed to create Ollama client: %w", err)
		}
		return generator.NewOllamaGenerator(llm), nil
	case "openai":
		return generator.NewOpenAIGenerator(cfg.LLM.OpenAIAPIKey, cfg.LLM.Model, "")
	default:
		return nil, fmt.Errorf("unsupported LLM source: %s", cfg.LLM.Source)
	}
}

func newRecognizer(cfg *config.Config) (domain.Recognizer, error) {
	llm, err := ollama.New(
		ollama.WithServerURL(cfg.LLM.ServerURL),
		ollama.WithModel(cfg.OCR.Model),
		ollama.WithHTTPClient(&http.Client{Timeout: cfg.LLM.Timeout}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create vision client: %w", err)
	}
	return recognizer.NewOllamaRecognizer(llm), nil
}

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize logger
	if err := logger.Initialize(cfg.Logger); err != nil {
		panic(err)
	}
	appLogger := logger.Get()
	defer logger.Sync()

	// Initialize Redis Client
	redisClient, err := cache.NewRedisClient(cfg.Redis)
	if err != nil {
		appLogger.Fatal("Failed to connect to Redis", zap.Error(err))
	}
	appLogger.Info("Successfully connected to Redis")

	// Initialize repository
	recordStore := repository.NewRedisRecordStore(redisClient)
	textRepository := repository.NewTextRepository(recordStore)

	// Initialize question generator
	appLogger.Info("Initializing question generator",
		zap.String("source", cfg.LLM.Source),
		zap.String("model", cfg.LLM.Model),
	)
	questionGenerator, err := newQuestionGenerator(cfg)
	if err != nil {
		appLogger.Fatal("Failed to create question generator", zap.Error(err))
	}

	// Initialize text recognizer
	appLogger.Info("Initializing text recognizer", zap.String("model", cfg.OCR.Model))
	textRecognizer, err := newRecognizer(cfg)
	if err != nil {
		appLogger.Fatal("Failed to create text recognizer", zap.Error(err))
	}

	// Initialize notification hub and pipeline service
	notificationHub := hub.New()
	scopes := &collaboratorScope{cfg: cfg, redisClient: redisClient}
	pipelineService := service.NewPipelineService(textRepository, questionGenerator, textRecognizer, scopes, notificationHub)
	appLogger.Info("Pipeline service initialized")

	// Initialize handlers
	questionHandler := handler.NewQuestionHandler(pipelineService)
	imageHandler := handler.NewImageHandler(pipelineService)
	notificationHandler := handler.NewNotificationHandler(notificationHub)

	// Create Fiber app
	app := fiber.New(fiber.Config{
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  20 * time.Second,
		BodyLimit:    16 * 1024 * 1024,
		ErrorHandler: middleware.ErrorHandler(),
	})

	// Add request logging middleware
	app.Use(requestLogger())
	app.Use(cors.New(cors.Config{AllowOrigins: "*", AllowMethods: "GET,POST,PUT,DELETE,OPTIONS", AllowHeaders: "Origin,Content-Type,Accept", MaxAge: 300}))
	app.Use(recover.New())

	// Swagger handler
	app.Get("/swagger/*", swagger.HandlerDefault)

	// API group
	apiGroup := app.Group("/api")

	// Question routes
	questionGroup := apiGroup.Group("/questions")
	questionGroup.Get("/", questionHandler.GetAllTexts)
	questionGroup.Post("/generate", questionHandler.GenerateQuestions)
	questionGroup.Delete("/:title", questionHandler.DeleteText)
	questionGroup.Delete("/", questionHandler.DeleteAllTexts)

	// Image routes
	apiGroup.Post("/images/analyze", imageHandler.AnalyzeImage)

	// Notification stream
	app.Use("/ws", notificationHandler.Upgrade())
	app.Get("/ws/notifications", notificationHandler.Stream())

	// Start server
	go func() {
		appLogger.Info("Starting server", zap.Int("port", cfg.Server.Port), zap.String("env", os.Getenv("ENV")))
		if err := app.Listen(":" + strconv.Itoa(cfg.Server.Port)); err != nil {
			appLogger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	appLogger.Info("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := app.ShutdownWithContext(ctx); err != nil {
		appLogger.Fatal("Server forced to shutdown", zap.Error(err))
	}
	appLogger.Info("Server exited gracefully")
}
