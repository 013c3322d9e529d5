package handler

import (
	"net/url"
	"sort"

	"askvantage/internal/dto"
	"askvantage/internal/logger"
	"askvantage/internal/service"
	"askvantage/internal/util"
	"askvantage/internal/validation"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// QuestionHandler handles text and question-related HTTP requests
type QuestionHandler struct {
	service   service.Service
	validator *validation.Validator
}

// NewQuestionHandler creates a new QuestionHandler instance
func NewQuestionHandler(svc service.Service) *QuestionHandler {
	return &QuestionHandler{
		service:   svc,
		validator: validation.NewValidator(),
	}
}

// GetAllTexts godoc
// @Summary List all stored texts
// @Description Returns every stored text with its generated questions, sorted by title
// @Tags questions
// @Produce json
// @Success 200 {array} dto.QuestionGenerationResult
// @Failure 500 {object} middleware.ErrorResponse
// @Router /questions [get]
func (h *QuestionHandler) GetAllTexts(c *fiber.Ctx) error {
	logger.Get().Info("Getting stored texts")

	results, err := h.service.ListTexts(c.Context())
	if err != nil {
		return err
	}

	// The repository imposes no ordering; present titles alphabetically.
	sort.Slice(results, func(i, j int) bool {
		return results[i].Title < results[j].Title
	})
	return c.JSON(results)
}

// GenerateQuestions godoc
// @Summary Generate questions for a text
// @Description Generates comprehension questions and merges them into the stored record for the title. With mode=async the request is acknowledged immediately and the outcome is broadcast to connected listeners.
// @Tags questions
// @Accept json
// @Produce json
// @Param request body dto.GenerateQuestionsRequest true "Generation request"
// @Param mode query string false "Delivery mode: sync (default) or async"
// @Success 200 {object} dto.QuestionGenerationResult
// @Success 202 {object} dto.AcceptedResponse
// @Failure 400 {object} middleware.ValidationErrorResponse
// @Failure 503 {object} middleware.ErrorResponse
// @Router /questions/generate [post]
func (h *QuestionHandler) GenerateQuestions(c *fiber.Ctx) error {
	var req dto.GenerateQuestionsRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: "INVALID_REQUEST",
		})
	}

	if errs := h.validator.ValidateGenerateQuestionsRequest(req.Title, req.Text); len(errs) > 0 {
		return errs
	}

	if req.RequestID == "" {
		req.RequestID = util.NewULID()
	}

	logger.Get().Info("Generating questions",
		zap.String("request_id", req.RequestID),
		zap.String("title", req.Title),
	)

	if c.Query("mode") == "async" {
		h.service.GenerateQuestionsDetached(&req)
		return c.Status(fiber.StatusAccepted).JSON(dto.AcceptedResponse{
			RequestID: req.RequestID,
			Status:    "accepted",
		})
	}

	result, err := h.service.GenerateQuestions(c.Context(), &req)
	if err != nil {
		return err
	}
	return c.JSON(result)
}

// DeleteText godoc
// @Summary Delete a stored text
// @Description Deletes the text stored under the given title. Unknown titles are a no-op.
// @Tags questions
// @Param title path string true "Title"
// @Success 200
// @Failure 500 {object} middleware.ErrorResponse
// @Router /questions/{title} [delete]
func (h *QuestionHandler) DeleteText(c *fiber.Ctx) error {
	title := c.Params("title")
	if decoded, err := url.PathUnescape(title); err == nil {
		title = decoded
	}

	if errs := h.validator.ValidateTitle(title); len(errs) > 0 {
		return errs
	}

	if err := h.service.DeleteText(c.Context(), title); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusOK)
}

// DeleteAllTexts godoc
// @Summary Delete all stored texts
// @Description Deletes every stored text and resets the title index
// @Tags questions
// @Success 200
// @Failure 500 {object} middleware.ErrorResponse
// @Router /questions [delete]
func (h *QuestionHandler) DeleteAllTexts(c *fiber.Ctx) error {
	if err := h.service.DeleteAllTexts(c.Context()); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusOK)
}
