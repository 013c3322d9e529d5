package handler

import (
	"askvantage/internal/dto"
	"askvantage/internal/logger"
	"askvantage/internal/service"
	"askvantage/internal/util"
	"askvantage/internal/validation"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// ImageHandler handles OCR-related HTTP requests
type ImageHandler struct {
	service   service.Service
	validator *validation.Validator
}

// NewImageHandler creates a new ImageHandler instance
func NewImageHandler(svc service.Service) *ImageHandler {
	return &ImageHandler{
		service:   svc,
		validator: validation.NewValidator(),
	}
}

// AnalyzeImage godoc
// @Summary Recognize text in an image
// @Description Runs OCR on the submitted image. By default the request is acknowledged immediately and the result is broadcast to connected listeners; with mode=sync the recognized text is returned directly.
// @Tags images
// @Accept json
// @Produce json
// @Param request body dto.ImageRequest true "Image to analyze (content base64-encoded)"
// @Param mode query string false "Delivery mode: async (default) or sync"
// @Success 200 {object} dto.ImageOcrResult
// @Success 202 {object} dto.AcceptedResponse
// @Failure 400 {object} middleware.ValidationErrorResponse
// @Failure 503 {object} middleware.ErrorResponse
// @Router /images/analyze [post]
func (h *ImageHandler) AnalyzeImage(c *fiber.Ctx) error {
	var req dto.ImageRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: "INVALID_REQUEST",
		})
	}

	if errs := h.validator.ValidateImageRequest(req.Content); len(errs) > 0 {
		return errs
	}

	if req.ID == "" {
		req.ID = util.NewULID()
	}

	logger.Get().Info("Processing OCR for image", zap.String("image_id", req.ID))

	if c.Query("mode") == "sync" {
		result, err := h.service.AnalyzeImage(c.Context(), &req)
		if err != nil {
			return err
		}
		return c.JSON(result)
	}

	h.service.AnalyzeImageDetached(&req)
	return c.Status(fiber.StatusAccepted).JSON(dto.AcceptedResponse{
		RequestID: req.ID,
		Status:    "accepted",
	})
}
