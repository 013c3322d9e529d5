package validation

import (
	"strings"

	"askvantage/internal/domain"
)

// Request bounds. Titles are short human-chosen identifiers; texts are OCR
// output that can run to megabytes.
const (
	TitleMinLength = 4
	TitleMaxLength = 100

	TextMinLength = 20
	TextMaxLength = 10 * 1024 * 1024

	ImageMinBytes = 10
	ImageMaxBytes = 10 * 1024 * 1024
)

// Validator provides request validation functionality
type Validator struct{}

// NewValidator creates a new validator instance
func NewValidator() *Validator {
	return &Validator{}
}

// ValidateGenerateQuestionsRequest validates the question generation request
func (v *Validator) ValidateGenerateQuestionsRequest(title, text string) domain.ValidationErrors {
	var errors domain.ValidationErrors

	if strings.TrimSpace(title) == "" {
		errors = append(errors, domain.NewMissingFieldError("title"))
	} else if len(title) < TitleMinLength || len(title) > TitleMaxLength {
		errors = append(errors, domain.NewOutOfRangeError("title", len(title), TitleMinLength, TitleMaxLength))
	}

	if strings.TrimSpace(text) == "" {
		errors = append(errors, domain.NewMissingFieldError("text"))
	} else if len(text) < TextMinLength || len(text) > TextMaxLength {
		errors = append(errors, domain.NewOutOfRangeError("text", len(text), TextMinLength, TextMaxLength))
	}

	return errors
}

// ValidateImageRequest validates an image analysis request
func (v *Validator) ValidateImageRequest(content []byte) domain.ValidationErrors {
	var errors domain.ValidationErrors

	if len(content) == 0 {
		errors = append(errors, domain.NewMissingFieldError("content"))
	} else if len(content) < ImageMinBytes || len(content) > ImageMaxBytes {
		errors = append(errors, domain.NewOutOfRangeError("content", len(content), ImageMinBytes, ImageMaxBytes))
	}

	return errors
}

// ValidateTitle validates a title path parameter
func (v *Validator) ValidateTitle(title string) domain.ValidationErrors {
	var errors domain.ValidationErrors

	if strings.TrimSpace(title) == "" {
		errors = append(errors, domain.NewMissingFieldError("title"))
	} else if len(title) > TitleMaxLength {
		errors = append(errors, domain.NewOutOfRangeError("title", len(title), 1, TitleMaxLength))
	}

	return errors
}
