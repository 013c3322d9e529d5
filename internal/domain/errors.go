package domain

import (
	"encoding/json"
	"fmt"
)

// ErrorCode represents a specific type of error in the domain
type ErrorCode string

const (
	// Common errors
	CodeInternal     ErrorCode = "INTERNAL_ERROR"
	CodeInvalidInput ErrorCode = "INVALID_INPUT"
	CodeNotFound     ErrorCode = "NOT_FOUND"

	// Validation errors
	CodeValidation    ErrorCode = "VALIDATION_ERROR"
	CodeMissingField  ErrorCode = "MISSING_FIELD"
	CodeInvalidFormat ErrorCode = "INVALID_FORMAT"
	CodeOutOfRange    ErrorCode = "OUT_OF_RANGE"

	// Text and pipeline specific errors
	CodeTextNotFound      ErrorCode = "TEXT_NOT_FOUND"
	CodeRecognitionFailed ErrorCode = "RECOGNITION_FAILED"
	CodeGenerationFailed  ErrorCode = "GENERATION_FAILED"
	CodeStoreError        ErrorCode = "STORE_ERROR"
)

// DomainError represents a domain-specific error
type DomainError struct {
	Code    ErrorCode              `json:"code"`
	Message string                 `json:"message"`
	Cause   error                  `json:"-"`
	Context map[string]interface{} `json:"details,omitempty"`
}

func (e *DomainError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *DomainError) Unwrap() error {
	return e.Cause
}

// MarshalJSON implements the json.Marshaler interface
func (e *DomainError) MarshalJSON() ([]byte, error) {
	return json.Marshal(&struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	}{
		Code:    string(e.Code),
		Message: e.Message,
	})
}

// NewError creates a new DomainError
func NewError(code ErrorCode, message string, cause error) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// WithContext attaches a key/value pair to the error for diagnostics
func (e *DomainError) WithContext(key string, value interface{}) *DomainError {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value
	return e
}

// Helper functions for common errors
func NewInternalError(message string, cause error) *DomainError {
	return NewError(CodeInternal, message, cause)
}

func NewInvalidInputError(message string) *DomainError {
	return NewError(CodeInvalidInput, message, nil)
}

func NewTextNotFoundError(title string) *DomainError {
	return NewError(CodeTextNotFound, fmt.Sprintf("Text not found with title: %s", title), nil)
}

func NewRecognitionError(cause error) *DomainError {
	return NewError(CodeRecognitionFailed, "Failed to recognize text in image", cause)
}

func NewGenerationError(cause error) *DomainError {
	return NewError(CodeGenerationFailed, "Failed to generate questions", cause)
}

func NewStoreError(message string, cause error) *DomainError {
	return NewError(CodeStoreError, message, cause)
}

// ValidationError represents a single failed validation on a request field
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationErrors aggregates validation failures for one request
type ValidationErrors []ValidationError

func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return "validation failed"
	}
	return fmt.Sprintf("validation failed: %s", e[0].Error())
}

func NewMissingFieldError(field string) ValidationError {
	return ValidationError{Field: field, Message: "is required"}
}

func NewInvalidFormatError(field string, value interface{}) ValidationError {
	return ValidationError{Field: field, Message: fmt.Sprintf("has invalid format: %v", value)}
}

func NewOutOfRangeError(field string, got, min, max int) ValidationError {
	return ValidationError{Field: field, Message: fmt.Sprintf("length %d is out of range [%d, %d]", got, min, max)}
}
