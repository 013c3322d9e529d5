package validation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateGenerateQuestionsRequest(t *testing.T) {
	v := NewValidator()
	validText := strings.Repeat("a", 40)

	t.Run("Valid", func(t *testing.T) {
		assert.Empty(t, v.ValidateGenerateQuestionsRequest("Chapter1", validText))
	})

	t.Run("MissingTitle", func(t *testing.T) {
		errs := v.ValidateGenerateQuestionsRequest("  ", validText)
		assert.Len(t, errs, 1)
		assert.Equal(t, "title", errs[0].Field)
	})

	t.Run("TitleTooShort", func(t *testing.T) {
		errs := v.ValidateGenerateQuestionsRequest("abc", validText)
		assert.Len(t, errs, 1)
	})

	t.Run("TextTooShort", func(t *testing.T) {
		errs := v.ValidateGenerateQuestionsRequest("Chapter1", "too short")
		assert.Len(t, errs, 1)
		assert.Equal(t, "text", errs[0].Field)
	})

	t.Run("BothInvalid", func(t *testing.T) {
		errs := v.ValidateGenerateQuestionsRequest("", "")
		assert.Len(t, errs, 2)
	})
}

func TestValidateImageRequest(t *testing.T) {
	v := NewValidator()

	t.Run("Valid", func(t *testing.T) {
		assert.Empty(t, v.ValidateImageRequest(make([]byte, 1024)))
	})

	t.Run("Missing", func(t *testing.T) {
		errs := v.ValidateImageRequest(nil)
		assert.Len(t, errs, 1)
	})

	t.Run("TooSmall", func(t *testing.T) {
		errs := v.ValidateImageRequest(make([]byte, 5))
		assert.Len(t, errs, 1)
	})
}

func TestValidateTitle(t *testing.T) {
	v := NewValidator()
	assert.Empty(t, v.ValidateTitle("Chapter1"))
	assert.Len(t, v.ValidateTitle(""), 1)
	assert.Len(t, v.ValidateTitle(strings.Repeat("x", 150)), 1)
}
