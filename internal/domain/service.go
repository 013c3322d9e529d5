package domain

import "context"

// TextRepository defines the merge-aware persistence operations for texts and
// their questions. It exclusively owns the lifecycle of TextRecords and the
// all-titles index; no other component touches the backing medium directly.
type TextRepository interface {
	// GetAll returns every stored text. Titles listed in the index whose
	// record is transiently missing are silently omitted. No ordering is
	// imposed.
	GetAll(ctx context.Context) ([]TextRecord, error)

	// GetSingle returns the record for the given title (matched
	// case-insensitively), or nil when no record exists.
	GetSingle(ctx context.Context, title string) (*TextRecord, error)

	// Save persists the record. When a record already exists for the title,
	// new questions are merged into it instead of overwriting; questions
	// whose text already exists (case-insensitively) are skipped.
	Save(ctx context.Context, record TextRecord) error

	// DeleteSingle removes the record for the given title. Deleting an absent
	// title is a no-op, not an error.
	DeleteSingle(ctx context.Context, title string) error

	// DeleteAll removes every stored text and resets the index.
	DeleteAll(ctx context.Context) error
}

// QuestionGenerator defines the interface for the external question
// generation collaborator. An empty result means there was nothing to
// generate and is not an error.
type QuestionGenerator interface {
	Generate(ctx context.Context, text string) ([]Question, error)
}

// Recognizer defines the interface for the external OCR collaborator.
type Recognizer interface {
	Recognize(ctx context.Context, image []byte) (string, error)
}
