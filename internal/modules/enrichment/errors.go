package enrichment

import "errors"

var (
	// ErrAIUnavailable means the AI collaborator is unreachable or not
	// configured. Only the on-demand sentiment path surfaces it; the
	// summary path degrades to a placeholder instead.
	ErrAIUnavailable = errors.New("AI service unavailable")

	ErrOCRUnavailable = errors.New("OCR service unavailable")
)
