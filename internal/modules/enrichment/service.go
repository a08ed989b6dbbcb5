package enrichment

import (
	"context"
	"log"
	"strings"

	"github.com/meezumi/content-review-platform/internal/domain"
)

const (
	// Below this many characters of native PDF text the file is treated as
	// scanned and sent to OCR instead.
	ocrFallbackThreshold = 100

	// Minimum amount of extracted text worth summarizing.
	minSummaryInput = 20

	// Cap on text sent to the summarizer in one call.
	maxSummaryInput = 15000
)

// Placeholder summaries recorded when the pipeline cannot produce a real one.
// Upload and version creation succeed regardless; these are outcomes, not errors.
const (
	SummaryNotApplicable    = "Summarization is not applicable for this file type."
	SummaryNotEnoughText    = "Not enough text to generate a summary."
	SummaryExtractionFailed = "Text could not be extracted from this document."
	SummaryUnavailable      = "Summary generation is currently unavailable."
)

// Service derives plain text from uploaded files and requests summaries and
// sentiment scores from the AI collaborator.
type Service struct {
	ai  *AIClient
	ocr *OCRClient

	// Swappable in tests; extractPDFText in production.
	extractPDF func(filePath string) (string, error)
}

func NewService(ai *AIClient, ocr *OCRClient) *Service {
	return &Service{ai: ai, ocr: ocr, extractPDF: extractPDFText}
}

// GenerateSummary runs the full extraction and summarization chain for a
// stored file. It never returns an error: any failure along the way degrades
// to a descriptive placeholder so the triggering upload always succeeds.
func (s *Service) GenerateSummary(ctx context.Context, filePath, mimeType string) string {
	text, applicable, err := s.ExtractText(ctx, filePath, mimeType)
	if !applicable {
		return SummaryNotApplicable
	}
	if err != nil {
		log.Printf("enrichment: extraction failed for %s (%s): %v", filePath, mimeType, err)
		return SummaryExtractionFailed
	}

	text = strings.TrimSpace(text)
	if len(text) < minSummaryInput {
		return SummaryNotEnoughText
	}
	if len(text) > maxSummaryInput {
		text = text[:maxSummaryInput]
	}

	summary, err := s.ai.Summarize(ctx, text)
	if err != nil {
		log.Printf("enrichment: summarization failed for %s: %v", filePath, err)
		return SummaryUnavailable
	}
	return summary
}

// ExtractText derives plain text from a file by MIME type. The second return
// value is false when the file type has no text to extract (video, archives,
// unknown binaries); extraction errors come back with applicable=true.
func (s *Service) ExtractText(ctx context.Context, filePath, mimeType string) (text string, applicable bool, err error) {
	mime := strings.ToLower(strings.TrimSpace(strings.Split(mimeType, ";")[0]))

	switch {
	case mime == "application/pdf":
		text, err = s.extractPDF(filePath)
		if err == nil && len(strings.TrimSpace(text)) >= ocrFallbackThreshold {
			return text, true, nil
		}
		// Little or no native text: likely a scanned PDF, try OCR.
		ocrText, ocrErr := s.ocr.Extract(ctx, filePath)
		if ocrErr != nil {
			if err != nil {
				return "", true, err
			}
			return "", true, ocrErr
		}
		return ocrText, true, nil

	case mime == "text/plain":
		text, err = readPlainText(filePath)
		return text, true, err

	case strings.HasPrefix(mime, "image/"):
		text, err = s.ocr.Extract(ctx, filePath)
		return text, true, err

	default:
		return "", false, nil
	}
}

// AnalyzeSentiment scores the given comment texts via the AI collaborator.
// Unlike summaries this is requested explicitly, so failures surface as
// ErrAIUnavailable instead of degrading.
func (s *Service) AnalyzeSentiment(ctx context.Context, comments []string) (domain.Sentiment, error) {
	return s.ai.Sentiment(ctx, comments)
}
