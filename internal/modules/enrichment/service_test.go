package enrichment

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTempFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func newAIServer(t *testing.T, summarize func(text string) string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/summarize":
			var payload struct {
				Text string `json:"text"`
			}
			assert.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
			json.NewEncoder(w).Encode(map[string]string{"summary": summarize(payload.Text)})
		case "/sentiment":
			json.NewEncoder(w).Encode(map[string]any{"positive": 75, "negative": 25, "overall": "POSITIVE"})
		default:
			http.NotFound(w, r)
		}
	}))
}

func newOCRServer(t *testing.T, text string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/ocr", r.URL.Path)
		json.NewEncoder(w).Encode(map[string]string{"text": text})
	}))
}

func TestGenerateSummary_PlainText(t *testing.T) {
	ai := newAIServer(t, func(text string) string { return "a short summary" })
	defer ai.Close()

	svc := NewService(NewAIClient(ai.URL, time.Second), NewOCRClient("", time.Second))
	path := writeTempFile(t, "doc.txt", strings.Repeat("review feedback text. ", 10))

	summary := svc.GenerateSummary(context.Background(), path, "text/plain")
	assert.Equal(t, "a short summary", summary)
}

func TestGenerateSummary_NotEnoughText(t *testing.T) {
	// The summarizer must never be called for an 11-char file.
	ai := newAIServer(t, func(text string) string {
		t.Error("summarizer should not be called")
		return ""
	})
	defer ai.Close()

	svc := NewService(NewAIClient(ai.URL, time.Second), NewOCRClient("", time.Second))
	path := writeTempFile(t, "doc.txt", "hello world")

	summary := svc.GenerateSummary(context.Background(), path, "text/plain")
	assert.Equal(t, SummaryNotEnoughText, summary)
}

func TestGenerateSummary_UnsupportedType(t *testing.T) {
	svc := NewService(NewAIClient("", time.Second), NewOCRClient("", time.Second))
	path := writeTempFile(t, "clip.mp4", "not really a video")

	summary := svc.GenerateSummary(context.Background(), path, "video/mp4")
	assert.Equal(t, SummaryNotApplicable, summary)
}

func TestGenerateSummary_CapsSummarizerInput(t *testing.T) {
	var gotLen int
	ai := newAIServer(t, func(text string) string {
		gotLen = len(text)
		return "capped"
	})
	defer ai.Close()

	svc := NewService(NewAIClient(ai.URL, time.Second), NewOCRClient("", time.Second))
	path := writeTempFile(t, "big.txt", strings.Repeat("x", 40000))

	summary := svc.GenerateSummary(context.Background(), path, "text/plain")
	assert.Equal(t, "capped", summary)
	assert.Equal(t, maxSummaryInput, gotLen)
}

func TestGenerateSummary_SummarizerDownDegrades(t *testing.T) {
	svc := NewService(NewAIClient("http://127.0.0.1:1", 100*time.Millisecond), NewOCRClient("", time.Second))
	path := writeTempFile(t, "doc.txt", strings.Repeat("enough text to summarize. ", 5))

	summary := svc.GenerateSummary(context.Background(), path, "text/plain")
	assert.Equal(t, SummaryUnavailable, summary)
}

func TestExtractText_ImageGoesThroughOCR(t *testing.T) {
	ocr := newOCRServer(t, "text recognized from the image")
	defer ocr.Close()

	svc := NewService(NewAIClient("", time.Second), NewOCRClient(ocr.URL, time.Second))
	path := writeTempFile(t, "scan.png", "binary-ish")

	text, applicable, err := svc.ExtractText(context.Background(), path, "image/png")
	require.NoError(t, err)
	assert.True(t, applicable)
	assert.Equal(t, "text recognized from the image", text)
}

func TestExtractText_ScannedPDFFallsBackToOCR(t *testing.T) {
	// Not a parseable PDF, so native extraction fails and the OCR
	// fallback carries the result.
	ocr := newOCRServer(t, "ocr text for the scanned pdf, long enough to summarize")
	defer ocr.Close()

	svc := NewService(NewAIClient("", time.Second), NewOCRClient(ocr.URL, time.Second))
	path := writeTempFile(t, "scan.pdf", "%PDF-1.4 truncated garbage")

	text, applicable, err := svc.ExtractText(context.Background(), path, "application/pdf")
	require.NoError(t, err)
	assert.True(t, applicable)
	assert.Contains(t, text, "ocr text")
}

func TestExtractText_SparseNativePDFFallsBackToOCR(t *testing.T) {
	// The PDF parses fine but carries only 40 chars of native text, below
	// the threshold that marks it as scanned.
	ocr := newOCRServer(t, "ocr text recovered from the scanned pages")
	defer ocr.Close()

	svc := NewService(NewAIClient("", time.Second), NewOCRClient(ocr.URL, time.Second))
	svc.extractPDF = func(string) (string, error) {
		return strings.Repeat("scan", 10), nil
	}
	path := writeTempFile(t, "report.pdf", "placeholder")

	text, applicable, err := svc.ExtractText(context.Background(), path, "application/pdf")
	require.NoError(t, err)
	assert.True(t, applicable)
	assert.Contains(t, text, "ocr text")
}

func TestExtractText_RichNativePDFSkipsOCR(t *testing.T) {
	ocr := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("OCR should not be called when the native text layer suffices")
	}))
	defer ocr.Close()

	native := strings.Repeat("native text layer ", 30) // well past the threshold

	svc := NewService(NewAIClient("", time.Second), NewOCRClient(ocr.URL, time.Second))
	svc.extractPDF = func(string) (string, error) {
		return native, nil
	}
	path := writeTempFile(t, "report.pdf", "placeholder")

	text, applicable, err := svc.ExtractText(context.Background(), path, "application/pdf")
	require.NoError(t, err)
	assert.True(t, applicable)
	assert.Equal(t, native, text)
}

func TestExtractText_PDFWithOCRDownReportsError(t *testing.T) {
	svc := NewService(NewAIClient("", time.Second), NewOCRClient("", time.Second))
	path := writeTempFile(t, "scan.pdf", "%PDF-1.4 truncated garbage")

	_, applicable, err := svc.ExtractText(context.Background(), path, "application/pdf")
	assert.True(t, applicable)
	assert.Error(t, err)
}

func TestAnalyzeSentiment(t *testing.T) {
	ai := newAIServer(t, func(string) string { return "" })
	defer ai.Close()

	svc := NewService(NewAIClient(ai.URL, time.Second), NewOCRClient("", time.Second))

	sentiment, err := svc.AnalyzeSentiment(context.Background(), []string{"great work", "needs changes"})
	require.NoError(t, err)
	assert.Equal(t, 75, sentiment.Positive)
	assert.Equal(t, 25, sentiment.Negative)
	assert.Equal(t, "POSITIVE", sentiment.Overall)
}

func TestAnalyzeSentiment_Unconfigured(t *testing.T) {
	svc := NewService(NewAIClient("", time.Second), NewOCRClient("", time.Second))

	_, err := svc.AnalyzeSentiment(context.Background(), []string{"great"})
	assert.ErrorIs(t, err, ErrAIUnavailable)
}
