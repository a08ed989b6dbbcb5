package enrichment

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/meezumi/content-review-platform/internal/domain"
)

// AIClient talks to the external AI service over HTTP. The service exposes
// POST /summarize {text} and POST /sentiment {comments}.
type AIClient struct {
	baseURL string
	client  *http.Client
}

func NewAIClient(baseURL string, timeout time.Duration) *AIClient {
	return &AIClient{
		baseURL: baseURL,
		client:  &http.Client{Timeout: timeout},
	}
}

// IsConfigured reports whether a service URL was provided.
func (c *AIClient) IsConfigured() bool {
	return c.baseURL != ""
}

func (c *AIClient) Summarize(ctx context.Context, text string) (string, error) {
	if !c.IsConfigured() {
		return "", ErrAIUnavailable
	}

	var result struct {
		Summary string `json:"summary"`
		Error   string `json:"error"`
	}
	if err := c.post(ctx, "/summarize", map[string]string{"text": text}, &result); err != nil {
		return "", err
	}
	if result.Error != "" {
		return "", fmt.Errorf("summarize: %s", result.Error)
	}
	return result.Summary, nil
}

func (c *AIClient) Sentiment(ctx context.Context, comments []string) (domain.Sentiment, error) {
	if !c.IsConfigured() {
		return domain.Sentiment{}, ErrAIUnavailable
	}
	if comments == nil {
		comments = []string{}
	}

	var result struct {
		Positive int    `json:"positive"`
		Negative int    `json:"negative"`
		Overall  string `json:"overall"`
		Error    string `json:"error"`
	}
	payload := map[string][]string{"comments": comments}
	if err := c.post(ctx, "/sentiment", payload, &result); err != nil {
		return domain.Sentiment{}, err
	}
	if result.Error != "" {
		return domain.Sentiment{}, fmt.Errorf("sentiment: %s", result.Error)
	}
	if result.Overall == "" {
		result.Overall = "NEUTRAL"
	}
	return domain.Sentiment{
		Positive: result.Positive,
		Negative: result.Negative,
		Overall:  result.Overall,
	}, nil
}

func (c *AIClient) post(ctx context.Context, path string, payload any, out any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrAIUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: status %d", ErrAIUnavailable, resp.StatusCode)
	}

	return json.NewDecoder(resp.Body).Decode(out)
}
