package vision

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

const (
	defaultInferenceBaseURL = "https://api-inference.huggingface.co/models"
	classifyTimeout         = 30 * time.Second
)

// Label is one raw classification result, exactly as the external service
// produced it. Ranking happens downstream.
type Label struct {
	Label string  `json:"label"`
	Score float64 `json:"score"`
}

// Classifier sends an image to an external classification model and returns
// its labels in service order.
type Classifier interface {
	Classify(ctx context.Context, image []byte, mimeType string) ([]Label, error)
}

// HuggingFaceClassifier calls the HuggingFace inference API with the raw
// image payload. The active default backend.
type HuggingFaceClassifier struct {
	baseURL    string
	model      string
	apiKey     string
	httpClient *http.Client
	limiter    *rate.Limiter
}

// NewHuggingFaceClassifier creates a classifier for the given model.
// requestsPerSecond throttles outbound calls against the shared API key.
func NewHuggingFaceClassifier(model, apiKey string, requestsPerSecond float64) *HuggingFaceClassifier {
	return &HuggingFaceClassifier{
		baseURL: defaultInferenceBaseURL,
		model:   model,
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: classifyTimeout,
		},
		limiter: rate.NewLimiter(rate.Limit(requestsPerSecond), int(requestsPerSecond)+1),
	}
}

// Classify posts the image bytes to the inference endpoint and decodes the
// label list.
func (c *HuggingFaceClassifier) Classify(ctx context.Context, image []byte, mimeType string) ([]Label, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("classifier rate limit: %w", err)
	}

	url := fmt.Sprintf("%s/%s", strings.TrimSuffix(c.baseURL, "/"), c.model)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(image))
	if err != nil {
		return nil, fmt.Errorf("failed to build classifier request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", mimeType)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("classifier request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read classifier response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		slog.Error("Classifier API error", "model", c.model, "status", resp.StatusCode, "body", string(body))
		return nil, fmt.Errorf("classifier API error %d", resp.StatusCode)
	}

	var labels []Label
	if err := json.Unmarshal(body, &labels); err != nil {
		return nil, fmt.Errorf("failed to parse classifier response: %w", err)
	}
	return labels, nil
}
