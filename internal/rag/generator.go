package rag

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
)

const (
	defaultInferenceBaseURL = "https://api-inference.huggingface.co/models"
	generationTimeout       = 30 * time.Second
)

// Fixed user-facing strings for degraded generation outcomes. The generation
// client never returns an error to its caller.
const (
	noAnswerFallback = "I don't have enough information to answer that question about Islamabad's biodiversity."
	apologyFallback  = "I'm sorry, I couldn't generate an answer at this time. Please try again later."
)

// GenerationClient calls the hosted text-generation endpoint.
type GenerationClient struct {
	baseURL    string
	model      string
	apiKey     string
	httpClient *http.Client
}

// NewGenerationClient creates a client for the given model.
func NewGenerationClient(model, apiKey string) *GenerationClient {
	return &GenerationClient{
		baseURL: defaultInferenceBaseURL,
		model:   model,
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: generationTimeout,
		},
	}
}

// Generate sends the prompt to the generation endpoint and normalizes the
// response to a single answer string. The service returns one of three
// shapes: an array of objects with a generated_text field, a bare string, or
// an object with a generated_text field. An unrecognized shape degrades to a
// fixed no-answer string; transport or auth failure degrades to a fixed
// apology. Failures are logged server-side only.
func (g *GenerationClient) Generate(ctx context.Context, prompt string) string {
	payload, err := json.Marshal(map[string]string{"inputs": prompt})
	if err != nil {
		slog.Error("Failed to encode generation request", "error", err)
		return apologyFallback
	}

	url := fmt.Sprintf("%s/%s", strings.TrimSuffix(g.baseURL, "/"), g.model)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		slog.Error("Failed to build generation request", "error", err)
		return apologyFallback
	}
	req.Header.Set("Authorization", "Bearer "+g.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.httpClient.Do(req)
	if err != nil {
		slog.Error("Generation request failed", "model", g.model, "error", err)
		return apologyFallback
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		slog.Error("Failed to read generation response", "error", err)
		return apologyFallback
	}

	if resp.StatusCode != http.StatusOK {
		slog.Error("Generation API error", "model", g.model, "status", resp.StatusCode, "body", string(body))
		return apologyFallback
	}

	return normalizeGeneration(body)
}

// normalizeGeneration extracts the answer text from whichever response shape
// the service returned.
func normalizeGeneration(body []byte) string {
	var arrayShape []struct {
		GeneratedText string `json:"generated_text"`
	}
	if err := json.Unmarshal(body, &arrayShape); err == nil && len(arrayShape) > 0 && arrayShape[0].GeneratedText != "" {
		return arrayShape[0].GeneratedText
	}

	var stringShape string
	if err := json.Unmarshal(body, &stringShape); err == nil && stringShape != "" {
		return stringShape
	}

	var objectShape struct {
		GeneratedText string `json:"generated_text"`
	}
	if err := json.Unmarshal(body, &objectShape); err == nil && objectShape.GeneratedText != "" {
		return objectShape.GeneratedText
	}

	return noAnswerFallback
}
