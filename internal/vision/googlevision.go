package vision

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

const googleVisionURL = "https://vision.googleapis.com/v1/images:annotate"

// Words that mark a label as a plausible biological entity. Google Vision
// labels anything in the frame, so its output needs this extra filter; the
// dedicated species classifier does not.
var biologicalKeywords = []string{
	"species", "plant", "animal", "bird", "tree", "flower", "insect",
	"wildlife", "flora", "fauna", "fish", "mammal", "reptile", "amphibian",
}

// GoogleVisionClassifier is the alternate identification backend. It runs
// label and web-entity detection and keeps confident, biology-flavored
// results. Web entities without a score default to 0.7.
type GoogleVisionClassifier struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// NewGoogleVisionClassifier creates the alternate backend client.
func NewGoogleVisionClassifier(apiKey string) *GoogleVisionClassifier {
	return &GoogleVisionClassifier{
		baseURL: googleVisionURL,
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: classifyTimeout,
		},
	}
}

type annotateImage struct {
	Content string `json:"content"`
}

type annotateEntry struct {
	Image    annotateImage            `json:"image"`
	Features []map[string]interface{} `json:"features"`
}

type annotateRequest struct {
	Requests []annotateEntry `json:"requests"`
}

type annotateResponse struct {
	Responses []struct {
		LabelAnnotations []struct {
			Description string  `json:"description"`
			Score       float64 `json:"score"`
		} `json:"labelAnnotations"`
		WebDetection struct {
			WebEntities []struct {
				Description string  `json:"description"`
				Score       float64 `json:"score"`
			} `json:"webEntities"`
		} `json:"webDetection"`
	} `json:"responses"`
}

// Classify runs LABEL_DETECTION and WEB_DETECTION over the image and merges
// both result sets into the common label shape.
func (c *GoogleVisionClassifier) Classify(ctx context.Context, image []byte, _ string) ([]Label, error) {
	reqBody := annotateRequest{Requests: []annotateEntry{{
		Image: annotateImage{Content: base64.StdEncoding.EncodeToString(image)},
		Features: []map[string]interface{}{
			{"type": "LABEL_DETECTION", "maxResults": 10},
			{"type": "WEB_DETECTION", "maxResults": 10},
		},
	}}}

	payload, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to encode annotate request: %w", err)
	}

	url := fmt.Sprintf("%s?key=%s", c.baseURL, c.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to build annotate request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("annotate request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read annotate response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("annotate API error %d: %s", resp.StatusCode, string(body))
	}

	var annotated annotateResponse
	if err := json.Unmarshal(body, &annotated); err != nil {
		return nil, fmt.Errorf("failed to parse annotate response: %w", err)
	}
	if len(annotated.Responses) == 0 {
		return nil, nil
	}

	var candidates []Label
	for _, l := range annotated.Responses[0].LabelAnnotations {
		candidates = append(candidates, Label{Label: l.Description, Score: l.Score})
	}
	for _, e := range annotated.Responses[0].WebDetection.WebEntities {
		score := e.Score
		if score == 0 {
			score = 0.7
		}
		candidates = append(candidates, Label{Label: e.Description, Score: score})
	}

	confident := make([]Label, 0, len(candidates))
	for _, l := range candidates {
		if l.Label != "" && l.Score > 0.7 {
			confident = append(confident, l)
		}
	}

	biological := make([]Label, 0, len(confident))
	for _, l := range confident {
		lower := strings.ToLower(l.Label)
		for _, kw := range biologicalKeywords {
			if strings.Contains(lower, kw) {
				biological = append(biological, l)
				break
			}
		}
	}

	// When nothing looks explicitly biological, return the confident set
	// and let the parser and ranking sort it out.
	if len(biological) > 0 {
		return biological, nil
	}
	return confident, nil
}
