package vision

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

const (
	wikipediaSummaryURL = "https://en.wikipedia.org/api/rest_v1/page/summary"
	wikipediaTimeout    = 5 * time.Second

	summaryCacheTTL     = 6 * time.Hour
	summaryCacheCleanup = 30 * time.Minute
)

// Loose binomial match inside running text.
var binomialInText = regexp.MustCompile(`\b([A-Z][a-z]+\s+[a-z]+(?:\s+var\.\s+[a-z]+)?)\b`)

// WikipediaClient looks up encyclopedia summaries for the enhanced-mode
// scientific-name backfill. Summaries are cached so repeated identifications
// of common species cost one lookup.
type WikipediaClient struct {
	baseURL    string
	httpClient *http.Client
	cache      *gocache.Cache
}

// NewWikipediaClient creates the summary client.
func NewWikipediaClient() *WikipediaClient {
	return &WikipediaClient{
		baseURL:    wikipediaSummaryURL,
		httpClient: &http.Client{Timeout: wikipediaTimeout},
		cache:      gocache.New(summaryCacheTTL, summaryCacheCleanup),
	}
}

// ScientificNameFor fetches the summary for a common name and extracts the
// first binomial-looking phrase from it. Returns "" with no error when the
// summary contains none.
func (w *WikipediaClient) ScientificNameFor(ctx context.Context, commonName string) (string, error) {
	if cached, found := w.cache.Get(commonName); found {
		return cached.(string), nil
	}

	summaryURL := fmt.Sprintf("%s/%s", w.baseURL, url.PathEscape(commonName))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, summaryURL, nil)
	if err != nil {
		return "", fmt.Errorf("failed to build summary request: %w", err)
	}

	resp, err := w.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("summary request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("summary API error %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read summary response: %w", err)
	}

	var summary struct {
		Extract string `json:"extract"`
	}
	if err := json.Unmarshal(body, &summary); err != nil {
		return "", fmt.Errorf("failed to parse summary response: %w", err)
	}

	scientificName := ""
	if m := binomialInText.FindStringSubmatch(summary.Extract); m != nil {
		scientificName = m[1]
	}

	w.cache.Set(commonName, scientificName, gocache.DefaultExpiration)
	return scientificName, nil
}
