// Package vision implements the species-identification pipeline: image
// fetching, classification via an external model service, label parsing, and
// the optional enhanced-mode enrichment.
package vision

import (
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const (
	fetchTimeout = 10 * time.Second
	maxImageSize = 20 * 1024 * 1024 // 20MB
)

// FetchError marks an image-fetch failure. Unlike downstream enrichment
// failures, fetch failures abort the identification request.
type FetchError struct {
	URL string
	Err error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("failed to fetch image %s: %v", e.URL, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// ImageFetcher resolves an image reference (http(s) URL or data URL) to raw
// bytes plus a MIME type.
type ImageFetcher struct {
	client *http.Client
}

// NewImageFetcher creates a fetcher with the standard 10-second timeout.
func NewImageFetcher() *ImageFetcher {
	return &ImageFetcher{
		client: &http.Client{Timeout: fetchTimeout},
	}
}

// Fetch returns the image bytes and MIME type for a URL. Data URLs are
// decoded inline with no network round trip.
func (f *ImageFetcher) Fetch(ctx context.Context, imageURL string) ([]byte, string, error) {
	if strings.HasPrefix(imageURL, "data:") {
		return decodeDataURL(imageURL)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, imageURL, nil)
	if err != nil {
		return nil, "", &FetchError{URL: imageURL, Err: err}
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, "", &FetchError{URL: imageURL, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, "", &FetchError{URL: imageURL, Err: fmt.Errorf("unexpected status %d", resp.StatusCode)}
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxImageSize))
	if err != nil {
		return nil, "", &FetchError{URL: imageURL, Err: err}
	}

	mimeType := resp.Header.Get("Content-Type")
	if mimeType == "" {
		mimeType = http.DetectContentType(data)
	}
	return data, mimeType, nil
}

// decodeDataURL splits "data:image/jpeg;base64,..." into bytes and MIME type.
func decodeDataURL(dataURL string) ([]byte, string, error) {
	header, encoded, found := strings.Cut(dataURL, ",")
	if !found {
		return nil, "", &FetchError{URL: "data URL", Err: fmt.Errorf("malformed data URL")}
	}

	mimeType := strings.TrimPrefix(header, "data:")
	mimeType = strings.TrimSuffix(mimeType, ";base64")
	if mimeType == "" {
		mimeType = "image/jpeg"
	}

	data, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, "", &FetchError{URL: "data URL", Err: err}
	}
	return data, mimeType, nil
}
