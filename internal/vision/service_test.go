package vision

import (
	"context"
	"strings"
	"testing"

	"github.com/jarcoal/httpmock"

	"wildwatch/internal/taxonomy"
)

const (
	testImageURL      = "https://images.example.com/sighting.jpg"
	testClassifierURL = "https://api-inference.huggingface.co/models/AntoineC/inaturalist-resnet50-best"
)

// tinyJPEG is enough of a payload for the pipeline; nothing inspects pixels.
var tinyJPEG = []byte{0xFF, 0xD8, 0xFF, 0xE0, 0x00, 0x10, 0x4A, 0x46, 0x49, 0x46}

func newTestService(t *testing.T) *Service {
	t.Helper()

	fetcher := NewImageFetcher()
	classifier := NewHuggingFaceClassifier("AntoineC/inaturalist-resnet50-best", "test-key", 100)
	wikipedia := NewWikipediaClient()

	httpmock.ActivateNonDefault(fetcher.client)
	httpmock.ActivateNonDefault(classifier.httpClient)
	httpmock.ActivateNonDefault(wikipedia.httpClient)

	return NewService(fetcher, classifier, taxonomy.NewResolver(), wikipedia)
}

func registerImage() {
	httpmock.RegisterResponder("GET", testImageURL,
		httpmock.NewBytesResponder(200, tinyJPEG))
}

func TestIdentifyFiltersSortsAndCaps(t *testing.T) {
	svc := newTestService(t)
	defer httpmock.DeactivateAndReset()

	registerImage()
	httpmock.RegisterResponder("POST", testClassifierURL,
		httpmock.NewStringResponder(200, `[
			{"label": "Leopard (Panthera pardus)", "score": 0.92},
			{"label": "Dog", "score": 0.005}
		]`))

	result := svc.Identify(context.Background(), testImageURL, false)

	if len(result.Suggestions) != 1 {
		t.Fatalf("Expected 1 suggestion after the confidence filter, got %d", len(result.Suggestions))
	}
	top := result.Suggestions[0]
	if top.Name != "Leopard" || top.ScientificName != "Panthera pardus" || top.Confidence != 0.92 {
		t.Errorf("Top suggestion = %+v", top)
	}
	if result.RawResponse != "" {
		t.Errorf("Non-enhanced run should have no narrative, got %q", result.RawResponse)
	}
}

func TestIdentifySortsDescendingAndCapsAtFive(t *testing.T) {
	svc := newTestService(t)
	defer httpmock.DeactivateAndReset()

	registerImage()
	httpmock.RegisterResponder("POST", testClassifierURL,
		httpmock.NewStringResponder(200, `[
			{"label": "Hoopoe", "score": 0.10},
			{"label": "Indian Peafowl (Pavo cristatus)", "score": 0.50},
			{"label": "Grey Francolin", "score": 0.20},
			{"label": "Spotted Owlet", "score": 0.30},
			{"label": "Rock Pigeon", "score": 0.40},
			{"label": "Mallard Duck", "score": 0.15}
		]`))

	result := svc.Identify(context.Background(), testImageURL, false)

	if len(result.Suggestions) != 5 {
		t.Fatalf("Expected the list capped at 5, got %d", len(result.Suggestions))
	}
	for i := 1; i < len(result.Suggestions); i++ {
		if result.Suggestions[i].Confidence > result.Suggestions[i-1].Confidence {
			t.Errorf("Suggestions not sorted: %v before %v",
				result.Suggestions[i-1], result.Suggestions[i])
		}
	}
	if result.Suggestions[0].Name != "Indian Peafowl" {
		t.Errorf("Top suggestion = %q, want Indian Peafowl", result.Suggestions[0].Name)
	}
}

func TestIdentifyFetchFailureAborts(t *testing.T) {
	svc := newTestService(t)
	defer httpmock.DeactivateAndReset()

	httpmock.RegisterResponder("GET", testImageURL,
		httpmock.NewStringResponder(404, "not found"))

	result := svc.Identify(context.Background(), testImageURL, false)

	if len(result.Suggestions) != 0 {
		t.Errorf("Fetch failure should yield no suggestions, got %v", result.Suggestions)
	}
	if !strings.HasPrefix(result.RawResponse, "Error:") {
		t.Errorf("Result should be annotated with the fetch error, got %q", result.RawResponse)
	}
	if httpmock.GetTotalCallCount() != 1 {
		t.Error("Classifier must not be called when the image fetch fails")
	}
}

func TestIdentifyDataURLSkipsFetch(t *testing.T) {
	svc := newTestService(t)
	defer httpmock.DeactivateAndReset()

	httpmock.RegisterResponder("POST", testClassifierURL,
		httpmock.NewStringResponder(200, `[{"label": "Hoopoe", "score": 0.88}]`))

	dataURL := "data:image/jpeg;base64,/9j/4AAQSkZJRg=="
	result := svc.Identify(context.Background(), dataURL, false)

	if len(result.Suggestions) != 1 || result.Suggestions[0].Name != "Hoopoe" {
		t.Fatalf("Unexpected result %+v", result)
	}
	if result.Suggestions[0].ScientificName != "Upupa epops" {
		t.Errorf("ScientificName = %q, want the table backfill", result.Suggestions[0].ScientificName)
	}
}

func TestIdentifyEnhancedModeNarrative(t *testing.T) {
	svc := newTestService(t)
	defer httpmock.DeactivateAndReset()

	registerImage()
	httpmock.RegisterResponder("POST", testClassifierURL,
		httpmock.NewStringResponder(200, `[{"label": "Leopard (Panthera pardus)", "score": 0.92}]`))

	result := svc.Identify(context.Background(), testImageURL, true)

	if result.RawResponse == "" {
		t.Fatal("Enhanced mode should produce a narrative")
	}
	for _, piece := range []string{"Leopard", "(Panthera pardus)", "92%"} {
		if !strings.Contains(result.RawResponse, piece) {
			t.Errorf("Narrative missing %q: %q", piece, result.RawResponse)
		}
	}
}

func TestIdentifyEnhancedModeWikipediaBackfill(t *testing.T) {
	svc := newTestService(t)
	defer httpmock.DeactivateAndReset()

	registerImage()
	httpmock.RegisterResponder("POST", testClassifierURL,
		httpmock.NewStringResponder(200, `[{"label": "Indian Cobra", "score": 0.81}]`))
	httpmock.RegisterResponder("GET", "https://en.wikipedia.org/api/rest_v1/page/summary/Indian%20Cobra",
		httpmock.NewStringResponder(200, `{"extract": "The Indian cobra (Naja naja) is a venomous snake native to the Indian subcontinent."}`))

	result := svc.Identify(context.Background(), testImageURL, true)

	if len(result.Suggestions) == 0 {
		t.Fatal("Expected a suggestion")
	}
	if result.Suggestions[0].ScientificName != "Naja naja" {
		t.Errorf("ScientificName = %q, want Naja naja from the summary", result.Suggestions[0].ScientificName)
	}
}

func TestIdentifyEnhancedModeLookupFailureIsNonFatal(t *testing.T) {
	svc := newTestService(t)
	defer httpmock.DeactivateAndReset()

	registerImage()
	httpmock.RegisterResponder("POST", testClassifierURL,
		httpmock.NewStringResponder(200, `[{"label": "Mystery Creature", "score": 0.75}]`))
	httpmock.RegisterResponder("GET", `=~^https://en\.wikipedia\.org/.*`,
		httpmock.NewStringResponder(503, "unavailable"))

	result := svc.Identify(context.Background(), testImageURL, true)

	if len(result.Suggestions) != 1 {
		t.Fatalf("Lookup failure must not drop the suggestion, got %d", len(result.Suggestions))
	}
	if result.Suggestions[0].ScientificName != "" {
		t.Errorf("ScientificName should stay empty, got %q", result.Suggestions[0].ScientificName)
	}
	if !strings.Contains(result.RawResponse, "Mystery Creature") {
		t.Errorf("Narrative should still be produced, got %q", result.RawResponse)
	}
}
