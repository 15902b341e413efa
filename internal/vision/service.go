package vision

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"sort"

	"wildwatch/internal/models"
	"wildwatch/internal/taxonomy"
)

const (
	confidenceFloor = 0.01
	maxSuggestions  = 5
)

// Pipeline stages reported in Result.FailedStage.
const (
	StageFetch    = "fetch"
	StageClassify = "classify"
)

// Result is the outcome of one identification run. Suggestions is empty when
// the run aborted before classification; RawResponse then carries the error
// message, and otherwise carries the enhanced-mode narrative.
type Result struct {
	Suggestions []models.SpeciesSuggestion `json:"suggestions"`
	RawResponse string                     `json:"rawResponse,omitempty"`

	// FailedStage names the pipeline stage that aborted the run ("fetch"
	// or "classify"). Empty on success. Not part of the wire format.
	FailedStage string `json:"-"`
}

// Service orchestrates the identification pipeline.
type Service struct {
	fetcher    *ImageFetcher
	classifier Classifier
	resolver   *taxonomy.Resolver
	wikipedia  *WikipediaClient
}

// NewService wires the pipeline. wikipedia may be nil to disable the
// enhanced-mode scientific-name backfill.
func NewService(fetcher *ImageFetcher, classifier Classifier, resolver *taxonomy.Resolver, wikipedia *WikipediaClient) *Service {
	return &Service{
		fetcher:    fetcher,
		classifier: classifier,
		resolver:   resolver,
		wikipedia:  wikipedia,
	}
}

// Identify runs the pipeline for one image reference: fetch, classify, parse,
// filter, rank, cap, and optionally enrich the top suggestion. Failures
// before classification produce an empty-suggestions result annotated with
// the error; enhanced-mode enrichment failures are swallowed. The caller
// decides the HTTP status.
func (s *Service) Identify(ctx context.Context, imageURL string, enhancedMode bool) *Result {
	image, mimeType, err := s.fetcher.Fetch(ctx, imageURL)
	if err != nil {
		slog.Error("Image fetch failed", "url", imageURL, "error", err)
		return &Result{
			Suggestions: []models.SpeciesSuggestion{},
			RawResponse: fmt.Sprintf("Error: %v", err),
			FailedStage: StageFetch,
		}
	}

	labels, err := s.classifier.Classify(ctx, image, mimeType)
	if err != nil {
		slog.Error("Classification failed", "url", imageURL, "error", err)
		return &Result{
			Suggestions: []models.SpeciesSuggestion{},
			RawResponse: fmt.Sprintf("Error: %v", err),
			FailedStage: StageClassify,
		}
	}

	suggestions := make([]models.SpeciesSuggestion, 0, len(labels))
	for _, label := range labels {
		if label.Score <= confidenceFloor {
			continue
		}
		parsed := s.resolver.ParseLabel(label.Label)
		suggestions = append(suggestions, models.SpeciesSuggestion{
			Name:           parsed.CommonName,
			ScientificName: parsed.ScientificName,
			Confidence:     label.Score,
		})
	}

	sort.SliceStable(suggestions, func(i, j int) bool {
		return suggestions[i].Confidence > suggestions[j].Confidence
	})
	if len(suggestions) > maxSuggestions {
		suggestions = suggestions[:maxSuggestions]
	}

	result := &Result{Suggestions: suggestions}
	if enhancedMode && len(suggestions) > 0 {
		s.enhance(ctx, result)
	}
	return result
}

// enhance backfills the top suggestion's scientific name from the
// encyclopedia when the classifier didn't supply one, then writes the
// narrative sentence. Lookup failure is non-fatal.
func (s *Service) enhance(ctx context.Context, result *Result) {
	top := &result.Suggestions[0]

	if top.ScientificName == "" && s.wikipedia != nil {
		scientificName, err := s.wikipedia.ScientificNameFor(ctx, top.Name)
		if err != nil {
			slog.Warn("Encyclopedia lookup failed", "name", top.Name, "error", err)
		} else if scientificName != "" {
			top.ScientificName = scientificName
		}
	}

	withScientific := ""
	if top.ScientificName != "" {
		withScientific = fmt.Sprintf(" (%s)", top.ScientificName)
	}
	result.RawResponse = fmt.Sprintf(
		"I've identified this as a %s%s with %d%% confidence. This identification is based on visual features analyzed by a species classification model trained on an extensive dataset of plant and animal species.",
		top.Name, withScientific, int(math.Round(top.Confidence*100)))
}
