package rag

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"wildwatch/internal/models"
)

// KnowledgeStore is the read side of the curated knowledge base.
type KnowledgeStore interface {
	FindByTag(ctx context.Context, tag string) ([]models.KnowledgeSnippet, error)
}

// ObservationReader is the read side of the observation store used for
// context retrieval.
type ObservationReader interface {
	FindByNotesPrefix(ctx context.Context, prefix string) ([]models.Observation, error)
	Recent(ctx context.Context, limit int64) ([]models.Observation, error)
}

// Sentinel context blocks. Store failures and empty retrievals degrade to
// these instead of failing the request.
const (
	NoInformationContext  = "No specific information about that topic is available in the knowledge base or recent observations."
	RetrievalErrorContext = "Context retrieval failed; no supporting information is available."
)

const recentObservationLimit = 3

// Retriever gathers context for a question from the knowledge base and the
// observation store.
type Retriever struct {
	knowledge    KnowledgeStore
	observations ObservationReader
}

// NewRetriever creates a retriever over the given stores.
func NewRetriever(knowledge KnowledgeStore, observations ObservationReader) *Retriever {
	return &Retriever{knowledge: knowledge, observations: observations}
}

// Retrieve returns the context block for a question. Per-keyword results are
// unioned without de-duplication: a snippet matched by several keywords
// appears several times, which adds emphasis in the prompt. Queries run
// sequentially, one round trip per keyword.
func (r *Retriever) Retrieve(ctx context.Context, question string) string {
	keywords := ExtractKeywords(question)
	if len(keywords) == 0 {
		return NoInformationContext
	}

	var parts []string

	for _, keyword := range keywords {
		snippets, err := r.knowledge.FindByTag(ctx, keyword)
		if err != nil {
			slog.Error("Knowledge base query failed", "keyword", keyword, "error", err)
			return RetrievalErrorContext
		}
		for _, s := range snippets {
			parts = append(parts, s.Content)
		}
	}

	var observationLines []string
	for _, keyword := range keywords {
		matches, err := r.observations.FindByNotesPrefix(ctx, keyword)
		if err != nil {
			slog.Error("Observation query failed", "keyword", keyword, "error", err)
			return RetrievalErrorContext
		}
		for _, o := range matches {
			observationLines = append(observationLines, renderObservation("Observation", o))
		}
	}

	if len(observationLines) == 0 {
		recent, err := r.observations.Recent(ctx, recentObservationLimit)
		if err != nil {
			slog.Error("Recent observations query failed", "error", err)
			return RetrievalErrorContext
		}
		for _, o := range recent {
			observationLines = append(observationLines, renderObservation("Recent observation", o))
		}
	}

	parts = append(parts, observationLines...)
	if len(parts) == 0 {
		return NoInformationContext
	}

	return strings.Join(parts, "\n\n")
}

func renderObservation(prefix string, o models.Observation) string {
	return fmt.Sprintf("%s of %s (%s) at %s: %s", prefix, o.CommonName, o.SpeciesName, o.Location, o.Notes)
}
