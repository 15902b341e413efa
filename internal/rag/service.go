package rag

import (
	"context"
	"log/slog"
)

// AnswerCache caches generated answers by question. Implementations must be
// safe for concurrent use. A nil cache disables caching.
type AnswerCache interface {
	Get(ctx context.Context, question string) (string, bool)
	Set(ctx context.Context, question, answer string)
}

// Service runs the full question-answering pipeline: retrieve context, build
// the prompt, call the generation model.
type Service struct {
	retriever *Retriever
	generator *GenerationClient
	cache     AnswerCache
}

// NewService creates the QA service. cache may be nil.
func NewService(retriever *Retriever, generator *GenerationClient, cache AnswerCache) *Service {
	return &Service{
		retriever: retriever,
		generator: generator,
		cache:     cache,
	}
}

// Answer produces an answer for the question. Never fails: every upstream
// problem has already degraded to a sentinel context or a fixed fallback
// answer by the time it reaches the caller.
func (s *Service) Answer(ctx context.Context, question string) string {
	if s.cache != nil {
		if answer, ok := s.cache.Get(ctx, question); ok {
			slog.Debug("Answer served from cache", "question", question)
			return answer
		}
	}

	contextBlock := s.retriever.Retrieve(ctx, question)
	prompt := BuildPrompt(contextBlock, question)
	answer := s.generator.Generate(ctx, prompt)

	if s.cache != nil {
		s.cache.Set(ctx, question, answer)
	}
	return answer
}
