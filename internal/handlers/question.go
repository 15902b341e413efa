package handlers

import (
	"context"
	"log/slog"
	"time"

	"wildwatch/internal/models"
	"wildwatch/internal/services"

	"github.com/gofiber/fiber/v2"
)

// AnswerSource produces an answer for a question. Both the static matcher and
// the retrieval pipeline implement it; the active one is chosen at startup.
type AnswerSource interface {
	Answer(ctx context.Context, question string) string
}

// QuestionWriter persists asked questions with their answers.
type QuestionWriter interface {
	Create(ctx context.Context, question *models.Question) error
}

type askRequest struct {
	Question string `json:"question"`
}

// QuestionHandler handles POST /ask-question.
type QuestionHandler struct {
	source    AnswerSource
	mode      string
	questions QuestionWriter
	metrics   *services.Metrics
}

// NewQuestionHandler creates a question handler using the given answer source.
// mode is the configured answer mode, recorded on metrics.
func NewQuestionHandler(source AnswerSource, mode string, questions QuestionWriter, metrics *services.Metrics) *QuestionHandler {
	return &QuestionHandler{
		source:    source,
		mode:      mode,
		questions: questions,
		metrics:   metrics,
	}
}

// Ask answers a question and records the exchange.
func (h *QuestionHandler) Ask(c *fiber.Ctx) error {
	var req askRequest
	if err := c.BodyParser(&req); err != nil || req.Question == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Question is required",
		})
	}

	start := time.Now()
	answer := h.source.Answer(c.Context(), req.Question)

	if h.metrics != nil {
		h.metrics.RecordQuestion(h.mode)
		h.metrics.RecordAnswerLatency(time.Since(start).Seconds())
	}

	record := &models.Question{
		Text:   req.Question,
		Answer: answer,
	}
	if err := h.questions.Create(c.Context(), record); err != nil {
		slog.Error("failed to persist question", "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error":   "Failed to process question",
			"details": err.Error(),
		})
	}

	return c.JSON(fiber.Map{
		"id":       record.ID,
		"question": req.Question,
		"answer":   answer,
	})
}
