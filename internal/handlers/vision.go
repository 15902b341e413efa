package handlers

import (
	"context"
	"time"

	"wildwatch/internal/services"
	"wildwatch/internal/vision"

	"github.com/gofiber/fiber/v2"
)

// Identifier runs the species identification pipeline for one image.
type Identifier interface {
	Identify(ctx context.Context, imageURL string, enhancedMode bool) *vision.Result
}

// VisionHandler handles GET /test-vision.
type VisionHandler struct {
	identifier Identifier
	metrics    *services.Metrics
}

// NewVisionHandler creates a new vision handler
func NewVisionHandler(identifier Identifier, metrics *services.Metrics) *VisionHandler {
	return &VisionHandler{identifier: identifier, metrics: metrics}
}

// Identify runs the identification pipeline standalone against a caller
// supplied image URL. Classifier failures degrade to an empty suggestion
// list; a failed image fetch fails the request.
func (h *VisionHandler) Identify(c *fiber.Ctx) error {
	imageURL := c.Query("imageUrl")
	if imageURL == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Image URL is required",
			"usage": "Add ?imageUrl=<your-image-url> to test the species identification",
		})
	}

	// enhancedPrompt is the legacy parameter name, kept for old clients.
	enhancedMode := c.Query("enhancedMode") == "true" || c.Query("enhancedPrompt") == "true"

	start := time.Now()
	result := h.identifier.Identify(c.Context(), imageURL, enhancedMode)

	if result.FailedStage != "" && h.metrics != nil {
		h.metrics.RecordIdentificationError(result.FailedStage)
	}

	if result.FailedStage == vision.StageFetch {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error":   "Failed to identify species",
			"details": result.RawResponse,
		})
	}

	if h.metrics != nil {
		h.metrics.RecordIdentification(time.Since(start).Seconds())
	}

	return c.JSON(fiber.Map{
		"message":          "Species identification completed",
		"imageUrl":         imageURL,
		"enhancedModeUsed": enhancedMode,
		"result":           result,
	})
}
