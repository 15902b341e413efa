package handlers

import (
	"context"
	"encoding/base64"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"wildwatch/internal/models"
	"wildwatch/internal/services"

	"github.com/gofiber/fiber/v2"
)

// ObservationStore is the persistence surface the observation handler needs.
type ObservationStore interface {
	Create(ctx context.Context, observation *models.Observation) error
	GetByID(ctx context.Context, id string) (*models.Observation, error)
	Recent(ctx context.Context, limit int64) ([]models.Observation, error)
}

// ImageBlobStore stores and serves submitted photos.
type ImageBlobStore interface {
	Store(ctx context.Context, image []byte, mimeType string) (string, error)
	GetByID(ctx context.Context, id string) (*models.ImageRecord, error)
}

// ObservationHandler handles observation submission and retrieval.
type ObservationHandler struct {
	observations ObservationStore
	images       ImageBlobStore
	metrics      *services.Metrics
}

// NewObservationHandler creates a new observation handler
func NewObservationHandler(observations ObservationStore, images ImageBlobStore, metrics *services.Metrics) *ObservationHandler {
	return &ObservationHandler{
		observations: observations,
		images:       images,
		metrics:      metrics,
	}
}

// Submit handles POST /submit-observation. The photo is stored as a database
// blob and the observation references it; identification is not invoked here,
// a placeholder suggestion is stored instead.
func (h *ObservationHandler) Submit(c *fiber.Ctx) error {
	fileHeader, err := c.FormFile("image")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Image is required",
		})
	}

	file, err := fileHeader.Open()
	if err != nil {
		return h.submitFailed(c, err)
	}
	defer file.Close()

	imageBytes, err := io.ReadAll(file)
	if err != nil {
		return h.submitFailed(c, err)
	}

	imageURL, err := h.images.Store(c.Context(), imageBytes, fileHeader.Header.Get("Content-Type"))
	if err != nil {
		return h.submitFailed(c, err)
	}

	observation := &models.Observation{
		SpeciesName:  c.FormValue("species_name"),
		CommonName:   c.FormValue("common_name"),
		DateObserved: c.FormValue("date_observed"),
		Location:     c.FormValue("location"),
		Notes:        c.FormValue("notes"),
		ImageURL:     imageURL,
		AIIdentification: &models.Identification{
			Suggestions: []models.SpeciesSuggestion{
				{Name: "AI identification unavailable", Confidence: 0},
			},
		},
	}

	if err := h.observations.Create(c.Context(), observation); err != nil {
		return h.submitFailed(c, err)
	}

	if h.metrics != nil {
		h.metrics.RecordObservationSubmitted()
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message":        "Observation submitted successfully",
		"observation_id": observation.ID,
	})
}

func (h *ObservationHandler) submitFailed(c *fiber.Ctx, err error) error {
	slog.Error("failed to submit observation", "error", err)
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"error":   "Failed to submit observation",
		"details": err.Error(),
	})
}

// List handles GET /observations, newest first.
func (h *ObservationHandler) List(c *fiber.Ctx) error {
	limit, _ := strconv.ParseInt(c.Query("limit", "20"), 10, 64)

	observations, err := h.observations.Recent(c.Context(), limit)
	if err != nil {
		slog.Error("failed to list observations", "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error":   "Failed to list observations",
			"details": err.Error(),
		})
	}

	if observations == nil {
		observations = []models.Observation{}
	}
	return c.JSON(fiber.Map{"observations": observations})
}

// Get handles GET /observations/:id.
func (h *ObservationHandler) Get(c *fiber.Ctx) error {
	observation, err := h.observations.GetByID(c.Context(), c.Params("id"))
	if err != nil {
		slog.Error("failed to get observation", "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error":   "Failed to get observation",
			"details": err.Error(),
		})
	}
	if observation == nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Observation not found",
		})
	}
	return c.JSON(observation)
}

// GetImage handles GET /images/:id, serving a stored blob as image bytes.
func (h *ObservationHandler) GetImage(c *fiber.Ctx) error {
	record, err := h.images.GetByID(c.Context(), c.Params("id"))
	if err != nil {
		slog.Error("failed to get image", "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error":   "Failed to get image",
			"details": err.Error(),
		})
	}
	if record == nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Image not found",
		})
	}

	mimeType, imageBytes, err := decodeDataURI(record.Data)
	if err != nil {
		slog.Error("stored image is not a valid data URI", "id", record.ID, "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Stored image is corrupt",
		})
	}

	c.Set(fiber.HeaderContentType, mimeType)
	return c.Send(imageBytes)
}

func decodeDataURI(data string) (string, []byte, error) {
	rest, ok := strings.CutPrefix(data, "data:")
	if !ok {
		return "", nil, fiber.ErrUnprocessableEntity
	}
	meta, payload, ok := strings.Cut(rest, ",")
	if !ok {
		return "", nil, fiber.ErrUnprocessableEntity
	}

	mimeType := strings.TrimSuffix(meta, ";base64")
	if mimeType == "" {
		mimeType = "application/octet-stream"
	}

	decoded, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return "", nil, err
	}
	return mimeType, decoded, nil
}
