package handlers

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http/httptest"
	"strings"
	"testing"

	"wildwatch/internal/models"
	"wildwatch/internal/vision"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type staticSource struct{ answer string }

func (s staticSource) Answer(_ context.Context, _ string) string { return s.answer }

type fakeQuestionStore struct {
	created []*models.Question
	err     error
}

func (f *fakeQuestionStore) Create(_ context.Context, q *models.Question) error {
	if f.err != nil {
		return f.err
	}
	q.ID = uuid.New().String()
	f.created = append(f.created, q)
	return nil
}

type fakeObservationStore struct {
	observations map[string]*models.Observation
	createErr    error
}

func newFakeObservationStore() *fakeObservationStore {
	return &fakeObservationStore{observations: make(map[string]*models.Observation)}
}

func (f *fakeObservationStore) Create(_ context.Context, o *models.Observation) error {
	if f.createErr != nil {
		return f.createErr
	}
	o.ID = uuid.New().String()
	f.observations[o.ID] = o
	return nil
}

func (f *fakeObservationStore) GetByID(_ context.Context, id string) (*models.Observation, error) {
	return f.observations[id], nil
}

func (f *fakeObservationStore) Recent(_ context.Context, limit int64) ([]models.Observation, error) {
	var out []models.Observation
	for _, o := range f.observations {
		out = append(out, *o)
	}
	return out, nil
}

type fakeImageStore struct {
	records map[string]*models.ImageRecord
}

func newFakeImageStore() *fakeImageStore {
	return &fakeImageStore{records: make(map[string]*models.ImageRecord)}
}

func (f *fakeImageStore) Store(_ context.Context, image []byte, mimeType string) (string, error) {
	if mimeType == "" {
		mimeType = "image/jpeg"
	}
	id := uuid.New().String()
	f.records[id] = &models.ImageRecord{
		ID:   id,
		Data: "data:" + mimeType + ";base64," + base64.StdEncoding.EncodeToString(image),
	}
	return models.ImageRef(id), nil
}

func (f *fakeImageStore) GetByID(_ context.Context, id string) (*models.ImageRecord, error) {
	return f.records[id], nil
}

type fakeIdentifier struct{ result *vision.Result }

func (f fakeIdentifier) Identify(_ context.Context, _ string, _ bool) *vision.Result {
	return f.result
}

func decodeBody(t *testing.T, resp io.Reader) map[string]any {
	t.Helper()
	var body map[string]any
	if err := json.NewDecoder(resp).Decode(&body); err != nil {
		t.Fatalf("Failed to decode response body: %v", err)
	}
	return body
}

func TestAskQuestionMissingBody(t *testing.T) {
	app := fiber.New()
	handler := NewQuestionHandler(staticSource{answer: "x"}, "offline", &fakeQuestionStore{}, nil)
	app.Post("/ask-question", handler.Ask)

	req := httptest.NewRequest("POST", "/ask-question", strings.NewReader(`{}`))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("Failed to send request: %v", err)
	}

	if resp.StatusCode != fiber.StatusBadRequest {
		t.Errorf("status = %d, want 400", resp.StatusCode)
	}
	body := decodeBody(t, resp.Body)
	if body["error"] != "Question is required" {
		t.Errorf("error = %q, want %q", body["error"], "Question is required")
	}
}

func TestAskQuestionSuccess(t *testing.T) {
	app := fiber.New()
	store := &fakeQuestionStore{}
	handler := NewQuestionHandler(staticSource{answer: "Rawal Lake hosts many waterfowl."}, "offline", store, nil)
	app.Post("/ask-question", handler.Ask)

	payload := `{"question":"Tell me about Rawal Lake birds"}`
	req := httptest.NewRequest("POST", "/ask-question", strings.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("Failed to send request: %v", err)
	}

	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	body := decodeBody(t, resp.Body)
	if body["answer"] == "" || body["answer"] == nil {
		t.Error("expected a non-empty answer")
	}
	if body["question"] != "Tell me about Rawal Lake birds" {
		t.Errorf("question = %q, want question echoed back", body["question"])
	}
	if body["id"] == "" || body["id"] == nil {
		t.Error("expected a generated question id")
	}
	if len(store.created) != 1 {
		t.Fatalf("persisted %d questions, want 1", len(store.created))
	}
	if store.created[0].Answer != "Rawal Lake hosts many waterfowl." {
		t.Errorf("persisted answer = %q", store.created[0].Answer)
	}
}

func TestAskQuestionStoreFailure(t *testing.T) {
	app := fiber.New()
	store := &fakeQuestionStore{err: errors.New("insert failed")}
	handler := NewQuestionHandler(staticSource{answer: "x"}, "offline", store, nil)
	app.Post("/ask-question", handler.Ask)

	req := httptest.NewRequest("POST", "/ask-question", strings.NewReader(`{"question":"q"}`))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("Failed to send request: %v", err)
	}

	if resp.StatusCode != fiber.StatusInternalServerError {
		t.Errorf("status = %d, want 500", resp.StatusCode)
	}
	body := decodeBody(t, resp.Body)
	if body["error"] != "Failed to process question" {
		t.Errorf("error = %q", body["error"])
	}
	if body["details"] == nil {
		t.Error("expected details in error response")
	}
}

func multipartObservation(t *testing.T, includeImage bool) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	fields := map[string]string{
		"species_name":  "Panthera pardus",
		"common_name":   "Leopard",
		"date_observed": "2025-03-14",
		"location":      "Trail 5, Margalla Hills",
		"notes":         "Spotted near the ridge at dusk",
	}
	for name, value := range fields {
		if err := writer.WriteField(name, value); err != nil {
			t.Fatalf("WriteField(%s): %v", name, err)
		}
	}

	if includeImage {
		part, err := writer.CreateFormFile("image", "leopard.jpg")
		if err != nil {
			t.Fatalf("CreateFormFile: %v", err)
		}
		if _, err := part.Write([]byte("fake-jpeg-bytes")); err != nil {
			t.Fatalf("writing image part: %v", err)
		}
	}

	if err := writer.Close(); err != nil {
		t.Fatalf("closing multipart writer: %v", err)
	}
	return &buf, writer.FormDataContentType()
}

func TestSubmitObservationMissingImage(t *testing.T) {
	app := fiber.New()
	handler := NewObservationHandler(newFakeObservationStore(), newFakeImageStore(), nil)
	app.Post("/submit-observation", handler.Submit)

	body, contentType := multipartObservation(t, false)
	req := httptest.NewRequest("POST", "/submit-observation", body)
	req.Header.Set("Content-Type", contentType)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("Failed to send request: %v", err)
	}

	if resp.StatusCode != fiber.StatusBadRequest {
		t.Errorf("status = %d, want 400", resp.StatusCode)
	}
	respBody := decodeBody(t, resp.Body)
	if respBody["error"] != "Image is required" {
		t.Errorf("error = %q, want %q", respBody["error"], "Image is required")
	}
}

func TestSubmitObservationSuccess(t *testing.T) {
	app := fiber.New()
	observations := newFakeObservationStore()
	images := newFakeImageStore()
	handler := NewObservationHandler(observations, images, nil)
	app.Post("/submit-observation", handler.Submit)

	body, contentType := multipartObservation(t, true)
	req := httptest.NewRequest("POST", "/submit-observation", body)
	req.Header.Set("Content-Type", contentType)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("Failed to send request: %v", err)
	}

	if resp.StatusCode != fiber.StatusCreated {
		t.Fatalf("status = %d, want 201", resp.StatusCode)
	}
	respBody := decodeBody(t, resp.Body)
	if respBody["message"] != "Observation submitted successfully" {
		t.Errorf("message = %q", respBody["message"])
	}

	id, _ := respBody["observation_id"].(string)
	stored := observations.observations[id]
	if stored == nil {
		t.Fatalf("observation %q not persisted", id)
	}
	if stored.SpeciesName != "Panthera pardus" || stored.Location != "Trail 5, Margalla Hills" {
		t.Errorf("stored fields = %q / %q", stored.SpeciesName, stored.Location)
	}
	if !strings.HasPrefix(stored.ImageURL, models.ImageRefPrefix) {
		t.Errorf("image_url = %q, want a %s reference", stored.ImageURL, models.ImageRefPrefix)
	}
	if stored.AIIdentification == nil || len(stored.AIIdentification.Suggestions) != 1 ||
		stored.AIIdentification.Suggestions[0].Name != "AI identification unavailable" {
		t.Errorf("ai_identification = %+v, want the unavailable placeholder", stored.AIIdentification)
	}
}

func TestSubmitObservationStorageFailure(t *testing.T) {
	app := fiber.New()
	observations := newFakeObservationStore()
	observations.createErr = errors.New("mongo down")
	handler := NewObservationHandler(observations, newFakeImageStore(), nil)
	app.Post("/submit-observation", handler.Submit)

	body, contentType := multipartObservation(t, true)
	req := httptest.NewRequest("POST", "/submit-observation", body)
	req.Header.Set("Content-Type", contentType)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("Failed to send request: %v", err)
	}

	if resp.StatusCode != fiber.StatusInternalServerError {
		t.Errorf("status = %d, want 500", resp.StatusCode)
	}
	respBody := decodeBody(t, resp.Body)
	if respBody["error"] != "Failed to submit observation" {
		t.Errorf("error = %q", respBody["error"])
	}
}

func TestGetObservationRoundTrip(t *testing.T) {
	app := fiber.New()
	observations := newFakeObservationStore()
	images := newFakeImageStore()
	handler := NewObservationHandler(observations, images, nil)
	app.Post("/submit-observation", handler.Submit)
	app.Get("/observations/:id", handler.Get)

	body, contentType := multipartObservation(t, true)
	req := httptest.NewRequest("POST", "/submit-observation", body)
	req.Header.Set("Content-Type", contentType)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("Failed to send submit request: %v", err)
	}
	submitBody := decodeBody(t, resp.Body)
	id, _ := submitBody["observation_id"].(string)

	getResp, err := app.Test(httptest.NewRequest("GET", "/observations/"+id, nil))
	if err != nil {
		t.Fatalf("Failed to send get request: %v", err)
	}
	if getResp.StatusCode != fiber.StatusOK {
		t.Fatalf("status = %d, want 200", getResp.StatusCode)
	}
	getBody := decodeBody(t, getResp.Body)
	if getBody["common_name"] != "Leopard" || getBody["notes"] != "Spotted near the ridge at dusk" {
		t.Errorf("round-trip fields = %q / %q", getBody["common_name"], getBody["notes"])
	}
}

func TestGetObservationNotFound(t *testing.T) {
	app := fiber.New()
	handler := NewObservationHandler(newFakeObservationStore(), newFakeImageStore(), nil)
	app.Get("/observations/:id", handler.Get)

	resp, err := app.Test(httptest.NewRequest("GET", "/observations/nope", nil))
	if err != nil {
		t.Fatalf("Failed to send request: %v", err)
	}
	if resp.StatusCode != fiber.StatusNotFound {
		t.Errorf("status = %d, want 404", resp.StatusCode)
	}
}

func TestGetImageServesBytes(t *testing.T) {
	app := fiber.New()
	images := newFakeImageStore()
	handler := NewObservationHandler(newFakeObservationStore(), images, nil)
	app.Get("/images/:id", handler.GetImage)

	ref, err := images.Store(context.Background(), []byte("png-bytes"), "image/png")
	if err != nil {
		t.Fatalf("Store: %v", err)
	}
	id, _ := models.ImageIDFromRef(ref)

	resp, err := app.Test(httptest.NewRequest("GET", "/images/"+id, nil))
	if err != nil {
		t.Fatalf("Failed to send request: %v", err)
	}
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "image/png" {
		t.Errorf("Content-Type = %q, want image/png", ct)
	}
	served, _ := io.ReadAll(resp.Body)
	if string(served) != "png-bytes" {
		t.Errorf("body = %q, want original image bytes", served)
	}
}

func TestGetImageNotFound(t *testing.T) {
	app := fiber.New()
	handler := NewObservationHandler(newFakeObservationStore(), newFakeImageStore(), nil)
	app.Get("/images/:id", handler.GetImage)

	resp, err := app.Test(httptest.NewRequest("GET", "/images/missing", nil))
	if err != nil {
		t.Fatalf("Failed to send request: %v", err)
	}
	if resp.StatusCode != fiber.StatusNotFound {
		t.Errorf("status = %d, want 404", resp.StatusCode)
	}
}

func TestVisionMissingImageURL(t *testing.T) {
	app := fiber.New()
	handler := NewVisionHandler(fakeIdentifier{}, nil)
	app.Get("/test-vision", handler.Identify)

	resp, err := app.Test(httptest.NewRequest("GET", "/test-vision", nil))
	if err != nil {
		t.Fatalf("Failed to send request: %v", err)
	}
	if resp.StatusCode != fiber.StatusBadRequest {
		t.Errorf("status = %d, want 400", resp.StatusCode)
	}
	body := decodeBody(t, resp.Body)
	if body["error"] != "Image URL is required" {
		t.Errorf("error = %q", body["error"])
	}
	if body["usage"] == nil {
		t.Error("expected a usage hint")
	}
}

func TestVisionSuccess(t *testing.T) {
	app := fiber.New()
	result := &vision.Result{
		Suggestions: []models.SpeciesSuggestion{
			{Name: "Leopard", ScientificName: "Panthera pardus", Confidence: 0.92},
		},
	}
	handler := NewVisionHandler(fakeIdentifier{result: result}, nil)
	app.Get("/test-vision", handler.Identify)

	resp, err := app.Test(httptest.NewRequest("GET", "/test-vision?imageUrl=https://example.com/cat.jpg&enhancedMode=true", nil))
	if err != nil {
		t.Fatalf("Failed to send request: %v", err)
	}
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	body := decodeBody(t, resp.Body)
	if body["message"] != "Species identification completed" {
		t.Errorf("message = %q", body["message"])
	}
	if body["imageUrl"] != "https://example.com/cat.jpg" {
		t.Errorf("imageUrl = %q", body["imageUrl"])
	}
	if body["enhancedModeUsed"] != true {
		t.Errorf("enhancedModeUsed = %v, want true", body["enhancedModeUsed"])
	}
}

func TestVisionEnhancedPromptAlias(t *testing.T) {
	app := fiber.New()
	handler := NewVisionHandler(fakeIdentifier{result: &vision.Result{}}, nil)
	app.Get("/test-vision", handler.Identify)

	resp, err := app.Test(httptest.NewRequest("GET", "/test-vision?imageUrl=http://x/y.jpg&enhancedPrompt=true", nil))
	if err != nil {
		t.Fatalf("Failed to send request: %v", err)
	}
	body := decodeBody(t, resp.Body)
	if body["enhancedModeUsed"] != true {
		t.Errorf("enhancedModeUsed = %v, want true via enhancedPrompt alias", body["enhancedModeUsed"])
	}
}

func TestVisionFetchFailure(t *testing.T) {
	app := fiber.New()
	result := &vision.Result{
		Suggestions: []models.SpeciesSuggestion{},
		RawResponse: "Error: fetch image: connection refused",
		FailedStage: vision.StageFetch,
	}
	handler := NewVisionHandler(fakeIdentifier{result: result}, nil)
	app.Get("/test-vision", handler.Identify)

	resp, err := app.Test(httptest.NewRequest("GET", "/test-vision?imageUrl=http://x/y.jpg", nil))
	if err != nil {
		t.Fatalf("Failed to send request: %v", err)
	}
	if resp.StatusCode != fiber.StatusInternalServerError {
		t.Errorf("status = %d, want 500", resp.StatusCode)
	}
	body := decodeBody(t, resp.Body)
	if body["error"] != "Failed to identify species" {
		t.Errorf("error = %q", body["error"])
	}
}

func TestVisionClassifyFailureDegrades(t *testing.T) {
	app := fiber.New()
	result := &vision.Result{
		Suggestions: []models.SpeciesSuggestion{},
		RawResponse: "Error: classifier returned status 503",
		FailedStage: vision.StageClassify,
	}
	handler := NewVisionHandler(fakeIdentifier{result: result}, nil)
	app.Get("/test-vision", handler.Identify)

	resp, err := app.Test(httptest.NewRequest("GET", "/test-vision?imageUrl=http://x/y.jpg", nil))
	if err != nil {
		t.Fatalf("Failed to send request: %v", err)
	}
	if resp.StatusCode != fiber.StatusOK {
		t.Errorf("status = %d, want 200 with empty suggestions", resp.StatusCode)
	}
}

func TestHealthHandler(t *testing.T) {
	app := fiber.New()
	handler := NewHealthHandler(nil)
	app.Get("/health", handler.Handle)

	resp, err := app.Test(httptest.NewRequest("GET", "/health", nil))
	if err != nil {
		t.Fatalf("Failed to send request: %v", err)
	}
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	body := decodeBody(t, resp.Body)
	if body["status"] != "healthy" {
		t.Errorf("status = %q, want healthy", body["status"])
	}
}
