package config

import (
	"os"
	"strconv"
)

// Answer sources for /ask-question.
const (
	AnswerModeOffline = "offline" // static keyword matcher (default)
	AnswerModeRAG     = "rag"     // retrieval + hosted generation model
)

// Vision backends. Only one is active at a time; the other key stays
// configured as an alternate.
const (
	VisionBackendHuggingFace  = "huggingface"
	VisionBackendGoogleVision = "googlevision"
)

// Config holds all application configuration
type Config struct {
	Port           string
	MongoURI       string
	RedisURL       string
	AllowedOrigins string

	// External model services
	HuggingFaceAPIKey  string
	GoogleVisionAPIKey string
	ClassifierModel    string
	GenerationModel    string

	// Behavior switches
	AnswerMode    string // "offline" or "rag"
	VisionBackend string // "huggingface" or "googlevision"

	// Outbound classifier throttle (requests/second against the shared key)
	ClassifierRate float64
}

// Load loads configuration from environment variables with defaults
func Load() *Config {
	return &Config{
		Port:           getEnv("PORT", "3001"),
		MongoURI:       getEnv("MONGODB_URI", ""),
		RedisURL:       getEnv("REDIS_URL", ""),
		AllowedOrigins: getEnv("ALLOWED_ORIGINS", ""),

		HuggingFaceAPIKey:  getEnv("HUGGINGFACE_API_KEY", ""),
		GoogleVisionAPIKey: getEnv("GOOGLE_VISION_API_KEY", ""),
		ClassifierModel:    getEnv("CLASSIFIER_MODEL", "AntoineC/inaturalist-resnet50-best"),
		GenerationModel:    getEnv("GENERATION_MODEL", "google/flan-t5-xl"),

		AnswerMode:    getEnv("ANSWER_MODE", AnswerModeOffline),
		VisionBackend: getEnv("VISION_BACKEND", VisionBackendHuggingFace),

		ClassifierRate: getFloatEnv("CLASSIFIER_RATE", 2.0),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getFloatEnv(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		parsed, err := strconv.ParseFloat(value, 64)
		if err == nil && parsed > 0 {
			return parsed
		}
	}
	return defaultValue
}
