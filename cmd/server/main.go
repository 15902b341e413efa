package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"wildwatch/internal/config"
	"wildwatch/internal/database"
	"wildwatch/internal/handlers"
	"wildwatch/internal/jobs"
	"wildwatch/internal/logging"
	"wildwatch/internal/middleware"
	"wildwatch/internal/offline"
	"wildwatch/internal/rag"
	"wildwatch/internal/services"
	"wildwatch/internal/taxonomy"
	"wildwatch/internal/vision"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	// Initialize structured logging (JSON in production, text in dev)
	logging.Init()

	log.Println("🚀 Starting WildWatch Server...")

	// Load .env file (ignore error if file doesn't exist)
	if err := godotenv.Load(); err != nil {
		log.Printf("⚠️  No .env file found or error loading it: %v", err)
	}

	cfg := config.Load()
	log.Printf("📋 Configuration loaded (Port: %s, answer mode: %s, vision backend: %s)",
		cfg.Port, cfg.AnswerMode, cfg.VisionBackend)

	if cfg.MongoURI == "" {
		log.Fatal("❌ MONGODB_URI environment variable is required")
	}

	mongoDB, err := database.NewMongoDB(cfg.MongoURI)
	if err != nil {
		log.Fatalf("❌ Failed to connect to MongoDB: %v", err)
	}
	defer mongoDB.Close(context.Background())
	log.Println("✅ MongoDB connected successfully")

	initCtx, cancelInit := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancelInit()

	if err := mongoDB.Initialize(initCtx); err != nil {
		log.Fatalf("❌ Failed to initialize database indexes: %v", err)
	}

	// Stores
	observationStore := services.NewObservationStore(mongoDB)
	imageStore := services.NewImageStore(mongoDB)
	questionStore := services.NewQuestionStore(mongoDB)
	knowledgeStore := services.NewKnowledgeStore(mongoDB)

	if err := knowledgeStore.SeedIfEmpty(initCtx); err != nil {
		log.Printf("⚠️ Failed to seed knowledge base: %v", err)
	}

	// Redis answer cache (optional)
	var redisService *services.RedisService
	if cfg.RedisURL != "" {
		redisService, err = services.NewRedisService(cfg.RedisURL)
		if err != nil {
			log.Printf("⚠️ Failed to connect to Redis: %v (answer caching disabled)", err)
		} else {
			defer redisService.Close()
			log.Println("✅ Redis connected successfully")
		}
	}

	metrics := services.InitMetrics()

	// Answer source for /ask-question. The static matcher is the default
	// until the generation pipeline is considered reliable.
	var answerSource handlers.AnswerSource
	if cfg.AnswerMode == config.AnswerModeRAG {
		retriever := rag.NewRetriever(knowledgeStore, observationStore)
		generator := rag.NewGenerationClient(cfg.GenerationModel, cfg.HuggingFaceAPIKey)
		var answerCache rag.AnswerCache
		if redisService != nil {
			answerCache = redisService
		}
		answerSource = rag.NewService(retriever, generator, answerCache)
	} else {
		answerSource = offline.Matcher{}
	}

	// Identification pipeline
	var classifier vision.Classifier
	if cfg.VisionBackend == config.VisionBackendGoogleVision {
		classifier = vision.NewGoogleVisionClassifier(cfg.GoogleVisionAPIKey)
	} else {
		classifier = vision.NewHuggingFaceClassifier(cfg.ClassifierModel, cfg.HuggingFaceAPIKey, cfg.ClassifierRate)
	}
	visionService := vision.NewService(
		vision.NewImageFetcher(),
		classifier,
		taxonomy.NewResolver(),
		vision.NewWikipediaClient(),
	)

	// Handlers
	healthHandler := handlers.NewHealthHandler(mongoDB)
	questionHandler := handlers.NewQuestionHandler(answerSource, cfg.AnswerMode, questionStore, metrics)
	observationHandler := handlers.NewObservationHandler(observationStore, imageStore, metrics)
	visionHandler := handlers.NewVisionHandler(visionService, metrics)

	app := fiber.New(fiber.Config{
		AppName:      "WildWatch v1.0",
		ReadTimeout:  60 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
		BodyLimit:    25 * 1024 * 1024, // submitted photos can be up to 20MB
	})

	// Middleware
	app.Use(recover.New())
	app.Use(logger.New())

	prometheus := fiberprometheus.New("wildwatch")
	prometheus.RegisterAt(app, "/metrics")
	app.Use(prometheus.Middleware)

	allowedOrigins := cfg.AllowedOrigins
	if allowedOrigins == "" {
		allowedOrigins = "http://localhost:3000"
		log.Println("⚠️  ALLOWED_ORIGINS not set, using development default")
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins: allowedOrigins,
		AllowMethods: "GET,POST,OPTIONS",
		AllowHeaders: "Origin,Content-Type,Accept",
	}))

	rateLimitConfig := middleware.LoadRateLimitConfig()
	app.Use(middleware.GlobalRateLimiter(rateLimitConfig))
	log.Printf("🛡️  [RATE-LIMIT] Global=%d/min, Vision=%d/min",
		rateLimitConfig.GlobalMax, rateLimitConfig.VisionMax)

	// Routes
	app.Get("/health", healthHandler.Handle)
	app.Post("/ask-question", questionHandler.Ask)
	app.Post("/submit-observation", observationHandler.Submit)
	app.Get("/test-vision", middleware.VisionRateLimiter(rateLimitConfig), visionHandler.Identify)
	app.Get("/observations", observationHandler.List)
	app.Get("/observations/:id", observationHandler.Get)
	app.Get("/images/:id", observationHandler.GetImage)

	// Background jobs
	scheduler, err := jobs.NewScheduler()
	if err != nil {
		log.Fatalf("❌ Failed to create job scheduler: %v", err)
	}
	purgeJob := jobs.NewImagePurgeJob(imageStore, observationStore)
	if err := scheduler.RegisterDaily("orphan-image-purge", 3, 0, purgeJob); err != nil {
		log.Fatalf("❌ Failed to register image purge job: %v", err)
	}
	scheduler.Start()
	log.Println("🕐 Background jobs: orphan image purge (daily 3 AM UTC)")

	// Handle graceful shutdown
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		log.Println("\n🛑 Shutting down server...")

		if err := scheduler.Stop(); err != nil {
			log.Printf("⚠️ Error stopping job scheduler: %v", err)
		}

		if err := app.Shutdown(); err != nil {
			log.Printf("⚠️ Error shutting down server: %v", err)
		}
	}()

	if err := app.Listen(":" + cfg.Port); err != nil {
		log.Fatalf("❌ Failed to start server: %v", err)
	}
}
