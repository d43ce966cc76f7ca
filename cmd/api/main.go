package main

import (
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"prepmate/interview-gateway/internal/config"
	"prepmate/interview-gateway/internal/handlers"
	"prepmate/interview-gateway/internal/repositories"
	"prepmate/interview-gateway/internal/services"
)

func main() {
	// Load configuration
	cfg := config.Load()
	log.Println("✅ Config loaded successfully")

	// Provider registry: ordered, loaded once, providers without a key
	// stay in the list but are never called
	providers := services.NewProviderRegistry(cfg.Providers)
	enabledCount := 0
	for _, p := range providers {
		if p.Enabled() {
			enabledCount++
		}
	}
	log.Printf("✅ Provider registry loaded (%d of %d providers enabled)\n", enabledCount, len(providers))

	// Secondary fallback (Gemini); absence of the key disables it, never
	// a startup failure
	var geminiService services.GeminiService
	if cfg.Gemini.APIKey != "" {
		var err error
		geminiService, err = services.NewGeminiService(cfg.Gemini.APIKey)
		if err != nil {
			log.Fatalf("❌ Failed to initialize Gemini: %v", err)
		}
		log.Println("✅ Secondary fallback (Gemini) initialized")
	} else {
		log.Println("⚠️  GEMINI_API_KEY not set, secondary fallback disabled")
	}

	// Completion orchestrator
	completionClient := services.NewHTTPCompletionClient(cfg.Gateway.CompletionTimeout)
	orchestrator := services.NewOrchestrator(
		providers,
		completionClient,
		geminiService,
		cfg.Gateway.MaxAttempts,
		cfg.Gateway.BaseRetryDelay,
		cfg.Gateway.CompletionTimeout,
		cfg.Gateway.MaxTokens,
	)
	log.Println("✅ Completion orchestrator initialized")

	// Optional question bank (needs both Qdrant and the Gemini embedder)
	var questionBank services.QuestionBankService
	if cfg.Qdrant.Enabled() && geminiService != nil {
		var err error
		questionBank, err = services.NewQuestionBankService(
			cfg.Qdrant.URL,
			cfg.Qdrant.APIKey,
			cfg.Qdrant.Collection,
			geminiService,
		)
		if err != nil {
			log.Fatalf("❌ Failed to initialize question bank: %v", err)
		}
		if err := questionBank.InitCollection(); err != nil {
			log.Fatalf("❌ Failed to initialize question bank collection: %v", err)
		}
		log.Println("✅ Question bank initialized")
	} else {
		log.Println("⚠️  Question bank disabled (QDRANT_URL or GEMINI_API_KEY not set)")
	}

	// Interview protocol service
	promptBuilder := services.NewPromptBuilder(cfg.Gateway.JobDescMaxChars)
	interviewService := services.NewInterviewService(orchestrator, promptBuilder, questionBank)
	log.Println("✅ Interview service initialized")

	// Optional archive (Postgres + background worker)
	var interviewRepo repositories.InterviewRepository
	var archiveWorker services.ArchiveWorker
	if cfg.Database.Enabled() {
		db, err := config.InitDatabase(cfg)
		if err != nil {
			log.Fatalf("❌ Failed to initialize database: %v", err)
		}
		interviewRepo = repositories.NewInterviewRepository(db)
		archiveWorker = services.NewArchiveWorker(interviewRepo, cfg.Worker.Concurrency)
		archiveWorker.Start()
	} else {
		log.Println("⚠️  DB_HOST not set, interview archive disabled")
	}

	// Job description upload path
	storageService := services.NewStorageService(cfg.Storage.UploadPath)
	if err := storageService.EnsureUploadDir(); err != nil {
		log.Fatalf("❌ Failed to create upload directory: %v", err)
	}
	pdfParser := services.NewPDFParserService()
	log.Println("✅ Services initialized successfully")

	// Initialize Handlers
	interviewHandler := handlers.NewInterviewHandler(interviewService, archiveWorker)
	jobDescriptionHandler := handlers.NewJobDescriptionHandler(
		storageService,
		pdfParser,
		cfg.Storage.MaxFileSize,
		cfg.Gateway.JobDescMaxChars,
	)
	archiveHandler := handlers.NewArchiveHandler(interviewRepo)
	log.Println("✅ Handlers initialized")

	// Create Fiber app
	app := fiber.New(fiber.Config{
		AppName:      "AI Mock Interview Gateway",
		ReadTimeout:  60 * time.Second,
		WriteTimeout: 60 * time.Second,
		BodyLimit:    int(cfg.Storage.MaxFileSize),
		ErrorHandler: customErrorHandler,
	})

	// Middleware
	app.Use(recover.New())
	app.Use(logger.New(logger.Config{
		Format:     "[${time}] ${status} - ${latency} ${method} ${path}\n",
		TimeFormat: "2006-01-02 15:04:05",
	}))

	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))

	// Routes
	api := app.Group("/api/v1")

	// Health check
	api.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status": "healthy",
			"time":   time.Now(),
		})
	})

	// API endpoints
	api.Post("/interview", interviewHandler.HandleInterview)
	api.Post("/job-description", jobDescriptionHandler.HandleUpload)
	api.Get("/interviews/:sessionId", archiveHandler.HandleGetInterview)

	// Root route
	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"message": "AI Mock Interview Gateway",
			"version": "1.0.0",
			"endpoints": []string{
				"POST /api/v1/interview",
				"POST /api/v1/job-description",
				"GET /api/v1/interviews/:sessionId",
			},
		})
	})

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-quit
		log.Println("\n🛑 Shutting down server...")
		if archiveWorker != nil {
			archiveWorker.Stop()
		}
		if err := app.Shutdown(); err != nil {
			log.Printf("❌ Server forced to shutdown: %v", err)
		}
	}()

	// Start server
	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	log.Printf("🚀 Server starting on %s\n", addr)

	if err := app.Listen(addr); err != nil {
		log.Fatalf("❌ Failed to start server: %v", err)
	}
}

func customErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError

	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
	}

	return c.Status(code).JSON(fiber.Map{
		"error": err.Error(),
		"code":  code,
	})
}
