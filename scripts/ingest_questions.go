package main

import (
	"context"
	"encoding/json"
	"flag"
	"log"
	"os"

	"github.com/google/uuid"

	"prepmate/interview-gateway/internal/config"
	"prepmate/interview-gateway/internal/services"
)

// Seeds the Qdrant question bank from a JSON file of curated interview
// questions:
//
//	[{"topic": "React hooks", "question": "How does useEffect cleanup work?"}, ...]
//
// Usage: go run ./scripts -file seed_questions.json
type seedQuestion struct {
	Topic    string `json:"topic"`
	Question string `json:"question"`
}

func main() {
	filePath := flag.String("file", "seed_questions.json", "path to the seed questions JSON file")
	flag.Parse()

	log.Println("🚀 Starting question bank ingestion...")

	cfg := config.Load()

	if cfg.Gemini.APIKey == "" {
		log.Fatal("❌ GEMINI_API_KEY is required for embeddings")
	}
	if !cfg.Qdrant.Enabled() {
		log.Fatal("❌ QDRANT_URL is required")
	}

	geminiService, err := services.NewGeminiService(cfg.Gemini.APIKey)
	if err != nil {
		log.Fatalf("❌ Failed to initialize Gemini: %v", err)
	}

	questionBank, err := services.NewQuestionBankService(
		cfg.Qdrant.URL,
		cfg.Qdrant.APIKey,
		cfg.Qdrant.Collection,
		geminiService,
	)
	if err != nil {
		log.Fatalf("❌ Failed to initialize question bank: %v", err)
	}

	if err := questionBank.InitCollection(); err != nil {
		log.Fatalf("❌ Failed to initialize collection: %v", err)
	}

	data, err := os.ReadFile(*filePath)
	if err != nil {
		log.Fatalf("❌ Failed to read %s: %v", *filePath, err)
	}

	var questions []seedQuestion
	if err := json.Unmarshal(data, &questions); err != nil {
		log.Fatalf("❌ Failed to parse %s: %v", *filePath, err)
	}

	log.Printf("📋 Found %d seed questions\n", len(questions))

	ctx := context.Background()
	successCount := 0
	failCount := 0

	for i, q := range questions {
		if q.Question == "" {
			log.Printf("⚠️  Entry %d has no question text, skipping...", i+1)
			failCount++
			continue
		}

		// Embed topic and question together so retrieval by topic works
		embedding, err := geminiService.GenerateEmbedding(ctx, q.Topic+"\n"+q.Question)
		if err != nil {
			log.Printf("❌ Failed to embed question %d: %v", i+1, err)
			failCount++
			continue
		}

		if err := questionBank.UpsertQuestion(ctx, uuid.New().String(), q.Topic, q.Question, embedding); err != nil {
			log.Printf("❌ Failed to store question %d: %v", i+1, err)
			failCount++
			continue
		}

		successCount++
	}

	log.Printf("✅ Ingestion complete: %d stored, %d failed\n", successCount, failCount)
}
