package services

import (
	"context"
	"fmt"
	"log"
	"net/url"
	"strconv"

	"github.com/qdrant/go-client/qdrant"
)

// QuestionBankService retrieves seed interview questions similar to the
// requested focus/framework so prompts can reference real questions from
// our bank. Entirely optional: the gateway works without it, and any
// failure here degrades to an empty context.
type QuestionBankService interface {
	InitCollection() error
	UpsertQuestion(ctx context.Context, questionID, topic, text string, embedding []float32) error
	SimilarQuestions(ctx context.Context, topic string, limit int) ([]string, error)
}

type questionBankService struct {
	client         *qdrant.Client
	embedder       GeminiService
	collectionName string
	vectorSize     uint64
}

func NewQuestionBankService(urlStr, apiKey, collectionName string, embedder GeminiService) (QuestionBankService, error) {
	parsed, err := url.Parse(urlStr)
	if err != nil {
		return nil, fmt.Errorf("invalid Qdrant URL: %w", err)
	}

	host := parsed.Hostname()
	useTLS := parsed.Scheme == "https"

	// gRPC port, not the REST one
	port := 6334
	if p := parsed.Port(); p != "" {
		if v, err := strconv.Atoi(p); err == nil {
			port = v
		}
	}

	client, err := qdrant.NewClient(&qdrant.Config{
		Host:   host,
		Port:   port,
		APIKey: apiKey,
		UseTLS: useTLS,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create qdrant client: %w", err)
	}

	return &questionBankService{
		client:         client,
		embedder:       embedder,
		collectionName: collectionName,
		vectorSize:     768, // text-embedding-004 size
	}, nil
}

// InitCollection implements QuestionBankService.
func (q *questionBankService) InitCollection() error {
	ctx := context.Background()

	exists, err := q.client.CollectionExists(ctx, q.collectionName)
	if err != nil {
		return fmt.Errorf("failed to check collection: %w", err)
	}

	if exists {
		log.Println("✅ Question bank collection already exists")
		return nil
	}

	err = q.client.CreateCollection(ctx, &qdrant.CreateCollection{
		CollectionName: q.collectionName,
		VectorsConfig: qdrant.NewVectorsConfig(&qdrant.VectorParams{
			Size:     q.vectorSize,
			Distance: qdrant.Distance_Cosine,
		}),
	})
	if err != nil {
		return fmt.Errorf("failed to create collection: %w", err)
	}

	log.Printf("✅ Question bank collection '%s' created successfully\n", q.collectionName)
	return nil
}

// UpsertQuestion implements QuestionBankService.
func (q *questionBankService) UpsertQuestion(ctx context.Context, questionID, topic, text string, embedding []float32) error {
	point := &qdrant.PointStruct{
		Id:      qdrant.NewIDUUID(questionID),
		Vectors: qdrant.NewVectors(embedding...),
		Payload: qdrant.NewValueMap(map[string]interface{}{
			"question_id": questionID,
			"topic":       topic,
			"question":    text,
		}),
	}

	_, err := q.client.Upsert(ctx, &qdrant.UpsertPoints{
		CollectionName: q.collectionName,
		Points:         []*qdrant.PointStruct{point},
	})
	if err != nil {
		return fmt.Errorf("failed to upsert question: %w", err)
	}

	return nil
}

// SimilarQuestions implements QuestionBankService.
func (q *questionBankService) SimilarQuestions(ctx context.Context, topic string, limit int) ([]string, error) {
	embedding, err := q.embedder.GenerateEmbedding(ctx, topic)
	if err != nil {
		return nil, fmt.Errorf("failed to embed topic: %w", err)
	}

	points, err := q.client.Query(ctx, &qdrant.QueryPoints{
		CollectionName: q.collectionName,
		Query:          qdrant.NewQuery(embedding...),
		Limit:          qdrant.PtrOf(uint64(limit)),
		WithPayload:    qdrant.NewWithPayload(true),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to search question bank: %w", err)
	}

	var questions []string
	for _, point := range points {
		if value, ok := point.Payload["question"]; ok {
			if text, ok := value.GetKind().(*qdrant.Value_StringValue); ok && text.StringValue != "" {
				questions = append(questions, text.StringValue)
			}
		}
	}

	return questions, nil
}
