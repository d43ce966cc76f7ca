package services

import (
	"context"
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	"prepmate/interview-gateway/internal/models"
)

// DefaultLevel substitutes a missing difficulty level rather than
// rejecting the request, so a client with partial state keeps flowing.
const DefaultLevel = "mid"

// DefaultFallbackScore is reported when no analysis could be produced.
const DefaultFallbackScore = 7.0

const (
	questionTemperature = 0.7
	analysisTemperature = 0.3
	seedQuestionLimit   = 3
)

// InterviewService implements the stateless interview protocol:
// start -> respond* -> end. Every call carries its full context in the
// request; nothing is stored between calls, so any instance can serve
// any request of a session. The three actions never surface a provider
// failure to the caller — they degrade to deterministic output instead.
type InterviewService interface {
	Start(ctx context.Context, req models.InterviewRequest) models.StartResponse
	Respond(ctx context.Context, req models.InterviewRequest) models.RespondResponse
	End(ctx context.Context, req models.InterviewRequest) models.EndResponse
}

type interviewService struct {
	orchestrator  Orchestrator
	promptBuilder *PromptBuilder
	questionBank  QuestionBankService // nil when Qdrant is not configured
}

func NewInterviewService(
	orchestrator Orchestrator,
	promptBuilder *PromptBuilder,
	questionBank QuestionBankService,
) InterviewService {
	return &interviewService{
		orchestrator:  orchestrator,
		promptBuilder: promptBuilder,
		questionBank:  questionBank,
	}
}

// Start implements InterviewService.
func (s *interviewService) Start(ctx context.Context, req models.InterviewRequest) models.StartResponse {
	level := normalizeLevel(req.Level)
	sessionID := newSessionID()

	seedContext := s.seedContext(ctx, req.Focus, req.Framework)
	prompt := s.promptBuilder.BuildFirstQuestionPrompt(level, req.Focus, req.Framework, req.JobDescription, seedContext)

	text, err := s.orchestrator.Complete(ctx, prompt, questionTemperature)
	if err != nil {
		log.Printf("⚠️  Falling back to templated opening question: %v\n", err)
		return models.StartResponse{
			SessionID: sessionID,
			Message:   templatedQuestion(level, req.Focus, req.Framework),
			Fallback:  true,
		}
	}

	return models.StartResponse{
		SessionID: sessionID,
		Message:   strings.TrimSpace(text),
	}
}

// Respond implements InterviewService.
func (s *interviewService) Respond(ctx context.Context, req models.InterviewRequest) models.RespondResponse {
	level := normalizeLevel(req.Level)

	seedContext := s.seedContext(ctx, req.Focus, req.Framework)
	prompt := s.promptBuilder.BuildNextQuestionPrompt(
		req.PreviousQuestion,
		req.Answer,
		level,
		req.Focus,
		req.Framework,
		req.JobDescription,
		seedContext,
	)

	text, err := s.orchestrator.Complete(ctx, prompt, questionTemperature)
	if err != nil {
		log.Printf("⚠️  Falling back to templated follow-up question: %v\n", err)
		return models.RespondResponse{
			Message:  templatedQuestion(level, req.Focus, req.Framework),
			Fallback: true,
		}
	}

	return models.RespondResponse{
		Message: strings.TrimSpace(text),
	}
}

// End implements InterviewService. Never returns an error status to the
// caller: a dead provider fleet or unparsable analysis both degrade to
// the neutral default with a generic score.
func (s *interviewService) End(ctx context.Context, req models.InterviewRequest) models.EndResponse {
	prompt := s.promptBuilder.BuildAnalysisPrompt(req.QAPairs, req.Profile, req.Framework, req.JobDescription)

	text, err := s.orchestrator.Complete(ctx, prompt, analysisTemperature)
	if err != nil {
		log.Printf("⚠️  Falling back to neutral analysis: %v\n", err)
		analysis := DefaultAnalysis()
		return models.EndResponse{
			Score:    DefaultFallbackScore,
			Feedback: &analysis,
			Fallback: true,
		}
	}

	analysis, extracted := ExtractAnalysis(text)
	return models.EndResponse{
		Score:    scoreFromCategories(analysis.Categories),
		Feedback: &analysis,
		Fallback: !extracted,
	}
}

// seedContext pulls a few similar questions from the bank when it is
// configured. Failures are logged and swallowed; enrichment must never
// break the conversation.
func (s *interviewService) seedContext(ctx context.Context, focus, framework string) string {
	if s.questionBank == nil {
		return ""
	}

	topic := focus
	if topic == "" {
		topic = framework
	}
	if topic == "" {
		return ""
	}

	questions, err := s.questionBank.SimilarQuestions(ctx, topic, seedQuestionLimit)
	if err != nil {
		log.Printf("⚠️  Question bank lookup failed: %v\n", err)
		return ""
	}

	var b strings.Builder
	for i, question := range questions {
		b.WriteString(fmt.Sprintf("%d. %s\n", i+1, question))
	}
	return strings.TrimSpace(b.String())
}

// templatedQuestion is the deterministic output used when every backend
// is unreachable. Built by plain string substitution so it cannot fail.
func templatedQuestion(level, focus, framework string) string {
	subject := framework
	if subject == "" {
		subject = "your primary technology stack"
	}

	focusClause := ""
	if focus != "" {
		focusClause = fmt.Sprintf(" involving %s", focus)
	}

	return fmt.Sprintf(
		"As a %s-level candidate working with %s, how would you approach a real-world scenario%s? Walk me through your reasoning step by step.",
		level, subject, focusClause,
	)
}

// scoreFromCategories derives the headline 0-10 score as the mean of the
// category scores, defaulting when the model returned none.
func scoreFromCategories(categories map[string]float64) float64 {
	if len(categories) == 0 {
		return DefaultFallbackScore
	}

	var total float64
	for _, score := range categories {
		total += score
	}

	mean := total / float64(len(categories))
	if mean < 0 {
		return 0
	}
	if mean > 10 {
		return 10
	}
	return mean
}

func normalizeLevel(level string) string {
	if strings.TrimSpace(level) == "" {
		return DefaultLevel
	}
	return level
}

// newSessionID is an opaque client-correlation id. Never looked up
// server-side.
func newSessionID() string {
	return strconv.FormatInt(time.Now().UnixMilli(), 10)
}
