package services

import (
	"fmt"
	"strings"

	"prepmate/interview-gateway/internal/models"
)

type PromptBuilder struct {
	maxJobDescChars int
}

func NewPromptBuilder(maxJobDescChars int) *PromptBuilder {
	if maxJobDescChars <= 0 {
		maxJobDescChars = 1200
	}
	return &PromptBuilder{maxJobDescChars: maxJobDescChars}
}

// BuildFirstQuestionPrompt creates the prompt for the opening question of
// a session. seedContext is optional inspiration from the question bank.
func (pb *PromptBuilder) BuildFirstQuestionPrompt(level, focus, framework, jobDescription, seedContext string) string {
	return fmt.Sprintf(`You are conducting a technical mock interview with a %s-level candidate.

CANDIDATE BACKGROUND:
%s%s
Ask exactly ONE interview question calibrated to the candidate's level. Do not greet, do not explain the question, do not number it. Return only the question text.`,
		level,
		pb.contextSection(focus, framework, jobDescription),
		pb.seedSection(seedContext))
}

// BuildNextQuestionPrompt creates the prompt for a follow-up question
// given the previous exchange.
func (pb *PromptBuilder) BuildNextQuestionPrompt(previousQuestion, answer, level, focus, framework, jobDescription, seedContext string) string {
	return fmt.Sprintf(`You are conducting a technical mock interview with a %s-level candidate.

CANDIDATE BACKGROUND:
%s
PREVIOUS QUESTION:
%s

CANDIDATE'S ANSWER:
%s
%s
Based on the exchange above, ask exactly ONE follow-up interview question. Probe deeper if the answer was strong, or shift to an adjacent topic if the candidate struggled. Return only the question text.`,
		level,
		pb.contextSection(focus, framework, jobDescription),
		previousQuestion,
		answer,
		pb.seedSection(seedContext))
}

// BuildAnalysisPrompt creates the end-of-session prompt. The model must
// return strict JSON; the extractor recovers when it does not.
func (pb *PromptBuilder) BuildAnalysisPrompt(qaPairs []models.QAPair, profile, framework, jobDescription string) string {
	var transcript strings.Builder
	for i, pair := range qaPairs {
		transcript.WriteString(fmt.Sprintf("Q%d: %s\nA%d: %s\n\n", i+1, pair.Question, i+1, pair.Answer))
	}

	return fmt.Sprintf(`You are evaluating a completed technical mock interview.

CANDIDATE PROFILE: %s
%s
INTERVIEW TRANSCRIPT:
%s
Summarize the candidate's performance. Return ONLY strict JSON with no markdown fences and no surrounding text, in exactly this shape:
{
  "summary": "<3-5 sentence overall assessment>",
  "strengths": ["<strength>", ...],
  "improvements": ["<improvement>", ...],
  "categories": {"communication": <0-10>, "technical_depth": <0-10>, "problem_solving": <0-10>, "clarity": <0-10>},
  "questions": [
    {"question": "<question>", "answer": "<answer>", "score": <0-10>, "feedback": "<1-2 sentences>", "strengths": [], "improvements": []}
  ]
}

Be objective. Justify scores with specifics from the transcript.`,
		orDefault(profile, "not provided"),
		pb.contextSection("", framework, jobDescription),
		transcript.String())
}

func (pb *PromptBuilder) contextSection(focus, framework, jobDescription string) string {
	var b strings.Builder
	if framework != "" {
		b.WriteString(fmt.Sprintf("- Primary technology: %s\n", framework))
	}
	if focus != "" {
		b.WriteString(fmt.Sprintf("- Interview focus: %s\n", focus))
	}
	if jobDescription != "" {
		b.WriteString(fmt.Sprintf("- Target job description (excerpt):\n%s\n", pb.truncateJobDescription(jobDescription)))
	}
	if b.Len() == 0 {
		b.WriteString("- General software engineering\n")
	}
	return b.String()
}

func (pb *PromptBuilder) seedSection(seedContext string) string {
	if seedContext == "" {
		return ""
	}
	return fmt.Sprintf("\nQUESTIONS FROM OUR BANK FOR INSPIRATION (do not copy verbatim):\n%s\n", seedContext)
}

// truncateJobDescription bounds the excerpt so an oversized posting
// cannot blow up the prompt.
func (pb *PromptBuilder) truncateJobDescription(jobDescription string) string {
	runes := []rune(jobDescription)
	if len(runes) <= pb.maxJobDescChars {
		return jobDescription
	}
	return string(runes[:pb.maxJobDescChars])
}

func orDefault(value, fallback string) string {
	if strings.TrimSpace(value) == "" {
		return fallback
	}
	return value
}
