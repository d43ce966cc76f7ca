package services

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"prepmate/interview-gateway/internal/models"
)

func TestBuildFirstQuestionPromptIncludesContext(t *testing.T) {
	pb := NewPromptBuilder(1200)

	prompt := pb.BuildFirstQuestionPrompt("senior", "state management", "React", "", "")
	assert.Contains(t, prompt, "senior-level")
	assert.Contains(t, prompt, "React")
	assert.Contains(t, prompt, "state management")
	assert.Contains(t, prompt, "exactly ONE interview question")
}

func TestBuildFirstQuestionPromptTruncatesJobDescription(t *testing.T) {
	pb := NewPromptBuilder(1200)
	jobDescription := strings.Repeat("a", 5000)

	prompt := pb.BuildFirstQuestionPrompt("mid", "", "Go", jobDescription, "")
	assert.Contains(t, prompt, strings.Repeat("a", 1200))
	assert.NotContains(t, prompt, strings.Repeat("a", 1201))
}

func TestBuildFirstQuestionPromptSeedSection(t *testing.T) {
	pb := NewPromptBuilder(1200)

	withSeed := pb.BuildFirstQuestionPrompt("mid", "", "Go", "", "1. How do goroutines leak?")
	assert.Contains(t, withSeed, "QUESTIONS FROM OUR BANK")
	assert.Contains(t, withSeed, "How do goroutines leak?")

	withoutSeed := pb.BuildFirstQuestionPrompt("mid", "", "Go", "", "")
	assert.NotContains(t, withoutSeed, "QUESTIONS FROM OUR BANK")
}

func TestBuildNextQuestionPromptIncludesExchange(t *testing.T) {
	pb := NewPromptBuilder(1200)

	prompt := pb.BuildNextQuestionPrompt(
		"What is a closure?",
		"A function that captures its environment.",
		"junior", "", "JavaScript", "", "",
	)
	assert.Contains(t, prompt, "What is a closure?")
	assert.Contains(t, prompt, "A function that captures its environment.")
	assert.Contains(t, prompt, "follow-up")
}

func TestBuildAnalysisPromptIncludesTranscript(t *testing.T) {
	pb := NewPromptBuilder(1200)
	qaPairs := []models.QAPair{
		{Question: "Explain ACID.", Answer: "Atomicity, consistency, isolation, durability."},
		{Question: "What is an index?", Answer: "A lookup structure."},
	}

	prompt := pb.BuildAnalysisPrompt(qaPairs, "backend engineer, 4 years", "PostgreSQL", "")
	assert.Contains(t, prompt, "Q1: Explain ACID.")
	assert.Contains(t, prompt, "A2: A lookup structure.")
	assert.Contains(t, prompt, "backend engineer, 4 years")
	assert.Contains(t, prompt, "ONLY strict JSON")
	assert.Contains(t, prompt, `"categories"`)
}

func TestBuildAnalysisPromptTruncatesJobDescription(t *testing.T) {
	pb := NewPromptBuilder(100)
	jobDescription := strings.Repeat("b", 500)

	prompt := pb.BuildAnalysisPrompt(nil, "", "", jobDescription)
	require.Contains(t, prompt, strings.Repeat("b", 100))
	assert.NotContains(t, prompt, strings.Repeat("b", 101))
}
