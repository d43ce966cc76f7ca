package services

import (
	"encoding/json"
	"strings"

	"prepmate/interview-gateway/internal/models"
)

// NeutralAnalysisSummary is returned when the model output yields no
// parsable analysis. Shown to the candidate as-is, so keep it friendly.
const NeutralAnalysisSummary = "We couldn't generate a detailed breakdown for this session, " +
	"but completing a full mock interview is solid practice on its own. Keep going."

// DefaultAnalysis is the safe result used when extraction fails entirely.
func DefaultAnalysis() models.AnalysisResult {
	return models.AnalysisResult{
		Summary:      NeutralAnalysisSummary,
		Strengths:    []string{},
		Improvements: []string{},
		Categories:   map[string]float64{},
	}
}

// ExtractAnalysis parses end-of-session model output into an
// AnalysisResult. Models occasionally wrap the JSON in prose or markdown
// fences despite instructions, so recovery is three-tier: direct parse,
// then the first balanced {...} substring, then the safe default. The
// second return value is false only when the default was used.
func ExtractAnalysis(raw string) (models.AnalysisResult, bool) {
	if result, ok := parseAnalysis(raw); ok {
		return result, true
	}

	// Strip markdown code fences before scanning for the object
	cleaned := strings.ReplaceAll(raw, "```json", "")
	cleaned = strings.ReplaceAll(cleaned, "```", "")

	if candidate, ok := firstJSONObject(cleaned); ok {
		if result, ok := parseAnalysis(candidate); ok {
			return result, true
		}
	}

	return DefaultAnalysis(), false
}

func parseAnalysis(text string) (models.AnalysisResult, bool) {
	var result models.AnalysisResult
	if err := json.Unmarshal([]byte(text), &result); err != nil {
		return models.AnalysisResult{}, false
	}
	if result.Summary == "" && len(result.Categories) == 0 {
		return models.AnalysisResult{}, false
	}

	if result.Strengths == nil {
		result.Strengths = []string{}
	}
	if result.Improvements == nil {
		result.Improvements = []string{}
	}
	if result.Categories == nil {
		result.Categories = map[string]float64{}
	}
	return result, true
}

// firstJSONObject returns the first balanced {...} substring, tracking
// string literals and escapes so braces inside values don't break the
// scan.
func firstJSONObject(text string) (string, bool) {
	start := strings.Index(text, "{")
	if start == -1 {
		return "", false
	}

	depth := 0
	inString := false
	escaped := false

	for i := start; i < len(text); i++ {
		c := text[i]

		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}

		switch c {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return text[start : i+1], true
			}
		}
	}

	return "", false
}
