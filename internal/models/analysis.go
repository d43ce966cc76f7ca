package models

// AnalysisResult is the structured end-of-session performance summary.
// The model is instructed to return exactly this shape as JSON; the
// extractor guarantees the slices and map are never nil.
type AnalysisResult struct {
	Summary      string             `json:"summary"`
	Strengths    []string           `json:"strengths"`
	Improvements []string           `json:"improvements"`
	Categories   map[string]float64 `json:"categories"`
	Questions    []QuestionAnalysis `json:"questions,omitempty"`
}

type QuestionAnalysis struct {
	Question     string   `json:"question"`
	Answer       string   `json:"answer"`
	Score        float64  `json:"score"`
	Feedback     string   `json:"feedback"`
	Strengths    []string `json:"strengths,omitempty"`
	Improvements []string `json:"improvements,omitempty"`
}
