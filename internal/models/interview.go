package models

// InterviewRequest is the single payload for POST /interview. The action
// field selects the transition; everything else is the caller-supplied
// conversation context. The server keeps no state between calls, so the
// client resends the full context (including qaPairs on "end") every time.
type InterviewRequest struct {
	Action           string   `json:"action"`
	SessionID        string   `json:"sessionId,omitempty"`
	Level            string   `json:"level,omitempty"`
	Focus            string   `json:"focus,omitempty"`
	Framework        string   `json:"framework,omitempty"`
	Profile          string   `json:"profile,omitempty"`
	JobDescription   string   `json:"jobDescription,omitempty"`
	PreviousQuestion string   `json:"previousQuestion,omitempty"`
	Answer           string   `json:"answer,omitempty"`
	QAPairs          []QAPair `json:"qaPairs,omitempty"`
}

type QAPair struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

type StartResponse struct {
	SessionID string `json:"sessionId"`
	Message   string `json:"message"`
	Fallback  bool   `json:"fallback,omitempty"`
}

type RespondResponse struct {
	Message  string `json:"message"`
	Fallback bool   `json:"fallback,omitempty"`
}

type EndResponse struct {
	Score    float64         `json:"score"`
	Feedback *AnalysisResult `json:"feedback"`
	Fallback bool            `json:"fallback,omitempty"`
}

type JobDescriptionResponse struct {
	Text  string `json:"text"`
	Pages int    `json:"pages"`
}
