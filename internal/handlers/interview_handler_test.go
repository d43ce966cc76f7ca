package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"prepmate/interview-gateway/internal/config"
	"prepmate/interview-gateway/internal/models"
	"prepmate/interview-gateway/internal/services"
)

type stubOrchestrator struct {
	text string
	err  error
}

func (s *stubOrchestrator) Complete(_ context.Context, _ string, _ float64) (string, error) {
	return s.text, s.err
}

func newTestApp(orch services.Orchestrator) *fiber.App {
	interviewService := services.NewInterviewService(orch, services.NewPromptBuilder(1200), nil)
	handler := NewInterviewHandler(interviewService, nil)

	app := fiber.New()
	app.Post("/api/v1/interview", handler.HandleInterview)
	return app
}

func postInterview(t *testing.T, app *fiber.App, payload string) (*http.Response, map[string]interface{}) {
	t.Helper()

	req := httptest.NewRequest(http.MethodPost, "/api/v1/interview", bytes.NewBufferString(payload))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req, int(5*time.Second/time.Millisecond))
	require.NoError(t, err)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(body, &decoded))
	return resp, decoded
}

func TestHandleInterviewUnknownAction(t *testing.T) {
	app := newTestApp(&stubOrchestrator{text: "question"})

	resp, body := postInterview(t, app, `{"action":"restart"}`)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, body["error"], "unknown action")
}

func TestHandleInterviewMissingAction(t *testing.T) {
	app := newTestApp(&stubOrchestrator{text: "question"})

	resp, body := postInterview(t, app, `{"level":"mid"}`)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, body["error"], "action is required")
}

func TestHandleInterviewInvalidPayload(t *testing.T) {
	app := newTestApp(&stubOrchestrator{text: "question"})

	resp, _ := postInterview(t, app, `{not json`)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestHandleInterviewStartSuccess(t *testing.T) {
	app := newTestApp(&stubOrchestrator{text: "Tell me about React hooks."})

	resp, body := postInterview(t, app, `{"action":"start","level":"senior","framework":"React"}`)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "Tell me about React hooks.", body["message"])
	assert.Regexp(t, `^\d+$`, body["sessionId"])
	assert.Nil(t, body["fallback"])
}

// All providers disabled: start must still return 200 with a non-empty
// templated question and fallback=true.
func TestHandleInterviewStartAllProvidersDown(t *testing.T) {
	registry := services.NewProviderRegistry([]config.ProviderConfig{
		{Name: "groq", BaseURL: "http://groq.test"},
		{Name: "openrouter", BaseURL: "http://openrouter.test"},
	})
	orch := services.NewOrchestrator(
		registry,
		services.NewHTTPCompletionClient(time.Second),
		nil,
		3,
		time.Millisecond,
		time.Second,
		256,
	)
	app := newTestApp(orch)

	resp, body := postInterview(t, app, `{"action":"start","level":"senior","framework":"React"}`)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, true, body["fallback"])
	assert.NotEmpty(t, body["message"])
	assert.Regexp(t, `^\d+$`, body["sessionId"])
}

func TestHandleInterviewRespondFallback(t *testing.T) {
	app := newTestApp(&stubOrchestrator{err: errors.New("exhausted")})

	resp, body := postInterview(t, app, `{"action":"respond","previousQuestion":"Q","answer":"A","level":"mid"}`)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, true, body["fallback"])
	assert.NotEmpty(t, body["message"])
}

// A provider that answers with prose instead of JSON: end must still
// return 200 with the neutral analysis and the generic score.
func TestHandleInterviewEndMalformedAnalysis(t *testing.T) {
	app := newTestApp(&stubOrchestrator{text: "here is some prose, definitely not JSON"})

	resp, body := postInterview(t, app, `{"action":"end","qaPairs":[{"question":"Q1","answer":"A1"}]}`)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, true, body["fallback"])
	assert.Equal(t, 7.0, body["score"])

	feedback, ok := body["feedback"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, services.NeutralAnalysisSummary, feedback["summary"])
}

func TestHandleInterviewEndSuccess(t *testing.T) {
	app := newTestApp(&stubOrchestrator{
		text: `{"summary":"well done","strengths":["clarity"],"improvements":[],"categories":{"communication":8,"technical_depth":8}}`,
	})

	resp, body := postInterview(t, app, `{"action":"end","qaPairs":[{"question":"Q1","answer":"A1"}],"profile":"backend dev"}`)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Nil(t, body["fallback"])
	assert.Equal(t, 8.0, body["score"])
}

type recordingArchiveWorker struct {
	records []*models.InterviewRecord
}

func (r *recordingArchiveWorker) Start() {}
func (r *recordingArchiveWorker) Stop()  {}
func (r *recordingArchiveWorker) Enqueue(record *models.InterviewRecord) {
	r.records = append(r.records, record)
}

func TestHandleInterviewEndArchivesRecord(t *testing.T) {
	interviewService := services.NewInterviewService(
		&stubOrchestrator{text: `{"summary":"fine","strengths":[],"improvements":[],"categories":{"communication":6}}`},
		services.NewPromptBuilder(1200),
		nil,
	)
	archive := &recordingArchiveWorker{}
	handler := NewInterviewHandler(interviewService, archive)

	app := fiber.New()
	app.Post("/api/v1/interview", handler.HandleInterview)

	resp, _ := postInterview(t, app, `{"action":"end","sessionId":"1712345678901","qaPairs":[{"question":"Q1","answer":"A1"}],"profile":"dev","framework":"Go"}`)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	require.Len(t, archive.records, 1)
	record := archive.records[0]
	assert.Equal(t, "1712345678901", record.SessionID)
	assert.Equal(t, "Go", record.Framework)
	assert.Equal(t, "fine", record.Summary)
	assert.Contains(t, record.QAPairs, "Q1")
}

func TestHandleGetInterviewArchiveDisabled(t *testing.T) {
	handler := NewArchiveHandler(nil)

	app := fiber.New()
	app.Get("/api/v1/interviews/:sessionId", handler.HandleGetInterview)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/interviews/12345", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusServiceUnavailable, resp.StatusCode)
}
