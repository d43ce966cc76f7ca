package handlers

import (
	"encoding/json"
	"fmt"

	"github.com/gofiber/fiber/v2"

	"prepmate/interview-gateway/internal/models"
	"prepmate/interview-gateway/internal/services"
)

type InterviewHandler struct {
	interviewService services.InterviewService
	archiveWorker    services.ArchiveWorker // nil when the archive is disabled
}

func NewInterviewHandler(
	interviewService services.InterviewService,
	archiveWorker services.ArchiveWorker,
) *InterviewHandler {
	return &InterviewHandler{
		interviewService: interviewService,
		archiveWorker:    archiveWorker,
	}
}

// HandleInterview handles POST /interview. The action field selects the
// protocol transition; an unknown action is the only client error here —
// missing context fields are substituted with defaults downstream so a
// client with partial state keeps flowing.
func (h *InterviewHandler) HandleInterview(c *fiber.Ctx) error {
	var req models.InterviewRequest

	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request payload",
		})
	}

	if req.Action == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "action is required",
		})
	}

	ctx := c.UserContext()

	switch req.Action {
	case "start":
		return c.JSON(h.interviewService.Start(ctx, req))
	case "respond":
		return c.JSON(h.interviewService.Respond(ctx, req))
	case "end":
		resp := h.interviewService.End(ctx, req)
		if h.archiveWorker != nil {
			h.archiveWorker.Enqueue(buildArchiveRecord(req, resp))
		}
		return c.JSON(resp)
	default:
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": fmt.Sprintf("unknown action: %s", req.Action),
		})
	}
}

func buildArchiveRecord(req models.InterviewRequest, resp models.EndResponse) *models.InterviewRecord {
	record := &models.InterviewRecord{
		SessionID: req.SessionID,
		Profile:   req.Profile,
		Framework: req.Framework,
		Score:     resp.Score,
		Fallback:  resp.Fallback,
	}

	if resp.Feedback != nil {
		record.Summary = resp.Feedback.Summary
		if analysisJSON, err := json.Marshal(resp.Feedback); err == nil {
			record.Analysis = string(analysisJSON)
		}
	}

	if qaJSON, err := json.Marshal(req.QAPairs); err == nil {
		record.QAPairs = string(qaJSON)
	}

	return record
}
