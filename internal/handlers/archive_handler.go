package handlers

import (
	"github.com/gofiber/fiber/v2"

	"prepmate/interview-gateway/internal/repositories"
)

type ArchiveHandler struct {
	interviewRepo repositories.InterviewRepository // nil when the archive is disabled
}

func NewArchiveHandler(interviewRepo repositories.InterviewRepository) *ArchiveHandler {
	return &ArchiveHandler{
		interviewRepo: interviewRepo,
	}
}

// HandleGetInterview handles GET /interviews/:sessionId.
func (h *ArchiveHandler) HandleGetInterview(c *fiber.Ctx) error {
	if h.interviewRepo == nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"error": "interview archive is not configured",
		})
	}

	sessionID := c.Params("sessionId")
	if sessionID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "sessionId is required",
		})
	}

	record, err := h.interviewRepo.FindBySessionID(sessionID)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Interview not found",
		})
	}

	return c.JSON(record)
}
