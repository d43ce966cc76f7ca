package handlers

import (
	"fmt"

	"github.com/gofiber/fiber/v2"

	"prepmate/interview-gateway/internal/models"
	"prepmate/interview-gateway/internal/services"
)

type JobDescriptionHandler struct {
	storageService services.StorageService
	pdfParser      services.PDFParserService
	maxFileSize    int64
	maxChars       int
}

func NewJobDescriptionHandler(
	storageService services.StorageService,
	pdfParser services.PDFParserService,
	maxFileSize int64,
	maxChars int,
) *JobDescriptionHandler {
	return &JobDescriptionHandler{
		storageService: storageService,
		pdfParser:      pdfParser,
		maxFileSize:    maxFileSize,
		maxChars:       maxChars,
	}
}

// HandleUpload handles POST /job-description. Accepts a job-posting PDF,
// extracts its text, and returns an excerpt the client can pass back as
// jobDescription on interview calls. The file itself is scratch space
// and is removed before responding.
func (h *JobDescriptionHandler) HandleUpload(c *fiber.Ctx) error {
	file, err := c.FormFile("job_description")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "No 'job_description' PDF file uploaded",
		})
	}

	if file.Size > h.maxFileSize {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": fmt.Sprintf("File too large. Max size: %d bytes", h.maxFileSize),
		})
	}

	filename, filePath, err := h.storageService.SaveFile(file)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": fmt.Sprintf("failed to save file: %v", err),
		})
	}
	defer h.storageService.DeleteFile(filename)

	content, err := h.pdfParser.ExtractText(filePath)
	if err != nil {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
			"error": fmt.Sprintf("failed to extract text: %v", err),
		})
	}

	text := content.Text
	if runes := []rune(text); len(runes) > h.maxChars {
		text = string(runes[:h.maxChars])
	}

	return c.JSON(models.JobDescriptionResponse{
		Text:  text,
		Pages: content.PageCount,
	})
}
