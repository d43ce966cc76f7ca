package repositories

import (
	"fmt"

	"gorm.io/gorm"

	"prepmate/interview-gateway/internal/models"
)

type InterviewRepository interface {
	Create(record *models.InterviewRecord) error
	FindBySessionID(sessionID string) (*models.InterviewRecord, error)
	FindRecent(limit int) ([]models.InterviewRecord, error)
}

type interviewRepository struct {
	db *gorm.DB
}

func NewInterviewRepository(db *gorm.DB) InterviewRepository {
	return &interviewRepository{db: db}
}

func (r *interviewRepository) Create(record *models.InterviewRecord) error {
	if err := r.db.Create(record).Error; err != nil {
		return fmt.Errorf("failed to create interview record: %w", err)
	}
	return nil
}

func (r *interviewRepository) FindBySessionID(sessionID string) (*models.InterviewRecord, error) {
	var record models.InterviewRecord
	err := r.db.
		Where("session_id = ?", sessionID).
		Order("created_at DESC").
		First(&record).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("interview not found")
		}
		return nil, fmt.Errorf("failed to find interview: %w", err)
	}
	return &record, nil
}

func (r *interviewRepository) FindRecent(limit int) ([]models.InterviewRecord, error) {
	var records []models.InterviewRecord
	err := r.db.
		Order("created_at DESC").
		Limit(limit).
		Find(&records).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list interviews: %w", err)
	}
	return records, nil
}
