package models

import (
	"time"

	"github.com/google/uuid"
)

// InterviewRecord is the optional archive row written after an "end" call
// when Postgres is configured. The gateway itself never reads it on the
// hot path; it exists so completed sessions can be reviewed later.
type InterviewRecord struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	SessionID string    `gorm:"type:text;index" json:"session_id"`
	Profile   string    `gorm:"type:text" json:"profile"`
	Framework string    `gorm:"type:text" json:"framework"`
	Score     float64   `gorm:"type:decimal(4,2)" json:"score"`
	Summary   string    `gorm:"type:text" json:"summary"`
	Analysis  string    `gorm:"type:jsonb" json:"analysis"`
	QAPairs   string    `gorm:"type:jsonb" json:"qa_pairs"`
	Fallback  bool      `gorm:"not null;default:false" json:"fallback"`
	CreatedAt time.Time `gorm:"type:timestamp;default:now()" json:"created_at"`
}

func (InterviewRecord) TableName() string {
	return "interviews"
}
