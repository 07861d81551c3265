package aiquiz

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// GeneratedQuestion is one multiple choice question as returned by the model.
type GeneratedQuestion struct {
	Text         string   `json:"text"`
	Answers      []string `json:"answers"`
	CorrectIndex int      `json:"correct_index"`
	Explanation  string   `json:"explanation"`
}

// Draft keeps every generation for audit, whether or not it was imported.
type Draft struct {
	ID             uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	CreatedBy      uuid.UUID      `gorm:"type:uuid;not null;index" json:"created_by"`
	Topic          string         `gorm:"type:text;not null" json:"topic"`
	Difficulty     string         `gorm:"type:varchar(16);not null" json:"difficulty"`
	Model          string         `gorm:"type:varchar(64);not null" json:"model"`
	Questions      datatypes.JSON `gorm:"type:jsonb;not null" json:"questions"`
	ImportedQuizID *uuid.UUID     `gorm:"type:uuid" json:"imported_quiz_id,omitempty"`
	ImportedAt     *time.Time     `json:"imported_at,omitempty"`
	CreatedAt      time.Time      `json:"created_at"`
}

func (d *Draft) BeforeCreate(tx *gorm.DB) error {
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	return nil
}
