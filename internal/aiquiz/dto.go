package aiquiz

import "github.com/google/uuid"

type GenerateDTO struct {
	Topic      string `json:"topic" validate:"required,min=3,max=200"`
	Difficulty string `json:"difficulty" validate:"required,oneof=easy medium hard"`
	Count      int    `json:"count" validate:"omitempty,min=1,max=10"`
	Context    string `json:"context" validate:"max=4000"`
}

type ImportDTO struct {
	QuizID string `json:"quiz_id" validate:"required,uuid"`
	// Indexes selects questions of the draft; empty imports all of them.
	Indexes []int `json:"indexes" validate:"omitempty,dive,min=0"`
}

type DraftResponse struct {
	ID         uuid.UUID           `json:"id"`
	Topic      string              `json:"topic"`
	Difficulty string              `json:"difficulty"`
	Questions  []GeneratedQuestion `json:"questions"`
	Imported   bool                `json:"imported"`
}
