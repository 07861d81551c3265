package enrollment

import (
	"time"

	"github.com/shopspring/decimal"
)

type ModuleProgressView struct {
	ModuleID         string          `json:"module_id"`
	Title            string          `json:"title"`
	OrderIndex       int             `json:"order_index"`
	VideoWatched     bool            `json:"video_watched"`
	TextRead         bool            `json:"text_read"`
	HasQuiz          bool            `json:"has_quiz"`
	QuizPassed       bool            `json:"quiz_passed"`
	HighestQuizScore decimal.Decimal `json:"highest_quiz_score"`
	Completed        bool            `json:"completed"`
}

type ProgressResponse struct {
	EnrollmentID string               `json:"enrollment_id"`
	CourseID     string               `json:"course_id"`
	CourseTitle  string               `json:"course_title"`
	Status       Status               `json:"status"`
	Percentage   int                  `json:"percentage"`
	CompletedAt  *time.Time           `json:"completed_at,omitempty"`
	Modules      []ModuleProgressView `json:"modules"`
}
