package enrollment

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type Enrollment struct {
	ID          uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	UserID      uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:idx_enrollment_user_course" json:"user_id"`
	CourseID    uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:idx_enrollment_user_course;index" json:"course_id"`
	Status      Status     `gorm:"type:varchar(16);not null;default:'ENROLLED';index" json:"status"`
	Progress    int        `gorm:"not null;default:0" json:"progress"`
	EnrolledAt  time.Time  `gorm:"not null" json:"enrolled_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

func (e *Enrollment) BeforeCreate(tx *gorm.DB) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	if e.Status == "" {
		e.Status = StatusEnrolled
	}
	if e.EnrolledAt.IsZero() {
		e.EnrolledAt = time.Now().UTC()
	}
	return nil
}

// ModuleProgress is one learner's state on one module. Rows are only ever
// upserted: flags move from false to true and the best quiz score only grows.
type ModuleProgress struct {
	ID               uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	EnrollmentID     uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_progress_enrollment_module" json:"enrollment_id"`
	ModuleID         uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_progress_enrollment_module" json:"module_id"`
	VideoWatched     bool            `gorm:"not null;default:false" json:"video_watched"`
	TextRead         bool            `gorm:"not null;default:false" json:"text_read"`
	QuizPassed       bool            `gorm:"not null;default:false" json:"quiz_passed"`
	HighestQuizScore decimal.Decimal `gorm:"type:numeric(8,2);not null;default:0" json:"highest_quiz_score"`
	CreatedAt        time.Time       `json:"created_at"`
	UpdatedAt        time.Time       `json:"updated_at"`
}

func (p *ModuleProgress) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}
