package certificate

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Certificate is issued once per learner and course when the course reaches 100%.
type Certificate struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID       uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_certificate_user_course" json:"user_id"`
	CourseID     uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_certificate_user_course;index" json:"course_id"`
	EnrollmentID uuid.UUID `gorm:"type:uuid;not null" json:"enrollment_id"`
	Number       string    `gorm:"type:varchar(32);uniqueIndex;not null" json:"number"`
	IssuedAt     time.Time `gorm:"not null" json:"issued_at"`
	CreatedAt    time.Time `json:"created_at"`
}

func (c *Certificate) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}
