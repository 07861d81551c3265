package course

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Course struct {
	ID           uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	Title        string     `gorm:"type:text;not null" json:"title"`
	Description  string     `gorm:"type:text" json:"description"`
	ThumbnailURL string     `gorm:"type:text" json:"thumbnail_url,omitempty"`
	Published    bool       `gorm:"not null;default:false;index" json:"published"`
	PublishedAt  *time.Time `json:"published_at,omitempty"`
	CreatedBy    uuid.UUID  `gorm:"type:uuid;not null;index" json:"created_by"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`

	Modules []Module `gorm:"foreignKey:CourseID;constraint:OnDelete:CASCADE" json:"modules,omitempty"`
}

func (c *Course) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

// Module is one unit of a course: a video, a reading and optionally a quiz.
type Module struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	CourseID    uuid.UUID `gorm:"type:uuid;not null;index" json:"course_id"`
	Title       string    `gorm:"type:text;not null" json:"title"`
	VideoURL    string    `gorm:"type:text" json:"video_url,omitempty"`
	TextContent string    `gorm:"type:text" json:"text_content,omitempty"`
	OrderIndex  int       `gorm:"not null;default:0" json:"order_index"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (m *Module) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}
