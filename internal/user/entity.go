package user

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User is both the pre-seeded employee record and, once claimed, the login account.
type User struct {
	ID                          uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	NIK                         string     `gorm:"type:varchar(32);uniqueIndex;not null" json:"nik"`
	Name                        string     `gorm:"type:text;not null" json:"name"`
	Email                       *string    `gorm:"type:text;uniqueIndex" json:"email,omitempty"`
	Department                  string     `gorm:"type:text" json:"department,omitempty"`
	Role                        Role       `gorm:"type:varchar(16);not null;index" json:"role"`
	PasswordHash                string     `gorm:"type:text" json:"-"`
	Registered                  bool       `gorm:"not null;default:false" json:"registered"`
	RegisteredAt                *time.Time `json:"registered_at,omitempty"`
	XP                          int        `gorm:"not null;default:0;index" json:"xp"`
	EncryptedGoogleAccessToken  string     `gorm:"type:text" json:"-"`
	EncryptedGoogleRefreshToken string     `gorm:"type:text" json:"-"`
	CreatedAt                   time.Time  `json:"created_at"`
	UpdatedAt                   time.Time  `json:"updated_at"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	if u.Role == "" {
		u.Role = RoleUser
	}
	return nil
}

// XPEntry is the slice of a user the leaderboard needs.
type XPEntry struct {
	UserID uuid.UUID `json:"user_id"`
	Name   string    `json:"name"`
	XP     int       `json:"xp"`
}
