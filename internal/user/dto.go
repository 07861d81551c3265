package user

import (
	"time"

	"github.com/google/uuid"
)

type VerifyNIKDTO struct {
	NIK string `json:"nik" validate:"required,max=32"`
}

type VerifyNIKResponse struct {
	Name       string `json:"name"`
	Department string `json:"department,omitempty"`
	ClaimToken string `json:"claim_token"`
	ExpiresIn  int    `json:"expires_in"`
}

type RegisterDTO struct {
	ClaimToken           string  `json:"claim_token" validate:"required"`
	Email                *string `json:"email" validate:"omitempty,email"`
	Password             string  `json:"password" validate:"required,min=8,max=72"`
	PasswordConfirmation string  `json:"password_confirmation" validate:"required,eqfield=Password"`
}

type LoginDTO struct {
	Login    string `json:"login" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type LoginResponse struct {
	Token     string        `json:"token"`
	ExpiresIn int           `json:"expires_in"`
	User      *UserResponse `json:"user"`
}

type CreateEmployeeDTO struct {
	NIK        string  `json:"nik" validate:"required,max=32"`
	Name       string  `json:"name" validate:"required"`
	Email      *string `json:"email" validate:"omitempty,email"`
	Department string  `json:"department"`
	Role       Role    `json:"role" validate:"omitempty,oneof=admin trainer user"`
}

type ChangeRoleDTO struct {
	Role Role `json:"role" validate:"required,oneof=admin trainer user"`
}

type ListFilter struct {
	Role   Role
	Search string
	Limit  int
	Offset int
}

type UserResponse struct {
	ID           uuid.UUID  `json:"id"`
	NIK          string     `json:"nik"`
	Name         string     `json:"name"`
	Email        *string    `json:"email,omitempty"`
	Department   string     `json:"department,omitempty"`
	Role         Role       `json:"role"`
	Registered   bool       `json:"registered"`
	RegisteredAt *time.Time `json:"registered_at,omitempty"`
	XP           int        `json:"xp"`
	CreatedAt    time.Time  `json:"created_at"`
}

type UserListResponse struct {
	Users  []UserResponse `json:"users"`
	Total  int64          `json:"total"`
	Limit  int            `json:"limit"`
	Offset int            `json:"offset"`
}

func ToResponse(u *User) *UserResponse {
	return &UserResponse{
		ID:           u.ID,
		NIK:          u.NIK,
		Name:         u.Name,
		Email:        u.Email,
		Department:   u.Department,
		Role:         u.Role,
		Registered:   u.Registered,
		RegisteredAt: u.RegisteredAt,
		XP:           u.XP,
		CreatedAt:    u.CreatedAt,
	}
}
