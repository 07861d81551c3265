package user

import "github.com/saulo-duarte/learnhub-lambda/internal/auth"

type Role string

const (
	RoleAdmin   Role = auth.RoleAdmin
	RoleTrainer Role = auth.RoleTrainer
	RoleUser    Role = auth.RoleUser
)

var AllRoles = []Role{
	RoleAdmin,
	RoleTrainer,
	RoleUser,
}

func (r Role) IsValid() bool {
	for _, v := range AllRoles {
		if r == v {
			return true
		}
	}
	return false
}
