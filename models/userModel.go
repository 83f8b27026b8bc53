package models

import "gorm.io/gorm"

const (
	RoleBuyer  = "buyer"
	RoleSeller = "seller"
	RoleAdmin  = "admin"
)

type User struct {
	gorm.Model
	Fullname      string `json:"fullname"`
	Email         string `json:"email" gorm:"size:191;uniqueIndex"`
	Phone         string `json:"phone"`
	Password      string `json:"-"`
	Role          string `json:"role" gorm:"size:16;default:buyer"`
	EmailVerified bool   `json:"emailVerified"`
}

type SignupData struct {
	Fullname string `json:"fullname" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Phone    string `json:"phone"`
	Password string `json:"password" binding:"required,min=8"`
	Role     string `json:"role" binding:"omitempty,oneof=buyer seller"`
}

type LoginData struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// IsValidRole reports whether role is one of the known account roles.
func IsValidRole(role string) bool {
	switch role {
	case RoleBuyer, RoleSeller, RoleAdmin:
		return true
	}
	return false
}
