package models

import (
	"time"

	"gorm.io/gorm"
)

/** --------------------ENTITIES-------------------- */
// User represents a wall account
type User struct {
	gorm.Model
	Username  string     `gorm:"not null" json:"username"`
	Mail      string     `gorm:"uniqueIndex;not null" json:"mail"` // login identifier
	Password  string     `json:"-"`                                // bcrypt hash
	Avatar    string     `json:"avatar,omitempty"`
	LastLogin *time.Time `json:"lastLogin,omitempty"`
}

/** -------------------- DTOs -------------------- */
// LoginRequest carries the mail in the username field
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type UserResponse struct {
	ID        uint       `json:"id"`
	Username  string     `json:"username"`
	Mail      string     `json:"mail"`
	Avatar    string     `json:"avatar,omitempty"`
	LastLogin *time.Time `json:"lastLogin,omitempty"`
}

// LoginResponse represents the response for a successful login
// swagger:model
type LoginResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"user"`
}

func (u *User) ToResponse() UserResponse {
	return UserResponse{
		ID:        u.ID,
		Username:  u.Username,
		Mail:      u.Mail,
		Avatar:    u.Avatar,
		LastLogin: u.LastLogin,
	}
}
