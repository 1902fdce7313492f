package models

import (
	"time"
)

type User struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Username    string    `gorm:"not null" json:"username"`
	Email       string    `gorm:"uniqueIndex;not null" json:"email"`
	Password    string    `gorm:"not null" json:"-"`                           // Hash
	Role        string    `gorm:"size:20;default:'user';not null" json:"role"` // user, admin
	IsActivated bool      `gorm:"default:false" json:"is_activated"`
	VerifyCode  string    `gorm:"size:20" json:"-"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (u *User) IsAdmin() bool {
	return u.Role == "admin"
}
