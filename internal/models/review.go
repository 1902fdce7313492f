package models

import (
	"time"
)

const (
	ReviewStatusPending  = "pending"
	ReviewStatusApproved = "approved"
	ReviewStatusRejected = "rejected"
)

type Review struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	ToolID     uint      `gorm:"not null;index" json:"tool_id"`
	Tool       Tool      `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
	UserID     *uint     `gorm:"index" json:"user_id"`
	SessionID  *string   `gorm:"size:36;index" json:"-"`
	Rating     int       `gorm:"not null" json:"rating"` // 1..5
	Comment    string    `gorm:"type:text" json:"comment"`
	Status     string    `gorm:"size:20;default:'pending';not null;index" json:"status"`
	OwnerReply string    `gorm:"type:text" json:"owner_reply"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}
