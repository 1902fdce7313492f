package models

import (
	"time"
)

const (
	VoteActionUp          = "upvote"
	VoteActionDown        = "downvote"
	VoteActionCancel      = "cancel"
	VoteActionRateLimited = "rate_limited"
)

// VoteAuditLog is append-only. Rows feed the rate limiter's sliding
// window and forensic review; nothing ever mutates them.
type VoteAuditLog struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	ToolID    uint      `gorm:"index" json:"tool_id"`
	UserID    *uint     `json:"user_id"`
	SessionID string    `gorm:"size:36" json:"-"`
	IP        string    `gorm:"size:45;index" json:"ip"`
	UserAgent string    `gorm:"size:255" json:"user_agent"`
	Action    string    `gorm:"size:20;not null;index" json:"action"`
	CreatedAt time.Time `gorm:"index" json:"created_at"`
}
