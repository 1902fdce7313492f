package models

import (
	"time"
)

type Vote struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	ToolID    uint      `gorm:"not null;index;uniqueIndex:idx_vote_tool_user;uniqueIndex:idx_vote_tool_session" json:"tool_id"`
	Tool      Tool      `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
	UserID    *uint     `gorm:"uniqueIndex:idx_vote_tool_user" json:"user_id"`
	SessionID *string   `gorm:"size:36;uniqueIndex:idx_vote_tool_session" json:"-"`
	Value     int       `gorm:"not null" json:"value"` // 1 or -1
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// At least one of UserID/SessionID is set; enforced at the application
// layer (lookup-before-write). Postgres allows duplicate NULLs inside the
// composite unique indexes, so anonymous and authenticated rows don't
// collide with each other.
