package models

import (
	"time"
)

const (
	ClaimStatusPending  = "pending"
	ClaimStatusApproved = "approved"
	ClaimStatusRejected = "rejected"
)

// ClaimRequest is a founder asking to be verified as the owner of a
// listed tool. Approval sets Tool.IsVerified.
type ClaimRequest struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	ToolID    uint      `gorm:"not null;index" json:"tool_id"`
	Tool      Tool      `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"tool"`
	Email     string    `gorm:"not null" json:"email"`
	ProofURL  string    `gorm:"not null" json:"proof_url"`
	Message   string    `gorm:"type:text" json:"message"`
	Status    string    `gorm:"size:20;default:'pending';not null;index" json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
