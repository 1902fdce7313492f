package models

import (
	"time"
)

const (
	ToolStatusPending  = "pending"
	ToolStatusApproved = "approved"
	ToolStatusRejected = "rejected"
)

const (
	PaymentStatusPending  = "pending"
	PaymentStatusCaptured = "captured"
	PaymentStatusFailed   = "failed"
)

type Tool struct {
	ID           uint     `gorm:"primaryKey" json:"id"`
	CategoryID   uint     `gorm:"not null;index" json:"category_id"`
	Category     Category `gorm:"constraint:OnUpdate:CASCADE,OnDelete:RESTRICT;" json:"category"`
	Name         string   `gorm:"not null" json:"name"`
	Slug         string   `gorm:"uniqueIndex;not null" json:"slug"`
	Tagline      string   `gorm:"size:200" json:"tagline"`
	Description  string   `gorm:"type:text" json:"description"`
	WebsiteURL   string   `gorm:"not null" json:"website_url"`
	AffiliateURL string   `json:"affiliate_url"`
	Status       string   `gorm:"size:20;default:'pending';not null;index" json:"status"`

	// Aggregate cache columns. Always re-derivable by rescanning the
	// vote/review ledgers; never incremented ad hoc.
	VoteCount     int     `gorm:"default:0" json:"vote_count"`
	Score         int     `gorm:"default:0" json:"score"`
	AverageRating float64 `gorm:"default:0" json:"average_rating"`
	ReviewCount   int     `gorm:"default:0" json:"review_count"`
	ClickCount    int     `gorm:"default:0" json:"click_count"`

	PaymentStatus string `gorm:"size:20" json:"-"`
	PaymentAmount int    `json:"-"` // cents
	TransactionID string `gorm:"size:64" json:"-"`

	IsVerified  bool `gorm:"default:false" json:"is_verified"`
	IsSponsored bool `gorm:"default:false" json:"is_sponsored"`

	SubmitterID    *uint   `gorm:"index" json:"submitter_id"`
	SubmitterEmail string  `json:"-"`
	SessionID      *string `gorm:"size:36;index" json:"-"` // anonymous submitter, bridged on login

	Tags []Tag `gorm:"many2many:tool_tags;" json:"tags"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
