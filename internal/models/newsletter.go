package models

import (
	"time"
)

type NewsletterSubscriber struct {
	ID               uint       `gorm:"primaryKey" json:"id"`
	Email            string     `gorm:"uniqueIndex;not null" json:"email"`
	UnsubscribeToken string     `gorm:"size:36;uniqueIndex;not null" json:"-"`
	UnsubscribedAt   *time.Time `json:"unsubscribed_at"`
	CreatedAt        time.Time  `json:"created_at"`
}

func (s *NewsletterSubscriber) Active() bool {
	return s.UnsubscribedAt == nil
}
