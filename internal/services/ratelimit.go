package services

import (
	"log"
	"time"
	"toolrank/internal/apperrors"
	"toolrank/internal/db"
	"toolrank/internal/models"
)

const (
	// VoteRateWindow is the trailing window the limiter counts over.
	VoteRateWindow = 24 * time.Hour
	// VoteRateCeiling is the maximum vote actions per IP per window.
	// One threshold, compared with >=: the 51st action is rejected.
	VoteRateCeiling = 50
)

var voteRateActions = []string{
	models.VoteActionUp,
	models.VoteActionDown,
	models.VoteActionCancel,
}

// CheckVoteRate counts recent vote actions from ip against the audit log
// and rejects once the ceiling is reached. A sliding-window counter over
// shared IPs will false-positive behind NAT and corporate proxies; known
// limitation at this scale.
//
// A failed count is a soft failure: the vote proceeds rather than
// blocking users on an audit-log outage.
func CheckVoteRate(ip string) error {
	since := time.Now().Add(-VoteRateWindow)

	var count int64
	err := db.DB.Model(&models.VoteAuditLog{}).
		Where("ip = ? AND action IN ? AND created_at >= ?", ip, voteRateActions, since).
		Count(&count).Error
	if err != nil {
		log.Printf("warn: vote rate check failed for %s: %v", ip, err)
		return nil
	}

	if count >= VoteRateCeiling {
		entry := models.VoteAuditLog{
			IP:     ip,
			Action: models.VoteActionRateLimited,
		}
		if err := db.DB.Create(&entry).Error; err != nil {
			log.Printf("warn: rate-limit audit write failed for %s: %v", ip, err)
		}
		return apperrors.ErrRateLimited
	}

	return nil
}
