package services

import (
	"log"
	"toolrank/internal/db"
	"toolrank/internal/models"
)

// Identity is the resolved actor behind a request: an authenticated user
// id, an anonymous session id, or both once bridged. Write paths require
// at least one.
type Identity struct {
	UserID    *uint
	SessionID string
}

// BridgeIdentity claims anonymous history for a freshly authenticated
// user: vote, review and submission rows carrying the session id and no
// user id are re-attributed to the user. Safe to run repeatedly; already
// claimed rows no longer match the predicate.
func BridgeIdentity(sessionID string, userID uint) {
	if sessionID == "" {
		return
	}

	// Votes need per-row care: if the user already voted on the same
	// tool while logged in, the anonymous row is dropped instead of
	// re-attributed so the one-vote-per-identity invariant holds.
	var sessionVotes []models.Vote
	if err := db.DB.Where("session_id = ? AND user_id IS NULL", sessionID).Find(&sessionVotes).Error; err != nil {
		log.Printf("identity bridge: loading votes for session %s: %v", sessionID, err)
		return
	}
	for _, vote := range sessionVotes {
		var count int64
		db.DB.Model(&models.Vote{}).Where("tool_id = ? AND user_id = ?", vote.ToolID, userID).Count(&count)
		if count > 0 {
			db.DB.Delete(&models.Vote{}, vote.ID)
			continue
		}
		if err := db.DB.Model(&models.Vote{}).Where("id = ?", vote.ID).Update("user_id", userID).Error; err != nil {
			log.Printf("identity bridge: claiming vote %d: %v", vote.ID, err)
		}
	}

	if err := db.DB.Model(&models.Review{}).
		Where("session_id = ? AND user_id IS NULL", sessionID).
		Update("user_id", userID).Error; err != nil {
		log.Printf("identity bridge: claiming reviews for session %s: %v", sessionID, err)
	}

	if err := db.DB.Model(&models.Tool{}).
		Where("session_id = ? AND submitter_id IS NULL", sessionID).
		Update("submitter_id", userID).Error; err != nil {
		log.Printf("identity bridge: claiming submissions for session %s: %v", sessionID, err)
	}
}
