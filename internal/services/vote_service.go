package services

import (
	"errors"
	"strings"
	"toolrank/internal/apperrors"
	"toolrank/internal/db"
	"toolrank/internal/models"

	"gorm.io/gorm"
)

// VoteResult is what the vote endpoints return: fresh aggregates plus
// the caller's own vote.
type VoteResult struct {
	Score     int  `json:"score"`
	VoteCount int  `json:"vote_count"`
	UserVote  *int `json:"user_vote"`
}

// ApplyVote records, flips or retracts the caller's vote on a tool.
// value +1/-1 votes, nil retracts. The ledger holds at most one row per
// (tool, identity); aggregates are recomputed synchronously so the
// response reflects the mutation.
func ApplyVote(toolID uint, ident Identity, value *int, ip, userAgent string) (*VoteResult, error) {
	if value != nil && *value != 1 && *value != -1 {
		return nil, apperrors.Validation("value", "must be 1, -1 or null")
	}

	var tool models.Tool
	if err := db.DB.First(&tool, toolID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	if tool.Status != models.ToolStatusApproved {
		// Unlisted tools aren't votable.
		return nil, apperrors.ErrNotFound
	}

	existing, found, err := lookupVote(toolID, ident)
	if err != nil {
		return nil, err
	}

	switch {
	case value == nil:
		if found {
			if err := db.DB.Delete(&models.Vote{}, existing.ID).Error; err != nil {
				return nil, err
			}
			RecordVoteAudit(toolID, ident, ip, userAgent, models.VoteActionCancel)
		}
		// Retracting a vote that doesn't exist is a no-op.

	case found:
		// Flip in place; same-value flips are idempotent. Backfill the
		// user id when an anonymous row meets its authenticated owner.
		updates := map[string]interface{}{"value": *value}
		if existing.UserID == nil && ident.UserID != nil {
			updates["user_id"] = *ident.UserID
		}
		if err := db.DB.Model(&models.Vote{}).Where("id = ?", existing.ID).Updates(updates).Error; err != nil {
			return nil, err
		}
		RecordVoteAudit(toolID, ident, ip, userAgent, auditAction(*value))

	default:
		vote := models.Vote{
			ToolID: toolID,
			UserID: ident.UserID,
			Value:  *value,
		}
		if ident.SessionID != "" {
			sid := ident.SessionID
			vote.SessionID = &sid
		}
		if err := db.DB.Create(&vote).Error; err != nil {
			if isDuplicateErr(err) {
				// Concurrent request from the same identity won the race.
				return nil, apperrors.ErrConflict
			}
			return nil, err
		}
		RecordVoteAudit(toolID, ident, ip, userAgent, auditAction(*value))
	}

	score, voteCount, err := RecomputeScore(toolID)
	if err != nil {
		return nil, err
	}

	return &VoteResult{
		Score:     score,
		VoteCount: voteCount,
		UserVote:  value,
	}, nil
}

// GetUserVote returns the caller's current vote on a tool, nil for none.
func GetUserVote(toolID uint, ident Identity) (*int, error) {
	vote, found, err := lookupVote(toolID, ident)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, nil
	}
	return &vote.Value, nil
}

// lookupVote matches by user id first; the session-only row, if any, is
// the one the identity bridge already handled on login.
func lookupVote(toolID uint, ident Identity) (models.Vote, bool, error) {
	var vote models.Vote

	if ident.UserID != nil {
		err := db.DB.Where("tool_id = ? AND user_id = ?", toolID, *ident.UserID).First(&vote).Error
		if err == nil {
			return vote, true, nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return vote, false, err
		}
	}

	if ident.SessionID != "" {
		err := db.DB.Where("tool_id = ? AND session_id = ?", toolID, ident.SessionID).First(&vote).Error
		if err == nil {
			return vote, true, nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return vote, false, err
		}
	}

	return vote, false, nil
}

func auditAction(value int) string {
	if value == 1 {
		return models.VoteActionUp
	}
	return models.VoteActionDown
}

// isDuplicateErr covers both drivers: the postgres error translator and
// sqlite's constraint message.
func isDuplicateErr(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "duplicate key") || strings.Contains(msg, "UNIQUE constraint")
}
