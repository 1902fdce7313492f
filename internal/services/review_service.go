package services

import (
	"errors"
	"toolrank/internal/apperrors"
	"toolrank/internal/db"
	"toolrank/internal/models"
	"toolrank/internal/utils"
	"unicode/utf8"

	"gorm.io/gorm"
)

const (
	MinCommentLen = 10
	MaxCommentLen = 1000
)

// SubmitReview stores a pending review for moderation. One review per
// (tool, identity): a pending or approved one already on file rejects
// the submission.
func SubmitReview(toolID uint, ident Identity, rating int, comment string) (*models.Review, error) {
	if rating < 1 || rating > 5 {
		return nil, apperrors.Validation("rating", "must be between 1 and 5")
	}
	if comment != "" {
		if n := utf8.RuneCountInString(comment); n < MinCommentLen || n > MaxCommentLen {
			return nil, apperrors.Validation("comment", "must be between 10 and 1000 characters")
		}
	}

	var tool models.Tool
	if err := db.DB.First(&tool, toolID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	if tool.Status != models.ToolStatusApproved {
		return nil, apperrors.ErrNotFound
	}

	if exists, err := hasExistingReview(toolID, ident); err != nil {
		return nil, err
	} else if exists {
		// "you have already reviewed this tool"
		return nil, apperrors.ErrConflict
	}

	review := models.Review{
		ToolID:  toolID,
		UserID:  ident.UserID,
		Rating:  rating,
		Comment: utils.SanitizeText(comment),
		Status:  models.ReviewStatusPending,
	}
	if ident.SessionID != "" {
		sid := ident.SessionID
		review.SessionID = &sid
	}

	if err := db.DB.Create(&review).Error; err != nil {
		if isDuplicateErr(err) {
			return nil, apperrors.ErrConflict
		}
		return nil, err
	}
	return &review, nil
}

func hasExistingReview(toolID uint, ident Identity) (bool, error) {
	statuses := []string{models.ReviewStatusPending, models.ReviewStatusApproved}
	query := db.DB.Model(&models.Review{}).Where("tool_id = ? AND status IN ?", toolID, statuses)

	if ident.UserID != nil && ident.SessionID != "" {
		query = query.Where("user_id = ? OR session_id = ?", *ident.UserID, ident.SessionID)
	} else if ident.UserID != nil {
		query = query.Where("user_id = ?", *ident.UserID)
	} else {
		query = query.Where("session_id = ?", ident.SessionID)
	}

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// ModerateReview applies an admin approve/reject decision and returns
// the review with its new status. The rating aggregate is recomputed on
// every action, including reject: pulling a previously approved review
// must also pull its rating back out of the average.
func ModerateReview(reviewID uint, action string) (*models.Review, error) {
	if action != "approve" && action != "reject" {
		return nil, apperrors.Validation("action", "must be approve or reject")
	}

	var review models.Review
	if err := db.DB.First(&review, reviewID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}

	status := models.ReviewStatusApproved
	if action == "reject" {
		status = models.ReviewStatusRejected
	}
	if err := db.DB.Model(&review).Update("status", status).Error; err != nil {
		return nil, err
	}
	review.Status = status

	if _, _, err := RecomputeRating(review.ToolID); err != nil {
		return nil, err
	}
	return &review, nil
}

// RecomputeRating refreshes a tool's average_rating/review_count from
// the currently approved reviews. Zero/zero when none remain.
func RecomputeRating(toolID uint) (average float64, count int, err error) {
	type aggRow struct {
		Avg   float64
		Count int64
	}
	var row aggRow
	err = db.DB.Model(&models.Review{}).
		Select("COALESCE(AVG(rating), 0) as avg, COUNT(*) as count").
		Where("tool_id = ? AND status = ?", toolID, models.ReviewStatusApproved).
		Scan(&row).Error
	if err != nil {
		return 0, 0, err
	}

	err = db.DB.Model(&models.Tool{}).Where("id = ?", toolID).Updates(map[string]interface{}{
		"average_rating": row.Avg,
		"review_count":   row.Count,
	}).Error
	return row.Avg, int(row.Count), err
}

// ReplyToReview lets the verified submitter of a tool attach one public
// reply to an approved review of it.
func ReplyToReview(reviewID uint, userID uint, reply string) error {
	if n := utf8.RuneCountInString(reply); n == 0 || n > MaxCommentLen {
		return apperrors.Validation("reply", "must be between 1 and 1000 characters")
	}

	var review models.Review
	if err := db.DB.Preload("Tool").First(&review, reviewID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.ErrNotFound
		}
		return err
	}
	if review.Status != models.ReviewStatusApproved {
		return apperrors.ErrNotFound
	}
	if review.Tool.SubmitterID == nil || *review.Tool.SubmitterID != userID {
		return apperrors.ErrForbidden
	}

	return db.DB.Model(&models.Review{}).Where("id = ?", reviewID).
		Update("owner_reply", utils.SanitizeText(reply)).Error
}
