package handlers

import (
	"net/http"
	"toolrank/internal/apperrors"
	"toolrank/internal/middleware"
	"toolrank/internal/services"
	"toolrank/internal/utils"

	"github.com/gin-gonic/gin"
)

type ReviewHandler struct{}

func NewReviewHandler() *ReviewHandler {
	return &ReviewHandler{}
}

type reviewRequest struct {
	ToolID  uint   `json:"tool_id" binding:"required"`
	Rating  int    `json:"rating" binding:"required"`
	Comment string `json:"comment"`
}

// Create queues a review for moderation. It stays invisible until an
// admin approves it.
func (h *ReviewHandler) Create(c *gin.Context) {
	ident, err := middleware.ResolveIdentity(c)
	if err != nil {
		respondError(c, err)
		return
	}

	var req reviewRequest
	if !bindJSON(c, &req) {
		return
	}

	review, err := services.SubmitReview(req.ToolID, ident, req.Rating, req.Comment)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"review": review,
		"status": review.Status,
	})
}

type replyRequest struct {
	Reply string `json:"reply" binding:"required"`
}

// Reply attaches the tool owner's public response to an approved review.
func (h *ReviewHandler) Reply(c *gin.Context) {
	user := middleware.CurrentUser(c)
	if user == nil {
		respondError(c, apperrors.ErrAuthRequired)
		return
	}

	reviewID := uint(utils.StringToInt(c.Param("id")))
	if reviewID == 0 {
		respondError(c, apperrors.Validation("id", "must be a review id"))
		return
	}

	var req replyRequest
	if !bindJSON(c, &req) {
		return
	}

	if err := services.ReplyToReview(reviewID, user.ID, req.Reply); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true})
}
