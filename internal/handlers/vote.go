package handlers

import (
	"net/http"
	"toolrank/internal/middleware"
	"toolrank/internal/services"
	"toolrank/internal/utils"

	"github.com/gin-gonic/gin"
)

type VoteHandler struct{}

func NewVoteHandler() *VoteHandler {
	return &VoteHandler{}
}

type voteRequest struct {
	ToolID uint `json:"tool_id" binding:"required"`
	Value  *int `json:"value"` // 1, -1 or null (retract)
}

// Vote applies, flips or retracts the caller's vote and returns the
// recomputed aggregates.
func (h *VoteHandler) Vote(c *gin.Context) {
	ident, err := middleware.ResolveIdentity(c)
	if err != nil {
		respondError(c, err)
		return
	}

	var req voteRequest
	if !bindJSON(c, &req) {
		return
	}

	// Rate limit applies to write paths only, keyed by client IP.
	if err := services.CheckVoteRate(c.ClientIP()); err != nil {
		respondError(c, err)
		return
	}

	result, err := services.ApplyVote(req.ToolID, ident, req.Value, c.ClientIP(), c.Request.UserAgent())
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetVote returns the caller's current vote on a tool.
func (h *VoteHandler) GetVote(c *gin.Context) {
	ident, err := middleware.ResolveIdentity(c)
	if err != nil {
		respondError(c, err)
		return
	}

	toolID := uint(utils.StringToInt(c.Query("tool_id")))
	if toolID == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "tool_id is required", "field": "tool_id"})
		return
	}

	userVote, err := services.GetUserVote(toolID, ident)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"user_vote": userVote})
}
