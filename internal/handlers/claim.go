package handlers

import (
	"errors"
	"net/http"
	"strings"
	"toolrank/internal/apperrors"
	"toolrank/internal/db"
	"toolrank/internal/middleware"
	"toolrank/internal/models"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type ClaimHandler struct{}

func NewClaimHandler() *ClaimHandler {
	return &ClaimHandler{}
}

type claimRequest struct {
	ToolID   uint   `json:"tool_id" binding:"required"`
	Email    string `json:"email" binding:"required"`
	ProofURL string `json:"proof_url" binding:"required"`
	Message  string `json:"message"`
}

// Create files a founder claim for admin review.
func (h *ClaimHandler) Create(c *gin.Context) {
	if _, err := middleware.ResolveIdentity(c); err != nil {
		respondError(c, err)
		return
	}

	var req claimRequest
	if !bindJSON(c, &req) {
		return
	}

	if !strings.Contains(req.Email, "@") {
		respondError(c, apperrors.Validation("email", "must be a valid address"))
		return
	}
	if !strings.HasPrefix(req.ProofURL, "http://") && !strings.HasPrefix(req.ProofURL, "https://") {
		respondError(c, apperrors.Validation("proof_url", "must be an absolute URL"))
		return
	}

	var tool models.Tool
	if err := db.DB.Where("id = ? AND status = ?", req.ToolID, models.ToolStatusApproved).First(&tool).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			respondError(c, apperrors.ErrNotFound)
			return
		}
		respondError(c, err)
		return
	}

	// One open claim per tool and claimant.
	var pending int64
	db.DB.Model(&models.ClaimRequest{}).
		Where("tool_id = ? AND email = ? AND status = ?", req.ToolID, req.Email, models.ClaimStatusPending).
		Count(&pending)
	if pending > 0 {
		respondError(c, apperrors.ErrConflict)
		return
	}

	claim := models.ClaimRequest{
		ToolID:   req.ToolID,
		Email:    req.Email,
		ProofURL: req.ProofURL,
		Message:  req.Message,
		Status:   models.ClaimStatusPending,
	}
	if err := db.DB.Create(&claim).Error; err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"claim": claim, "status": claim.Status})
}
