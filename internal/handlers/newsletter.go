package handlers

import (
	"net/http"
	"strings"
	"time"
	"toolrank/internal/apperrors"
	"toolrank/internal/db"
	"toolrank/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type NewsletterHandler struct{}

func NewNewsletterHandler() *NewsletterHandler {
	return &NewsletterHandler{}
}

type subscribeRequest struct {
	Email string `json:"email" binding:"required"`
}

// Subscribe is idempotent: an already-subscribed address succeeds, an
// unsubscribed one is reactivated.
func (h *NewsletterHandler) Subscribe(c *gin.Context) {
	var req subscribeRequest
	if !bindJSON(c, &req) {
		return
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	if !strings.Contains(email, "@") {
		respondError(c, apperrors.Validation("email", "must be a valid address"))
		return
	}

	var existing models.NewsletterSubscriber
	if err := db.DB.Where("email = ?", email).First(&existing).Error; err == nil {
		if existing.UnsubscribedAt != nil {
			db.DB.Model(&existing).Update("unsubscribed_at", nil)
		}
		c.JSON(http.StatusOK, gin.H{"subscribed": true})
		return
	}

	subscriber := models.NewsletterSubscriber{
		Email:            email,
		UnsubscribeToken: uuid.NewString(),
	}
	if err := db.DB.Create(&subscriber).Error; err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"subscribed": true})
}

// Unsubscribe deactivates by token so the link in an email works without
// a login.
func (h *NewsletterHandler) Unsubscribe(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		respondError(c, apperrors.Validation("token", "is required"))
		return
	}

	var subscriber models.NewsletterSubscriber
	if err := db.DB.Where("unsubscribe_token = ?", token).First(&subscriber).Error; err != nil {
		respondError(c, apperrors.ErrNotFound)
		return
	}

	if subscriber.UnsubscribedAt == nil {
		now := time.Now()
		db.DB.Model(&subscriber).Update("unsubscribed_at", &now)
	}

	c.JSON(http.StatusOK, gin.H{"unsubscribed": true})
}
