package handlers

import (
	"errors"
	"log"
	"net/http"
	"toolrank/internal/apperrors"

	"github.com/gin-gonic/gin"
)

// respondError maps service errors onto HTTP statuses in one place.
// Validation and ownership errors surface verbatim; store errors are
// logged server-side and hidden behind a generic message.
func respondError(c *gin.Context, err error) {
	if ve, ok := apperrors.IsValidation(err); ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": ve.Error(), "field": ve.Field})
		return
	}

	switch {
	case errors.Is(err, apperrors.ErrAuthRequired):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
	case errors.Is(err, apperrors.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": "not allowed"})
	case errors.Is(err, apperrors.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	case errors.Is(err, apperrors.ErrConflict):
		c.JSON(http.StatusConflict, gin.H{"error": "conflict"})
	case errors.Is(err, apperrors.ErrRateLimited):
		c.JSON(http.StatusTooManyRequests, gin.H{"error": "we're receiving a high volume of votes, please try again later"})
	case errors.Is(err, apperrors.ErrUpstream):
		log.Printf("upstream failure: %v", err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "an upstream service failed, please try again"})
	default:
		log.Printf("internal error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

func bindJSON(c *gin.Context, obj interface{}) bool {
	if err := c.ShouldBindJSON(obj); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return false
	}
	return true
}
