package handlers

import (
	"net/http"
	"strings"
	"toolrank/internal/apperrors"
	"toolrank/internal/db"
	"toolrank/internal/middleware"
	"toolrank/internal/models"
	"toolrank/internal/services"
	"toolrank/internal/utils"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	mailService *services.MailService
}

func NewAuthHandler() *AuthHandler {
	return &AuthHandler{
		mailService: services.NewMailService(),
	}
}

type registerRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req registerRequest
	if !bindJSON(c, &req) {
		return
	}

	parts := strings.Split(req.Email, "@")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		respondError(c, apperrors.Validation("email", "must be a valid address"))
		return
	}
	if len(req.Password) < 6 {
		respondError(c, apperrors.Validation("password", "must be at least 6 characters"))
		return
	}

	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		respondError(c, err)
		return
	}

	user := models.User{
		Username:   parts[0],
		Email:      strings.ToLower(req.Email),
		Password:   hash,
		VerifyCode: utils.GenerateRandomCode(6),
	}
	if err := db.DB.Create(&user).Error; err != nil {
		respondError(c, apperrors.ErrConflict)
		return
	}

	h.mailService.SendVerificationEmail(user.Email, user.VerifyCode)

	c.JSON(http.StatusCreated, gin.H{"message": "verification code sent"})
}

type activateRequest struct {
	Email string `json:"email" binding:"required"`
	Code  string `json:"code" binding:"required"`
}

func (h *AuthHandler) Activate(c *gin.Context) {
	var req activateRequest
	if !bindJSON(c, &req) {
		return
	}

	var user models.User
	if err := db.DB.Where("email = ?", strings.ToLower(req.Email)).First(&user).Error; err != nil {
		respondError(c, apperrors.ErrNotFound)
		return
	}
	if user.IsActivated {
		c.JSON(http.StatusOK, gin.H{"activated": true})
		return
	}
	if user.VerifyCode != req.Code {
		respondError(c, apperrors.Validation("code", "does not match"))
		return
	}

	db.DB.Model(&user).Updates(map[string]interface{}{
		"is_activated": true,
		"verify_code":  "",
	})

	c.JSON(http.StatusOK, gin.H{"activated": true})
}

type loginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if !bindJSON(c, &req) {
		return
	}

	var user models.User
	if err := db.DB.Where("email = ?", strings.ToLower(req.Email)).First(&user).Error; err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid email or password"})
		return
	}
	if !utils.CheckPassword(user.Password, req.Password) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid email or password"})
		return
	}
	if !user.IsActivated {
		c.JSON(http.StatusForbidden, gin.H{"error": "account not activated"})
		return
	}

	session := sessions.Default(c)
	session.Set("user_id", user.ID)
	if err := session.Save(); err != nil {
		respondError(c, err)
		return
	}

	// Claim anonymous history from this browser before the response, so
	// "my vote" reads are bridged immediately after login.
	if vid, exists := c.Get(middleware.VisitorKey); exists {
		services.BridgeIdentity(vid.(string), user.ID)
	}

	c.JSON(http.StatusOK, gin.H{"user": user})
}

func (h *AuthHandler) Logout(c *gin.Context) {
	session := sessions.Default(c)
	session.Clear()
	session.Save()
	c.JSON(http.StatusOK, gin.H{"ok": true})
}
