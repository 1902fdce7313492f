package handlers

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"strings"
	"time"
	"toolrank/internal/apperrors"
	"toolrank/internal/db"
	"toolrank/internal/middleware"
	"toolrank/internal/models"
	"toolrank/internal/services"
	"toolrank/internal/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

const toolsPerPage = 30

type ToolHandler struct {
	paymentService *services.PaymentService
	mailService    *services.MailService
}

func NewToolHandler() *ToolHandler {
	return &ToolHandler{
		paymentService: services.NewPaymentService(),
		mailService:    services.NewMailService(),
	}
}

// List returns approved tools. sort=top orders by score, sort=new by
// submission date; category, tag and q narrow the result.
func (h *ToolHandler) List(c *gin.Context) {
	page := utils.StringToInt(c.DefaultQuery("page", "1"))
	if page < 1 {
		page = 1
	}
	sort := c.DefaultQuery("sort", "top")
	category := c.Query("category")
	tag := c.Query("tag")
	search := strings.TrimSpace(c.Query("q"))

	cacheKey := fmt.Sprintf("tools:%s:%s:%s:%s:%d", sort, category, tag, search, page)
	if cached := utils.GetCache().Get(cacheKey); cached != nil {
		if data, ok := cached.(gin.H); ok {
			c.JSON(http.StatusOK, data)
			return
		}
	}

	query := db.DB.Model(&models.Tool{}).
		Preload("Category").Preload("Tags").
		Where("tools.status = ?", models.ToolStatusApproved)

	if category != "" {
		query = query.Joins("JOIN categories ON categories.id = tools.category_id").
			Where("categories.slug = ?", category)
	}
	if tag != "" {
		query = query.Joins("JOIN tool_tags ON tool_tags.tool_id = tools.id").
			Joins("JOIN tags ON tags.id = tool_tags.tag_id").
			Where("tags.slug = ?", tag)
	}
	if search != "" {
		like := "%" + strings.ToLower(search) + "%"
		query = query.Where("LOWER(tools.name) LIKE ? OR LOWER(tools.description) LIKE ?", like, like)
	}

	var total int64
	query.Count(&total)

	switch sort {
	case "new":
		query = query.Order("tools.created_at DESC")
	default:
		// Sponsored listings float above organic ranking.
		query = query.Order("tools.is_sponsored DESC, tools.score DESC, tools.created_at DESC")
	}

	var tools []models.Tool
	if err := query.Offset((page - 1) * toolsPerPage).Limit(toolsPerPage).Find(&tools).Error; err != nil {
		respondError(c, err)
		return
	}

	data := gin.H{
		"tools": tools,
		"page":  page,
		"total": total,
	}
	utils.GetCache().Set(cacheKey, data, 2*time.Minute)
	c.JSON(http.StatusOK, data)
}

// Detail returns one approved tool with its approved reviews.
func (h *ToolHandler) Detail(c *gin.Context) {
	slug := c.Param("slug")

	var tool models.Tool
	err := db.DB.Preload("Category").Preload("Tags").
		Where("slug = ? AND status = ?", slug, models.ToolStatusApproved).
		First(&tool).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			respondError(c, apperrors.ErrNotFound)
			return
		}
		respondError(c, err)
		return
	}

	var reviews []models.Review
	db.DB.Where("tool_id = ? AND status = ?", tool.ID, models.ReviewStatusApproved).
		Order("created_at DESC").Find(&reviews)

	c.JSON(http.StatusOK, gin.H{
		"tool":    tool,
		"reviews": reviews,
	})
}

type submitToolRequest struct {
	Name         string `json:"name" binding:"required"`
	Tagline      string `json:"tagline"`
	Description  string `json:"description" binding:"required"`
	WebsiteURL   string `json:"website_url" binding:"required"`
	AffiliateURL string `json:"affiliate_url"`
	CategoryID   uint   `json:"category_id" binding:"required"`
	Email        string `json:"email"`
	PaymentToken string `json:"payment_token" binding:"required"`
}

// Submit creates a pending listing. The listing fee is captured first;
// a failed capture leaves nothing behind.
func (h *ToolHandler) Submit(c *gin.Context) {
	ident, err := middleware.ResolveIdentity(c)
	if err != nil {
		respondError(c, err)
		return
	}

	var req submitToolRequest
	if !bindJSON(c, &req) {
		return
	}

	if !strings.HasPrefix(req.WebsiteURL, "http://") && !strings.HasPrefix(req.WebsiteURL, "https://") {
		respondError(c, apperrors.Validation("website_url", "must be an absolute URL"))
		return
	}

	// Anonymous submitters must leave a contact address for moderation
	// notifications.
	email := strings.TrimSpace(req.Email)
	if ident.UserID == nil && email == "" {
		respondError(c, apperrors.Validation("email", "required for anonymous submissions"))
		return
	}
	if email == "" {
		var user models.User
		if err := db.DB.First(&user, *ident.UserID).Error; err == nil {
			email = user.Email
		}
	}

	var category models.Category
	if err := db.DB.First(&category, req.CategoryID).Error; err != nil {
		respondError(c, apperrors.Validation("category_id", "unknown category"))
		return
	}

	slug := utils.Slugify(req.Name)
	if slug == "" {
		respondError(c, apperrors.Validation("name", "must contain letters or digits"))
		return
	}
	var existing int64
	db.DB.Model(&models.Tool{}).Where("slug = ?", slug).Count(&existing)
	if existing > 0 {
		respondError(c, apperrors.ErrConflict)
		return
	}

	amount := utils.StringToInt(os.Getenv("LISTING_FEE_CENTS"))
	if amount == 0 {
		amount = 2900
	}
	transactionID, err := h.paymentService.Capture(amount, req.PaymentToken)
	if err != nil {
		respondError(c, err)
		return
	}

	tagline := strings.TrimSpace(req.Tagline)
	if tagline == "" {
		if generated, err := services.GetLLMService().GenerateTagline(req.Name, req.Description); err == nil {
			tagline = generated
		} else {
			log.Printf("warn: tagline generation failed for %s: %v", req.Name, err)
		}
	}

	tool := models.Tool{
		CategoryID:     req.CategoryID,
		Name:           req.Name,
		Slug:           slug,
		Tagline:        tagline,
		Description:    req.Description,
		WebsiteURL:     req.WebsiteURL,
		AffiliateURL:   req.AffiliateURL,
		Status:         models.ToolStatusPending,
		PaymentStatus:  models.PaymentStatusCaptured,
		PaymentAmount:  amount,
		TransactionID:  transactionID,
		SubmitterID:    ident.UserID,
		SubmitterEmail: email,
	}
	if ident.SessionID != "" {
		sid := ident.SessionID
		tool.SessionID = &sid
	}

	if err := db.DB.Create(&tool).Error; err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"tool": tool, "status": tool.Status})
}

type updateToolRequest struct {
	Name        string `json:"name"`
	Tagline     string `json:"tagline"`
	Description string `json:"description"`
	WebsiteURL  string `json:"website_url"`
}

// Update is the owner-scoped edit: name, tagline, description and
// website only. Status never changes here.
func (h *ToolHandler) Update(c *gin.Context) {
	user := middleware.CurrentUser(c)
	if user == nil {
		respondError(c, apperrors.ErrAuthRequired)
		return
	}

	var tool models.Tool
	if err := db.DB.Where("slug = ?", c.Param("slug")).First(&tool).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			respondError(c, apperrors.ErrNotFound)
			return
		}
		respondError(c, err)
		return
	}

	if tool.SubmitterID == nil || *tool.SubmitterID != user.ID {
		respondError(c, apperrors.ErrForbidden)
		return
	}

	var req updateToolRequest
	if !bindJSON(c, &req) {
		return
	}

	updates := map[string]interface{}{}
	if req.Name != "" {
		updates["name"] = req.Name
	}
	if req.Tagline != "" {
		updates["tagline"] = req.Tagline
	}
	if req.Description != "" {
		updates["description"] = req.Description
	}
	if req.WebsiteURL != "" {
		if !strings.HasPrefix(req.WebsiteURL, "http://") && !strings.HasPrefix(req.WebsiteURL, "https://") {
			respondError(c, apperrors.Validation("website_url", "must be an absolute URL"))
			return
		}
		updates["website_url"] = req.WebsiteURL
	}
	if len(updates) == 0 {
		c.JSON(http.StatusOK, gin.H{"tool": tool})
		return
	}

	if err := db.DB.Model(&tool).Updates(updates).Error; err != nil {
		respondError(c, err)
		return
	}

	utils.GetCache().Purge()
	c.JSON(http.StatusOK, gin.H{"tool": tool})
}

// ClickRedirect counts the click and forwards to the affiliate URL when
// one exists, the plain website otherwise.
func (h *ToolHandler) ClickRedirect(c *gin.Context) {
	var tool models.Tool
	err := db.DB.Where("slug = ? AND status = ?", c.Param("slug"), models.ToolStatusApproved).
		First(&tool).Error
	if err != nil {
		respondError(c, apperrors.ErrNotFound)
		return
	}

	// Fire-and-forget; losing a click is fine.
	go func(id uint) {
		if err := db.DB.Model(&models.Tool{}).Where("id = ?", id).
			UpdateColumn("click_count", gorm.Expr("click_count + ?", 1)).Error; err != nil {
			log.Printf("warn: click count update failed for tool %d: %v", id, err)
		}
	}(tool.ID)

	target := tool.AffiliateURL
	if target == "" {
		target = tool.WebsiteURL
	}
	c.Redirect(http.StatusFound, target)
}
