package handlers

import (
	"crypto/subtle"
	"errors"
	"log"
	"net/http"
	"os"
	"strings"
	"toolrank/internal/apperrors"
	"toolrank/internal/db"
	"toolrank/internal/middleware"
	"toolrank/internal/models"
	"toolrank/internal/services"
	"toolrank/internal/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type AdminHandler struct {
	mailService *services.MailService
}

func NewAdminHandler() *AdminHandler {
	return &AdminHandler{
		mailService: services.NewMailService(),
	}
}

type adminLoginRequest struct {
	Password string `json:"password" binding:"required"`
}

// Login issues the legacy opaque admin session cookie. Accounts with the
// admin role skip this entirely; both paths stay valid until the
// dashboard migration finishes.
func (h *AdminHandler) Login(c *gin.Context) {
	var req adminLoginRequest
	if !bindJSON(c, &req) {
		return
	}

	password := os.Getenv("ADMIN_PASSWORD")
	token := os.Getenv("ADMIN_SESSION_TOKEN")
	if password == "" || token == "" {
		respondError(c, apperrors.ErrForbidden)
		return
	}
	if subtle.ConstantTimeCompare([]byte(req.Password), []byte(password)) != 1 {
		respondError(c, apperrors.ErrForbidden)
		return
	}

	c.SetCookie(middleware.AdminCookie, token, middleware.AdminCookieMaxAge, "/", "", false, true)
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

type toolActionRequest struct {
	ToolID uint     `json:"tool_id" binding:"required"`
	Action string   `json:"action" binding:"required"` // approve, reject
	Tags   []string `json:"tags"`
	Reason string   `json:"reason"`
}

// ToolAction decides a pending submission. Approval optionally assigns
// tags; either outcome notifies the submitter and drops cached listings.
func (h *AdminHandler) ToolAction(c *gin.Context) {
	var req toolActionRequest
	if !bindJSON(c, &req) {
		return
	}
	if req.Action != "approve" && req.Action != "reject" {
		respondError(c, apperrors.Validation("action", "must be approve or reject"))
		return
	}

	var tool models.Tool
	if err := db.DB.First(&tool, req.ToolID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			respondError(c, apperrors.ErrNotFound)
			return
		}
		respondError(c, err)
		return
	}
	if tool.Status != models.ToolStatusPending {
		// Decisions are final; a decided tool only changes through
		// aggregate recomputes and owner edits.
		respondError(c, apperrors.ErrConflict)
		return
	}

	status := models.ToolStatusApproved
	if req.Action == "reject" {
		status = models.ToolStatusRejected
	}
	if err := db.DB.Model(&tool).Update("status", status).Error; err != nil {
		respondError(c, err)
		return
	}

	if req.Action == "approve" {
		if len(req.Tags) > 0 {
			h.assignTags(&tool, req.Tags)
		}
		services.GetScoreService().ScheduleUpdate(tool.ID)
		if tool.SubmitterEmail != "" {
			h.mailService.SendToolApprovedEmail(tool.SubmitterEmail, tool.Name, tool.Slug)
		}
	} else if tool.SubmitterEmail != "" {
		h.mailService.SendToolRejectedEmail(tool.SubmitterEmail, tool.Name, req.Reason)
	}

	utils.GetCache().Purge()
	c.JSON(http.StatusOK, gin.H{"status": status})
}

func (h *AdminHandler) assignTags(tool *models.Tool, names []string) {
	var tags []models.Tag
	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		var tag models.Tag
		db.DB.Where(models.Tag{Slug: utils.Slugify(name)}).
			Attrs(models.Tag{Name: name}).
			FirstOrCreate(&tag)
		tags = append(tags, tag)
	}
	if len(tags) > 0 {
		if err := db.DB.Model(tool).Association("Tags").Replace(tags); err != nil {
			log.Printf("warn: tag assignment failed for tool %d: %v", tool.ID, err)
		}
	}
}

type reviewActionRequest struct {
	ReviewID uint   `json:"review_id" binding:"required"`
	Action   string `json:"action" binding:"required"`
}

// ReviewAction moderates one review; the rating aggregate refreshes on
// both outcomes.
func (h *AdminHandler) ReviewAction(c *gin.Context) {
	var req reviewActionRequest
	if !bindJSON(c, &req) {
		return
	}

	review, err := services.ModerateReview(req.ReviewID, req.Action)
	if err != nil {
		respondError(c, err)
		return
	}

	if review.Status == models.ReviewStatusApproved {
		h.notifyReviewPublished(review.ToolID)
	}

	utils.GetCache().Purge()
	c.JSON(http.StatusOK, gin.H{"status": review.Status})
}

type bulkReviewActionRequest struct {
	ReviewIDs []uint `json:"review_ids" binding:"required"`
	Action    string `json:"action" binding:"required"`
}

// BulkReviewAction applies one decision to many reviews. Individual
// failures are skipped, not fatal; the response carries the count that
// went through.
func (h *AdminHandler) BulkReviewAction(c *gin.Context) {
	var req bulkReviewActionRequest
	if !bindJSON(c, &req) {
		return
	}

	count := 0
	for _, id := range req.ReviewIDs {
		review, err := services.ModerateReview(id, req.Action)
		if err != nil {
			continue
		}
		if review.Status == models.ReviewStatusApproved {
			h.notifyReviewPublished(review.ToolID)
		}
		count++
	}

	utils.GetCache().Purge()
	c.JSON(http.StatusOK, gin.H{"count": count})
}

func (h *AdminHandler) notifyReviewPublished(toolID uint) {
	var tool models.Tool
	if err := db.DB.First(&tool, toolID).Error; err != nil {
		return
	}
	if tool.SubmitterEmail != "" {
		h.mailService.SendReviewPublishedEmail(tool.SubmitterEmail, tool.Name)
	}
}

type claimActionRequest struct {
	ClaimID uint   `json:"claim_id" binding:"required"`
	Action  string `json:"action" binding:"required"`
}

// ClaimAction decides a founder claim; approval flips the tool's
// verified flag.
func (h *AdminHandler) ClaimAction(c *gin.Context) {
	var req claimActionRequest
	if !bindJSON(c, &req) {
		return
	}
	if req.Action != "approve" && req.Action != "reject" {
		respondError(c, apperrors.Validation("action", "must be approve or reject"))
		return
	}

	var claim models.ClaimRequest
	if err := db.DB.Preload("Tool").First(&claim, req.ClaimID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			respondError(c, apperrors.ErrNotFound)
			return
		}
		respondError(c, err)
		return
	}
	if claim.Status != models.ClaimStatusPending {
		respondError(c, apperrors.ErrConflict)
		return
	}

	approved := req.Action == "approve"
	status := models.ClaimStatusRejected
	if approved {
		status = models.ClaimStatusApproved
	}
	if err := db.DB.Model(&claim).Update("status", status).Error; err != nil {
		respondError(c, err)
		return
	}
	if approved {
		if err := db.DB.Model(&models.Tool{}).Where("id = ?", claim.ToolID).
			Update("is_verified", true).Error; err != nil {
			respondError(c, err)
			return
		}
	}

	h.mailService.SendClaimDecisionEmail(claim.Email, claim.Tool.Name, approved)

	utils.GetCache().Purge()
	c.JSON(http.StatusOK, gin.H{"success": true, "status": status})
}

// PendingTools lists submissions waiting for a decision.
func (h *AdminHandler) PendingTools(c *gin.Context) {
	var tools []models.Tool
	if err := db.DB.Preload("Category").
		Where("status = ?", models.ToolStatusPending).
		Order("created_at ASC").Find(&tools).Error; err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"tools": tools})
}

// Reviews lists reviews by status, pending by default.
func (h *AdminHandler) Reviews(c *gin.Context) {
	status := c.DefaultQuery("status", models.ReviewStatusPending)

	var reviews []models.Review
	if err := db.DB.Where("status = ?", status).
		Order("created_at ASC").Find(&reviews).Error; err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"reviews": reviews})
}

// Claims lists claim requests, pending first.
func (h *AdminHandler) Claims(c *gin.Context) {
	var claims []models.ClaimRequest
	if err := db.DB.Preload("Tool").
		Order("status = 'pending' DESC, created_at ASC").
		Find(&claims).Error; err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"claims": claims})
}

// Subscribers lists newsletter subscribers, active first.
func (h *AdminHandler) Subscribers(c *gin.Context) {
	var subscribers []models.NewsletterSubscriber
	if err := db.DB.Order("created_at DESC").Find(&subscribers).Error; err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"subscribers": subscribers})
}

type articleRequest struct {
	Title       string `json:"title" binding:"required"`
	Content     string `json:"content" binding:"required"`
	IsPublished bool   `json:"is_published"`
}

func (h *AdminHandler) CreateArticle(c *gin.Context) {
	var req articleRequest
	if !bindJSON(c, &req) {
		return
	}

	article := models.Article{
		Title:       req.Title,
		Slug:        utils.Slugify(req.Title),
		Content:     req.Content,
		IsPublished: req.IsPublished,
	}
	if err := db.DB.Create(&article).Error; err != nil {
		respondError(c, apperrors.ErrConflict)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"article": article})
}

func (h *AdminHandler) UpdateArticle(c *gin.Context) {
	var article models.Article
	if err := db.DB.First(&article, utils.StringToInt(c.Param("id"))).Error; err != nil {
		respondError(c, apperrors.ErrNotFound)
		return
	}

	var req articleRequest
	if !bindJSON(c, &req) {
		return
	}

	updates := map[string]interface{}{
		"title":        req.Title,
		"content":      req.Content,
		"is_published": req.IsPublished,
	}
	if err := db.DB.Model(&article).Updates(updates).Error; err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"article": article})
}

func (h *AdminHandler) DeleteArticle(c *gin.Context) {
	if err := db.DB.Delete(&models.Article{}, utils.StringToInt(c.Param("id"))).Error; err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

type newsletterSendRequest struct {
	Subject string `json:"subject" binding:"required"`
	Content string `json:"content" binding:"required"` // Markdown
}

// SendNewsletter broadcasts an issue to every active subscriber.
// Delivery is fire-and-forget per recipient.
func (h *AdminHandler) SendNewsletter(c *gin.Context) {
	var req newsletterSendRequest
	if !bindJSON(c, &req) {
		return
	}

	var subscribers []models.NewsletterSubscriber
	if err := db.DB.Where("unsubscribed_at IS NULL").Find(&subscribers).Error; err != nil {
		respondError(c, err)
		return
	}

	recipients := make(map[string]string, len(subscribers))
	for _, s := range subscribers {
		recipients[s.Email] = s.UnsubscribeToken
	}

	html := utils.RenderMarkdown(req.Content)
	sent := h.mailService.SendNewsletter(req.Subject, html, recipients)

	c.JSON(http.StatusOK, gin.H{"recipients": sent})
}
