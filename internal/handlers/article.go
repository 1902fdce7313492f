package handlers

import (
	"net/http"
	"toolrank/internal/apperrors"
	"toolrank/internal/db"
	"toolrank/internal/models"
	"toolrank/internal/utils"

	"github.com/gin-gonic/gin"
)

type ArticleHandler struct{}

func NewArticleHandler() *ArticleHandler {
	return &ArticleHandler{}
}

// List returns published articles, newest first.
func (h *ArticleHandler) List(c *gin.Context) {
	var articles []models.Article
	if err := db.DB.Where("is_published = ?", true).
		Order("created_at DESC").
		Select("id", "title", "slug", "created_at", "updated_at").
		Find(&articles).Error; err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"articles": articles})
}

// Detail returns one published article with its Markdown rendered to
// sanitized HTML.
func (h *ArticleHandler) Detail(c *gin.Context) {
	var article models.Article
	err := db.DB.Where("slug = ? AND is_published = ?", c.Param("slug"), true).
		First(&article).Error
	if err != nil {
		respondError(c, apperrors.ErrNotFound)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"article": article,
		"html":    utils.RenderMarkdown(article.Content),
	})
}
