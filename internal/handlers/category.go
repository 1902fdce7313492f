package handlers

import (
	"net/http"
	"time"
	"toolrank/internal/db"
	"toolrank/internal/models"
	"toolrank/internal/utils"

	"github.com/gin-gonic/gin"
)

type CategoryHandler struct{}

func NewCategoryHandler() *CategoryHandler {
	return &CategoryHandler{}
}

func (h *CategoryHandler) List(c *gin.Context) {
	const cacheKey = "categories:all"
	if cached := utils.GetCache().Get(cacheKey); cached != nil {
		if data, ok := cached.(gin.H); ok {
			c.JSON(http.StatusOK, data)
			return
		}
	}

	var categories []models.Category
	if err := db.DB.Order("name ASC").Find(&categories).Error; err != nil {
		respondError(c, err)
		return
	}

	data := gin.H{"categories": categories}
	utils.GetCache().Set(cacheKey, data, 10*time.Minute)
	c.JSON(http.StatusOK, data)
}
