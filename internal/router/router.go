package router

import (
	"toolrank/internal/handlers"
	"toolrank/internal/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.Engine) {
	// Handlers
	authHandler := handlers.NewAuthHandler()
	toolHandler := handlers.NewToolHandler()
	voteHandler := handlers.NewVoteHandler()
	reviewHandler := handlers.NewReviewHandler()
	claimHandler := handlers.NewClaimHandler()
	categoryHandler := handlers.NewCategoryHandler()
	articleHandler := handlers.NewArticleHandler()
	newsletterHandler := handlers.NewNewsletterHandler()
	adminHandler := handlers.NewAdminHandler()

	// Affiliate click redirect lives outside /api so links stay short
	r.GET("/go/:slug", toolHandler.ClickRedirect)

	api := r.Group("/api")
	{
		// Public reads
		api.GET("/tools", toolHandler.List)
		api.GET("/tools/:slug", toolHandler.Detail)
		api.GET("/categories", categoryHandler.List)
		api.GET("/articles", articleHandler.List)
		api.GET("/articles/:slug", articleHandler.Detail)

		// Auth
		api.POST("/auth/register", authHandler.Register)
		api.POST("/auth/activate", authHandler.Activate)
		api.POST("/auth/login", authHandler.Login)
		api.POST("/auth/logout", authHandler.Logout)

		// Newsletter (no identity needed; the unsubscribe token is the
		// credential)
		api.POST("/newsletter/subscribe", newsletterHandler.Subscribe)
		api.GET("/newsletter/unsubscribe", newsletterHandler.Unsubscribe)

		// Identity-scoped writes; an anonymous visitor cookie suffices
		api.POST("/vote", voteHandler.Vote)
		api.GET("/vote", voteHandler.GetVote)
		api.POST("/reviews", reviewHandler.Create)
		api.POST("/tools", toolHandler.Submit)
		api.POST("/claims", claimHandler.Create)
	}

	// Owner-scoped operations require a login
	authorized := r.Group("/api")
	authorized.Use(middleware.AuthRequired())
	{
		authorized.PUT("/tools/:slug", toolHandler.Update)
		authorized.POST("/reviews/:id/reply", reviewHandler.Reply)
	}

	// Admin gateway
	r.POST("/api/admin/login", adminHandler.Login)

	admin := r.Group("/api/admin")
	admin.Use(middleware.AdminRequired())
	{
		admin.GET("/tools", adminHandler.PendingTools)
		admin.POST("/tool-action", adminHandler.ToolAction)

		admin.GET("/reviews", adminHandler.Reviews)
		admin.POST("/review-action", adminHandler.ReviewAction)
		admin.POST("/reviews/bulk-action", adminHandler.BulkReviewAction)

		admin.GET("/claims", adminHandler.Claims)
		admin.POST("/claim-action", adminHandler.ClaimAction)

		admin.POST("/articles", adminHandler.CreateArticle)
		admin.PUT("/articles/:id", adminHandler.UpdateArticle)
		admin.DELETE("/articles/:id", adminHandler.DeleteArticle)

		admin.GET("/subscribers", adminHandler.Subscribers)
		admin.POST("/newsletter/send", adminHandler.SendNewsletter)
	}
}
