package routes

import (
	"github.com/diwan-maarifa/diwan-backend/internal/config"
	"github.com/diwan-maarifa/diwan-backend/internal/domain"
	"github.com/diwan-maarifa/diwan-backend/internal/handler"
	"github.com/diwan-maarifa/diwan-backend/internal/middleware"
	"github.com/diwan-maarifa/diwan-backend/pkg/jwt"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

// Handlers groups the HTTP handlers mounted under /api/v1
type Handlers struct {
	Content    *handler.ContentHandler
	Review     *handler.ReviewHandler
	Category   *handler.CategoryHandler
	Attachment *handler.AttachmentHandler
}

// Setup configures all API routes. redisClient may be nil, which disables rate limiting.
func Setup(router *gin.Engine, h Handlers, jwtManager *jwt.Manager, redisClient *redis.Client, cfg *config.Config) {
	api := router.Group("/api/v1")

	auth := middleware.JWTAuth(jwtManager)
	writes := func(c *gin.Context) { c.Next() }
	if cfg.RateLimit.Enabled {
		api.Use(middleware.RateLimit(redisClient, middleware.DefaultRateLimitConfig()))

		limit := middleware.DefaultRateLimitConfig()
		limit.RequestsPerMinute = cfg.RateLimit.RequestsPerMinute
		writes = middleware.RateLimitPerUser(redisClient, limit)
	}
	contributor := middleware.RequireRole(domain.RoleContributor)

	content := api.Group("/content")
	content.GET("", h.Content.ListPublished)        // public listing
	content.GET("/search", h.Content.Search)        // public search
	content.GET("/slug/:slug", h.Content.GetBySlug) // public read, counts views
	content.POST("", auth, contributor, writes, h.Content.Create)
	content.GET("/my-submissions", auth, h.Content.MySubmissions)
	content.GET("/:id", auth, h.Content.Get)
	content.PUT("/:id", auth, h.Content.Update)
	content.DELETE("/:id", auth, h.Content.Delete)
	content.POST("/:id/submit", auth, h.Content.Submit)
	content.POST("/:id/reopen", auth, h.Content.Reopen)

	// Publication (admin)
	content.PUT("/:id/publish", auth, middleware.RequireAdmin(), h.Content.Publish)
	content.PUT("/:id/unpublish", auth, middleware.RequireAdmin(), h.Content.Unpublish)
	content.PUT("/:id/published", auth, middleware.RequireAdmin(), h.Content.UpdatePublished)

	reviews := api.Group("/reviews", auth)
	reviews.GET("/pending", middleware.RequireReviewer(), h.Review.Pending)
	reviews.GET("/:id", h.Review.History)
	reviews.POST("/:id", middleware.RequireReviewer(), h.Review.Review)
	reviews.POST("/:id/approve", middleware.RequireReviewer(), h.Review.Approve)
	reviews.POST("/:id/reject", middleware.RequireReviewer(), h.Review.Reject)

	categories := api.Group("/categories")
	categories.GET("", h.Category.List)
	categories.GET("/:slug", h.Category.GetBySlug)

	attachments := api.Group("/attachments", auth, contributor)
	attachments.POST("", writes, h.Attachment.Upload)
	attachments.POST("/link", h.Attachment.Link)
}
