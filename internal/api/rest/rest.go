package rest

import (
	"github.com/gin-gonic/gin"

	"github.com/feral-file/ff-event-feed/internal/api/middleware"
)

// SetupRoutes configures all REST API routes
func SetupRoutes(router *gin.Engine, handler Handler, authCfg middleware.AuthConfig) {
	// Health check endpoint (no auth, no version prefix)
	router.GET("/health", handler.HealthCheck)

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		// Feed reads (anonymous callers only see public feeds)
		v1.GET("/feeds/:feed_id", middleware.OptionalAuth(authCfg), handler.GetFeed)

		// Membership writes come from the social graph services (requires API key)
		v1.PUT("/feeds/:feed_id/events/:event_id", middleware.APIKeyAuth(authCfg), handler.AddFeedEvent)
		v1.DELETE("/feeds/:feed_id/events/:event_id", middleware.APIKeyAuth(authCfg), handler.RemoveFeedEvent)

		// Event authoring (users create their own events, services any)
		v1.POST("/events", middleware.Auth(authCfg), handler.CreateEvent)

		// Event maintenance (requires API key)
		v1.PATCH("/events/:event_id", middleware.APIKeyAuth(authCfg), handler.UpdateEvent)
		v1.DELETE("/events/:event_id", middleware.APIKeyAuth(authCfg), handler.DeleteEvent)
		v1.PUT("/events/:event_id/visibility", middleware.APIKeyAuth(authCfg), handler.SetEventVisibility)
		v1.POST("/events/:event_id/sync", middleware.APIKeyAuth(authCfg), handler.SyncEvent)

		// Profile of the token subject
		v1.PUT("/users/me", middleware.Auth(authCfg), handler.UpsertCurrentUser)
	}
}
