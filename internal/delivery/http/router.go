package http

import (
	"github.com/gin-gonic/gin"

	"github.com/sistersconnect/backend/internal/delivery/http/handler"
	"github.com/sistersconnect/backend/internal/delivery/http/middleware"
)

type Router struct {
	matchHandler       *handler.MatchHandler
	interactionHandler *handler.InteractionHandler
	networkHandler     *handler.NetworkHandler
	profileHandler     *handler.ProfileHandler
	authMiddleware     *middleware.AuthMiddleware
}

func NewRouter(
	matchHandler *handler.MatchHandler,
	interactionHandler *handler.InteractionHandler,
	networkHandler *handler.NetworkHandler,
	profileHandler *handler.ProfileHandler,
	authMiddleware *middleware.AuthMiddleware,
) *Router {
	return &Router{
		matchHandler:       matchHandler,
		interactionHandler: interactionHandler,
		networkHandler:     networkHandler,
		profileHandler:     profileHandler,
		authMiddleware:     authMiddleware,
	}
}

func (r *Router) Setup() *gin.Engine {
	router := gin.Default()

	// Health check (supports both GET and HEAD)
	healthHandler := func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status": "ok",
		})
	}
	router.GET("/health", healthHandler)
	router.HEAD("/health", healthHandler)

	// API v1
	v1 := router.Group("/api/v1")
	{
		protected := v1.Group("")
		protected.Use(r.authMiddleware.RequireAuth())
		{
			// Match routes
			matches := protected.Group("/matches")
			{
				matches.GET("", r.matchHandler.GetMatches)
				matches.GET("/feature/:feature", r.matchHandler.GetFeatureMatches)
				matches.GET("/collaborative", r.matchHandler.GetCollaborative)
				matches.GET("/:user_id/starters", r.matchHandler.GetConversationStarters)
				matches.DELETE("/cache", r.matchHandler.ClearCache)
			}

			// Interaction routes
			interactions := protected.Group("/interactions")
			{
				interactions.POST("", r.interactionHandler.RecordInteraction)
				interactions.GET("/me", r.interactionHandler.GetBehavior)
			}

			// Network routes
			network := protected.Group("/network")
			{
				network.GET("/me", r.networkHandler.GetMyNetwork)
				network.GET("/trust-paths", r.networkHandler.GetTrustPaths)
			}

			// Profile routes
			profile := protected.Group("/profile")
			{
				profile.GET("/me", r.profileHandler.GetMyProfile)
				profile.GET("/:user_id", r.profileHandler.GetProfile)
			}

			// Preference routes
			preferences := protected.Group("/preferences")
			{
				preferences.GET("/me", r.profileHandler.GetMyPreferences)
				preferences.PUT("/me", r.profileHandler.UpdateMyPreferences)
				preferences.POST("/learn", r.matchHandler.LearnPreferences)
			}
		}
	}

	return router
}
