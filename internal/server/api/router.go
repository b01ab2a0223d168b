package api

import (
	"github.com/gin-gonic/gin"
)

// NewRouter wires the REST routes. Everything under /api except auth
// requires a valid bearer token.
func NewRouter(h *Handler, secretKey []byte) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())

	router.GET("/health", h.Health)
	router.POST("/api/auth/register", h.Register)
	router.POST("/api/auth/login", h.Login)

	authorized := router.Group("/api")
	authorized.Use(Auth(secretKey))

	authorized.POST("/entries", h.CreateEntry)
	authorized.GET("/entries", h.ListEntries)
	authorized.POST("/uploads/presign", h.PresignUpload)

	authorized.GET("/entries/:id/reactions", h.ListReactions)
	authorized.POST("/entries/:id/reactions", h.React)
	authorized.GET("/entries/:id/comments", h.ListComments)
	authorized.POST("/entries/:id/comments", h.Comment)

	authorized.GET("/friends", h.ListFriends)
	authorized.POST("/friends", h.AddFriend)

	authorized.POST("/notifications/tokens", h.RegisterPushToken)
	authorized.PUT("/notifications/settings", h.UpdateNotificationSettings)

	return router
}
