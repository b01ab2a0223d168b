package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"keepsafe/internal/common"
	"keepsafe/internal/logging"
	"keepsafe/internal/server/models"
	"keepsafe/internal/server/services"
)

// Handler bundles the request handlers over the service layer.
type Handler struct {
	users         *services.UserService
	entries       *services.EntryService
	notifications *services.NotificationService
	log           logging.Logger
}

func NewHandler(users *services.UserService, entries *services.EntryService, notifications *services.NotificationService, log logging.Logger) *Handler {
	return &Handler{
		users:         users,
		entries:       entries,
		notifications: notifications,
		log:           log,
	}
}

func (h *Handler) writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, common.ErrUnauthorized):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
	case errors.Is(err, common.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	default:
		h.log.Error(c.Request.Context(), "request failed", "path", c.FullPath(), "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

type credentialsRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func (h *Handler) Register(c *gin.Context) {
	var req credentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	token, err := h.users.Register(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"access_token": token})
}

func (h *Handler) Login(c *gin.Context) {
	var req credentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	token, err := h.users.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"access_token": token})
}

func (h *Handler) CreateEntry(c *gin.Context) {
	var payload entryPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	entry := payload.toModel(currentUserID(c))
	created, err := h.entries.CreateEntry(c.Request.Context(), entry)
	if err != nil {
		h.writeError(c, err)
		return
	}

	h.notifications.EnqueueForEntry(c.Request.Context(), created)

	c.JSON(http.StatusOK, entryToPayload(created))
}

func (h *Handler) ListEntries(c *gin.Context) {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "100"))
	if err != nil || limit < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid limit"})
		return
	}

	entries, err := h.entries.ListEntries(c.Request.Context(), currentUserID(c), limit)
	if err != nil {
		h.writeError(c, err)
		return
	}

	out := make([]*entryPayload, 0, len(entries))
	for _, e := range entries {
		out = append(out, entryToPayload(e))
	}
	c.JSON(http.StatusOK, out)
}

type presignRequest struct {
	Key         string `json:"key" binding:"required"`
	ContentType string `json:"content_type" binding:"required"`
}

func (h *Handler) PresignUpload(c *gin.Context) {
	var req presignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	uploadURL, publicURL, err := h.entries.GetPresignedPutURL(c.Request.Context(), req.Key, req.ContentType)
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"upload_url": uploadURL, "public_url": publicURL})
}

type reactionRequest struct {
	Type string `json:"reaction_type" binding:"required"`
}

func (h *Handler) React(c *gin.Context) {
	var req reactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	reaction, err := h.entries.React(c.Request.Context(), c.Param("id"), currentUserID(c), req.Type)
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, reactionToPayload(reaction))
}

func (h *Handler) ListReactions(c *gin.Context) {
	reactions, err := h.entries.ListReactions(c.Request.Context(), c.Param("id"), currentUserID(c))
	if err != nil {
		h.writeError(c, err)
		return
	}

	out := make([]*reactionPayload, 0, len(reactions))
	for _, r := range reactions {
		out = append(out, reactionToPayload(r))
	}
	c.JSON(http.StatusOK, out)
}

type commentRequest struct {
	Content string `json:"content" binding:"required"`
}

func (h *Handler) Comment(c *gin.Context) {
	var req commentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	comment, err := h.entries.Comment(c.Request.Context(), c.Param("id"), currentUserID(c), req.Content)
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, commentToPayload(comment))
}

func (h *Handler) ListComments(c *gin.Context) {
	comments, err := h.entries.ListComments(c.Request.Context(), c.Param("id"), currentUserID(c))
	if err != nil {
		h.writeError(c, err)
		return
	}

	out := make([]*commentPayload, 0, len(comments))
	for _, cm := range comments {
		out = append(out, commentToPayload(cm))
	}
	c.JSON(http.StatusOK, out)
}

type friendRequest struct {
	FriendID string `json:"friend_id" binding:"required"`
}

func (h *Handler) AddFriend(c *gin.Context) {
	var req friendRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.entries.AddFriend(c.Request.Context(), currentUserID(c), req.FriendID); err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *Handler) ListFriends(c *gin.Context) {
	friends, err := h.entries.ListFriends(c.Request.Context(), currentUserID(c))
	if err != nil {
		h.writeError(c, err)
		return
	}
	if friends == nil {
		friends = []string{}
	}
	c.JSON(http.StatusOK, gin.H{"friends": friends})
}

type pushTokenRequest struct {
	Token    string `json:"token" binding:"required"`
	Platform string `json:"platform" binding:"required"`
}

func (h *Handler) RegisterPushToken(c *gin.Context) {
	var req pushTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	token := &models.PushToken{
		UserID:   currentUserID(c),
		Token:    req.Token,
		Platform: req.Platform,
	}
	if err := h.notifications.RegisterPushToken(c.Request.Context(), token); err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

type settingsRequest struct {
	EntriesEnabled bool `json:"entries_enabled"`
	SocialEnabled  bool `json:"social_enabled"`
}

func (h *Handler) UpdateNotificationSettings(c *gin.Context) {
	var req settingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	setting := &models.NotificationSetting{
		UserID:         currentUserID(c),
		EntriesEnabled: req.EntriesEnabled,
		SocialEnabled:  req.SocialEnabled,
	}
	if err := h.notifications.UpdateSettings(c.Request.Context(), setting); err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
