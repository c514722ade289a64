package inbox

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"messenger/internal/apperrors"
	"messenger/internal/middleware"
)

type Handler interface {
	ListUnread(c *gin.Context)
	UnreadCount(c *gin.Context)
	ListConversations(c *gin.Context)
	ConversationDetail(c *gin.Context)
	MarkConversationRead(c *gin.Context)
}

type handler struct {
	service Service
}

func NewHandler(service Service) Handler {
	return &handler{service: service}
}

func partnerID(c *gin.Context) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param("user_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user ID"})
		return 0, false
	}
	return id, true
}

func (h *handler) ListUnread(c *gin.Context) {
	actor, ok := middleware.ActorID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "X-User-ID header is required"})
		return
	}

	messages, err := h.service.UnreadMessages(c.Request.Context(), actor)
	if err != nil {
		c.JSON(apperrors.HTTPStatus(err), gin.H{"error": err.Error(), "kind": apperrors.Kind(err)})
		return
	}

	c.JSON(http.StatusOK, gin.H{"messages": messages})
}

func (h *handler) UnreadCount(c *gin.Context) {
	actor, ok := middleware.ActorID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "X-User-ID header is required"})
		return
	}

	count, err := h.service.UnreadCount(c.Request.Context(), actor)
	if err != nil {
		c.JSON(apperrors.HTTPStatus(err), gin.H{"error": err.Error(), "kind": apperrors.Kind(err)})
		return
	}

	c.JSON(http.StatusOK, gin.H{"count": count})
}

func (h *handler) ListConversations(c *gin.Context) {
	actor, ok := middleware.ActorID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "X-User-ID header is required"})
		return
	}

	conversations, err := h.service.Conversations(c.Request.Context(), actor)
	if err != nil {
		c.JSON(apperrors.HTTPStatus(err), gin.H{"error": err.Error(), "kind": apperrors.Kind(err)})
		return
	}

	count, err := h.service.UnreadCount(c.Request.Context(), actor)
	if err != nil {
		c.JSON(apperrors.HTTPStatus(err), gin.H{"error": err.Error(), "kind": apperrors.Kind(err)})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"conversations": conversations,
		"unread_count":  count,
	})
}

func (h *handler) ConversationDetail(c *gin.Context) {
	actor, ok := middleware.ActorID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "X-User-ID header is required"})
		return
	}

	partner, ok := partnerID(c)
	if !ok {
		return
	}

	messages, err := h.service.ConversationWith(c.Request.Context(), actor, partner)
	if err != nil {
		c.JSON(apperrors.HTTPStatus(err), gin.H{"error": err.Error(), "kind": apperrors.Kind(err)})
		return
	}

	// Viewing a conversation marks the partner's messages as read.
	if err := h.service.MarkConversationRead(c.Request.Context(), actor, partner); err != nil {
		c.JSON(apperrors.HTTPStatus(err), gin.H{"error": err.Error(), "kind": apperrors.Kind(err)})
		return
	}

	c.JSON(http.StatusOK, gin.H{"messages": messages})
}

func (h *handler) MarkConversationRead(c *gin.Context) {
	actor, ok := middleware.ActorID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "X-User-ID header is required"})
		return
	}

	partner, ok := partnerID(c)
	if !ok {
		return
	}

	if err := h.service.MarkConversationRead(c.Request.Context(), actor, partner); err != nil {
		c.JSON(apperrors.HTTPStatus(err), gin.H{"error": err.Error(), "kind": apperrors.Kind(err)})
		return
	}

	c.Status(http.StatusNoContent)
}
