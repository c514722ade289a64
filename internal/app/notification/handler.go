package notification

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"messenger/internal/apperrors"
	"messenger/internal/middleware"
)

type MarkReadRequest struct {
	IDs []uint64 `json:"ids" binding:"required"`
}

type Handler interface {
	ListNotifications(c *gin.Context)
	MarkRead(c *gin.Context)
}

type handler struct {
	service Service
}

func NewHandler(service Service) Handler {
	return &handler{service: service}
}

func (h *handler) ListNotifications(c *gin.Context) {
	actor, ok := middleware.ActorID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "X-User-ID header is required"})
		return
	}

	notifications, err := h.service.ListForUser(c.Request.Context(), actor)
	if err != nil {
		c.JSON(apperrors.HTTPStatus(err), gin.H{"error": err.Error(), "kind": apperrors.Kind(err)})
		return
	}

	unread, err := h.service.UnreadCount(c.Request.Context(), actor)
	if err != nil {
		c.JSON(apperrors.HTTPStatus(err), gin.H{"error": err.Error(), "kind": apperrors.Kind(err)})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"notifications": notifications,
		"unread_count":  unread,
	})
}

func (h *handler) MarkRead(c *gin.Context) {
	actor, ok := middleware.ActorID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "X-User-ID header is required"})
		return
	}

	var req MarkReadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	updated, err := h.service.MarkRead(c.Request.Context(), actor, req.IDs)
	if err != nil {
		c.JSON(apperrors.HTTPStatus(err), gin.H{"error": err.Error(), "kind": apperrors.Kind(err)})
		return
	}

	c.JSON(http.StatusOK, gin.H{"updated": updated})
}
