package message

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"messenger/internal/apperrors"
	"messenger/internal/middleware"
)

type Handler interface {
	SendMessage(c *gin.Context)
	EditMessage(c *gin.Context)
	DeleteMessage(c *gin.Context)
	GetMessageByID(c *gin.Context)
	GetThread(c *gin.Context)
	GetHistory(c *gin.Context)
}

type handler struct {
	service Service
}

func NewHandler(service Service) Handler {
	return &handler{service: service}
}

func messageID(c *gin.Context) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid message ID"})
		return 0, false
	}
	return id, true
}

func (h *handler) SendMessage(c *gin.Context) {
	actor, ok := middleware.ActorID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "X-User-ID header is required"})
		return
	}

	var req SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	message, err := h.service.SendMessage(c.Request.Context(), actor, req.ReceiverID, req.Content, req.ParentID)
	if err != nil {
		c.JSON(apperrors.HTTPStatus(err), gin.H{"error": err.Error(), "kind": apperrors.Kind(err)})
		return
	}

	c.JSON(http.StatusCreated, message)
}

func (h *handler) EditMessage(c *gin.Context) {
	actor, ok := middleware.ActorID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "X-User-ID header is required"})
		return
	}

	id, ok := messageID(c)
	if !ok {
		return
	}

	var req EditMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	message, err := h.service.EditMessage(c.Request.Context(), id, actor, req.Content)
	if err != nil {
		c.JSON(apperrors.HTTPStatus(err), gin.H{"error": err.Error(), "kind": apperrors.Kind(err)})
		return
	}

	c.JSON(http.StatusOK, message)
}

func (h *handler) DeleteMessage(c *gin.Context) {
	actor, ok := middleware.ActorID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "X-User-ID header is required"})
		return
	}

	id, ok := messageID(c)
	if !ok {
		return
	}

	if err := h.service.DeleteMessage(c.Request.Context(), id, actor); err != nil {
		c.JSON(apperrors.HTTPStatus(err), gin.H{"error": err.Error(), "kind": apperrors.Kind(err)})
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *handler) GetMessageByID(c *gin.Context) {
	id, ok := messageID(c)
	if !ok {
		return
	}

	message, err := h.service.GetMessageByID(c.Request.Context(), id)
	if err != nil {
		c.JSON(apperrors.HTTPStatus(err), gin.H{"error": err.Error(), "kind": apperrors.Kind(err)})
		return
	}

	c.JSON(http.StatusOK, message)
}

func (h *handler) GetThread(c *gin.Context) {
	id, ok := messageID(c)
	if !ok {
		return
	}

	thread, err := h.service.GetThread(c.Request.Context(), id)
	if err != nil {
		c.JSON(apperrors.HTTPStatus(err), gin.H{"error": err.Error(), "kind": apperrors.Kind(err)})
		return
	}

	c.JSON(http.StatusOK, gin.H{"messages": thread})
}

func (h *handler) GetHistory(c *gin.Context) {
	id, ok := messageID(c)
	if !ok {
		return
	}

	history, err := h.service.GetHistory(c.Request.Context(), id)
	if err != nil {
		c.JSON(apperrors.HTTPStatus(err), gin.H{"error": err.Error(), "kind": apperrors.Kind(err)})
		return
	}

	c.JSON(http.StatusOK, gin.H{"history": history})
}
