package account

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"messenger/internal/apperrors"
	"messenger/internal/middleware"
)

type Handler interface {
	DeleteAccount(c *gin.Context)
}

type handler struct {
	service Service
}

func NewHandler(service Service) Handler {
	return &handler{service: service}
}

func (h *handler) DeleteAccount(c *gin.Context) {
	actor, ok := middleware.ActorID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "X-User-ID header is required"})
		return
	}

	if err := h.service.Purge(c.Request.Context(), actor); err != nil {
		c.JSON(apperrors.HTTPStatus(err), gin.H{"error": err.Error(), "kind": apperrors.Kind(err)})
		return
	}

	c.Status(http.StatusNoContent)
}
