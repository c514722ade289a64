package notification

import "github.com/gin-gonic/gin"

func RegisterRoutes(rg *gin.RouterGroup, handler Handler) {
	notifications := rg.Group("/notifications")
	{
		notifications.GET("", handler.ListNotifications)
		notifications.POST("/read", handler.MarkRead)
	}
}
