package message

import "github.com/gin-gonic/gin"

// RegisterRoutes wires the message endpoints. writeGuards (rate limiting,
// access windows) apply to mutating routes only.
func RegisterRoutes(rg *gin.RouterGroup, handler Handler, writeGuards ...gin.HandlerFunc) {
	messages := rg.Group("/messages")

	writes := messages.Group("")
	writes.Use(writeGuards...)
	{
		writes.POST("", handler.SendMessage)
		writes.PATCH("/:id", handler.EditMessage)
		writes.DELETE("/:id", handler.DeleteMessage)
	}

	messages.GET("/:id", handler.GetMessageByID)
	messages.GET("/:id/thread", handler.GetThread)
	messages.GET("/:id/history", handler.GetHistory)
}
