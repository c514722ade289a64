package inbox

import "github.com/gin-gonic/gin"

func RegisterRoutes(rg *gin.RouterGroup, handler Handler) {
	inbox := rg.Group("/inbox")
	{
		inbox.GET("/unread", handler.ListUnread)
		inbox.GET("/unread/count", handler.UnreadCount)
	}

	conversations := rg.Group("/conversations")
	{
		conversations.GET("", handler.ListConversations)
		conversations.GET("/:user_id", handler.ConversationDetail)
		conversations.POST("/:user_id/read", handler.MarkConversationRead)
	}
}
