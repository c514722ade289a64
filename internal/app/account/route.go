package account

import "github.com/gin-gonic/gin"

func RegisterRoutes(rg *gin.RouterGroup, handler Handler) {
	rg.DELETE("/account", handler.DeleteAccount)
}
