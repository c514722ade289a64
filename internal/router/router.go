package router

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"messenger/internal/app/account"
	"messenger/internal/app/health"
	"messenger/internal/app/inbox"
	"messenger/internal/app/message"
	"messenger/internal/app/notification"
	"messenger/internal/app/user"
	"messenger/internal/middleware"
)

type Router struct {
	Engine *gin.Engine
}

func NewRouter(logger *zap.Logger) *Router {
	engine := gin.New()
	engine.Use(middleware.CORSMiddleware())
	engine.Use(middleware.LoggerMiddleware(logger))
	engine.Use(gin.Recovery())
	return &Router{Engine: engine}
}

func (r *Router) RegisterHealthRoutes(handler health.Handler) {
	health.RegisterRoutes(r.Engine.Group("/api"), handler)
}

func (r *Router) RegisterUserRoutes(handler user.Handler) {
	user.RegisterRoutes(r.Engine.Group("/api"), handler)
}

func (r *Router) RegisterMessageRoutes(handler message.Handler, writeGuards ...gin.HandlerFunc) {
	message.RegisterRoutes(r.Engine.Group("/api"), handler, writeGuards...)
}

func (r *Router) RegisterInboxRoutes(handler inbox.Handler) {
	inbox.RegisterRoutes(r.Engine.Group("/api"), handler)
}

func (r *Router) RegisterNotificationRoutes(handler notification.Handler) {
	notification.RegisterRoutes(r.Engine.Group("/api"), handler)
}

func (r *Router) RegisterAccountRoutes(handler account.Handler) {
	account.RegisterRoutes(r.Engine.Group("/api"), handler)
}

func (r *Router) Serve(addr string) error {
	return r.Engine.Run(addr)
}
