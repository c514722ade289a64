package app

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"messenger/internal/app/account"
	"messenger/internal/app/health"
	"messenger/internal/app/inbox"
	"messenger/internal/app/message"
	"messenger/internal/app/notification"
	"messenger/internal/app/user"
	"messenger/internal/config"
	"messenger/internal/db"
	"messenger/internal/db/seeder"
	"messenger/internal/middleware"
	"messenger/internal/providers/redis"
	"messenger/internal/router"
	"messenger/internal/utils"
)

type Application struct {
	Router *router.Router
	DB     *gorm.DB
}

func Bootstrap(cfg *config.Config, logger *zap.Logger) (*Application, error) {
	dbConn, err := db.Connect(cfg, logger)
	if err != nil {
		return nil, err
	}

	if err := db.Migrate(dbConn, logger); err != nil {
		return nil, err
	}

	if cfg.Env == "dev" {
		seed := seeder.NewSeeder(dbConn, logger)
		if err := seed.Seed(); err != nil {
			logger.Warn("Failed to run seeders", zap.Error(err))
		}
	}

	redisProvider := redis.NewRedisProvider(cfg.RedisURL, logger, cfg.RedisTTL)
	eventBus := utils.NewEventBus()

	// Audit hook: every mutation event lands in the log until a real
	// delivery channel subscribes.
	go func() {
		for event := range eventBus.SubscribeCh() {
			logger.Debug("Domain event", zap.String("event", event.Event), zap.Any("data", event.Data))
		}
	}()

	userRepo := user.NewRepository(dbConn)
	messageRepo := message.NewRepository(dbConn)
	inboxRepo := inbox.NewRepository(dbConn)
	notificationRepo := notification.NewRepository(dbConn)

	userService := user.NewService(userRepo)
	inboxService := inbox.NewService(inboxRepo, redisProvider, logger, cfg.RedisTTL)
	messageService := message.NewService(messageRepo, userService, inboxService, eventBus, logger, cfg.MaxContentLength)
	notificationService := notification.NewService(notificationRepo)
	accountService := account.NewService(messageRepo, inboxService, eventBus, logger)

	healthHandler := health.NewHandler(&utils.HealthChecker{
		DB:    dbConn,
		Redis: redisProvider.Client,
	})
	userHandler := user.NewHandler(userService)
	messageHandler := message.NewHandler(messageService)
	inboxHandler := inbox.NewHandler(inboxService)
	notificationHandler := notification.NewHandler(notificationService)
	accountHandler := account.NewHandler(accountService)

	rateLimiter := middleware.NewRateLimiter(cfg.RateLimitPerMinute, time.Minute, middleware.RealClock, logger)
	writeGuards := []gin.HandlerFunc{rateLimiter.Middleware()}
	if cfg.AccessWindowEnabled() {
		writeGuards = append(writeGuards,
			middleware.TimeWindowMiddleware(cfg.AccessWindowStart, cfg.AccessWindowEnd, middleware.RealClock))
	}

	r := router.NewRouter(logger)

	r.RegisterHealthRoutes(healthHandler)
	r.RegisterUserRoutes(userHandler)
	r.RegisterMessageRoutes(messageHandler, writeGuards...)
	r.RegisterInboxRoutes(inboxHandler)
	r.RegisterNotificationRoutes(notificationHandler)
	r.RegisterAccountRoutes(accountHandler)

	return &Application{
		Router: r,
		DB:     dbConn,
	}, nil
}
