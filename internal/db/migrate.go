package db

import (
	"messenger/internal/app/message"
	"messenger/internal/app/user"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

func Migrate(db *gorm.DB, logger *zap.Logger) error {
	logger.Info("Running database migrations...")

	err := db.AutoMigrate(
		&user.User{},
		&message.Message{},
		&message.Notification{},
		&message.MessageHistory{},
	)
	if err != nil {
		return err
	}

	logger.Info("Database migrations completed")
	return nil
}
