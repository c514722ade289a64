package account

import (
	"context"
	"time"

	"go.uber.org/zap"

	"messenger/internal/app/message"
	"messenger/internal/utils"
)

type Service interface {
	Purge(ctx context.Context, userID uint64) error
}

type service struct {
	messageRepo message.Repository
	invalidator message.ConversationInvalidator
	eventBus    *utils.EventBus
	logger      *zap.SugaredLogger
}

func NewService(
	messageRepo message.Repository,
	invalidator message.ConversationInvalidator,
	eventBus *utils.EventBus,
	logger *zap.Logger,
) Service {
	return &service{
		messageRepo: messageRepo,
		invalidator: invalidator,
		eventBus:    eventBus,
		logger:      logger.Sugar(),
	}
}

// Purge runs the account cascade and then drops the cached conversation
// listings of the purged user and of every partner whose conversations
// referenced them. Purging an already-absent user is a no-op success.
func (s *service) Purge(ctx context.Context, userID uint64) error {
	partners, err := s.messageRepo.DeleteUserData(ctx, userID)
	if err != nil {
		return err
	}

	if s.invalidator != nil {
		s.invalidator.InvalidateUser(ctx, userID)
		for _, partner := range partners {
			s.invalidator.InvalidateUser(ctx, partner)
		}
	}

	s.logger.Infow("Account purged", "user_id", userID, "affected_partners", len(partners))

	s.eventBus.Publish("account_purged", map[string]interface{}{
		"user_id":   userID,
		"partners":  partners,
		"timestamp": time.Now().UTC().Unix(),
	})

	return nil
}
