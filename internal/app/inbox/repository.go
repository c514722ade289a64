package inbox

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"messenger/internal/apperrors"
	"messenger/internal/app/message"
)

type Repository interface {
	UnreadCount(ctx context.Context, userID uint64) (int64, error)
	UnreadMessages(ctx context.Context, userID uint64) ([]*message.Message, error)
	MessagesInvolving(ctx context.Context, userID uint64) ([]*message.Message, error)
	ConversationWith(ctx context.Context, userID, partnerID uint64) ([]*message.Message, error)
	MarkConversationRead(ctx context.Context, userID, partnerID uint64) (int64, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func storeErr(err error) error {
	return fmt.Errorf("%w: %v", apperrors.ErrStoreUnavailable, err)
}

func (r *repository) UnreadCount(ctx context.Context, userID uint64) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&message.Message{}).
		Where("receiver_id = ? AND read = ?", userID, false).
		Count(&count).Error
	if err != nil {
		return 0, storeErr(err)
	}
	return count, nil
}

func (r *repository) UnreadMessages(ctx context.Context, userID uint64) ([]*message.Message, error) {
	var messages []*message.Message
	err := r.db.WithContext(ctx).
		Where("receiver_id = ? AND read = ?", userID, false).
		Order("created_at DESC").
		Find(&messages).Error
	if err != nil {
		return nil, storeErr(err)
	}
	return messages, nil
}

func (r *repository) MessagesInvolving(ctx context.Context, userID uint64) ([]*message.Message, error) {
	var messages []*message.Message
	err := r.db.WithContext(ctx).
		Where("sender_id = ? OR receiver_id = ?", userID, userID).
		Order("created_at DESC").
		Find(&messages).Error
	if err != nil {
		return nil, storeErr(err)
	}
	return messages, nil
}

func (r *repository) ConversationWith(ctx context.Context, userID, partnerID uint64) ([]*message.Message, error) {
	var messages []*message.Message
	err := r.db.WithContext(ctx).
		Where("(sender_id = ? AND receiver_id = ?) OR (sender_id = ? AND receiver_id = ?)",
			userID, partnerID, partnerID, userID).
		Order("created_at ASC").
		Find(&messages).Error
	if err != nil {
		return nil, storeErr(err)
	}
	return messages, nil
}

func (r *repository) MarkConversationRead(ctx context.Context, userID, partnerID uint64) (int64, error) {
	result := r.db.WithContext(ctx).Model(&message.Message{}).
		Where("receiver_id = ? AND sender_id = ? AND read = ?", userID, partnerID, false).
		Update("read", true)
	if result.Error != nil {
		return 0, storeErr(result.Error)
	}
	return result.RowsAffected, nil
}
