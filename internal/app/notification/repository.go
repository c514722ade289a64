package notification

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"messenger/internal/apperrors"
	"messenger/internal/app/message"
)

type Repository interface {
	ListForUser(ctx context.Context, userID uint64) ([]*message.Notification, error)
	MarkRead(ctx context.Context, userID uint64, ids []uint64) (int64, error)
	UnreadCount(ctx context.Context, userID uint64) (int64, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) ListForUser(ctx context.Context, userID uint64) ([]*message.Notification, error) {
	var notifications []*message.Notification
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&notifications).Error
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrStoreUnavailable, err)
	}
	return notifications, nil
}

// MarkRead only touches rows owned by userID; ids belonging to someone
// else are silently skipped.
func (r *repository) MarkRead(ctx context.Context, userID uint64, ids []uint64) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	result := r.db.WithContext(ctx).Model(&message.Notification{}).
		Where("user_id = ? AND id IN ?", userID, ids).
		Update("read", true)
	if result.Error != nil {
		return 0, fmt.Errorf("%w: %v", apperrors.ErrStoreUnavailable, result.Error)
	}
	return result.RowsAffected, nil
}

func (r *repository) UnreadCount(ctx context.Context, userID uint64) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&message.Notification{}).
		Where("user_id = ? AND read = ?", userID, false).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("%w: %v", apperrors.ErrStoreUnavailable, err)
	}
	return count, nil
}
