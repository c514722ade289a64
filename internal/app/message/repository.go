package message

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"messenger/internal/apperrors"
	"messenger/internal/app/user"
)

type Repository interface {
	CreateMessage(ctx context.Context, senderID, receiverID uint64, content string, parentID *uint64) (*Message, error)
	UpdateMessageContent(ctx context.Context, id uint64, newContent string, editorID uint64) (*Message, bool, error)
	GetMessageByID(ctx context.Context, id uint64) (*Message, error)
	GetRepliesTo(ctx context.Context, parentIDs []uint64) ([]*Message, error)
	GetHistoryByMessageID(ctx context.Context, messageID uint64) ([]*MessageHistory, error)
	DeleteMessage(ctx context.Context, id uint64) error
	DeleteUserData(ctx context.Context, userID uint64) ([]uint64, error)
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

// CreateMessage inserts the message and, unless the sender messages
// themselves, the receiver's notification in one transaction. Either both
// rows commit or neither does.
func (r *repository) CreateMessage(
	ctx context.Context,
	senderID uint64,
	receiverID uint64,
	content string,
	parentID *uint64,
) (*Message, error) {
	message := &Message{
		SenderID:   senderID,
		ReceiverID: receiverID,
		Content:    content,
		ParentID:   parentID,
		CreatedAt:  time.Now().UTC(),
	}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(message).Error; err != nil {
			return err
		}
		if senderID != receiverID {
			notification := &Notification{
				UserID:    receiverID,
				MessageID: message.ID,
				CreatedAt: message.CreatedAt,
			}
			if err := tx.Create(notification).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, storeErr(err)
	}
	return message, nil
}

// UpdateMessageContent locks the row, snapshots the prior content into a
// history row, and applies the new content as one transaction. Concurrent
// edits of the same message serialize on the row lock, so no two edits can
// capture the same prior content. An edit that does not change the content
// writes nothing. The returned flag reports whether the transaction wrote;
// it is decided against the locked row, not any earlier read.
func (r *repository) UpdateMessageContent(
	ctx context.Context,
	id uint64,
	newContent string,
	editorID uint64,
) (*Message, bool, error) {
	var message Message
	var changed bool

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ?", id).
			First(&message).Error
		if err != nil {
			return err
		}

		if message.Content == newContent {
			return nil
		}
		changed = true

		history := &MessageHistory{
			MessageID:  message.ID,
			OldContent: message.Content,
			EditedAt:   time.Now().UTC(),
			EditedByID: editorID,
		}
		if err := tx.Create(history).Error; err != nil {
			return err
		}

		err = tx.Model(&Message{}).
			Where("id = ?", id).
			Updates(map[string]interface{}{
				"content": newContent,
				"edited":  true,
			}).Error
		if err != nil {
			return err
		}

		message.Content = newContent
		message.Edited = true
		return nil
	})
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, fmt.Errorf("%w: message %d", apperrors.ErrNotFound, id)
	}
	if err != nil {
		return nil, false, storeErr(err)
	}
	return &message, changed, nil
}

func (r *repository) GetMessageByID(ctx context.Context, id uint64) (*Message, error) {
	var message Message
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&message).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: message %d", apperrors.ErrNotFound, id)
	}
	if err != nil {
		return nil, storeErr(err)
	}
	return &message, nil
}

func (r *repository) GetRepliesTo(ctx context.Context, parentIDs []uint64) ([]*Message, error) {
	if len(parentIDs) == 0 {
		return nil, nil
	}
	var replies []*Message
	err := r.db.WithContext(ctx).
		Where("parent_id IN ?", parentIDs).
		Order("created_at ASC").
		Find(&replies).Error
	if err != nil {
		return nil, storeErr(err)
	}
	return replies, nil
}

func (r *repository) GetHistoryByMessageID(ctx context.Context, messageID uint64) ([]*MessageHistory, error) {
	var history []*MessageHistory
	err := r.db.WithContext(ctx).
		Where("message_id = ?", messageID).
		Order("edited_at DESC").
		Find(&history).Error
	if err != nil {
		return nil, storeErr(err)
	}
	return history, nil
}

// DeleteMessage removes a message together with its notifications and
// history. Replies from other users survive with their parent reference
// cleared.
func (r *repository) DeleteMessage(ctx context.Context, id uint64) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("message_id = ?", id).Delete(&Notification{}).Error; err != nil {
			return err
		}
		if err := tx.Where("message_id = ?", id).Delete(&MessageHistory{}).Error; err != nil {
			return err
		}
		err := tx.Model(&Message{}).
			Where("parent_id = ?", id).
			Update("parent_id", nil).Error
		if err != nil {
			return err
		}
		return tx.Where("id = ?", id).Delete(&Message{}).Error
	})
	if err != nil {
		return storeErr(err)
	}
	return nil
}

// DeleteUserData runs the full account cascade in one transaction: every
// message the user sent, the notifications addressed to the user or
// referencing those messages, the history rows for those messages or
// authored by the user, and finally the user row itself. Messages other
// users sent survive even when the purged user was the receiver (sender
// refs own the message, receiver refs are weak); surviving replies to
// deleted messages keep their rows with parent_id cleared. Returns the
// distinct conversation partners affected so callers can invalidate
// their caches.
func (r *repository) DeleteUserData(ctx context.Context, userID uint64) ([]uint64, error) {
	var partners []uint64

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var messageIDs []uint64
		err := tx.Model(&Message{}).
			Where("sender_id = ?", userID).
			Pluck("id", &messageIDs).Error
		if err != nil {
			return err
		}

		err = tx.Model(&Message{}).
			Select("DISTINCT CASE WHEN sender_id = ? THEN receiver_id ELSE sender_id END", userID).
			Where("sender_id = ? OR receiver_id = ?", userID, userID).
			Scan(&partners).Error
		if err != nil {
			return err
		}

		if err := tx.Where("user_id = ?", userID).Delete(&Notification{}).Error; err != nil {
			return err
		}
		if err := tx.Where("edited_by_id = ?", userID).Delete(&MessageHistory{}).Error; err != nil {
			return err
		}

		if len(messageIDs) > 0 {
			if err := tx.Where("message_id IN ?", messageIDs).Delete(&Notification{}).Error; err != nil {
				return err
			}
			if err := tx.Where("message_id IN ?", messageIDs).Delete(&MessageHistory{}).Error; err != nil {
				return err
			}
			err = tx.Model(&Message{}).
				Where("parent_id IN ?", messageIDs).
				Update("parent_id", nil).Error
			if err != nil {
				return err
			}
			if err := tx.Where("id IN ?", messageIDs).Delete(&Message{}).Error; err != nil {
				return err
			}
		}

		return tx.Where("id = ?", userID).Delete(&user.User{}).Error
	})
	if err != nil {
		return nil, storeErr(err)
	}

	filtered := partners[:0]
	for _, p := range partners {
		if p != userID {
			filtered = append(filtered, p)
		}
	}
	return filtered, nil
}
