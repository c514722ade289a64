package message

import (
	"context"
	"fmt"
	"time"
	"unicode/utf8"

	"go.uber.org/zap"

	"messenger/internal/apperrors"
	"messenger/internal/app/user"
	"messenger/internal/utils"
)

// ConversationInvalidator drops a user's cached conversation listing.
// Implemented by the inbox service; invoked on every write whose message
// involves the user, before the write returns to the caller.
type ConversationInvalidator interface {
	InvalidateUser(ctx context.Context, userID uint64)
}

type Service interface {
	SendMessage(ctx context.Context, senderID, receiverID uint64, content string, parentID *uint64) (*Message, error)
	EditMessage(ctx context.Context, messageID, editorID uint64, newContent string) (*Message, error)
	DeleteMessage(ctx context.Context, messageID, actorID uint64) error
	GetMessageByID(ctx context.Context, id uint64) (*Message, error)
	GetThread(ctx context.Context, messageID uint64) ([]*Message, error)
	GetHistory(ctx context.Context, messageID uint64) ([]*MessageHistory, error)
}

type service struct {
	repo        Repository
	userSvc     user.Service
	invalidator ConversationInvalidator
	eventBus    *utils.EventBus
	logger      *zap.SugaredLogger
	maxContent  int
}

func NewService(
	repo Repository,
	userSvc user.Service,
	invalidator ConversationInvalidator,
	eventBus *utils.EventBus,
	logger *zap.Logger,
	maxContent int,
) Service {
	return &service{
		repo:        repo,
		userSvc:     userSvc,
		invalidator: invalidator,
		eventBus:    eventBus,
		logger:      logger.Sugar(),
		maxContent:  maxContent,
	}
}

func (s *service) validateContent(content string) error {
	length := utf8.RuneCountInString(content)
	if length < 1 || length > s.maxContent {
		return fmt.Errorf("%w: content must be between 1 and %d characters, got %d",
			apperrors.ErrInvalidContent, s.maxContent, length)
	}
	return nil
}

// SendMessage persists a new message and its derived notification as one
// unit. The self-notification check runs on data known at creation time,
// never re-queried.
func (s *service) SendMessage(
	ctx context.Context,
	senderID uint64,
	receiverID uint64,
	content string,
	parentID *uint64,
) (*Message, error) {
	if err := s.validateContent(content); err != nil {
		return nil, err
	}

	for _, id := range []uint64{senderID, receiverID} {
		exists, err := s.userSvc.Exists(ctx, id)
		if err != nil {
			return nil, err
		}
		if !exists {
			return nil, fmt.Errorf("%w: user %d", apperrors.ErrNotFound, id)
		}
	}

	if parentID != nil {
		if _, err := s.repo.GetMessageByID(ctx, *parentID); err != nil {
			return nil, err
		}
	}

	message, err := s.repo.CreateMessage(ctx, senderID, receiverID, content, parentID)
	if err != nil {
		return nil, err
	}

	s.invalidateParticipants(ctx, message)

	s.eventBus.Publish("message_created", map[string]interface{}{
		"message_id":  message.ID,
		"sender_id":   message.SenderID,
		"receiver_id": message.ReceiverID,
		"timestamp":   time.Now().UTC().Unix(),
	})

	return message, nil
}

// EditMessage applies a content edit through the history-capturing store
// transaction. Ownership is a boundary concern and is checked here, not in
// the repository.
func (s *service) EditMessage(
	ctx context.Context,
	messageID uint64,
	editorID uint64,
	newContent string,
) (*Message, error) {
	if err := s.validateContent(newContent); err != nil {
		return nil, err
	}

	current, err := s.repo.GetMessageByID(ctx, messageID)
	if err != nil {
		return nil, err
	}
	if current.SenderID != editorID {
		return nil, fmt.Errorf("%w: user %d does not own message %d",
			apperrors.ErrPermissionDenied, editorID, messageID)
	}

	// Whether anything was written is decided inside the store transaction
	// against the locked row; the read above is only the ownership gate and
	// may be stale by the time the transaction runs.
	message, changed, err := s.repo.UpdateMessageContent(ctx, messageID, newContent, editorID)
	if err != nil {
		return nil, err
	}

	if changed {
		s.invalidateParticipants(ctx, message)
		s.eventBus.Publish("message_edited", map[string]interface{}{
			"message_id": message.ID,
			"editor_id":  editorID,
			"timestamp":  time.Now().UTC().Unix(),
		})
	}

	return message, nil
}

func (s *service) DeleteMessage(ctx context.Context, messageID, actorID uint64) error {
	message, err := s.repo.GetMessageByID(ctx, messageID)
	if err != nil {
		return err
	}
	if message.SenderID != actorID {
		return fmt.Errorf("%w: user %d does not own message %d",
			apperrors.ErrPermissionDenied, actorID, messageID)
	}

	if err := s.repo.DeleteMessage(ctx, messageID); err != nil {
		return err
	}

	s.invalidateParticipants(ctx, message)

	s.eventBus.Publish("message_deleted", map[string]interface{}{
		"message_id": messageID,
		"actor_id":   actorID,
		"timestamp":  time.Now().UTC().Unix(),
	})

	return nil
}

func (s *service) GetMessageByID(ctx context.Context, id uint64) (*Message, error) {
	return s.repo.GetMessageByID(ctx, id)
}

func (s *service) GetHistory(ctx context.Context, messageID uint64) ([]*MessageHistory, error) {
	if _, err := s.repo.GetMessageByID(ctx, messageID); err != nil {
		return nil, err
	}
	return s.repo.GetHistoryByMessageID(ctx, messageID)
}

func (s *service) invalidateParticipants(ctx context.Context, m *Message) {
	if s.invalidator == nil {
		return
	}
	s.invalidator.InvalidateUser(ctx, m.SenderID)
	if m.ReceiverID != m.SenderID {
		s.invalidator.InvalidateUser(ctx, m.ReceiverID)
	}
}
