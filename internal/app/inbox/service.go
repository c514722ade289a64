package inbox

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.uber.org/zap"

	"messenger/internal/app/message"
)

// Cache is the key/value provider backing the conversation listing. A
// miss is an empty string; errors degrade the index to computing live.
type Cache interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Del(ctx context.Context, keys ...string) error
}

type Service interface {
	UnreadCount(ctx context.Context, userID uint64) (int64, error)
	UnreadMessages(ctx context.Context, userID uint64) ([]*message.Message, error)
	Conversations(ctx context.Context, userID uint64) ([]*ConversationSummary, error)
	ConversationWith(ctx context.Context, userID, partnerID uint64) ([]*message.Message, error)
	MarkConversationRead(ctx context.Context, userID, partnerID uint64) error
	InvalidateUser(ctx context.Context, userID uint64)
}

type service struct {
	repo        Repository
	cache       Cache
	logger      *zap.SugaredLogger
	cachePrefix string
	cacheTTL    time.Duration
}

func NewService(repo Repository, cache Cache, logger *zap.Logger, cacheTTL time.Duration) Service {
	return &service{
		repo:        repo,
		cache:       cache,
		logger:      logger.Sugar(),
		cachePrefix: "conversations:user",
		cacheTTL:    cacheTTL,
	}
}

func (s *service) cacheKey(userID uint64) string {
	return fmt.Sprintf("%s:%d", s.cachePrefix, userID)
}

func (s *service) UnreadCount(ctx context.Context, userID uint64) (int64, error) {
	return s.repo.UnreadCount(ctx, userID)
}

func (s *service) UnreadMessages(ctx context.Context, userID uint64) ([]*message.Message, error) {
	return s.repo.UnreadMessages(ctx, userID)
}

// Conversations groups the user's messages by partner, newest first. The
// result is cached per user with a short TTL; every write involving the
// user invalidates the entry, so a hit is never stale relative to the
// user's own conversations.
func (s *service) Conversations(ctx context.Context, userID uint64) ([]*ConversationSummary, error) {
	key := s.cacheKey(userID)

	if s.cache != nil {
		cached, err := s.cache.Get(ctx, key)
		if err != nil {
			s.logger.Warnw("Conversation cache read failed, computing live", "error", err, "user_id", userID)
		} else if cached != "" {
			var summaries []*ConversationSummary
			if json.Unmarshal([]byte(cached), &summaries) == nil {
				return summaries, nil
			}
		}
	}

	messages, err := s.repo.MessagesInvolving(ctx, userID)
	if err != nil {
		return nil, err
	}

	summaries := s.groupByPartner(userID, messages)

	if s.cache != nil && len(summaries) > 0 {
		data, err := json.Marshal(summaries)
		if err != nil {
			s.logger.Warnw("Conversation cache encode failed", "error", err, "user_id", userID)
		} else if err := s.cache.Set(ctx, key, data, s.cacheTTL); err != nil {
			s.logger.Warnw("Conversation cache write failed", "error", err, "user_id", userID)
		}
	}

	return summaries, nil
}

// groupByPartner walks messages ordered newest first, so the first
// message seen for a partner is the conversation's latest and partner
// order follows last-message recency.
func (s *service) groupByPartner(userID uint64, messages []*message.Message) []*ConversationSummary {
	byPartner := make(map[uint64]*ConversationSummary)
	summaries := make([]*ConversationSummary, 0)

	for _, msg := range messages {
		partner := msg.SenderID
		if msg.SenderID == userID {
			partner = msg.ReceiverID
		}

		summary, ok := byPartner[partner]
		if !ok {
			summary = &ConversationSummary{
				PartnerID:   partner,
				LastMessage: msg,
			}
			byPartner[partner] = summary
			summaries = append(summaries, summary)
		}

		if msg.ReceiverID == userID && msg.SenderID == partner && !msg.Read {
			summary.UnreadCount++
		}
	}

	return summaries
}

func (s *service) ConversationWith(ctx context.Context, userID, partnerID uint64) ([]*message.Message, error) {
	return s.repo.ConversationWith(ctx, userID, partnerID)
}

// MarkConversationRead flips the read flag on every unread message from
// the partner and drops the user's cached listing since its unread counts
// just changed.
func (s *service) MarkConversationRead(ctx context.Context, userID, partnerID uint64) error {
	affected, err := s.repo.MarkConversationRead(ctx, userID, partnerID)
	if err != nil {
		return err
	}
	if affected > 0 {
		s.InvalidateUser(ctx, userID)
	}
	return nil
}

// InvalidateUser removes the user's cached conversation listing. Cache
// failures are logged and swallowed; the next read recomputes.
func (s *service) InvalidateUser(ctx context.Context, userID uint64) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Del(ctx, s.cacheKey(userID)); err != nil {
		s.logger.Warnw("Conversation cache invalidation failed", "error", err, "user_id", userID)
	}
}
