package inbox

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"messenger/internal/app/message"
)

// Interface compliance with the pipeline's invalidation hook.
var _ message.ConversationInvalidator = (Service)(nil)

type fakeRepo struct {
	mu       sync.Mutex
	messages []*message.Message
	queries  int
}

func (f *fakeRepo) add(m *message.Message) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.messages = append(f.messages, m)
}

func (f *fakeRepo) UnreadCount(_ context.Context, userID uint64) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var count int64
	for _, m := range f.messages {
		if m.ReceiverID == userID && !m.Read {
			count++
		}
	}
	return count, nil
}

func (f *fakeRepo) UnreadMessages(_ context.Context, userID uint64) ([]*message.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*message.Message
	for _, m := range f.messages {
		if m.ReceiverID == userID && !m.Read {
			out = append(out, m)
		}
	}
	return out, nil
}

// MessagesInvolving returns newest first, matching the store query.
func (f *fakeRepo) MessagesInvolving(_ context.Context, userID uint64) ([]*message.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.queries++
	var out []*message.Message
	for i := len(f.messages) - 1; i >= 0; i-- {
		m := f.messages[i]
		if m.SenderID == userID || m.ReceiverID == userID {
			out = append(out, m)
		}
	}
	return out, nil
}

func (f *fakeRepo) ConversationWith(_ context.Context, userID, partnerID uint64) ([]*message.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*message.Message
	for _, m := range f.messages {
		if (m.SenderID == userID && m.ReceiverID == partnerID) ||
			(m.SenderID == partnerID && m.ReceiverID == userID) {
			out = append(out, m)
		}
	}
	return out, nil
}

func (f *fakeRepo) MarkConversationRead(_ context.Context, userID, partnerID uint64) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var affected int64
	for _, m := range f.messages {
		if m.ReceiverID == userID && m.SenderID == partnerID && !m.Read {
			m.Read = true
			affected++
		}
	}
	return affected, nil
}

type fakeCache struct {
	mu      sync.Mutex
	entries map[string]string
	failing bool
}

func newFakeCache() *fakeCache {
	return &fakeCache{entries: make(map[string]string)}
}

func (f *fakeCache) Get(_ context.Context, key string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failing {
		return "", errors.New("cache down")
	}
	return f.entries[key], nil
}

func (f *fakeCache) Set(_ context.Context, key string, value interface{}, _ time.Duration) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failing {
		return errors.New("cache down")
	}
	switch v := value.(type) {
	case []byte:
		f.entries[key] = string(v)
	case string:
		f.entries[key] = v
	}
	return nil
}

func (f *fakeCache) Del(_ context.Context, keys ...string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failing {
		return errors.New("cache down")
	}
	for _, key := range keys {
		delete(f.entries, key)
	}
	return nil
}

const (
	userA = uint64(1)
	userB = uint64(2)
	userC = uint64(3)
)

func msg(id, sender, receiver uint64, content string, read bool) *message.Message {
	return &message.Message{
		ID:         id,
		SenderID:   sender,
		ReceiverID: receiver,
		Content:    content,
		CreatedAt:  time.Date(2025, 1, 1, 0, 0, int(id), 0, time.UTC),
		Read:       read,
	}
}

func newTestService(t *testing.T) (Service, *fakeRepo, *fakeCache) {
	t.Helper()
	repo := &fakeRepo{}
	cache := newFakeCache()
	svc := NewService(repo, cache, zap.NewNop(), time.Minute)
	return svc, repo, cache
}

func TestUnreadCount(t *testing.T) {
	svc, repo, _ := newTestService(t)
	repo.add(msg(1, userA, userB, "hi", false))
	repo.add(msg(2, userA, userB, "there", false))
	repo.add(msg(3, userA, userB, "seen", true))
	repo.add(msg(4, userB, userA, "reply", false))

	count, err := svc.UnreadCount(context.Background(), userB)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)
}

func TestUnreadMessages_OnlyUnreadForReceiver(t *testing.T) {
	svc, repo, _ := newTestService(t)
	repo.add(msg(1, userA, userB, "unread", false))
	repo.add(msg(2, userA, userB, "read", true))
	repo.add(msg(3, userB, userA, "outgoing", false))

	unread, err := svc.UnreadMessages(context.Background(), userB)
	require.NoError(t, err)
	require.Len(t, unread, 1)
	assert.Equal(t, uint64(1), unread[0].ID)
}

func TestConversations_GroupsByPartner(t *testing.T) {
	svc, repo, _ := newTestService(t)
	repo.add(msg(1, userA, userB, "a->b old", false))
	repo.add(msg(2, userC, userB, "c->b", false))
	repo.add(msg(3, userB, userA, "b->a", true))
	repo.add(msg(4, userA, userB, "a->b new", false))

	conversations, err := svc.Conversations(context.Background(), userB)
	require.NoError(t, err)
	require.Len(t, conversations, 2)

	// Most recent conversation first.
	assert.Equal(t, userA, conversations[0].PartnerID)
	assert.Equal(t, uint64(4), conversations[0].LastMessage.ID)
	assert.Equal(t, int64(2), conversations[0].UnreadCount)

	assert.Equal(t, userC, conversations[1].PartnerID)
	assert.Equal(t, int64(1), conversations[1].UnreadCount)
}

func TestConversations_ServedFromCacheUntilInvalidated(t *testing.T) {
	svc, repo, _ := newTestService(t)
	repo.add(msg(1, userA, userB, "hi", false))

	_, err := svc.Conversations(context.Background(), userB)
	require.NoError(t, err)
	assert.Equal(t, 1, repo.queries)

	_, err = svc.Conversations(context.Background(), userB)
	require.NoError(t, err)
	assert.Equal(t, 1, repo.queries, "second read should hit the cache")

	svc.InvalidateUser(context.Background(), userB)

	_, err = svc.Conversations(context.Background(), userB)
	require.NoError(t, err)
	assert.Equal(t, 2, repo.queries, "invalidation forces a recompute")
}

func TestConversations_WriteInvalidationIsVisible(t *testing.T) {
	svc, repo, _ := newTestService(t)
	repo.add(msg(1, userA, userB, "hi", false))

	first, err := svc.Conversations(context.Background(), userB)
	require.NoError(t, err)
	require.Len(t, first, 1)
	assert.Equal(t, uint64(1), first[0].LastMessage.ID)

	// A new message for B arrives; the pipeline invalidates B's entry.
	repo.add(msg(2, userA, userB, "news", false))
	svc.InvalidateUser(context.Background(), userB)

	second, err := svc.Conversations(context.Background(), userB)
	require.NoError(t, err)
	require.Len(t, second, 1)
	assert.Equal(t, uint64(2), second[0].LastMessage.ID, "no stale cache survives a write")
	assert.Equal(t, int64(2), second[0].UnreadCount)
}

func TestConversations_CacheFailureDegradesToLive(t *testing.T) {
	svc, repo, cache := newTestService(t)
	repo.add(msg(1, userA, userB, "hi", false))
	cache.failing = true

	conversations, err := svc.Conversations(context.Background(), userB)
	require.NoError(t, err)
	require.Len(t, conversations, 1)

	_, err = svc.Conversations(context.Background(), userB)
	require.NoError(t, err)
	assert.Equal(t, 2, repo.queries, "every read computes live while the cache is down")
}

func TestMarkConversationRead_InvalidatesListing(t *testing.T) {
	svc, repo, cache := newTestService(t)
	repo.add(msg(1, userA, userB, "hi", false))

	_, err := svc.Conversations(context.Background(), userB)
	require.NoError(t, err)
	require.NotEmpty(t, cache.entries)

	require.NoError(t, svc.MarkConversationRead(context.Background(), userB, userA))
	assert.Empty(t, cache.entries)

	conversations, err := svc.Conversations(context.Background(), userB)
	require.NoError(t, err)
	require.Len(t, conversations, 1)
	assert.Equal(t, int64(0), conversations[0].UnreadCount)
}

func TestMarkConversationRead_NoUnreadKeepsCache(t *testing.T) {
	svc, repo, cache := newTestService(t)
	repo.add(msg(1, userA, userB, "hi", true))

	_, err := svc.Conversations(context.Background(), userB)
	require.NoError(t, err)
	require.NotEmpty(t, cache.entries)

	require.NoError(t, svc.MarkConversationRead(context.Background(), userB, userA))
	assert.NotEmpty(t, cache.entries, "nothing changed, nothing to invalidate")
}
