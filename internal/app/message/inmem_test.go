package message

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"messenger/internal/apperrors"
)

// memRepo is an in-memory Repository used by the service tests. It
// mirrors the store's transactional semantics: create-with-notification
// and edit-with-history are applied atomically under one lock.
type memRepo struct {
	mu            sync.Mutex
	nextID        uint64
	now           time.Time
	messages      map[uint64]*Message
	notifications map[uint64]*Notification
	history       map[uint64]*MessageHistory
}

func newMemRepo() *memRepo {
	return &memRepo{
		now:           time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		messages:      make(map[uint64]*Message),
		notifications: make(map[uint64]*Notification),
		history:       make(map[uint64]*MessageHistory),
	}
}

func (r *memRepo) tick() time.Time {
	r.now = r.now.Add(time.Second)
	return r.now
}

func (r *memRepo) CreateMessage(_ context.Context, senderID, receiverID uint64, content string, parentID *uint64) (*Message, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.nextID++
	msg := &Message{
		ID:         r.nextID,
		SenderID:   senderID,
		ReceiverID: receiverID,
		Content:    content,
		CreatedAt:  r.tick(),
		ParentID:   parentID,
	}
	r.messages[msg.ID] = msg

	if senderID != receiverID {
		r.nextID++
		r.notifications[r.nextID] = &Notification{
			ID:        r.nextID,
			UserID:    receiverID,
			MessageID: msg.ID,
			CreatedAt: msg.CreatedAt,
		}
	}
	return msg, nil
}

func (r *memRepo) UpdateMessageContent(_ context.Context, id uint64, newContent string, editorID uint64) (*Message, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	msg, ok := r.messages[id]
	if !ok {
		return nil, false, fmt.Errorf("%w: message %d", apperrors.ErrNotFound, id)
	}
	if msg.Content == newContent {
		return msg, false, nil
	}

	r.nextID++
	r.history[r.nextID] = &MessageHistory{
		ID:         r.nextID,
		MessageID:  msg.ID,
		OldContent: msg.Content,
		EditedAt:   r.tick(),
		EditedByID: editorID,
	}
	msg.Content = newContent
	msg.Edited = true
	return msg, true, nil
}

func (r *memRepo) GetMessageByID(_ context.Context, id uint64) (*Message, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	msg, ok := r.messages[id]
	if !ok {
		return nil, fmt.Errorf("%w: message %d", apperrors.ErrNotFound, id)
	}
	return msg, nil
}

func (r *memRepo) GetRepliesTo(_ context.Context, parentIDs []uint64) ([]*Message, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	wanted := make(map[uint64]bool, len(parentIDs))
	for _, id := range parentIDs {
		wanted[id] = true
	}

	var replies []*Message
	for _, msg := range r.messages {
		if msg.ParentID != nil && wanted[*msg.ParentID] {
			replies = append(replies, msg)
		}
	}
	sort.Slice(replies, func(i, j int) bool {
		return replies[i].CreatedAt.Before(replies[j].CreatedAt)
	})
	return replies, nil
}

func (r *memRepo) GetHistoryByMessageID(_ context.Context, messageID uint64) ([]*MessageHistory, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var history []*MessageHistory
	for _, h := range r.history {
		if h.MessageID == messageID {
			history = append(history, h)
		}
	}
	sort.Slice(history, func(i, j int) bool {
		return history[i].EditedAt.After(history[j].EditedAt)
	})
	return history, nil
}

func (r *memRepo) DeleteMessage(_ context.Context, id uint64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for nid, n := range r.notifications {
		if n.MessageID == id {
			delete(r.notifications, nid)
		}
	}
	for hid, h := range r.history {
		if h.MessageID == id {
			delete(r.history, hid)
		}
	}
	for _, msg := range r.messages {
		if msg.ParentID != nil && *msg.ParentID == id {
			msg.ParentID = nil
		}
	}
	delete(r.messages, id)
	return nil
}

func (r *memRepo) DeleteUserData(_ context.Context, userID uint64) ([]uint64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	doomed := make(map[uint64]bool)
	partnerSet := make(map[uint64]bool)
	for id, msg := range r.messages {
		if msg.SenderID != userID && msg.ReceiverID != userID {
			continue
		}
		partner := msg.SenderID
		if partner == userID {
			partner = msg.ReceiverID
		}
		if partner != userID {
			partnerSet[partner] = true
		}
		if msg.SenderID == userID {
			doomed[id] = true
		}
	}

	for nid, n := range r.notifications {
		if n.UserID == userID || doomed[n.MessageID] {
			delete(r.notifications, nid)
		}
	}
	for hid, h := range r.history {
		if h.EditedByID == userID || doomed[h.MessageID] {
			delete(r.history, hid)
		}
	}
	for _, msg := range r.messages {
		if msg.ParentID != nil && doomed[*msg.ParentID] {
			msg.ParentID = nil
		}
	}
	for id := range doomed {
		delete(r.messages, id)
	}

	partners := make([]uint64, 0, len(partnerSet))
	for p := range partnerSet {
		partners = append(partners, p)
	}
	sort.Slice(partners, func(i, j int) bool { return partners[i] < partners[j] })
	return partners, nil
}

// notificationsFor and historyFor are assertion helpers.
func (r *memRepo) notificationsFor(userID uint64) []*Notification {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []*Notification
	for _, n := range r.notifications {
		if n.UserID == userID {
			out = append(out, n)
		}
	}
	return out
}

func (r *memRepo) historyFor(messageID uint64) []*MessageHistory {
	out, _ := r.GetHistoryByMessageID(context.Background(), messageID)
	return out
}

// setParent rewires a stored message's parent directly, bypassing the
// service, to simulate corrupted data.
func (r *memRepo) setParent(id uint64, parentID *uint64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.messages[id].ParentID = parentID
}
