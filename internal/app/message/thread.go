package message

import (
	"context"
	"errors"
	"fmt"

	"messenger/internal/apperrors"
)

// GetThread reconstructs the thread containing the given message: the
// root, its direct replies, and replies to those replies. The root is the
// message's parent when it has one, otherwise the message itself. Results
// are deduplicated by id with the root first; chronological order within
// the reply levels follows created_at.
//
// The parent chain is walked with a visited set before collection: a
// revisited id or a missing ancestor means the chain is corrupt and the
// thread cannot be trusted.
func (s *service) GetThread(ctx context.Context, messageID uint64) ([]*Message, error) {
	msg, err := s.repo.GetMessageByID(ctx, messageID)
	if err != nil {
		return nil, err
	}

	root := msg
	visited := map[uint64]bool{msg.ID: true}
	cur := msg
	for cur.ParentID != nil {
		parentID := *cur.ParentID
		if visited[parentID] {
			return nil, fmt.Errorf("%w: parent cycle at message %d", apperrors.ErrThreadCorrupt, parentID)
		}
		parent, err := s.repo.GetMessageByID(ctx, parentID)
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: message %d references missing parent %d",
				apperrors.ErrThreadCorrupt, cur.ID, parentID)
		}
		if err != nil {
			return nil, err
		}
		visited[parentID] = true
		if cur == msg {
			root = parent
		}
		cur = parent
	}

	seen := map[uint64]bool{root.ID: true}
	thread := []*Message{root}

	direct, err := s.repo.GetRepliesTo(ctx, []uint64{root.ID})
	if err != nil {
		return nil, err
	}

	var directIDs []uint64
	for _, reply := range direct {
		if seen[reply.ID] {
			continue
		}
		seen[reply.ID] = true
		thread = append(thread, reply)
		directIDs = append(directIDs, reply.ID)
	}

	indirect, err := s.repo.GetRepliesTo(ctx, directIDs)
	if err != nil {
		return nil, err
	}
	for _, reply := range indirect {
		if seen[reply.ID] {
			continue
		}
		seen[reply.ID] = true
		thread = append(thread, reply)
	}

	return thread, nil
}
