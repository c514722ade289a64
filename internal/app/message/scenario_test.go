package message

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"messenger/internal/apperrors"
)

// Full conversation lifecycle: send, edit, reply, purge.
func TestMessagingLifecycle(t *testing.T) {
	svc, repo, _ := newTestService(t)
	ctx := context.Background()

	// Alice sends "hi" to Bob: Bob gets exactly one notification and one
	// unread message.
	hi, err := svc.SendMessage(ctx, alice, bob, "hi", nil)
	require.NoError(t, err)
	require.Len(t, repo.notificationsFor(bob), 1)
	assert.False(t, hi.Read)

	// Alice edits to "hello": one history row with the prior content.
	hello, err := svc.EditMessage(ctx, hi.ID, alice, "hello")
	require.NoError(t, err)
	assert.Equal(t, "hello", hello.Content)
	assert.True(t, hello.Edited)
	history := repo.historyFor(hi.ID)
	require.Len(t, history, 1)
	assert.Equal(t, "hi", history[0].OldContent)

	// Bob replies: the thread is visible from either end.
	reply, err := svc.SendMessage(ctx, bob, alice, "hello yourself", &hi.ID)
	require.NoError(t, err)

	fromRoot, err := svc.GetThread(ctx, hi.ID)
	require.NoError(t, err)
	fromReply, err := svc.GetThread(ctx, reply.ID)
	require.NoError(t, err)
	assert.ElementsMatch(t, threadIDs(fromRoot), threadIDs(fromReply))
	assert.Len(t, fromRoot, 2)

	// Alice's account is purged: her message, notifications, and authored
	// history disappear; Bob's reply survives without a parent.
	partners, err := repo.DeleteUserData(ctx, alice)
	require.NoError(t, err)
	assert.Equal(t, []uint64{bob}, partners)

	_, err = svc.GetMessageByID(ctx, hi.ID)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	assert.Empty(t, repo.notificationsFor(bob))
	assert.Empty(t, repo.historyFor(hi.ID))

	kept, err := svc.GetMessageByID(ctx, reply.ID)
	require.NoError(t, err)
	assert.Nil(t, kept.ParentID)
	assert.Equal(t, bob, kept.SenderID)

	// Purging again is a no-op success.
	again, err := repo.DeleteUserData(ctx, alice)
	require.NoError(t, err)
	assert.Empty(t, again)
}
