package sqlite_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"convo/internal/domain"
	"convo/internal/store/sqlite"
)

func TestMemberCountUnseen(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	alice := seedUser(t, db, "alice")
	bob := seedUser(t, db, "bob")

	convs := sqlite.NewConversationRepo(db)
	members := sqlite.NewMemberRepo(db)
	msgs := sqlite.NewMessageRepo(db)

	conv := &domain.Conversation{IsGroup: false}
	require.NoError(t, convs.Create(ctx, conv, []int64{alice.ID, bob.ID}))

	var sent []*domain.Message
	for _, content := range []string{"one", "two", "three"} {
		m := &domain.Message{ConversationID: conv.ID, SenderID: alice.ID, Type: domain.MessageTypeText, Content: content}
		require.NoError(t, msgs.Create(ctx, m))
		sent = append(sent, m)
	}

	// No watermark: every foreign message counts, own messages never do.
	unseen, err := members.CountUnseen(ctx, conv.ID, bob.ID)
	require.NoError(t, err)
	require.Equal(t, 3, unseen)

	unseen, err = members.CountUnseen(ctx, conv.ID, alice.ID)
	require.NoError(t, err)
	require.Zero(t, unseen)

	// Watermark at the second message leaves one unseen.
	membership, err := members.Get(ctx, conv.ID, bob.ID)
	require.NoError(t, err)
	require.NoError(t, members.SetLastSeen(ctx, membership.ID, &sent[1].ID))

	unseen, err = members.CountUnseen(ctx, conv.ID, bob.ID)
	require.NoError(t, err)
	require.Equal(t, 1, unseen)

	// Clearing the watermark counts everything again.
	require.NoError(t, members.SetLastSeen(ctx, membership.ID, nil))
	unseen, err = members.CountUnseen(ctx, conv.ID, bob.ID)
	require.NoError(t, err)
	require.Equal(t, 3, unseen)
}

func TestMemberDelete(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	alice := seedUser(t, db, "alice")
	bob := seedUser(t, db, "bob")

	convs := sqlite.NewConversationRepo(db)
	members := sqlite.NewMemberRepo(db)

	name := "trio"
	conv := &domain.Conversation{Name: &name, IsGroup: true}
	require.NoError(t, convs.Create(ctx, conv, []int64{alice.ID, bob.ID}))

	membership, err := members.Get(ctx, conv.ID, bob.ID)
	require.NoError(t, err)
	require.NotNil(t, membership)

	require.NoError(t, members.Delete(ctx, membership.ID))

	gone, err := members.Get(ctx, conv.ID, bob.ID)
	require.NoError(t, err)
	require.Nil(t, gone)

	mine, err := members.ListByUser(ctx, alice.ID)
	require.NoError(t, err)
	require.Len(t, mine, 1)
}
