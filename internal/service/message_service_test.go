package service_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"convo/internal/domain"
)

func TestSendValidation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	alice, _ := f.signUp("sub_a", "alice", "a@x.com")
	bob, _ := f.signUp("sub_b", "bob", "b@x.com")
	carol, _ := f.signUp("sub_c", "carol", "c@x.com")
	convID := f.befriend(alice, bob, "b@x.com")

	_, err := f.msgSvc.Send(ctx, alice, sendText(999, "hi"))
	require.EqualError(t, err, "Conversation not found.")

	_, err = f.msgSvc.Send(ctx, carol, sendText(convID, "hi"))
	require.EqualError(t, err, "You aren't a member of this conversation.")

	_, err = f.msgSvc.Send(ctx, alice, sendText(convID, ""))
	require.EqualError(t, err, "Message content cannot be empty.")
}

func TestSendDefaultsToTextType(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	alice, aliceUser := f.signUp("sub_a", "alice", "a@x.com")
	bob, _ := f.signUp("sub_b", "bob", "b@x.com")
	convID := f.befriend(alice, bob, "b@x.com")

	msg, err := f.msgSvc.Send(ctx, alice, sendText(convID, "hi"))
	require.NoError(t, err)
	require.Equal(t, domain.MessageTypeText, msg.Type)
	require.Equal(t, aliceUser.ID, msg.SenderID)
	require.NotZero(t, msg.ID)
}

func TestListForConversationNewestFirstWithSenders(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	alice, _ := f.signUp("sub_a", "alice", "a@x.com")
	bob, _ := f.signUp("sub_b", "bob", "b@x.com")
	carol, _ := f.signUp("sub_c", "carol", "c@x.com")
	convID := f.befriend(alice, bob, "b@x.com")

	_, err := f.msgSvc.Send(ctx, alice, sendText(convID, "first"))
	require.NoError(t, err)
	_, err = f.msgSvc.Send(ctx, bob, sendText(convID, "second"))
	require.NoError(t, err)

	msgs, err := f.msgSvc.ListForConversation(ctx, bob, convID)
	require.NoError(t, err)
	require.Len(t, msgs, 2)

	require.Equal(t, "second", msgs[0].Message.Content)
	require.Equal(t, "bob", msgs[0].SenderName)
	require.True(t, msgs[0].IsCurrentUser)

	require.Equal(t, "first", msgs[1].Message.Content)
	require.Equal(t, "alice", msgs[1].SenderName)
	require.False(t, msgs[1].IsCurrentUser)

	// Reading history requires membership too.
	_, err = f.msgSvc.ListForConversation(ctx, carol, convID)
	require.EqualError(t, err, "You aren't a member of this conversation.")
}

func TestMemberIDsCoverWholeConversation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	alice, aliceUser := f.signUp("sub_a", "alice", "a@x.com")
	_, bobUser := f.signUp("sub_b", "bob", "b@x.com")
	_, carolUser := f.signUp("sub_c", "carol", "c@x.com")

	group, err := f.convSvc.CreateGroup(ctx, alice, "trio", []int64{bobUser.ID, carolUser.ID})
	require.NoError(t, err)

	ids, err := f.msgSvc.MemberIDs(ctx, group.ID)
	require.NoError(t, err)
	require.ElementsMatch(t, []int64{aliceUser.ID, bobUser.ID, carolUser.ID}, ids)
}
