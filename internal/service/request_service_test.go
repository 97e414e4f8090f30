package service_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"convo/internal/domain"
	"convo/internal/service"
)

func TestRequestCreateValidation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	alice, _ := f.signUp("sub_a", "alice", "a@x.com")
	bob, _ := f.signUp("sub_b", "bob", "b@x.com")

	t.Run("self", func(t *testing.T) {
		_, err := f.reqSvc.Create(ctx, alice, "a@x.com")
		require.EqualError(t, err, "Can't friend yourself!")
		require.True(t, domain.IsDomain(err))
	})

	t.Run("unknown email", func(t *testing.T) {
		_, err := f.reqSvc.Create(ctx, alice, "ghost@x.com")
		require.EqualError(t, err, "User could not be found.")
	})

	t.Run("duplicate", func(t *testing.T) {
		_, err := f.reqSvc.Create(ctx, alice, "b@x.com")
		require.NoError(t, err)

		_, err = f.reqSvc.Create(ctx, alice, "b@x.com")
		require.EqualError(t, err, "Request already sent.")
	})

	t.Run("reverse pending", func(t *testing.T) {
		_, err := f.reqSvc.Create(ctx, bob, "a@x.com")
		require.EqualError(t, err, "This user has already sent you a request. Go accept it!")
	})
}

func TestRequestCreateRejectsExistingFriends(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	alice, _ := f.signUp("sub_a", "alice", "a@x.com")
	bob, _ := f.signUp("sub_b", "bob", "b@x.com")
	f.befriend(alice, bob, "b@x.com")

	_, err := f.reqSvc.Create(ctx, alice, "b@x.com")
	require.EqualError(t, err, "You are already friends with this user.")

	// The check is order-independent.
	_, err = f.reqSvc.Create(ctx, bob, "a@x.com")
	require.EqualError(t, err, "You are already friends with this user.")
}

func TestRequestAcceptOnlyByReceiver(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	alice, _ := f.signUp("sub_a", "alice", "a@x.com")
	f.signUp("sub_b", "bob", "b@x.com")
	carol, _ := f.signUp("sub_c", "carol", "c@x.com")

	req, err := f.reqSvc.Create(ctx, alice, "b@x.com")
	require.NoError(t, err)

	// Neither the sender nor a bystander may accept.
	_, err = f.reqSvc.Accept(ctx, alice, req.ID)
	require.EqualError(t, err, "There was an error accepting this request.")
	_, err = f.reqSvc.Accept(ctx, carol, req.ID)
	require.EqualError(t, err, "There was an error accepting this request.")
}

func TestRequestDeny(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	alice, _ := f.signUp("sub_a", "alice", "a@x.com")
	bob, _ := f.signUp("sub_b", "bob", "b@x.com")

	req, err := f.reqSvc.Create(ctx, alice, "b@x.com")
	require.NoError(t, err)

	// The sender cannot deny their own outgoing request.
	err = f.reqSvc.Deny(ctx, alice, req.ID)
	require.EqualError(t, err, "There was an error denying this request.")

	require.NoError(t, f.reqSvc.Deny(ctx, bob, req.ID))

	incoming, err := f.reqSvc.ListIncoming(ctx, bob)
	require.NoError(t, err)
	require.Empty(t, incoming)

	// Denying again fails: the request is gone.
	err = f.reqSvc.Deny(ctx, bob, req.ID)
	require.EqualError(t, err, "There was an error denying this request.")

	// A denied request can be re-sent.
	_, err = f.reqSvc.Create(ctx, alice, "b@x.com")
	require.NoError(t, err)
}

func TestRequestAcceptCreatesFriendshipAndConversation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	alice, aliceUser := f.signUp("sub_a", "alice", "a@x.com")
	bob, bobUser := f.signUp("sub_b", "bob", "b@x.com")

	req, err := f.reqSvc.Create(ctx, alice, "b@x.com")
	require.NoError(t, err)

	friendship, err := f.reqSvc.Accept(ctx, bob, req.ID)
	require.NoError(t, err)
	require.Equal(t, bobUser.ID, friendship.UserOneID)
	require.Equal(t, aliceUser.ID, friendship.UserTwoID)

	// The request is consumed.
	incoming, err := f.reqSvc.ListIncoming(ctx, bob)
	require.NoError(t, err)
	require.Empty(t, incoming)

	// The backing conversation is direct, with both members in it.
	detail, err := f.convSvc.Get(ctx, alice, friendship.ConversationID)
	require.NoError(t, err)
	direct, ok := detail.(*service.DirectConversationDetail)
	require.True(t, ok)
	require.False(t, direct.Conversation.IsGroup)
	require.Equal(t, bobUser.ID, direct.OtherMember.ID)
}
