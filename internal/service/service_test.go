package service_test

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/require"

	"convo/internal/domain"
	"convo/internal/service"
	"convo/internal/store/sqlite"
)

// fixture wires the services against real repositories over an in-memory
// database, so the tests exercise the same transactions and unique indexes
// production runs on.
type fixture struct {
	t  *testing.T
	db *sql.DB

	users *sqlite.UserRepo

	userSvc   *service.UserService
	reqSvc    *service.RequestService
	friendSvc *service.FriendService
	convSvc   *service.ConversationService
	msgSvc    *service.MessageService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db, err := sqlite.Open(":memory:")
	require.NoError(t, err)
	// One connection: every pooled connection gets its own in-memory database.
	db.SetMaxOpenConns(1)
	require.NoError(t, sqlite.Migrate(db))
	t.Cleanup(func() { db.Close() })

	users := sqlite.NewUserRepo(db)
	requests := sqlite.NewRequestRepo(db)
	friends := sqlite.NewFriendRepo(db)
	convs := sqlite.NewConversationRepo(db)
	members := sqlite.NewMemberRepo(db)
	msgs := sqlite.NewMessageRepo(db)

	return &fixture{
		t:         t,
		db:        db,
		users:     users,
		userSvc:   service.NewUserService(users),
		reqSvc:    service.NewRequestService(users, requests, friends),
		friendSvc: service.NewFriendService(users, friends, convs, members),
		convSvc:   service.NewConversationService(users, convs, members, msgs),
		msgSvc:    service.NewMessageService(users, convs, members, msgs),
	}
}

// signUp replays an identity-provider sync event and returns the identity a
// caller would present plus the resulting user row.
func (f *fixture) signUp(subject, username, email string) (domain.Identity, *domain.User) {
	f.t.Helper()
	ctx := context.Background()
	err := f.userSvc.UpsertFromIdentityEvent(ctx, service.IdentityEvent{
		Type:         service.EventUserCreated,
		Subject:      subject,
		FirstName:    username,
		PrimaryEmail: email,
	})
	require.NoError(f.t, err)

	user, err := f.users.GetBySubject(ctx, subject)
	require.NoError(f.t, err)
	require.NotNil(f.t, user)
	return domain.Identity{Subject: subject, Email: email}, user
}

// befriend runs the full request/accept flow from a to b and returns the
// backing direct conversation ID.
func (f *fixture) befriend(a domain.Identity, b domain.Identity, bEmail string) int64 {
	f.t.Helper()
	ctx := context.Background()

	req, err := f.reqSvc.Create(ctx, a, bEmail)
	require.NoError(f.t, err)

	friendship, err := f.reqSvc.Accept(ctx, b, req.ID)
	require.NoError(f.t, err)
	return friendship.ConversationID
}

func sendText(conversationID int64, content string) service.SendInput {
	return service.SendInput{ConversationID: conversationID, Content: content}
}

func TestOperationsRejectUnknownCallers(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	stranger := domain.Identity{Subject: "sub_nobody", Email: "nobody@example.com"}

	// The subject was never synced: authorization fails before any domain
	// validation, for every operation.
	_, err := f.reqSvc.Create(ctx, stranger, "anyone@example.com")
	require.ErrorIs(t, err, domain.ErrUnauthorized)

	_, err = f.friendSvc.List(ctx, stranger)
	require.ErrorIs(t, err, domain.ErrUnauthorized)

	_, err = f.convSvc.ListForUser(ctx, stranger)
	require.ErrorIs(t, err, domain.ErrUnauthorized)

	_, err = f.msgSvc.Send(ctx, stranger, service.SendInput{ConversationID: 1, Content: "hi"})
	require.ErrorIs(t, err, domain.ErrUnauthorized)

	// A missing identity fails the same way.
	_, err = f.convSvc.ListForUser(ctx, domain.Identity{})
	require.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestEndToEndFriendMessagingScenario(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	aliceIdent, _ := f.signUp("sub_a", "alice", "a@x.com")
	bobIdent, _ := f.signUp("sub_b", "bob", "b@x.com")

	// A requests B.
	_, err := f.reqSvc.Create(ctx, aliceIdent, "b@x.com")
	require.NoError(t, err)

	// B sees exactly one incoming request, from A.
	incoming, err := f.reqSvc.ListIncoming(ctx, bobIdent)
	require.NoError(t, err)
	require.Len(t, incoming, 1)
	require.Equal(t, "alice", incoming[0].Sender.Username)

	// B accepts.
	friendship, err := f.reqSvc.Accept(ctx, bobIdent, incoming[0].Request.ID)
	require.NoError(t, err)
	convID := friendship.ConversationID

	// Both friend lists contain the other.
	aliceFriends, err := f.friendSvc.List(ctx, aliceIdent)
	require.NoError(t, err)
	require.Len(t, aliceFriends, 1)
	require.Equal(t, "bob", aliceFriends[0].Username)

	bobFriends, err := f.friendSvc.List(ctx, bobIdent)
	require.NoError(t, err)
	require.Len(t, bobFriends, 1)
	require.Equal(t, "alice", bobFriends[0].Username)

	// A sends "hi".
	msg, err := f.msgSvc.Send(ctx, aliceIdent, service.SendInput{ConversationID: convID, Content: "hi"})
	require.NoError(t, err)

	// B's conversation list previews it with one unseen message.
	summaries, err := f.convSvc.ListForUser(ctx, bobIdent)
	require.NoError(t, err)
	require.Len(t, summaries, 1)
	require.Equal(t, "hi", summaries[0].LastMessage.Content)
	require.Equal(t, "alice", summaries[0].LastMessage.Sender)
	require.Equal(t, 1, summaries[0].UnseenCount)
	require.Equal(t, "alice", summaries[0].OtherMember.Username)

	// Until B marks it read.
	require.NoError(t, f.convSvc.MarkRead(ctx, bobIdent, convID, msg.ID))

	summaries, err = f.convSvc.ListForUser(ctx, bobIdent)
	require.NoError(t, err)
	require.Zero(t, summaries[0].UnseenCount)
}
