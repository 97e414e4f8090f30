package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"convo/internal/domain"
)

type MemberRepo struct {
	db *sql.DB
}

func NewMemberRepo(db *sql.DB) *MemberRepo {
	return &MemberRepo{db: db}
}

var _ domain.MemberRepository = (*MemberRepo)(nil)

const memberColumns = `id, member_id, conversation_id, last_seen_message_id`

func (r *MemberRepo) Get(ctx context.Context, conversationID, userID int64) (*domain.ConversationMember, error) {
	query := `
		SELECT ` + memberColumns + `
		FROM conversation_members
		WHERE conversation_id = ? AND member_id = ?
	`
	m := &domain.ConversationMember{}
	err := r.db.QueryRowContext(ctx, query, conversationID, userID).Scan(
		&m.ID,
		&m.MemberID,
		&m.ConversationID,
		&m.LastSeenMessageID,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get membership: %w", err)
	}
	return m, nil
}

func (r *MemberRepo) ListByConversation(ctx context.Context, conversationID int64) ([]*domain.ConversationMember, error) {
	query := `
		SELECT ` + memberColumns + `
		FROM conversation_members
		WHERE conversation_id = ?
		ORDER BY id ASC
	`
	return r.list(ctx, query, conversationID)
}

func (r *MemberRepo) ListByUser(ctx context.Context, userID int64) ([]*domain.ConversationMember, error) {
	query := `
		SELECT ` + memberColumns + `
		FROM conversation_members
		WHERE member_id = ?
		ORDER BY id ASC
	`
	return r.list(ctx, query, userID)
}

func (r *MemberRepo) list(ctx context.Context, query string, arg any) ([]*domain.ConversationMember, error) {
	rows, err := r.db.QueryContext(ctx, query, arg)
	if err != nil {
		return nil, fmt.Errorf("list memberships: %w", err)
	}
	defer rows.Close()

	var res []*domain.ConversationMember
	for rows.Next() {
		m := &domain.ConversationMember{}
		if err := rows.Scan(&m.ID, &m.MemberID, &m.ConversationID, &m.LastSeenMessageID); err != nil {
			return nil, fmt.Errorf("scan membership: %w", err)
		}
		res = append(res, m)
	}
	return res, rows.Err()
}

func (r *MemberRepo) Count(ctx context.Context, conversationID int64) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM conversation_members WHERE conversation_id = ?
	`, conversationID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count memberships: %w", err)
	}
	return count, nil
}

func (r *MemberRepo) Delete(ctx context.Context, membershipID int64) error {
	if _, err := r.db.ExecContext(ctx, `
		DELETE FROM conversation_members WHERE id = ?
	`, membershipID); err != nil {
		return fmt.Errorf("delete membership: %w", err)
	}
	return nil
}

func (r *MemberRepo) SetLastSeen(ctx context.Context, membershipID int64, messageID *int64) error {
	if _, err := r.db.ExecContext(ctx, `
		UPDATE conversation_members SET last_seen_message_id = ? WHERE id = ?
	`, messageID, membershipID); err != nil {
		return fmt.Errorf("set last seen: %w", err)
	}
	return nil
}

// CountUnseen counts messages created after the member's watermark and sent
// by someone else. Message IDs are the creation order, so "after" is a plain
// id comparison; a NULL watermark coalesces to zero and counts everything.
func (r *MemberRepo) CountUnseen(ctx context.Context, conversationID, userID int64) (int, error) {
	query := `
		SELECT COUNT(*)
		FROM messages m
		WHERE m.conversation_id = ?
		  AND m.sender_id <> ?
		  AND m.id > COALESCE((
			SELECT cm.last_seen_message_id
			FROM conversation_members cm
			WHERE cm.conversation_id = ? AND cm.member_id = ?
		  ), 0)
	`
	var count int
	err := r.db.QueryRowContext(ctx, query, conversationID, userID, conversationID, userID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count unseen: %w", err)
	}
	return count, nil
}
