package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"convo/internal/domain"
)

type FriendRepo struct {
	db *sql.DB
}

func NewFriendRepo(db *sql.DB) *FriendRepo {
	return &FriendRepo{db: db}
}

var _ domain.FriendshipRepository = (*FriendRepo)(nil)

func (r *FriendRepo) ListForUser(ctx context.Context, userID int64) ([]*domain.Friendship, error) {
	query := `
		SELECT id, user_one_id, user_two_id, conversation_id
		FROM friends
		WHERE user_one_id = ? OR user_two_id = ?
		ORDER BY id ASC
	`
	rows, err := r.db.QueryContext(ctx, query, userID, userID)
	if err != nil {
		return nil, fmt.Errorf("list friendships: %w", err)
	}
	defer rows.Close()

	var res []*domain.Friendship
	for rows.Next() {
		f := &domain.Friendship{}
		if err := rows.Scan(&f.ID, &f.UserOneID, &f.UserTwoID, &f.ConversationID); err != nil {
			return nil, fmt.Errorf("scan friendship: %w", err)
		}
		res = append(res, f)
	}
	return res, rows.Err()
}

func (r *FriendRepo) GetByConversation(ctx context.Context, conversationID int64) (*domain.Friendship, error) {
	query := `
		SELECT id, user_one_id, user_two_id, conversation_id
		FROM friends
		WHERE conversation_id = ?
	`
	f := &domain.Friendship{}
	err := r.db.QueryRowContext(ctx, query, conversationID).Scan(
		&f.ID,
		&f.UserOneID,
		&f.UserTwoID,
		&f.ConversationID,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get friendship: %w", err)
	}
	return f, nil
}

func (r *FriendRepo) ExistsBetween(ctx context.Context, userA, userB int64) (bool, error) {
	var one int
	err := r.db.QueryRowContext(ctx, `
		SELECT 1 FROM friends
		WHERE (user_one_id = ? AND user_two_id = ?)
		   OR (user_one_id = ? AND user_two_id = ?)
	`, userA, userB, userB, userA).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("friendship exists: %w", err)
	}
	return true, nil
}
