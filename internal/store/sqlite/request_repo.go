package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"convo/internal/domain"
)

type RequestRepo struct {
	db *sql.DB
}

func NewRequestRepo(db *sql.DB) *RequestRepo {
	return &RequestRepo{db: db}
}

var _ domain.RequestRepository = (*RequestRepo)(nil)

func (r *RequestRepo) Create(ctx context.Context, req *domain.FriendRequest) error {
	res, err := r.db.ExecContext(ctx, `
		INSERT INTO requests (sender_id, receiver_id, created_at)
		VALUES (?, ?, CURRENT_TIMESTAMP)
	`, req.SenderID, req.ReceiverID)
	if isUniqueViolation(err) {
		// Concurrent duplicate create lost the race against the unique index.
		return domain.Errorf("Request already sent.")
	}
	if err != nil {
		return fmt.Errorf("insert request: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("last insert id: %w", err)
	}
	req.ID = id
	return nil
}

func (r *RequestRepo) GetByID(ctx context.Context, id int64) (*domain.FriendRequest, error) {
	query := `SELECT id, sender_id, receiver_id, created_at FROM requests WHERE id = ?`
	req := &domain.FriendRequest{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&req.ID,
		&req.SenderID,
		&req.ReceiverID,
		&req.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get request: %w", err)
	}
	return req, nil
}

func (r *RequestRepo) Exists(ctx context.Context, senderID, receiverID int64) (bool, error) {
	var one int
	err := r.db.QueryRowContext(ctx, `
		SELECT 1 FROM requests WHERE sender_id = ? AND receiver_id = ?
	`, senderID, receiverID).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("request exists: %w", err)
	}
	return true, nil
}

func (r *RequestRepo) Delete(ctx context.Context, id int64) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM requests WHERE id = ?`, id); err != nil {
		return fmt.Errorf("delete request: %w", err)
	}
	return nil
}

// Accept turns a pending request into a friendship with its backing direct
// conversation and two memberships, then discards the request. Everything
// happens in one transaction: none of it is observable partially applied.
func (r *RequestRepo) Accept(ctx context.Context, req *domain.FriendRequest) (*domain.Conversation, *domain.Friendship, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `
		INSERT INTO conversations (name, is_group, created_at)
		VALUES (NULL, FALSE, CURRENT_TIMESTAMP)
	`)
	if err != nil {
		return nil, nil, fmt.Errorf("insert conversation: %w", err)
	}
	convID, err := res.LastInsertId()
	if err != nil {
		return nil, nil, fmt.Errorf("last insert id: %w", err)
	}

	res, err = tx.ExecContext(ctx, `
		INSERT INTO friends (user_one_id, user_two_id, conversation_id)
		VALUES (?, ?, ?)
	`, req.ReceiverID, req.SenderID, convID)
	if isUniqueViolation(err) {
		return nil, nil, domain.Errorf("You are already friends with this user.")
	}
	if err != nil {
		return nil, nil, fmt.Errorf("insert friendship: %w", err)
	}
	friendshipID, err := res.LastInsertId()
	if err != nil {
		return nil, nil, fmt.Errorf("last insert id: %w", err)
	}

	for _, memberID := range []int64{req.ReceiverID, req.SenderID} {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO conversation_members (member_id, conversation_id)
			VALUES (?, ?)
		`, memberID, convID); err != nil {
			return nil, nil, fmt.Errorf("insert membership: %w", err)
		}
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM requests WHERE id = ?`, req.ID); err != nil {
		return nil, nil, fmt.Errorf("delete request: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, nil, fmt.Errorf("commit: %w", err)
	}

	conv := &domain.Conversation{ID: convID, IsGroup: false}
	friendship := &domain.Friendship{
		ID:             friendshipID,
		UserOneID:      req.ReceiverID,
		UserTwoID:      req.SenderID,
		ConversationID: convID,
	}
	return conv, friendship, nil
}

func (r *RequestRepo) ListIncoming(ctx context.Context, receiverID int64) ([]*domain.RequestWithSender, error) {
	query := `
		SELECT r.id, r.sender_id, r.receiver_id, r.created_at,
		       u.id, u.subject, u.username, u.email, u.image_url, u.created_at
		FROM requests r
		JOIN users u ON u.id = r.sender_id
		WHERE r.receiver_id = ?
		ORDER BY r.id ASC
	`
	rows, err := r.db.QueryContext(ctx, query, receiverID)
	if err != nil {
		return nil, fmt.Errorf("list incoming requests: %w", err)
	}
	defer rows.Close()

	var res []*domain.RequestWithSender
	for rows.Next() {
		req := &domain.FriendRequest{}
		sender := &domain.User{}
		if err := rows.Scan(
			&req.ID,
			&req.SenderID,
			&req.ReceiverID,
			&req.CreatedAt,
			&sender.ID,
			&sender.Subject,
			&sender.Username,
			&sender.Email,
			&sender.ImageURL,
			&sender.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan request: %w", err)
		}
		res = append(res, &domain.RequestWithSender{Request: req, Sender: sender})
	}
	return res, rows.Err()
}
