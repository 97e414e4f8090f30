package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"convo/internal/domain"
)

type UserRepo struct {
	db *sql.DB
}

func NewUserRepo(db *sql.DB) *UserRepo {
	return &UserRepo{db: db}
}

var _ domain.UserRepository = (*UserRepo)(nil)

func (r *UserRepo) Upsert(ctx context.Context, u *domain.User) error {
	query := `
		INSERT INTO users (subject, username, email, image_url, created_at)
		VALUES (?, ?, ?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT (subject) DO UPDATE SET
			username = excluded.username,
			email = excluded.email,
			image_url = excluded.image_url
	`
	if _, err := r.db.ExecContext(ctx, query, u.Subject, u.Username, u.Email, u.ImageURL); err != nil {
		return fmt.Errorf("upsert user: %w", err)
	}

	stored, err := r.GetBySubject(ctx, u.Subject)
	if err != nil {
		return err
	}
	if stored == nil {
		return fmt.Errorf("upsert user: row not found after upsert")
	}
	*u = *stored
	return nil
}

func (r *UserRepo) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	query := `SELECT id, subject, username, email, image_url, created_at FROM users WHERE id = ?`
	return r.scanUser(ctx, query, id)
}

func (r *UserRepo) GetBySubject(ctx context.Context, subject string) (*domain.User, error) {
	query := `SELECT id, subject, username, email, image_url, created_at FROM users WHERE subject = ?`
	return r.scanUser(ctx, query, subject)
}

func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	query := `SELECT id, subject, username, email, image_url, created_at FROM users WHERE email = ?`
	return r.scanUser(ctx, query, email)
}

func (r *UserRepo) scanUser(ctx context.Context, query string, arg any) (*domain.User, error) {
	u := &domain.User{}
	err := r.db.QueryRowContext(ctx, query, arg).Scan(
		&u.ID,
		&u.Subject,
		&u.Username,
		&u.Email,
		&u.ImageURL,
		&u.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("scan user: %w", err)
	}
	return u, nil
}
