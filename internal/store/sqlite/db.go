package sqlite

import (
	"database/sql"
	"fmt"
	"strings"

	_ "modernc.org/sqlite"
)

// Open opens a SQLite database with the given DSN.
func Open(dsn string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}
	if _, err := db.Exec(`PRAGMA foreign_keys = ON;`); err != nil {
		return nil, fmt.Errorf("enable foreign keys: %w", err)
	}
	return db, nil
}

// Migrate creates the schema: a simple, idempotent set of CREATE TABLE /
// CREATE INDEX statements. Uniqueness invariants that guard against
// check-then-insert races live here as UNIQUE indexes, not in handler code.
func Migrate(db *sql.DB) error {
	stmts := []string{
		// Users synced from the identity provider, keyed on its subject.
		`CREATE TABLE IF NOT EXISTS users (
			id INTEGER PRIMARY KEY,
			subject VARCHAR(64) UNIQUE NOT NULL,
			username VARCHAR(100) NOT NULL,
			email VARCHAR(100) UNIQUE NOT NULL,
			image_url TEXT NOT NULL DEFAULT '',
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);`,
		// Pending friend requests, one per ordered (sender, receiver) pair.
		`CREATE TABLE IF NOT EXISTS requests (
			id INTEGER PRIMARY KEY,
			sender_id INTEGER NOT NULL,
			receiver_id INTEGER NOT NULL,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			UNIQUE (sender_id, receiver_id),
			FOREIGN KEY (sender_id) REFERENCES users(id),
			FOREIGN KEY (receiver_id) REFERENCES users(id)
		);`,
		// Conversations. last_message_id deliberately carries no foreign key:
		// it is a denormalized pointer advanced in the same transaction as
		// each message insert.
		`CREATE TABLE IF NOT EXISTS conversations (
			id INTEGER PRIMARY KEY,
			name VARCHAR(100),
			is_group BOOLEAN NOT NULL DEFAULT FALSE,
			last_message_id INTEGER,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);`,
		// Friendships: one row per pair, always backed by a direct
		// conversation. The pair is stored unordered, so uniqueness is
		// enforced on the normalized (min, max) expression below.
		`CREATE TABLE IF NOT EXISTS friends (
			id INTEGER PRIMARY KEY,
			user_one_id INTEGER NOT NULL,
			user_two_id INTEGER NOT NULL,
			conversation_id INTEGER NOT NULL,
			UNIQUE (conversation_id),
			FOREIGN KEY (user_one_id) REFERENCES users(id),
			FOREIGN KEY (user_two_id) REFERENCES users(id),
			FOREIGN KEY (conversation_id) REFERENCES conversations(id)
		);`,
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_friends_pair
			ON friends (MIN(user_one_id, user_two_id), MAX(user_one_id, user_two_id));`,
		// Conversation memberships with the per-member read watermark.
		`CREATE TABLE IF NOT EXISTS conversation_members (
			id INTEGER PRIMARY KEY,
			member_id INTEGER NOT NULL,
			conversation_id INTEGER NOT NULL,
			last_seen_message_id INTEGER,
			UNIQUE (member_id, conversation_id),
			FOREIGN KEY (member_id) REFERENCES users(id),
			FOREIGN KEY (conversation_id) REFERENCES conversations(id)
		);`,
		// Messages. The rowid is the creation order; unseen counting and
		// newest-first listing rely on it rather than wall-clock timestamps.
		`CREATE TABLE IF NOT EXISTS messages (
			id INTEGER PRIMARY KEY,
			conversation_id INTEGER NOT NULL,
			sender_id INTEGER NOT NULL,
			type VARCHAR(20) NOT NULL DEFAULT 'text',
			content TEXT NOT NULL,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			FOREIGN KEY (conversation_id) REFERENCES conversations(id),
			FOREIGN KEY (sender_id) REFERENCES users(id)
		);`,
		`CREATE INDEX IF NOT EXISTS idx_requests_receiver ON requests(receiver_id);`,
		`CREATE INDEX IF NOT EXISTS idx_friends_user_one ON friends(user_one_id);`,
		`CREATE INDEX IF NOT EXISTS idx_friends_user_two ON friends(user_two_id);`,
		`CREATE INDEX IF NOT EXISTS idx_members_member ON conversation_members(member_id);`,
		`CREATE INDEX IF NOT EXISTS idx_members_conv ON conversation_members(conversation_id);`,
		`CREATE INDEX IF NOT EXISTS idx_messages_conv ON messages(conversation_id);`,
		`CREATE INDEX IF NOT EXISTS idx_messages_conv_id ON messages(conversation_id, id DESC);`,
	}

	for _, stmt := range stmts {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}

	return nil
}

// isUniqueViolation detects UNIQUE constraint failures from the driver.
// The modernc driver exposes them only through the error text.
func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}
