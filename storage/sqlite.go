// Package storage provides SQLite conversation storage.
//
// Information Hiding:
// - SQLite connection management hidden behind interface
// - Schema and message serialization details encapsulated
// - Thread-safe via sql.DB's built-in connection pooling

package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"

	"fitcoach/model"
)

// SqliteStorage implements ConversationStorage using SQLite.
// Stores conversation history in a SQLite database file.
// Thread-safe: sql.DB handles connection pooling and concurrent access.
type SqliteStorage struct {
	db *sql.DB
}

// OpenSqlite opens or creates a SQLite database at the given path.
// Creates parent directories if they don't exist.
func OpenSqlite(path string) (*SqliteStorage, error) {
	// Create parent directory if needed
	dir := filepath.Dir(path)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open SQLite database: %w", err)
	}

	storage := &SqliteStorage{db: db}
	if err := storage.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return storage, nil
}

// NewSqliteInMemory creates an in-memory database (useful for testing).
func NewSqliteInMemory() (*SqliteStorage, error) {
	db, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		return nil, fmt.Errorf("failed to create in-memory SQLite: %w", err)
	}

	storage := &SqliteStorage{db: db}
	if err := storage.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return storage, nil
}

// Close closes the database connection.
func (s *SqliteStorage) Close() error {
	return s.db.Close()
}

func (s *SqliteStorage) createSchema() error {
	schema := `
		CREATE TABLE IF NOT EXISTS sessions (
			session_id TEXT PRIMARY KEY,
			created_at TEXT NOT NULL DEFAULT (datetime('now')),
			updated_at TEXT NOT NULL DEFAULT (datetime('now'))
		);

		CREATE TABLE IF NOT EXISTS messages (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			session_id TEXT NOT NULL,
			message_index INTEGER NOT NULL,
			role TEXT NOT NULL,
			content TEXT NOT NULL,
			artifact TEXT,
			requested_tools TEXT,
			FOREIGN KEY (session_id) REFERENCES sessions(session_id) ON DELETE CASCADE,
			UNIQUE(session_id, message_index)
		);

		CREATE INDEX IF NOT EXISTS idx_messages_session
		ON messages(session_id, message_index);
	`

	_, err := s.db.Exec(schema)
	if err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	return nil
}

func (s *SqliteStorage) ensureSession(ctx context.Context, sessionID string) error {
	_, err := s.db.ExecContext(ctx,
		"INSERT OR IGNORE INTO sessions (session_id) VALUES (?)",
		sessionID,
	)
	if err != nil {
		return fmt.Errorf("failed to ensure session: %w", err)
	}
	return nil
}

// Save saves conversation history for a session.
func (s *SqliteStorage) Save(ctx context.Context, sessionID string, history []model.Message) error {
	if err := s.ensureSession(ctx, sessionID); err != nil {
		return err
	}

	// Start transaction
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	// defer tx.Rollback() is safe even after Commit() - it becomes a no-op
	defer func() { _ = tx.Rollback() }()

	// Clear existing messages for this session
	_, err = tx.ExecContext(ctx, "DELETE FROM messages WHERE session_id = ?", sessionID)
	if err != nil {
		return fmt.Errorf("failed to clear old messages: %w", err)
	}

	// Insert all messages
	stmt, err := tx.PrepareContext(ctx,
		"INSERT INTO messages (session_id, message_index, role, content, artifact, requested_tools) VALUES (?, ?, ?, ?, ?, ?)")
	if err != nil {
		return fmt.Errorf("failed to prepare insert statement: %w", err)
	}
	defer stmt.Close()

	for i, msg := range history {
		artifact, tools, err := encodeMessageExtras(msg)
		if err != nil {
			return fmt.Errorf("failed to encode message %d: %w", i, err)
		}
		_, err = stmt.ExecContext(ctx, sessionID, i, string(msg.Role), msg.Content, artifact, tools)
		if err != nil {
			return fmt.Errorf("failed to insert message: %w", err)
		}
	}

	// Update session timestamp
	_, err = tx.ExecContext(ctx,
		"UPDATE sessions SET updated_at = datetime('now') WHERE session_id = ?",
		sessionID)
	if err != nil {
		return fmt.Errorf("failed to update session timestamp: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// Load loads conversation history for a session.
// Returns empty slice if session doesn't exist.
func (s *SqliteStorage) Load(ctx context.Context, sessionID string) ([]model.Message, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT role, content, artifact, requested_tools FROM messages WHERE session_id = ? ORDER BY message_index ASC",
		sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to query messages: %w", err)
	}
	defer rows.Close()

	messages := []model.Message{} // Start with empty slice, not nil
	for rows.Next() {
		var role, content string
		var artifact, tools sql.NullString
		if err := rows.Scan(&role, &content, &artifact, &tools); err != nil {
			return nil, fmt.Errorf("failed to scan message: %w", err)
		}

		msg := model.Message{Role: model.Role(role), Content: content}
		if err := decodeMessageExtras(&msg, artifact, tools); err != nil {
			return nil, err
		}
		messages = append(messages, msg)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating messages: %w", err)
	}

	return messages, nil
}

// Delete deletes conversation history for a session.
func (s *SqliteStorage) Delete(ctx context.Context, sessionID string) error {
	_, err := s.db.ExecContext(ctx,
		"DELETE FROM sessions WHERE session_id = ?",
		sessionID)
	if err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	// Foreign keys may be off by default, clear messages explicitly.
	_, err = s.db.ExecContext(ctx,
		"DELETE FROM messages WHERE session_id = ?",
		sessionID)
	if err != nil {
		return fmt.Errorf("failed to delete session messages: %w", err)
	}
	return nil
}

// ListSessions lists all session IDs.
func (s *SqliteStorage) ListSessions(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT session_id FROM sessions ORDER BY updated_at DESC")
	if err != nil {
		return nil, fmt.Errorf("failed to query sessions: %w", err)
	}
	defer rows.Close()

	sessions := []string{} // Start with empty slice, not nil
	for rows.Next() {
		var sessionID string
		if err := rows.Scan(&sessionID); err != nil {
			return nil, fmt.Errorf("failed to scan session: %w", err)
		}
		sessions = append(sessions, sessionID)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating sessions: %w", err)
	}

	return sessions, nil
}

// Exists checks if a session exists.
func (s *SqliteStorage) Exists(ctx context.Context, sessionID string) (bool, error) {
	var count int
	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM sessions WHERE session_id = ?",
		sessionID).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("failed to check session existence: %w", err)
	}

	return count > 0, nil
}

// encodeMessageExtras serializes the recommendation artifact and tool
// requests to JSON. Empty values map to NULL columns.
func encodeMessageExtras(msg model.Message) (interface{}, interface{}, error) {
	var artifact, tools interface{}

	if len(msg.Artifact) > 0 {
		data, err := json.Marshal(msg.Artifact)
		if err != nil {
			return nil, nil, fmt.Errorf("marshal artifact: %w", err)
		}
		artifact = string(data)
	}

	if len(msg.RequestedTools) > 0 {
		data, err := json.Marshal(msg.RequestedTools)
		if err != nil {
			return nil, nil, fmt.Errorf("marshal requested tools: %w", err)
		}
		tools = string(data)
	}

	return artifact, tools, nil
}

func decodeMessageExtras(msg *model.Message, artifact, tools sql.NullString) error {
	if artifact.Valid && artifact.String != "" {
		if err := json.Unmarshal([]byte(artifact.String), &msg.Artifact); err != nil {
			return fmt.Errorf("invalid artifact in database: %w", err)
		}
	}
	if tools.Valid && tools.String != "" {
		if err := json.Unmarshal([]byte(tools.String), &msg.RequestedTools); err != nil {
			return fmt.Errorf("invalid requested tools in database: %w", err)
		}
	}
	return nil
}

// Verify SqliteStorage implements ConversationStorage
var _ ConversationStorage = (*SqliteStorage)(nil)
