package data

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/featherlink/linkbot/internal/biz/repo"
)

// exclusionRepo implements the chat exclusion repository
type exclusionRepo struct {
	db *sql.DB
}

// NewExclusionRepo creates a new exclusion repository backed by SQLite
func NewExclusionRepo(dbPath string) (repo.ExclusionRepo, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS excluded_chats (
			chat_id TEXT PRIMARY KEY,
			created_at INTEGER NOT NULL
		)
	`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create excluded_chats table: %w", err)
	}
	return &exclusionRepo{db: db}, nil
}

// AddExcludedChat adds a chat to the exclusion list
func (r *exclusionRepo) AddExcludedChat(ctx context.Context, chatID string) (bool, error) {
	result, err := r.db.ExecContext(ctx, `
		INSERT OR IGNORE INTO excluded_chats (chat_id, created_at) VALUES (?, ?)
	`, chatID, time.Now().Unix())
	if err != nil {
		return false, fmt.Errorf("failed to exclude chat: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read exclude result: %w", err)
	}
	return affected > 0, nil
}

// RemoveExcludedChat removes a chat from the exclusion list
func (r *exclusionRepo) RemoveExcludedChat(ctx context.Context, chatID string) (bool, error) {
	result, err := r.db.ExecContext(ctx, `
		DELETE FROM excluded_chats WHERE chat_id = ?
	`, chatID)
	if err != nil {
		return false, fmt.Errorf("failed to unexclude chat: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read unexclude result: %w", err)
	}
	return affected > 0, nil
}

// GetExcludedChats lists all excluded chat ids
func (r *exclusionRepo) GetExcludedChats(ctx context.Context) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT chat_id FROM excluded_chats ORDER BY created_at
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query excluded chats: %w", err)
	}
	defer rows.Close()

	var chats []string
	for rows.Next() {
		var chatID string
		if err := rows.Scan(&chatID); err != nil {
			return nil, fmt.Errorf("failed to scan excluded chat: %w", err)
		}
		chats = append(chats, chatID)
	}
	return chats, rows.Err()
}

func (r *exclusionRepo) Close() error {
	return r.db.Close()
}
