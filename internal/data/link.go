package data

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/featherlink/linkbot/internal/biz/domain"
	"github.com/featherlink/linkbot/internal/biz/repo"

	_ "modernc.org/sqlite"
)

// linkRepo implements the Link repository
type linkRepo struct {
	db *sql.DB

	// Serializes conflicting writes to the same URL so the
	// one-active-record-per-URL invariant holds under concurrent saves
	saveMu sync.Mutex
}

// NewLinkRepo creates a new Link repository backed by SQLite
func NewLinkRepo(dbPath string) (repo.LinkRepo, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS links (
			link_id INTEGER PRIMARY KEY AUTOINCREMENT,
			web_url TEXT NOT NULL,
			summary TEXT NOT NULL,
			category TEXT NOT NULL DEFAULT 'other',
			creation_date INTEGER NOT NULL,
			deleted INTEGER NOT NULL DEFAULT 0
		)
	`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create table: %w", err)
	}

	_, err = db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_links_url ON links(web_url, deleted)
	`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create index: %w", err)
	}

	_, err = db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_links_creation_date ON links(creation_date)
	`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create index: %w", err)
	}

	return &linkRepo{db: db}, nil
}

// SaveLink stores a new active record for the URL, soft-deleting any
// previous active record for the same URL first
func (r *linkRepo) SaveLink(ctx context.Context, url, summary, category string) (int64, error) {
	r.saveMu.Lock()
	defer r.saveMu.Unlock()

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin save: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		UPDATE links SET deleted = 1 WHERE web_url = ? AND deleted = 0
	`, url)
	if err != nil {
		return 0, fmt.Errorf("failed to retire previous record: %w", err)
	}

	result, err := tx.ExecContext(ctx, `
		INSERT INTO links (web_url, summary, category, creation_date, deleted)
		VALUES (?, ?, ?, ?, 0)
	`, url, summary, domain.NormalizeCategory(category), time.Now().Unix())
	if err != nil {
		return 0, fmt.Errorf("failed to save link: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to read new link id: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit save: %w", err)
	}
	return id, nil
}

// GetRecentLinks returns active links, newest first, with optional
// timeframe and count filters
func (r *linkRepo) GetRecentLinks(ctx context.Context, daysAgo, limit *int) ([]*domain.Link, error) {
	query := `
		SELECT link_id, web_url, summary, category, creation_date, deleted
		FROM links
		WHERE deleted = 0`
	var params []interface{}

	if daysAgo != nil {
		cutoff := time.Now().AddDate(0, 0, -*daysAgo).Unix()
		query += ` AND creation_date >= ?`
		params = append(params, cutoff)
	}

	query += ` ORDER BY creation_date DESC, link_id DESC`

	if limit != nil {
		query += ` LIMIT ?`
		params = append(params, *limit)
	}

	rows, err := r.db.QueryContext(ctx, query, params...)
	if err != nil {
		return nil, fmt.Errorf("failed to query recent links: %w", err)
	}
	defer rows.Close()

	return scanLinks(rows)
}

// GetLinksByIDs returns the links matching the given ids
func (r *linkRepo) GetLinksByIDs(ctx context.Context, ids []int64) ([]*domain.Link, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	placeholders := strings.Repeat("?,", len(ids))
	placeholders = placeholders[:len(placeholders)-1]
	params := make([]interface{}, len(ids))
	for i, id := range ids {
		params[i] = id
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT link_id, web_url, summary, category, creation_date, deleted
		FROM links
		WHERE link_id IN (`+placeholders+`)
		ORDER BY creation_date DESC, link_id DESC
	`, params...)
	if err != nil {
		return nil, fmt.Errorf("failed to query links by ids: %w", err)
	}
	defer rows.Close()

	return scanLinks(rows)
}

// GetLinkByURL returns the active link for the URL, or nil
func (r *linkRepo) GetLinkByURL(ctx context.Context, url string) (*domain.Link, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT link_id, web_url, summary, category, creation_date, deleted
		FROM links
		WHERE web_url = ? AND deleted = 0
		ORDER BY link_id DESC
		LIMIT 1
	`, url)
	return scanLink(row)
}

// GetLinkByID returns the link with the given id regardless of deletion state
func (r *linkRepo) GetLinkByID(ctx context.Context, id int64) (*domain.Link, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT link_id, web_url, summary, category, creation_date, deleted
		FROM links
		WHERE link_id = ?
	`, id)
	return scanLink(row)
}

// GetAllLinks lists links, optionally including soft-deleted ones
func (r *linkRepo) GetAllLinks(ctx context.Context, includeDeleted bool) ([]*domain.Link, error) {
	query := `
		SELECT link_id, web_url, summary, category, creation_date, deleted
		FROM links`
	if !includeDeleted {
		query += ` WHERE deleted = 0`
	}
	query += ` ORDER BY creation_date DESC, link_id DESC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query links: %w", err)
	}
	defer rows.Close()

	return scanLinks(rows)
}

// DeleteLink soft-deletes a link
func (r *linkRepo) DeleteLink(ctx context.Context, id int64) (bool, error) {
	result, err := r.db.ExecContext(ctx, `
		UPDATE links SET deleted = 1 WHERE link_id = ? AND deleted = 0
	`, id)
	if err != nil {
		return false, fmt.Errorf("failed to delete link: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read delete result: %w", err)
	}
	return affected > 0, nil
}

// RestoreLink reactivates a soft-deleted link
func (r *linkRepo) RestoreLink(ctx context.Context, id int64) (bool, error) {
	result, err := r.db.ExecContext(ctx, `
		UPDATE links SET deleted = 0 WHERE link_id = ? AND deleted = 1
	`, id)
	if err != nil {
		return false, fmt.Errorf("failed to restore link: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read restore result: %w", err)
	}
	return affected > 0, nil
}

// GetLinksByCategory groups active links by category
func (r *linkRepo) GetLinksByCategory(ctx context.Context) (map[string][]*domain.Link, error) {
	links, err := r.GetAllLinks(ctx, false)
	if err != nil {
		return nil, err
	}

	grouped := make(map[string][]*domain.Link)
	for _, link := range links {
		grouped[link.Category] = append(grouped[link.Category], link)
	}
	return grouped, nil
}

// Close closes the database connection
func (r *linkRepo) Close() error {
	return r.db.Close()
}

func scanLinks(rows *sql.Rows) ([]*domain.Link, error) {
	var links []*domain.Link
	for rows.Next() {
		var link domain.Link
		var createdAt int64
		var deleted int
		if err := rows.Scan(&link.ID, &link.URL, &link.Summary, &link.Category, &createdAt, &deleted); err != nil {
			return nil, fmt.Errorf("failed to scan link: %w", err)
		}
		link.CreatedAt = time.Unix(createdAt, 0)
		link.Deleted = deleted != 0
		links = append(links, &link)
	}
	return links, rows.Err()
}

func scanLink(row *sql.Row) (*domain.Link, error) {
	var link domain.Link
	var createdAt int64
	var deleted int
	err := row.Scan(&link.ID, &link.URL, &link.Summary, &link.Category, &createdAt, &deleted)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query link: %w", err)
	}
	link.CreatedAt = time.Unix(createdAt, 0)
	link.Deleted = deleted != 0
	return &link, nil
}
