package repo

import (
	"context"

	"github.com/featherlink/linkbot/internal/biz/domain"
)

// LinkRepo is the link record repository interface
// Responsible for link persistence (SQLite)
type LinkRepo interface {
	// SaveLink stores a new active record for the URL. If an active record
	// for the same URL already exists it is soft-deleted first, so history
	// is preserved rather than mutated in place.
	SaveLink(ctx context.Context, url, summary, category string) (int64, error)

	// GetRecentLinks returns active links, newest first. daysAgo and limit
	// are independent optional filters; nil means unbounded.
	GetRecentLinks(ctx context.Context, daysAgo, limit *int) ([]*domain.Link, error)

	// GetLinksByIDs returns the links matching the given ids
	GetLinksByIDs(ctx context.Context, ids []int64) ([]*domain.Link, error)

	// GetLinkByURL returns the active link for the URL, or nil
	GetLinkByURL(ctx context.Context, url string) (*domain.Link, error)

	// GetLinkByID returns the link with the given id regardless of
	// deletion state, or nil
	GetLinkByID(ctx context.Context, id int64) (*domain.Link, error)

	// GetAllLinks lists links, optionally including soft-deleted ones
	GetAllLinks(ctx context.Context, includeDeleted bool) ([]*domain.Link, error)

	// DeleteLink soft-deletes a link; false when no active link matched
	DeleteLink(ctx context.Context, id int64) (bool, error)

	// RestoreLink reactivates a soft-deleted link; false when no deleted
	// link matched
	RestoreLink(ctx context.Context, id int64) (bool, error)

	// GetLinksByCategory groups active links by category
	GetLinksByCategory(ctx context.Context) (map[string][]*domain.Link, error)

	Close() error
}
