package usecase

import (
	"context"
	"errors"

	"github.com/featherlink/linkbot/internal/biz/domain"
)

// mockModelRepo returns canned replies and records what it was asked
type mockModelRepo struct {
	completeReply string
	completeErr   error
	respondReply  string
	respondErr    error

	completeCalls int
	respondCalls  int

	lastSystemPrompt  string
	lastUserContent   string
	lastJSONOnly      bool
	lastSystemPrompts []string
}

func (m *mockModelRepo) Complete(ctx context.Context, systemPrompt, userContent string, jsonOnly bool) (string, error) {
	m.completeCalls++
	m.lastSystemPrompt = systemPrompt
	m.lastUserContent = userContent
	m.lastJSONOnly = jsonOnly
	return m.completeReply, m.completeErr
}

func (m *mockModelRepo) Respond(ctx context.Context, systemPrompts []string, userContent string) (string, error) {
	m.respondCalls++
	m.lastSystemPrompts = systemPrompts
	m.lastUserContent = userContent
	return m.respondReply, m.respondErr
}

// mockContentRepo serves fixed content per URL, failing for unknown URLs
type mockContentRepo struct {
	content map[string]string
	calls   []string
}

func (m *mockContentRepo) Fetch(ctx context.Context, url string) (string, error) {
	m.calls = append(m.calls, url)
	if content, ok := m.content[url]; ok {
		return content, nil
	}
	return "", errors.New("fetch failed")
}

// mockLinkRepo is an in-memory LinkRepo covering what the usecases touch.
// Records are kept in insertion order so superseded rows stay visible by ID.
type mockLinkRepo struct {
	links  []*domain.Link
	nextID int64
	saves  int
}

func newMockLinkRepo() *mockLinkRepo {
	return &mockLinkRepo{nextID: 1}
}

func (m *mockLinkRepo) SaveLink(ctx context.Context, url, summary, category string) (int64, error) {
	m.saves++
	for _, link := range m.links {
		if link.URL == url && !link.Deleted {
			link.Deleted = true
		}
	}
	id := m.nextID
	m.nextID++
	m.links = append(m.links, &domain.Link{ID: id, URL: url, Summary: summary, Category: category})
	return id, nil
}

func (m *mockLinkRepo) GetRecentLinks(ctx context.Context, daysAgo, limit *int) ([]*domain.Link, error) {
	var out []*domain.Link
	for _, link := range m.links {
		if !link.Deleted {
			out = append(out, link)
		}
	}
	return out, nil
}

func (m *mockLinkRepo) GetLinksByIDs(ctx context.Context, ids []int64) ([]*domain.Link, error) {
	return nil, nil
}

func (m *mockLinkRepo) GetLinkByURL(ctx context.Context, url string) (*domain.Link, error) {
	for _, link := range m.links {
		if link.URL == url && !link.Deleted {
			return link, nil
		}
	}
	return nil, nil
}

func (m *mockLinkRepo) GetLinkByID(ctx context.Context, id int64) (*domain.Link, error) {
	for _, link := range m.links {
		if link.ID == id {
			return link, nil
		}
	}
	return nil, nil
}

func (m *mockLinkRepo) GetAllLinks(ctx context.Context, includeDeleted bool) ([]*domain.Link, error) {
	var out []*domain.Link
	for _, link := range m.links {
		if includeDeleted || !link.Deleted {
			out = append(out, link)
		}
	}
	return out, nil
}

func (m *mockLinkRepo) DeleteLink(ctx context.Context, id int64) (bool, error) {
	for _, link := range m.links {
		if link.ID == id && !link.Deleted {
			link.Deleted = true
			return true, nil
		}
	}
	return false, nil
}

func (m *mockLinkRepo) RestoreLink(ctx context.Context, id int64) (bool, error) {
	for _, link := range m.links {
		if link.ID == id && link.Deleted {
			link.Deleted = false
			return true, nil
		}
	}
	return false, nil
}

func (m *mockLinkRepo) GetLinksByCategory(ctx context.Context) (map[string][]*domain.Link, error) {
	return nil, nil
}

func (m *mockLinkRepo) Close() error { return nil }
