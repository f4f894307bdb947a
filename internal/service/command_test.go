package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/featherlink/linkbot/internal/biz"
	"github.com/featherlink/linkbot/internal/biz/domain"
	"github.com/featherlink/linkbot/internal/conf"
	"github.com/featherlink/linkbot/internal/data"
	"github.com/featherlink/linkbot/internal/logger"
)

// mockModelRepo plays both pipeline roles: Complete serves the classifier
// and relevance filter, Respond serves the final generator
type mockModelRepo struct {
	completeReply string
	completeErr   error
	respondReply  string
	respondErr    error
	respondCalls  int
}

func (m *mockModelRepo) Complete(ctx context.Context, systemPrompt, userContent string, jsonOnly bool) (string, error) {
	return m.completeReply, m.completeErr
}

func (m *mockModelRepo) Respond(ctx context.Context, systemPrompts []string, userContent string) (string, error) {
	m.respondCalls++
	return m.respondReply, m.respondErr
}

type mockContentRepo struct{}

func (m *mockContentRepo) Fetch(ctx context.Context, url string) (string, error) {
	return "", errors.New("no network in tests")
}

type mockLinkRepo struct {
	links   []*domain.Link
	deleted map[int64]bool
}

func (m *mockLinkRepo) SaveLink(ctx context.Context, url, summary, category string) (int64, error) {
	return 0, errors.New("not used")
}

func (m *mockLinkRepo) GetRecentLinks(ctx context.Context, daysAgo, limit *int) ([]*domain.Link, error) {
	out := m.links
	if limit != nil && len(out) > *limit {
		out = out[:*limit]
	}
	return out, nil
}

func (m *mockLinkRepo) GetLinksByIDs(ctx context.Context, ids []int64) ([]*domain.Link, error) {
	return nil, nil
}

func (m *mockLinkRepo) GetLinkByURL(ctx context.Context, url string) (*domain.Link, error) {
	return nil, nil
}

func (m *mockLinkRepo) GetLinkByID(ctx context.Context, id int64) (*domain.Link, error) {
	return nil, nil
}

func (m *mockLinkRepo) GetAllLinks(ctx context.Context, includeDeleted bool) ([]*domain.Link, error) {
	return m.links, nil
}

func (m *mockLinkRepo) DeleteLink(ctx context.Context, id int64) (bool, error) {
	for _, link := range m.links {
		if link.ID == id {
			if m.deleted == nil {
				m.deleted = make(map[int64]bool)
			}
			m.deleted[id] = true
			return true, nil
		}
	}
	return false, nil
}

func (m *mockLinkRepo) RestoreLink(ctx context.Context, id int64) (bool, error) {
	return m.deleted[id], nil
}

func (m *mockLinkRepo) GetLinksByCategory(ctx context.Context) (map[string][]*domain.Link, error) {
	return map[string][]*domain.Link{}, nil
}

func (m *mockLinkRepo) Close() error { return nil }

type mockExclusionRepo struct {
	chats map[string]bool
}

func (m *mockExclusionRepo) AddExcludedChat(ctx context.Context, chatID string) (bool, error) {
	if m.chats == nil {
		m.chats = make(map[string]bool)
	}
	if m.chats[chatID] {
		return false, nil
	}
	m.chats[chatID] = true
	return true, nil
}

func (m *mockExclusionRepo) RemoveExcludedChat(ctx context.Context, chatID string) (bool, error) {
	if !m.chats[chatID] {
		return false, nil
	}
	delete(m.chats, chatID)
	return true, nil
}

func (m *mockExclusionRepo) GetExcludedChats(ctx context.Context) ([]string, error) {
	var out []string
	for chatID := range m.chats {
		out = append(out, chatID)
	}
	return out, nil
}

func (m *mockExclusionRepo) Close() error { return nil }

func newTestCommandService(model *mockModelRepo, linkRepo *mockLinkRepo) *CommandService {
	repos := &data.Repositories{
		Link:      linkRepo,
		Exclusion: &mockExclusionRepo{},
		Model:     model,
		Content:   &mockContentRepo{},
	}
	usecases := biz.NewUsecases(repos, conf.DefaultPromptsConfig(), logger.NewNop())
	return NewCommandService(usecases, repos.Link, repos.Exclusion, nil, 0, logger.NewNop())
}

func TestSearchWithEmptyStoreSkipsGeneration(t *testing.T) {
	model := &mockModelRepo{
		completeReply: `{"command_type": "SEARCH", "timeframe_days": 1}`,
		respondReply:  "should never be sent",
	}
	svc := newTestCommandService(model, &mockLinkRepo{})

	reply := svc.Handle(context.Background(), "oc_cmd", "show me links from the last day")
	if reply != noResultsReply {
		t.Errorf("reply = %q, want %q", reply, noResultsReply)
	}
	if model.respondCalls != 0 {
		t.Errorf("generator called %d times, want 0", model.respondCalls)
	}
}

func TestSearchGeneratesFromStoredLinks(t *testing.T) {
	model := &mockModelRepo{
		completeReply: `{"command_type": "SEARCH"}`,
		respondReply:  "Here are your links.",
	}
	linkRepo := &mockLinkRepo{links: []*domain.Link{
		{ID: 1, URL: "https://example.com", Summary: "an example"},
	}}
	svc := newTestCommandService(model, linkRepo)

	reply := svc.Handle(context.Background(), "oc_cmd", "what links do I have?")
	if reply != "Here are your links." {
		t.Errorf("reply = %q", reply)
	}
	if model.respondCalls != 1 {
		t.Errorf("generator called %d times, want 1", model.respondCalls)
	}
}

func TestClassificationFailureFallsThroughToChat(t *testing.T) {
	model := &mockModelRepo{
		completeErr:  errors.New("model down"),
		respondReply: "plain chat answer",
	}
	svc := newTestCommandService(model, &mockLinkRepo{})

	reply := svc.Handle(context.Background(), "oc_cmd", "hello there")
	if reply != "plain chat answer" {
		t.Errorf("reply = %q", reply)
	}
}

func TestGenerationFailureReturnsGenericError(t *testing.T) {
	model := &mockModelRepo{
		completeReply: `{"command_type": "NONE"}`,
		respondErr:    errors.New("rate limited"),
	}
	svc := newTestCommandService(model, &mockLinkRepo{})

	reply := svc.Handle(context.Background(), "oc_cmd", "hello")
	if reply != genericErrorReply {
		t.Errorf("reply = %q, want %q", reply, genericErrorReply)
	}
}

func TestReplyTruncatedToTransportLimit(t *testing.T) {
	model := &mockModelRepo{
		completeReply: `{"command_type": "NONE"}`,
		respondReply:  strings.Repeat("a", 5000),
	}
	svc := newTestCommandService(model, &mockLinkRepo{})

	reply := svc.Handle(context.Background(), "oc_cmd", "tell me everything")
	if utf8.RuneCountInString(reply) != replyLimit {
		t.Errorf("reply length = %d, want %d", utf8.RuneCountInString(reply), replyLimit)
	}
}

func TestUnknownPrefixCommandHints(t *testing.T) {
	model := &mockModelRepo{}
	svc := newTestCommandService(model, &mockLinkRepo{})

	reply := svc.Handle(context.Background(), "oc_cmd", "!frobnicate now")
	if reply != unknownCmdReply {
		t.Errorf("reply = %q, want %q", reply, unknownCmdReply)
	}
	if model.respondCalls != 0 {
		t.Error("prefix commands must not reach the model")
	}
}

func TestHelpCommand(t *testing.T) {
	svc := newTestCommandService(&mockModelRepo{}, &mockLinkRepo{})

	reply := svc.Handle(context.Background(), "oc_cmd", "!help")
	if !strings.Contains(reply, "!display-links") {
		t.Errorf("general help missing commands: %q", reply)
	}

	reply = svc.Handle(context.Background(), "oc_cmd", "!help delete")
	if !strings.Contains(reply, "!delete <link_id>") {
		t.Errorf("topic help wrong: %q", reply)
	}

	reply = svc.Handle(context.Background(), "oc_cmd", "!help bogus")
	if !strings.Contains(reply, "not found") {
		t.Errorf("unknown topic reply wrong: %q", reply)
	}
}

func TestDeleteCommand(t *testing.T) {
	linkRepo := &mockLinkRepo{links: []*domain.Link{{ID: 42, URL: "https://example.com"}}}
	svc := newTestCommandService(&mockModelRepo{}, linkRepo)
	ctx := context.Background()

	if reply := svc.Handle(ctx, "oc_cmd", "!delete 42"); reply != "Link 42 deleted" {
		t.Errorf("reply = %q", reply)
	}
	if reply := svc.Handle(ctx, "oc_cmd", "!delete 999"); reply != "Link 999 not found" {
		t.Errorf("reply = %q", reply)
	}
	if reply := svc.Handle(ctx, "oc_cmd", "!delete nope"); !strings.Contains(reply, "Invalid syntax") {
		t.Errorf("reply = %q", reply)
	}
}

func TestExcludeCommands(t *testing.T) {
	svc := newTestCommandService(&mockModelRepo{}, &mockLinkRepo{})
	ctx := context.Background()

	if reply := svc.Handle(ctx, "oc_cmd", "!exclude oc_general"); !strings.Contains(reply, "excluded") {
		t.Errorf("reply = %q", reply)
	}
	if reply := svc.Handle(ctx, "oc_cmd", "!exclude oc_general"); !strings.Contains(reply, "already excluded") {
		t.Errorf("reply = %q", reply)
	}
	if reply := svc.Handle(ctx, "oc_cmd", "!list-excluded"); !strings.Contains(reply, "oc_general") {
		t.Errorf("reply = %q", reply)
	}
	if reply := svc.Handle(ctx, "oc_cmd", "!unexclude oc_general"); !strings.Contains(reply, "removed") {
		t.Errorf("reply = %q", reply)
	}
}
