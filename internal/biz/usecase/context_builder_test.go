package usecase

import (
	"context"
	"strings"
	"testing"

	"github.com/featherlink/linkbot/internal/biz/domain"
	"github.com/featherlink/linkbot/internal/logger"
)

func testLinks() []*domain.Link {
	return []*domain.Link{
		{ID: 3, URL: "https://three.example", Summary: "third page"},
		{ID: 2, URL: "https://two.example", Summary: "second page"},
		{ID: 1, URL: "https://one.example", Summary: "first page"},
	}
}

func newTestContextBuilder(model *mockModelRepo, content *mockContentRepo) *ContextBuilderUsecase {
	relevance := NewRelevanceUsecase(model, "relevance", logger.NewNop())
	return NewContextBuilderUsecase(content, relevance, logger.NewNop())
}

func TestBuildSearchFormatsAllCandidates(t *testing.T) {
	model := &mockModelRepo{}
	uc := newTestContextBuilder(model, &mockContentRepo{})

	items := uc.Build(context.Background(), domain.CommandSearch, "query", testLinks())
	if len(items) != 3 {
		t.Fatalf("got %d items, want 3", len(items))
	}
	// Input order is preserved
	if !strings.HasPrefix(items[0], "ID: 3 | ") || !strings.HasPrefix(items[2], "ID: 1 | ") {
		t.Errorf("order not preserved: %v", items)
	}
	if model.completeCalls != 0 {
		t.Error("SEARCH must not call the relevance filter")
	}
}

func TestBuildEmptyCandidates(t *testing.T) {
	model := &mockModelRepo{}
	uc := newTestContextBuilder(model, &mockContentRepo{})

	items := uc.Build(context.Background(), domain.CommandSearch, "query", nil)
	if len(items) != 0 {
		t.Errorf("got %d items, want 0", len(items))
	}
	if model.completeCalls != 0 {
		t.Error("no model call expected for empty candidates")
	}
}

func TestBuildScrapeFiltersAndFetches(t *testing.T) {
	model := &mockModelRepo{completeReply: `{"link_ids": ["1", "3"]}`}
	content := &mockContentRepo{content: map[string]string{
		"https://one.example":   "fresh content one",
		"https://three.example": "fresh content three",
	}}
	uc := newTestContextBuilder(model, content)

	items := uc.Build(context.Background(), domain.CommandSearchAndScrape, "query", testLinks())
	if len(items) != 2 {
		t.Fatalf("got %d items, want 2: %v", len(items), items)
	}
	if !strings.Contains(items[0], "Fresh Content: fresh content three") {
		t.Errorf("item 0 missing fetched content: %q", items[0])
	}
	if !strings.Contains(items[1], "Fresh Content: fresh content one") {
		t.Errorf("item 1 missing fetched content: %q", items[1])
	}
	if len(content.calls) != 2 {
		t.Errorf("fetched %d urls, want 2", len(content.calls))
	}
}

func TestBuildScrapeDropsInventedIDs(t *testing.T) {
	// The filter returns an id that matches no candidate
	model := &mockModelRepo{completeReply: `{"link_ids": ["2", "99"]}`}
	content := &mockContentRepo{content: map[string]string{"https://two.example": "two"}}
	uc := newTestContextBuilder(model, content)

	items := uc.Build(context.Background(), domain.CommandSearchAndScrape, "query", testLinks())
	if len(items) != 1 {
		t.Fatalf("got %d items, want 1: %v", len(items), items)
	}
	if !strings.Contains(items[0], "ID: 2 | ") {
		t.Errorf("wrong link survived: %q", items[0])
	}
}

func TestBuildScrapeFetchFailureIsIsolated(t *testing.T) {
	model := &mockModelRepo{completeReply: `{"link_ids": [1, 2]}`}
	// Only one of the two URLs fetches successfully
	content := &mockContentRepo{content: map[string]string{"https://one.example": "one"}}
	uc := newTestContextBuilder(model, content)

	items := uc.Build(context.Background(), domain.CommandSearchAndScrape, "query", testLinks())
	if len(items) != 2 {
		t.Fatalf("got %d items, want 2: %v", len(items), items)
	}
	if !strings.Contains(items[0], "Unable to retrieve content") {
		t.Errorf("failed fetch should use the placeholder: %q", items[0])
	}
	if !strings.Contains(items[1], "Fresh Content: one") {
		t.Errorf("successful fetch lost: %q", items[1])
	}
}

func TestBuildScrapeTruncatesFetchedContent(t *testing.T) {
	model := &mockModelRepo{completeReply: `{"link_ids": ["1"]}`}
	content := &mockContentRepo{content: map[string]string{
		"https://one.example": strings.Repeat("a", 5000),
	}}
	uc := newTestContextBuilder(model, content)

	items := uc.Build(context.Background(), domain.CommandSearchAndScrape, "query", testLinks())
	if len(items) != 1 {
		t.Fatalf("got %d items, want 1", len(items))
	}
	idx := strings.Index(items[0], "Fresh Content: ")
	if idx < 0 {
		t.Fatalf("no content marker: %q", items[0])
	}
	body := items[0][idx+len("Fresh Content: "):]
	if len(body) != 1000 {
		t.Errorf("content length = %d, want 1000", len(body))
	}
}

func TestBuildScrapeRelevanceFailureYieldsNoItems(t *testing.T) {
	model := &mockModelRepo{completeReply: "not json"}
	uc := newTestContextBuilder(model, &mockContentRepo{})

	items := uc.Build(context.Background(), domain.CommandSearchAndScrape, "query", testLinks())
	if len(items) != 0 {
		t.Errorf("got %d items, want 0", len(items))
	}
}
