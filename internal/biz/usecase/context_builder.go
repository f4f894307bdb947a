package usecase

import (
	"context"
	"fmt"
	"strconv"

	"github.com/featherlink/linkbot/internal/biz/domain"
	"github.com/featherlink/linkbot/internal/biz/repo"
	"github.com/featherlink/linkbot/internal/logger"
)

const (
	// fetchedContentLimit caps how much freshly fetched content one link
	// contributes to the model context
	fetchedContentLimit = 1000

	fetchFailedPlaceholder = "Unable to retrieve content"
)

// ContextBuilderUsecase assembles the model context for search commands
type ContextBuilderUsecase struct {
	contentRepo repo.ContentRepo
	relevance   *RelevanceUsecase
	log         logger.Logger
}

// NewContextBuilderUsecase creates a new context builder usecase
func NewContextBuilderUsecase(contentRepo repo.ContentRepo, relevance *RelevanceUsecase, log logger.Logger) *ContextBuilderUsecase {
	return &ContextBuilderUsecase{
		contentRepo: contentRepo,
		relevance:   relevance,
		log:         log,
	}
}

// Build formats candidate links into context strings for the given command
// type, preserving the newest-first order the store delivered.
//
// SEARCH returns one summary line per candidate. SEARCH_AND_SCRAPE first
// narrows the candidates through the relevance filter, dropping any ids
// the filter invented, then refreshes each survivor with live content.
// An empty candidate list yields no context items.
func (uc *ContextBuilderUsecase) Build(ctx context.Context, cmdType domain.CommandType, query string, candidates []*domain.Link) []string {
	if len(candidates) == 0 {
		return nil
	}

	formatted := make([]string, 0, len(candidates))
	for _, link := range candidates {
		formatted = append(formatted, link.ContextLine())
	}

	if cmdType != domain.CommandSearchAndScrape {
		return formatted
	}

	relevant := uc.relevance.Filter(ctx, query, formatted)
	var selected []*domain.Link
	for _, link := range candidates {
		if relevant[strconv.FormatInt(link.ID, 10)] {
			selected = append(selected, link)
		}
	}
	return uc.scrapeContext(ctx, selected)
}

// scrapeContext fetches live content for each link. A failed fetch only
// degrades that link's context line, never the whole batch.
func (uc *ContextBuilderUsecase) scrapeContext(ctx context.Context, links []*domain.Link) []string {
	items := make([]string, 0, len(links))
	for _, link := range links {
		content, err := uc.contentRepo.Fetch(ctx, link.URL)
		if err != nil || content == "" {
			if err != nil {
				uc.log.Warn("content refresh failed",
					logger.String("url", link.URL), logger.Error(err))
			}
			content = fetchFailedPlaceholder
		} else {
			content = domain.Truncate(content, fetchedContentLimit)
		}
		items = append(items, fmt.Sprintf("ID: %d | URL: <%s>\nFresh Content: %s", link.ID, link.URL, content))
	}
	return items
}
