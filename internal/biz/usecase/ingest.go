package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/featherlink/linkbot/internal/biz/domain"
	"github.com/featherlink/linkbot/internal/biz/repo"
	"github.com/featherlink/linkbot/internal/logger"
)

// IngestUsecase fetches, summarizes, and stores a shared link
type IngestUsecase struct {
	linkRepo    repo.LinkRepo
	contentRepo repo.ContentRepo
	summarizer  *SummarizerUsecase
	log         logger.Logger
}

// NewIngestUsecase creates a new ingest usecase
func NewIngestUsecase(linkRepo repo.LinkRepo, contentRepo repo.ContentRepo, summarizer *SummarizerUsecase, log logger.Logger) *IngestUsecase {
	return &IngestUsecase{
		linkRepo:    linkRepo,
		contentRepo: contentRepo,
		summarizer:  summarizer,
		log:         log,
	}
}

// Ingest records one URL: fetch its content, summarize it, and save the
// result. A previously active record for the same URL is superseded, which
// is reported through the second return value. Fetch and summary failures
// degrade to placeholder values; only the store write can fail the ingest.
func (uc *IngestUsecase) Ingest(ctx context.Context, url string) (*domain.Link, bool, error) {
	existing, err := uc.linkRepo.GetLinkByURL(ctx, url)
	if err != nil {
		uc.log.Warn("duplicate lookup failed", logger.String("url", url), logger.Error(err))
	}
	duplicate := existing != nil

	summary, category := fallbackSummary, domain.CategoryOther
	content, err := uc.contentRepo.Fetch(ctx, url)
	if err != nil {
		uc.log.Warn("content fetch failed", logger.String("url", url), logger.Error(err))
	} else if content != "" {
		summary, category = uc.summarizer.Summarize(ctx, content)
	}

	id, err := uc.linkRepo.SaveLink(ctx, url, summary, category)
	if err != nil {
		return nil, false, fmt.Errorf("save link: %w", err)
	}

	return &domain.Link{
		ID:        id,
		URL:       url,
		Summary:   summary,
		Category:  category,
		CreatedAt: time.Now(),
	}, duplicate, nil
}
