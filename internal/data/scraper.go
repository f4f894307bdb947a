package data

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	readability "github.com/go-shiori/go-readability"

	"github.com/featherlink/linkbot/internal/biz/domain"
	"github.com/featherlink/linkbot/internal/biz/repo"
)

const (
	// fetchTimeout bounds a single page retrieval
	fetchTimeout = 10 * time.Second

	// fetchContentLimit bounds the extracted plain text in runes
	fetchContentLimit = 10000
)

// contentRepo implements web content retrieval using readability
// extraction, which strips scripts, navigation and other non-content markup
type contentRepo struct {
	client *http.Client
}

// NewContentRepo creates a content repository
func NewContentRepo() repo.ContentRepo {
	return &contentRepo{
		client: &http.Client{Timeout: fetchTimeout},
	}
}

// Fetch retrieves the URL and returns markup-stripped plain text,
// bounded to fetchContentLimit runes
func (r *contentRepo) Fetch(ctx context.Context, rawURL string) (string, error) {
	pageURL, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("invalid url: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}

	resp, err := r.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetch page: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		return "", fmt.Errorf("fetch page: status %d", resp.StatusCode)
	}

	article, err := readability.FromReader(resp.Body, pageURL)
	if err != nil {
		return "", fmt.Errorf("readability extraction failed: %w", err)
	}

	return domain.Truncate(article.TextContent, fetchContentLimit), nil
}
