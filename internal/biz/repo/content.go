package repo

import "context"

// ContentRepo fetches web page content as bounded plain text
type ContentRepo interface {
	// Fetch retrieves the URL and returns markup-stripped text. An empty
	// string is a valid result for pages that could not be read.
	Fetch(ctx context.Context, url string) (string, error)
}
