package domain

import (
	"fmt"
	"strings"
	"time"
)

// Link represents a stored link entity
type Link struct {
	ID        int64
	URL       string
	Summary   string
	Category  string
	CreatedAt time.Time
	Deleted   bool
}

// CategoryOther is the fallback category for content the model cannot place
const CategoryOther = "other"

// Categories is the fixed label set the summarizer chooses from
var Categories = []string{
	"Product/Service",
	"News/Media",
	"Academic/Research",
	"Technology/Tutorial",
	"Entertainment",
	"Educational/Guide",
	"Business/Finance",
	"Health/Medical",
	"Government/Legal",
	"Social Media/Forum",
	"Tool/Utility",
	"Travel/Tourism",
	"Science/Environment",
	"Opinion/Blog",
	"E-learning/Course",
	"Software/App",
	"PDF/Document",
	"Career/Job Listing",
	"Creative Arts",
	"Nonprofit/Activism",
}

// NormalizeCategory maps model output onto the known label set.
// Unknown or empty labels resolve to CategoryOther.
func NormalizeCategory(category string) string {
	c := strings.TrimSpace(category)
	if c == "" {
		return CategoryOther
	}
	for _, known := range Categories {
		if strings.EqualFold(c, known) {
			return known
		}
	}
	if strings.EqualFold(c, CategoryOther) {
		return CategoryOther
	}
	return CategoryOther
}

// summaryContextLimit bounds the summary portion of a context line
const summaryContextLimit = 200

// ContextLine formats the link as a single-line context item for the model
func (l *Link) ContextLine() string {
	var sb strings.Builder
	if l.ID != 0 {
		sb.WriteString(fmt.Sprintf("ID: %d | ", l.ID))
	}
	if l.URL != "" {
		sb.WriteString(fmt.Sprintf("URL: <%s> | ", l.URL))
	}
	if l.Summary != "" {
		sb.WriteString("Summary: " + Truncate(l.Summary, summaryContextLimit))
	}
	return strings.TrimSuffix(sb.String(), " | ")
}

// IsActive reports whether the link is addressable by default queries
func (l *Link) IsActive() bool {
	return !l.Deleted
}

// Truncate bounds s to at most n runes
func Truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
