package usecase

import (
	"context"
	"encoding/json"

	"github.com/featherlink/linkbot/internal/biz/domain"
	"github.com/featherlink/linkbot/internal/biz/repo"
	"github.com/featherlink/linkbot/internal/jsonutil"
	"github.com/featherlink/linkbot/internal/logger"
)

const (
	// summaryInputLimit caps how much page content is sent to the model
	summaryInputLimit = 10000

	fallbackSummary = "No summary available"
)

// SummarizerUsecase produces the stored summary and category for a page
type SummarizerUsecase struct {
	modelRepo    repo.ModelRepo
	systemPrompt string
	log          logger.Logger
}

// NewSummarizerUsecase creates a new summarizer usecase
func NewSummarizerUsecase(modelRepo repo.ModelRepo, systemPrompt string, log logger.Logger) *SummarizerUsecase {
	return &SummarizerUsecase{
		modelRepo:    modelRepo,
		systemPrompt: systemPrompt,
		log:          log,
	}
}

type summaryPayload struct {
	Summary  string `json:"summary"`
	Category string `json:"category"`
}

// Summarize returns a summary and category for the content. Failures fall
// back to a placeholder summary and the catch-all category so a link is
// still recorded.
func (uc *SummarizerUsecase) Summarize(ctx context.Context, content string) (string, string) {
	raw, err := uc.modelRepo.Complete(ctx, uc.systemPrompt, domain.Truncate(content, summaryInputLimit), true)
	if err != nil {
		uc.log.Warn("summary call failed", logger.Error(err))
		return fallbackSummary, domain.CategoryOther
	}

	var payload summaryPayload
	if err := json.Unmarshal([]byte(jsonutil.ExtractJSON(raw)), &payload); err != nil {
		uc.log.Warn("summary parse failed", logger.Error(err), logger.String("raw", raw))
		return fallbackSummary, domain.CategoryOther
	}

	summary := payload.Summary
	if summary == "" {
		summary = fallbackSummary
	}
	return summary, domain.NormalizeCategory(payload.Category)
}
