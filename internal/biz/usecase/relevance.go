package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/featherlink/linkbot/internal/biz/repo"
	"github.com/featherlink/linkbot/internal/jsonutil"
	"github.com/featherlink/linkbot/internal/logger"
)

// RelevanceUsecase asks the model which stored links matter for a query
type RelevanceUsecase struct {
	modelRepo    repo.ModelRepo
	systemPrompt string
	log          logger.Logger
}

// NewRelevanceUsecase creates a new relevance usecase
func NewRelevanceUsecase(modelRepo repo.ModelRepo, systemPrompt string, log logger.Logger) *RelevanceUsecase {
	return &RelevanceUsecase{
		modelRepo:    modelRepo,
		systemPrompt: systemPrompt,
		log:          log,
	}
}

// relevancePayload mirrors the JSON shape the relevance model returns.
// IDs arrive as strings or numbers depending on the model, so both are
// accepted and normalized to decimal strings.
type relevancePayload struct {
	LinkIDs []linkID `json:"link_ids"`
}

type linkID string

func (id *linkID) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*id = linkID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*id = linkID(n.String())
	return nil
}

// Filter returns the set of link ids the model judged relevant, keyed by
// their decimal string form. On any failure it returns an empty set:
// nothing judged relevant rather than guessing.
func (uc *RelevanceUsecase) Filter(ctx context.Context, query string, formattedLinks []string) map[string]bool {
	relevant := make(map[string]bool)

	userContent := fmt.Sprintf("Query: %s\nLinks:\n%s", query, strings.Join(formattedLinks, "\n"))
	raw, err := uc.modelRepo.Complete(ctx, uc.systemPrompt, userContent, true)
	if err != nil {
		uc.log.Warn("relevance call failed", logger.Error(err))
		return relevant
	}

	var payload relevancePayload
	if err := json.Unmarshal([]byte(jsonutil.ExtractJSON(raw)), &payload); err != nil {
		uc.log.Warn("relevance parse failed", logger.Error(err), logger.String("raw", raw))
		return relevant
	}

	for _, id := range payload.LinkIDs {
		relevant[string(id)] = true
	}
	return relevant
}
