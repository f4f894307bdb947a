package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/featherlink/linkbot/internal/biz/repo"
)

// ResponderUsecase produces the final natural-language reply
type ResponderUsecase struct {
	modelRepo    repo.ModelRepo
	systemPrompt string
}

// NewResponderUsecase creates a new responder usecase
func NewResponderUsecase(modelRepo repo.ModelRepo, systemPrompt string) *ResponderUsecase {
	return &ResponderUsecase{
		modelRepo:    modelRepo,
		systemPrompt: systemPrompt,
	}
}

// Respond generates the reply for a query. Context items, when present,
// travel as a second system message so the persona instruction stays
// separate from the retrieved material. Errors propagate; the caller
// shows a generic failure message.
func (uc *ResponderUsecase) Respond(ctx context.Context, query string, contextItems []string) (string, error) {
	systemPrompts := []string{uc.systemPrompt}
	if len(contextItems) > 0 {
		systemPrompts = append(systemPrompts, "CONTEXT:\n"+strings.Join(contextItems, "\n\n"))
	}

	reply, err := uc.modelRepo.Respond(ctx, systemPrompts, query)
	if err != nil {
		return "", fmt.Errorf("generate response: %w", err)
	}
	return reply, nil
}
