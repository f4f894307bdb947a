package usecase

import (
	"context"

	"github.com/featherlink/linkbot/internal/biz/domain"
	"github.com/featherlink/linkbot/internal/biz/repo"
	"github.com/featherlink/linkbot/internal/jsonutil"
	"github.com/featherlink/linkbot/internal/logger"
)

// ClassifierUsecase turns free-form user messages into structured commands
type ClassifierUsecase struct {
	modelRepo    repo.ModelRepo
	systemPrompt string
	log          logger.Logger
}

// NewClassifierUsecase creates a new classifier usecase
func NewClassifierUsecase(modelRepo repo.ModelRepo, systemPrompt string, log logger.Logger) *ClassifierUsecase {
	return &ClassifierUsecase{
		modelRepo:    modelRepo,
		systemPrompt: systemPrompt,
		log:          log,
	}
}

// Classify asks the model what operation the message calls for.
// Model errors, malformed replies, and unknown command types all degrade
// to the default classification so the message is handled as plain chat.
func (uc *ClassifierUsecase) Classify(ctx context.Context, commandText string) domain.Classification {
	raw, err := uc.modelRepo.Complete(ctx, uc.systemPrompt, commandText, true)
	if err != nil {
		uc.log.Warn("classification call failed", logger.Error(err))
		return domain.DefaultClassification()
	}
	return domain.ParseClassification(jsonutil.ExtractJSON(raw))
}
