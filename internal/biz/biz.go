package biz

import (
	"github.com/featherlink/linkbot/internal/biz/usecase"
	"github.com/featherlink/linkbot/internal/conf"
	"github.com/featherlink/linkbot/internal/data"
	"github.com/featherlink/linkbot/internal/logger"
)

// Usecases contains all usecases
type Usecases struct {
	Classifier *usecase.ClassifierUsecase
	Context    *usecase.ContextBuilderUsecase
	Relevance  *usecase.RelevanceUsecase
	Responder  *usecase.ResponderUsecase
	Summarizer *usecase.SummarizerUsecase
	Ingest     *usecase.IngestUsecase
}

// NewUsecases wires all usecases onto the repositories
func NewUsecases(repos *data.Repositories, prompts *conf.PromptsConfig, log logger.Logger) *Usecases {
	relevance := usecase.NewRelevanceUsecase(repos.Model, prompts.RelevanceSystem, log)
	summarizer := usecase.NewSummarizerUsecase(repos.Model, prompts.SummarizeSystem, log)
	return &Usecases{
		Classifier: usecase.NewClassifierUsecase(repos.Model, prompts.ClassifySystem, log),
		Context:    usecase.NewContextBuilderUsecase(repos.Content, relevance, log),
		Relevance:  relevance,
		Responder:  usecase.NewResponderUsecase(repos.Model, prompts.ResponderSystem),
		Summarizer: summarizer,
		Ingest:     usecase.NewIngestUsecase(repos.Link, repos.Content, summarizer, log),
	}
}
