package data

import (
	"context"

	openai "github.com/sashabaranov/go-openai"

	"github.com/featherlink/linkbot/internal/biz/repo"
	"github.com/featherlink/linkbot/openrouter"
)

// modelRepo implements the language model repository on OpenRouter
type modelRepo struct {
	client *openrouter.Client
}

// NewModelRepo creates an OpenRouter-backed model repository
func NewModelRepo(client *openrouter.Client) repo.ModelRepo {
	return &modelRepo{client: client}
}

// Complete sends a single system prompt plus user content.
// JSON-only calls run at low temperature for deterministic structure.
func (r *modelRepo) Complete(ctx context.Context, systemPrompt, userContent string, jsonOnly bool) (string, error) {
	opts := openrouter.Options{JSONOnly: jsonOnly}
	if jsonOnly {
		opts.Temperature = 0.3
	}
	return r.client.Complete(ctx, systemPrompt, userContent, opts)
}

// Respond sends the generation-call message sequence: persona and optional
// context as separate system messages, then the user query
func (r *modelRepo) Respond(ctx context.Context, systemPrompts []string, userContent string) (string, error) {
	messages := make([]openai.ChatCompletionMessage, 0, len(systemPrompts)+1)
	for _, p := range systemPrompts {
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    openai.ChatMessageRoleSystem,
			Content: p,
		})
	}
	messages = append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleUser,
		Content: userContent,
	})

	return r.client.CompleteMessages(ctx, messages, openrouter.Options{
		Temperature: 0.6,
		MaxTokens:   3500,
	})
}
