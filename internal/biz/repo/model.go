package repo

import "context"

// ModelRepo is the language model interface
// It is the sole external dependency of the classifier, summarizer,
// relevance filter, and responder usecases.
type ModelRepo interface {
	// Complete sends a system prompt plus user content and returns the raw
	// reply text. jsonOnly requests a JSON-object response format.
	Complete(ctx context.Context, systemPrompt, userContent string, jsonOnly bool) (string, error)

	// Respond sends an ordered sequence of system messages followed by the
	// user content, for the final generation call where retrieval context
	// travels as its own system message.
	Respond(ctx context.Context, systemPrompts []string, userContent string) (string, error)
}
