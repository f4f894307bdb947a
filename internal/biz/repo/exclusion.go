package repo

import "context"

// ExclusionRepo manages the set of chats excluded from link scanning
type ExclusionRepo interface {
	// AddExcludedChat adds a chat to the exclusion list; false when it was
	// already excluded
	AddExcludedChat(ctx context.Context, chatID string) (bool, error)

	// RemoveExcludedChat removes a chat from the exclusion list; false when
	// it was not excluded
	RemoveExcludedChat(ctx context.Context, chatID string) (bool, error)

	// GetExcludedChats lists all excluded chat ids
	GetExcludedChats(ctx context.Context) ([]string, error)

	// Close releases the underlying store
	Close() error
}
