package domain

import "encoding/json"

// CommandType is the operation the classifier selected for a user command
type CommandType string

const (
	// CommandNone answers directly from the raw command text
	CommandNone CommandType = "NONE"
	// CommandSearch looks up stored links and formats them as context
	CommandSearch CommandType = "SEARCH"
	// CommandSearchAndScrape narrows the lookup to relevant links and
	// refreshes each with freshly fetched content
	CommandSearchAndScrape CommandType = "SEARCH_AND_SCRAPE"
)

// Classification is the structured result of interpreting one user command.
// It is built fresh per command and never persisted.
type Classification struct {
	Type          CommandType
	TimeframeDays *int
	MaxResults    *int
}

// DefaultClassification is the safe fallback: treat the command as plain chat
func DefaultClassification() Classification {
	return Classification{Type: CommandNone}
}

// NeedsLookup reports whether the classification requires a store query
func (c Classification) NeedsLookup() bool {
	return c.Type == CommandSearch || c.Type == CommandSearchAndScrape
}

// classificationPayload mirrors the JSON shape the classifier model returns
type classificationPayload struct {
	CommandType   string `json:"command_type"`
	TimeframeDays *int   `json:"timeframe_days"`
	MaxResults    *int   `json:"max_results"`
}

// ParseClassification parses a model reply into a Classification.
// Malformed JSON, a missing command_type, or an unknown command_type all
// resolve to DefaultClassification; parsing never fails.
func ParseClassification(raw string) Classification {
	var payload classificationPayload
	if err := json.Unmarshal([]byte(raw), &payload); err != nil {
		return DefaultClassification()
	}

	var cmdType CommandType
	switch CommandType(payload.CommandType) {
	case CommandSearch:
		cmdType = CommandSearch
	case CommandSearchAndScrape:
		cmdType = CommandSearchAndScrape
	case CommandNone:
		cmdType = CommandNone
	default:
		return DefaultClassification()
	}

	return Classification{
		Type:          cmdType,
		TimeframeDays: payload.TimeframeDays,
		MaxResults:    payload.MaxResults,
	}
}
