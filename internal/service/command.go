package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/featherlink/linkbot/internal/biz"
	"github.com/featherlink/linkbot/internal/biz/domain"
	"github.com/featherlink/linkbot/internal/biz/repo"
	"github.com/featherlink/linkbot/internal/logger"
)

const (
	// replyLimit is the transport's message size limit
	replyLimit = 2000

	noResultsReply    = "No relevant links found in my records."
	genericErrorReply = "Error processing your request."
	unknownCmdReply   = "Unknown command. Try !help for the list of commands."
)

// HistoryFunc retrieves recent chat messages as "sender: text" lines in
// chronological order, used as ambient context for plain chat replies
type HistoryFunc func(chatID string, limit int) ([]string, error)

// CommandService handles messages arriving in the command chat: explicit
// "!" commands and free-form queries routed through the model pipeline
type CommandService struct {
	uc            *biz.Usecases
	linkRepo      repo.LinkRepo
	exclusionRepo repo.ExclusionRepo
	history       HistoryFunc
	contextCount  int
	log           logger.Logger
}

// NewCommandService creates a new command service
func NewCommandService(
	uc *biz.Usecases,
	linkRepo repo.LinkRepo,
	exclusionRepo repo.ExclusionRepo,
	history HistoryFunc,
	contextCount int,
	log logger.Logger,
) *CommandService {
	return &CommandService{
		uc:            uc,
		linkRepo:      linkRepo,
		exclusionRepo: exclusionRepo,
		history:       history,
		contextCount:  contextCount,
		log:           log,
	}
}

// Handle processes one command-chat message and returns the reply text,
// already bounded to the transport limit
func (s *CommandService) Handle(ctx context.Context, chatID, content string) string {
	inv, isPrefix := domain.ParseInvocation(content)
	if isPrefix {
		if inv == nil {
			return unknownCmdReply
		}
		return domain.Truncate(s.dispatch(ctx, inv), replyLimit)
	}
	return domain.Truncate(s.handleQuery(ctx, chatID, content), replyLimit)
}

// dispatch routes a recognized prefix command to its handler
func (s *CommandService) dispatch(ctx context.Context, inv *domain.Invocation) string {
	switch inv.Command {
	case domain.PrefixHelp:
		return s.handleHelp(inv)
	case domain.PrefixDisplayLinks:
		return s.handleDisplayLinks(ctx, inv)
	case domain.PrefixCategorized:
		return s.handleCategorizedLinks(ctx)
	case domain.PrefixDelete:
		return s.handleDelete(ctx, inv)
	case domain.PrefixRestore:
		return s.handleRestore(ctx, inv)
	case domain.PrefixExclude:
		return s.handleExclude(ctx, inv)
	case domain.PrefixUnexclude:
		return s.handleUnexclude(ctx, inv)
	case domain.PrefixListExcluded:
		return s.handleListExcluded(ctx)
	default:
		return unknownCmdReply
	}
}

// handleQuery runs the model pipeline: classify, query the store, build
// context, generate. Each stage degrades rather than failing the whole
// flow; only the final generation call surfaces as a generic error.
func (s *CommandService) handleQuery(ctx context.Context, chatID, content string) string {
	classification := s.uc.Classifier.Classify(ctx, content)
	s.log.Info("command classified",
		logger.String("type", string(classification.Type)),
		logger.String("command", domain.Truncate(content, 80)))

	if !classification.NeedsLookup() {
		return s.respondPlain(ctx, chatID, content)
	}

	links, err := s.linkRepo.GetRecentLinks(ctx, classification.TimeframeDays, classification.MaxResults)
	if err != nil {
		s.log.Error("link lookup failed", logger.Error(err))
		return genericErrorReply
	}
	if len(links) == 0 {
		return noResultsReply
	}

	contextItems := s.uc.Context.Build(ctx, classification.Type, content, links)
	reply, err := s.uc.Responder.Respond(ctx, content, contextItems)
	if err != nil {
		s.log.Error("response generation failed", logger.Error(err))
		return genericErrorReply
	}
	return reply
}

// respondPlain answers a message classified as plain chat, folding in
// recent chat history when available
func (s *CommandService) respondPlain(ctx context.Context, chatID, content string) string {
	var contextItems []string
	if s.history != nil && s.contextCount > 0 {
		lines, err := s.history(chatID, s.contextCount)
		if err != nil {
			s.log.Warn("chat history fetch failed", logger.Error(err))
		} else {
			contextItems = lines
		}
	}

	reply, err := s.uc.Responder.Respond(ctx, content, contextItems)
	if err != nil {
		s.log.Error("response generation failed", logger.Error(err))
		return genericErrorReply
	}
	return reply
}

func (s *CommandService) handleDisplayLinks(ctx context.Context, inv *domain.Invocation) string {
	links, err := s.linkRepo.GetAllLinks(ctx, inv.HasFlag("-d"))
	if err != nil {
		s.log.Error("display links failed", logger.Error(err))
		return genericErrorReply
	}
	return formatDisplayLinks(links)
}

func (s *CommandService) handleCategorizedLinks(ctx context.Context) string {
	byCategory, err := s.linkRepo.GetLinksByCategory(ctx)
	if err != nil {
		s.log.Error("categorized links failed", logger.Error(err))
		return genericErrorReply
	}
	return formatCategorizedLinks(byCategory)
}

func (s *CommandService) handleDelete(ctx context.Context, inv *domain.Invocation) string {
	id, ok := inv.LinkID()
	if !ok {
		return "Invalid syntax. Use: !delete <link_id>"
	}
	deleted, err := s.linkRepo.DeleteLink(ctx, id)
	if err != nil {
		s.log.Error("delete link failed", logger.Int64("id", id), logger.Error(err))
		return genericErrorReply
	}
	if !deleted {
		return fmt.Sprintf("Link %d not found", id)
	}
	return fmt.Sprintf("Link %d deleted", id)
}

func (s *CommandService) handleRestore(ctx context.Context, inv *domain.Invocation) string {
	id, ok := inv.LinkID()
	if !ok {
		return "Invalid syntax. Use: !restore <link_id>"
	}
	restored, err := s.linkRepo.RestoreLink(ctx, id)
	if err != nil {
		s.log.Error("restore link failed", logger.Int64("id", id), logger.Error(err))
		return genericErrorReply
	}
	if !restored {
		return fmt.Sprintf("Link %d not found", id)
	}
	return fmt.Sprintf("Link %d restored", id)
}

func (s *CommandService) handleExclude(ctx context.Context, inv *domain.Invocation) string {
	chatID, ok := inv.ChatID()
	if !ok {
		return "Invalid syntax. Use: !exclude <chat_id>"
	}
	added, err := s.exclusionRepo.AddExcludedChat(ctx, chatID)
	if err != nil {
		s.log.Error("exclude chat failed", logger.String("chat_id", chatID), logger.Error(err))
		return genericErrorReply
	}
	if !added {
		return fmt.Sprintf("Chat %s is already excluded", chatID)
	}
	return fmt.Sprintf("Chat %s excluded from link scanning", chatID)
}

func (s *CommandService) handleUnexclude(ctx context.Context, inv *domain.Invocation) string {
	chatID, ok := inv.ChatID()
	if !ok {
		return "Invalid syntax. Use: !unexclude <chat_id>"
	}
	removed, err := s.exclusionRepo.RemoveExcludedChat(ctx, chatID)
	if err != nil {
		s.log.Error("unexclude chat failed", logger.String("chat_id", chatID), logger.Error(err))
		return genericErrorReply
	}
	if !removed {
		return fmt.Sprintf("Chat %s was not excluded", chatID)
	}
	return fmt.Sprintf("Chat %s removed from exclusion list", chatID)
}

func (s *CommandService) handleListExcluded(ctx context.Context) string {
	excluded, err := s.exclusionRepo.GetExcludedChats(ctx)
	if err != nil {
		s.log.Error("list excluded failed", logger.Error(err))
		return genericErrorReply
	}
	if len(excluded) == 0 {
		return "**Excluded Chats**:\n- None"
	}
	var sb strings.Builder
	sb.WriteString("**Excluded Chats**:\n")
	for _, chatID := range excluded {
		sb.WriteString("- " + chatID + "\n")
	}
	return strings.TrimSuffix(sb.String(), "\n")
}

// formatDisplayLinks renders links as an ID | URL | status listing
func formatDisplayLinks(links []*domain.Link) string {
	if len(links) == 0 {
		return "No links found."
	}
	var sb strings.Builder
	sb.WriteString("**Links (ID | URL | Status)**\n")
	for _, link := range links {
		status := "✅ Active"
		if link.Deleted {
			status = "❌ Deleted"
		}
		sb.WriteString(fmt.Sprintf("- %d: <%s> - %s\n", link.ID, link.URL, status))
	}
	return sb.String()
}

// formatCategorizedLinks renders active links grouped by category
func formatCategorizedLinks(byCategory map[string][]*domain.Link) string {
	if len(byCategory) == 0 {
		return "No links found in database"
	}
	var sb strings.Builder
	sb.WriteString("**Categorized Links**\n\n")
	// Fixed label order keeps the output stable between invocations
	categories := append(append([]string{}, domain.Categories...), domain.CategoryOther)
	for _, category := range categories {
		links := byCategory[category]
		if len(links) == 0 {
			continue
		}
		sb.WriteString(fmt.Sprintf("**%s** (%d links):\n", strings.ToUpper(category), len(links)))
		for _, link := range links {
			sb.WriteString(fmt.Sprintf("- [%d] %s\n", link.ID, link.URL))
			sb.WriteString(fmt.Sprintf("  Summary: %s\n", domain.Truncate(link.Summary, 150)))
		}
		sb.WriteString("\n")
	}
	return strings.TrimSpace(sb.String())
}
