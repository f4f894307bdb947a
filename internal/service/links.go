package service

import (
	"context"
	"fmt"
	"regexp"

	"github.com/featherlink/linkbot/internal/biz"
	"github.com/featherlink/linkbot/internal/biz/domain"
	"github.com/featherlink/linkbot/internal/biz/repo"
	"github.com/featherlink/linkbot/internal/logger"
)

// urlPattern matches shared URLs; angle brackets are excluded so URLs
// wrapped as <https://...> in confirmations parse cleanly
var urlPattern = regexp.MustCompile(`https?://[^\s<>]+`)

// savedEmoji marks a source message whose links were recorded
const savedEmoji = "DONE"

// SendFunc delivers a text message to a chat and returns the message id
type SendFunc func(chatID, text string) (string, error)

// DeleteFunc withdraws a previously sent message
type DeleteFunc func(msgID string) error

// ReactFunc adds an emoji reaction to a message
type ReactFunc func(msgID, emojiType string) error

// LinkService watches chats for shared URLs and records them
type LinkService struct {
	uc             *biz.Usecases
	linkRepo       repo.LinkRepo
	exclusionRepo  repo.ExclusionRepo
	sendText       SendFunc
	deleteMessage  DeleteFunc
	react          ReactFunc
	linksChatID    string
	productsChatID string
	log            logger.Logger
}

// NewLinkService creates a new link service
func NewLinkService(
	uc *biz.Usecases,
	linkRepo repo.LinkRepo,
	exclusionRepo repo.ExclusionRepo,
	sendText SendFunc,
	deleteMessage DeleteFunc,
	react ReactFunc,
	linksChatID, productsChatID string,
	log logger.Logger,
) *LinkService {
	return &LinkService{
		uc:             uc,
		linkRepo:       linkRepo,
		exclusionRepo:  exclusionRepo,
		sendText:       sendText,
		deleteMessage:  deleteMessage,
		react:          react,
		linksChatID:    linksChatID,
		productsChatID: productsChatID,
		log:            log,
	}
}

// ExtractURLs returns all URLs found in message content
func ExtractURLs(content string) []string {
	return urlPattern.FindAllString(content, -1)
}

// HandleMessage scans one message for URLs and ingests each. Messages
// from excluded chats are skipped entirely. The source message gets a
// confirmation reaction once at least one of its links is recorded.
func (s *LinkService) HandleMessage(ctx context.Context, chatID, msgID, content string) {
	urls := ExtractURLs(content)
	if len(urls) == 0 {
		return
	}

	excluded, err := s.exclusionRepo.GetExcludedChats(ctx)
	if err != nil {
		s.log.Warn("exclusion lookup failed", logger.Error(err))
	}
	for _, ex := range excluded {
		if ex == chatID {
			return
		}
	}

	saved := false
	for _, url := range urls {
		if s.ingestOne(ctx, url) {
			saved = true
		}
	}

	if saved && msgID != "" && s.react != nil {
		if err := s.react(msgID, savedEmoji); err != nil {
			s.log.Warn("saved reaction failed", logger.String("msg_id", msgID), logger.Error(err))
		}
	}
}

// ingestOne records a single URL with a loading notice in the links chat
// that is withdrawn once the result confirmation is posted. It reports
// whether the link was stored.
func (s *LinkService) ingestOne(ctx context.Context, url string) bool {
	loadingID, err := s.sendText(s.linksChatID, fmt.Sprintf("Loading data for <%s>...", url))
	if err != nil {
		s.log.Warn("loading notice failed", logger.String("url", url), logger.Error(err))
	}

	link, duplicate, ingestErr := s.uc.Ingest.Ingest(ctx, url)
	if ingestErr != nil {
		s.log.Error("link ingest failed", logger.String("url", url), logger.Error(ingestErr))
		if _, err := s.sendText(s.linksChatID, fmt.Sprintf("Failed to save <%s>", url)); err != nil {
			s.log.Warn("failure notice failed", logger.Error(err))
		}
	} else {
		confirmation := fmt.Sprintf("New link saved <%s>", url)
		if duplicate {
			confirmation = fmt.Sprintf("Duplicate link updated <%s>", url)
		}
		if _, err := s.sendText(s.linksChatID, confirmation); err != nil {
			s.log.Warn("confirmation failed", logger.Error(err))
		}

		if s.productsChatID != "" && link.Category == "Product/Service" {
			if _, err := s.sendText(s.productsChatID, fmt.Sprintf("New product saved <%s>", url)); err != nil {
				s.log.Warn("product notice failed", logger.Error(err))
			}
		}
	}

	if loadingID != "" {
		if err := s.deleteMessage(loadingID); err != nil {
			s.log.Warn("loading notice cleanup failed", logger.Error(err))
		}
	}
	return ingestErr == nil
}

// DeleteByURL soft-deletes the active link recorded for a URL. The second
// return value reports whether a matching active link existed.
func (s *LinkService) DeleteByURL(ctx context.Context, url string) (*domain.Link, bool, error) {
	link, err := s.linkRepo.GetLinkByURL(ctx, url)
	if err != nil {
		return nil, false, fmt.Errorf("look up link: %w", err)
	}
	if link == nil {
		return nil, false, nil
	}
	deleted, err := s.linkRepo.DeleteLink(ctx, link.ID)
	if err != nil {
		return nil, false, fmt.Errorf("delete link %d: %w", link.ID, err)
	}
	return link, deleted, nil
}
