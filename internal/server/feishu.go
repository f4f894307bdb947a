package server

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/featherlink/linkbot/feishu"
	"github.com/featherlink/linkbot/internal/biz/domain"
	"github.com/featherlink/linkbot/internal/logger"
	"github.com/featherlink/linkbot/internal/service"
)

// deleteEmoji is the reaction that soft-deletes a recorded link
const deleteEmoji = "CrossMark"

// FeishuServer routes Feishu events to the command and link services
type FeishuServer struct {
	feishuClient  *feishu.Client
	commandSvc    *service.CommandService
	linkSvc       *service.LinkService
	scheduler     *service.DigestScheduler
	commandChatID string
	linksChatID   string
	log           logger.Logger

	// Message deduplication cache
	seenMsgsMu sync.RWMutex
	seenMsgs   map[string]time.Time
}

// NewFeishuServer creates a new Feishu server
func NewFeishuServer(
	feishuClient *feishu.Client,
	commandSvc *service.CommandService,
	linkSvc *service.LinkService,
	scheduler *service.DigestScheduler,
	commandChatID, linksChatID string,
	log logger.Logger,
) *FeishuServer {
	return &FeishuServer{
		feishuClient:  feishuClient,
		commandSvc:    commandSvc,
		linkSvc:       linkSvc,
		scheduler:     scheduler,
		commandChatID: commandChatID,
		linksChatID:   linksChatID,
		log:           log,
		seenMsgs:      make(map[string]time.Time),
	}
}

// Start starts the digest scheduler and blocks on the Feishu event loop
func (s *FeishuServer) Start() error {
	if s.scheduler != nil {
		if err := s.scheduler.Start(); err != nil {
			return err
		}
	}

	s.feishuClient.OnMessage(s.handleMessage)
	s.feishuClient.OnReaction(s.handleReaction)
	return s.feishuClient.Start()
}

// Stop stops the server
func (s *FeishuServer) Stop() {
	if s.scheduler != nil {
		s.scheduler.Stop()
	}
	s.feishuClient.Stop()
}

// handleMessage routes one incoming message. Command-chat messages go
// through the command pipeline; every chat is scanned for shared links.
func (s *FeishuServer) handleMessage(msg *feishu.Message) {
	s.log.Debug("message received",
		logger.String("chat_id", msg.ChatID),
		logger.String("msg_type", msg.MsgType),
		logger.String("content", domain.Truncate(msg.Content, 50)))

	// Feishu redelivers events that were not acked in time
	if s.isMessageSeen(msg.MsgID) {
		s.log.Debug("duplicate message ignored", logger.String("msg_id", msg.MsgID))
		return
	}
	s.markMessageSeen(msg.MsgID)

	ctx := context.Background()

	if msg.ChatID == s.commandChatID {
		reply := s.commandSvc.Handle(ctx, msg.ChatID, msg.Content)
		if reply != "" {
			if _, err := s.feishuClient.SendText(msg.ChatID, reply); err != nil {
				s.log.Error("reply send failed", logger.Error(err))
			}
		}
		return
	}

	s.linkSvc.HandleMessage(ctx, msg.ChatID, msg.MsgID, msg.Content)
}

// handleReaction soft-deletes a link when the chat owner marks its
// confirmation message with the delete emoji
func (s *FeishuServer) handleReaction(r *feishu.Reaction) {
	if r.EmojiType != deleteEmoji {
		return
	}

	chatID, content, err := s.feishuClient.GetMessage(r.MsgID)
	if err != nil {
		s.log.Warn("reaction message lookup failed", logger.String("msg_id", r.MsgID), logger.Error(err))
		return
	}
	if chatID != s.linksChatID {
		return
	}

	owner, err := s.feishuClient.GetChatOwner(chatID)
	if err != nil {
		s.log.Warn("chat owner lookup failed", logger.Error(err))
		return
	}
	if owner == "" || owner != r.OperatorID {
		return
	}

	urls := service.ExtractURLs(content)
	if len(urls) == 0 {
		return
	}

	ctx := context.Background()
	link, deleted, err := s.linkSvc.DeleteByURL(ctx, urls[0])
	if err != nil {
		s.log.Error("reaction delete failed", logger.String("url", urls[0]), logger.Error(err))
		s.notify(chatID, "Failed to delete link from database!")
		return
	}
	if link == nil || !deleted {
		s.notify(chatID, "Could not find matching link in database!")
		return
	}

	if err := s.feishuClient.DeleteMessage(r.MsgID); err != nil {
		s.log.Warn("message withdrawal failed", logger.String("msg_id", r.MsgID), logger.Error(err))
		s.notify(chatID, fmt.Sprintf("Link %d deleted, but the message could not be withdrawn", link.ID))
		return
	}
	s.notify(chatID, "Link successfully deleted!")
}

func (s *FeishuServer) notify(chatID, text string) {
	if _, err := s.feishuClient.SendText(chatID, text); err != nil {
		s.log.Warn("notification failed", logger.Error(err))
	}
}

// isMessageSeen checks if a message has been processed
func (s *FeishuServer) isMessageSeen(msgID string) bool {
	s.seenMsgsMu.RLock()
	defer s.seenMsgsMu.RUnlock()
	_, exists := s.seenMsgs[msgID]
	return exists
}

// markMessageSeen marks a message as processed and evicts stale entries
func (s *FeishuServer) markMessageSeen(msgID string) {
	s.seenMsgsMu.Lock()
	defer s.seenMsgsMu.Unlock()
	s.seenMsgs[msgID] = time.Now()

	cutoff := time.Now().Add(-5 * time.Minute)
	for id, ts := range s.seenMsgs {
		if ts.Before(cutoff) {
			delete(s.seenMsgs, id)
		}
	}
}
