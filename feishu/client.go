package feishu

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	lark "github.com/larksuite/oapi-sdk-go/v3"
	larkcore "github.com/larksuite/oapi-sdk-go/v3/core"
	"github.com/larksuite/oapi-sdk-go/v3/event/dispatcher"
	larkim "github.com/larksuite/oapi-sdk-go/v3/service/im/v1"
	larkws "github.com/larksuite/oapi-sdk-go/v3/ws"
)

// Message represents a received Feishu message
type Message struct {
	ChatID     string
	MsgID      string
	MsgType    string // text, post
	ChatType   string // p2p (private), group
	Content    string // Text content (extracted from all message types)
	Sender     *Sender
	CreateTime int64 // Message creation time (milliseconds Unix timestamp from Feishu)
}

// Sender represents the message sender
type Sender struct {
	SenderID   string // User ID or bot ID
	SenderType string // user, bot
}

// Reaction represents a reaction added to a message
type Reaction struct {
	MsgID      string
	EmojiType  string
	OperatorID string // open_id of the user who reacted
}

// HistoryMessage represents a message from chat history
type HistoryMessage struct {
	MsgID      string
	MsgType    string
	Content    string
	CreateTime string
	Sender     *Sender
}

// MessageHandler is the callback for received messages
type MessageHandler func(msg *Message)

// ReactionHandler is the callback for reactions added to messages
type ReactionHandler func(r *Reaction)

// Client is the Feishu API client
type Client struct {
	appID      string
	appSecret  string
	larkCli    *lark.Client
	wsCli      *larkws.Client
	onMessage  MessageHandler
	onReaction ReactionHandler
	ctx        context.Context
	cancel     context.CancelFunc
}

// NewClient creates a new Feishu client
func NewClient(appID, appSecret string) *Client {
	return &Client{
		appID:     appID,
		appSecret: appSecret,
	}
}

// OnMessage sets the message handler
func (c *Client) OnMessage(handler MessageHandler) {
	c.onMessage = handler
}

// OnReaction sets the reaction handler
func (c *Client) OnReaction(handler ReactionHandler) {
	c.onReaction = handler
}

// Start connects to Feishu via WebSocket and starts listening for events
func (c *Client) Start() error {
	c.ctx, c.cancel = context.WithCancel(context.Background())

	c.larkCli = lark.NewClient(c.appID, c.appSecret)

	// Handlers must return quickly so the SDK can send its ACK, otherwise
	// Feishu retries the event delivery.
	eventHandler := dispatcher.NewEventDispatcher("", "").
		OnP2MessageReceiveV1(func(ctx context.Context, event *larkim.P2MessageReceiveV1) error {
			go c.handleMessage(event)
			return nil
		}).
		OnP2MessageReactionCreatedV1(func(ctx context.Context, event *larkim.P2MessageReactionCreatedV1) error {
			go c.handleReaction(event)
			return nil
		})

	c.wsCli = larkws.NewClient(c.appID, c.appSecret,
		larkws.WithEventHandler(eventHandler),
		larkws.WithLogLevel(larkcore.LogLevelInfo),
	)

	// Start WebSocket (blocking)
	return c.wsCli.Start(c.ctx)
}

// Stop disconnects from Feishu
func (c *Client) Stop() {
	if c.cancel != nil {
		c.cancel()
	}
}

// handleMessage processes incoming Feishu messages
func (c *Client) handleMessage(event *larkim.P2MessageReceiveV1) {
	rawMsg := event.Event.Message
	if rawMsg == nil {
		return
	}

	// Ignore the bot's own messages to prevent loops
	if event.Event.Sender != nil && event.Event.Sender.SenderType != nil {
		if *event.Event.Sender.SenderType == "app" {
			return
		}
	}

	msg := &Message{
		ChatID:  *rawMsg.ChatId,
		MsgID:   *rawMsg.MessageId,
		MsgType: *rawMsg.MessageType,
	}

	if rawMsg.CreateTime != nil {
		if ts, err := strconv.ParseInt(*rawMsg.CreateTime, 10, 64); err == nil {
			msg.CreateTime = ts
		}
	}

	if rawMsg.ChatType != nil {
		msg.ChatType = *rawMsg.ChatType
	}

	if event.Event.Sender != nil {
		msg.Sender = &Sender{}
		if event.Event.Sender.SenderId != nil && event.Event.Sender.SenderId.OpenId != nil {
			msg.Sender.SenderID = *event.Event.Sender.SenderId.OpenId
		}
		if event.Event.Sender.SenderType != nil {
			msg.Sender.SenderType = *event.Event.Sender.SenderType
		}
	}

	switch msg.MsgType {
	case "text":
		msg.Content = parseTextContent(*rawMsg.Content)
	case "post":
		msg.Content = parsePostContent(*rawMsg.Content)
	default:
		// Unsupported message type
		return
	}

	if c.onMessage != nil {
		c.onMessage(msg)
	}
}

// handleReaction processes reaction-added events
func (c *Client) handleReaction(event *larkim.P2MessageReactionCreatedV1) {
	data := event.Event
	if data == nil || data.MessageId == nil || data.ReactionType == nil || data.ReactionType.EmojiType == nil {
		return
	}

	r := &Reaction{
		MsgID:     *data.MessageId,
		EmojiType: *data.ReactionType.EmojiType,
	}
	if data.UserId != nil && data.UserId.OpenId != nil {
		r.OperatorID = *data.UserId.OpenId
	}

	if c.onReaction != nil {
		c.onReaction(r)
	}
}

// parseTextContent extracts text from a text message payload
func parseTextContent(content string) string {
	var parsed struct {
		Text string `json:"text"`
	}
	if err := json.Unmarshal([]byte(content), &parsed); err != nil {
		return ""
	}
	return parsed.Text
}

// parsePostContent extracts plain text from a rich text (post) payload
func parsePostContent(content string) string {
	var parsed struct {
		Title   string `json:"title"`
		Content [][]struct {
			Tag  string `json:"tag"`
			Text string `json:"text,omitempty"`
			Href string `json:"href,omitempty"`
		} `json:"content"`
	}

	if err := json.Unmarshal([]byte(content), &parsed); err != nil {
		return ""
	}

	var parts []string
	if parsed.Title != "" {
		parts = append(parts, parsed.Title)
	}
	for _, line := range parsed.Content {
		var lineParts []string
		for _, elem := range line {
			switch elem.Tag {
			case "text":
				if elem.Text != "" {
					lineParts = append(lineParts, elem.Text)
				}
			case "a":
				if elem.Href != "" {
					lineParts = append(lineParts, elem.Href)
				}
			}
		}
		if len(lineParts) > 0 {
			parts = append(parts, strings.Join(lineParts, ""))
		}
	}
	return strings.Join(parts, "\n")
}

// SendText sends a text message to a chat and returns the new message id
func (c *Client) SendText(chatID, text string) (string, error) {
	content := map[string]string{"text": text}
	contentJSON, _ := json.Marshal(content)

	req := larkim.NewCreateMessageReqBuilder().
		ReceiveIdType(larkim.ReceiveIdTypeChatId).
		Body(larkim.NewCreateMessageReqBodyBuilder().
			ReceiveId(chatID).
			MsgType(larkim.MsgTypeText).
			Content(string(contentJSON)).
			Build()).
		Build()

	resp, err := c.larkCli.Im.Message.Create(context.Background(), req)
	if err != nil {
		return "", fmt.Errorf("send message failed: %w", err)
	}
	if !resp.Success() {
		return "", fmt.Errorf("send message error: %s", resp.Msg)
	}

	msgID := ""
	if resp.Data != nil && resp.Data.MessageId != nil {
		msgID = *resp.Data.MessageId
	}
	return msgID, nil
}

// DeleteMessage withdraws a message sent by the bot
func (c *Client) DeleteMessage(msgID string) error {
	req := larkim.NewDeleteMessageReqBuilder().
		MessageId(msgID).
		Build()

	resp, err := c.larkCli.Im.Message.Delete(context.Background(), req)
	if err != nil {
		return fmt.Errorf("delete message failed: %w", err)
	}
	if !resp.Success() {
		return fmt.Errorf("delete message error: %s", resp.Msg)
	}
	return nil
}

// GetMessage fetches a single message's text content and chat id
func (c *Client) GetMessage(msgID string) (chatID, content string, err error) {
	req := larkim.NewGetMessageReqBuilder().
		MessageId(msgID).
		Build()

	resp, err := c.larkCli.Im.Message.Get(context.Background(), req)
	if err != nil {
		return "", "", fmt.Errorf("get message failed: %w", err)
	}
	if !resp.Success() {
		return "", "", fmt.Errorf("get message error: %s", resp.Msg)
	}
	if len(resp.Data.Items) == 0 {
		return "", "", fmt.Errorf("message %s not found", msgID)
	}

	item := resp.Data.Items[0]
	if item.ChatId != nil {
		chatID = *item.ChatId
	}
	if item.Body != nil && item.Body.Content != nil {
		switch {
		case item.MsgType != nil && *item.MsgType == "text":
			content = parseTextContent(*item.Body.Content)
		case item.MsgType != nil && *item.MsgType == "post":
			content = parsePostContent(*item.Body.Content)
		default:
			content = *item.Body.Content
		}
	}
	return chatID, content, nil
}

// AddReaction adds an emoji reaction to a message
func (c *Client) AddReaction(msgID, emojiType string) error {
	req := larkim.NewCreateMessageReactionReqBuilder().
		MessageId(msgID).
		Body(larkim.NewCreateMessageReactionReqBodyBuilder().
			ReactionType(larkim.NewEmojiBuilder().EmojiType(emojiType).Build()).
			Build()).
		Build()

	resp, err := c.larkCli.Im.MessageReaction.Create(context.Background(), req)
	if err != nil {
		return fmt.Errorf("add reaction failed: %w", err)
	}
	if !resp.Success() {
		return fmt.Errorf("add reaction error: %s", resp.Msg)
	}
	return nil
}

// GetChatHistory retrieves recent messages from a chat
// pageSize: number of messages to retrieve (max 50)
// Returns messages in chronological order (oldest first, newest last)
func (c *Client) GetChatHistory(chatID string, pageSize int) ([]*HistoryMessage, error) {
	if pageSize > 50 {
		pageSize = 50
	}
	if pageSize <= 0 {
		pageSize = 20
	}

	// ByCreateTimeDesc gets the latest messages; the API default ascending
	// order would return messages from when the chat was created.
	req := larkim.NewListMessageReqBuilder().
		ContainerIdType("chat").
		ContainerId(chatID).
		SortType("ByCreateTimeDesc").
		PageSize(pageSize).
		Build()

	resp, err := c.larkCli.Im.Message.List(context.Background(), req)
	if err != nil {
		return nil, fmt.Errorf("get chat history failed: %w", err)
	}
	if !resp.Success() {
		return nil, fmt.Errorf("get chat history error: %s", resp.Msg)
	}

	var messages []*HistoryMessage
	for _, item := range resp.Data.Items {
		msg := &HistoryMessage{
			MsgID:      *item.MessageId,
			MsgType:    *item.MsgType,
			CreateTime: *item.CreateTime,
		}

		if item.Body != nil && item.Body.Content != nil {
			switch *item.MsgType {
			case "text":
				msg.Content = parseTextContent(*item.Body.Content)
			case "post":
				msg.Content = parsePostContent(*item.Body.Content)
			default:
				msg.Content = *item.Body.Content
			}
		}

		if item.Sender != nil {
			msg.Sender = &Sender{}
			if item.Sender.Id != nil {
				msg.Sender.SenderID = *item.Sender.Id
			}
			if item.Sender.SenderType != nil {
				msg.Sender.SenderType = *item.Sender.SenderType
			}
		}

		messages = append(messages, msg)
	}

	// Reverse to chronological order (oldest first, newest last)
	for i, j := 0, len(messages)-1; i < j; i, j = i+1, j-1 {
		messages[i], messages[j] = messages[j], messages[i]
	}

	return messages, nil
}

// GetChatOwner returns the open_id of the chat owner, used as the
// permission check for destructive reactions
func (c *Client) GetChatOwner(chatID string) (string, error) {
	req := larkim.NewGetChatReqBuilder().
		ChatId(chatID).
		Build()

	resp, err := c.larkCli.Im.Chat.Get(context.Background(), req)
	if err != nil {
		return "", fmt.Errorf("get chat info failed: %w", err)
	}
	if !resp.Success() {
		return "", fmt.Errorf("get chat info error: %s", resp.Msg)
	}
	if resp.Data.OwnerId == nil {
		return "", nil
	}
	return *resp.Data.OwnerId, nil
}
