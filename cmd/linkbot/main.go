package main

import (
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/featherlink/linkbot/feishu"
	"github.com/featherlink/linkbot/internal/biz"
	"github.com/featherlink/linkbot/internal/conf"
	"github.com/featherlink/linkbot/internal/data"
	"github.com/featherlink/linkbot/internal/logger"
	"github.com/featherlink/linkbot/internal/server"
	"github.com/featherlink/linkbot/internal/service"
	"github.com/featherlink/linkbot/openrouter"
)

func main() {
	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := conf.LoadFromEnv()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid config: %v", err)
	}

	logg := logger.New(cfg.LogLevel, cfg.LogPretty)
	defer logg.Sync()

	if err := os.MkdirAll(filepath.Dir(cfg.DB.Path), 0o755); err != nil {
		logg.Fatal("create data directory", logger.Error(err))
	}

	// Initialize clients
	feishuClient := feishu.NewClient(cfg.Feishu.AppID, cfg.Feishu.AppSecret)
	modelClient := openrouter.NewClient(cfg.OpenRouter.APIKey, cfg.OpenRouter.Model)

	// Initialize repository layer
	repos, err := data.NewRepositories(modelClient, cfg.DB.Path)
	if err != nil {
		logg.Fatal("create repositories", logger.Error(err))
	}
	defer repos.Close()
	logg.Info("database opened", logger.String("path", cfg.DB.Path))

	// Initialize usecase layer
	usecases := biz.NewUsecases(repos, cfg.Prompts, logg)

	// Initialize service layer
	commandSvc := service.NewCommandService(
		usecases,
		repos.Link,
		repos.Exclusion,
		chatHistory(feishuClient),
		cfg.ContextMessageCount,
		logg,
	)
	linkSvc := service.NewLinkService(
		usecases,
		repos.Link,
		repos.Exclusion,
		feishuClient.SendText,
		feishuClient.DeleteMessage,
		feishuClient.AddReaction,
		cfg.Chats.LinksChatID,
		cfg.Chats.ProductsChatID,
		logg,
	)
	scheduler := service.NewDigestScheduler(
		repos.Link,
		feishuClient.SendText,
		cfg.Chats.LinksChatID,
		cfg.DigestCron,
		logg,
	)

	srv := server.NewFeishuServer(
		feishuClient,
		commandSvc,
		linkSvc,
		scheduler,
		cfg.Chats.CommandChatID,
		cfg.Chats.LinksChatID,
		logg,
	)

	// Graceful shutdown
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		logg.Info("shutting down")
		srv.Stop()
		repos.Close()
		logg.Sync()
		os.Exit(0)
	}()

	logg.Info("starting linkbot",
		logger.String("links_chat", cfg.Chats.LinksChatID),
		logger.String("command_chat", cfg.Chats.CommandChatID))
	if err := srv.Start(); err != nil {
		logg.Fatal("server exited", logger.Error(err))
	}
}

// chatHistory adapts the Feishu history API into "sender: text" lines
func chatHistory(client *feishu.Client) service.HistoryFunc {
	return func(chatID string, limit int) ([]string, error) {
		messages, err := client.GetChatHistory(chatID, limit)
		if err != nil {
			return nil, err
		}
		lines := make([]string, 0, len(messages))
		for _, msg := range messages {
			sender := "unknown"
			if msg.Sender != nil && msg.Sender.SenderID != "" {
				sender = msg.Sender.SenderID
			}
			lines = append(lines, sender+": "+msg.Content)
		}
		return lines, nil
	}
}
