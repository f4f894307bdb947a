package conf

import (
	"os"
	"path/filepath"
	"strconv"
)

// Config represents application configuration
type Config struct {
	// Feishu configuration
	Feishu FeishuConfig

	// OpenRouter configuration
	OpenRouter OpenRouterConfig

	// Chat routing configuration
	Chats ChatConfig

	// Database configuration
	DB DBConfig

	// Prompts configuration (loaded from YAML)
	Prompts *PromptsConfig

	// Number of recent command-chat messages supplied as ambient context
	ContextMessageCount int

	// Daily digest cron spec, empty disables the digest
	DigestCron string

	// Logging
	LogLevel  string
	LogPretty bool

	promptsErr error
}

// FeishuConfig contains Feishu app credentials
type FeishuConfig struct {
	AppID     string
	AppSecret string
}

// OpenRouterConfig contains OpenRouter API configuration
type OpenRouterConfig struct {
	APIKey string
	Model  string
}

// ChatConfig names the chats the bot routes between
type ChatConfig struct {
	LinksChatID    string // where link confirmations and digests are posted
	CommandChatID  string // where commands and queries are handled
	ProductsChatID string // optional, Product/Service announcements
}

// DBConfig contains database configuration
type DBConfig struct {
	Path string
}

// LoadFromEnv loads configuration from environment variables
func LoadFromEnv() *Config {
	dbPath := os.Getenv("LINKS_DB_PATH")
	if dbPath == "" {
		homeDir, _ := os.UserHomeDir()
		dbPath = filepath.Join(homeDir, ".linkbot", "links.db")
	}

	contextCount := 5
	if val := os.Getenv("CONTEXT_MESSAGE_COUNT"); val != "" {
		if parsed, err := strconv.Atoi(val); err == nil && parsed >= 0 {
			contextCount = parsed
		}
	}

	model := os.Getenv("OPENROUTER_MODEL")
	if model == "" {
		model = "deepseek/deepseek-chat"
	}

	logLevel := os.Getenv("LOG_LEVEL")
	if logLevel == "" {
		logLevel = "info"
	}

	// Load prompts from YAML, surfacing parse failures through Validate
	promptsConfig, promptsErr := LoadPromptsConfig(os.Getenv("PROMPTS_CONFIG_PATH"))

	return &Config{
		Feishu: FeishuConfig{
			AppID:     os.Getenv("FEISHU_APP_ID"),
			AppSecret: os.Getenv("FEISHU_APP_SECRET"),
		},
		OpenRouter: OpenRouterConfig{
			APIKey: os.Getenv("OPENROUTER_API_KEY"),
			Model:  model,
		},
		Chats: ChatConfig{
			LinksChatID:    os.Getenv("LINKS_CHAT_ID"),
			CommandChatID:  os.Getenv("COMMAND_CHAT_ID"),
			ProductsChatID: os.Getenv("PRODUCTS_CHAT_ID"),
		},
		DB: DBConfig{
			Path: dbPath,
		},
		Prompts:             promptsConfig,
		ContextMessageCount: contextCount,
		DigestCron:          os.Getenv("DIGEST_CRON"),
		LogLevel:            logLevel,
		LogPretty:           os.Getenv("LOG_PRETTY") == "true",
		promptsErr:          promptsErr,
	}
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Feishu.AppID == "" || c.Feishu.AppSecret == "" {
		return &ConfigError{Field: "FEISHU_APP_ID/FEISHU_APP_SECRET", Message: "required"}
	}
	if c.OpenRouter.APIKey == "" {
		return &ConfigError{Field: "OPENROUTER_API_KEY", Message: "required"}
	}
	if c.Chats.LinksChatID == "" {
		return &ConfigError{Field: "LINKS_CHAT_ID", Message: "required"}
	}
	if c.promptsErr != nil {
		return &ConfigError{Field: "PROMPTS_CONFIG_PATH", Message: c.promptsErr.Error()}
	}
	if c.Prompts == nil {
		return &ConfigError{Field: "PROMPTS_CONFIG_PATH", Message: "prompts not loaded"}
	}
	return nil
}

// ConfigError represents a configuration error
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return e.Field + ": " + e.Message
}
