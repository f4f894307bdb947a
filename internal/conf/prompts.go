package conf

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/featherlink/linkbot/internal/biz/domain"
)

// PromptsConfig contains all prompt configurations loaded from YAML
type PromptsConfig struct {
	ClassifySystem  string `yaml:"classify_system"`
	SummarizeSystem string `yaml:"summarize_system"`
	RelevanceSystem string `yaml:"relevance_system"`
	ResponderSystem string `yaml:"responder_system"`
}

// LoadPromptsConfig loads prompts configuration from a YAML file.
// Missing files are not an error; defaults are used.
func LoadPromptsConfig(configPath string) (*PromptsConfig, error) {
	paths := []string{configPath}
	if configPath == "" {
		paths = []string{
			"configs/prompts.yaml",
			"./configs/prompts.yaml",
			"/etc/linkbot/prompts.yaml",
		}
		if execPath, err := os.Executable(); err == nil {
			paths = append(paths, filepath.Join(filepath.Dir(execPath), "configs", "prompts.yaml"))
		}
	}

	var data []byte
	for _, p := range paths {
		if p == "" {
			continue
		}
		if b, err := os.ReadFile(p); err == nil {
			data = b
			break
		}
	}

	if data == nil {
		return DefaultPromptsConfig(), nil
	}

	var config PromptsConfig
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse prompts.yaml: %w", err)
	}

	config.fillDefaults()
	return &config, nil
}

// fillDefaults fills in default values for empty fields
func (c *PromptsConfig) fillDefaults() {
	defaults := DefaultPromptsConfig()

	if c.ClassifySystem == "" {
		c.ClassifySystem = defaults.ClassifySystem
	}
	if c.SummarizeSystem == "" {
		c.SummarizeSystem = defaults.SummarizeSystem
	}
	if c.RelevanceSystem == "" {
		c.RelevanceSystem = defaults.RelevanceSystem
	}
	if c.ResponderSystem == "" {
		c.ResponderSystem = defaults.ResponderSystem
	}
}

// DefaultPromptsConfig returns the built-in prompts
func DefaultPromptsConfig() *PromptsConfig {
	return &PromptsConfig{
		ClassifySystem:  defaultClassifySystem,
		SummarizeSystem: fmt.Sprintf(defaultSummarizeSystem, strings.Join(domain.Categories, ", ")),
		RelevanceSystem: defaultRelevanceSystem,
		ResponderSystem: defaultResponderSystem,
	}
}

const defaultClassifySystem = `Determine how to process the user request.

CommandTypes
{
    SEARCH_AND_SCRAPE,
    SEARCH,
    NONE
}

JSON OUTPUT:
{
    "command_type": CommandTypes as string,
    "timeframe_days": integer,
    "max_results": integer
}

REQUIRED: command_type
OPTIONAL: timeframe_days, max_results

command_type is the type of command to execute. Search functionality searches a database of links using the user's query from optional timeframe_days ago and/or/neither optional returning max_results. Scrape adds additional functionality to scrape the websites for updated data but adds delay and token cost so use only if necessary. None does no lookup and answers from the prompt alone.

timeframe_days is the time window to search in days, null to only limit by max_results, or both null to include all results.

max_results is the maximum number of results to return if needed, null to only limit by timeframe_days, or both null to include all results.`

const defaultSummarizeSystem = `Analyze this content and provide:
1. Concise summary (max 200 words)
2. Category from: %s

Respond ONLY with JSON format: {"summary": "...", "category": "..."}`

const defaultRelevanceSystem = `Return IDs of relevant links based on query.

JSON OUTPUT:
{
    "link_ids": string[]
}

REQUIRED: link_ids

link_ids are the relevant link IDs.`

const defaultResponderSystem = `You are a helpful assistant. Use provided context where relevant. Always cite links when given, wrapped in angle brackets like <https://example.com> so the chat renders them as hyperlinks.`
