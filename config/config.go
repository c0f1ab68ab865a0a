// Package config loads smartpup settings from defaults, an optional YAML
// file and environment variables.
package config

import "strings"

// Model providers understood by the façade. Provider names are case insensitive.
const (
	ProviderOpenAI     = "openai"
	ProviderOpenRouter = "openrouter"
	ProviderAnthropic  = "anthropic"
)

// Config is the root configuration. It is read once at startup and passed
// explicitly to the constructors that need it.
type Config struct {
	Model   ModelConfig   `yaml:"model"`
	Pup     PupConfig     `yaml:"pup"`
	Memory  MemoryConfig  `yaml:"memory"`
	Logging LoggingConfig `yaml:"logging"`
	Tools   ToolsConfig   `yaml:"tools"`
}

// ModelConfig selects the completion endpoint.
type ModelConfig struct {
	Provider    string  `yaml:"provider"` // "openai", "openrouter" or "anthropic"
	Name        string  `yaml:"name"`
	BaseURL     string  `yaml:"base_url"`
	APIKey      string  `yaml:"api_key"`
	APIKeyFile  string  `yaml:"api_key_file"`
	Temperature float64 `yaml:"temperature"`
	MaxRetries  int     `yaml:"max_retries"`
}

// ProviderName returns the lower-cased provider. An empty provider selects
// the OpenAI compatible adapter.
func (m ModelConfig) ProviderName() string {
	p := strings.ToLower(strings.TrimSpace(m.Provider))
	if p == "" {
		return ProviderOpenAI
	}
	return p
}

// PupConfig holds orchestration limits.
type PupConfig struct {
	MaxIterations    int    `yaml:"max_iterations"`
	MaxParallelTools int    `yaml:"max_parallel_tools"` // 0 = unbounded
	BailSentinel     string `yaml:"bail_sentinel"`

	// FeedToolErrors returns handler failures to the model instead of ending the run.
	FeedToolErrors bool `yaml:"feed_tool_errors"`
}

// MemoryConfig locates the key-value document used by remember/recall.
type MemoryConfig struct {
	File string `yaml:"file"`
}

// LoggingConfig configures the slog backed logger.
type LoggingConfig struct {
	Level     string `yaml:"level"`  // debug, info, warn, error
	Format    string `yaml:"format"` // text or json
	AddSource bool   `yaml:"add_source"`
}

// ToolsConfig selects the built-in capabilities to discover.
type ToolsConfig struct {
	Root    string   `yaml:"root"`    // catalog path prefix, empty = all
	Enabled []string `yaml:"enabled"` // empty = every tool under Root
}

// Defaults returns a Config populated with built-in defaults.
func Defaults() Config {
	return Config{
		Model: ModelConfig{
			Provider:    "openai",
			Name:        "openai/gpt-4o-mini",
			Temperature: 0.7,
			MaxRetries:  2,
		},
		Pup: PupConfig{
			MaxIterations: 10,
			BailSentinel:  "BAIL:",
		},
		Memory: MemoryConfig{
			File: "data/memory.json",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
	}
}
