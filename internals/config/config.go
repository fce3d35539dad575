package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Defaults applied before any file or environment values.
const (
	DefaultTemperature = 0.7
	DefaultTimeout     = 30 * time.Second
	DefaultMaxRetries  = 3
)

// Slack holds the optional outbound notification settings. Both fields
// must be set together for notifications to be enabled.
type Slack struct {
	BotToken  string `yaml:"bot_token"`
	ChannelID string `yaml:"channel_id"`
}

// Config is the validated model configuration. It is loaded once at
// startup and treated as immutable afterwards.
type Config struct {
	APIKey      string
	Model       string
	Provider    string // optional; empty means resolve from model id
	BaseURL     string
	Temperature float64
	Timeout     time.Duration
	MaxRetries  int
	Slack       Slack
}

// UnmarshalYAML overlays file values onto whatever is already in c, so
// fields absent from the file keep their defaults. Timeout is written
// in the file as a duration string ("30s").
func (c *Config) UnmarshalYAML(value *yaml.Node) error {
	var raw struct {
		APIKey      string   `yaml:"api_key"`
		Model       string   `yaml:"model"`
		Provider    string   `yaml:"provider"`
		BaseURL     string   `yaml:"base_url"`
		Temperature *float64 `yaml:"temperature"`
		Timeout     string   `yaml:"timeout"`
		MaxRetries  *int     `yaml:"max_retries"`
		Slack       Slack    `yaml:"slack"`
	}
	if err := value.Decode(&raw); err != nil {
		return err
	}

	if raw.APIKey != "" {
		c.APIKey = raw.APIKey
	}
	if raw.Model != "" {
		c.Model = raw.Model
	}
	if raw.Provider != "" {
		c.Provider = raw.Provider
	}
	if raw.BaseURL != "" {
		c.BaseURL = raw.BaseURL
	}
	if raw.Temperature != nil {
		c.Temperature = *raw.Temperature
	}
	if raw.Timeout != "" {
		d, err := time.ParseDuration(raw.Timeout)
		if err != nil {
			return fmt.Errorf("invalid timeout %q (want a duration like 30s): %w", raw.Timeout, err)
		}
		c.Timeout = d
	}
	if raw.MaxRetries != nil {
		c.MaxRetries = *raw.MaxRetries
	}
	if raw.Slack.BotToken != "" {
		c.Slack.BotToken = raw.Slack.BotToken
	}
	if raw.Slack.ChannelID != "" {
		c.Slack.ChannelID = raw.Slack.ChannelID
	}
	return nil
}

func Default() Config {
	return Config{
		Temperature: DefaultTemperature,
		Timeout:     DefaultTimeout,
		MaxRetries:  DefaultMaxRetries,
	}
}

// FromEnv loads configuration from environment variables on top of the
// defaults. It fails eagerly: a missing required variable or a value
// that does not parse is reported before any network activity.
func FromEnv() (Config, error) {
	cfg := Default()
	if err := cfg.applyEnv(); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Load reads a YAML config file, then overlays environment variables on
// top of it. Environment always wins over the file.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config file %s: %w", path, err)
	}

	if err := cfg.applyEnv(); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	if v := apiKeyFromEnv(); v != "" {
		c.APIKey = v
	}
	if v := os.Getenv("CHAT_MODEL"); v != "" {
		c.Model = v
	}
	if v := os.Getenv("CHAT_PROVIDER"); v != "" {
		c.Provider = v
	}
	if v := os.Getenv("CHAT_BASE_URL"); v != "" {
		c.BaseURL = v
	}

	if v := os.Getenv("CHAT_TEMPERATURE"); v != "" {
		t, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("invalid CHAT_TEMPERATURE value %q: %w", v, err)
		}
		c.Temperature = t
	}
	if v := os.Getenv("CHAT_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid CHAT_TIMEOUT value %q (want a duration like 30s): %w", v, err)
		}
		c.Timeout = d
	}
	if v := os.Getenv("CHAT_MAX_RETRIES"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid CHAT_MAX_RETRIES value %q: %w", v, err)
		}
		c.MaxRetries = n
	}

	if v := os.Getenv("SLACK_BOT_TOKEN"); v != "" {
		c.Slack.BotToken = v
	}
	if v := os.Getenv("SLACK_NOTIFY_CHANNEL"); v != "" {
		c.Slack.ChannelID = v
	}
	return nil
}

// apiKeyFromEnv accepts the generic variable first, then the
// provider-specific ones either SDK's users already export.
func apiKeyFromEnv() string {
	for _, key := range []string{"CHAT_API_KEY", "ANTHROPIC_API_KEY", "OPENAI_API_KEY"} {
		if v := os.Getenv(key); v != "" {
			return v
		}
	}
	return ""
}

func (c Config) Validate() error {
	if c.APIKey == "" {
		return fmt.Errorf("api key is required (set CHAT_API_KEY, ANTHROPIC_API_KEY or OPENAI_API_KEY)")
	}
	if c.Model == "" {
		return fmt.Errorf("model is required (set CHAT_MODEL)")
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive, got %v", c.Timeout)
	}
	if c.MaxRetries < 0 {
		return fmt.Errorf("max retries must be non-negative, got %d", c.MaxRetries)
	}
	if c.Slack.BotToken != "" && c.Slack.ChannelID == "" {
		return fmt.Errorf("slack bot token set without a notify channel")
	}
	return nil
}

// NotifyEnabled reports whether the optional Slack delivery is fully
// configured.
func (c Config) NotifyEnabled() bool {
	return c.Slack.BotToken != "" && c.Slack.ChannelID != ""
}
