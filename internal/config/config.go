package config

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/cloudwego/eino-ext/components/model/ark"
	"github.com/cloudwego/eino/components/model"
	"github.com/kelseyhightower/envconfig"
)

// ErrAICredentialsMissing is returned when the Ark model cannot be configured.
var ErrAICredentialsMissing = errors.New("ark credentials or model missing: set ARK_MODEL with ARK_API_KEY or ARK_ACCESS_KEY/ARK_SECRET_KEY")

// Config aggregates every setting of both binaries.
type Config struct {
	Server ServerConfig
	AI     AIConfig
	Client ClientConfig
	Log    LogConfig
}

// Load reads the configuration from environment variables.
func Load() (*Config, error) {
	var cfg Config

	if err := envconfig.Process("", &cfg.Server); err != nil {
		return nil, fmt.Errorf("load server config: %w", err)
	}
	addr, err := normalizeAddr(cfg.Server.Port)
	if err != nil {
		return nil, err
	}
	cfg.Server.Addr = addr

	if err := envconfig.Process("", &cfg.AI); err != nil {
		return nil, fmt.Errorf("load ai config: %w", err)
	}
	if err := envconfig.Process("", &cfg.Client); err != nil {
		return nil, fmt.Errorf("load client config: %w", err)
	}
	if err := envconfig.Process("", &cfg.Log); err != nil {
		return nil, fmt.Errorf("load log config: %w", err)
	}

	return &cfg, nil
}

// ServerConfig describes the HTTP listener.
type ServerConfig struct {
	Port string `envconfig:"PORT" default:"8080"`
	Addr string `ignored:"true"`
}

// normalizeAddr accepts "8080", ":8080" or "127.0.0.1:8080".
func normalizeAddr(port string) (string, error) {
	port = strings.TrimSpace(port)
	if port == "" {
		port = "8080"
	}

	if strings.Contains(port, ":") {
		return port, nil
	}

	if strings.Contains(port, " ") {
		return "", fmt.Errorf("invalid PORT value: %q", port)
	}

	return ":" + port, nil
}

// AIConfig describes the Ark chat model behind the reference Reply Service.
type AIConfig struct {
	APIKey       string   `envconfig:"ARK_API_KEY"`
	AccessKey    string   `envconfig:"ARK_ACCESS_KEY"`
	SecretKey    string   `envconfig:"ARK_SECRET_KEY"`
	Model        string   `envconfig:"ARK_MODEL"`
	BaseURL      string   `envconfig:"ARK_BASE_URL" default:"https://ark.cn-beijing.volces.com/api/v3"`
	Region       string   `envconfig:"ARK_REGION" default:"cn-beijing"`
	Temperature  *float32 `envconfig:"ARK_TEMPERATURE"`
	TopP         *float32 `envconfig:"ARK_TOP_P"`
	MaxTokens    *int     `envconfig:"ARK_MAX_TOKENS"`
	HistoryLimit int      `envconfig:"ARK_HISTORY_LIMIT" default:"0"`
}

// Enabled reports whether the required credentials are present.
func (c AIConfig) Enabled() bool {
	return c.Model != "" && (c.APIKey != "" || (c.AccessKey != "" && c.SecretKey != ""))
}

// NewChatModel creates the Ark chat model.
func (c AIConfig) NewChatModel(ctx context.Context) (model.ChatModel, error) {
	if !c.Enabled() {
		return nil, ErrAICredentialsMissing
	}

	cfg := &ark.ChatModelConfig{
		BaseURL:     c.BaseURL,
		Region:      c.Region,
		APIKey:      c.APIKey,
		AccessKey:   c.AccessKey,
		SecretKey:   c.SecretKey,
		Model:       c.Model,
		MaxTokens:   c.MaxTokens,
		Temperature: c.Temperature,
		TopP:        c.TopP,
	}

	return ark.NewChatModel(ctx, cfg)
}

// ClientConfig describes how the chat client reaches the Reply Service.
type ClientConfig struct {
	Endpoint string        `envconfig:"GRACE_ENDPOINT" default:"https://grace-ai-backend-ShawnBeck.replit.app/api/chat"`
	Timeout  time.Duration `envconfig:"GRACE_TIMEOUT" default:"60s"`
}

// LogConfig selects log verbosity and encoding.
type LogConfig struct {
	Level  string `envconfig:"LOG_LEVEL" default:"info"`
	Format string `envconfig:"LOG_FORMAT" default:"console"`
}
