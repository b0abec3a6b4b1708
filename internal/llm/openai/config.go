package openai

import (
	"log/slog"
	"net/http"
	"time"
)

// Config for the OpenAI-compatible vision client.
type Config struct {
	BaseURL        string        // default https://api.openai.com/v1
	Model          string        // e.g., "gpt-4o-mini"
	CredentialFile string        // structured key file (project_id + api_key)
	Timeout        time.Duration // http client timeout
}

type Client struct {
	cfg    Config
	http   *http.Client
	logger *slog.Logger
}

func NewClient(cfg Config, logger *slog.Logger) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api.openai.com/v1"
	}
	if cfg.Model == "" {
		cfg.Model = "gpt-4o-mini"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 45 * time.Second
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		cfg:    cfg,
		http:   &http.Client{Timeout: cfg.Timeout},
		logger: logger,
	}
}
