package common

import (
	"errors"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	Server  ServerConfig
	LLM     LLMConfig
	Archive ArchiveConfig
	Ingest  IngestConfig
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Addr string
}

// LLMConfig holds inference backend configuration
type LLMConfig struct {
	BaseURL         string
	Model           string
	CredentialFile  string
	MaxOutputTokens int
	Timeout         time.Duration
	MaxRetries      uint
}

// ArchiveConfig holds the attempt/record archive configuration.
// A "postgres://" DSN selects the pgx driver; anything else is treated as a
// local sqlite file path.
type ArchiveConfig struct {
	DSN string
}

// IngestConfig holds inbox watcher configuration
type IngestConfig struct {
	InboxDir string
	Debounce time.Duration
}

// LoadConfig reads config.yaml (explicit path wins, then the working
// directory) and applies VOTERSCAN_* environment overrides on top of the
// built-in defaults.
func LoadConfig(cfgFile string) (*Config, error) {
	v := viper.New()

	v.SetDefault("server.addr", ":8085")
	v.SetDefault("llm.base_url", "https://api.openai.com/v1")
	v.SetDefault("llm.model", "gpt-4o-mini")
	v.SetDefault("llm.credential_file", "credentials.json")
	v.SetDefault("llm.max_output_tokens", 1024)
	v.SetDefault("llm.timeout", "45s")
	v.SetDefault("llm.max_retries", 2)
	v.SetDefault("archive.dsn", "voterscan.db")
	v.SetDefault("ingest.inbox_dir", "")
	v.SetDefault("ingest.debounce", "500ms")

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}
	v.SetEnvPrefix("VOTERSCAN")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, WrapError(err, "read config")
		}
	}

	return &Config{
		Server: ServerConfig{
			Addr: v.GetString("server.addr"),
		},
		LLM: LLMConfig{
			BaseURL:         v.GetString("llm.base_url"),
			Model:           v.GetString("llm.model"),
			CredentialFile:  v.GetString("llm.credential_file"),
			MaxOutputTokens: v.GetInt("llm.max_output_tokens"),
			Timeout:         v.GetDuration("llm.timeout"),
			MaxRetries:      v.GetUint("llm.max_retries"),
		},
		Archive: ArchiveConfig{
			DSN: v.GetString("archive.dsn"),
		},
		Ingest: IngestConfig{
			InboxDir: v.GetString("ingest.inbox_dir"),
			Debounce: v.GetDuration("ingest.debounce"),
		},
	}, nil
}

// Validate validates the loaded configuration
func (c *Config) Validate() error {
	if c.LLM.CredentialFile == "" {
		return NewAppError("CONFIG_ERROR", "llm.credential_file is required", ErrInvalidInput)
	}
	if c.LLM.Model == "" {
		return NewAppError("CONFIG_ERROR", "llm.model is required", ErrInvalidInput)
	}
	if c.Archive.DSN == "" {
		return NewAppError("CONFIG_ERROR", "archive.dsn is required", ErrInvalidInput)
	}
	return nil
}
