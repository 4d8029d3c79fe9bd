// Package config reads the service configuration from the environment.
package config

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

type Config struct {
	Addr string `env:"INTERROGATION_ADDR" envDefault:":8080" validate:"required"`

	ScenarioID    string `env:"SCENARIO_ID" envDefault:"case01" validate:"required"`
	ScenarioDir   string `env:"SCENARIO_DIR"`
	SupabaseURL   string `env:"SUPABASE_URL" validate:"omitempty,url"`
	SupabaseKey   string `env:"SUPABASE_KEY" validate:"required_with=SupabaseURL"`
	SupabaseTable string `env:"SUPABASE_SCENARIO_TABLE" envDefault:"scenarios"`
	RulesPath     string `env:"RULES_PATH"`

	Provider      string  `env:"LLM_PROVIDER" envDefault:"openai" validate:"oneof=openai gemini"`
	OpenAIModel   string  `env:"OPENAI_MODEL" envDefault:"gpt-4o-mini"`
	OpenAIBaseURL string  `env:"OPENAI_BASE_URL" validate:"omitempty,url"`
	GeminiModel   string  `env:"GEMINI_MODEL" envDefault:"gemini-2.5-flash"`
	Temperature   float32 `env:"LLM_TEMPERATURE" envDefault:"0.7" validate:"gte=0,lte=2"`
	MaxTokens     int     `env:"LLM_MAX_TOKENS" envDefault:"150" validate:"gt=0"`

	BypassCredential string        `env:"BYPASS_CREDENTIAL" envDefault:"BYPASS"`
	BypassDelay      time.Duration `env:"BYPASS_DELAY" envDefault:"600ms" validate:"gte=0"`

	LogLevel  string `env:"LOG_LEVEL" envDefault:"info" validate:"oneof=debug info warn error"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"json" validate:"oneof=json text"`
}

// Load reads .env from the working directory when present, then the
// environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}
	return Parse()
}

// Parse reads the environment only.
func Parse() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if err := validator.New().Struct(&cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return &cfg, nil
}

// UseSupabase reports whether scenarios come from Supabase.
func (c *Config) UseSupabase() bool {
	return c.SupabaseURL != "" && c.SupabaseKey != ""
}

// Logger builds the process logger. Both formats write to stderr.
func (c *Config) Logger() *slog.Logger {
	return c.newLogger(os.Stderr)
}

func (c *Config) newLogger(w io.Writer) *slog.Logger {
	var level slog.Level
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}
	if c.LogFormat == "text" {
		return slog.New(slog.NewTextHandler(w, opts))
	}
	return slog.New(slog.NewJSONHandler(w, opts))
}
