package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	DefaultPort        = "3000"
	DefaultEnv         = "development"
	DefaultPollTimeout = 60 * time.Second
)

var ErrMissingToken = errors.New("TELEGRAM_BOT_TOKEN is not set")

type Config struct {
	Server   ServerConfig
	Telegram TelegramConfig
}

type ServerConfig struct {
	Port string
	Env  string
}

type TelegramConfig struct {
	Token       string
	Debug       bool
	PollTimeout time.Duration
}

// IsProduction reports whether the service runs with production logging and release mode.
func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.Server.Env, "production")
}

// Addr is the listen address for the HTTP server
func (c *Config) Addr() string {
	return ":" + c.Server.Port
}

// Load reads a .env file when present, then builds the config from the environment.
// A missing .env is not an error; the platform may inject variables directly.
func Load() (*Config, error) {
	_ = godotenv.Load()
	return FromEnv()
}

// FromEnv builds the config from the process environment only.
func FromEnv() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Port: getEnv("PORT", DefaultPort),
			Env:  getEnv("ENVIRONMENT", DefaultEnv),
		},
		Telegram: TelegramConfig{
			Token:       strings.TrimSpace(os.Getenv("TELEGRAM_BOT_TOKEN")),
			PollTimeout: DefaultPollTimeout,
		},
	}

	if cfg.Telegram.Token == "" {
		return nil, ErrMissingToken
	}

	if _, err := strconv.Atoi(cfg.Server.Port); err != nil {
		return nil, fmt.Errorf("invalid PORT %q: %w", cfg.Server.Port, err)
	}

	if v := os.Getenv("TELEGRAM_DEBUG"); v != "" {
		debug, err := strconv.ParseBool(v)
		if err != nil {
			return nil, fmt.Errorf("invalid TELEGRAM_DEBUG %q: %w", v, err)
		}
		cfg.Telegram.Debug = debug
	}

	if v := os.Getenv("TELEGRAM_POLL_TIMEOUT"); v != "" {
		secs, err := strconv.Atoi(v)
		if err != nil || secs < 0 {
			return nil, fmt.Errorf("invalid TELEGRAM_POLL_TIMEOUT %q", v)
		}
		cfg.Telegram.PollTimeout = time.Duration(secs) * time.Second
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}
