package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

type Config struct {
	DataDir  string `json:"data_dir"`
	LogLevel string `json:"log_level"`
	Backend  struct {
		URL string `json:"url"`
	} `json:"backend"`
	Agent struct {
		ID string `json:"id"`
	} `json:"agent"`
	Sources struct {
		RSS     bool `json:"rss"`
		Twitter bool `json:"twitter"`
		Reddit  bool `json:"reddit"`
	} `json:"sources"`
	Payload struct {
		MaxTokens int    `json:"max_tokens"`
		Encoding  string `json:"encoding"`
	} `json:"payload"`
	Health struct {
		Interval string `json:"interval"`
	} `json:"health"`
	HTTP struct {
		Enabled bool   `json:"enabled"`
		Listen  string `json:"listen"`
	} `json:"http"`
	Telegram struct {
		Token string `json:"token"`
	} `json:"telegram"`
}

func Load(path string) (*Config, error) {
	cfg := &Config{
		DataDir:  filepath.Join(os.Getenv("HOME"), ".newsradio"),
		LogLevel: "info",
	}
	cfg.Backend.URL = "http://localhost:8000"
	cfg.Sources.RSS = true
	cfg.Sources.Twitter = true
	cfg.Sources.Reddit = false
	cfg.Payload.MaxTokens = 6000
	cfg.Payload.Encoding = "cl100k_base"
	cfg.Health.Interval = "@every 30s"
	cfg.HTTP.Enabled = true
	cfg.HTTP.Listen = "127.0.0.1:8990"

	// Load from file if exists, otherwise write defaults
	if _, err := os.Stat(path); err == nil {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		if err := json.Unmarshal(data, cfg); err != nil {
			return nil, err
		}
	} else if os.IsNotExist(err) {
		if err := Save(path, cfg); err != nil {
			return nil, err
		}
	}

	// Override from env (highest precedence)
	if url := os.Getenv("NEWSRADIO_BACKEND_URL"); url != "" {
		cfg.Backend.URL = url
	}
	if agentID := os.Getenv("NEWSRADIO_AGENT_ID"); agentID != "" {
		cfg.Agent.ID = agentID
	}
	if tgToken := os.Getenv("TELEGRAM_BOT_TOKEN"); tgToken != "" {
		cfg.Telegram.Token = tgToken
	}

	return cfg, nil
}

// Save writes the config to path atomically, creating parent directories.
func Save(path string, cfg *Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	data = append(data, '\n')
	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("rename config: %w", err)
	}
	return nil
}
