package config

import (
	"log/slog"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server struct {
		Port string `yaml:"port"`
	} `yaml:"server"`
	Log struct {
		Level  string `yaml:"level"`
		Format string `yaml:"format"`
	} `yaml:"log"`
	Quiz struct {
		// Source is the question set path, relative to Dir or BaseURL.
		Source    string `yaml:"source"`
		Dir       string `yaml:"dir"`
		BaseURL   string `yaml:"base_url"`
		Backend   string `yaml:"backend"` // file, http, postgres
		TimeLimit int    `yaml:"time_limit"`
		Tick      string `yaml:"tick"`
		CacheTTL  string `yaml:"cache_ttl"`
	} `yaml:"quiz"`
	Leaderboard struct {
		Backend string `yaml:"backend"` // file, sqlite, memory, redis, postgres
		Path    string `yaml:"path"`
		Key     string `yaml:"key"`
		Limit   int    `yaml:"limit"`
	} `yaml:"leaderboard"`
	Redis struct {
		Addr     string `yaml:"addr"`
		Password string `yaml:"password"`
		DB       int    `yaml:"db"`
	} `yaml:"redis"`
	Postgres struct {
		URL string `yaml:"url"`
	} `yaml:"postgres"`
}

// Default returns the configuration used when no file is present: questions.json next to the
// binary, a 20 second budget and a JSON file leaderboard.
func Default() Config {
	cfg := Config{}
	cfg.Server.Port = "8080"
	cfg.Log.Level = "info"
	cfg.Log.Format = "text"
	cfg.Quiz.Source = "questions.json"
	cfg.Quiz.Dir = "."
	cfg.Quiz.Backend = "file"
	cfg.Quiz.TimeLimit = 20
	cfg.Quiz.Tick = "1s"
	cfg.Quiz.CacheTTL = "10m"
	cfg.Leaderboard.Backend = "file"
	cfg.Leaderboard.Path = "leaderboard.json"
	cfg.Leaderboard.Key = "quiz:leaderboard"
	cfg.Leaderboard.Limit = 10
	return cfg
}

// Load reads YAML config from path over the defaults. A missing file yields the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// TTLDuration parses a duration string or returns the fallback if empty.
func TTLDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}
	if d, err := time.ParseDuration(raw); err == nil {
		return d
	}
	return fallback
}

// NewLogger builds the process logger from the log section.
func (c Config) NewLogger() *slog.Logger {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.Log.Level)); err != nil {
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}
	if strings.EqualFold(c.Log.Format, "json") {
		return slog.New(slog.NewJSONHandler(os.Stderr, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stderr, opts))
}
