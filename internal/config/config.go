package config

import (
	"encoding/json"
	"errors"
	"log/slog"
	"os"
	"strconv"
	"time"
)

const (
	defaultPollMinutes  = 60
	defaultConfigPath   = "config.json"
	defaultDBPath       = "news.db"
	defaultSnapshotPath = "recent_news.xml"
	defaultLogPath      = "rss_aggregator.log"
	defaultProvider     = "zeroshot"
	defaultOpenAIModel  = "gpt-4o-mini"
	defaultZeroShotURL  = "https://api-inference.huggingface.co/models/facebook/bart-large-mnli"
)

// AIFilterConfig describes the topic list and the acceptance threshold.
type AIFilterConfig struct {
	Topics              []string `json:"topics"`
	SimilarityThreshold float64  `json:"similarity_threshold"`
}

// Config is the on-disk configuration, re-read at the start of every cycle.
type Config struct {
	RSSFeeds  []string       `json:"rss_feeds"`
	AIFilters AIFilterConfig `json:"ai_filters"`
}

// Runtime holds deployment settings loaded from environment variables.
type Runtime struct {
	ConfigPath   string
	DBPath       string
	SnapshotPath string
	LogPath      string
	LogLevel     string
	PollInterval time.Duration

	ClassifierProvider string
	ClassifierURL      string
	ClassifierKey      string
	OpenAIModel        string
	OpenAIBase         string
}

// LoadRuntime reads environment variables, filling in reasonable defaults.
func LoadRuntime() Runtime {
	return Runtime{
		ConfigPath:         stringWithDefault("CONFIG_PATH", defaultConfigPath),
		DBPath:             stringWithDefault("DB_PATH", defaultDBPath),
		SnapshotPath:       stringWithDefault("SNAPSHOT_PATH", defaultSnapshotPath),
		LogPath:            stringWithDefault("LOG_PATH", defaultLogPath),
		LogLevel:           stringWithDefault("LOG_LEVEL", "info"),
		PollInterval:       durationFromMinutes("POLL_INTERVAL_MINUTES", defaultPollMinutes),
		ClassifierProvider: stringWithDefault("CLASSIFIER_PROVIDER", defaultProvider),
		ClassifierURL:      stringWithDefault("CLASSIFIER_URL", defaultZeroShotURL),
		ClassifierKey:      os.Getenv("CLASSIFIER_API_KEY"),
		OpenAIModel:        stringWithDefault("OPENAI_MODEL", defaultOpenAIModel),
		OpenAIBase:         os.Getenv("OPENAI_BASE_URL"),
	}
}

// Default returns the configuration written to disk when none exists.
func Default() Config {
	return Config{
		RSSFeeds: []string{
			"https://www.webdesignerdepot.com/feed/",
			"https://www.smashingmagazine.com/feed/",
			"https://uxmovement.com/feed/",
			"https://uxdesign.cc/feed",
		},
		AIFilters: AIFilterConfig{
			Topics:              []string{"Artificial Intelligence", "Web Design", "UX/UI", "Programming"},
			SimilarityThreshold: 0.5,
		},
	}
}

// Load reads the configuration file. A missing file is replaced with the
// default configuration, which is also persisted back to disk. A file that
// exists but fails to parse yields an empty in-memory fallback and leaves
// the on-disk content untouched.
func Load(path string, logger *slog.Logger) Config {
	raw, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			logger.Error("configuration file not found, creating a default configuration file", "path", path)
			cfg := Default()
			if werr := write(path, cfg); werr != nil {
				logger.Error("failed to write default configuration", "path", path, "error", werr)
			}
			return cfg
		}
		logger.Error("failed to read configuration file, using fallback configuration", "path", path, "error", err)
		return fallback()
	}

	var cfg Config
	if err := json.Unmarshal(raw, &cfg); err != nil {
		logger.Error("error parsing configuration file, using fallback configuration", "path", path, "error", err)
		return fallback()
	}
	return cfg
}

func fallback() Config {
	return Config{
		RSSFeeds:  []string{},
		AIFilters: AIFilterConfig{Topics: []string{}, SimilarityThreshold: 0.5},
	}
}

func write(path string, cfg Config) error {
	data, err := json.MarshalIndent(cfg, "", "    ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func stringWithDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func durationFromMinutes(key string, fallback int) time.Duration {
	if v := os.Getenv(key); v != "" {
		if minutes, err := strconv.Atoi(v); err == nil && minutes > 0 {
			return time.Duration(minutes) * time.Minute
		}
	}
	return time.Duration(fallback) * time.Minute
}
