package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Config carries everything the program needs at startup. Durations are
// written as strings in YAML ("5m", "3s") and parsed during Load; the bearer
// token is never read from the file, only from the environment.
type Config struct {
	PollInterval  time.Duration `yaml:"-"`
	RawPoll       string        `yaml:"poll_interval"`
	BlinkInterval time.Duration `yaml:"-"`
	RawBlink      string        `yaml:"blink_interval"`

	Account        string `yaml:"account"`
	APIURL         string `yaml:"api_url"`
	MaxEntries     int    `yaml:"max_entries"`
	RepoPageSize   int    `yaml:"repo_page_size"`
	CommitPageSize int    `yaml:"commit_page_size"`

	LogFile string    `yaml:"log_file"`
	Log     LogConfig `yaml:"log"`

	Token string `yaml:"-"`
}

type LogConfig struct {
	Level string `yaml:"level"`
}

// Load reads the config file at path, applies defaults and validates the
// result. An empty path skips the file entirely and yields the defaults, so
// the tool runs with nothing but environment variables set.
func Load(path string) (*Config, error) {
	var cfg Config

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.setDefaults(); err != nil {
		return nil, err
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	cfg.Token = os.Getenv("GITHUB_TOKEN")
	if cfg.Token == "" {
		cfg.Token = os.Getenv("COMMITFEED_TOKEN")
	}

	return &cfg, nil
}

func (c *Config) setDefaults() error {
	if c.RawPoll == "" {
		c.RawPoll = "5m"
	}
	poll, err := time.ParseDuration(c.RawPoll)
	if err != nil {
		return fmt.Errorf("parse poll_interval %q: %w", c.RawPoll, err)
	}
	c.PollInterval = poll

	if c.RawBlink == "" {
		c.RawBlink = "3s"
	}
	blink, err := time.ParseDuration(c.RawBlink)
	if err != nil {
		return fmt.Errorf("parse blink_interval %q: %w", c.RawBlink, err)
	}
	c.BlinkInterval = blink

	if c.MaxEntries == 0 {
		c.MaxEntries = 25
	}
	if c.RepoPageSize == 0 {
		c.RepoPageSize = 100
	}
	if c.CommitPageSize == 0 {
		c.CommitPageSize = 25
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.LogFile == "" {
		dir, err := os.UserCacheDir()
		if err != nil {
			dir = os.TempDir()
		}
		c.LogFile = filepath.Join(dir, "commitfeed", "commitfeed.log")
	}

	return nil
}

func (c *Config) validate() error {
	if c.PollInterval <= 0 {
		return fmt.Errorf("poll_interval must be positive, got %s", c.RawPoll)
	}
	if c.BlinkInterval <= 0 {
		return fmt.Errorf("blink_interval must be positive, got %s", c.RawBlink)
	}
	if c.MaxEntries < 1 {
		return fmt.Errorf("max_entries must be at least 1, got %d", c.MaxEntries)
	}
	if c.RepoPageSize < 1 || c.RepoPageSize > 100 {
		return fmt.Errorf("repo_page_size must be 1..100, got %d", c.RepoPageSize)
	}
	if c.CommitPageSize < 1 || c.CommitPageSize > 100 {
		return fmt.Errorf("commit_page_size must be 1..100, got %d", c.CommitPageSize)
	}
	return nil
}
