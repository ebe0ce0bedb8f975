package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("GITHUB_TOKEN", "")
	t.Setenv("COMMITFEED_TOKEN", "")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.PollInterval != 5*time.Minute {
		t.Errorf("Expected PollInterval=5m, got %s", cfg.PollInterval)
	}
	if cfg.BlinkInterval != 3*time.Second {
		t.Errorf("Expected BlinkInterval=3s, got %s", cfg.BlinkInterval)
	}
	if cfg.MaxEntries != 25 {
		t.Errorf("Expected MaxEntries=25, got %d", cfg.MaxEntries)
	}
	if cfg.RepoPageSize != 100 {
		t.Errorf("Expected RepoPageSize=100, got %d", cfg.RepoPageSize)
	}
	if cfg.CommitPageSize != 25 {
		t.Errorf("Expected CommitPageSize=25, got %d", cfg.CommitPageSize)
	}
	if cfg.Log.Level != "info" {
		t.Errorf("Expected Log.Level=info, got %s", cfg.Log.Level)
	}
	if cfg.LogFile == "" {
		t.Error("Expected a default LogFile, got empty string")
	}
	if cfg.Token != "" {
		t.Errorf("Expected empty Token, got %q", cfg.Token)
	}
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	data := []byte(`
account: octocat
api_url: https://github.example.com/api/v3/
poll_interval: "90s"
blink_interval: "1s"
max_entries: 10
log_file: /tmp/commitfeed-test.log
log:
  level: debug
`)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Account != "octocat" {
		t.Errorf("Expected Account=octocat, got %q", cfg.Account)
	}
	if cfg.APIURL != "https://github.example.com/api/v3/" {
		t.Errorf("Unexpected APIURL %q", cfg.APIURL)
	}
	if cfg.PollInterval != 90*time.Second {
		t.Errorf("Expected PollInterval=90s, got %s", cfg.PollInterval)
	}
	if cfg.BlinkInterval != time.Second {
		t.Errorf("Expected BlinkInterval=1s, got %s", cfg.BlinkInterval)
	}
	if cfg.MaxEntries != 10 {
		t.Errorf("Expected MaxEntries=10, got %d", cfg.MaxEntries)
	}
	if cfg.LogFile != "/tmp/commitfeed-test.log" {
		t.Errorf("Unexpected LogFile %q", cfg.LogFile)
	}
	if cfg.Log.Level != "debug" {
		t.Errorf("Expected Log.Level=debug, got %s", cfg.Log.Level)
	}
	if cfg.RepoPageSize != 100 {
		t.Errorf("Expected default RepoPageSize=100, got %d", cfg.RepoPageSize)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Fatal("Expected error for missing config file, got nil")
	}
}

func TestLoadRejectsBadValues(t *testing.T) {
	cases := []struct {
		name string
		yaml string
	}{
		{"unparseable poll interval", `poll_interval: "soon"`},
		{"negative poll interval", `poll_interval: "-1m"`},
		{"zero blink interval", `blink_interval: "0s"`},
		{"negative max entries", `max_entries: -3`},
		{"repo page size over API cap", `repo_page_size: 500`},
		{"negative commit page size", `commit_page_size: -1`},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.yaml")
			if err := os.WriteFile(path, []byte(tc.yaml), 0o644); err != nil {
				t.Fatalf("write config: %v", err)
			}
			if _, err := Load(path); err == nil {
				t.Errorf("Expected error for %s, got nil", tc.name)
			}
		})
	}
}

func TestTokenFromEnvironment(t *testing.T) {
	t.Setenv("GITHUB_TOKEN", "gh-token")
	t.Setenv("COMMITFEED_TOKEN", "cf-token")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Token != "gh-token" {
		t.Errorf("Expected GITHUB_TOKEN to win, got %q", cfg.Token)
	}

	t.Setenv("GITHUB_TOKEN", "")
	cfg, err = Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Token != "cf-token" {
		t.Errorf("Expected COMMITFEED_TOKEN fallback, got %q", cfg.Token)
	}
}
