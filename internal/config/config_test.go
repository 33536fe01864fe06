package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func clearEnvOverrides(t *testing.T) {
	t.Helper()
	for _, key := range []string{"PREEN_SERVER", "PREEN_TOKEN", "PREEN_POLL_SECONDS"} {
		t.Setenv(key, "") // register cleanup
		os.Unsetenv(key)
	}
}

func TestLoad_MissingConfigFallsBackToDefaults(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	clearEnvOverrides(t)

	cfg, err := Load(filepath.Join(home, "does-not-exist.toml"))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.ServerURL != "" || cfg.Token != "" {
		t.Fatalf("cfg = %+v, want empty server and token", cfg)
	}
	if cfg.PollSeconds != defaultPollSeconds {
		t.Fatalf("PollSeconds = %d, want %d", cfg.PollSeconds, defaultPollSeconds)
	}
}

func TestLoad_ParsesAndTrimsConfig(t *testing.T) {
	clearEnvOverrides(t)

	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(`
server_url = "  roost.example.com  "
token = "  tok-123  "
poll_seconds = 5
`), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.ServerURL != "roost.example.com" {
		t.Fatalf("ServerURL = %q, want roost.example.com", cfg.ServerURL)
	}
	if cfg.Token != "tok-123" {
		t.Fatalf("Token = %q, want tok-123", cfg.Token)
	}
	if cfg.PollSeconds != 5 {
		t.Fatalf("PollSeconds = %d, want 5", cfg.PollSeconds)
	}
}

func TestLoad_EnvironmentOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(`
server_url = "file.example.com"
token = "file-token"
`), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	clearEnvOverrides(t)
	t.Setenv("PREEN_SERVER", "env.example.com")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.ServerURL != "env.example.com" {
		t.Fatalf("ServerURL = %q, want env override", cfg.ServerURL)
	}
	if cfg.Token != "file-token" {
		t.Fatalf("Token = %q, want file value when env is unset", cfg.Token)
	}
}

func TestLoad_NonPositivePollUsesDefault(t *testing.T) {
	clearEnvOverrides(t)

	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(`poll_seconds = -3`), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.PollSeconds != defaultPollSeconds {
		t.Fatalf("PollSeconds = %d, want %d", cfg.PollSeconds, defaultPollSeconds)
	}
}

func TestLoad_InvalidTOMLFails(t *testing.T) {
	clearEnvOverrides(t)

	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(`server_url = [`), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	_, err := Load(path)
	if err == nil {
		t.Fatalf("Load returned nil error, want parse error")
	}
	if !strings.Contains(err.Error(), "parse config") {
		t.Fatalf("Load error = %q, want it to mention parse config", err.Error())
	}
}

func TestExpandPath_ExpandsTildeAndReturnsAbs(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	got, err := expandPath("~/a/b")
	if err != nil {
		t.Fatalf("expandPath returned error: %v", err)
	}
	want := filepath.Join(home, "a/b")
	if got != want {
		t.Fatalf("expandPath = %q, want %q", got, want)
	}
}

func TestExpandPath_EmptyErrors(t *testing.T) {
	if _, err := expandPath("   "); err == nil {
		t.Fatalf("expandPath returned nil error, want error")
	}
}
