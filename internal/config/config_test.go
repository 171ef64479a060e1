package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Server.Addr != ":8000" {
		t.Errorf("addr = %q", cfg.Server.Addr)
	}
	if cfg.OpenAI.Model != "gpt-4o-mini" {
		t.Errorf("model = %q", cfg.OpenAI.Model)
	}
	if cfg.Session.Backend != "memory" {
		t.Errorf("backend = %q", cfg.Session.Backend)
	}
	if cfg.Session.TTL() != time.Hour {
		t.Errorf("ttl = %v, want 1h", cfg.Session.TTL())
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := `
[server]
addr = ":9000"
api_key = "secret"

[openai]
model = "gpt-4o"
temperature = 0.7

[session]
backend = "redis"
redis_url = "redis://redis:6379/1"
ttl_seconds = 7200

[log]
level = "debug"
json = true
`
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Server.Addr != ":9000" || cfg.Server.APIKey != "secret" {
		t.Errorf("server = %+v", cfg.Server)
	}
	if cfg.OpenAI.Model != "gpt-4o" || cfg.OpenAI.Temperature != 0.7 {
		t.Errorf("openai = %+v", cfg.OpenAI)
	}
	if cfg.Session.Backend != "redis" || cfg.Session.TTLSeconds != 7200 {
		t.Errorf("session = %+v", cfg.Session)
	}
	if cfg.Log.Level != "debug" || !cfg.Log.JSON {
		t.Errorf("log = %+v", cfg.Log)
	}
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Server.Addr != ":8000" {
		t.Errorf("addr = %q", cfg.Server.Addr)
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("WEBSKETCH_ADDR", ":7777")
	t.Setenv("OPENAI_API_KEY", "env-key")
	t.Setenv("OPENAI_TEMPERATURE", "0.9")
	t.Setenv("WEBSKETCH_SESSION_BACKEND", "file")
	t.Setenv("WEBSKETCH_SESSION_TTL", "60")
	t.Setenv("WEBSKETCH_CORS_ORIGINS", "https://a.example, https://b.example")
	t.Setenv("WEBSKETCH_LOG_JSON", "true")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Server.Addr != ":7777" {
		t.Errorf("addr = %q", cfg.Server.Addr)
	}
	if cfg.OpenAI.APIKey != "env-key" || cfg.OpenAI.Temperature != 0.9 {
		t.Errorf("openai = %+v", cfg.OpenAI)
	}
	if cfg.Session.Backend != "file" || cfg.Session.TTLSeconds != 60 {
		t.Errorf("session = %+v", cfg.Session)
	}
	if len(cfg.Server.CORSOrigins) != 2 || cfg.Server.CORSOrigins[1] != "https://b.example" {
		t.Errorf("cors = %v", cfg.Server.CORSOrigins)
	}
	if !cfg.Log.JSON {
		t.Error("log.json not overridden")
	}
}

func TestEnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	os.WriteFile(path, []byte("[server]\naddr = \":9000\"\n"), 0600)
	t.Setenv("WEBSKETCH_ADDR", ":6000")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Server.Addr != ":6000" {
		t.Errorf("addr = %q, want env to win over file", cfg.Server.Addr)
	}
}
