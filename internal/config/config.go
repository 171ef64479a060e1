// Package config loads application configuration from a TOML file with
// environment variable overrides. Environment variables always win, so
// deployments can keep secrets out of the config file.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

// Config is the full application configuration.
type Config struct {
	Server  Server  `toml:"server"`
	OpenAI  OpenAI  `toml:"openai"`
	Session Session `toml:"session"`
	Log     Log     `toml:"log"`
}

// Server configures the HTTP API.
type Server struct {
	Addr        string   `toml:"addr"`
	APIKey      string   `toml:"api_key"`
	CORSOrigins []string `toml:"cors_origins"`
}

// OpenAI configures the proposer model endpoint.
type OpenAI struct {
	APIKey      string  `toml:"api_key"`
	Model       string  `toml:"model"`
	VisionModel string  `toml:"vision_model"`
	Temperature float64 `toml:"temperature"`
	BaseURL     string  `toml:"base_url"`
}

// Session configures session persistence.
// Backend is one of "memory", "redis", "mongo", or "file".
type Session struct {
	Backend    string `toml:"backend"`
	RedisURL   string `toml:"redis_url"`
	MongoURI   string `toml:"mongo_uri"`
	MongoDB    string `toml:"mongo_db"`
	FileDir    string `toml:"file_dir"`
	TTLSeconds int    `toml:"ttl_seconds"`
}

// Log configures logging output.
type Log struct {
	Level string `toml:"level"`
	JSON  bool   `toml:"json"`
}

// Default returns the configuration used when no file or environment
// overrides are present.
func Default() Config {
	return Config{
		Server: Server{
			Addr:        ":8000",
			CORSOrigins: []string{"*"},
		},
		OpenAI: OpenAI{
			Model:       "gpt-4o-mini",
			VisionModel: "gpt-4o",
			Temperature: 0.3,
		},
		Session: Session{
			Backend:    "memory",
			RedisURL:   "redis://localhost:6379",
			MongoDB:    "websketch",
			TTLSeconds: 3600,
		},
		Log: Log{
			Level: "info",
		},
	}
}

// Load reads configuration: defaults, then the TOML file at path (skipped
// when path is empty or the file does not exist), then environment
// overrides.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil && !os.IsNotExist(err) {
			return cfg, fmt.Errorf("read config file: %w", err)
		}
		if err == nil {
			if err := toml.Unmarshal(data, &cfg); err != nil {
				return cfg, fmt.Errorf("parse config file: %w", err)
			}
		}
	}

	applyEnv(&cfg)
	return cfg, nil
}

// TTL returns the session TTL as a duration.
func (s Session) TTL() time.Duration {
	return time.Duration(s.TTLSeconds) * time.Second
}

func applyEnv(cfg *Config) {
	setString(&cfg.Server.Addr, "WEBSKETCH_ADDR")
	setString(&cfg.Server.APIKey, "WEBSKETCH_API_KEY")
	if v := os.Getenv("WEBSKETCH_CORS_ORIGINS"); v != "" {
		cfg.Server.CORSOrigins = splitAndTrim(v)
	}

	setString(&cfg.OpenAI.APIKey, "OPENAI_API_KEY")
	setString(&cfg.OpenAI.Model, "OPENAI_MODEL")
	setString(&cfg.OpenAI.VisionModel, "OPENAI_VISION_MODEL")
	setString(&cfg.OpenAI.BaseURL, "OPENAI_BASE_URL")
	if v := os.Getenv("OPENAI_TEMPERATURE"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.OpenAI.Temperature = f
		}
	}

	setString(&cfg.Session.Backend, "WEBSKETCH_SESSION_BACKEND")
	setString(&cfg.Session.RedisURL, "WEBSKETCH_REDIS_URL")
	setString(&cfg.Session.MongoURI, "WEBSKETCH_MONGO_URI")
	setString(&cfg.Session.MongoDB, "WEBSKETCH_MONGO_DB")
	setString(&cfg.Session.FileDir, "WEBSKETCH_SESSION_DIR")
	if v := os.Getenv("WEBSKETCH_SESSION_TTL"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.Session.TTLSeconds = n
		}
	}

	setString(&cfg.Log.Level, "WEBSKETCH_LOG_LEVEL")
	if v := os.Getenv("WEBSKETCH_LOG_JSON"); v != "" {
		cfg.Log.JSON = v == "1" || strings.EqualFold(v, "true")
	}
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func splitAndTrim(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
