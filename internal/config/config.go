// Package config loads server configuration from an optional TOML file with
// environment variable overrides for deployment knobs.
package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"

	"github.com/finsight/backend/internal/insights"
)

// Config is the full server configuration.
type Config struct {
	Server   ServerConfig    `toml:"server"`
	Store    StoreConfig     `toml:"store"`
	Agent    AgentConfig     `toml:"agent"`
	Insights insights.Config `toml:"insights"`
}

// ServerConfig covers the HTTP listener.
type ServerConfig struct {
	Port           string   `toml:"port"`
	AllowedOrigins []string `toml:"allowed_origins"`
	LogLevel       string   `toml:"log_level"`
	PrettyLogs     bool     `toml:"pretty_logs"`
}

// StoreConfig selects the persistence backend.
type StoreConfig struct {
	// Driver is "memory" or "sqlite".
	Driver string `toml:"driver"`
	// DSN is the sqlite path; ignored for the memory driver.
	DSN string `toml:"dsn"`
}

// AgentConfig tunes the agent runner.
type AgentConfig struct {
	MinTransactions  int `toml:"min_transactions"`
	DedupWindowHours int `toml:"dedup_window_hours"`
}

// Default returns the configuration used when no file is present.
func Default() Config {
	return Config{
		Server: ServerConfig{
			Port:           "8111",
			AllowedOrigins: []string{"http://localhost:1234", "http://127.0.0.1:1234"},
			LogLevel:       "info",
			PrettyLogs:     false,
		},
		Store: StoreConfig{
			Driver: "memory",
			DSN:    "finsight.db",
		},
		Agent: AgentConfig{
			MinTransactions:  5,
			DedupWindowHours: 168,
		},
		Insights: insights.DefaultConfig(),
	}
}

// Load reads the TOML file at path over the defaults. An empty path returns
// the defaults untouched. Environment variables PORT, STORE_DRIVER,
// STORE_DSN and LOG_LEVEL override both.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		if _, err := toml.DecodeFile(path, &cfg); err != nil {
			return Config{}, fmt.Errorf("decode config %s: %w", path, err)
		}
	}

	if v := os.Getenv("PORT"); v != "" {
		cfg.Server.Port = v
	}
	if v := os.Getenv("STORE_DRIVER"); v != "" {
		cfg.Store.Driver = v
	}
	if v := os.Getenv("STORE_DSN"); v != "" {
		cfg.Store.DSN = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Server.LogLevel = v
	}

	if cfg.Store.Driver != "memory" && cfg.Store.Driver != "sqlite" {
		return Config{}, fmt.Errorf("unknown store driver %q", cfg.Store.Driver)
	}

	return cfg, nil
}
