package main

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/smallnest/graphengine/log"
)

// Config holds the settings cmd/graphengine needs to start the transport
// server. Flags take precedence over an optional YAML config file, which
// itself takes precedence over these defaults.
type Config struct {
	ListenAddr      string   `yaml:"listen_addr"`
	DevCORS         bool     `yaml:"dev_cors"`
	PluginManifest  string   `yaml:"plugin_manifest"`
	MaxRoutingDepth int      `yaml:"max_routing_depth"`
	LogLevel        string   `yaml:"log_level"`
	EnabledPlugins  []string `yaml:"enabled_plugins"`
	RedisAddr       string   `yaml:"redis_addr"`
}

func defaultConfig() Config {
	return Config{
		ListenAddr:     ":8080",
		PluginManifest: "graphengine-manifest.db",
		LogLevel:       "info",
	}
}

// loadConfigFile merges a YAML file at path into cfg, leaving cfg unchanged
// for any field the file doesn't set.
func loadConfigFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file %q: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("failed to parse config file %q: %w", path, err)
	}
	return nil
}

// parseLogLevel maps the config/flag string form onto the enum SetLogLevel
// expects, defaulting to info for anything unrecognized.
func parseLogLevel(s string) log.LogLevel {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return log.LogLevelDebug
	case "warn", "warning":
		return log.LogLevelWarn
	case "error":
		return log.LogLevelError
	case "none":
		return log.LogLevelNone
	default:
		return log.LogLevelInfo
	}
}
