package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"github.com/finsight/advisor-portal/internal/common"
)

// Config represents the application configuration.
type Config struct {
	Server  ServerConfig         `toml:"server"`
	Agent   AgentConfig          `toml:"agent"`
	Cache   CacheConfig          `toml:"cache"`
	Logging common.LoggingConfig `toml:"logging"`
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	Port int    `toml:"port"`
	Host string `toml:"host"`
}

// AgentConfig contains remote analysis agent settings.
type AgentConfig struct {
	URL string `toml:"url"`
	ID  string `toml:"id"`
}

// CacheConfig contains ranking view cache settings.
type CacheConfig struct {
	TTLSeconds int `toml:"ttl_seconds"`
	MaxEntries int `toml:"max_entries"`
}

// LoadFromFile loads configuration with priority: defaults -> file -> env.
func LoadFromFile(path string) (*Config, error) {
	if path == "" {
		return LoadFromFiles()
	}
	return LoadFromFiles(path)
}

// LoadFromFiles loads configuration from multiple files with priority:
// defaults -> file1 -> file2 -> ... -> env.
// Later files override earlier files.
func LoadFromFiles(paths ...string) (*Config, error) {
	config := NewDefaultConfig()

	for i, path := range paths {
		if path == "" {
			continue
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}

		err = toml.Unmarshal(data, config)
		if err != nil {
			return nil, fmt.Errorf("failed to parse config file %s (file %d of %d): %w", path, i+1, len(paths), err)
		}
	}

	applyEnvOverrides(config)

	return config, nil
}

// applyEnvOverrides applies ADVISOR_* environment variable overrides to config.
func applyEnvOverrides(config *Config) {
	if port := os.Getenv("ADVISOR_SERVER_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			config.Server.Port = p
		}
	}
	if host := os.Getenv("ADVISOR_SERVER_HOST"); host != "" {
		config.Server.Host = host
	}
	if url := os.Getenv("ADVISOR_AGENT_URL"); url != "" {
		config.Agent.URL = url
	}
	if id := os.Getenv("ADVISOR_AGENT_ID"); id != "" {
		config.Agent.ID = id
	}
	if level := os.Getenv("ADVISOR_LOG_LEVEL"); level != "" {
		config.Logging.Level = level
	}
	if file := os.Getenv("ADVISOR_LOG_FILE"); file != "" {
		config.Logging.FilePath = file
	}
}

// ApplyFlagOverrides applies command-line flag overrides to config.
func ApplyFlagOverrides(config *Config, port int, host, agentURL string) {
	if port > 0 {
		config.Server.Port = port
	}
	if host != "" {
		config.Server.Host = host
	}
	if agentURL != "" {
		config.Agent.URL = agentURL
	}
}

// Validate checks mandatory configuration and returns a list of issues.
func (c *Config) Validate() []string {
	var issues []string

	if strings.TrimSpace(c.Agent.URL) == "" {
		issues = append(issues, "agent.url is required (the analysis agent endpoint)")
	}
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		issues = append(issues, fmt.Sprintf("server.port must be between 1 and 65535, got %d", c.Server.Port))
	}
	if c.Cache.TTLSeconds < 0 {
		issues = append(issues, "cache.ttl_seconds must not be negative")
	}
	if c.Cache.MaxEntries < 1 {
		issues = append(issues, "cache.max_entries must be at least 1")
	}

	return issues
}
