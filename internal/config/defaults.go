package config

import "github.com/finsight/advisor-portal/internal/common"

// NewDefaultConfig creates a configuration with default values.
func NewDefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port: 4311,
			Host: "localhost",
		},
		Agent: AgentConfig{
			URL: "http://localhost:4312",
			ID:  "financial-analysis-agent",
		},
		Cache: CacheConfig{
			TTLSeconds: 60,
			MaxEntries: 200,
		},
		Logging: common.LoggingConfig{
			Level:   "info",
			Outputs: []string{"console", "file"},
		},
	}
}
