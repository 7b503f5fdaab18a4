package server

import (
	"fmt"
	"os"
	"time"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
)

// Config represents the complete server configuration
type Config struct {
	Server Settings `hcl:"server,block"`
}

// Settings contains server-level configuration
type Settings struct {
	Address      string `hcl:"address,optional"`
	Port         int    `hcl:"port,optional"`
	LogLevel     string `hcl:"log_level,optional"`
	PingInterval int    `hcl:"ping_interval,optional"` // seconds
	Seed         int64  `hcl:"seed,optional"`          // 0 means time-seeded
}

// DefaultConfig returns default server configuration
func DefaultConfig() *Config {
	return &Config{
		Server: Settings{
			Address:      "",
			Port:         3000,
			LogLevel:     "info",
			PingInterval: 30,
		},
	}
}

// LoadConfig loads server configuration from an HCL file. A missing file
// yields the defaults.
func LoadConfig(filename string) (*Config, error) {
	if _, err := os.Stat(filename); os.IsNotExist(err) {
		return DefaultConfig(), nil
	}

	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file: %s", diags.Error())
	}

	var config Config
	diags = gohcl.DecodeBody(file.Body, nil, &config)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL: %s", diags.Error())
	}

	// Apply defaults for missing values
	if config.Server.Port == 0 {
		config.Server.Port = 3000
	}
	if config.Server.LogLevel == "" {
		config.Server.LogLevel = "info"
	}
	if config.Server.PingInterval == 0 {
		config.Server.PingInterval = 30
	}

	return &config, nil
}

// Validate validates the server configuration
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid port: %d", c.Server.Port)
	}
	if c.Server.PingInterval < 1 {
		return fmt.Errorf("ping interval must be positive, got %d", c.Server.PingInterval)
	}
	switch c.Server.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log level: %s", c.Server.LogLevel)
	}
	return nil
}

// ListenAddr returns the host:port the server should bind.
func (c *Config) ListenAddr() string {
	return fmt.Sprintf("%s:%d", c.Server.Address, c.Server.Port)
}

// PingPeriod returns the liveness probe interval as a duration.
func (c *Config) PingPeriod() time.Duration {
	return time.Duration(c.Server.PingInterval) * time.Second
}
