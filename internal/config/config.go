package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	DefaultListen            = ":8080"
	DefaultReadHeaderTimeout = 5 * time.Second
	DefaultLogLevel          = "info"
	DefaultLogFormat         = "text"
)

// Config represents the main configuration structure for realipd
type Config struct {
	Server   ServerConfig   `yaml:"server" envPrefix:"REALIPD_"`
	Resolver ResolverConfig `yaml:"resolver" envPrefix:"REALIPD_"`
	Logging  LoggingConfig  `yaml:"logging" envPrefix:"REALIPD_LOG_"`
}

// ServerConfig holds the HTTP listener configuration
type ServerConfig struct {
	Listen            string        `yaml:"listen" env:"LISTEN"`
	ReadHeaderTimeout time.Duration `yaml:"read_header_timeout" env:"READ_HEADER_TIMEOUT"`
}

// ResolverConfig holds the client address resolution settings
type ResolverConfig struct {
	// PeerFallback enables the transport peer fallback. Leave it off when
	// the service is only reachable through a proxy.
	PeerFallback bool `yaml:"peer_fallback" env:"PEER_FALLBACK"`
	// ResponseHeader echoes the resolved address in a response header when set.
	ResponseHeader string `yaml:"response_header" env:"RESPONSE_HEADER"`
}

// LoggingConfig holds the logger configuration
type LoggingConfig struct {
	Level  string `yaml:"level" env:"LEVEL"`
	Format string `yaml:"format" env:"FORMAT"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Listen:            DefaultListen,
			ReadHeaderTimeout: DefaultReadHeaderTimeout,
		},
		Logging: LoggingConfig{
			Level:  DefaultLogLevel,
			Format: DefaultLogFormat,
		},
	}
}

// LoadConfig loads configuration from the specified YAML file on top of the
// defaults. An empty path skips the file.
func LoadConfig(filePath string) (*Config, error) {
	cfg := Default()
	if filePath == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("error parsing config file: %w", err)
	}

	return cfg, nil
}

// Load reads the YAML file (optional), then a .env file from the working
// directory (optional), then applies REALIPD_* environment overrides.
func Load(filePath string) (*Config, error) {
	cfg, err := LoadConfig(filePath)
	if err != nil {
		return nil, err
	}

	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("error loading .env file: %w", err)
	}

	if err := ApplyEnv(cfg); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// ApplyEnv overrides cfg fields from REALIPD_* environment variables. Unset
// variables leave the current values alone.
func ApplyEnv(cfg *Config) error {
	if err := env.Parse(cfg); err != nil {
		return fmt.Errorf("error parsing environment: %w", err)
	}
	return nil
}

// Validate checks the configuration for values the service cannot run with.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Server.Listen) == "" {
		return fmt.Errorf("server.listen cannot be empty")
	}
	if c.Server.ReadHeaderTimeout < 0 {
		return fmt.Errorf("server.read_header_timeout must be >= 0, got %s", c.Server.ReadHeaderTimeout)
	}
	switch strings.ToLower(c.Logging.Format) {
	case "", "text", "json":
	default:
		return fmt.Errorf("logging.format must be text or json, got %q", c.Logging.Format)
	}
	return nil
}
