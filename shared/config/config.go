// Package config loads compiler configuration from a YAML file with
// environment-variable overrides. A .env file in the working directory is
// honored when present.
package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"
)

// Config is the top-level compiler configuration.
type Config struct {
	// Root is the content directory holding source documents. Required.
	Root string `yaml:"root"`
	// Pattern is the glob for discoverable source files.
	Pattern string `yaml:"pattern"`
	// Delimiter is the literal segment separator.
	Delimiter string `yaml:"delimiter"`
	// LogLevel is a zerolog level name; "disabled" turns failure logging off.
	LogLevel string `yaml:"logLevel"`
	// Workers caps concurrent per-file compilations; 0 means uncapped.
	Workers int `yaml:"workers"`
	// Artifact is the output path for the serialized snapshot. Empty skips
	// artifact writing.
	Artifact string `yaml:"artifact"`
	Parsers  Parsers `yaml:"parsers"`
}

// Parsers selects the parser implementation and options per role.
type Parsers struct {
	Metadata Parser `yaml:"metadata"`
	Excerpt  Parser `yaml:"excerpt"`
	Body     Parser `yaml:"body"`
}

// Parser names a built-in parser implementation plus free-form options.
type Parser struct {
	Name    string         `yaml:"name"`
	Options map[string]any `yaml:"options"`
}

// Load reads configuration from the YAML file at path, then applies
// environment overrides. An empty path skips the file and configures from
// the environment alone.
func Load(path string) (*Config, error) {
	// Best effort; a missing .env just means the environment is already set.
	_ = godotenv.Load()

	cfg := &Config{
		LogLevel: zerolog.LevelWarnValue,
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	cfg.applyEnvOverrides()

	if cfg.Root == "" {
		return nil, fmt.Errorf("config: root is required")
	}

	return cfg, nil
}

func (c *Config) applyEnvOverrides() {
	c.Root = getEnv("INKWELL_ROOT", c.Root)
	c.Pattern = getEnv("INKWELL_PATTERN", c.Pattern)
	c.Delimiter = getEnv("INKWELL_DELIMITER", c.Delimiter)
	c.LogLevel = getEnv("INKWELL_LOG_LEVEL", c.LogLevel)
	c.Artifact = getEnv("INKWELL_ARTIFACT", c.Artifact)
	c.Workers = getEnvInt("INKWELL_WORKERS", c.Workers)
}

// Level parses the configured log level name. "disabled" maps to the
// zerolog sentinel that turns failure logging off.
func (c *Config) Level() (zerolog.Level, error) {
	level, err := zerolog.ParseLevel(c.LogLevel)
	if err != nil {
		return zerolog.NoLevel, fmt.Errorf("config: invalid log level %q: %w", c.LogLevel, err)
	}
	return level, nil
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return n
}
