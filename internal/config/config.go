// Package config holds the lawpipe configuration: a YAML file layered over
// defaults, with environment overrides on top.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config is the top-level configuration.
type Config struct {
	Log      LogConfig      `yaml:"log"`
	Parser   ParserConfig   `yaml:"parser"`
	Render   RenderConfig   `yaml:"render"`
	Editions EditionsConfig `yaml:"editions"`

	// Workers bounds parallel documents in batch mode.
	Workers int `yaml:"workers"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level"` // debug, info, warn, error
	Pretty bool   `yaml:"pretty"`
}

// ParserConfig extends the structural keyword vocabulary.
type ParserConfig struct {
	PartKeywords    []string `yaml:"part_keywords"`
	SectionKeywords []string `yaml:"section_keywords"`
	ChapterKeywords []string `yaml:"chapter_keywords"`
	ArticleKeywords []string `yaml:"article_keywords"`
}

// RenderConfig configures the canonical renderer.
type RenderConfig struct {
	CrossReferences bool `yaml:"cross_references"`
}

// EditionsConfig configures the edition ledger and revision index.
type EditionsConfig struct {
	Identity   string `yaml:"identity"` // date, source_id
	LinkFormat string `yaml:"link_format"`
	MaxItems   int    `yaml:"max_items"`
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Log: LogConfig{
			Level: "info",
		},
		Render: RenderConfig{
			CrossReferences: true,
		},
		Editions: EditionsConfig{
			Identity:   "date",
			LinkFormat: "/law/%s/edition/%s",
		},
		Workers: 4,
	}
}

// Load loads configuration from a YAML file. A missing file yields the
// defaults.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("failed to parse config: %w", err)
			}
		case !os.IsNotExist(err):
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	cfg.applyEnvOverrides()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyEnvOverrides applies LAWPIPE_* environment variables.
func (c *Config) applyEnvOverrides() {
	if v := os.Getenv("LAWPIPE_LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
	if v := os.Getenv("LAWPIPE_WORKERS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.Workers = n
		}
	}
}

// Validate checks value ranges and enumerations.
func (c *Config) Validate() error {
	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log level %q", c.Log.Level)
	}
	if c.Workers < 1 {
		return fmt.Errorf("workers must be at least 1, got %d", c.Workers)
	}
	switch c.Editions.Identity {
	case "", "date", "source_id":
	default:
		return fmt.Errorf("invalid edition identity %q", c.Editions.Identity)
	}
	if c.Editions.LinkFormat != "" && strings.Count(c.Editions.LinkFormat, "%s") != 2 {
		return fmt.Errorf("link_format must contain two %%s verbs, got %q", c.Editions.LinkFormat)
	}
	if c.Editions.MaxItems < 0 {
		return fmt.Errorf("max_items must not be negative, got %d", c.Editions.MaxItems)
	}
	return nil
}
