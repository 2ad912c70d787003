package config

import (
	"fmt"
	"net/url"
	"os"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Built-in defaults target the Paradise Valley Music Hour archive.
const (
	DefaultPage        = "https://voiceofvashon.org/audio/Paradise/"
	DefaultSite        = "https://voiceofvashon.org"
	DefaultTitle       = "Paradise Valley Music Hour"
	DefaultDescription = "Welcome to the Paradise Valley Music Hour, your gateway to the vibrant sounds of the Pacific Northwest and beyond. Join me for an exclusive showcase of the region’s latest talents alongside timeless classics from well-known artists."
	DefaultImage       = "https://navels.github.io/paradise-valley-music-hour/paradise-artwork.jpg"
)

type Config struct {
	Page        string `yaml:"page"`
	Site        string `yaml:"site"`
	Title       string `yaml:"title"`
	Description string `yaml:"description"`
	Image       string `yaml:"image"`
	Limit       int    `yaml:"limit"`
	LogLevel    string `yaml:"log_level"`
}

// Load builds a Config from the optional YAML file at path. An empty path
// yields the built-in defaults. Environment references like ${VAR} inside
// the file are expanded; a .env file in the working directory is honored.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}

		expanded := os.ExpandEnv(string(data))

		if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	cfg.setDefaults()

	return &cfg, nil
}

func (c *Config) setDefaults() {
	if c.Page == "" {
		c.Page = DefaultPage
	}
	if c.Site == "" {
		c.Site = DefaultSite
	}
	if c.Title == "" {
		c.Title = DefaultTitle
	}
	if c.Description == "" {
		c.Description = DefaultDescription
	}
	if c.Image == "" {
		c.Image = DefaultImage
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
}

func (c *Config) Validate() error {
	u, err := url.Parse(c.Page)
	if err != nil {
		return fmt.Errorf("invalid page URL %q: %w", c.Page, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("page URL must be http or https, got %q", c.Page)
	}
	if c.Limit < 0 {
		return fmt.Errorf("limit must not be negative, got %d", c.Limit)
	}
	return nil
}
