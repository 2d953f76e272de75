package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server  ServerConfig  `yaml:"server"`
	Gemini  GeminiConfig  `yaml:"gemini"`
	Upload  UploadConfig  `yaml:"upload"`
	Paths   PathsConfig   `yaml:"paths"`
	Logging LoggingConfig `yaml:"logging"`
}

type ServerConfig struct {
	Port string `yaml:"port"`
}

type GeminiConfig struct {
	APIKey string `yaml:"api_key"`
	Model  string `yaml:"model"`
}

type UploadConfig struct {
	MaxFileSizeMB int64 `yaml:"max_file_size_mb"`
}

type PathsConfig struct {
	// Temp is the base directory for per-request working directories.
	// Empty means the OS default temp location.
	Temp string `yaml:"temp"`
}

type LoggingConfig struct {
	Level string `yaml:"level"`
}

// Load reads the optional YAML config file at path, then applies environment
// variable overrides. A missing file is not an error when path is the
// default; the environment alone is enough to run the service.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	if path == "" {
		path = "config.yaml"
		if _, err := os.Stat(path); os.IsNotExist(err) {
			path = ""
		}
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// applyEnv lets environment variables win over file values.
func (c *Config) applyEnv() error {
	if v := os.Getenv("GEMINI_API_KEY"); v != "" {
		c.Gemini.APIKey = v
	}
	if v := os.Getenv("GEMINI_MODEL"); v != "" {
		c.Gemini.Model = v
	}
	if v := os.Getenv("PORT"); v != "" {
		c.Server.Port = v
	}
	if v := os.Getenv("MAX_FILE_SIZE_MB"); v != "" {
		mb, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return fmt.Errorf("parse MAX_FILE_SIZE_MB: %w", err)
		}
		c.Upload.MaxFileSizeMB = mb
	}
	return nil
}

func (c *Config) Validate() error {
	if c.Gemini.APIKey == "" {
		return fmt.Errorf("GEMINI_API_KEY environment variable is required")
	}

	if c.Gemini.Model == "" {
		c.Gemini.Model = "gemini-2.0-flash"
	}
	if c.Server.Port == "" {
		c.Server.Port = "5000"
	}
	if c.Upload.MaxFileSizeMB <= 0 {
		c.Upload.MaxFileSizeMB = 500
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}

	return nil
}

// MaxFileSizeBytes returns the upload ceiling in bytes.
func (c *Config) MaxFileSizeBytes() int64 {
	return c.Upload.MaxFileSizeMB * 1024 * 1024
}
