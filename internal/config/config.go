/*
Package config loads and validates the runtime configuration for the dashboard.
*/
package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	DefaultModel      = "gemini-flash-lite-latest"
	DefaultOutputPath = "shotime.html"
	DefaultActiveTab  = "cn"
	DefaultSMTPServer = "smtp.gmail.com"
	DefaultSMTPPort   = 587
)

// ErrMissingAPIKey is returned by Validate when no Gemini API key was supplied.
var ErrMissingAPIKey = errors.New("API key not found in environment variables")

// EmailConfig holds SMTP configuration for delivering the rendered dashboard.
type EmailConfig struct {
	SMTPServer string `yaml:"smtp_server"`
	SMTPPort   int    `yaml:"smtp_port"`
	SMTPUser   string `yaml:"smtp_user"`
	SMTPPass   string `yaml:"smtp_pass"`
	FromEmail  string `yaml:"from_email"`
	ToEmail    string `yaml:"to_email"`
	Enabled    bool   `yaml:"-"`
}

type Config struct {
	APIKey     string      `yaml:"api_key"`
	Model      string      `yaml:"model"`
	OutputPath string      `yaml:"output"`
	ActiveTab  string      `yaml:"tab"`
	Email      EmailConfig `yaml:"email"`
}

// Default returns a Config populated with defaults and no API key.
func Default() Config {
	return Config{
		Model:      DefaultModel,
		OutputPath: DefaultOutputPath,
		ActiveTab:  DefaultActiveTab,
		Email: EmailConfig{
			SMTPServer: DefaultSMTPServer,
			SMTPPort:   DefaultSMTPPort,
		},
	}
}

// Load reads .env (if present), then the optional YAML file at path, then
// environment overrides. The result is not validated.
func Load(path string) (Config, error) {
	cfg := Default()

	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return cfg, fmt.Errorf("failed to load .env: %w", err)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	applyEnv(&cfg)
	cfg.Finalize()
	return cfg, nil
}

func applyEnv(cfg *Config) {
	if key := os.Getenv("GEMINI_API_KEY"); key != "" {
		cfg.APIKey = key
	} else if key := os.Getenv("API_KEY"); key != "" {
		cfg.APIKey = key
	}
	if model := os.Getenv("SHOTIME_MODEL"); model != "" {
		cfg.Model = model
	}
}

// Finalize fills empty fields with defaults and derives Email.Enabled. It is
// safe to call more than once, e.g. after applying command line flags.
func (c *Config) Finalize() {
	if c.Model == "" {
		c.Model = DefaultModel
	}
	if c.OutputPath == "" {
		c.OutputPath = DefaultOutputPath
	}
	if c.ActiveTab != "en" {
		c.ActiveTab = DefaultActiveTab
	}
	if c.Email.SMTPPort == 0 {
		c.Email.SMTPPort = DefaultSMTPPort
	}
	if c.Email.FromEmail == "" && c.Email.SMTPUser != "" {
		c.Email.FromEmail = c.Email.SMTPUser
	}
	e := c.Email
	c.Email.Enabled = e.SMTPServer != "" && e.SMTPUser != "" && e.SMTPPass != "" && e.ToEmail != ""
}

func (c Config) Validate() error {
	if c.APIKey == "" {
		return ErrMissingAPIKey
	}
	return nil
}
