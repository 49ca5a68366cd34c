package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/mosaxiv/gist-transfer/gist"
)

// Config holds per-user defaults. The access token is deliberately absent.
type Config struct {
	APIBaseURL  string `json:"apiBaseURL"`
	UserAgent   string `json:"userAgent,omitempty"`
	Retries     int    `json:"retries"`
	TimeoutSec  int    `json:"timeoutSec"`
	Public      bool   `json:"public"`
	Description string `json:"description,omitempty"`
	OutputDir   string `json:"outputDir,omitempty"`
}

func Default() *Config {
	return &Config{
		APIBaseURL:  gist.DefaultBaseURL,
		Description: gist.DefaultDescription,
		OutputDir:   ".",
	}
}

// Load reads path on top of Default. A missing file is not an error.
func Load(path string) (*Config, error) {
	cfg := Default()
	b, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(b, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if c.Retries < 0 {
		return errors.New("retries must be >= 0")
	}
	if c.TimeoutSec < 0 {
		return errors.New("timeoutSec must be >= 0")
	}
	return nil
}

// ApplyEnv overrides fields from GIST_TRANSFER_* variables.
func (c *Config) ApplyEnv(getenv func(string) string) error {
	if v := strings.TrimSpace(getenv("GIST_TRANSFER_API_URL")); v != "" {
		c.APIBaseURL = v
	}
	if v := strings.TrimSpace(getenv("GIST_TRANSFER_RETRIES")); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("GIST_TRANSFER_RETRIES: %w", err)
		}
		c.Retries = n
	}
	return c.Validate()
}

func (c *Config) Timeout() time.Duration {
	return time.Duration(c.TimeoutSec) * time.Second
}
