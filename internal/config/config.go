package config

import (
	"errors"
	"fmt"
	"os"
	"time"
)

// Config holds all service configuration loaded from environment variables.
type Config struct {
	Port            string
	ProviderAPIKey  string
	ProviderBaseURL string
	ProviderModel   string
	ProviderTimeout string
	CORSOrigin      string
}

func Load() *Config {
	return &Config{
		Port:            getenv("PORT", "8000"),
		ProviderAPIKey:  getenv("DEDALUS_API_KEY", ""),
		ProviderBaseURL: getenv("DEDALUS_BASE_URL", "https://api.dedaluslabs.ai/v1"),
		ProviderModel:   getenv("DEDALUS_MODEL", "openai/gpt-4o"),
		ProviderTimeout: getenv("PROVIDER_TIMEOUT", "30s"),
		CORSOrigin:      getenv("CORS_ORIGIN", "http://localhost:5173"),
	}
}

// Validate reports every setting the server cannot start without.
func (c *Config) Validate() error {
	var errs []error
	if c.ProviderAPIKey == "" {
		errs = append(errs, errors.New("DEDALUS_API_KEY is not set"))
	}
	if _, err := c.Timeout(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// Timeout parses ProviderTimeout. It must be a positive Go duration.
func (c *Config) Timeout() (time.Duration, error) {
	d, err := time.ParseDuration(c.ProviderTimeout)
	if err != nil {
		return 0, fmt.Errorf("PROVIDER_TIMEOUT %q: %w", c.ProviderTimeout, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("PROVIDER_TIMEOUT %q: must be positive", c.ProviderTimeout)
	}
	return d, nil
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
