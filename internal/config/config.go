// Package config loads the collector configuration from the environment.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"github.com/Sternrassler/reqres-client/pkg/client"
	"github.com/Sternrassler/reqres-client/pkg/logging"
	"github.com/Sternrassler/reqres-client/pkg/pagination"
)

// Environment variables read by Load.
const (
	EnvBaseURL   = "USERLIST_BASE_URL"
	EnvUserAgent = "USERLIST_USER_AGENT"
	EnvAPIKey    = "USERLIST_API_KEY"
	EnvMaxPages  = "USERLIST_MAX_PAGES"
	EnvTimeout   = "USERLIST_TIMEOUT"
	EnvLogLevel  = "LOG_LEVEL"
	EnvLogPretty = "LOG_PRETTY"
)

// Config is the complete runtime configuration.
type Config struct {
	BaseURL   string
	UserAgent string
	APIKey    string
	MaxPages  int
	Timeout   time.Duration
	Logging   logging.Config
}

// ValidationError represents a configuration validation error
type ValidationError struct {
	Field   string
	Value   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("validation failed for %s='%s': %s", e.Field, e.Value, e.Message)
}

// ValidationErrors represents multiple validation errors
type ValidationErrors []ValidationError

func (ve ValidationErrors) Error() string {
	if len(ve) == 0 {
		return ""
	}

	msg := "configuration validation errors:\n"
	for _, err := range ve {
		msg += fmt.Sprintf("  - %s\n", err.Error())
	}
	return msg
}

// Default returns the configuration used when no variable is set.
func Default() Config {
	return Config{
		BaseURL:   client.DefaultBaseURL,
		UserAgent: client.DefaultUserAgent,
		MaxPages:  pagination.DefaultMaxPages,
		Logging:   logging.DefaultConfig(),
	}
}

// Load reads an optional .env file from the working directory, then the
// environment, and validates the result.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}
	return FromEnv(os.LookupEnv)
}

// FromEnv builds the configuration from lookup, applying defaults for unset
// variables, and validates it.
func FromEnv(lookup func(string) (string, bool)) (*Config, error) {
	cfg := Default()
	var errs ValidationErrors

	if v, ok := lookup(EnvBaseURL); ok {
		cfg.BaseURL = v
	}
	if v, ok := lookup(EnvUserAgent); ok {
		cfg.UserAgent = v
	}
	if v, ok := lookup(EnvAPIKey); ok {
		cfg.APIKey = v
	}

	if v, ok := lookup(EnvMaxPages); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			errs = append(errs, ValidationError{Field: EnvMaxPages, Value: v, Message: "must be a valid integer"})
		} else {
			cfg.MaxPages = n
		}
	}

	if v, ok := lookup(EnvTimeout); ok {
		d, err := time.ParseDuration(v)
		if err != nil {
			errs = append(errs, ValidationError{Field: EnvTimeout, Value: v, Message: "must be a duration such as 30s"})
		} else {
			cfg.Timeout = d
		}
	}

	if v, ok := lookup(EnvLogLevel); ok {
		cfg.Logging.Level = logging.LogLevel(v)
	}

	if v, ok := lookup(EnvLogPretty); ok {
		pretty, err := strconv.ParseBool(v)
		if err != nil {
			errs = append(errs, ValidationError{Field: EnvLogPretty, Value: v, Message: "must be true or false"})
		} else {
			cfg.Logging.Pretty = pretty
		}
	}

	errs = append(errs, cfg.validate()...)
	if len(errs) > 0 {
		return nil, errs
	}

	return &cfg, nil
}

func (c Config) validate() ValidationErrors {
	var errs ValidationErrors

	if u, err := url.Parse(c.BaseURL); err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		errs = append(errs, ValidationError{Field: EnvBaseURL, Value: c.BaseURL, Message: "must be an absolute http or https URL"})
	}

	if c.UserAgent == "" {
		errs = append(errs, ValidationError{Field: EnvUserAgent, Value: "", Message: "must not be empty"})
	}

	if c.MaxPages < 1 {
		errs = append(errs, ValidationError{Field: EnvMaxPages, Value: strconv.Itoa(c.MaxPages), Message: "must be at least 1"})
	}

	if c.Timeout < 0 {
		errs = append(errs, ValidationError{Field: EnvTimeout, Value: c.Timeout.String(), Message: "must not be negative"})
	}

	if !logging.ValidLevel(string(c.Logging.Level)) {
		errs = append(errs, ValidationError{Field: EnvLogLevel, Value: string(c.Logging.Level), Message: "must be one of: debug, info, warn, error"})
	}

	return errs
}

// ClientConfig returns the user API client configuration.
func (c Config) ClientConfig() client.Config {
	return client.Config{
		BaseURL:   c.BaseURL,
		UserAgent: c.UserAgent,
		APIKey:    c.APIKey,
		Timeout:   c.Timeout,
	}
}

// CollectorConfig returns the collector configuration.
func (c Config) CollectorConfig() pagination.Config {
	return pagination.Config{MaxPages: c.MaxPages}
}
