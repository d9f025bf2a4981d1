package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"

	"github.com/kotoba-lab/questcore/internal/challenge"
	"github.com/kotoba-lab/questcore/internal/selection"
)

// Environment variables read by ConfigFromEnv.
const (
	EnvDB               = "QUESTCORE_DB"
	EnvCatalog          = "QUESTCORE_CATALOG"
	EnvProfile          = "QUESTCORE_PROFILE"
	EnvChallengeURL     = "QUESTCORE_CHALLENGE_URL"
	EnvChallengeTimeout = "QUESTCORE_CHALLENGE_TIMEOUT"
	EnvLogLevel         = "QUESTCORE_LOG_LEVEL"
	EnvLogFormat        = "QUESTCORE_LOG_FORMAT"
	EnvSessionSize      = "QUESTCORE_SESSION_SIZE"
	EnvTimezone         = "QUESTCORE_TIMEZONE"
)

// DefaultProfile is the learner profile used when none is configured.
const DefaultProfile = "default"

// Config holds the runtime settings of the CLI.
type Config struct {
	// DBPath is the SQLite file. Empty means store.DefaultDBPath.
	DBPath string

	// CatalogPath is a question catalog file. Empty means the bundled one.
	CatalogPath string

	// Profile keys every persisted learner slot.
	Profile string `validate:"required,max=64,printascii"`

	// Timezone is the IANA zone calendar dates are observed in. Empty means
	// the system zone.
	Timezone string

	// SessionSize caps the questions drawn for one game.
	SessionSize int `validate:"min=1,max=100"`

	LogLevel  string `validate:"oneof=debug info warn error"`
	LogFormat string `validate:"oneof=json console"`

	Challenge challenge.Config
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Profile:     DefaultProfile,
		SessionSize: selection.DefaultSessionSize,
		LogLevel:    "warn",
		LogFormat:   "console",
		Challenge:   challenge.DefaultConfig(),
	}
}

// ConfigFromEnv builds a Config from a .env file in the working directory
// (if any) and environment variables, falling back to defaults for unset
// values. Variables already set in the environment win over the .env file.
func ConfigFromEnv() (Config, error) {
	_ = godotenv.Load()
	cfg := DefaultConfig()

	if v := os.Getenv(EnvDB); v != "" {
		cfg.DBPath = v
	}
	if v := os.Getenv(EnvCatalog); v != "" {
		cfg.CatalogPath = v
	}
	if v := os.Getenv(EnvProfile); v != "" {
		cfg.Profile = v
	}
	if v := os.Getenv(EnvTimezone); v != "" {
		cfg.Timezone = v
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		cfg.LogLevel = v
	}
	if v := os.Getenv(EnvLogFormat); v != "" {
		cfg.LogFormat = v
	}
	if v := os.Getenv(EnvSessionSize); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return cfg, fmt.Errorf("%s=%q is not a number: %w", EnvSessionSize, v, err)
		}
		cfg.SessionSize = n
	}
	if v := os.Getenv(EnvChallengeURL); v != "" {
		cfg.Challenge.BaseURL = v
	}
	if v := os.Getenv(EnvChallengeTimeout); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return cfg, fmt.Errorf("%s=%q is not a valid duration: %w", EnvChallengeTimeout, v, err)
		}
		cfg.Challenge.Timeout = d
	}

	return cfg, nil
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks field constraints and that the timezone resolves.
func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	if _, err := c.Location(); err != nil {
		return err
	}
	return nil
}

// Location returns the zone calendar dates are observed in.
func (c Config) Location() (*time.Location, error) {
	if c.Timezone == "" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("%s=%q: %w", EnvTimezone, c.Timezone, err)
	}
	return loc, nil
}
