// Package config holds the environment-driven configuration surface of the bot.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config aggregates all runtime settings. Values are read once at startup.
type Config struct {
	// Token authenticates the bot against the Telegram API.
	Token string `envconfig:"BOT_TOKEN"`

	LogLevel  string `envconfig:"LOG_LEVEL" default:"info"`
	LogFormat string `envconfig:"LOG_FORMAT" default:"text"`
	Debug     bool   `envconfig:"DEBUG" default:"false"`

	// CleanupInterval is the period of the idle-session and stale-temp sweeps.
	CleanupInterval time.Duration `envconfig:"CLEANUP_INTERVAL" default:"10m"`
	// SessionTimeout is the maximum age of an idle session before it is reaped.
	SessionTimeout time.Duration `envconfig:"SESSION_TIMEOUT" default:"30m"`

	// MaxPhotos caps both photos per page (rows*cols) and total photos per build.
	MaxPhotos int `envconfig:"MAX_PHOTOS" default:"100"`
	// MaxRows and MaxCols are soft caps: exceeding them warns but is accepted.
	MaxRows int `envconfig:"MAX_ROWS" default:"10"`
	MaxCols int `envconfig:"MAX_COLS" default:"10"`

	// ImageQuality is the JPEG re-encode quality (0-100).
	ImageQuality int `envconfig:"IMAGE_QUALITY" default:"85"`
	// ImageMaxSize bounds the longer pixel dimension of stored photos.
	ImageMaxSize int `envconfig:"IMAGE_MAX_SIZE" default:"2000"`

	// AdminID, when non-zero, receives a notification on startup.
	AdminID int64 `envconfig:"ADMIN_ID"`

	EnableButtons bool          `envconfig:"ENABLE_BUTTONS" default:"true"`
	ButtonTimeout time.Duration `envconfig:"BUTTON_TIMEOUT" default:"1h"`

	// UseTempFiles enables the staged-file build strategy for large documents.
	UseTempFiles bool `envconfig:"USE_TEMP_FILES" default:"true"`
	// TempFileThreshold is the photo count above which staged builds kick in.
	TempFileThreshold int `envconfig:"TEMP_FILE_THRESHOLD" default:"10"`
	// MaxDocumentMB bounds the artifact size accepted for delivery.
	MaxDocumentMB int `envconfig:"MAX_DOCUMENT_MB" default:"45"`

	// LongPollTimeout is the Telegram long-polling timeout.
	LongPollTimeout time.Duration `envconfig:"LONGPOLL_TIMEOUT" default:"10s"`
}

// Load reads configuration from the environment and validates it.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process env: %w", err)
	}
	if err := Normalize(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Normalize performs basic validation of required fields and adjusts defaults.
func Normalize(cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("nil config")
	}
	if strings.TrimSpace(cfg.Token) == "" {
		return fmt.Errorf("BOT_TOKEN is required")
	}
	if cfg.MaxPhotos <= 0 {
		return fmt.Errorf("MAX_PHOTOS must be > 0")
	}
	if cfg.MaxRows <= 0 || cfg.MaxCols <= 0 {
		return fmt.Errorf("MAX_ROWS and MAX_COLS must be > 0")
	}
	if cfg.ImageQuality < 1 || cfg.ImageQuality > 100 {
		return fmt.Errorf("IMAGE_QUALITY must be within 1..100")
	}
	if cfg.ImageMaxSize <= 0 {
		return fmt.Errorf("IMAGE_MAX_SIZE must be > 0")
	}
	if cfg.SessionTimeout <= 0 {
		return fmt.Errorf("SESSION_TIMEOUT must be > 0")
	}
	if cfg.CleanupInterval <= 0 {
		return fmt.Errorf("CLEANUP_INTERVAL must be > 0")
	}
	if cfg.TempFileThreshold < 0 {
		cfg.TempFileThreshold = 0
	}
	return nil
}
