package config

import (
	"testing"
	"time"
)

func validConfig() *Config {
	return &Config{
		Token:             "123:abc",
		LogLevel:          "info",
		CleanupInterval:   10 * time.Minute,
		SessionTimeout:    30 * time.Minute,
		MaxPhotos:         100,
		MaxRows:           10,
		MaxCols:           10,
		ImageQuality:      85,
		ImageMaxSize:      2000,
		TempFileThreshold: 10,
	}
}

func TestNormalizeValid(t *testing.T) {
	if err := Normalize(validConfig()); err != nil {
		t.Fatalf("Normalize(valid) = %v", err)
	}
}

func TestNormalizeRejects(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"missing token", func(c *Config) { c.Token = "  " }},
		{"zero max photos", func(c *Config) { c.MaxPhotos = 0 }},
		{"zero max rows", func(c *Config) { c.MaxRows = 0 }},
		{"quality out of range", func(c *Config) { c.ImageQuality = 101 }},
		{"zero image size", func(c *Config) { c.ImageMaxSize = 0 }},
		{"zero session timeout", func(c *Config) { c.SessionTimeout = 0 }},
		{"zero cleanup interval", func(c *Config) { c.CleanupInterval = 0 }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := validConfig()
			tc.mutate(cfg)
			if err := Normalize(cfg); err == nil {
				t.Errorf("Normalize accepted invalid config")
			}
		})
	}
}

func TestNormalizeClampsNegativeThreshold(t *testing.T) {
	cfg := validConfig()
	cfg.TempFileThreshold = -5
	if err := Normalize(cfg); err != nil {
		t.Fatalf("Normalize = %v", err)
	}
	if cfg.TempFileThreshold != 0 {
		t.Errorf("TempFileThreshold = %d, want 0", cfg.TempFileThreshold)
	}
}
