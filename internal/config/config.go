// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package config loads the application configuration from ALUMNI_*
// environment variables.
package config

import (
	"fmt"
	"log/slog"
	"strings"
	"time"
	_ "time/tzdata" // Asia/Dhaka on hosts without zoneinfo

	"github.com/caarlos0/env/v11"
)

// knownWeakSecrets contains example secrets that must never be used.
var knownWeakSecrets = []string{
	"change-me-to-32-byte-secret-key!",
	"REPLACE_WITH_YOUR_OWN_SECRET_KEY!",
}

// Config holds the application configuration loaded from environment variables.
type Config struct {
	DBPath        string `env:"ALUMNI_DB_PATH" envDefault:"./data/alumni.db"`
	GalleryDBPath string `env:"ALUMNI_GALLERY_DB_PATH" envDefault:"./data/DAFGalleryDB.db"`
	HeroDBPath    string `env:"ALUMNI_HERO_DB_PATH" envDefault:"./data/DAFHeroDB.db"`
	SessionSecret string `env:"ALUMNI_SESSION_SECRET,required"`
	ServerHost    string `env:"ALUMNI_SERVER_HOST" envDefault:"localhost"`
	ServerPort    int    `env:"ALUMNI_SERVER_PORT" envDefault:"8080"`
	Env           string `env:"ALUMNI_ENV" envDefault:"development"`
	LogLevel      string `env:"ALUMNI_LOG_LEVEL" envDefault:"info"`
	Timezone      string `env:"ALUMNI_TIMEZONE" envDefault:"Asia/Dhaka"`
	SiteURL       string `env:"ALUMNI_SITE_URL"` // public base URL for robots.txt and sitemap.xml

	// Admin account
	AdminUsername string `env:"ALUMNI_ADMIN_USERNAME" envDefault:"admin"`
	AdminPassword string `env:"ALUMNI_ADMIN_PASSWORD"` // initial password, stored hashed on first start

	// Uploads
	ProfilePictureMaxBytes int64         `env:"ALUMNI_PROFILE_PICTURE_MAX_BYTES" envDefault:"2097152"`
	MediaUploadMaxBytes    int64         `env:"ALUMNI_MEDIA_UPLOAD_MAX_BYTES" envDefault:"5242880"`
	ImageMaxEdge           int           `env:"ALUMNI_IMAGE_MAX_EDGE" envDefault:"1600"`
	StagingTTL             time.Duration `env:"ALUMNI_STAGING_TTL" envDefault:"30m"`

	// Cache
	RedisURL    string `env:"ALUMNI_REDIS_URL"`
	CachePrefix string `env:"ALUMNI_CACHE_PREFIX" envDefault:"alumni:"`

	// Email
	SendGridAPIKey string `env:"ALUMNI_SENDGRID_API_KEY"`
	MailFrom       string `env:"ALUMNI_MAIL_FROM"`

	// Error tracking
	RollbarToken string `env:"ALUMNI_ROLLBAR_TOKEN"`

	// Activity log retention
	ActivityRetention time.Duration `env:"ALUMNI_ACTIVITY_RETENTION" envDefault:"2160h"`
}

// IsDevelopment returns true if the application is running in development mode.
func (c Config) IsDevelopment() bool {
	return c.Env == "development"
}

// ServerAddr returns the full server address in host:port format.
func (c Config) ServerAddr() string {
	return fmt.Sprintf("%s:%d", c.ServerHost, c.ServerPort)
}

// UseRedisCache returns true if Redis caching is configured.
func (c Config) UseRedisCache() bool {
	return c.RedisURL != ""
}

// MailEnabled returns true if outgoing email is configured.
func (c Config) MailEnabled() bool {
	return c.SendGridAPIKey != "" && c.MailFrom != ""
}

// Location returns the configured time zone, falling back to UTC.
func (c Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// SlogLevel maps LogLevel to a slog level.
func (c Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// MinSessionSecretLength is the minimum required length for the session secret.
const MinSessionSecretLength = 32

// Load parses environment variables and returns a Config struct.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	if len(cfg.SessionSecret) < MinSessionSecretLength {
		return nil, fmt.Errorf("ALUMNI_SESSION_SECRET must be at least %d bytes long, got %d bytes; "+
			"generate a secure secret with: openssl rand -base64 32",
			MinSessionSecretLength, len(cfg.SessionSecret))
	}

	for _, weak := range knownWeakSecrets {
		if cfg.SessionSecret == weak {
			return nil, fmt.Errorf("ALUMNI_SESSION_SECRET is a known default value and must not be used; " +
				"generate a secure secret with: openssl rand -base64 32")
		}
	}

	if !hasMinimumEntropy(cfg.SessionSecret) {
		slog.Warn("ALUMNI_SESSION_SECRET has low character diversity; " +
			"consider generating a random secret with: openssl rand -base64 32")
	}

	if _, err := time.LoadLocation(cfg.Timezone); err != nil {
		return nil, fmt.Errorf("ALUMNI_TIMEZONE %q: %w", cfg.Timezone, err)
	}
	if cfg.ProfilePictureMaxBytes <= 0 || cfg.MediaUploadMaxBytes <= 0 {
		return nil, fmt.Errorf("upload limits must be positive")
	}
	if cfg.ImageMaxEdge < 64 {
		return nil, fmt.Errorf("ALUMNI_IMAGE_MAX_EDGE must be at least 64, got %d", cfg.ImageMaxEdge)
	}

	return cfg, nil
}

// hasMinimumEntropy checks that a secret contains at least 3 character classes.
func hasMinimumEntropy(s string) bool {
	charTypes := 0
	if strings.ContainsAny(s, "abcdefghijklmnopqrstuvwxyz") {
		charTypes++
	}
	if strings.ContainsAny(s, "ABCDEFGHIJKLMNOPQRSTUVWXYZ") {
		charTypes++
	}
	if strings.ContainsAny(s, "0123456789") {
		charTypes++
	}
	if strings.ContainsAny(s, "!@#$%^&*()-_=+[]{}|;:,.<>?/~`'\"\\") {
		charTypes++
	}
	return charTypes >= 3
}
