package config

import (
	"fmt"
	"os"
	"strings"
	"time"
)

const (
	defaultAccessTTL       = "24h"
	defaultRefreshTTL      = "168h"
	defaultVerifyCodeTTL   = "15m"
	defaultVerifyResend    = "60s"
	defaultAccessSecret    = "change-me-access-secret"
	defaultRefreshSecret   = "change-me-refresh-secret"
	defaultVerifyPepper    = "change-me-verification-pepper"
	defaultPort            = "8080"
	defaultDSN             = "socialhub.db"
	defaultMailFromAddress = "no-reply@socialhub.local"
)

type Config struct {
	AppEnv               string
	Port                 string
	DatabaseDSN          string
	AccessTokenSecret    string
	RefreshTokenSecret   string
	AccessTTL            time.Duration
	RefreshTTL           time.Duration
	VerifyCodePepper     string
	VerifyCodeTTL        time.Duration
	VerifyResendCooldown time.Duration
	MailFromAddress      string
	DevMailEnabled       bool
}

func Load() (*Config, error) {
	cfg := &Config{}

	appEnv := strings.TrimSpace(os.Getenv("APP_ENV"))
	if appEnv == "" {
		appEnv = "dev"
	}
	cfg.AppEnv = strings.ToLower(appEnv)

	cfg.Port = getEnv("PORT", defaultPort)
	cfg.DatabaseDSN = getEnv("DATABASE_URL", defaultDSN)
	cfg.AccessTokenSecret = strings.TrimSpace(getEnv("ACCESS_TOKEN_SECRET", defaultAccessSecret))
	cfg.RefreshTokenSecret = strings.TrimSpace(getEnv("REFRESH_TOKEN_SECRET", defaultRefreshSecret))
	cfg.VerifyCodePepper = strings.TrimSpace(getEnv("VERIFICATION_CODE_PEPPER", defaultVerifyPepper))
	cfg.MailFromAddress = getEnv("MAIL_FROM_ADDRESS", defaultMailFromAddress)
	cfg.DevMailEnabled = cfg.AppEnv != "prod"

	var err error
	if cfg.AccessTTL, err = parseDurationEnv("ACCESS_TOKEN_TTL", defaultAccessTTL); err != nil {
		return nil, err
	}
	if cfg.RefreshTTL, err = parseDurationEnv("REFRESH_TOKEN_TTL", defaultRefreshTTL); err != nil {
		return nil, err
	}
	if cfg.VerifyCodeTTL, err = parseDurationEnv("VERIFY_CODE_TTL", defaultVerifyCodeTTL); err != nil {
		return nil, err
	}
	if cfg.VerifyResendCooldown, err = parseDurationEnv("VERIFY_RESEND_COOLDOWN", defaultVerifyResend); err != nil {
		return nil, err
	}

	if cfg.AppEnv == "prod" {
		if cfg.AccessTokenSecret == defaultAccessSecret || cfg.RefreshTokenSecret == defaultRefreshSecret {
			return nil, fmt.Errorf("config: token secrets must be set in prod")
		}
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func parseDurationEnv(key, fallback string) (time.Duration, error) {
	raw := getEnv(key, fallback)
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("config: invalid duration for %s: %w", key, err)
	}
	return d, nil
}
