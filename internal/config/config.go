package config

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type AppConfig struct {
	Port     string
	Env      string
	LogLevel string

	// CORSOrigin is the single origin allowed to call the API from a browser.
	CORSOrigin string

	WeatherstackAccessKey string
	WeatherstackBaseURL   string

	// ProviderTimeout bounds outbound provider calls (0 = no timeout).
	ProviderTimeout time.Duration

	// StoreReportInterval controls how often the store size is logged (0 = disabled).
	StoreReportInterval time.Duration

	ShutdownTimeout time.Duration
}

// Load reads configuration from the environment (and an optional .env file)
// with sensible defaults.
func Load() (*AppConfig, error) {
	if err := godotenv.Load(); err != nil {
		log.Printf("INFO: No .env file found or error loading it: %v", err)
	}

	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()

	return fromViper(v)
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("PORT", "8000")
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("CORS_ORIGIN", "http://localhost:3000")
	v.SetDefault("WEATHERSTACK_BASE_URL", "http://api.weatherstack.com")
	v.SetDefault("PROVIDER_TIMEOUT", "0s")
	v.SetDefault("STORE_REPORT_INTERVAL", "15m")
	v.SetDefault("SHUTDOWN_TIMEOUT", "10s")
}

func fromViper(v *viper.Viper) (*AppConfig, error) {
	cfg := &AppConfig{
		Port:                  v.GetString("PORT"),
		Env:                   v.GetString("APP_ENV"),
		LogLevel:              v.GetString("LOG_LEVEL"),
		CORSOrigin:            strings.TrimSpace(v.GetString("CORS_ORIGIN")),
		WeatherstackAccessKey: strings.TrimSpace(v.GetString("WEATHERSTACK_ACCESS_KEY")),
		WeatherstackBaseURL:   v.GetString("WEATHERSTACK_BASE_URL"),
	}

	var err error
	if cfg.ProviderTimeout, err = duration(v, "PROVIDER_TIMEOUT"); err != nil {
		return nil, err
	}
	if cfg.StoreReportInterval, err = duration(v, "STORE_REPORT_INTERVAL"); err != nil {
		return nil, err
	}
	if cfg.ShutdownTimeout, err = duration(v, "SHUTDOWN_TIMEOUT"); err != nil {
		return nil, err
	}

	if cfg.WeatherstackAccessKey == "" {
		return nil, errors.New("WEATHERSTACK_ACCESS_KEY is required")
	}
	if cfg.CORSOrigin == "" || cfg.CORSOrigin == "*" {
		return nil, errors.New("CORS_ORIGIN must name a single origin")
	}
	if cfg.ShutdownTimeout <= 0 {
		return nil, errors.New("SHUTDOWN_TIMEOUT must be positive")
	}

	return cfg, nil
}

func duration(v *viper.Viper, key string) (time.Duration, error) {
	d, err := time.ParseDuration(v.GetString(key))
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	if d < 0 {
		return 0, fmt.Errorf("invalid %s: must not be negative", key)
	}
	return d, nil
}
