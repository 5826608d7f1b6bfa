package config

import (
	"errors"
	"os"
	"time"
)

const (
	UploadTargetBackend = "backend"
	UploadTargetR2      = "r2"
)

type R2 struct {
	AccountID  string
	AccessKey  string
	SecretKey  string
	BucketName string
	PublicURL  string
}

type Config struct {
	Port                string
	BackendURL          string
	BackendServiceToken string
	BackendClientID     string
	BackendClientSecret string
	BackendTokenURL     string
	BackendTimeout      time.Duration
	PostgresURI         string
	RedisURI            string
	FrontendURL         string
	UploadTarget        string
	R2                  R2
	SecretKey           string
	CookieName          string
	DispatchSchedule    string
	StatusCheckGrace    time.Duration
	DefaultPlatform     string
	ComposerIdleTimeout time.Duration
}

func LoadConfig() *Config {
	return &Config{
		Port:                getEnv("PORT", "3000"),
		BackendURL:          getEnv("BACKEND_URL", ""),
		BackendServiceToken: getEnv("BACKEND_SERVICE_TOKEN", ""),
		BackendClientID:     getEnv("BACKEND_CLIENT_ID", ""),
		BackendClientSecret: getEnv("BACKEND_CLIENT_SECRET", ""),
		BackendTokenURL:     getEnv("BACKEND_TOKEN_URL", ""),
		BackendTimeout:      getDuration("BACKEND_TIMEOUT", 30*time.Second),
		PostgresURI:         getEnv("POSTGRES_URI", ""),
		RedisURI:            getEnv("REDIS_URI", ""),
		FrontendURL:         getEnv("FRONTEND_URL", "http://localhost:5173"),
		UploadTarget:        getEnv("UPLOAD_TARGET", UploadTargetBackend),
		R2: R2{
			AccountID:  getEnv("R2_ACCOUNT_ID", ""),
			AccessKey:  getEnv("R2_ACCESS_KEY", ""),
			SecretKey:  getEnv("R2_SECRET_KEY", ""),
			BucketName: getEnv("R2_BUCKET_NAME", ""),
			PublicURL:  getEnv("R2_PUBLIC_URL", ""),
		},
		SecretKey:           getEnv("SECRET_KEY", ""),
		CookieName:          getEnv("COOKIE_NAME", "postflow_session"),
		DispatchSchedule:    getEnv("DISPATCH_SCHEDULE", ""),
		StatusCheckGrace:    getDuration("STATUS_CHECK_GRACE", 2*time.Minute),
		DefaultPlatform:     getEnv("DEFAULT_PLATFORM", "facebook"),
		ComposerIdleTimeout: getDuration("COMPOSER_IDLE_TIMEOUT", 30*time.Minute),
	}
}

func (c *Config) Validate() error {
	if c.BackendURL == "" {
		return errors.New("BACKEND_URL is required")
	}
	if c.SecretKey == "" {
		return errors.New("SECRET_KEY is required")
	}
	if c.BackendClientID != "" && (c.BackendClientSecret == "" || c.BackendTokenURL == "") {
		return errors.New("BACKEND_CLIENT_SECRET and BACKEND_TOKEN_URL are required with BACKEND_CLIENT_ID")
	}
	switch c.UploadTarget {
	case UploadTargetBackend:
	case UploadTargetR2:
		if c.R2.BucketName == "" || c.R2.AccountID == "" || c.R2.PublicURL == "" {
			return errors.New("R2_ACCOUNT_ID, R2_BUCKET_NAME and R2_PUBLIC_URL are required when UPLOAD_TARGET=r2")
		}
	default:
		return errors.New("UPLOAD_TARGET must be backend or r2")
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
