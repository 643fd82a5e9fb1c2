package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds every environment-derived setting. It is built once in main
// and passed down explicitly; nothing in this package is global.
type Config struct {
	Server  ServerConfig
	DB      DBConfig
	JWT     JWTConfig
	SMTP    SMTPConfig
	Gateway GatewayConfig
	Upload  UploadConfig
	Seed    bool
}

type ServerConfig struct {
	Port        string
	Env         string
	FrontendURL string
}

type DBConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	SSLMode  string
}

// DSN builds a postgres connection string from the individual parts.
func (d DBConfig) DSN() string {
	return "postgres://" + d.User + ":" + d.Password + "@" + d.Host + ":" + d.Port + "/" + d.Name + "?sslmode=" + d.SSLMode
}

type JWTConfig struct {
	Secret      string
	Expiry      time.Duration
	ResetExpiry time.Duration
}

type SMTPConfig struct {
	Host      string
	Port      string
	Email     string
	Password  string
	FromEmail string
	FromName  string
}

// GatewayConfig carries payment gateway credentials. No gateway call is made
// from this service; the keys are exposed through the settings endpoints only.
type GatewayConfig struct {
	RazorpayKeyID     string
	RazorpayKeySecret string
	StripePublishable string
	StripeSecret      string
}

type UploadConfig struct {
	Dir          string
	MaxFileSize  int64
	AllowedTypes []string
}

// Load reads the configuration from environment variables, falling back to
// development defaults. JWT secret and DSN fallbacks exist for local runs
// only; production deployments must override them.
func Load() *Config {
	return &Config{
		Server: ServerConfig{
			Port:        getenv("PORT", "8080"),
			Env:         getenv("APP_ENV", "development"),
			FrontendURL: getenv("FRONTEND_URL", "http://localhost:5173"),
		},
		DB: DBConfig{
			Host:     getenv("DB_HOST", "localhost"),
			Port:     getenv("DB_PORT", "5432"),
			User:     getenv("DB_USER", "postgres"),
			Password: getenv("DB_PASSWORD", "postgres"),
			Name:     getenv("DB_NAME", "realestate"),
			SSLMode:  getenv("DB_SSLMODE", "disable"),
		},
		JWT: JWTConfig{
			Secret:      getenv("JWT_SECRET", "your-super-secret-jwt-key-2024-realestate"),
			Expiry:      getenvDuration("JWT_EXPIRE", 7*24*time.Hour),
			ResetExpiry: getenvDuration("JWT_RESET_EXPIRE", 10*time.Minute),
		},
		SMTP: SMTPConfig{
			Host:      getenv("SMTP_HOST", "smtp.gmail.com"),
			Port:      getenv("SMTP_PORT", "587"),
			Email:     os.Getenv("SMTP_EMAIL"),
			Password:  os.Getenv("SMTP_PASSWORD"),
			FromEmail: getenv("FROM_EMAIL", "noreply@realestate.com"),
			FromName:  getenv("FROM_NAME", "Real Estate Admin"),
		},
		Gateway: GatewayConfig{
			RazorpayKeyID:     os.Getenv("RAZORPAY_KEY_ID"),
			RazorpayKeySecret: os.Getenv("RAZORPAY_KEY_SECRET"),
			StripePublishable: os.Getenv("STRIPE_PUBLISHABLE_KEY"),
			StripeSecret:      os.Getenv("STRIPE_SECRET_KEY"),
		},
		Upload: UploadConfig{
			Dir:         getenv("UPLOAD_DIR", "uploads"),
			MaxFileSize: getenvInt64("MAX_FILE_SIZE", 10*1024*1024),
			AllowedTypes: getenvList("ALLOWED_FILE_TYPES", []string{
				"image/jpeg", "image/png", "image/jpg", "application/pdf",
			}),
		},
		Seed: getenv("SEED_ON_START", "true") == "true",
	}
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getenvInt64(key string, fallback int64) int64 {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n
		}
	}
	return fallback
}

func getenvList(key string, fallback []string) []string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	if len(out) == 0 {
		return fallback
	}
	return out
}

func getenvDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
