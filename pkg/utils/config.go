package utils

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	App      AppConfig
	Database DatabaseConfig
	Session  SessionConfig
	Email    EmailConfig
	OTP      OTPConfig
	Stripe   StripeConfig
	Media    MediaConfig
	Redis    RedisConfig
	Jobs     JobsConfig
}

type AppConfig struct {
	Name    string
	Port    string
	Debug   bool
	LogPath string
	BaseURL string

	// CORSOrigins lists browser origins allowed to call the API.
	CORSOrigins []string
}

// DatabaseConfig selects between a local server addressed by host/port and a
// managed instance addressed by URL.
type DatabaseConfig struct {
	Backend  string // local | managed
	Host     string
	Port     string
	Name     string
	User     string
	Password string
	URL      string
	MaxConns int32
}

type SessionConfig struct {
	ExpiryHours int
}

type EmailConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	From     string
	Operator string
}

type OTPConfig struct {
	ExpiryMinutes int
	Length        int
}

type StripeConfig struct {
	SecretKey     string
	WebhookSecret string
	Currency      string
	AutoConfirm   bool
}

type MediaConfig struct {
	Backend   string // local | s3
	Root      string
	URLPrefix string
	S3Bucket  string
	S3Region  string
	S3BaseURL string
}

type RedisConfig struct {
	URL string
	TTL time.Duration
}

type JobsConfig struct {
	CleanupInterval time.Duration
}

func LoadConfig() (*Config, error) {
	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")

	// Set defaults
	v.SetDefault("APP_NAME", "travel-agency")
	v.SetDefault("PORT", "8080")
	v.SetDefault("DEBUG", false)
	v.SetDefault("LOG_PATH", "logs/")
	v.SetDefault("BASE_URL", "http://localhost:8080")
	v.SetDefault("DB_BACKEND", "local")
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_MAX_CONNS", 10)
	v.SetDefault("SESSION_EXPIRY_HOURS", 24)
	v.SetDefault("SMTP_PORT", 587)
	v.SetDefault("OTP_EXPIRY_MINUTES", 10)
	v.SetDefault("OTP_LENGTH", 6)
	v.SetDefault("STRIPE_CURRENCY", "eur")
	v.SetDefault("PAYMENT_AUTO_CONFIRM", true)
	v.SetDefault("MEDIA_BACKEND", "local")
	v.SetDefault("MEDIA_ROOT", "media/")
	v.SetDefault("MEDIA_URL", "/media/")
	v.SetDefault("REDIS_TTL", "10m")
	v.SetDefault("CLEANUP_INTERVAL", "1h")

	// .env is optional; deployed instances configure through the environment
	if _, err := os.Stat(".env"); err == nil {
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read .env: %w", err)
		}
	}

	v.AutomaticEnv()

	config := &Config{
		App: AppConfig{
			Name:    v.GetString("APP_NAME"),
			Port:    v.GetString("PORT"),
			Debug:   v.GetBool("DEBUG"),
			LogPath: v.GetString("LOG_PATH"),
			BaseURL: v.GetString("BASE_URL"),

			CORSOrigins: splitList(v.GetString("CORS_ORIGINS")),
		},
		Database: DatabaseConfig{
			Backend:  v.GetString("DB_BACKEND"),
			Host:     v.GetString("DB_HOST"),
			Port:     v.GetString("DB_PORT"),
			Name:     v.GetString("DB_NAME"),
			User:     v.GetString("DB_USER"),
			Password: v.GetString("DB_PASS"),
			URL:      v.GetString("DATABASE_URL"),
			MaxConns: v.GetInt32("DB_MAX_CONNS"),
		},
		Session: SessionConfig{
			ExpiryHours: v.GetInt("SESSION_EXPIRY_HOURS"),
		},
		Email: EmailConfig{
			Host:     v.GetString("SMTP_HOST"),
			Port:     v.GetInt("SMTP_PORT"),
			User:     v.GetString("SMTP_USER"),
			Password: v.GetString("SMTP_PASS"),
			From:     v.GetString("EMAIL_FROM"),
			Operator: v.GetString("EMAIL_OPERATOR"),
		},
		OTP: OTPConfig{
			ExpiryMinutes: v.GetInt("OTP_EXPIRY_MINUTES"),
			Length:        v.GetInt("OTP_LENGTH"),
		},
		Stripe: StripeConfig{
			SecretKey:     v.GetString("STRIPE_SECRET_KEY"),
			WebhookSecret: v.GetString("STRIPE_WEBHOOK_SECRET"),
			Currency:      v.GetString("STRIPE_CURRENCY"),
			AutoConfirm:   v.GetBool("PAYMENT_AUTO_CONFIRM"),
		},
		Media: MediaConfig{
			Backend:   v.GetString("MEDIA_BACKEND"),
			Root:      v.GetString("MEDIA_ROOT"),
			URLPrefix: v.GetString("MEDIA_URL"),
			S3Bucket:  v.GetString("S3_MEDIA_BUCKET"),
			S3Region:  v.GetString("S3_REGION"),
			S3BaseURL: v.GetString("S3_PUBLIC_BASE_URL"),
		},
		Redis: RedisConfig{
			URL: v.GetString("REDIS_URL"),
			TTL: v.GetDuration("REDIS_TTL"),
		},
		Jobs: JobsConfig{
			CleanupInterval: v.GetDuration("CLEANUP_INTERVAL"),
		},
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// Validate rejects combinations that cannot start a working server.
func (c *Config) Validate() error {
	switch c.Database.Backend {
	case "local":
		if c.Database.Name == "" || c.Database.User == "" {
			return errors.New("config: DB_NAME and DB_USER are required for the local database backend")
		}
	case "managed":
		if c.Database.URL == "" {
			return errors.New("config: DATABASE_URL is required for the managed database backend")
		}
	default:
		return fmt.Errorf("config: unknown DB_BACKEND %q", c.Database.Backend)
	}

	switch c.Media.Backend {
	case "local":
	case "s3":
		if c.Media.S3Bucket == "" {
			return errors.New("config: S3_MEDIA_BUCKET is required for the s3 media backend")
		}
	default:
		return fmt.Errorf("config: unknown MEDIA_BACKEND %q", c.Media.Backend)
	}

	if c.Stripe.SecretKey != "" && c.Stripe.WebhookSecret == "" {
		return errors.New("config: STRIPE_WEBHOOK_SECRET is required when STRIPE_SECRET_KEY is set")
	}

	return nil
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
