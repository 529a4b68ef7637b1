package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/rs/zerolog/log"

	"github.com/openclaw/portfolio-server-go/internal/util"
)

var knownWeakSecrets = []string{
	"change-me", "your-secret-key", "secret", "admin", "password",
}

const (
	UploadBackendLocal = "local"
	UploadBackendS3    = "s3"
)

type Config struct {
	Port                 int    `env:"PORT" envDefault:"3000"`
	DatabaseURL          string `env:"DATABASE_URL,required"`
	RedisURL             string `env:"REDIS_URL"`
	SessionSecret        string `env:"SESSION_SECRET" envDefault:"your-secret-key"`
	SessionMaxAgeSeconds int    `env:"SESSION_MAX_AGE_SECONDS" envDefault:"86400"`
	AdminUsername        string `env:"ADMIN_USERNAME" envDefault:"admin"`
	AdminPassword        string `env:"ADMIN_PASSWORD"`
	AdminPasswordHash    string `env:"ADMIN_PASSWORD_HASH"`
	SMTPHost             string `env:"SMTP_HOST" envDefault:"smtp.gmail.com"`
	SMTPPort             int    `env:"SMTP_PORT" envDefault:"587"`
	EmailUser            string `env:"EMAIL_USER"`
	EmailPass            string `env:"EMAIL_PASS"`
	EmailTo              string `env:"EMAIL_TO"`
	UploadBackend        string `env:"UPLOAD_BACKEND" envDefault:"local"`
	UploadDir            string `env:"UPLOAD_DIR" envDefault:"public/uploads"`
	S3Bucket             string `env:"S3_BUCKET"`
	S3Region             string `env:"S3_REGION" envDefault:"us-east-1"`
	S3Endpoint           string `env:"S3_ENDPOINT"`
	S3AccessKey          string `env:"S3_ACCESS_KEY"`
	S3SecretKey          string `env:"S3_SECRET_KEY"`
	S3PublicBaseURL      string `env:"S3_PUBLIC_BASE_URL"`
	SeedDemoContent      bool   `env:"SEED_DEMO_CONTENT" envDefault:"true"`
	ProvisionOnBoot      bool   `env:"PROVISION_ON_BOOT" envDefault:"true"`
	Environment          string `env:"APP_ENV" envDefault:"development"`
	LogLevel             string `env:"LOG_LEVEL" envDefault:"info"`
}

func (c *Config) SessionMaxAge() time.Duration {
	return time.Duration(c.SessionMaxAgeSeconds) * time.Second
}

func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}

func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// MailConfigured reports whether enough SMTP settings are present to relay contact messages.
func (c *Config) MailConfigured() bool {
	return c.EmailUser != "" && c.EmailPass != "" && c.EmailTo != ""
}

// AdminPasswordSeed is the credential used when the first admin account is created.
// A configured bcrypt hash wins over a plaintext password.
func (c *Config) AdminPasswordSeed() string {
	if c.AdminPasswordHash != "" {
		return c.AdminPasswordHash
	}
	return c.AdminPassword
}

func (c *Config) Validate(isProduction bool) error {
	if c.AdminPasswordHash != "" {
		if !util.IsBcryptHash(c.AdminPasswordHash) {
			return fmt.Errorf("ADMIN_PASSWORD_HASH must be a bcrypt hash (generate with: go run ./cmd/provision hash-password)")
		}
	}

	if c.SessionMaxAgeSeconds <= 0 {
		return fmt.Errorf("SESSION_MAX_AGE_SECONDS must be positive")
	}

	switch c.UploadBackend {
	case UploadBackendLocal:
		if c.UploadDir == "" {
			return fmt.Errorf("UPLOAD_DIR is required for the local upload backend")
		}
	case UploadBackendS3:
		if c.S3Bucket == "" || c.S3PublicBaseURL == "" {
			return fmt.Errorf("S3_BUCKET and S3_PUBLIC_BASE_URL are required for the s3 upload backend")
		}
	default:
		return fmt.Errorf("UPLOAD_BACKEND must be %q or %q, got %q", UploadBackendLocal, UploadBackendS3, c.UploadBackend)
	}

	if isProduction {
		if err := validateSecret("SESSION_SECRET", c.SessionSecret); err != nil {
			return err
		}
		if c.AdminPassword == "" && c.AdminPasswordHash == "" {
			return fmt.Errorf("ADMIN_PASSWORD or ADMIN_PASSWORD_HASH must be set in production")
		}

		if !c.MailConfigured() {
			log.Warn().Msg("EMAIL_USER/EMAIL_PASS/EMAIL_TO incomplete in production: contact form will report delivery failures")
		}
		if strings.HasPrefix(c.RedisURL, "redis://") {
			log.Warn().Msg("REDIS_URL uses redis:// (not TLS) in production: consider using rediss://")
		}
	}

	return nil
}

func validateSecret(name, value string) error {
	if len(value) < 32 {
		return fmt.Errorf("%s must be at least 32 characters in production (generate with: openssl rand -base64 32)", name)
	}
	for _, weak := range knownWeakSecrets {
		if value == weak {
			return fmt.Errorf("%s is a known weak default; set a strong secret in production", name)
		}
	}
	return nil
}

func Load() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return &cfg, nil
}
