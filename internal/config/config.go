package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	JWT      JWTConfig
	SMTP     SMTPConfig
	Storage  StorageConfig
	Upload   UploadConfig
	Worker   WorkerConfig
	Redis    RedisConfig
	Publish  PublishConfig
}

type ServerConfig struct {
	Host           string
	Port           int
	APIPrefix      string
	AllowedOrigins []string
	// IOTimeout bounds every store, mail and object storage call.
	IOTimeout time.Duration
	// PasswordResetURL is the admin page linked from reset mails.
	PasswordResetURL string
}

type DatabaseConfig struct {
	URL      string
	Host     string
	Port     int
	User     string
	Password string
	Name     string
	SSLMode  string
	Debug    bool
}

type JWTConfig struct {
	Secret string
	Expiry time.Duration
	Issuer string
}

type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
	// NotifyTo receives contact form notifications. Defaults to From.
	NotifyTo string
	TimeZone string
}

type StorageConfig struct {
	Provider string // s3 or none
	S3       S3Config
}

type S3Config struct {
	Bucket       string
	Endpoint     string
	Region       string
	AccessKey    string
	SecretKey    string
	PublicURL    string
	UsePathStyle bool
}

type UploadConfig struct {
	MaxBytes       int64
	AllowedFormats []string
}

type WorkerConfig struct {
	Concurrency int
}

type RedisConfig struct {
	Addr     string
	Password string
	Username string
	DB       int
}

type PublishConfig struct {
	// DeleteDraftOnPublish removes the draft after a successful promotion.
	DeleteDraftOnPublish bool
	SlugRetries          int
}

// Enabled reports whether a Redis address was configured. Rate limiting
// falls back to in-process limiters and image deletion runs inline without it.
func (r RedisConfig) Enabled() bool {
	return r.Addr != ""
}

// DSN returns DATABASE_URL when set, otherwise a key/value DSN built from
// the POSTGRES_* settings.
func (d DatabaseConfig) DSN() string {
	if d.URL != "" {
		return d.URL
	}
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host,
		d.Port,
		d.User,
		d.Password,
		d.Name,
		d.SSLMode,
	)
}

func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// Load reads the configuration from the environment and validates it for
// the API server.
func Load() (*Config, error) {
	cfg := fromEnv()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadDatabase reads the same environment as Load but only checks what a
// database connection needs, so maintenance commands run without JWT or
// storage settings.
func LoadDatabase() (*Config, error) {
	cfg := fromEnv()
	if cfg.Database.URL == "" && cfg.Database.Host == "" {
		return nil, errors.New("DATABASE_URL or POSTGRES_HOST is required")
	}
	if cfg.Server.IOTimeout <= 0 {
		return nil, errors.New("SERVER_IO_TIMEOUT must be positive")
	}
	return cfg, nil
}

func fromEnv() *Config {
	smtpFrom := getEnv("SMTP_FROM", getEnv("SMTP_USERNAME", ""))

	cfg := &Config{
		Server: ServerConfig{
			Host:             getEnv("SERVER_HOST", "0.0.0.0"),
			Port:             getEnvAsInt("SERVER_PORT", 5000),
			APIPrefix:        getEnv("SERVER_API_PREFIX", "/api"),
			AllowedOrigins:   getEnvAsList("CORS_ALLOWED_ORIGINS", []string{"http://localhost:3000"}),
			IOTimeout:        getEnvAsDuration("SERVER_IO_TIMEOUT", 10*time.Second),
			PasswordResetURL: getEnv("PASSWORD_RESET_URL", ""),
		},
		Database: DatabaseConfig{
			URL:      getEnv("DATABASE_URL", ""),
			Host:     getEnv("POSTGRES_HOST", "localhost"),
			Port:     getEnvAsInt("POSTGRES_PORT", 5432),
			User:     getEnv("POSTGRES_USER", "postgres"),
			Password: getEnv("POSTGRES_PASSWORD", ""),
			Name:     getEnv("POSTGRES_DB", "digitalreviver"),
			SSLMode:  getEnv("POSTGRES_SSLMODE", "disable"),
			Debug:    getEnvAsBool("DB_DEBUG", false),
		},
		JWT: JWTConfig{
			Secret: getEnv("JWT_SECRET", ""),
			Expiry: getEnvAsDuration("JWT_EXPIRY", 2*time.Hour),
			Issuer: getEnv("JWT_ISSUER", "digitalreviver"),
		},
		SMTP: SMTPConfig{
			Host:     getEnv("SMTP_HOST", "smtp.gmail.com"),
			Port:     getEnvAsInt("SMTP_PORT", 587),
			Username: getEnv("SMTP_USERNAME", ""),
			Password: getEnv("SMTP_PASSWORD", ""),
			From:     smtpFrom,
			NotifyTo: getEnv("NOTIFY_EMAIL", smtpFrom),
			TimeZone: getEnv("NOTIFY_TIMEZONE", "Asia/Kolkata"),
		},
		Storage: StorageConfig{
			Provider: getEnv("STORAGE_PROVIDER", "s3"),
			S3: S3Config{
				Bucket:       getEnv("S3_BUCKET", ""),
				Endpoint:     getEnv("S3_ENDPOINT", ""),
				Region:       getEnv("S3_REGION", "us-east-1"),
				AccessKey:    getEnv("S3_ACCESS_KEY", ""),
				SecretKey:    getEnv("S3_SECRET_KEY", ""),
				PublicURL:    getEnv("S3_PUBLIC_URL", ""),
				UsePathStyle: getEnvAsBool("S3_USE_PATH_STYLE", false),
			},
		},
		Upload: UploadConfig{
			MaxBytes:       int64(getEnvAsInt("UPLOAD_MAX_BYTES", 10<<20)),
			AllowedFormats: getEnvAsList("UPLOAD_ALLOWED_FORMATS", []string{"jpg", "jpeg", "png", "gif"}),
		},
		Worker: WorkerConfig{
			Concurrency: getEnvAsInt("WORKER_CONCURRENCY", 5),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", ""),
			Password: getEnv("REDIS_PASSWORD", ""),
			Username: getEnv("REDIS_USERNAME", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
		},
		Publish: PublishConfig{
			DeleteDraftOnPublish: getEnvAsBool("PUBLISH_DELETE_DRAFT", false),
			SlugRetries:          getEnvAsInt("PUBLISH_SLUG_RETRIES", 3),
		},
	}
	return cfg
}

// Validate checks the settings the server cannot start without.
func (c *Config) Validate() error {
	var errs []error
	if c.JWT.Secret == "" {
		errs = append(errs, errors.New("JWT_SECRET is required"))
	}
	if c.JWT.Expiry <= 0 {
		errs = append(errs, errors.New("JWT_EXPIRY must be positive"))
	}
	if c.Upload.MaxBytes <= 0 {
		errs = append(errs, errors.New("UPLOAD_MAX_BYTES must be positive"))
	}
	if c.Publish.SlugRetries < 1 {
		errs = append(errs, errors.New("PUBLISH_SLUG_RETRIES must be at least 1"))
	}
	if c.Storage.Provider == "s3" && c.Storage.S3.Bucket == "" {
		errs = append(errs, errors.New("S3_BUCKET is required when STORAGE_PROVIDER=s3"))
	}
	return errors.Join(errs...)
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value, exists := os.LookupEnv(key); exists {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value, exists := os.LookupEnv(key); exists {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value, exists := os.LookupEnv(key); exists {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

// getEnvAsList reads a comma separated value, dropping blank entries.
func getEnvAsList(key string, defaultValue []string) []string {
	value, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}
