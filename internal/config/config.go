package config

import (
	"fmt"
	"net"
	"net/url"
	"os"
	"time"

	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"
)

// Допустимые значения STORAGE_BACKEND
const (
	StorageBackendSQLX   = "sqlx"
	StorageBackendGORM   = "gorm"
	StorageBackendMemory = "memory"
)

// Config хранит все конфигурационные параметры приложения.
type Config struct {
	ServerPort     string        `env:"PORT" envDefault:"3000"`
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT" envDefault:"30s"`
	MaxUploadBytes int64         `env:"MAX_UPLOAD_BYTES" envDefault:"10485760"`

	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"json"`

	StorageBackend string `env:"STORAGE_BACKEND" envDefault:"sqlx"`

	Database struct {
		URL             string        `env:"DATABASE_URL"`
		Host            string        `env:"DB_HOST" envDefault:"localhost"`
		Port            string        `env:"DB_PORT" envDefault:"5432"`
		User            string        `env:"DB_USER"`
		Password        string        `env:"DB_PASSWORD"`
		Name            string        `env:"DB_DATABASE"`
		SSLMode         string        `env:"DB_SSLMODE" envDefault:"disable"`
		MaxOpenConns    int           `env:"DB_MAX_OPEN_CONNS" envDefault:"25"`
		MaxIdleConns    int           `env:"DB_MAX_IDLE_CONNS" envDefault:"10"`
		ConnMaxLifetime time.Duration `env:"DB_CONN_MAX_LIFETIME" envDefault:"5m"`
		AutoMigrate     bool          `env:"DB_AUTO_MIGRATE" envDefault:"true"`
	}

	// Настройки S3 (AWS или MinIO через S3_ENDPOINT)
	S3 struct {
		AccessKeyID     string `env:"AWS_ACCESS_KEY"`
		SecretAccessKey string `env:"AWS_SECRET_ACCESS_KEY"`
		Region          string `env:"AWS_REGION" envDefault:"us-east-1"`
		Bucket          string `env:"BUCKET"`
		Endpoint        string `env:"S3_ENDPOINT"`
		UsePathStyle    bool   `env:"S3_USE_PATH_STYLE"`
		PublicRead      bool   `env:"S3_PUBLIC_READ" envDefault:"true"`
		CreateBucket    bool   `env:"S3_CREATE_BUCKET"`
	}

	JWT struct {
		Secret string        `env:"JWT_SECRET,required"`
		TTL    time.Duration `env:"JWT_TTL" envDefault:"24h"`
	}

	// RabbitMQ необязателен: без RABBITMQ_URL события регистрации не публикуются
	RabbitMQ struct {
		URL       string `env:"RABBITMQ_URL"`
		QueueName string `env:"RABBITMQ_QUEUE_NAME" envDefault:"user_registered_queue"`
	}
}

// LoadConfig загружает конфигурацию из переменных окружения.
// В режиме разработки пытается загрузить .env файл.
func LoadConfig() (*Config, error) {
	if _, err := os.Stat(".env"); !os.IsNotExist(err) {
		if err := godotenv.Load(); err != nil {
			return nil, fmt.Errorf("load .env file: %w", err)
		}
	}

	cfg := Config{}
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse config from environment: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate проверяет взаимосвязанные параметры, которые env не умеет проверять сам.
func (c *Config) Validate() error {
	switch c.StorageBackend {
	case StorageBackendSQLX, StorageBackendGORM, StorageBackendMemory:
	default:
		return fmt.Errorf("unknown STORAGE_BACKEND %q (use sqlx, gorm or memory)", c.StorageBackend)
	}

	if c.JWT.Secret == "" {
		return fmt.Errorf("JWT_SECRET must not be empty")
	}
	if c.StorageBackend != StorageBackendMemory && c.DSN() == "" {
		return fmt.Errorf("database is not configured: set DATABASE_URL or DB_USER/DB_DATABASE")
	}
	if c.MaxUploadBytes <= 0 {
		return fmt.Errorf("MAX_UPLOAD_BYTES must be positive, got %d", c.MaxUploadBytes)
	}
	return nil
}

// DSN возвращает DATABASE_URL, либо собирает postgres URL из DB_* переменных.
func (c *Config) DSN() string {
	if c.Database.URL != "" {
		return c.Database.URL
	}
	if c.Database.User == "" || c.Database.Name == "" {
		return ""
	}

	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.Database.User, c.Database.Password),
		Host:     net.JoinHostPort(c.Database.Host, c.Database.Port),
		Path:     "/" + c.Database.Name,
		RawQuery: url.Values{"sslmode": []string{c.Database.SSLMode}}.Encode(),
	}
	return u.String()
}

// EventsEnabled сообщает, настроена ли публикация событий в RabbitMQ.
func (c *Config) EventsEnabled() bool {
	return c.RabbitMQ.URL != ""
}
