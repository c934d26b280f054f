package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config aggregates runtime configuration for the service.
type Config struct {
	App          AppConfig
	Postgres     PostgresConfig
	Redis        RedisConfig
	Logger       LoggerConfig
	Auth         AuthConfig
	Notification NotificationConfig
	SMTP         SMTPConfig
	Storage      StorageConfig
	Tickets      TicketConfig
}

// AppConfig controls server level behavior.
type AppConfig struct {
	Name                  string
	Env                   string
	Host                  string
	Port                  string
	Version               string
	PublicURL             string
	TimeZone              string
	RequestTimeoutSeconds int
	BodyLimitBytes        int
}

// PostgresConfig holds DB connection values. An empty DSN selects the in-memory store.
type PostgresConfig struct {
	DSN            string
	MaxConns       int32
	MinConns       int32
	RunMigrations  bool
	ConnMaxIdleSec int32
	ConnMaxLifeSec int32
}

// RedisConfig holds Redis connection values. An empty Addr disables the settings cache.
type RedisConfig struct {
	Addr            string
	Password        string
	DB              int
	SettingsTTLSecs int
}

// LoggerConfig configures logging behavior.
type LoggerConfig struct {
	Level string
}

// AuthConfig defines authentication parameters.
type AuthConfig struct {
	JWTSecret             string
	AccessTokenTTLMinutes int
	BcryptCost            int
}

// NotificationConfig holds notification routing defaults.
type NotificationConfig struct {
	Email                   string
	RatingRequestOnFinalize bool
}

// SMTPConfig is the static mail transport configuration. Persisted settings may override it.
type SMTPConfig struct {
	Host           string
	Port           int
	Username       string
	Password       string
	FromAddress    string
	FromName       string
	TimeoutSeconds int
}

// StorageConfig selects and configures the photo object store.
type StorageConfig struct {
	Driver         string
	LocalDir       string
	Endpoint       string
	AccessKey      string
	SecretKey      string
	Bucket         string
	Region         string
	UseSSL         bool
	PublicBaseURL  string
	TimeoutSeconds int
}

// TicketConfig tunes ticket submission.
type TicketConfig struct {
	NumberMaxAttempts int
	MaxImageBytes     int
}

// Load reads configuration from environment variables, applying defaults where possible.
func Load() (*Config, error) {
	_ = godotenv.Load()

	redisDB, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
	}
	smtpPort, err := strconv.Atoi(getEnv("SMTP_PORT", "587"))
	if err != nil {
		return nil, fmt.Errorf("invalid SMTP_PORT: %w", err)
	}

	maxConns := int32(getEnvAsInt("POSTGRES_MAX_CONNS", 10))
	minConns := int32(getEnvAsInt("POSTGRES_MIN_CONNS", 2))
	runMigrations := getEnvAsBool("POSTGRES_RUN_MIGRATIONS", true)
	connMaxIdle := int32(getEnvAsInt("POSTGRES_CONN_MAX_IDLE_SECONDS", 30))
	connMaxLife := int32(getEnvAsInt("POSTGRES_CONN_MAX_LIFE_SECONDS", 300))

	cfg := &Config{
		App: AppConfig{
			Name:                  getEnv("APP_NAME", "sistema-manutencao"),
			Env:                   getEnv("APP_ENV", "development"),
			Host:                  getEnv("APP_HOST", "0.0.0.0"),
			Port:                  getEnv("APP_PORT", "8080"),
			Version:               getEnv("APP_VERSION", "dev"),
			PublicURL:             getEnv("APP_PUBLIC_URL", "http://localhost:8080"),
			TimeZone:              getEnv("APP_TIMEZONE", "America/Sao_Paulo"),
			RequestTimeoutSeconds: getEnvAsInt("HTTP_REQUEST_TIMEOUT_SECONDS", 30),
			BodyLimitBytes:        getEnvAsInt("HTTP_BODY_LIMIT_BYTES", 8*1024*1024),
		},
		Postgres: PostgresConfig{
			DSN:            os.Getenv("POSTGRES_DSN"),
			MaxConns:       maxConns,
			MinConns:       minConns,
			RunMigrations:  runMigrations,
			ConnMaxIdleSec: connMaxIdle,
			ConnMaxLifeSec: connMaxLife,
		},
		Redis: RedisConfig{
			Addr:            os.Getenv("REDIS_ADDR"),
			Password:        os.Getenv("REDIS_PASSWORD"),
			DB:              redisDB,
			SettingsTTLSecs: getEnvAsInt("SETTINGS_CACHE_TTL_SECONDS", 60),
		},
		Logger: LoggerConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
		Auth: AuthConfig{
			JWTSecret:             getEnv("AUTH_JWT_SECRET", "dev-secret"),
			AccessTokenTTLMinutes: getEnvAsInt("AUTH_ACCESS_TOKEN_TTL_MINUTES", 480),
			BcryptCost:            getEnvAsInt("AUTH_BCRYPT_COST", 12),
		},
		Notification: NotificationConfig{
			Email:                   os.Getenv("NOTIFICATION_EMAIL"),
			RatingRequestOnFinalize: getEnvAsBool("NOTIFY_RATING_REQUEST_ON_FINALIZE", true),
		},
		SMTP: SMTPConfig{
			Host:           os.Getenv("SMTP_HOST"),
			Port:           smtpPort,
			Username:       os.Getenv("SMTP_USER"),
			Password:       os.Getenv("SMTP_PASS"),
			FromAddress:    getEnv("SMTP_FROM", "noreply@sistema-manutencao.com"),
			FromName:       getEnv("SMTP_FROM_NAME", "Sistema de Manutenção"),
			TimeoutSeconds: getEnvAsInt("SMTP_TIMEOUT_SECONDS", 15),
		},
		Storage: StorageConfig{
			Driver:         getEnv("STORAGE_DRIVER", "local"),
			LocalDir:       getEnv("STORAGE_LOCAL_DIR", "uploads"),
			Endpoint:       os.Getenv("STORAGE_ENDPOINT"),
			AccessKey:      os.Getenv("STORAGE_ACCESS_KEY"),
			SecretKey:      os.Getenv("STORAGE_SECRET_KEY"),
			Bucket:         getEnv("STORAGE_BUCKET", "manutencao"),
			Region:         os.Getenv("STORAGE_REGION"),
			UseSSL:         getEnvAsBool("STORAGE_USE_SSL", true),
			PublicBaseURL:  os.Getenv("STORAGE_PUBLIC_BASE_URL"),
			TimeoutSeconds: getEnvAsInt("STORAGE_TIMEOUT_SECONDS", 20),
		},
		Tickets: TicketConfig{
			NumberMaxAttempts: getEnvAsInt("TICKET_NUMBER_MAX_ATTEMPTS", 5),
			MaxImageBytes:     getEnvAsInt("TICKET_MAX_IMAGE_BYTES", 5*1024*1024),
		},
	}

	return cfg, nil
}

// Addr returns the HTTP bind address.
func (a AppConfig) Addr() string {
	return fmt.Sprintf("%s:%s", a.Host, a.Port)
}

// RequestTimeout returns the configured request timeout duration.
func (a AppConfig) RequestTimeout() time.Duration {
	return seconds(a.RequestTimeoutSeconds)
}

// Location resolves TimeZone, falling back to UTC when it is unknown.
func (a AppConfig) Location() *time.Location {
	if a.TimeZone == "" {
		return time.UTC
	}
	loc, err := time.LoadLocation(a.TimeZone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// Timeout bounds a single SMTP delivery.
func (s SMTPConfig) Timeout() time.Duration {
	return seconds(s.TimeoutSeconds)
}

// Timeout bounds a single object upload.
func (s StorageConfig) Timeout() time.Duration {
	return seconds(s.TimeoutSeconds)
}

// SettingsTTL returns how long a cached setting stays valid.
func (r RedisConfig) SettingsTTL() time.Duration {
	return seconds(r.SettingsTTLSecs)
}

func seconds(n int) time.Duration {
	if n <= 0 {
		return 0
	}
	return time.Duration(n) * time.Second
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(val)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvAsBool(key string, fallback bool) bool {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(val)
	if err != nil {
		return fallback
	}
	return parsed
}
