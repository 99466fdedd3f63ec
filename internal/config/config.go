package config

import (
	"os"
	"strconv"
	"time"
)

// DeliveryMode selects how a generated document is handed back to the browser.
type DeliveryMode string

const (
	// DeliveryDirect streams the document as an attachment in the upload response.
	DeliveryDirect DeliveryMode = "direct"
	// DeliveryLink stores the document and renders a download link instead.
	DeliveryLink DeliveryMode = "link"
)

// DatabaseConfig holds PostgreSQL database connection settings.
type DatabaseConfig struct {
	Host               string
	Port               string
	User               string
	Password           string
	Name               string
	SSLMode            string
	MaxOpenConns       int
	MaxIdleConns       int
	ConnMaxLifetimeSec int
}

// Enabled reports whether a database host was configured.
func (c DatabaseConfig) Enabled() bool {
	return c.Host != ""
}

// MinIOConfig holds object storage settings for MinIO.
type MinIOConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

// GCSConfig holds Google Cloud Storage settings.
type GCSConfig struct {
	Bucket          string
	CredentialsFile string
}

// StorageConfig selects the backend used for generated documents.
type StorageConfig struct {
	Backend  string // local, minio or gcs
	LocalDir string
	MinIO    MinIOConfig
	GCS      GCSConfig
}

// RedisConfig holds Redis connection settings for the session store.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	Prefix   string
}

// SessionConfig controls the browser session used by link delivery.
type SessionConfig struct {
	Backend    string // memory, postgres or redis
	CookieName string
	// CookieKey is a base64 key for encrypted cookies. Empty leaves cookies in clear text.
	CookieKey string
	TTL       time.Duration
}

// ReaperConfig controls expiry of stored documents.
type ReaperConfig struct {
	TTL      time.Duration
	Schedule string
}

// LogConfig controls the structured logger.
type LogConfig struct {
	Level  string
	Format string // json or console
}

// AppConfig is the centralized configuration struct for the application.
// It is populated from environment variables. Sensitive values are not hardcoded.
type AppConfig struct {
	AppHost        string
	Port           string
	Mode           DeliveryMode
	MaxUploadMB    int
	MaxEntryMB     int
	MaxImagePixels int64
	Log            LogConfig
	Database       DatabaseConfig
	Storage        StorageConfig
	Redis          RedisConfig
	Session        SessionConfig
	Reaper         ReaperConfig
	ShutdownGrace  time.Duration
}

// Load reads configuration from environment variables.
// A .env file can be auto-loaded by importing: _ "github.com/joho/godotenv/autoload"
func Load() *AppConfig {
	return &AppConfig{
		AppHost:        getEnv("APP_HOST", "localhost:5000"),
		Port:           getEnv("PORT", "5000"),
		Mode:           parseMode(getEnv("DELIVERY_MODE", string(DeliveryDirect))),
		MaxUploadMB:    getEnvInt("MAX_UPLOAD_MB", 100),
		MaxEntryMB:     getEnvInt("MAX_ENTRY_MB", 50),
		MaxImagePixels: int64(getEnvInt("MAX_IMAGE_PIXELS", 178956970)),
		Log: LogConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
		},
		Database: DatabaseConfig{
			Host:               getEnv("DB_HOST", ""),
			Port:               getEnv("DB_PORT", "5432"),
			User:               getEnv("DB_USER", ""),
			Password:           getEnv("DB_PASSWORD", ""),
			Name:               getEnv("DB_NAME", ""),
			SSLMode:            getEnv("DB_SSLMODE", "disable"),
			MaxOpenConns:       getEnvInt("DB_MAX_OPEN_CONNS", 10),
			MaxIdleConns:       getEnvInt("DB_MAX_IDLE_CONNS", 5),
			ConnMaxLifetimeSec: getEnvInt("DB_CONN_MAX_LIFETIME_SEC", 300),
		},
		Storage: StorageConfig{
			Backend:  getEnv("STORAGE_BACKEND", "local"),
			LocalDir: getEnv("STORAGE_LOCAL_DIR", os.TempDir()),
			MinIO: MinIOConfig{
				Endpoint:  getEnv("MINIO_ENDPOINT", ""),
				AccessKey: getEnv("MINIO_ACCESS_KEY", ""),
				SecretKey: getEnv("MINIO_SECRET_KEY", ""),
				Bucket:    getEnv("MINIO_BUCKET", ""),
				UseSSL:    getEnvBool("MINIO_USE_SSL", false),
			},
			GCS: GCSConfig{
				Bucket:          getEnv("GCS_BUCKET", ""),
				CredentialsFile: getEnv("GCS_CREDENTIALS_FILE", ""),
			},
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvInt("REDIS_DB", 0),
			Prefix:   getEnv("REDIS_PREFIX", "ftw:"),
		},
		Session: SessionConfig{
			Backend:    getEnv("SESSION_BACKEND", "memory"),
			CookieName: getEnv("SESSION_COOKIE_NAME", "ftw_session"),
			CookieKey:  getEnv("SESSION_COOKIE_KEY", ""),
			TTL:        getEnvDuration("SESSION_TTL", 24*time.Hour),
		},
		Reaper: ReaperConfig{
			TTL:      getEnvDuration("DOC_TTL", time.Hour),
			Schedule: getEnv("REAPER_SCHEDULE", "@every 10m"),
		},
		ShutdownGrace: getEnvDuration("SHUTDOWN_GRACE", 10*time.Second),
	}
}

func parseMode(v string) DeliveryMode {
	if DeliveryMode(v) == DeliveryLink {
		return DeliveryLink
	}
	return DeliveryDirect
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		i, err := strconv.Atoi(v)
		if err == nil {
			return i
		}
	}
	return def
}

func getEnvDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		d, err := time.ParseDuration(v)
		if err == nil {
			return d
		}
	}
	return def
}
