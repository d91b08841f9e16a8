package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config represents the application configuration
type Config struct {
	Server     ServerConfig
	Database   DatabaseConfig
	JWT        JWTConfig
	Log        LogConfig
	Metrics    MetricsConfig
	Cloud      CloudConfig
	Redis      RedisConfig
	Upload     UploadConfig
	Admin      AdminConfig
	Storefront StorefrontConfig
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Port string
	Env  string
}

// DatabaseConfig holds database-related configuration
type DatabaseConfig struct {
	Host            string
	Port            string
	User            string
	Password        string
	Name            string
	SSLMode         string
	MaxIdleConns    int
	MaxOpenConns    int
	ConnMaxLifetime time.Duration
	LogLevel        string
}

// JWTConfig holds JWT-related configuration
type JWTConfig struct {
	SigningKey     string
	ExpirationTime time.Duration
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level string
}

// MetricsConfig holds metrics-related configuration
type MetricsConfig struct {
	Prefix string
}

// CloudConfig holds the credentials for the external order datastore.
// Both values empty means cloud sync and storefront order persistence
// run against the no-op store.
type CloudConfig struct {
	URL string
	Key string
}

// RedisConfig holds the optional product-cache settings. An empty Addr
// disables caching entirely.
type RedisConfig struct {
	Addr     string
	CacheTTL time.Duration
}

// UploadConfig holds the image upload directory
type UploadConfig struct {
	Dir string
}

// AdminConfig holds back-office credentials configuration
type AdminConfig struct {
	MasterKey       string
	DefaultPassword string
}

// StorefrontConfig holds the storefront-side settings: the build-time
// fallback WhatsApp number, the local settings file that overrides it,
// and the delay waited after triggering a sync before lists refresh.
type StorefrontConfig struct {
	WhatsAppNumber string
	SettingsPath   string
	SyncDelay      time.Duration
}

// Load loads the application configuration from environment variables
func Load() (*Config, error) {
	// Load environment variables from .env file if it exists
	_ = godotenv.Load()

	return &Config{
		Server: ServerConfig{
			Port: getEnv("SERVER_PORT", "8000"),
			Env:  getEnv("APP_ENV", "development"),
		},
		Database: DatabaseConfig{
			Host:            getEnv("DB_HOST", "localhost"),
			Port:            getEnv("DB_PORT", "5432"),
			User:            getEnv("DB_USER", "postgres"),
			Password:        getEnv("DB_PASSWORD", "postgres"),
			Name:            getEnv("DB_NAME", "tinytreats"),
			SSLMode:         getEnv("DB_SSL_MODE", "disable"),
			MaxIdleConns:    getEnvAsInt("DB_MAX_IDLE_CONNS", 10),
			MaxOpenConns:    getEnvAsInt("DB_MAX_OPEN_CONNS", 100),
			ConnMaxLifetime: getEnvAsDuration("DB_CONN_MAX_LIFETIME", 1*time.Hour),
			LogLevel:        getEnv("DB_LOG_LEVEL", "info"),
		},
		JWT: JWTConfig{
			SigningKey:     getEnv("JWT_SIGNING_KEY", "tinytreatssecretkey"),
			ExpirationTime: getEnvAsDuration("JWT_EXPIRATION", 24*time.Hour),
		},
		Log: LogConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
		Metrics: MetricsConfig{
			Prefix: getEnv("METRICS_PREFIX", "tinytreats"),
		},
		Cloud: CloudConfig{
			URL: getEnv("SUPABASE_URL", ""),
			Key: getEnv("SUPABASE_KEY", ""),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", ""),
			CacheTTL: getEnvAsDuration("REDIS_CACHE_TTL", 5*time.Minute),
		},
		Upload: UploadConfig{
			Dir: getEnv("UPLOAD_DIR", "uploads"),
		},
		Admin: AdminConfig{
			MasterKey:       getEnv("ADMIN_MASTER_KEY", "MASTER_KEY_123"),
			DefaultPassword: getEnv("ADMIN_DEFAULT_PASSWORD", "admin"),
		},
		Storefront: StorefrontConfig{
			WhatsAppNumber: getEnv("WHATSAPP_NUMBER", ""),
			SettingsPath:   getEnv("SETTINGS_PATH", "settings.json"),
			SyncDelay:      getEnvAsDuration("SYNC_REFRESH_DELAY", 2*time.Second),
		},
	}, nil
}

// Helper functions to get environment variables with defaults
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

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value, exists := os.LookupEnv(key); exists {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
