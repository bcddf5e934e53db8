package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	ServerPort    string
	GinMode       string
	SessionSecret string
	SessionStore  string

	RedisHost     string
	RedisPort     string
	RedisPassword string
	RedisDB       int

	StorageDriver string
	StorageURL    string
	StorageToken  string
	StorageKey    string
	HTTPTimeout   time.Duration

	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	SQLitePath string

	LogLevel  string
	LogFormat string

	LongPress      time.Duration
	PersistTimeout time.Duration

	LoginRateLimit float64
	LoginRateBurst int

	GuestEmail   string
	OpenAIAPIKey string
}

// Storage drivers
const (
	DriverRemote   = "remote"
	DriverSQLite   = "sqlite"
	DriverMySQL    = "mysql"
	DriverPostgres = "postgres"
	DriverRedis    = "redis"
	DriverMemory   = "memory"
)

// Load reads configuration from the environment (and a .env file when present).
func Load() (*Config, error) {
	// Load .env file if it exists (ignore errors)
	_ = godotenv.Load()

	v := viper.New()
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	setDefaults(v)

	cfg := &Config{
		ServerPort:    v.GetString("SERVER_PORT"),
		GinMode:       v.GetString("GIN_MODE"),
		SessionSecret: v.GetString("SESSION_SECRET"),
		SessionStore:  v.GetString("SESSION_STORE"),

		RedisHost:     v.GetString("REDIS_HOST"),
		RedisPort:     v.GetString("REDIS_PORT"),
		RedisPassword: v.GetString("REDIS_PASSWORD"),
		RedisDB:       v.GetInt("REDIS_DB"),

		StorageDriver: strings.ToLower(v.GetString("STORAGE_DRIVER")),
		StorageURL:    v.GetString("STORAGE_URL"),
		StorageToken:  v.GetString("STORAGE_TOKEN"),
		StorageKey:    v.GetString("STORAGE_KEY"),
		HTTPTimeout:   v.GetDuration("HTTP_TIMEOUT"),

		DBHost:     v.GetString("DB_HOST"),
		DBPort:     v.GetString("DB_PORT"),
		DBUser:     v.GetString("DB_USER"),
		DBPassword: v.GetString("DB_PASSWORD"),
		DBName:     v.GetString("DB_NAME"),
		SQLitePath: v.GetString("SQLITE_PATH"),

		LogLevel:  v.GetString("LOG_LEVEL"),
		LogFormat: v.GetString("LOG_FORMAT"),

		LongPress:      v.GetDuration("GESTURE_LONG_PRESS"),
		PersistTimeout: v.GetDuration("GESTURE_PERSIST_TIMEOUT"),

		LoginRateLimit: v.GetFloat64("LOGIN_RATE_LIMIT"),
		LoginRateBurst: v.GetInt("LOGIN_RATE_BURST"),

		GuestEmail:   v.GetString("GUEST_EMAIL"),
		OpenAIAPIKey: v.GetString("OPENAI_API_KEY"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("SERVER_PORT", "8080")
	v.SetDefault("GIN_MODE", "debug")
	v.SetDefault("SESSION_SECRET", "default-secret-key-change-me")
	v.SetDefault("SESSION_STORE", "cookie")

	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", "6379")
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)

	v.SetDefault("STORAGE_DRIVER", DriverSQLite)
	v.SetDefault("STORAGE_URL", "https://remote-storage.developerakademie.org/item")
	v.SetDefault("STORAGE_TOKEN", "")
	v.SetDefault("STORAGE_KEY", "userDataBase")
	v.SetDefault("HTTP_TIMEOUT", "10s")

	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "3306")
	v.SetDefault("DB_USER", "joinuser")
	v.SetDefault("DB_PASSWORD", "joinpassword")
	v.SetDefault("DB_NAME", "join")
	v.SetDefault("SQLITE_PATH", "join.db")

	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "console")

	v.SetDefault("GESTURE_LONG_PRESS", "200ms")
	v.SetDefault("GESTURE_PERSIST_TIMEOUT", "10s")

	v.SetDefault("LOGIN_RATE_LIMIT", 1.0)
	v.SetDefault("LOGIN_RATE_BURST", 5)

	v.SetDefault("GUEST_EMAIL", "guest@join.local")
	v.SetDefault("OPENAI_API_KEY", "")
}

// Validate checks the settings that cannot fall back to a sane default.
func (c *Config) Validate() error {
	switch c.StorageDriver {
	case DriverRemote:
		if c.StorageURL == "" {
			return fmt.Errorf("STORAGE_URL is required for the remote driver")
		}
		if c.StorageToken == "" {
			return fmt.Errorf("STORAGE_TOKEN is required for the remote driver")
		}
	case DriverSQLite, DriverMySQL, DriverPostgres, DriverRedis, DriverMemory:
	default:
		return fmt.Errorf("unsupported STORAGE_DRIVER %q", c.StorageDriver)
	}

	if c.StorageKey == "" {
		return fmt.Errorf("STORAGE_KEY cannot be empty")
	}
	if c.SessionStore != "cookie" && c.SessionStore != "redis" {
		return fmt.Errorf("unsupported SESSION_STORE %q", c.SessionStore)
	}
	if c.LongPress <= 0 {
		return fmt.Errorf("GESTURE_LONG_PRESS must be positive")
	}
	return nil
}

// RedisAddr returns host:port for the redis client and session store.
func (c *Config) RedisAddr() string {
	return c.RedisHost + ":" + c.RedisPort
}
