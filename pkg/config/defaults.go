// Package config provides centralized default values for Praxis
package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/joho/godotenv"
)

var envLoaded sync.Once

func loadEnvFile() {
	envLoaded.Do(func() {
		if _, err := os.Stat(".env"); err != nil {
			return
		}
		log.Println("Loading configuration overrides from .env file...")
		// godotenv.Load never overrides variables already present in the environment
		if err := godotenv.Load(".env"); err != nil {
			log.Printf("Failed to parse .env file: %v", err)
		}
	})
}

func getEnvInt(key string, defaultValue int) int {
	if valStr := os.Getenv(key); valStr != "" {
		if val, err := strconv.Atoi(valStr); err == nil {
			if val != defaultValue {
				log.Printf("Config override: %s=%d (default: %d)", key, val, defaultValue)
			}
			return val
		}
	}
	return defaultValue
}

func getEnvString(key string, defaultValue string) string {
	if val := os.Getenv(key); val != "" {
		if val != defaultValue {
			log.Printf("Config override: %s=%s (default: %s)", key, val, defaultValue)
		}
		return val
	}
	return defaultValue
}

// getEnvSecret reads a value without echoing it to the log.
func getEnvSecret(key string, defaultValue string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if valStr := os.Getenv(key); valStr != "" {
		if val, err := strconv.ParseBool(valStr); err == nil {
			if val != defaultValue {
				log.Printf("Config override: %s=%t (default: %t)", key, val, defaultValue)
			}
			return val
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if valStr := os.Getenv(key); valStr != "" {
		if val, err := time.ParseDuration(valStr); err == nil {
			if val != defaultValue {
				log.Printf("Config override: %s=%s (default: %s)", key, val, defaultValue)
			}
			return val
		}
	}
	return defaultValue
}

// ParseEmailList splits a comma-separated allow-list into lower-cased, trimmed addresses.
func ParseEmailList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		email := strings.ToLower(strings.TrimSpace(part))
		if email != "" {
			out = append(out, email)
		}
	}
	return out
}

var (
	// Server Configuration
	Port               string
	GinMode            string
	ServerReadTimeout  time.Duration
	ServerWriteTimeout time.Duration
	ServerIdleTimeout  time.Duration
	CORSOrigins        []string
	SiteURL            string

	// Database
	DBDriver                 string
	DBDSN                    string
	SQLitePath               string
	TursoDatabaseURL         string
	TursoAuthToken           string
	DBMaxOpenConns           int
	DBMaxIdleConns           int
	DBConnMaxLifetimeMinutes int
	SlowQueryThreshold       time.Duration

	// Auth
	JWTSecret    string
	AuthTokenTTL time.Duration
	CookieSecure bool
	AdminEmails  []string

	// Visitor sessions
	SessionStore    string
	SessionTTL      time.Duration
	RedisAddr       string
	RedisPassword   string
	RedisDB         int
	SessionCacheMax int

	// Content
	DemoDir       string
	DefaultLocale string

	// Notifications
	ResendAPIKey   string
	LeadNotifyTo   string
	LeadNotifyFrom string

	// Logging
	LogDir    string
	LogFormat string
	LogLevel  string
	LogToFile bool
)

func init() {
	Load()
}

// Load (re)reads every setting from the environment.
func Load() {
	loadEnvFile()

	// Server Configuration
	Port = getEnvString("PORT", "8080")
	GinMode = getEnvString("GIN_MODE", "debug")
	ServerReadTimeout = getEnvDuration("SERVER_READ_TIMEOUT", 15*time.Second)
	ServerWriteTimeout = getEnvDuration("SERVER_WRITE_TIMEOUT", 15*time.Second)
	ServerIdleTimeout = getEnvDuration("SERVER_IDLE_TIMEOUT", 60*time.Second)
	CORSOrigins = strings.Split(getEnvString("CORS_ORIGINS", "http://localhost:4321,http://127.0.0.1:4321"), ",")
	SiteURL = strings.TrimRight(getEnvString("SITE_URL", "http://localhost:8080"), "/")

	// Database
	DBDriver = getEnvString("DB_DRIVER", "sqlite3")
	DBDSN = getEnvSecret("DB_DSN", "")
	SQLitePath = getEnvString("SQLITE_PATH", "data/praxis.db")
	TursoDatabaseURL = getEnvString("TURSO_DATABASE_URL", "")
	TursoAuthToken = getEnvSecret("TURSO_AUTH_TOKEN", "")
	DBMaxOpenConns = getEnvInt("DB_MAX_OPEN_CONNS", 10)
	DBMaxIdleConns = getEnvInt("DB_MAX_IDLE_CONNS", 3)
	DBConnMaxLifetimeMinutes = getEnvInt("DB_CONN_MAX_LIFETIME_MINUTES", 30)
	SlowQueryThreshold = getEnvDuration("SLOW_QUERY_THRESHOLD", 500*time.Millisecond)

	// Auth
	JWTSecret = getEnvSecret("JWT_SECRET", "")
	AuthTokenTTL = time.Duration(getEnvInt("AUTH_TTL_HOURS", 24)) * time.Hour
	CookieSecure = getEnvBool("COOKIE_SECURE", false)
	AdminEmails = ParseEmailList(getEnvString("ADMIN_EMAILS", ""))

	// Visitor sessions
	SessionStore = getEnvString("SESSION_STORE", "memory")
	SessionTTL = time.Duration(getEnvInt("SESSION_TTL_MINUTES", 120)) * time.Minute
	RedisAddr = getEnvString("REDIS_ADDR", "localhost:6379")
	RedisPassword = getEnvSecret("REDIS_PASSWORD", "")
	RedisDB = getEnvInt("REDIS_DB", 0)
	SessionCacheMax = getEnvInt("SESSION_CACHE_MAX", 10000)

	// Content
	DemoDir = getEnvString("DEMO_DIR", "web/demos")
	DefaultLocale = getEnvString("DEFAULT_LOCALE", "it")

	// Notifications
	ResendAPIKey = getEnvSecret("RESEND_API_KEY", "")
	LeadNotifyTo = getEnvString("LEAD_NOTIFY_TO", "")
	LeadNotifyFrom = getEnvString("LEAD_NOTIFY_FROM", "Praxis <noreply@praxis.studio>")

	// Logging
	LogDir = getEnvString("LOG_DIR", "logs")
	LogFormat = getEnvString("LOG_FORMAT", "json")
	LogLevel = getEnvString("LOG_LEVEL", "info")
	LogToFile = getEnvBool("LOG_TO_FILE", false)
}
