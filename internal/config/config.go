package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

type Config struct {
	Server   ServerConfig
	Supabase SupabaseConfig
	Redis    RedisConfig
	JWT      JWTConfig
	Uploads  UploadsConfig
	Site     SiteConfig
}

type ServerConfig struct {
	Port            string
	ShutdownTimeout time.Duration
	MaxRequests     int
	RequestTimeout  time.Duration
	CacheExpiration time.Duration
	Environment     string
}

type SupabaseConfig struct {
	URL        string
	ServiceKey string
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type JWTConfig struct {
	Secret     string
	Expiration time.Duration
}

type UploadsConfig struct {
	MaxSize       int64
	PendingTTL    time.Duration
	SweepInterval time.Duration
}

type SiteConfig struct {
	// VisitorTTL bounds how long a visitor cookie counts as the same
	// browser session for the visitor counter.
	VisitorTTL      time.Duration
	ContactTemplate string
}

// LoadConfig reads configuration from the environment. The Supabase URL and
// service key have no defaults: running without them is a fatal startup
// condition.
func LoadConfig() (*Config, error) {
	supabaseURL := os.Getenv("SUPABASE_URL")
	supabaseKey := os.Getenv("SUPABASE_SERVICE_KEY")
	if supabaseURL == "" || supabaseKey == "" {
		return nil, fmt.Errorf("SUPABASE_URL and SUPABASE_SERVICE_KEY must be set")
	}

	return &Config{
		Server: ServerConfig{
			Port:            loadEnv("PORT", ":8080"),
			ShutdownTimeout: time.Duration(loadEnvAsInt("SERVER_SHUTDOWN_TIMEOUT", 5)) * time.Second,
			MaxRequests:     loadEnvAsInt("SERVER_MAX_REQUESTS", 100),
			RequestTimeout:  time.Duration(loadEnvAsInt("SERVER_REQUEST_TIMEOUT", 60)) * time.Second,
			CacheExpiration: time.Duration(loadEnvAsInt("SERVER_CACHE_EXPIRATION", 10)) * time.Second,
			Environment:     loadEnv("GO_ENV", "development"),
		},
		Supabase: SupabaseConfig{
			URL:        supabaseURL,
			ServiceKey: supabaseKey,
		},
		Redis: RedisConfig{
			Addr:     loadEnv("REDIS_ADDR", "localhost:6379"),
			Password: loadEnv("REDIS_PASSWORD", ""),
			DB:       loadEnvAsInt("REDIS_DB", 0),
		},
		JWT: JWTConfig{
			Secret:     loadEnv("JWT_SECRET", "supersecretkey"),
			Expiration: time.Duration(loadEnvAsInt("JWT_EXPIRATION", 72)) * time.Hour,
		},
		Uploads: UploadsConfig{
			MaxSize:       loadEnvAsInt64("UPLOADS_MAX_SIZE", 104857600), // APKs included
			PendingTTL:    time.Duration(loadEnvAsInt("UPLOADS_PENDING_TTL", 3600)) * time.Second,
			SweepInterval: time.Duration(loadEnvAsInt("UPLOADS_SWEEP_INTERVAL", 600)) * time.Second,
		},
		Site: SiteConfig{
			VisitorTTL:      time.Duration(loadEnvAsInt("SITE_VISITOR_TTL", 86400)) * time.Second,
			ContactTemplate: loadEnv("SITE_CONTACT_TEMPLATE", "Halo, saya tertarik dengan paket %s."),
		},
	}, nil
}

func loadEnv(key, defaultVal string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultVal
}

func loadEnvAsInt(key string, defaultVal int) int {
	if value, exists := os.LookupEnv(key); exists {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultVal
}

func loadEnvAsInt64(key string, defaultVal int64) int64 {
	if value, exists := os.LookupEnv(key); exists {
		if intVal, err := strconv.ParseInt(value, 10, 64); err == nil {
			return intVal
		}
	}
	return defaultVal
}
