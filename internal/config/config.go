package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	StorageLocal = "local"
	StorageOSS   = "oss"
)

// Config holds application runtime configuration.
type Config struct {
	Env               string
	HTTPPort          string
	DatabaseURL       string
	JWTSecret         string
	PublicBaseURL     string
	AccessTokenTTL    time.Duration
	RefreshTokenTTL   time.Duration
	GoogleClientID    string
	FirebaseProjectID string
	FirebaseCredFile  string
	ReadTimeout       time.Duration
	WriteTimeout      time.Duration
	IdleTimeout       time.Duration
	ShutdownTimeout   time.Duration
	LogFormat         string

	StorageDriver  string
	UploadDir      string
	MaxUploadBytes int64
	OSS            OSSConfig

	LocalSettingsPath string

	RolloverEnabled  bool
	RolloverSchedule string
}

// OSSConfig holds Aliyun OSS credentials, used when StorageDriver is "oss".
type OSSConfig struct {
	Endpoint      string
	AccessKey     string
	SecretKey     string
	SecurityToken string
	Bucket        string
	PublicBase    string
}

// Load reads environment variables and .env (if present).
func Load() (Config, error) {
	_ = godotenv.Load()

	cfg := Config{
		Env:               getEnv("APP_ENV", "development"),
		HTTPPort:          getEnv("HTTP_PORT", "8080"),
		DatabaseURL:       os.Getenv("DATABASE_URL"),
		JWTSecret:         os.Getenv("JWT_SECRET"),
		PublicBaseURL:     strings.TrimRight(getEnv("PUBLIC_BASE_URL", "http://localhost:8080"), "/"),
		AccessTokenTTL:    getDuration("ACCESS_TOKEN_TTL", 24*time.Hour),
		RefreshTokenTTL:   getDuration("REFRESH_TOKEN_TTL", 30*24*time.Hour),
		GoogleClientID:    os.Getenv("GOOGLE_CLIENT_ID"),
		FirebaseProjectID: os.Getenv("FIREBASE_PROJECT_ID"),
		FirebaseCredFile:  os.Getenv("FIREBASE_CREDENTIALS"),
		ReadTimeout:       getDuration("HTTP_READ_TIMEOUT", 15*time.Second),
		WriteTimeout:      getDuration("HTTP_WRITE_TIMEOUT", 60*time.Second),
		IdleTimeout:       getDuration("HTTP_IDLE_TIMEOUT", 60*time.Second),
		ShutdownTimeout:   getDuration("HTTP_SHUTDOWN_TIMEOUT", 10*time.Second),
		LogFormat:         getEnv("LOG_FORMAT", "text"),

		StorageDriver:  strings.ToLower(getEnv("STORAGE_DRIVER", StorageLocal)),
		UploadDir:      getEnv("UPLOAD_DIR", "uploads"),
		MaxUploadBytes: int64(getInt("MAX_UPLOAD_BYTES", 10*1024*1024)),
		OSS: OSSConfig{
			Endpoint:      os.Getenv("ALI_OSS_ENDPOINT"),
			AccessKey:     os.Getenv("ALI_OSS_ACCESS_KEY"),
			SecretKey:     os.Getenv("ALI_OSS_SECRET_KEY"),
			SecurityToken: os.Getenv("ALI_OSS_SECURITY_TOKEN"),
			Bucket:        os.Getenv("ALI_OSS_BUCKET"),
			PublicBase:    os.Getenv("ALI_OSS_PUBLIC_BASE"),
		},

		LocalSettingsPath: getEnv("LOCAL_SETTINGS_PATH", "data/local-settings.json"),

		RolloverEnabled:  getBool("ROLLOVER_ENABLED", true),
		RolloverSchedule: getEnv("ROLLOVER_SCHEDULE", "5 0 1 * *"),
	}

	if cfg.DatabaseURL == "" {
		return cfg, errors.New("DATABASE_URL is required")
	}
	if cfg.JWTSecret == "" {
		return cfg, errors.New("JWT_SECRET is required")
	}
	switch cfg.StorageDriver {
	case StorageLocal:
	case StorageOSS:
		if cfg.OSS.Endpoint == "" || cfg.OSS.AccessKey == "" || cfg.OSS.SecretKey == "" || cfg.OSS.Bucket == "" {
			return cfg, errors.New("ALI_OSS_ENDPOINT, ALI_OSS_ACCESS_KEY, ALI_OSS_SECRET_KEY and ALI_OSS_BUCKET are required for oss storage")
		}
	default:
		return cfg, fmt.Errorf("unknown STORAGE_DRIVER %q (use local or oss)", cfg.StorageDriver)
	}
	return cfg, nil
}

func getEnv(key, fallback string) string {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	return val
}

func getInt(key string, fallback int) int {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	n, err := strconv.Atoi(val)
	if err != nil || n < 0 {
		return fallback
	}
	return n
}

func getBool(key string, fallback bool) bool {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	b, err := strconv.ParseBool(val)
	if err != nil {
		return fallback
	}
	return b
}

func getDuration(key string, fallback time.Duration) time.Duration {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	d, err := time.ParseDuration(val)
	if err != nil {
		// Support seconds as integer without suffix.
		if secs, convErr := strconv.Atoi(val); convErr == nil {
			return time.Duration(secs) * time.Second
		}
		return fallback
	}
	return d
}
