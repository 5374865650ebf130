package config

import (
	"crypto/rand"
	"os"
	"strconv"
	"strings"
	"time"
)

// StoreConfig selects and parameterizes the application/row store backend.
// Backend is "csv" (per-user CSV files under DataDir) or "postgres".
type StoreConfig struct {
	Backend    string
	DataDir    string
	UploadsDir string
}

// DatabaseConfig holds PostgreSQL connection settings (postgres backend only).
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

// S3Config holds settings for the S3-compatible storage provider (MinIO, AWS
// S3, Supabase's S3 gateway, ...).
type S3Config struct {
	Endpoint      string
	AccessKey     string
	SecretKey     string
	Bucket        string
	Region        string
	UseSSL        bool
	PresignExpiry time.Duration
}

// SupabaseConfig holds settings for the Supabase Storage provider.
type SupabaseConfig struct {
	URL    string
	Key    string
	Bucket string
}

// GoogleDriveConfig holds settings for the Google Drive provider.
// CredentialsFile points at a service-account JSON key.
type GoogleDriveConfig struct {
	CredentialsFile string
}

// AuthConfig holds session-token settings. Secret signs the HMAC session
// tokens handed out by /login; when unset a random per-process secret is
// generated, which invalidates sessions across restarts.
type AuthConfig struct {
	Secret     []byte
	SessionTTL time.Duration
}

// AppConfig is the centralized configuration struct for the application.
// It is populated from environment variables. Sensitive values are not hardcoded.
type AppConfig struct {
	AppHost           string
	Port              string
	AllowedExtensions []string
	Store             StoreConfig
	Database          DatabaseConfig
	S3                S3Config
	Supabase          SupabaseConfig
	GoogleDrive       GoogleDriveConfig
	Auth              AuthConfig
}

// Load reads configuration from environment variables.
// A .env file can be auto-loaded by importing: _ "github.com/joho/godotenv/autoload"
// This function does not require a .env file; real environment variables take precedence.
func Load() *AppConfig {
	return &AppConfig{
		AppHost:           getEnv("APP_HOST", "localhost:8080"),
		Port:              getEnv("PORT", "8080"), // default only for non-sensitive value
		AllowedExtensions: getEnvList("APP_ALLOWED_EXTENSIONS", ".pdf,.doc,.docx"),
		Store: StoreConfig{
			Backend:    getEnv("APP_STORE", "csv"),
			DataDir:    getEnv("APP_DATA_DIR", "data"),
			UploadsDir: getEnv("APP_UPLOADS_DIR", "uploads"),
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
		S3: S3Config{
			Endpoint:      getEnv("S3_ENDPOINT", ""),
			AccessKey:     getEnv("S3_ACCESS_KEY", ""),
			SecretKey:     getEnv("S3_SECRET_KEY", ""),
			Bucket:        getEnv("S3_BUCKET", ""),
			Region:        getEnv("S3_REGION", ""),
			UseSSL:        getEnvBool("S3_USE_SSL", true),
			PresignExpiry: getEnvDuration("S3_PRESIGN_EXPIRY", 24*time.Hour),
		},
		Supabase: SupabaseConfig{
			URL:    getEnv("SUPABASE_URL", ""),
			Key:    getEnv("SUPABASE_KEY", ""),
			Bucket: getEnv("SUPABASE_BUCKET", "pdfs"),
		},
		GoogleDrive: GoogleDriveConfig{
			CredentialsFile: getEnv("GOOGLE_SERVICE_ACCOUNT_PATH", ""),
		},
		Auth: AuthConfig{
			Secret:     getEnvSecret("SESSION_SECRET"),
			SessionTTL: getEnvDuration("SESSION_TTL", 12*time.Hour),
		},
	}
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

// getEnvList splits a comma-separated value and trims each element.
func getEnvList(key, def string) []string {
	v := getEnv(key, def)
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// getEnvSecret reads a signing secret; absent a configured value it returns
// 32 random bytes so the process still starts with a usable secret.
func getEnvSecret(key string) []byte {
	if v := os.Getenv(key); v != "" {
		return []byte(v)
	}
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return []byte(key + "-fallback-secret")
	}
	return buf
}
