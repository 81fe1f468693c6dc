package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds application configuration.
type Config struct {
	Port            string
	Env             string
	CORSAllowOrigin []string
	PublicBaseURL   string
	MaxUploadBytes  int64

	ObjectStoreType string
	StorageBucket   string
	CacheControl    string
	LocalStoreDir   string

	SupabaseURL       string
	SupabaseAccessKey string
	SupabaseSecretKey string
	SupabaseRegion    string

	AWSRegion       string
	S3Endpoint      string
	S3PublicBaseURL string

	GCSPublicBaseURL string

	TailoringWebhookURL string
	JobMatchWebhookURL  string
	FixWebhookURL       string
	WebhookTimeout      time.Duration

	StripeSecretKey    string
	CheckoutSuccessURL string
	CheckoutCancelURL  string
	CheckoutCurrency   string
}

// Load reads configuration from environment variables with sensible defaults.
// Credentials are not checked here; each flow fails on first use instead.
func Load() Config {
	// Best-effort load of local env files for dev convenience.
	loadEnvFiles(".env", "cmd/.env")

	return Config{
		Port:            getEnv("PORT", "8080"),
		Env:             normalizeEnv(getEnv("ENV", "dev")),
		CORSAllowOrigin: splitAndTrim(getEnv("CORS_ALLOW_ORIGINS", "http://localhost:5173")),
		PublicBaseURL:   strings.TrimRight(getEnv("PUBLIC_BASE_URL", "http://localhost:8080"), "/"),
		MaxUploadBytes:  getEnvInt64("MAX_UPLOAD_BYTES", 0),

		ObjectStoreType: normalizeStoreType(getEnv("OBJECT_STORE", "local")),
		StorageBucket:   getEnv("STORAGE_BUCKET", "freeonlinetools"),
		CacheControl:    getEnv("STORAGE_CACHE_CONTROL", "3600"),
		LocalStoreDir:   getEnv("LOCAL_STORE_DIR", "./data"),

		SupabaseURL:       strings.TrimRight(getEnv("SUPABASE_URL", ""), "/"),
		SupabaseAccessKey: getEnv("SUPABASE_S3_ACCESS_KEY", ""),
		SupabaseSecretKey: getEnv("SUPABASE_S3_SECRET_KEY", ""),
		SupabaseRegion:    getEnv("SUPABASE_REGION", "us-east-1"),

		AWSRegion:       getEnv("AWS_REGION", ""),
		S3Endpoint:      getEnv("S3_ENDPOINT", ""),
		S3PublicBaseURL: strings.TrimRight(getEnv("S3_PUBLIC_BASE_URL", ""), "/"),

		GCSPublicBaseURL: strings.TrimRight(getEnv("GCS_PUBLIC_BASE_URL", "https://storage.googleapis.com"), "/"),

		TailoringWebhookURL: getEnv("WEBHOOK_TAILORING_URL", ""),
		JobMatchWebhookURL:  getEnv("WEBHOOK_JOB_MATCH_URL", ""),
		FixWebhookURL:       getEnv("WEBHOOK_FIX_URL", ""),
		WebhookTimeout:      getEnvDuration("WEBHOOK_TIMEOUT", 0),

		StripeSecretKey:    getEnv("STRIPE_SECRET_KEY", ""),
		CheckoutSuccessURL: getEnv("CHECKOUT_SUCCESS_URL", "https://freeresumetools.io/donate?success=true"),
		CheckoutCancelURL:  getEnv("CHECKOUT_CANCEL_URL", "https://freeresumetools.io/donate?canceled=true"),
		CheckoutCurrency:   strings.ToLower(getEnv("CHECKOUT_CURRENCY", "usd")),
	}
}

func getEnv(key, def string) string {
	if val := strings.TrimSpace(os.Getenv(key)); val != "" {
		return val
	}
	return def
}

func getEnvInt64(key string, def int64) int64 {
	raw := getEnv(key, "")
	if raw == "" {
		return def
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || v < 0 {
		return def
	}
	return v
}

// getEnvDuration accepts Go durations ("30s") or a bare number of seconds.
func getEnvDuration(key string, def time.Duration) time.Duration {
	raw := getEnv(key, "")
	if raw == "" {
		return def
	}
	if d, err := time.ParseDuration(raw); err == nil && d >= 0 {
		return d
	}
	if secs, err := strconv.Atoi(raw); err == nil && secs >= 0 {
		return time.Duration(secs) * time.Second
	}
	return def
}

func splitAndTrim(raw string) []string {
	parts := strings.Split(raw, ",")
	var out []string
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func normalizeEnv(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "production", "prod":
		return "production"
	case "staging":
		return "staging"
	case "local":
		return "local"
	default:
		return "dev"
	}
}

func normalizeStoreType(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "supabase":
		return "supabase"
	case "s3", "r2", "minio":
		return "s3"
	case "gcs":
		return "gcs"
	default:
		return "local"
	}
}
