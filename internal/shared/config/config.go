package config

import (
	"log"
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
	ObjectStoreType string
	LocalStoreDir   string
	AWSRegion       string
	S3Bucket        string
	S3Prefix        string
	SSEKMSKeyID     string
	DatabaseURL     string

	ChromePath     string
	PDFExport      bool
	ExportSettle   time.Duration
	SessionTTL     time.Duration
	NoticeTTL      time.Duration
	SampleData     bool
	RateLimitRPS   float64
	RateLimitBurst int
}

// Load reads configuration from environment variables with sensible defaults.
func Load() Config {
	// Best-effort load of local env files for dev convenience.
	loadEnvFiles(".env", "cmd/.env")

	env := normalizeEnv(getEnv("ENV", "dev"))
	store := normalizeStoreType(getEnv("OBJECT_STORE", "local"))
	if store == "s3" && os.Getenv("S3_BUCKET") == "" {
		log.Printf("OBJECT_STORE=s3 requires S3_BUCKET")
	}

	return Config{
		Port:            getEnv("PORT", "8080"),
		Env:             env,
		CORSAllowOrigin: splitAndTrim(getEnv("CORS_ALLOW_ORIGINS", "http://localhost:5173")),
		ObjectStoreType: store,
		LocalStoreDir:   getEnv("LOCAL_STORE_DIR", "./data"),
		AWSRegion:       getEnv("AWS_REGION", ""),
		S3Bucket:        getEnv("S3_BUCKET", ""),
		S3Prefix:        getEnv("S3_PREFIX", ""),
		SSEKMSKeyID:     getEnv("SSE_KMS_KEY_ID", ""),
		DatabaseURL:     os.Getenv("DATABASE_URL"),
		ChromePath:      getEnv("CHROME_PATH", ""),
		PDFExport:       getBool("PDF_EXPORT", true),
		ExportSettle:    getDuration("EXPORT_SETTLE_MS", 100*time.Millisecond),
		SessionTTL:      getDuration("SESSION_TTL", 2*time.Hour),
		NoticeTTL:       getDuration("NOTIFICATION_TTL", 5*time.Second),
		SampleData:      getBool("SAMPLE_DATA", true),
		RateLimitRPS:    getFloat("RATE_LIMIT_RPS", 10),
		RateLimitBurst:  int(getFloat("RATE_LIMIT_BURST", 40)),
	}
}

func getEnv(key, def string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return def
}

func getBool(key string, def bool) bool {
	raw := strings.ToLower(strings.TrimSpace(os.Getenv(key)))
	switch raw {
	case "":
		return def
	case "1", "true", "on", "yes":
		return true
	case "0", "false", "off", "no":
		return false
	}
	log.Printf("config %s invalid bool %q, using default", key, raw)
	return def
}

func getFloat(key string, def float64) float64 {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		log.Printf("config %s invalid number: %v", key, err)
		return def
	}
	return v
}

// getDuration accepts Go durations ("2h") or bare integers. Bare integers are
// milliseconds for *_MS keys and seconds otherwise.
func getDuration(key string, def time.Duration) time.Duration {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	if n, err := strconv.Atoi(raw); err == nil {
		if strings.HasSuffix(key, "_MS") {
			return time.Duration(n) * time.Millisecond
		}
		return time.Duration(n) * time.Second
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		log.Printf("config %s invalid duration: %v", key, err)
		return def
	}
	return d
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
	case "s3":
		return "s3"
	default:
		return "local"
	}
}
