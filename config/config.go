package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config carries every environment-driven setting. It is built once in main
// and passed down explicitly; nothing in the service reads the environment.
type Config struct {
	Port            string
	APIKey          string
	DevelopmentMode bool
	PublicBaseURL   string

	ArtifactsDir   string
	RetentionHours int

	OutboundWhitelist map[string]struct{}

	PostgresURI string
	MongoURI    string
	MongoDB     string
	RedisAddr   string

	GCSBucket string // optional; empty means local artifact storage

	VonageAPIKey         string
	VonageAPISecret      string
	VonageApplicationID  string
	VonagePrivateKeyPath string
	VonageFromNumber     string

	VertexProject  string
	VertexLocation string
	VertexModel    string

	STTLanguage string
}

func Load() Config {
	cfg := Config{
		Port:            getenv("PORT", "8080"),
		APIKey:          getenv("API_KEY", "devkey"),
		DevelopmentMode: strings.EqualFold(os.Getenv("DEVELOPMENT_MODE"), "true"),
		PublicBaseURL:   getenv("PUBLIC_BASE_URL", "http://localhost:8080"),

		ArtifactsDir:   getenv("ARTIFACTS_DIR", "./artifacts"),
		RetentionHours: getenvInt("RETENTION_HOURS", 36),

		PostgresURI: os.Getenv("POSTGRES_URI"),
		MongoURI:    os.Getenv("MONGO_URI"),
		MongoDB:     getenv("MONGO_DB", "screener"),
		RedisAddr:   firstNonEmpty(os.Getenv("REDIS_ADDR"), os.Getenv("REDIS_URI"), os.Getenv("REDIS_URL")),

		GCSBucket: os.Getenv("GCS_BUCKET"),

		VonageAPIKey:         os.Getenv("VONAGE_API_KEY"),
		VonageAPISecret:      os.Getenv("VONAGE_API_SECRET"),
		VonageApplicationID:  os.Getenv("VONAGE_APPLICATION_ID"),
		VonagePrivateKeyPath: os.Getenv("VONAGE_PRIVATE_KEY_PATH"),
		VonageFromNumber:     getenv("VONAGE_FROM_NUMBER", "15550100000"),

		VertexProject:  os.Getenv("VERTEX_PROJECT"),
		VertexLocation: getenv("VERTEX_LOCATION", "us-central1"),
		VertexModel:    getenv("VERTEX_MODEL", "gemini-1.5-flash"),

		STTLanguage: getenv("STT_LANGUAGE", "en-US"),
	}

	cfg.OutboundWhitelist = map[string]struct{}{}
	for _, n := range strings.Split(os.Getenv("OUTBOUND_WHITELIST"), ",") {
		n = strings.TrimSpace(n)
		if n != "" {
			cfg.OutboundWhitelist[n] = struct{}{}
		}
	}
	return cfg
}

func (c Config) Retention() time.Duration {
	return time.Duration(c.RetentionHours) * time.Hour
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
