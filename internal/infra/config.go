package infra

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config represents application configuration loaded from environment variables.
type Config struct {
	AppEnv           string
	Port             string
	SecretsPath      string
	StoragePath      string
	OpenAIBaseURL    string
	OpenAIModel      string
	ImageQuality     string
	AccessoryDefault string
	LastNameRequired bool
	AllowedOrigins   []string
	FetchTimeout     time.Duration
	GenerateTimeout  time.Duration
	SessionTTL       time.Duration
	HTTPReadTimeout  time.Duration
	HTTPWriteTimeout time.Duration
	HTTPIdleTimeout  time.Duration
	RateLimitPerMin  int
}

// LoadConfig loads configuration from environment variables and applies defaults where needed.
func LoadConfig() (*Config, error) {
	cfg := &Config{
		AppEnv:           getEnv("APP_ENV", "development"),
		Port:             getEnv("PORT", "8080"),
		SecretsPath:      getEnv("SECRETS_PATH", "secrets.json"),
		StoragePath:      getEnv("STORAGE_PATH", "generated_images"),
		OpenAIBaseURL:    getEnv("OPENAI_BASE_URL", "https://api.openai.com/v1"),
		OpenAIModel:      getEnv("OPENAI_IMAGE_MODEL", "gpt-image-1"),
		ImageQuality:     getEnv("IMAGE_QUALITY", "high"),
		AccessoryDefault: getEnv("ACCESSORY_DEFAULT", ""),
		LastNameRequired: getEnvBool("LAST_NAME_REQUIRED", false),
		AllowedOrigins:   splitCSV(getEnv("ALLOWED_ORIGINS", "")),
		FetchTimeout:     time.Second * time.Duration(getEnvInt("FETCH_TIMEOUT_SECONDS", 15)),
		GenerateTimeout:  time.Second * time.Duration(getEnvInt("GENERATE_TIMEOUT_SECONDS", 120)),
		SessionTTL:       time.Minute * time.Duration(getEnvInt("SESSION_TTL_MINUTES", 60)),
		HTTPReadTimeout:  time.Second * time.Duration(getEnvInt("HTTP_READ_TIMEOUT_SECONDS", 30)),
		HTTPWriteTimeout: time.Second * time.Duration(getEnvInt("HTTP_WRITE_TIMEOUT_SECONDS", 180)),
		HTTPIdleTimeout:  time.Second * time.Duration(getEnvInt("HTTP_IDLE_TIMEOUT_SECONDS", 60)),
		RateLimitPerMin:  getEnvInt("RATE_LIMIT_PER_MINUTE", 30),
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func splitCSV(v string) []string {
	if strings.TrimSpace(v) == "" {
		return nil
	}
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
