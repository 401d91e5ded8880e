package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	BackendMemory = "memory"
	BackendMySQL  = "mysql"
	BackendRedis  = "redis"
	BackendS3     = "s3"
)

// Config aggregates runtime configuration for the API, the bot and the writer.
type Config struct {
	ListenAddr string
	LogLevel   string

	StorageBackend string
	MySQLDSN       string
	RedisAddr      string
	RedisPassword  string
	RedisDB        int
	RedisPrefix    string
	S3Endpoint     string
	S3Region       string
	S3AccessKey    string
	S3SecretKey    string
	S3Bucket       string
	S3UsePathStyle bool
	S3Prefix       string

	StoryAPIURL    string
	StoryAPIKey    string
	StoryStyle     string
	RequestTimeout time.Duration

	LLMBaseURL     string
	LLMAPIKey      string
	LLMModel       string
	LLMMaxTokens   int
	LLMTemperature float64

	WriterAPIKey      string
	WriterRateLimit   int
	WriterRateWindow  time.Duration
	AuthJWTSecret     string
	AuthJWTIssuer     string
	AuthDisabled      bool
	MasterPassword    string
	BotToken          string
	DailyTickInterval time.Duration
}

// Load reads configuration from environment variables, applying sane defaults.
func Load() (Config, error) {
	if err := loadEnvFile(); err != nil {
		return Config{}, err
	}

	const defaultLLMBaseURL = "https://ai.gateway.lovable.dev"

	cfg := Config{
		ListenAddr:        getEnv("HTTP_LISTEN_ADDR", ":8080"),
		LogLevel:          getEnv("LOG_LEVEL", "info"),
		StorageBackend:    strings.ToLower(getEnv("STORAGE_BACKEND", BackendMemory)),
		MySQLDSN:          os.Getenv("MYSQL_DSN"),
		RedisAddr:         os.Getenv("REDIS_ADDR"),
		RedisPassword:     os.Getenv("REDIS_PASSWORD"),
		RedisDB:           getInt("REDIS_DB", 0),
		RedisPrefix:       getEnv("REDIS_PREFIX", ""),
		S3Endpoint:        os.Getenv("S3_ENDPOINT"),
		S3Region:          os.Getenv("S3_REGION"),
		S3AccessKey:       os.Getenv("S3_ACCESS_KEY"),
		S3SecretKey:       os.Getenv("S3_SECRET_KEY"),
		S3Bucket:          os.Getenv("S3_BUCKET"),
		S3UsePathStyle:    getBool("S3_USE_PATH_STYLE", false),
		S3Prefix:          getEnv("S3_PREFIX", "contos-diarios"),
		StoryAPIURL:       getEnv("STORY_API_URL", "http://localhost:8080/v1/writer"),
		StoryAPIKey:       os.Getenv("STORY_API_KEY"),
		StoryStyle:        getEnv("STORY_STYLE", "literario"),
		RequestTimeout:    time.Second * time.Duration(getInt("HTTP_TIMEOUT_SECONDS", 60)),
		LLMBaseURL:        normalizeBaseURL(getEnv("LLM_BASE_URL", defaultLLMBaseURL), defaultLLMBaseURL),
		LLMAPIKey:         os.Getenv("LLM_API_KEY"),
		LLMModel:          getEnv("LLM_MODEL", "google/gemini-3-flash-preview"),
		LLMMaxTokens:      getInt("LLM_MAX_TOKENS", 1500),
		LLMTemperature:    getFloat("LLM_TEMPERATURE", 0.9),
		WriterAPIKey:      os.Getenv("WRITER_API_KEY"),
		WriterRateLimit:   getInt("WRITER_RATE_LIMIT", 30),
		WriterRateWindow:  time.Second * time.Duration(getInt("WRITER_RATE_WINDOW_SECONDS", 60)),
		AuthJWTSecret:     os.Getenv("AUTH_JWT_SECRET"),
		AuthJWTIssuer:     os.Getenv("AUTH_JWT_ISSUER"),
		AuthDisabled:      getBool("AUTH_DISABLED", false),
		MasterPassword:    os.Getenv("MASTER_PASSWORD"),
		BotToken:          os.Getenv("TELEGRAM_BOT_TOKEN"),
		DailyTickInterval: time.Minute * time.Duration(getInt("DAILY_TICK_MINUTES", 60)),
	}

	var missing []string
	if cfg.AuthJWTSecret == "" && !cfg.AuthDisabled {
		missing = append(missing, "AUTH_JWT_SECRET")
	}
	switch cfg.StorageBackend {
	case BackendMemory:
	case BackendMySQL:
		if cfg.MySQLDSN == "" {
			missing = append(missing, "MYSQL_DSN")
		}
	case BackendRedis:
		if cfg.RedisAddr == "" {
			missing = append(missing, "REDIS_ADDR")
		}
	case BackendS3:
		if cfg.S3Region == "" {
			missing = append(missing, "S3_REGION")
		}
		if cfg.S3AccessKey == "" {
			missing = append(missing, "S3_ACCESS_KEY")
		}
		if cfg.S3SecretKey == "" {
			missing = append(missing, "S3_SECRET_KEY")
		}
		if cfg.S3Bucket == "" {
			missing = append(missing, "S3_BUCKET")
		}
	default:
		return Config{}, fmt.Errorf("unsupported storage backend: %s", cfg.StorageBackend)
	}
	if len(missing) > 0 {
		return Config{}, fmt.Errorf("missing required environment variables: %v", missing)
	}

	return cfg, nil
}

// WriterEnabled reports whether this process can answer writer requests itself.
func (c Config) WriterEnabled() bool {
	return c.LLMAPIKey != ""
}

func normalizeBaseURL(raw string, fallback string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return fallback
	}

	parsed, err := url.Parse(raw)
	if err != nil {
		return fallback
	}

	if parsed.Scheme == "" {
		parsed.Scheme = "https"
	}
	if parsed.Host == "" {
		parsed.Host = parsed.Path
		parsed.Path = ""
	}

	return strings.TrimRight(parsed.String(), "/")
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return i
}

func getFloat(key string, fallback float64) float64 {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return fallback
	}
	return f
}

func getBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return b
}

// loadEnvFile overlays the first env file found; running without one is fine.
func loadEnvFile() error {
	candidates := []string{}
	if custom, ok := os.LookupEnv("CONFIG_ENV_PATH"); ok && custom != "" {
		candidates = append(candidates, custom)
	}
	candidates = append(candidates,
		filepath.Join("configs", ".env"),
		".env",
	)

	for _, path := range candidates {
		info, err := os.Stat(path)
		if err != nil {
			if errors.Is(err, os.ErrNotExist) {
				continue
			}
			return fmt.Errorf("access env file %s: %w", path, err)
		}
		if info.IsDir() {
			continue
		}
		if err := godotenv.Overload(path); err != nil {
			return fmt.Errorf("load env file %s: %w", path, err)
		}
		return nil
	}
	return nil
}
