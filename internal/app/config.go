package app

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/yungbote/learnpath-backend/internal/observability"
	"github.com/yungbote/learnpath-backend/internal/platform/envutil"
	"github.com/yungbote/learnpath-backend/internal/platform/llm"
	"github.com/yungbote/learnpath-backend/internal/platform/logger"
	"github.com/yungbote/learnpath-backend/internal/services"
)

const ServiceName = "learnpath-backend"

type Config struct {
	Env     string
	Port    string
	LogMode string

	DBDriver   string
	SQLitePath string

	JWTSecretKey    string
	AccessTokenTTL  time.Duration
	RefreshTokenTTL time.Duration
	SecureCookie    bool
	AdminEmail      string
	AdminPassword   string

	LLM llm.Config

	RedisAddr     string
	RedisPassword string
	QuizLockTTL   time.Duration

	Quiz          services.QuizGenerationConfig
	WeakThreshold float64

	AllowedOrigins  []string
	MetricsEnabled  bool
	Otel            observability.OtelConfig
	ShutdownTimeout time.Duration
}

// fileConfig is the optional YAML file named by CONFIG_FILE. Env always wins over it.
type fileConfig struct {
	LLM struct {
		Provider string   `yaml:"provider"`
		Models   []string `yaml:"models"`
	} `yaml:"llm"`
	Quiz struct {
		DefaultQuestions int `yaml:"default_questions"`
		MaxQuestions     int `yaml:"max_questions"`
	} `yaml:"quiz"`
	Analytics struct {
		WeakThreshold float64 `yaml:"weak_threshold"`
	} `yaml:"analytics"`
}

func loadFileConfig(path string) (fileConfig, error) {
	var fc fileConfig
	if strings.TrimSpace(path) == "" {
		return fc, nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return fc, fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(raw, &fc); err != nil {
		return fc, fmt.Errorf("parse config file %s: %w", path, err)
	}
	return fc, nil
}

func LoadConfig(log *logger.Logger) (Config, error) {
	fc, err := loadFileConfig(envutil.String("CONFIG_FILE", ""))
	if err != nil {
		return Config{}, err
	}

	env := envutil.String("APP_ENV", "development")
	jwtSecretKey := envutil.String("JWT_SECRET_KEY", "")
	if jwtSecretKey == "" {
		if env == "production" {
			return Config{}, fmt.Errorf("JWT_SECRET_KEY is required in production")
		}
		log.Warn("JWT_SECRET_KEY not set, using development default")
		jwtSecretKey = "defaultsecret"
	}

	weakThreshold := fc.Analytics.WeakThreshold
	if weakThreshold <= 0 {
		weakThreshold = services.DefaultWeakThreshold
	}

	cfg := Config{
		Env:     env,
		Port:    envutil.String("PORT", "8080"),
		LogMode: envutil.String("LOG_MODE", "development"),

		DBDriver:   strings.ToLower(envutil.String("DB_DRIVER", "postgres")),
		SQLitePath: envutil.String("SQLITE_PATH", "learnpath.db"),

		JWTSecretKey:    jwtSecretKey,
		AccessTokenTTL:  envutil.Seconds("ACCESS_TOKEN_TTL", 24*time.Hour),
		RefreshTokenTTL: envutil.Seconds("REFRESH_TOKEN_TTL", 7*24*time.Hour),
		SecureCookie:    envutil.Bool("COOKIE_SECURE", env == "production"),
		AdminEmail:      envutil.String("ADMIN_EMAIL", ""),
		AdminPassword:   envutil.String("ADMIN_PASSWORD", ""),

		LLM: llm.Config{
			Provider:       envutil.String("PROVIDER", fc.LLM.Provider),
			Models:         envutil.CSV("LLM_MODELS", fc.LLM.Models),
			Timeout:        envutil.Seconds("LLM_TIMEOUT_SECONDS", 60*time.Second),
			GeminiAPIKey:   envutil.String("GEMINI_API_KEY", ""),
			GeminiEndpoint: envutil.String("GEMINI_ENDPOINT", ""),
			OpenAIAPIKey:   envutil.String("OPENAI_API_KEY", ""),
			OpenAIBaseURL:  envutil.String("OPENAI_BASE_URL", ""),
			MaxRetries:     envutil.Int("LLM_MAX_RETRIES", 0),
		},

		RedisAddr:     envutil.String("REDIS_ADDR", ""),
		RedisPassword: envutil.String("REDIS_PASSWORD", ""),
		QuizLockTTL:   envutil.Seconds("QUIZ_LOCK_TTL_SECONDS", 2*time.Minute),

		Quiz: services.QuizGenerationConfig{
			DefaultQuestions: envutil.Int("QUIZ_DEFAULT_QUESTIONS", fc.Quiz.DefaultQuestions),
			MaxQuestions:     envutil.Int("QUIZ_MAX_QUESTIONS", fc.Quiz.MaxQuestions),
		},
		WeakThreshold: envutil.Float("ANALYTICS_WEAK_THRESHOLD", weakThreshold),

		AllowedOrigins:  envutil.CSV("CORS_ALLOWED_ORIGINS", nil),
		MetricsEnabled:  envutil.Bool("METRICS_ENABLED", true),
		Otel:            observability.OtelConfigFromEnv(ServiceName),
		ShutdownTimeout: envutil.Seconds("SHUTDOWN_TIMEOUT_SECONDS", 15*time.Second),
	}
	return cfg, nil
}

func envLogMode() string {
	return envutil.String("LOG_MODE", "development")
}
