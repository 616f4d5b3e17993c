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

type Config struct {
	Port        string
	DatabaseURL string

	TelegramToken string
	// AppBaseURL selects webhook mode when set.
	AppBaseURL         string
	PollTimeoutSeconds int

	AIProvider    string
	GeminiAPIKey  string
	GeminiModel   string
	GeminiBaseURL string
	OpenAIAPIKey  string
	OpenAIModel   string
	OpenAIBaseURL string

	ContextLimit    int
	MessageLocation *time.Location

	AdminChatID          int64
	AdminToken           string
	WebhookRatePerMinute int
	LogMode              string
}

// Load reads .env (if any) and the process environment.
func Load() (*Config, error) {
	_ = godotenv.Load()
	return fromEnv(os.Getenv)
}

func fromEnv(getenv func(string) string) (*Config, error) {
	get := func(key, def string) string {
		if v := strings.TrimSpace(getenv(key)); v != "" {
			return v
		}
		return def
	}

	var errs []error
	getInt := func(key string, def int) int {
		s := get(key, "")
		if s == "" {
			return def
		}
		n, err := strconv.Atoi(s)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", key, err))
			return def
		}
		return n
	}

	cfg := &Config{
		Port:                 get("PORT", "8080"),
		DatabaseURL:          get("DATABASE_URL", ""),
		TelegramToken:        get("TELEGRAM_TOKEN", ""),
		AppBaseURL:           get("APP_BASE_URL", ""),
		PollTimeoutSeconds:   getInt("POLL_TIMEOUT_SECONDS", 30),
		AIProvider:           strings.ToLower(get("AI_PROVIDER", "gemini")),
		GeminiAPIKey:         get("GEMINI_API_KEY", ""),
		GeminiModel:          get("GEMINI_MODEL", "gemini-2.0-flash"),
		GeminiBaseURL:        get("GEMINI_BASE_URL", "https://generativelanguage.googleapis.com"),
		OpenAIAPIKey:         get("OPENAI_API_KEY", ""),
		OpenAIModel:          get("OPENAI_MODEL", "gpt-4o-mini"),
		OpenAIBaseURL:        get("OPENAI_BASE_URL", ""),
		ContextLimit:         getInt("CONTEXT_LIMIT", 50),
		AdminToken:           get("ADMIN_TOKEN", ""),
		WebhookRatePerMinute: getInt("WEBHOOK_RATE_PER_MINUTE", 600),
		LogMode:              get("LOG_MODE", "production"),
	}

	if s := get("ADMIN_CHAT_ID", ""); s != "" {
		id, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			errs = append(errs, fmt.Errorf("ADMIN_CHAT_ID: %w", err))
		}
		cfg.AdminChatID = id
	}

	tz := get("MESSAGE_TIMEZONE", "America/Bogota")
	loc, err := time.LoadLocation(tz)
	if err != nil {
		// без tzdata: Богота не переходит на летнее время
		loc = time.FixedZone(tz, -5*60*60)
	}
	cfg.MessageLocation = loc

	if cfg.TelegramToken == "" {
		errs = append(errs, errors.New("TELEGRAM_TOKEN is not set"))
	}
	if cfg.DatabaseURL == "" {
		errs = append(errs, errors.New("DATABASE_URL is not set"))
	}
	switch cfg.AIProvider {
	case "gemini":
		if cfg.GeminiAPIKey == "" {
			errs = append(errs, errors.New("GEMINI_API_KEY is not set"))
		}
	case "openai":
		if cfg.OpenAIAPIKey == "" {
			errs = append(errs, errors.New("OPENAI_API_KEY is not set"))
		}
	default:
		errs = append(errs, fmt.Errorf("AI_PROVIDER %q: want gemini or openai", cfg.AIProvider))
	}
	if cfg.ContextLimit <= 0 {
		errs = append(errs, fmt.Errorf("CONTEXT_LIMIT must be positive, got %d", cfg.ContextLimit))
	}

	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return cfg, nil
}
