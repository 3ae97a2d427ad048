package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// AppConfig holds all configuration for the service. It is loaded once at
// startup and passed to constructors; nothing reads the environment after Load.
type AppConfig struct {
	DatabaseURL string

	// Check-in thresholds. Both comparisons in the evaluator are strict.
	QuizPassScore   int
	FocusMinMinutes int

	// Fail-safe windows.
	MentorResponseDeadline time.Duration // Time a mentor has to act before escalation
	AutoUnlockWindow       time.Duration // Total time before the system assigns a default task
	SweepInterval          time.Duration // Escalation sweep period

	// Mentor alert channels. MentorWebhookURL wins when set; otherwise the
	// Telegram pair is used; with neither, alerts go to the log.
	MentorWebhookURL string
	TelegramToken    string
	MentorChatID     int64

	LogLevel    string
	Environment string
}

// Load reads configuration from environment variables and .env file (if present).
func Load() (*AppConfig, error) {
	// Errors are ignored if the .env file doesn't exist; existing env
	// variables are never overridden.
	_ = godotenv.Load()

	cfg := &AppConfig{}
	var err error

	cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is not set")
	}

	if cfg.QuizPassScore, err = getEnvInt("QUIZ_PASS_SCORE", 7); err != nil {
		return nil, err
	}
	if cfg.FocusMinMinutes, err = getEnvInt("FOCUS_MIN_MINUTES", 60); err != nil {
		return nil, err
	}

	deadlineHours, err := getEnvInt("MENTOR_RESPONSE_DEADLINE_HOURS", 12)
	if err != nil {
		return nil, err
	}
	cfg.MentorResponseDeadline = time.Duration(deadlineHours) * time.Hour

	unlockHours, err := getEnvInt("AUTO_UNLOCK_HOURS", 24)
	if err != nil {
		return nil, err
	}
	cfg.AutoUnlockWindow = time.Duration(unlockHours) * time.Hour

	if cfg.SweepInterval, err = getEnvDuration("ESCALATION_SWEEP_INTERVAL", 10*time.Minute); err != nil {
		return nil, err
	}

	cfg.MentorWebhookURL = os.Getenv("MENTOR_WEBHOOK_URL")
	cfg.TelegramToken = os.Getenv("TELEGRAM_TOKEN")

	if chatIDStr := os.Getenv("MENTOR_CHAT_ID"); chatIDStr != "" {
		cfg.MentorChatID, err = strconv.ParseInt(chatIDStr, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid MENTOR_CHAT_ID: %w", err)
		}
	}

	cfg.LogLevel = strings.ToLower(os.Getenv("LOG_LEVEL"))
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}

	cfg.Environment = strings.ToLower(os.Getenv("ENVIRONMENT"))
	if cfg.Environment == "" {
		cfg.Environment = "development"
	}

	return cfg, nil
}

func getEnvInt(key string, fallback int) (int, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return v, nil
}

func getEnvDuration(key string, fallback time.Duration) (time.Duration, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback, nil
	}
	v, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return v, nil
}
