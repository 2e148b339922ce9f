package config

import (
	"os"
	"strings"
)

// DefaultFallbackTargetType is used when MONDAY_FALLBACK_TARGET_TYPE is unset.
const DefaultFallbackTargetType = "Project"

// Config holds application configuration read from environment variables.
//
// Load is cheap and is called once per webhook request so that recipient and
// credential changes take effect without a restart. Any missing workboard
// value disables the dependent feature instead of erroring.
type Config struct {
	Port     string
	Env      string
	LogLevel string

	MondayAPIURL       string
	MondayAPIKey       string
	ContactBoardID     string
	PhoneColumnID      string
	Recipients         []string
	FallbackTargetID   string
	FallbackTargetType string
}

// Load reads configuration from environment variables.
func Load() *Config {
	return &Config{
		Port:     getEnv("PORT", "8080"),
		Env:      getEnv("ENV", "development"),
		LogLevel: getEnv("LOG_LEVEL", "info"),

		MondayAPIURL:       getEnv("MONDAY_API_URL", "https://api.monday.com/v2"),
		MondayAPIKey:       getEnv("MONDAY_API_KEY", ""),
		ContactBoardID:     getEnv("MONDAY_CONTACT_BOARD_ID", ""),
		PhoneColumnID:      getEnv("MONDAY_PHONE_COLUMN_ID", ""),
		Recipients:         recipientsFromEnv(),
		FallbackTargetID:   getEnv("MONDAY_FALLBACK_TARGET_ID", ""),
		FallbackTargetType: getEnv("MONDAY_FALLBACK_TARGET_TYPE", DefaultFallbackTargetType),
	}
}

// recipientsFromEnv reads MONDAY_USER_IDS (comma-separated) and falls back to
// MONDAY_USER_ID. Entries are trimmed, blanks skipped, order preserved, no
// deduplication.
func recipientsFromEnv() []string {
	var recipients []string
	if raw := os.Getenv("MONDAY_USER_IDS"); raw != "" {
		for _, entry := range strings.Split(raw, ",") {
			if candidate := strings.TrimSpace(entry); candidate != "" {
				recipients = append(recipients, candidate)
			}
		}
	}
	if len(recipients) > 0 {
		return recipients
	}
	if single := strings.TrimSpace(os.Getenv("MONDAY_USER_ID")); single != "" {
		return []string{single}
	}
	return nil
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
