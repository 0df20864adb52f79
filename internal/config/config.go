package config

import (
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// Config carries everything the core needs injected: identifiers for the
// GCP project, the Telegram credentials (either inline or as Secret Manager
// resource names), and the catalogs that were module-level constants in
// earlier incarnations of this bot.
type Config struct {
	ProjectID string
	Region    string
	LogLevel  string
	Port      string

	// BotToken/WebhookSecret are used directly when set; otherwise the
	// *SecretName fields are resolved through Secret Manager at bootstrap.
	BotToken                string
	BotTokenSecretName      string
	WebhookSecret           string
	WebhookSecretSecretName string

	// WebhookURL, when set, is registered with Telegram at startup.
	WebhookURL string

	// BotMention is the @username entry messages must lead with in group
	// chats, e.g. "@SplitTallyBot". Empty means ask Telegram for the bot's
	// own username.
	BotMention string

	DefaultCurrency string
	DefaultTimezone string

	Currencies        []string
	Timezones         []string
	DefaultCategories []string
}

func New() *Config {
	// A missing .env is fine; Cloud Run supplies real env vars.
	_ = godotenv.Load()

	return &Config{
		ProjectID: os.Getenv("PROJECTID"),
		Region:    os.Getenv("REGION"),
		LogLevel:  os.Getenv("LOGLEVEL"),
		Port:      getEnv("PORT", "8080"),

		BotToken:                os.Getenv("TELEGRAMTOKEN"),
		BotTokenSecretName:      os.Getenv("TELEGRAMTOKENSECRET"),
		WebhookSecret:           os.Getenv("WEBHOOKSECRET"),
		WebhookSecretSecretName: os.Getenv("WEBHOOKSECRETSECRET"),

		WebhookURL: os.Getenv("WEBHOOKURL"),
		BotMention: os.Getenv("BOTMENTION"),

		DefaultCurrency: getEnv("DEFAULTCURRENCY", "USD"),
		DefaultTimezone: getEnv("DEFAULTTIMEZONE", "UTC"),

		Currencies:        getListEnv("CURRENCIES", defaultCurrencies),
		Timezones:         getListEnv("TIMEZONES", defaultTimezones),
		DefaultCategories: getListEnv("CATEGORIES", defaultCategories),
	}
}

var defaultCurrencies = []string{
	"USD", "EUR", "GBP", "CHF", "SGD", "INR", "JPY", "RUB",
}

var defaultTimezones = []string{
	"UTC",
	"Europe/London",
	"Europe/Berlin",
	"Asia/Singapore",
	"Asia/Kolkata",
	"America/New_York",
}

var defaultCategories = []string{
	"🏠 Housing and utilities",
	"🛒 Groceries",
	"🍔 Outside food",
	"👖 Clothes and 👟 shoes",
	"🪥 Household",
	"🚌 Commuting",
	"🍿 Entertainment",
}

func getEnv(key, defaultVal string) string {
	if value, exists := os.LookupEnv(key); exists && value != "" {
		return value
	}
	return defaultVal
}

func getListEnv(key string, defaultVal []string) []string {
	raw, exists := os.LookupEnv(key)
	if !exists || raw == "" {
		return defaultVal
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return defaultVal
	}
	return out
}
