package config

import (
	"log"

	"github.com/caarlos0/env/v6"
)

type LLMProvider string

const (
	ProviderOpenAI LLMProvider = "openai"
	ProviderYandex LLMProvider = "yandex"
)

type Config struct {
	TelegramBotToken string `env:"TELEGRAM_BOT_TOKEN,required"`

	// LLM settings
	LLMProvider      LLMProvider `env:"LLM_PROVIDER" envDefault:"openai"`
	OpenAIAPIKey     string      `env:"OPENAI_API_KEY"`
	OpenAIBaseURL    string      `env:"OPENAI_BASE_URL"`
	OpenAIModel      string      `env:"OPENAI_MODEL" envDefault:"gpt-4-turbo-preview"`
	YandexOAuthToken string      `env:"YANDEX_OAUTH_TOKEN"`
	YandexFolderID   string      `env:"YANDEX_FOLDER_ID"`

	// Storage
	DBPath string `env:"DB_PATH" envDefault:"psycho_bot.db"`

	// Measurement scale bounds (inclusive)
	MinMeasurement int `env:"MIN_MEASUREMENT" envDefault:"-3"`
	MaxMeasurement int `env:"MAX_MEASUREMENT" envDefault:"3"`

	// Reminders
	RemindersEnabled bool `env:"REMINDERS_ENABLED" envDefault:"false"`
	ReminderInterval int  `env:"REMINDER_INTERVAL" envDefault:"24"` // hours

	// Formatting
	MessageParseMode string `env:"MESSAGE_PARSE_MODE" envDefault:"HTML"`
}

func New() *Config {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		log.Fatalf("failed to parse config: %v", err)
	}
	return cfg
}
