package main

import (
	"context"
	"log"

	"github.com/joho/godotenv"

	"mood-bot/internal/config"
	"mood-bot/internal/llm"
	"mood-bot/internal/report"
	"mood-bot/internal/scheduler"
	"mood-bot/internal/storage"
	"mood-bot/internal/telegram"
)

func main() {
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("Warning: .env file not found: %v", err)
	}

	cfg := config.New()
	ctx := context.Background()

	store, err := storage.OpenSQLite(cfg.DBPath)
	if err != nil {
		log.Fatalf("failed to open storage: %v", err)
	}
	defer store.Close()
	if err := store.Init(ctx); err != nil {
		log.Fatalf("failed to init storage schema: %v", err)
	}

	factory := &llm.Factory{
		OpenAIAPIKey:     cfg.OpenAIAPIKey,
		OpenAIBaseURL:    cfg.OpenAIBaseURL,
		YandexOAuthToken: cfg.YandexOAuthToken,
		YandexFolderID:   cfg.YandexFolderID,
	}
	llmClient, err := factory.CreateClient(string(cfg.LLMProvider), cfg.OpenAIModel)
	if err != nil {
		log.Fatalf("failed to create llm client: %v", err)
	}

	bot, err := telegram.New(
		cfg.TelegramBotToken,
		store,
		report.NewInterpreter(llmClient),
		cfg.MinMeasurement,
		cfg.MaxMeasurement,
		cfg.MessageParseMode,
	)
	if err != nil {
		log.Fatalf("failed to create bot: %v", err)
	}

	if cfg.RemindersEnabled {
		sched := scheduler.New()
		sched.SetRemindFunction(bot.RemindAll)
		if err := sched.Start(cfg.ReminderInterval); err != nil {
			log.Fatalf("failed to start reminder scheduler: %v", err)
		}
		defer sched.Stop()
	}

	bot.Start(ctx)
}
