package telegram

import (
	"context"
	"log"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"mood-bot/internal/dialog"
	"mood-bot/internal/importer"
	"mood-bot/internal/report"
	"mood-bot/internal/storage"
)

type Bot struct {
	api       *tgbotapi.BotAPI
	s         sender
	store     storage.Store
	importer  *importer.Importer
	interp    *report.Interpreter
	dialogs   *dialog.Manager
	parseMode string
	minValue  int
	maxValue  int
}

func New(botToken string, store storage.Store, interp *report.Interpreter, minValue, maxValue int, parseMode string) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(botToken)
	if err != nil {
		return nil, err
	}
	return &Bot{
		api:       api,
		s:         botAPISender{api: api},
		store:     store,
		importer:  importer.New(store, minValue, maxValue),
		interp:    interp,
		dialogs:   dialog.NewManager(),
		parseMode: parseMode,
		minValue:  minValue,
		maxValue:  maxValue,
	}, nil
}

func (b *Bot) Start(ctx context.Context) {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := b.api.GetUpdatesChan(u)

	for update := range updates {
		if update.Message != nil {
			b.handleIncomingMessage(ctx, update.Message)
		}
	}
}

// RemindAll invites every registered user to record a measurement.
func (b *Bot) RemindAll(ctx context.Context) error {
	ids, err := b.store.UserIDs(ctx)
	if err != nil {
		return err
	}
	for _, id := range ids {
		b.sendMessage(id, "🔔 Время оценить ваше состояние! Отправьте /measure, чтобы внести измерение.")
	}
	return nil
}

func (b *Bot) sendMessage(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	if b.parseMode != "" {
		msg.ParseMode = b.parseMode
	}
	if _, err := b.s.Send(msg); err != nil {
		log.Printf("failed to send message: %v", err)
	}
}

// sendPlainMessage sends without a parse mode. LLM output goes through
// here: stray markup characters in model text would otherwise make the
// API reject the send.
func (b *Bot) sendPlainMessage(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	if _, err := b.s.Send(msg); err != nil {
		log.Printf("failed to send message: %v", err)
	}
}
