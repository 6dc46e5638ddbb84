package telegram

import (
	"context"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"mood-bot/internal/dialog"
	"mood-bot/internal/report"
	"mood-bot/internal/storage"
)

const scaleText = "🔴 -3: Очень плохо\n" +
	"🟠 -2: Плохо\n" +
	"🟡 -1: Немного плохо\n" +
	"⚪️ 0: Нейтрально\n" +
	"🟢 +1: Немного хорошо\n" +
	"🔵 +2: Хорошо\n" +
	"🟣 +3: Отлично"

const genericFailure = "❌ Произошла ошибка. Попробуйте позже."

func (b *Bot) handleIncomingMessage(ctx context.Context, msg *tgbotapi.Message) {
	if msg.From == nil {
		return
	}
	log.Printf("Incoming message from %d (@%s): %q", msg.From.ID, msg.From.UserName, msg.Text)

	if msg.IsCommand() {
		switch msg.Command() {
		case "start":
			b.handleStart(ctx, msg)
		case "measure":
			b.handleMeasure(msg)
		case "plot":
			b.handlePlot(ctx, msg)
		case "get_interpretation":
			b.handleInterpretation(ctx, msg)
		case "load_data":
			b.handleLoadData(msg)
		default:
			b.sendMessage(msg.Chat.ID, "Неизвестная команда. Отправьте /start, чтобы узнать, что я умею.")
		}
		return
	}

	switch b.dialogs.Get(msg.From.ID) {
	case dialog.StateAwaitingMeasurement:
		b.processMeasurement(ctx, msg)
	case dialog.StateAwaitingBulkData:
		b.processBulkData(ctx, msg)
	}
}

// handleStart registers the user (a repeat /start is a no-op) and sends
// the capability summary.
func (b *Bot) handleStart(ctx context.Context, msg *tgbotapi.Message) {
	u := storage.User{
		ID:           msg.From.ID,
		IsBot:        msg.From.IsBot,
		FirstName:    msg.From.FirstName,
		LastName:     msg.From.LastName,
		Username:     msg.From.UserName,
		LanguageCode: msg.From.LanguageCode,
	}
	if err := b.store.UpsertUser(ctx, u); err != nil {
		log.Printf("failed to register user %d: %v", u.ID, err)
		b.sendMessage(msg.Chat.ID, genericFailure)
		return
	}

	b.sendMessage(msg.Chat.ID,
		"👋 Привет! Я бот для отслеживания психологического состояния.\n\n"+
			"Каждый день я буду просить вас оценить ваше состояние по шкале от -3 до +3:\n"+
			scaleText+"\n\n"+
			"Доступные команды:\n"+
			"/measure - Внести новое измерение\n"+
			"/plot - Построить график измерений\n"+
			"/get_interpretation - Получить анализ состояния\n"+
			"/load_data - Загрузить исторические данные")
}

func (b *Bot) handleMeasure(msg *tgbotapi.Message) {
	b.dialogs.Set(msg.From.ID, dialog.StateAwaitingMeasurement)
	b.sendMessage(msg.Chat.ID, fmt.Sprintf("Оцените ваше текущее состояние по шкале от %d до +%d:\n%s",
		b.minValue, b.maxValue, scaleText))
}

// processMeasurement consumes the free-text reply to /measure. Recoverable
// input mistakes keep the dialogue open; the state is cleared on success
// and on storage failure.
func (b *Bot) processMeasurement(ctx context.Context, msg *tgbotapi.Message) {
	value, err := strconv.Atoi(strings.TrimSpace(msg.Text))
	if err != nil {
		b.sendMessage(msg.Chat.ID, "❌ Пожалуйста, введите целое число")
		return
	}
	if value < b.minValue || value > b.maxValue {
		b.sendMessage(msg.Chat.ID, fmt.Sprintf("❌ Пожалуйста, введите число от %d до %d", b.minValue, b.maxValue))
		return
	}

	if err := b.store.AddMeasurement(ctx, storage.Measurement{UserID: msg.From.ID, Value: value}); err != nil {
		log.Printf("failed to add measurement for user %d: %v", msg.From.ID, err)
		b.dialogs.Clear(msg.From.ID)
		b.sendMessage(msg.Chat.ID, genericFailure)
		return
	}
	b.dialogs.Clear(msg.From.ID)
	b.sendMessage(msg.Chat.ID, "✅ Спасибо! Ваша оценка сохранена.")
}

func (b *Bot) handlePlot(ctx context.Context, msg *tgbotapi.Message) {
	points, err := b.store.Measurements(ctx, msg.From.ID, 0)
	if err != nil {
		log.Printf("failed to query measurements for user %d: %v", msg.From.ID, err)
		b.sendMessage(msg.Chat.ID, genericFailure)
		return
	}
	if len(points) == 0 {
		b.sendMessage(msg.Chat.ID, "❌ У вас пока нет измерений для построения графика.")
		return
	}

	path, err := renderPlotFile(points)
	if err != nil {
		log.Printf("failed to render plot for user %d: %v", msg.From.ID, err)
		b.sendMessage(msg.Chat.ID, "❌ Не удалось создать график. Попробуйте позже.")
		return
	}
	// The artifact is removed whether or not sending succeeds.
	defer func() {
		if err := os.Remove(path); err != nil {
			log.Printf("failed to remove plot file %s: %v", path, err)
		}
	}()

	data, err := os.ReadFile(path)
	if err != nil {
		log.Printf("failed to read plot file %s: %v", path, err)
		b.sendMessage(msg.Chat.ID, genericFailure)
		return
	}

	doc := tgbotapi.NewDocument(msg.Chat.ID, tgbotapi.FileBytes{
		Name:  "psychological_state.html",
		Bytes: data,
	})
	doc.Caption = "📊 График вашего психологического состояния"
	if _, err := b.s.Send(doc); err != nil {
		log.Printf("failed to send plot document: %v", err)
	}
}

func renderPlotFile(points []storage.Point) (string, error) {
	f, err := os.CreateTemp("", "plot_*.html")
	if err != nil {
		return "", fmt.Errorf("create plot file: %w", err)
	}
	if err := report.RenderChart(f, points, report.PeriodDay); err != nil {
		_ = f.Close()
		_ = os.Remove(f.Name())
		return "", err
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(f.Name())
		return "", err
	}
	return f.Name(), nil
}

// handleInterpretation sends a placeholder while the LLM call is in
// flight, then replaces it with the result or an apology.
func (b *Bot) handleInterpretation(ctx context.Context, msg *tgbotapi.Message) {
	points, err := b.store.Measurements(ctx, msg.From.ID, 0)
	if err != nil {
		log.Printf("failed to query measurements for user %d: %v", msg.From.ID, err)
		b.sendMessage(msg.Chat.ID, genericFailure)
		return
	}
	if len(points) == 0 {
		b.sendMessage(msg.Chat.ID, "❌ У вас пока нет измерений для анализа.")
		return
	}

	placeholder, phErr := b.s.Send(tgbotapi.NewMessage(msg.Chat.ID, "🤔 Анализирую ваши данные..."))
	if phErr != nil {
		log.Printf("failed to send placeholder: %v", phErr)
	}

	// The store returns most-recent-first; the interpreter wants
	// ascending time, like the chart.
	asc := make([]storage.Point, len(points))
	for i, p := range points {
		asc[len(points)-1-i] = p
	}
	text, interpErr := b.interp.Interpret(ctx, asc)

	if phErr == nil {
		if _, err := b.s.Request(tgbotapi.NewDeleteMessage(msg.Chat.ID, placeholder.MessageID)); err != nil {
			log.Printf("failed to delete placeholder: %v", err)
		}
	}

	if interpErr != nil {
		log.Printf("interpretation failed for user %d: %v", msg.From.ID, interpErr)
		b.sendMessage(msg.Chat.ID, "❌ Произошла ошибка при получении интерпретации. Попробуйте позже.")
		return
	}
	b.sendPlainMessage(msg.Chat.ID, "📊 Анализ ваших измерений:\n\n"+text)
}

func (b *Bot) handleLoadData(msg *tgbotapi.Message) {
	b.dialogs.Set(msg.From.ID, dialog.StateAwaitingBulkData)
	b.sendMessage(msg.Chat.ID,
		"Пожалуйста, отправьте ваши исторические данные в формате:\n"+
			"ГГГГ-ММ-ДД, оценка\n\n"+
			"Например:\n"+
			"2024-01-01, 3\n"+
			"2024-01-02, 2\n"+
			"2024-01-01, 3\n"+
			"2024-01-01, 1\n\n"+
			"Примечание:\n"+
			"- Можно указать несколько измерений за один день\n"+
			"- Дата обрабатывается в UTC (12:00 UTC для указанной даты)")
}

// processBulkData runs the importer over the submitted block. The
// dialogue state is cleared no matter how the import went.
func (b *Bot) processBulkData(ctx context.Context, msg *tgbotapi.Message) {
	defer b.dialogs.Clear(msg.From.ID)

	imported, errs := b.importer.ImportBlock(ctx, msg.From.ID, msg.Text)

	lines := []string{fmt.Sprintf("✅ Успешно импортировано измерений: %d", imported)}
	if len(errs) > 0 {
		lines = append(lines, "\n❌ Ошибки:")
		lines = append(lines, errs...)
	}
	b.sendMessage(msg.Chat.ID, strings.Join(lines, "\n"))
}
