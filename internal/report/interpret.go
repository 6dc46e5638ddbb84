package report

import (
	"context"
	"fmt"
	"strings"

	"mood-bot/internal/llm"
	"mood-bot/internal/storage"
)

const interpreterPersona = "Ты - эмпатичный психолог-аналитик, который анализирует данные о психологическом состоянии человека."

// Interpreter asks an LLM for a natural-language reading of a measurement
// series. It never raises provider errors past its caller unhandled: the
// bot handler maps them to a user-visible message.
type Interpreter struct {
	client llm.Client
}

func NewInterpreter(client llm.Client) *Interpreter {
	return &Interpreter{client: client}
}

// Interpret returns an analysis of the points. An empty series degrades
// to an explanatory message without calling the provider.
func (i *Interpreter) Interpret(ctx context.Context, points []storage.Point) (string, error) {
	if len(points) == 0 {
		return "Недостаточно данных для анализа.", nil
	}

	resp, err := i.client.Generate(ctx, []llm.Message{
		{Role: "system", Content: interpreterPersona},
		{Role: "user", Content: buildPrompt(points)},
	})
	if err != nil {
		return "", fmt.Errorf("interpretation request failed: %w", err)
	}
	return resp.Content, nil
}

func buildPrompt(points []storage.Point) string {
	var b strings.Builder
	b.WriteString("Проанализируй следующие измерения психологического состояния человека " +
		"и дай рекомендации по улучшению состояния. " +
		"Измерения представлены в формате (дата, значение), " +
		"где значение от -3 (очень плохо) до +3 (отлично):\n\n")
	for _, p := range points {
		fmt.Fprintf(&b, "%s: %d\n", p.Timestamp.Format("2006-01-02 15:04"), p.Value)
	}
	b.WriteString("\nПожалуйста, проанализируй:\n1. Общую динамику состояния\n2. Возможные паттерны\n3. Дай рекомендации")
	return b.String()
}
