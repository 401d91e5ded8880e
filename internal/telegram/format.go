package telegram

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/digkill/contos-diarios/internal/models"
	"github.com/digkill/contos-diarios/internal/theme"
)

// maxMessageRunes is Telegram's limit on a text message.
const maxMessageRunes = 4096

// splitMessage cuts text into chunks of at most limit runes, preferring
// paragraph and then word boundaries.
func splitMessage(text string, limit int) []string {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}
	var chunks []string
	for utf8.RuneCountInString(text) > limit {
		runes := []rune(text)
		window := string(runes[:limit])
		cut := strings.LastIndex(window, "\n\n")
		if cut <= 0 {
			cut = strings.LastIndex(window, "\n")
		}
		if cut <= 0 {
			cut = strings.LastIndex(window, " ")
		}
		if cut <= 0 {
			cut = len(window)
		}
		chunks = append(chunks, strings.TrimSpace(text[:cut]))
		text = strings.TrimSpace(text[cut:])
	}
	if text != "" {
		chunks = append(chunks, text)
	}
	return chunks
}

func formatStory(story *models.Story) string {
	var b strings.Builder
	b.WriteString(story.Title)
	if story.Day > 0 {
		fmt.Fprintf(&b, "\nDia %d de %d", story.Day, models.ThirtyDayLength)
	}
	b.WriteString("\n\n")
	b.WriteString(story.Content)
	return b.String()
}

func formatThemes() string {
	var b strings.Builder
	b.WriteString("Temas disponíveis:\n")
	for _, th := range theme.All() {
		fmt.Fprintf(&b, "• %s (%s)", th.Label, th.ID)
		if th.Adult {
			b.WriteString(" · Premium, +18")
		}
		b.WriteString("\n")
	}
	b.WriteString("\nUse /conto <tema>, por exemplo /conto drama.")
	return b.String()
}

func formatPlan(plan models.PlanRecord) string {
	var b strings.Builder
	if plan.IsPremium() {
		b.WriteString("Plano: Premium\nContos ilimitados, conteúdo para adultos e modo '30 Dias de Contos'.")
	} else {
		fmt.Fprintf(&b, "Plano: Gratuito\nContos este mês: %d de %d (restam %d).",
			plan.StoriesGeneratedThisMonth, plan.MonthlyLimit(), plan.RemainingStories())
	}
	if state := plan.ThirtyDayMode; state != nil && state.IsActive {
		fmt.Fprintf(&b, "\n\n30 Dias de Contos: dia %d de %d, tema %s.",
			min(state.CurrentDay, models.ThirtyDayLength), models.ThirtyDayLength, state.MainTheme)
	}
	return b.String()
}

func formatListing(stories []models.Story) string {
	if len(stories) == 0 {
		return "Ainda não tem contos. Use /conto <tema> para gerar o primeiro."
	}
	var b strings.Builder
	b.WriteString("Os seus contos mais recentes:\n")
	for i, story := range stories {
		fmt.Fprintf(&b, "%d. %s (%s, %s)\n", i+1, story.Title, story.Theme, story.CreatedAt.Format(models.DateLayout))
	}
	b.WriteString("\nUse /ler <número> para ler um conto.")
	return b.String()
}

// parseStoryArgs reads "<tema> [adulto]".
func parseStoryArgs(args string) (theme.ID, bool, error) {
	fields := strings.Fields(args)
	if len(fields) == 0 {
		return "", false, theme.ErrUnknownTheme
	}
	id, err := theme.Parse(fields[0])
	if err != nil {
		return "", false, err
	}
	adult := false
	for _, f := range fields[1:] {
		switch strings.ToLower(f) {
		case "adulto", "adultos", "+18":
			adult = true
		}
	}
	return id, adult, nil
}
