package telegram

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/digkill/contos-diarios/internal/models"
	"github.com/digkill/contos-diarios/internal/service"
	"github.com/digkill/contos-diarios/internal/theme"
)

const (
	listingSize        = 10
	callbackStory      = "conto:"
	callbackThirtyDays = "30dias:"
)

// Sender is the part of the Bot API used to deliver messages.
type Sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

type Bot struct {
	api        *tgbotapi.BotAPI
	sender     Sender
	log        *slog.Logger
	plans      *service.PlanService
	generation *service.GenerationService
	thirtyDay  *service.ThirtyDayService
	state      *StateManager
	interval   time.Duration
}

func NewBot(api *tgbotapi.BotAPI, log *slog.Logger, plans *service.PlanService, generation *service.GenerationService, thirtyDay *service.ThirtyDayService, interval time.Duration) *Bot {
	b := newBot(api, log, plans, generation, thirtyDay, interval)
	b.api = api
	return b
}

func newBot(sender Sender, log *slog.Logger, plans *service.PlanService, generation *service.GenerationService, thirtyDay *service.ThirtyDayService, interval time.Duration) *Bot {
	if interval <= 0 {
		interval = time.Hour
	}
	return &Bot{
		sender:     sender,
		log:        log,
		plans:      plans,
		generation: generation,
		thirtyDay:  thirtyDay,
		state:      NewStateManager(),
		interval:   interval,
	}
}

// Run polls for updates and drives the daily schedule until ctx is done.
func (b *Bot) Run(ctx context.Context) error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := b.api.GetUpdatesChan(u)
	b.log.Info("telegram bot started", "tick_interval", b.interval)

	go b.runDaily(ctx)

	for {
		select {
		case update := <-updates:
			if update.Message != nil {
				go b.handleMessage(ctx, update.Message)
			} else if update.CallbackQuery != nil {
				go b.handleCallback(ctx, update.CallbackQuery)
			}
		case <-ctx.Done():
			b.api.StopReceivingUpdates()
			return ctx.Err()
		}
	}
}

func (b *Bot) runDaily(ctx context.Context) {
	ticker := time.NewTicker(b.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			b.tickAll(ctx)
		case <-ctx.Done():
			return
		}
	}
}

// tickAll consults the schedule of every registered chat.
func (b *Bot) tickAll(ctx context.Context) {
	for _, session := range b.state.Snapshot() {
		if ctx.Err() != nil {
			return
		}
		b.tick(ctx, session.ChatID, session.UserID, false)
	}
}

// tick runs one scheduler step. Quiet ticks only report deliveries.
func (b *Bot) tick(ctx context.Context, chatID int64, userID string, verbose bool) {
	res, err := b.thirtyDay.Tick(ctx, userID)
	if err != nil {
		b.log.Error("daily tick failed", "user", userID, "err", err)
		if verbose {
			b.sendText(chatID, service.UserMessage(err))
		}
		return
	}
	switch res.Outcome {
	case service.TickGenerated:
		b.sendText(chatID, service.MsgDailyStoryReady)
		b.sendStory(chatID, res.Story)
	case service.TickCompleted:
		b.sendText(chatID, service.MsgThirtyDayCompleted)
	case service.TickAlreadyGenerated:
		if verbose {
			b.sendText(chatID, "O conto de hoje já foi entregue. Volte amanhã para o próximo.")
		}
	case service.TickInactive:
		if verbose {
			b.sendText(chatID, "O modo '30 Dias de Contos' não está ativo. Use /30dias <tema> para começar.")
		}
	}
}

func (b *Bot) handleMessage(ctx context.Context, msg *tgbotapi.Message) {
	userID := userIDFor(msg.From, msg.Chat.ID)
	b.state.Touch(msg.Chat.ID, userID)

	if !msg.IsCommand() {
		b.sendText(msg.Chat.ID, "Use /temas para ver os temas ou /conto <tema> para gerar um conto.")
		return
	}
	b.handleCommand(ctx, msg, userID)
}

func (b *Bot) handleCommand(ctx context.Context, msg *tgbotapi.Message, userID string) {
	chatID := msg.Chat.ID
	args := msg.CommandArguments()

	switch msg.Command() {
	case "start":
		name := "leitor"
		if msg.From != nil && msg.From.FirstName != "" {
			name = msg.From.FirstName
		}
		b.sendText(chatID, fmt.Sprintf(
			"Olá, %s!\n\nBem-vindo aos Contos Diários: contos originais em Português de Portugal.\n\nComandos:\n/temas · ver os temas\n/conto <tema> · gerar um conto\n/contos · os seus contos\n/ler <número> · ler um conto\n/plano · o seu plano\n/premium · mudar para Premium\n/gratis · voltar ao plano gratuito\n/30dias <tema> · iniciar 30 Dias de Contos\n/hoje · conto do dia\n/parar · parar os 30 Dias",
			name,
		))
	case "temas":
		b.sendThemes(chatID)
	case "conto":
		themeID, adult, err := parseStoryArgs(args)
		if err != nil {
			b.sendText(chatID, service.MsgUnknownTheme+"\n\n"+formatThemes())
			return
		}
		b.generate(ctx, chatID, userID, themeID, adult)
	case "plano":
		plan, err := b.plans.Load(ctx, userID)
		if err != nil {
			b.internalError(chatID, err)
			return
		}
		b.sendText(chatID, formatPlan(plan))
	case "premium":
		plan, err := b.plans.UpgradeToPremium(ctx, userID)
		if err != nil {
			b.internalError(chatID, err)
			return
		}
		b.sendText(chatID, "Bem-vindo ao Premium!\n\n"+formatPlan(plan))
	case "gratis":
		plan, err := b.plans.DowngradeToFree(ctx, userID)
		if err != nil {
			b.internalError(chatID, err)
			return
		}
		b.sendText(chatID, formatPlan(plan))
	case "contos":
		b.sendListing(ctx, chatID, userID)
	case "ler":
		b.handleRead(ctx, chatID, userID, args)
	case "30dias":
		themeID, err := theme.Parse(args)
		if err != nil {
			b.sendText(chatID, service.MsgUnknownTheme+"\n\n"+formatThemes())
			return
		}
		b.startThirtyDays(ctx, chatID, userID, themeID)
	case "parar":
		if err := b.thirtyDay.Stop(ctx, userID); err != nil {
			b.internalError(chatID, err)
			return
		}
		b.sendText(chatID, service.MsgThirtyDayStopped)
	case "hoje":
		b.tick(ctx, chatID, userID, true)
	default:
		b.sendText(chatID, "Comando desconhecido. Use /start para ver os comandos.")
	}
}

func (b *Bot) handleCallback(ctx context.Context, cb *tgbotapi.CallbackQuery) {
	if cb.Message == nil {
		return
	}
	chatID := cb.Message.Chat.ID
	userID := userIDFor(cb.From, chatID)
	b.state.Touch(chatID, userID)

	if _, err := b.sender.Send(tgbotapi.NewCallback(cb.ID, "")); err != nil {
		b.log.Debug("answer callback", "err", err)
	}

	switch {
	case strings.HasPrefix(cb.Data, callbackStory):
		themeID, err := theme.Parse(strings.TrimPrefix(cb.Data, callbackStory))
		if err != nil {
			b.sendText(chatID, service.MsgUnknownTheme)
			return
		}
		b.generate(ctx, chatID, userID, themeID, false)
	case strings.HasPrefix(cb.Data, callbackThirtyDays):
		themeID, err := theme.Parse(strings.TrimPrefix(cb.Data, callbackThirtyDays))
		if err != nil {
			b.sendText(chatID, service.MsgUnknownTheme)
			return
		}
		b.startThirtyDays(ctx, chatID, userID, themeID)
	}
}

func (b *Bot) generate(ctx context.Context, chatID int64, userID string, themeID theme.ID, adult bool) {
	b.sendText(chatID, fmt.Sprintf("A escrever um conto de %s…", themeID.Theme().Label))
	story, err := b.generation.Generate(ctx, userID, themeID, adult)
	if err != nil {
		b.reportError(chatID, userID, err)
		return
	}
	b.sendText(chatID, service.MsgStoryGenerated)
	b.sendStory(chatID, story)
}

func (b *Bot) startThirtyDays(ctx context.Context, chatID int64, userID string, themeID theme.ID) {
	state, err := b.thirtyDay.Start(ctx, userID, themeID)
	if err != nil {
		b.reportError(chatID, userID, err)
		return
	}
	b.sendText(chatID, fmt.Sprintf("30 Dias de Contos iniciado com o tema %s. Receberá um conto por dia.", themeID.Theme().Label))
	b.log.Info("thirty-day run started from chat", "user", userID, "start", state.StartDate)
	b.tick(ctx, chatID, userID, false)
}

func (b *Bot) handleRead(ctx context.Context, chatID int64, userID, args string) {
	n, err := strconv.Atoi(strings.TrimSpace(args))
	if err != nil || n < 1 {
		b.sendText(chatID, "Indique o número do conto, por exemplo /ler 1.")
		return
	}
	session, _ := b.state.Get(chatID)
	var story *models.Story
	if n <= len(session.Listing) {
		story, err = b.generation.Story(ctx, userID, session.Listing[n-1])
	} else {
		var stories []models.Story
		stories, err = b.generation.Stories(ctx, userID)
		if err == nil && n <= len(stories) {
			story = &stories[n-1]
		}
	}
	if err != nil {
		b.internalError(chatID, err)
		return
	}
	if story == nil {
		b.sendText(chatID, "Conto não encontrado. Use /contos para ver a lista.")
		return
	}
	b.sendStory(chatID, story)
}

func (b *Bot) sendListing(ctx context.Context, chatID int64, userID string) {
	stories, err := b.generation.Stories(ctx, userID)
	if err != nil {
		b.internalError(chatID, err)
		return
	}
	if len(stories) > listingSize {
		stories = stories[:listingSize]
	}
	ids := make([]string, 0, len(stories))
	for _, story := range stories {
		ids = append(ids, story.ID)
	}
	b.state.SetListing(chatID, ids)
	b.sendText(chatID, formatListing(stories))
}

func (b *Bot) sendThemes(chatID int64) {
	rows := make([][]tgbotapi.InlineKeyboardButton, 0)
	for _, th := range theme.General() {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(th.Label, callbackStory+th.ID.String()),
			tgbotapi.NewInlineKeyboardButtonData("30 dias", callbackThirtyDays+th.ID.String()),
		))
	}
	msg := tgbotapi.NewMessage(chatID, formatThemes())
	msg.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(rows...)
	if _, err := b.sender.Send(msg); err != nil {
		b.log.Error("send themes", "err", err)
	}
}

func (b *Bot) sendStory(chatID int64, story *models.Story) {
	if story == nil {
		return
	}
	for _, chunk := range splitMessage(formatStory(story), maxMessageRunes) {
		b.sendText(chatID, chunk)
	}
}

func (b *Bot) reportError(chatID int64, userID string, err error) {
	if service.IsDenied(err) {
		b.sendText(chatID, service.UserMessage(err)+"\n\nUse /premium para fazer upgrade.")
		return
	}
	if !errors.Is(err, service.ErrGenerationFailed) && !errors.Is(err, service.ErrGenerationInProgress) && !errors.Is(err, theme.ErrUnknownTheme) {
		b.log.Error("bot request failed", "user", userID, "err", err)
	}
	b.sendText(chatID, service.UserMessage(err))
}

func (b *Bot) internalError(chatID int64, err error) {
	b.log.Error("bot handler error", "err", err)
	b.sendText(chatID, "Ocorreu um erro. Tente novamente.")
}

func (b *Bot) sendText(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	if _, err := b.sender.Send(msg); err != nil {
		b.log.Error("send message", "chat_id", chatID, "err", err)
	}
}

func userIDFor(from *tgbotapi.User, chatID int64) string {
	if from != nil {
		return fmt.Sprintf("tg-%d", from.ID)
	}
	return fmt.Sprintf("tg-%d", chatID)
}
