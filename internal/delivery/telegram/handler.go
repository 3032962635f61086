package telegram

import (
	"context"
	"strconv"
	"sync"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/aliskhannn/reaction-games-bot/internal/service"
)

// CommandPrefix is how Telegram commands are written.
const CommandPrefix = "/"

// Router executes a chat command; it blocks for the session's lifetime.
type Router interface {
	Handle(ctx context.Context, player service.Player, name, args string) error
}

type Handler struct {
	bot       *tgbotapi.BotAPI
	messenger *Messenger
	router    Router
	logger    *zap.Logger

	sessions sync.WaitGroup
}

func NewHandler(bot *tgbotapi.BotAPI, messenger *Messenger, router Router, logger *zap.Logger) *Handler {
	return &Handler{
		bot:       bot,
		messenger: messenger,
		router:    router,
		logger:    logger,
	}
}

// Run polls updates until ctx is done, then waits for running sessions.
func (h *Handler) Run(ctx context.Context) error {
	h.logger.Info("telegram handler started")
	defer h.logger.Info("telegram handler stopped")

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := h.bot.GetUpdatesChan(u)
	defer h.sessions.Wait()
	defer h.bot.StopReceivingUpdates()

	for {
		select {
		case <-ctx.Done():
			return nil
		case update := <-updates:
			h.handleUpdate(ctx, update)
		}
	}
}

func (h *Handler) handleUpdate(ctx context.Context, update tgbotapi.Update) {
	if update.CallbackQuery != nil {
		h.logger.Debug("callback received",
			zap.Int64("user_id", update.CallbackQuery.From.ID),
			zap.String("data", update.CallbackQuery.Data),
		)
		h.messenger.Dispatch(update.CallbackQuery)
		return
	}

	if update.Message == nil || update.Message.From == nil {
		h.logger.Debug("update without message and callback")
		return
	}

	h.logger.Debug("update received",
		zap.Int64("chat_id", update.Message.Chat.ID),
		zap.String("text", update.Message.Text),
	)

	if !update.Message.IsCommand() {
		return
	}

	chatID := update.Message.Chat.ID
	if update.Message.Command() == "start" {
		h.send(newMessage(chatID, md(msgWelcome)))
		return
	}

	from := update.Message.From
	player := service.Player{
		ID:        strconv.FormatInt(from.ID, 10),
		Name:      displayName(from),
		ChannelID: strconv.FormatInt(chatID, 10),
	}
	name, args := update.Message.Command(), update.Message.CommandArguments()

	run := h.withErrorHandling(h.router.Handle)

	h.sessions.Add(1)
	go func() {
		defer h.sessions.Done()
		_ = run(ctx, player, name, args)
	}()
}

func displayName(u *tgbotapi.User) string {
	if u.FirstName != "" {
		return u.FirstName
	}
	if u.UserName != "" {
		return u.UserName
	}
	return strconv.FormatInt(u.ID, 10)
}

func (h *Handler) send(c tgbotapi.Chattable) {
	if _, err := h.bot.Send(c); err != nil {
		h.logger.Error("failed to send telegram message",
			zap.Error(err),
		)
	}
}
