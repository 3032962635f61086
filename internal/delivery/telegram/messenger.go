package telegram

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/aliskhannn/reaction-games-bot/internal/service"
)

// BotAPI is the part of *tgbotapi.BotAPI the messenger needs.
type BotAPI interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
}

// SignalBoard routes button presses to the sessions waiting on them.
type SignalBoard interface {
	Publish(sig service.Signal) service.Delivery
	Await(ctx context.Context, ref service.MessageRef, accept func(service.Signal) bool, timeout time.Duration) (service.Signal, error)
}

// Messenger drives sessions through Telegram messages with inline keyboards.
type Messenger struct {
	bot     BotAPI
	board   SignalBoard
	limiter *rate.Limiter
	logger  *zap.Logger
}

// NewMessenger creates a Messenger. A nil limiter disables throttling.
func NewMessenger(bot BotAPI, board SignalBoard, limiter *rate.Limiter, logger *zap.Logger) *Messenger {
	return &Messenger{
		bot:     bot,
		board:   board,
		limiter: limiter,
		logger:  logger,
	}
}

// Send posts a new message rendered from view.
func (m *Messenger) Send(ctx context.Context, channelID string, view service.View) (service.MessageRef, error) {
	chatID, err := strconv.ParseInt(channelID, 10, 64)
	if err != nil {
		return service.MessageRef{}, fmt.Errorf("invalid chat id %q: %w", channelID, err)
	}
	if err := m.wait(ctx); err != nil {
		return service.MessageRef{}, err
	}

	msg := newMessage(chatID, renderView(view))
	if kb := buildControlsKeyboard(view.Controls); kb != nil {
		msg.ReplyMarkup = kb
	}

	sent, err := m.bot.Send(msg)
	if err != nil {
		return service.MessageRef{}, fmt.Errorf("send telegram message: %w", err)
	}

	return service.MessageRef{ChannelID: channelID, MessageID: strconv.Itoa(sent.MessageID)}, nil
}

// Edit replaces the text and keyboard of a message.
func (m *Messenger) Edit(ctx context.Context, ref service.MessageRef, view service.View) error {
	chatID, err := strconv.ParseInt(ref.ChannelID, 10, 64)
	if err != nil {
		return fmt.Errorf("invalid chat id %q: %w", ref.ChannelID, err)
	}
	messageID, err := strconv.Atoi(ref.MessageID)
	if err != nil {
		return fmt.Errorf("invalid message id %q: %w", ref.MessageID, err)
	}
	if err := m.wait(ctx); err != nil {
		return err
	}

	edit := tgbotapi.NewEditMessageText(chatID, messageID, renderView(view))
	edit.ParseMode = tgbotapi.ModeMarkdownV2
	edit.ReplyMarkup = buildControlsKeyboard(view.Controls)

	if _, err := m.bot.Request(edit); err != nil && !notModified(err) {
		return fmt.Errorf("edit telegram message: %w", err)
	}
	return nil
}

// Await waits for a button press on ref.
func (m *Messenger) Await(
	ctx context.Context, ref service.MessageRef, accept func(service.Signal) bool, timeout time.Duration,
) (service.Signal, error) {
	return m.board.Await(ctx, ref, accept, timeout)
}

// Dispatch turns a callback query into a signal and acknowledges it.
func (m *Messenger) Dispatch(cb *tgbotapi.CallbackQuery) {
	defer m.answer(cb.ID)

	sym, ok := signalSymbol(decodeCallback(cb.Data))
	if !ok || cb.Message == nil || cb.From == nil {
		m.logger.Debug("ignoring callback", zap.String("data", cb.Data))
		return
	}

	sig := service.Signal{
		UserID: strconv.FormatInt(cb.From.ID, 10),
		Message: service.MessageRef{
			ChannelID: strconv.FormatInt(cb.Message.Chat.ID, 10),
			MessageID: strconv.Itoa(cb.Message.MessageID),
		},
		Symbol: sym,
	}
	if d := m.board.Publish(sig); d != service.DeliveryAccepted {
		m.logger.Debug("signal not delivered",
			zap.Int("delivery", int(d)),
			zap.String("chat_id", sig.Message.ChannelID),
			zap.String("message_id", sig.Message.MessageID),
		)
	}
}

// answer removes the loading indicator from the pressed button.
func (m *Messenger) answer(callbackID string) {
	if _, err := m.bot.Request(tgbotapi.NewCallback(callbackID, "")); err != nil {
		m.logger.Warn("callback answer error", zap.Error(err))
	}
}

func (m *Messenger) wait(ctx context.Context) error {
	if m.limiter == nil {
		return nil
	}
	if err := m.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limit: %w", err)
	}
	return nil
}

// notModified reports Telegram's rejection of an edit that changes nothing.
func notModified(err error) bool {
	var apiErr *tgbotapi.Error
	return errors.As(err, &apiErr) && strings.Contains(apiErr.Message, "message is not modified")
}
