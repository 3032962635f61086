package telegram

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/aliskhannn/reaction-games-bot/internal/domain/entities"
	"github.com/aliskhannn/reaction-games-bot/internal/service"
)

// CommandFunc runs one chat command for a player.
type CommandFunc func(ctx context.Context, player service.Player, name, args string) error

// withErrorHandling reports a failed or panicking command to the log and to
// the player's chat. Failures caused by shutdown are not reported.
func (h *Handler) withErrorHandling(fn CommandFunc) CommandFunc {
	return func(ctx context.Context, player service.Player, name, args string) error {
		err := runCommand(ctx, fn, player, name, args)
		if err == nil || ctx.Err() != nil {
			return nil
		}

		h.logger.Error("command failed",
			zap.String("chat_id", player.ChannelID),
			zap.String("user_id", player.ID),
			zap.String("command", name),
			zap.Error(err),
		)
		h.sendError(ctx, player.ChannelID, msgInternalError)
		return nil
	}
}

func runCommand(ctx context.Context, fn CommandFunc, player service.Player, name, args string) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("command %q panicked: %v", name, r)
		}
	}()
	return fn(ctx, player, name, args)
}

func (h *Handler) sendError(ctx context.Context, chatID, text string) {
	if _, err := h.messenger.Send(ctx, chatID, service.View{Text: text, Colour: entities.DefaultColour}); err != nil {
		h.logger.Error("failed to send error message", zap.Error(err))
	}
}
