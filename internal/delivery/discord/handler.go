package discord

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/bwmarrin/discordgo"
	"go.uber.org/zap"

	"github.com/aliskhannn/reaction-games-bot/internal/service"
)

// CommandPrefix is how Discord commands are written.
const CommandPrefix = "!"

const msgInternalError = "Something went wrong. Please try again later."

// Router executes a chat command; it blocks for the session's lifetime.
type Router interface {
	Handle(ctx context.Context, player service.Player, name, args string) error
}

// Handler connects the Discord gateway to the command router and messenger.
type Handler struct {
	session   *discordgo.Session
	messenger *Messenger
	router    Router
	logger    *zap.Logger

	sessions sync.WaitGroup
}

func NewHandler(session *discordgo.Session, messenger *Messenger, router Router, logger *zap.Logger) *Handler {
	return &Handler{
		session:   session,
		messenger: messenger,
		router:    router,
		logger:    logger,
	}
}

// Run opens the gateway connection and serves events until ctx is done.
func (h *Handler) Run(ctx context.Context) error {
	h.session.Identify.Intents = discordgo.IntentsGuildMessages |
		discordgo.IntentsGuildMessageReactions |
		discordgo.IntentsDirectMessages |
		discordgo.IntentsDirectMessageReactions |
		discordgo.IntentsMessageContent

	removeMessage := h.session.AddHandler(func(s *discordgo.Session, m *discordgo.MessageCreate) {
		h.handleMessage(ctx, s, m)
	})
	removeReaction := h.session.AddHandler(func(s *discordgo.Session, r *discordgo.MessageReactionAdd) {
		h.handleReaction(ctx, s, r)
	})
	defer removeMessage()
	defer removeReaction()

	if err := h.session.Open(); err != nil {
		return fmt.Errorf("open discord session: %w", err)
	}
	h.logger.Info("discord handler started")

	<-ctx.Done()

	h.sessions.Wait()
	if err := h.session.Close(); err != nil {
		h.logger.Warn("failed to close discord session", zap.Error(err))
	}
	h.logger.Info("discord handler stopped")
	return nil
}

func (h *Handler) handleMessage(ctx context.Context, s *discordgo.Session, m *discordgo.MessageCreate) {
	if m.Author == nil || m.Author.Bot || !strings.HasPrefix(m.Content, CommandPrefix) {
		return
	}

	name, args := parseCommand(m.Content)
	if name == "" {
		return
	}

	h.logger.Debug("command received",
		zap.String("channel_id", m.ChannelID),
		zap.String("user_id", m.Author.ID),
		zap.String("command", name),
	)

	player := service.Player{
		ID:        m.Author.ID,
		Name:      displayName(m),
		ChannelID: m.ChannelID,
	}

	h.sessions.Add(1)
	go func() {
		defer h.sessions.Done()
		if err := h.router.Handle(ctx, player, name, args); err != nil && ctx.Err() == nil {
			h.logger.Error("handle error",
				zap.String("channel_id", m.ChannelID),
				zap.Error(err),
			)
			if _, err := s.ChannelMessageSend(m.ChannelID, msgInternalError); err != nil {
				h.logger.Error("failed to send discord message", zap.Error(err))
			}
		}
	}()
}

func (h *Handler) handleReaction(ctx context.Context, s *discordgo.Session, r *discordgo.MessageReactionAdd) {
	if r.MessageReaction == nil {
		return
	}
	if s.State != nil && s.State.User != nil && r.UserID == s.State.User.ID {
		return
	}
	h.messenger.Dispatch(ctx, r.MessageReaction)
}

// parseCommand splits "!quiz some title" into "quiz" and "some title".
func parseCommand(content string) (string, string) {
	body := strings.TrimPrefix(content, CommandPrefix)
	name, args, _ := strings.Cut(strings.TrimSpace(body), " ")
	return strings.ToLower(name), strings.TrimSpace(args)
}

func displayName(m *discordgo.MessageCreate) string {
	if m.Member != nil && m.Member.Nick != "" {
		return m.Member.Nick
	}
	if m.Author.GlobalName != "" {
		return m.Author.GlobalName
	}
	return m.Author.Username
}
