package discord

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/bwmarrin/discordgo"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/aliskhannn/reaction-games-bot/internal/service"
)

// Session is the part of *discordgo.Session the messenger needs.
type Session interface {
	ChannelMessageSendComplex(channelID string, data *discordgo.MessageSend, options ...discordgo.RequestOption) (*discordgo.Message, error)
	ChannelMessageEditComplex(m *discordgo.MessageEdit, options ...discordgo.RequestOption) (*discordgo.Message, error)
	MessageReactionAdd(channelID, messageID, emojiID string, options ...discordgo.RequestOption) error
	MessageReactionRemove(channelID, messageID, emojiID, userID string, options ...discordgo.RequestOption) error
	MessageReactionsRemoveAll(channelID, messageID string, options ...discordgo.RequestOption) error
}

// SignalBoard routes reactions to the sessions waiting on them.
type SignalBoard interface {
	Publish(sig service.Signal) service.Delivery
	Await(ctx context.Context, ref service.MessageRef, accept func(service.Signal) bool, timeout time.Duration) (service.Signal, error)
}

// Messenger drives sessions through Discord embeds and emoji reactions.
type Messenger struct {
	session Session
	board   SignalBoard
	limiter *rate.Limiter
	logger  *zap.Logger

	mu       sync.Mutex
	controls map[service.MessageRef][]service.Symbol // reactions currently offered
}

// NewMessenger creates a Messenger. A nil limiter disables throttling.
func NewMessenger(session Session, board SignalBoard, limiter *rate.Limiter, logger *zap.Logger) *Messenger {
	return &Messenger{
		session:  session,
		board:    board,
		limiter:  limiter,
		logger:   logger,
		controls: make(map[service.MessageRef][]service.Symbol),
	}
}

// Send posts a new message and adds the view's controls as reactions.
func (m *Messenger) Send(ctx context.Context, channelID string, view service.View) (service.MessageRef, error) {
	if err := m.wait(ctx); err != nil {
		return service.MessageRef{}, err
	}

	msg, err := m.session.ChannelMessageSendComplex(channelID, &discordgo.MessageSend{
		Content: view.Header,
		Embeds:  embeds(view),
	}, discordgo.WithContext(ctx))
	if err != nil {
		return service.MessageRef{}, fmt.Errorf("send discord message: %w", err)
	}

	ref := service.MessageRef{ChannelID: channelID, MessageID: msg.ID}
	if err := m.setControls(ctx, ref, view.Controls); err != nil {
		return service.MessageRef{}, err
	}
	return ref, nil
}

// Edit replaces the message content and reconciles its reactions.
func (m *Messenger) Edit(ctx context.Context, ref service.MessageRef, view service.View) error {
	if err := m.wait(ctx); err != nil {
		return err
	}

	edit := discordgo.NewMessageEdit(ref.ChannelID, ref.MessageID).
		SetContent(view.Header).
		SetEmbeds(embeds(view))
	if _, err := m.session.ChannelMessageEditComplex(edit, discordgo.WithContext(ctx)); err != nil {
		return fmt.Errorf("edit discord message: %w", err)
	}

	return m.setControls(ctx, ref, view.Controls)
}

// Await waits for a reaction on ref.
func (m *Messenger) Await(
	ctx context.Context, ref service.MessageRef, accept func(service.Signal) bool, timeout time.Duration,
) (service.Signal, error) {
	return m.board.Await(ctx, ref, accept, timeout)
}

// Dispatch turns a reaction into a signal. Accepted reactions are removed
// again so the player can pick the same option twice in a row. Reactions on a
// session message that arrive while no answer is awaited are removed too, so
// the player can simply react again. Rejected reactions stay untouched.
func (m *Messenger) Dispatch(ctx context.Context, r *discordgo.MessageReaction) {
	sym, ok := symbolFor(r.Emoji.Name)
	if !ok {
		m.logger.Debug("ignoring reaction", zap.String("emoji", r.Emoji.Name))
		return
	}

	sig := service.Signal{
		UserID:  r.UserID,
		Message: service.MessageRef{ChannelID: r.ChannelID, MessageID: r.MessageID},
		Symbol:  sym,
	}

	switch m.board.Publish(sig) {
	case service.DeliveryAccepted:
	case service.DeliveryUnclaimed:
		if !m.hasControls(sig.Message) {
			return
		}
		m.logger.Debug("reaction arrived between waits",
			zap.String("message_id", r.MessageID),
			zap.String("user_id", r.UserID),
		)
	default:
		return
	}

	err := m.session.MessageReactionRemove(r.ChannelID, r.MessageID, r.Emoji.Name, r.UserID, discordgo.WithContext(ctx))
	if err != nil {
		m.logger.Debug("failed to remove reaction", zap.Error(err))
	}
}

func (m *Messenger) hasControls(ref service.MessageRef) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.controls[ref]
	return ok
}

// setControls makes the reactions on ref match controls. Unchanged controls
// are left alone; an empty set clears every reaction.
func (m *Messenger) setControls(ctx context.Context, ref service.MessageRef, controls []service.Symbol) error {
	m.mu.Lock()
	current := m.controls[ref]
	if slices.Equal(current, controls) {
		m.mu.Unlock()
		return nil
	}
	if len(controls) == 0 {
		delete(m.controls, ref)
	} else {
		m.controls[ref] = slices.Clone(controls)
	}
	m.mu.Unlock()

	if len(current) > 0 {
		if err := m.session.MessageReactionsRemoveAll(ref.ChannelID, ref.MessageID, discordgo.WithContext(ctx)); err != nil {
			return fmt.Errorf("clear reactions: %w", err)
		}
	}

	for _, sym := range controls {
		e, ok := emojiFor(sym)
		if !ok {
			continue
		}
		if err := m.session.MessageReactionAdd(ref.ChannelID, ref.MessageID, e, discordgo.WithContext(ctx)); err != nil {
			return fmt.Errorf("add reaction %s: %w", sym, err)
		}
	}
	return nil
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
