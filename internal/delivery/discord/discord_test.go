package discord

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/aliskhannn/reaction-games-bot/internal/domain/entities"
	"github.com/aliskhannn/reaction-games-bot/internal/service"
)

type fakeSession struct {
	mu        sync.Mutex
	sent      []*discordgo.MessageSend
	edits     []*discordgo.MessageEdit
	added     []string
	removed   []string
	clears    int
	sendErr   error
	addErr    error
	nextMsgID string
}

func (f *fakeSession) ChannelMessageSendComplex(_ string, data *discordgo.MessageSend, _ ...discordgo.RequestOption) (*discordgo.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.sendErr != nil {
		return nil, f.sendErr
	}
	f.sent = append(f.sent, data)
	return &discordgo.Message{ID: f.nextMsgID}, nil
}

func (f *fakeSession) ChannelMessageEditComplex(m *discordgo.MessageEdit, _ ...discordgo.RequestOption) (*discordgo.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.edits = append(f.edits, m)
	return &discordgo.Message{ID: m.ID}, nil
}

func (f *fakeSession) MessageReactionAdd(_, _, emojiID string, _ ...discordgo.RequestOption) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.addErr != nil {
		return f.addErr
	}
	f.added = append(f.added, emojiID)
	return nil
}

func (f *fakeSession) MessageReactionRemove(_, _, emojiID, _ string, _ ...discordgo.RequestOption) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.removed = append(f.removed, emojiID)
	return nil
}

func (f *fakeSession) MessageReactionsRemoveAll(string, string, ...discordgo.RequestOption) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.clears++
	return nil
}

type fakeBoard struct {
	published []service.Signal
	delivery  service.Delivery
}

func (b *fakeBoard) Publish(sig service.Signal) service.Delivery {
	b.published = append(b.published, sig)
	return b.delivery
}

func (b *fakeBoard) Await(context.Context, service.MessageRef, func(service.Signal) bool, time.Duration) (service.Signal, error) {
	return service.Signal{}, service.ErrTimedOut
}

func TestSymbolFor(t *testing.T) {
	tests := []struct {
		emoji string
		want  service.Symbol
		ok    bool
	}{
		{"🇦", service.SymbolA, true},
		{"🇪", service.SymbolE, true},
		{"❌", service.SymbolCancel, true},
		{"▶", service.SymbolNext, true},
		{"▶️", service.SymbolNext, true},
		{"⏹️", service.SymbolStop, true},
		{"👍", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.emoji, func(t *testing.T) {
			got, ok := symbolFor(tt.emoji)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseCommand(t *testing.T) {
	tests := []struct {
		content  string
		wantName string
		wantArgs string
	}{
		{"!quiz", "quiz", ""},
		{"!QUIZ Example Quiz", "quiz", "Example Quiz"},
		{"!help   games  ", "help", "games"},
		{"!", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.content, func(t *testing.T) {
			name, args := parseCommand(tt.content)
			assert.Equal(t, tt.wantName, name)
			assert.Equal(t, tt.wantArgs, args)
		})
	}
}

func TestBuildEmbed(t *testing.T) {
	t.Run("header only has no card", func(t *testing.T) {
		assert.Nil(t, buildEmbed(service.View{Header: "Score: 1/2"}))
		assert.Empty(t, embeds(service.View{Header: "Score: 1/2"}))
	})

	t.Run("options sections and image", func(t *testing.T) {
		e := buildEmbed(service.View{
			Title:    "Question 1",
			Text:     "Pick one",
			Options:  []string{"red", "blue"},
			Sections: []entities.Section{{Label: "Quizzes", Items: []string{"one", "two"}}},
			ImageURL: "https://example.org/a.png",
			Footer:   "Page 1 of 2",
			Colour:   0x36393E,
		})
		require.NotNil(t, e)

		assert.Equal(t, "Question 1", e.Title)
		assert.Equal(t, "Pick one\n🇦 red\n🇧 blue", e.Description)
		assert.Equal(t, 0x36393E, e.Color)
		require.Len(t, e.Fields, 1)
		assert.Equal(t, "Quizzes", e.Fields[0].Name)
		assert.Equal(t, "one\ntwo", e.Fields[0].Value)
		require.NotNil(t, e.Image)
		assert.Equal(t, "https://example.org/a.png", e.Image.URL)
		require.NotNil(t, e.Footer)
		assert.Equal(t, "Page 1 of 2", e.Footer.Text)
	})
}

func TestMessenger_SendAddsControls(t *testing.T) {
	fs := &fakeSession{nextMsgID: "m1"}
	m := NewMessenger(fs, &fakeBoard{delivery: service.DeliveryUnclaimed}, nil, zap.NewNop())

	ref, err := m.Send(context.Background(), "c1", service.View{
		Header:   "Score",
		Title:    "Q",
		Controls: []service.Symbol{service.SymbolA, service.SymbolB, service.SymbolCancel},
	})
	require.NoError(t, err)

	assert.Equal(t, service.MessageRef{ChannelID: "c1", MessageID: "m1"}, ref)
	require.Len(t, fs.sent, 1)
	assert.Equal(t, "Score", fs.sent[0].Content)
	assert.Equal(t, []string{"🇦", "🇧", "❌"}, fs.added)
	assert.Zero(t, fs.clears)
}

func TestMessenger_EditReconcilesControls(t *testing.T) {
	fs := &fakeSession{nextMsgID: "m1"}
	m := NewMessenger(fs, &fakeBoard{delivery: service.DeliveryUnclaimed}, nil, zap.NewNop())
	ctx := context.Background()
	controls := []service.Symbol{service.SymbolA, service.SymbolCancel}

	ref, err := m.Send(ctx, "c1", service.View{Title: "Q1", Controls: controls})
	require.NoError(t, err)

	// same controls leave reactions alone
	require.NoError(t, m.Edit(ctx, ref, service.View{Title: "Q2", Controls: controls}))
	assert.Zero(t, fs.clears)
	assert.Len(t, fs.added, 2)

	// different controls are replaced
	require.NoError(t, m.Edit(ctx, ref, service.View{Title: "Q3", Controls: []service.Symbol{service.SymbolB}}))
	assert.Equal(t, 1, fs.clears)
	assert.Equal(t, []string{"🇦", "❌", "🇧"}, fs.added)

	// no controls clears everything
	require.NoError(t, m.Edit(ctx, ref, service.View{Header: "Done"}))
	assert.Equal(t, 2, fs.clears)

	last := fs.edits[len(fs.edits)-1]
	require.NotNil(t, last.Content)
	assert.Equal(t, "Done", *last.Content)
	require.NotNil(t, last.Embeds)
	assert.Empty(t, *last.Embeds)
}

func TestMessenger_SendErrors(t *testing.T) {
	t.Run("send fails", func(t *testing.T) {
		fs := &fakeSession{sendErr: errors.New("forbidden")}
		m := NewMessenger(fs, &fakeBoard{delivery: service.DeliveryUnclaimed}, nil, zap.NewNop())

		_, err := m.Send(context.Background(), "c1", service.View{Title: "Q"})
		require.Error(t, err)
	})

	t.Run("reaction fails", func(t *testing.T) {
		fs := &fakeSession{nextMsgID: "m1", addErr: errors.New("missing permission")}
		m := NewMessenger(fs, &fakeBoard{delivery: service.DeliveryUnclaimed}, nil, zap.NewNop())

		_, err := m.Send(context.Background(), "c1", service.View{Title: "Q", Controls: []service.Symbol{service.SymbolStop}})
		require.Error(t, err)
	})
}

func TestMessenger_Dispatch(t *testing.T) {
	reaction := func(emoji string) *discordgo.MessageReaction {
		return &discordgo.MessageReaction{
			UserID:    "u1",
			MessageID: "m1",
			ChannelID: "c1",
			Emoji:     discordgo.Emoji{Name: emoji},
		}
	}

	t.Run("accepted reaction is removed", func(t *testing.T) {
		fs := &fakeSession{}
		board := &fakeBoard{delivery: service.DeliveryAccepted}
		m := NewMessenger(fs, board, nil, zap.NewNop())

		m.Dispatch(context.Background(), reaction("🇨"))

		require.Len(t, board.published, 1)
		assert.Equal(t, service.Signal{
			UserID:  "u1",
			Message: service.MessageRef{ChannelID: "c1", MessageID: "m1"},
			Symbol:  service.SymbolC,
		}, board.published[0])
		assert.Equal(t, []string{"🇨"}, fs.removed)
	})

	t.Run("rejected reaction stays", func(t *testing.T) {
		fs := &fakeSession{nextMsgID: "m1"}
		board := &fakeBoard{delivery: service.DeliveryRejected}
		m := NewMessenger(fs, board, nil, zap.NewNop())
		_, err := m.Send(context.Background(), "c1", service.View{Title: "Q", Controls: service.OptionControls(5)})
		require.NoError(t, err)

		m.Dispatch(context.Background(), reaction("🇨"))

		assert.Len(t, board.published, 1)
		assert.Empty(t, fs.removed)
	})

	t.Run("unclaimed reaction on a session message is removed", func(t *testing.T) {
		fs := &fakeSession{nextMsgID: "m1"}
		board := &fakeBoard{delivery: service.DeliveryUnclaimed}
		m := NewMessenger(fs, board, nil, zap.NewNop())
		_, err := m.Send(context.Background(), "c1", service.View{Title: "Q", Controls: service.OptionControls(5)})
		require.NoError(t, err)

		m.Dispatch(context.Background(), reaction("🇨"))

		assert.Equal(t, []string{"🇨"}, fs.removed)
	})

	t.Run("unclaimed reaction elsewhere stays", func(t *testing.T) {
		fs := &fakeSession{}
		board := &fakeBoard{delivery: service.DeliveryUnclaimed}
		m := NewMessenger(fs, board, nil, zap.NewNop())

		m.Dispatch(context.Background(), reaction("🇨"))

		assert.Len(t, board.published, 1)
		assert.Empty(t, fs.removed)
	})

	t.Run("unknown emoji is ignored", func(t *testing.T) {
		fs := &fakeSession{}
		board := &fakeBoard{delivery: service.DeliveryAccepted}
		m := NewMessenger(fs, board, nil, zap.NewNop())

		m.Dispatch(context.Background(), reaction("🎉"))

		assert.Empty(t, board.published)
		assert.Empty(t, fs.removed)
	})
}
