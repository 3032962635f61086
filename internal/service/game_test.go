package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aliskhannn/reaction-games-bot/internal/domain/entities"
)

func sampleGame() *entities.Game {
	c := entities.DefaultColour
	return entities.NewGame("Voyage", entities.NewChoiceNode("start", "You stand at the dock.", c,
		entities.NewChoiceNode("sail", "The sea is calm.", c,
			entities.NewEndNode("island", "You find an island.", c, false),
			entities.NewEndNode("storm", "https://example.com/storm.png", c, true),
		),
		entities.NewEndNode("stay", "You stay home.", c, false),
	))
}

func TestPlayGame_ReachesEnding(t *testing.T) {
	m := newScriptedMessenger(pick(optionWith("sail")), pick(optionWith("island")))
	store := &memResults{}
	s := newTestSessions(t, m, store)

	res, err := s.PlayGame(context.Background(), testPlayer, sampleGame())
	require.NoError(t, err)

	assert.Equal(t, entities.OutcomeFinished, res.Outcome)
	assert.Equal(t, "island", res.Detail)
	assert.Equal(t, 2, res.Answered)

	end := m.lastView()
	assert.Equal(t, "The game is now over", end.Title)
	assert.Equal(t, "You find an island.", end.Text)
	assert.Empty(t, end.Controls)
	require.Len(t, store.saved, 1)
}

func TestPlayGame_ImageEnding(t *testing.T) {
	m := newScriptedMessenger(pick(optionWith("sail")), pick(optionWith("storm")))
	s := newTestSessions(t, m, nil)

	_, err := s.PlayGame(context.Background(), testPlayer, sampleGame())
	require.NoError(t, err)

	end := m.lastView()
	assert.Equal(t, "https://example.com/storm.png", end.ImageURL)
	assert.Empty(t, end.Text)
}

func TestPlayGame_EndingRenderedOnce(t *testing.T) {
	m := newScriptedMessenger(pick(optionWith("stay")))
	s := newTestSessions(t, m, nil)

	_, err := s.PlayGame(context.Background(), testPlayer, sampleGame())
	require.NoError(t, err)

	endings := 0
	for _, v := range m.edits {
		if v.Title == "The game is now over" {
			endings++
		}
	}
	assert.Equal(t, 1, endings)
}

func TestPlayGame_ControlsMatchChildren(t *testing.T) {
	m := newScriptedMessenger(pick(optionWith("sail")), press(SymbolC), press(SymbolCancel))
	s := newTestSessions(t, m, nil)

	res, err := s.PlayGame(context.Background(), testPlayer, sampleGame())
	require.NoError(t, err)

	require.GreaterOrEqual(t, len(m.edits), 2)
	assert.Equal(t, []Symbol{SymbolA, SymbolB, SymbolCancel}, m.edits[0].Controls)
	assert.Len(t, m.edits[0].Options, 2)

	// the third option does not exist on a two-way choice
	assert.Equal(t, 1, m.rejected)
	assert.Equal(t, entities.OutcomeCancelled, res.Outcome)
	assert.Equal(t, "Ended Game", m.lastView().Title)
}

func TestPlayGame_ChoicesFollowDisplayedOrder(t *testing.T) {
	for i := 0; i < 20; i++ {
		m := newScriptedMessenger(press(SymbolA), press(SymbolA))
		s := newTestSessions(t, m, nil)
		s.scrambler = NewScrambler(nil)

		res, err := s.PlayGame(context.Background(), testPlayer, sampleGame())
		require.NoError(t, err)

		first := m.edits[0].Options[0]
		if first == "stay" {
			assert.Equal(t, "stay", res.Detail)
			continue
		}
		assert.Equal(t, m.edits[1].Options[0], res.Detail)
	}
}

func TestPlayGame_RootWithoutChildren(t *testing.T) {
	game := entities.NewGame("Short", entities.NewChoiceNode("start", "Nothing to do.", entities.DefaultColour))
	m := newScriptedMessenger()
	s := newTestSessions(t, m, nil)

	res, err := s.PlayGame(context.Background(), testPlayer, game)
	require.NoError(t, err)
	assert.Equal(t, entities.OutcomeFinished, res.Outcome)
	assert.Equal(t, "Nothing to do.", m.lastView().Text)
}

func TestPlayGame_Timeout(t *testing.T) {
	m := newScriptedMessenger(timeout())
	s := newTestSessions(t, m, nil)

	res, err := s.PlayGame(context.Background(), testPlayer, sampleGame())
	require.NoError(t, err)
	assert.Equal(t, entities.OutcomeTimedOut, res.Outcome)
	assert.Contains(t, m.lastView().Text, "wandered off")
}
