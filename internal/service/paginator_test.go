package service

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aliskhannn/reaction-games-bot/internal/domain/entities"
)

func pages(n int) []entities.Page {
	out := make([]entities.Page, n)
	for i := range out {
		out[i] = entities.Page{{Label: "Section", Items: []string{fmt.Sprintf("item %d", i+1)}}}
	}
	return out
}

func TestPagination_Moves(t *testing.T) {
	p := NewPagination(4)

	assert.False(t, p.Previous(), "previous on first page")
	assert.False(t, p.First(), "first on first page")
	assert.True(t, p.Next())
	assert.Equal(t, 1, p.Index())
	assert.True(t, p.Last())
	assert.Equal(t, 3, p.Index())
	assert.False(t, p.Next(), "next on last page")
	assert.True(t, p.First())
	assert.Equal(t, 0, p.Index())

	p.Stop()
	assert.True(t, p.Stopped())
	assert.False(t, p.Next(), "moves after stop")
	assert.Equal(t, 0, p.Index())
}

func TestPaginationControls(t *testing.T) {
	assert.Empty(t, PaginationControls(0))
	assert.Empty(t, PaginationControls(1))
	assert.Equal(t, []Symbol{SymbolPrev, SymbolNext, SymbolStop}, PaginationControls(2))
	assert.Equal(t, NavigationSymbols, PaginationControls(5))
}

func TestPaginate_SinglePageHasNoControls(t *testing.T) {
	m := newScriptedMessenger()
	s := newTestSessions(t, m, nil)

	res, err := s.Paginate(context.Background(), testPlayer, "Help", pages(1))
	require.NoError(t, err)

	assert.Equal(t, entities.OutcomeFinished, res.Outcome)
	require.Len(t, m.sent, 1)
	assert.Empty(t, m.sent[0].Controls)
	assert.Empty(t, m.sent[0].Footer)
	assert.Empty(t, m.edits)
}

func TestPaginate_Navigation(t *testing.T) {
	m := newScriptedMessenger(
		press(SymbolPrev), // already on the first page
		press(SymbolNext),
		press(SymbolLast),
		press(SymbolNext), // already on the last page
		press(SymbolFirst),
		press(SymbolStop),
	)
	s := newTestSessions(t, m, nil)

	res, err := s.Paginate(context.Background(), testPlayer, "Help", pages(3))
	require.NoError(t, err)

	assert.Equal(t, "Page 1/3 (3 entries)", m.sent[0].Footer)
	require.Len(t, m.edits, 4)
	assert.Equal(t, "Page 2/3 (3 entries)", m.edits[0].Footer)
	assert.Equal(t, "Page 3/3 (3 entries)", m.edits[1].Footer)
	assert.Equal(t, "Page 1/3 (3 entries)", m.edits[2].Footer)
	assert.Equal(t, "Closed the help menu.", m.edits[3].Header)
	assert.Empty(t, m.edits[3].Controls)
	assert.Equal(t, entities.OutcomeFinished, res.Outcome)
}

func TestPaginate_TwoPagesRejectFirstLast(t *testing.T) {
	m := newScriptedMessenger(press(SymbolLast), press(SymbolNext), press(SymbolStop))
	s := newTestSessions(t, m, nil)

	_, err := s.Paginate(context.Background(), testPlayer, "Help", pages(2))
	require.NoError(t, err)

	assert.Equal(t, 1, m.rejected)
	assert.Equal(t, []Symbol{SymbolPrev, SymbolNext, SymbolStop}, m.sent[0].Controls)
	assert.Equal(t, "Page 2/2 (2 entries)", m.edits[0].Footer)
}

func TestPaginate_IdleTimeoutCloses(t *testing.T) {
	m := newScriptedMessenger(press(SymbolNext), timeout())
	s := newTestSessions(t, m, nil)

	res, err := s.Paginate(context.Background(), testPlayer, "Help", pages(3))
	require.NoError(t, err)

	assert.Equal(t, entities.OutcomeTimedOut, res.Outcome)
	assert.Equal(t, "Closed the help menu.", m.lastView().Header)
}

func TestPaginate_ForeignSignalsIgnored(t *testing.T) {
	m := newScriptedMessenger(pressBy("someone", SymbolNext), press(SymbolStop))
	s := newTestSessions(t, m, nil)

	_, err := s.Paginate(context.Background(), testPlayer, "Help", pages(3))
	require.NoError(t, err)

	assert.Equal(t, 1, m.rejected)
	require.Len(t, m.edits, 1)
	assert.Equal(t, "Closed the help menu.", m.edits[0].Header)
}

func TestPaginate_NoPages(t *testing.T) {
	s := newTestSessions(t, newScriptedMessenger(), nil)

	_, err := s.Paginate(context.Background(), testPlayer, "Help", nil)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestPaginate_NotRecorded(t *testing.T) {
	store := &memResults{}
	s := newTestSessions(t, newScriptedMessenger(), store)

	_, err := s.Paginate(context.Background(), testPlayer, "Help", pages(1))
	require.NoError(t, err)
	assert.Empty(t, store.saved)
}
