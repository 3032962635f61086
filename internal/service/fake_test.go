package service

import (
	"context"
	"errors"
	"math/rand"
	"strconv"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/aliskhannn/reaction-games-bot/internal/domain/entities"
)

var errScriptDone = errors.New("script exhausted")

var testPlayer = Player{ID: "u1", Name: "Ann", ChannelID: "c1"}

// step is one scripted user action.
type step struct {
	user    string
	symbol  Symbol
	pick    func(View) Symbol
	timeout bool
	foreign bool // targets a different message
}

func press(sym Symbol) step          { return step{symbol: sym} }
func pressBy(u string, s Symbol) step { return step{user: u, symbol: s} }
func pick(fn func(View) Symbol) step  { return step{pick: fn} }
func timeout() step                   { return step{timeout: true} }

// scriptedMessenger replays steps and records every rendered view.
type scriptedMessenger struct {
	mu       sync.Mutex
	steps    []step
	sent     []View
	edits    []View
	rejected int
	nextID   int
}

func newScriptedMessenger(steps ...step) *scriptedMessenger {
	return &scriptedMessenger{steps: steps}
}

func (m *scriptedMessenger) Send(_ context.Context, channelID string, v View) (MessageRef, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	m.sent = append(m.sent, v)
	return MessageRef{ChannelID: channelID, MessageID: strconv.Itoa(m.nextID)}, nil
}

func (m *scriptedMessenger) Edit(_ context.Context, _ MessageRef, v View) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.edits = append(m.edits, v)
	return nil
}

func (m *scriptedMessenger) Await(_ context.Context, ref MessageRef, accept func(Signal) bool, _ time.Duration) (Signal, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for len(m.steps) > 0 {
		st := m.steps[0]
		m.steps = m.steps[1:]

		if st.timeout {
			return Signal{}, ErrTimedOut
		}

		sig := Signal{UserID: testPlayer.ID, Message: ref, Symbol: st.symbol}
		if st.user != "" {
			sig.UserID = st.user
		}
		if st.foreign {
			sig.Message.MessageID = "elsewhere"
		}
		if st.pick != nil {
			sig.Symbol = st.pick(m.last())
		}

		if accept(sig) {
			return sig, nil
		}
		m.rejected++
	}
	return Signal{}, errScriptDone
}

func (m *scriptedMessenger) last() View {
	if len(m.edits) > 0 {
		return m.edits[len(m.edits)-1]
	}
	return m.sent[len(m.sent)-1]
}

func (m *scriptedMessenger) lastView() View {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.last()
}

// memResults is a ResultStore kept in a slice.
type memResults struct {
	mu    sync.Mutex
	saved []*entities.Result
	err   error
}

func (s *memResults) Save(_ context.Context, r *entities.Result) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	s.saved = append(s.saved, r)
	return nil
}

func (s *memResults) Recent(_ context.Context, userID string, limit int) ([]*entities.Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*entities.Result
	for i := len(s.saved) - 1; i >= 0 && len(out) < limit; i-- {
		if s.saved[i].UserID == userID {
			out = append(out, s.saved[i])
		}
	}
	return out, nil
}

// countingObserver counts session lifecycle notifications.
type countingObserver struct {
	started int
	ended   map[entities.Outcome]int
}

func (o *countingObserver) SessionStarted(entities.SessionKind) { o.started++ }

func (o *countingObserver) SessionEnded(_ entities.SessionKind, outcome entities.Outcome) {
	if o.ended == nil {
		o.ended = make(map[entities.Outcome]int)
	}
	o.ended[outcome]++
}

func newTestSessions(t *testing.T, m Messenger, results ResultStore) *Sessions {
	t.Helper()
	return NewSessions(m, NewScrambler(rand.NewSource(42)), results, nil, zap.NewNop(), Timeouts{})
}

// optionWith returns the symbol of the option whose text is want.
func optionWith(want string) func(View) Symbol {
	return func(v View) Symbol {
		for i, opt := range v.Options {
			if opt == want {
				return OptionSymbols[i]
			}
		}
		return SymbolCancel
	}
}

// optionNot returns the symbol of the first option whose text is not avoid.
func optionNot(avoid string) func(View) Symbol {
	return func(v View) Symbol {
		for i, opt := range v.Options {
			if opt != avoid {
				return OptionSymbols[i]
			}
		}
		return SymbolCancel
	}
}
