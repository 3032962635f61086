package service

import (
	"context"
	"errors"
	"time"

	"github.com/aliskhannn/reaction-games-bot/internal/domain/entities"
)

var (
	// ErrInvalidConfiguration is wrapped by every catalog validation failure.
	ErrInvalidConfiguration = entities.ErrInvalidConfiguration
	// ErrTimedOut is returned by Messenger.Await when no accepted signal arrived before the deadline.
	ErrTimedOut = errors.New("timed out waiting for signal")
	// ErrUnauthorized is returned when a user outside the admin allow-list requests a privileged action.
	ErrUnauthorized = errors.New("user is not authorized")
	// ErrNotFound is returned when nothing matches a lookup.
	ErrNotFound = errors.New("not found")
)

// Symbol is a platform-neutral user action attached to a message.
// Adapters translate emoji reactions or button presses into symbols.
type Symbol string

const (
	SymbolA      Symbol = "a"
	SymbolB      Symbol = "b"
	SymbolC      Symbol = "c"
	SymbolD      Symbol = "d"
	SymbolE      Symbol = "e"
	SymbolCancel Symbol = "cancel"

	SymbolFirst Symbol = "first"
	SymbolPrev  Symbol = "prev"
	SymbolNext  Symbol = "next"
	SymbolLast  Symbol = "last"
	SymbolStop  Symbol = "stop"
)

// OptionSymbols are the answer symbols in display order.
var OptionSymbols = [entities.OptionsPerQuestion]Symbol{SymbolA, SymbolB, SymbolC, SymbolD, SymbolE}

// NavigationSymbols are the paginator controls in display order.
var NavigationSymbols = []Symbol{SymbolFirst, SymbolPrev, SymbolNext, SymbolLast, SymbolStop}

// OptionIndex returns the position of an answer symbol.
func OptionIndex(s Symbol) (int, bool) {
	for i, o := range OptionSymbols {
		if o == s {
			return i, true
		}
	}
	return 0, false
}

// OptionControls returns the first n answer symbols followed by cancel.
func OptionControls(n int) []Symbol {
	n = min(max(n, 0), len(OptionSymbols))
	controls := make([]Symbol, 0, n+1)
	controls = append(controls, OptionSymbols[:n]...)
	return append(controls, SymbolCancel)
}

// Player is the user who invoked a session and the channel it runs in.
type Player struct {
	ID        string
	Name      string
	ChannelID string
}

// MessageRef identifies one platform message.
type MessageRef struct {
	ChannelID string
	MessageID string
}

// Signal is a user action on a message.
type Signal struct {
	UserID  string
	Message MessageRef
	Symbol  Symbol
}

// Delivery is what became of a published signal.
type Delivery int

const (
	// DeliveryAccepted means the waiting session took the signal.
	DeliveryAccepted Delivery = iota
	// DeliveryRejected means a session waits on the message but filtered the signal out.
	DeliveryRejected
	// DeliveryUnclaimed means no session was waiting on the message.
	DeliveryUnclaimed
)

// View is everything the display layer needs to render one state of a session.
type View struct {
	Header   string             // plain line above the card, e.g. the running score
	Title    string             // card title
	Text     string             // card body
	Options  []string           // labelled with OptionSymbols in order
	Sections []entities.Section // help/listing groups
	ImageURL string             // image shown on the card
	Footer   string
	Colour   int
	Controls []Symbol // affordances offered to the user; empty clears them
}

// Messenger is the messaging-platform capability sessions drive.
type Messenger interface {
	// Send posts a new message to a channel.
	Send(ctx context.Context, channelID string, view View) (MessageRef, error)
	// Edit replaces the content of a message.
	Edit(ctx context.Context, ref MessageRef, view View) error
	// Await blocks until a signal on ref satisfies accept, the timeout elapses
	// (ErrTimedOut) or ctx is done. A zero timeout waits without a deadline.
	// Rejected signals are dropped and do not extend the deadline.
	Await(ctx context.Context, ref MessageRef, accept func(Signal) bool, timeout time.Duration) (Signal, error)
}

// ResultStore persists finished session results.
type ResultStore interface {
	Save(ctx context.Context, r *entities.Result) error
	Recent(ctx context.Context, userID string, limit int) ([]*entities.Result, error)
}

// SessionObserver is notified when sessions start and end.
type SessionObserver interface {
	SessionStarted(kind entities.SessionKind)
	SessionEnded(kind entities.SessionKind, outcome entities.Outcome)
}

// ReloadObserver is notified after every catalog reload attempt.
type ReloadObserver interface {
	CatalogReloaded(err error)
}

// acceptFrom builds the signal filter every session uses: only the invoking
// user, only the session's message, only the offered symbols.
func acceptFrom(player Player, ref MessageRef, allowed []Symbol) func(Signal) bool {
	set := make(map[Symbol]struct{}, len(allowed))
	for _, s := range allowed {
		set[s] = struct{}{}
	}

	return func(sig Signal) bool {
		if sig.UserID != player.ID || sig.Message != ref {
			return false
		}
		_, ok := set[sig.Symbol]
		return ok
	}
}
