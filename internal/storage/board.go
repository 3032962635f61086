package storage

import (
	"context"
	"sync"
	"time"

	"github.com/aliskhannn/reaction-games-bot/internal/service"
)

type waiter struct {
	ch     chan service.Signal
	accept func(service.Signal) bool
}

// SignalBoard routes incoming user signals to the session waiting on the
// message they target. Signals for messages nobody waits on are dropped.
type SignalBoard struct {
	mu      sync.Mutex
	waiters map[service.MessageRef]*waiter
}

// NewSignalBoard creates an empty SignalBoard.
func NewSignalBoard() *SignalBoard {
	return &SignalBoard{
		waiters: make(map[service.MessageRef]*waiter),
	}
}

// Publish filters sig through the waiter on its message and hands it over
// when accepted. A waiter takes one signal; rejected and unclaimed signals
// leave it untouched.
func (b *SignalBoard) Publish(sig service.Signal) service.Delivery {
	b.mu.Lock()
	defer b.mu.Unlock()

	w, ok := b.waiters[sig.Message]
	if !ok {
		return service.DeliveryUnclaimed
	}
	if w.accept != nil && !w.accept(sig) {
		return service.DeliveryRejected
	}

	w.ch <- sig
	delete(b.waiters, sig.Message)
	return service.DeliveryAccepted
}

// Waiting reports whether a session currently waits on ref.
func (b *SignalBoard) Waiting(ref service.MessageRef) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	_, ok := b.waiters[ref]
	return ok
}

// Await blocks until a signal on ref passes accept, the timeout elapses or
// ctx is done. A zero timeout never expires. The deadline is fixed when Await
// starts, and rejected signals never reach it.
func (b *SignalBoard) Await(
	ctx context.Context, ref service.MessageRef, accept func(service.Signal) bool, timeout time.Duration,
) (service.Signal, error) {
	w := &waiter{ch: make(chan service.Signal, 1), accept: accept}

	b.mu.Lock()
	b.waiters[ref] = w
	b.mu.Unlock()

	var expired <-chan time.Time
	if timeout > 0 {
		timer := time.NewTimer(timeout)
		defer timer.Stop()
		expired = timer.C
	}

	var err error
	select {
	case sig := <-w.ch:
		return sig, nil
	case <-expired:
		err = service.ErrTimedOut
	case <-ctx.Done():
		err = ctx.Err()
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	if b.waiters[ref] != w {
		// accepted in the same instant; the signal is already buffered
		return <-w.ch, nil
	}
	delete(b.waiters, ref)
	return service.Signal{}, err
}
