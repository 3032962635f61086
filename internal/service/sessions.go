package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/aliskhannn/reaction-games-bot/internal/domain/entities"
)

// Timeouts bounds how long a session waits for the player.
type Timeouts struct {
	Answer   time.Duration // per question/choice; zero waits forever
	HelpIdle time.Duration // paginator idle time before it stops itself
}

// Sessions runs interactive flows against one messaging platform.
// Each call is an independent session; Sessions holds no per-session state.
type Sessions struct {
	messenger Messenger
	scrambler *Scrambler
	results   ResultStore
	observer  SessionObserver
	logger    *zap.Logger
	timeouts  Timeouts
	now       func() time.Time
}

// NewSessions creates a session runner. results and observer may be nil.
func NewSessions(
	messenger Messenger,
	scrambler *Scrambler,
	results ResultStore,
	observer SessionObserver,
	logger *zap.Logger,
	timeouts Timeouts,
) *Sessions {
	return &Sessions{
		messenger: messenger,
		scrambler: scrambler,
		results:   results,
		observer:  observer,
		logger:    logger,
		timeouts:  timeouts,
		now:       time.Now,
	}
}

// Messenger returns the platform capability sessions are driven through.
func (s *Sessions) Messenger() Messenger {
	return s.messenger
}

// begin opens a result record and a session-scoped logger.
func (s *Sessions) begin(kind entities.SessionKind, title string, player Player, total int) (*entities.Result, *zap.Logger) {
	id := uuid.NewString()
	log := s.logger.With(
		zap.String("session_id", id),
		zap.String("kind", string(kind)),
		zap.String("title", title),
		zap.String("user_id", player.ID),
	)
	log.Info("session started", zap.Int("total", total))

	if s.observer != nil {
		s.observer.SessionStarted(kind)
	}

	return entities.NewResult(id, kind, title, player.ID, total, s.now()), log
}

// end stamps the outcome, notifies the observer and records the result.
// Help listings are not recorded.
// Recording failures are logged and never change the outcome.
func (s *Sessions) end(ctx context.Context, log *zap.Logger, r *entities.Result, outcome entities.Outcome) *entities.Result {
	r.Finish(outcome, s.now())

	if s.observer != nil {
		s.observer.SessionEnded(r.Kind, outcome)
	}

	if s.results != nil && r.Kind != entities.KindHelp {
		if err := s.results.Save(ctx, r); err != nil {
			log.Warn("failed to record session result", zap.Error(err))
		}
	}

	log.Info("session ended",
		zap.String("outcome", string(outcome)),
		zap.Int("answered", r.Answered),
		zap.Int("score", r.Score),
		zap.Duration("elapsed", r.FinishedAt.Sub(r.StartedAt)),
	)
	return r
}

// await waits for one accepted signal. It returns the outcome that ends the
// session when the player cancelled or the deadline passed, or "" to continue.
func (s *Sessions) await(
	ctx context.Context, ref MessageRef, accept func(Signal) bool, timeout time.Duration,
) (Signal, entities.Outcome, error) {
	sig, err := s.messenger.Await(ctx, ref, accept, timeout)
	if errors.Is(err, ErrTimedOut) {
		return Signal{}, entities.OutcomeTimedOut, nil
	}
	if err != nil {
		return Signal{}, "", err
	}
	if sig.Symbol == SymbolCancel || sig.Symbol == SymbolStop {
		return sig, entities.OutcomeCancelled, nil
	}
	return sig, "", nil
}
