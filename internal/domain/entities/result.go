package entities

import "time"

// SessionKind identifies which interactive flow produced a result.
type SessionKind string

const (
	KindQuiz      SessionKind = "quiz"
	KindAlignment SessionKind = "alignment"
	KindGame      SessionKind = "game"
	KindHelp      SessionKind = "help"
)

// Outcome is how a session terminated.
type Outcome string

const (
	OutcomeFinished  Outcome = "finished"  // the flow reached its natural end
	OutcomeCancelled Outcome = "cancelled" // the player pressed cancel/stop
	OutcomeTimedOut  Outcome = "timed_out" // no accepted signal before the deadline
)

// Result records one completed session.
type Result struct {
	ID         int64       // storage id, zero until saved
	SessionID  string      // correlation id shared with log lines
	Kind       SessionKind // flow type
	Title      string      // quiz/test/game title
	UserID     string      // invoking user
	Outcome    Outcome     // terminal state
	Score      int         // correct answers (quiz only)
	Total      int         // number of questions (quiz/test) or 0
	Answered   int         // signals accepted before termination
	Detail     string      // alignment cell or game ending label
	StartedAt  time.Time
	FinishedAt time.Time
}

// NewResult creates a result for a session that has just started.
func NewResult(sessionID string, kind SessionKind, title, userID string, total int, startedAt time.Time) *Result {
	return &Result{
		SessionID: sessionID,
		Kind:      kind,
		Title:     title,
		UserID:    userID,
		Total:     total,
		StartedAt: startedAt,
	}
}

// Finish stamps the outcome and completion time.
func (r *Result) Finish(outcome Outcome, at time.Time) {
	r.Outcome = outcome
	r.FinishedAt = at
}
