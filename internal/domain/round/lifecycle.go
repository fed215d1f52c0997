package round

import (
	"fmt"
	"time"

	"github.com/cockroachdb/errors"
)

var (
	ErrInvalidTransition = errors.New("invalid round transition")
	ErrNoMatches         = errors.New("round has no matches")
	ErrMatchesIncomplete = errors.New("round has matches without a final score")
	ErrRoundNotOpen      = errors.New("round is not open for predictions")
	ErrRoundClosed       = errors.New("round is closed for predictions")
	ErrDeadlinePassed    = errors.New("prediction deadline has passed")
	ErrVersionConflict   = errors.New("round was modified concurrently")
	ErrInvalidMatchState = errors.New("invalid match state")
	ErrInvalidScore      = errors.New("score must not be negative")
	ErrDuplicateRound    = errors.New("round number already exists in season")
	ErrNotDraft          = errors.New("round is no longer a draft")
)

var nextStatus = map[Status]Status{
	StatusDraft:     StatusPublished,
	StatusPublished: StatusCompleted,
}

// Transition moves r to target, enforcing the DRAFT -> PUBLISHED -> COMPLETED
// order. The returned round carries a bumped Version; r is left untouched.
func Transition(r Round, target Status) (Round, error) {
	next, ok := nextStatus[r.Status]
	if !ok || next != target {
		return r, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, r.Status, target)
	}

	switch target {
	case StatusPublished:
		if len(r.Matches) == 0 {
			return r, fmt.Errorf("%w: round=%s", ErrNoMatches, r.ID)
		}
	case StatusCompleted:
		for _, m := range r.Matches {
			if !m.IsCompleted() {
				return r, fmt.Errorf("%w: round=%s match=%s", ErrMatchesIncomplete, r.ID, m.ID)
			}
		}
	}

	out := r
	out.Matches = append([]Match(nil), r.Matches...)
	out.Status = target
	out.Version = r.Version + 1
	return out, nil
}

// AcceptsPredictions reports whether a prediction write may land at now.
// The deadline is exclusive.
func AcceptsPredictions(r Round, now time.Time) error {
	switch r.Status {
	case StatusDraft:
		return fmt.Errorf("%w: round=%s", ErrRoundNotOpen, r.ID)
	case StatusCompleted:
		return fmt.Errorf("%w: round=%s", ErrRoundClosed, r.ID)
	}
	if !now.Before(r.DeadlineAt) {
		return fmt.Errorf("%w: round=%s deadline=%s", ErrDeadlinePassed, r.ID, r.DeadlineAt.UTC().Format(time.RFC3339))
	}
	return nil
}

func (m Match) Start() (Match, error) {
	if m.Status != MatchScheduled {
		return m, fmt.Errorf("%w: match=%s status=%s", ErrInvalidMatchState, m.ID, m.Status)
	}
	m.Status = MatchInProgress
	return m, nil
}

// Complete records the final score. Correcting the score of an already
// completed match is allowed until the round itself completes.
func (m Match) Complete(home, away int) (Match, error) {
	if home < 0 || away < 0 {
		return m, fmt.Errorf("%w: match=%s home=%d away=%d", ErrInvalidScore, m.ID, home, away)
	}
	m.HomeScore = &home
	m.AwayScore = &away
	m.Status = MatchCompleted
	return m, nil
}
