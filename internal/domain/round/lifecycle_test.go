package round

import (
	"errors"
	"testing"
	"time"
)

func completedMatch(id string, home, away int) Match {
	m := Match{ID: id, Status: MatchScheduled}
	m, _ = m.Complete(home, away)
	return m
}

func TestTransition(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		round     Round
		target    Status
		targetErr error
	}{
		{
			name:   "draft to published with matches",
			round:  Round{ID: "r1", Status: StatusDraft, Matches: []Match{{ID: "m1", Status: MatchScheduled}}},
			target: StatusPublished,
		},
		{
			name:      "draft to published without matches",
			round:     Round{ID: "r1", Status: StatusDraft},
			target:    StatusPublished,
			targetErr: ErrNoMatches,
		},
		{
			name:      "draft cannot skip to completed",
			round:     Round{ID: "r1", Status: StatusDraft, Matches: []Match{completedMatch("m1", 1, 0)}},
			target:    StatusCompleted,
			targetErr: ErrInvalidTransition,
		},
		{
			name:   "published to completed with final scores",
			round:  Round{ID: "r1", Status: StatusPublished, Matches: []Match{completedMatch("m1", 1, 0), completedMatch("m2", 2, 2)}},
			target: StatusCompleted,
		},
		{
			name:      "published with missing score",
			round:     Round{ID: "r1", Status: StatusPublished, Matches: []Match{completedMatch("m1", 1, 0), {ID: "m2", Status: MatchInProgress}}},
			target:    StatusCompleted,
			targetErr: ErrMatchesIncomplete,
		},
		{
			name:      "completed cannot go back",
			round:     Round{ID: "r1", Status: StatusCompleted, Matches: []Match{completedMatch("m1", 1, 0)}},
			target:    StatusPublished,
			targetErr: ErrInvalidTransition,
		},
		{
			name:      "published to draft rejected",
			round:     Round{ID: "r1", Status: StatusPublished, Matches: []Match{{ID: "m1"}}},
			target:    StatusDraft,
			targetErr: ErrInvalidTransition,
		},
		{
			name:      "self transition rejected",
			round:     Round{ID: "r1", Status: StatusPublished, Matches: []Match{{ID: "m1"}}},
			target:    StatusPublished,
			targetErr: ErrInvalidTransition,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.round.Version = 4
			got, err := Transition(tt.round, tt.target)
			if tt.targetErr != nil {
				if !errors.Is(err, tt.targetErr) {
					t.Fatalf("expected error %v, got %v", tt.targetErr, err)
				}
				if got.Status != tt.round.Status || got.Version != 4 {
					t.Fatalf("rejected transition mutated round: %+v", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if got.Status != tt.target {
				t.Fatalf("expected status %s, got %s", tt.target, got.Status)
			}
			if got.Version != 5 {
				t.Fatalf("expected version bump to 5, got %d", got.Version)
			}
		})
	}
}

func TestAcceptsPredictions(t *testing.T) {
	t.Parallel()

	deadline := time.Date(2025, 9, 13, 12, 0, 0, 0, time.UTC)
	open := Round{ID: "r1", Status: StatusPublished, DeadlineAt: deadline}

	if err := AcceptsPredictions(open, deadline.Add(-time.Second)); err != nil {
		t.Fatalf("expected open round to accept, got %v", err)
	}
	if err := AcceptsPredictions(open, deadline); !errors.Is(err, ErrDeadlinePassed) {
		t.Fatalf("expected deadline to be exclusive, got %v", err)
	}

	draft := open
	draft.Status = StatusDraft
	if err := AcceptsPredictions(draft, deadline.Add(-time.Hour)); !errors.Is(err, ErrRoundNotOpen) {
		t.Fatalf("expected ErrRoundNotOpen, got %v", err)
	}

	completed := open
	completed.Status = StatusCompleted
	if err := AcceptsPredictions(completed, deadline.Add(-time.Hour)); !errors.Is(err, ErrRoundClosed) {
		t.Fatalf("expected ErrRoundClosed, got %v", err)
	}
}

func TestMatchLifecycle(t *testing.T) {
	t.Parallel()

	m := Match{ID: "m1", Status: MatchScheduled}
	started, err := m.Start()
	if err != nil {
		t.Fatalf("start match: %v", err)
	}
	if _, err := started.Start(); !errors.Is(err, ErrInvalidMatchState) {
		t.Fatalf("expected ErrInvalidMatchState on restart, got %v", err)
	}
	if started.IsCompleted() {
		t.Fatalf("in-progress match must not be completed")
	}

	if _, err := started.Complete(-1, 0); !errors.Is(err, ErrInvalidScore) {
		t.Fatalf("expected ErrInvalidScore, got %v", err)
	}

	done, err := started.Complete(3, 1)
	if err != nil {
		t.Fatalf("complete match: %v", err)
	}
	if !done.IsCompleted() || *done.HomeScore != 3 || *done.AwayScore != 1 {
		t.Fatalf("unexpected completed match: %+v", done)
	}

	scoreless := Match{ID: "m2", Status: MatchCompleted}
	if scoreless.IsCompleted() {
		t.Fatalf("match without scores must not count as completed")
	}
}
