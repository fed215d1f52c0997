package round

import (
	"fmt"
	"strings"
	"time"
)

type Status string

const (
	StatusDraft     Status = "DRAFT"
	StatusPublished Status = "PUBLISHED"
	StatusCompleted Status = "COMPLETED"
)

type MatchStatus string

const (
	MatchScheduled  MatchStatus = "SCHEDULED"
	MatchInProgress MatchStatus = "IN_PROGRESS"
	MatchCompleted  MatchStatus = "COMPLETED"
)

// Round is a batch of matches sharing one prediction deadline.
type Round struct {
	ID         string
	SeasonID   string
	Number     int
	StartsAt   time.Time
	DeadlineAt time.Time
	Status     Status
	Matches    []Match
	Version    int
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// Match represents one fixture within a round.
type Match struct {
	ID         string
	RoundID    string
	HomeTeamID string
	AwayTeamID string
	KickoffAt  time.Time
	HomeScore  *int
	AwayScore  *int
	Status     MatchStatus
}

func (m Match) IsCompleted() bool {
	return m.Status == MatchCompleted && m.HomeScore != nil && m.AwayScore != nil
}

func (r Round) MatchByID(matchID string) (Match, bool) {
	for _, m := range r.Matches {
		if m.ID == matchID {
			return m, true
		}
	}
	return Match{}, false
}

func ParseStatus(v string) (Status, bool) {
	status := Status(strings.ToUpper(strings.TrimSpace(v)))
	switch status {
	case StatusDraft, StatusPublished, StatusCompleted:
		return status, true
	default:
		return "", false
	}
}

func (r Round) Validate() error {
	if strings.TrimSpace(r.ID) == "" {
		return fmt.Errorf("round id is required")
	}
	if strings.TrimSpace(r.SeasonID) == "" {
		return fmt.Errorf("round season id is required")
	}
	if r.Number <= 0 {
		return fmt.Errorf("round number must be greater than zero")
	}
	if r.DeadlineAt.IsZero() {
		return fmt.Errorf("round deadline is required")
	}
	if !r.StartsAt.IsZero() && r.DeadlineAt.After(r.StartsAt) {
		return fmt.Errorf("round deadline must not be after round start")
	}
	return nil
}
