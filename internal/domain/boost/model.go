package boost

import (
	"strings"
	"time"
)

// Definition is a catalog entry; boosts are global, not league-scoped.
type Definition struct {
	Code        string
	Name        string
	Description string
}

// UsageWindow caps uses inside an inclusive round-number range.
type UsageWindow struct {
	StartRound int
	EndRound   int
	MaxUses    int
}

func (w UsageWindow) Contains(roundNumber int) bool {
	return roundNumber >= w.StartRound && roundNumber <= w.EndRound
}

// LeagueRule is the per-league configuration for one boost code.
type LeagueRule struct {
	LeagueID           string
	Code               string
	Enabled            bool
	TotalUsesPerSeason int
	Windows            []UsageWindow
}

// UsageSnapshot is a point-in-time count for one (user, league, season, code).
type UsageSnapshot struct {
	SeasonUses    int
	WindowUses    int
	UsedThisRound bool
}

// Usage is one recorded boost use.
type Usage struct {
	UserID      string
	LeagueID    string
	SeasonID    string
	Code        string
	RoundID     string
	RoundNumber int
	UsedAt      time.Time
}

func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}
