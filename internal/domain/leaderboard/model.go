package leaderboard

import (
	"fmt"
	"strings"
	"time"
)

type Scope string

const (
	ScopeSeason Scope = "SEASON"
	ScopeMonth  Scope = "MONTH"
	ScopeExact  Scope = "EXACT"
)

type RankingPolicy string

const (
	// RankingCompetition gives tied users the same rank and skips the
	// following ranks (1, 1, 3).
	RankingCompetition RankingPolicy = "competition"
	// RankingDense gives tied users the same rank without gaps (1, 1, 2).
	RankingDense RankingPolicy = "dense"
)

type Movement string

const (
	MovementUp   Movement = "UP"
	MovementDown Movement = "DOWN"
	MovementSame Movement = "SAME"
	MovementNew  Movement = "NEW"
)

// Query selects which results count and how they are ranked. Month is only
// read for ScopeMonth and is matched on year and month in UTC.
type Query struct {
	Scope  Scope
	Month  time.Time
	Policy RankingPolicy
}

// Entry is one derived leaderboard row; never persisted.
type Entry struct {
	Rank         int
	UserID       string
	DisplayName  string
	Value        int
	PreviousRank *int
	Movement     Movement
}

func ParseScope(v string) (Scope, error) {
	switch Scope(strings.ToUpper(strings.TrimSpace(v))) {
	case "", ScopeSeason:
		return ScopeSeason, nil
	case ScopeMonth:
		return ScopeMonth, nil
	case ScopeExact:
		return ScopeExact, nil
	default:
		return "", fmt.Errorf("unknown leaderboard scope %q", v)
	}
}

func ParsePolicy(v string) (RankingPolicy, error) {
	switch RankingPolicy(strings.ToLower(strings.TrimSpace(v))) {
	case "", RankingCompetition:
		return RankingCompetition, nil
	case RankingDense:
		return RankingDense, nil
	default:
		return "", fmt.Errorf("unknown ranking policy %q", v)
	}
}
