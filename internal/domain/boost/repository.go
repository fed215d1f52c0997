package boost

import (
	"context"

	"github.com/riskibarqy/prediction-league/internal/domain/result"
	"github.com/riskibarqy/prediction-league/internal/domain/round"
)

// AcceptFunc is re-run against the locked round right before a boost is
// recorded; a non-nil error aborts the write.
type AcceptFunc func(r round.Round) error

// SnapshotQuery identifies the counters needed to evaluate one boost use.
// Window narrows WindowUses to rounds inside it; nil means no window.
type SnapshotQuery struct {
	UserID   string
	LeagueID string
	SeasonID string
	Code     string
	RoundID  string
	Window   *UsageWindow
}

type Repository interface {
	ListRules(ctx context.Context, leagueID string) ([]LeagueRule, error)
	GetRule(ctx context.Context, leagueID, code string) (LeagueRule, bool, error)
	UpsertRule(ctx context.Context, rule LeagueRule) error
	Snapshot(ctx context.Context, q SnapshotQuery) (UsageSnapshot, error)
	// RecordBoost stores usage and the boosted result atomically. The write is
	// serialized per (user, league, code) and holds the round against status
	// changes while accept runs. If the counters no longer match expected, or
	// the result is already boosted or finalized, it fails with
	// ErrUsageConflict and nothing is written.
	RecordBoost(ctx context.Context, q SnapshotQuery, expected UsageSnapshot, usage Usage, boosted result.RoundResult, accept AcceptFunc) error
}
