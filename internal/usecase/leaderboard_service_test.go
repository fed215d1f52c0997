package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/riskibarqy/prediction-league/internal/domain/leaderboard"
	"github.com/riskibarqy/prediction-league/internal/domain/result"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedResults(t *testing.T, env *testEnv, rows ...result.RoundResult) {
	t.Helper()
	for i := range rows {
		rows[i].LeagueID = testLeagueID
		rows[i].SeasonID = testSeasonID
		if rows[i].FinalPoints == 0 {
			rows[i].FinalPoints = rows[i].BasePoints
		}
	}
	require.NoError(t, env.results.UpsertBase(context.Background(), rows))
}

type rankRow struct {
	UserID   string
	Rank     int
	Value    int
	Movement leaderboard.Movement
}

func rankRows(entries []leaderboard.Entry) []rankRow {
	out := make([]rankRow, 0, len(entries))
	for _, e := range entries {
		out = append(out, rankRow{UserID: e.UserID, Rank: e.Rank, Value: e.Value, Movement: e.Movement})
	}
	return out
}

func TestLeaderboardService_SeasonStandingsWithMovement(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	march := time.Date(2026, time.March, 7, 15, 0, 0, 0, time.UTC)
	seedResults(t, env,
		result.RoundResult{RoundID: "r1", RoundNumber: 1, RoundStartsAt: march, UserID: "alice", BasePoints: 3},
		result.RoundResult{RoundID: "r1", RoundNumber: 1, RoundStartsAt: march, UserID: "bob", BasePoints: 5},
		result.RoundResult{RoundID: "r1", RoundNumber: 1, RoundStartsAt: march, UserID: "carol", BasePoints: 5},
		result.RoundResult{RoundID: "r2", RoundNumber: 2, RoundStartsAt: march.AddDate(0, 0, 7), UserID: "alice", BasePoints: 7},
		result.RoundResult{RoundID: "r2", RoundNumber: 2, RoundStartsAt: march.AddDate(0, 0, 7), UserID: "bob", BasePoints: 5},
	)

	got, err := env.leaderboardSvc.Standings(context.Background(), StandingsRequest{
		LeagueID: testLeagueID,
		ViewerID: "carol",
		Scope:    leaderboard.ScopeSeason,
	})
	require.NoError(t, err)

	want := []rankRow{
		{UserID: "alice", Rank: 1, Value: 10, Movement: leaderboard.MovementUp},
		{UserID: "bob", Rank: 1, Value: 10, Movement: leaderboard.MovementSame},
		{UserID: "carol", Rank: 3, Value: 5, Movement: leaderboard.MovementDown},
	}
	if diff := cmp.Diff(want, rankRows(got.Entries)); diff != "" {
		t.Fatalf("standings mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, "Alice", got.Entries[0].DisplayName)
}

func TestLeaderboardService_MonthAndExactScopes(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	march := time.Date(2026, time.March, 28, 15, 0, 0, 0, time.UTC)
	april := time.Date(2026, time.April, 4, 15, 0, 0, 0, time.UTC)
	seedResults(t, env,
		result.RoundResult{RoundID: "r1", RoundNumber: 1, RoundStartsAt: march, UserID: "alice", BasePoints: 10, ExactScores: 2},
		result.RoundResult{RoundID: "r1", RoundNumber: 1, RoundStartsAt: march, UserID: "bob", BasePoints: 3},
		result.RoundResult{RoundID: "r2", RoundNumber: 2, RoundStartsAt: april, UserID: "alice", BasePoints: 0},
		result.RoundResult{RoundID: "r2", RoundNumber: 2, RoundStartsAt: april, UserID: "bob", BasePoints: 6, ExactScores: 1},
	)

	monthly, err := env.leaderboardSvc.Standings(context.Background(), StandingsRequest{
		LeagueID: testLeagueID, ViewerID: "alice", Scope: leaderboard.ScopeMonth, Month: april,
	})
	require.NoError(t, err)
	assert.Equal(t, "2026-04", monthly.Month)
	require.NotEmpty(t, monthly.Entries)
	assert.Equal(t, "bob", monthly.Entries[0].UserID)
	assert.Equal(t, 6, monthly.Entries[0].Value)

	exact, err := env.leaderboardSvc.Standings(context.Background(), StandingsRequest{
		LeagueID: testLeagueID, ViewerID: "alice", Scope: leaderboard.ScopeExact,
	})
	require.NoError(t, err)
	require.Len(t, exact.Entries, 2)
	assert.Equal(t, "alice", exact.Entries[0].UserID)
	assert.Equal(t, 2, exact.Entries[0].Value)
}

func TestLeaderboardService_NonMemberForbidden(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	_, err := env.leaderboardSvc.Standings(context.Background(), StandingsRequest{LeagueID: testLeagueID, ViewerID: "mallory"})
	require.ErrorIs(t, err, ErrForbidden)

	_, err = env.leaderboardSvc.Standings(context.Background(), StandingsRequest{LeagueID: "nope", ViewerID: "alice"})
	require.ErrorIs(t, err, ErrNotFound)
}

func TestLeaderboardService_CacheInvalidatedOnFinalize(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	ctx := context.Background()
	req := StandingsRequest{LeagueID: testLeagueID, ViewerID: "alice"}

	before, err := env.leaderboardSvc.Standings(ctx, req)
	require.NoError(t, err)
	assert.Empty(t, before.Entries)

	r := env.publishRound(t, 1)
	env.predict(t, "alice", r, [2]int{1, 0}, [2]int{0, 0})
	env.playRound(t, r, [2]int{1, 0}, [2]int{0, 0})

	after, err := env.leaderboardSvc.Standings(ctx, req)
	require.NoError(t, err)
	require.Len(t, after.Entries, 3)
	assert.Equal(t, "alice", after.Entries[0].UserID)
	assert.Equal(t, 10, after.Entries[0].Value)
}

func TestLeaderboardService_OverviewAndSummary(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	env.clock.Set(time.Date(2026, time.April, 10, 0, 0, 0, 0, time.UTC))
	march := time.Date(2026, time.March, 28, 15, 0, 0, 0, time.UTC)
	april := time.Date(2026, time.April, 4, 15, 0, 0, 0, time.UTC)
	seedResults(t, env,
		result.RoundResult{RoundID: "r1", RoundNumber: 1, RoundStartsAt: march, UserID: "alice", BasePoints: 8, ExactScores: 1},
		result.RoundResult{RoundID: "r2", RoundNumber: 2, RoundStartsAt: april, UserID: "alice", BasePoints: 3, FinalPoints: 6, BoostApplied: true, BoostCode: "DOUBLE_DOWN"},
		result.RoundResult{RoundID: "r1", RoundNumber: 1, RoundStartsAt: march, UserID: "bob", BasePoints: 11},
	)

	overview, err := env.leaderboardSvc.Overview(context.Background(), testLeagueID, "bob")
	require.NoError(t, err)
	require.NotEmpty(t, overview.Season.Entries)
	assert.Equal(t, "alice", overview.Season.Entries[0].UserID)
	assert.Equal(t, "2026-04", overview.Month.Month)
	require.Len(t, overview.Month.Entries, 1)
	assert.Equal(t, 6, overview.Month.Entries[0].Value)
	assert.Equal(t, leaderboard.ScopeExact, overview.Exact.Scope)

	summary, err := env.leaderboardSvc.Summary(context.Background(), testLeagueID, "alice")
	require.NoError(t, err)
	assert.Equal(t, SeasonSummary{
		LeagueID:      testLeagueID,
		UserID:        "alice",
		DisplayName:   "Alice",
		Rank:          1,
		TotalPoints:   14,
		AveragePoints: 7,
		HighestPoints: 8,
		RoundsPlayed:  2,
		ExactScores:   1,
		BoostsUsed:    1,
	}, summary)
}

func TestLeaderboardService_IgnoresBoostOnUnfinalizedRound(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	env := newTestEnv(t, doubleDownRule())
	first := env.publishRound(t, 1)
	env.predict(t, "alice", first, [2]int{2, 1}, [2]int{0, 0})
	env.predict(t, "bob", first, [2]int{0, 3}, [2]int{1, 1})
	env.playRound(t, first, [2]int{2, 1}, [2]int{0, 0})

	standingsBefore, err := env.leaderboardSvc.Standings(ctx, StandingsRequest{LeagueID: testLeagueID, ViewerID: "alice"})
	require.NoError(t, err)
	summaryBefore, err := env.leaderboardSvc.Summary(ctx, testLeagueID, "alice")
	require.NoError(t, err)
	require.Equal(t, 1, summaryBefore.RoundsPlayed)

	second := env.publishRound(t, 2)
	applied, err := env.boostSvc.Apply(ctx, "alice", testLeagueID, second.ID, "DOUBLE_DOWN")
	require.NoError(t, err)
	require.True(t, applied.Applied)
	assert.False(t, applied.Result.Finalized)

	standingsAfter, err := env.leaderboardSvc.Standings(ctx, StandingsRequest{LeagueID: testLeagueID, ViewerID: "alice"})
	require.NoError(t, err)
	if diff := cmp.Diff(standingsBefore, standingsAfter); diff != "" {
		t.Fatalf("standings changed by a boost on an open round (-before +after):\n%s", diff)
	}
	summaryAfter, err := env.leaderboardSvc.Summary(ctx, testLeagueID, "alice")
	require.NoError(t, err)
	assert.Equal(t, summaryBefore, summaryAfter)

	overview, err := env.leaderboardSvc.Overview(ctx, testLeagueID, "alice")
	require.NoError(t, err)
	assert.Equal(t, rankRows(standingsBefore.Entries), rankRows(overview.Season.Entries))
}
