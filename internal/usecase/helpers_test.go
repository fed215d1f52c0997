package usecase

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/riskibarqy/prediction-league/internal/domain/boost"
	"github.com/riskibarqy/prediction-league/internal/domain/leaderboard"
	"github.com/riskibarqy/prediction-league/internal/domain/membership"
	"github.com/riskibarqy/prediction-league/internal/domain/round"
	"github.com/riskibarqy/prediction-league/internal/infrastructure/repository/memory"
	"github.com/riskibarqy/prediction-league/internal/platform/cache"
	"github.com/riskibarqy/prediction-league/internal/platform/logging"
	"github.com/stretchr/testify/require"
)

const (
	testSeasonID = "season-test"
	testLeagueID = "league-test"
)

type sequenceIDs struct {
	n atomic.Int64
}

func (g *sequenceIDs) NewID() (string, error) {
	return fmt.Sprintf("id-%03d", g.n.Add(1)), nil
}

type testClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *testClock) Set(t time.Time) {
	c.mu.Lock()
	c.now = t
	c.mu.Unlock()
}

type recordingMetrics struct {
	nopMetrics
	mu        sync.Mutex
	applied   map[string]int
	conflicts int
	rejected  map[string]int
}

func newRecordingMetrics() *recordingMetrics {
	return &recordingMetrics{applied: map[string]int{}, rejected: map[string]int{}}
}

func (m *recordingMetrics) BoostApplied(code string) {
	m.mu.Lock()
	m.applied[code]++
	m.mu.Unlock()
}

func (m *recordingMetrics) BoostConflict(string) {
	m.mu.Lock()
	m.conflicts++
	m.mu.Unlock()
}

func (m *recordingMetrics) PredictionRejected(reason string) {
	m.mu.Lock()
	m.rejected[reason]++
	m.mu.Unlock()
}

type testEnv struct {
	clock       *testClock
	metrics     *recordingMetrics
	rounds      *memory.RoundRepository
	predictions *memory.PredictionRepository
	memberships *memory.MembershipRepository
	results     *memory.ResultRepository
	boosts      *memory.BoostRepository

	roundSvc       *RoundService
	predictionSvc  *PredictionService
	resultSvc      *ResultService
	boostSvc       *BoostService
	leaderboardSvc *LeaderboardService
	leagueSvc      *LeagueService
}

func newTestEnv(t *testing.T, rules ...boost.LeagueRule) *testEnv {
	t.Helper()

	clock := &testClock{now: time.Date(2026, time.March, 1, 9, 0, 0, 0, time.UTC)}
	metrics := newRecordingMetrics()
	logger := logging.NewNop()
	ids := &sequenceIDs{}

	rounds := memory.NewRoundRepository(nil)
	predictions := memory.NewPredictionRepository(rounds)
	memberships := memory.NewMembershipRepository(
		[]membership.League{{ID: testLeagueID, SeasonID: testSeasonID, Name: "Test League", OwnerUserID: "alice"}},
		[]membership.Member{
			{LeagueID: testLeagueID, UserID: "alice", DisplayName: "Alice"},
			{LeagueID: testLeagueID, UserID: "bob", DisplayName: "Bob"},
			{LeagueID: testLeagueID, UserID: "carol", DisplayName: "Carol"},
		},
	)
	results := memory.NewResultRepository()
	boosts := memory.NewBoostRepository(rules, rounds, results)

	leaderboardSvc := NewLeaderboardService(memberships, results, cache.NewStore(time.Minute), leaderboard.RankingCompetition, logger)
	resultSvc := NewResultService(ResultServiceDeps{
		Rounds:      rounds,
		Predictions: predictions,
		Memberships: memberships,
		Results:     results,
		Invalidator: leaderboardSvc,
		Logger:      logger,
		Metrics:     metrics,
		MaxWorkers:  2,
	})
	env := &testEnv{
		clock:          clock,
		metrics:        metrics,
		rounds:         rounds,
		predictions:    predictions,
		memberships:    memberships,
		results:        results,
		boosts:         boosts,
		resultSvc:      resultSvc,
		leaderboardSvc: leaderboardSvc,
		roundSvc:       NewRoundService(rounds, ids, resultSvc, logger, metrics),
		predictionSvc:  NewPredictionService(rounds, predictions, logger, metrics),
		boostSvc: NewBoostService(BoostServiceDeps{
			Rounds:      rounds,
			Memberships: memberships,
			Boosts:      boosts,
			Results:     results,
			Invalidator: leaderboardSvc,
			Logger:      logger,
			Metrics:     metrics,
		}),
		leagueSvc: NewLeagueService(memberships, boosts, nil, ids, logger),
	}

	env.roundSvc.now = clock.Now
	env.predictionSvc.now = clock.Now
	env.resultSvc.now = clock.Now
	env.boostSvc.now = clock.Now
	env.leaderboardSvc.now = clock.Now
	env.leagueSvc.now = clock.Now
	return env
}

// publishRound creates a published round with two matches whose deadline is
// one day after the current test clock.
func (e *testEnv) publishRound(t *testing.T, number int) round.Round {
	t.Helper()
	ctx := context.Background()

	startsAt := e.clock.Now().Add(25 * time.Hour)
	created, err := e.roundSvc.CreateRound(ctx, CreateRoundInput{
		SeasonID:   testSeasonID,
		Number:     number,
		StartsAt:   startsAt,
		DeadlineAt: startsAt.Add(-time.Hour),
	})
	require.NoError(t, err)

	_, err = e.roundSvc.AddMatch(ctx, AddMatchInput{RoundID: created.ID, HomeTeamID: "home-a", AwayTeamID: "away-a", KickoffAt: startsAt})
	require.NoError(t, err)
	_, err = e.roundSvc.AddMatch(ctx, AddMatchInput{RoundID: created.ID, HomeTeamID: "home-b", AwayTeamID: "away-b", KickoffAt: startsAt.Add(2 * time.Hour)})
	require.NoError(t, err)

	published, err := e.roundSvc.Publish(ctx, created.ID, nil)
	require.NoError(t, err)
	return published
}

// playRound moves the clock past the deadline, records scores in match order
// and completes the round.
func (e *testEnv) playRound(t *testing.T, r round.Round, scores ...[2]int) (round.Round, FinalizeReport) {
	t.Helper()
	ctx := context.Background()

	e.clock.Set(r.StartsAt.Add(3 * time.Hour))
	require.Len(t, scores, len(r.Matches))
	for i, m := range r.Matches {
		_, err := e.roundSvc.StartMatch(ctx, m.ID)
		require.NoError(t, err)
		_, err = e.roundSvc.RecordMatchResult(ctx, m.ID, scores[i][0], scores[i][1])
		require.NoError(t, err)
	}

	completed, report, err := e.roundSvc.Complete(ctx, r.ID, nil)
	require.NoError(t, err)
	return completed, report
}

func (e *testEnv) predict(t *testing.T, userID string, r round.Round, scores ...[2]int) {
	t.Helper()

	inputs := make([]PredictionInput, 0, len(scores))
	for i, s := range scores {
		inputs = append(inputs, PredictionInput{MatchID: r.Matches[i].ID, HomeScore: s[0], AwayScore: s[1]})
	}
	_, err := e.predictionSvc.Submit(context.Background(), userID, r.ID, inputs)
	require.NoError(t, err)
}
