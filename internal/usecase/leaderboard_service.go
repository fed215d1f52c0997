package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/riskibarqy/prediction-league/internal/domain/leaderboard"
	"github.com/riskibarqy/prediction-league/internal/domain/membership"
	"github.com/riskibarqy/prediction-league/internal/domain/result"
	"github.com/riskibarqy/prediction-league/internal/platform/cache"
	"github.com/riskibarqy/prediction-league/internal/platform/logging"
	"github.com/sourcegraph/conc"
)

const leaderboardCachePrefix = "leaderboard:"

type StandingsRequest struct {
	LeagueID string
	ViewerID string
	Scope    leaderboard.Scope
	// Month is read only for the month scope; any instant inside the month works.
	Month time.Time
}

type Standings struct {
	LeagueID string
	Scope    leaderboard.Scope
	Month    string
	Policy   leaderboard.RankingPolicy
	Entries  []leaderboard.Entry
}

type LeaderboardOverview struct {
	LeagueID string
	Season   Standings
	Month    Standings
	Exact    Standings
}

// SeasonSummary is one member's running totals inside a league.
type SeasonSummary struct {
	LeagueID      string
	UserID        string
	DisplayName   string
	Rank          int
	TotalPoints   int
	AveragePoints float64
	HighestPoints int
	RoundsPlayed  int
	ExactScores   int
	BoostsUsed    int
}

type LeaderboardService struct {
	memberships membership.Repository
	results     result.Repository
	cache       *cache.Store
	policy      leaderboard.RankingPolicy
	logger      *logging.Logger
	now         func() time.Time
}

// NewLeaderboardService builds the service; store may be nil to disable caching.
func NewLeaderboardService(memberships membership.Repository, results result.Repository, store *cache.Store, policy leaderboard.RankingPolicy, logger *logging.Logger) *LeaderboardService {
	if logger == nil {
		logger = logging.Default()
	}
	if policy == "" {
		policy = leaderboard.RankingCompetition
	}
	return &LeaderboardService{
		memberships: memberships,
		results:     results,
		cache:       store,
		policy:      policy,
		logger:      logger.Named("usecase.leaderboard"),
		now:         time.Now,
	}
}

func (s *LeaderboardService) Standings(ctx context.Context, req StandingsRequest) (Standings, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.LeaderboardService.Standings")
	defer span.End()

	leagueID, err := s.authorize(ctx, req.LeagueID, req.ViewerID)
	if err != nil {
		return Standings{}, err
	}
	scope := req.Scope
	if scope == "" {
		scope = leaderboard.ScopeSeason
	}
	month := req.Month
	if scope == leaderboard.ScopeMonth && month.IsZero() {
		month = s.now()
	}

	key := standingsCacheKey(leagueID, scope, month, s.policy)
	value, err := s.cache.GetOrLoad(ctx, key, func(ctx context.Context) (any, error) {
		rows, names, err := s.loadLeague(ctx, leagueID)
		if err != nil {
			return nil, err
		}
		return s.build(leagueID, rows, names, scope, month), nil
	})
	if err != nil {
		return Standings{}, err
	}

	return value.(Standings), nil
}

// Overview builds the season, current month and exact-score tables from one
// read of the league's results.
func (s *LeaderboardService) Overview(ctx context.Context, leagueID, viewerID string) (LeaderboardOverview, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.LeaderboardService.Overview")
	defer span.End()

	leagueID, err := s.authorize(ctx, leagueID, viewerID)
	if err != nil {
		return LeaderboardOverview{}, err
	}
	rows, names, err := s.loadLeague(ctx, leagueID)
	if err != nil {
		return LeaderboardOverview{}, err
	}

	now := s.now()
	out := LeaderboardOverview{LeagueID: leagueID}
	var wg conc.WaitGroup
	wg.Go(func() { out.Season = s.build(leagueID, rows, names, leaderboard.ScopeSeason, time.Time{}) })
	wg.Go(func() { out.Month = s.build(leagueID, rows, names, leaderboard.ScopeMonth, now) })
	wg.Go(func() { out.Exact = s.build(leagueID, rows, names, leaderboard.ScopeExact, time.Time{}) })
	wg.Wait()

	return out, nil
}

func (s *LeaderboardService) Summary(ctx context.Context, leagueID, userID string) (SeasonSummary, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.LeaderboardService.Summary")
	defer span.End()

	leagueID, err := s.authorize(ctx, leagueID, userID)
	if err != nil {
		return SeasonSummary{}, err
	}
	userID = strings.TrimSpace(userID)

	rows, names, err := s.loadLeague(ctx, leagueID)
	if err != nil {
		return SeasonSummary{}, err
	}

	out := SeasonSummary{LeagueID: leagueID, UserID: userID, DisplayName: names[userID]}
	for _, row := range rows {
		if row.UserID != userID {
			continue
		}
		if out.RoundsPlayed == 0 || row.FinalPoints > out.HighestPoints {
			out.HighestPoints = row.FinalPoints
		}
		out.TotalPoints += row.FinalPoints
		out.ExactScores += row.ExactScores
		out.RoundsPlayed++
		if row.BoostApplied {
			out.BoostsUsed++
		}
	}
	if out.RoundsPlayed > 0 {
		out.AveragePoints = float64(out.TotalPoints) / float64(out.RoundsPlayed)
	}

	season := leaderboard.Aggregate(rows, leaderboard.Query{Scope: leaderboard.ScopeSeason, Policy: s.policy}, names)
	for _, entry := range season {
		if entry.UserID == userID {
			out.Rank = entry.Rank
			break
		}
	}

	return out, nil
}

func (s *LeaderboardService) InvalidateLeague(ctx context.Context, leagueID string) {
	s.cache.DeletePrefix(ctx, leaderboardCachePrefix+leagueID+":")
}

func (s *LeaderboardService) authorize(ctx context.Context, leagueID, viewerID string) (string, error) {
	leagueID = strings.TrimSpace(leagueID)
	viewerID = strings.TrimSpace(viewerID)
	if viewerID == "" {
		return "", fmt.Errorf("%w: user id is required", ErrUnauthorized)
	}
	if leagueID == "" {
		return "", fmt.Errorf("%w: league id is required", ErrInvalidInput)
	}

	_, exists, err := s.memberships.GetLeague(ctx, leagueID)
	if err != nil {
		return "", fmt.Errorf("get league: %w", err)
	}
	if !exists {
		return "", fmt.Errorf("%w: league=%s", ErrNotFound, leagueID)
	}
	isMember, err := s.memberships.IsMember(ctx, leagueID, viewerID)
	if err != nil {
		return "", fmt.Errorf("check membership: %w", err)
	}
	if !isMember {
		return "", fmt.Errorf("%w: user=%s is not a member of league=%s", ErrForbidden, viewerID, leagueID)
	}

	return leagueID, nil
}

func (s *LeaderboardService) loadLeague(ctx context.Context, leagueID string) ([]result.RoundResult, map[string]string, error) {
	all, err := s.results.ListByLeague(ctx, leagueID)
	if err != nil {
		return nil, nil, fmt.Errorf("list league results: %w", err)
	}
	// Rows a boost created ahead of finalization carry no points yet.
	rows := make([]result.RoundResult, 0, len(all))
	for _, row := range all {
		if row.Finalized {
			rows = append(rows, row)
		}
	}
	members, err := s.memberships.ListMembers(ctx, leagueID)
	if err != nil {
		return nil, nil, fmt.Errorf("list league members: %w", err)
	}

	names := make(map[string]string, len(members))
	for _, m := range members {
		names[m.UserID] = m.DisplayName
	}
	return rows, names, nil
}

// build ranks rows and compares them with the table as it stood before the
// latest round in scope.
func (s *LeaderboardService) build(leagueID string, rows []result.RoundResult, names map[string]string, scope leaderboard.Scope, month time.Time) Standings {
	q := leaderboard.Query{Scope: scope, Month: month, Policy: s.policy}
	current := leaderboard.Aggregate(rows, q, names)

	latest := 0
	for _, row := range rows {
		if row.RoundNumber > latest {
			latest = row.RoundNumber
		}
	}
	previousRows := make([]result.RoundResult, 0, len(rows))
	for _, row := range rows {
		if row.RoundNumber < latest {
			previousRows = append(previousRows, row)
		}
	}
	previous := leaderboard.Aggregate(previousRows, q, names)

	out := Standings{
		LeagueID: leagueID,
		Scope:    scope,
		Policy:   s.policy,
		Entries:  leaderboard.WithMovement(current, previous),
	}
	if scope == leaderboard.ScopeMonth {
		out.Month = month.UTC().Format("2006-01")
	}
	return out
}

func standingsCacheKey(leagueID string, scope leaderboard.Scope, month time.Time, policy leaderboard.RankingPolicy) string {
	key := leaderboardCachePrefix + leagueID + ":" + string(scope) + ":" + string(policy)
	if scope == leaderboard.ScopeMonth {
		key += ":" + month.UTC().Format("2006-01")
	}
	return key
}
