package usecase

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/grafana/pyroscope-go"
	"github.com/panjf2000/ants/v2"
	"github.com/riskibarqy/prediction-league/internal/domain/boost"
	"github.com/riskibarqy/prediction-league/internal/domain/membership"
	"github.com/riskibarqy/prediction-league/internal/domain/prediction"
	"github.com/riskibarqy/prediction-league/internal/domain/result"
	"github.com/riskibarqy/prediction-league/internal/domain/round"
	"github.com/riskibarqy/prediction-league/internal/platform/logging"
)

const defaultFinalizeWorkers = 4

// LeaderboardInvalidator drops cached standings for a league.
type LeaderboardInvalidator interface {
	InvalidateLeague(ctx context.Context, leagueID string)
}

type FinalizeReport struct {
	RoundID string
	Leagues []LeagueFinalizeResult
}

type LeagueFinalizeResult struct {
	LeagueID    string
	Rows        int
	BoostedRows int
	Err         error
}

type ResultService struct {
	rounds      round.Repository
	predictions prediction.Repository
	memberships membership.Repository
	results     result.Repository
	catalog     *boost.Catalog
	invalidator LeaderboardInvalidator
	logger      *logging.Logger
	metrics     Metrics
	workers     int
	now         func() time.Time
}

type ResultServiceDeps struct {
	Rounds      round.Repository
	Predictions prediction.Repository
	Memberships membership.Repository
	Results     result.Repository
	Catalog     *boost.Catalog
	Invalidator LeaderboardInvalidator
	Logger      *logging.Logger
	Metrics     Metrics
	MaxWorkers  int
}

func NewResultService(deps ResultServiceDeps) *ResultService {
	logger := deps.Logger
	if logger == nil {
		logger = logging.Default()
	}
	catalog := deps.Catalog
	if catalog == nil {
		catalog = boost.DefaultCatalog()
	}
	workers := deps.MaxWorkers
	if workers <= 0 {
		workers = defaultFinalizeWorkers
	}
	return &ResultService{
		rounds:      deps.Rounds,
		predictions: deps.Predictions,
		memberships: deps.Memberships,
		results:     deps.Results,
		catalog:     catalog,
		invalidator: deps.Invalidator,
		logger:      logger.Named("usecase.result"),
		metrics:     metricsOrNop(deps.Metrics),
		workers:     workers,
		now:         time.Now,
	}
}

// FinalizeRound scores a completed round and writes one result row per member
// for every league bound to the round's season. It is idempotent; rows that
// already carry a boost keep it and get their final points recomputed.
func (s *ResultService) FinalizeRound(ctx context.Context, roundID string) (FinalizeReport, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ResultService.FinalizeRound", roundAttr(roundID))
	defer span.End()

	roundID = strings.TrimSpace(roundID)
	if roundID == "" {
		return FinalizeReport{}, fmt.Errorf("%w: round id is required", ErrInvalidInput)
	}

	started := time.Now()
	current, exists, err := s.rounds.GetByID(ctx, roundID)
	if err != nil {
		return FinalizeReport{}, fmt.Errorf("get round: %w", err)
	}
	if !exists {
		return FinalizeReport{}, fmt.Errorf("%w: round=%s", ErrNotFound, roundID)
	}
	if current.Status != round.StatusCompleted {
		return FinalizeReport{}, fmt.Errorf("%w: round=%s is %s, not completed", ErrInvalidInput, roundID, current.Status)
	}

	leagues, err := s.memberships.ListLeaguesBySeason(ctx, current.SeasonID)
	if err != nil {
		return FinalizeReport{}, fmt.Errorf("list leagues by season: %w", err)
	}
	predictions, err := s.predictions.ListByRound(ctx, current.ID)
	if err != nil {
		return FinalizeReport{}, fmt.Errorf("list predictions by round: %w", err)
	}
	tallies := prediction.ScoreRound(current.Matches, predictions)

	report := FinalizeReport{RoundID: current.ID}
	if len(leagues) == 0 {
		return report, nil
	}

	pool, err := ants.NewPool(min(s.workers, len(leagues)))
	if err != nil {
		return FinalizeReport{}, fmt.Errorf("create worker pool: %w", err)
	}
	defer pool.Release()

	var (
		mu      sync.Mutex
		workers sync.WaitGroup
		rows    = make([]LeagueFinalizeResult, 0, len(leagues))
	)
	calculatedAt := s.now().UTC()
	for _, league := range leagues {
		league := league
		workers.Add(1)
		if err := pool.Submit(func() {
			defer workers.Done()

			// Profiles taken while a league is scored carry its id.
			pyroscope.TagWrapper(ctx, pyroscope.Labels("league_id", league.ID), func(ctx context.Context) {
				row := s.finalizeLeague(ctx, current, league, tallies, calculatedAt)
				mu.Lock()
				rows = append(rows, row)
				mu.Unlock()
			})
		}); err != nil {
			workers.Done()
			workers.Wait()
			return FinalizeReport{}, fmt.Errorf("submit finalize task: %w", err)
		}
	}
	workers.Wait()

	sort.Slice(rows, func(i, j int) bool { return rows[i].LeagueID < rows[j].LeagueID })
	report.Leagues = rows

	var combined error
	for _, row := range rows {
		if row.Err != nil {
			combined = errors.CombineErrors(combined, errors.Wrapf(row.Err, "league=%s", row.LeagueID))
		}
	}

	s.metrics.RoundFinalized(len(leagues), time.Since(started))
	s.logger.InfoContext(ctx, "round finalized",
		"round_id", current.ID,
		"leagues", len(leagues),
		"predictions", len(predictions),
		"failed", combined != nil,
	)
	if combined != nil {
		return report, spanFailed(span, fmt.Errorf("finalize round %s: %w", current.ID, combined))
	}
	return report, nil
}

func (s *ResultService) finalizeLeague(ctx context.Context, current round.Round, league membership.League, tallies map[string]prediction.Tally, calculatedAt time.Time) LeagueFinalizeResult {
	out := LeagueFinalizeResult{LeagueID: league.ID}

	members, err := s.memberships.ListMembers(ctx, league.ID)
	if err != nil {
		out.Err = fmt.Errorf("list members: %w", err)
		return out
	}
	existing, err := s.results.ListByRound(ctx, league.ID, current.ID)
	if err != nil {
		out.Err = fmt.Errorf("list existing results: %w", err)
		return out
	}
	boosted := make(map[string]result.RoundResult, len(existing))
	for _, row := range existing {
		if row.BoostApplied {
			boosted[row.UserID] = row
		}
	}

	items := make([]result.RoundResult, 0, len(members))
	for _, member := range members {
		tally := tallies[member.UserID]
		row := result.RoundResult{
			LeagueID:      league.ID,
			SeasonID:      current.SeasonID,
			RoundID:       current.ID,
			RoundNumber:   current.Number,
			RoundStartsAt: current.StartsAt,
			UserID:        member.UserID,
			BasePoints:    tally.Points,
			FinalPoints:   tally.Points,
			ExactScores:   tally.ExactScores,
			Finalized:     true,
			CalculatedAt:  calculatedAt,
		}
		if prior, ok := boosted[member.UserID]; ok {
			effect, err := s.catalog.Effect(prior.BoostCode)
			if err != nil {
				out.Err = fmt.Errorf("boost effect for user=%s: %w", member.UserID, err)
				return out
			}
			row.BoostApplied = true
			row.BoostCode = prior.BoostCode
			row, err = boost.Reapply(row, effect)
			if err != nil {
				out.Err = fmt.Errorf("reapply boost for user=%s: %w", member.UserID, err)
				return out
			}
			out.BoostedRows++
		}
		items = append(items, row)
	}

	if err := s.results.UpsertBase(ctx, items); err != nil {
		out.Err = fmt.Errorf("upsert results: %w", err)
		return out
	}
	out.Rows = len(items)

	if s.invalidator != nil {
		s.invalidator.InvalidateLeague(ctx, league.ID)
	}
	return out
}
