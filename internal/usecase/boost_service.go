package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/riskibarqy/prediction-league/internal/domain/boost"
	"github.com/riskibarqy/prediction-league/internal/domain/membership"
	"github.com/riskibarqy/prediction-league/internal/domain/result"
	"github.com/riskibarqy/prediction-league/internal/domain/round"
	"github.com/riskibarqy/prediction-league/internal/platform/logging"
	"go.opentelemetry.io/otel/attribute"
)

type BoostAvailability struct {
	Definition boost.Definition
	Effect     boost.Effect
	Decision   boost.Decision
}

type BoostOverview struct {
	LeagueID string
	RoundID  string
	Items    []BoostAvailability
}

type ApplyBoostResult struct {
	Decision boost.Decision
	Applied  bool
	Result   result.RoundResult
}

type BoostService struct {
	rounds      round.Repository
	memberships membership.Repository
	boosts      boost.Repository
	results     result.Repository
	catalog     *boost.Catalog
	invalidator LeaderboardInvalidator
	logger      *logging.Logger
	metrics     Metrics
	now         func() time.Time
}

type BoostServiceDeps struct {
	Rounds      round.Repository
	Memberships membership.Repository
	Boosts      boost.Repository
	Results     result.Repository
	Catalog     *boost.Catalog
	Invalidator LeaderboardInvalidator
	Logger      *logging.Logger
	Metrics     Metrics
}

func NewBoostService(deps BoostServiceDeps) *BoostService {
	logger := deps.Logger
	if logger == nil {
		logger = logging.Default()
	}
	catalog := deps.Catalog
	if catalog == nil {
		catalog = boost.DefaultCatalog()
	}
	return &BoostService{
		rounds:      deps.Rounds,
		memberships: deps.Memberships,
		boosts:      deps.Boosts,
		results:     deps.Results,
		catalog:     catalog,
		invalidator: deps.Invalidator,
		logger:      logger.Named("usecase.boost"),
		metrics:     metricsOrNop(deps.Metrics),
		now:         time.Now,
	}
}

// boostContext is the immutable input gathered once per request.
type boostContext struct {
	userID   string
	league   membership.League
	round    round.Round
	isMember bool
}

type evaluation struct {
	query    boost.SnapshotQuery
	snapshot boost.UsageSnapshot
	decision boost.Decision
}

// Overview evaluates every catalog boost for the user in one league round.
func (s *BoostService) Overview(ctx context.Context, userID, leagueID, roundID string) (BoostOverview, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.BoostService.Overview")
	defer span.End()

	bc, err := s.loadContext(ctx, userID, leagueID, roundID)
	if err != nil {
		return BoostOverview{}, err
	}

	rules, err := s.boosts.ListRules(ctx, bc.league.ID)
	if err != nil {
		return BoostOverview{}, fmt.Errorf("list boost rules: %w", err)
	}
	ruleByCode := make(map[string]boost.LeagueRule, len(rules))
	for _, rule := range rules {
		ruleByCode[boost.NormalizeCode(rule.Code)] = rule
	}

	out := BoostOverview{LeagueID: bc.league.ID, RoundID: bc.round.ID}
	for _, code := range s.catalog.Codes() {
		entry, _ := s.catalog.Lookup(code)
		rule, ok := ruleByCode[code]
		if !ok {
			rule = boost.LeagueRule{LeagueID: bc.league.ID, Code: code}
		}

		eval, err := s.evaluate(ctx, bc, rule)
		if err != nil {
			return BoostOverview{}, err
		}
		out.Items = append(out.Items, BoostAvailability{
			Definition: entry.Definition,
			Effect:     entry.Effect,
			Decision:   eval.decision,
		})
	}

	return out, nil
}

// Evaluate returns the eligibility decision for a single boost code.
func (s *BoostService) Evaluate(ctx context.Context, userID, leagueID, roundID, code string) (boost.Decision, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.BoostService.Evaluate")
	defer span.End()

	bc, err := s.loadContext(ctx, userID, leagueID, roundID)
	if err != nil {
		return boost.Decision{}, err
	}
	rule, err := s.loadRule(ctx, bc.league.ID, code)
	if err != nil {
		return boost.Decision{}, err
	}

	eval, err := s.evaluate(ctx, bc, rule)
	if err != nil {
		return boost.Decision{}, err
	}
	s.metrics.BoostDecision(rule.Code, string(eval.decision.Outcome))
	return eval.decision, nil
}

// Apply plays a boost for the user's round result. A decision other than
// Allowed is returned with Applied=false and no error; a usage race surfaces
// as ErrConflict so the caller can re-evaluate.
func (s *BoostService) Apply(ctx context.Context, userID, leagueID, roundID, code string) (ApplyBoostResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.BoostService.Apply",
		userAttr(userID), leagueAttr(leagueID), roundAttr(roundID), attribute.String("boost.code", code))
	defer span.End()

	bc, err := s.loadContext(ctx, userID, leagueID, roundID)
	if err != nil {
		return ApplyBoostResult{}, err
	}
	if err := round.AcceptsPredictions(bc.round, s.now()); err != nil {
		return ApplyBoostResult{}, fmt.Errorf("%w: boosts are played before the round deadline: %w", ErrForbidden, err)
	}
	rule, err := s.loadRule(ctx, bc.league.ID, code)
	if err != nil {
		return ApplyBoostResult{}, err
	}
	effect, err := s.catalog.Effect(rule.Code)
	if err != nil {
		return ApplyBoostResult{}, fmt.Errorf("%w: %w", ErrNotFound, err)
	}

	eval, err := s.evaluate(ctx, bc, rule)
	if err != nil {
		return ApplyBoostResult{}, err
	}
	s.metrics.BoostDecision(rule.Code, string(eval.decision.Outcome))
	if !eval.decision.Allowed() {
		return ApplyBoostResult{Decision: eval.decision}, nil
	}

	base, exists, err := s.results.Get(ctx, bc.league.ID, bc.round.ID, bc.userID)
	if err != nil {
		return ApplyBoostResult{}, fmt.Errorf("get round result: %w", err)
	}
	if !exists {
		base = result.RoundResult{
			LeagueID:      bc.league.ID,
			SeasonID:      bc.round.SeasonID,
			RoundID:       bc.round.ID,
			RoundNumber:   bc.round.Number,
			RoundStartsAt: bc.round.StartsAt,
			UserID:        bc.userID,
		}
	}

	now := s.now().UTC()
	boosted, usage, err := boost.Apply(eval.decision, base, rule.Code, effect, now)
	if err != nil {
		if errors.Is(err, boost.ErrAlreadyBoosted) {
			return ApplyBoostResult{}, spanFailed(span, fmt.Errorf("%w: %w", ErrConflict, err))
		}
		s.logger.ErrorContext(ctx, "apply boost contract violation", "user_id", bc.userID, "league_id", bc.league.ID, "round_id", bc.round.ID, "code", rule.Code, "error", err)
		return ApplyBoostResult{}, err
	}
	boosted.CalculatedAt = now

	accept := func(locked round.Round) error {
		if err := round.AcceptsPredictions(locked, s.now()); err != nil {
			return fmt.Errorf("%w: boosts are played before the round deadline: %w", ErrForbidden, err)
		}
		return nil
	}
	if err := s.boosts.RecordBoost(ctx, eval.query, eval.snapshot, usage, boosted, accept); err != nil {
		if errors.Is(err, boost.ErrUsageConflict) {
			s.metrics.BoostConflict(rule.Code)
			s.logger.WarnContext(ctx, "boost usage conflict", "user_id", bc.userID, "league_id", bc.league.ID, "round_id", bc.round.ID, "code", rule.Code)
			return ApplyBoostResult{}, spanFailed(span, fmt.Errorf("%w: %w", ErrConflict, err))
		}
		return ApplyBoostResult{}, fmt.Errorf("record boost: %w", err)
	}

	s.metrics.BoostApplied(rule.Code)
	if s.invalidator != nil {
		s.invalidator.InvalidateLeague(ctx, bc.league.ID)
	}
	s.logger.InfoContext(ctx, "boost applied",
		"user_id", bc.userID,
		"league_id", bc.league.ID,
		"round_id", bc.round.ID,
		"code", rule.Code,
		"remaining_season_uses", eval.decision.RemainingSeasonUses,
	)

	return ApplyBoostResult{Decision: eval.decision, Applied: true, Result: boosted}, nil
}

func (s *BoostService) loadContext(ctx context.Context, userID, leagueID, roundID string) (boostContext, error) {
	userID = strings.TrimSpace(userID)
	leagueID = strings.TrimSpace(leagueID)
	roundID = strings.TrimSpace(roundID)
	if userID == "" {
		return boostContext{}, fmt.Errorf("%w: user id is required", ErrUnauthorized)
	}
	if leagueID == "" || roundID == "" {
		return boostContext{}, fmt.Errorf("%w: league id and round id are required", ErrInvalidInput)
	}

	league, exists, err := s.memberships.GetLeague(ctx, leagueID)
	if err != nil {
		return boostContext{}, fmt.Errorf("get league: %w", err)
	}
	if !exists {
		return boostContext{}, fmt.Errorf("%w: league=%s", ErrNotFound, leagueID)
	}

	current, exists, err := s.rounds.GetByID(ctx, roundID)
	if err != nil {
		return boostContext{}, fmt.Errorf("get round: %w", err)
	}
	if !exists || current.Status == round.StatusDraft {
		return boostContext{}, fmt.Errorf("%w: round=%s", ErrNotFound, roundID)
	}

	isMember, err := s.memberships.IsMember(ctx, leagueID, userID)
	if err != nil {
		return boostContext{}, fmt.Errorf("check membership: %w", err)
	}

	return boostContext{userID: userID, league: league, round: current, isMember: isMember}, nil
}

func (s *BoostService) loadRule(ctx context.Context, leagueID, code string) (boost.LeagueRule, error) {
	code = boost.NormalizeCode(code)
	if code == "" {
		return boost.LeagueRule{}, fmt.Errorf("%w: boost code is required", ErrInvalidInput)
	}
	if _, ok := s.catalog.Lookup(code); !ok {
		return boost.LeagueRule{}, fmt.Errorf("%w: boost=%s", ErrNotFound, code)
	}

	rule, exists, err := s.boosts.GetRule(ctx, leagueID, code)
	if err != nil {
		return boost.LeagueRule{}, fmt.Errorf("get boost rule: %w", err)
	}
	if !exists {
		rule = boost.LeagueRule{LeagueID: leagueID, Code: code}
	}
	rule.Code = code
	return rule, nil
}

func (s *BoostService) evaluate(ctx context.Context, bc boostContext, rule boost.LeagueRule) (evaluation, error) {
	q := boost.SnapshotQuery{
		UserID:   bc.userID,
		LeagueID: bc.league.ID,
		SeasonID: bc.league.SeasonID,
		Code:     rule.Code,
		RoundID:  bc.round.ID,
	}
	if window, ok := boost.ActiveWindow(rule.Windows, bc.round.Number); ok {
		q.Window = &window
	}

	snapshot, err := s.boosts.Snapshot(ctx, q)
	if err != nil {
		return evaluation{}, fmt.Errorf("read boost usage: %w", err)
	}

	inSeason := bc.round.SeasonID == bc.league.SeasonID
	decision := boost.Evaluate(boost.NewEligibilityInput(rule, snapshot, bc.round.Number, bc.isMember, inSeason))
	return evaluation{query: q, snapshot: snapshot, decision: decision}, nil
}
