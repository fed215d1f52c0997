package guarded

import (
	"context"

	"github.com/riskibarqy/prediction-league/internal/domain/boost"
	"github.com/riskibarqy/prediction-league/internal/domain/membership"
	"github.com/riskibarqy/prediction-league/internal/domain/prediction"
	"github.com/riskibarqy/prediction-league/internal/domain/result"
	"github.com/riskibarqy/prediction-league/internal/domain/round"
	"github.com/riskibarqy/prediction-league/internal/platform/resilience"
)

type RoundRepository struct {
	next round.Repository
	guard
}

func NewRoundRepository(next round.Repository, breaker *resilience.CircuitBreaker) *RoundRepository {
	return &RoundRepository{next: next, guard: guard{breaker: breaker}}
}

func (r *RoundRepository) Create(ctx context.Context, item round.Round) error {
	return r.run(ctx, func(ctx context.Context) error { return r.next.Create(ctx, item) })
}

func (r *RoundRepository) GetByID(ctx context.Context, roundID string) (round.Round, bool, error) {
	return lookup(ctx, r.guard, func(ctx context.Context) (round.Round, bool, error) { return r.next.GetByID(ctx, roundID) })
}

func (r *RoundRepository) GetByMatchID(ctx context.Context, matchID string) (round.Round, bool, error) {
	return lookup(ctx, r.guard, func(ctx context.Context) (round.Round, bool, error) { return r.next.GetByMatchID(ctx, matchID) })
}

func (r *RoundRepository) ListBySeason(ctx context.Context, seasonID string) ([]round.Round, error) {
	return value(ctx, r.guard, func(ctx context.Context) ([]round.Round, error) { return r.next.ListBySeason(ctx, seasonID) })
}

func (r *RoundRepository) AddMatch(ctx context.Context, m round.Match, expectedVersion int) error {
	return r.run(ctx, func(ctx context.Context) error { return r.next.AddMatch(ctx, m, expectedVersion) })
}

func (r *RoundRepository) UpdateMatch(ctx context.Context, m round.Match) error {
	return r.run(ctx, func(ctx context.Context) error { return r.next.UpdateMatch(ctx, m) })
}

func (r *RoundRepository) UpdateStatus(ctx context.Context, item round.Round, expectedVersion int) error {
	return r.run(ctx, func(ctx context.Context) error { return r.next.UpdateStatus(ctx, item, expectedVersion) })
}

type PredictionRepository struct {
	next prediction.Repository
	guard
}

func NewPredictionRepository(next prediction.Repository, breaker *resilience.CircuitBreaker) *PredictionRepository {
	return &PredictionRepository{next: next, guard: guard{breaker: breaker}}
}

func (r *PredictionRepository) Upsert(ctx context.Context, items []prediction.Prediction, accept prediction.AcceptFunc) error {
	return r.run(ctx, func(ctx context.Context) error { return r.next.Upsert(ctx, items, accept) })
}

func (r *PredictionRepository) ListByRound(ctx context.Context, roundID string) ([]prediction.Prediction, error) {
	return value(ctx, r.guard, func(ctx context.Context) ([]prediction.Prediction, error) { return r.next.ListByRound(ctx, roundID) })
}

func (r *PredictionRepository) ListByUserAndRound(ctx context.Context, userID, roundID string) ([]prediction.Prediction, error) {
	return value(ctx, r.guard, func(ctx context.Context) ([]prediction.Prediction, error) {
		return r.next.ListByUserAndRound(ctx, userID, roundID)
	})
}

type MembershipRepository struct {
	next membership.Repository
	guard
}

func NewMembershipRepository(next membership.Repository, breaker *resilience.CircuitBreaker) *MembershipRepository {
	return &MembershipRepository{next: next, guard: guard{breaker: breaker}}
}

func (r *MembershipRepository) CreateLeague(ctx context.Context, league membership.League) error {
	return r.run(ctx, func(ctx context.Context) error { return r.next.CreateLeague(ctx, league) })
}

func (r *MembershipRepository) GetLeague(ctx context.Context, leagueID string) (membership.League, bool, error) {
	return lookup(ctx, r.guard, func(ctx context.Context) (membership.League, bool, error) { return r.next.GetLeague(ctx, leagueID) })
}

func (r *MembershipRepository) ListLeaguesBySeason(ctx context.Context, seasonID string) ([]membership.League, error) {
	return value(ctx, r.guard, func(ctx context.Context) ([]membership.League, error) { return r.next.ListLeaguesBySeason(ctx, seasonID) })
}

func (r *MembershipRepository) AddMember(ctx context.Context, member membership.Member) error {
	return r.run(ctx, func(ctx context.Context) error { return r.next.AddMember(ctx, member) })
}

func (r *MembershipRepository) ListMembers(ctx context.Context, leagueID string) ([]membership.Member, error) {
	return value(ctx, r.guard, func(ctx context.Context) ([]membership.Member, error) { return r.next.ListMembers(ctx, leagueID) })
}

func (r *MembershipRepository) IsMember(ctx context.Context, leagueID, userID string) (bool, error) {
	return value(ctx, r.guard, func(ctx context.Context) (bool, error) { return r.next.IsMember(ctx, leagueID, userID) })
}

type ResultRepository struct {
	next result.Repository
	guard
}

func NewResultRepository(next result.Repository, breaker *resilience.CircuitBreaker) *ResultRepository {
	return &ResultRepository{next: next, guard: guard{breaker: breaker}}
}

func (r *ResultRepository) Get(ctx context.Context, leagueID, roundID, userID string) (result.RoundResult, bool, error) {
	return lookup(ctx, r.guard, func(ctx context.Context) (result.RoundResult, bool, error) {
		return r.next.Get(ctx, leagueID, roundID, userID)
	})
}

func (r *ResultRepository) ListByLeague(ctx context.Context, leagueID string) ([]result.RoundResult, error) {
	return value(ctx, r.guard, func(ctx context.Context) ([]result.RoundResult, error) { return r.next.ListByLeague(ctx, leagueID) })
}

func (r *ResultRepository) ListByRound(ctx context.Context, leagueID, roundID string) ([]result.RoundResult, error) {
	return value(ctx, r.guard, func(ctx context.Context) ([]result.RoundResult, error) {
		return r.next.ListByRound(ctx, leagueID, roundID)
	})
}

func (r *ResultRepository) ListByLeagueAndUser(ctx context.Context, leagueID, userID string) ([]result.RoundResult, error) {
	return value(ctx, r.guard, func(ctx context.Context) ([]result.RoundResult, error) {
		return r.next.ListByLeagueAndUser(ctx, leagueID, userID)
	})
}

func (r *ResultRepository) UpsertBase(ctx context.Context, items []result.RoundResult) error {
	return r.run(ctx, func(ctx context.Context) error { return r.next.UpsertBase(ctx, items) })
}

type BoostRepository struct {
	next boost.Repository
	guard
}

func NewBoostRepository(next boost.Repository, breaker *resilience.CircuitBreaker) *BoostRepository {
	return &BoostRepository{next: next, guard: guard{breaker: breaker}}
}

func (r *BoostRepository) ListRules(ctx context.Context, leagueID string) ([]boost.LeagueRule, error) {
	return value(ctx, r.guard, func(ctx context.Context) ([]boost.LeagueRule, error) { return r.next.ListRules(ctx, leagueID) })
}

func (r *BoostRepository) GetRule(ctx context.Context, leagueID, code string) (boost.LeagueRule, bool, error) {
	return lookup(ctx, r.guard, func(ctx context.Context) (boost.LeagueRule, bool, error) { return r.next.GetRule(ctx, leagueID, code) })
}

func (r *BoostRepository) UpsertRule(ctx context.Context, rule boost.LeagueRule) error {
	return r.run(ctx, func(ctx context.Context) error { return r.next.UpsertRule(ctx, rule) })
}

func (r *BoostRepository) Snapshot(ctx context.Context, q boost.SnapshotQuery) (boost.UsageSnapshot, error) {
	return value(ctx, r.guard, func(ctx context.Context) (boost.UsageSnapshot, error) { return r.next.Snapshot(ctx, q) })
}

func (r *BoostRepository) RecordBoost(ctx context.Context, q boost.SnapshotQuery, expected boost.UsageSnapshot, usage boost.Usage, boosted result.RoundResult, accept boost.AcceptFunc) error {
	return r.run(ctx, func(ctx context.Context) error {
		return r.next.RecordBoost(ctx, q, expected, usage, boosted, accept)
	})
}
