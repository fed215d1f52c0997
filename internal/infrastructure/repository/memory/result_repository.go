package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/riskibarqy/prediction-league/internal/domain/boost"
	"github.com/riskibarqy/prediction-league/internal/domain/result"
)

type ResultRepository struct {
	mu    sync.RWMutex
	items map[string]result.RoundResult
}

func NewResultRepository() *ResultRepository {
	return &ResultRepository{items: make(map[string]result.RoundResult)}
}

func (r *ResultRepository) Get(_ context.Context, leagueID, roundID, userID string) (result.RoundResult, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, ok := r.items[result.RoundResult{LeagueID: leagueID, RoundID: roundID, UserID: userID}.Key()]
	return item, ok, nil
}

func (r *ResultRepository) ListByLeague(_ context.Context, leagueID string) ([]result.RoundResult, error) {
	return r.filter(func(item result.RoundResult) bool { return item.LeagueID == leagueID }), nil
}

func (r *ResultRepository) ListByRound(_ context.Context, leagueID, roundID string) ([]result.RoundResult, error) {
	return r.filter(func(item result.RoundResult) bool {
		return item.LeagueID == leagueID && item.RoundID == roundID
	}), nil
}

func (r *ResultRepository) ListByLeagueAndUser(_ context.Context, leagueID, userID string) ([]result.RoundResult, error) {
	return r.filter(func(item result.RoundResult) bool {
		return item.LeagueID == leagueID && item.UserID == userID
	}), nil
}

func (r *ResultRepository) UpsertBase(_ context.Context, items []result.RoundResult) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, item := range items {
		key := item.Key()
		item.Finalized = true
		if existing, ok := r.items[key]; ok && existing.BoostApplied {
			item.BoostApplied = true
			item.BoostCode = existing.BoostCode
		}
		r.items[key] = item
	}
	return nil
}

// storeBoostedLocked must be called with r.mu held for writing.
func (r *ResultRepository) storeBoostedLocked(item result.RoundResult) error {
	key := item.Key()
	if existing, ok := r.items[key]; ok && existing.BoostApplied {
		return fmt.Errorf("%w: result %s already boosted with %s", boost.ErrUsageConflict, key, existing.BoostCode)
	}
	if existing, ok := r.items[key]; ok && existing.Finalized {
		return fmt.Errorf("%w: result %s is already finalized", boost.ErrUsageConflict, key)
	}
	r.items[key] = item
	return nil
}

func (r *ResultRepository) filter(keep func(result.RoundResult) bool) []result.RoundResult {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]result.RoundResult, 0)
	for _, item := range r.items {
		if keep(item) {
			out = append(out, item)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].RoundNumber != out[j].RoundNumber {
			return out[i].RoundNumber < out[j].RoundNumber
		}
		return out[i].UserID < out[j].UserID
	})
	return out
}
