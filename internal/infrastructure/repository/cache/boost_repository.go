package cache

import (
	"context"

	"github.com/riskibarqy/prediction-league/internal/domain/boost"
	"github.com/riskibarqy/prediction-league/internal/domain/result"
	basecache "github.com/riskibarqy/prediction-league/internal/platform/cache"
)

const boostRulePrefix = "boostrule:"

// BoostRepository caches rule reads only. Usage counters and RecordBoost
// always hit next because they back the per-user concurrency check.
type BoostRepository struct {
	next  boost.Repository
	cache *basecache.Store
}

func NewBoostRepository(next boost.Repository, cache *basecache.Store) *BoostRepository {
	return &BoostRepository{next: next, cache: cache}
}

func (r *BoostRepository) ListRules(ctx context.Context, leagueID string) ([]boost.LeagueRule, error) {
	v, err := r.cache.GetOrLoad(ctx, boostRulePrefix+leagueID+":list", func(ctx context.Context) (any, error) {
		items, err := r.next.ListRules(ctx, leagueID)
		if err != nil {
			return nil, err
		}
		return cloneRules(items), nil
	})
	if err != nil {
		return nil, err
	}

	items, _ := v.([]boost.LeagueRule)
	return cloneRules(items), nil
}

func (r *BoostRepository) GetRule(ctx context.Context, leagueID, code string) (boost.LeagueRule, bool, error) {
	v, err := r.cache.GetOrLoad(ctx, boostRulePrefix+leagueID+":code:"+code, func(ctx context.Context) (any, error) {
		item, exists, err := r.next.GetRule(ctx, leagueID, code)
		if err != nil {
			return nil, err
		}
		return cachedRule{value: item, exists: exists}, nil
	})
	if err != nil {
		return boost.LeagueRule{}, false, err
	}

	cached, _ := v.(cachedRule)
	return cloneRule(cached.value), cached.exists, nil
}

func (r *BoostRepository) UpsertRule(ctx context.Context, rule boost.LeagueRule) error {
	if err := r.next.UpsertRule(ctx, rule); err != nil {
		return err
	}
	r.cache.DeletePrefix(ctx, boostRulePrefix+rule.LeagueID+":")
	return nil
}

func (r *BoostRepository) Snapshot(ctx context.Context, q boost.SnapshotQuery) (boost.UsageSnapshot, error) {
	return r.next.Snapshot(ctx, q)
}

func (r *BoostRepository) RecordBoost(ctx context.Context, q boost.SnapshotQuery, expected boost.UsageSnapshot, usage boost.Usage, boosted result.RoundResult, accept boost.AcceptFunc) error {
	return r.next.RecordBoost(ctx, q, expected, usage, boosted, accept)
}

type cachedRule struct {
	value  boost.LeagueRule
	exists bool
}

func cloneRules(items []boost.LeagueRule) []boost.LeagueRule {
	out := make([]boost.LeagueRule, 0, len(items))
	for _, item := range items {
		out = append(out, cloneRule(item))
	}
	return out
}

func cloneRule(rule boost.LeagueRule) boost.LeagueRule {
	rule.Windows = append([]boost.UsageWindow(nil), rule.Windows...)
	return rule
}
