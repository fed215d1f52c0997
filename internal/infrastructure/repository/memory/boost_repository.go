package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/riskibarqy/prediction-league/internal/domain/boost"
	"github.com/riskibarqy/prediction-league/internal/domain/result"
	"github.com/riskibarqy/prediction-league/internal/domain/round"
)

type BoostRepository struct {
	mu      sync.RWMutex
	rules   map[string]boost.LeagueRule
	usages  []boost.Usage
	rounds  *RoundRepository
	results *ResultRepository
	locks   keyedMutex
}

func NewBoostRepository(rules []boost.LeagueRule, rounds *RoundRepository, results *ResultRepository) *BoostRepository {
	repo := &BoostRepository{
		rules:   make(map[string]boost.LeagueRule, len(rules)),
		rounds:  rounds,
		results: results,
	}
	for _, rule := range rules {
		rule.Code = boost.NormalizeCode(rule.Code)
		repo.rules[ruleKey(rule.LeagueID, rule.Code)] = cloneRule(rule)
	}

	return repo
}

func (r *BoostRepository) ListRules(_ context.Context, leagueID string) ([]boost.LeagueRule, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]boost.LeagueRule, 0)
	for _, rule := range r.rules {
		if rule.LeagueID == leagueID {
			out = append(out, cloneRule(rule))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out, nil
}

func (r *BoostRepository) GetRule(_ context.Context, leagueID, code string) (boost.LeagueRule, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rule, ok := r.rules[ruleKey(leagueID, boost.NormalizeCode(code))]
	if !ok {
		return boost.LeagueRule{}, false, nil
	}
	return cloneRule(rule), true, nil
}

func (r *BoostRepository) UpsertRule(_ context.Context, rule boost.LeagueRule) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	rule.Code = boost.NormalizeCode(rule.Code)
	r.rules[ruleKey(rule.LeagueID, rule.Code)] = cloneRule(rule)
	return nil
}

func (r *BoostRepository) Snapshot(_ context.Context, q boost.SnapshotQuery) (boost.UsageSnapshot, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.snapshotLocked(q), nil
}

// RecordBoost takes the locks in the order usage key, round, usages, results.
// The round read lock is held until the write lands, so a status change to
// COMPLETED waits for it.
func (r *BoostRepository) RecordBoost(_ context.Context, q boost.SnapshotQuery, expected boost.UsageSnapshot, usage boost.Usage, boosted result.RoundResult, accept boost.AcceptFunc) error {
	unlock := r.locks.Lock(usageLockKey(q))
	defer unlock()

	return r.rounds.acceptUnderLock(q.RoundID, func(current round.Round) error {
		if accept != nil {
			if err := accept(current); err != nil {
				return err
			}
		}

		r.mu.Lock()
		defer r.mu.Unlock()

		snapshot := r.snapshotLocked(q)
		if snapshot != expected {
			return fmt.Errorf("%w: usage changed from %+v to %+v", boost.ErrUsageConflict, expected, snapshot)
		}

		r.results.mu.Lock()
		defer r.results.mu.Unlock()
		if err := r.results.storeBoostedLocked(boosted); err != nil {
			return err
		}

		r.usages = append(r.usages, usage)
		return nil
	})
}

func (r *BoostRepository) snapshotLocked(q boost.SnapshotQuery) boost.UsageSnapshot {
	code := boost.NormalizeCode(q.Code)

	var out boost.UsageSnapshot
	for _, u := range r.usages {
		if u.UserID != q.UserID || u.LeagueID != q.LeagueID {
			continue
		}
		if u.RoundID == q.RoundID {
			out.UsedThisRound = true
		}
		if u.SeasonID != q.SeasonID || u.Code != code {
			continue
		}
		out.SeasonUses++
		if q.Window != nil && q.Window.Contains(u.RoundNumber) {
			out.WindowUses++
		}
	}
	return out
}

func ruleKey(leagueID, code string) string {
	return leagueID + "|" + code
}

func usageLockKey(q boost.SnapshotQuery) string {
	return q.UserID + "|" + q.LeagueID + "|" + boost.NormalizeCode(q.Code)
}

func cloneRule(rule boost.LeagueRule) boost.LeagueRule {
	out := rule
	out.Windows = append([]boost.UsageWindow(nil), rule.Windows...)
	return out
}

// keyedMutex hands out one mutex per key and forgets it once unused.
type keyedMutex struct {
	mu    sync.Mutex
	locks map[string]*keyedEntry
}

type keyedEntry struct {
	mu   sync.Mutex
	refs int
}

func (k *keyedMutex) Lock(key string) func() {
	k.mu.Lock()
	if k.locks == nil {
		k.locks = make(map[string]*keyedEntry)
	}
	entry, ok := k.locks[key]
	if !ok {
		entry = &keyedEntry{}
		k.locks[key] = entry
	}
	entry.refs++
	k.mu.Unlock()

	entry.mu.Lock()
	return func() {
		entry.mu.Unlock()
		k.mu.Lock()
		entry.refs--
		if entry.refs == 0 {
			delete(k.locks, key)
		}
		k.mu.Unlock()
	}
}
