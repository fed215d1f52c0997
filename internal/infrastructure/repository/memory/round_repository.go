package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/riskibarqy/prediction-league/internal/domain/round"
)

type RoundRepository struct {
	mu         sync.RWMutex
	items      map[string]round.Round
	matchIndex map[string]string
}

func NewRoundRepository(rounds []round.Round) *RoundRepository {
	repo := &RoundRepository{
		items:      make(map[string]round.Round, len(rounds)),
		matchIndex: make(map[string]string),
	}
	for _, r := range rounds {
		repo.items[r.ID] = cloneRound(r)
		for _, m := range r.Matches {
			repo.matchIndex[m.ID] = r.ID
		}
	}

	return repo
}

func (r *RoundRepository) Create(_ context.Context, item round.Round) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.items[item.ID]; exists {
		return fmt.Errorf("%w: round=%s", round.ErrDuplicateRound, item.ID)
	}
	for _, existing := range r.items {
		if existing.SeasonID == item.SeasonID && existing.Number == item.Number {
			return fmt.Errorf("%w: season=%s number=%d", round.ErrDuplicateRound, item.SeasonID, item.Number)
		}
	}

	r.items[item.ID] = cloneRound(item)
	for _, m := range item.Matches {
		r.matchIndex[m.ID] = item.ID
	}
	return nil
}

func (r *RoundRepository) GetByID(_ context.Context, roundID string) (round.Round, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, ok := r.items[roundID]
	if !ok {
		return round.Round{}, false, nil
	}
	return cloneRound(item), true, nil
}

func (r *RoundRepository) GetByMatchID(_ context.Context, matchID string) (round.Round, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	roundID, ok := r.matchIndex[matchID]
	if !ok {
		return round.Round{}, false, nil
	}
	item, ok := r.items[roundID]
	if !ok {
		return round.Round{}, false, nil
	}
	return cloneRound(item), true, nil
}

func (r *RoundRepository) ListBySeason(_ context.Context, seasonID string) ([]round.Round, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]round.Round, 0)
	for _, item := range r.items {
		if item.SeasonID == seasonID {
			out = append(out, cloneRound(item))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Number < out[j].Number })

	return out, nil
}

func (r *RoundRepository) AddMatch(_ context.Context, m round.Match, expectedVersion int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	item, ok := r.items[m.RoundID]
	if !ok {
		return fmt.Errorf("round not found: %s", m.RoundID)
	}
	if item.Version != expectedVersion {
		return fmt.Errorf("%w: round=%s expected=%d actual=%d", round.ErrVersionConflict, item.ID, expectedVersion, item.Version)
	}
	if item.Status != round.StatusDraft {
		return fmt.Errorf("%w: round=%s status=%s", round.ErrNotDraft, item.ID, item.Status)
	}
	if _, exists := r.matchIndex[m.ID]; exists {
		return fmt.Errorf("match already exists: %s", m.ID)
	}

	item.Matches = append(append([]round.Match(nil), item.Matches...), m)
	item.Version++
	r.items[item.ID] = item
	r.matchIndex[m.ID] = item.ID
	return nil
}

func (r *RoundRepository) UpdateMatch(_ context.Context, m round.Match) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	item, ok := r.items[m.RoundID]
	if !ok {
		return fmt.Errorf("round not found: %s", m.RoundID)
	}
	if item.Status == round.StatusCompleted {
		return fmt.Errorf("%w: round=%s", round.ErrRoundClosed, item.ID)
	}

	matches := make([]round.Match, len(item.Matches))
	copy(matches, item.Matches)
	for i := range matches {
		if matches[i].ID == m.ID {
			matches[i] = m
			item.Matches = matches
			r.items[item.ID] = item
			return nil
		}
	}

	return fmt.Errorf("match not found: %s", m.ID)
}

func (r *RoundRepository) UpdateStatus(_ context.Context, item round.Round, expectedVersion int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	current, ok := r.items[item.ID]
	if !ok {
		return fmt.Errorf("round not found: %s", item.ID)
	}
	if current.Version != expectedVersion {
		return fmt.Errorf("%w: round=%s expected=%d actual=%d", round.ErrVersionConflict, item.ID, expectedVersion, current.Version)
	}

	current.Status = item.Status
	current.Version = item.Version
	current.UpdatedAt = item.UpdatedAt
	r.items[item.ID] = current
	return nil
}

// acceptUnderLock runs fn while holding the read lock so a concurrent status
// change cannot interleave with a prediction write.
func (r *RoundRepository) acceptUnderLock(roundID string, fn func(round.Round) error) error {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, ok := r.items[roundID]
	if !ok {
		return fmt.Errorf("round not found: %s", roundID)
	}
	return fn(cloneRound(item))
}

func cloneRound(r round.Round) round.Round {
	out := r
	out.Matches = make([]round.Match, len(r.Matches))
	for i, m := range r.Matches {
		out.Matches[i] = m
		if m.HomeScore != nil {
			v := *m.HomeScore
			out.Matches[i].HomeScore = &v
		}
		if m.AwayScore != nil {
			v := *m.AwayScore
			out.Matches[i].AwayScore = &v
		}
	}
	return out
}
