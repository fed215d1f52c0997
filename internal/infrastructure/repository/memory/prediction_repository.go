package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/riskibarqy/prediction-league/internal/domain/prediction"
	"github.com/riskibarqy/prediction-league/internal/domain/round"
)

type PredictionRepository struct {
	mu     sync.RWMutex
	rounds *RoundRepository
	items  map[string]prediction.Prediction
}

func NewPredictionRepository(rounds *RoundRepository) *PredictionRepository {
	return &PredictionRepository{
		rounds: rounds,
		items:  make(map[string]prediction.Prediction),
	}
}

func (r *PredictionRepository) Upsert(_ context.Context, items []prediction.Prediction, accept prediction.AcceptFunc) error {
	if len(items) == 0 {
		return nil
	}

	roundID := items[0].RoundID
	for _, item := range items {
		if item.RoundID != roundID {
			return fmt.Errorf("predictions span multiple rounds: %s, %s", roundID, item.RoundID)
		}
	}

	return r.rounds.acceptUnderLock(roundID, func(current round.Round) error {
		if accept != nil {
			if err := accept(current); err != nil {
				return err
			}
		}

		r.mu.Lock()
		defer r.mu.Unlock()
		for _, item := range items {
			r.items[predictionKey(item.UserID, item.MatchID)] = item
		}
		return nil
	})
}

func (r *PredictionRepository) ListByRound(_ context.Context, roundID string) ([]prediction.Prediction, error) {
	return r.filter(func(p prediction.Prediction) bool { return p.RoundID == roundID }), nil
}

func (r *PredictionRepository) ListByUserAndRound(_ context.Context, userID, roundID string) ([]prediction.Prediction, error) {
	return r.filter(func(p prediction.Prediction) bool {
		return p.RoundID == roundID && p.UserID == userID
	}), nil
}

func (r *PredictionRepository) filter(keep func(prediction.Prediction) bool) []prediction.Prediction {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]prediction.Prediction, 0)
	for _, item := range r.items {
		if keep(item) {
			out = append(out, item)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].UserID != out[j].UserID {
			return out[i].UserID < out[j].UserID
		}
		return out[i].MatchID < out[j].MatchID
	})
	return out
}

func predictionKey(userID, matchID string) string {
	return userID + "|" + matchID
}
