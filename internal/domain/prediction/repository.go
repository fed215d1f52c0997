package prediction

import (
	"context"

	"github.com/riskibarqy/prediction-league/internal/domain/round"
)

// AcceptFunc is re-run by the repository at commit time against the freshly
// locked round, so a write that raced the deadline is still rejected.
type AcceptFunc func(r round.Round) error

type Repository interface {
	Upsert(ctx context.Context, items []Prediction, accept AcceptFunc) error
	ListByRound(ctx context.Context, roundID string) ([]Prediction, error)
	ListByUserAndRound(ctx context.Context, userID, roundID string) ([]Prediction, error)
}
