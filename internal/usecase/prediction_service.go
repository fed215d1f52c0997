package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/riskibarqy/prediction-league/internal/domain/prediction"
	"github.com/riskibarqy/prediction-league/internal/domain/round"
	"github.com/riskibarqy/prediction-league/internal/platform/logging"
	"go.opentelemetry.io/otel/attribute"
)

const maxPredictionScore = 99

type PredictionInput struct {
	MatchID   string
	HomeScore int
	AwayScore int
}

type PredictionService struct {
	rounds      round.Repository
	predictions prediction.Repository
	logger      *logging.Logger
	metrics     Metrics
	now         func() time.Time
}

func NewPredictionService(rounds round.Repository, predictions prediction.Repository, logger *logging.Logger, metrics Metrics) *PredictionService {
	if logger == nil {
		logger = logging.Default()
	}
	return &PredictionService{
		rounds:      rounds,
		predictions: predictions,
		logger:      logger.Named("usecase.prediction"),
		metrics:     metricsOrNop(metrics),
		now:         time.Now,
	}
}

// Submit upserts a user's predictions for one round. The acceptance guard is
// checked up front and again by the repository at commit time.
func (s *PredictionService) Submit(ctx context.Context, userID, roundID string, inputs []PredictionInput) ([]prediction.Prediction, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.PredictionService.Submit",
		userAttr(userID), roundAttr(roundID), attribute.Int("prediction.count", len(inputs)))
	defer span.End()

	userID = strings.TrimSpace(userID)
	roundID = strings.TrimSpace(roundID)
	if userID == "" {
		return nil, fmt.Errorf("%w: user id is required", ErrUnauthorized)
	}
	if roundID == "" {
		return nil, fmt.Errorf("%w: round id is required", ErrInvalidInput)
	}
	if len(inputs) == 0 {
		return nil, fmt.Errorf("%w: at least one prediction is required", ErrInvalidInput)
	}

	current, exists, err := s.rounds.GetByID(ctx, roundID)
	if err != nil {
		return nil, fmt.Errorf("get round: %w", err)
	}
	if !exists || current.Status == round.StatusDraft {
		return nil, fmt.Errorf("%w: round=%s", ErrNotFound, roundID)
	}

	submittedAt := s.now().UTC()
	items := make([]prediction.Prediction, 0, len(inputs))
	seen := make(map[string]struct{}, len(inputs))
	for _, in := range inputs {
		matchID := strings.TrimSpace(in.MatchID)
		if _, ok := current.MatchByID(matchID); !ok {
			return nil, fmt.Errorf("%w: match=%s is not part of round=%s", ErrInvalidInput, matchID, roundID)
		}
		if _, dup := seen[matchID]; dup {
			return nil, fmt.Errorf("%w: duplicate prediction for match=%s", ErrInvalidInput, matchID)
		}
		seen[matchID] = struct{}{}
		if in.HomeScore < 0 || in.AwayScore < 0 || in.HomeScore > maxPredictionScore || in.AwayScore > maxPredictionScore {
			return nil, fmt.Errorf("%w: scores must be between 0 and %d", ErrInvalidInput, maxPredictionScore)
		}

		items = append(items, prediction.Prediction{
			UserID:      userID,
			MatchID:     matchID,
			RoundID:     roundID,
			HomeScore:   in.HomeScore,
			AwayScore:   in.AwayScore,
			SubmittedAt: submittedAt,
		})
	}

	if err := round.AcceptsPredictions(current, s.now()); err != nil {
		return nil, s.rejected(ctx, userID, roundID, err)
	}

	accept := func(locked round.Round) error {
		return round.AcceptsPredictions(locked, s.now())
	}
	if err := s.predictions.Upsert(ctx, items, accept); err != nil {
		if isAcceptanceErr(err) {
			return nil, s.rejected(ctx, userID, roundID, err)
		}
		return nil, fmt.Errorf("upsert predictions: %w", err)
	}

	s.metrics.PredictionsWritten(len(items))
	return items, nil
}

func (s *PredictionService) ListMine(ctx context.Context, userID, roundID string) ([]prediction.Prediction, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.PredictionService.ListMine")
	defer span.End()

	userID = strings.TrimSpace(userID)
	roundID = strings.TrimSpace(roundID)
	if userID == "" {
		return nil, fmt.Errorf("%w: user id is required", ErrUnauthorized)
	}
	if roundID == "" {
		return nil, fmt.Errorf("%w: round id is required", ErrInvalidInput)
	}

	items, err := s.predictions.ListByUserAndRound(ctx, userID, roundID)
	if err != nil {
		return nil, fmt.Errorf("list predictions: %w", err)
	}
	return items, nil
}

func (s *PredictionService) rejected(ctx context.Context, userID, roundID string, err error) error {
	reason := "closed"
	switch {
	case errors.Is(err, round.ErrDeadlinePassed):
		reason = "deadline_passed"
	case errors.Is(err, round.ErrRoundNotOpen):
		reason = "not_open"
	}
	s.metrics.PredictionRejected(reason)
	s.logger.WarnContext(ctx, "prediction rejected", "user_id", userID, "round_id", roundID, "reason", reason)
	return fmt.Errorf("%w: %w", ErrForbidden, err)
}

func isAcceptanceErr(err error) bool {
	return errors.Is(err, round.ErrDeadlinePassed) ||
		errors.Is(err, round.ErrRoundClosed) ||
		errors.Is(err, round.ErrRoundNotOpen)
}
