package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/prediction-league/internal/domain/prediction"
	qb "github.com/riskibarqy/prediction-league/internal/platform/querybuilder"
)

type PredictionRepository struct {
	db *sqlx.DB
}

func NewPredictionRepository(db *sqlx.DB) *PredictionRepository {
	return &PredictionRepository{db: db}
}

// Upsert writes predictions while holding a shared lock on the round row, so a
// concurrent status change waits and accept sees the committed round.
func (r *PredictionRepository) Upsert(ctx context.Context, items []prediction.Prediction, accept prediction.AcceptFunc) error {
	if len(items) == 0 {
		return nil
	}
	roundID := items[0].RoundID
	for _, item := range items {
		if item.RoundID != roundID {
			return fmt.Errorf("predictions span multiple rounds: %s, %s", roundID, item.RoundID)
		}
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx upsert predictions: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	current, exists, err := getRound(ctx, tx, roundID, "share")
	if err != nil {
		return err
	}
	if !exists {
		return fmt.Errorf("round not found: %s", roundID)
	}
	if accept != nil {
		if err := accept(current); err != nil {
			return err
		}
	}

	models := make([]any, 0, len(items))
	for _, item := range items {
		models = append(models, predictionTableModel{
			UserID:        item.UserID,
			MatchPublicID: item.MatchID,
			RoundPublicID: item.RoundID,
			HomeScore:     item.HomeScore,
			AwayScore:     item.AwayScore,
			SubmittedAt:   item.SubmittedAt,
		})
	}
	query, args, err := qb.InsertModels("predictions", models, `ON CONFLICT (user_id, match_public_id)
DO UPDATE SET
    home_score = EXCLUDED.home_score,
    away_score = EXCLUDED.away_score,
    submitted_at = EXCLUDED.submitted_at`)
	if err != nil {
		return fmt.Errorf("build upsert predictions query: %w", err)
	}
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("upsert predictions: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit upsert predictions tx: %w", err)
	}
	return nil
}

func (r *PredictionRepository) ListByRound(ctx context.Context, roundID string) ([]prediction.Prediction, error) {
	return r.list(ctx, qb.Eq("round_public_id", roundID))
}

func (r *PredictionRepository) ListByUserAndRound(ctx context.Context, userID, roundID string) ([]prediction.Prediction, error) {
	return r.list(ctx, qb.Eq("round_public_id", roundID), qb.Eq("user_id", userID))
}

func (r *PredictionRepository) list(ctx context.Context, where ...qb.Condition) ([]prediction.Prediction, error) {
	query, args, err := qb.Select("*").From("predictions").
		Where(where...).
		OrderBy("user_id", "match_public_id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list predictions query: %w", err)
	}

	var rows []predictionTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list predictions: %w", err)
	}

	out := make([]prediction.Prediction, 0, len(rows))
	for _, row := range rows {
		out = append(out, prediction.Prediction{
			UserID:      row.UserID,
			MatchID:     row.MatchPublicID,
			RoundID:     row.RoundPublicID,
			HomeScore:   row.HomeScore,
			AwayScore:   row.AwayScore,
			SubmittedAt: row.SubmittedAt,
		})
	}
	return out, nil
}
