package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/prediction-league/internal/domain/result"
	qb "github.com/riskibarqy/prediction-league/internal/platform/querybuilder"
)

type ResultRepository struct {
	db *sqlx.DB
}

func NewResultRepository(db *sqlx.DB) *ResultRepository {
	return &ResultRepository{db: db}
}

func (r *ResultRepository) Get(ctx context.Context, leagueID, roundID, userID string) (result.RoundResult, bool, error) {
	query, args, err := qb.Select("*").From("round_results").
		Where(
			qb.Eq("league_public_id", leagueID),
			qb.Eq("round_public_id", roundID),
			qb.Eq("user_id", userID),
		).
		ToSQL()
	if err != nil {
		return result.RoundResult{}, false, fmt.Errorf("build get round result query: %w", err)
	}

	var row roundResultTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return result.RoundResult{}, false, nil
		}
		return result.RoundResult{}, false, fmt.Errorf("get round result: %w", err)
	}
	return toRoundResult(row), true, nil
}

func (r *ResultRepository) ListByLeague(ctx context.Context, leagueID string) ([]result.RoundResult, error) {
	return r.list(ctx, qb.Eq("league_public_id", leagueID))
}

func (r *ResultRepository) ListByRound(ctx context.Context, leagueID, roundID string) ([]result.RoundResult, error) {
	return r.list(ctx, qb.Eq("league_public_id", leagueID), qb.Eq("round_public_id", roundID))
}

func (r *ResultRepository) ListByLeagueAndUser(ctx context.Context, leagueID, userID string) ([]result.RoundResult, error) {
	return r.list(ctx, qb.Eq("league_public_id", leagueID), qb.Eq("user_id", userID))
}

func (r *ResultRepository) list(ctx context.Context, where ...qb.Condition) ([]result.RoundResult, error) {
	query, args, err := qb.Select("*").From("round_results").
		Where(where...).
		OrderBy("round_number", "user_id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list round results query: %w", err)
	}

	var rows []roundResultTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list round results: %w", err)
	}

	out := make([]result.RoundResult, 0, len(rows))
	for _, row := range rows {
		out = append(out, toRoundResult(row))
	}
	return out, nil
}

// UpsertBase never writes boost_applied or boost_code on conflict, so a boost
// recorded before finalization survives. Every written row is finalized.
func (r *ResultRepository) UpsertBase(ctx context.Context, items []result.RoundResult) error {
	if len(items) == 0 {
		return nil
	}

	models := make([]any, 0, len(items))
	for _, item := range items {
		item.Finalized = true
		models = append(models, toRoundResultModel(item))
	}
	query, args, err := qb.InsertModels("round_results", models, `ON CONFLICT (league_public_id, round_public_id, user_id)
DO UPDATE SET
    season_id = EXCLUDED.season_id,
    round_number = EXCLUDED.round_number,
    round_starts_at = EXCLUDED.round_starts_at,
    base_points = EXCLUDED.base_points,
    final_points = EXCLUDED.final_points,
    exact_scores = EXCLUDED.exact_scores,
    finalized = TRUE,
    calculated_at = EXCLUDED.calculated_at`)
	if err != nil {
		return fmt.Errorf("build upsert round results query: %w", err)
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx upsert round results: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("upsert round results: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit upsert round results tx: %w", err)
	}
	return nil
}
