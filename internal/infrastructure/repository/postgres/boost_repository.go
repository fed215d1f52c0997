package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/prediction-league/internal/domain/boost"
	"github.com/riskibarqy/prediction-league/internal/domain/result"
	qb "github.com/riskibarqy/prediction-league/internal/platform/querybuilder"
)

const boostUsagesLeagueRoundUserKey = "boost_usages_league_round_user_key"

const usageSnapshotQuery = `SELECT
    COUNT(*) FILTER (WHERE code = $4) AS season_uses,
    COUNT(*) FILTER (WHERE code = $4 AND round_number BETWEEN $5 AND $6) AS window_uses,
    COALESCE(BOOL_OR(round_public_id = $7), FALSE) AS used_this_round
FROM boost_usages
WHERE user_id = $1 AND league_public_id = $2 AND season_id = $3`

type BoostRepository struct {
	db *sqlx.DB
}

func NewBoostRepository(db *sqlx.DB) *BoostRepository {
	return &BoostRepository{db: db}
}

func (r *BoostRepository) ListRules(ctx context.Context, leagueID string) ([]boost.LeagueRule, error) {
	return r.loadRules(ctx, qb.Eq("league_public_id", leagueID))
}

func (r *BoostRepository) GetRule(ctx context.Context, leagueID, code string) (boost.LeagueRule, bool, error) {
	rules, err := r.loadRules(ctx, qb.Eq("league_public_id", leagueID), qb.Eq("code", code))
	if err != nil {
		return boost.LeagueRule{}, false, err
	}
	if len(rules) == 0 {
		return boost.LeagueRule{}, false, nil
	}
	return rules[0], true, nil
}

func (r *BoostRepository) loadRules(ctx context.Context, where ...qb.Condition) ([]boost.LeagueRule, error) {
	query, args, err := qb.Select("*").From("boost_rules").
		Where(where...).
		OrderBy("code").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list boost rules query: %w", err)
	}
	var rows []boostRuleTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list boost rules: %w", err)
	}
	if len(rows) == 0 {
		return nil, nil
	}

	query, args, err = qb.Select("*").From("boost_rule_windows").
		Where(where...).
		OrderBy("code", "position").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list boost rule windows query: %w", err)
	}
	var windowRows []boostRuleWindowTableModel
	if err := r.db.SelectContext(ctx, &windowRows, query, args...); err != nil {
		return nil, fmt.Errorf("list boost rule windows: %w", err)
	}

	windows := make(map[string][]boost.UsageWindow, len(rows))
	for _, w := range windowRows {
		key := w.LeaguePublicID + "|" + w.Code
		windows[key] = append(windows[key], boost.UsageWindow{
			StartRound: w.StartRound,
			EndRound:   w.EndRound,
			MaxUses:    w.MaxUses,
		})
	}

	out := make([]boost.LeagueRule, 0, len(rows))
	for _, row := range rows {
		out = append(out, boost.LeagueRule{
			LeagueID:           row.LeaguePublicID,
			Code:               row.Code,
			Enabled:            row.Enabled,
			TotalUsesPerSeason: row.TotalUsesPerSeason,
			Windows:            windows[row.LeaguePublicID+"|"+row.Code],
		})
	}
	return out, nil
}

// UpsertRule replaces the rule and all of its windows in one transaction.
func (r *BoostRepository) UpsertRule(ctx context.Context, rule boost.LeagueRule) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx upsert boost rule: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	query, args, err := qb.InsertModel("boost_rules", boostRuleInsertModel{
		LeaguePublicID:     rule.LeagueID,
		Code:               rule.Code,
		Enabled:            rule.Enabled,
		TotalUsesPerSeason: rule.TotalUsesPerSeason,
	}, `ON CONFLICT (league_public_id, code)
DO UPDATE SET
    enabled = EXCLUDED.enabled,
    total_uses_per_season = EXCLUDED.total_uses_per_season,
    updated_at = NOW()`)
	if err != nil {
		return fmt.Errorf("build upsert boost rule query: %w", err)
	}
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("upsert boost rule: %w", err)
	}

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM boost_rule_windows WHERE league_public_id = $1 AND code = $2`,
		rule.LeagueID, rule.Code,
	); err != nil {
		return fmt.Errorf("delete boost rule windows: %w", err)
	}

	if len(rule.Windows) > 0 {
		models := make([]any, 0, len(rule.Windows))
		for i, w := range rule.Windows {
			models = append(models, boostRuleWindowTableModel{
				LeaguePublicID: rule.LeagueID,
				Code:           rule.Code,
				Position:       i,
				StartRound:     w.StartRound,
				EndRound:       w.EndRound,
				MaxUses:        w.MaxUses,
			})
		}
		query, args, err := qb.InsertModels("boost_rule_windows", models, "")
		if err != nil {
			return fmt.Errorf("build insert boost rule windows query: %w", err)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("insert boost rule windows: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit upsert boost rule tx: %w", err)
	}
	return nil
}

func (r *BoostRepository) Snapshot(ctx context.Context, q boost.SnapshotQuery) (boost.UsageSnapshot, error) {
	return snapshot(ctx, r.db, q)
}

// RecordBoost serializes writers on a transaction-scoped advisory lock keyed by
// (user, league, code), holds the round row FOR SHARE while accept runs, then
// re-counts usage before writing. The unique (league, round, user) constraint
// and the boost_applied/finalized guard on round_results catch any writer that
// raced through with a different code or behind finalization.
func (r *BoostRepository) RecordBoost(
	ctx context.Context,
	q boost.SnapshotQuery,
	expected boost.UsageSnapshot,
	usage boost.Usage,
	boosted result.RoundResult,
	accept boost.AcceptFunc,
) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx record boost: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	lockKey := q.UserID + "|" + q.LeagueID + "|" + q.Code
	if _, err := tx.ExecContext(ctx, `SELECT pg_advisory_xact_lock(hashtext($1))`, lockKey); err != nil {
		return fmt.Errorf("acquire boost lock: %w", err)
	}

	current, exists, err := getRound(ctx, tx, q.RoundID, "share")
	if err != nil {
		return err
	}
	if !exists {
		return fmt.Errorf("round not found: %s", q.RoundID)
	}
	if accept != nil {
		if err := accept(current); err != nil {
			return err
		}
	}

	counted, err := snapshot(ctx, tx, q)
	if err != nil {
		return err
	}
	if counted != expected {
		return fmt.Errorf("%w: usage changed from %+v to %+v", boost.ErrUsageConflict, expected, counted)
	}

	query, args, err := qb.InsertModel("boost_usages", boostUsageInsertModel{
		UserID:         usage.UserID,
		LeaguePublicID: usage.LeagueID,
		SeasonID:       usage.SeasonID,
		Code:           usage.Code,
		RoundPublicID:  usage.RoundID,
		RoundNumber:    usage.RoundNumber,
		UsedAt:         usage.UsedAt,
	}, "")
	if err != nil {
		return fmt.Errorf("build insert boost usage query: %w", err)
	}
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		if isUniqueViolation(err, boostUsagesLeagueRoundUserKey) {
			return fmt.Errorf("%w: round %s already boosted", boost.ErrUsageConflict, usage.RoundID)
		}
		return fmt.Errorf("insert boost usage: %w", err)
	}

	query, args, err = qb.InsertModel("round_results", toRoundResultModel(boosted), `ON CONFLICT (league_public_id, round_public_id, user_id)
DO UPDATE SET
    final_points = EXCLUDED.final_points,
    boost_applied = TRUE,
    boost_code = EXCLUDED.boost_code,
    calculated_at = EXCLUDED.calculated_at
WHERE round_results.boost_applied = FALSE AND round_results.finalized = FALSE`)
	if err != nil {
		return fmt.Errorf("build upsert boosted result query: %w", err)
	}
	res, err := tx.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("upsert boosted result: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("boosted result rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: result already boosted or finalized", boost.ErrUsageConflict)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit record boost tx: %w", err)
	}
	return nil
}

func snapshot(ctx context.Context, q sqlx.QueryerContext, in boost.SnapshotQuery) (boost.UsageSnapshot, error) {
	// An empty range (1..0) yields zero window uses.
	start, end := 1, 0
	if in.Window != nil {
		start, end = in.Window.StartRound, in.Window.EndRound
	}

	var row usageSnapshotModel
	if err := sqlx.GetContext(ctx, q, &row, usageSnapshotQuery,
		in.UserID, in.LeagueID, in.SeasonID, in.Code, start, end, in.RoundID,
	); err != nil {
		return boost.UsageSnapshot{}, fmt.Errorf("query boost usage snapshot: %w", err)
	}
	return boost.UsageSnapshot{
		SeasonUses:    row.SeasonUses,
		WindowUses:    row.WindowUses,
		UsedThisRound: row.UsedThisRound,
	}, nil
}

func toRoundResultModel(item result.RoundResult) roundResultTableModel {
	calculatedAt := item.CalculatedAt
	if calculatedAt.IsZero() {
		calculatedAt = time.Now().UTC()
	}
	return roundResultTableModel{
		LeaguePublicID: item.LeagueID,
		RoundPublicID:  item.RoundID,
		UserID:         item.UserID,
		SeasonID:       item.SeasonID,
		RoundNumber:    item.RoundNumber,
		RoundStartsAt:  item.RoundStartsAt,
		BasePoints:     item.BasePoints,
		FinalPoints:    item.FinalPoints,
		ExactScores:    item.ExactScores,
		BoostApplied:   item.BoostApplied,
		BoostCode:      nullableString(item.BoostCode),
		Finalized:      item.Finalized,
		CalculatedAt:   calculatedAt,
	}
}

func toRoundResult(row roundResultTableModel) result.RoundResult {
	return result.RoundResult{
		LeagueID:      row.LeaguePublicID,
		SeasonID:      row.SeasonID,
		RoundID:       row.RoundPublicID,
		RoundNumber:   row.RoundNumber,
		RoundStartsAt: row.RoundStartsAt,
		UserID:        row.UserID,
		BasePoints:    row.BasePoints,
		FinalPoints:   row.FinalPoints,
		ExactScores:   row.ExactScores,
		BoostApplied:  row.BoostApplied,
		BoostCode:     row.BoostCode.String,
		Finalized:     row.Finalized,
		CalculatedAt:  row.CalculatedAt,
	}
}
