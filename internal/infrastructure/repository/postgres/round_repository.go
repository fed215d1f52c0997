package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/prediction-league/internal/domain/round"
	qb "github.com/riskibarqy/prediction-league/internal/platform/querybuilder"
)

const roundsSeasonNumberKey = "rounds_season_number_key"

type RoundRepository struct {
	db *sqlx.DB
}

func NewRoundRepository(db *sqlx.DB) *RoundRepository {
	return &RoundRepository{db: db}
}

func (r *RoundRepository) Create(ctx context.Context, item round.Round) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx create round: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	query, args, err := qb.InsertModel("rounds", roundInsertModel{
		PublicID:   item.ID,
		SeasonID:   item.SeasonID,
		Number:     item.Number,
		StartsAt:   item.StartsAt,
		DeadlineAt: item.DeadlineAt,
		Status:     string(item.Status),
		Version:    item.Version,
		CreatedAt:  item.CreatedAt,
		UpdatedAt:  item.UpdatedAt,
	}, "")
	if err != nil {
		return fmt.Errorf("build insert round query: %w", err)
	}
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		if isUniqueViolation(err, roundsSeasonNumberKey) {
			return fmt.Errorf("%w: season=%s number=%d", round.ErrDuplicateRound, item.SeasonID, item.Number)
		}
		return fmt.Errorf("insert round: %w", err)
	}

	if len(item.Matches) > 0 {
		models := make([]any, 0, len(item.Matches))
		for _, m := range item.Matches {
			models = append(models, toMatchInsertModel(m))
		}
		query, args, err := qb.InsertModels("matches", models, "")
		if err != nil {
			return fmt.Errorf("build insert matches query: %w", err)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("insert matches: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit create round tx: %w", err)
	}
	return nil
}

func (r *RoundRepository) GetByID(ctx context.Context, roundID string) (round.Round, bool, error) {
	return getRound(ctx, r.db, roundID, "")
}

func (r *RoundRepository) GetByMatchID(ctx context.Context, matchID string) (round.Round, bool, error) {
	query, args, err := qb.Select("round_public_id").From("matches").
		Where(qb.Eq("public_id", matchID)).
		ToSQL()
	if err != nil {
		return round.Round{}, false, fmt.Errorf("build get match round query: %w", err)
	}

	var roundID string
	if err := r.db.GetContext(ctx, &roundID, query, args...); err != nil {
		if isNotFound(err) {
			return round.Round{}, false, nil
		}
		return round.Round{}, false, fmt.Errorf("get match round: %w", err)
	}

	return getRound(ctx, r.db, roundID, "")
}

func (r *RoundRepository) ListBySeason(ctx context.Context, seasonID string) ([]round.Round, error) {
	query, args, err := qb.Select("*").From("rounds").
		Where(qb.Eq("season_id", seasonID)).
		OrderBy("number").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list rounds query: %w", err)
	}

	var rows []roundTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list rounds: %w", err)
	}
	if len(rows) == 0 {
		return []round.Round{}, nil
	}

	roundIDs := make([]any, 0, len(rows))
	for _, row := range rows {
		roundIDs = append(roundIDs, row.PublicID)
	}
	matches, err := listMatches(ctx, r.db, qb.In("round_public_id", roundIDs))
	if err != nil {
		return nil, err
	}

	out := make([]round.Round, 0, len(rows))
	for _, row := range rows {
		out = append(out, toRound(row, matches[row.PublicID]))
	}
	return out, nil
}

// AddMatch locks the round row FOR UPDATE so a concurrent transition waits,
// then inserts the match and bumps the round version in the same transaction.
func (r *RoundRepository) AddMatch(ctx context.Context, m round.Match, expectedVersion int) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx add match: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	lockQuery, lockArgs, err := qb.Select("status", "version").From("rounds").
		Where(qb.Eq("public_id", m.RoundID)).
		ForUpdate().
		ToSQL()
	if err != nil {
		return fmt.Errorf("build lock round query: %w", err)
	}
	var locked struct {
		Status  string `db:"status"`
		Version int    `db:"version"`
	}
	if err := tx.GetContext(ctx, &locked, lockQuery, lockArgs...); err != nil {
		if isNotFound(err) {
			return fmt.Errorf("round not found: %s", m.RoundID)
		}
		return fmt.Errorf("lock round: %w", err)
	}
	if locked.Version != expectedVersion {
		return fmt.Errorf("%w: round=%s expected=%d actual=%d", round.ErrVersionConflict, m.RoundID, expectedVersion, locked.Version)
	}
	if round.Status(locked.Status) != round.StatusDraft {
		return fmt.Errorf("%w: round=%s status=%s", round.ErrNotDraft, m.RoundID, locked.Status)
	}

	query, args, err := qb.InsertModel("matches", toMatchInsertModel(m), "")
	if err != nil {
		return fmt.Errorf("build insert match query: %w", err)
	}
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert match: %w", err)
	}

	query, args, err = qb.Update("rounds").
		Set("version", expectedVersion+1).
		SetExpr("updated_at", "NOW()").
		Where(qb.Eq("public_id", m.RoundID)).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build bump round version query: %w", err)
	}
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("bump round version: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit add match tx: %w", err)
	}
	return nil
}

func (r *RoundRepository) UpdateMatch(ctx context.Context, m round.Match) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx update match: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	statusQuery, statusArgs, err := qb.Select("status").From("rounds").
		Where(qb.Eq("public_id", m.RoundID)).
		ForShare().
		ToSQL()
	if err != nil {
		return fmt.Errorf("build lock round query: %w", err)
	}
	var status string
	if err := tx.GetContext(ctx, &status, statusQuery, statusArgs...); err != nil {
		if isNotFound(err) {
			return fmt.Errorf("round not found: %s", m.RoundID)
		}
		return fmt.Errorf("lock round: %w", err)
	}
	if round.Status(status) == round.StatusCompleted {
		return fmt.Errorf("%w: round=%s", round.ErrRoundClosed, m.RoundID)
	}

	query, args, err := qb.Update("matches").
		Set("home_score", nullableInt(m.HomeScore)).
		Set("away_score", nullableInt(m.AwayScore)).
		Set("status", string(m.Status)).
		SetExpr("updated_at", "NOW()").
		Where(
			qb.Eq("public_id", m.ID),
			qb.Eq("round_public_id", m.RoundID),
		).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build update match query: %w", err)
	}
	res, err := tx.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update match: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected update match: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("update match: not found")
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit update match tx: %w", err)
	}
	return nil
}

func (r *RoundRepository) UpdateStatus(ctx context.Context, item round.Round, expectedVersion int) error {
	query, args, err := qb.Update("rounds").
		Set("status", string(item.Status)).
		Set("version", item.Version).
		Set("updated_at", item.UpdatedAt).
		Where(
			qb.Eq("public_id", item.ID),
			qb.Eq("version", expectedVersion),
		).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build update round status query: %w", err)
	}

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update round status: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected update round status: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: round=%s expected version=%d", round.ErrVersionConflict, item.ID, expectedVersion)
	}
	return nil
}

// getRound loads one round with its matches; lock is appended to the round
// select when the caller runs inside a transaction.
func getRound(ctx context.Context, q sqlx.QueryerContext, roundID, lock string) (round.Round, bool, error) {
	builder := qb.Select("*").From("rounds").Where(qb.Eq("public_id", roundID))
	if lock == "share" {
		builder = builder.ForShare()
	}
	query, args, err := builder.ToSQL()
	if err != nil {
		return round.Round{}, false, fmt.Errorf("build get round query: %w", err)
	}

	var row roundTableModel
	if err := sqlx.GetContext(ctx, q, &row, query, args...); err != nil {
		if isNotFound(err) {
			return round.Round{}, false, nil
		}
		return round.Round{}, false, fmt.Errorf("get round: %w", err)
	}

	matches, err := listMatches(ctx, q, qb.Eq("round_public_id", roundID))
	if err != nil {
		return round.Round{}, false, err
	}
	return toRound(row, matches[roundID]), true, nil
}

func listMatches(ctx context.Context, q sqlx.QueryerContext, where qb.Condition) (map[string][]round.Match, error) {
	query, args, err := qb.Select("*").From("matches").
		Where(where).
		OrderBy("kickoff_at", "id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list matches query: %w", err)
	}

	var rows []matchTableModel
	if err := sqlx.SelectContext(ctx, q, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list matches: %w", err)
	}

	out := make(map[string][]round.Match)
	for _, row := range rows {
		out[row.RoundPublicID] = append(out[row.RoundPublicID], round.Match{
			ID:         row.PublicID,
			RoundID:    row.RoundPublicID,
			HomeTeamID: row.HomeTeamID,
			AwayTeamID: row.AwayTeamID,
			KickoffAt:  row.KickoffAt,
			HomeScore:  nullInt64ToIntPtr(row.HomeScore),
			AwayScore:  nullInt64ToIntPtr(row.AwayScore),
			Status:     round.MatchStatus(row.Status),
		})
	}
	return out, nil
}

func toRound(row roundTableModel, matches []round.Match) round.Round {
	if matches == nil {
		matches = []round.Match{}
	}
	return round.Round{
		ID:         row.PublicID,
		SeasonID:   row.SeasonID,
		Number:     row.Number,
		StartsAt:   row.StartsAt,
		DeadlineAt: row.DeadlineAt,
		Status:     round.Status(row.Status),
		Matches:    matches,
		Version:    row.Version,
		CreatedAt:  row.CreatedAt,
		UpdatedAt:  row.UpdatedAt,
	}
}

func toMatchInsertModel(m round.Match) matchInsertModel {
	return matchInsertModel{
		PublicID:      m.ID,
		RoundPublicID: m.RoundID,
		HomeTeamID:    m.HomeTeamID,
		AwayTeamID:    m.AwayTeamID,
		KickoffAt:     m.KickoffAt,
		HomeScore:     nullableInt(m.HomeScore),
		AwayScore:     nullableInt(m.AwayScore),
		Status:        string(m.Status),
	}
}
