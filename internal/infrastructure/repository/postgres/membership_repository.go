package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/prediction-league/internal/domain/membership"
	qb "github.com/riskibarqy/prediction-league/internal/platform/querybuilder"
)

type MembershipRepository struct {
	db *sqlx.DB
}

func NewMembershipRepository(db *sqlx.DB) *MembershipRepository {
	return &MembershipRepository{db: db}
}

func (r *MembershipRepository) CreateLeague(ctx context.Context, league membership.League) error {
	query, args, err := qb.InsertModel("leagues", leagueInsertModel{
		PublicID:    league.ID,
		SeasonID:    league.SeasonID,
		Name:        league.Name,
		OwnerUserID: league.OwnerUserID,
		CreatedAt:   league.CreatedAt,
	}, "")
	if err != nil {
		return fmt.Errorf("build insert league query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		if isUniqueViolation(err, "") {
			return fmt.Errorf("%w: league=%s", membership.ErrDuplicateLeague, league.ID)
		}
		return fmt.Errorf("insert league: %w", err)
	}
	return nil
}

func (r *MembershipRepository) GetLeague(ctx context.Context, leagueID string) (membership.League, bool, error) {
	query, args, err := qb.Select("*").From("leagues").
		Where(
			qb.Eq("public_id", leagueID),
			qb.IsNull("deleted_at"),
		).
		ToSQL()
	if err != nil {
		return membership.League{}, false, fmt.Errorf("build get league query: %w", err)
	}

	var row leagueTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return membership.League{}, false, nil
		}
		return membership.League{}, false, fmt.Errorf("get league: %w", err)
	}
	return toLeague(row), true, nil
}

func (r *MembershipRepository) ListLeaguesBySeason(ctx context.Context, seasonID string) ([]membership.League, error) {
	query, args, err := qb.Select("*").From("leagues").
		Where(
			qb.Eq("season_id", seasonID),
			qb.IsNull("deleted_at"),
		).
		OrderBy("public_id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list leagues query: %w", err)
	}

	var rows []leagueTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list leagues: %w", err)
	}

	out := make([]membership.League, 0, len(rows))
	for _, row := range rows {
		out = append(out, toLeague(row))
	}
	return out, nil
}

func (r *MembershipRepository) AddMember(ctx context.Context, member membership.Member) error {
	query, args, err := qb.InsertModel("league_members", leagueMemberInsertModel{
		LeaguePublicID: member.LeagueID,
		UserID:         member.UserID,
		DisplayName:    member.DisplayName,
		JoinedAt:       member.JoinedAt,
	}, `ON CONFLICT (league_public_id, user_id) WHERE deleted_at IS NULL
DO UPDATE SET
    display_name = EXCLUDED.display_name`)
	if err != nil {
		return fmt.Errorf("build upsert league member query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("upsert league member: %w", err)
	}
	return nil
}

func (r *MembershipRepository) ListMembers(ctx context.Context, leagueID string) ([]membership.Member, error) {
	query, args, err := qb.Select("*").From("league_members").
		Where(
			qb.Eq("league_public_id", leagueID),
			qb.IsNull("deleted_at"),
		).
		OrderBy("user_id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list league members query: %w", err)
	}

	var rows []leagueMemberTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list league members: %w", err)
	}

	out := make([]membership.Member, 0, len(rows))
	for _, row := range rows {
		out = append(out, membership.Member{
			LeagueID:    row.LeaguePublicID,
			UserID:      row.UserID,
			DisplayName: row.DisplayName,
			JoinedAt:    row.JoinedAt,
		})
	}
	return out, nil
}

func (r *MembershipRepository) IsMember(ctx context.Context, leagueID, userID string) (bool, error) {
	query, args, err := qb.Select("COUNT(1)").From("league_members").
		Where(
			qb.Eq("league_public_id", leagueID),
			qb.Eq("user_id", userID),
			qb.IsNull("deleted_at"),
		).
		ToSQL()
	if err != nil {
		return false, fmt.Errorf("build check league member query: %w", err)
	}

	var count int
	if err := r.db.GetContext(ctx, &count, query, args...); err != nil {
		return false, fmt.Errorf("check league member: %w", err)
	}
	return count > 0, nil
}

func toLeague(row leagueTableModel) membership.League {
	return membership.League{
		ID:          row.PublicID,
		SeasonID:    row.SeasonID,
		Name:        row.Name,
		OwnerUserID: row.OwnerUserID,
		CreatedAt:   row.CreatedAt,
	}
}
