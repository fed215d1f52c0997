package postgres

import (
	"database/sql"
	"time"
)

type leagueTableModel struct {
	ID          int64      `db:"id"`
	PublicID    string     `db:"public_id"`
	SeasonID    string     `db:"season_id"`
	Name        string     `db:"name"`
	OwnerUserID string     `db:"owner_user_id"`
	CreatedAt   time.Time  `db:"created_at"`
	UpdatedAt   time.Time  `db:"updated_at"`
	DeletedAt   *time.Time `db:"deleted_at"`
}

type leagueInsertModel struct {
	PublicID    string    `db:"public_id"`
	SeasonID    string    `db:"season_id"`
	Name        string    `db:"name"`
	OwnerUserID string    `db:"owner_user_id"`
	CreatedAt   time.Time `db:"created_at"`
}

type leagueMemberTableModel struct {
	LeaguePublicID string     `db:"league_public_id"`
	UserID         string     `db:"user_id"`
	DisplayName    string     `db:"display_name"`
	JoinedAt       time.Time  `db:"joined_at"`
	DeletedAt      *time.Time `db:"deleted_at"`
}

type leagueMemberInsertModel struct {
	LeaguePublicID string    `db:"league_public_id"`
	UserID         string    `db:"user_id"`
	DisplayName    string    `db:"display_name"`
	JoinedAt       time.Time `db:"joined_at"`
}

type boostRuleTableModel struct {
	LeaguePublicID     string    `db:"league_public_id"`
	Code               string    `db:"code"`
	Enabled            bool      `db:"enabled"`
	TotalUsesPerSeason int       `db:"total_uses_per_season"`
	UpdatedAt          time.Time `db:"updated_at"`
}

type boostRuleInsertModel struct {
	LeaguePublicID     string `db:"league_public_id"`
	Code               string `db:"code"`
	Enabled            bool   `db:"enabled"`
	TotalUsesPerSeason int    `db:"total_uses_per_season"`
}

type boostRuleWindowTableModel struct {
	LeaguePublicID string `db:"league_public_id"`
	Code           string `db:"code"`
	Position       int    `db:"position"`
	StartRound     int    `db:"start_round"`
	EndRound       int    `db:"end_round"`
	MaxUses        int    `db:"max_uses"`
}

type boostUsageInsertModel struct {
	UserID         string    `db:"user_id"`
	LeaguePublicID string    `db:"league_public_id"`
	SeasonID       string    `db:"season_id"`
	Code           string    `db:"code"`
	RoundPublicID  string    `db:"round_public_id"`
	RoundNumber    int       `db:"round_number"`
	UsedAt         time.Time `db:"used_at"`
}

type usageSnapshotModel struct {
	SeasonUses    int  `db:"season_uses"`
	WindowUses    int  `db:"window_uses"`
	UsedThisRound bool `db:"used_this_round"`
}

type roundResultTableModel struct {
	LeaguePublicID string         `db:"league_public_id"`
	RoundPublicID  string         `db:"round_public_id"`
	UserID         string         `db:"user_id"`
	SeasonID       string         `db:"season_id"`
	RoundNumber    int            `db:"round_number"`
	RoundStartsAt  time.Time      `db:"round_starts_at"`
	BasePoints     int            `db:"base_points"`
	FinalPoints    int            `db:"final_points"`
	ExactScores    int            `db:"exact_scores"`
	BoostApplied   bool           `db:"boost_applied"`
	BoostCode      sql.NullString `db:"boost_code"`
	Finalized      bool           `db:"finalized"`
	CalculatedAt   time.Time      `db:"calculated_at"`
}
