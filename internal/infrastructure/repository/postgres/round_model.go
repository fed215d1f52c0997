package postgres

import (
	"database/sql"
	"time"
)

type roundTableModel struct {
	ID         int64     `db:"id"`
	PublicID   string    `db:"public_id"`
	SeasonID   string    `db:"season_id"`
	Number     int       `db:"number"`
	StartsAt   time.Time `db:"starts_at"`
	DeadlineAt time.Time `db:"deadline_at"`
	Status     string    `db:"status"`
	Version    int       `db:"version"`
	CreatedAt  time.Time `db:"created_at"`
	UpdatedAt  time.Time `db:"updated_at"`
}

type roundInsertModel struct {
	PublicID   string    `db:"public_id"`
	SeasonID   string    `db:"season_id"`
	Number     int       `db:"number"`
	StartsAt   time.Time `db:"starts_at"`
	DeadlineAt time.Time `db:"deadline_at"`
	Status     string    `db:"status"`
	Version    int       `db:"version"`
	CreatedAt  time.Time `db:"created_at"`
	UpdatedAt  time.Time `db:"updated_at"`
}

type matchTableModel struct {
	ID            int64         `db:"id"`
	PublicID      string        `db:"public_id"`
	RoundPublicID string        `db:"round_public_id"`
	HomeTeamID    string        `db:"home_team_id"`
	AwayTeamID    string        `db:"away_team_id"`
	KickoffAt     time.Time     `db:"kickoff_at"`
	HomeScore     sql.NullInt64 `db:"home_score"`
	AwayScore     sql.NullInt64 `db:"away_score"`
	Status        string        `db:"status"`
	CreatedAt     time.Time     `db:"created_at"`
	UpdatedAt     time.Time     `db:"updated_at"`
}

type matchInsertModel struct {
	PublicID      string        `db:"public_id"`
	RoundPublicID string        `db:"round_public_id"`
	HomeTeamID    string        `db:"home_team_id"`
	AwayTeamID    string        `db:"away_team_id"`
	KickoffAt     time.Time     `db:"kickoff_at"`
	HomeScore     sql.NullInt64 `db:"home_score"`
	AwayScore     sql.NullInt64 `db:"away_score"`
	Status        string        `db:"status"`
}

type predictionTableModel struct {
	UserID        string    `db:"user_id"`
	MatchPublicID string    `db:"match_public_id"`
	RoundPublicID string    `db:"round_public_id"`
	HomeScore     int       `db:"home_score"`
	AwayScore     int       `db:"away_score"`
	SubmittedAt   time.Time `db:"submitted_at"`
}
