package memory

import (
	"time"

	"github.com/riskibarqy/prediction-league/internal/domain/boost"
	"github.com/riskibarqy/prediction-league/internal/domain/membership"
	"github.com/riskibarqy/prediction-league/internal/domain/round"
)

const (
	SeasonID2026        = "season-2026"
	LeagueIDOfficeCup   = "office-cup-2026"
	LeagueIDWeekendFive = "weekend-five-2026"
)

func SeedLeagues() []membership.League {
	created := time.Date(2026, time.January, 5, 0, 0, 0, 0, time.UTC)
	return []membership.League{
		{ID: LeagueIDOfficeCup, SeasonID: SeasonID2026, Name: "Office Cup", OwnerUserID: "user-andi", CreatedAt: created},
		{ID: LeagueIDWeekendFive, SeasonID: SeasonID2026, Name: "Weekend Five", OwnerUserID: "user-bima", CreatedAt: created},
	}
}

func SeedMembers() []membership.Member {
	joined := time.Date(2026, time.January, 6, 0, 0, 0, 0, time.UTC)
	return []membership.Member{
		{LeagueID: LeagueIDOfficeCup, UserID: "user-andi", DisplayName: "Andi", JoinedAt: joined},
		{LeagueID: LeagueIDOfficeCup, UserID: "user-bima", DisplayName: "Bima", JoinedAt: joined},
		{LeagueID: LeagueIDOfficeCup, UserID: "user-citra", DisplayName: "Citra", JoinedAt: joined},
		{LeagueID: LeagueIDWeekendFive, UserID: "user-bima", DisplayName: "Bima", JoinedAt: joined},
		{LeagueID: LeagueIDWeekendFive, UserID: "user-dewi", DisplayName: "Dewi", JoinedAt: joined},
	}
}

func SeedBoostRules() []boost.LeagueRule {
	return []boost.LeagueRule{
		{
			LeagueID:           LeagueIDOfficeCup,
			Code:               "DOUBLE_DOWN",
			Enabled:            true,
			TotalUsesPerSeason: 3,
			Windows: []boost.UsageWindow{
				{StartRound: 1, EndRound: 19, MaxUses: 2},
				{StartRound: 20, EndRound: 38, MaxUses: 1},
			},
		},
		{LeagueID: LeagueIDOfficeCup, Code: "EXACT_HUNTER", Enabled: true, TotalUsesPerSeason: 2},
		{LeagueID: LeagueIDOfficeCup, Code: "TRIPLE_DOWN", Enabled: false, TotalUsesPerSeason: 1},
		{LeagueID: LeagueIDWeekendFive, Code: "BONUS_FIVE", Enabled: true, TotalUsesPerSeason: 5},
	}
}

func SeedRounds() []round.Round {
	starts := time.Date(2026, time.August, 15, 14, 0, 0, 0, time.UTC)
	return []round.Round{
		{
			ID:         "round-2026-01",
			SeasonID:   SeasonID2026,
			Number:     1,
			StartsAt:   starts,
			DeadlineAt: starts.Add(-time.Hour),
			Status:     round.StatusDraft,
			Version:    1,
			Matches: []round.Match{
				{ID: "match-2026-01-01", RoundID: "round-2026-01", HomeTeamID: "persija", AwayTeamID: "persib", KickoffAt: starts, Status: round.MatchScheduled},
				{ID: "match-2026-01-02", RoundID: "round-2026-01", HomeTeamID: "persebaya", AwayTeamID: "bali-united", KickoffAt: starts.Add(3 * time.Hour), Status: round.MatchScheduled},
			},
			CreatedAt: starts.AddDate(0, 0, -14),
			UpdatedAt: starts.AddDate(0, 0, -14),
		},
	}
}
