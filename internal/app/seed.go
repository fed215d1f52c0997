package app

import (
	"context"
	"fmt"

	"github.com/riskibarqy/prediction-league/internal/infrastructure/repository/memory"
	"github.com/riskibarqy/prediction-league/internal/platform/logging"
)

// seedIfEmpty loads the demo season into storage that has no leagues for it
// yet. Existing data is never touched.
func seedIfEmpty(ctx context.Context, repos repositories, logger *logging.Logger) error {
	existing, err := repos.memberships.ListLeaguesBySeason(ctx, memory.SeasonID2026)
	if err != nil {
		return fmt.Errorf("check seed leagues: %w", err)
	}
	if len(existing) > 0 {
		logger.Info("seed skipped", "reason", "season already has leagues", "season_id", memory.SeasonID2026)
		return nil
	}

	for _, item := range memory.SeedLeagues() {
		if err := repos.memberships.CreateLeague(ctx, item); err != nil {
			return fmt.Errorf("seed league=%s: %w", item.ID, err)
		}
	}
	for _, item := range memory.SeedMembers() {
		if err := repos.memberships.AddMember(ctx, item); err != nil {
			return fmt.Errorf("seed member league=%s user=%s: %w", item.LeagueID, item.UserID, err)
		}
	}
	for _, item := range memory.SeedBoostRules() {
		if err := repos.boosts.UpsertRule(ctx, item); err != nil {
			return fmt.Errorf("seed boost rule league=%s code=%s: %w", item.LeagueID, item.Code, err)
		}
	}
	for _, item := range memory.SeedRounds() {
		_, exists, err := repos.rounds.GetByID(ctx, item.ID)
		if err != nil {
			return fmt.Errorf("seed lookup round=%s: %w", item.ID, err)
		}
		if exists {
			continue
		}
		if err := repos.rounds.Create(ctx, item); err != nil {
			return fmt.Errorf("seed round=%s: %w", item.ID, err)
		}
	}

	logger.Info("seed loaded", "season_id", memory.SeasonID2026)
	return nil
}
