package result

import "context"

type Repository interface {
	Get(ctx context.Context, leagueID, roundID, userID string) (RoundResult, bool, error)
	ListByLeague(ctx context.Context, leagueID string) ([]RoundResult, error)
	ListByRound(ctx context.Context, leagueID, roundID string) ([]RoundResult, error)
	ListByLeagueAndUser(ctx context.Context, leagueID, userID string) ([]RoundResult, error)
	// UpsertBase writes base points, exact scores and final points for a
	// finalized round and marks every row Finalized. It never clears a boost
	// that was already recorded.
	UpsertBase(ctx context.Context, items []RoundResult) error
}
