package membership

import (
	"context"

	"github.com/cockroachdb/errors"
)

var ErrDuplicateLeague = errors.New("league already exists")

type Repository interface {
	CreateLeague(ctx context.Context, league League) error
	GetLeague(ctx context.Context, leagueID string) (League, bool, error)
	ListLeaguesBySeason(ctx context.Context, seasonID string) ([]League, error)
	// AddMember is idempotent per (league, user); a repeat call refreshes the
	// display name and keeps the original join time.
	AddMember(ctx context.Context, member Member) error
	ListMembers(ctx context.Context, leagueID string) ([]Member, error)
	IsMember(ctx context.Context, leagueID, userID string) (bool, error)
}
