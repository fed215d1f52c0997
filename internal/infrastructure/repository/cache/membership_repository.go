package cache

import (
	"context"

	"github.com/riskibarqy/prediction-league/internal/domain/membership"
	basecache "github.com/riskibarqy/prediction-league/internal/platform/cache"
)

const membershipPrefix = "membership:"

// MembershipRepository is a read-through decorator. Writes go to next and
// then drop every cached entry of the touched league.
type MembershipRepository struct {
	next  membership.Repository
	cache *basecache.Store
}

func NewMembershipRepository(next membership.Repository, cache *basecache.Store) *MembershipRepository {
	return &MembershipRepository{next: next, cache: cache}
}

func (r *MembershipRepository) CreateLeague(ctx context.Context, league membership.League) error {
	if err := r.next.CreateLeague(ctx, league); err != nil {
		return err
	}
	r.cache.DeletePrefix(ctx, membershipPrefix+"season:")
	r.invalidateLeague(ctx, league.ID)
	return nil
}

func (r *MembershipRepository) GetLeague(ctx context.Context, leagueID string) (membership.League, bool, error) {
	v, err := r.cache.GetOrLoad(ctx, leagueKey(leagueID, "league"), func(ctx context.Context) (any, error) {
		item, exists, err := r.next.GetLeague(ctx, leagueID)
		if err != nil {
			return nil, err
		}
		return cachedLeague{value: item, exists: exists}, nil
	})
	if err != nil {
		return membership.League{}, false, err
	}

	cached, _ := v.(cachedLeague)
	return cached.value, cached.exists, nil
}

func (r *MembershipRepository) ListLeaguesBySeason(ctx context.Context, seasonID string) ([]membership.League, error) {
	v, err := r.cache.GetOrLoad(ctx, membershipPrefix+"season:"+seasonID, func(ctx context.Context) (any, error) {
		items, err := r.next.ListLeaguesBySeason(ctx, seasonID)
		if err != nil {
			return nil, err
		}
		return append([]membership.League(nil), items...), nil
	})
	if err != nil {
		return nil, err
	}

	items, _ := v.([]membership.League)
	return append([]membership.League(nil), items...), nil
}

func (r *MembershipRepository) AddMember(ctx context.Context, member membership.Member) error {
	if err := r.next.AddMember(ctx, member); err != nil {
		return err
	}
	r.invalidateLeague(ctx, member.LeagueID)
	return nil
}

func (r *MembershipRepository) ListMembers(ctx context.Context, leagueID string) ([]membership.Member, error) {
	v, err := r.cache.GetOrLoad(ctx, leagueKey(leagueID, "members"), func(ctx context.Context) (any, error) {
		items, err := r.next.ListMembers(ctx, leagueID)
		if err != nil {
			return nil, err
		}
		return append([]membership.Member(nil), items...), nil
	})
	if err != nil {
		return nil, err
	}

	items, _ := v.([]membership.Member)
	return append([]membership.Member(nil), items...), nil
}

func (r *MembershipRepository) IsMember(ctx context.Context, leagueID, userID string) (bool, error) {
	v, err := r.cache.GetOrLoad(ctx, leagueKey(leagueID, "member:"+userID), func(ctx context.Context) (any, error) {
		return r.next.IsMember(ctx, leagueID, userID)
	})
	if err != nil {
		return false, err
	}

	ok, _ := v.(bool)
	return ok, nil
}

func (r *MembershipRepository) invalidateLeague(ctx context.Context, leagueID string) {
	r.cache.DeletePrefix(ctx, membershipPrefix+"league:"+leagueID+":")
}

func leagueKey(leagueID, suffix string) string {
	return membershipPrefix + "league:" + leagueID + ":" + suffix
}

type cachedLeague struct {
	value  membership.League
	exists bool
}
