package cache

import (
	"context"
	"testing"
	"time"

	"github.com/riskibarqy/prediction-league/internal/domain/boost"
	"github.com/riskibarqy/prediction-league/internal/domain/membership"
	boostmock "github.com/riskibarqy/prediction-league/internal/mocks/domain/boost"
	membershipmock "github.com/riskibarqy/prediction-league/internal/mocks/domain/membership"
	basecache "github.com/riskibarqy/prediction-league/internal/platform/cache"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestMembershipRepository_ReadThroughAndInvalidate(t *testing.T) {
	ctx := context.Background()
	next := membershipmock.NewRepository(t)
	repo := NewMembershipRepository(next, basecache.NewStore(time.Minute))

	next.On("IsMember", mock.Anything, "league-1", "alice").Return(false, nil).Once()
	next.On("AddMember", mock.Anything, mock.MatchedBy(func(m membership.Member) bool {
		return m.LeagueID == "league-1" && m.UserID == "alice"
	})).Return(nil).Once()
	next.On("IsMember", mock.Anything, "league-1", "alice").Return(true, nil).Once()

	ok, err := repo.IsMember(ctx, "league-1", "alice")
	require.NoError(t, err)
	assert.False(t, ok)

	// served from cache
	ok, err = repo.IsMember(ctx, "league-1", "alice")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, repo.AddMember(ctx, membership.Member{LeagueID: "league-1", UserID: "alice"}))

	ok, err = repo.IsMember(ctx, "league-1", "alice")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestMembershipRepository_ListMembersReturnsCopy(t *testing.T) {
	ctx := context.Background()
	next := membershipmock.NewRepository(t)
	repo := NewMembershipRepository(next, basecache.NewStore(time.Minute))

	next.On("ListMembers", mock.Anything, "league-1").
		Return([]membership.Member{{LeagueID: "league-1", UserID: "alice"}}, nil).Once()

	first, err := repo.ListMembers(ctx, "league-1")
	require.NoError(t, err)
	first[0].UserID = "mallory"

	second, err := repo.ListMembers(ctx, "league-1")
	require.NoError(t, err)
	assert.Equal(t, "alice", second[0].UserID)
}

func TestMembershipRepository_CreateLeagueDropsSeasonList(t *testing.T) {
	ctx := context.Background()
	next := membershipmock.NewRepository(t)
	repo := NewMembershipRepository(next, basecache.NewStore(time.Minute))
	league := membership.League{ID: "league-2", SeasonID: "2026"}

	next.On("ListLeaguesBySeason", mock.Anything, "2026").Return([]membership.League{}, nil).Once()
	next.On("CreateLeague", mock.Anything, league).Return(nil).Once()
	next.On("ListLeaguesBySeason", mock.Anything, "2026").Return([]membership.League{league}, nil).Once()

	items, err := repo.ListLeaguesBySeason(ctx, "2026")
	require.NoError(t, err)
	assert.Empty(t, items)

	require.NoError(t, repo.CreateLeague(ctx, league))

	items, err = repo.ListLeaguesBySeason(ctx, "2026")
	require.NoError(t, err)
	assert.Len(t, items, 1)
}

func TestBoostRepository_RulesCachedUntilUpsert(t *testing.T) {
	ctx := context.Background()
	next := boostmock.NewRepository(t)
	repo := NewBoostRepository(next, basecache.NewStore(time.Minute))

	original := boost.LeagueRule{LeagueID: "league-1", Code: "DOUBLE_DOWN", Enabled: true, TotalUsesPerSeason: 2}
	updated := original
	updated.TotalUsesPerSeason = 3

	next.On("GetRule", mock.Anything, "league-1", "DOUBLE_DOWN").Return(original, true, nil).Once()
	next.On("UpsertRule", mock.Anything, updated).Return(nil).Once()
	next.On("GetRule", mock.Anything, "league-1", "DOUBLE_DOWN").Return(updated, true, nil).Once()

	for range 2 {
		rule, ok, err := repo.GetRule(ctx, "league-1", "DOUBLE_DOWN")
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, 2, rule.TotalUsesPerSeason)
	}

	require.NoError(t, repo.UpsertRule(ctx, updated))

	rule, ok, err := repo.GetRule(ctx, "league-1", "DOUBLE_DOWN")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, 3, rule.TotalUsesPerSeason)
}

func TestBoostRepository_SnapshotBypassesCache(t *testing.T) {
	ctx := context.Background()
	next := boostmock.NewRepository(t)
	repo := NewBoostRepository(next, basecache.NewStore(time.Minute))
	q := boost.SnapshotQuery{UserID: "alice", LeagueID: "league-1", Code: "DOUBLE_DOWN"}

	next.On("Snapshot", mock.Anything, q).Return(boost.UsageSnapshot{SeasonUses: 0}, nil).Once()
	next.On("Snapshot", mock.Anything, q).Return(boost.UsageSnapshot{SeasonUses: 1}, nil).Once()

	first, err := repo.Snapshot(ctx, q)
	require.NoError(t, err)
	second, err := repo.Snapshot(ctx, q)
	require.NoError(t, err)

	assert.Equal(t, 0, first.SeasonUses)
	assert.Equal(t, 1, second.SeasonUses)
}
