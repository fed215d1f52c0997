package guarded

import (
	"context"
	"database/sql/driver"
	"fmt"
	"testing"
	"time"

	"github.com/riskibarqy/prediction-league/internal/domain/boost"
	"github.com/riskibarqy/prediction-league/internal/domain/result"
	"github.com/riskibarqy/prediction-league/internal/domain/round"
	"github.com/riskibarqy/prediction-league/internal/infrastructure/repository/memory"
	"github.com/riskibarqy/prediction-league/internal/infrastructure/repository/postgres"
	boostmock "github.com/riskibarqy/prediction-league/internal/mocks/domain/boost"
	roundmock "github.com/riskibarqy/prediction-league/internal/mocks/domain/round"
	"github.com/riskibarqy/prediction-league/internal/platform/resilience"
	"github.com/riskibarqy/prediction-league/internal/usecase"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newBreaker() *resilience.CircuitBreaker {
	return resilience.NewCircuitBreaker(
		resilience.Config{FailureThreshold: 2, OpenTimeout: time.Minute, HalfOpenMaxReq: 1},
		postgres.IsUnavailable,
		nil,
	)
}

func TestRoundRepository_OpenBreakerFailsFast(t *testing.T) {
	ctx := context.Background()
	next := roundmock.NewRepository(t)
	next.On("GetByID", mock.Anything, "r1").
		Return(round.Round{}, false, fmt.Errorf("get round: %w", driver.ErrBadConn)).
		Twice()

	breaker := newBreaker()
	repo := NewRoundRepository(next, breaker)

	for range 2 {
		_, _, err := repo.GetByID(ctx, "r1")
		require.ErrorIs(t, err, driver.ErrBadConn)
		assert.NotErrorIs(t, err, usecase.ErrDependencyUnavailable)
	}

	_, _, err := repo.GetByID(ctx, "r1")
	require.ErrorIs(t, err, usecase.ErrDependencyUnavailable)
	require.ErrorIs(t, err, resilience.ErrCircuitOpen)
	assert.Equal(t, resilience.StateOpen, breaker.State())
	assert.EqualValues(t, 1, breaker.Rejected())
}

func TestRoundRepository_DomainErrorsKeepBreakerClosed(t *testing.T) {
	ctx := context.Background()
	next := roundmock.NewRepository(t)
	next.On("UpdateStatus", mock.Anything, mock.Anything, 1).
		Return(fmt.Errorf("%w: round=r1", round.ErrVersionConflict)).
		Times(3)

	breaker := newBreaker()
	repo := NewRoundRepository(next, breaker)
	for range 3 {
		err := repo.UpdateStatus(ctx, round.Round{ID: "r1"}, 1)
		require.ErrorIs(t, err, round.ErrVersionConflict)
	}
	assert.Equal(t, resilience.StateClosed, breaker.State())
}

func TestBoostRepository_PassesAcceptThrough(t *testing.T) {
	ctx := context.Background()
	next := boostmock.NewRepository(t)
	next.On("RecordBoost", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(func(_ context.Context, _ boost.SnapshotQuery, _ boost.UsageSnapshot, _ boost.Usage, _ result.RoundResult, accept boost.AcceptFunc) error {
			return accept(round.Round{ID: "r1", Status: round.StatusCompleted})
		}).
		Once()

	repo := NewBoostRepository(next, newBreaker())
	err := repo.RecordBoost(ctx, boost.SnapshotQuery{RoundID: "r1"}, boost.UsageSnapshot{}, boost.Usage{}, result.RoundResult{},
		func(r round.Round) error { return round.AcceptsPredictions(r, time.Now()) })
	require.ErrorIs(t, err, round.ErrRoundClosed)
}

func TestSharedBreakerSpansRepositories(t *testing.T) {
	ctx := context.Background()
	next := roundmock.NewRepository(t)
	next.On("ListBySeason", mock.Anything, "2026").
		Return(nil, fmt.Errorf("list rounds: %w", context.DeadlineExceeded)).
		Twice()

	breaker := newBreaker()
	rounds := NewRoundRepository(next, breaker)
	for range 2 {
		_, err := rounds.ListBySeason(ctx, "2026")
		require.Error(t, err)
	}

	members := NewMembershipRepository(memory.NewMembershipRepository(nil, nil), breaker)
	_, err := members.IsMember(ctx, "league", "user")
	require.ErrorIs(t, err, usecase.ErrDependencyUnavailable)
}
