package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/riskibarqy/prediction-league/internal/domain/round"
	roundmock "github.com/riskibarqy/prediction-league/internal/mocks/domain/round"
	"github.com/riskibarqy/prediction-league/internal/platform/logging"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestRoundService_AddMatch_LosesRaceWithPublishUsingMockery(t *testing.T) {
	t.Parallel()

	kickoff := time.Date(2026, 5, 2, 15, 0, 0, 0, time.UTC)
	tests := []struct {
		name    string
		repoErr error
		want    error
	}{
		{name: "published in between", repoErr: round.ErrNotDraft, want: ErrInvalidInput},
		{name: "version moved", repoErr: round.ErrVersionConflict, want: ErrConflict},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			repo := roundmock.NewRepository(t)
			service := NewRoundService(repo, &sequenceIDs{}, nil, logging.NewNop(), nil)

			repo.
				On("GetByID", mock.Anything, "r1").
				Return(round.Round{ID: "r1", Status: round.StatusDraft, Version: 3}, true, nil).
				Once()
			repo.
				On("AddMatch", mock.Anything, mock.MatchedBy(func(m round.Match) bool {
					return m.RoundID == "r1" && m.HomeTeamID == "home" && m.Status == round.MatchScheduled
				}), 3).
				Return(tc.repoErr).
				Once()

			_, err := service.AddMatch(context.Background(), AddMatchInput{
				RoundID:    "r1",
				HomeTeamID: "home",
				AwayTeamID: "away",
				KickoffAt:  kickoff,
			})
			require.ErrorIs(t, err, tc.want)
			require.ErrorIs(t, err, tc.repoErr)
		})
	}
}
