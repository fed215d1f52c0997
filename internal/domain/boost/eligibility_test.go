package boost

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func allowedInput() EligibilityInput {
	return EligibilityInput{
		Enabled:               true,
		TotalUsesPerSeason:    5,
		SeasonUses:            2,
		WindowUses:            1,
		RoundNumber:           4,
		Windows:               []UsageWindow{{StartRound: 1, EndRound: 10, MaxUses: 3}},
		IsLeagueMember:        true,
		IsRoundInLeagueSeason: true,
	}
}

func TestEvaluate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		mutate  func(*EligibilityInput)
		outcome Outcome
		reason  string
	}{
		{
			name:    "allowed with active window",
			mutate:  func(*EligibilityInput) {},
			outcome: OutcomeAllowed,
		},
		{
			name: "round outside league season wins over everything",
			mutate: func(in *EligibilityInput) {
				in.IsRoundInLeagueSeason = false
				in.IsLeagueMember = false
				in.Enabled = false
				in.UsedThisRound = true
			},
			outcome: OutcomeNotAllowed,
			reason:  ReasonRoundNotInSeason,
		},
		{
			name: "not a member",
			mutate: func(in *EligibilityInput) {
				in.IsLeagueMember = false
				in.Enabled = false
			},
			outcome: OutcomeNotAllowed,
			reason:  ReasonNotMember,
		},
		{
			name:    "disabled",
			mutate:  func(in *EligibilityInput) { in.Enabled = false },
			outcome: OutcomeNotAllowed,
			reason:  ReasonDisabled,
		},
		{
			name: "zero season cap",
			mutate: func(in *EligibilityInput) {
				in.TotalUsesPerSeason = 0
				in.UsedThisRound = true
			},
			outcome: OutcomeNotAllowed,
			reason:  ReasonCannotBeUsed,
		},
		{
			name:    "already used this round with capacity left",
			mutate:  func(in *EligibilityInput) { in.UsedThisRound = true },
			outcome: OutcomeAlreadyUsedThisRound,
			reason:  ReasonAlreadyUsed,
		},
		{
			name: "season limit even with window capacity",
			mutate: func(in *EligibilityInput) {
				in.TotalUsesPerSeason = 3
				in.SeasonUses = 3
				in.WindowUses = 0
			},
			outcome: OutcomeNotAllowed,
			reason:  ReasonSeasonLimit,
		},
		{
			name: "round outside every window",
			mutate: func(in *EligibilityInput) {
				in.Windows = []UsageWindow{{StartRound: 1, EndRound: 10, MaxUses: 2}}
				in.RoundNumber = 15
			},
			outcome: OutcomeNotAllowed,
			reason:  ReasonNotAvailableRound,
		},
		{
			name: "window limit reached",
			mutate: func(in *EligibilityInput) {
				in.WindowUses = 3
			},
			outcome: OutcomeNotAllowed,
			reason:  ReasonWindowLimit,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := allowedInput()
			tt.mutate(&in)

			got := Evaluate(in)
			assert.Equal(t, tt.outcome, got.Outcome)
			if tt.reason != "" {
				assert.Equal(t, tt.reason, got.Reason)
			}
		})
	}
}

func TestEvaluate_RemainingCounts(t *testing.T) {
	t.Parallel()

	got := Evaluate(allowedInput())
	require.True(t, got.Allowed())
	assert.Equal(t, 3, got.RemainingSeasonUses)
	assert.Equal(t, 2, got.RemainingWindowUses)
	require.NotNil(t, got.Window)
	assert.Equal(t, 10, got.Window.EndRound)
}

func TestEvaluate_NoWindowsMirrorsSeasonRemaining(t *testing.T) {
	t.Parallel()

	in := allowedInput()
	in.Windows = nil
	in.WindowUses = 99

	got := Evaluate(in)
	require.True(t, got.Allowed())
	assert.Equal(t, 3, got.RemainingSeasonUses)
	assert.Equal(t, 3, got.RemainingWindowUses)
	assert.Nil(t, got.Window)
}

func TestEvaluate_ZeroCapWindow(t *testing.T) {
	t.Parallel()

	in := allowedInput()
	in.Windows = []UsageWindow{{StartRound: 1, EndRound: 5, MaxUses: 0}}
	in.WindowUses = 0

	got := Evaluate(in)
	assert.Equal(t, OutcomeNotAllowed, got.Outcome)
	assert.Contains(t, got.Reason, ReasonCannotBeUsed)
}

func TestActiveWindow_FirstMatchWins(t *testing.T) {
	t.Parallel()

	windows := []UsageWindow{
		{StartRound: 1, EndRound: 10, MaxUses: 1},
		{StartRound: 5, EndRound: 20, MaxUses: 4},
	}

	got, ok := ActiveWindow(windows, 7)
	require.True(t, ok)
	assert.Equal(t, 1, got.MaxUses)

	got, ok = ActiveWindow(windows, 15)
	require.True(t, ok)
	assert.Equal(t, 4, got.MaxUses)

	_, ok = ActiveWindow(windows, 21)
	assert.False(t, ok)
}
