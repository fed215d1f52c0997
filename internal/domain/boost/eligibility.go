package boost

import "fmt"

type Outcome string

const (
	OutcomeNotAllowed           Outcome = "NOT_ALLOWED"
	OutcomeAlreadyUsedThisRound Outcome = "ALREADY_USED_THIS_ROUND"
	OutcomeAllowed              Outcome = "ALLOWED"
)

const (
	ReasonRoundNotInSeason  = "round is not part of this league's season"
	ReasonNotMember         = "user is not a member of this league"
	ReasonDisabled          = "boost is not enabled for this league"
	ReasonCannotBeUsed      = "boost cannot be used"
	ReasonAlreadyUsed       = "boost already used this round"
	ReasonSeasonLimit       = "season limit reached"
	ReasonNotAvailableRound = "boost is not available for this round"
	ReasonWindowLimit       = "window limit reached"
)

// EligibilityInput is everything Evaluate needs; callers build it from
// immutable snapshots.
type EligibilityInput struct {
	Enabled               bool
	TotalUsesPerSeason    int
	SeasonUses            int
	WindowUses            int
	UsedThisRound         bool
	RoundNumber           int
	Windows               []UsageWindow
	IsLeagueMember        bool
	IsRoundInLeagueSeason bool
}

// Decision is the outcome of an eligibility check. Remaining counts are only
// meaningful when Outcome is OutcomeAllowed.
type Decision struct {
	Outcome             Outcome
	Reason              string
	RemainingSeasonUses int
	RemainingWindowUses int
	Window              *UsageWindow
}

func (d Decision) Allowed() bool {
	return d.Outcome == OutcomeAllowed
}

func notAllowed(reason string) Decision {
	return Decision{Outcome: OutcomeNotAllowed, Reason: reason}
}

// NewEligibilityInput joins a rule and a usage snapshot.
func NewEligibilityInput(rule LeagueRule, snapshot UsageSnapshot, roundNumber int, isMember, inSeason bool) EligibilityInput {
	return EligibilityInput{
		Enabled:               rule.Enabled,
		TotalUsesPerSeason:    rule.TotalUsesPerSeason,
		SeasonUses:            snapshot.SeasonUses,
		WindowUses:            snapshot.WindowUses,
		UsedThisRound:         snapshot.UsedThisRound,
		RoundNumber:           roundNumber,
		Windows:               rule.Windows,
		IsLeagueMember:        isMember,
		IsRoundInLeagueSeason: inSeason,
	}
}

// Evaluate applies the eligibility checks in a fixed order; the first failing
// check decides which reason the caller sees.
func Evaluate(in EligibilityInput) Decision {
	if !in.IsRoundInLeagueSeason {
		return notAllowed(ReasonRoundNotInSeason)
	}
	if !in.IsLeagueMember {
		return notAllowed(ReasonNotMember)
	}
	if !in.Enabled {
		return notAllowed(ReasonDisabled)
	}
	if in.TotalUsesPerSeason <= 0 {
		return notAllowed(ReasonCannotBeUsed)
	}
	if in.UsedThisRound {
		return Decision{Outcome: OutcomeAlreadyUsedThisRound, Reason: ReasonAlreadyUsed}
	}
	if in.SeasonUses >= in.TotalUsesPerSeason {
		return notAllowed(ReasonSeasonLimit)
	}

	remainingSeason := max(0, in.TotalUsesPerSeason-in.SeasonUses)
	decision := Decision{
		Outcome:             OutcomeAllowed,
		RemainingSeasonUses: remainingSeason,
		RemainingWindowUses: remainingSeason,
	}

	if len(in.Windows) == 0 {
		return decision
	}

	window, ok := ActiveWindow(in.Windows, in.RoundNumber)
	if !ok {
		return notAllowed(ReasonNotAvailableRound)
	}
	if window.MaxUses <= 0 {
		return notAllowed(fmt.Sprintf("%s in rounds %d-%d", ReasonCannotBeUsed, window.StartRound, window.EndRound))
	}
	if in.WindowUses >= window.MaxUses {
		return notAllowed(ReasonWindowLimit)
	}

	decision.RemainingWindowUses = max(0, window.MaxUses-in.WindowUses)
	decision.Window = &window
	return decision
}

// ActiveWindow returns the first window containing roundNumber.
func ActiveWindow(windows []UsageWindow, roundNumber int) (UsageWindow, bool) {
	for _, w := range windows {
		if w.Contains(roundNumber) {
			return w, true
		}
	}
	return UsageWindow{}, false
}
