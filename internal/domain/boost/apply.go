package boost

import (
	"time"

	"github.com/cockroachdb/errors"
	"github.com/riskibarqy/prediction-league/internal/domain/result"
)

var (
	ErrNotAllowed     = errors.New("boost applied without an allowed decision")
	ErrAlreadyBoosted = errors.New("round result already boosted")
	ErrUnknownEffect  = errors.New("unknown boost effect")
	ErrUsageConflict  = errors.New("boost usage changed concurrently")
)

// Apply turns an allowed decision into a boosted result plus the usage that
// must be recorded alongside it. Calling it without an allowed decision is a
// caller bug and fails with an assertion error.
func Apply(decision Decision, base result.RoundResult, code string, effect Effect, now time.Time) (result.RoundResult, Usage, error) {
	if !decision.Allowed() {
		return base, Usage{}, errors.Mark(
			errors.AssertionFailedf("apply boost %s for user=%s round=%s with outcome %s", code, base.UserID, base.RoundID, decision.Outcome),
			ErrNotAllowed,
		)
	}
	if base.BoostApplied {
		return base, Usage{}, errors.Wrapf(ErrAlreadyBoosted, "league=%s round=%s user=%s code=%s", base.LeagueID, base.RoundID, base.UserID, base.BoostCode)
	}

	final, err := effect.Transform(base.BasePoints, base.ExactScores)
	if err != nil {
		return base, Usage{}, err
	}

	code = NormalizeCode(code)
	out := base
	out.FinalPoints = final
	out.BoostApplied = true
	out.BoostCode = code

	usage := Usage{
		UserID:      base.UserID,
		LeagueID:    base.LeagueID,
		SeasonID:    base.SeasonID,
		Code:        code,
		RoundID:     base.RoundID,
		RoundNumber: base.RoundNumber,
		UsedAt:      now,
	}
	return out, usage, nil
}

// Reapply recomputes FinalPoints of an already boosted row after its base
// points changed, e.g. when a match score is corrected before completion.
func Reapply(row result.RoundResult, effect Effect) (result.RoundResult, error) {
	if !row.BoostApplied {
		row.FinalPoints = row.BasePoints
		return row, nil
	}
	final, err := effect.Transform(row.BasePoints, row.ExactScores)
	if err != nil {
		return row, err
	}
	row.FinalPoints = final
	return row, nil
}
