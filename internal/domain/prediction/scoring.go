package prediction

import "github.com/riskibarqy/prediction-league/internal/domain/round"

const (
	PointsExact   = 5
	PointsOutcome = 3
	PointsMiss    = 0
)

// CalculatePoints scores a prediction against the actual result: exact score
// first, then matching outcome class (home win, draw, away win).
func CalculatePoints(actualHome, actualAway, predictedHome, predictedAway int) int {
	if actualHome == predictedHome && actualAway == predictedAway {
		return PointsExact
	}
	if sign(actualHome-actualAway) == sign(predictedHome-predictedAway) {
		return PointsOutcome
	}
	return PointsMiss
}

func IsExactScore(actualHome, actualAway, predictedHome, predictedAway int) bool {
	return actualHome == predictedHome && actualAway == predictedAway
}

func sign(v int) int {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	default:
		return 0
	}
}

// Tally is one user's scored round.
type Tally struct {
	UserID      string
	Points      int
	ExactScores int
	Scored      int
}

// ScoreRound tallies every prediction against completed matches only.
// Predictions for unknown or unfinished matches are ignored.
func ScoreRound(matches []round.Match, predictions []Prediction) map[string]Tally {
	byMatch := make(map[string]round.Match, len(matches))
	for _, m := range matches {
		if !m.IsCompleted() {
			continue
		}
		byMatch[m.ID] = m
	}

	out := make(map[string]Tally)
	for _, p := range predictions {
		m, ok := byMatch[p.MatchID]
		if !ok {
			continue
		}

		tally := out[p.UserID]
		tally.UserID = p.UserID
		tally.Points += CalculatePoints(*m.HomeScore, *m.AwayScore, p.HomeScore, p.AwayScore)
		if IsExactScore(*m.HomeScore, *m.AwayScore, p.HomeScore, p.AwayScore) {
			tally.ExactScores++
		}
		tally.Scored++
		out[p.UserID] = tally
	}

	return out
}
