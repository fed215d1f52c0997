package result

import "time"

// RoundResult is one user's score for a round inside a league.
// FinalPoints equals BasePoints until a boost is applied. A row written by a
// boost before the round is finalized holds zero points and Finalized=false;
// only finalized rows count towards standings.
type RoundResult struct {
	LeagueID      string
	SeasonID      string
	RoundID       string
	RoundNumber   int
	RoundStartsAt time.Time
	UserID        string
	BasePoints    int
	FinalPoints   int
	ExactScores   int
	BoostApplied  bool
	BoostCode     string
	Finalized     bool
	CalculatedAt  time.Time
}

func (r RoundResult) Key() string {
	return r.LeagueID + "|" + r.RoundID + "|" + r.UserID
}
