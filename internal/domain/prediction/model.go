package prediction

import "time"

// Prediction is one user's forecast for one match. There is at most one live
// prediction per (user, match); later submissions overwrite earlier ones.
type Prediction struct {
	UserID      string
	MatchID     string
	RoundID     string
	HomeScore   int
	AwayScore   int
	SubmittedAt time.Time
}
