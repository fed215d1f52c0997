package leaderboard

import (
	"sort"

	"github.com/riskibarqy/prediction-league/internal/domain/result"
)

// Aggregate folds round results into ranked entries. names maps user id to
// display name; users missing from it are shown by id.
func Aggregate(results []result.RoundResult, q Query, names map[string]string) []Entry {
	totals := make(map[string]int)
	for _, row := range results {
		if !inScope(row, q) {
			continue
		}
		totals[row.UserID] += metric(row, q.Scope)
	}

	entries := make([]Entry, 0, len(totals))
	for userID, value := range totals {
		name := names[userID]
		if name == "" {
			name = userID
		}
		entries = append(entries, Entry{
			UserID:      userID,
			DisplayName: name,
			Value:       value,
			Movement:    MovementNew,
		})
	}

	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].Value != entries[j].Value {
			return entries[i].Value > entries[j].Value
		}
		if entries[i].DisplayName != entries[j].DisplayName {
			return entries[i].DisplayName < entries[j].DisplayName
		}
		return entries[i].UserID < entries[j].UserID
	})

	assignRanks(entries, q.Policy)
	return entries
}

func assignRanks(entries []Entry, policy RankingPolicy) {
	rank := 0
	for idx := range entries {
		if idx == 0 || entries[idx].Value != entries[idx-1].Value {
			if policy == RankingDense {
				rank++
			} else {
				rank = idx + 1
			}
		}
		entries[idx].Rank = rank
	}
}

// WithMovement annotates current entries with the rank each user held in
// previous. Users absent from previous are NEW.
func WithMovement(current, previous []Entry) []Entry {
	prevRank := make(map[string]int, len(previous))
	for _, entry := range previous {
		prevRank[entry.UserID] = entry.Rank
	}

	out := make([]Entry, len(current))
	copy(out, current)
	for idx := range out {
		rank, ok := prevRank[out[idx].UserID]
		if !ok || rank <= 0 {
			out[idx].PreviousRank = nil
			out[idx].Movement = MovementNew
			continue
		}
		prev := rank
		out[idx].PreviousRank = &prev
		switch {
		case out[idx].Rank < rank:
			out[idx].Movement = MovementUp
		case out[idx].Rank > rank:
			out[idx].Movement = MovementDown
		default:
			out[idx].Movement = MovementSame
		}
	}
	return out
}

func inScope(row result.RoundResult, q Query) bool {
	if q.Scope != ScopeMonth {
		return true
	}
	startsAt := row.RoundStartsAt.UTC()
	month := q.Month.UTC()
	return startsAt.Year() == month.Year() && startsAt.Month() == month.Month()
}

func metric(row result.RoundResult, scope Scope) int {
	if scope == ScopeExact {
		return row.ExactScores
	}
	return row.FinalPoints
}
