package leaderboard

import (
	"fmt"
	"sort"
	"testing"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/google/go-cmp/cmp"
	"github.com/riskibarqy/prediction-league/internal/domain/result"
)

func row(userID string, points, exact int, startsAt time.Time) result.RoundResult {
	return result.RoundResult{
		LeagueID:      "league-1",
		UserID:        userID,
		BasePoints:    points,
		FinalPoints:   points,
		ExactScores:   exact,
		RoundStartsAt: startsAt,
	}
}

func ranksOf(entries []Entry) map[string]int {
	out := make(map[string]int, len(entries))
	for _, e := range entries {
		out[e.UserID] = e.Rank
	}
	return out
}

func TestAggregate_CompetitionRanking(t *testing.T) {
	t.Parallel()

	sept := time.Date(2025, 9, 6, 15, 0, 0, 0, time.UTC)
	results := []result.RoundResult{
		row("A", 6, 1, sept),
		row("A", 4, 0, sept),
		row("B", 10, 2, sept),
		row("C", 5, 1, sept),
	}

	got := Aggregate(results, Query{Scope: ScopeSeason}, map[string]string{"A": "Ana", "B": "Bo", "C": "Cy"})

	want := map[string]int{"A": 1, "B": 1, "C": 3}
	if diff := cmp.Diff(want, ranksOf(got)); diff != "" {
		t.Fatalf("unexpected ranks (-want +got):\n%s", diff)
	}
	if got[0].DisplayName != "Ana" || got[0].Value != 10 {
		t.Fatalf("expected tie broken by display name, got %+v", got[0])
	}
}

func TestAggregate_DenseRanking(t *testing.T) {
	t.Parallel()

	now := time.Now()
	results := []result.RoundResult{row("A", 10, 0, now), row("B", 10, 0, now), row("C", 5, 0, now), row("D", 1, 0, now)}

	got := Aggregate(results, Query{Scope: ScopeSeason, Policy: RankingDense}, nil)
	want := map[string]int{"A": 1, "B": 1, "C": 2, "D": 3}
	if diff := cmp.Diff(want, ranksOf(got)); diff != "" {
		t.Fatalf("unexpected ranks (-want +got):\n%s", diff)
	}
	if got[0].DisplayName != "A" {
		t.Fatalf("expected user id fallback for display name, got %q", got[0].DisplayName)
	}
}

func TestAggregate_MonthAndExactScopes(t *testing.T) {
	t.Parallel()

	aug := time.Date(2025, 8, 30, 18, 0, 0, 0, time.UTC)
	sep := time.Date(2025, 9, 13, 18, 0, 0, 0, time.UTC)
	results := []result.RoundResult{
		row("A", 12, 2, aug),
		row("A", 3, 0, sep),
		row("B", 8, 1, sep),
	}
	boosted := row("C", 4, 1, sep)
	boosted.FinalPoints = 8
	boosted.BoostApplied = true
	results = append(results, boosted)

	month := Aggregate(results, Query{Scope: ScopeMonth, Month: time.Date(2025, 9, 1, 0, 0, 0, 0, time.UTC)}, nil)
	want := []Entry{
		{Rank: 1, UserID: "B", DisplayName: "B", Value: 8, Movement: MovementNew},
		{Rank: 1, UserID: "C", DisplayName: "C", Value: 8, Movement: MovementNew},
		{Rank: 3, UserID: "A", DisplayName: "A", Value: 3, Movement: MovementNew},
	}
	if diff := cmp.Diff(want, month); diff != "" {
		t.Fatalf("unexpected month board (-want +got):\n%s", diff)
	}

	exact := Aggregate(results, Query{Scope: ScopeExact}, nil)
	if exact[0].UserID != "A" || exact[0].Value != 2 || exact[0].Rank != 1 {
		t.Fatalf("unexpected exact leader: %+v", exact[0])
	}
	if exact[1].Rank != 2 || exact[2].Rank != 2 {
		t.Fatalf("expected B and C tied on rank 2, got %+v", exact)
	}
}

func TestAggregate_GeneratedInvariants(t *testing.T) {
	t.Parallel()

	faker := gofakeit.New(42)
	users := make([]string, 40)
	for i := range users {
		users[i] = fmt.Sprintf("%s-%d", faker.Username(), i)
	}

	results := make([]result.RoundResult, 0, 400)
	for i := 0; i < 400; i++ {
		results = append(results, row(users[faker.IntRange(0, len(users)-1)], faker.IntRange(0, 15), faker.IntRange(0, 3), time.Now()))
	}

	entries := Aggregate(results, Query{Scope: ScopeSeason}, nil)
	if !sort.SliceIsSorted(entries, func(i, j int) bool { return entries[i].Value > entries[j].Value }) {
		t.Fatalf("entries are not sorted by value")
	}
	for idx, e := range entries {
		higher := 0
		for _, other := range entries {
			if other.Value > e.Value {
				higher++
			}
		}
		if e.Rank != higher+1 {
			t.Fatalf("entry %d: rank=%d want %d", idx, e.Rank, higher+1)
		}
	}
}

func TestWithMovement(t *testing.T) {
	t.Parallel()

	previous := []Entry{{UserID: "A", Rank: 2}, {UserID: "B", Rank: 1}, {UserID: "C", Rank: 3}}
	current := []Entry{{UserID: "A", Rank: 1}, {UserID: "B", Rank: 2}, {UserID: "C", Rank: 3}, {UserID: "D", Rank: 4}}

	got := WithMovement(current, previous)
	movements := map[string]Movement{}
	for _, e := range got {
		movements[e.UserID] = e.Movement
	}
	want := map[string]Movement{"A": MovementUp, "B": MovementDown, "C": MovementSame, "D": MovementNew}
	if diff := cmp.Diff(want, movements); diff != "" {
		t.Fatalf("unexpected movements (-want +got):\n%s", diff)
	}
	if got[3].PreviousRank != nil {
		t.Fatalf("new entry must not carry a previous rank")
	}
	if current[0].Movement != "" {
		t.Fatalf("WithMovement must not mutate its input")
	}
}

func TestParseScopeAndPolicy(t *testing.T) {
	t.Parallel()

	if s, err := ParseScope(" month "); err != nil || s != ScopeMonth {
		t.Fatalf("ParseScope month: %v %v", s, err)
	}
	if s, err := ParseScope(""); err != nil || s != ScopeSeason {
		t.Fatalf("ParseScope default: %v %v", s, err)
	}
	if _, err := ParseScope("weekly"); err == nil {
		t.Fatalf("expected error for unknown scope")
	}
	if p, err := ParsePolicy("DENSE"); err != nil || p != RankingDense {
		t.Fatalf("ParsePolicy dense: %v %v", p, err)
	}
}
