package postgres

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"fmt"
	"net"
	"testing"

	"github.com/lib/pq"
	"github.com/riskibarqy/prediction-league/internal/domain/round"
)

func TestIsUniqueViolation(t *testing.T) {
	t.Run("matches unique violation on constraint", func(t *testing.T) {
		err := fmt.Errorf("insert usage: %w", &pq.Error{Code: "23505", Constraint: "boost_usages_league_round_user_key"})
		if !isUniqueViolation(err, "boost_usages_league_round_user_key") {
			t.Fatalf("expected true for unique violation")
		}
		if !isUniqueViolation(err, "") {
			t.Fatalf("expected true when constraint is not restricted")
		}
	})

	t.Run("ignores other constraint", func(t *testing.T) {
		err := &pq.Error{Code: "23505", Constraint: "rounds_pkey"}
		if isUniqueViolation(err, "boost_usages_league_round_user_key") {
			t.Fatalf("expected false for a different constraint")
		}
	})

	t.Run("ignores unrelated error", func(t *testing.T) {
		err := &pq.Error{Code: "42P01", Message: "relation rounds does not exist"}
		if isUniqueViolation(err, "") {
			t.Fatalf("expected false for unrelated error")
		}
	})
}

func TestIsNotFound(t *testing.T) {
	if !isNotFound(fmt.Errorf("get round: %w", sql.ErrNoRows)) {
		t.Fatalf("expected wrapped sql.ErrNoRows to be not found")
	}
	if isNotFound(fmt.Errorf("boom")) {
		t.Fatalf("expected false for unrelated error")
	}
}

func TestNullableHelpers(t *testing.T) {
	if nullableInt(nil).Valid {
		t.Fatalf("nil int should be NULL")
	}
	v := 3
	got := nullInt64ToIntPtr(nullableInt(&v))
	if got == nil || *got != 3 {
		t.Fatalf("expected round trip of 3, got %v", got)
	}
	if nullableString("").Valid {
		t.Fatalf("empty string should be NULL")
	}
}

func TestIsUnavailable(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{name: "nil", err: nil, want: false},
		{name: "bad conn", err: fmt.Errorf("get round: %w", driver.ErrBadConn), want: true},
		{name: "conn done", err: sql.ErrConnDone, want: true},
		{name: "deadline", err: fmt.Errorf("list rounds: %w", context.DeadlineExceeded), want: true},
		{name: "dial failure", err: fmt.Errorf("begin tx: %w", &net.OpError{Op: "dial", Net: "tcp"}), want: true},
		{name: "admin shutdown", err: &pq.Error{Code: "57P01"}, want: true},
		{name: "too many connections", err: &pq.Error{Code: "53300"}, want: true},
		{name: "connection failure", err: &pq.Error{Code: "08006"}, want: true},
		{name: "unique violation", err: &pq.Error{Code: "23505"}, want: false},
		{name: "no rows", err: sql.ErrNoRows, want: false},
		{name: "domain conflict", err: fmt.Errorf("%w: round=r1", round.ErrVersionConflict), want: false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := IsUnavailable(tc.err); got != tc.want {
				t.Fatalf("IsUnavailable(%v) = %v, want %v", tc.err, got, tc.want)
			}
		})
	}
}
