package postgres

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"net"

	"github.com/lib/pq"
)

const uniqueViolationCode = "23505"

func isNotFound(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}

// isUniqueViolation reports whether err is a postgres unique_violation,
// optionally restricted to one constraint name.
func isUniqueViolation(err error, constraint string) bool {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) {
		return false
	}
	if string(pqErr.Code) != uniqueViolationCode {
		return false
	}
	return constraint == "" || pqErr.Constraint == constraint
}

// unavailableClasses are SQLSTATE classes that mean the server could not
// serve the statement at all: connection exceptions, insufficient resources
// and operator intervention (shutdown, crash recovery).
var unavailableClasses = map[pq.ErrorClass]bool{
	"08": true,
	"53": true,
	"57": true,
}

// IsUnavailable reports whether err means postgres itself is unreachable or
// refusing work, as opposed to rejecting this particular statement.
func IsUnavailable(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, driver.ErrBadConn) || errors.Is(err, sql.ErrConnDone) || errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return unavailableClasses[pqErr.Code.Class()]
	}
	var netErr net.Error
	return errors.As(err, &netErr)
}

func nullableInt(v *int) sql.NullInt64 {
	if v == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*v), Valid: true}
}

func nullInt64ToIntPtr(v sql.NullInt64) *int {
	if !v.Valid {
		return nil
	}
	out := int(v.Int64)
	return &out
}

func nullableString(v string) sql.NullString {
	if v == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: v, Valid: true}
}
