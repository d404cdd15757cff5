// Package repository defines error types that are reused across multiple
// repositories. These sentinel values allow higher layers such as the
// ticketing service and the handlers to distinguish a missing record from
// a storage failure without inspecting driver errors.
package repository

import (
	"errors"

	"github.com/go-sql-driver/mysql"
)

// ErrUserNotFound is returned when no user matches the lookup.
var ErrUserNotFound = errors.New("user not found")

// ErrStadiumNotFound is returned when no stadium matches the lookup.
var ErrStadiumNotFound = errors.New("stadium not found")

// ErrTicketNotFound is returned when no ticket matches the lookup.
var ErrTicketNotFound = errors.New("ticket not found")

// ErrNationalIDExists is returned when an insert would violate the
// unique constraint on users.national_id.
var ErrNationalIDExists = errors.New("national id already exists")

// mysqlDuplicateEntry is the server error number for a unique key violation.
const mysqlDuplicateEntry = 1062

func isDuplicateEntry(err error) bool {
	var me *mysql.MySQLError
	return errors.As(err, &me) && me.Number == mysqlDuplicateEntry
}
