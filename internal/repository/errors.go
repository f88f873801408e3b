// Package repository defines the persistence layer and the sentinel errors
// reused across repositories. Handlers translate these into HTTP statuses:
// ErrEmailExists → 400, ErrUserNotFound → 401 at the auth gate,
// ErrContactNotFound → 404.
package repository

import (
	"errors"

	"github.com/go-sql-driver/mysql"
)

var (
	// ErrEmailExists is returned when registering an email that is already stored.
	ErrEmailExists = errors.New("email already exists")

	// ErrUserNotFound is returned when no user matches the lookup.
	ErrUserNotFound = errors.New("user not found")

	// ErrContactNotFound is returned when a contact does not exist or belongs
	// to another user. The two cases are deliberately indistinguishable.
	ErrContactNotFound = errors.New("contact not found")
)

// mysqlDuplicateEntry is the server error number for a unique key violation.
const mysqlDuplicateEntry = 1062

func isDuplicateKey(err error) bool {
	var myErr *mysql.MySQLError
	return errors.As(err, &myErr) && myErr.Number == mysqlDuplicateEntry
}
