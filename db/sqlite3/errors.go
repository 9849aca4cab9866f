package sqlite3

import (
	"errors"

	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

// isUniqueViolation reports whether err is the driver's unique-constraint
// failure. Repositories translate it into a domain conflict error so no raw
// storage error leaks past the store layer.
func isUniqueViolation(err error) bool {
	var driverErr *sqlite.Error
	if !errors.As(err, &driverErr) {
		return false
	}

	return driverErr.Code() == sqlite3.SQLITE_CONSTRAINT_UNIQUE
}
