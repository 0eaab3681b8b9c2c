package mysql

import (
	"errors"

	"github.com/go-sql-driver/mysql"
)

const (
	errDuplicateEntry  = 1062
	errLockWaitTimeout = 1205
	errDeadlock        = 1213
	errRowIsReferenced = 1451
	errNoReferencedRow = 1452
)

// IsDeadlock reports lock contention the caller may resolve by retrying
// the whole transaction.
func IsDeadlock(err error) bool {
	return hasErrorNumber(err, errDeadlock, errLockWaitTimeout)
}

func IsDuplicateEntry(err error) bool {
	return hasErrorNumber(err, errDuplicateEntry)
}

// IsForeignKeyViolation covers both inserting a row whose parent is
// missing and deleting a parent that is still referenced.
func IsForeignKeyViolation(err error) bool {
	return hasErrorNumber(err, errNoReferencedRow, errRowIsReferenced)
}

func hasErrorNumber(err error, numbers ...uint16) bool {
	var mysqlErr *mysql.MySQLError
	if !errors.As(err, &mysqlErr) {
		return false
	}
	for _, n := range numbers {
		if mysqlErr.Number == n {
			return true
		}
	}
	return false
}
