// Package repository holds the data access layer.  Every query that touches a
// freelancer's data takes the caller's id and filters on it, either directly
// (clients, projects) or through a join to projects (invoices, payments).
// Repositories return apperr values; raw driver errors never leave this
// package unwrapped.
package repository

import (
	"errors"

	"github.com/go-sql-driver/mysql"

	"github.com/nileshswami544-code/freelancerpayment/internal/apperr"
)

// MySQL server error numbers the repositories translate.
const (
	errDupEntry         = 1062
	errRowIsReferenced  = 1451
	errNoReferencedRow  = 1452
	errRowIsReferenced2 = 1217
	errNoReferencedRow2 = 1216
	errOutOfRange       = 1264
	errDataTooLong      = 1406
)

func mysqlCode(err error) uint16 {
	var me *mysql.MySQLError
	if errors.As(err, &me) {
		return me.Number
	}
	return 0
}

// classify turns a driver error into the application taxonomy.  Foreign key
// violations and values the column cannot hold are caller mistakes,
// everything else is a storage fault.
func classify(op string, err error) error {
	switch mysqlCode(err) {
	case errRowIsReferenced, errRowIsReferenced2:
		return apperr.Conflict("record has dependent records")
	case errNoReferencedRow, errNoReferencedRow2:
		return apperr.Validation("referenced record does not exist")
	case errOutOfRange:
		return apperr.Validation("value out of range")
	case errDataTooLong:
		return apperr.Validation("value too long")
	}
	return apperr.Storage(op, err)
}

// nullDate maps an empty date string to SQL NULL.
func nullDate(s string) any {
	if s == "" {
		return nil
	}
	return s
}

// dateCol renders a DATE column as YYYY-MM-DD, or '' when NULL.
func dateCol(col string) string {
	return "COALESCE(DATE_FORMAT(" + col + ", '%Y-%m-%d'), '')"
}
