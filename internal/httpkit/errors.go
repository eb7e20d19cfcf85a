package httpkit

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

// IsUndefinedTable reports a ledger query against a database that has not
// been migrated. 42P01 = undefined_table
func IsUndefinedTable(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "42P01"
	}
	return false
}

// IsConnectionFailure reports errors pgconn raises before a query reaches the server.
func IsConnectionFailure(err error) bool {
	var connErr *pgconn.ConnectError
	return errors.As(err, &connErr)
}
