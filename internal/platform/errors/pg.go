package errors

import (
	stderrs "errors"

	"github.com/jackc/pgx/v5/pgconn"
)

// SQLSTATE codes a read path can expect to clear on its own
var transientStates = map[string]bool{
	"40001": true, // serialization_failure
	"40P01": true, // deadlock_detected
	"55P03": true, // lock_not_available
	"57014": true, // query_canceled, statement_timeout included
	"57P01": true, // admin_shutdown
	"57P03": true, // cannot_connect_now
	"53300": true, // too_many_connections
	"25006": true, // read_only_sql_transaction, replica promotion in progress
}

// SQLState returns the postgres SQLSTATE in err's chain, "" when there is none
func SQLState(err error) string {
	var pgErr *pgconn.PgError
	if stderrs.As(err, &pgErr) {
		return pgErr.Code
	}
	return ""
}

// Transient reports whether a postgres failure may clear on a later attempt
// connection level failures count when pgx says no bytes reached the server or the dial timed out
func Transient(err error) bool {
	if err == nil {
		return false
	}
	if state := SQLState(err); state != "" {
		return transientStates[state] || state[:2] == "08"
	}
	return pgconn.SafeToRetry(err) || pgconn.Timeout(err)
}
